package io

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/matzehuels/stringart/pkg/errors"
)

// ExportFile writes data to path through a temporary file in the same
// directory, creating parent directories as needed.
func ExportFile(path string, data []byte) error {
	if err := errors.ValidateOutputPath(path); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ArtifactPaths maps every format to base plus its extension. A base that
// already ends in one of the known extensions has it stripped first, so
// "out.png" with formats png and svg yields out.png and out.svg.
func ArtifactPaths(base string, formats []string, extensions map[string]string) map[string]string {
	ext := filepath.Ext(base)
	for _, e := range extensions {
		if strings.EqualFold(ext, e) {
			base = strings.TrimSuffix(base, ext)
			break
		}
	}

	paths := make(map[string]string, len(formats))
	for _, f := range formats {
		paths[f] = base + extensions[f]
	}
	return paths
}

// ExportArtifacts writes every artifact to its path in paths and returns the
// written paths in sorted order. Artifacts without a path are skipped.
func ExportArtifacts(artifacts map[string][]byte, paths map[string]string) ([]string, error) {
	formats := make([]string, 0, len(artifacts))
	for f := range artifacts {
		if _, ok := paths[f]; ok {
			formats = append(formats, f)
		}
	}
	slices.Sort(formats)

	written := make([]string, 0, len(formats))
	for _, f := range formats {
		if err := ExportFile(paths[f], artifacts[f]); err != nil {
			return written, err
		}
		written = append(written, paths[f])
	}
	return written, nil
}
