package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// ValidateOutputPath validates a path the CLI is about to write to.
//
// The validation rules are intentionally conservative:
//   - No empty paths
//   - No control characters or null bytes
//   - Maximum length of 1024 characters
//   - Must name a file, not end in a separator
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}

	const maxPathLength = 1024
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "output path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output path contains invalid characters")
		}
	}

	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, string(filepath.Separator)) {
		return New(ErrCodeInvalidPath, "output path must name a file: %q", path)
	}

	return nil
}

// imageExtensions is the set of upload extensions the decoders understand.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
	".webp": true,
}

// ValidateImageFilename validates an uploaded image filename for safety.
// It ensures the filename is a simple basename with a known image extension.
func ValidateImageFilename(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidImage, "image filename cannot be empty")
	}

	// Must be a simple filename, not a path
	if strings.ContainsAny(filename, "/\\") {
		return New(ErrCodeInvalidImage, "image filename cannot contain path separators")
	}

	for _, r := range filename {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidImage, "image filename contains invalid control characters")
		}
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !imageExtensions[ext] {
		return New(ErrCodeInvalidImage, "unsupported image extension: %q", ext)
	}

	return nil
}
