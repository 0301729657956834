package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	imageio "github.com/matzehuels/stringart/pkg/io"
	"github.com/matzehuels/stringart/pkg/optimize"
	"github.com/matzehuels/stringart/pkg/pipeline"
)

// generateCommand creates the generate command running the full pipeline.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		flags        configFlags
		formatsStr   string
		output       string
		cacheBackend string
		showNails    bool
		refresh      bool
	)

	cmd := &cobra.Command{
		Use:   "generate [image]",
		Short: "Generate string art from an image",
		Long: `Generate string art from an image.

The image is cropped to a centered square (unless the frame is stretched),
converted to grayscale, and approximated by a single thread wound around the
nails of the frame. The pull order is written as a JSON plan together with
the rendered outputs.

Plans and renders are cached, so running the same image with the same
options again is instant. Use --refresh to recompute the plan.

Examples:
  stringart generate portrait.jpg
  stringart generate portrait.jpg -f png,svg,json -o out/portrait
  stringart generate portrait.jpg --background dark --pulls 4000 -j 8`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			opts := pipeline.Options{
				Config:    cfg,
				Formats:   parseFormats(formatsStr),
				ShowNails: showNails,
				Refresh:   refresh,
			}
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runGenerate(cmd, args[0], output, cacheBackend, opts)
		},
	}

	addConfigFlags(cmd, &flags)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output base path (default: <image>.stringart)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): png (default), jpeg, svg, json (comma-separated)")
	cmd.Flags().StringVar(&cacheBackend, "cache", "", "cache backend: file (default), none, memory, redis://..., mongodb://...")
	cmd.Flags().BoolVar(&showNails, "show-nails", false, "draw nail markers in SVG output")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore cached plans")

	return cmd
}

// runGenerate loads the image, runs the pipeline and writes the artifacts.
func (c *CLI) runGenerate(cmd *cobra.Command, input, output, cacheBackend string, opts pipeline.Options) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	out := newConsole(cmd.OutOrStdout())

	img, format, err := imageio.ImportImage(input)
	if err != nil {
		return err
	}
	b := img.Bounds()
	logger.Debug("loaded image", "path", input, "format", format, "width", b.Dx(), "height", b.Dy())
	if opts.ColorRequested() {
		out.warning("Color mode rgb has no effect yet; output is grayscale")
	}

	runner, err := c.newRunner(ctx, cacheBackend)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = logger
	title := fmt.Sprintf("Winding %s", filepath.Base(input))
	res, err := runWithProgress(ctx, logger, title, func(ctx context.Context, progress func(float64)) (*pipeline.Result, error) {
		opts.Progress = progress
		return runner.Execute(ctx, img, opts)
	})
	if err != nil {
		return err
	}

	base := output
	if base == "" {
		base = strings.TrimSuffix(input, filepath.Ext(input)) + ".stringart"
	}
	written, err := imageio.ExportArtifacts(res.Artifacts, imageio.ArtifactPaths(base, opts.Formats, pipeline.Extensions))
	if err != nil {
		return err
	}

	out.success("Wound %d pulls around %d nails", res.Stats.Pulls, res.Stats.NailCount)
	out.files(written)
	if res.Plan.Stats.Stopped == string(optimize.StopFailures) {
		out.detail("Stopped early: no line improved the picture %d times in a row", optimize.MaxFailures)
	}
	out.blank()
	out.line(summaryTable(res))

	if !slices.Contains(opts.Formats, pipeline.FormatJSON) {
		out.hint("Keep the pull order", fmt.Sprintf("%s generate %s -f %s,json", appName, input, strings.Join(opts.Formats, ",")))
	}
	return nil
}

// sortedKeys returns the keys of m in sorted order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
