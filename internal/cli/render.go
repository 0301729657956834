package cli

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	imageio "github.com/matzehuels/stringart/pkg/io"
	"github.com/matzehuels/stringart/pkg/pipeline"
	"github.com/matzehuels/stringart/pkg/plan"
	"github.com/matzehuels/stringart/pkg/render"
)

// renderCommand creates the render command for re-rendering a saved plan.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags        configFlags
		formatsStr   string
		output       string
		cacheBackend string
		showNails    bool
	)

	cmd := &cobra.Command{
		Use:   "render [plan.json]",
		Short: "Render a saved plan at another size or strength",
		Long: `Render a saved plan at another size or strength.

The render command takes a plan (written by 'generate -f json') and draws its
pull order again. The optimizer does not run, so this is cheap: use it to
produce a large print, a lighter or darker version, or an SVG with nail
markers for winding.

Examples:
  stringart render portrait.stringart.json --output-size 2400
  stringart render portrait.stringart.json -f svg --show-nails --export-strength 0.3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats := parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(formats); err != nil {
				return err
			}
			opts := pipeline.Options{Formats: formats, ShowNails: showNails}
			return c.runRender(cmd, args[0], output, cacheBackend, opts, &flags)
		},
	}

	addOutputFlags(cmd.Flags(), &flags)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output base path (default: plan path without extension)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): png (default), jpeg, svg, json (comma-separated)")
	cmd.Flags().StringVar(&cacheBackend, "cache", "", "cache backend: file (default), none, memory, redis://..., mongodb://...")
	cmd.Flags().BoolVar(&showNails, "show-nails", false, "draw nail markers in SVG output")

	return cmd
}

// runRender loads the plan, applies the output overrides and renders it.
func (c *CLI) runRender(cmd *cobra.Command, input, output, cacheBackend string, opts pipeline.Options, flags *configFlags) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	out := newConsole(cmd.OutOrStdout())
	start := time.Now()

	p, err := plan.ImportJSON(input)
	if err != nil {
		return err
	}
	logger.Debug("loaded plan", "path", input, "nails", len(p.Nails), "pulls", p.Pulls())

	opts.Config = p.Config
	flags.apply(cmd.Flags(), &opts.Config)
	if err := opts.Config.Validate(); err != nil {
		return err
	}
	opts.Logger = logger

	runner, err := c.newRunner(ctx, cacheBackend)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	w, h := render.Dimensions(opts.Config)
	var sp *spinner
	if interactive() {
		sp = startSpinner(ctx, cmd.ErrOrStderr(), fmt.Sprintf("Rendering %s at %d×%d", filepath.Base(input), w, h))
	}
	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, p, opts)
	if sp != nil {
		sp.finish()
	}
	if err != nil {
		out.failure("Render failed")
		return fmt.Errorf("render: %w", err)
	}

	base := output
	if base == "" {
		base = strings.TrimSuffix(input, filepath.Ext(input))
	}
	written, err := imageio.ExportArtifacts(artifacts, imageio.ArtifactPaths(base, opts.Formats, pipeline.Extensions))
	if err != nil {
		return err
	}
	logDone(logger, "rendered plan", start, "files", len(written), "cached", cacheHit)

	out.success("Rendered %d pulls", p.Pulls())
	out.files(written)
	out.stats([]string{fmt.Sprintf("%d×%d", w, h), fmt.Sprintf("strength %g", opts.ExportStrength)}, cacheHit)
	return nil
}
