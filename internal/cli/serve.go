package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stringart/internal/api"
	"github.com/matzehuels/stringart/pkg/cache"
)

// serveCommand creates the serve command running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		flags        configFlags
		addr         string
		cacheBackend string
		cacheScope   string
		timeout      time.Duration
	)
	limits := api.DefaultLimits()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the string art pipeline over HTTP",
		Long: `Serve the string art pipeline over HTTP.

Configuration flags and the config file set the defaults that each request's
config field overrides. Runs share the cache, so a shared backend such as
redis:// or mongodb:// lets several instances reuse each other's plans.

Endpoints:
  POST /v1/generate   multipart: image, config (JSON); query: format, nails
  GET  /v1/nails      query: width, height, shape, nail_step, scale_x, scale_y
  GET  /healthz
  GET  /version

Example:
  stringart serve --addr :8080 --cache redis://localhost:6379/0 --cache-scope staging`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			runner, err := c.newRunner(ctx, cacheBackend)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()
			runner.Keyer = cache.NewScopedKeyer(runner.Keyer, cacheScope)

			srv := api.New(runner, c.Logger,
				api.WithDefaults(cfg),
				api.WithLimits(limits),
				api.WithTimeout(timeout))
			return srv.ListenAndServe(ctx, addr)
		},
	}

	addConfigFlags(cmd, &flags)
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&cacheBackend, "cache", "", "cache backend: file (default), none, memory, redis://..., mongodb://...")
	cmd.Flags().StringVar(&cacheScope, "cache-scope", "", "namespace for cache keys when instances with different defaults share a backend")
	cmd.Flags().DurationVar(&timeout, "timeout", api.DefaultTimeout, "deadline of a single generate request")
	cmd.Flags().Int64Var(&limits.MaxUploadBytes, "max-upload", limits.MaxUploadBytes, "maximum upload size in bytes")
	cmd.Flags().IntVar(&limits.MaxWorkingSize, "max-size", limits.MaxWorkingSize, "maximum working size a request may ask for")
	cmd.Flags().IntVar(&limits.MaxOutputSize, "max-output-size", limits.MaxOutputSize, "maximum output size a request may ask for")
	cmd.Flags().IntVar(&limits.MaxPulls, "max-pulls", limits.MaxPulls, "maximum pulls a request may ask for")

	return cmd
}
