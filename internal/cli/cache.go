package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stringart/pkg/cache"
)

// cacheCommand groups the subcommands managing the local file cache.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and clear the local plan and render cache",
		Long: `Inspect and clear the local plan and render cache.

Plans are cached per target image and layout options, renders per plan and
output options, so re-rendering a plan at a new size or format skips the
optimizer. The cache lives under $XDG_CACHE_HOME/stringart.`,
	}
	cmd.AddCommand(c.cacheInfoCommand(), c.cacheClearCommand(), c.cachePathCommand())
	return cmd
}

// openFileCache opens the local cache directory without creating it. ok is
// false when nothing has been cached yet.
func openFileCache() (fc *cache.FileCache, ok bool, err error) {
	dir, err := cacheDir()
	if err != nil {
		return nil, false, fmt.Errorf("locate cache dir: %w", err)
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, false, nil
	}
	fc, err = cache.NewFileCache(dir)
	return fc, err == nil, err
}

func (c *CLI) cacheInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the number and size of cached entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newConsole(cmd.OutOrStdout())
			fc, ok, err := openFileCache()
			if err != nil {
				return err
			}
			if !ok {
				out.info("Cache is empty")
				return nil
			}
			st, err := fc.Stats()
			if err != nil {
				return fmt.Errorf("read cache: %w", err)
			}

			out.line(newTable("Cache", "").Rows(
				[]string{"directory", fc.Dir()},
				[]string{"entries", fmt.Sprint(st.Entries)},
				[]string{"size", formatBytes(st.Bytes)},
				[]string{"expired", fmt.Sprint(st.Expired)},
			).Render())
			if st.Expired > 0 {
				out.hint("Drop expired entries", appName+" cache clear --expired")
			}
			return nil
		},
	}
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	var expiredOnly bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove cached plans and renders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newConsole(cmd.OutOrStdout())
			fc, ok, err := openFileCache()
			if err != nil {
				return err
			}
			if !ok {
				out.info("Cache is empty")
				return nil
			}

			remove, what := fc.Clear, "cached"
			if expiredOnly {
				remove, what = fc.Prune, "expired"
			}
			n, err := remove()
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			out.success("Cleared %d %s entries", n, what)
			out.detail("Directory: %s", fc.Dir())
			return nil
		},
	}
	cmd.Flags().BoolVar(&expiredOnly, "expired", false, "only remove entries past their TTL")
	return cmd
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("locate cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}

// formatBytes renders n with a binary unit, e.g. "1.5 MiB".
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
