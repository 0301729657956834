package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stringart/pkg/config"
	"github.com/matzehuels/stringart/pkg/pipeline"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for stringart.

Load completions for the current session:

  bash:        source <(stringart completion bash)
  zsh:         source <(stringart completion zsh)
  fish:        stringart completion fish | source
  powershell:  stringart completion powershell | Out-String | Invoke-Expression

To load them for every session, write the script to your shell's completion
directory, for example:

  stringart completion bash > /etc/bash_completion.d/stringart
  stringart completion zsh > "${fpath[1]}/_stringart"
  stringart completion fish > ~/.config/fish/completions/stringart.fish

Flag values (--shape, --background, --color, --format) complete as well.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return fmt.Errorf("unsupported shell %q", args[0])
		},
	}
}

// flagValues lists the accepted values of the enum flags.
var flagValues = map[string][]string{
	"shape":      {string(config.ShapeCircle), string(config.ShapeRectangle)},
	"background": {string(config.BackgroundLight), string(config.BackgroundDark)},
	"color":      {string(config.ColorGray), string(config.ColorRGB)},
	"format":     {pipeline.FormatPNG, pipeline.FormatJPEG, pipeline.FormatSVG, pipeline.FormatJSON},
	"log-format": {"text", "json", "logfmt"},
}

// registerCompletions attaches value completion to every enum flag defined
// on cmd or its subcommands. --format takes a comma-separated list, so it
// completes the element after the last comma.
func registerCompletions(cmd *cobra.Command) {
	for name, values := range flagValues {
		if cmd.Flags().Lookup(name) == nil && cmd.PersistentFlags().Lookup(name) == nil {
			continue
		}
		_ = cmd.RegisterFlagCompletionFunc(name, completeValues(values, name == "format"))
	}
	for _, sub := range cmd.Commands() {
		registerCompletions(sub)
	}
}

func completeValues(values []string, list bool) cobra.CompletionFunc {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		prefix := ""
		if i := strings.LastIndex(toComplete, ","); list && i >= 0 {
			prefix, toComplete = toComplete[:i+1], toComplete[i+1:]
		}
		var out []string
		for _, v := range values {
			if strings.HasPrefix(v, toComplete) {
				out = append(out, prefix+v)
			}
		}
		directive := cobra.ShellCompDirectiveNoFileComp
		if list {
			directive |= cobra.ShellCompDirectiveNoSpace
		}
		return out, directive
	}
}
