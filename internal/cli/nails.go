package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stringart/pkg/config"
	"github.com/matzehuels/stringart/pkg/nails"
	"github.com/matzehuels/stringart/pkg/raster"
)

// nailsLayout is the JSON output of the nails command.
type nailsLayout struct {
	Width  int            `json:"width"`
	Height int            `json:"height"`
	Shape  config.Shape   `json:"shape"`
	Count  int            `json:"count"`
	Nails  []raster.Point `json:"nails"`
}

// nailsCommand creates the nails command printing a frame's nail layout.
func (c *CLI) nailsCommand() *cobra.Command {
	var (
		flags         configFlags
		width, height int
		asJSON        bool
	)

	cmd := &cobra.Command{
		Use:   "nails",
		Short: "Print the nail layout of a frame",
		Long: `Print the nail layout of a frame.

Nails are listed in the order the plan refers to them, in working-canvas
pixel coordinates. Width and height default to --size.

Examples:
  stringart nails --nail-step 2
  stringart nails --shape rectangle --width 400 --height 300 --nail-step 10 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			if width == 0 {
				width = cfg.WorkingSize
			}
			if height == 0 {
				height = cfg.WorkingSize
			}
			set, err := nails.Layout(width, height, cfg)
			if err != nil {
				return err
			}
			layout := nailsLayout{Width: width, Height: height, Shape: cfg.Shape, Count: set.Len(), Nails: set}
			if asJSON {
				return writeNailsJSON(cmd.OutOrStdout(), layout)
			}
			fmt.Fprintln(cmd.OutOrStdout(), nailsTable(layout))
			return nil
		},
	}

	addLayoutFlags(cmd.Flags(), &flags)
	cmd.Flags().IntVar(&width, "width", 0, "canvas width in pixels")
	cmd.Flags().IntVar(&height, "height", 0, "canvas height in pixels")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")

	return cmd
}

func writeNailsJSON(w io.Writer, layout nailsLayout) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(layout)
}

// nailsTable renders the layout as a table with a one-line caption.
func nailsTable(layout nailsLayout) string {
	rows := make([][]string, len(layout.Nails))
	for i, p := range layout.Nails {
		rows[i] = []string{strconv.Itoa(i), strconv.Itoa(p.X), strconv.Itoa(p.Y)}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorMuted).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorFaint)).
		Headers("Nail", "X", "Y").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle.Padding(0, 1)
			}
			style := lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right)
			if col == 0 {
				return style.Foreground(colorAccent)
			}
			return style.Foreground(colorValue)
		})

	caption := StyleDim.Render(fmt.Sprintf("%d nails on a %d×%d %s frame", layout.Count, layout.Width, layout.Height, layout.Shape))
	return t.Render() + "\n" + caption
}
