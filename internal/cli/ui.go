package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// =============================================================================
// Palette
// =============================================================================

var (
	colorAccent  = lipgloss.Color("36")  // teal
	colorOK      = lipgloss.Color("35")  // green
	colorWarn    = lipgloss.Color("220") // amber
	colorFail    = lipgloss.Color("167") // soft red
	colorCommand = lipgloss.Color("75")  // light blue
	colorValue   = lipgloss.Color("255")
	colorMuted   = lipgloss.Color("245")
	colorFaint   = lipgloss.Color("240")
)

var (
	// StyleTitle renders headings and the progress title.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)

	// StyleDim renders secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorFaint)

	// StyleValue renders paths and numbers.
	StyleValue = lipgloss.NewStyle().Foreground(colorValue)

	// StyleWarning renders warnings.
	StyleWarning = lipgloss.NewStyle().Foreground(colorWarn)

	styleOK        = lipgloss.NewStyle().Foreground(colorOK)
	styleFail      = lipgloss.NewStyle().Foreground(colorFail)
	styleMuted     = lipgloss.NewStyle().Foreground(colorMuted)
	styleAccent    = lipgloss.NewStyle().Foreground(colorAccent)
	styleCommand   = lipgloss.NewStyle().Foreground(colorCommand)
	styleSeparator = StyleDim.Render(" · ")
)

const (
	markOK    = "✓"
	markFail  = "✗"
	markWarn  = "!"
	markInfo  = "›"
	markFile  = "→"
	tagCached = "cached"
	tagFresh  = "fresh"
)

// console prints the human-readable result of a command. Log lines go to the
// logger on stderr; console output goes to the command's stdout so it can be
// piped or captured.
type console struct {
	w io.Writer
}

func newConsole(w io.Writer) console { return console{w: w} }

func (c console) line(s string) { fmt.Fprintln(c.w, s) }

func (c console) success(format string, args ...any) {
	c.line(styleOK.Render(markOK) + " " + fmt.Sprintf(format, args...))
}

func (c console) failure(format string, args ...any) {
	c.line(styleFail.Render(markFail) + " " + fmt.Sprintf(format, args...))
}

func (c console) warning(format string, args ...any) {
	c.line(StyleWarning.Render(markWarn) + " " + StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func (c console) info(format string, args ...any) {
	c.line(styleMuted.Render(markInfo) + " " + fmt.Sprintf(format, args...))
}

func (c console) detail(format string, args ...any) {
	c.line("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// files lists written artifacts, one per line.
func (c console) files(paths []string) {
	for _, p := range paths {
		c.line("  " + StyleDim.Render(markFile) + " " + StyleValue.Render(p))
	}
}

// stats prints run details on one line, ending with whether the result came
// from the cache.
func (c console) stats(parts []string, cached bool) {
	tag := styleMuted.Render(tagFresh)
	if cached {
		tag = styleOK.Render(tagCached)
	}
	rendered := make([]string, 0, len(parts)+1)
	for _, p := range parts {
		rendered = append(rendered, StyleDim.Render(p))
	}
	rendered = append(rendered, tag)
	c.line("  " + strings.Join(rendered, styleSeparator))
}

// hint suggests a follow-up command.
func (c console) hint(description, command string) {
	c.line(StyleDim.Render(description+":") + " " + styleCommand.Render(command))
}

func (c console) blank() { c.line("") }

// newTable returns a rounded table whose first column holds muted labels.
func newTable(headers ...string) *table.Table {
	headerStyle := lipgloss.NewStyle().Foreground(colorMuted).Bold(true).Padding(0, 1)
	labelStyle := lipgloss.NewStyle().Foreground(colorMuted).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Foreground(colorValue).Padding(0, 1)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorFaint)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return labelStyle
			}
			return cellStyle
		})
}
