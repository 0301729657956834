package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"

	"github.com/matzehuels/stringart/pkg/pipeline"
)

// Progress bar styles
var (
	barFilledStyle = lipgloss.NewStyle().Foreground(colorAccent)
	barEmptyStyle  = lipgloss.NewStyle().Foreground(colorFaint)
)

const (
	barWidth    = 40
	logInterval = 10.0 // percent between progress log lines
)

// interactive reports whether stderr is a terminal that can host the
// progress view.
func interactive() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// =============================================================================
// ProgressModel - Live optimization progress
// =============================================================================

type progressMsg float64

type doneMsg struct {
	result *pipeline.Result
	err    error
}

// ProgressModel is the bubbletea model shown while a run is optimizing.
type ProgressModel struct {
	Title   string
	Percent float64
	Start   time.Time
	Result  *pipeline.Result
	Err     error

	cancel     context.CancelFunc
	cancelling bool
}

// NewProgressModel creates a progress model. cancel is invoked when the user
// presses ctrl+c; the model keeps running until the run reports back.
func NewProgressModel(title string, cancel context.CancelFunc) ProgressModel {
	return ProgressModel{Title: title, Start: time.Now(), cancel: cancel}
}

func (m ProgressModel) Init() tea.Cmd {
	return nil
}

func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			if m.cancel != nil {
				m.cancel()
			}
			m.cancelling = true
		}
	case progressMsg:
		m.Percent = min(100, float64(msg))
	case doneMsg:
		m.Result, m.Err = msg.result, msg.err
		if m.Err == nil {
			m.Percent = 100
		}
		return m, tea.Quit
	}
	return m, nil
}

func (m ProgressModel) View() string {
	if m.Result != nil || m.Err != nil {
		return ""
	}

	filled := int(m.Percent / 100 * barWidth)
	bar := barFilledStyle.Render(strings.Repeat("█", filled)) +
		barEmptyStyle.Render(strings.Repeat("░", barWidth-filled))

	status := fmt.Sprintf("%3.0f%%  %s", m.Percent, time.Since(m.Start).Round(time.Second))
	if m.cancelling {
		status = StyleWarning.Render("cancelling...")
	}
	return fmt.Sprintf("%s %s\n%s %s\n", styleAccent.Render(markInfo), StyleTitle.Render(m.Title), bar, StyleDim.Render(status))
}

// runWithProgress runs fn while showing its progress. On a terminal this is
// the bubbletea view; otherwise progress is logged every logInterval percent.
func runWithProgress(ctx context.Context, logger *log.Logger, title string, fn func(ctx context.Context, progress func(float64)) (*pipeline.Result, error)) (*pipeline.Result, error) {
	if !interactive() {
		return fn(ctx, logProgress(logger))
	}

	// Info lines would tear the live view; keep warnings and debug output.
	if logger.GetLevel() == log.InfoLevel {
		logger.SetLevel(log.WarnLevel)
		defer logger.SetLevel(log.InfoLevel)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewProgressModel(title, cancel), tea.WithOutput(os.Stderr))
	go func() {
		res, err := fn(ctx, func(pct float64) { p.Send(progressMsg(pct)) })
		p.Send(doneMsg{result: res, err: err})
	}()

	final, err := p.Run()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("progress view: %w", err)
	}
	m := final.(ProgressModel)
	return m.Result, m.Err
}

// logProgress returns a progress callback that logs every logInterval percent.
func logProgress(logger *log.Logger) func(float64) {
	next := logInterval
	return func(pct float64) {
		if pct >= next {
			logger.Info("optimizing", "progress", fmt.Sprintf("%.0f%%", pct))
			for next <= pct {
				next += logInterval
			}
		}
	}
}

// =============================================================================
// Summary
// =============================================================================

// summaryTable renders the statistics of a finished run.
func summaryTable(res *pipeline.Result) string {
	s := res.Stats
	cached := func(hit bool) string {
		if hit {
			return styleOK.Render(tagCached)
		}
		return styleMuted.Render(tagFresh)
	}

	rows := [][]string{
		{"target", fmt.Sprintf("%d×%d", s.TargetWidth, s.TargetHeight), fmt.Sprint(s.PrepareTime.Round(time.Millisecond))},
		{"nails", fmt.Sprint(s.NailCount), ""},
		{"pulls", fmt.Sprintf("%d of %d iterations", s.Pulls, s.Iterations), fmt.Sprint(s.OptimizeTime.Round(time.Millisecond))},
		{"stopped", res.Plan.Stats.Stopped, cached(res.CacheInfo.PlanHit)},
		{"render", strings.Join(sortedKeys(res.Artifacts), ", "), cached(res.CacheInfo.RenderHit)},
	}

	return newTable("Stage", "Result", "Time").Rows(rows...).Render()
}
