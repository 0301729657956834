package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/stringart/pkg/pipeline"
	"github.com/matzehuels/stringart/pkg/plan"
)

func TestProgressModel(t *testing.T) {
	cancelled := false
	m := NewProgressModel("Winding", func() { cancelled = true })

	next, cmd := m.Update(progressMsg(42))
	m = next.(ProgressModel)
	if m.Percent != 42 || cmd != nil {
		t.Errorf("Percent = %v, cmd = %v", m.Percent, cmd)
	}
	if view := m.View(); !strings.Contains(view, "42%") {
		t.Errorf("View() = %q, want percentage", view)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	m = next.(ProgressModel)
	if !cancelled || !m.cancelling {
		t.Error("ctrl+c should cancel the run")
	}
	if !strings.Contains(m.View(), "cancelling") {
		t.Error("View() should show the cancellation")
	}

	next, cmd = m.Update(doneMsg{err: context.Canceled})
	m = next.(ProgressModel)
	if cmd == nil || m.Err != context.Canceled {
		t.Errorf("doneMsg should quit with the run error, got %v", m.Err)
	}
	if m.View() != "" {
		t.Error("View() should be empty once done")
	}
}

func TestLogProgress(t *testing.T) {
	var buf bytes.Buffer
	progress := logProgress(newLogger(&buf, log.InfoLevel))

	for _, pct := range []float64{2.5, 5, 12.5, 15, 37.5, 100} {
		progress(pct)
	}

	// Lines at 12.5, 37.5 and 100.
	if got := strings.Count(buf.String(), "optimizing"); got != 3 {
		t.Errorf("logged %d lines, want 3:\n%s", got, buf.String())
	}
}

func TestSummaryTable(t *testing.T) {
	res := &pipeline.Result{
		Plan:      &plan.Plan{Stats: plan.Stats{Stopped: "budget"}},
		Artifacts: map[string][]byte{"svg": nil, "png": nil},
		Stats: pipeline.Stats{
			TargetWidth:  300,
			TargetHeight: 300,
			NailCount:    90,
			Pulls:        1500,
			Iterations:   2000,
			OptimizeTime: 3 * time.Second,
		},
		CacheInfo: pipeline.CacheInfo{PlanHit: true},
	}

	out := summaryTable(res)
	for _, want := range []string{"300×300", "90", "1500 of 2000 iterations", "budget", "png, svg", tagCached, tagFresh} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestRunWithProgressNonInteractive(t *testing.T) {
	if interactive() {
		t.Skip("stderr is a terminal")
	}
	var calls int
	res, err := runWithProgress(context.Background(), log.New(&bytes.Buffer{}), "test",
		func(ctx context.Context, progress func(float64)) (*pipeline.Result, error) {
			for pct := 10.0; pct <= 100; pct += 10 {
				progress(pct)
				calls++
			}
			return &pipeline.Result{ID: "x"}, nil
		})
	if err != nil || res.ID != "x" {
		t.Fatalf("runWithProgress() = %v, %v", res, err)
	}
	if calls != 10 {
		t.Errorf("calls = %d, want 10", calls)
	}
}
