package pipeline

import (
	"bytes"
	"context"
	stderrors "errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/matzehuels/stringart/pkg/cache"
	"github.com/matzehuels/stringart/pkg/config"
	"github.com/matzehuels/stringart/pkg/errors"
	"github.com/matzehuels/stringart/pkg/plan"
)

// testImage is a dark disc on a light background.
func testImage(w, h int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	cx, cy, r := w/2, h/2, min(w, h)/4
	for y := range h {
		for x := range w {
			c := color.NRGBA{240, 240, 240, 255}
			if (x-cx)*(x-cx)+(y-cy)*(y-cy) < r*r {
				c = color.NRGBA{20, 20, 20, 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func testOptions() Options {
	cfg := config.Default()
	cfg.WorkingSize = 48
	cfg.Pulls = 60
	cfg.RandomNails = 20
	cfg.NailStep = 12
	cfg.OutputSize = 96
	return Options{Config: cfg, Formats: []string{FormatPNG, FormatSVG, FormatJSON}}
}

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestExecute(t *testing.T) {
	r := newTestRunner(t)
	ctx := context.Background()

	res, err := r.Execute(ctx, testImage(80, 60), testOptions())
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	if res.ID == "" || res.PlanHash == "" {
		t.Errorf("ID/PlanHash missing: %q %q", res.ID, res.PlanHash)
	}
	if res.Stats.TargetWidth != 48 || res.Stats.TargetHeight != 48 {
		t.Errorf("target = %dx%d, want 48x48", res.Stats.TargetWidth, res.Stats.TargetHeight)
	}
	if res.Stats.NailCount != 30 {
		t.Errorf("NailCount = %d, want 30", res.Stats.NailCount)
	}
	if res.Plan.PullOrder[0] != 0 {
		t.Errorf("PullOrder[0] = %d, want 0", res.Plan.PullOrder[0])
	}
	if res.CacheInfo.PlanHit || res.CacheInfo.RenderHit {
		t.Error("first run should miss the cache")
	}

	for _, f := range []string{FormatPNG, FormatSVG, FormatJSON} {
		if len(res.Artifacts[f]) == 0 {
			t.Errorf("artifact %s is empty", f)
		}
	}
	img, err := png.Decode(bytes.NewReader(res.Artifacts[FormatPNG]))
	if err != nil {
		t.Fatalf("png.Decode() error: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 96 || b.Dy() != 96 {
		t.Errorf("png size = %v, want 96x96", b)
	}
	if _, err := plan.Unmarshal(res.Artifacts[FormatJSON]); err != nil {
		t.Errorf("json artifact is not a valid plan: %v", err)
	}

	// Second run is served from the cache and identical.
	again, err := r.Execute(ctx, testImage(80, 60), testOptions())
	if err != nil {
		t.Fatalf("second Execute() error: %v", err)
	}
	if !again.CacheInfo.PlanHit || !again.CacheInfo.RenderHit {
		t.Errorf("CacheInfo = %+v, want both hits", again.CacheInfo)
	}
	if again.ID == res.ID {
		t.Error("every run should get its own ID")
	}
	if !bytes.Equal(again.Artifacts[FormatPNG], res.Artifacts[FormatPNG]) {
		t.Error("cached png differs")
	}
}

func TestExecuteRefresh(t *testing.T) {
	r := newTestRunner(t)
	ctx := context.Background()

	if _, err := r.Execute(ctx, testImage(40, 40), testOptions()); err != nil {
		t.Fatal(err)
	}
	opts := testOptions()
	opts.Refresh = true
	res, err := r.Execute(ctx, testImage(40, 40), opts)
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.PlanHit {
		t.Error("Refresh should bypass the plan cache")
	}
}

func TestExecuteMatchesWithoutCache(t *testing.T) {
	ctx := context.Background()
	cached := newTestRunner(t)
	uncached := NewRunner(nil, nil, nil)

	a, err := cached.Execute(ctx, testImage(50, 50), testOptions())
	if err != nil {
		t.Fatal(err)
	}
	b, err := uncached.Execute(ctx, testImage(50, 50), testOptions())
	if err != nil {
		t.Fatal(err)
	}
	if a.PlanHash != b.PlanHash {
		t.Error("plan depends on the cache backend")
	}
}

func TestExecuteErrors(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	ctx := context.Background()

	if _, err := r.Execute(ctx, nil, testOptions()); !errors.Is(err, errors.ErrCodeInvalidImage) {
		t.Errorf("nil image error = %v, want INVALID_IMAGE", err)
	}

	opts := testOptions()
	opts.Formats = []string{"pdf"}
	if _, err := r.Execute(ctx, testImage(10, 10), opts); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("bad format error = %v, want INVALID_FORMAT", err)
	}

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := r.Execute(cctx, testImage(30, 30), testOptions()); !stderrors.Is(err, context.Canceled) {
		t.Errorf("cancelled run error = %v, want context.Canceled", err)
	}
}

func TestRenderPlanAtAnotherSize(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	ctx := context.Background()

	res, err := r.Execute(ctx, testImage(40, 40), testOptions())
	if err != nil {
		t.Fatal(err)
	}

	opts := Options{Config: res.Plan.Config, Formats: []string{FormatJPEG}}
	opts.OutputSize = 200
	opts.ExportStrength = 0.3
	artifacts, err := r.Render(ctx, res.Plan, opts)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if len(artifacts[FormatJPEG]) == 0 {
		t.Error("jpeg artifact is empty")
	}
}

func TestProgressIsForwarded(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	opts := testOptions()
	opts.Pulls = 100
	opts.RandomNails = 0

	var calls int
	opts.Progress = func(float64) { calls++ }
	res, err := r.Execute(context.Background(), testImage(40, 40), opts)
	if err != nil {
		t.Fatal(err)
	}
	if want := res.Stats.Iterations / 50; calls != want {
		t.Errorf("progress calls = %d, want %d", calls, want)
	}
}
