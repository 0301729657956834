package pipeline

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/stringart/pkg/cache"
	"github.com/matzehuels/stringart/pkg/observability"
	"github.com/matzehuels/stringart/pkg/plan"
	"github.com/matzehuels/stringart/pkg/preprocess"
	"github.com/matzehuels/stringart/pkg/raster"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete prepare → optimize → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, img image.Image, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		ID:        uuid.NewString(),
		Artifacts: make(map[string][]byte),
	}
	logger := r.Logger.With("run", result.ID[:8])

	if opts.ColorRequested() {
		logger.Warn("color mode rgb has no effect; output is grayscale")
	}

	// Stage 1: Prepare
	prepareStart := time.Now()
	target, err := r.Prepare(ctx, img, opts)
	if err != nil {
		return nil, fmt.Errorf("prepare: %w", err)
	}
	result.Stats.PrepareTime = time.Since(prepareStart)
	result.Stats.TargetWidth = target.Width
	result.Stats.TargetHeight = target.Height

	logger.Info("prepared target",
		"width", target.Width,
		"height", target.Height,
		"duration", result.Stats.PrepareTime)

	// Stage 2: Optimize
	optimizeStart := time.Now()
	p, planHit, err := r.OptimizeWithCacheInfo(ctx, target, opts)
	if err != nil {
		return nil, err
	}
	result.Plan = p
	result.Stats.OptimizeTime = time.Since(optimizeStart)
	result.Stats.NailCount = len(p.Nails)
	result.Stats.Pulls = p.Pulls()
	result.Stats.Iterations = p.Stats.Iterations
	result.CacheInfo.PlanHit = planHit

	if data, err := plan.Marshal(p); err == nil {
		result.PlanHash = cache.Hash(data)
	}

	logger.Info("optimized pull order",
		"nails", result.Stats.NailCount,
		"pulls", result.Stats.Pulls,
		"iterations", result.Stats.Iterations,
		"stopped", p.Stats.Stopped,
		"cached", planHit,
		"duration", result.Stats.OptimizeTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, p, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Prepare converts the source image into the target field.
func (r *Runner) Prepare(ctx context.Context, img image.Image, opts Options) (*raster.Field, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	start := time.Now()
	target, err := preprocess.Prepare(img, opts.Config)
	w, h := 0, 0
	if target != nil {
		w, h = target.Width, target.Height
	}
	observability.Pipeline().OnPrepareComplete(ctx, w, h, time.Since(start), err)
	return target, err
}

// OptimizeWithCacheInfo returns the plan for target, from cache when
// possible, and reports whether it was a cache hit.
func (r *Runner) OptimizeWithCacheInfo(ctx context.Context, target *raster.Field, opts Options) (*plan.Plan, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	cacheKey := r.Keyer.PlanKey(TargetHash(target), opts.PlanKeyOpts(target.Width, target.Height))
	hooks := observability.Cache()

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if p, err := plan.Unmarshal(data); err == nil {
				hooks.OnCacheHit(ctx, "plan")
				return p, true, nil
			}
			// Undecodable entry, recompute
		} else if err != nil {
			r.Logger.Warn("plan cache unavailable", "error", err)
		}
		hooks.OnCacheMiss(ctx, "plan")
	}

	p, err := Optimize(ctx, target, opts)
	if err != nil {
		return nil, false, err
	}

	if data, err := plan.Marshal(p); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLPlan); err != nil {
			r.Logger.Warn("could not cache plan", "error", err)
		} else {
			hooks.OnCacheSet(ctx, "plan", len(data))
		}
	}

	return p, false, nil
}

// Optimize is a convenience wrapper that calls OptimizeWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Optimize(ctx context.Context, target *raster.Field, opts Options) (*plan.Plan, error) {
	p, _, err := r.OptimizeWithCacheInfo(ctx, target, opts)
	return p, err
}

// RenderWithCacheInfo renders every requested format of p with caching and
// reports whether all artifacts came from cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, p *plan.Plan, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	planData, err := plan.Marshal(p)
	if err != nil {
		return nil, false, err
	}
	planHash := cache.Hash(planData)
	hooks := observability.Pipeline()
	cacheHooks := observability.Cache()

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(planHash, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil || !hit {
			break
		}
		artifacts[format] = data
	}
	if len(artifacts) == len(opts.Formats) {
		cacheHooks.OnCacheHit(ctx, "artifact")
		return artifacts, true, nil
	}
	cacheHooks.OnCacheMiss(ctx, "artifact")

	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := RenderPlan(p, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(planHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err == nil {
			cacheHooks.OnCacheSet(ctx, "artifact", len(data))
		}
	}

	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards
// the cache hit info.
func (r *Runner) Render(ctx context.Context, p *plan.Plan, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, p, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
