// Package observability lets the binary observe the pipeline, the cache and
// the HTTP API without the engine depending on any metrics or tracing
// backend.
//
// Each event category has an interface and a no-op implementation. The
// engine reads the current hooks at the point of the event; main installs
// real implementations once at startup:
//
//	observability.Register(&debugHooks{logger: logger})
//
// Register installs every hook interface its argument implements, so one
// value can observe all three categories. The engine emits events like:
//
//	observability.Pipeline().OnOptimizeStart(ctx, nails, pulls)
//	// ... optimize ...
//	observability.Pipeline().OnOptimizeComplete(ctx, accepted, iterations, duration, err)
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives the stages of a run: the target field is built,
// the optimizer winds the thread, the plan is rendered. Cached stages emit no
// start or complete events.
type PipelineHooks interface {
	OnPrepareComplete(ctx context.Context, width, height int, duration time.Duration, err error)

	OnOptimizeStart(ctx context.Context, nails, pulls int)
	// OnOptimizeProgress is called every 50 iterations with the share of the
	// pull budget spent so far, in percent.
	OnOptimizeProgress(ctx context.Context, percent float64)
	OnOptimizeComplete(ctx context.Context, accepted, iterations int, duration time.Duration, err error)

	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives plan and artifact cache lookups. keyType is "plan" or
// "artifact".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives the requests served by the API. path is the route
// pattern when one matched, otherwise the raw URL path.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, path string)
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks ignores every pipeline event.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnPrepareComplete(context.Context, int, int, time.Duration, error)  {}
func (NoopPipelineHooks) OnOptimizeStart(context.Context, int, int)                          {}
func (NoopPipelineHooks) OnOptimizeProgress(context.Context, float64)                        {}
func (NoopPipelineHooks) OnOptimizeComplete(context.Context, int, int, time.Duration, error) {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                            {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error)   {}

// NoopCacheHooks ignores every cache event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks ignores every request.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Registry
// =============================================================================

// hookSet is an immutable snapshot of the installed hooks. Readers load it
// without locking; writers swap in a modified copy.
type hookSet struct {
	pipeline PipelineHooks
	cache    CacheHooks
	http     HTTPHooks
}

var defaults = hookSet{
	pipeline: NoopPipelineHooks{},
	cache:    NoopCacheHooks{},
	http:     NoopHTTPHooks{},
}

var current atomic.Pointer[hookSet]

func init() { Reset() }

func update(fn func(*hookSet)) {
	for {
		old := current.Load()
		next := *old
		fn(&next)
		if current.CompareAndSwap(old, &next) {
			return
		}
	}
}

// Register installs h for every hook interface it implements and reports
// whether it implemented any.
func Register(h any) bool {
	p, isPipeline := h.(PipelineHooks)
	c, isCache := h.(CacheHooks)
	w, isHTTP := h.(HTTPHooks)
	update(func(s *hookSet) {
		if isPipeline {
			s.pipeline = p
		}
		if isCache {
			s.cache = c
		}
		if isHTTP {
			s.http = w
		}
	})
	return isPipeline || isCache || isHTTP
}

// SetPipelineHooks installs pipeline hooks. nil is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		update(func(s *hookSet) { s.pipeline = h })
	}
}

// SetCacheHooks installs cache hooks. nil is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		update(func(s *hookSet) { s.cache = h })
	}
}

// SetHTTPHooks installs HTTP hooks. nil is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		update(func(s *hookSet) { s.http = h })
	}
}

// Pipeline returns the installed pipeline hooks.
func Pipeline() PipelineHooks { return current.Load().pipeline }

// Cache returns the installed cache hooks.
func Cache() CacheHooks { return current.Load().cache }

// HTTP returns the installed HTTP hooks.
func HTTP() HTTPHooks { return current.Load().http }

// Reset restores the no-op hooks. Tests that install hooks defer it.
func Reset() {
	d := defaults
	current.Store(&d)
}
