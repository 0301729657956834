package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stringart/pkg/observability"
)

// debugHooks logs pipeline and cache events at debug level.
type debugHooks struct {
	logger *log.Logger
}

// RegisterHooks installs debug-level logging hooks for pipeline, cache and
// HTTP events. Events are only visible with --verbose.
func RegisterHooks(logger *log.Logger) {
	observability.Register(&debugHooks{logger: logger.WithPrefix("hooks")})
}

func (h *debugHooks) OnPrepareComplete(_ context.Context, width, height int, d time.Duration, err error) {
	h.logger.Debug("prepare", "width", width, "height", height, "duration", d, "error", err)
}

func (h *debugHooks) OnOptimizeStart(_ context.Context, nails, pulls int) {
	h.logger.Debug("optimize start", "nails", nails, "pulls", pulls)
}

func (h *debugHooks) OnOptimizeProgress(_ context.Context, percent float64) {
	h.logger.Debug("optimize progress", "percent", percent)
}

func (h *debugHooks) OnOptimizeComplete(_ context.Context, accepted, iterations int, d time.Duration, err error) {
	h.logger.Debug("optimize complete", "accepted", accepted, "iterations", iterations, "duration", d, "error", err)
}

func (h *debugHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render start", "formats", formats)
}

func (h *debugHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.logger.Debug("render complete", "formats", formats, "duration", d, "error", err)
}

func (h *debugHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *debugHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *debugHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *debugHooks) OnRequest(_ context.Context, method, path string) {
	h.logger.Debug("request", "method", method, "path", path)
}

func (h *debugHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "path", path, "status", status, "duration", d)
}
