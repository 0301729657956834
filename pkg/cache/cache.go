// Package cache stores intermediate results of the string art pipeline.
//
// Optimization is by far the most expensive stage, so plans are cached by a
// key derived from the target image hash and every option that influences
// the pull order. Rendered artifacts are cached by plan hash and render
// options.
//
// # Backends
//
//   - [NullCache]: never stores anything (caching disabled)
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: shared cache for API deployments
//   - [MongoCache]: shared cache with server-side expiry via a TTL index
//
// [Open] selects a backend from a backend string such as "file", "none",
// "redis://localhost:6379/0" or "mongodb://localhost:27017/stringart".
package cache

import (
	"context"
	"time"
)

// Default lifetimes of cached entries.
const (
	TTLPlan     = 30 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte store with per-entry expiry. Implementations must be safe
// for concurrent use.
type Cache interface {
	// Get returns the value for key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// PlanKeyOpts are the options that change the pull order.
type PlanKeyOpts struct {
	Width       int     `json:"w"`
	Height      int     `json:"h"`
	Shape       string  `json:"shape"`
	NailStep    float64 `json:"step"`
	ScaleX      float64 `json:"sx"`
	ScaleY      float64 `json:"sy"`
	Pulls       int     `json:"pulls"`
	RandomNails int     `json:"random"`
	Strength    float64 `json:"strength"`
	Seed        uint64  `json:"seed"`
}

// ArtifactKeyOpts are the options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format   string  `json:"format"`
	Width    int     `json:"w"`
	Height   int     `json:"h"`
	Strength float64 `json:"strength"`
	Markers  bool    `json:"markers,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	PlanKey(targetHash string, opts PlanKeyOpts) string
	ArtifactKey(planHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer builds unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// PlanKey returns "plan:<sha256>" over the target hash and options.
func (DefaultKeyer) PlanKey(targetHash string, opts PlanKeyOpts) string {
	return hashKey("plan", targetHash, opts)
}

// ArtifactKey returns "artifact:<sha256>" over the plan hash and options.
func (DefaultKeyer) ArtifactKey(planHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", planHash, opts)
}

var _ Keyer = DefaultKeyer{}
