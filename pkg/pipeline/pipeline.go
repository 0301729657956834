// Package pipeline provides the complete string art pipeline.
//
// This package implements the prepare → optimize → render pipeline used by
// both the CLI and the HTTP API. By centralizing this logic, both entry points
// share caching, logging, defaults and validation.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Prepare: crop, resize and convert the source image to the target field
//  2. Optimize: lay out the nails and search the pull order (cached as a plan)
//  3. Render: replay the plan into the requested formats (cached per format)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Config:  config.Default(),
//	    Formats: []string{"png", "json"},
//	}
//	result, err := runner.Execute(ctx, img, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	png := result.Artifacts["png"]
//
// Re-render an existing plan at another size:
//
//	opts.Config = p.Config
//	opts.OutputSize = 1200
//	artifacts, err := runner.Render(ctx, p, opts)
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stringart/pkg/cache"
	"github.com/matzehuels/stringart/pkg/config"
	"github.com/matzehuels/stringart/pkg/errors"
	"github.com/matzehuels/stringart/pkg/plan"
	"github.com/matzehuels/stringart/pkg/render"
)

// Format constants for output formats.
const (
	FormatPNG  = "png"
	FormatJPEG = "jpeg"
	FormatSVG  = "svg"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPNG:  true,
	FormatJPEG: true,
	FormatSVG:  true,
	FormatJSON: true,
}

// Extensions maps formats to file extensions.
var Extensions = map[string]string{
	FormatPNG:  ".png",
	FormatJPEG: ".jpg",
	FormatSVG:  ".svg",
	FormatJSON: ".json",
}

// ContentTypes maps formats to MIME types.
var ContentTypes = map[string]string{
	FormatPNG:  "image/png",
	FormatJPEG: "image/jpeg",
	FormatSVG:  "image/svg+xml",
	FormatJSON: "application/json",
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	config.Config `json:"config"`

	Formats   []string `json:"formats,omitempty"`
	ShowNails bool     `json:"show_nails,omitempty"` // draw nail markers in SVG output
	Refresh   bool     `json:"refresh,omitempty"`    // ignore cached plans

	// Runtime options (not serialized)
	Logger   *log.Logger           `json:"-"`
	Progress func(percent float64) `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// ID identifies the run in logs and API responses.
	ID string

	// Plan is the optimized pull order with its nail layout.
	Plan *plan.Plan

	// PlanHash is the content hash of the serialized plan.
	PlanHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	TargetWidth  int
	TargetHeight int
	NailCount    int
	Pulls        int
	Iterations   int
	PrepareTime  time.Duration
	OptimizeTime time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	PlanHit   bool // Whether the plan came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: png, jpeg, svg, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// NormalizeFormat maps common aliases ("jpg") to their canonical format.
func NormalizeFormat(f string) string {
	if f == "jpg" {
		return FormatJPEG
	}
	return f
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults fills unset fields and validates the options.
// Fields whose zero value is meaningful (Pulls, RandomNails, OutputSize) are
// left alone. This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()
	if err := o.Config.Validate(); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetDefaults fills fields whose zero value is invalid with the defaults of
// [config.Default].
func (o *Options) SetDefaults() {
	def := config.Default()
	c := &o.Config
	if c.Background == "" {
		c.Background = def.Background
	}
	if c.ColorMode == "" {
		c.ColorMode = def.ColorMode
	}
	if c.Shape == "" {
		c.Shape = def.Shape
	}
	if c.WorkingSize == 0 {
		c.WorkingSize = def.WorkingSize
	}
	if c.NailStep == 0 {
		c.NailStep = def.NailStep
	}
	if c.StrokeStrength == 0 {
		c.StrokeStrength = def.StrokeStrength
	}
	if c.ExportStrength == 0 {
		c.ExportStrength = def.ExportStrength
	}
	if c.ScaleX == 0 {
		c.ScaleX = def.ScaleX
	}
	if c.ScaleY == 0 {
		c.ScaleY = def.ScaleY
	}
	if c.Seed == 0 {
		c.Seed = def.Seed
	}
	if c.Workers == 0 {
		c.Workers = def.Workers
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatPNG}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// PlanKeyOpts returns the cache key options for a w×h target.
func (o *Options) PlanKeyOpts(w, h int) cache.PlanKeyOpts {
	return cache.PlanKeyOpts{
		Width:       w,
		Height:      h,
		Shape:       string(o.Shape),
		NailStep:    o.NailStep,
		ScaleX:      o.ScaleX,
		ScaleY:      o.ScaleY,
		Pulls:       o.Pulls,
		RandomNails: o.RandomNails,
		Strength:    o.SignedStroke(),
		Seed:        o.Seed,
	}
}

// ArtifactKeyOpts returns the cache key options for one output format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	w, h := render.Dimensions(o.Config)
	return cache.ArtifactKeyOpts{
		Format:   format,
		Width:    w,
		Height:   h,
		Strength: o.SignedExport(),
		Markers:  o.ShowNails && format == FormatSVG,
	}
}

func (o *Options) String() string {
	return fmt.Sprintf("%s formats=%v", o.Config.String(), o.Formats)
}
