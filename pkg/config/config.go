// Package config defines the immutable configuration record of a string art
// run and loads it from TOML files.
//
// A Config is built once (defaults, then an optional file, then command-line
// overrides) and handed to the engine, which never mutates it.
//
// # File format
//
//	background      = "light"    # light | dark
//	color_mode      = "gray"     # gray | rgb (accepted, currently no effect)
//	shape           = "circle"   # circle | rectangle
//	working_size    = 300
//	output_size     = 600
//	pulls           = 2000
//	random_nails    = 50
//	nail_step       = 4
//	stroke_strength = 0.05
//	export_strength = 0.1
//	scale_x         = 1.0
//	scale_y         = 1.0
//	seed            = 42
//	workers         = 4
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/stringart/pkg/errors"
)

// Background selects the polarity of the canvas.
type Background string

const (
	// BackgroundLight draws dark strings on a white canvas.
	BackgroundLight Background = "light"
	// BackgroundDark draws light strings on a black canvas.
	BackgroundDark Background = "dark"
)

// Shape selects the frame the nails are placed on.
type Shape string

const (
	ShapeCircle    Shape = "circle"
	ShapeRectangle Shape = "rectangle"
)

// ColorMode is accepted for compatibility but has no effect: the engine only
// synthesizes grayscale output.
type ColorMode string

const (
	ColorGray ColorMode = "gray"
	ColorRGB  ColorMode = "rgb"
)

// Defaults.
const (
	DefaultWorkingSize    = 300
	DefaultPulls          = 2000
	DefaultRandomNails    = 50
	DefaultNailStep       = 4.0
	DefaultStrokeStrength = 0.05
	DefaultExportStrength = 0.1
	DefaultSeed           = uint64(42)
	DefaultWorkers        = 1
)

// Config is the full set of options of a run.
type Config struct {
	Background     Background `toml:"background" json:"background"`
	ColorMode      ColorMode  `toml:"color_mode" json:"color_mode"`
	Shape          Shape      `toml:"shape" json:"shape"`
	WorkingSize    int        `toml:"working_size" json:"working_size"`
	OutputSize     int        `toml:"output_size" json:"output_size,omitempty"`
	Pulls          int        `toml:"pulls" json:"pulls"`
	RandomNails    int        `toml:"random_nails" json:"random_nails"`
	NailStep       float64    `toml:"nail_step" json:"nail_step"`
	StrokeStrength float64    `toml:"stroke_strength" json:"stroke_strength"`
	ExportStrength float64    `toml:"export_strength" json:"export_strength"`
	ScaleX         float64    `toml:"scale_x" json:"scale_x"`
	ScaleY         float64    `toml:"scale_y" json:"scale_y"`
	// Seed drives random candidate sampling. 0 means DefaultSeed, so seed 0
	// itself cannot be chosen.
	Seed           uint64     `toml:"seed" json:"seed"`
	Workers        int        `toml:"workers" json:"workers"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Background:     BackgroundLight,
		ColorMode:      ColorGray,
		Shape:          ShapeCircle,
		WorkingSize:    DefaultWorkingSize,
		Pulls:          DefaultPulls,
		RandomNails:    DefaultRandomNails,
		NailStep:       DefaultNailStep,
		StrokeStrength: DefaultStrokeStrength,
		ExportStrength: DefaultExportStrength,
		ScaleX:         1,
		ScaleY:         1,
		Seed:           DefaultSeed,
		Workers:        DefaultWorkers,
	}
}

// Load reads a TOML file on top of the defaults and validates the result.
// Keys the file sets that Config does not know are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, errors.New(errors.ErrCodeInvalidConfig, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// DefaultPath returns the per-user config file location
// ($XDG_CONFIG_HOME/stringart/config.toml or ~/.config/stringart/config.toml).
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "stringart", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "stringart", "config.toml"), nil
}

// Validate checks every field and returns an ErrCodeInvalidConfig error for
// the first violation.
func (c Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return errors.New(errors.ErrCodeInvalidConfig, format, args...)
	}

	switch c.Background {
	case BackgroundLight, BackgroundDark:
	default:
		return invalid("invalid background: %q (must be light or dark)", c.Background)
	}
	switch c.ColorMode {
	case ColorGray, ColorRGB:
	default:
		return invalid("invalid color_mode: %q (must be gray or rgb)", c.ColorMode)
	}
	switch c.Shape {
	case ShapeCircle, ShapeRectangle:
	default:
		return invalid("invalid shape: %q (must be circle or rectangle)", c.Shape)
	}

	if c.WorkingSize <= 0 {
		return invalid("working_size must be positive, got %d", c.WorkingSize)
	}
	if c.OutputSize < 0 {
		return invalid("output_size must not be negative, got %d", c.OutputSize)
	}
	if c.Pulls < 0 {
		return invalid("pulls must not be negative, got %d", c.Pulls)
	}
	if c.RandomNails < 0 {
		return invalid("random_nails must not be negative, got %d", c.RandomNails)
	}
	if c.NailStep <= 0 {
		return invalid("nail_step must be positive, got %g", c.NailStep)
	}
	if c.Shape == ShapeCircle && c.NailStep > 360 {
		return invalid("nail_step must be at most 360 degrees for circle frames, got %g", c.NailStep)
	}
	if c.StrokeStrength <= 0 || c.StrokeStrength > 1 {
		return invalid("stroke_strength must be in (0, 1], got %g", c.StrokeStrength)
	}
	if c.ExportStrength <= 0 || c.ExportStrength > 1 {
		return invalid("export_strength must be in (0, 1], got %g", c.ExportStrength)
	}
	if c.ScaleX <= 0 || c.ScaleY <= 0 {
		return invalid("scale_x and scale_y must be positive, got %g and %g", c.ScaleX, c.ScaleY)
	}
	if c.Workers < 1 {
		return invalid("workers must be at least 1, got %d", c.Workers)
	}
	return nil
}

// Dark reports whether the canvas starts black.
func (c Config) Dark() bool {
	return c.Background == BackgroundDark
}

// BackgroundValue is the initial intensity of every canvas.
func (c Config) BackgroundValue() float64 {
	if c.Dark() {
		return 0
	}
	return 1
}

// SignedStroke is the per-application delta used while optimizing.
func (c Config) SignedStroke() float64 {
	if c.Dark() {
		return c.StrokeStrength
	}
	return -c.StrokeStrength
}

// SignedExport is the per-application delta used when rendering the output.
func (c Config) SignedExport() float64 {
	if c.Dark() {
		return c.ExportStrength
	}
	return -c.ExportStrength
}

// OutputSide returns the output side length, falling back to WorkingSize.
func (c Config) OutputSide() int {
	if c.OutputSize > 0 {
		return c.OutputSize
	}
	return c.WorkingSize
}

// SquareCrop reports whether the source image is cropped and resized before
// optimizing. Stretched frames (either scale different from 1) keep the raw
// image dimensions instead.
func (c Config) SquareCrop() bool {
	return c.ScaleX == 1 && c.ScaleY == 1
}

// ColorRequested reports whether the inert rgb color mode was asked for.
func (c Config) ColorRequested() bool {
	return c.ColorMode == ColorRGB
}

// String summarizes the configuration on one line for logs.
func (c Config) String() string {
	return fmt.Sprintf("%s/%s size=%d pulls=%d random=%d step=%g scale=%gx%g seed=%d",
		c.Shape, c.Background, c.WorkingSize, c.Pulls, c.RandomNails, c.NailStep, c.ScaleX, c.ScaleY, c.Seed)
}

// UnmarshalText accepts case-insensitive names.
func (b *Background) UnmarshalText(text []byte) error {
	*b = Background(strings.ToLower(strings.TrimSpace(string(text))))
	return nil
}

// UnmarshalText accepts case-insensitive names and "rect" as an alias.
func (s *Shape) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	if v == "rect" {
		v = string(ShapeRectangle)
	}
	*s = Shape(v)
	return nil
}

// UnmarshalText accepts case-insensitive names.
func (m *ColorMode) UnmarshalText(text []byte) error {
	*m = ColorMode(strings.ToLower(strings.TrimSpace(string(text))))
	return nil
}
