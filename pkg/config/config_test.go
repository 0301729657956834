package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/stringart/pkg/errors"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"dark rectangle", func(c *Config) { c.Background = BackgroundDark; c.Shape = ShapeRectangle }, false},
		{"rgb accepted", func(c *Config) { c.ColorMode = ColorRGB }, false},
		{"zero pulls", func(c *Config) { c.Pulls = 0 }, false},
		{"no sampling", func(c *Config) { c.RandomNails = 0 }, false},

		{"bad background", func(c *Config) { c.Background = "grey" }, true},
		{"bad shape", func(c *Config) { c.Shape = "hexagon" }, true},
		{"bad color", func(c *Config) { c.ColorMode = "cmyk" }, true},
		{"zero working size", func(c *Config) { c.WorkingSize = 0 }, true},
		{"negative output", func(c *Config) { c.OutputSize = -1 }, true},
		{"negative pulls", func(c *Config) { c.Pulls = -5 }, true},
		{"negative random", func(c *Config) { c.RandomNails = -1 }, true},
		{"zero step", func(c *Config) { c.NailStep = 0 }, true},
		{"huge circle step", func(c *Config) { c.NailStep = 400 }, true},
		{"zero stroke", func(c *Config) { c.StrokeStrength = 0 }, true},
		{"export too large", func(c *Config) { c.ExportStrength = 1.5 }, true},
		{"zero scale", func(c *Config) { c.ScaleY = 0 }, true},
		{"no workers", func(c *Config) { c.Workers = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(&c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Validate() returned wrong code: %v", err)
			}
		})
	}
}

func TestPolarity(t *testing.T) {
	light := Default()
	if light.BackgroundValue() != 1 || light.SignedStroke() != -0.05 || light.SignedExport() != -0.1 {
		t.Errorf("light polarity = %v/%v/%v", light.BackgroundValue(), light.SignedStroke(), light.SignedExport())
	}

	dark := Default()
	dark.Background = BackgroundDark
	if dark.BackgroundValue() != 0 || dark.SignedStroke() != 0.05 || dark.SignedExport() != 0.1 {
		t.Errorf("dark polarity = %v/%v/%v", dark.BackgroundValue(), dark.SignedStroke(), dark.SignedExport())
	}
}

func TestOutputSide(t *testing.T) {
	c := Default()
	if got := c.OutputSide(); got != DefaultWorkingSize {
		t.Errorf("OutputSide() = %d, want %d", got, DefaultWorkingSize)
	}
	c.OutputSize = 900
	if got := c.OutputSide(); got != 900 {
		t.Errorf("OutputSide() = %d, want 900", got)
	}
}

func TestSquareCrop(t *testing.T) {
	c := Default()
	if !c.SquareCrop() {
		t.Error("SquareCrop() should be true for unit scales")
	}
	c.ScaleX = 1.5
	if c.SquareCrop() {
		t.Error("SquareCrop() should be false once a scale differs from 1")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
background = "Dark"
shape = "rect"
pulls = 500
random_nails = 0
nail_step = 6.0
workers = 4
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Background != BackgroundDark {
		t.Errorf("Background = %q, want dark", cfg.Background)
	}
	if cfg.Shape != ShapeRectangle {
		t.Errorf("Shape = %q, want rectangle", cfg.Shape)
	}
	if cfg.Pulls != 500 || cfg.RandomNails != 0 || cfg.NailStep != 6 || cfg.Workers != 4 {
		t.Errorf("numeric fields not decoded: %+v", cfg)
	}
	// Untouched keys keep their defaults.
	if cfg.ExportStrength != DefaultExportStrength || cfg.Seed != DefaultSeed {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "nope.toml"))
		if !errors.Is(err, errors.ErrCodeFileNotFound) {
			t.Errorf("Load() error = %v, want FILE_NOT_FOUND", err)
		}
	})

	t.Run("unknown key", func(t *testing.T) {
		path := filepath.Join(dir, "unknown.toml")
		os.WriteFile(path, []byte("pull_amount = 3\n"), 0o644)
		_, err := Load(path)
		if !errors.Is(err, errors.ErrCodeInvalidConfig) {
			t.Errorf("Load() error = %v, want INVALID_CONFIG", err)
		}
	})

	t.Run("invalid value", func(t *testing.T) {
		path := filepath.Join(dir, "invalid.toml")
		os.WriteFile(path, []byte("pulls = -1\n"), 0o644)
		_, err := Load(path)
		if !errors.Is(err, errors.ErrCodeInvalidConfig) {
			t.Errorf("Load() error = %v, want INVALID_CONFIG", err)
		}
	})

	t.Run("syntax error", func(t *testing.T) {
		path := filepath.Join(dir, "broken.toml")
		os.WriteFile(path, []byte("pulls = = 3\n"), 0o644)
		_, err := Load(path)
		if !errors.Is(err, errors.ErrCodeInvalidConfig) {
			t.Errorf("Load() error = %v, want INVALID_CONFIG", err)
		}
	})
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	got, err := DefaultPath()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/tmp/xdg", "stringart", "config.toml"); got != want {
		t.Errorf("DefaultPath() = %q, want %q", got, want)
	}
}
