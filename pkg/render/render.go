package render

import (
	"image"
	"math"

	"github.com/matzehuels/stringart/pkg/config"
	"github.com/matzehuels/stringart/pkg/errors"
	"github.com/matzehuels/stringart/pkg/line"
	"github.com/matzehuels/stringart/pkg/nails"
	"github.com/matzehuels/stringart/pkg/raster"
)

// Options controls the output canvas.
type Options struct {
	Width      int
	Height     int
	Strength   float64 // signed per-stroke delta
	Background float64 // initial canvas value
}

// Dimensions returns the output size for cfg: the output side length
// stretched by ScaleX and ScaleY.
func Dimensions(cfg config.Config) (w, h int) {
	side := float64(cfg.OutputSide())
	return int(math.Round(side * cfg.ScaleX)), int(math.Round(side * cfg.ScaleY))
}

// OptionsFromConfig derives output options from a configuration.
func OptionsFromConfig(cfg config.Config) Options {
	w, h := Dimensions(cfg)
	return Options{
		Width:      w,
		Height:     h,
		Strength:   cfg.SignedExport(),
		Background: cfg.BackgroundValue(),
	}
}

// Dark reports whether strokes lighten a dark canvas.
func (o Options) Dark() bool { return o.Strength > 0 }

// ScaleNails maps nails from a workW×workH canvas onto the output canvas.
func ScaleNails(set nails.Set, workW, workH int, opts Options) nails.Set {
	return set.Scale(float64(opts.Width)/float64(workW), float64(opts.Height)/float64(workH))
}

// Render strokes every consecutive pair of order onto a new canvas. Pixels
// outside the output canvas are skipped.
func Render(order []int, set nails.Set, workW, workH int, opts Options) (*raster.Field, error) {
	if err := check(order, set, workW, workH, opts); err != nil {
		return nil, err
	}

	scaled := ScaleNails(set, workW, workH, opts)
	canvas := raster.NewField(opts.Width, opts.Height, opts.Background)
	for i := 1; i < len(order); i++ {
		for _, s := range line.Rasterize(scaled[order[i-1]], scaled[order[i]]) {
			canvas.Add(s.Point, opts.Strength*s.Weight)
		}
	}
	return canvas, nil
}

// Image converts a rendered field to an opaque image with R=G=B.
func Image(f *raster.Field) *image.RGBA {
	return f.RGBA()
}

func check(order []int, set nails.Set, workW, workH int, opts Options) error {
	if len(set) == 0 {
		return errors.New(errors.ErrCodeEmptyLayout, "nail set is empty")
	}
	if workW <= 0 || workH <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "working size %dx%d is empty", workW, workH)
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "output size %dx%d is empty", opts.Width, opts.Height)
	}
	for i, idx := range order {
		if !set.Valid(idx) {
			return errors.New(errors.ErrCodeInvalidPlan, "pull %d addresses nail %d, have %d nails", i, idx, len(set))
		}
	}
	return nil
}
