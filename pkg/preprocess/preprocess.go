// Package preprocess turns an arbitrary source image into the grayscale
// target field the optimizer approximates.
//
// The default path crops the largest centered square, resizes it to the
// working side length and converts it to luminance. Stretched frames (either
// scale multiplier different from 1) skip the crop and resize and use the raw
// image dimensions instead.
package preprocess

import (
	"image"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/stringart/pkg/config"
	"github.com/matzehuels/stringart/pkg/errors"
	"github.com/matzehuels/stringart/pkg/raster"
)

// Luminance weights applied to 8-bit non-premultiplied channels.
const (
	WeightR = 0.2989
	WeightG = 0.5870
	WeightB = 0.1140
)

// Attenuation scales the whole target so the optimizer slightly overshoots
// darkness.
const Attenuation = 0.9

// Prepare builds the target field for img under cfg.
func Prepare(img image.Image, cfg config.Config) (*raster.Field, error) {
	if err := check(img); err != nil {
		return nil, err
	}

	var src *image.NRGBA
	if cfg.SquareCrop() {
		if cfg.WorkingSize <= 0 {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "working_size must be positive, got %d", cfg.WorkingSize)
		}
		src = Resize(LargestSquare(img), cfg.WorkingSize)
	} else {
		src = imaging.Clone(img)
	}

	return Target(src), nil
}

// LargestSquare crops the largest square centered on the longer axis. The
// offset is floor((long-short)/2).
func LargestSquare(img image.Image) *image.NRGBA {
	b := img.Bounds()
	side := min(b.Dx(), b.Dy())
	return imaging.CropCenter(img, side, side)
}

// Resize resamples img to a side×side square with a bilinear filter.
func Resize(img image.Image, side int) *image.NRGBA {
	return imaging.Resize(img, side, side, imaging.Linear)
}

// Grayscale converts img to a luminance field in [0,1] without attenuation.
func Grayscale(img image.Image) *raster.Field {
	n := imaging.Clone(img)
	w, h := n.Rect.Dx(), n.Rect.Dy()
	f := raster.NewField(w, h, 0)
	for y := range h {
		row := n.Pix[y*n.Stride:]
		for x := range w {
			o := x * 4
			r, g, b := float64(row[o]), float64(row[o+1]), float64(row[o+2])
			f.Pix[y*w+x] = raster.Clamp((WeightR*r + WeightG*g + WeightB*b) / 255)
		}
	}
	return f
}

// Target converts img to luminance and applies [Attenuation].
func Target(img image.Image) *raster.Field {
	f := Grayscale(img)
	f.Scale(Attenuation)
	return f
}

// FromRGBA wraps a row-major buffer with four 8-bit channels per pixel as an
// image. The buffer is copied.
func FromRGBA(pix []byte, w, h int) (image.Image, error) {
	if w <= 0 || h <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidImage, "image has zero size: %dx%d", w, h)
	}
	if len(pix) != w*h*4 {
		return nil, errors.New(errors.ErrCodeInvalidImage, "pixel buffer holds %d bytes, want %d for %dx%d", len(pix), w*h*4, w, h)
	}
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	copy(img.Pix, pix)
	return img, nil
}

func check(img image.Image) error {
	if img == nil {
		return errors.New(errors.ErrCodeInvalidImage, "no image")
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return errors.New(errors.ErrCodeInvalidImage, "image has zero size: %dx%d", b.Dx(), b.Dy())
	}
	return nil
}
