// Package raster holds the pixel-level data types shared by every stage of
// the string art engine: integer points and single-channel intensity fields.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"math"
)

// Point is an integer pixel coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

// String returns the point as "(x,y)".
func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Field is a Width×Height grid of intensities in [0,1].
//
// Values are stored in a single row-major arena: the value for (x, y) lives at
// Pix[y*Width+x]. Nail coordinates are translated into buffer offsets with
// this formula everywhere, so the layout must not change.
type Field struct {
	Width  int
	Height int
	Pix    []float64
}

// NewField allocates a field filled with the given value (clamped to [0,1]).
func NewField(w, h int, fill float64) *Field {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	f := &Field{Width: w, Height: h, Pix: make([]float64, w*h)}
	if v := Clamp(fill); v != 0 {
		for i := range f.Pix {
			f.Pix[i] = v
		}
	}
	return f
}

// Empty reports whether the field has no pixels.
func (f *Field) Empty() bool {
	return f == nil || f.Width <= 0 || f.Height <= 0
}

// In reports whether p lies inside the field.
func (f *Field) In(p Point) bool {
	return p.X >= 0 && p.X < f.Width && p.Y >= 0 && p.Y < f.Height
}

// Index returns the arena offset of p, or -1 when p is out of bounds.
func (f *Field) Index(p Point) int {
	if !f.In(p) {
		return -1
	}
	return p.Y*f.Width + p.X
}

// At returns the value at p. Out-of-bounds reads return 0.
func (f *Field) At(p Point) float64 {
	i := f.Index(p)
	if i < 0 {
		return 0
	}
	return f.Pix[i]
}

// Set stores v (clamped) at p and reports whether p was in bounds.
func (f *Field) Set(p Point, v float64) bool {
	i := f.Index(p)
	if i < 0 {
		return false
	}
	f.Pix[i] = Clamp(v)
	return true
}

// Add applies delta at p with the clamp rule and reports whether p was in bounds.
func (f *Field) Add(p Point, delta float64) bool {
	i := f.Index(p)
	if i < 0 {
		return false
	}
	f.Pix[i] = Clamp(f.Pix[i] + delta)
	return true
}

// Scale multiplies every value by k, clamping the result.
func (f *Field) Scale(k float64) {
	for i, v := range f.Pix {
		f.Pix[i] = Clamp(v * k)
	}
}

// Clone returns a deep copy of the field.
func (f *Field) Clone() *Field {
	c := &Field{Width: f.Width, Height: f.Height, Pix: make([]float64, len(f.Pix))}
	copy(c.Pix, f.Pix)
	return c
}

// Bytes quantizes the field to one byte per pixel, row-major.
// It is used for content hashing and for image conversion.
func (f *Field) Bytes() []byte {
	out := make([]byte, len(f.Pix))
	for i, v := range f.Pix {
		out[i] = Quantize(v)
	}
	return out
}

// Gray converts the field to an 8-bit grayscale image.
func (f *Field) Gray() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, f.Width, f.Height))
	copy(img.Pix, f.Bytes())
	return img
}

// RGBA converts the field to an opaque RGBA image with R=G=B.
func (f *Field) RGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for i, v := range f.Pix {
		q := Quantize(v)
		o := i * 4
		img.Pix[o+0] = q
		img.Pix[o+1] = q
		img.Pix[o+2] = q
		img.Pix[o+3] = 0xff
	}
	return img
}

// ColorAt returns the gray color of p, used by image.Image adapters.
func (f *Field) ColorAt(p Point) color.Gray {
	return color.Gray{Y: Quantize(f.At(p))}
}

// Clamp limits v to [0,1].
func Clamp(v float64) float64 {
	return max(0, min(1, v))
}

// Quantize maps v in [0,1] to the nearest byte value.
func Quantize(v float64) uint8 {
	return uint8(math.Round(Clamp(v) * 255))
}
