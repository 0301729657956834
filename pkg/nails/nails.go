package nails

import (
	"math"

	"github.com/matzehuels/stringart/pkg/config"
	"github.com/matzehuels/stringart/pkg/errors"
	"github.com/matzehuels/stringart/pkg/raster"
)

// Set is an ordered, index-addressable list of nails.
type Set []raster.Point

// Len returns the number of nails.
func (s Set) Len() int { return len(s) }

// Valid reports whether i addresses a nail.
func (s Set) Valid(i int) bool { return i >= 0 && i < len(s) }

// Scale returns a copy of s with every coordinate multiplied by the per-axis
// ratio and rounded to the nearest pixel. Order is preserved.
func (s Set) Scale(xRatio, yRatio float64) Set {
	out := make(Set, len(s))
	for i, p := range s {
		out[i] = raster.Pt(round(float64(p.X)*xRatio), round(float64(p.Y)*yRatio))
	}
	return out
}

// Bounds returns the smallest rectangle containing every nail as min and max
// corners. An empty set returns zero points.
func (s Set) Bounds() (lo, hi raster.Point) {
	if len(s) == 0 {
		return
	}
	lo, hi = s[0], s[0]
	for _, p := range s[1:] {
		lo.X, lo.Y = min(lo.X, p.X), min(lo.Y, p.Y)
		hi.X, hi.Y = max(hi.X, p.X), max(hi.Y, p.Y)
	}
	return lo, hi
}

// Layout generates the nail set for a w×h working canvas.
func Layout(w, h int, cfg config.Config) (Set, error) {
	if w <= 0 || h <= 0 {
		return nil, errors.New(errors.ErrCodeEmptyLayout, "canvas %dx%d has no room for nails", w, h)
	}

	var set Set
	switch cfg.Shape {
	case config.ShapeRectangle:
		set = Rectangle(w, h, cfg.NailStep)
	case config.ShapeCircle:
		set = Circle(w, h, cfg.NailStep, cfg.ScaleX, cfg.ScaleY)
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown shape %q", cfg.Shape)
	}

	if len(set) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyLayout,
			"%s layout with step %g on %dx%d produced no nails", cfg.Shape, cfg.NailStep, w, h)
	}
	return set, nil
}

// Rectangle places nails along the perimeter of a w×h canvas, step pixels
// apart. Top/bottom pairs come first, then left/right pairs.
func Rectangle(w, h int, step float64) Set {
	if step <= 0 || w <= 0 || h <= 0 {
		return nil
	}

	var set Set
	for i := 0.0; i < float64(w); i += step {
		x := int(i)
		set = append(set, raster.Pt(x, 0), raster.Pt(x, h-1))
	}
	for i := step; i < float64(h-1); i += step {
		y := int(i)
		set = append(set, raster.Pt(0, y), raster.Pt(w-1, y))
	}
	return set
}

// Circle places floor(360/stepDeg) nails on an ellipse centered on the canvas.
// The base radius is min(w,h)/2 - 1, stretched by scaleX and scaleY along the
// respective axes. Nails that fall outside the canvas are discarded, so the
// result may be shorter than the nominal count.
func Circle(w, h int, stepDeg, scaleX, scaleY float64) Set {
	if stepDeg <= 0 || w <= 0 || h <= 0 {
		return nil
	}

	cx, cy := float64(w)/2, float64(h)/2
	base := float64(min(w, h))/2 - 1
	rx, ry := base*scaleX, base*scaleY

	count := int(math.Floor(360 / stepDeg))
	set := make(Set, 0, count)
	for i := range count {
		angle := float64(i) * 2 * math.Pi / float64(count)
		p := raster.Pt(round(cx+rx*math.Cos(angle)), round(cy+ry*math.Sin(angle)))
		if p.X < 0 || p.X >= w || p.Y < 0 || p.Y >= h {
			continue
		}
		set = append(set, p)
	}
	return set
}

// round rounds half toward positive infinity.
func round(v float64) int {
	return int(math.Floor(v + 0.5))
}
