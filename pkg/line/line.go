// Package line rasterizes straight strings between two nails.
//
// The walk is the integer Bresenham algorithm: it advances along whichever
// axis has accumulated more error and stops exactly on the target pixel, so
// it always terminates and never leaves a gap. Every touched pixel carries
// weight 1.0; fractional anti-aliased coverage is not computed.
package line

import (
	"slices"

	"github.com/matzehuels/stringart/pkg/raster"
)

// Weight is the contribution of every touched pixel.
const Weight = 1.0

// Sample is one touched pixel and its contribution weight.
type Sample struct {
	Point  raster.Point
	Weight float64
}

// Coverage is the ordered list of pixels a line passes through.
type Coverage []Sample

// Len returns the number of touched pixels.
func (c Coverage) Len() int { return len(c) }

// Points returns the touched pixels without weights.
func (c Coverage) Points() []raster.Point {
	pts := make([]raster.Point, len(c))
	for i, s := range c {
		pts[i] = s.Point
	}
	return pts
}

// Rasterize returns the coverage of the line from a to b. The first sample is
// a, the last is b, and Rasterize(b, a) yields the same pixels reversed.
func Rasterize(a, b raster.Point) Coverage {
	cov := make(Coverage, 0, Length(a, b))
	Walk(a, b, func(p raster.Point, w float64) {
		cov = append(cov, Sample{Point: p, Weight: w})
	})
	if !canonical(a, b) {
		slices.Reverse(cov)
	}
	return cov
}

// Walk visits the pixels of the line between a and b without allocating.
// Pixels are visited from the lexicographically smaller endpoint so that both
// directions touch the identical set; callers that only accumulate per-pixel
// sums do not depend on the direction.
func Walk(a, b raster.Point, fn func(p raster.Point, w float64)) {
	if !canonical(a, b) {
		a, b = b, a
	}
	bresenham(a, b, fn)
}

func bresenham(a, b raster.Point, fn func(p raster.Point, w float64)) {
	dx := abs(b.X - a.X)
	dy := abs(b.Y - a.Y)
	sx, sy := 1, 1
	if a.X >= b.X {
		sx = -1
	}
	if a.Y >= b.Y {
		sy = -1
	}

	err := dx - dy
	x, y := a.X, a.Y
	for {
		fn(raster.Point{X: x, Y: y}, Weight)
		if x == b.X && y == b.Y {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			y += sy
		}
	}
}

// canonical reports whether a precedes or equals b in (x, y) order.
func canonical(a, b raster.Point) bool {
	return a.X < b.X || (a.X == b.X && a.Y <= b.Y)
}

// Length returns the number of pixels Walk visits between a and b.
func Length(a, b raster.Point) int {
	return max(abs(b.X-a.X), abs(b.Y-a.Y)) + 1
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
