package render

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/stringart/pkg/nails"
)

// SVGOption configures RenderSVG.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	strokeWidth float64
	showNails   bool
}

// WithStrokeWidth sets the width of every string in output pixels.
func WithStrokeWidth(w float64) SVGOption { return func(r *svgRenderer) { r.strokeWidth = w } }

// WithNails draws a dot at every nail.
func WithNails() SVGOption { return func(r *svgRenderer) { r.showNails = true } }

// RenderSVG draws the pull order as vector strokes. Each line is its own
// element with opacity equal to the export strength, so overlapping strings
// darken (or lighten) the way they do in the raster output.
func RenderSVG(order []int, set nails.Set, workW, workH int, opts Options, svgOpts ...SVGOption) ([]byte, error) {
	if err := check(order, set, workW, workH, opts); err != nil {
		return nil, err
	}
	r := svgRenderer{strokeWidth: 1}
	for _, o := range svgOpts {
		o(&r)
	}

	bg, fg := "#ffffff", "#000000"
	if opts.Dark() {
		bg, fg = fg, bg
	}
	opacity := opts.Strength
	if opacity < 0 {
		opacity = -opacity
	}

	scaled := ScaleNails(set, workW, workH, opts)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n",
		opts.Width, opts.Height, opts.Width, opts.Height)
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", bg)
	fmt.Fprintf(&buf, `  <g stroke="%s" stroke-width="%g" stroke-opacity="%g" stroke-linecap="round">`+"\n",
		fg, r.strokeWidth, opacity)
	for i := 1; i < len(order); i++ {
		a, b := scaled[order[i-1]], scaled[order[i]]
		fmt.Fprintf(&buf, `    <line x1="%d" y1="%d" x2="%d" y2="%d"/>`+"\n", a.X, a.Y, b.X, b.Y)
	}
	buf.WriteString("  </g>\n")

	if r.showNails {
		fmt.Fprintf(&buf, `  <g fill="%s">`+"\n", fg)
		for _, p := range scaled {
			fmt.Fprintf(&buf, `    <circle cx="%d" cy="%d" r="%g"/>`+"\n", p.X, p.Y, r.strokeWidth)
		}
		buf.WriteString("  </g>\n")
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}
