// Package nails computes the fixed, ordered anchor points a string is wound
// around.
//
// A [Set] is an ordered slice of [raster.Point]. The index of a nail is its
// identity everywhere downstream: pull orders, plans and rendered output all
// refer to nails by index, so the generation order is load-bearing.
//
// # Frames
//
// Two frames are supported:
//
//   - [Rectangle]: walks the top and bottom edges left to right emitting a
//     top/bottom pair per step, then the left and right edges top to bottom
//     (skipping the first step-sized margin) emitting a left/right pair.
//   - [Circle]: sweeps a circle or ellipse centered on the canvas, one nail
//     every step degrees. Nails that round outside the canvas are dropped.
//
// [Layout] picks the frame from a [config.Config] and rejects layouts that end
// up empty:
//
//	set, err := nails.Layout(300, 300, cfg)
//	if err != nil {
//	    return err // errors.ErrCodeEmptyLayout
//	}
//	start := set[0]
//
// Layout generation is fully deterministic.
package nails
