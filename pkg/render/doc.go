// Package render replays a pull order into the final string art image.
//
// # Overview
//
// Rendering is independent from optimization: the nail set is rescaled from
// the working canvas to the output size (each axis on its own), a fresh canvas
// is filled with the background value, and every consecutive pair of the pull
// order is rasterized and stroked with the export strength. Because the export
// strength is usually much smaller than the optimizer's stroke strength, the
// visual density can be tuned without optimizing again.
//
//	w, h := render.Dimensions(cfg)
//	field, err := render.Render(order, set, 300, 300, render.OptionsFromConfig(cfg))
//	img := render.Image(field)
//
// # Formats
//
//   - [EncodePNG], [EncodeJPEG]: raster output of the rendered field
//   - [RenderSVG]: the same lines as vector strokes, one element per pull
//
// Rendering is a pure function of its inputs; encoding the same pull order
// twice yields byte-identical output.
package render
