package pipeline

import (
	"github.com/matzehuels/stringart/pkg/plan"
	"github.com/matzehuels/stringart/pkg/raster"
	"github.com/matzehuels/stringart/pkg/render"
)

// RenderPlan produces every requested format for p. The raster field is
// rendered at most once and shared by the PNG and JPEG encoders.
func RenderPlan(p *plan.Plan, opts Options) (map[string][]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	ropts := render.OptionsFromConfig(opts.Config)
	set := p.NailSet()

	var field *raster.Field
	rasterize := func() (*raster.Field, error) {
		if field != nil {
			return field, nil
		}
		f, err := render.Render(p.PullOrder, set, p.Width, p.Height, ropts)
		if err != nil {
			return nil, err
		}
		field = f
		return f, nil
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var (
			data []byte
			err  error
		)
		switch format {
		case FormatPNG, FormatJPEG:
			f, ferr := rasterize()
			if ferr != nil {
				return nil, ferr
			}
			if format == FormatPNG {
				data, err = render.PNG(f)
			} else {
				data, err = render.JPEG(f)
			}
		case FormatSVG:
			var svgOpts []render.SVGOption
			if opts.ShowNails {
				svgOpts = append(svgOpts, render.WithNails())
			}
			data, err = render.RenderSVG(p.PullOrder, set, p.Width, p.Height, ropts, svgOpts...)
		case FormatJSON:
			data, err = plan.Marshal(p)
		default:
			err = ValidateFormat(format)
		}
		if err != nil {
			return nil, err
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
