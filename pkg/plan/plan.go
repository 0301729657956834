// Package plan is the JSON interchange format for an optimized string art
// run: the nail layout, the pull order and the configuration that produced
// them.
//
// A plan is everything needed to render the piece again at another size or
// stroke strength without rerunning the optimizer, and to wind it by hand:
//
//	{
//	  "version": 1,
//	  "width": 300,
//	  "height": 300,
//	  "background": "light",
//	  "shape": "circle",
//	  "nails": [{"x": 299, "y": 150}, ...],
//	  "pull_order": [0, 45, 12, ...],
//	  "config": {...}
//	}
package plan

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/stringart/pkg/config"
	"github.com/matzehuels/stringart/pkg/errors"
	"github.com/matzehuels/stringart/pkg/nails"
	"github.com/matzehuels/stringart/pkg/optimize"
	"github.com/matzehuels/stringart/pkg/raster"
)

// Version is the current plan format version.
const Version = 1

// Plan is a serialized optimization result.
type Plan struct {
	Version    int               `json:"version"`
	Width      int               `json:"width"`
	Height     int               `json:"height"`
	Background config.Background `json:"background"`
	Shape      config.Shape      `json:"shape"`
	Nails      []raster.Point    `json:"nails"`
	PullOrder  []int             `json:"pull_order"`
	Config     config.Config     `json:"config"`
	Stats      Stats             `json:"stats"`
}

// Stats summarizes the optimizer run that produced a plan.
type Stats struct {
	Iterations  int     `json:"iterations"`
	Accepted    int     `json:"accepted"`
	Rejected    int     `json:"rejected"`
	Improvement float64 `json:"improvement"`
	Stopped     string  `json:"stopped,omitempty"`
}

// New builds a plan from an optimizer result on a w×h working canvas.
func New(cfg config.Config, w, h int, set nails.Set, res *optimize.Result) *Plan {
	return &Plan{
		Version:    Version,
		Width:      w,
		Height:     h,
		Background: cfg.Background,
		Shape:      cfg.Shape,
		Nails:      []raster.Point(set),
		PullOrder:  res.PullOrder,
		Config:     cfg,
		Stats: Stats{
			Iterations:  res.Iterations,
			Accepted:    res.Accepted,
			Rejected:    res.Rejected,
			Improvement: res.Improvement,
			Stopped:     string(res.Stopped),
		},
	}
}

// NailSet returns the nails as a [nails.Set].
func (p *Plan) NailSet() nails.Set { return nails.Set(p.Nails) }

// Pulls returns the number of strings in the plan.
func (p *Plan) Pulls() int { return max(0, len(p.PullOrder)-1) }

// Validate checks that the plan can be rendered.
func (p *Plan) Validate() error {
	invalid := func(format string, args ...any) error {
		return errors.New(errors.ErrCodeInvalidPlan, format, args...)
	}
	if p.Version != Version {
		return invalid("unsupported plan version %d (want %d)", p.Version, Version)
	}
	if p.Width <= 0 || p.Height <= 0 {
		return invalid("working size %dx%d is empty", p.Width, p.Height)
	}
	if len(p.Nails) == 0 {
		return invalid("plan has no nails")
	}
	if len(p.PullOrder) == 0 || p.PullOrder[0] != 0 {
		return invalid("pull order must start at nail 0")
	}
	for i, idx := range p.PullOrder {
		if idx < 0 || idx >= len(p.Nails) {
			return invalid("pull %d addresses nail %d, have %d nails", i, idx, len(p.Nails))
		}
	}
	return nil
}

// Marshal encodes the plan as indented JSON.
func Marshal(p *Plan) ([]byte, error) {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode plan: %w", err)
	}
	return data, nil
}

// Unmarshal decodes and validates a plan.
func Unmarshal(data []byte) (*Plan, error) {
	var p Plan
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPlan, err, "decode plan")
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// WriteJSON encodes the plan to w.
func WriteJSON(p *Plan, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("encode plan: %w", err)
	}
	return nil
}

// ReadJSON decodes and validates a plan from r. It does not close r.
func ReadJSON(r io.Reader) (*Plan, error) {
	var p Plan
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPlan, err, "decode plan")
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// ExportJSON writes the plan to a file at path.
func ExportJSON(p *Plan, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(p, f)
}

// ImportJSON reads a plan file.
func ImportJSON(path string) (*Plan, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "plan %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
