package pipeline

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/matzehuels/stringart/pkg/cache"
	"github.com/matzehuels/stringart/pkg/nails"
	"github.com/matzehuels/stringart/pkg/observability"
	"github.com/matzehuels/stringart/pkg/optimize"
	"github.com/matzehuels/stringart/pkg/plan"
	"github.com/matzehuels/stringart/pkg/raster"
)

// Optimize lays out the nails for target and runs the optimizer. A
// cancelled run returns the context error and no plan.
func Optimize(ctx context.Context, target *raster.Field, opts Options) (*plan.Plan, error) {
	set, err := nails.Layout(target.Width, target.Height, opts.Config)
	if err != nil {
		return nil, err
	}

	oopts := optimize.OptionsFromConfig(opts.Config)
	oopts.Logger = opts.Logger
	hooks := observability.Pipeline()
	oopts.Progress = func(p float64) {
		hooks.OnOptimizeProgress(ctx, p)
		if opts.Progress != nil {
			opts.Progress(p)
		}
	}

	o, err := optimize.New(target, set, oopts)
	if err != nil {
		return nil, err
	}

	hooks.OnOptimizeStart(ctx, len(set), opts.Pulls)
	start := time.Now()
	res, err := o.Run(ctx)
	if err != nil {
		hooks.OnOptimizeComplete(ctx, res.Accepted, res.Iterations, time.Since(start), err)
		return nil, fmt.Errorf("optimize: %w", err)
	}
	hooks.OnOptimizeComplete(ctx, res.Accepted, res.Iterations, time.Since(start), nil)

	return plan.New(opts.Config, target.Width, target.Height, set, res), nil
}

// TargetHash is the content hash of a target field, exact to the last bit.
func TargetHash(f *raster.Field) string {
	buf := make([]byte, 16+8*len(f.Pix))
	binary.LittleEndian.PutUint64(buf[0:], uint64(f.Width))
	binary.LittleEndian.PutUint64(buf[8:], uint64(f.Height))
	for i, v := range f.Pix {
		binary.LittleEndian.PutUint64(buf[16+8*i:], math.Float64bits(v))
	}
	return cache.Hash(buf)
}
