package optimize

import (
	"context"
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/stringart/pkg/config"
	"github.com/matzehuels/stringart/pkg/errors"
	"github.com/matzehuels/stringart/pkg/line"
	"github.com/matzehuels/stringart/pkg/nails"
	"github.com/matzehuels/stringart/pkg/raster"
)

const (
	// MaxFailures is the number of consecutive rejected iterations that ends
	// a run.
	MaxFailures = 3

	// ProgressEvery is the iteration cadence of progress notifications.
	ProgressEvery = 50
)

// StopReason tells why a run ended.
type StopReason string

const (
	StopBudget    StopReason = "budget"
	StopFailures  StopReason = "failures"
	StopCancelled StopReason = "cancelled"
)

// Options controls a run.
type Options struct {
	Pulls       int     // iteration budget
	RandomNails int     // candidates per iteration; 0 evaluates every nail
	Strength    float64 // signed per-stroke delta
	Background  float64 // initial canvas value
	Seed        uint64  // 0 means config.DefaultSeed
	Workers     int

	// Progress, if set, receives the completed percentage every
	// ProgressEvery iterations. It is called from the goroutine running Run.
	Progress func(percent float64)

	Logger *log.Logger
}

// OptionsFromConfig derives run options from a configuration.
func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		Pulls:       cfg.Pulls,
		RandomNails: cfg.RandomNails,
		Strength:    cfg.SignedStroke(),
		Background:  cfg.BackgroundValue(),
		Seed:        cfg.Seed,
		Workers:     cfg.Workers,
	}
}

// Result is the outcome of a run.
type Result struct {
	PullOrder   []int
	Iterations  int
	Accepted    int
	Rejected    int
	Improvement float64 // sum of accepted scores
	Canvas      *raster.Field
	Stopped     StopReason
	Duration    time.Duration
}

// Optimizer holds the immutable inputs of a run.
type Optimizer struct {
	target *raster.Field
	nails  nails.Set
	opts   Options
}

// New validates the inputs and returns an optimizer. The target is read but
// never modified.
func New(target *raster.Field, set nails.Set, opts Options) (*Optimizer, error) {
	if target.Empty() {
		return nil, errors.New(errors.ErrCodeInvalidImage, "target field is empty")
	}
	if len(target.Pix) != target.Width*target.Height {
		return nil, errors.New(errors.ErrCodeInvalidImage, "target holds %d values, want %d", len(target.Pix), target.Width*target.Height)
	}
	if len(set) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyLayout, "nail set is empty")
	}
	if opts.Pulls < 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "pulls must not be negative, got %d", opts.Pulls)
	}
	if opts.RandomNails < 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "random_nails must not be negative, got %d", opts.RandomNails)
	}
	if opts.Seed == 0 {
		opts.Seed = config.DefaultSeed
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Optimizer{target: target, nails: set, opts: opts}, nil
}

// Run executes the greedy loop. It is safe to call Run more than once; every
// call starts from a fresh canvas and the same seed.
func (o *Optimizer) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	s := o.newState()
	logger := o.opts.Logger

	logger.Debug("optimizing",
		"nails", len(o.nails),
		"pulls", o.opts.Pulls,
		"candidates", s.sampleSize(),
		"workers", o.opts.Workers)

	var runErr error
	for {
		if s.iteration >= o.opts.Pulls {
			s.res.Stopped = StopBudget
			break
		}
		if s.failures >= MaxFailures {
			s.res.Stopped = StopFailures
			break
		}
		if err := ctx.Err(); err != nil {
			s.res.Stopped = StopCancelled
			runErr = err
			break
		}

		s.iteration++
		if s.iteration%ProgressEvery == 0 && o.opts.Progress != nil {
			o.opts.Progress(float64(s.iteration) / float64(o.opts.Pulls) * 100)
		}

		best, score, err := o.pick(ctx, s)
		if err != nil {
			s.res.Stopped = StopCancelled
			runErr = err
			break
		}
		if score <= 0 {
			s.failures++
			s.res.Rejected++
			continue
		}

		s.failures = 0
		s.accept(best, score)
	}

	s.res.Iterations = s.iteration
	s.res.Canvas = s.canvas
	s.res.Duration = time.Since(start)

	logger.Debug("optimized",
		"iterations", s.res.Iterations,
		"accepted", s.res.Accepted,
		"rejected", s.res.Rejected,
		"stopped", s.res.Stopped,
		"duration", s.res.Duration)

	return s.res, runErr
}

// state is everything a run mutates. It never escapes Run.
type state struct {
	opt        *Optimizer
	canvas     *raster.Field
	current    int
	iteration  int
	failures   int
	rng        *rand.Rand
	perm       []int // reusable index pool for sampling
	candidates []int
	scores     []float64
	res        *Result
}

func (o *Optimizer) newState() *state {
	seed := o.opts.Seed
	s := &state{
		opt:    o,
		canvas: raster.NewField(o.target.Width, o.target.Height, o.opts.Background),
		rng:    rand.New(rand.NewPCG(seed, seed^0xdeadbeef)),
		perm:   make([]int, len(o.nails)),
		res:    &Result{PullOrder: []int{0}},
	}
	for i := range s.perm {
		s.perm[i] = i
	}
	n := s.sampleSize()
	s.candidates = make([]int, n)
	s.scores = make([]float64, n)
	return s
}

func (s *state) sampleSize() int {
	if k := s.opt.opts.RandomNails; k > 0 {
		return min(k, len(s.opt.nails))
	}
	return len(s.opt.nails)
}

// draw fills s.candidates for this iteration. Subsampling is a partial
// Fisher-Yates shuffle of the index pool, so the k indices are distinct.
func (s *state) draw() {
	if s.opt.opts.RandomNails <= 0 {
		copy(s.candidates, s.perm)
		return
	}
	n := len(s.perm)
	for i := range s.candidates {
		j := i + s.rng.IntN(n-i)
		s.perm[i], s.perm[j] = s.perm[j], s.perm[i]
		s.candidates[i] = s.perm[i]
	}
}

// pick returns the best candidate and its score. Scores are computed into
// per-candidate slots, possibly concurrently, and reduced in candidate order.
func (o *Optimizer) pick(ctx context.Context, s *state) (int, float64, error) {
	s.draw()
	if len(s.candidates) == 0 {
		return 0, 0, nil
	}
	from := o.nails[s.current]

	if workers := min(o.opts.Workers, len(s.candidates)); workers > 1 {
		g, gctx := errgroup.WithContext(ctx)
		chunk := (len(s.candidates) + workers - 1) / workers
		for lo := 0; lo < len(s.candidates); lo += chunk {
			hi := min(lo+chunk, len(s.candidates))
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				for i := lo; i < hi; i++ {
					s.scores[i] = o.score(s.canvas, from, o.nails[s.candidates[i]])
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return 0, 0, err
		}
	} else {
		for i, c := range s.candidates {
			s.scores[i] = o.score(s.canvas, from, o.nails[c])
		}
	}

	best, bestScore := s.candidates[0], s.scores[0]
	for i := 1; i < len(s.candidates); i++ {
		if s.scores[i] >= bestScore {
			best, bestScore = s.candidates[i], s.scores[i]
		}
	}
	return best, bestScore, nil
}

// score is the squared-error reduction of stroking the line a→b once.
func (o *Optimizer) score(canvas *raster.Field, a, b raster.Point) float64 {
	var total float64
	line.Walk(a, b, func(p raster.Point, w float64) {
		i := canvas.Index(p)
		if i < 0 {
			return
		}
		c, t := canvas.Pix[i], o.target.Pix[i]
		after := raster.Clamp(c + o.opts.Strength*w)
		total += (c-t)*(c-t) - (after-t)*(after-t)
	})
	return total
}

func (s *state) accept(next int, score float64) {
	o := s.opt
	line.Walk(o.nails[s.current], o.nails[next], func(p raster.Point, w float64) {
		s.canvas.Add(p, o.opts.Strength*w)
	})
	s.res.PullOrder = append(s.res.PullOrder, next)
	s.res.Accepted++
	s.res.Improvement += score
	s.current = next
}

// Score returns the squared-error reduction that stroking the line between
// nails a and b onto canvas would achieve against target. It is the quantity
// Run maximizes and is exported for inspection and tests.
func Score(target, canvas *raster.Field, a, b raster.Point, strength float64) float64 {
	o := &Optimizer{target: target, opts: Options{Strength: strength}}
	return o.score(canvas, a, b)
}
