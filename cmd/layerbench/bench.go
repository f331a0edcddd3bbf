package main

import (
	"context"
	"math/rand"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/layerfilter/layer"
	"github.com/milk9111/layerfilter/physics"
	"github.com/milk9111/layerfilter/scheme"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

type benchOptions struct {
	dir        string
	scheme     string
	bodies     int
	steps      int
	candidates int
	workers    int
	seed       int64
}

type report struct {
	Scheme   string
	Stats    physics.Stats
	StepTime time.Duration

	Candidates int
	Admitted   int
	SweepTime  time.Duration
}

var arena = cp.BB{L: 0, B: 0, R: 1200, T: 800}

const dt = 1.0 / 60.0

func runBench(ctx context.Context, opts benchOptions, logger zerolog.Logger) (report, error) {
	if opts.bodies < 0 || opts.steps < 0 || opts.candidates < 0 {
		return report{}, eris.New("layerbench: counts must not be negative")
	}
	s, err := scheme.LoadScheme(opts.dir, opts.scheme)
	if err != nil {
		return report{}, err
	}

	settings := physics.SchemeSettings(s)
	settings.BodyCapacity = opts.bodies + int(s.NumObjectLayers())
	settings.Logger = &logger
	w, err := physics.NewWorld(settings)
	if err != nil {
		return report{}, err
	}

	rng := rand.New(rand.NewSource(opts.seed))
	if err := physics.Scatter(w, rng, arena, opts.bodies); err != nil {
		return report{}, err
	}

	start := time.Now()
	for i := 0; i < opts.steps; i++ {
		if i%60 == 0 {
			if err := ctx.Err(); err != nil {
				return report{}, err
			}
		}
		w.Step(dt)
	}
	r := report{Scheme: s.Name, Stats: w.Stats(), StepTime: time.Since(start)}

	n := int(s.NumObjectLayers())
	candidates := make([]physics.Candidate, opts.candidates)
	for i := range candidates {
		candidates[i] = physics.Candidate{A: layer.ObjectLayer(rng.Intn(n)), B: layer.ObjectLayer(rng.Intn(n))}
	}
	start = time.Now()
	verdicts, err := physics.Sweep(ctx, w.Filters(), candidates, opts.workers)
	if err != nil {
		return report{}, err
	}
	r.SweepTime = time.Since(start)
	r.Candidates = len(verdicts)
	for _, ok := range verdicts {
		if ok {
			r.Admitted++
		}
	}
	return r, nil
}
