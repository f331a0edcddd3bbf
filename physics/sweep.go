package physics

import (
	"context"
	"runtime"

	"github.com/milk9111/layerfilter/layer"
	"golang.org/x/sync/errgroup"
)

// sweepCheckEvery is how many candidates a worker filters between context checks.
const sweepCheckEvery = 1024

// Filters bundles the read-only layer configuration a world runs with.
type Filters struct {
	BroadPhaseLayers   layer.BroadPhaseLayerInterface
	ObjectVsBroadPhase layer.ObjectVsBroadPhaseLayerFilter
	ObjectPairs        layer.ObjectLayerPairFilter
}

// Candidate is an ordered pair of object layers offered by a broad phase.
type Candidate struct {
	A, B layer.ObjectLayer
}

// Admit runs both filtering tiers for one candidate: the bucket test in each
// direction, then the pair filter in each direction.
func (f Filters) Admit(c Candidate) bool {
	if !f.ObjectVsBroadPhase.ShouldCollide(c.A, f.BroadPhaseLayers.BroadPhaseLayer(c.B)) {
		return false
	}
	if !f.ObjectVsBroadPhase.ShouldCollide(c.B, f.BroadPhaseLayers.BroadPhaseLayer(c.A)) {
		return false
	}
	return f.ObjectPairs.ShouldCollide(c.A, c.B) && f.ObjectPairs.ShouldCollide(c.B, c.A)
}

// Sweep filters candidates on up to workers goroutines and returns one verdict
// per candidate. workers <= 0 means GOMAXPROCS. The filters are only read, so
// the same Filters may be swept from any number of goroutines.
func Sweep(ctx context.Context, f Filters, candidates []Candidate, workers int) ([]bool, error) {
	if f.BroadPhaseLayers == nil || f.ObjectVsBroadPhase == nil || f.ObjectPairs == nil {
		return nil, layer.ErrNilFilter
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]bool, len(candidates))
	if len(candidates) == 0 {
		return out, nil
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(candidates) {
		workers = len(candidates)
	}
	chunk := (len(candidates) + workers - 1) / workers

	g, ctx := errgroup.WithContext(ctx)
	for start := 0; start < len(candidates); start += chunk {
		lo, hi := start, min(start+chunk, len(candidates))
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if (i-lo)%sweepCheckEvery == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				out[i] = f.Admit(candidates[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
