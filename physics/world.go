package physics

import (
	"math/bits"
	"sort"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/layerfilter/layer"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

var (
	ErrLayerCountMismatch = eris.New("physics: layer count mismatch")
	ErrInvalidBody        = eris.New("physics: invalid body definition")
)

const defaultIterations = 20

// Settings carries everything a world is created with. The layer interface and
// both filters are held, never copied, and must stay valid for the world's life.
type Settings struct {
	NumObjectLayers     uint32
	NumBroadPhaseLayers uint32
	BroadPhaseLayers    layer.BroadPhaseLayerInterface
	ObjectVsBroadPhase  layer.ObjectVsBroadPhaseLayerFilter
	ObjectPairs         layer.ObjectLayerPairFilter

	Gravity    cp.Vector
	Iterations uint
	// BodyCapacity presizes body storage; zero lets it grow.
	BodyCapacity int
	Logger       *zerolog.Logger
}

// PairCount counts narrow-phase decisions.
type PairCount struct {
	Admitted uint64
	Rejected uint64
}

type Stats struct {
	Steps  uint64
	Bodies int
	PairCount
}

type contactKey struct {
	a, b BodyID
}

func newContactKey(a, b BodyID) contactKey {
	if b < a {
		a, b = b, a
	}
	return contactKey{a: a, b: b}
}

// World owns a Chipmunk space whose broad phase and collision handlers are driven
// by the layer configuration.
type World struct {
	space *cp.Space
	log   zerolog.Logger

	numObjectLayers uint32
	numBroadPhase   uint32
	layers          layer.BroadPhaseLayerInterface
	objectVsBP      layer.ObjectVsBroadPhaseLayerFilter
	pairs           layer.ObjectLayerPairFilter

	filters     []cp.ShapeFilter
	buckets     []map[BodyID]*Body
	bucketPairs []PairCount

	bodies   map[BodyID]*Body
	nextID   BodyID
	contacts map[contactKey]struct{}
	stats    Stats
}

// objectLayerCounter is implemented by interfaces that know how many object
// layers they map, such as *layer.Table.
type objectLayerCounter interface {
	NumObjectLayers() uint32
}

// NewWorld validates the layer configuration and creates a world for it.
func NewWorld(settings Settings) (*World, error) {
	if settings.BroadPhaseLayers == nil || settings.ObjectVsBroadPhase == nil || settings.ObjectPairs == nil {
		return nil, layer.ErrNilFilter
	}

	// The only call to NumBroadPhaseLayers; everything below is sized from it.
	nbp := settings.BroadPhaseLayers.NumBroadPhaseLayers()
	if nbp != settings.NumBroadPhaseLayers {
		return nil, eris.Wrapf(ErrLayerCountMismatch, "declared %d, interface reports %d", settings.NumBroadPhaseLayers, nbp)
	}
	if nbp > bits.UintSize {
		return nil, eris.Wrapf(layer.ErrBroadPhaseCount, "%d broad-phase layers do not fit a shape filter", nbp)
	}
	if counted, ok := settings.BroadPhaseLayers.(objectLayerCounter); ok && settings.NumObjectLayers != 0 {
		if n := counted.NumObjectLayers(); n != settings.NumObjectLayers {
			return nil, eris.Wrapf(ErrLayerCountMismatch, "declared %d object layers, interface maps %d", settings.NumObjectLayers, n)
		}
	}
	fixed := fixedCountLayers{BroadPhaseLayerInterface: settings.BroadPhaseLayers, n: nbp}
	if err := layer.Validate(fixed, settings.NumObjectLayers, settings.ObjectVsBroadPhase, settings.ObjectPairs); err != nil {
		return nil, eris.Wrap(err, "physics: layer configuration")
	}

	logger := zerolog.Nop()
	if settings.Logger != nil {
		logger = settings.Logger.With().Str("component", "physics").Logger()
	}

	iterations := settings.Iterations
	if iterations == 0 {
		iterations = defaultIterations
	}
	space := cp.NewSpace()
	space.Iterations = iterations
	space.SetGravity(settings.Gravity)

	w := &World{
		space:           space,
		log:             logger,
		numObjectLayers: settings.NumObjectLayers,
		numBroadPhase:   nbp,
		layers:          settings.BroadPhaseLayers,
		objectVsBP:      settings.ObjectVsBroadPhase,
		pairs:           settings.ObjectPairs,
		filters:         make([]cp.ShapeFilter, settings.NumObjectLayers),
		buckets:         make([]map[BodyID]*Body, nbp),
		bucketPairs:     make([]PairCount, nbp*nbp),
		bodies:          make(map[BodyID]*Body, settings.BodyCapacity),
		contacts:        make(map[contactKey]struct{}),
	}
	for i := range w.buckets {
		w.buckets[i] = make(map[BodyID]*Body)
	}
	w.buildFilters()
	w.setupHandlers()

	if err := layer.CheckSymmetry(settings.NumObjectLayers, settings.ObjectPairs); err != nil {
		w.log.Warn().Err(err).Msg("object layer pair filter is asymmetric; contacts need both directions")
	}
	w.log.Info().
		Uint32("object_layers", w.numObjectLayers).
		Uint32("broad_phase_layers", w.numBroadPhase).
		Msg("world created")
	return w, nil
}

// buildFilters encodes each object layer's bucket and reachable buckets as a
// Chipmunk shape filter, so the spatial index prunes pruned buckets itself.
func (w *World) buildFilters() {
	for l := uint32(0); l < w.numObjectLayers; l++ {
		ol := layer.ObjectLayer(l)
		var mask uint
		for b := uint32(0); b < w.numBroadPhase; b++ {
			if w.objectVsBP.ShouldCollide(ol, layer.BroadPhaseLayer(b)) {
				mask |= 1 << b
			}
		}
		category := uint(1) << w.layers.BroadPhaseLayer(ol)
		w.filters[l] = cp.NewShapeFilter(cp.NO_GROUP, category, mask)
	}
}

// setupHandlers installs one handler per unordered pair of object layers.
func (w *World) setupHandlers() {
	for a := uint32(0); a < w.numObjectLayers; a++ {
		for b := a; b < w.numObjectLayers; b++ {
			h := w.space.NewCollisionHandler(collisionType(layer.ObjectLayer(a)), collisionType(layer.ObjectLayer(b)))
			h.UserData = w
			h.BeginFunc = beginContact
			h.SeparateFunc = separateContact
		}
	}
}

func collisionType(l layer.ObjectLayer) cp.CollisionType {
	return cp.CollisionType(l) + 1
}

func beginContact(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
	w, ok := userData.(*World)
	if !ok || w == nil {
		return true
	}
	shapeA, shapeB := arb.Shapes()
	a, okA := shapeA.UserData.(*Body)
	b, okB := shapeB.UserData.(*Body)
	if !okA || !okB {
		return true
	}
	admit := w.pairs.ShouldCollide(a.layer, b.layer) && w.pairs.ShouldCollide(b.layer, a.layer)
	count := &w.bucketPairs[uint32(a.bucket)*w.numBroadPhase+uint32(b.bucket)]
	if admit {
		count.Admitted++
		w.stats.Admitted++
		w.contacts[newContactKey(a.id, b.id)] = struct{}{}
	} else {
		count.Rejected++
		w.stats.Rejected++
	}
	return admit
}

func separateContact(arb *cp.Arbiter, space *cp.Space, userData interface{}) {
	w, ok := userData.(*World)
	if !ok || w == nil {
		return
	}
	shapeA, shapeB := arb.Shapes()
	a, okA := shapeA.UserData.(*Body)
	b, okB := shapeB.UserData.(*Body)
	if !okA || !okB {
		return
	}
	delete(w.contacts, newContactKey(a.id, b.id))
}

// Space returns the underlying Chipmunk space.
func (w *World) Space() *cp.Space {
	if w == nil {
		return nil
	}
	return w.space
}

func (w *World) NumObjectLayers() uint32 {
	return w.numObjectLayers
}

func (w *World) NumBroadPhaseLayers() uint32 {
	return w.numBroadPhase
}

// Filters returns the world's layer configuration for use outside a step.
func (w *World) Filters() Filters {
	return Filters{
		BroadPhaseLayers:   w.layers,
		ObjectVsBroadPhase: w.objectVsBP,
		ObjectPairs:        w.pairs,
	}
}

// ShapeFilter returns the Chipmunk filter bodies on l are created with.
func (w *World) ShapeFilter(l layer.ObjectLayer) cp.ShapeFilter {
	layer.CheckObjectLayer("World.ShapeFilter", l, w.numObjectLayers)
	return w.filters[l]
}

// Step advances the simulation.
func (w *World) Step(dt float64) {
	if w == nil || w.space == nil {
		return
	}
	w.space.Step(dt)
	w.stats.Steps++
}

func (w *World) Stats() Stats {
	s := w.stats
	s.Bodies = len(w.bodies)
	return s
}

// BucketLen returns how many bodies sit in bucket bp.
func (w *World) BucketLen(bp layer.BroadPhaseLayer) int {
	layer.CheckBroadPhaseLayer("World.BucketLen", bp, w.numBroadPhase)
	return len(w.buckets[bp])
}

// BucketPairStats returns narrow-phase decisions between bodies of two buckets,
// in the order the contact was reported.
func (w *World) BucketPairStats(a, b layer.BroadPhaseLayer) PairCount {
	layer.CheckBroadPhaseLayer("World.BucketPairStats", a, w.numBroadPhase)
	layer.CheckBroadPhaseLayer("World.BucketPairStats", b, w.numBroadPhase)
	return w.bucketPairs[uint32(a)*w.numBroadPhase+uint32(b)]
}

// Touching reports whether an admitted contact between a and b is active.
func (w *World) Touching(a, b BodyID) bool {
	_, ok := w.contacts[newContactKey(a, b)]
	return ok
}

// QueryBox returns the bodies overlapping bb that a body on l could collide with,
// sorted by id.
func (w *World) QueryBox(bb cp.BB, l layer.ObjectLayer) []BodyID {
	layer.CheckObjectLayer("World.QueryBox", l, w.numObjectLayers)
	var out []BodyID
	w.space.BBQuery(bb, w.filters[l], func(shape *cp.Shape, data interface{}) {
		b, ok := shape.UserData.(*Body)
		if !ok {
			return
		}
		if w.pairs.ShouldCollide(l, b.layer) && w.pairs.ShouldCollide(b.layer, l) {
			out = append(out, b.id)
		}
	}, nil)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// fixedCountLayers answers NumBroadPhaseLayers from the value read at world
// creation so validation does not query the interface again.
type fixedCountLayers struct {
	layer.BroadPhaseLayerInterface
	n uint32
}

func (f fixedCountLayers) NumBroadPhaseLayers() uint32 {
	return f.n
}
