package layer

import (
	"math"
	"math/bits"

	"github.com/rotisserie/eris"
)

// MaxMatrixObjectLayers bounds the size of a PairMatrix (n*n bits).
const MaxMatrixObjectLayers = 4096

// PairMatrix is an immutable object-layer pair policy stored as a bit matrix.
type PairMatrix struct {
	n     uint32
	words uint32
	bits  []uint64
}

// NewPairMatrix builds an n-layer matrix where each listed pair collides in both
// orders and every other pair does not.
func NewPairMatrix(n uint32, allow ...LayerPair) (*PairMatrix, error) {
	m, err := newPairMatrix(n)
	if err != nil {
		return nil, err
	}
	for _, p := range allow {
		if uint32(p.A) >= n || uint32(p.B) >= n {
			return nil, eris.Wrapf(ErrMappingOutOfRange, "pair (%d, %d) with %d object layers", p.A, p.B, n)
		}
		m.set(p.A, p.B)
		m.set(p.B, p.A)
	}
	return m, nil
}

// NewPairMatrixFunc evaluates decide for every ordered pair once and freezes the
// answers. decide may fail, which aborts the build.
func NewPairMatrixFunc(n uint32, decide func(a, b ObjectLayer) (bool, error)) (*PairMatrix, error) {
	if decide == nil {
		return nil, ErrNilFilter
	}
	m, err := newPairMatrix(n)
	if err != nil {
		return nil, err
	}
	for a := uint32(0); a < n; a++ {
		for b := uint32(0); b < n; b++ {
			ok, err := decide(ObjectLayer(a), ObjectLayer(b))
			if err != nil {
				return nil, eris.Wrapf(err, "layer: decide (%d, %d)", a, b)
			}
			if ok {
				m.set(ObjectLayer(a), ObjectLayer(b))
			}
		}
	}
	return m, nil
}

func newPairMatrix(n uint32) (*PairMatrix, error) {
	if n == 0 {
		return nil, ErrEmptyMapping
	}
	if n > MaxMatrixObjectLayers {
		return nil, eris.Wrapf(ErrTooManyObjectLayers, "%d object layers, matrix holds %d", n, MaxMatrixObjectLayers)
	}
	words := (n + 63) / 64
	return &PairMatrix{n: n, words: words, bits: make([]uint64, n*words)}, nil
}

func (m *PairMatrix) set(a, b ObjectLayer) {
	m.bits[uint32(a)*m.words+uint32(b)/64] |= 1 << (uint32(b) % 64)
}

func (m *PairMatrix) NumObjectLayers() uint32 {
	return m.n
}

func (m *PairMatrix) ShouldCollide(a, b ObjectLayer) bool {
	CheckObjectLayer("PairMatrix.ShouldCollide", a, m.n)
	CheckObjectLayer("PairMatrix.ShouldCollide", b, m.n)
	return m.bits[uint32(a)*m.words+uint32(b)/64]&(1<<(uint32(b)%64)) != 0
}

// BroadPhaseMatrix is an immutable object-vs-bucket policy; each object layer
// holds the set of buckets it may touch as a bit mask.
type BroadPhaseMatrix struct {
	numBroadPhase uint32
	masks         []uint64
}

// NewBroadPhaseMatrix builds a bucket policy from explicit masks, one per object
// layer. Nothing ties it to a pair policy; run Validate before use.
func NewBroadPhaseMatrix(numBroadPhase uint32, masks []uint64) (*BroadPhaseMatrix, error) {
	if numBroadPhase == 0 || numBroadPhase > MaxBroadPhaseLayers {
		return nil, eris.Wrapf(ErrBroadPhaseCount, "%d broad-phase layers", numBroadPhase)
	}
	if len(masks) == 0 {
		return nil, ErrEmptyMapping
	}
	var limit uint64 = math.MaxUint64
	if numBroadPhase < 64 {
		limit = 1<<numBroadPhase - 1
	}
	for i, mask := range masks {
		if mask&^limit != 0 {
			return nil, eris.Wrapf(ErrMappingOutOfRange, "object layer %d mask %#x exceeds %d buckets", i, mask, numBroadPhase)
		}
	}
	return &BroadPhaseMatrix{numBroadPhase: numBroadPhase, masks: append([]uint64(nil), masks...)}, nil
}

// DeriveBroadPhaseMatrix builds the bucket policy implied by pairs: object layer a
// may touch bucket b if it may collide with any object layer sorted into b. The
// result is consistent with pairs by construction.
func DeriveBroadPhaseMatrix(iface BroadPhaseLayerInterface, numObjectLayers uint32, pairs ObjectLayerPairFilter) (*BroadPhaseMatrix, error) {
	if iface == nil || pairs == nil {
		return nil, ErrNilFilter
	}
	if numObjectLayers > MaxObjectLayers {
		return nil, eris.Wrapf(ErrTooManyObjectLayers, "%d object layers", numObjectLayers)
	}
	nbp := iface.NumBroadPhaseLayers()
	if nbp == 0 || nbp > MaxBroadPhaseLayers {
		return nil, eris.Wrapf(ErrBroadPhaseCount, "%d broad-phase layers", nbp)
	}

	classes := make([]BroadPhaseLayer, numObjectLayers)
	for x := uint32(0); x < numObjectLayers; x++ {
		bp := iface.BroadPhaseLayer(ObjectLayer(x))
		if uint32(bp) >= nbp {
			return nil, eris.Wrapf(ErrMappingOutOfRange, "object layer %d maps to %d, have %d", x, bp, nbp)
		}
		classes[x] = bp
	}

	m := &BroadPhaseMatrix{numBroadPhase: nbp, masks: make([]uint64, numObjectLayers)}
	for a := uint32(0); a < numObjectLayers; a++ {
		for x := uint32(0); x < numObjectLayers; x++ {
			if pairs.ShouldCollide(ObjectLayer(a), ObjectLayer(x)) {
				m.masks[a] |= 1 << classes[x]
			}
		}
	}
	return m, nil
}

func (m *BroadPhaseMatrix) ShouldCollide(a ObjectLayer, b BroadPhaseLayer) bool {
	CheckObjectLayer("BroadPhaseMatrix.ShouldCollide", a, uint32(len(m.masks)))
	CheckBroadPhaseLayer("BroadPhaseMatrix.ShouldCollide", b, m.numBroadPhase)
	return m.masks[a]&(1<<b) != 0
}

// Mask returns the buckets object layer a may touch, bit i standing for bucket i.
func (m *BroadPhaseMatrix) Mask(a ObjectLayer) uint64 {
	CheckObjectLayer("BroadPhaseMatrix.Mask", a, uint32(len(m.masks)))
	return m.masks[a]
}

// Reach returns how many buckets object layer a may touch.
func (m *BroadPhaseMatrix) Reach(a ObjectLayer) int {
	return bits.OnesCount64(m.Mask(a))
}
