package layer

import "github.com/rotisserie/eris"

// BroadPhaseLayerInterface is queried by the broad phase to classify bodies and
// to size its per-bucket storage. NumBroadPhaseLayers must not change once the
// implementation has been handed to a world.
type BroadPhaseLayerInterface interface {
	NumBroadPhaseLayers() uint32
	BroadPhaseLayer(l ObjectLayer) BroadPhaseLayer
}

// BroadPhaseLayerNamer is optionally implemented by a BroadPhaseLayerInterface to
// give buckets readable names in logs and debug output.
type BroadPhaseLayerNamer interface {
	BroadPhaseLayerName(l BroadPhaseLayer) string
}

// Table maps every object layer to exactly one broad-phase layer.
type Table struct {
	mapping         []BroadPhaseLayer
	numBroadPhase   uint32
	members         [][]ObjectLayer
	objectNames     []string
	broadPhaseNames []string
}

type TableOption func(*Table)

// WithObjectLayerNames names the object layers in index order.
func WithObjectLayerNames(names ...string) TableOption {
	return func(t *Table) {
		t.objectNames = append([]string(nil), names...)
	}
}

// WithBroadPhaseLayerNames names the broad-phase layers in index order.
func WithBroadPhaseLayerNames(names ...string) TableOption {
	return func(t *Table) {
		t.broadPhaseNames = append([]string(nil), names...)
	}
}

// NewTable builds a table where mapping[i] is the broad-phase layer of object
// layer i. The mapping is copied.
func NewTable(numBroadPhase uint32, mapping []BroadPhaseLayer, opts ...TableOption) (*Table, error) {
	if len(mapping) == 0 {
		return nil, ErrEmptyMapping
	}
	if len(mapping) > MaxObjectLayers {
		return nil, eris.Wrapf(ErrTooManyObjectLayers, "%d object layers", len(mapping))
	}
	if numBroadPhase == 0 || numBroadPhase > MaxBroadPhaseLayers || numBroadPhase > uint32(len(mapping)) {
		return nil, eris.Wrapf(ErrBroadPhaseCount, "%d broad-phase layers for %d object layers", numBroadPhase, len(mapping))
	}

	t := &Table{
		mapping:       append([]BroadPhaseLayer(nil), mapping...),
		numBroadPhase: numBroadPhase,
		members:       make([][]ObjectLayer, numBroadPhase),
	}
	for i, bp := range t.mapping {
		if uint32(bp) >= numBroadPhase {
			return nil, eris.Wrapf(ErrMappingOutOfRange, "object layer %d maps to %d, have %d", i, bp, numBroadPhase)
		}
		t.members[bp] = append(t.members[bp], ObjectLayer(i))
	}

	for _, opt := range opts {
		opt(t)
	}
	if t.objectNames != nil && len(t.objectNames) != len(t.mapping) {
		return nil, eris.Wrapf(ErrNameCount, "%d object layer names for %d layers", len(t.objectNames), len(t.mapping))
	}
	if t.broadPhaseNames != nil && uint32(len(t.broadPhaseNames)) != numBroadPhase {
		return nil, eris.Wrapf(ErrNameCount, "%d broad-phase layer names for %d layers", len(t.broadPhaseNames), numBroadPhase)
	}
	return t, nil
}

// ReferenceTable returns the one-to-one table of the reference scheme.
func ReferenceTable() *Table {
	t, err := NewTable(NumBroadPhaseLayers, referenceMapping[:],
		WithObjectLayerNames("non_moving", "moving"),
		WithBroadPhaseLayerNames("non_moving", "moving"),
	)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Table) NumObjectLayers() uint32 {
	return uint32(len(t.mapping))
}

func (t *Table) NumBroadPhaseLayers() uint32 {
	return t.numBroadPhase
}

func (t *Table) BroadPhaseLayer(l ObjectLayer) BroadPhaseLayer {
	CheckObjectLayer("Table.BroadPhaseLayer", l, uint32(len(t.mapping)))
	return t.mapping[l]
}

// ObjectLayers returns the object layers sorted into bucket bp.
func (t *Table) ObjectLayers(bp BroadPhaseLayer) []ObjectLayer {
	CheckBroadPhaseLayer("Table.ObjectLayers", bp, t.numBroadPhase)
	return append([]ObjectLayer(nil), t.members[bp]...)
}

func (t *Table) ObjectLayerName(l ObjectLayer) string {
	CheckObjectLayer("Table.ObjectLayerName", l, uint32(len(t.mapping)))
	if t.objectNames == nil {
		return l.String()
	}
	return t.objectNames[l]
}

func (t *Table) BroadPhaseLayerName(bp BroadPhaseLayer) string {
	CheckBroadPhaseLayer("Table.BroadPhaseLayerName", bp, t.numBroadPhase)
	if t.broadPhaseNames == nil {
		return bp.String()
	}
	return t.broadPhaseNames[bp]
}
