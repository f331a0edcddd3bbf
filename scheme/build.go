package scheme

import (
	"strings"

	"github.com/milk9111/layerfilter/layer"
	"github.com/rotisserie/eris"
)

var (
	ErrInvalidSpec  = eris.New("scheme: invalid spec")
	ErrUnknownLayer = eris.New("scheme: unknown layer")
)

// Scheme is a built, validated layer configuration ready to hand to a world.
type Scheme struct {
	Name       string
	Table      *layer.Table
	Pairs      layer.ObjectLayerPairFilter
	BroadPhase layer.ObjectVsBroadPhaseLayerFilter

	objectIndex     map[string]layer.ObjectLayer
	broadPhaseIndex map[string]layer.BroadPhaseLayer
}

// NumObjectLayers is a convenience for the table's count.
func (s *Scheme) NumObjectLayers() uint32 {
	return s.Table.NumObjectLayers()
}

// ObjectLayer looks an object layer up by name.
func (s *Scheme) ObjectLayer(name string) (layer.ObjectLayer, bool) {
	l, ok := s.objectIndex[name]
	return l, ok
}

// BroadPhaseLayer looks a broad-phase layer up by name.
func (s *Scheme) BroadPhaseLayer(name string) (layer.BroadPhaseLayer, bool) {
	l, ok := s.broadPhaseIndex[name]
	return l, ok
}

// MustObjectLayer is ObjectLayer for names known to exist.
func (s *Scheme) MustObjectLayer(name string) layer.ObjectLayer {
	l, ok := s.objectIndex[name]
	if !ok {
		panic("scheme: unknown object layer " + name)
	}
	return l
}

// LoadScheme loads, builds and validates the named scheme.
func LoadScheme(dir, name string) (*Scheme, error) {
	spec, err := LoadSpec(dir, name)
	if err != nil {
		return nil, err
	}
	return Build(dir, spec)
}

// Build turns a spec into a validated Scheme. dir is used to resolve the policy
// script, if any.
func Build(dir string, spec *Spec) (*Scheme, error) {
	if spec == nil {
		return nil, eris.Wrap(ErrInvalidSpec, "nil spec")
	}
	name := strings.TrimSpace(spec.Name)
	if name == "" {
		return nil, eris.Wrap(ErrInvalidSpec, "missing name")
	}

	s := &Scheme{
		Name:            name,
		objectIndex:     make(map[string]layer.ObjectLayer, len(spec.ObjectLayers)),
		broadPhaseIndex: make(map[string]layer.BroadPhaseLayer, len(spec.BroadPhaseLayers)),
	}

	for i, bp := range spec.BroadPhaseLayers {
		if bp == "" {
			return nil, eris.Wrapf(ErrInvalidSpec, "%s: broad-phase layer %d has no name", name, i)
		}
		if _, dup := s.broadPhaseIndex[bp]; dup {
			return nil, eris.Wrapf(ErrInvalidSpec, "%s: duplicate broad-phase layer %q", name, bp)
		}
		s.broadPhaseIndex[bp] = layer.BroadPhaseLayer(i)
	}

	mapping := make([]layer.BroadPhaseLayer, len(spec.ObjectLayers))
	objectNames := make([]string, len(spec.ObjectLayers))
	for i, ol := range spec.ObjectLayers {
		if ol.Name == "" {
			return nil, eris.Wrapf(ErrInvalidSpec, "%s: object layer %d has no name", name, i)
		}
		if _, dup := s.objectIndex[ol.Name]; dup {
			return nil, eris.Wrapf(ErrInvalidSpec, "%s: duplicate object layer %q", name, ol.Name)
		}
		bp, ok := s.broadPhaseIndex[ol.BroadPhase]
		if !ok {
			return nil, eris.Wrapf(ErrUnknownLayer, "%s: object layer %q maps to broad-phase layer %q", name, ol.Name, ol.BroadPhase)
		}
		s.objectIndex[ol.Name] = layer.ObjectLayer(i)
		mapping[i] = bp
		objectNames[i] = ol.Name
	}

	table, err := layer.NewTable(uint32(len(spec.BroadPhaseLayers)), mapping,
		layer.WithObjectLayerNames(objectNames...),
		layer.WithBroadPhaseLayerNames(spec.BroadPhaseLayers...),
	)
	if err != nil {
		return nil, eris.Wrapf(err, "scheme: %s", name)
	}
	s.Table = table

	pairs, err := s.buildPairs(dir, spec)
	if err != nil {
		return nil, err
	}
	s.Pairs = pairs

	bp, err := s.buildBroadPhase(spec)
	if err != nil {
		return nil, err
	}
	s.BroadPhase = bp

	if err := layer.Validate(s.Table, s.Table.NumObjectLayers(), s.BroadPhase, s.Pairs); err != nil {
		return nil, eris.Wrapf(err, "scheme: %s", name)
	}
	return s, nil
}

func (s *Scheme) buildPairs(dir string, spec *Spec) (*layer.PairMatrix, error) {
	n := s.Table.NumObjectLayers()
	if strings.TrimSpace(spec.Script) != "" {
		if len(spec.Collide) > 0 {
			return nil, eris.Wrapf(ErrInvalidSpec, "%s: both script and collide set", s.Name)
		}
		src, err := LoadScript(dir, spec.Script)
		if err != nil {
			return nil, eris.Wrapf(err, "scheme: %s: load script %s", s.Name, spec.Script)
		}
		pairs, err := evalScriptPolicy(src, s.Table)
		if err != nil {
			return nil, eris.Wrapf(err, "scheme: %s: script %s", s.Name, spec.Script)
		}
		return pairs, nil
	}

	allow := make([]layer.LayerPair, 0, len(spec.Collide))
	for i, p := range spec.Collide {
		if len(p) != 2 {
			return nil, eris.Wrapf(ErrInvalidSpec, "%s: collide entry %d has %d layers, want 2", s.Name, i, len(p))
		}
		a, ok := s.objectIndex[p[0]]
		if !ok {
			return nil, eris.Wrapf(ErrUnknownLayer, "%s: collide entry %d: %q", s.Name, i, p[0])
		}
		b, ok := s.objectIndex[p[1]]
		if !ok {
			return nil, eris.Wrapf(ErrUnknownLayer, "%s: collide entry %d: %q", s.Name, i, p[1])
		}
		allow = append(allow, layer.LayerPair{A: a, B: b})
	}
	pairs, err := layer.NewPairMatrix(n, allow...)
	if err != nil {
		return nil, eris.Wrapf(err, "scheme: %s", s.Name)
	}
	return pairs, nil
}

func (s *Scheme) buildBroadPhase(spec *Spec) (*layer.BroadPhaseMatrix, error) {
	if len(spec.BroadPhaseCollide) == 0 {
		bp, err := layer.DeriveBroadPhaseMatrix(s.Table, s.Table.NumObjectLayers(), s.Pairs)
		if err != nil {
			return nil, eris.Wrapf(err, "scheme: %s", s.Name)
		}
		return bp, nil
	}

	masks := make([]uint64, s.Table.NumObjectLayers())
	for objName, buckets := range spec.BroadPhaseCollide {
		ol, ok := s.objectIndex[objName]
		if !ok {
			return nil, eris.Wrapf(ErrUnknownLayer, "%s: broad_phase_collide: %q", s.Name, objName)
		}
		for _, bucket := range buckets {
			bp, ok := s.broadPhaseIndex[bucket]
			if !ok {
				return nil, eris.Wrapf(ErrUnknownLayer, "%s: broad_phase_collide %s: %q", s.Name, objName, bucket)
			}
			masks[ol] |= 1 << bp
		}
	}
	bp, err := layer.NewBroadPhaseMatrix(s.Table.NumBroadPhaseLayers(), masks)
	if err != nil {
		return nil, eris.Wrapf(err, "scheme: %s", s.Name)
	}
	return bp, nil
}
