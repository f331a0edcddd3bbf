package layer

import "github.com/rotisserie/eris"

// Validate checks a layer configuration once, before a world is built: every
// object layer maps inside the declared buckets and the broad-phase filter never
// prunes a bucket holding a layer the pair filter would admit.
//
// It calls every predicate over its whole domain, so it is meant for startup, not
// for a simulation step.
func Validate(iface BroadPhaseLayerInterface, numObjectLayers uint32, bp ObjectVsBroadPhaseLayerFilter, pairs ObjectLayerPairFilter) error {
	if iface == nil || bp == nil || pairs == nil {
		return ErrNilFilter
	}
	if numObjectLayers == 0 {
		return ErrEmptyMapping
	}
	if numObjectLayers > MaxObjectLayers {
		return eris.Wrapf(ErrTooManyObjectLayers, "%d object layers", numObjectLayers)
	}
	nbp := iface.NumBroadPhaseLayers()
	if nbp == 0 || nbp > MaxBroadPhaseLayers || nbp > numObjectLayers {
		return eris.Wrapf(ErrBroadPhaseCount, "%d broad-phase layers for %d object layers", nbp, numObjectLayers)
	}

	classes := make([]BroadPhaseLayer, numObjectLayers)
	for x := uint32(0); x < numObjectLayers; x++ {
		c := iface.BroadPhaseLayer(ObjectLayer(x))
		if uint32(c) >= nbp {
			return eris.Wrapf(ErrMappingOutOfRange, "object layer %d maps to %d, have %d", x, c, nbp)
		}
		classes[x] = c
	}

	for a := uint32(0); a < numObjectLayers; a++ {
		for x := uint32(0); x < numObjectLayers; x++ {
			if !pairs.ShouldCollide(ObjectLayer(a), ObjectLayer(x)) {
				continue
			}
			if !bp.ShouldCollide(ObjectLayer(a), classes[x]) {
				return eris.Wrapf(ErrInconsistentFilters,
					"object layer %d collides with %d but bucket %d is pruned", a, x, classes[x])
			}
		}
	}
	return nil
}

// CheckSymmetry reports the first ordered pair whose answer differs from its
// mirror. Asymmetric policies are legal but rarely intended.
func CheckSymmetry(numObjectLayers uint32, pairs ObjectLayerPairFilter) error {
	if pairs == nil {
		return ErrNilFilter
	}
	for a := uint32(0); a < numObjectLayers; a++ {
		for b := a + 1; b < numObjectLayers; b++ {
			if pairs.ShouldCollide(ObjectLayer(a), ObjectLayer(b)) != pairs.ShouldCollide(ObjectLayer(b), ObjectLayer(a)) {
				return eris.Wrapf(ErrAsymmetricPairFilter, "pair (%d, %d)", a, b)
			}
		}
	}
	return nil
}
