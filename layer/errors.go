package layer

import "github.com/rotisserie/eris"

// Configuration errors. They are reported once, while a table or world is being
// built, never from a query.
var (
	ErrEmptyMapping         = eris.New("layer: mapping has no object layers")
	ErrTooManyObjectLayers  = eris.New("layer: too many object layers")
	ErrBroadPhaseCount      = eris.New("layer: invalid broad-phase layer count")
	ErrMappingOutOfRange    = eris.New("layer: mapping refers to an undeclared broad-phase layer")
	ErrNameCount            = eris.New("layer: name count does not match layer count")
	ErrInconsistentFilters  = eris.New("layer: broad-phase filter prunes a collidable pair")
	ErrAsymmetricPairFilter = eris.New("layer: object layer pair filter is not symmetric")
	ErrNilFilter            = eris.New("layer: nil filter")
)
