package layer

// ObjectLayerPairFilter decides whether bodies on two object layers may collide.
// It runs for pairs that already survived the broad phase.
type ObjectLayerPairFilter interface {
	ShouldCollide(a, b ObjectLayer) bool
}

// ObjectVsBroadPhaseLayerFilter decides whether a body on object layer a can
// touch anything in bucket b. It prunes whole buckets before pairs are built.
type ObjectVsBroadPhaseLayerFilter interface {
	ShouldCollide(a ObjectLayer, b BroadPhaseLayer) bool
}

// ObjectLayerPairFilterFunc adapts a plain function to ObjectLayerPairFilter.
type ObjectLayerPairFilterFunc func(a, b ObjectLayer) bool

func (f ObjectLayerPairFilterFunc) ShouldCollide(a, b ObjectLayer) bool {
	return f(a, b)
}

// ObjectVsBroadPhaseLayerFilterFunc adapts a plain function to
// ObjectVsBroadPhaseLayerFilter.
type ObjectVsBroadPhaseLayerFilterFunc func(a ObjectLayer, b BroadPhaseLayer) bool

func (f ObjectVsBroadPhaseLayerFilterFunc) ShouldCollide(a ObjectLayer, b BroadPhaseLayer) bool {
	return f(a, b)
}

// Reference policy filters.
var (
	ReferencePairFilter       ObjectLayerPairFilter         = ObjectLayerPairFilterFunc(ObjectsCanCollide)
	ReferenceBroadPhaseFilter ObjectVsBroadPhaseLayerFilter = ObjectVsBroadPhaseLayerFilterFunc(ObjectCanCollideWithBroadPhase)
)

// ObjectsCanCollide is the reference pair policy: non-moving bodies only collide
// with moving ones, moving bodies collide with everything.
func ObjectsCanCollide(a, b ObjectLayer) bool {
	CheckObjectLayer("ObjectsCanCollide", a, NumObjectLayers)
	CheckObjectLayer("ObjectsCanCollide", b, NumObjectLayers)
	switch a {
	case NonMoving:
		return b == Moving
	case Moving:
		return true
	}
	return false
}

// ObjectCanCollideWithBroadPhase is the reference bucket policy matching
// ObjectsCanCollide.
func ObjectCanCollideWithBroadPhase(a ObjectLayer, b BroadPhaseLayer) bool {
	CheckObjectLayer("ObjectCanCollideWithBroadPhase", a, NumObjectLayers)
	CheckBroadPhaseLayer("ObjectCanCollideWithBroadPhase", b, NumBroadPhaseLayers)
	switch a {
	case NonMoving:
		return b == BroadPhaseMoving
	case Moving:
		return true
	}
	return false
}
