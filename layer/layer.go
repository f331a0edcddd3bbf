// Package layer defines the object and broad-phase collision layers consulted by
// the physics world before any geometric test, and the two predicates deciding
// which layers may collide.
//
// Every value in this package is immutable once built, so tables and filters can
// be queried from any number of goroutines without synchronization.
package layer

import (
	"fmt"
	"math"
)

// ObjectLayer is the fine-grained category assigned to a single body.
type ObjectLayer uint16

// BroadPhaseLayer is the coarse bucket an object layer is sorted into by the
// broad phase.
type BroadPhaseLayer uint8

// Object layers of the reference scheme.
const (
	NonMoving ObjectLayer = iota
	Moving

	NumObjectLayers = 2
)

// Broad-phase layers of the reference scheme.
const (
	BroadPhaseNonMoving BroadPhaseLayer = iota
	BroadPhaseMoving

	NumBroadPhaseLayers = 2
)

// MaxBroadPhaseLayers bounds the bucket count so a bucket set fits in a uint64.
const MaxBroadPhaseLayers = 64

// MaxObjectLayers is the number of distinct ObjectLayer values.
const MaxObjectLayers = math.MaxUint16 + 1

var referenceMapping = [NumObjectLayers]BroadPhaseLayer{
	NonMoving: BroadPhaseNonMoving,
	Moving:    BroadPhaseMoving,
}

// BroadPhaseOf returns the reference scheme's bucket for l.
func BroadPhaseOf(l ObjectLayer) BroadPhaseLayer {
	CheckObjectLayer("BroadPhaseOf", l, NumObjectLayers)
	return referenceMapping[l]
}

func (l ObjectLayer) String() string {
	return fmt.Sprintf("ObjectLayer(%d)", uint16(l))
}

func (l BroadPhaseLayer) String() string {
	return fmt.Sprintf("BroadPhaseLayer(%d)", uint8(l))
}

// LayerPair is an unordered pair of object layers.
type LayerPair struct {
	A, B ObjectLayer
}
