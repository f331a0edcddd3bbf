package physics

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/layerfilter/scheme"
)

// SchemeSettings fills the layer half of Settings from a built scheme. Gravity
// defaults to the platformer's downward pull in screen space.
func SchemeSettings(s *scheme.Scheme) Settings {
	return Settings{
		NumObjectLayers:     s.Table.NumObjectLayers(),
		NumBroadPhaseLayers: s.Table.NumBroadPhaseLayers(),
		BroadPhaseLayers:    s.Table,
		ObjectVsBroadPhase:  s.BroadPhase,
		ObjectPairs:         s.Pairs,
		Gravity:             cp.Vector{X: 0, Y: 500},
	}
}
