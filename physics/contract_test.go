//go:build !layers_nocheck

package physics

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/layerfilter/layer"
	"github.com/stretchr/testify/assert"
)

func TestWorldPanicsOnUnknownLayer(t *testing.T) {
	w := mustWorld(t, referenceSettings())
	bad := layer.ObjectLayer(layer.NumObjectLayers)

	assert.PanicsWithError(t, "layer: World.AddBody: index 2 out of range [0, 2)", func() {
		_, _ = w.AddBody(BodyDef{Layer: bad, Kind: Dynamic, Shape: Circle, Radius: 1})
	})
	assert.PanicsWithError(t, "layer: World.QueryBox: index 2 out of range [0, 2)", func() {
		w.QueryBox(cp.BB{R: 1, T: 1}, bad)
	})
	assert.PanicsWithError(t, "layer: World.ShapeFilter: index 2 out of range [0, 2)", func() {
		w.ShapeFilter(bad)
	})
	assert.PanicsWithError(t, "layer: World.BucketLen: index 2 out of range [0, 2)", func() {
		w.BucketLen(layer.BroadPhaseLayer(layer.NumBroadPhaseLayers))
	})
}
