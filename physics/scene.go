package physics

import (
	"math/rand"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/layerfilter/layer"
)

const floorThickness = 20

// Scatter lays one static floor segment per object layer along arena's high-Y
// edge, the bottom of the screen, and drops dynamic bodies on random layers
// above it. The same seed gives the same scene.
func Scatter(w *World, rng *rand.Rand, arena cp.BB, bodies int) error {
	n := w.NumObjectLayers()
	width := arena.R - arena.L
	floorY := arena.T - floorThickness/2
	segment := width / float64(n)

	for l := uint32(0); l < n; l++ {
		_, err := w.AddBody(BodyDef{
			Layer: layer.ObjectLayer(l), Kind: Static, Shape: Box,
			X: arena.L + segment*float64(l) + segment/2, Y: floorY,
			Width: segment, Height: floorThickness, Friction: 0.8,
		})
		if err != nil {
			return err
		}
	}

	top := floorY - floorThickness - 80
	for i := 0; i < bodies; i++ {
		if _, err := w.AddBody(randomBody(rng, n, arena.L, width, arena.B, top-arena.B)); err != nil {
			return err
		}
	}
	return nil
}

func randomBody(rng *rand.Rand, n uint32, x, width, y, height float64) BodyDef {
	def := BodyDef{
		Layer:      layer.ObjectLayer(rng.Intn(int(n))),
		Kind:       Dynamic,
		X:          x + rng.Float64()*width,
		Y:          y + rng.Float64()*height,
		Friction:   0.6,
		Elasticity: 0.1,
	}
	if rng.Intn(2) == 0 {
		def.Shape = Circle
		def.Radius = 3 + rng.Float64()*6
	} else {
		def.Shape = Box
		def.Width = 6 + rng.Float64()*10
		def.Height = 6 + rng.Float64()*10
	}
	return def
}
