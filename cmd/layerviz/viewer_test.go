package main

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/layerfilter/scheme"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoLayers = `name: local
broad_phase_layers: [still, moving]
object_layers:
  - name: floor
    broad_phase: still
  - name: crate
    broad_phase: moving
collide:
  - [floor, crate]
  - [crate, crate]
`

func TestViewerReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "local.yaml")
	require.NoError(t, os.WriteFile(path, []byte(twoLayers), 0o644))

	v, err := NewViewer(dir, "local", 10, 1, zerolog.Nop())
	require.NoError(t, err)
	first := v.world
	assert.Equal(t, 12, first.Stats().Bodies)

	v.reload(scheme.Change{Path: filepath.Join(dir, "other.yaml"), Scheme: "other"})
	assert.Same(t, first, v.world)

	require.NoError(t, os.WriteFile(path, []byte("name: [broken"), 0o644))
	v.reload(scheme.Change{Path: path, Scheme: "local"})
	assert.Same(t, first, v.world)
	assert.Error(t, v.lastErr)
	assert.Contains(t, v.legend(), "reload failed")

	require.NoError(t, os.WriteFile(path, []byte(twoLayers), 0o644))
	v.reload(scheme.Change{Path: path, Scheme: "local"})
	assert.NotSame(t, first, v.world)
	assert.NoError(t, v.lastErr)
	assert.Contains(t, v.legend(), "floor (still)")
}

func TestViewerUnknownScheme(t *testing.T) {
	_, err := NewViewer(t.TempDir(), "nope", 10, 1, zerolog.Nop())
	assert.Error(t, err)
}

func TestLayerColorWraps(t *testing.T) {
	assert.Equal(t, layerColor(0), layerColor(len(palette)))
	assert.NotEqual(t, layerColor(0), layerColor(1))
}

func TestLayerColorRoundTrips(t *testing.T) {
	for i, want := range palette {
		got := toColor(layerColor(i))
		assert.Equal(t, color.NRGBA{R: want.R, G: want.G, B: want.B, A: want.A}, got, "layer %d", i)
	}
}

func TestToColorClamps(t *testing.T) {
	assert.Equal(t, color.NRGBA{R: 0, G: 255, B: 128, A: 255}, toColor(cp.FColor{R: -0.5, G: 2, B: 0.5, A: 1}))
}

func TestLegendFits(t *testing.T) {
	require.NotNil(t, legendFace)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "local.yaml"), []byte(twoLayers), 0o644))
	v, err := NewViewer(dir, "local", 4, 1, zerolog.Nop())
	require.NoError(t, err)

	w, h := text.Measure(v.legend(), legendFace, legendLineSpacing)
	assert.Less(t, w, float64(baseWidth))
	assert.Less(t, h, float64(baseHeight))
	assert.Greater(t, h, float64(legendLineSpacing))
}
