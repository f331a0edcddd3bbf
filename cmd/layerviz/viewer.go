package main

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/layerfilter/layer"
	"github.com/milk9111/layerfilter/physics"
	"github.com/milk9111/layerfilter/scheme"
	"github.com/rs/zerolog"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font/basicfont"
)

const (
	baseWidth  = 1280
	baseHeight = 720
	stepDT     = 1.0 / 60.0
)

var arena = cp.BB{L: 0, B: 0, R: baseWidth, T: baseHeight}

var legendFace text.Face = text.NewGoXFace(basicfont.Face7x13)

const legendLineSpacing = 16

// Viewer is the ebiten game running a world built from one scheme. A scheme
// change on disk replaces the whole world.
type Viewer struct {
	dir    string
	name   string
	bodies int
	seed   int64
	log    zerolog.Logger

	scheme *scheme.Scheme
	world  *physics.World
	paused bool
	brush  layer.ObjectLayer
	frames int

	changes <-chan scheme.Change
	errs    <-chan error
	lastErr error
}

func NewViewer(dir, name string, bodies int, seed int64, logger zerolog.Logger) (*Viewer, error) {
	v := &Viewer{dir: dir, name: name, bodies: bodies, seed: seed, log: logger}
	if err := v.rebuild(); err != nil {
		return nil, err
	}
	return v, nil
}

// Watch feeds file changes from a scheme watcher into the viewer.
func (v *Viewer) Watch(w *scheme.Watcher) {
	v.changes = w.Changes
	v.errs = w.Errors
}

func (v *Viewer) rebuild() error {
	s, err := scheme.LoadScheme(v.dir, v.name)
	if err != nil {
		return err
	}
	settings := physics.SchemeSettings(s)
	settings.BodyCapacity = v.bodies + int(s.NumObjectLayers())
	settings.Logger = &v.log
	w, err := physics.NewWorld(settings)
	if err != nil {
		return err
	}
	if err := physics.Scatter(w, rand.New(rand.NewSource(v.seed)), arena, v.bodies); err != nil {
		return err
	}
	v.scheme = s
	v.world = w
	if uint32(v.brush) >= s.NumObjectLayers() {
		v.brush = 0
	}
	v.lastErr = nil
	v.log.Info().Str("scheme", s.Name).Msg("world built")
	return nil
}

// reload rebuilds after a file change. A broken file keeps the running world.
func (v *Viewer) reload(c scheme.Change) {
	if c.Scheme != "" && c.Scheme != v.name {
		return
	}
	if err := v.rebuild(); err != nil {
		v.lastErr = err
		v.log.Error().Err(err).Str("path", c.Path).Msg("reload failed; keeping current world")
	}
}

func (v *Viewer) pollChanges() {
	for {
		select {
		case c, ok := <-v.changes:
			if !ok {
				v.changes = nil
				return
			}
			v.reload(c)
		case err, ok := <-v.errs:
			if !ok {
				v.errs = nil
				return
			}
			v.log.Warn().Err(err).Msg("watcher")
		default:
			return
		}
	}
}

func (v *Viewer) handleInput() {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		v.paused = !v.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := v.rebuild(); err != nil {
			v.lastErr = err
		}
	}
	n := v.scheme.NumObjectLayers()
	for i := uint32(0); i < n && i < 9; i++ {
		if inpututil.IsKeyJustPressed(ebiten.Key1 + ebiten.Key(i)) {
			v.brush = layer.ObjectLayer(i)
		}
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		_, err := v.world.AddBody(physics.BodyDef{
			Layer: v.brush, Kind: physics.Dynamic, Shape: physics.Box,
			X: float64(x), Y: float64(y), Width: 14, Height: 14, Friction: 0.6,
		})
		if err != nil {
			v.log.Error().Err(err).Msg("spawn")
		}
	}
}

func (v *Viewer) Update() error {
	v.frames++
	v.pollChanges()
	v.handleInput()
	if !v.paused {
		v.world.Step(stepDT)
	}
	return nil
}

func (v *Viewer) Draw(screen *ebiten.Image) {
	cp.DrawSpace(v.world.Space(), &layerDrawer{screen: screen, zoom: 1})
	op := &text.DrawOptions{}
	op.GeoM.Translate(8, 8)
	op.LineSpacing = legendLineSpacing
	op.ColorScale.ScaleWithColor(colornames.White)
	text.Draw(screen, v.legend(), legendFace, op)
}

func (v *Viewer) legend() string {
	var sb strings.Builder
	stats := v.world.Stats()
	fmt.Fprintf(&sb, "scheme %s  FPS %.1f  bodies %d  admitted %d  rejected %d\n",
		v.scheme.Name, ebiten.ActualFPS(), stats.Bodies, stats.Admitted, stats.Rejected)
	tbl := v.scheme.Table
	for l := uint32(0); l < tbl.NumObjectLayers(); l++ {
		ol := layer.ObjectLayer(l)
		cursor := " "
		if ol == v.brush {
			cursor = ">"
		}
		fmt.Fprintf(&sb, "%s%d %s (%s)\n", cursor, l+1, tbl.ObjectLayerName(ol), tbl.BroadPhaseLayerName(tbl.BroadPhaseLayer(ol)))
	}
	sb.WriteString("click: spawn on selected layer  space: pause  r: rebuild\n")
	if v.paused {
		sb.WriteString("paused\n")
	}
	if v.lastErr != nil {
		fmt.Fprintf(&sb, "reload failed: %v\n", v.lastErr)
	}
	return sb.String()
}

func (v *Viewer) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return baseWidth, baseHeight
}
