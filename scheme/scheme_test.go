package scheme

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/milk9111/layerfilter/layer"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedSchemesBuild(t *testing.T) {
	names, err := Names()
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"platformer", "reference", "teams"}, names)

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			s, err := LoadScheme("", name)
			require.NoError(t, err)
			assert.Equal(t, name, s.Name)
			require.NoError(t, layer.Validate(s.Table, s.NumObjectLayers(), s.BroadPhase, s.Pairs))
			require.NoError(t, layer.CheckSymmetry(s.NumObjectLayers(), s.Pairs))
		})
	}
}

func TestReferenceSchemeMatchesReferencePolicy(t *testing.T) {
	s, err := LoadScheme("", "reference")
	require.NoError(t, err)
	require.Equal(t, uint32(layer.NumObjectLayers), s.NumObjectLayers())
	require.Equal(t, uint32(layer.NumBroadPhaseLayers), s.Table.NumBroadPhaseLayers())

	for a := layer.ObjectLayer(0); a < layer.NumObjectLayers; a++ {
		assert.Equal(t, layer.BroadPhaseOf(a), s.Table.BroadPhaseLayer(a))
		for b := layer.ObjectLayer(0); b < layer.NumObjectLayers; b++ {
			assert.Equal(t, layer.ObjectsCanCollide(a, b), s.Pairs.ShouldCollide(a, b), "pair (%d, %d)", a, b)
		}
		for b := layer.BroadPhaseLayer(0); b < layer.NumBroadPhaseLayers; b++ {
			assert.Equal(t, layer.ObjectCanCollideWithBroadPhase(a, b), s.BroadPhase.ShouldCollide(a, b), "bucket (%d, %d)", a, b)
		}
	}
}

func TestPlatformerScheme(t *testing.T) {
	s, err := LoadScheme("", "platformer")
	require.NoError(t, err)

	debris := s.MustObjectLayer("debris")
	player := s.MustObjectLayer("player")
	terrain := s.MustObjectLayer("terrain")
	hazard := s.MustObjectLayer("hazard")
	moving, ok := s.BroadPhaseLayer("moving")
	require.True(t, ok)
	static, ok := s.BroadPhaseLayer("static")
	require.True(t, ok)

	assert.Equal(t, static, s.Table.BroadPhaseLayer(hazard))
	assert.Equal(t, moving, s.Table.BroadPhaseLayer(player))
	assert.True(t, s.Pairs.ShouldCollide(player, terrain))
	assert.False(t, s.Pairs.ShouldCollide(terrain, hazard))
	assert.False(t, s.Pairs.ShouldCollide(debris, player))
	assert.False(t, s.BroadPhase.ShouldCollide(debris, moving))
	assert.True(t, s.BroadPhase.ShouldCollide(debris, static))

	_, ok = s.ObjectLayer("ghost")
	assert.False(t, ok)
}

func TestScriptedScheme(t *testing.T) {
	s, err := LoadScheme("", "teams")
	require.NoError(t, err)

	cases := []struct {
		a, b string
		want bool
	}{
		{"world", "world", false},
		{"world", "red_shot", true},
		{"red_unit", "blue_unit", true},
		{"red_unit", "red_unit", true},
		{"red_unit", "red_shot", false},
		{"red_unit", "blue_shot", true},
		{"blue_shot", "red_unit", true},
		{"red_shot", "blue_shot", false},
	}
	for _, c := range cases {
		t.Run(c.a+"_"+c.b, func(t *testing.T) {
			assert.Equal(t, c.want, s.Pairs.ShouldCollide(s.MustObjectLayer(c.a), s.MustObjectLayer(c.b)))
		})
	}
}

func TestBuildErrors(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want error
	}{
		{"missing_name", `
broad_phase_layers: [a]
object_layers: [{name: x, broad_phase: a}]
`, ErrInvalidSpec},
		{"unknown_bucket", `
name: s
broad_phase_layers: [a]
object_layers: [{name: x, broad_phase: b}]
`, ErrUnknownLayer},
		{"duplicate_object_layer", `
name: s
broad_phase_layers: [a]
object_layers: [{name: x, broad_phase: a}, {name: x, broad_phase: a}]
`, ErrInvalidSpec},
		{"duplicate_bucket", `
name: s
broad_phase_layers: [a, a]
object_layers: [{name: x, broad_phase: a}, {name: y, broad_phase: a}]
`, ErrInvalidSpec},
		{"unknown_collide_layer", `
name: s
broad_phase_layers: [a]
object_layers: [{name: x, broad_phase: a}]
collide: [[x, y]]
`, ErrUnknownLayer},
		{"short_collide_entry", `
name: s
broad_phase_layers: [a]
object_layers: [{name: x, broad_phase: a}]
collide: [[x]]
`, ErrInvalidSpec},
		{"no_object_layers", `
name: s
broad_phase_layers: [a]
`, layer.ErrEmptyMapping},
		{"more_buckets_than_layers", `
name: s
broad_phase_layers: [a, b]
object_layers: [{name: x, broad_phase: a}]
`, layer.ErrBroadPhaseCount},
		{"inconsistent_bucket_rules", `
name: s
broad_phase_layers: [still, moving]
object_layers: [{name: x, broad_phase: still}, {name: y, broad_phase: moving}]
collide: [[x, y]]
broad_phase_collide:
  x: [moving]
  y: [moving]
`, layer.ErrInconsistentFilters},
		{"unknown_bucket_rule", `
name: s
broad_phase_layers: [a]
object_layers: [{name: x, broad_phase: a}]
broad_phase_collide:
  x: [b]
`, ErrUnknownLayer},
		{"script_and_collide", `
name: s
broad_phase_layers: [a]
object_layers: [{name: x, broad_phase: a}]
collide: [[x, x]]
script: teams.tengo
`, ErrInvalidSpec},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			spec, err := ParseSpec([]byte(c.doc))
			require.NoError(t, err)
			s, err := Build("", spec)
			require.Error(t, err)
			assert.Nil(t, s)
			assert.True(t, eris.Is(err, c.want), "got %v", err)
		})
	}

	_, err := Build("", nil)
	assert.True(t, eris.Is(err, ErrInvalidSpec))
}

func TestExplicitBucketRules(t *testing.T) {
	spec, err := ParseSpec([]byte(`
name: explicit
broad_phase_layers: [still, moving]
object_layers: [{name: x, broad_phase: still}, {name: y, broad_phase: moving}]
collide: [[x, y]]
broad_phase_collide:
  x: [moving]
  y: [still, moving]
`))
	require.NoError(t, err)
	s, err := Build("", spec)
	require.NoError(t, err)
	assert.False(t, s.BroadPhase.ShouldCollide(s.MustObjectLayer("x"), 0))
	assert.True(t, s.BroadPhase.ShouldCollide(s.MustObjectLayer("y"), 0))
}

func TestDiskOverridesEmbedded(t *testing.T) {
	dir := t.TempDir()
	doc := []byte(`
name: reference
broad_phase_layers: [only]
object_layers:
  - {name: a, broad_phase: only}
  - {name: b, broad_phase: only}
  - {name: c, broad_phase: only}
script: custom.tengo
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "reference.yaml"), doc, 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "scripts"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scripts", "custom.tengo"),
		[]byte("collide := func(a, b) { return a.index + b.index == 2 }\n"), 0o644))

	s, err := LoadScheme(dir, "reference")
	require.NoError(t, err)
	require.Equal(t, uint32(3), s.NumObjectLayers())
	assert.True(t, s.Pairs.ShouldCollide(0, 2))
	assert.True(t, s.Pairs.ShouldCollide(1, 1))
	assert.False(t, s.Pairs.ShouldCollide(0, 1))

	_, ok := ModTime(dir, "reference")
	assert.True(t, ok)
	_, ok = ModTime(dir, "platformer")
	assert.False(t, ok)

	fallback, err := LoadScheme(dir, "platformer")
	require.NoError(t, err)
	assert.Equal(t, "platformer", fallback.Name)
}

func TestScriptErrors(t *testing.T) {
	cases := []struct {
		name   string
		script string
	}{
		{"syntax", "collide := func(a, b) { return \n"},
		{"undefined_collide", "x := 1\n"},
		{"non_bool", "collide := func(a, b) { return 1 }\n"},
		{"runtime", "collide := func(a, b) { return a.index / 0 == 1 }\n"},
		{"non_terminating", "collide := func(a, b) { for { } }\n"},
	}
	restore := scriptTimeout
	scriptTimeout = 200 * time.Millisecond
	t.Cleanup(func() { scriptTimeout = restore })

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.MkdirAll(filepath.Join(dir, "scripts"), 0o755))
			require.NoError(t, os.WriteFile(filepath.Join(dir, "scripts", "bad.tengo"), []byte(c.script), 0o644))
			spec := &Spec{
				Name:             "bad",
				BroadPhaseLayers: []string{"a"},
				ObjectLayers:     []ObjectLayerSpec{{Name: "x", BroadPhase: "a"}},
				Script:           "bad.tengo",
			}
			_, err := Build(dir, spec)
			require.Error(t, err)
		})
	}
}

func TestScriptTimeoutFailsBuild(t *testing.T) {
	restore := scriptTimeout
	scriptTimeout = 200 * time.Millisecond
	t.Cleanup(func() { scriptTimeout = restore })

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "scripts"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scripts", "spin.tengo"),
		[]byte("collide := func(a, b) { for { } }\n"), 0o644))
	spec := &Spec{
		Name:             "spin",
		BroadPhaseLayers: []string{"a"},
		ObjectLayers:     []ObjectLayerSpec{{Name: "x", BroadPhase: "a"}, {Name: "y", BroadPhase: "a"}},
		Script:           "spin.tengo",
	}

	start := time.Now()
	_, err := Build(dir, spec)
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrScriptPolicy), "got %v", err)
	assert.Contains(t, err.Error(), "did not finish")
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestLoadSpecMissing(t *testing.T) {
	_, err := LoadSpec("", "does_not_exist")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scheme: load does_not_exist")
}
