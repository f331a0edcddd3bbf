//go:build !layers_nocheck

package layer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContractViolations(t *testing.T) {
	tbl := ReferenceTable()
	pairs, err := NewPairMatrix(3, LayerPair{0, 1})
	require.NoError(t, err)
	bp, err := DeriveBroadPhaseMatrix(mustTable(t, 2, []BroadPhaseLayer{0, 1, 1}), 3, pairs)
	require.NoError(t, err)

	cases := []struct {
		name string
		want string
		call func()
	}{
		{"BroadPhaseOf", "layer: BroadPhaseOf: index 2 out of range [0, 2)", func() { BroadPhaseOf(NumObjectLayers) }},
		{"Table.BroadPhaseLayer", "layer: Table.BroadPhaseLayer: index 2 out of range [0, 2)", func() { tbl.BroadPhaseLayer(2) }},
		{"Table.ObjectLayers", "layer: Table.ObjectLayers: index 2 out of range [0, 2)", func() { tbl.ObjectLayers(2) }},
		{"ObjectsCanCollide_a", "layer: ObjectsCanCollide: index 2 out of range [0, 2)", func() { ObjectsCanCollide(NumObjectLayers, Moving) }},
		{"ObjectsCanCollide_b", "layer: ObjectsCanCollide: index 2 out of range [0, 2)", func() { ObjectsCanCollide(Moving, NumObjectLayers) }},
		{"ObjectCanCollideWithBroadPhase_a", "layer: ObjectCanCollideWithBroadPhase: index 2 out of range [0, 2)", func() { ObjectCanCollideWithBroadPhase(NumObjectLayers, BroadPhaseMoving) }},
		{"ObjectCanCollideWithBroadPhase_b", "layer: ObjectCanCollideWithBroadPhase: index 2 out of range [0, 2)", func() { ObjectCanCollideWithBroadPhase(Moving, NumBroadPhaseLayers) }},
		{"PairMatrix", "layer: PairMatrix.ShouldCollide: index 3 out of range [0, 3)", func() { pairs.ShouldCollide(0, 3) }},
		{"BroadPhaseMatrix_a", "layer: BroadPhaseMatrix.ShouldCollide: index 3 out of range [0, 3)", func() { bp.ShouldCollide(3, 0) }},
		{"BroadPhaseMatrix_b", "layer: BroadPhaseMatrix.ShouldCollide: index 2 out of range [0, 2)", func() { bp.ShouldCollide(0, 2) }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			require.PanicsWithError(t, c.want, c.call)
		})
	}
}

func TestContractViolationValue(t *testing.T) {
	defer func() {
		r := recover()
		cv, ok := r.(*ContractViolation)
		require.True(t, ok, "panic value %T", r)
		assert.Equal(t, "Table.BroadPhaseLayer", cv.Op)
		assert.Equal(t, uint32(7), cv.Value)
		assert.Equal(t, uint32(2), cv.Limit)
	}()
	ReferenceTable().BroadPhaseLayer(7)
}
