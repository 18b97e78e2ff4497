package entities

import (
	"testing"

	"github.com/reglet-dev/lattice/internal/domain/values"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_NewModel(t *testing.T) {
	m := NewModel("ring")

	assert.False(t, m.ID().IsZero())
	assert.Equal(t, "ring", m.Name())
	assert.Equal(t, GlobalFrameName, m.Root().Name())
	assert.True(t, m.Root().Origin().Equals(values.OriginAtEntrance))
	assert.Equal(t, 1, m.Repository().Size(), "root is registered")
	assert.Equal(t, 0, m.LatticeSize())
}

func Test_Model_PlaceAssignsContiguousIndices(t *testing.T) {
	m := NewModel("ring")
	frames := []*ComponentFrame{
		NewComponentFrame(mustDrift(t, "D1", 1), Placement{}),
		NewComponentFrame(mustDrift(t, "D2", 2), Placement{}),
		NewComponentFrame(mustDrift(t, "D3", 3), Placement{}),
	}

	for i, f := range frames {
		m.Root().AppendFrame(f)
		assert.Equal(t, i, m.Place(f))
		assert.True(t, m.IsPlaced(f))
	}

	for i, f := range m.Lattice() {
		assert.Equal(t, i, f.BeamlineIndex())
	}
	assert.Equal(t, []float64{0, 1, 3}, m.Positions())
	require.NoError(t, m.Validate())
	assert.InDelta(t, 6.0, m.ArcLength(), 1e-12)
}

func Test_Model_PlaceTwicePanics(t *testing.T) {
	m := NewModel("ring")
	f := NewComponentFrame(mustDrift(t, "D1", 1), Placement{})
	m.Place(f)

	assert.PanicsWithError(t, `contract violation in Model.Place: frame "D1" is already placed at index 0`, func() {
		m.Place(f)
	})
	assert.Equal(t, 1, m.LatticeSize())
}

func Test_Model_ValidateDetectsUnlinkedPlacement(t *testing.T) {
	m := NewModel("ring")
	// placed but never linked into the tree: lattice and geometry disagree
	m.Place(NewComponentFrame(mustDrift(t, "D1", 1), Placement{}))

	err := m.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disagrees with arc length")
}

func Test_Model_Diagnostics(t *testing.T) {
	m := NewModel("ring")
	m.Report(Diagnostic{Code: CodeMissingComponent, Frame: "X", Message: "no component", Path: []string{"GLOBAL"}})

	diags := m.Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, "missing-component: GLOBAL/X: no component", diags[0].String())
}
