package services

import (
	"testing"

	"github.com/reglet-dev/lattice/internal/domain/entities"
	"github.com/reglet-dev/lattice/internal/domain/values"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildFodoModel(t *testing.T) *entities.Model {
	t.Helper()
	c := newTestConstructor(nil)

	qf, err := entities.NewComponent("QF", values.MustNewElementType("QUADRUPOLE"), 0.5, map[string]float64{"k1": 0.8})
	require.NoError(t, err)
	qd, err := entities.NewComponent("QD", values.MustNewElementType("QUADRUPOLE"), 0.5, map[string]float64{"k1": -0.8})
	require.NoError(t, err)

	c.OpenGrouping("CELL", values.OriginAtEntrance)
	c.AppendPlacement(qf, entities.Placement{})
	_, err = c.AppendDrift(2)
	require.NoError(t, err)
	c.AppendPlacement(qd, entities.Placement{DX: 0.001})
	_, err = c.AppendDrift(2)
	require.NoError(t, err)
	c.AppendPlacement(mustComponent(t, "BPM1", "MONITOR", 0), entities.Placement{})
	c.CloseGrouping()

	m, err := c.Finish()
	require.NoError(t, err)
	return m
}

func selectedNames(sel []Selection) []string {
	var out []string
	for _, s := range sel {
		out = append(out, s.Env.Name)
	}
	return out
}

func Test_PlacementFilter_NoFilters(t *testing.T) {
	m := buildFodoModel(t)
	sel := NewPlacementFilter().Select(m)
	assert.Len(t, sel, m.LatticeSize())
}

func Test_PlacementFilter_Types(t *testing.T) {
	m := buildFodoModel(t)

	included := NewPlacementFilter().WithIncludedTypes([]string{"quadrupole"}).Select(m)
	assert.Equal(t, []string{"QF", "QD"}, selectedNames(included))

	excluded := NewPlacementFilter().WithExcludedTypes([]string{"DRIFT", "QUADRUPOLE"}).Select(m)
	assert.Equal(t, []string{"BPM1"}, selectedNames(excluded))
}

func Test_PlacementFilter_NamePatterns(t *testing.T) {
	m := buildFodoModel(t)
	f := NewPlacementFilter().WithNamePatterns([]string{"Q?", "BPM*"})
	require.NoError(t, f.Validate())
	assert.Equal(t, []string{"QF", "QD", "BPM1"}, selectedNames(f.Select(m)))

	assert.Error(t, NewPlacementFilter().WithNamePatterns([]string{"["}).Validate())
}

func Test_PlacementFilter_Expression(t *testing.T) {
	m := buildFodoModel(t)

	tests := []struct {
		name string
		expr string
		want []string
	}{
		{"by strength", `type == "QUADRUPOLE" && params["k1"] < 0`, []string{"QD"}},
		{"by position", `s >= 2.5 && length > 0`, []string{"QD", "UNNAMED"}},
		{"by offset", `dx != 0`, []string{"QD"}},
		{"by parent", `parent == "CELL" && index == 0`, []string{"QF"}},
		{"by path", `"GLOBAL" in path && type == "MONITOR"`, []string{"BPM1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			program, err := CompilePlacementExpression(tt.expr)
			require.NoError(t, err)
			sel := NewPlacementFilter().WithFilterExpression(program).Select(m)
			assert.Equal(t, tt.want, selectedNames(sel))
		})
	}
}

func Test_CompilePlacementExpression_Invalid(t *testing.T) {
	_, err := CompilePlacementExpression(`name + 1`)
	assert.Error(t, err)

	_, err = CompilePlacementExpression(`length`)
	assert.Error(t, err, "non-boolean expressions are rejected")
}

func Test_PlacementFilter_CombinedReason(t *testing.T) {
	program, err := CompilePlacementExpression(`length > 1`)
	require.NoError(t, err)

	f := NewPlacementFilter().
		WithIncludedTypes([]string{"QUADRUPOLE"}).
		WithFilterExpression(program)

	ok, reason := f.ShouldInclude(PlacementEnv{Type: "QUADRUPOLE", Length: 0.5})
	assert.False(t, ok)
	assert.Equal(t, "excluded by --filter expression", reason)

	ok, reason = f.ShouldInclude(PlacementEnv{Type: "DRIFT", Length: 2})
	assert.False(t, ok)
	assert.Equal(t, "excluded by --type filter", reason)
}
