package services

import (
	"testing"

	"github.com/reglet-dev/lattice/internal/domain/entities"
	"github.com/reglet-dev/lattice/internal/domain/values"
	"github.com/stretchr/testify/assert"
)

func Test_Traverse_DepthFirstLeftToRight(t *testing.T) {
	arc := entities.NewSequenceFrame("ARC", values.OriginAtEntrance)
	cell := entities.NewSequenceFrame("CELL", values.OriginAtEntrance)

	arc.AppendFrame(entities.NewComponentFrame(mustComponent(t, "D1", "DRIFT", 1), entities.Placement{}))
	cell.AppendFrame(entities.NewComponentFrame(mustComponent(t, "QF", "QUADRUPOLE", 0.5), entities.Placement{}))
	cell.AppendFrame(entities.NewComponentFrame(mustComponent(t, "QD", "QUADRUPOLE", 0.5), entities.Placement{}))
	arc.AppendFrame(cell)
	arc.AppendFrame(entities.NewComponentFrame(mustComponent(t, "D2", "DRIFT", 2), entities.Placement{}))

	type visit struct {
		label string
		path  []string
	}
	var visits []visit

	diags := Traverse(arc, FrameActionFunc(func(f entities.Frame, path []string) Outcome {
		visits = append(visits, visit{label: f.Label(), path: append([]string(nil), path...)})
		return Continue()
	}))

	assert.Empty(t, diags)
	assert.Equal(t, []visit{
		{"D1", []string{"ARC"}},
		{"CELL", []string{"ARC"}},
		{"QF", []string{"ARC", "CELL"}},
		{"QD", []string{"ARC", "CELL"}},
		{"D2", []string{"ARC"}},
	}, visits)
}

func Test_Traverse_SkipDoesNotStopWalk(t *testing.T) {
	seq := entities.NewSequenceFrame("S", values.OriginAtEntrance)
	inner := entities.NewSequenceFrame("INNER", values.OriginAtEntrance)
	inner.AppendFrame(entities.NewComponentFrame(mustComponent(t, "M", "MARKER", 0), entities.Placement{}))
	seq.AppendFrame(entities.NewComponentFrame(mustComponent(t, "A", "DRIFT", 1), entities.Placement{}))
	seq.AppendFrame(inner)
	seq.AppendFrame(entities.NewComponentFrame(mustComponent(t, "B", "DRIFT", 1), entities.Placement{}))

	var seen []string
	diags := Traverse(seq, FrameActionFunc(func(f entities.Frame, path []string) Outcome {
		seen = append(seen, f.Label())
		return Skip(entities.Diagnostic{Code: entities.CodeUnknownFrame, Frame: f.Label(), Path: path})
	}))

	assert.Equal(t, []string{"A", "INNER", "M", "B"}, seen, "skipped groupings are still walked")
	if assert.Len(t, diags, 4) {
		assert.Equal(t, "M", diags[2].Frame)
		assert.Equal(t, []string{"S", "INNER"}, diags[2].Path)
	}
}

func Test_Traverse_SkipWithoutDiagnostic(t *testing.T) {
	seq := entities.NewSequenceFrame("S", values.OriginAtEntrance)
	seq.AppendFrame(entities.NewComponentFrame(mustComponent(t, "A", "DRIFT", 1), entities.Placement{}))

	diags := Traverse(seq, FrameActionFunc(func(entities.Frame, []string) Outcome {
		return Outcome{Kind: OutcomeSkip}
	}))
	assert.Empty(t, diags)
}

func Test_Traverse_EmptyGrouping(t *testing.T) {
	seq := entities.NewSequenceFrame("EMPTY", values.OriginAtEntrance)
	called := false
	diags := Traverse(seq, FrameActionFunc(func(entities.Frame, []string) Outcome {
		called = true
		return Continue()
	}))
	assert.False(t, called)
	assert.Empty(t, diags)
}
