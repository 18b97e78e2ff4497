package entities

import (
	"testing"

	"github.com/reglet-dev/lattice/internal/domain/values"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Repository_AddIsIdempotentByIdentity(t *testing.T) {
	repo := NewRepository()
	d1 := mustDrift(t, "D", 1)
	d2 := mustDrift(t, "D", 1) // equal by value, distinct identity

	slot, added := repo.Add(d1)
	assert.True(t, added)
	assert.Equal(t, Slot(0), slot)

	slot, added = repo.Add(d1)
	assert.False(t, added)
	assert.Equal(t, Slot(0), slot)

	slot, added = repo.Add(d2)
	assert.True(t, added)
	assert.Equal(t, Slot(1), slot)

	assert.Equal(t, 2, repo.Size())
}

func Test_Repository_IterationOrder(t *testing.T) {
	repo := NewRepository()
	a := mustDrift(t, "A", 1)
	seq := NewSequenceFrame("ARC", values.OriginAtEntrance)
	b := mustDrift(t, "B", 1)

	repo.Add(a)
	repo.Add(seq)
	repo.Add(b)
	repo.Add(a)

	items := repo.Items()
	require.Len(t, items, 3)
	assert.Same(t, a, items[0])
	assert.Same(t, seq, items[1])
	assert.Same(t, b, items[2])

	assert.Len(t, repo.Elements(), 2)
	assert.Equal(t, []*SequenceFrame{seq}, repo.Sequences())

	slot, ok := repo.SlotOf(b)
	require.True(t, ok)
	assert.Equal(t, Slot(2), slot)
}

func Test_Repository_CountByType(t *testing.T) {
	repo := NewRepository()
	q, err := NewComponent("Q1", values.MustNewElementType("quadrupole"), 0.5, nil)
	require.NoError(t, err)

	repo.Add(mustDrift(t, "D1", 1))
	repo.Add(mustDrift(t, "D2", 1))
	repo.Add(q)
	repo.Add(q)
	repo.Add(NewSequenceFrame("CELL", values.OriginAtEntrance))

	assert.Equal(t, map[string]int{
		"DRIFT":      2,
		"QUADRUPOLE": 1,
		"SEQUENCE":   1,
	}, repo.CountByType())
}

type valueItem struct{ name string }

func (v valueItem) Name() string             { return v.name }
func (v valueItem) Type() values.ElementType { return values.MustNewElementType("MARKER") }

func Test_Repository_RejectsNonPointerItems(t *testing.T) {
	repo := NewRepository()
	assert.Panics(t, func() { repo.Add(valueItem{name: "M"}) })
	assert.Panics(t, func() { repo.Add(nil) })
	assert.Equal(t, 0, repo.Size())
}
