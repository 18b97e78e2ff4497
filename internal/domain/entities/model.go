package entities

import (
	"fmt"
	"math"

	"github.com/reglet-dev/lattice/internal/domain/values"
)

// Model is the finished beamline model handed to downstream consumers.
// This is an aggregate root.
//
// Aggregate Boundary:
// - Model is the root
// - the Repository owns every element and grouping
// - the lattice holds non-owning references to placement frames
//
// Invariants Enforced:
// - lattice[i].BeamlineIndex() == i
// - a placement frame joins the lattice at most once
// - the root grouping is registered first and named GLOBAL
// - root length equals the sum of the placed lengths after consolidation
type Model struct {
	root        *SequenceFrame
	repo        *Repository
	placed      map[*ComponentFrame]struct{}
	name        string
	lattice     []*ComponentFrame
	diagnostics []Diagnostic
	id          values.ModelID
}

// NewModel creates an empty model with a GLOBAL root grouping using the
// entrance origin convention.
func NewModel(name string) *Model {
	m := &Model{
		id:     values.NewModelID(),
		name:   name,
		root:   NewSequenceFrame(GlobalFrameName, values.OriginAtEntrance),
		repo:   NewRepository(),
		placed: make(map[*ComponentFrame]struct{}),
	}
	m.repo.Add(m.root)
	return m
}

// ID returns the model identifier.
func (m *Model) ID() values.ModelID { return m.id }

// Name returns the model name.
func (m *Model) Name() string { return m.name }

// Root returns the GLOBAL grouping.
func (m *Model) Root() *SequenceFrame { return m.root }

// Repository returns the arena owning the model's elements and groupings.
func (m *Model) Repository() *Repository { return m.repo }

// Lattice returns the placements in beamline order.
func (m *Model) Lattice() []*ComponentFrame {
	out := make([]*ComponentFrame, len(m.lattice))
	copy(out, m.lattice)
	return out
}

// LatticeSize returns the number of placements.
func (m *Model) LatticeSize() int {
	return len(m.lattice)
}

// ArcLength returns the total geometric length of the root grouping.
func (m *Model) ArcLength() float64 {
	return m.root.GeometryLength()
}

// Diagnostics returns the anomalies recorded during construction.
func (m *Model) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(m.diagnostics))
	copy(out, m.diagnostics)
	return out
}

// Register adds an element or grouping to the repository. It returns false
// if the item was already present.
func (m *Model) Register(item Item) bool {
	_, added := m.repo.Add(item)
	return added
}

// IsPlaced reports whether f is already part of this model's lattice.
func (m *Model) IsPlaced(f *ComponentFrame) bool {
	_, ok := m.placed[f]
	return ok
}

// Place appends f to the lattice and assigns its beamline index, which is
// the lattice length before the append. Placing a frame twice panics.
func (m *Model) Place(f *ComponentFrame) int {
	if f == nil {
		panic(NewContractViolation("Model.Place", "cannot place a nil frame"))
	}
	if m.IsPlaced(f) {
		panic(NewContractViolation("Model.Place", "frame %q is already placed at index %d", f.Label(), f.index))
	}

	idx := len(m.lattice)
	f.index = idx
	m.lattice = append(m.lattice, f)
	m.placed[f] = struct{}{}
	return idx
}

// Report records a recoverable anomaly.
func (m *Model) Report(d Diagnostic) {
	m.diagnostics = append(m.diagnostics, d)
}

// Positions returns the arc-length coordinate of every placement entrance,
// in lattice order.
func (m *Model) Positions() []float64 {
	out := make([]float64, len(m.lattice))
	var s float64
	for i, f := range m.lattice {
		out[i] = s
		s += f.GeometryLength()
	}
	return out
}

// Validate checks the lattice and geometry invariants of the model.
func (m *Model) Validate() error {
	var sum float64
	for i, f := range m.lattice {
		if f.index != i {
			return fmt.Errorf("lattice entry %d (%s) carries beamline index %d", i, f.Label(), f.index)
		}
		sum += f.GeometryLength()
	}

	if err := m.root.ConsolidateConstruction(); err != nil {
		return err
	}

	if diff := math.Abs(sum - m.root.GeometryLength()); diff > lengthTolerance*float64(len(m.lattice)+1) {
		return fmt.Errorf("lattice length %g disagrees with arc length %g", sum, m.root.GeometryLength())
	}
	return nil
}
