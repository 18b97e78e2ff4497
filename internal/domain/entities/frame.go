package entities

import (
	"fmt"
	"math"

	"github.com/reglet-dev/lattice/internal/domain/values"
)

// GlobalFrameName is the name of the root grouping of every model.
const GlobalFrameName = "GLOBAL"

// lengthTolerance is the absolute tolerance used for length invariants.
const lengthTolerance = 1e-9

// Frame is a node of the construction tree. The set of frames is closed:
// a Frame is either a *ComponentFrame (a placement) or a *SequenceFrame
// (a grouping). Callers resolve the variant with a type switch.
type Frame interface {
	// Label is a human readable name used in diagnostics.
	Label() string
	// GeometryLength is the length the frame occupies along the beamline.
	GeometryLength() float64
	// Parent returns the grouping the frame is linked into, or nil.
	Parent() *SequenceFrame

	setParent(p *SequenceFrame)
}

// Placement carries placement-specific data of a component frame.
type Placement struct {
	DX   float64 `json:"dx,omitempty" yaml:"dx,omitempty"`
	DY   float64 `json:"dy,omitempty" yaml:"dy,omitempty"`
	Tilt float64 `json:"tilt,omitempty" yaml:"tilt,omitempty"`
}

// IsZero returns true when the placement carries no offset.
func (p Placement) IsZero() bool {
	return p == Placement{}
}

// ComponentFrame places one Element at one location of the beamline.
// The frame does not own its element.
type ComponentFrame struct {
	element   Element
	parent    *SequenceFrame
	placement Placement
	index     int
}

// NewComponentFrame wraps an element. A nil element yields a frame with no
// component, which the extraction traversal reports and skips.
func NewComponentFrame(element Element, placement Placement) *ComponentFrame {
	return &ComponentFrame{
		element:   element,
		placement: placement,
		index:     -1,
	}
}

// Component returns the wrapped element, if any.
func (f *ComponentFrame) Component() (Element, bool) {
	if f.element == nil {
		return nil, false
	}
	return f.element, true
}

// Placement returns the placement offsets.
func (f *ComponentFrame) Placement() Placement {
	return f.placement
}

// BeamlineIndex is the position of the frame in the flat lattice, or -1
// if the frame has not been placed yet.
func (f *ComponentFrame) BeamlineIndex() int {
	return f.index
}

// Label returns the element name.
func (f *ComponentFrame) Label() string {
	if f.element == nil {
		return "<no component>"
	}
	return f.element.Name()
}

// GeometryLength returns the length of the wrapped element.
func (f *ComponentFrame) GeometryLength() float64 {
	if f.element == nil {
		return 0
	}
	return f.element.Length()
}

// Parent returns the enclosing grouping.
func (f *ComponentFrame) Parent() *SequenceFrame { return f.parent }

func (f *ComponentFrame) setParent(p *SequenceFrame) { f.parent = p }

// SequenceFrame is an ordered grouping of frames (an arc, a cell, ...).
//
// Its length is derived from its children. The cached value is recomputed
// by ConsolidateConstruction, or lazily on the first GeometryLength call
// after a change.
type SequenceFrame struct {
	parent       *SequenceFrame
	name         string
	children     []Frame
	origin       values.Origin
	length       float64
	consolidated bool
}

// NewSequenceFrame creates an empty grouping.
func NewSequenceFrame(name string, origin values.Origin) *SequenceFrame {
	return &SequenceFrame{
		name:         name,
		origin:       origin,
		consolidated: true,
	}
}

// Name returns the grouping name.
func (s *SequenceFrame) Name() string { return s.name }

// Type returns the reserved SEQUENCE tag so that groupings can be counted
// alongside elements.
func (s *SequenceFrame) Type() values.ElementType { return values.Sequence }

// Origin returns the origin convention.
func (s *SequenceFrame) Origin() values.Origin { return s.origin }

// Label returns the grouping name.
func (s *SequenceFrame) Label() string { return s.name }

// Parent returns the enclosing grouping.
func (s *SequenceFrame) Parent() *SequenceFrame { return s.parent }

func (s *SequenceFrame) setParent(p *SequenceFrame) { s.parent = p }

// Children returns a copy of the child frames in order.
func (s *SequenceFrame) Children() []Frame {
	out := make([]Frame, len(s.children))
	copy(out, s.children)
	return out
}

// Len returns the number of direct children.
func (s *SequenceFrame) Len() int {
	return len(s.children)
}

// AppendFrame links f as the last child of s.
//
// A frame has a single parent: linking a frame twice, linking nil, or
// linking a grouping into itself or into one of its descendants is a
// contract violation and panics.
func (s *SequenceFrame) AppendFrame(f Frame) {
	if f == nil {
		panic(NewContractViolation("AppendFrame", "cannot append a nil frame to %q", s.name))
	}
	if p := f.Parent(); p != nil {
		panic(NewContractViolation("AppendFrame", "frame %q already belongs to %q", f.Label(), p.name))
	}
	if seq, ok := f.(*SequenceFrame); ok {
		for a := s; a != nil; a = a.parent {
			if a == seq {
				panic(NewContractViolation("AppendFrame", "appending %q to %q would create a cycle", seq.name, s.name))
			}
		}
	}

	f.setParent(s)
	s.children = append(s.children, f)
	s.invalidate()
}

// invalidate marks s and all its ancestors as needing consolidation.
func (s *SequenceFrame) invalidate() {
	for a := s; a != nil; a = a.parent {
		a.consolidated = false
	}
}

// GeometryLength returns the total length of the grouping.
func (s *SequenceFrame) GeometryLength() float64 {
	if !s.consolidated {
		s.length = s.childrenLength()
		s.consolidated = true
	}
	return s.length
}

func (s *SequenceFrame) childrenLength() float64 {
	var total float64
	for _, c := range s.children {
		total += c.GeometryLength()
	}
	return total
}

// ConsolidateConstruction recomputes the length of s and of every nested
// grouping bottom-up and checks that every component length is finite and
// non-negative. A grouping still marked consolidated must have cached the
// sum it recomputes to. Calling it again without changes yields the same
// result.
func (s *SequenceFrame) ConsolidateConstruction() error {
	cached, wasConsolidated := s.length, s.consolidated

	var total float64
	for _, c := range s.children {
		switch child := c.(type) {
		case *SequenceFrame:
			if err := child.ConsolidateConstruction(); err != nil {
				return err
			}
			total += child.length
		case *ComponentFrame:
			l := child.GeometryLength()
			if math.IsNaN(l) || math.IsInf(l, 0) || l < 0 {
				return fmt.Errorf("grouping %q: component %q has invalid length %g", s.name, child.Label(), l)
			}
			total += l
		}
	}

	if diff := math.Abs(cached - total); wasConsolidated && diff > lengthTolerance {
		return fmt.Errorf("grouping %q: cached length %g disagrees with children sum by %g", s.name, cached, diff)
	}

	s.length = total
	s.consolidated = true
	return nil
}

// EntrancePositions returns the local coordinate of each child's entrance,
// measured from the grouping origin.
func (s *SequenceFrame) EntrancePositions() []float64 {
	out := make([]float64, len(s.children))
	pos := s.origin.Offset(s.GeometryLength())
	for i, c := range s.children {
		out[i] = pos
		pos += c.GeometryLength()
	}
	return out
}

// Path returns the names of the groupings from the root down to s.
func (s *SequenceFrame) Path() []string {
	var rev []string
	for a := s; a != nil; a = a.parent {
		rev = append(rev, a.name)
	}
	out := make([]string, len(rev))
	for i, n := range rev {
		out[len(rev)-1-i] = n
	}
	return out
}
