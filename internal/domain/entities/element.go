// Package entities contains domain entities for the beamline model.
// These are pure domain types with NO infrastructure dependencies.
package entities

import (
	"fmt"
	"maps"
	"math"

	"github.com/reglet-dev/lattice/internal/domain/values"
)

// UnnamedDrift is the name given to drifts appended without a name.
const UnnamedDrift = "UNNAMED"

// Element is a physical device definition (a quadrupole named Q1, a drift, ...).
//
// Entity Identity: an Element is identified by its pointer, never by value.
// One Element may be placed at many positions of the lattice.
type Element interface {
	Name() string
	Type() values.ElementType
	Length() float64
}

// Component is the generic Element used by the component catalogue.
// Physical parameters are kept as a flat name -> value map.
type Component struct {
	params map[string]float64
	name   string
	kind   values.ElementType
	length float64
}

// NewComponent creates a component with validation.
func NewComponent(name string, kind values.ElementType, length float64, params map[string]float64) (*Component, error) {
	if kind.IsZero() {
		return nil, fmt.Errorf("component %q: type cannot be empty", name)
	}
	if kind.IsSequence() {
		return nil, fmt.Errorf("component %q: type %s is reserved for groupings", name, kind)
	}
	if math.IsNaN(length) || math.IsInf(length, 0) {
		return nil, fmt.Errorf("component %q: length must be finite", name)
	}
	if length < 0 {
		return nil, fmt.Errorf("component %q: negative length %g", name, length)
	}

	c := &Component{
		name:   name,
		kind:   kind,
		length: length,
		params: make(map[string]float64, len(params)),
	}
	maps.Copy(c.params, params)
	return c, nil
}

// NewDrift creates a field-free drift of the given length.
func NewDrift(name string, length float64) (*Component, error) {
	if name == "" {
		name = UnnamedDrift
	}
	return NewComponent(name, values.MustNewElementType("DRIFT"), length, nil)
}

// Name returns the element name.
func (c *Component) Name() string { return c.name }

// Type returns the element type tag.
func (c *Component) Type() values.ElementType { return c.kind }

// Length returns the geometric length in meters.
func (c *Component) Length() float64 { return c.length }

// Param returns a named physical parameter.
func (c *Component) Param(key string) (float64, bool) {
	v, ok := c.params[key]
	return v, ok
}

// Params returns a copy of all physical parameters.
func (c *Component) Params() map[string]float64 {
	return maps.Clone(c.params)
}

func (c *Component) String() string {
	return fmt.Sprintf("%s %s (%g m)", c.kind, c.name, c.length)
}
