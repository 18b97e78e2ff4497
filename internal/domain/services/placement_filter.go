package services

import (
	"fmt"
	"path"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/reglet-dev/lattice/internal/domain/entities"
)

// PlacementEnv defines the variables available during filter expression
// evaluation.
type PlacementEnv struct {
	Params map[string]float64 `expr:"params"`
	Name   string             `expr:"name"`
	Type   string             `expr:"type"`
	Parent string             `expr:"parent"`
	Path   []string           `expr:"path"`
	Index  int                `expr:"index"`
	Length float64            `expr:"length"`
	S      float64            `expr:"s"`
	DX     float64            `expr:"dx"`
	DY     float64            `expr:"dy"`
	Tilt   float64            `expr:"tilt"`
}

type parameterised interface {
	Params() map[string]float64
}

// NewPlacementEnv describes a placed frame located at arc length s.
func NewPlacementEnv(f *entities.ComponentFrame, s float64) PlacementEnv {
	env := PlacementEnv{
		Index:  f.BeamlineIndex(),
		Name:   f.Label(),
		Length: f.GeometryLength(),
		S:      s,
		DX:     f.Placement().DX,
		DY:     f.Placement().DY,
		Tilt:   f.Placement().Tilt,
		Params: map[string]float64{},
	}
	if el, ok := f.Component(); ok {
		env.Type = el.Type().String()
		if p, ok := el.(parameterised); ok {
			env.Params = p.Params()
		}
	}
	if parent := f.Parent(); parent != nil {
		env.Parent = parent.Name()
		env.Path = parent.Path()
	}
	return env
}

// CompilePlacementExpression compiles a boolean filter expression, e.g.
// `type == "QUADRUPOLE" && length > 0.5`.
func CompilePlacementExpression(src string) (*vm.Program, error) {
	program, err := expr.Compile(src, expr.Env(PlacementEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}
	return program, nil
}

// Selection is a placement accepted by a PlacementFilter.
type Selection struct {
	Frame *entities.ComponentFrame `json:"-" yaml:"-"`
	Env   PlacementEnv             `json:"placement" yaml:"placement"`
}

// PlacementFilter selects lattice placements by type, name and expression.
type PlacementFilter struct {
	includeTypes  map[string]bool
	excludeTypes  map[string]bool
	filterProgram *vm.Program
	namePatterns  []string
}

// NewPlacementFilter initializes a new empty filter.
func NewPlacementFilter() *PlacementFilter {
	return &PlacementFilter{
		includeTypes: make(map[string]bool),
		excludeTypes: make(map[string]bool),
	}
}

// WithIncludedTypes keeps only placements of these types.
func (f *PlacementFilter) WithIncludedTypes(types []string) *PlacementFilter {
	f.includeTypes = toTypeSet(types)
	return f
}

// WithExcludedTypes drops placements of these types.
func (f *PlacementFilter) WithExcludedTypes(types []string) *PlacementFilter {
	f.excludeTypes = toTypeSet(types)
	return f
}

// WithNamePatterns keeps placements whose name matches a glob pattern.
func (f *PlacementFilter) WithNamePatterns(patterns []string) *PlacementFilter {
	f.namePatterns = patterns
	return f
}

// WithFilterExpression applies a compiled Expr program for advanced filtering.
func (f *PlacementFilter) WithFilterExpression(program *vm.Program) *PlacementFilter {
	f.filterProgram = program
	return f
}

// Validate checks the name patterns are well formed.
func (f *PlacementFilter) Validate() error {
	for _, p := range f.namePatterns {
		if _, err := path.Match(p, ""); err != nil {
			return fmt.Errorf("invalid name pattern %q: %w", p, err)
		}
	}
	return nil
}

// ShouldInclude evaluates whether a placement matches the filter criteria.
func (f *PlacementFilter) ShouldInclude(env PlacementEnv) (bool, string) {
	var specs []PlacementSpecification

	if len(f.excludeTypes) > 0 {
		specs = append(specs, NewExcludedTypesSpecification(f.excludeTypes))
	}
	if len(f.includeTypes) > 0 {
		specs = append(specs, NewIncludedTypesSpecification(f.includeTypes))
	}
	if len(f.namePatterns) > 0 {
		specs = append(specs, NewNamePatternSpecification(f.namePatterns))
	}
	if f.filterProgram != nil {
		specs = append(specs, NewExpressionSpecification(f.filterProgram))
	}

	return NewAndSpecification(specs...).IsSatisfiedBy(env)
}

// Select returns the placements of m accepted by the filter, in lattice order.
func (f *PlacementFilter) Select(m *entities.Model) []Selection {
	positions := m.Positions()

	var out []Selection
	for i, frame := range m.Lattice() {
		env := NewPlacementEnv(frame, positions[i])
		if ok, _ := f.ShouldInclude(env); ok {
			out = append(out, Selection{Frame: frame, Env: env})
		}
	}
	return out
}

func toTypeSet(types []string) map[string]bool {
	s := make(map[string]bool, len(types))
	for _, t := range types {
		s[strings.ToUpper(strings.TrimSpace(t))] = true
	}
	return s
}
