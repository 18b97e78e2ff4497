package services

import (
	"fmt"
	"path"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// PlacementSpecification defines a condition a placement must meet.
type PlacementSpecification interface {
	// IsSatisfiedBy returns true if satisfied, along with a reason if not.
	IsSatisfiedBy(env PlacementEnv) (bool, string)
}

// AndSpecification combines multiple specifications with logical AND.
type AndSpecification struct {
	specs []PlacementSpecification
}

// NewAndSpecification creates a new AndSpecification.
func NewAndSpecification(specs ...PlacementSpecification) *AndSpecification {
	return &AndSpecification{specs: specs}
}

// IsSatisfiedBy checks if all specifications are satisfied.
func (s *AndSpecification) IsSatisfiedBy(env PlacementEnv) (bool, string) {
	for _, spec := range s.specs {
		if satisfied, reason := spec.IsSatisfiedBy(env); !satisfied {
			return false, reason
		}
	}
	return true, ""
}

// IncludedTypesSpecification keeps only placements of the given types.
type IncludedTypesSpecification struct {
	types map[string]bool
}

// NewIncludedTypesSpecification creates a new IncludedTypesSpecification.
func NewIncludedTypesSpecification(types map[string]bool) *IncludedTypesSpecification {
	return &IncludedTypesSpecification{types: types}
}

// IsSatisfiedBy checks if the placement type is in the included list.
func (s *IncludedTypesSpecification) IsSatisfiedBy(env PlacementEnv) (bool, string) {
	if len(s.types) == 0 {
		return true, ""
	}
	if !s.types[env.Type] {
		return false, "excluded by --type filter"
	}
	return true, ""
}

// ExcludedTypesSpecification drops placements of the given types.
type ExcludedTypesSpecification struct {
	types map[string]bool
}

// NewExcludedTypesSpecification creates a new ExcludedTypesSpecification.
func NewExcludedTypesSpecification(types map[string]bool) *ExcludedTypesSpecification {
	return &ExcludedTypesSpecification{types: types}
}

// IsSatisfiedBy checks if the placement type is NOT in the excluded list.
func (s *ExcludedTypesSpecification) IsSatisfiedBy(env PlacementEnv) (bool, string) {
	if s.types[env.Type] {
		return false, fmt.Sprintf("excluded by --exclude-type %s", env.Type)
	}
	return true, ""
}

// NamePatternSpecification keeps placements whose element name matches any
// of the glob patterns.
type NamePatternSpecification struct {
	patterns []string
}

// NewNamePatternSpecification creates a new NamePatternSpecification.
func NewNamePatternSpecification(patterns []string) *NamePatternSpecification {
	return &NamePatternSpecification{patterns: patterns}
}

// IsSatisfiedBy checks if the element name matches one of the patterns.
func (s *NamePatternSpecification) IsSatisfiedBy(env PlacementEnv) (bool, string) {
	if len(s.patterns) == 0 {
		return true, ""
	}
	for _, p := range s.patterns {
		if ok, _ := path.Match(p, env.Name); ok {
			return true, ""
		}
	}
	return false, "excluded by --name filter"
}

// ExpressionSpecification filters placements using an expr program.
type ExpressionSpecification struct {
	program *vm.Program
}

// NewExpressionSpecification creates a new ExpressionSpecification.
func NewExpressionSpecification(program *vm.Program) *ExpressionSpecification {
	return &ExpressionSpecification{program: program}
}

// IsSatisfiedBy evaluates the expr program against the placement.
func (s *ExpressionSpecification) IsSatisfiedBy(env PlacementEnv) (bool, string) {
	if s.program == nil {
		return true, ""
	}

	output, err := expr.Run(s.program, env)
	if err != nil {
		return false, fmt.Sprintf("filter expression error: %v", err)
	}

	result, ok := output.(bool)
	if !ok {
		return false, fmt.Sprintf("filter expression did not return boolean: %v", output)
	}
	if !result {
		return false, "excluded by --filter expression"
	}
	return true, ""
}
