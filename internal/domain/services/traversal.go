// Package services contains domain services that operate on the beamline
// model: the construction tree traversal, the model constructor and
// lattice queries.
package services

import (
	"slices"

	"github.com/reglet-dev/lattice/internal/domain/entities"
)

// OutcomeKind tells the traversal what happened to a visited frame.
type OutcomeKind int

const (
	// OutcomeContinue means the frame was handled.
	OutcomeContinue OutcomeKind = iota
	// OutcomeSkip means the frame was left out and a diagnostic explains why.
	OutcomeSkip
)

// Outcome is the result of applying a FrameAction to one frame.
type Outcome struct {
	Diagnostic *entities.Diagnostic
	Kind       OutcomeKind
}

// Continue reports that the frame was handled.
func Continue() Outcome {
	return Outcome{Kind: OutcomeContinue}
}

// Skip reports that the frame was left out.
func Skip(d entities.Diagnostic) Outcome {
	return Outcome{Kind: OutcomeSkip, Diagnostic: &d}
}

// Skipped returns true if the frame was left out.
func (o Outcome) Skipped() bool {
	return o.Kind == OutcomeSkip
}

// FrameAction is applied to every frame reached by Traverse. path holds the
// names of the enclosing groupings, outermost first.
type FrameAction interface {
	ActOn(frame entities.Frame, path []string) Outcome
}

// FrameActionFunc adapts a function to FrameAction.
type FrameActionFunc func(frame entities.Frame, path []string) Outcome

// ActOn calls f.
func (f FrameActionFunc) ActOn(frame entities.Frame, path []string) Outcome {
	return f(frame, path)
}

// Traverse walks the children of seq depth-first, left to right. A nested
// grouping is handed to the action before its own children are walked; a
// placement is handed to the action directly. A skipped frame does not stop
// the walk. The diagnostics of all skipped frames are returned in visiting
// order.
func Traverse(seq *entities.SequenceFrame, action FrameAction) []entities.Diagnostic {
	var diags []entities.Diagnostic
	walk(seq, []string{seq.Name()}, action, &diags)
	return diags
}

func walk(seq *entities.SequenceFrame, path []string, action FrameAction, diags *[]entities.Diagnostic) {
	for _, child := range seq.Children() {
		out := action.ActOn(child, path)
		if out.Skipped() && out.Diagnostic != nil {
			*diags = append(*diags, *out.Diagnostic)
		}

		if nested, ok := child.(*entities.SequenceFrame); ok {
			walk(nested, append(slices.Clip(path), nested.Name()), action, diags)
		}
	}
}
