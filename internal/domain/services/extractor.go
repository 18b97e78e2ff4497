package services

import (
	"fmt"
	"slices"

	"github.com/reglet-dev/lattice/internal/domain/entities"
)

// Extractor is the FrameAction used when a grouping is appended to a model.
// It registers every grouping and element it meets and appends every
// placement that is not in the lattice yet, in visiting order.
type Extractor struct {
	model  *entities.Model
	prefix []string

	placed     int
	registered int
}

// NewExtractor creates an extractor feeding model. prefix is the path of
// groupings enclosing the traversal root; it only decorates diagnostics.
func NewExtractor(model *entities.Model, prefix []string) *Extractor {
	return &Extractor{
		model:  model,
		prefix: prefix,
	}
}

// ActOn implements FrameAction.
func (x *Extractor) ActOn(frame entities.Frame, path []string) Outcome {
	switch f := frame.(type) {
	case *entities.SequenceFrame:
		x.register(f)
		return Continue()

	case *entities.ComponentFrame:
		element, ok := f.Component()
		if !ok {
			return Skip(entities.Diagnostic{
				Code:    entities.CodeMissingComponent,
				Message: "placement frame has no component; skipped",
				Frame:   f.Label(),
				Path:    x.fullPath(path),
			})
		}
		x.register(element)
		if !x.model.IsPlaced(f) {
			x.model.Place(f)
			x.placed++
		}
		return Continue()

	default:
		return Skip(entities.Diagnostic{
			Code:    entities.CodeUnknownFrame,
			Message: fmt.Sprintf("unsupported frame type %T; skipped", frame),
			Frame:   frame.Label(),
			Path:    x.fullPath(path),
		})
	}
}

// Placed returns the number of placements appended to the lattice.
func (x *Extractor) Placed() int { return x.placed }

// Registered returns the number of items newly added to the repository.
func (x *Extractor) Registered() int { return x.registered }

func (x *Extractor) register(item entities.Item) {
	if x.model.Register(item) {
		x.registered++
	}
}

func (x *Extractor) fullPath(path []string) []string {
	return append(slices.Clip(x.prefix), path...)
}
