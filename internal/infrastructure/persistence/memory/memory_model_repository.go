// Package memory provides in-memory implementations of domain repositories.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/reglet-dev/lattice/internal/domain/entities"
	"github.com/reglet-dev/lattice/internal/domain/repositories"
	"github.com/reglet-dev/lattice/internal/domain/values"
)

// Ensure interface compliance
var _ repositories.ModelRepository = (*ModelRepository)(nil)

type storedModel struct {
	model *entities.Model
	seq   uint64
}

// ModelRepository is an in-memory implementation of repositories.ModelRepository.
// Models are stored by pointer; callers must not modify a model after saving it.
type ModelRepository struct {
	models map[values.ModelID]storedModel
	next   uint64
	mu     sync.RWMutex
}

// NewModelRepository creates a new in-memory repository.
func NewModelRepository() *ModelRepository {
	return &ModelRepository{
		models: make(map[values.ModelID]storedModel),
	}
}

// Save stores a finished model.
func (r *ModelRepository) Save(ctx context.Context, model *entities.Model) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if model == nil {
		return fmt.Errorf("cannot save a nil model")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.next++
	r.models[model.ID()] = storedModel{model: model, seq: r.next}
	return nil
}

// FindByID retrieves a model by its unique ID.
func (r *ModelRepository) FindByID(_ context.Context, id values.ModelID) (*entities.Model, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.models[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", repositories.ErrModelNotFound, id)
	}
	return stored.model, nil
}

// FindByName retrieves the models with the given name, newest first.
func (r *ModelRepository) FindByName(_ context.Context, name string, limit int) ([]*entities.Model, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []storedModel
	for _, s := range r.models {
		if s.model.Name() == name {
			matches = append(matches, s)
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].seq > matches[j].seq
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return unwrap(matches), nil
}

func unwrap(stored []storedModel) []*entities.Model {
	out := make([]*entities.Model, len(stored))
	for i, s := range stored {
		out[i] = s.model
	}
	return out
}
