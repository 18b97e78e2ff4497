// Package repositories defines interfaces for domain persistence.
package repositories

import (
	"context"
	"errors"

	"github.com/reglet-dev/lattice/internal/domain/entities"
	"github.com/reglet-dev/lattice/internal/domain/values"
)

// ErrModelNotFound is returned when no stored model matches a lookup.
var ErrModelNotFound = errors.New("model not found")

// ModelRepository defines the interface for keeping finished models.
type ModelRepository interface {
	// Save stores a finished model. Saving a model with a known ID replaces it.
	Save(ctx context.Context, model *entities.Model) error

	// FindByID retrieves a model by its unique ID.
	FindByID(ctx context.Context, id values.ModelID) (*entities.Model, error)

	// FindByName retrieves the models with the given name, most recently
	// saved first. A limit of zero or less returns all of them.
	FindByName(ctx context.Context, name string, limit int) ([]*entities.Model, error)
}
