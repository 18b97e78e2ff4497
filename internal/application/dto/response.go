package dto

import (
	"time"

	"github.com/reglet-dev/lattice/internal/domain/entities"
	"github.com/reglet-dev/lattice/internal/domain/services"
)

// BuildModelResponse contains the result of building a model.
type BuildModelResponse struct {
	// Model is the finished model, also stored in the model repository
	Model *entities.Model

	// Statistics summarises the model
	Statistics services.Statistics

	// Diagnostics lists the anomalies met during construction
	Diagnostics []entities.Diagnostic

	// Metadata contains response metadata
	Metadata ResponseMetadata
}

// SelectPlacementsResponse contains the placements accepted by a filter.
type SelectPlacementsResponse struct {
	Model      *entities.Model
	Selections []services.Selection
	Metadata   ResponseMetadata
}

// ResponseMetadata contains metadata about the response.
type ResponseMetadata struct {
	// RequestID from the original request
	RequestID string

	// ProcessedAt is when the request was processed
	ProcessedAt time.Time

	// Duration is how long the request took
	Duration time.Duration
}
