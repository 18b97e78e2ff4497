// Package dto contains data transfer objects for application layer use cases.
package dto

// BuildModelRequest encapsulates all inputs needed to build a model.
type BuildModelRequest struct {
	// ModelName names the model. Empty means the name of the first description.
	ModelName        string
	DescriptionPaths []string
	Options          BuildOptions
	Metadata         RequestMetadata
}

// BuildOptions controls how descriptions are turned into a model.
type BuildOptions struct {
	IgnoreZeroLengthTypes []string
	TreatAsDrift          []string
	FlatLattice           bool
	HonourStructure       bool
	SingleCellRF          bool
}

// FilterOptions defines filters for placement selection.
type FilterOptions struct {
	FilterExpression string
	IncludeTypes     []string
	ExcludeTypes     []string
	NamePatterns     []string
}

// SelectPlacementsRequest selects placements of a stored model. The model
// is looked up by ModelID, or when that is empty by ModelName, in which
// case the most recently built model of that name is used.
type SelectPlacementsRequest struct {
	ModelID   string
	ModelName string
	Filters   FilterOptions
	Metadata  RequestMetadata
}

// RequestMetadata contains metadata for request tracking.
type RequestMetadata struct {
	// RequestID uniquely identifies this request
	RequestID string
}
