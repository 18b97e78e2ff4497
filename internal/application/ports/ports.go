// Package ports defines interfaces for infrastructure dependencies.
// These are the "ports" in hexagonal architecture - abstractions that
// the application layer depends on but doesn't implement.
package ports

import (
	"io"

	"github.com/reglet-dev/lattice/internal/application/dto"
	"github.com/reglet-dev/lattice/internal/domain/services"
	"github.com/reglet-dev/lattice/internal/infrastructure/config"
)

// DescriptionLoader loads beamline descriptions from storage.
type DescriptionLoader interface {
	LoadDescription(path string) (*config.Description, error)
}

// DescriptionBuilder replays a description onto a model constructor.
type DescriptionBuilder interface {
	Append(c *services.ModelConstructor, d *config.Description) error
}

// BuilderFactory creates description builders for a set of build options.
type BuilderFactory interface {
	NewBuilder(opts dto.BuildOptions) DescriptionBuilder
}

// FormatterOptions tune output formatters.
type FormatterOptions struct {
	// DescriptionPaths are the files the model was built from
	DescriptionPaths []string
	// ToolVersion is reported by formats that record the producing tool
	ToolVersion string
	// Indent pretty-prints JSON output
	Indent bool
	// ShowLattice lists every placement, not only the summary
	ShowLattice bool
	// Color enables ANSI colors in table output
	Color bool
}

// OutputFormatter formats build and selection results.
type OutputFormatter interface {
	Format(resp *dto.BuildModelResponse) error
	FormatSelection(resp *dto.SelectPlacementsResponse) error
}

// OutputFormatterFactory creates formatters by format name.
type OutputFormatterFactory interface {
	Create(format string, writer io.Writer, options FormatterOptions) (OutputFormatter, error)
	SupportedFormats() []string
}
