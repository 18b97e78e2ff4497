// Package adapters provides infrastructure adapters that implement application ports.
// These adapters wrap existing infrastructure components to satisfy port interfaces.
package adapters

import (
	"log/slog"

	"github.com/reglet-dev/lattice/internal/application/dto"
	"github.com/reglet-dev/lattice/internal/application/ports"
	"github.com/reglet-dev/lattice/internal/infrastructure/config"
)

// Ensure adapters implement ports at compile time
var (
	_ ports.DescriptionLoader  = (*DescriptionLoaderAdapter)(nil)
	_ ports.BuilderFactory     = (*BuilderFactoryAdapter)(nil)
	_ ports.DescriptionBuilder = (*config.Builder)(nil)
)

// DescriptionLoaderAdapter wraps config.DescriptionLoader to implement ports.DescriptionLoader.
type DescriptionLoaderAdapter struct {
	loader *config.DescriptionLoader
}

// NewDescriptionLoaderAdapter creates a new description loader adapter.
func NewDescriptionLoaderAdapter() (*DescriptionLoaderAdapter, error) {
	loader, err := config.NewDescriptionLoader()
	if err != nil {
		return nil, err
	}
	return &DescriptionLoaderAdapter{loader: loader}, nil
}

// LoadDescription loads and validates a description file.
func (a *DescriptionLoaderAdapter) LoadDescription(path string) (*config.Description, error) {
	return a.loader.LoadFile(path)
}

// BuilderFactoryAdapter creates config.Builder instances using the standard catalogue.
type BuilderFactoryAdapter struct {
	logger *slog.Logger
}

// NewBuilderFactoryAdapter creates a new builder factory adapter.
func NewBuilderFactoryAdapter(logger *slog.Logger) *BuilderFactoryAdapter {
	return &BuilderFactoryAdapter{logger: logger}
}

// NewBuilder creates a builder for opts.
func (f *BuilderFactoryAdapter) NewBuilder(opts dto.BuildOptions) ports.DescriptionBuilder {
	return config.NewBuilder(ToBuildOptions(opts), nil, f.logger)
}

// ToBuildOptions maps request options onto the description builder options.
func ToBuildOptions(opts dto.BuildOptions) config.BuildOptions {
	return config.BuildOptions{
		IgnoreZeroLengthTypes: opts.IgnoreZeroLengthTypes,
		TreatAsDrift:          opts.TreatAsDrift,
		FlatLattice:           opts.FlatLattice,
		HonourStructure:       opts.HonourStructure,
		SingleCellRF:          opts.SingleCellRF,
	}
}
