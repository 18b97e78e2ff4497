// Package container provides dependency injection for the application.
package container

import (
	"log/slog"

	"github.com/reglet-dev/lattice/internal/application/ports"
	"github.com/reglet-dev/lattice/internal/application/services"
	"github.com/reglet-dev/lattice/internal/domain/repositories"
	"github.com/reglet-dev/lattice/internal/infrastructure/adapters"
	"github.com/reglet-dev/lattice/internal/infrastructure/persistence/memory"
)

// Container holds all application dependencies.
type Container struct {
	descriptionLoader ports.DescriptionLoader
	builderFactory    ports.BuilderFactory
	modelRepository   repositories.ModelRepository
	buildModelUseCase *services.BuildModelUseCase
	logger            *slog.Logger
}

// Options configure the container.
type Options struct {
	Logger *slog.Logger
}

// New creates a new dependency injection container.
func New(opts Options) (*Container, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	// Initialize adapters
	descriptionLoader, err := adapters.NewDescriptionLoaderAdapter()
	if err != nil {
		return nil, err
	}
	builderFactory := adapters.NewBuilderFactoryAdapter(opts.Logger)

	// Built models live for the duration of the process
	modelRepository := memory.NewModelRepository()

	// Wire up use case
	buildModelUseCase := services.NewBuildModelUseCase(
		descriptionLoader,
		builderFactory,
		modelRepository,
		opts.Logger,
	)

	return &Container{
		descriptionLoader: descriptionLoader,
		builderFactory:    builderFactory,
		modelRepository:   modelRepository,
		buildModelUseCase: buildModelUseCase,
		logger:            opts.Logger,
	}, nil
}

// BuildModelUseCase returns the build model use case.
func (c *Container) BuildModelUseCase() *services.BuildModelUseCase {
	return c.buildModelUseCase
}

// DescriptionLoader returns the description loader port.
func (c *Container) DescriptionLoader() ports.DescriptionLoader {
	return c.descriptionLoader
}

// ModelRepository returns the repository of built models.
func (c *Container) ModelRepository() repositories.ModelRepository {
	return c.modelRepository
}

// Logger returns the configured logger.
func (c *Container) Logger() *slog.Logger {
	return c.logger
}
