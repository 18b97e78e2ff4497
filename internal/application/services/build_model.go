// Package services contains application use cases.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/reglet-dev/lattice/internal/application/dto"
	apperrors "github.com/reglet-dev/lattice/internal/application/errors"
	"github.com/reglet-dev/lattice/internal/application/ports"
	"github.com/reglet-dev/lattice/internal/domain/entities"
	"github.com/reglet-dev/lattice/internal/domain/repositories"
	"github.com/reglet-dev/lattice/internal/domain/services"
	"github.com/reglet-dev/lattice/internal/domain/values"
	"github.com/reglet-dev/lattice/internal/infrastructure/config"
	"golang.org/x/sync/errgroup"
)

// BuildModelUseCase orchestrates loading descriptions, constructing a
// model and storing it.
type BuildModelUseCase struct {
	loader   ports.DescriptionLoader
	builders ports.BuilderFactory
	models   repositories.ModelRepository
	logger   *slog.Logger
}

// NewBuildModelUseCase creates a new build model use case.
func NewBuildModelUseCase(
	loader ports.DescriptionLoader,
	builders ports.BuilderFactory,
	models repositories.ModelRepository,
	logger *slog.Logger,
) *BuildModelUseCase {
	if logger == nil {
		logger = slog.Default()
	}

	return &BuildModelUseCase{
		loader:   loader,
		builders: builders,
		models:   models,
		logger:   logger,
	}
}

// Execute builds one model from the descriptions of req, in argument order.
func (uc *BuildModelUseCase) Execute(ctx context.Context, req dto.BuildModelRequest) (*dto.BuildModelResponse, error) {
	startTime := time.Now()

	if len(req.DescriptionPaths) == 0 {
		return nil, apperrors.NewValidationError("descriptions", "at least one description file is required")
	}

	descriptions, err := uc.loadDescriptions(ctx, req.DescriptionPaths)
	if err != nil {
		return nil, err
	}

	name := req.ModelName
	if name == "" {
		name = descriptions[0].Name
	}

	model, err := uc.construct(name, descriptions, req.Options)
	if err != nil {
		return nil, err
	}

	if err := uc.models.Save(ctx, model); err != nil {
		return nil, fmt.Errorf("failed to store model: %w", err)
	}

	return &dto.BuildModelResponse{
		Model:       model,
		Statistics:  services.StatisticsOf(model),
		Diagnostics: model.Diagnostics(),
		Metadata: dto.ResponseMetadata{
			RequestID:   req.Metadata.RequestID,
			ProcessedAt: time.Now(),
			Duration:    time.Since(startTime),
		},
	}, nil
}

// loadDescriptions decodes the files concurrently and returns them in the
// order of paths.
func (uc *BuildModelUseCase) loadDescriptions(ctx context.Context, paths []string) ([]*config.Description, error) {
	descriptions := make([]*config.Description, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			d, err := uc.loader.LoadDescription(path)
			if err != nil {
				return apperrors.NewLoadError(path, err)
			}
			descriptions[i] = d
			uc.logger.Debug("description loaded", "path", path, "name", d.Name, "version", d.Version)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return descriptions, nil
}

func (uc *BuildModelUseCase) construct(name string, descriptions []*config.Description, opts dto.BuildOptions) (*entities.Model, error) {
	c := services.NewModelConstructor(services.ConstructorOptions{
		Logger:    uc.logger,
		ModelName: name,
	})
	builder := uc.builders.NewBuilder(opts)

	for _, d := range descriptions {
		if err := builder.Append(c, d); err != nil {
			return nil, apperrors.NewBuildError(name, "failed to append description", err)
		}
	}

	model, err := c.Finish()
	if err != nil {
		return nil, apperrors.NewBuildError(name, "model is inconsistent", err)
	}
	return model, nil
}

// SelectPlacements applies a placement filter to a stored model.
func (uc *BuildModelUseCase) SelectPlacements(ctx context.Context, req dto.SelectPlacementsRequest) (*dto.SelectPlacementsResponse, error) {
	startTime := time.Now()

	model, err := uc.findModel(ctx, req)
	if err != nil {
		return nil, err
	}

	filter, err := BuildPlacementFilter(req.Filters)
	if err != nil {
		return nil, err
	}

	return &dto.SelectPlacementsResponse{
		Model:      model,
		Selections: filter.Select(model),
		Metadata: dto.ResponseMetadata{
			RequestID:   req.Metadata.RequestID,
			ProcessedAt: time.Now(),
			Duration:    time.Since(startTime),
		},
	}, nil
}

func (uc *BuildModelUseCase) findModel(ctx context.Context, req dto.SelectPlacementsRequest) (*entities.Model, error) {
	if req.ModelID == "" {
		if req.ModelName == "" {
			return nil, apperrors.NewValidationError("model", "a model ID or name is required")
		}
		models, err := uc.models.FindByName(ctx, req.ModelName, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to find model: %w", err)
		}
		if len(models) == 0 {
			return nil, fmt.Errorf("failed to find model: %w: %s", repositories.ErrModelNotFound, req.ModelName)
		}
		return models[0], nil
	}

	id, err := values.ParseModelID(req.ModelID)
	if err != nil {
		return nil, apperrors.NewValidationError("model", "invalid model ID", err.Error())
	}

	model, err := uc.models.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find model: %w", err)
	}
	return model, nil
}

// BuildPlacementFilter turns filter options into a domain filter.
func BuildPlacementFilter(opts dto.FilterOptions) (*services.PlacementFilter, error) {
	filter := services.NewPlacementFilter().
		WithIncludedTypes(opts.IncludeTypes).
		WithExcludedTypes(opts.ExcludeTypes).
		WithNamePatterns(opts.NamePatterns)

	if opts.FilterExpression != "" {
		program, err := services.CompilePlacementExpression(opts.FilterExpression)
		if err != nil {
			return nil, apperrors.NewValidationError("filter", "invalid filter expression", err.Error())
		}
		filter = filter.WithFilterExpression(program)
	}

	if err := filter.Validate(); err != nil {
		return nil, apperrors.NewValidationError("filter", "invalid name pattern", err.Error())
	}
	return filter, nil
}
