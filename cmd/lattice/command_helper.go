package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/reglet-dev/lattice/internal/application/dto"
	"github.com/reglet-dev/lattice/internal/infrastructure/container"
	"github.com/spf13/cobra"
)

// CommandContext provides common command dependencies.
type CommandContext struct {
	Container *container.Container
	Logger    *slog.Logger
	Context   context.Context
}

// CommandHandler is a function that executes with initialized dependencies.
type CommandHandler func(*CommandContext, *cobra.Command, []string) error

// withContainer wraps a command handler with container initialization.
//
// Usage:
//
//	cmd := &cobra.Command{
//	    Use: "stats",
//	    RunE: withContainer(func(ctx *CommandContext, cmd *cobra.Command, args []string) error {
//	        resp, err := ctx.Build(args, opts)
//	        ...
//	    }),
//	}
func withContainer(handler CommandHandler) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		logger := slog.Default()

		c, err := container.New(container.Options{
			Logger: logger,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize application: %w", err)
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		return handler(&CommandContext{
			Container: c,
			Logger:    logger,
			Context:   ctx,
		}, cmd, args)
	}
}

// Build loads the description files and builds a model from them.
func (cc *CommandContext) Build(paths []string, opts *CommonOptions, build dto.BuildOptions) (*dto.BuildModelResponse, error) {
	ctx, cancel := opts.ApplyToContext(cc.Context)
	defer cancel()

	cc.Logger.Info("building model", "descriptions", paths)

	resp, err := cc.Container.BuildModelUseCase().Execute(ctx, dto.BuildModelRequest{
		ModelName:        opts.ModelName,
		DescriptionPaths: paths,
		Options:          build,
	})
	if err != nil {
		return nil, err
	}

	cc.Logger.Info("build complete",
		"model", resp.Model.Name(),
		"components", resp.Statistics.Components,
		"arc_length", resp.Statistics.ArcLength,
		"diagnostics", len(resp.Diagnostics),
		"duration", resp.Metadata.Duration)
	return resp, nil
}
