package main

import (
	"fmt"
	"io"

	"github.com/reglet-dev/lattice/internal/application/dto"
	"github.com/reglet-dev/lattice/internal/infrastructure/output"
	"github.com/spf13/cobra"
)

var (
	selectOpts    = DefaultCommonOptions()
	selectFilters dto.FilterOptions
)

// selectCmd lists the placements matching a set of filters.
var selectCmd = &cobra.Command{
	Use:   "select <description.yaml>...",
	Short: "List the placements of a model matching filters",
	Long: `Build a model from the description files and list the lattice
placements that pass every filter.

Filtering:
  --type QUADRUPOLE,SEXTUPOLE       Keep placements of these types
  --exclude-type DRIFT             Drop placements of these types
  --name-pattern 'Q*'              Keep placements whose name matches a glob
  --filter "length > 0.5"          Advanced filter expression

Expression variables: name, type, parent, path, index, s, length, dx, dy,
tilt and params (e.g. params.k1).`,
	Example: `  lattice select ring.yaml --type QUADRUPOLE
  lattice select ring.yaml --filter 'type == "QUADRUPOLE" && params.k1 < 0' --format json`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: func(cmd *cobra.Command, _ []string) error { return bindConfig(cmd) },
	RunE: withContainer(func(cc *CommandContext, cmd *cobra.Command, args []string) error {
		return runSelect(cc, cmd.OutOrStdout(), args, &selectOpts, BuildOptions(), selectFilters)
	}),
}

func init() {
	rootCmd.AddCommand(selectCmd)

	selectOpts.RegisterFlags(selectCmd)

	// Filtering flags
	selectCmd.Flags().StringSliceVar(&selectFilters.IncludeTypes, "type", nil, "Keep placements of these types (comma-separated)")
	selectCmd.Flags().StringSliceVar(&selectFilters.ExcludeTypes, "exclude-type", nil, "Drop placements of these types (comma-separated)")
	selectCmd.Flags().StringSliceVar(&selectFilters.NamePatterns, "name-pattern", nil, "Keep placements whose name matches one of these globs")
	selectCmd.Flags().StringVar(&selectFilters.FilterExpression, "filter", "", "Advanced filter expression (e.g. \"type == 'QUADRUPOLE'\")")
}

func runSelect(cc *CommandContext, stdout io.Writer, paths []string, opts *CommonOptions, build dto.BuildOptions, filters dto.FilterOptions) error {
	opts.Resolve()
	if err := opts.ValidateFlags(); err != nil {
		return err
	}

	resp, err := cc.Build(paths, opts, build)
	if err != nil {
		return err
	}

	selection, err := cc.Container.BuildModelUseCase().SelectPlacements(cc.Context, dto.SelectPlacementsRequest{
		ModelName: resp.Model.Name(),
		Filters:   filters,
	})
	if err != nil {
		return err
	}

	writer, closeOutput, err := opts.openOutput(stdout)
	if err != nil {
		return err
	}
	defer func() {
		_ = closeOutput() // Best-effort cleanup
	}()

	formatter, err := output.NewFormatterFactory().Create(opts.Format, writer, formatterOptions(paths, opts))
	if err != nil {
		return err
	}
	if err := formatter.FormatSelection(selection); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	return nil
}
