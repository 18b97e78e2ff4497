package main

import (
	"fmt"
	"io"

	"github.com/reglet-dev/lattice/internal/application/dto"
	"github.com/reglet-dev/lattice/internal/domain/services"
	"github.com/spf13/cobra"
)

var statsOpts = DefaultCommonOptions()

// statsCmd prints the model statistics report.
var statsCmd = &cobra.Command{
	Use:   "stats <description.yaml>...",
	Short: "Print the statistics of a beamline model",
	Long: `Build a model from the description files and print its arc length,
its number of placements and elements, and the number of repository items
per element type.`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: func(cmd *cobra.Command, _ []string) error { return bindConfig(cmd) },
	RunE: withContainer(func(cc *CommandContext, cmd *cobra.Command, args []string) error {
		return runStats(cc, cmd.OutOrStdout(), args, &statsOpts, BuildOptions())
	}),
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().DurationVar(&statsOpts.Timeout, "timeout", statsOpts.Timeout, "Global timeout for loading and building (0 to disable)")
	statsCmd.Flags().StringVar(&statsOpts.ModelName, "name", "", "Model name (default: name of the first description)")
	statsCmd.Flags().Bool("flat-lattice", false, "Ignore sections and lines, placing every element directly under GLOBAL")
	statsCmd.Flags().Bool("honour-structure", true, "Keep every section and line as a grouping")
	statsCmd.Flags().StringSlice("ignore-zero-length", nil, "Element types to leave out when their length is zero")
	statsCmd.Flags().StringSlice("treat-as-drift", nil, "Element types to replace by drifts of the same length")
	statsCmd.Flags().Bool("single-cell-rf", false, "Split RF cavities into a half-wavelength cell and a drift")
}

func runStats(cc *CommandContext, w io.Writer, paths []string, opts *CommonOptions, build dto.BuildOptions) error {
	resp, err := cc.Build(paths, opts, build)
	if err != nil {
		return err
	}

	if err := services.WriteStatistics(w, resp.Statistics); err != nil {
		return fmt.Errorf("failed to write statistics: %w", err)
	}
	if _, err := fmt.Fprintf(w, "%d distinct elements in %d groupings\n",
		resp.Statistics.Distinct, resp.Statistics.Groupings); err != nil {
		return err
	}
	if n := len(resp.Diagnostics); n > 0 {
		_, err = fmt.Fprintf(w, "%d construction diagnostics, run 'lattice build' for details\n", n)
	}
	return err
}
