package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/reglet-dev/lattice/internal/application/dto"
	"github.com/reglet-dev/lattice/internal/application/ports"
	"github.com/reglet-dev/lattice/internal/infrastructure/output"
	"github.com/reglet-dev/lattice/internal/version"
	"github.com/spf13/cobra"
)

var (
	buildOpts      = DefaultCommonOptions()
	diagnosticsOut string
	strict         bool
)

// buildCmd represents the build command
var buildCmd = &cobra.Command{
	Use:   "build <description.yaml>...",
	Short: "Build a beamline model from description files",
	Long: `Load one or more description files and build a single model from them.
The files are appended in order below the GLOBAL grouping.

Description handling:
  --flat-lattice                 Place every element directly under GLOBAL
  --honour-structure=false       Keep only M_, S_ and G_ prefixed groupings
  --ignore-zero-length MARKER    Leave out zero-length elements of these types
  --treat-as-drift MONITOR       Replace elements of these types by drifts
  --single-cell-rf               Split RF cavities into a cell and a drift

Every option can also be set in the config file or through LATTICE_*
environment variables, e.g. LATTICE_FLAT_LATTICE=true.`,
	Example: `  lattice build ring.yaml
  lattice build injection.yaml ring.yaml --format json --show-lattice
  lattice build ring.yaml --diagnostics-out ring.sarif`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: func(cmd *cobra.Command, _ []string) error { return bindConfig(cmd) },
	RunE: withContainer(func(cc *CommandContext, cmd *cobra.Command, args []string) error {
		return runBuild(cc, cmd.OutOrStdout(), args, &buildOpts, BuildOptions())
	}),
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildOpts.RegisterFlags(buildCmd)
	buildCmd.Flags().StringVar(&diagnosticsOut, "diagnostics-out", "", "Write construction diagnostics as SARIF to this file")
	buildCmd.Flags().BoolVar(&strict, "strict", false, "Fail when construction reports diagnostics")
}

// runBuild builds the model and writes it in the selected format.
func runBuild(cc *CommandContext, stdout io.Writer, paths []string, opts *CommonOptions, build dto.BuildOptions) error {
	opts.Resolve()
	if err := opts.ValidateFlags(); err != nil {
		return err
	}

	resp, err := cc.Build(paths, opts, build)
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

	if err := formatBuild(writer, resp, paths, opts); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	if diagnosticsOut != "" {
		if err := writeDiagnostics(diagnosticsOut, resp, paths); err != nil {
			return err
		}
		cc.Logger.Info("diagnostics written", "file", diagnosticsOut, "count", len(resp.Diagnostics))
	}

	if strict && len(resp.Diagnostics) > 0 {
		return fmt.Errorf("build reported %d diagnostics", len(resp.Diagnostics))
	}
	return nil
}

func formatterOptions(paths []string, opts *CommonOptions) ports.FormatterOptions {
	return ports.FormatterOptions{
		DescriptionPaths: paths,
		ToolVersion:      version.Get().String(),
		Indent:           opts.Indent,
		ShowLattice:      opts.ShowLattice,
		Color:            opts.Color,
	}
}

func formatBuild(w io.Writer, resp *dto.BuildModelResponse, paths []string, opts *CommonOptions) error {
	formatter, err := output.NewFormatterFactory().Create(opts.Format, w, formatterOptions(paths, opts))
	if err != nil {
		return err
	}
	return formatter.Format(resp)
}

// writeDiagnostics exports the construction diagnostics as SARIF.
func writeDiagnostics(path string, resp *dto.BuildModelResponse, descriptions []string) error {
	//nolint:gosec // G304: User-controlled output file path is intentional
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create diagnostics file: %w", err)
	}
	defer func() {
		_ = file.Close() // Best-effort cleanup
	}()

	formatter := output.NewSARIFFormatter(file, ports.FormatterOptions{
		DescriptionPaths: descriptions,
		ToolVersion:      version.Get().String(),
	})
	if err := formatter.Format(resp); err != nil {
		slog.Debug("sarif export failed", "file", path, "error", err)
		return err
	}
	return nil
}
