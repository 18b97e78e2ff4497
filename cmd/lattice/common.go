package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/reglet-dev/lattice/internal/application/dto"
	"github.com/reglet-dev/lattice/internal/infrastructure/output"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Configuration keys shared by the config file, LATTICE_* environment
// variables and command flags.
const (
	keyFormat           = "format"
	keyFlatLattice      = "flat_lattice"
	keyHonourStructure  = "honour_structure"
	keyIgnoreZeroLength = "ignore_zero_length"
	keyTreatAsDrift     = "treat_as_drift"
	keySingleCellRF     = "single_cell_rf"
)

// flagKeys maps configuration keys to flag names.
var flagKeys = map[string]string{
	keyFormat:           "format",
	keyFlatLattice:      "flat-lattice",
	keyHonourStructure:  "honour-structure",
	keyIgnoreZeroLength: "ignore-zero-length",
	keyTreatAsDrift:     "treat-as-drift",
	keySingleCellRF:     "single-cell-rf",
}

func setConfigDefaults() {
	viper.SetDefault(keyFormat, "table")
	viper.SetDefault(keyHonourStructure, true)
}

// CommonOptions contains flags shared by the commands that build a model.
type CommonOptions struct {
	// Output
	Format  string
	OutFile string

	// Model
	ModelName string

	// Execution
	Timeout time.Duration

	// Flags (bools grouped for alignment)
	ShowLattice bool
	Color       bool
	Indent      bool
}

// DefaultCommonOptions returns sensible defaults.
func DefaultCommonOptions() CommonOptions {
	return CommonOptions{
		Timeout: 2 * time.Minute,
		Format:  "table",
		Indent:  true,
	}
}

// RegisterFlags adds the output, execution and description flags to a
// cobra command.
func (opts *CommonOptions) RegisterFlags(cmd *cobra.Command) {
	// Execution
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", opts.Timeout,
		"Global timeout for loading and building (0 to disable)")
	cmd.Flags().StringVar(&opts.ModelName, "name", "",
		"Model name (default: name of the first description)")

	// Output
	cmd.Flags().StringVar(&opts.Format, "format", opts.Format,
		"Output format: "+strings.Join(output.NewFormatterFactory().SupportedFormats(), ", "))
	cmd.Flags().StringVarP(&opts.OutFile, "output", "o", "",
		"Output file path (default: stdout)")
	cmd.Flags().BoolVar(&opts.ShowLattice, "show-lattice", false,
		"List every placement, not only the summary")
	cmd.Flags().BoolVar(&opts.Color, "color", false,
		"Colorize table output")

	// Description handling
	cmd.Flags().Bool("flat-lattice", false,
		"Ignore sections and lines, placing every element directly under GLOBAL")
	cmd.Flags().Bool("honour-structure", true,
		"Keep every section and line as a grouping (otherwise only M_, S_ and G_ prefixed ones)")
	cmd.Flags().StringSlice("ignore-zero-length", nil,
		"Element types to leave out when their length is zero (comma-separated)")
	cmd.Flags().StringSlice("treat-as-drift", nil,
		"Element types to replace by drifts of the same length (comma-separated)")
	cmd.Flags().Bool("single-cell-rf", false,
		"Split RF cavities into a half-wavelength cell and a drift")
}

// bindConfig binds the flags of cmd to their configuration keys. It runs
// per command so that a shared key follows the command being executed.
func bindConfig(cmd *cobra.Command) error {
	for key, name := range flagKeys {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			continue
		}
		if err := viper.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind flag --%s: %w", name, err)
		}
	}
	return nil
}

// Resolve fills the options bound to configuration keys.
func (opts *CommonOptions) Resolve() {
	if format := viper.GetString(keyFormat); format != "" {
		opts.Format = format
	}
}

// BuildOptions returns the description handling options from the flags,
// the environment and the config file.
func BuildOptions() dto.BuildOptions {
	return dto.BuildOptions{
		FlatLattice:           viper.GetBool(keyFlatLattice),
		HonourStructure:       viper.GetBool(keyHonourStructure),
		IgnoreZeroLengthTypes: viper.GetStringSlice(keyIgnoreZeroLength),
		TreatAsDrift:          viper.GetStringSlice(keyTreatAsDrift),
		SingleCellRF:          viper.GetBool(keySingleCellRF),
	}
}

// ApplyToContext applies timeout to context.
// Returns new context and cancel function.
func (opts *CommonOptions) ApplyToContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if opts.Timeout > 0 {
		return context.WithTimeout(ctx, opts.Timeout)
	}
	// No timeout - return no-op cancel
	return ctx, func() {}
}

// ValidateFlags validates common options.
func (opts *CommonOptions) ValidateFlags() error {
	formats := output.NewFormatterFactory().SupportedFormats()
	if !slices.Contains(formats, opts.Format) {
		return fmt.Errorf("invalid format: %s (valid: %s)", opts.Format, strings.Join(formats, ", "))
	}
	if opts.Timeout < 0 {
		return fmt.Errorf("invalid timeout: %s", opts.Timeout)
	}
	return nil
}

// openOutput returns the writer selected by --output, stdout when unset.
// The returned close function is always non-nil.
func (opts *CommonOptions) openOutput(stdout io.Writer) (io.Writer, func() error, error) {
	if opts.OutFile == "" {
		return stdout, func() error { return nil }, nil
	}

	//nolint:gosec // G304: User-controlled output file path is intentional
	file, err := os.Create(opts.OutFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return file, file.Close, nil
}
