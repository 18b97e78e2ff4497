package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/goccy/go-yaml"
	"github.com/reglet-dev/lattice/internal/infrastructure/config"
	"github.com/spf13/cobra"
)

// ScaffoldOptions describe the FODO ring written by lattice init.
type ScaffoldOptions struct {
	Name          string
	OutputPath    string
	Cells         int
	QuadLength    float64
	K1            float64
	DriftLength   float64
	NoInteractive bool
	Force         bool
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter beamline description",
	Long: `Generate a description file for a ring of FODO cells: a focusing
quadrupole, a drift, a defocusing quadrupole and a drift, repeated.
Values not given as flags are asked for interactively.`,
	Example: `  lattice init
  lattice init --name ring --cells 16 --no-interactive`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().String("name", "", "Beamline name")
	initCmd.Flags().Int("cells", 0, "Number of FODO cells")
	initCmd.Flags().Float64("quad-length", 0.5, "Quadrupole length [m]")
	initCmd.Flags().Float64("k1", 0.8, "Quadrupole strength k1 [1/m^2]")
	initCmd.Flags().Float64("drift-length", 2.0, "Drift length between quadrupoles [m]")
	initCmd.Flags().StringP("output", "o", "beamline.yaml", "Output file path")
	initCmd.Flags().Bool("no-interactive", false, "Disable interactive prompts")
	initCmd.Flags().Bool("force", false, "Overwrite an existing file")

	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	opts := ScaffoldOptions{}
	opts.Name, _ = cmd.Flags().GetString("name")
	opts.Cells, _ = cmd.Flags().GetInt("cells")
	opts.QuadLength, _ = cmd.Flags().GetFloat64("quad-length")
	opts.K1, _ = cmd.Flags().GetFloat64("k1")
	opts.DriftLength, _ = cmd.Flags().GetFloat64("drift-length")
	opts.OutputPath, _ = cmd.Flags().GetString("output")
	opts.NoInteractive, _ = cmd.Flags().GetBool("no-interactive")
	opts.Force, _ = cmd.Flags().GetBool("force")

	if !opts.NoInteractive {
		if err := promptScaffold(&opts); err != nil {
			return err
		}
	}
	if opts.Name == "" {
		opts.Name = "ring"
	}
	if opts.Cells == 0 {
		opts.Cells = 8
	}

	desc, err := NewScaffold(opts)
	if err != nil {
		return err
	}
	if err := saveDescription(desc, opts.OutputPath, opts.Force); err != nil {
		return fmt.Errorf("failed to save description: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Description saved to %s\n", opts.OutputPath)
	fmt.Fprintf(cmd.OutOrStdout(), "Run 'lattice build %s' to build the model.\n", opts.OutputPath)
	return nil
}

func promptScaffold(opts *ScaffoldOptions) error {
	if opts.Name == "" {
		err := huh.NewInput().
			Title("Beamline name").
			Value(&opts.Name).
			Run()
		if err != nil {
			return err
		}
	}

	if opts.Cells == 0 {
		cells := "8"
		err := huh.NewInput().
			Title("Number of FODO cells").
			Value(&cells).
			Validate(func(s string) error {
				n, err := strconv.Atoi(s)
				if err != nil || n < 1 {
					return fmt.Errorf("enter a positive whole number")
				}
				return nil
			}).
			Run()
		if err != nil {
			return err
		}
		opts.Cells, _ = strconv.Atoi(cells)
	}
	return nil
}

// NewScaffold returns the description of a ring of FODO cells.
func NewScaffold(opts ScaffoldOptions) (*config.Description, error) {
	if opts.Cells < 1 {
		return nil, fmt.Errorf("cells must be positive, got %d", opts.Cells)
	}
	if opts.QuadLength < 0 || opts.DriftLength < 0 {
		return nil, fmt.Errorf("lengths cannot be negative")
	}

	drift := opts.DriftLength
	desc := &config.Description{
		Version: "1.0.0",
		Name:    opts.Name,
		Elements: map[string]config.ElementDef{
			"QF": {Type: "QUADRUPOLE", Length: opts.QuadLength, Params: map[string]float64{"k1": opts.K1}},
			"QD": {Type: "QUADRUPOLE", Length: opts.QuadLength, Params: map[string]float64{"k1": -opts.K1}},
		},
		Lines: map[string]config.LineDef{
			"CELL": {Items: []config.Item{
				{Element: "QF"},
				{Drift: &drift},
				{Element: "QD"},
				{Drift: &drift},
			}},
		},
		Beamline: []config.Item{
			{Line: "CELL", Repeat: opts.Cells},
		},
	}
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	return desc, nil
}

func saveDescription(desc *config.Description, path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}

	data, err := yaml.Marshal(desc)
	if err != nil {
		return err
	}
	//nolint:gosec // G306: description files are meant to be shared
	return os.WriteFile(path, data, 0o644)
}
