package main

import (
	"errors"
	"log/slog"
	"os"
	"strings"

	apperrors "github.com/reglet-dev/lattice/internal/application/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd is the application entry point.
var rootCmd = &cobra.Command{
	Use:   "lattice",
	Short: "Beamline model construction",
	Long: `Lattice builds accelerator beamline models from description files.
A model is a tree of nested groupings over a flat, ordered lattice of
component placements, together with a repository owning every distinct
element. The built model can be summarised, exported or queried.`,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		setupLogging()
		return initConfig(cfgFile)
	},
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.lattice.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}

// initConfig loads configuration from the config file and environment.
// A config file given explicitly must be readable; the default
// $HOME/.lattice.yaml is optional.
func initConfig(path string) error {
	if path != "" {
		viper.SetConfigFile(path)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return apperrors.NewConfigurationError("config", "failed to find home directory", err)
		}

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".lattice")
	}

	setConfigDefaults()

	viper.SetEnvPrefix("LATTICE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return nil
		}
		return apperrors.NewConfigurationError("config", "failed to read config file", err)
	}

	slog.Debug("using config file", "file", viper.ConfigFileUsed())
	return nil
}

func setupLogging() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	// Using TextHandler for CLI friendliness
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}
