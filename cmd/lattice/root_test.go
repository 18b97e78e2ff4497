package main

import (
	"os"
	"path/filepath"
	"testing"

	apperrors "github.com/reglet-dev/lattice/internal/application/errors"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitConfig(t *testing.T) {
	t.Run("explicit file", func(t *testing.T) {
		viper.Reset()
		defer viper.Reset()

		path := filepath.Join(t.TempDir(), "lattice.yaml")
		require.NoError(t, os.WriteFile(path, []byte("format: json\nflat_lattice: true\ntreat_as_drift: [MONITOR]\n"), 0o600))

		require.NoError(t, initConfig(path))
		assert.Equal(t, "json", viper.GetString(keyFormat))
		assert.True(t, BuildOptions().FlatLattice)
		assert.True(t, BuildOptions().HonourStructure, "defaults still apply")
		assert.Equal(t, []string{"MONITOR"}, BuildOptions().TreatAsDrift)
	})

	t.Run("missing explicit file", func(t *testing.T) {
		viper.Reset()
		defer viper.Reset()

		err := initConfig(filepath.Join(t.TempDir(), "missing.yaml"))
		var cerr *apperrors.ConfigurationError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, "config", cerr.Aspect)
		assert.Contains(t, err.Error(), "failed to read config file")
	})

	t.Run("malformed file", func(t *testing.T) {
		viper.Reset()
		defer viper.Reset()

		path := filepath.Join(t.TempDir(), "broken.yaml")
		require.NoError(t, os.WriteFile(path, []byte("format: [json\n"), 0o600))

		var cerr *apperrors.ConfigurationError
		assert.ErrorAs(t, initConfig(path), &cerr)
	})

	t.Run("default file is optional", func(t *testing.T) {
		viper.Reset()
		defer viper.Reset()
		t.Setenv("HOME", t.TempDir())

		require.NoError(t, initConfig(""))
		assert.Equal(t, "table", viper.GetString(keyFormat))
	})
}
