package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/reglet-dev/lattice/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScaffold(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    ScaffoldOptions
		wantErr string
	}{
		{
			name: "ring",
			opts: ScaffoldOptions{Name: "ring", Cells: 4, QuadLength: 0.5, K1: 0.8, DriftLength: 2},
		},
		{
			name:    "no cells",
			opts:    ScaffoldOptions{Name: "ring", Cells: 0, QuadLength: 0.5},
			wantErr: "cells must be positive",
		},
		{
			name:    "negative drift",
			opts:    ScaffoldOptions{Name: "ring", Cells: 1, DriftLength: -1},
			wantErr: "lengths cannot be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			desc, err := NewScaffold(tt.opts)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "1.0.0", desc.Version)
			assert.Equal(t, -tt.opts.K1, desc.Elements["QD"].Params["k1"])
			require.Len(t, desc.Beamline, 1)
			assert.Equal(t, tt.opts.Cells, desc.Beamline[0].Times())
		})
	}
}

func TestSaveDescription_RoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "ring.yaml")
	desc, err := NewScaffold(ScaffoldOptions{Name: "ring", Cells: 2, QuadLength: 0.5, K1: 0.8, DriftLength: 2})
	require.NoError(t, err)

	require.NoError(t, saveDescription(desc, path, false))

	loader, err := config.NewDescriptionLoader()
	require.NoError(t, err)
	loaded, err := loader.LoadFile(path)
	require.NoError(t, err, "scaffold must pass schema validation")
	assert.Equal(t, "ring", loaded.Name)
	assert.Len(t, loaded.Lines["CELL"].Items, 4)

	err = saveDescription(desc, path, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	require.NoError(t, saveDescription(desc, path, true))
	_, err = os.Stat(path)
	assert.NoError(t, err)
}
