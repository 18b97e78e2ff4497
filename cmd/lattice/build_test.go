package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/reglet-dev/lattice/internal/application/dto"
	"github.com/reglet-dev/lattice/internal/infrastructure/container"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCommandContext(t *testing.T) *CommandContext {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c, err := container.New(container.Options{Logger: logger})
	require.NoError(t, err)
	return &CommandContext{Container: c, Logger: logger, Context: context.Background()}
}

// writeRing writes a two-cell FODO ring: 8 placements over 10 m.
func writeRing(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ring.yaml")
	desc, err := NewScaffold(ScaffoldOptions{Name: "ring", Cells: 2, QuadLength: 0.5, K1: 0.8, DriftLength: 2})
	require.NoError(t, err)
	require.NoError(t, saveDescription(desc, path, false))
	return path
}

func defaultBuildOptions() dto.BuildOptions {
	return dto.BuildOptions{HonourStructure: true}
}

func TestRunBuild_Table(t *testing.T) {
	cc := newTestCommandContext(t)
	path := writeRing(t)
	opts := DefaultCommonOptions()

	var out bytes.Buffer
	require.NoError(t, runBuild(cc, &out, []string{path}, &opts, defaultBuildOptions()))

	assert.Contains(t, out.String(), "Model: ring")
	assert.Contains(t, out.String(), "Arc length of beamline:     10 meter")
	assert.Contains(t, out.String(), "Total number of components: 8")
}

func TestRunBuild_JSONWithDiagnosticsFile(t *testing.T) {
	cc := newTestCommandContext(t)
	path := writeRing(t)
	opts := DefaultCommonOptions()
	opts.Format = "json"
	opts.ShowLattice = true

	sarifPath := filepath.Join(t.TempDir(), "diagnostics.sarif")
	diagnosticsOut = sarifPath
	defer func() { diagnosticsOut = "" }()

	var out bytes.Buffer
	require.NoError(t, runBuild(cc, &out, []string{path}, &opts, defaultBuildOptions()))

	var doc struct {
		Name    string `json:"name"`
		Lattice []struct {
			Name string  `json:"name"`
			S    float64 `json:"s"`
		} `json:"lattice"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
	assert.Equal(t, "ring", doc.Name)
	require.Len(t, doc.Lattice, 8)
	assert.Equal(t, "QD", doc.Lattice[2].Name)
	assert.Equal(t, 2.5, doc.Lattice[2].S)

	data, err := os.ReadFile(sarifPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "2.1.0")
}

func TestRunBuild_Errors(t *testing.T) {
	cc := newTestCommandContext(t)

	t.Run("invalid format", func(t *testing.T) {
		opts := DefaultCommonOptions()
		opts.Format = "xml"
		err := runBuild(cc, io.Discard, []string{writeRing(t)}, &opts, defaultBuildOptions())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid format")
	})

	t.Run("missing file", func(t *testing.T) {
		opts := DefaultCommonOptions()
		err := runBuild(cc, io.Discard, []string{filepath.Join(t.TempDir(), "none.yaml")}, &opts, defaultBuildOptions())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "none.yaml")
	})
}

func TestRunStats(t *testing.T) {
	cc := newTestCommandContext(t)
	opts := DefaultCommonOptions()

	var out bytes.Buffer
	require.NoError(t, runStats(cc, &out, []string{writeRing(t)}, &opts, dto.BuildOptions{FlatLattice: true}))

	assert.Contains(t, out.String(), "Model Element statistics")
	assert.Contains(t, out.String(), "QUADRUPOLE")
	assert.Contains(t, out.String(), "6 distinct elements in 1 groupings", "QF, QD and 4 drifts under GLOBAL")
	assert.NotContains(t, out.String(), "diagnostics")
}

func TestRunSelect(t *testing.T) {
	cc := newTestCommandContext(t)
	opts := DefaultCommonOptions()
	opts.Format = "json"

	tests := []struct {
		name      string
		filters   dto.FilterOptions
		wantCount int
		wantErr   string
	}{
		{name: "by type", filters: dto.FilterOptions{IncludeTypes: []string{"QUADRUPOLE"}}, wantCount: 4},
		{name: "by name", filters: dto.FilterOptions{NamePatterns: []string{"QF"}}, wantCount: 2},
		{name: "by expression", filters: dto.FilterOptions{FilterExpression: `params.k1 < 0`}, wantCount: 2},
		{name: "bad expression", filters: dto.FilterOptions{FilterExpression: "((("}, wantErr: "invalid filter expression"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := runSelect(cc, &out, []string{writeRing(t)}, &opts, defaultBuildOptions(), tt.filters)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)

			var doc struct {
				Count int `json:"count"`
			}
			require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
			assert.Equal(t, tt.wantCount, doc.Count)
		})
	}
}
