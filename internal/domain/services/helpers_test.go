package services

import (
	"io"
	"log/slog"
	"testing"

	"github.com/reglet-dev/lattice/internal/domain/entities"
	"github.com/reglet-dev/lattice/internal/domain/values"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mustComponent(t *testing.T, name, kind string, length float64) *entities.Component {
	t.Helper()
	c, err := entities.NewComponent(name, values.MustNewElementType(kind), length, nil)
	require.NoError(t, err)
	return c
}

func latticeLabels(m *entities.Model) []string {
	var out []string
	for _, f := range m.Lattice() {
		out = append(out, f.Label())
	}
	return out
}
