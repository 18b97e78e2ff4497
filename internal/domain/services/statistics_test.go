package services

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/reglet-dev/lattice/internal/domain/entities"
	"github.com/reglet-dev/lattice/internal/domain/values"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildScenarioModel(t *testing.T) *entities.Model {
	t.Helper()
	c := newTestConstructor(nil)
	c.AppendPlacement(mustComponent(t, "D1", "DRIFT", 1), entities.Placement{})
	c.OpenGrouping("ARC", values.OriginAtEntrance)
	c.AppendPlacement(mustComponent(t, "QA", "QUADRUPOLE", 0.5), entities.Placement{})
	c.AppendPlacement(mustComponent(t, "QB", "QUADRUPOLE", 0.5), entities.Placement{DX: 0.002})
	c.CloseGrouping()
	m, err := c.Finish()
	require.NoError(t, err)
	return m
}

func Test_StatisticsOf(t *testing.T) {
	m := buildScenarioModel(t)
	s := StatisticsOf(m)

	assert.Equal(t, "test", s.ModelName)
	assert.Equal(t, m.ID().String(), s.ModelID)
	assert.InDelta(t, 2.0, s.ArcLength, 1e-12)
	assert.Equal(t, 3, s.Components)
	assert.Equal(t, 5, s.Elements)
	assert.Equal(t, 3, s.Distinct)
	assert.Equal(t, 2, s.Groupings, "GLOBAL and ARC")
	assert.Equal(t, []TypeCount{
		{Type: "DRIFT", Count: 1},
		{Type: "QUADRUPOLE", Count: 2},
		{Type: "SEQUENCE", Count: 2},
	}, s.SortedTypes())
}

func Test_WriteStatistics(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteStatistics(&buf, StatisticsOf(buildScenarioModel(t))))

	out := buf.String()
	assert.Contains(t, out, "Arc length of beamline:     2 meter\n")
	assert.Contains(t, out, "Total number of components: 3\n")
	assert.Contains(t, out, "Total number of elements:   5\n")
	assert.Contains(t, out, "Model Element statistics\n------------------------\n")
	assert.Contains(t, out, fmt.Sprintf("%-20s%-4d\n", "QUADRUPOLE", 2))
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("DRIFT")), bytes.Index(buf.Bytes(), []byte("SEQUENCE")))
}

func Test_ModelConstructor_ReportStatisticsInProgress(t *testing.T) {
	c := newTestConstructor(nil)
	c.AppendPlacement(mustComponent(t, "D1", "DRIFT", 3), entities.Placement{})

	var buf bytes.Buffer
	require.NoError(t, c.ReportStatistics(&buf))
	assert.Contains(t, buf.String(), "Arc length of beamline:     3 meter")
	assert.Equal(t, StateBuilding, c.State(), "reporting does not finish the model")
}
