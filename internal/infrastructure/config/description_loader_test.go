package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLoader(t *testing.T) *DescriptionLoader {
	t.Helper()
	l, err := NewDescriptionLoader()
	require.NoError(t, err)
	return l
}

func TestLoadFile_Valid(t *testing.T) {
	d, err := newLoader(t).LoadFile("testdata/fodo.yaml")
	require.NoError(t, err)

	assert.Equal(t, "fodo-ring", d.Name)
	assert.Equal(t, "1.0.0", d.Version)
	assert.Len(t, d.Elements, 5)
	assert.Equal(t, 0.8, d.Elements["QF"].Params["k1"])
	require.Len(t, d.Beamline, 3)
	assert.Equal(t, "CELL", d.Beamline[1].Line)
	assert.Equal(t, 2, d.Beamline[1].Times())
	assert.Equal(t, 0.001, d.Lines["CELL"].Items[2].DX)
	require.NotNil(t, d.Beamline[2].Items[1].Drift)
	assert.Equal(t, 0.8, *d.Beamline[2].Items[1].Drift)
	assert.Equal(t, []string{"SPARE"}, d.Standalone)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := newLoader(t).LoadFile("testdata/does-not-exist.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open description")
}

func TestLoadFromReader_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "invalid yaml",
			yaml: `invalid yaml: [[[`,
			want: "failed to decode",
		},
		{
			name: "missing beamline",
			yaml: "version: 1.0.0\nname: x\n",
			want: "schema validation failed",
		},
		{
			name: "unknown field",
			yaml: "version: 1.0.0\nname: x\nbeamline: []\nmomentum: 7\n",
			want: "schema validation failed",
		},
		{
			name: "negative drift",
			yaml: "version: 1.0.0\nname: x\nbeamline:\n  - drift: -1\n",
			want: "schema validation failed",
		},
		{
			name: "ambiguous item",
			yaml: "version: 1.0.0\nname: x\nbeamline:\n  - drift: 1\n    line: A\n",
			want: "schema validation failed",
		},
		{
			name: "unsupported version",
			yaml: "version: 2.1.0\nname: x\nbeamline: []\n",
			want: "is not supported",
		},
		{
			name: "bad version",
			yaml: "version: latest\nname: x\nbeamline: []\n",
			want: "invalid description version",
		},
		{
			name: "unknown element",
			yaml: "version: 1.0.0\nname: x\nbeamline:\n  - element: QF\n",
			want: `unknown element "QF"`,
		},
		{
			name: "unknown line",
			yaml: "version: 1.0.0\nname: x\nbeamline:\n  - section: S\n    items:\n      - line: CELL\n",
			want: `beamline/S item 0: unknown line "CELL"`,
		},
		{
			name: "unknown standalone",
			yaml: "version: 1.0.0\nname: x\nbeamline: []\nstandalone: [Q]\n",
			want: `standalone: unknown element "Q"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newLoader(t).LoadFromReader(strings.NewReader(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestItem_Times(t *testing.T) {
	assert.Equal(t, 1, Item{}.Times())
	assert.Equal(t, 1, Item{Repeat: -3}.Times())
	assert.Equal(t, 4, Item{Repeat: 4}.Times())
}
