package values

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_NewOrigin(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Origin
		wantErr bool
	}{
		{"empty defaults to entrance", "", OriginAtEntrance, false},
		{"entrance", "entrance", OriginAtEntrance, false},
		{"centre", "centre", OriginAtCentre, false},
		{"center spelling", "CENTER", OriginAtCentre, false},
		{"invalid", "exit", Origin{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := NewOrigin(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, o.Equals(tt.want))
		})
	}
}

func Test_Origin_Offset(t *testing.T) {
	assert.InDelta(t, 0.0, OriginAtEntrance.Offset(4), 1e-12)
	assert.InDelta(t, -2.0, OriginAtCentre.Offset(4), 1e-12)
}

func Test_Origin_JSON(t *testing.T) {
	data, err := json.Marshal(OriginAtCentre)
	require.NoError(t, err)
	assert.Equal(t, `"centre"`, string(data))

	var o Origin
	require.NoError(t, json.Unmarshal([]byte(`"entrance"`), &o))
	assert.True(t, o.Equals(OriginAtEntrance))
}
