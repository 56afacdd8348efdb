package types

import (
	"testing"

	ierr "github.com/dojocycle/dojocycle/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataMerge(t *testing.T) {
	base := Metadata{"belt": "yellow", "guardian": "Ana"}

	got := base.Merge(map[string]string{"belt": "green", "guardian": "", "allergy": "none"})

	assert.Equal(t, Metadata{"belt": "green", "allergy": "none"}, got)
	assert.Equal(t, "yellow", base["belt"], "merge must not touch the receiver")
	assert.Equal(t, Metadata{"belt": "blue"}, Metadata(nil).Merge(map[string]string{"belt": "blue"}))
}

func TestMetadataScan(t *testing.T) {
	tests := []struct {
		name    string
		value   interface{}
		want    Metadata
		wantErr bool
	}{
		{name: "null", value: nil, want: Metadata{}},
		{name: "bytes", value: []byte(`{"belt":"red"}`), want: Metadata{"belt": "red"}},
		{name: "string", value: `{"belt":"black"}`, want: Metadata{"belt": "black"}},
		{name: "bad_json", value: []byte(`{`), wantErr: true},
		{name: "bad_type", value: 42, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m Metadata
			err := m.Scan(tt.value)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, ierr.IsDatabase(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, m)
		})
	}
}
