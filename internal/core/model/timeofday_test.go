package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		input   string
		want    TimeOfDay
		wantErr bool
	}{
		{"08:00", At(8, 0), false},
		{"17:30", At(17, 30), false},
		{"00:00", 0, false},
		{"23:59", At(23, 59), false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"noon", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.input, got.String())
		})
	}
}

func TestTimeOfDay_On(t *testing.T) {
	day := time.Date(2026, 3, 10, 15, 42, 17, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 10, 8, 30, 0, 0, time.UTC), At(8, 30).On(day))
	assert.Equal(t, At(15, 42), OfTime(day))
}
