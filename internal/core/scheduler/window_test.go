package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"workwell/internal/core/model"
)

func TestWindow_Admit(t *testing.T) {
	window := Window{
		Start: model.At(8, 0),
		End:   model.At(17, 0),
		Lunch: &model.LunchWindow{Start: model.At(12, 0), End: model.At(13, 0)},
	}
	nextMorning := at(8, 0).AddDate(0, 0, 1)

	tests := []struct {
		name      string
		candidate time.Time
		want      time.Time
	}{
		{"inside window", at(10, 15), at(10, 15)},
		{"before start", at(6, 30), at(8, 0)},
		{"at start", at(8, 0), at(8, 0)},
		{"inside lunch", at(12, 15), at(13, 0)},
		{"lunch start", at(12, 0), at(13, 0)},
		{"lunch end", at(13, 0), at(13, 0)},
		{"at end", at(17, 0), nextMorning},
		{"late evening", at(23, 10), nextMorning},
		{"last minute", at(16, 59), at(16, 59)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := window.Admit(tt.candidate)
			assert.Equal(t, tt.want, got)
			assert.True(t, window.Admissible(got))
		})
	}
}

func TestWindow_LunchAtStartOfDay(t *testing.T) {
	window := Window{
		Start: model.At(8, 0),
		End:   model.At(17, 0),
		Lunch: &model.LunchWindow{Start: model.At(7, 0), End: model.At(9, 0)},
	}
	assert.Equal(t, at(9, 0).AddDate(0, 0, 1), window.Admit(at(18, 0)))
}

func TestWindowOf_IgnoresInvalidLunch(t *testing.T) {
	prefs := model.DefaultPreferences()
	prefs.Lunch = &model.LunchWindow{Start: model.At(13, 0), End: model.At(12, 0)}
	assert.Nil(t, WindowOf(prefs).Lunch)
}
