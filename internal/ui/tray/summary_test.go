package tray

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"workwell/internal/core/model"
	"workwell/internal/core/stats"
)

func TestTodayLabel(t *testing.T) {
	summary := stats.Summary{
		WaterMl: 750,
		Completed: map[model.ReminderType]int{
			model.ReminderEyeRest:  4,
			model.ReminderMovement: 2,
		},
	}
	assert.Equal(t, "Today: water 750/2000 ml, eyes 4, moves 2", TodayLabel(summary, 2000))

	summary.Streak = 5
	assert.Equal(t, "Today: water 750/2000 ml, eyes 4, moves 2, streak 5d", TodayLabel(summary, 2000))
}

func TestNextLabel(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		reminder model.ReminderType
		fireAt   time.Time
		want     string
	}{
		{"later today", model.ReminderWater, now.Add(25 * time.Minute), "Time to drink water in 25 min (09:25)"},
		{"rounds to minute", model.ReminderEyeRest, now.Add(4*time.Minute + 40*time.Second), "Rest your eyes in 5 min (09:04)"},
		{"overdue", model.ReminderMovement, now.Add(-time.Minute), "Time to move in 0 min (08:59)"},
		{"tomorrow", model.ReminderWater, time.Date(2026, 3, 11, 8, 0, 0, 0, time.UTC), "Time to drink water Wed 08:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextLabel(tt.reminder, tt.fireAt, now))
		})
	}
}

func TestFormatPause(t *testing.T) {
	for duration, want := range map[time.Duration]string{
		15 * time.Minute: "15 minutes",
		time.Hour:        "1 hour",
		2 * time.Hour:    "2 hours",
	} {
		assert.Equal(t, want, formatPause(duration))
	}
}
