package model

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPreferences_Valid(t *testing.T) {
	prefs := DefaultPreferences()
	require.NoError(t, prefs.Validate())

	assert.Equal(t, At(8, 0), prefs.WorkStart)
	assert.Equal(t, At(17, 0), prefs.WorkEnd)
	assert.Nil(t, prefs.Lunch)
	assert.Equal(t, 30, prefs.Reminder(ReminderWater).IntervalMinutes)
	assert.Equal(t, 20, prefs.Reminder(ReminderEyeRest).IntervalMinutes)
	assert.Equal(t, 45, prefs.Reminder(ReminderMovement).IntervalMinutes)
	assert.True(t, prefs.Reminder(ReminderWater).SnoozeOnSkip)
	assert.False(t, prefs.Reminder(ReminderEyeRest).SnoozeOnSkip)
	assert.True(t, prefs.Reminder(ReminderMovement).SnoozeOnSkip)
	assert.Equal(t, 5, prefs.SnoozeMinutes)
	assert.Equal(t, DisplayModern, prefs.DisplayStyle)
}

func TestValidate_WorkWindow(t *testing.T) {
	tests := []struct {
		name    string
		start   TimeOfDay
		end     TimeOfDay
		wantErr bool
	}{
		{"regular day", At(8, 0), At(17, 0), false},
		{"inverted", At(17, 0), At(8, 0), true},
		{"empty", At(9, 0), At(9, 0), true},
		{"out of range", At(8, 0), At(25, 0), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prefs := DefaultPreferences()
			prefs.WorkStart = tt.start
			prefs.WorkEnd = tt.end
			err := prefs.ValidateWorkWindow()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var configErr *ConfigurationError
			require.True(t, errors.As(err, &configErr))
			assert.Equal(t, "work_window", configErr.Field)
		})
	}
}

func TestValidate_LunchAndIntervals(t *testing.T) {
	prefs := DefaultPreferences()
	prefs.Lunch = &LunchWindow{Start: At(13, 0), End: At(12, 0)}
	water := prefs.Reminders[ReminderWater]
	water.IntervalMinutes = 0
	prefs.Reminders[ReminderWater] = water

	err := prefs.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lunch_window")
	assert.Contains(t, err.Error(), "water interval_minutes")

	water.Enabled = false
	prefs.Reminders[ReminderWater] = water
	prefs.Lunch = &LunchWindow{Start: At(12, 0), End: At(13, 0)}
	assert.NoError(t, prefs.Validate())
}

func TestValidate_SnoozeMinutes(t *testing.T) {
	prefs := DefaultPreferences()
	prefs.SnoozeMinutes = 0
	err := prefs.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "snooze_minutes")
}

func TestDailyWaterGoalMl(t *testing.T) {
	prefs := DefaultPreferences()
	assert.Equal(t, 2000, prefs.DailyWaterGoalMl())

	prefs.WeightKg = 70
	assert.Equal(t, 2300, prefs.DailyWaterGoalMl())

	goal := 1800
	prefs.WaterGoalMlOverride = &goal
	assert.Equal(t, 1800, prefs.DailyWaterGoalMl())

	prefs.WaterGoalMlOverride = nil
	prefs.WeightKg = 0
	assert.Equal(t, 0, prefs.DailyWaterGoalMl())
}

func TestMovementFocus_Clamped(t *testing.T) {
	prefs := DefaultPreferences()
	assert.Equal(t, 30*time.Second, prefs.MovementFocus())

	prefs.MovementFocusSeconds = 3
	assert.Equal(t, 10*time.Second, prefs.MovementFocus())

	prefs.MovementFocusSeconds = 250
	assert.Equal(t, 100*time.Second, prefs.MovementFocus())
}

func TestBannerSound(t *testing.T) {
	prefs := DefaultPreferences()
	assert.True(t, prefs.BannerSound(ReminderEyeRest))

	prefs.EyeRestSilent = true
	assert.False(t, prefs.BannerSound(ReminderEyeRest))
	assert.True(t, prefs.BannerSound(ReminderWater))

	prefs.Notification.Sound = false
	assert.False(t, prefs.BannerSound(ReminderMovement))
}

func TestClone_Independent(t *testing.T) {
	prefs := DefaultPreferences()
	prefs.Lunch = &LunchWindow{Start: At(12, 0), End: At(13, 0)}

	clone := prefs.Clone()
	clone.Lunch.End = At(14, 0)
	clone.Reminders[ReminderWater] = ReminderSettings{}

	assert.Equal(t, At(13, 0), prefs.Lunch.End)
	assert.True(t, prefs.Reminder(ReminderWater).Enabled)
}

func TestParseReminderType(t *testing.T) {
	for _, reminder := range AllReminderTypes() {
		parsed, err := ParseReminderType(string(reminder))
		require.NoError(t, err)
		assert.Equal(t, reminder, parsed)
	}
	_, err := ParseReminderType("stretch")
	assert.Error(t, err)
}
