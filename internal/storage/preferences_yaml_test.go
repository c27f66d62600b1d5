package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workwell/internal/core/model"
)

func TestPreferencesStore_RoundTrip(t *testing.T) {
	store := NewPreferencesStoreAt(filepath.Join(t.TempDir(), "nested", "preferences.yaml"))

	prefs := model.DefaultPreferences()
	prefs.WorkStart = model.At(9, 30)
	prefs.WorkEnd = model.At(18, 0)
	prefs.Lunch = &model.LunchWindow{Start: model.At(12, 30), End: model.At(13, 15)}
	eye := prefs.Reminders[model.ReminderEyeRest]
	eye.FocusMode = true
	eye.IntervalMinutes = 25
	prefs.Reminders[model.ReminderEyeRest] = eye
	movement := prefs.Reminders[model.ReminderMovement]
	movement.Enabled = false
	prefs.Reminders[model.ReminderMovement] = movement
	prefs.SnoozeMinutes = 10
	prefs.Notification = model.NotificationStyle{Banner: false, Sound: true}
	prefs.DisplayStyle = model.DisplayBold
	prefs.DefaultGlassMl = 330
	prefs.WeightKg = 72.5
	goal := 2100
	prefs.WaterGoalMlOverride = &goal
	prefs.MovementFocusSeconds = 45
	prefs.EyeRestSilent = true

	require.NoError(t, store.Save(prefs))
	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, prefs, loaded)
}

func TestPreferencesStore_MissingFileUsesDefaults(t *testing.T) {
	store := NewPreferencesStoreAt(filepath.Join(t.TempDir(), "preferences.yaml"))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, model.DefaultPreferences(), loaded)
}

func TestPreferencesStore_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.yaml")
	require.NoError(t, os.WriteFile(path, []byte("work_start: [unclosed"), 0o644))

	loaded, err := NewPreferencesStoreAt(path).Load()
	assert.Error(t, err)
	assert.Equal(t, model.DefaultPreferences(), loaded)
}

func TestPreferencesStore_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.yaml")
	content := `
work_start: "07:45"
work_end: "25:00"
reminders:
  water:
    enabled: true
    interval_minutes: 40
  stretch:
    enabled: true
    interval_minutes: 5
snooze_minutes: 0
notification:
  banner: false
display_style: neon
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	loaded, err := NewPreferencesStoreAt(path).Load()
	require.NoError(t, err)

	defaults := model.DefaultPreferences()
	assert.Equal(t, model.At(7, 45), loaded.WorkStart)
	assert.Equal(t, defaults.WorkEnd, loaded.WorkEnd)
	assert.Equal(t, 40, loaded.Reminders[model.ReminderWater].IntervalMinutes)
	assert.True(t, loaded.Reminders[model.ReminderWater].Enabled)
	assert.True(t, loaded.Reminders[model.ReminderWater].SnoozeOnSkip)
	assert.Equal(t, defaults.Reminders[model.ReminderMovement], loaded.Reminders[model.ReminderMovement])
	assert.Len(t, loaded.Reminders, 3)
	assert.Equal(t, defaults.SnoozeMinutes, loaded.SnoozeMinutes)
	assert.False(t, loaded.Notification.Banner)
	assert.True(t, loaded.Notification.Sound)
	assert.Equal(t, defaults.DisplayStyle, loaded.DisplayStyle)
	assert.Equal(t, defaults.DefaultGlassMl, loaded.DefaultGlassMl)
	assert.Nil(t, loaded.Lunch)
}

func TestPreferencesStore_MissingSectionsKeepDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.yaml")
	require.NoError(t, os.WriteFile(path, []byte("snooze_minutes: 10\n"), 0o644))

	loaded, err := NewPreferencesStoreAt(path).Load()
	require.NoError(t, err)

	expected := model.DefaultPreferences()
	expected.SnoozeMinutes = 10
	assert.Equal(t, expected, loaded)
}

func TestPreferencesStore_ReminderKeysMergeOntoDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.yaml")
	content := `
reminders:
  movement:
    snooze_on_skip: false
  eye_rest:
    focus_mode: true
eye_rest_silent: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	loaded, err := NewPreferencesStoreAt(path).Load()
	require.NoError(t, err)

	movement := loaded.Reminders[model.ReminderMovement]
	assert.True(t, movement.Enabled)
	assert.Equal(t, 45, movement.IntervalMinutes)
	assert.False(t, movement.SnoozeOnSkip)
	eye := loaded.Reminders[model.ReminderEyeRest]
	assert.True(t, eye.Enabled)
	assert.Equal(t, 20, eye.IntervalMinutes)
	assert.True(t, eye.FocusMode)
	assert.True(t, loaded.EyeRestSilent)
	assert.True(t, loaded.Notification.Sound)
}
