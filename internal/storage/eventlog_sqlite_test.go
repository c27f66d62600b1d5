package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workwell/internal/core/clock"
	"workwell/internal/core/model"
	"workwell/internal/core/stats"
)

func openTestEventLog(t *testing.T) (*EventLog, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "workwell.db")
	eventLog, err := OpenEventLog(path)
	require.NoError(t, err)
	t.Cleanup(func() { eventLog.Close() })
	return eventLog, path
}

func TestEventLog_EntriesHalfOpenRange(t *testing.T) {
	eventLog, _ := openTestEventLog(t)
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	require.NoError(t, eventLog.AppendEntry(model.ReminderLogEntry{Type: model.ReminderWater, Timestamp: day.Add(14 * time.Hour), Completed: true}))
	require.NoError(t, eventLog.AppendEntry(model.ReminderLogEntry{Type: model.ReminderEyeRest, Timestamp: day, Completed: false}))
	require.NoError(t, eventLog.AppendEntry(model.ReminderLogEntry{Type: model.ReminderMovement, Timestamp: day.AddDate(0, 0, 1), Completed: true}))

	entries, err := eventLog.Entries(day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, model.ReminderEyeRest, entries[0].Type)
	assert.False(t, entries[0].Completed)
	assert.True(t, entries[0].Timestamp.Equal(day))
	assert.Equal(t, model.ReminderWater, entries[1].Type)
	assert.True(t, entries[1].Completed)
}

func TestEventLog_WaterRecords(t *testing.T) {
	eventLog, _ := openTestEventLog(t)
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	require.NoError(t, eventLog.AppendWater(model.WaterRecord{AmountMl: 250, LoggedAt: day.Add(9 * time.Hour)}))
	require.NoError(t, eventLog.AppendWater(model.WaterRecord{AmountMl: 400, LoggedAt: day.Add(-time.Minute)}))

	records, err := eventLog.WaterRecords(day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 250, records[0].AmountMl)
	assert.True(t, records[0].LoggedAt.Equal(day.Add(9*time.Hour)))
}

func TestEventLog_SurvivesReopen(t *testing.T) {
	eventLog, path := openTestEventLog(t)
	now := time.Date(2026, 3, 10, 11, 0, 0, 0, time.UTC)
	require.NoError(t, eventLog.AppendEntry(model.ReminderLogEntry{Type: model.ReminderWater, Timestamp: now, Completed: true}))
	require.NoError(t, eventLog.Close())

	reopened, err := OpenEventLog(path)
	require.NoError(t, err)
	defer reopened.Close()

	entries, err := reopened.Entries(time.Time{}, now.Add(time.Second))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestEventLog_BacksStreak(t *testing.T) {
	eventLog, _ := openTestEventLog(t)
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	log := stats.New(eventLog, clock.NewFake(now))

	for days := 0; days < 3; days++ {
		require.NoError(t, log.Append(model.ReminderEyeRest, true, now.AddDate(0, 0, -days).Add(-time.Hour)))
	}
	require.NoError(t, log.AppendWater(250, now.Add(-2*time.Hour)))

	summary, err := log.Today()
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Streak)
	assert.Equal(t, 250, summary.WaterMl)
	assert.Equal(t, 1, summary.Completed[model.ReminderEyeRest])
}
