package stats

import (
	"sort"
	"sync"
	"time"

	"workwell/internal/core/model"
)

// MemoryLog is a Store kept in process memory. Queries return the oldest
// record first.
type MemoryLog struct {
	mu      sync.Mutex
	entries []model.ReminderLogEntry
	water   []model.WaterRecord
}

// NewMemoryLog returns an empty in-memory store.
func NewMemoryLog() *MemoryLog {
	return &MemoryLog{}
}

func (memory *MemoryLog) AppendEntry(entry model.ReminderLogEntry) error {
	memory.mu.Lock()
	defer memory.mu.Unlock()
	memory.entries = append(memory.entries, entry)
	return nil
}

func (memory *MemoryLog) AppendWater(record model.WaterRecord) error {
	memory.mu.Lock()
	defer memory.mu.Unlock()
	memory.water = append(memory.water, record)
	return nil
}

func (memory *MemoryLog) Entries(from, to time.Time) ([]model.ReminderLogEntry, error) {
	memory.mu.Lock()
	defer memory.mu.Unlock()
	var result []model.ReminderLogEntry
	for _, entry := range memory.entries {
		if inRange(entry.Timestamp, from, to) {
			result = append(result, entry)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Timestamp.Before(result[j].Timestamp)
	})
	return result, nil
}

func (memory *MemoryLog) WaterRecords(from, to time.Time) ([]model.WaterRecord, error) {
	memory.mu.Lock()
	defer memory.mu.Unlock()
	var result []model.WaterRecord
	for _, record := range memory.water {
		if inRange(record.LoggedAt, from, to) {
			result = append(result, record)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].LoggedAt.Before(result[j].LoggedAt)
	})
	return result, nil
}

func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}
