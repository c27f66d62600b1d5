package stats

import (
	"fmt"
	"time"

	"workwell/internal/core/clock"
	"workwell/internal/core/model"
)

// Store persists the append-only event log. Ranges are [from, to).
type Store interface {
	AppendEntry(entry model.ReminderLogEntry) error
	AppendWater(record model.WaterRecord) error
	Entries(from, to time.Time) ([]model.ReminderLogEntry, error)
	WaterRecords(from, to time.Time) ([]model.WaterRecord, error)
}

// Summary is the "today" overview.
type Summary struct {
	WaterMl   int
	Completed map[model.ReminderType]int
	Streak    int
}

// Log appends occurrences and derives daily totals and streaks on demand.
// Nothing derived is cached.
type Log struct {
	store Store
	clock clock.Clock
}

// New creates a Log over store.
func New(store Store, clk clock.Clock) *Log {
	if clk == nil {
		clk = clock.Real{}
	}
	return &Log{store: store, clock: clk}
}

// Append records a resolved occurrence.
func (eventLog *Log) Append(reminder model.ReminderType, completed bool, timestamp time.Time) error {
	err := eventLog.store.AppendEntry(model.ReminderLogEntry{
		Type:      reminder,
		Timestamp: timestamp,
		Completed: completed,
	})
	if err != nil {
		return fmt.Errorf("append %s entry: %w", reminder, err)
	}
	return nil
}

// AppendWater records a drink.
func (eventLog *Log) AppendWater(amountMl int, loggedAt time.Time) error {
	if amountMl <= 0 {
		return fmt.Errorf("append water record: amount must be positive, got %d", amountMl)
	}
	if err := eventLog.store.AppendWater(model.WaterRecord{AmountMl: amountMl, LoggedAt: loggedAt}); err != nil {
		return fmt.Errorf("append water record: %w", err)
	}
	return nil
}

// TotalWaterToday sums today's water records in millilitres.
func (eventLog *Log) TotalWaterToday() (int, error) {
	from, to := dayBounds(eventLog.clock.Now())
	records, err := eventLog.store.WaterRecords(from, to)
	if err != nil {
		return 0, fmt.Errorf("total water today: %w", err)
	}
	total := 0
	for _, record := range records {
		total += record.AmountMl
	}
	return total, nil
}

// CompletedToday counts today's completed occurrences of a type.
func (eventLog *Log) CompletedToday(reminder model.ReminderType) (int, error) {
	from, to := dayBounds(eventLog.clock.Now())
	entries, err := eventLog.store.Entries(from, to)
	if err != nil {
		return 0, fmt.Errorf("completed today: %w", err)
	}
	count := 0
	for _, entry := range entries {
		if entry.Type == reminder && entry.Completed {
			count++
		}
	}
	return count, nil
}

// CurrentStreak counts consecutive days, ending today, with at least one
// completed occurrence of any type. It is 0 when today has none.
func (eventLog *Log) CurrentStreak() (int, error) {
	now := eventLog.clock.Now()
	_, endOfToday := dayBounds(now)
	entries, err := eventLog.store.Entries(time.Time{}, endOfToday)
	if err != nil {
		return 0, fmt.Errorf("current streak: %w", err)
	}

	days := make(map[string]bool)
	for _, entry := range entries {
		if entry.Completed {
			days[dayKey(entry.Timestamp.In(now.Location()))] = true
		}
	}

	streak := 0
	day, _ := dayBounds(now)
	for days[dayKey(day)] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak, nil
}

// Today collects every daily aggregate.
func (eventLog *Log) Today() (Summary, error) {
	summary := Summary{Completed: make(map[model.ReminderType]int)}
	var err error
	if summary.WaterMl, err = eventLog.TotalWaterToday(); err != nil {
		return summary, err
	}
	for _, reminder := range model.AllReminderTypes() {
		if summary.Completed[reminder], err = eventLog.CompletedToday(reminder); err != nil {
			return summary, err
		}
	}
	if summary.Streak, err = eventLog.CurrentStreak(); err != nil {
		return summary, err
	}
	return summary, nil
}

func dayBounds(t time.Time) (time.Time, time.Time) {
	year, month, day := t.Date()
	start := time.Date(year, month, day, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}
