package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"workwell/internal/core/model"
)

// EventLog persists reminder log entries and water records in SQLite.
type EventLog struct {
	db *sql.DB
}

// OpenEventLog opens (or creates) the database at dbPath.
func OpenEventLog(dbPath string) (*EventLog, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open event log: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if err := migrateEventLog(db); err != nil {
		db.Close()
		return nil, err
	}
	return &EventLog{db: db}, nil
}

func migrateEventLog(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS reminder_log (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			type      TEXT    NOT NULL,
			timestamp INTEGER NOT NULL,
			completed INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reminder_log_timestamp ON reminder_log(timestamp)`,
		`CREATE TABLE IF NOT EXISTS water_records (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			amount_ml INTEGER NOT NULL,
			logged_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_water_records_logged_at ON water_records(logged_at)`,
	}
	for _, statement := range statements {
		if _, err := db.Exec(statement); err != nil {
			return fmt.Errorf("migrate event log: %w", err)
		}
	}
	return nil
}

// Close closes the database.
func (eventLog *EventLog) Close() error {
	return eventLog.db.Close()
}

// AppendEntry inserts a reminder log entry.
func (eventLog *EventLog) AppendEntry(entry model.ReminderLogEntry) error {
	completed := 0
	if entry.Completed {
		completed = 1
	}
	_, err := eventLog.db.Exec(
		`INSERT INTO reminder_log (type, timestamp, completed) VALUES (?, ?, ?)`,
		string(entry.Type), entry.Timestamp.UnixMilli(), completed,
	)
	if err != nil {
		return fmt.Errorf("insert reminder log entry: %w", err)
	}
	return nil
}

// AppendWater inserts a water record.
func (eventLog *EventLog) AppendWater(record model.WaterRecord) error {
	_, err := eventLog.db.Exec(
		`INSERT INTO water_records (amount_ml, logged_at) VALUES (?, ?)`,
		record.AmountMl, record.LoggedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert water record: %w", err)
	}
	return nil
}

// Entries returns the log entries in [from, to), oldest first.
func (eventLog *EventLog) Entries(from, to time.Time) ([]model.ReminderLogEntry, error) {
	rows, err := eventLog.db.Query(`
		SELECT type, timestamp, completed FROM reminder_log
		WHERE timestamp >= ? AND timestamp < ? ORDER BY timestamp ASC, id ASC
	`, from.UnixMilli(), to.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("query reminder log: %w", err)
	}
	defer rows.Close()

	var entries []model.ReminderLogEntry
	for rows.Next() {
		var (
			reminder  string
			timestamp int64
			completed int
		)
		if err := rows.Scan(&reminder, &timestamp, &completed); err != nil {
			return nil, fmt.Errorf("scan reminder log entry: %w", err)
		}
		entries = append(entries, model.ReminderLogEntry{
			Type:      model.ReminderType(reminder),
			Timestamp: time.UnixMilli(timestamp),
			Completed: completed != 0,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reminder log: %w", err)
	}
	return entries, nil
}

// WaterRecords returns the water records in [from, to), oldest first.
func (eventLog *EventLog) WaterRecords(from, to time.Time) ([]model.WaterRecord, error) {
	rows, err := eventLog.db.Query(`
		SELECT amount_ml, logged_at FROM water_records
		WHERE logged_at >= ? AND logged_at < ? ORDER BY logged_at ASC, id ASC
	`, from.UnixMilli(), to.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("query water records: %w", err)
	}
	defer rows.Close()

	var records []model.WaterRecord
	for rows.Next() {
		var (
			amount   int
			loggedAt int64
		)
		if err := rows.Scan(&amount, &loggedAt); err != nil {
			return nil, fmt.Errorf("scan water record: %w", err)
		}
		records = append(records, model.WaterRecord{AmountMl: amount, LoggedAt: time.UnixMilli(loggedAt)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate water records: %w", err)
	}
	return records, nil
}
