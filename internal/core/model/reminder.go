package model

import (
	"fmt"
	"time"
)

// ReminderType identifies a kind of reminder.
type ReminderType string

const (
	ReminderWater    ReminderType = "water"
	ReminderEyeRest  ReminderType = "eye_rest"
	ReminderMovement ReminderType = "movement"
)

// AllReminderTypes returns every reminder type in a stable order.
func AllReminderTypes() []ReminderType {
	return []ReminderType{ReminderWater, ReminderEyeRest, ReminderMovement}
}

// ParseReminderType converts a stored value into a ReminderType.
func ParseReminderType(value string) (ReminderType, error) {
	switch ReminderType(value) {
	case ReminderWater, ReminderEyeRest, ReminderMovement:
		return ReminderType(value), nil
	default:
		return "", fmt.Errorf("unknown reminder type %q", value)
	}
}

// Title returns a short human-readable label.
func (reminder ReminderType) Title() string {
	switch reminder {
	case ReminderWater:
		return "Time to drink water"
	case ReminderEyeRest:
		return "Rest your eyes"
	case ReminderMovement:
		return "Time to move"
	default:
		return string(reminder)
	}
}

// ReminderLogEntry records one resolved occurrence. Never mutated after creation.
type ReminderLogEntry struct {
	Type      ReminderType
	Timestamp time.Time
	Completed bool
}

// WaterRecord records a logged drink.
type WaterRecord struct {
	AmountMl int
	LoggedAt time.Time
}
