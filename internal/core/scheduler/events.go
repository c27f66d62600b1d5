package scheduler

import (
	"time"

	"workwell/internal/core/model"
)

// Origin tells why a task was armed.
type Origin string

const (
	OriginRegular Origin = "regular"
	OriginSnooze  Origin = "snooze"
)

// EventType defines the type of engine event.
type EventType string

const (
	EventArmed     EventType = "armed"
	EventFired     EventType = "fired"
	EventCancelled EventType = "cancelled"
	EventIdleReset EventType = "idle_reset"
	EventIdleError EventType = "idle_error"
)

// Event represents an engine update for observers.
type Event struct {
	Type     EventType
	Reminder model.ReminderType
	Origin   Origin
	FireAt   time.Time
	Message  string
	At       time.Time
}
