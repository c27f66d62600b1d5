package model

import (
	"fmt"
	"time"
)

// TimeOfDay is a wall-clock time expressed in minutes since local midnight.
type TimeOfDay int

const minutesPerDay = 24 * 60

// At builds a TimeOfDay from hours and minutes.
func At(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*60 + minute)
}

// OfTime returns the time-of-day of t in t's location.
func OfTime(t time.Time) TimeOfDay {
	return TimeOfDay(t.Hour()*60 + t.Minute())
}

// ParseTimeOfDay parses "HH:MM".
func ParseTimeOfDay(value string) (TimeOfDay, error) {
	var hour, minute int
	if _, err := fmt.Sscanf(value, "%d:%d", &hour, &minute); err != nil {
		return 0, fmt.Errorf("parse time of day %q: %w", value, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("parse time of day %q: out of range", value)
	}
	return At(hour, minute), nil
}

// Hour returns the hour component.
func (tod TimeOfDay) Hour() int {
	return int(tod) / 60
}

// Minute returns the minute component.
func (tod TimeOfDay) Minute() int {
	return int(tod) % 60
}

// Valid reports whether tod lies inside a single day.
func (tod TimeOfDay) Valid() bool {
	return tod >= 0 && tod < minutesPerDay
}

// On returns the instant at tod on the calendar day of day, in day's location.
func (tod TimeOfDay) On(day time.Time) time.Time {
	year, month, date := day.Date()
	return time.Date(year, month, date, tod.Hour(), tod.Minute(), 0, 0, day.Location())
}

func (tod TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", tod.Hour(), tod.Minute())
}
