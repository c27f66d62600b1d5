package scheduler

import (
	"time"

	"workwell/internal/core/model"
)

// Window is the admissible part of each day: [Start, End) minus the lunch break.
type Window struct {
	Start model.TimeOfDay
	End   model.TimeOfDay
	Lunch *model.LunchWindow
}

// WindowOf extracts the work window from a preferences snapshot. An invalid
// lunch window is ignored.
func WindowOf(prefs model.Preferences) Window {
	window := Window{Start: prefs.WorkStart, End: prefs.WorkEnd}
	if prefs.Lunch != nil && prefs.ValidateLunch() == nil {
		lunch := *prefs.Lunch
		window.Lunch = &lunch
	}
	return window
}

// Admissible reports whether t may fire a regular reminder.
func (window Window) Admissible(t time.Time) bool {
	tod := model.OfTime(t)
	if tod < window.Start || tod >= window.End {
		return false
	}
	return window.Lunch == nil || !window.Lunch.Contains(tod)
}

// Admit returns t when admissible, otherwise the next admissible instant.
// Skipped time is dropped, never queued.
func (window Window) Admit(t time.Time) time.Time {
	// Each snap moves strictly forward; four rounds cover
	// lunch -> end of day -> next start -> lunch at start.
	for range 4 {
		tod := model.OfTime(t)
		switch {
		case tod < window.Start:
			t = window.Start.On(t)
		case tod >= window.End:
			t = window.Start.On(t.AddDate(0, 0, 1))
		case window.Lunch != nil && window.Lunch.Contains(tod):
			t = window.Lunch.End.On(t)
		default:
			return t
		}
	}
	return t
}
