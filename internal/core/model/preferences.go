package model

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// DisplayStyle selects the full-screen reminder look.
type DisplayStyle string

const (
	DisplayModern  DisplayStyle = "modern"
	DisplayMinimal DisplayStyle = "minimal"
	DisplayBold    DisplayStyle = "bold"
)

const (
	MovementFocusMinSeconds = 10
	MovementFocusMaxSeconds = 100
)

// LunchWindow is an optional daily break during which no reminder fires.
type LunchWindow struct {
	Start TimeOfDay
	End   TimeOfDay
}

// Contains reports whether tod falls inside [Start, End).
func (lunch LunchWindow) Contains(tod TimeOfDay) bool {
	return tod >= lunch.Start && tod < lunch.End
}

// ReminderSettings holds the per-type tunables.
type ReminderSettings struct {
	Enabled         bool
	IntervalMinutes int
	// FocusMode requires a minimum engagement time before skip or dismiss.
	FocusMode bool
	// SnoozeOnSkip arms a snooze when the occurrence is skipped.
	SnoozeOnSkip bool
}

// Interval returns the configured interval as a duration.
func (settings ReminderSettings) Interval() time.Duration {
	return time.Duration(settings.IntervalMinutes) * time.Minute
}

// NotificationStyle controls platform banner delivery. Haptic is stored
// for the preferences file but no desktop backend acts on it.
type NotificationStyle struct {
	Banner bool
	Sound  bool
	Haptic bool
}

// Preferences is a point-in-time snapshot of every tunable.
// Consumers never mutate a snapshot they were handed.
type Preferences struct {
	WorkStart TimeOfDay
	WorkEnd   TimeOfDay
	Lunch     *LunchWindow

	Reminders map[ReminderType]ReminderSettings

	SnoozeMinutes int
	Notification  NotificationStyle
	DisplayStyle  DisplayStyle

	DefaultGlassMl      int
	WeightKg            float64
	WaterGoalMlOverride *int

	EyeRestCountdownSeconds int
	EyeRestSilent           bool
	MovementFocusSeconds    int
}

// DefaultPreferences returns the out-of-the-box preferences.
func DefaultPreferences() Preferences {
	return Preferences{
		WorkStart: At(8, 0),
		WorkEnd:   At(17, 0),
		Reminders: map[ReminderType]ReminderSettings{
			ReminderWater:    {Enabled: true, IntervalMinutes: 30, SnoozeOnSkip: true},
			ReminderEyeRest:  {Enabled: true, IntervalMinutes: 20},
			ReminderMovement: {Enabled: true, IntervalMinutes: 45, SnoozeOnSkip: true},
		},
		SnoozeMinutes: 5,
		Notification: NotificationStyle{
			Banner: true,
			Sound:  true,
		},
		DisplayStyle:            DisplayModern,
		DefaultGlassMl:          250,
		WeightKg:                60,
		EyeRestCountdownSeconds: 20,
		MovementFocusSeconds:    30,
	}
}

// Reminder returns the settings for a type; unknown types are disabled.
func (prefs Preferences) Reminder(reminder ReminderType) ReminderSettings {
	return prefs.Reminders[reminder]
}

// BannerSound reports whether the banner for reminder should play a sound.
// Eye rest stays quiet in silent mode.
func (prefs Preferences) BannerSound(reminder ReminderType) bool {
	if reminder == ReminderEyeRest && prefs.EyeRestSilent {
		return false
	}
	return prefs.Notification.Sound
}

// Clone returns a deep copy so callers can edit without touching a shared snapshot.
func (prefs Preferences) Clone() Preferences {
	clone := prefs
	clone.Reminders = make(map[ReminderType]ReminderSettings, len(prefs.Reminders))
	for reminder, settings := range prefs.Reminders {
		clone.Reminders[reminder] = settings
	}
	if prefs.Lunch != nil {
		lunch := *prefs.Lunch
		clone.Lunch = &lunch
	}
	if prefs.WaterGoalMlOverride != nil {
		goal := *prefs.WaterGoalMlOverride
		clone.WaterGoalMlOverride = &goal
	}
	return clone
}

// MovementFocus returns the movement focus period clamped to its allowed range.
func (prefs Preferences) MovementFocus() time.Duration {
	seconds := prefs.MovementFocusSeconds
	if seconds < MovementFocusMinSeconds {
		seconds = MovementFocusMinSeconds
	}
	if seconds > MovementFocusMaxSeconds {
		seconds = MovementFocusMaxSeconds
	}
	return time.Duration(seconds) * time.Second
}

// DailyWaterGoalMl returns the override when set, otherwise 33 ml per kg
// rounded to the nearest 50 ml.
func (prefs Preferences) DailyWaterGoalMl() int {
	if prefs.WaterGoalMlOverride != nil && *prefs.WaterGoalMlOverride > 0 {
		return *prefs.WaterGoalMlOverride
	}
	if prefs.WeightKg <= 0 {
		return 0
	}
	return int(math.Round(prefs.WeightKg*33/50) * 50)
}

// ValidateWorkWindow checks workStart < workEnd.
func (prefs Preferences) ValidateWorkWindow() error {
	if !prefs.WorkStart.Valid() || !prefs.WorkEnd.Valid() || prefs.WorkStart >= prefs.WorkEnd {
		return &ConfigurationError{
			Field:  "work_window",
			Reason: fmt.Sprintf("work start %s must be before work end %s", prefs.WorkStart, prefs.WorkEnd),
		}
	}
	return nil
}

// ValidateLunch checks the optional lunch window.
func (prefs Preferences) ValidateLunch() error {
	if prefs.Lunch != nil && (!prefs.Lunch.Start.Valid() || !prefs.Lunch.End.Valid() || prefs.Lunch.Start >= prefs.Lunch.End) {
		return &ConfigurationError{
			Field:  "lunch_window",
			Reason: fmt.Sprintf("lunch start %s must be before lunch end %s", prefs.Lunch.Start, prefs.Lunch.End),
		}
	}
	return nil
}

// ValidateReminder checks a single type's settings.
func (prefs Preferences) ValidateReminder(reminder ReminderType) error {
	settings := prefs.Reminder(reminder)
	if settings.Enabled && settings.IntervalMinutes <= 0 {
		return &ConfigurationError{
			Reminder: reminder,
			Field:    "interval_minutes",
			Reason:   fmt.Sprintf("must be positive, got %d", settings.IntervalMinutes),
		}
	}
	return nil
}

// Validate reports every configuration problem in the snapshot.
func (prefs Preferences) Validate() error {
	errs := []error{prefs.ValidateWorkWindow(), prefs.ValidateLunch()}
	for _, reminder := range AllReminderTypes() {
		errs = append(errs, prefs.ValidateReminder(reminder))
	}
	if prefs.SnoozeMinutes <= 0 {
		errs = append(errs, &ConfigurationError{
			Field:  "snooze_minutes",
			Reason: fmt.Sprintf("must be positive, got %d", prefs.SnoozeMinutes),
		})
	}
	return errors.Join(errs...)
}

// ConfigurationError describes an invalid preference value.
type ConfigurationError struct {
	Reminder ReminderType
	Field    string
	Reason   string
}

func (err *ConfigurationError) Error() string {
	if err.Reminder != "" {
		return fmt.Sprintf("configuration: %s %s: %s", err.Reminder, err.Field, err.Reason)
	}
	return fmt.Sprintf("configuration: %s: %s", err.Field, err.Reason)
}
