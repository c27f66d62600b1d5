package occurrence

import (
	"time"

	"workwell/internal/core/model"
)

const (
	defaultEyeRestSeconds = 20
	defaultGlassMl        = 250
)

// Policy is the per-occurrence slice of the preferences that were current
// when the reminder was shown.
type Policy struct {
	// CountdownSeconds is the eye-rest countdown or the movement focus period.
	CountdownSeconds int
	FocusMode        bool
	SnoozeOnSkip     bool
	SnoozeMinutes    int
	GlassMl          int
}

// PolicyFor derives the policy of reminder from a preferences snapshot.
func PolicyFor(reminder model.ReminderType, prefs model.Preferences) Policy {
	settings := prefs.Reminder(reminder)
	policy := Policy{
		FocusMode:     settings.FocusMode,
		SnoozeOnSkip:  settings.SnoozeOnSkip,
		SnoozeMinutes: prefs.SnoozeMinutes,
	}
	switch reminder {
	case model.ReminderWater:
		policy.GlassMl = prefs.DefaultGlassMl
		if policy.GlassMl <= 0 {
			policy.GlassMl = defaultGlassMl
		}
	case model.ReminderEyeRest:
		policy.CountdownSeconds = prefs.EyeRestCountdownSeconds
		if policy.CountdownSeconds <= 0 {
			policy.CountdownSeconds = defaultEyeRestSeconds
		}
	case model.ReminderMovement:
		policy.CountdownSeconds = int(prefs.MovementFocus() / time.Second)
	}
	return policy
}
