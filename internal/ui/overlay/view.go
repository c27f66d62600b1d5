package overlay

import (
	"fmt"
	"image/color"

	"workwell/internal/core/model"
	"workwell/internal/core/occurrence"
)

// palette is the colour set of a display style.
type palette struct {
	background color.NRGBA
	foreground color.NRGBA
	accent     color.NRGBA
	titleSize  float32
	promptSize float32
}

// view is everything the window shows for one state.
type view struct {
	title       string
	prompt      string
	countdown   string
	progress    float64
	showCounter bool
	doneLabel   string
	skipLabel   string
	showDone    bool
	doneEnabled bool
	skipEnabled bool
	hint        string
}

func paletteOf(style model.DisplayStyle, reminder model.ReminderType) palette {
	switch style {
	case model.DisplayMinimal:
		return palette{
			background: color.NRGBA{R: 250, G: 250, B: 250, A: 245},
			foreground: color.NRGBA{R: 40, G: 40, B: 40, A: 255},
			accent:     color.NRGBA{R: 120, G: 120, B: 120, A: 255},
			titleSize:  28,
			promptSize: 16,
		}
	case model.DisplayBold:
		return palette{
			background: accentOf(reminder),
			foreground: color.NRGBA{R: 255, G: 255, B: 255, A: 255},
			accent:     color.NRGBA{R: 255, G: 255, B: 255, A: 255},
			titleSize:  56,
			promptSize: 26,
		}
	default:
		return palette{
			background: color.NRGBA{R: 18, G: 22, B: 30, A: 235},
			foreground: color.NRGBA{R: 255, G: 255, B: 255, A: 255},
			accent:     accentOf(reminder),
			titleSize:  40,
			promptSize: 20,
		}
	}
}

func accentOf(reminder model.ReminderType) color.NRGBA {
	switch reminder {
	case model.ReminderWater:
		return color.NRGBA{R: 48, G: 140, B: 230, A: 255}
	case model.ReminderEyeRest:
		return color.NRGBA{R: 60, G: 170, B: 120, A: 255}
	case model.ReminderMovement:
		return color.NRGBA{R: 235, G: 140, B: 50, A: 255}
	default:
		return color.NRGBA{R: 150, G: 150, B: 150, A: 255}
	}
}

func viewOf(state occurrence.State, prompt string) view {
	current := view{
		title:       state.Reminder.Title(),
		prompt:      prompt,
		skipLabel:   "Skip",
		doneEnabled: state.DoneEnabled,
		skipEnabled: state.SkipEnabled,
	}

	switch state.Reminder {
	case model.ReminderWater:
		current.showDone = true
		current.doneLabel = "I drank"
	case model.ReminderMovement:
		current.showDone = true
		current.doneLabel = "Done"
		current.skipLabel = "In a meeting"
	}

	if state.Phase == occurrence.PhaseCounting {
		current.showCounter = true
		current.countdown = formatSeconds(state.Remaining)
		current.progress = state.Progress()
	}
	if state.KeyDismissBlocked {
		current.hint = "Stay with it until the countdown ends"
	} else if state.Phase != occurrence.PhaseResolved {
		current.hint = "Press Esc to dismiss"
	}
	return current
}

func formatSeconds(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
