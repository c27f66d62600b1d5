package overlay

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"workwell/internal/core/model"
	"workwell/internal/core/occurrence"
)

func TestViewOf_Water(t *testing.T) {
	current := viewOf(occurrence.State{
		Reminder:    model.ReminderWater,
		Phase:       occurrence.PhasePresenting,
		DoneEnabled: true,
		SkipEnabled: true,
	}, "Time for a glass of water.")

	assert.Equal(t, "Time to drink water", current.title)
	assert.Equal(t, "Time for a glass of water.", current.prompt)
	assert.True(t, current.showDone)
	assert.Equal(t, "I drank", current.doneLabel)
	assert.Equal(t, "Skip", current.skipLabel)
	assert.False(t, current.showCounter)
	assert.Equal(t, "Press Esc to dismiss", current.hint)
}

func TestViewOf_EyeRestFocusCountdown(t *testing.T) {
	current := viewOf(occurrence.State{
		Reminder:          model.ReminderEyeRest,
		Phase:             occurrence.PhaseCounting,
		Remaining:         15,
		Total:             20,
		KeyDismissBlocked: true,
	}, "")

	assert.False(t, current.showDone)
	assert.False(t, current.skipEnabled)
	assert.True(t, current.showCounter)
	assert.Equal(t, "00:15", current.countdown)
	assert.InDelta(t, 0.75, current.progress, 0.001)
	assert.Equal(t, "Stay with it until the countdown ends", current.hint)
}

func TestViewOf_Movement(t *testing.T) {
	current := viewOf(occurrence.State{
		Reminder: model.ReminderMovement,
		Phase:    occurrence.PhaseResolved,
	}, "")

	assert.Equal(t, "Done", current.doneLabel)
	assert.Equal(t, "In a meeting", current.skipLabel)
	assert.False(t, current.doneEnabled)
	assert.Empty(t, current.hint)
}

func TestFormatSeconds(t *testing.T) {
	assert.Equal(t, "00:00", formatSeconds(-3))
	assert.Equal(t, "00:09", formatSeconds(9))
	assert.Equal(t, "01:40", formatSeconds(100))
}

func TestPaletteOf(t *testing.T) {
	bold := paletteOf(model.DisplayBold, model.ReminderWater)
	assert.Equal(t, accentOf(model.ReminderWater), bold.background)

	modern := paletteOf(model.DisplayModern, model.ReminderMovement)
	assert.Equal(t, accentOf(model.ReminderMovement), modern.accent)
	assert.Greater(t, bold.titleSize, modern.titleSize)

	minimal := paletteOf(model.DisplayMinimal, model.ReminderEyeRest)
	assert.Less(t, minimal.titleSize, modern.titleSize)
}
