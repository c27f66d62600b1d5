package scheduler

import (
	"bytes"
	"errors"
	"log"
	"sync"
	"time"

	"workwell/internal/core/clock"
	"workwell/internal/core/model"
)

var errBusy = errors.New("busy")

type shown struct {
	Reminder model.ReminderType
	At       time.Time
}

type recordingTarget struct {
	mu     sync.Mutex
	clock  clock.Clock
	reject bool
	shows  []shown
}

func (target *recordingTarget) Show(reminder model.ReminderType) error {
	target.mu.Lock()
	defer target.mu.Unlock()
	target.shows = append(target.shows, shown{Reminder: reminder, At: target.clock.Now()})
	if target.reject {
		return errBusy
	}
	return nil
}

func (target *recordingTarget) Shows() []shown {
	target.mu.Lock()
	defer target.mu.Unlock()
	return append([]shown(nil), target.shows...)
}

func (target *recordingTarget) Count(reminder model.ReminderType) int {
	count := 0
	for _, item := range target.Shows() {
		if item.Reminder == reminder {
			count++
		}
	}
	return count
}

func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 10, hour, minute, 0, 0, time.UTC)
}

func quietLogger() *log.Logger {
	return log.New(&bytes.Buffer{}, "", 0)
}

func newTestEngine(now time.Time) (*Engine, *clock.Fake, *recordingTarget) {
	clk := clock.NewFake(now)
	target := &recordingTarget{clock: clk}
	return New(clk, target, Config{Logger: quietLogger()}), clk, target
}

// onlyWater returns default preferences with eye rest and movement disabled.
func onlyWater() model.Preferences {
	prefs := model.DefaultPreferences()
	for _, reminder := range []model.ReminderType{model.ReminderEyeRest, model.ReminderMovement} {
		settings := prefs.Reminders[reminder]
		settings.Enabled = false
		prefs.Reminders[reminder] = settings
	}
	return prefs
}
