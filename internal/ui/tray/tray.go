package tray

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"workwell/internal/core/model"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnPreview     func(model.ReminderType)
	OnTogglePause func()
	OnPauseFor    func(time.Duration)
	OnSnooze      func()
	OnQuit        func()
}

// PauseDurations are the choices of the "Pause for" submenu.
var PauseDurations = []time.Duration{15 * time.Minute, 30 * time.Minute, time.Hour, 2 * time.Hour}

// Manager handles system tray state. Its setters must run on the UI goroutine.
type Manager struct {
	app        desktop.App
	statusItem *fyne.MenuItem
	todayItem  *fyne.MenuItem
	previewFor *fyne.MenuItem
	pauseItem  *fyne.MenuItem
	pauseFor   *fyne.MenuItem
	snoozeItem *fyne.MenuItem
	quitItem   *fyne.MenuItem
	callbacks  Callbacks
	paused     bool
	status     string
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
		status:    "starting...",
	}

	manager.statusItem = fyne.NewMenuItem("", nil)
	manager.statusItem.Disabled = true
	manager.todayItem = fyne.NewMenuItem("Today: -", nil)
	manager.todayItem.Disabled = true

	previews := make([]*fyne.MenuItem, 0, len(model.AllReminderTypes()))
	for _, reminder := range model.AllReminderTypes() {
		previews = append(previews, fyne.NewMenuItem(reminder.Title(), func() {
			if manager.callbacks.OnPreview != nil {
				manager.callbacks.OnPreview(reminder)
			}
		}))
	}
	manager.previewFor = fyne.NewMenuItem("Test reminders", nil)
	manager.previewFor.ChildMenu = fyne.NewMenu("", previews...)

	pauses := make([]*fyne.MenuItem, 0, len(PauseDurations))
	for _, duration := range PauseDurations {
		pauses = append(pauses, fyne.NewMenuItem(formatPause(duration), func() {
			if manager.callbacks.OnPauseFor != nil {
				manager.callbacks.OnPauseFor(duration)
			}
		}))
	}
	manager.pauseFor = fyne.NewMenuItem("Pause for...", nil)
	manager.pauseFor.ChildMenu = fyne.NewMenu("", pauses...)

	manager.pauseItem = fyne.NewMenuItem("Pause", func() {
		if manager.callbacks.OnTogglePause != nil {
			manager.callbacks.OnTogglePause()
		}
	})

	manager.snoozeItem = fyne.NewMenuItem("Snooze current reminder", func() {
		if manager.callbacks.OnSnooze != nil {
			manager.callbacks.OnSnooze()
		}
	})
	manager.snoozeItem.Disabled = true

	manager.quitItem = fyne.NewMenuItem("Quit", func() {
		if manager.callbacks.OnQuit != nil {
			manager.callbacks.OnQuit()
		}
	})
	manager.quitItem.IsQuit = true

	manager.refreshStatus()
	return manager
}

// SetStatus updates the status line, e.g. the next reminder.
func (manager *Manager) SetStatus(status string) {
	manager.status = status
	manager.refreshStatus()
}

// SetToday updates the daily summary line.
func (manager *Manager) SetToday(summary string) {
	manager.todayItem.Label = summary
	manager.refreshMenu()
}

// SetPaused updates pause state.
func (manager *Manager) SetPaused(paused bool) {
	manager.paused = paused
	if paused {
		manager.pauseItem.Label = "Resume"
	} else {
		manager.pauseItem.Label = "Pause"
	}
	manager.refreshStatus()
}

// SetActive enables the snooze item while a reminder is on screen.
func (manager *Manager) SetActive(active bool) {
	manager.snoozeItem.Disabled = !active
	manager.refreshMenu()
}

func (manager *Manager) refreshStatus() {
	status := manager.status
	if manager.paused {
		status = fmt.Sprintf("%s (paused)", status)
	}
	manager.statusItem.Label = fmt.Sprintf("Status: %s", status)
	manager.refreshMenu()
}

func (manager *Manager) refreshMenu() {
	if manager.app == nil {
		return
	}
	manager.app.SetSystemTrayMenu(fyne.NewMenu("WorkWell",
		manager.statusItem,
		manager.todayItem,
		fyne.NewMenuItemSeparator(),
		manager.previewFor,
		manager.snoozeItem,
		fyne.NewMenuItemSeparator(),
		manager.pauseItem,
		manager.pauseFor,
		fyne.NewMenuItemSeparator(),
		manager.quitItem,
	))
}

func formatPause(duration time.Duration) string {
	if duration >= time.Hour && duration%time.Hour == 0 {
		hours := int(duration / time.Hour)
		if hours == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", hours)
	}
	return fmt.Sprintf("%d minutes", int(duration/time.Minute))
}
