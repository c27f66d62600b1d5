package overlay

import (
	"errors"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"workwell/internal/core/coordinator"
	"workwell/internal/core/model"
	"workwell/internal/core/occurrence"
)

// Actions receives the user's choices. Each returns the service error, if any.
type Actions struct {
	OnDone       func() error
	OnSkip       func() error
	OnKeyDismiss func() error
	// Current returns the state of the reminder on screen, if any.
	Current func() (occurrence.State, bool)
}

// Window renders the active reminder full screen.
type Window struct {
	window      fyne.Window
	background  *canvas.Rectangle
	titleText   *canvas.Text
	promptText  *canvas.Text
	counterText *canvas.Text
	hintText    *canvas.Text
	progress    *widget.ProgressBar
	doneButton  *widget.Button
	skipButton  *widget.Button
	actions     Actions
	logger      *log.Logger
	style       model.DisplayStyle
	prompt      func(model.ReminderType) string
	lastSeq     uint64
	pending     occurrence.State
	visible     bool
}

type splashWindowDriver interface {
	CreateSplashWindow() fyne.Window
}

// New builds the overlay window. It stays hidden until a reminder is shown.
func New(app fyne.App, actions Actions, prompt func(model.ReminderType) string, logger *log.Logger) *Window {
	if logger == nil {
		logger = log.Default()
	}
	window := app.NewWindow("WorkWell")
	if driver, ok := app.Driver().(splashWindowDriver); ok {
		// Undecorated, so the only way out is through the buttons or Esc.
		window = driver.CreateSplashWindow()
	}
	window.SetPadded(false)

	overlay := &Window{
		window:      window,
		background:  canvas.NewRectangle(paletteOf(model.DisplayModern, "").background),
		titleText:   canvas.NewText("", paletteOf(model.DisplayModern, "").foreground),
		promptText:  canvas.NewText("", paletteOf(model.DisplayModern, "").foreground),
		counterText: canvas.NewText("", paletteOf(model.DisplayModern, "").foreground),
		hintText:    canvas.NewText("", paletteOf(model.DisplayModern, "").accent),
		progress:    widget.NewProgressBar(),
		actions:     actions,
		logger:      logger,
		style:       model.DisplayModern,
		prompt:      prompt,
	}
	overlay.titleText.Alignment = fyne.TextAlignCenter
	overlay.titleText.TextStyle = fyne.TextStyle{Bold: true}
	overlay.promptText.Alignment = fyne.TextAlignCenter
	overlay.counterText.Alignment = fyne.TextAlignCenter
	overlay.counterText.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	overlay.counterText.TextSize = 48
	overlay.hintText.Alignment = fyne.TextAlignCenter
	overlay.hintText.TextSize = 12
	overlay.progress.TextFormatter = func() string { return "" }

	overlay.doneButton = widget.NewButton("Done", func() {
		overlay.report("done", overlay.actions.OnDone)
	})
	overlay.doneButton.Importance = widget.HighImportance
	overlay.skipButton = widget.NewButton("Skip", func() {
		overlay.report("skip", overlay.actions.OnSkip)
	})

	buttons := container.NewHBox(layout.NewSpacer(), overlay.skipButton, overlay.doneButton, layout.NewSpacer())
	column := container.NewVBox(
		overlay.titleText,
		overlay.promptText,
		overlay.counterText,
		container.NewPadded(overlay.progress),
		buttons,
		overlay.hintText,
	)
	window.SetContent(container.NewStack(overlay.background, container.NewCenter(column)))
	window.Canvas().SetOnTypedKey(func(event *fyne.KeyEvent) {
		if event.Name == fyne.KeyEscape {
			overlay.report("key dismiss", overlay.actions.OnKeyDismiss)
		}
	})
	return overlay
}

// SetStyle changes the look used from the next shown reminder on. Call it
// on the UI goroutine.
func (overlay *Window) SetStyle(style model.DisplayStyle) {
	overlay.style = style
}

// Follow renders coordinator transitions and session states until both
// channels close. Run it on its own goroutine.
func (overlay *Window) Follow(presentation <-chan coordinator.Event, sessions <-chan occurrence.State) {
	for presentation != nil || sessions != nil {
		select {
		case event, ok := <-presentation:
			if !ok {
				presentation = nil
				continue
			}
			fyne.Do(func() {
				overlay.applyPresentation(event)
			})
		case state, ok := <-sessions:
			if !ok {
				sessions = nil
				continue
			}
			fyne.Do(func() {
				overlay.applyState(state)
			})
		}
	}
}

func (overlay *Window) applyPresentation(event coordinator.Event) {
	switch event.Type {
	case coordinator.EventShown:
		overlay.open(event.Active)
	case coordinator.EventDismissed:
		overlay.close()
	case coordinator.EventFocusChanged:
		if event.FocusBlocksKeyDismiss {
			overlay.hintText.Text = "Stay with it until the countdown ends"
		} else {
			overlay.hintText.Text = "Press Esc to dismiss"
		}
		overlay.hintText.Refresh()
	}
}

func (overlay *Window) open(reminder model.ReminderType) {
	colors := paletteOf(overlay.style, reminder)
	overlay.background.FillColor = colors.background
	for _, text := range []*canvas.Text{overlay.titleText, overlay.promptText, overlay.counterText} {
		text.Color = colors.foreground
	}
	overlay.hintText.Color = colors.accent
	overlay.titleText.TextSize = colors.titleSize
	overlay.promptText.TextSize = colors.promptSize
	overlay.background.Refresh()

	initial := occurrence.State{Reminder: reminder, Phase: occurrence.PhasePresenting}
	if overlay.pending.Reminder == reminder && overlay.pending.Phase != occurrence.PhaseResolved {
		initial = overlay.pending
	} else if overlay.actions.Current != nil {
		if current, ok := overlay.actions.Current(); ok && current.Reminder == reminder {
			initial = current
		}
	}
	overlay.pending = occurrence.State{}
	overlay.lastSeq = initial.Seq
	overlay.applyView(viewOf(initial, overlay.promptOf(reminder)))
	overlay.visible = true
	overlay.window.SetFullScreen(true)
	overlay.window.Show()
	overlay.window.RequestFocus()
}

func (overlay *Window) close() {
	overlay.visible = false
	overlay.lastSeq = 0
	overlay.window.SetFullScreen(false)
	overlay.window.Hide()
}

func (overlay *Window) applyState(state occurrence.State) {
	if !overlay.visible {
		// The session can report before the coordinator's shown event lands.
		overlay.pending = state
		return
	}
	if state.Phase == occurrence.PhaseResolved {
		return
	}
	// States from a countdown goroutine can overtake each other.
	if state.Seq <= overlay.lastSeq {
		return
	}
	overlay.lastSeq = state.Seq
	overlay.applyView(viewOf(state, overlay.promptOf(state.Reminder)))
}

func (overlay *Window) applyView(current view) {
	overlay.titleText.Text = current.title
	overlay.promptText.Text = current.prompt
	overlay.hintText.Text = current.hint

	if current.showCounter {
		overlay.counterText.Text = current.countdown
		overlay.counterText.Show()
		overlay.progress.SetValue(current.progress)
		overlay.progress.Show()
	} else {
		overlay.counterText.Hide()
		overlay.progress.Hide()
	}

	overlay.doneButton.SetText(current.doneLabel)
	if current.showDone {
		overlay.doneButton.Show()
	} else {
		overlay.doneButton.Hide()
	}
	setEnabled(overlay.doneButton, current.doneEnabled)
	overlay.skipButton.SetText(current.skipLabel)
	setEnabled(overlay.skipButton, current.skipEnabled)

	overlay.titleText.Refresh()
	overlay.promptText.Refresh()
	overlay.counterText.Refresh()
	overlay.hintText.Refresh()
}

func (overlay *Window) promptOf(reminder model.ReminderType) string {
	if overlay.prompt == nil {
		return ""
	}
	return overlay.prompt(reminder)
}

// report runs action off the UI goroutine; the resulting state arrives
// through Follow.
func (overlay *Window) report(name string, action func() error) {
	if action == nil {
		return
	}
	go func() {
		if err := action(); err != nil && !errors.Is(err, occurrence.ErrActionBlocked) {
			overlay.logger.Printf("[overlay] %s: %v", name, err)
		}
	}()
}

func setEnabled(button *widget.Button, enabled bool) {
	if enabled {
		button.Enable()
		return
	}
	button.Disable()
}
