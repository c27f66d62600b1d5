package service

import (
	"errors"
	"fmt"
	"log"
	"reflect"
	"sync"
	"time"

	"workwell/internal/core/clock"
	"workwell/internal/core/coordinator"
	"workwell/internal/core/model"
	"workwell/internal/core/occurrence"
	"workwell/internal/core/scheduler"
	"workwell/internal/core/stats"
)

// ErrNoSession is returned by user actions when nothing is on screen.
var ErrNoSession = errors.New("no reminder on screen")

// PreferencesStore loads and saves the user's preferences.
type PreferencesStore interface {
	Load() (model.Preferences, error)
	Save(prefs model.Preferences) error
}

// Notifier delivers platform banners. Authorization is asynchronous and
// never delays a full-screen reminder.
type Notifier interface {
	RequestAuthorization(callback func(granted bool))
	Notify(title, body string, sound bool) error
}

// Options configures a Service.
type Options struct {
	Clock       clock.Clock
	Store       PreferencesStore
	EventLog    stats.Store
	Notifier    Notifier
	Logger      *log.Logger
	EventBuffer int
}

// Service turns timer fires, previews and user actions into calls on the
// engine, the coordinator, the active session and the event log.
type Service struct {
	mu          sync.Mutex
	clock       clock.Clock
	logger      *log.Logger
	store       PreferencesStore
	notifier    Notifier
	eventLog    *stats.Log
	engine      *scheduler.Engine
	coordinator *coordinator.Coordinator
	prefs       model.Preferences
	authorized  bool
	session     *occurrence.Session
	sessionSeq  uint64
	dismissed   uint64
	paused      bool
	pausedUntil time.Time
	pauseGen    uint64
	resumeTimer clock.Timer
	eventBuffer int
	subMu       sync.Mutex
	subscribers []chan occurrence.State
}

// New wires a Service. Call Start to load preferences and arm the engine.
func New(options Options) *Service {
	if options.Clock == nil {
		options.Clock = clock.Real{}
	}
	if options.Logger == nil {
		options.Logger = log.Default()
	}
	if options.EventLog == nil {
		options.EventLog = stats.NewMemoryLog()
	}
	if options.EventBuffer <= 0 {
		options.EventBuffer = 16
	}
	svc := &Service{
		clock:       options.Clock,
		logger:      options.Logger,
		store:       options.Store,
		notifier:    options.Notifier,
		eventLog:    stats.New(options.EventLog, options.Clock),
		coordinator: coordinator.New(options.Clock, options.Logger),
		prefs:       model.DefaultPreferences(),
		eventBuffer: options.EventBuffer,
	}
	svc.engine = scheduler.New(options.Clock, svc, scheduler.Config{Logger: options.Logger})
	return svc
}

// Engine exposes the scheduling engine for observers and the idle watcher.
func (svc *Service) Engine() *scheduler.Engine {
	return svc.engine
}

// Coordinator exposes the coordinator for presentation observers.
func (svc *Service) Coordinator() *coordinator.Coordinator {
	return svc.coordinator
}

// Start loads the stored preferences, asks for banner permission and arms
// every reminder. A broken preferences file falls back to defaults.
func (svc *Service) Start() error {
	prefs := model.DefaultPreferences()
	if svc.store != nil {
		loaded, err := svc.store.Load()
		if err != nil {
			svc.logger.Printf("[service] load preferences, using defaults: %v", err)
		} else {
			prefs = loaded
		}
	}

	svc.mu.Lock()
	svc.prefs = prefs.Clone()
	svc.mu.Unlock()

	if svc.notifier != nil {
		svc.notifier.RequestAuthorization(func(granted bool) {
			svc.mu.Lock()
			svc.authorized = granted
			svc.mu.Unlock()
			if !granted {
				svc.logger.Printf("[service] notifications not authorized")
			}
		})
	}
	return svc.engine.RescheduleAll(prefs)
}

// Stop cancels every timer and closes any open reminder without logging it.
func (svc *Service) Stop() {
	svc.mu.Lock()
	svc.stopResumeLocked()
	svc.mu.Unlock()
	svc.engine.Stop()
	svc.coordinator.Dismiss()

	svc.subMu.Lock()
	subscribers := svc.subscribers
	svc.subscribers = nil
	svc.subMu.Unlock()
	for _, ch := range subscribers {
		close(ch)
	}
}

// Preferences returns a copy of the current snapshot.
func (svc *Service) Preferences() model.Preferences {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return svc.prefs.Clone()
}

// SavePreferences validates, persists and applies prefs. Running
// components see new preferences only here and in ReloadPreferences.
func (svc *Service) SavePreferences(prefs model.Preferences) error {
	if err := prefs.Validate(); err != nil {
		return err
	}
	if svc.store != nil {
		if err := svc.store.Save(prefs); err != nil {
			return fmt.Errorf("save preferences: %w", err)
		}
	}

	svc.mu.Lock()
	svc.prefs = prefs.Clone()
	paused := svc.paused
	svc.mu.Unlock()

	if paused {
		return nil
	}
	return svc.engine.RescheduleAll(prefs)
}

// ReloadPreferences applies preferences edited outside the application.
// An unreadable or invalid file keeps the current snapshot; an unchanged
// one is ignored, which also absorbs the echo of SavePreferences.
func (svc *Service) ReloadPreferences() error {
	if svc.store == nil {
		return nil
	}
	prefs, err := svc.store.Load()
	if err != nil {
		return fmt.Errorf("reload preferences: %w", err)
	}
	if err := prefs.Validate(); err != nil {
		return err
	}

	svc.mu.Lock()
	if reflect.DeepEqual(svc.prefs, prefs) {
		svc.mu.Unlock()
		return nil
	}
	svc.prefs = prefs.Clone()
	paused := svc.paused
	svc.mu.Unlock()

	svc.logger.Printf("[service] preferences reloaded")
	if paused {
		return nil
	}
	return svc.engine.RescheduleAll(prefs)
}

// Show presents reminder if nothing else is on screen. It is the engine's
// fire target and the path of manual previews.
func (svc *Service) Show(reminder model.ReminderType) error {
	if _, err := model.ParseReminderType(string(reminder)); err != nil {
		return err
	}
	ticket, err := svc.coordinator.Present(reminder, svc.endSession)
	if err != nil {
		return err
	}
	seq := ticket.ID

	svc.mu.Lock()
	prefs := svc.prefs
	authorized := svc.authorized
	svc.mu.Unlock()

	session := occurrence.Start(reminder, occurrence.PolicyFor(reminder, prefs), occurrence.Deps{
		Clock:        svc.clock,
		Recorder:     svc.eventLog,
		Snoozer:      svc,
		Presentation: ticket,
		Logger:       svc.logger,
		OnChange:     svc.emitState,
	})

	svc.mu.Lock()
	if svc.dismissed >= seq {
		svc.mu.Unlock()
		session.Cancel()
		return nil
	}
	svc.session = session
	svc.sessionSeq = seq
	svc.mu.Unlock()

	if authorized && prefs.Notification.Banner && svc.notifier != nil {
		if err := svc.notifier.Notify(reminder.Title(), Prompt(reminder), prefs.BannerSound(reminder)); err != nil {
			svc.logger.Printf("[service] notify %s: %v", reminder, err)
		}
	}
	return nil
}

// ScheduleSnooze arms a snooze for a resolved session. While paused the
// snooze is dropped so nothing fires before Resume.
func (svc *Service) ScheduleSnooze(reminder model.ReminderType, afterMinutes int) (scheduler.ScheduledTask, error) {
	svc.mu.Lock()
	paused := svc.paused
	svc.mu.Unlock()
	if paused {
		svc.logger.Printf("[service] snooze of %s dropped while paused", reminder)
		return scheduler.ScheduledTask{}, nil
	}
	return svc.engine.ScheduleSnooze(reminder, afterMinutes)
}

// Done completes the reminder on screen.
func (svc *Service) Done() error {
	session, err := svc.activeSession()
	if err != nil {
		return err
	}
	return session.Done()
}

// Skip skips the reminder on screen, snoozing when its policy says so.
func (svc *Service) Skip() error {
	session, err := svc.activeSession()
	if err != nil {
		return err
	}
	return session.Skip()
}

// SnoozeActive skips the reminder on screen and always snoozes it.
func (svc *Service) SnoozeActive() error {
	session, err := svc.activeSession()
	if err != nil {
		return err
	}
	return session.Snooze()
}

// KeyDismiss handles the keyboard dismissal shortcut.
func (svc *Service) KeyDismiss() error {
	session, err := svc.activeSession()
	if err != nil {
		return err
	}
	return session.KeyDismiss()
}

// ActiveState returns the state of the reminder on screen.
func (svc *Service) ActiveState() (occurrence.State, bool) {
	session, err := svc.activeSession()
	if err != nil {
		return occurrence.State{}, false
	}
	return session.State(), true
}

// SubscribeSessions registers an observer of session states, including
// countdown ticks. A full channel drops states; Seq orders the rest.
// A non-positive buffer uses the configured default.
func (svc *Service) SubscribeSessions(buffer int) <-chan occurrence.State {
	if buffer <= 0 {
		buffer = svc.eventBuffer
	}
	ch := make(chan occurrence.State, buffer)
	svc.subMu.Lock()
	svc.subscribers = append(svc.subscribers, ch)
	svc.subMu.Unlock()
	return ch
}

// Pause cancels every pending reminder until Resume.
func (svc *Service) Pause() {
	svc.mu.Lock()
	svc.stopResumeLocked()
	svc.paused = true
	svc.pausedUntil = time.Time{}
	svc.mu.Unlock()
	svc.engine.CancelAll()
	svc.logger.Printf("[service] paused")
}

// PauseFor pauses and resumes automatically after duration.
func (svc *Service) PauseFor(duration time.Duration) {
	svc.Pause()
	svc.mu.Lock()
	defer svc.mu.Unlock()
	generation := svc.pauseGen
	svc.pausedUntil = svc.clock.Now().Add(duration)
	svc.resumeTimer = svc.clock.AfterFunc(duration, func() {
		svc.mu.Lock()
		current := svc.paused && svc.pauseGen == generation
		svc.mu.Unlock()
		if !current {
			return
		}
		if err := svc.Resume(); err != nil {
			svc.logger.Printf("[service] resume: %v", err)
		}
	})
	svc.logger.Printf("[service] paused until %s", svc.pausedUntil.Format("15:04"))
}

// Resume re-arms every reminder from now.
func (svc *Service) Resume() error {
	svc.mu.Lock()
	svc.stopResumeLocked()
	svc.paused = false
	svc.pausedUntil = time.Time{}
	prefs := svc.prefs
	svc.mu.Unlock()
	svc.logger.Printf("[service] resumed")
	return svc.engine.RescheduleAll(prefs)
}

// Paused reports whether reminders are paused and, for a timed pause, until when.
func (svc *Service) Paused() (bool, time.Time) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return svc.paused, svc.pausedUntil
}

// Today returns today's totals and the current streak.
func (svc *Service) Today() (stats.Summary, error) {
	return svc.eventLog.Today()
}

// WaterGoalMl returns the daily water goal of the current preferences.
func (svc *Service) WaterGoalMl() int {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return svc.prefs.DailyWaterGoalMl()
}

// Prompt returns the banner body for a reminder type.
func Prompt(reminder model.ReminderType) string {
	switch reminder {
	case model.ReminderWater:
		return "Time for a glass of water."
	case model.ReminderEyeRest:
		return "Look at something 20 feet away for 20 seconds."
	case model.ReminderMovement:
		return "Stand up, stretch and move around."
	default:
		return ""
	}
}

func (svc *Service) activeSession() (*occurrence.Session, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	if svc.session == nil {
		return nil, ErrNoSession
	}
	return svc.session, nil
}

// endSession is the dismiss callback of occurrence seq. A late call
// for an older occurrence leaves a newer session alone.
func (svc *Service) endSession(seq uint64) {
	svc.mu.Lock()
	if seq > svc.dismissed {
		svc.dismissed = seq
	}
	var session *occurrence.Session
	if svc.sessionSeq == seq {
		session = svc.session
		svc.session = nil
	}
	svc.mu.Unlock()
	if session != nil {
		session.Cancel()
	}
}

func (svc *Service) stopResumeLocked() {
	svc.pauseGen++
	if svc.resumeTimer != nil {
		svc.resumeTimer.Stop()
		svc.resumeTimer = nil
	}
}

func (svc *Service) emitState(state occurrence.State) {
	svc.subMu.Lock()
	defer svc.subMu.Unlock()
	for _, ch := range svc.subscribers {
		select {
		case ch <- state:
		default:
		}
	}
}
