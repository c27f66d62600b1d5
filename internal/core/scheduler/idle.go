package scheduler

import (
	"errors"
	"log"
	"sync"
	"time"

	"workwell/internal/core/clock"
)

// ErrIdleUnsupported indicates idle detection is not available on this system.
var ErrIdleUnsupported = errors.New("idle detection unsupported")

// IdleChecker reports the duration of user inactivity.
type IdleChecker interface {
	IdleDuration() (time.Duration, error)
}

// IdleConfig controls the idle reset.
type IdleConfig struct {
	ResetAfter    time.Duration
	CheckInterval time.Duration
	Logger        *log.Logger
}

// IdleWatcher restarts the regular schedule while the user is away, so
// reminders count from the moment they come back. One idle period causes
// one restart.
type IdleWatcher struct {
	mu        sync.Mutex
	engine    *Engine
	checker   IdleChecker
	clock     clock.Clock
	config    IdleConfig
	timer     clock.Timer
	running   bool
	idleReset bool
}

// NewIdleWatcher creates a watcher for engine.
func NewIdleWatcher(engine *Engine, checker IdleChecker, config IdleConfig) *IdleWatcher {
	if config.CheckInterval <= 0 {
		config.CheckInterval = 5 * time.Second
	}
	if config.ResetAfter <= 0 {
		config.ResetAfter = 5 * time.Minute
	}
	if config.Logger == nil {
		config.Logger = log.Default()
	}
	return &IdleWatcher{
		engine:  engine,
		checker: checker,
		clock:   engine.clock,
		config:  config,
	}
}

// Start begins polling.
func (watcher *IdleWatcher) Start() {
	watcher.mu.Lock()
	defer watcher.mu.Unlock()
	if watcher.running || watcher.checker == nil {
		return
	}
	watcher.running = true
	watcher.scheduleLocked()
}

// Stop ends polling. No check runs after Stop returns.
func (watcher *IdleWatcher) Stop() {
	watcher.mu.Lock()
	defer watcher.mu.Unlock()
	watcher.running = false
	if watcher.timer != nil {
		watcher.timer.Stop()
		watcher.timer = nil
	}
}

// Running reports whether the watcher is polling.
func (watcher *IdleWatcher) Running() bool {
	watcher.mu.Lock()
	defer watcher.mu.Unlock()
	return watcher.running
}

func (watcher *IdleWatcher) scheduleLocked() {
	watcher.timer = watcher.clock.AfterFunc(watcher.config.CheckInterval, watcher.check)
}

func (watcher *IdleWatcher) check() {
	watcher.mu.Lock()
	if !watcher.running {
		watcher.mu.Unlock()
		return
	}
	idleDuration, err := watcher.checker.IdleDuration()
	if err != nil {
		if errors.Is(err, ErrIdleUnsupported) {
			watcher.running = false
			watcher.timer = nil
			watcher.mu.Unlock()
			watcher.config.Logger.Printf("[scheduler] idle reset disabled: %v", err)
			watcher.engine.emit(Event{Type: EventIdleError, Message: err.Error(), At: watcher.clock.Now()})
			return
		}
		watcher.scheduleLocked()
		watcher.mu.Unlock()
		watcher.engine.emit(Event{Type: EventIdleError, Message: err.Error(), At: watcher.clock.Now()})
		return
	}
	watcher.scheduleLocked()
	if idleDuration < watcher.config.ResetAfter {
		watcher.idleReset = false
		watcher.mu.Unlock()
		return
	}
	if watcher.idleReset {
		watcher.mu.Unlock()
		return
	}
	watcher.idleReset = true
	watcher.mu.Unlock()

	if err := watcher.engine.Restart(); err != nil {
		watcher.config.Logger.Printf("[scheduler] idle reset: %v", err)
		watcher.mu.Lock()
		watcher.idleReset = false
		watcher.mu.Unlock()
		return
	}
	watcher.engine.emit(Event{Type: EventIdleReset, Message: "idle reset", At: watcher.clock.Now()})
}
