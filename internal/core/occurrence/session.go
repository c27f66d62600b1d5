package occurrence

import (
	"errors"
	"log"
	"sync"
	"time"

	"workwell/internal/core/clock"
	"workwell/internal/core/model"
	"workwell/internal/core/scheduler"
)

var (
	// ErrActionBlocked is returned while a focus countdown is running.
	ErrActionBlocked = errors.New("action blocked until the focus countdown ends")
	// ErrActionUnavailable is returned for an action the reminder type does not offer.
	ErrActionUnavailable = errors.New("action not available for this reminder")
	// ErrResolved is returned once the occurrence is over.
	ErrResolved = errors.New("occurrence already resolved")
)

const tickInterval = time.Second

// Phase is the tag of State.
type Phase string

const (
	PhasePresenting Phase = "presenting"
	PhaseCounting   Phase = "counting"
	PhaseResolved   Phase = "resolved"
)

// State describes one occurrence. Remaining and Total are set while
// Counting; Completed is meaningful once Resolved.
type State struct {
	Seq               uint64
	Reminder          model.ReminderType
	Phase             Phase
	Remaining         int
	Total             int
	Completed         bool
	Cancelled         bool
	DoneEnabled       bool
	SkipEnabled       bool
	KeyDismissBlocked bool
}

// Progress returns the fraction of the countdown still remaining.
func (state State) Progress() float64 {
	if state.Phase != PhaseCounting || state.Total <= 0 {
		return 0
	}
	return float64(state.Remaining) / float64(state.Total)
}

// Recorder is the append side of the event log.
type Recorder interface {
	Append(reminder model.ReminderType, completed bool, timestamp time.Time) error
	AppendWater(amountMl int, loggedAt time.Time) error
}

// Snoozer arms deferred re-fires.
type Snoozer interface {
	ScheduleSnooze(reminder model.ReminderType, afterMinutes int) (scheduler.ScheduledTask, error)
}

// Presentation is the session's handle on its own occurrence. Calls made
// after that occurrence left the screen must not touch a newer one.
type Presentation interface {
	Dismiss()
	SetFocusBlocksKeyDismiss(blocked bool) error
}

// Deps are the collaborators of a Session.
type Deps struct {
	Clock        clock.Clock
	Recorder     Recorder
	Snoozer      Snoozer
	Presentation Presentation
	Logger       *log.Logger
	// OnChange receives every state transition, including countdown ticks.
	OnChange func(State)
}

// Session runs the completion policy of one shown reminder.
type Session struct {
	mu       sync.Mutex
	reminder model.ReminderType
	policy   Policy
	deps     Deps
	state    State
	timer    clock.Timer
	tickGen  uint64
}

// Start presents reminder and, when the policy asks for it, starts counting.
func Start(reminder model.ReminderType, policy Policy, deps Deps) *Session {
	if deps.Clock == nil {
		deps.Clock = clock.Real{}
	}
	if deps.Logger == nil {
		deps.Logger = log.Default()
	}
	session := &Session{
		reminder: reminder,
		policy:   policy,
		deps:     deps,
		state: State{
			Reminder: reminder,
			Phase:    PhasePresenting,
		},
	}

	session.mu.Lock()
	switch reminder {
	case model.ReminderWater:
		session.state.DoneEnabled = true
		session.state.SkipEnabled = true
	case model.ReminderEyeRest:
		session.startCountingLocked(policy.CountdownSeconds)
		session.state.SkipEnabled = !policy.FocusMode
		session.state.KeyDismissBlocked = policy.FocusMode
	case model.ReminderMovement:
		if policy.FocusMode {
			session.startCountingLocked(policy.CountdownSeconds)
			session.state.KeyDismissBlocked = true
		} else {
			session.state.DoneEnabled = true
			session.state.SkipEnabled = true
		}
	}
	state := session.snapshotLocked()
	session.mu.Unlock()

	session.setKeyBlock(state.KeyDismissBlocked)
	session.notify(state)
	return session
}

// State returns the current state.
func (session *Session) State() State {
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.state
}

// Done resolves the occurrence as completed: "I drank" for water, "Done"
// for movement. Eye rest completes only by finishing its countdown.
func (session *Session) Done() error {
	session.mu.Lock()
	if session.state.Phase == PhaseResolved {
		session.mu.Unlock()
		return ErrResolved
	}
	if session.reminder == model.ReminderEyeRest {
		session.mu.Unlock()
		return ErrActionUnavailable
	}
	if !session.state.DoneEnabled {
		session.mu.Unlock()
		return ErrActionBlocked
	}
	state := session.resolveLocked(true)
	session.mu.Unlock()

	waterMl := 0
	if session.reminder == model.ReminderWater {
		waterMl = session.policy.GlassMl
	}
	return session.finish(state, waterMl, false)
}

// Skip resolves the occurrence as skipped ("Skip", "In a meeting") and arms
// a snooze when the policy says so.
func (session *Session) Skip() error {
	return session.skip(session.policy.SnoozeOnSkip, false)
}

// Snooze skips and always arms a snooze.
func (session *Session) Snooze() error {
	return session.skip(true, false)
}

// KeyDismiss handles a keyboard dismissal: skipped, never snoozed.
func (session *Session) KeyDismiss() error {
	return session.skip(false, true)
}

// Cancel ends the session without logging, for dismissals that did not
// come from the user. No tick is observed after Cancel returns.
func (session *Session) Cancel() {
	session.mu.Lock()
	if session.state.Phase == PhaseResolved {
		session.mu.Unlock()
		return
	}
	session.stopTicksLocked()
	session.state.Phase = PhaseResolved
	session.state.Cancelled = true
	session.state.DoneEnabled = false
	session.state.SkipEnabled = false
	session.state.KeyDismissBlocked = false
	state := session.snapshotLocked()
	session.mu.Unlock()
	session.notify(state)
}

func (session *Session) skip(snooze, viaKey bool) error {
	session.mu.Lock()
	if session.state.Phase == PhaseResolved {
		session.mu.Unlock()
		return ErrResolved
	}
	allowed := session.state.SkipEnabled
	if viaKey {
		allowed = !session.state.KeyDismissBlocked
	}
	if !allowed {
		session.mu.Unlock()
		return ErrActionBlocked
	}
	state := session.resolveLocked(false)
	session.mu.Unlock()
	return session.finish(state, 0, snooze)
}

func (session *Session) startCountingLocked(seconds int) {
	session.state.Phase = PhaseCounting
	session.state.Remaining = seconds
	session.state.Total = seconds
	session.armTickLocked()
}

func (session *Session) armTickLocked() {
	session.tickGen++
	generation := session.tickGen
	session.timer = session.deps.Clock.AfterFunc(tickInterval, func() {
		session.tick(generation)
	})
}

func (session *Session) stopTicksLocked() {
	session.tickGen++
	if session.timer != nil {
		session.timer.Stop()
		session.timer = nil
	}
}

func (session *Session) tick(generation uint64) {
	session.mu.Lock()
	if generation != session.tickGen || session.state.Phase != PhaseCounting {
		session.mu.Unlock()
		return
	}
	session.state.Remaining--
	if session.state.Remaining > 0 {
		session.armTickLocked()
		state := session.snapshotLocked()
		session.mu.Unlock()
		session.notify(state)
		return
	}

	if session.reminder == model.ReminderEyeRest {
		state := session.resolveLocked(true)
		session.mu.Unlock()
		_ = session.finish(state, 0, false)
		return
	}

	// Focus period over: actions become available.
	session.timer = nil
	session.state.Phase = PhasePresenting
	session.state.Remaining = 0
	session.state.DoneEnabled = true
	session.state.SkipEnabled = true
	session.state.KeyDismissBlocked = false
	state := session.snapshotLocked()
	session.mu.Unlock()
	session.setKeyBlock(false)
	session.notify(state)
}

func (session *Session) resolveLocked(completed bool) State {
	session.stopTicksLocked()
	session.state.Phase = PhaseResolved
	session.state.Completed = completed
	session.state.Remaining = 0
	session.state.DoneEnabled = false
	session.state.SkipEnabled = false
	session.state.KeyDismissBlocked = false
	return session.snapshotLocked()
}

// finish performs the side effects of a terminal transition: log exactly
// once, optionally snooze, then dismiss. Storage failures do not keep the
// reminder on screen.
func (session *Session) finish(state State, waterMl int, snooze bool) error {
	now := session.deps.Clock.Now()
	var errs []error
	if session.deps.Recorder != nil {
		if waterMl > 0 {
			errs = append(errs, session.deps.Recorder.AppendWater(waterMl, now))
		}
		errs = append(errs, session.deps.Recorder.Append(session.reminder, state.Completed, now))
	}
	if snooze && session.deps.Snoozer != nil {
		if _, err := session.deps.Snoozer.ScheduleSnooze(session.reminder, session.policy.SnoozeMinutes); err != nil {
			errs = append(errs, err)
		}
	}

	session.notify(state)
	if session.deps.Presentation != nil {
		session.deps.Presentation.Dismiss()
	}

	err := errors.Join(errs...)
	if err != nil {
		session.deps.Logger.Printf("[occurrence] %s resolved with errors: %v", session.reminder, err)
	}
	return err
}

func (session *Session) snapshotLocked() State {
	session.state.Seq++
	return session.state
}

func (session *Session) setKeyBlock(blocked bool) {
	if session.deps.Presentation == nil {
		return
	}
	if err := session.deps.Presentation.SetFocusBlocksKeyDismiss(blocked); err != nil {
		session.deps.Logger.Printf("[occurrence] %s key block: %v", session.reminder, err)
	}
}

func (session *Session) notify(state State) {
	if session.deps.OnChange != nil {
		session.deps.OnChange(state)
	}
}
