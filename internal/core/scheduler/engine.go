package scheduler

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"workwell/internal/core/clock"
	"workwell/internal/core/model"
)

// ErrStopped is returned by operations on a stopped engine.
var ErrStopped = errors.New("scheduler stopped")

// ShowTarget receives fired reminders. The engine does not retry a
// rejected show.
type ShowTarget interface {
	Show(reminder model.ReminderType) error
}

// ScheduledTask is one pending fire.
type ScheduledTask struct {
	Type   model.ReminderType
	FireAt time.Time
	Origin Origin
	Token  string
}

type liveTask struct {
	ScheduledTask
	timer clock.Timer
}

// Config contains runtime options for the Engine.
type Config struct {
	Logger *log.Logger
}

// Engine owns the next-fire decision for every reminder type and the set of
// outstanding timers.
type Engine struct {
	mu         sync.Mutex
	clock      clock.Clock
	target     ShowTarget
	logger     *log.Logger
	prefs      model.Preferences
	window     Window
	windowOK   bool
	armed      bool
	generation uint64
	regular    map[model.ReminderType]*liveTask
	snoozes    map[model.ReminderType]*liveTask
	events     []chan Event
	stopped    bool
}

// New creates an Engine that reports fired reminders to target.
func New(clk clock.Clock, target ShowTarget, config Config) *Engine {
	if clk == nil {
		clk = clock.Real{}
	}
	if config.Logger == nil {
		config.Logger = log.Default()
	}
	return &Engine{
		clock:   clk,
		target:  target,
		logger:  config.Logger,
		regular: make(map[model.ReminderType]*liveTask),
		snoozes: make(map[model.ReminderType]*liveTask),
	}
}

// Subscribe registers a new observer channel.
func (engine *Engine) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	engine.mu.Lock()
	engine.events = append(engine.events, ch)
	engine.mu.Unlock()
	return ch
}

// RescheduleAll replaces every regular task using a fresh preferences
// snapshot. Snooze tasks are left alone. Configuration problems are returned
// and the offending type stays disarmed until the next call.
func (engine *Engine) RescheduleAll(prefs model.Preferences) error {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.stopped {
		return ErrStopped
	}

	engine.prefs = prefs.Clone()
	engine.window = WindowOf(engine.prefs)
	engine.armed = true

	var errs []error
	windowErr := engine.prefs.ValidateWorkWindow()
	engine.windowOK = windowErr == nil
	if windowErr != nil {
		errs = append(errs, windowErr)
	}
	if err := engine.prefs.ValidateLunch(); err != nil {
		errs = append(errs, err)
	}

	now := engine.clock.Now()
	for _, reminder := range model.AllReminderTypes() {
		engine.cancelRegularLocked(reminder)
		if err := engine.armRegularLocked(reminder, now); err != nil {
			errs = append(errs, err)
		}
	}

	err := errors.Join(errs...)
	if err != nil {
		engine.logger.Printf("[scheduler] reschedule: %v", err)
	}
	return err
}

// Restart re-arms every type from the current time with the last snapshot.
// It does nothing before the first RescheduleAll or after CancelAll.
func (engine *Engine) Restart() error {
	engine.mu.Lock()
	if !engine.armed {
		engine.mu.Unlock()
		return nil
	}
	prefs := engine.prefs
	engine.mu.Unlock()
	return engine.RescheduleAll(prefs)
}

// ScheduleSnooze arms a one-shot fire after the given minutes, ignoring the
// work window. A newer snooze for the same type replaces the older one.
func (engine *Engine) ScheduleSnooze(reminder model.ReminderType, afterMinutes int) (ScheduledTask, error) {
	if _, err := model.ParseReminderType(string(reminder)); err != nil {
		return ScheduledTask{}, err
	}
	if afterMinutes <= 0 {
		return ScheduledTask{}, &model.ConfigurationError{
			Reminder: reminder,
			Field:    "snooze_minutes",
			Reason:   fmt.Sprintf("must be positive, got %d", afterMinutes),
		}
	}

	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.stopped {
		return ScheduledTask{}, ErrStopped
	}

	if previous := engine.snoozes[reminder]; previous != nil {
		previous.timer.Stop()
		delete(engine.snoozes, reminder)
	}
	now := engine.clock.Now()
	task := engine.armLocked(reminder, now.Add(time.Duration(afterMinutes)*time.Minute), OriginSnooze, now)
	engine.snoozes[reminder] = task
	return task.ScheduledTask, nil
}

// CancelAll invalidates every pending task. Callbacks already in flight
// observe the invalidation and do nothing.
func (engine *Engine) CancelAll() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.cancelAllLocked()
}

// Stop cancels every task and closes observers.
func (engine *Engine) Stop() {
	engine.mu.Lock()
	if engine.stopped {
		engine.mu.Unlock()
		return
	}
	engine.cancelAllLocked()
	engine.stopped = true
	events := engine.events
	engine.events = nil
	engine.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

// Pending returns the live tasks ordered by fire time.
func (engine *Engine) Pending() []ScheduledTask {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	tasks := make([]ScheduledTask, 0, len(engine.regular)+len(engine.snoozes))
	for _, task := range engine.regular {
		tasks = append(tasks, task.ScheduledTask)
	}
	for _, task := range engine.snoozes {
		tasks = append(tasks, task.ScheduledTask)
	}
	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].FireAt.Equal(tasks[j].FireAt) {
			return tasks[i].Type < tasks[j].Type
		}
		return tasks[i].FireAt.Before(tasks[j].FireAt)
	})
	return tasks
}

// NextFire returns the earliest pending fire for a type.
func (engine *Engine) NextFire(reminder model.ReminderType) (time.Time, bool) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	var next time.Time
	found := false
	for _, task := range []*liveTask{engine.regular[reminder], engine.snoozes[reminder]} {
		if task == nil {
			continue
		}
		if !found || task.FireAt.Before(next) {
			next = task.FireAt
			found = true
		}
	}
	return next, found
}

func (engine *Engine) armRegularLocked(reminder model.ReminderType, now time.Time) error {
	if !engine.windowOK {
		return nil
	}
	settings := engine.prefs.Reminder(reminder)
	if !settings.Enabled {
		return nil
	}
	if err := engine.prefs.ValidateReminder(reminder); err != nil {
		return err
	}
	fireAt := engine.window.Admit(now.Add(settings.Interval()))
	engine.regular[reminder] = engine.armLocked(reminder, fireAt, OriginRegular, now)
	return nil
}

func (engine *Engine) armLocked(reminder model.ReminderType, fireAt time.Time, origin Origin, now time.Time) *liveTask {
	task := &liveTask{
		ScheduledTask: ScheduledTask{
			Type:   reminder,
			FireAt: fireAt,
			Origin: origin,
			Token:  uuid.NewString(),
		},
	}
	wait := fireAt.Sub(now)
	if wait < 0 {
		wait = 0
	}
	token := task.Token
	task.timer = engine.clock.AfterFunc(wait, func() {
		engine.fire(reminder, origin, token)
	})
	engine.emitLocked(Event{
		Type:     EventArmed,
		Reminder: reminder,
		Origin:   origin,
		FireAt:   fireAt,
		At:       now,
	})
	return task
}

func (engine *Engine) fire(reminder model.ReminderType, origin Origin, token string) {
	engine.mu.Lock()
	live := engine.regular
	if origin == OriginSnooze {
		live = engine.snoozes
	}
	task := live[reminder]
	if engine.stopped || task == nil || task.Token != token {
		engine.mu.Unlock()
		return
	}
	delete(live, reminder)
	generation := engine.generation
	now := engine.clock.Now()
	if origin == OriginRegular {
		if err := engine.armRegularLocked(reminder, now); err != nil {
			engine.logger.Printf("[scheduler] re-arm %s: %v", reminder, err)
		}
	}
	engine.emitLocked(Event{
		Type:     EventFired,
		Reminder: reminder,
		Origin:   origin,
		FireAt:   task.FireAt,
		At:       now,
	})
	target := engine.target
	engine.mu.Unlock()

	if target != nil {
		if err := target.Show(reminder); err != nil {
			engine.logger.Printf("[scheduler] %s %s not shown: %v", origin, reminder, err)
		}
	}

	if origin != OriginSnooze {
		return
	}
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.stopped || !engine.armed || engine.generation != generation {
		return
	}
	engine.cancelRegularLocked(reminder)
	if err := engine.armRegularLocked(reminder, engine.clock.Now()); err != nil {
		engine.logger.Printf("[scheduler] re-arm %s after snooze: %v", reminder, err)
	}
}

func (engine *Engine) cancelRegularLocked(reminder model.ReminderType) {
	if task := engine.regular[reminder]; task != nil {
		task.timer.Stop()
		delete(engine.regular, reminder)
	}
}

func (engine *Engine) cancelAllLocked() {
	for reminder, task := range engine.regular {
		task.timer.Stop()
		delete(engine.regular, reminder)
	}
	for reminder, task := range engine.snoozes {
		task.timer.Stop()
		delete(engine.snoozes, reminder)
	}
	engine.armed = false
	engine.generation++
	engine.emitLocked(Event{
		Type: EventCancelled,
		At:   engine.clock.Now(),
	})
}

func (engine *Engine) emitLocked(event Event) {
	for _, ch := range engine.events {
		select {
		case ch <- event:
		default:
		}
	}
}

func (engine *Engine) emit(event Event) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.emitLocked(event)
}
