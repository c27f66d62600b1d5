package coordinator

import (
	"errors"
	"log"
	"sync"
	"time"

	"workwell/internal/core/clock"
	"workwell/internal/core/model"
)

var (
	// ErrPresentationRejected is returned by Show while another reminder is active.
	ErrPresentationRejected = errors.New("another reminder is already active")
	// ErrNoActiveReminder is returned when a flag is set while idle.
	ErrNoActiveReminder = errors.New("no active reminder")
)

// EventType defines the type of coordinator event.
type EventType string

const (
	EventShown        EventType = "shown"
	EventDismissed    EventType = "dismissed"
	EventFocusChanged EventType = "focus_changed"
)

// Event carries the full presentation state after a transition.
type Event struct {
	Type                  EventType
	Active                model.ReminderType
	FocusBlocksKeyDismiss bool
	At                    time.Time
}

// Coordinator is the single owner of what is currently shown. At most one
// reminder is active; it only moves idle -> active -> idle.
type Coordinator struct {
	mu          sync.Mutex
	clock       clock.Clock
	logger      *log.Logger
	active      model.ReminderType
	occurrence  uint64
	focusBlocks bool
	onDismiss   func(id uint64)
	events      []chan Event
}

// New creates an idle coordinator.
func New(clk clock.Clock, logger *log.Logger) *Coordinator {
	if clk == nil {
		clk = clock.Real{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Coordinator{clock: clk, logger: logger}
}

// Subscribe registers a presentation observer. Sends never block; a full
// channel drops the event.
func (coordinator *Coordinator) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	coordinator.mu.Lock()
	coordinator.events = append(coordinator.events, ch)
	coordinator.mu.Unlock()
	return ch
}

// Show activates reminder when idle. It never queues or replaces.
func (coordinator *Coordinator) Show(reminder model.ReminderType) error {
	_, err := coordinator.Present(reminder, nil)
	return err
}

// Present activates reminder when idle and returns a Ticket scoped to this
// occurrence. onDismiss runs once with the ticket ID, after this
// occurrence is dismissed.
func (coordinator *Coordinator) Present(reminder model.ReminderType, onDismiss func(id uint64)) (Ticket, error) {
	coordinator.mu.Lock()
	defer coordinator.mu.Unlock()
	if coordinator.active != "" {
		coordinator.logger.Printf("[coordinator] rejected %s: %s is active", reminder, coordinator.active)
		return Ticket{}, ErrPresentationRejected
	}
	coordinator.occurrence++
	coordinator.active = reminder
	coordinator.focusBlocks = false
	coordinator.onDismiss = onDismiss
	coordinator.emitLocked(EventShown)
	return Ticket{ID: coordinator.occurrence, coordinator: coordinator}, nil
}

// Dismiss returns to idle whatever is active and runs its dismiss
// callback. It is a no-op when already idle.
func (coordinator *Coordinator) Dismiss() {
	coordinator.dismiss(0)
}

// dismiss closes the active occurrence; a non-zero id must match it.
func (coordinator *Coordinator) dismiss(id uint64) bool {
	coordinator.mu.Lock()
	if coordinator.active == "" || (id != 0 && id != coordinator.occurrence) {
		coordinator.mu.Unlock()
		return false
	}
	coordinator.active = ""
	coordinator.focusBlocks = false
	onDismiss := coordinator.onDismiss
	closed := coordinator.occurrence
	coordinator.onDismiss = nil
	coordinator.emitLocked(EventDismissed)
	coordinator.mu.Unlock()

	if onDismiss != nil {
		onDismiss(closed)
	}
	return true
}

// SetFocusBlocksKeyDismiss toggles the keyboard-dismiss block of the active reminder.
func (coordinator *Coordinator) SetFocusBlocksKeyDismiss(blocked bool) error {
	return coordinator.setFocusBlocks(0, blocked)
}

func (coordinator *Coordinator) setFocusBlocks(id uint64, blocked bool) error {
	coordinator.mu.Lock()
	defer coordinator.mu.Unlock()
	if coordinator.active == "" || (id != 0 && id != coordinator.occurrence) {
		return ErrNoActiveReminder
	}
	if coordinator.focusBlocks == blocked {
		return nil
	}
	coordinator.focusBlocks = blocked
	coordinator.emitLocked(EventFocusChanged)
	return nil
}

// Active returns the active reminder, if any.
func (coordinator *Coordinator) Active() (model.ReminderType, bool) {
	coordinator.mu.Lock()
	defer coordinator.mu.Unlock()
	return coordinator.active, coordinator.active != ""
}

// FocusBlocksKeyDismiss reports whether keyboard dismissal is blocked.
func (coordinator *Coordinator) FocusBlocksKeyDismiss() bool {
	coordinator.mu.Lock()
	defer coordinator.mu.Unlock()
	return coordinator.focusBlocks
}

// KeyDismissAllowed reports whether a keyboard shortcut may dismiss now.
func (coordinator *Coordinator) KeyDismissAllowed() bool {
	coordinator.mu.Lock()
	defer coordinator.mu.Unlock()
	return coordinator.active != "" && !coordinator.focusBlocks
}

func (coordinator *Coordinator) emitLocked(eventType EventType) {
	event := Event{
		Type:                  eventType,
		Active:                coordinator.active,
		FocusBlocksKeyDismiss: coordinator.focusBlocks,
		At:                    coordinator.clock.Now(),
	}
	for _, ch := range coordinator.events {
		select {
		case ch <- event:
		default:
		}
	}
}

// Ticket drives one presented occurrence. Once that occurrence is gone
// its calls no longer touch whatever is shown next.
type Ticket struct {
	ID          uint64
	coordinator *Coordinator
}

// Dismiss closes the occurrence if it is still the active one.
func (ticket Ticket) Dismiss() {
	if ticket.coordinator != nil {
		ticket.coordinator.dismiss(ticket.ID)
	}
}

// SetFocusBlocksKeyDismiss toggles the key block of this occurrence.
// It returns ErrNoActiveReminder once the occurrence is gone.
func (ticket Ticket) SetFocusBlocksKeyDismiss(blocked bool) error {
	if ticket.coordinator == nil {
		return ErrNoActiveReminder
	}
	return ticket.coordinator.setFocusBlocks(ticket.ID, blocked)
}
