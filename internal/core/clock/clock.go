package clock

import (
	"sort"
	"sync"
	"time"
)

// Timer is a pending callback that can be cancelled.
type Timer interface {
	// Stop prevents the callback from running. It reports whether the call
	// stopped the timer before it fired.
	Stop() bool
}

// Clock is the time source used by the scheduling core.
type Clock interface {
	Now() time.Time
	AfterFunc(delay time.Duration, fn func()) Timer
}

// Real is the wall clock.
type Real struct{}

// Now returns the current local time.
func (Real) Now() time.Time {
	return time.Now()
}

// AfterFunc runs fn in its own goroutine after delay.
func (Real) AfterFunc(delay time.Duration, fn func()) Timer {
	return time.AfterFunc(delay, fn)
}

// Fake is a manually advanced clock. Callbacks run synchronously on the
// goroutine calling Advance or Set, in fire-time order.
type Fake struct {
	mu     sync.Mutex
	now    time.Time
	seq    int
	timers []*fakeTimer
}

type fakeTimer struct {
	clock *Fake
	at    time.Time
	seq   int
	fn    func()
	done  bool
}

// NewFake returns a fake clock starting at now.
func NewFake(now time.Time) *Fake {
	return &Fake{now: now}
}

// Now returns the fake current time.
func (fake *Fake) Now() time.Time {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	return fake.now
}

// AfterFunc registers fn to run once the clock reaches now+delay.
func (fake *Fake) AfterFunc(delay time.Duration, fn func()) Timer {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	if delay < 0 {
		delay = 0
	}
	fake.seq++
	timer := &fakeTimer{clock: fake, at: fake.now.Add(delay), seq: fake.seq, fn: fn}
	fake.timers = append(fake.timers, timer)
	return timer
}

// Advance moves the clock forward, firing every timer that becomes due,
// including timers armed by callbacks during the advance.
func (fake *Fake) Advance(delta time.Duration) {
	fake.mu.Lock()
	target := fake.now.Add(delta)
	fake.mu.Unlock()
	fake.runUntil(target)
}

// Set jumps the clock to now, which may be in the past. Only timers due at
// or before the new time fire.
func (fake *Fake) Set(now time.Time) {
	fake.runUntil(now)
}

// Pending returns the number of armed timers.
func (fake *Fake) Pending() int {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	return len(fake.timers)
}

func (fake *Fake) runUntil(target time.Time) {
	for {
		fake.mu.Lock()
		next := fake.popDueLocked(target)
		if next == nil {
			fake.now = target
			fake.mu.Unlock()
			return
		}
		if next.at.After(fake.now) {
			fake.now = next.at
		}
		fn := next.fn
		fake.mu.Unlock()
		fn()
	}
}

func (fake *Fake) popDueLocked(target time.Time) *fakeTimer {
	sort.SliceStable(fake.timers, func(i, j int) bool {
		if fake.timers[i].at.Equal(fake.timers[j].at) {
			return fake.timers[i].seq < fake.timers[j].seq
		}
		return fake.timers[i].at.Before(fake.timers[j].at)
	})
	if len(fake.timers) == 0 || fake.timers[0].at.After(target) {
		return nil
	}
	next := fake.timers[0]
	fake.timers = fake.timers[1:]
	next.done = true
	return next
}

func (timer *fakeTimer) Stop() bool {
	fake := timer.clock
	fake.mu.Lock()
	defer fake.mu.Unlock()
	if timer.done {
		return false
	}
	timer.done = true
	for i, pending := range fake.timers {
		if pending == timer {
			fake.timers = append(fake.timers[:i], fake.timers[i+1:]...)
			break
		}
	}
	return true
}
