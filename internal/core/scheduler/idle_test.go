package scheduler

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workwell/internal/core/model"
)

type scriptedIdle struct {
	mu     sync.Mutex
	idle   time.Duration
	err    error
	checks int
}

func (checker *scriptedIdle) IdleDuration() (time.Duration, error) {
	checker.mu.Lock()
	defer checker.mu.Unlock()
	checker.checks++
	return checker.idle, checker.err
}

func (checker *scriptedIdle) set(idle time.Duration, err error) {
	checker.mu.Lock()
	defer checker.mu.Unlock()
	checker.idle = idle
	checker.err = err
}

func (checker *scriptedIdle) Checks() int {
	checker.mu.Lock()
	defer checker.mu.Unlock()
	return checker.checks
}

func newTestWatcher(engine *Engine, checker IdleChecker) *IdleWatcher {
	return NewIdleWatcher(engine, checker, IdleConfig{
		ResetAfter:    5 * time.Minute,
		CheckInterval: time.Minute,
		Logger:        quietLogger(),
	})
}

func TestIdleWatcher_RestartsAfterIdle(t *testing.T) {
	engine, clk, _ := newTestEngine(at(8, 0))
	require.NoError(t, engine.RescheduleAll(onlyWater()))
	events := engine.Subscribe(16)

	checker := &scriptedIdle{}
	watcher := newTestWatcher(engine, checker)
	watcher.Start()
	defer watcher.Stop()

	clk.Advance(10 * time.Minute)
	next, _ := engine.NextFire(model.ReminderWater)
	assert.Equal(t, at(8, 30), next)

	checker.set(6*time.Minute, nil)
	clk.Advance(time.Minute)
	next, _ = engine.NextFire(model.ReminderWater)
	assert.Equal(t, at(8, 41), next)

	var types []EventType
	for len(events) > 0 {
		types = append(types, (<-events).Type)
	}
	assert.Contains(t, types, EventIdleReset)
}

func TestIdleWatcher_RestartsOncePerIdlePeriod(t *testing.T) {
	engine, clk, _ := newTestEngine(at(8, 0))
	require.NoError(t, engine.RescheduleAll(onlyWater()))
	events := engine.Subscribe(64)

	checker := &scriptedIdle{idle: 6 * time.Minute}
	watcher := newTestWatcher(engine, checker)
	watcher.Start()
	defer watcher.Stop()

	clk.Advance(time.Minute)
	next, _ := engine.NextFire(model.ReminderWater)
	assert.Equal(t, at(8, 31), next)

	clk.Advance(10 * time.Minute)
	next, _ = engine.NextFire(model.ReminderWater)
	assert.Equal(t, at(8, 31), next)
	assert.Equal(t, 11, checker.Checks())

	checker.set(0, nil)
	clk.Advance(time.Minute)
	checker.set(6*time.Minute, nil)
	clk.Advance(time.Minute)
	next, _ = engine.NextFire(model.ReminderWater)
	assert.Equal(t, at(8, 43), next)

	resets := 0
	for len(events) > 0 {
		if (<-events).Type == EventIdleReset {
			resets++
		}
	}
	assert.Equal(t, 2, resets)
}

func TestIdleWatcher_UnsupportedStops(t *testing.T) {
	engine, clk, _ := newTestEngine(at(8, 0))
	events := engine.Subscribe(4)
	checker := &scriptedIdle{err: ErrIdleUnsupported}
	watcher := newTestWatcher(engine, checker)
	watcher.Start()

	clk.Advance(5 * time.Minute)
	assert.False(t, watcher.Running())
	assert.Equal(t, 1, checker.Checks())

	event := <-events
	assert.Equal(t, EventIdleError, event.Type)
	assert.Contains(t, event.Message, "unsupported")
}

func TestIdleWatcher_TransientErrorKeepsPolling(t *testing.T) {
	engine, clk, _ := newTestEngine(at(8, 0))
	checker := &scriptedIdle{err: errors.New("xprintidle: exit status 1")}
	watcher := newTestWatcher(engine, checker)
	watcher.Start()
	defer watcher.Stop()

	clk.Advance(3 * time.Minute)
	assert.True(t, watcher.Running())
	assert.Equal(t, 3, checker.Checks())
}

func TestIdleWatcher_StopEndsPolling(t *testing.T) {
	engine, clk, _ := newTestEngine(at(8, 0))
	checker := &scriptedIdle{}
	watcher := newTestWatcher(engine, checker)
	watcher.Start()
	watcher.Start()

	clk.Advance(2 * time.Minute)
	watcher.Stop()
	clk.Advance(10 * time.Minute)

	assert.Equal(t, 2, checker.Checks())
	assert.Zero(t, clk.Pending())
}
