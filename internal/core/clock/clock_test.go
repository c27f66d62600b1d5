package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var start = time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

func TestFake_FiresInOrder(t *testing.T) {
	fake := NewFake(start)
	var fired []string
	fake.AfterFunc(2*time.Second, func() { fired = append(fired, "b") })
	fake.AfterFunc(time.Second, func() { fired = append(fired, "a") })
	fake.AfterFunc(2*time.Second, func() { fired = append(fired, "c") })

	fake.Advance(1500 * time.Millisecond)
	assert.Equal(t, []string{"a"}, fired)

	fake.Advance(time.Second)
	assert.Equal(t, []string{"a", "b", "c"}, fired)
	assert.Equal(t, start.Add(2500*time.Millisecond), fake.Now())
	assert.Zero(t, fake.Pending())
}

func TestFake_CallbackSeesFireTime(t *testing.T) {
	fake := NewFake(start)
	var seen time.Time
	fake.AfterFunc(time.Minute, func() { seen = fake.Now() })
	fake.Advance(time.Hour)
	assert.Equal(t, start.Add(time.Minute), seen)
}

func TestFake_ChainedTimers(t *testing.T) {
	fake := NewFake(start)
	ticks := 0
	var tick func()
	tick = func() {
		ticks++
		fake.AfterFunc(time.Second, tick)
	}
	fake.AfterFunc(time.Second, tick)

	fake.Advance(5 * time.Second)
	assert.Equal(t, 5, ticks)
	assert.Equal(t, 1, fake.Pending())
}

func TestFake_Stop(t *testing.T) {
	fake := NewFake(start)
	fired := false
	timer := fake.AfterFunc(time.Second, func() { fired = true })

	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())
	fake.Advance(time.Minute)
	assert.False(t, fired)
}

func TestFake_SetBackward(t *testing.T) {
	fake := NewFake(start)
	fired := false
	fake.AfterFunc(time.Minute, func() { fired = true })

	fake.Set(start.Add(-time.Hour))
	assert.False(t, fired)
	assert.Equal(t, start.Add(-time.Hour), fake.Now())
	assert.Equal(t, 1, fake.Pending())
}
