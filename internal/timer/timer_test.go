package timer

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newFake(opts ...Option) (*Timer, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	return New(append([]Option{WithClock(clock.Now)}, opts...)...), clock
}

func TestStartStop(t *testing.T) {
	tm, clock := newFake()
	assert.False(t, tm.Running())
	assert.Zero(t, tm.Elapsed())

	clock.Advance(time.Minute)
	assert.Zero(t, tm.Elapsed(), "stopped timer does not count")

	tm.Start()
	clock.Advance(3 * time.Second)
	assert.Equal(t, 3*time.Second, tm.Elapsed())

	tm.Start()
	clock.Advance(2 * time.Second)
	assert.Equal(t, 5*time.Second, tm.Elapsed(), "second start is a no-op")

	tm.Stop()
	clock.Advance(time.Hour)
	assert.Equal(t, 5*time.Second, tm.Elapsed())
	assert.Equal(t, 5, tm.Seconds())

	tm.Start()
	clock.Advance(1500 * time.Millisecond)
	assert.Equal(t, 6, tm.Seconds())
}

func TestToggle(t *testing.T) {
	tm, clock := newFake()
	tm.Toggle()
	assert.True(t, tm.Running())
	clock.Advance(time.Second)
	tm.Toggle()
	assert.False(t, tm.Running())
	clock.Advance(time.Second)
	assert.Equal(t, time.Second, tm.Elapsed())
}

func TestReset(t *testing.T) {
	tm, clock := newFake()
	tm.Start()
	clock.Advance(10 * time.Second)
	tm.Reset()
	assert.True(t, tm.Running(), "running timer keeps running")
	assert.Zero(t, tm.Elapsed())
	clock.Advance(time.Second)
	assert.Equal(t, time.Second, tm.Elapsed())

	tm.Stop()
	tm.Reset()
	assert.False(t, tm.Running())
	assert.Zero(t, tm.Elapsed())
}

func TestLimit(t *testing.T) {
	tm, clock := newFake(WithLimit(999 * time.Second))
	tm.Start()
	clock.Advance(1000 * time.Second)
	assert.Equal(t, 999*time.Second, tm.Elapsed())
	assert.False(t, tm.Running())

	clock.Advance(time.Second)
	assert.Equal(t, 999*time.Second, tm.Elapsed())
}

func TestRun(t *testing.T) {
	tm := New()
	tm.Start()

	ctx, cancel := context.WithCancel(context.Background())
	ticks := make(chan time.Duration, 16)
	done := make(chan error, 1)
	go func() {
		done <- tm.Run(ctx, 5*time.Millisecond, func(d time.Duration) {
			select {
			case ticks <- d:
			default:
			}
		})
	}()

	select {
	case d := <-ticks:
		assert.Positive(t, d)
	case <-time.After(time.Second):
		t.Fatal("no tick")
	}

	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not return")
	}
}
