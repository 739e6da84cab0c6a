// Package timer counts elapsed play time independently of the game engine.
package timer

import (
	"context"
	"sync"
	"time"
)

type Option func(*Timer)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(t *Timer) { t.now = now }
}

// WithLimit caps the elapsed time. A timer that reaches the limit stops.
func WithLimit(limit time.Duration) Option {
	return func(t *Timer) { t.limit = limit }
}

// Timer is a stopwatch with an optional upper limit. It is safe for
// concurrent use.
type Timer struct {
	mu         sync.Mutex
	now        func() time.Time
	limit      time.Duration
	running    bool
	startpoint time.Time
	offset     time.Duration
}

func New(opts ...Option) *Timer {
	t := &Timer{now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Timer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return
	}
	t.running = true
	t.startpoint = t.now()
}

func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stop()
}

func (t *Timer) stop() {
	if !t.running {
		return
	}
	t.offset = t.elapsed()
	t.running = false
}

func (t *Timer) Toggle() {
	t.mu.Lock()
	running := t.running
	t.mu.Unlock()
	if running {
		t.Stop()
	} else {
		t.Start()
	}
}

// Reset zeroes the elapsed time. A running timer keeps running from zero.
func (t *Timer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		t.startpoint = t.now()
	}
	t.offset = 0
}

func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

func (t *Timer) elapsed() time.Duration {
	d := t.offset
	if t.running {
		d += t.now().Sub(t.startpoint)
	}
	return d
}

func (t *Timer) Elapsed() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	d := t.elapsed()
	if t.limit > 0 && d >= t.limit {
		d = t.limit
		t.running = false
		t.offset = d
	}
	return d
}

// Seconds is the elapsed time truncated to whole seconds.
func (t *Timer) Seconds() int {
	return int(t.Elapsed() / time.Second)
}

// Run calls fn with the elapsed time every interval while the timer is
// running, until ctx is done.
func (t *Timer) Run(ctx context.Context, interval time.Duration, fn func(time.Duration)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if t.Running() {
				fn(t.Elapsed())
			}
		}
	}
}
