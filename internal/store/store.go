// Package store keeps live game sessions in memory and expires idle ones.
package store

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper/internal/game"
	"github.com/vancomm/minesweeper/internal/mines"
	"github.com/vancomm/minesweeper/internal/timer"
)

var Log = logrus.New()

var ErrNotFound = errors.New("session not found")

const DefaultTTL = 30 * time.Minute

// Entry is one live game. All access to its session goes through Do.
type Entry struct {
	ID string

	mu         sync.Mutex
	session    *game.Session
	timer      *timer.Timer
	now        func() time.Time
	lastAccess atomic.Int64
}

// Do runs fn with exclusive access to the entry's session.
func (e *Entry) Do(fn func(s *game.Session) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.touch()
	return fn(e.session)
}

// Timer is safe to read without holding the entry.
func (e *Entry) Timer() *timer.Timer {
	return e.timer
}

func (e *Entry) LastAccess() time.Time {
	return time.Unix(0, e.lastAccess.Load())
}

func (e *Entry) touch() {
	e.lastAccess.Store(e.now().UnixNano())
}

type Option func(*Store)

func WithTTL(ttl time.Duration) Option {
	return func(s *Store) { s.ttl = ttl }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithTimerLimit caps the play time of every game.
func WithTimerLimit(limit time.Duration) Option {
	return func(s *Store) { s.timerLimit = limit }
}

// WithSizeHook registers fn to be told the number of live sessions after
// every create, delete and sweep.
func WithSizeHook(fn func(n int)) Option {
	return func(s *Store) { s.onSize = fn }
}

// WithEventHook registers fn to be told when a game is won or lost. It runs
// while the entry is held.
func WithEventHook(fn func(id string, e game.Event)) Option {
	return func(s *Store) { s.onEvent = fn }
}

type Store struct {
	mu      sync.RWMutex
	entries map[string]*Entry

	ttl        time.Duration
	timerLimit time.Duration
	now        func() time.Time
	onEvent    func(id string, e game.Event)
	onSize     func(n int)
}

func New(opts ...Option) *Store {
	s := &Store{
		entries: make(map[string]*Entry),
		ttl:     DefaultTTL,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Create(params mines.Params) (*Entry, error) {
	id := uuid.NewString()
	e := &Entry{
		ID: id,
		timer: timer.New(
			timer.WithClock(s.now),
			timer.WithLimit(s.timerLimit),
		),
		now: s.now,
	}

	notify := func(ev game.Event) {
		if s.onEvent != nil {
			s.onEvent(id, ev)
		}
	}
	session, err := game.NewSession(params, nil, e.timer, notify)
	if err != nil {
		return nil, err
	}
	e.session = session
	e.touch()

	s.mu.Lock()
	s.entries[id] = e
	s.sizeChanged()
	s.mu.Unlock()

	Log.WithFields(logrus.Fields{
		"id":    id,
		"board": params.Seed(),
	}).Debug("session created")
	return e, nil
}

func (s *Store) Get(id string) (*Entry, error) {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	e.touch()
	return e, nil
}

func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[id]
	delete(s.entries, id)
	s.sizeChanged()
	return ok
}

// sizeChanged must be called with s.mu held.
func (s *Store) sizeChanged() {
	if s.onSize != nil {
		s.onSize(len(s.entries))
	}
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Sweep removes sessions that have been idle for longer than the TTL and
// returns how many were removed.
func (s *Store) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, e := range s.entries {
		if now.Sub(e.LastAccess()) > s.ttl {
			delete(s.entries, id)
			removed++
		}
	}
	s.sizeChanged()
	if removed > 0 {
		Log.WithFields(logrus.Fields{
			"removed": removed,
			"left":    len(s.entries),
		}).Info("expired idle sessions")
	}
	return removed
}

// Run sweeps every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.Sweep(s.now())
		}
	}
}
