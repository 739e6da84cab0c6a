package store

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper/internal/game"
	"github.com/vancomm/minesweeper/internal/mines"
)

func TestMain(m *testing.M) {
	Log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	os.Exit(m.Run())
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestCreateGetDelete(t *testing.T) {
	s := New()

	e, err := s.Create(mines.Easy)
	require.NoError(t, err)
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, 1, s.Len())

	got, err := s.Get(e.ID)
	require.NoError(t, err)
	assert.Same(t, e, got)

	_, err = s.Get("nope")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.True(t, s.Delete(e.ID))
	assert.False(t, s.Delete(e.ID))
	assert.Zero(t, s.Len())
	_, err = s.Get(e.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateRejectsInvalidParams(t *testing.T) {
	s := New()
	_, err := s.Create(mines.Params{Columns: 8, Rows: 8, Mines: 58})
	assert.ErrorIs(t, err, mines.ErrInvalidConfig)
	assert.Zero(t, s.Len())
}

func TestSweep(t *testing.T) {
	c := &clock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	s := New(WithTTL(time.Minute), WithClock(c.Now))

	idle, err := s.Create(mines.Easy)
	require.NoError(t, err)
	active, err := s.Create(mines.Medium)
	require.NoError(t, err)

	c.Advance(50 * time.Second)
	require.NoError(t, active.Do(func(*game.Session) error { return nil }))
	c.Advance(20 * time.Second)

	assert.Equal(t, 1, s.Sweep(c.Now()))
	_, err = s.Get(idle.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get(active.ID)
	assert.NoError(t, err)
}

func TestRun(t *testing.T) {
	s := New(WithTTL(time.Nanosecond))
	_, err := s.Create(mines.Easy)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, time.Millisecond) }()

	assert.Eventually(t, func() bool { return s.Len() == 0 }, time.Second, time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestEventHookAndTimer(t *testing.T) {
	var (
		mu     sync.Mutex
		events []game.Event
	)
	s := New(WithEventHook(func(id string, e game.Event) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, e)
	}))

	e, err := s.Create(mines.Easy)
	require.NoError(t, err)
	assert.False(t, e.Timer().Running())

	err = e.Do(func(sess *game.Session) error {
		wall := make([]mines.Point, 0, 10)
		for y := range 10 {
			wall = append(wall, mines.Point{X: 9, Y: y})
		}
		if err := sess.Board().PlaceMinesAt(wall...); err != nil {
			return err
		}
		_, err := sess.Reveal(0, 0)
		return err
	})
	require.NoError(t, err)

	mu.Lock()
	assert.Equal(t, []game.Event{game.Won}, events)
	mu.Unlock()
	assert.False(t, e.Timer().Running(), "timer stops on a terminal event")
}

func TestConcurrentAccess(t *testing.T) {
	s := New()
	e, err := s.Create(mines.Hard)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for y := range 15 {
				_ = e.Do(func(sess *game.Session) error {
					_, err := sess.Flag(i, y)
					return err
				})
			}
		}()
	}
	wg.Wait()

	var left int
	require.NoError(t, e.Do(func(sess *game.Session) error {
		left = sess.MinesLeft()
		return nil
	}))
	assert.Equal(t, 90-8*15, left)
}

func TestSizeHook(t *testing.T) {
	var sizes []int
	s := New(WithSizeHook(func(n int) { sizes = append(sizes, n) }))

	a, err := s.Create(mines.Easy)
	require.NoError(t, err)
	_, err = s.Create(mines.Easy)
	require.NoError(t, err)
	s.Delete(a.ID)
	s.Sweep(time.Now())

	assert.Equal(t, []int{1, 2, 1, 1}, sizes)
}
