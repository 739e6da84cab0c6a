// Package game drives a single minesweeper board through its lifecycle:
// configuration, new games, restarts, moves and terminal events.
package game

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper/internal/mines"
)

var Log = logrus.New()

var (
	ErrAlreadyWon  = fmt.Errorf("you already won")
	ErrOutOfBounds = fmt.Errorf("cell is outside the board")
)

type Event int

const (
	None Event = iota
	Won
	Lost
)

func (e Event) String() string {
	switch e {
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return ""
	}
}

// Timer is the stopwatch a session drives. Elapsed time is never read by
// the session itself.
type Timer interface {
	Start()
	Stop()
	Reset()
}

type nopTimer struct{}

func (nopTimer) Start() {}
func (nopTimer) Stop()  {}
func (nopTimer) Reset() {}

// Session is not safe for concurrent use.
type Session struct {
	params mines.Params
	board  *mines.Board
	rnd    *rand.Rand
	timer  Timer
	notify func(Event)

	minesLeft int
	over      bool
	event     Event
}

// NewSession builds a session with a fresh board for params. A nil timer or
// notify is replaced with a no-op.
func NewSession(params mines.Params, rnd *rand.Rand, timer Timer, notify func(Event)) (*Session, error) {
	if rnd == nil {
		rnd = mines.NewRand()
	}
	if timer == nil {
		timer = nopTimer{}
	}
	if notify == nil {
		notify = func(Event) {}
	}
	s := &Session{rnd: rnd, timer: timer, notify: notify}
	if err := s.Configure(params.Columns, params.Rows, params.Mines); err != nil {
		return nil, err
	}
	return s, nil
}

// Configure replaces the board with a new one of the given size. Invalid
// parameters leave the current game untouched.
func (s *Session) Configure(columns, rows, mineCount int) error {
	params := mines.Params{Columns: columns, Rows: rows, Mines: mineCount}
	if err := params.Validate(); err != nil {
		return err
	}
	s.params = params
	return s.newBoard()
}

// NewGame lays a fresh board with the current parameters.
func (s *Session) NewGame() {
	if err := s.newBoard(); err != nil {
		// params were validated by Configure
		panic(err)
	}
}

func (s *Session) newBoard() error {
	board, err := mines.NewBoard(s.params, s.rnd)
	if err != nil {
		return err
	}
	board.PlaceMines()
	s.board = board
	s.start()
	Log.WithField("board", s.params.Seed()).Debug("new game")
	return nil
}

// Restart covers every cell again while keeping the mine layout. A won
// board cannot be restarted.
func (s *Session) Restart() error {
	if s.board.SafeLeft() == 0 {
		return ErrAlreadyWon
	}
	s.board.ResetInPlace()
	s.start()
	Log.WithField("board", s.params.Seed()).Debug("game restarted")
	return nil
}

func (s *Session) start() {
	s.minesLeft = s.params.Mines
	s.over = false
	s.event = None
	s.timer.Stop()
	s.timer.Reset()
}

// Reveal opens the cell at (x, y). Moves on finished games and on revealed
// or flagged cells yield [mines.NoChange] and no error.
func (s *Session) Reveal(x, y int) (out mines.Outcome, err error) {
	p := mines.Point{X: x, Y: y}
	if !s.params.InBounds(p) {
		return mines.Outcome{}, fmt.Errorf("%w: %s", ErrOutOfBounds, p)
	}
	if s.over {
		return mines.Outcome{Result: mines.NoChange}, nil
	}

	defer func() {
		if r := recover(); r != nil {
			var ae mines.AssertionError
			if e, ok := r.(error); ok && errors.As(e, &ae) {
				Log.WithError(ae).Error("board invariant violated")
				err = ae
				return
			}
			panic(r)
		}
	}()

	out = s.board.Reveal(p)
	if out.Result == mines.NoChange {
		return out, nil
	}
	s.timer.Start()

	switch out.Result {
	case mines.Exploded:
		out.Cells = append(out.Cells, s.board.RevealMines()...)
		s.minesLeft = s.params.Mines - s.board.FlagCount()
		s.finish(Lost)
	case mines.Won:
		s.finish(Won)
	}
	return out, nil
}

// Flag toggles the flag at (x, y). The mines-left counter may go negative.
func (s *Session) Flag(x, y int) (mines.Outcome, error) {
	p := mines.Point{X: x, Y: y}
	if !s.params.InBounds(p) {
		return mines.Outcome{}, fmt.Errorf("%w: %s", ErrOutOfBounds, p)
	}
	if s.over {
		return mines.Outcome{Result: mines.NoChange}, nil
	}
	out := s.board.Flag(p)
	if out.Result == mines.NoChange {
		return out, nil
	}
	s.timer.Start()
	s.minesLeft = s.params.Mines - s.board.FlagCount()
	return out, nil
}

func (s *Session) finish(e Event) {
	s.over = true
	s.event = e
	s.timer.Stop()
	Log.WithFields(logrus.Fields{
		"board": s.params.Seed(),
		"event": e.String(),
	}).Debug("game over")
	s.notify(e)
}

func (s *Session) Params() mines.Params { return s.params }
func (s *Session) Board() *mines.Board  { return s.board }
func (s *Session) MinesLeft() int       { return s.minesLeft }
func (s *Session) GameOver() bool       { return s.over }

// Event reports how the current game ended, or [None] while it is running.
func (s *Session) Event() Event { return s.event }

func (s *Session) Won() bool  { return s.event == Won }
func (s *Session) Lost() bool { return s.event == Lost }

func (s *Session) Grid() mines.Grid {
	return s.board.Grid()
}
