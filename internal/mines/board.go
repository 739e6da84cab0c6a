package mines

import (
	"fmt"
	"hash/maphash"
	"iter"
	"math/rand/v2"

	"github.com/gammazero/deque"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

func NewRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

// Board owns the grid of cells of a single game. It is not safe for
// concurrent use.
type Board struct {
	Params

	cells          []Cell
	safeLeft       int
	firstMoveTaken bool
	placed         bool
	exploded       bool
	detonated      Point
	wrongFlags     []bool

	rnd      *rand.Rand
	pending  deque.Deque[Point]
	draining bool
	hook     func(p Point, adjacent int)
}

// NewBoard validates params and returns a board of covered safe cells. Mines
// are laid by [Board.PlaceMines]; a nil rnd gets a randomly seeded source.
func NewBoard(params Params, rnd *rand.Rand) (*Board, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if rnd == nil {
		rnd = NewRand()
	}
	b := &Board{
		Params:   params,
		cells:    make([]Cell, params.Cells()),
		safeLeft: params.Cells() - params.Mines,
		rnd:      rnd,
	}
	return b, nil
}

func (b *Board) index(p Point) int {
	return p.Y*b.Columns + p.X
}

func (b *Board) point(i int) Point {
	return Point{X: i % b.Columns, Y: i / b.Columns}
}

// PlaceMines picks Mines distinct positions uniformly at random and resets
// every cell to covered.
func (b *Board) PlaceMines() {
	for i := range b.cells {
		b.cells[i] = Cell{}
	}

	candidates := lo.Range(len(b.cells))
	k := len(candidates)
	for range b.Mines {
		i := b.rnd.IntN(k)
		b.cells[candidates[i]].Kind = Mine
		k--
		candidates[i] = candidates[k]
	}

	b.placed = true
	b.reset()
}

// PlaceMinesAt lays mines at exactly the given points.
func (b *Board) PlaceMinesAt(points ...Point) error {
	if len(points) != b.Mines {
		return fmt.Errorf("expected %d mine positions, got %d", b.Mines, len(points))
	}
	if dup := lo.FindDuplicates(points); len(dup) > 0 {
		return fmt.Errorf("duplicate mine position %s", dup[0])
	}
	for _, p := range points {
		if !b.InBounds(p) {
			return fmt.Errorf("mine position %s is outside the board", p)
		}
	}

	for i := range b.cells {
		b.cells[i] = Cell{}
	}
	for _, p := range points {
		b.cells[b.index(p)].Kind = Mine
	}

	b.placed = true
	b.reset()
	return nil
}

// ResetInPlace covers and unflags every cell while keeping mine positions.
func (b *Board) ResetInPlace() {
	for i := range b.cells {
		b.cells[i].State = Covered
	}
	b.reset()
}

func (b *Board) reset() {
	b.safeLeft = lo.CountBy(b.cells, func(c Cell) bool { return c.Kind == Safe })
	b.firstMoveTaken = false
	b.exploded = false
	b.detonated = Point{}
	b.wrongFlags = nil
	b.pending.Clear()
}

// Neighbors yields the in-bounds Moore neighbours of p, excluding p.
func (b *Board) Neighbors(p Point) iter.Seq[Point] {
	return func(yield func(Point) bool) {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				n := Point{X: p.X + dx, Y: p.Y + dy}
				if (dx != 0 || dy != 0) && b.InBounds(n) {
					if !yield(n) {
						return
					}
				}
			}
		}
	}
}

func (b *Board) AdjacentMines(p Point) int {
	count := 0
	for n := range b.Neighbors(p) {
		if b.cells[b.index(n)].Kind == Mine {
			count++
		}
	}
	return count
}

// SetRevealHook registers fn to be called for every cell revealed while a
// cascade drains. Reveals issued from fn join the active cascade.
func (b *Board) SetRevealHook(fn func(p Point, adjacent int)) {
	b.hook = fn
}

// Reveal uncovers the cell at p. Flagged and revealed cells, and any cell of
// a finished board, are left alone. The first reveal of a game never hits a
// mine: the mine is moved to a random safe cell first.
//
// panics [AssertionError]
func (b *Board) Reveal(p Point) Outcome {
	if !b.InBounds(p) {
		return Outcome{Result: NoChange}
	}
	if b.draining {
		b.pending.PushBack(p)
		return Outcome{Result: Queued}
	}
	if b.Over() {
		return Outcome{Result: NoChange}
	}
	if !b.placed {
		Log.Debug("reveal before mine placement, placing mines")
		b.PlaceMines()
	}

	c := &b.cells[b.index(p)]
	if c.State != Covered {
		return Outcome{Result: NoChange}
	}

	var out Outcome
	if c.Kind == Mine {
		if b.firstMoveTaken {
			b.explode(p)
			return Outcome{Result: Exploded, Cells: []Point{p}}
		}
		out.MovedTo = b.relocate(p)
		out.Relocated = true
	}

	out.Cells = b.drain(p)

	switch {
	case b.exploded:
		out.Result = Exploded
	case b.safeLeft == 0:
		out.Result = Won
		Log.WithField("board", b.Seed()).Debug("all safe cells revealed")
	default:
		out.Result = Cleared
	}
	return out
}

// panics [AssertionError]
func (b *Board) relocate(from Point) Point {
	fi := b.index(from)
	candidates := lo.Filter(lo.Range(len(b.cells)), func(i int, _ int) bool {
		return i != fi && b.cells[i].Kind == Safe && b.cells[i].State != Revealed
	})
	if len(candidates) == 0 {
		panic(AssertionError{"no safe cell to relocate the mine to"})
	}

	// Only the kinds move; a flag on the target stays where the player put it.
	to := candidates[b.rnd.IntN(len(candidates))]
	b.cells[fi].Kind, b.cells[to].Kind = Safe, Mine

	Log.WithFields(logrus.Fields{
		"from": from.String(),
		"to":   b.point(to).String(),
	}).Debug("moved mine away from first reveal")

	return b.point(to)
}

func (b *Board) explode(p Point) {
	b.cells[b.index(p)].State = Revealed
	b.exploded = true
	b.detonated = p
	Log.WithField("cell", p.String()).Debug("mine detonated")
}

// drain reveals start and, breadth first, every covered cell reachable
// through cells with no mined neighbours.
func (b *Board) drain(start Point) []Point {
	b.draining = true
	defer func() {
		b.draining = false
		b.pending.Clear()
	}()

	var opened []Point
	b.pending.PushBack(start)
	for b.pending.Len() > 0 {
		p := b.pending.PopFront()
		c := &b.cells[b.index(p)]
		if c.State != Covered {
			continue
		}
		if c.Kind == Mine {
			b.explode(p)
			opened = append(opened, p)
			b.pending.Clear()
			break
		}

		c.State = Revealed
		b.safeLeft--
		b.firstMoveTaken = true
		opened = append(opened, p)

		adjacent := b.AdjacentMines(p)
		if adjacent == 0 {
			for n := range b.Neighbors(p) {
				if b.cells[b.index(n)].State == Covered {
					b.pending.PushBack(n)
				}
			}
		}
		if b.hook != nil {
			b.hook(p, adjacent)
		}
	}

	if len(opened) > 1 {
		Log.WithFields(logrus.Fields{
			"start":  start.String(),
			"opened": len(opened),
		}).Debug("cascade settled")
	}
	return opened
}

// Flag toggles the flag on a covered cell.
func (b *Board) Flag(p Point) Outcome {
	if !b.InBounds(p) || b.Over() {
		return Outcome{Result: NoChange}
	}
	c := &b.cells[b.index(p)]
	if !c.toggleFlag() {
		return Outcome{Result: NoChange}
	}
	if c.State == Flagged {
		return Outcome{Result: FlagSet, Cells: []Point{p}}
	}
	return Outcome{Result: FlagCleared, Cells: []Point{p}}
}

// RevealMines exposes a lost board: covered mines are revealed and flags on
// safe cells are removed and remembered as wrong. It returns the changed
// cells.
func (b *Board) RevealMines() []Point {
	var changed []Point
	for i := range b.cells {
		c := &b.cells[i]
		switch {
		case c.Kind == Mine && c.State == Covered:
			c.State = Revealed
		case c.Kind == Safe && c.State == Flagged:
			c.State = Covered
			if b.wrongFlags == nil {
				b.wrongFlags = make([]bool, len(b.cells))
			}
			b.wrongFlags[i] = true
		default:
			continue
		}
		changed = append(changed, b.point(i))
	}
	return changed
}

func (b *Board) Cell(p Point) Cell {
	return b.cells[b.index(p)]
}

func (b *Board) SafeLeft() int        { return b.safeLeft }
func (b *Board) FirstMoveTaken() bool { return b.firstMoveTaken }
func (b *Board) Placed() bool         { return b.placed }

func (b *Board) Lost() bool { return b.exploded }
func (b *Board) Won() bool  { return !b.exploded && b.safeLeft == 0 }
func (b *Board) Over() bool { return b.exploded || b.safeLeft == 0 }

// Detonated returns the mine that ended the game, if any.
func (b *Board) Detonated() (Point, bool) {
	return b.detonated, b.exploded
}

func (b *Board) FlagCount() int {
	return lo.CountBy(b.cells, func(c Cell) bool { return c.State == Flagged })
}

func (b *Board) MineCount() int {
	return lo.CountBy(b.cells, func(c Cell) bool { return c.Kind == Mine })
}
