package mines

import (
	"fmt"
	"strconv"
	"strings"
)

// CellStatus is what the presentation layer should draw for a cell.
type CellStatus int8

const (
	Unknown       CellStatus = -2
	Flag          CellStatus = -1
	CorrectFlag   CellStatus = 64 // post-game-over
	ExplodedMine  CellStatus = 65
	WrongFlag     CellStatus = 66
	UnflaggedMine CellStatus = 67
	MarkedMine    CellStatus = 68 // covered mine on a won board
	// 0-8 for a revealed safe cell with the given number of mined neighbours
)

func (s CellStatus) String() string {
	switch s {
	case Unknown:
		return "#"
	case Flag, CorrectFlag:
		return "F"
	case ExplodedMine:
		return "X"
	case WrongFlag:
		return "?"
	case UnflaggedMine:
		return "*"
	case MarkedMine:
		return "M"
	case 0:
		return "."
	case 1, 2, 3, 4, 5, 6, 7, 8:
		return strconv.Itoa(int(s))
	default:
		return "!"
	}
}

type Grid []CellStatus

func (g Grid) ToString(width int) string {
	var b strings.Builder
	for y := range len(g) / width {
		for x := range width {
			if x > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprint(&b, g[y*width+x].String())
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (b *Board) Status(p Point) CellStatus {
	i := b.index(p)
	c := b.cells[i]
	switch c.State {
	case Revealed:
		if c.Kind == Safe {
			return CellStatus(b.AdjacentMines(p))
		}
		if b.exploded && p == b.detonated {
			return ExplodedMine
		}
		return UnflaggedMine
	case Flagged:
		if b.exploded && c.Kind == Mine {
			return CorrectFlag
		}
		return Flag
	}
	switch {
	case b.wrongFlags != nil && b.wrongFlags[i]:
		return WrongFlag
	case c.Kind == Mine && b.Won():
		return MarkedMine
	}
	return Unknown
}

func (b *Board) Grid() Grid {
	g := make(Grid, len(b.cells))
	for i := range b.cells {
		g[i] = b.Status(b.point(i))
	}
	return g
}

func (b *Board) String() string {
	return b.Grid().ToString(b.Columns)
}
