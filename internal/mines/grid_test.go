package mines

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCellStatusString(t *testing.T) {
	assert.Equal(t, "#", Unknown.String())
	assert.Equal(t, "F", Flag.String())
	assert.Equal(t, ".", CellStatus(0).String())
	assert.Equal(t, "3", CellStatus(3).String())
	assert.Equal(t, "X", ExplodedMine.String())
	assert.Equal(t, "?", WrongFlag.String())
	assert.Equal(t, "M", MarkedMine.String())
	assert.Equal(t, "!", CellStatus(9).String())
}

func TestGridString(t *testing.T) {
	b := newTestBoard(t, Params{Columns: 8, Rows: 8, Mines: 10},
		Point{0, 7}, Point{1, 7}, Point{2, 7}, Point{3, 7}, Point{4, 7},
		Point{5, 7}, Point{6, 7}, Point{7, 7}, Point{7, 6}, Point{6, 6},
	)
	b.Flag(Point{7, 5})
	b.Reveal(Point{0, 0})

	want := "" +
		". . . . . . . .\n" +
		". . . . . . . .\n" +
		". . . . . . . .\n" +
		". . . . . . . .\n" +
		". . . . . . . .\n" +
		". . . . . 1 2 F\n" +
		"2 3 3 3 3 4 # #\n" +
		"# # # # # # # #\n"
	assert.Equal(t, want, b.String())
}
