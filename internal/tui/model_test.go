package tui

import (
	"math/rand/v2"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper/internal/mines"
)

func key(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m *Model, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(key(k))
	}
	return cmd
}

// newWalled returns an Easy game with every mine in the last column.
func newWalled(t *testing.T) *Model {
	t.Helper()
	m, err := New(mines.Easy, rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, err)
	points := make([]mines.Point, 0, 10)
	for y := range 10 {
		points = append(points, mines.Point{X: 9, Y: y})
	}
	require.NoError(t, m.Session().Board().PlaceMinesAt(points...))
	return m
}

func TestCursorStaysOnBoard(t *testing.T) {
	m := newWalled(t)
	press(m, "up", "left", "k", "h")
	assert.Equal(t, mines.Point{}, m.cursor)

	for range 20 {
		press(m, "right", "j")
	}
	assert.Equal(t, mines.Point{X: 9, Y: 9}, m.cursor)

	press(m, "l", "down")
	assert.Equal(t, mines.Point{X: 9, Y: 9}, m.cursor)
}

func TestFlagAndWin(t *testing.T) {
	m := newWalled(t)
	press(m, "l", "l", "l", "l", "l", "l", "l", "l", "l", "f")
	assert.Equal(t, 9, m.Session().MinesLeft())
	assert.True(t, m.timer.Running(), "flag starts the clock")

	for range 9 {
		press(m, "h")
	}
	press(m, " ")
	assert.True(t, m.Session().Won())
	assert.True(t, m.prompt)
	assert.Contains(t, m.View(), "Play again? (y/n)")
	assert.False(t, m.timer.Running())

	press(m, "n")
	assert.False(t, m.prompt, "declining keeps the board")
	assert.True(t, m.Session().GameOver())

	press(m, "r")
	assert.Equal(t, "You already won!", m.err)

	press(m, "n")
	assert.False(t, m.Session().GameOver())
}

func TestLossPromptAndPlayAgain(t *testing.T) {
	m := newWalled(t)
	for range 8 {
		press(m, "l")
	}
	press(m, " ", "l", " ")
	assert.True(t, m.Session().Lost())
	assert.True(t, m.prompt)
	assert.Contains(t, m.View(), "You lost")

	press(m, "y")
	assert.False(t, m.prompt)
	assert.False(t, m.Session().GameOver())
	assert.Equal(t, 90, m.Session().Board().SafeLeft())
}

func TestPresetKeys(t *testing.T) {
	m := newWalled(t)
	press(m, "right", "3")
	assert.Equal(t, mines.Hard, m.Session().Params())
	assert.Equal(t, mines.Point{}, m.cursor)

	press(m, "2")
	assert.Equal(t, mines.Medium, m.Session().Params())
	assert.Contains(t, m.View(), "MEDIUM")
}

func TestPause(t *testing.T) {
	m := newWalled(t)
	press(m, "p")
	assert.False(t, m.timer.Running(), "nothing to pause before the first move")

	for range 8 {
		press(m, "l")
	}
	press(m, " ")
	require.False(t, m.Session().GameOver())
	assert.True(t, m.timer.Running())
	press(m, "p")
	assert.False(t, m.timer.Running())
	press(m, "p")
	assert.True(t, m.timer.Running())
}

func TestQuit(t *testing.T) {
	m := newWalled(t)
	cmd := press(m, "q")
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())

	cmd = press(m, "ctrl+c")
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
