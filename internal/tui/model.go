// Package tui plays a game session in the terminal.
package tui

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vancomm/minesweeper/internal/game"
	"github.com/vancomm/minesweeper/internal/mines"
	"github.com/vancomm/minesweeper/internal/timer"
)

const refresh = 100 * time.Millisecond

type tickMsg struct{}

func tick() tea.Cmd {
	return tea.Tick(refresh, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// Model is a bubbletea model over a single session.
type Model struct {
	session *game.Session
	timer   *timer.Timer
	cursor  mines.Point
	prompt  bool // waiting for an answer to "Play again?"
	message string
	err     string
}

// New starts a session with params. rnd may be nil.
func New(params mines.Params, rnd *rand.Rand, opts ...timer.Option) (*Model, error) {
	m := &Model{timer: timer.New(opts...)}
	s, err := game.NewSession(params, rnd, m.timer, m.gameOver)
	if err != nil {
		return nil, err
	}
	m.session = s
	return m, nil
}

func (m *Model) gameOver(e game.Event) {
	m.prompt = true
	switch e {
	case game.Won:
		m.message = fmt.Sprintf("You won in %d seconds!", m.timer.Seconds())
	case game.Lost:
		m.message = "Boom! You lost."
	}
}

func (m *Model) Session() *game.Session { return m.session }

func (m *Model) Init() tea.Cmd {
	return tick()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return m, tick()
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.prompt {
			return m.answer(msg.String())
		}
		return m.play(msg.String())
	}
	return m, nil
}

func (m *Model) answer(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "y", "enter":
		m.newGame()
	case "n", "esc":
		m.prompt = false
	case "q":
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) play(key string) (tea.Model, tea.Cmd) {
	m.err = ""
	p := m.session.Params()
	switch key {
	case "q":
		return m, tea.Quit
	case "up", "k":
		m.cursor.Y = max(m.cursor.Y-1, 0)
	case "down", "j":
		m.cursor.Y = min(m.cursor.Y+1, p.Rows-1)
	case "left", "h":
		m.cursor.X = max(m.cursor.X-1, 0)
	case "right", "l":
		m.cursor.X = min(m.cursor.X+1, p.Columns-1)
	case " ", "enter":
		m.move(m.session.Reveal)
	case "f":
		m.move(m.session.Flag)
	case "p":
		if !m.session.GameOver() && m.session.Board().FirstMoveTaken() {
			m.timer.Toggle()
		}
	case "n":
		m.newGame()
	case "r":
		if err := m.session.Restart(); err != nil {
			m.setError(err)
			break
		}
		m.message = ""
	case "1", "2", "3":
		names := mines.PresetNames()
		preset, _ := mines.Preset(names[key[0]-'1'])
		if err := m.session.Configure(preset.Columns, preset.Rows, preset.Mines); err != nil {
			m.setError(err)
			break
		}
		m.cursor = mines.Point{}
		m.message = ""
	}
	return m, nil
}

func (m *Model) move(fn func(x, y int) (mines.Outcome, error)) {
	if _, err := fn(m.cursor.X, m.cursor.Y); err != nil {
		m.setError(err)
	}
}

func (m *Model) newGame() {
	m.session.NewGame()
	m.prompt = false
	m.message = ""
}

func (m *Model) setError(err error) {
	if errors.Is(err, game.ErrAlreadyWon) {
		m.err = "You already won!"
		return
	}
	m.err = err.Error()
}

func (m *Model) cell(p mines.Point, status mines.CellStatus) string {
	var (
		char  string
		style lipgloss.Style
	)
	switch status {
	case mines.Unknown:
		char, style = "■", coveredStyle
	case mines.Flag, mines.CorrectFlag:
		char, style = "⚑", flagStyle
	case mines.WrongFlag:
		char, style = "⚑", wrongStyle
	case mines.ExplodedMine:
		char, style = "*", detonateStyle
	case mines.UnflaggedMine:
		char, style = "*", mineStyle
	case mines.MarkedMine:
		char, style = "M", markedStyle
	case 0:
		char, style = "·", emptyStyle
	default:
		char, style = status.String(), numStyles[status-1]
	}

	content := " " + char + " "
	if p == m.cursor {
		return cursorStyle.Render(content)
	}
	return style.Render(content)
}

func (m *Model) View() string {
	p := m.session.Params()
	grid := m.session.Grid()

	var board strings.Builder
	for y := range p.Rows {
		for x := range p.Columns {
			pt := mines.Point{X: x, Y: y}
			board.WriteString(m.cell(pt, grid[y*p.Columns+x]))
		}
		if y < p.Rows-1 {
			board.WriteByte('\n')
		}
	}

	status := lipgloss.JoinHorizontal(lipgloss.Top,
		labelStyle.Render("MINES"),
		valueStyle.Render(fmt.Sprintf("%03d", m.session.MinesLeft())),
		"  ",
		labelStyle.Render(strings.ToUpper(p.PresetName())),
		valueStyle.Render(fmt.Sprintf("%dx%d", p.Columns, p.Rows)),
		"  ",
		labelStyle.Render("TIME"),
		valueStyle.Render(fmt.Sprintf("%03d", m.timer.Seconds())),
	)

	var footer string
	switch {
	case m.prompt && m.session.Won():
		footer = wonStyle.Render(m.message + " Play again? (y/n)")
	case m.prompt:
		footer = lostStyle.Render(m.message + " Play again? (y/n)")
	case m.err != "":
		footer = errStyle.Render(m.err)
	default:
		footer = helpStyle.Render("←↓↑→/hjkl move • space reveal • f flag • p pause • n new • r restart • 1/2/3 size • q quit")
	}

	return lipgloss.JoinVertical(lipgloss.Center,
		status,
		boardStyle.Render(board.String()),
		footer,
	)
}
