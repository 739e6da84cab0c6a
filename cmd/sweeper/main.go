package main

import (
	"fmt"
	"io"
	"math/rand/v2"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/vancomm/minesweeper/internal/game"
	"github.com/vancomm/minesweeper/internal/mines"
	"github.com/vancomm/minesweeper/internal/tui"
)

func main() {
	preset := pflag.StringP("preset", "p", "easy", "board preset: easy, medium or hard")
	board := pflag.StringP("board", "b", "", `custom board as "columns:rows:mines"`)
	columns := pflag.Int("columns", 0, "custom board columns")
	rows := pflag.Int("rows", 0, "custom board rows")
	mineCount := pflag.Int("mines", 0, "custom board mine count")
	seed := pflag.Uint64("seed", 0, "random seed for a reproducible layout")
	pflag.Parse()

	params, err := resolveParams(*preset, *board, *columns, *rows, *mineCount)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	var rnd *rand.Rand
	if pflag.CommandLine.Changed("seed") {
		rnd = rand.New(rand.NewPCG(*seed, *seed))
	}

	// the terminal belongs to the UI
	for _, log := range []*logrus.Logger{mines.Log, game.Log} {
		log.SetOutput(io.Discard)
	}

	m, err := tui.New(params, rnd)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func resolveParams(preset, board string, columns, rows, mineCount int) (mines.Params, error) {
	switch {
	case board != "":
		return mines.ParseSeed(board)
	case columns != 0 || rows != 0 || mineCount != 0:
		return mines.Params{Columns: columns, Rows: rows, Mines: mineCount}, nil
	}
	p, ok := mines.Preset(preset)
	if !ok {
		return mines.Params{}, fmt.Errorf("unknown preset %q", preset)
	}
	return p, nil
}
