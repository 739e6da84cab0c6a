package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/vancomm/minesweeper/internal/game"
	"github.com/vancomm/minesweeper/internal/metrics"
	"github.com/vancomm/minesweeper/internal/mines"
)

// Maps known commands to number of arguments
var commandNargs = map[string]int{
	"g": 0, // current state
	"o": 2, // open x y
	"f": 2, // flag x y
	"n": 0, // new game
	"r": 0, // restart
	"c": 3, // configure columns rows mines
}

type command struct {
	name string
	args []int
}

func parseCommand(line string) (command, error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return command{}, errors.New("empty command")
	}
	nargs, ok := commandNargs[parts[0]]
	if !ok {
		return command{}, fmt.Errorf("unknown command %q", parts[0])
	}
	if nargs != len(parts)-1 {
		return command{}, fmt.Errorf(
			"command %q takes %d arguments, got %d", parts[0], nargs, len(parts)-1,
		)
	}
	c := command{name: parts[0], args: make([]int, nargs)}
	for i, arg := range parts[1:] {
		n, err := strconv.Atoi(arg)
		if err != nil {
			return command{}, fmt.Errorf("argument %d must be an int", i+1)
		}
		c.args[i] = n
	}
	return c, nil
}

func executeCommand(s *game.Session, c command) (*mines.Outcome, error) {
	switch c.name {
	case "g":
		return nil, nil
	case "o":
		return applyMove(s, Open, c.args[0], c.args[1])
	case "f":
		return applyMove(s, Flag, c.args[0], c.args[1])
	case "n":
		s.NewGame()
	case "r":
		if err := s.Restart(); err != nil {
			return nil, err
		}
	case "c":
		if err := s.Configure(c.args[0], c.args[1], c.args[2]); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown command %q", c.name)
	}
	metrics.GamesStarted.WithLabelValues(s.Params().PresetName()).Inc()
	return nil, nil
}
