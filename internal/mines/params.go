package mines

import (
	"fmt"
	"slices"
	"strings"
)

const (
	MinColumns = 8
	MaxColumns = 40
	MinRows    = 8
	MaxRows    = 20
	MinMines   = 10
)

type Params struct {
	Columns, Rows, Mines int
}

var (
	Easy   = Params{Columns: 10, Rows: 10, Mines: 10}
	Medium = Params{Columns: 16, Rows: 16, Mines: 40}
	Hard   = Params{Columns: 30, Rows: 15, Mines: 90}
)

var presets = map[string]Params{
	"easy":   Easy,
	"medium": Medium,
	"hard":   Hard,
}

// PresetNames lists the preset names from smallest to largest board.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	slices.SortFunc(names, func(a, b string) int {
		return presets[a].Cells() - presets[b].Cells()
	})
	return names
}

func Preset(name string) (Params, bool) {
	p, ok := presets[strings.ToLower(strings.TrimSpace(name))]
	return p, ok
}

// PresetName returns the name of the preset equal to p, or "custom".
func (p Params) PresetName() string {
	for name, preset := range presets {
		if preset == p {
			return name
		}
	}
	return "custom"
}

// MaxMines is floor(columns*rows*0.9).
func MaxMines(columns, rows int) int {
	return columns * rows * 9 / 10
}

func (p Params) Validate() error {
	switch {
	case p.Columns < MinColumns || p.Columns > MaxColumns:
		return ConfigError{p, fmt.Sprintf(
			"columns must be between %d and %d", MinColumns, MaxColumns,
		)}
	case p.Rows < MinRows || p.Rows > MaxRows:
		return ConfigError{p, fmt.Sprintf(
			"rows must be between %d and %d", MinRows, MaxRows,
		)}
	case p.Mines < MinMines:
		return ConfigError{p, "not enough mines"}
	case p.Mines > MaxMines(p.Columns, p.Rows):
		return ConfigError{p, "too many mines for this board size"}
	}
	return nil
}

func (p Params) Cells() int {
	return p.Columns * p.Rows
}

func (p Params) InBounds(pt Point) bool {
	return 0 <= pt.X && pt.X < p.Columns && 0 <= pt.Y && pt.Y < p.Rows
}

func (p Params) Seed() string {
	return fmt.Sprintf("%d:%d:%d", p.Columns, p.Rows, p.Mines)
}

func ParseSeed(seed string) (Params, error) {
	var p Params
	sseed := strings.ReplaceAll(seed, ":", " ")
	n, err := fmt.Sscanf(sseed, "%d %d %d", &p.Columns, &p.Rows, &p.Mines)
	if n != 3 || err != nil {
		return Params{}, fmt.Errorf(
			`invalid board seed (seed = "%s", n = %d, err = %w)`, seed, n, err,
		)
	}
	return p, nil
}

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Point) String() string {
	return fmt.Sprintf("%d:%d", p.X, p.Y)
}
