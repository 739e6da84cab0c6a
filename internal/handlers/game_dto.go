package handlers

import (
	"fmt"

	"github.com/gorilla/schema"

	"github.com/vancomm/minesweeper/internal/game"
	"github.com/vancomm/minesweeper/internal/mines"
)

var decoder = func() *schema.Decoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return dec
}()

type CreateGameDTO struct {
	Preset  string `schema:"preset"`
	Columns int    `schema:"columns"`
	Rows    int    `schema:"rows"`
	Mines   int    `schema:"mines"`
}

func ParseCreateGameDTO(src map[string][]string) (CreateGameDTO, error) {
	var dto CreateGameDTO
	err := decoder.Decode(&dto, src)
	return dto, err
}

// Params resolves the requested board: a named preset, explicit
// dimensions, or fallback when the request names neither.
func (d CreateGameDTO) Params(fallback mines.Params) (mines.Params, error) {
	if d.Preset != "" {
		p, ok := mines.Preset(d.Preset)
		if !ok {
			return mines.Params{}, fmt.Errorf("unknown preset %q", d.Preset)
		}
		return p, nil
	}
	if d.Columns == 0 && d.Rows == 0 && d.Mines == 0 {
		return fallback, nil
	}
	p := mines.Params{Columns: d.Columns, Rows: d.Rows, Mines: d.Mines}
	return p, p.Validate()
}

type ConfigureDTO struct {
	Columns int `schema:"columns,required"`
	Rows    int `schema:"rows,required"`
	Mines   int `schema:"mines,required"`
}

func ParseConfigureDTO(src map[string][]string) (ConfigureDTO, error) {
	var dto ConfigureDTO
	err := decoder.Decode(&dto, src)
	return dto, err
}

type Move int

const (
	Open Move = iota
	Flag
)

func (m Move) String() string {
	if m == Flag {
		return "flag"
	}
	return "open"
}

func ParseMove(s string) (Move, error) {
	switch s {
	case "open", "o":
		return Open, nil
	case "flag", "f":
		return Flag, nil
	}
	return 0, fmt.Errorf("unknown move %q", s)
}

type MoveDTO struct {
	Move string `schema:"move,required"`
	X    int    `schema:"x,required"`
	Y    int    `schema:"y,required"`
}

func ParseMoveDTO(src map[string][]string) (MoveDTO, error) {
	var dto MoveDTO
	err := decoder.Decode(&dto, src)
	return dto, err
}

type PresetDTO struct {
	Name    string `json:"name"`
	Columns int    `json:"columns"`
	Rows    int    `json:"rows"`
	Mines   int    `json:"mines"`
}

func NewPresetDTOs() []PresetDTO {
	names := mines.PresetNames()
	dtos := make([]PresetDTO, 0, len(names))
	for _, name := range names {
		p, _ := mines.Preset(name)
		dtos = append(dtos, PresetDTO{name, p.Columns, p.Rows, p.Mines})
	}
	return dtos
}

type OutcomeDTO struct {
	Result    string        `json:"result"`
	Cells     []mines.Point `json:"cells,omitempty"`
	Relocated bool          `json:"relocated,omitempty"`
}

func NewOutcomeDTO(o mines.Outcome) *OutcomeDTO {
	return &OutcomeDTO{
		Result:    o.Result.String(),
		Cells:     o.Cells,
		Relocated: o.Relocated,
	}
}

// GameDTO is the client's view of a session. Grid holds one display code
// per cell, row by row.
type GameDTO struct {
	Type      string      `json:"type"`
	ID        string      `json:"id"`
	Columns   int         `json:"columns"`
	Rows      int         `json:"rows"`
	Mines     int         `json:"mines"`
	MinesLeft int         `json:"mines_left"`
	GameOver  bool        `json:"game_over"`
	Won       bool        `json:"won"`
	Lost      bool        `json:"lost"`
	Elapsed   int         `json:"elapsed"`
	Grid      mines.Grid  `json:"grid"`
	Outcome   *OutcomeDTO `json:"outcome,omitempty"`
	Event     string      `json:"event,omitempty"`
}

func NewGameDTO(id string, s *game.Session, elapsed int) *GameDTO {
	p := s.Params()
	return &GameDTO{
		Type:      "state",
		ID:        id,
		Columns:   p.Columns,
		Rows:      p.Rows,
		Mines:     p.Mines,
		MinesLeft: s.MinesLeft(),
		GameOver:  s.GameOver(),
		Won:       s.Won(),
		Lost:      s.Lost(),
		Elapsed:   elapsed,
		Grid:      s.Grid(),
		Event:     s.Event().String(),
	}
}

type TickDTO struct {
	Type    string `json:"type"`
	Elapsed int    `json:"elapsed"`
}

type ErrorDTO struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}
