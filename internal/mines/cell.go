package mines

type Kind uint8

const (
	Safe Kind = iota
	Mine
)

func (k Kind) String() string {
	if k == Mine {
		return "mine"
	}
	return "safe"
}

type State uint8

const (
	Covered State = iota
	Revealed
	Flagged
)

func (s State) String() string {
	switch s {
	case Revealed:
		return "revealed"
	case Flagged:
		return "flagged"
	default:
		return "covered"
	}
}

// Cell is one grid position. Flagged and Revealed are mutually exclusive and
// a flagged cell has to be unflagged before it can be revealed.
type Cell struct {
	Kind  Kind
	State State
}

func (c Cell) IsMine() bool    { return c.Kind == Mine }
func (c Cell) IsCovered() bool { return c.State == Covered }
func (c Cell) IsFlagged() bool { return c.State == Flagged }

func (c Cell) IsRevealed() bool {
	return c.State == Revealed
}

func (c *Cell) toggleFlag() bool {
	switch c.State {
	case Covered:
		c.State = Flagged
	case Flagged:
		c.State = Covered
	default:
		return false
	}
	return true
}
