package mines

type Result uint8

const (
	NoChange Result = iota
	Queued          // merged into a cascade that is already draining
	Cleared
	Exploded
	Won
	FlagSet
	FlagCleared
)

func (r Result) String() string {
	switch r {
	case Queued:
		return "queued"
	case Cleared:
		return "cleared"
	case Exploded:
		return "exploded"
	case Won:
		return "won"
	case FlagSet:
		return "flag_set"
	case FlagCleared:
		return "flag_cleared"
	default:
		return "no_change"
	}
}

// Outcome describes what a single move did to the board.
type Outcome struct {
	Result Result
	// Cells whose state changed, in the order they changed.
	Cells []Point
	// Relocated is set when the first reveal landed on a mine and the mine
	// was moved to MovedTo.
	Relocated bool
	MovedTo   Point
}

func (o Outcome) Terminal() bool {
	return o.Result == Exploded || o.Result == Won
}
