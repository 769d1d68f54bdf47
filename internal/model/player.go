package model

// Player is one of the two sides of a game
type Player uint8

const (
	Red Player = iota + 1 // moves first
	Yellow
)

// Other returns the opposing side
func (p Player) Other() Player {
	if p == Red {
		return Yellow
	}
	return Red
}

// Cell returns the cell value for a token of this side
func (p Player) Cell() Cell {
	if p == Red {
		return RedCell
	}
	return YellowCell
}

// Valid returns true for Red or Yellow
func (p Player) Valid() bool {
	return p == Red || p == Yellow
}

// String returns the lowercase colour name
func (p Player) String() string {
	switch p {
	case Red:
		return "red"
	case Yellow:
		return "yellow"
	default:
		return "none"
	}
}

// ParsePlayer converts a colour name into a Player
func ParsePlayer(s string) (Player, error) {
	switch s {
	case "red":
		return Red, nil
	case "yellow":
		return Yellow, nil
	default:
		return 0, ErrInvalidPlayer
	}
}

// Select orders a pair so that the first element belongs to this side
func Select[T any](p Player, red, yellow T) (T, T) {
	if p == Red {
		return red, yellow
	}
	return yellow, red
}
