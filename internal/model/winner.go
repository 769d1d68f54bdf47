package model

// Outcome summarises whether a position is finished and who won
type Outcome uint8

const (
	InProgress Outcome = iota
	RedWins
	YellowWins
	Draw
)

// axes are the four line directions as (row step, column step)
var axes = [4]Position{
	{Row: 0, Column: 1},  // horizontal
	{Row: 1, Column: 0},  // vertical
	{Row: 1, Column: 1},  // diagonal up-right
	{Row: -1, Column: 1}, // diagonal down-right
}

// CheckWinner reports whether the last move completed a run of AlignTarget.
// Only the lines through the last move are inspected.
func (b *Board) CheckWinner() (Player, bool) {
	if len(b.history) == 0 {
		return 0, false
	}
	player := b.toPlay.Other()
	for _, axis := range axes {
		if b.runThrough(b.lastMove, axis, player.Cell()) {
			return player, true
		}
	}
	return 0, false
}

// runThrough walks back to the edge of the board along the axis, then scans
// the whole in-bounds line for AlignTarget consecutive cells
func (b *Board) runThrough(pos, axis Position, target Cell) bool {
	row, column := pos.Row, pos.Column
	for inBounds(row-axis.Row, column-axis.Column) {
		row -= axis.Row
		column -= axis.Column
	}

	count := 0
	for ; inBounds(row, column); row, column = row+axis.Row, column+axis.Column {
		if b.cell(row, column) != target {
			count = 0
			continue
		}
		count++
		if count == AlignTarget {
			return true
		}
	}
	return false
}

// Over returns true once someone has won or the board is full
func (b *Board) Over() bool {
	if _, ok := b.CheckWinner(); ok {
		return true
	}
	return b.CheckFull()
}

// Outcome classifies the position
func (b *Board) Outcome() Outcome {
	if winner, ok := b.CheckWinner(); ok {
		if winner == Red {
			return RedWins
		}
		return YellowWins
	}
	if b.CheckFull() {
		return Draw
	}
	return InProgress
}

// Winner returns the winning side for a decided outcome
func (o Outcome) Winner() (Player, bool) {
	switch o {
	case RedWins:
		return Red, true
	case YellowWins:
		return Yellow, true
	default:
		return 0, false
	}
}

func (o Outcome) String() string {
	switch o {
	case RedWins:
		return "red_won"
	case YellowWins:
		return "yellow_won"
	case Draw:
		return "draw"
	default:
		return "in_progress"
	}
}

func inBounds(row, column int) bool {
	return row >= 0 && row < Height && column >= 0 && column < Width
}
