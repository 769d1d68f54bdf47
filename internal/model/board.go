package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Board dimensions and the run length needed to win
const (
	Width       = 7
	Height      = 6
	AlignTarget = 4
)

// Cell is the content of a single board square
type Cell uint8

const (
	Empty Cell = iota
	RedCell
	YellowCell
)

// Rune returns the character used to draw the cell
func (c Cell) Rune() rune {
	switch c {
	case RedCell:
		return 'X'
	case YellowCell:
		return 'O'
	default:
		return ' '
	}
}

// Position identifies a cell on the board
type Position struct {
	Row    int // 0 is the bottom row
	Column int
}

// Board is a connect-four position. It is a value type: assigning a Board copies
// the grid, only History needs Clone to be detached.
type Board struct {
	cells    [Width * Height]Cell // row-major from the bottom
	heights  [Width]int           // filled cells per column
	toPlay   Player
	lastMove Position
	history  []int
}

// NewBoard creates an empty board with Red to move
func NewBoard() Board {
	return Board{toPlay: Red}
}

// BoardFromMoves replays a sequence of columns from the initial position
func BoardFromMoves(moves []int) (Board, error) {
	b := NewBoard()
	for i, column := range moves {
		if err := b.Play(column); err != nil {
			return Board{}, fmt.Errorf("move %d (column %d): %w", i+1, column, err)
		}
	}
	return b, nil
}

// Clone returns a fully independent copy of the board
func (b *Board) Clone() Board {
	c := *b
	c.history = make([]int, len(b.history), len(b.history)+1)
	copy(c.history, b.history)
	return c
}

// ValidAction reports whether a token can be dropped in the column
func (b *Board) ValidAction(column int) bool {
	return column >= 0 && column < Width && b.heights[column] < Height
}

// Apply drops a token for the side to move. The column must be valid.
func (b *Board) Apply(column int) {
	row := b.heights[column]
	b.cells[mustIndex(row, column)] = b.toPlay.Cell()
	b.toPlay = b.toPlay.Other()
	b.heights[column]++
	b.lastMove = Position{Row: row, Column: column}
	b.history = append(b.history, column)
}

// Play validates the column before applying it
func (b *Board) Play(column int) error {
	if !b.ValidAction(column) {
		return ErrInvalidColumn
	}
	b.Apply(column)
	return nil
}

// CheckFull returns true if every column is filled
func (b *Board) CheckFull() bool {
	for _, h := range b.heights {
		if h != Height {
			return false
		}
	}
	return true
}

// At returns the cell at the given coordinates
func (b *Board) At(row, column int) (Cell, error) {
	if row < 0 || row >= Height || column < 0 || column >= Width {
		return Empty, ErrOutOfBounds
	}
	return b.cell(row, column), nil
}

// cell reads without bounds checks; callers validate coordinates once up front
func (b *Board) cell(row, column int) Cell {
	return b.cells[row*Width+column]
}

// Cells returns the grid in row-major order from the bottom row
func (b *Board) Cells() [Width * Height]Cell {
	return b.cells
}

// ColumnHeight returns the number of tokens in the column
func (b *Board) ColumnHeight(column int) int {
	if column < 0 || column >= Width {
		return 0
	}
	return b.heights[column]
}

// ToPlay returns the side to move
func (b *Board) ToPlay() Player {
	return b.toPlay
}

// LastMove returns the most recent placement; ok is false on an empty board
func (b *Board) LastMove() (Position, bool) {
	return b.lastMove, len(b.history) > 0
}

// History returns a copy of the played columns
func (b *Board) History() []int {
	result := make([]int, len(b.history))
	copy(result, b.history)
	return result
}

// MoveCount returns the number of plies played
func (b *Board) MoveCount() int {
	return len(b.history)
}

// LegalMoves returns the playable columns from left to right
func (b *Board) LegalMoves() []int {
	moves := make([]int, 0, Width)
	for column := 0; column < Width; column++ {
		if b.heights[column] < Height {
			moves = append(moves, column)
		}
	}
	return moves
}

// String draws the board top row first, with column labels underneath
func (b *Board) String() string {
	var sb strings.Builder
	for row := Height - 1; row >= 0; row-- {
		for column := 0; column < Width; column++ {
			sb.WriteByte('|')
			sb.WriteRune(b.cell(row, column).Rune())
			sb.WriteByte('|')
		}
		sb.WriteByte('\n')
	}
	for column := 0; column < Width; column++ {
		sb.WriteByte(' ')
		sb.WriteString(strconv.FormatInt(int64(column), 36))
		sb.WriteByte(' ')
	}
	return sb.String()
}

// mustIndex maps coordinates to the flat offset, panicking on an invariant break
func mustIndex(row, column int) int {
	if row < 0 || row >= Height {
		panic(fmt.Sprintf("row out of bounds: the height is %d but the row is %d", Height, row))
	}
	if column < 0 || column >= Width {
		panic(fmt.Sprintf("column out of bounds: the width is %d but the column is %d", Width, column))
	}
	return row*Width + column
}
