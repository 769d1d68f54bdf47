package search

import "github.com/mcoot/connectfour/internal/model"

// weights scores each square by how many winning lines run through it,
// indexed like the board from the bottom row
var weights = [model.Width * model.Height]int{
	3, 6, 10, 15, 10, 6, 3,
	4, 7, 12, 17, 12, 7, 4,
	5, 8, 15, 22, 15, 8, 5,
	4, 8, 14, 19, 14, 8, 4,
	3, 7, 11, 16, 11, 7, 3,
	2, 5, 9, 12, 9, 5, 2,
}

// PriorityMoves orders columns from the centre outwards
var PriorityMoves = [model.Width]int{3, 2, 4, 1, 5, 0, 6}

// Evaluate scores a position for the side that has just moved: its tokens add
// their square weight, the opponent's subtract it.
func Evaluate(b *model.Board) int {
	mover := b.ToPlay().Other().Cell()
	score := 0
	for i, cell := range b.Cells() {
		switch cell {
		case model.Empty:
		case mover:
			score += weights[i]
		default:
			score -= weights[i]
		}
	}
	return score
}
