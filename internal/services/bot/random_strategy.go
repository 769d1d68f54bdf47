package bot

import (
	"context"

	"github.com/mcoot/connectfour/internal/dependencies/random"
	"github.com/mcoot/connectfour/internal/model"
	"github.com/mcoot/connectfour/internal/services/search"
)

// RandomStrategy drops tokens in a uniformly random open column
type RandomStrategy struct {
	random random.Random
}

// NewRandomStrategy creates a new RandomStrategy
func NewRandomStrategy(rnd random.Random) *RandomStrategy {
	return &RandomStrategy{random: rnd}
}

// ChooseColumn picks among the columns that are not yet full
func (s *RandomStrategy) ChooseColumn(ctx context.Context, board model.Board) (int, error) {
	column, ok := random.Pick(s.random, board.LegalMoves())
	if !ok {
		return 0, search.ErrNoLegalMoves
	}
	return column, nil
}
