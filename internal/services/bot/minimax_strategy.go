package bot

import (
	"context"

	"github.com/mcoot/connectfour/internal/model"
	"github.com/mcoot/connectfour/internal/services/search"
)

// MinimaxStrategy plays the search engine's choice at a fixed depth
type MinimaxStrategy struct {
	engine *search.Engine
	depth  int
}

// NewMinimaxStrategy creates a new MinimaxStrategy
func NewMinimaxStrategy(engine *search.Engine, depth int) *MinimaxStrategy {
	return &MinimaxStrategy{engine: engine, depth: depth}
}

// ChooseColumn runs a full search from the position
func (s *MinimaxStrategy) ChooseColumn(ctx context.Context, board model.Board) (int, error) {
	return s.engine.ChooseAction(ctx, board, s.depth)
}

// WithDepth returns a copy searching to a different depth
func (s *MinimaxStrategy) WithDepth(depth int) Strategy {
	return &MinimaxStrategy{engine: s.engine, depth: depth}
}

// Depth returns the configured search depth
func (s *MinimaxStrategy) Depth() int {
	return s.depth
}
