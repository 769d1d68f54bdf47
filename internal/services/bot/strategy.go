package bot

import (
	"context"

	"github.com/mcoot/connectfour/internal/model"
)

// Strategy defines how a bot chooses its next column
type Strategy interface {
	// ChooseColumn selects a legal column for the side to move
	ChooseColumn(ctx context.Context, board model.Board) (int, error)
}

// DepthAware is implemented by strategies whose strength is a search depth.
// The service re-targets them at each game's configured depth.
type DepthAware interface {
	WithDepth(depth int) Strategy
}
