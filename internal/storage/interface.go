package storage

import (
	"context"

	"github.com/mcoot/connectfour/internal/model"
)

// DefaultListLimit caps ListGames when the filter leaves Limit unset
const DefaultListLimit = 50

// ListFilter narrows the games returned by ListGames
type ListFilter struct {
	State model.GameState // empty matches every state
	Limit int
}

// Matches reports whether the game passes the filter's state check
func (f ListFilter) Matches(g *model.Game) bool {
	return f.State == "" || g.State == f.State
}

// EffectiveLimit returns the limit to apply
func (f ListFilter) EffectiveLimit() int {
	if f.Limit <= 0 {
		return DefaultListLimit
	}
	return f.Limit
}

// Storage defines the interface for game persistence
type Storage interface {
	SaveGame(ctx context.Context, game *model.Game) error
	GetGame(ctx context.Context, id model.GameID) (*model.Game, error)
	DeleteGame(ctx context.Context, id model.GameID) error
	// ListGames returns games newest first
	ListGames(ctx context.Context, filter ListFilter) ([]*model.Game, error)
}
