package bot

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mcoot/connectfour/internal/model"
	"github.com/mcoot/connectfour/internal/services/game"
)

// MaxBotIterations is a safety limit for the ProcessBotActions loop
const MaxBotIterations = model.Width * model.Height

// BotActionType represents the type of action a bot took
type BotActionType string

const (
	ActionPlay         BotActionType = "play"
	ActionGameComplete BotActionType = "game_complete"
)

// BotAction represents a single action taken by a bot during ProcessBotActions
type BotAction struct {
	Type   BotActionType
	Player model.Player
	Column int
	State  model.GameState
}

// Service drives bot seats in stored games
type Service struct {
	gameController *game.Controller
	strategies     map[string]Strategy
	logger         *slog.Logger
}

// NewService creates a new bot Service
func NewService(
	gameController *game.Controller,
	strategies map[string]Strategy,
	logger *slog.Logger,
) *Service {
	return &Service{
		gameController: gameController,
		strategies:     strategies,
		logger:         logger.With(slog.String("component", "bot-service")),
	}
}

// Strategy resolves a strategy by name, re-targeted at depth when it searches
func (s *Service) Strategy(name string, depth int) (Strategy, error) {
	st, ok := s.strategies[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrUnknownStrategy, name)
	}
	if da, ok := st.(DepthAware); ok && depth > 0 {
		return da.WithDepth(depth), nil
	}
	return st, nil
}

// PlayBotMove makes one move for the bot seat whose turn it is
func (s *Service) PlayBotMove(ctx context.Context, gameID model.GameID) (BotAction, *model.Game, error) {
	g, err := s.gameController.GetGame(ctx, gameID)
	if err != nil {
		return BotAction{}, nil, err
	}
	if g.State == model.GameStateAbandoned {
		return BotAction{}, nil, model.ErrGameAbandoned
	}
	if g.IsComplete() {
		return BotAction{}, nil, model.ErrGameComplete
	}

	player := g.ToPlay()
	seat := g.SeatFor(player)
	if !seat.IsBot() {
		return BotAction{}, nil, model.ErrNoBotToMove
	}

	strategy, err := s.Strategy(seat.BotStrategy, g.Depth)
	if err != nil {
		return BotAction{}, nil, err
	}
	board, err := g.Board()
	if err != nil {
		return BotAction{}, nil, err
	}
	column, err := strategy.ChooseColumn(ctx, board)
	if err != nil {
		return BotAction{}, nil, fmt.Errorf("bot %s choosing for game %s: %w", seat.BotStrategy, gameID, err)
	}

	g, err = s.gameController.PlayMove(ctx, gameID, player, column)
	if err != nil {
		return BotAction{}, nil, err
	}

	s.logger.Debug("bot played",
		slog.String("game_id", string(gameID)),
		slog.String("strategy", seat.BotStrategy),
		slog.String("player", player.String()),
		slog.Int("column", column),
	)

	return BotAction{Type: ActionPlay, Player: player, Column: column, State: g.State}, g, nil
}

// ProcessBotActions plays bot moves until a human is to move or the game ends.
// It returns all actions taken so handlers can report them.
func (s *Service) ProcessBotActions(ctx context.Context, gameID model.GameID) ([]BotAction, error) {
	var actions []BotAction

	for range MaxBotIterations {
		g, err := s.gameController.GetGame(ctx, gameID)
		if err != nil {
			return actions, err
		}
		if g.IsComplete() || !g.SeatFor(g.ToPlay()).IsBot() {
			break
		}

		action, g, err := s.PlayBotMove(ctx, gameID)
		if err != nil {
			return actions, err
		}
		actions = append(actions, action)

		if g.IsComplete() {
			actions = append(actions, BotAction{Type: ActionGameComplete, State: g.State})
			break
		}
	}

	return actions, nil
}
