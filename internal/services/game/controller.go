package game

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/mcoot/connectfour/internal/dependencies/clock"
	"github.com/mcoot/connectfour/internal/dependencies/random"
	"github.com/mcoot/connectfour/internal/model"
	"github.com/mcoot/connectfour/internal/storage"
)

const (
	// GameIDAlphabet is the character set for generated game IDs
	GameIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	// GameIDLength is the length of generated game IDs
	GameIDLength = 12

	// DefaultDepth is the search depth used when a game does not set one
	DefaultDepth = 8
	// MaxDepth bounds the depth a game may request
	MaxDepth = 12

	// MaxDisplayNameLength bounds seat names
	MaxDisplayNameLength = 32
)

// Controller manages game records and turn flow
type Controller struct {
	// mu serialises read-modify-write cycles on stored games
	mu      sync.Mutex
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// NewController creates a new game Controller
func NewController(
	storage storage.Storage,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage: storage,
		clock:   clock,
		random:  random,
		logger:  logger.With(slog.String("component", "game-controller")),
	}
}

// CreateGame starts a new game between the two seats. A depth of zero
// selects DefaultDepth.
func (c *Controller) CreateGame(ctx context.Context, red, yellow model.Seat, depth int) (*model.Game, error) {
	depth, err := ResolveDepth(depth)
	if err != nil {
		return nil, err
	}
	if red, err = normaliseSeat(red, model.Red); err != nil {
		return nil, err
	}
	if yellow, err = normaliseSeat(yellow, model.Yellow); err != nil {
		return nil, err
	}

	now := c.clock.Now()
	game := &model.Game{
		ID:        c.newGameID(),
		Source:    model.SourceAPI,
		State:     model.GameStateInProgress,
		Red:       red,
		Yellow:    yellow,
		Depth:     depth,
		Moves:     []int{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := c.storage.SaveGame(ctx, game); err != nil {
		c.logger.Error("failed to save game",
			slog.String("game_id", string(game.ID)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	c.logger.Info("game created",
		slog.String("game_id", string(game.ID)),
		slog.String("red", red.DisplayName),
		slog.String("yellow", yellow.DisplayName),
		slog.Int("depth", depth),
	)

	return game, nil
}

// GetGame retrieves a game by ID
func (c *Controller) GetGame(ctx context.Context, gameID model.GameID) (*model.Game, error) {
	return c.storage.GetGame(ctx, gameID)
}

// ListGames returns stored games newest first
func (c *Controller) ListGames(ctx context.Context, filter storage.ListFilter) ([]*model.Game, error) {
	return c.storage.ListGames(ctx, filter)
}

// PlayMove drops a token for player and records the resulting state
func (c *Controller) PlayMove(ctx context.Context, gameID model.GameID, player model.Player, column int) (*model.Game, error) {
	if !player.Valid() {
		return nil, model.ErrInvalidPlayer
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	// Validate game state
	if game.State == model.GameStateAbandoned {
		return nil, model.ErrGameAbandoned
	}
	if game.IsComplete() {
		return nil, model.ErrGameComplete
	}
	if game.ToPlay() != player {
		return nil, model.ErrNotPlayerTurn
	}

	board, err := game.Board()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrInvalidMoves, err)
	}
	if err := board.Play(column); err != nil {
		return nil, err
	}

	game.Moves = append(game.Moves, column)
	game.State = model.StateForOutcome(board.Outcome())
	game.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveGame(ctx, game); err != nil {
		return nil, err
	}

	c.logger.Debug("move played",
		slog.String("game_id", string(game.ID)),
		slog.String("player", player.String()),
		slog.Int("column", column),
	)
	if game.IsComplete() {
		c.logger.Info("game finished",
			slog.String("game_id", string(game.ID)),
			slog.String("state", string(game.State)),
			slog.Int("moves", len(game.Moves)),
		)
	}

	return game, nil
}

// AbandonGame stops a game in progress
func (c *Controller) AbandonGame(ctx context.Context, gameID model.GameID) (*model.Game, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.State == model.GameStateAbandoned {
		return nil, model.ErrGameAbandoned
	}
	if game.IsComplete() {
		return nil, model.ErrGameComplete
	}

	game.State = model.GameStateAbandoned
	game.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveGame(ctx, game); err != nil {
		return nil, err
	}

	c.logger.Info("game abandoned",
		slog.String("game_id", string(game.ID)),
		slog.Int("moves", len(game.Moves)),
	)

	return game, nil
}

// RecordFinished stores a game that was played elsewhere, such as over a
// remote session. The move list must replay cleanly; the state is derived
// from it unless the game was abandoned.
func (c *Controller) RecordFinished(ctx context.Context, game *model.Game) (*model.Game, error) {
	board, err := model.BoardFromMoves(game.Moves)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrInvalidMoves, err)
	}

	record := game.Clone()
	if record.ID == "" {
		record.ID = c.newGameID()
	}
	if record.Source == "" {
		record.Source = model.SourceSession
	}
	if record.State != model.GameStateAbandoned {
		record.State = model.StateForOutcome(board.Outcome())
	}
	now := c.clock.Now()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	if err := c.storage.SaveGame(ctx, record); err != nil {
		return nil, err
	}

	c.logger.Info("game recorded",
		slog.String("game_id", string(record.ID)),
		slog.String("source", string(record.Source)),
		slog.String("state", string(record.State)),
		slog.Int("moves", len(record.Moves)),
	)

	return record, nil
}

func (c *Controller) newGameID() model.GameID {
	return model.GameID(c.random.String(GameIDLength, GameIDAlphabet))
}

// ResolveDepth applies the default and checks the allowed range
func ResolveDepth(depth int) (int, error) {
	if depth == 0 {
		return DefaultDepth, nil
	}
	if depth < 1 || depth > MaxDepth {
		return 0, fmt.Errorf("%w: %d is outside 1-%d", model.ErrInvalidDepth, depth, MaxDepth)
	}
	return depth, nil
}

// normaliseSeat fills in a display name and validates the bot strategy
func normaliseSeat(seat model.Seat, side model.Player) (model.Seat, error) {
	if seat.IsBot() && !slices.Contains(model.ValidBotStrategies(), seat.BotStrategy) {
		return model.Seat{}, fmt.Errorf("%w: %s", model.ErrUnknownStrategy, seat.BotStrategy)
	}
	if len(seat.DisplayName) > MaxDisplayNameLength {
		return model.Seat{}, fmt.Errorf("%w: display name longer than %d bytes", model.ErrInvalidSeat, MaxDisplayNameLength)
	}
	if seat.DisplayName == "" {
		if seat.IsBot() {
			seat.DisplayName = model.BotStrategyDisplayName(seat.BotStrategy) + " Bot"
		} else {
			seat.DisplayName = side.String()
		}
	}
	return seat, nil
}
