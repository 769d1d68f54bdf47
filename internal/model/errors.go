package model

import "errors"

// Common errors used across the application
var (
	// Board errors
	ErrInvalidColumn = errors.New("invalid column")
	ErrOutOfBounds   = errors.New("coordinates out of bounds")
	ErrInvalidPlayer = errors.New("invalid player")

	// Game errors
	ErrGameNotFound    = errors.New("game not found")
	ErrNotPlayerTurn   = errors.New("not this player's turn")
	ErrGameComplete    = errors.New("game is already complete")
	ErrGameAbandoned   = errors.New("game has been abandoned")
	ErrInvalidSeat     = errors.New("invalid seat")
	ErrInvalidDepth    = errors.New("invalid search depth")
	ErrInvalidMoves    = errors.New("move list does not replay")
	ErrUnknownStrategy = errors.New("unknown bot strategy")
	ErrNoBotToMove     = errors.New("side to move is not a bot")
)
