package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/connectfour/internal/model"
	"github.com/mcoot/connectfour/internal/services/search"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest  = "INVALID_REQUEST"
	CodeInvalidColumn   = "INVALID_COLUMN"
	CodeInvalidPlayer   = "INVALID_PLAYER"
	CodeInvalidSeat     = "INVALID_SEAT"
	CodeInvalidDepth    = "INVALID_DEPTH"
	CodeInvalidMoves    = "INVALID_MOVES"
	CodeUnknownStrategy = "UNKNOWN_STRATEGY"
	CodeNotYourTurn     = "NOT_YOUR_TURN"
	CodeGameNotFound    = "GAME_NOT_FOUND"
	CodeGameComplete    = "GAME_COMPLETE"
	CodeGameAbandoned   = "GAME_ABANDONED"
	CodeNoBotToMove     = "NO_BOT_TO_MOVE"
	CodeInternalError   = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status an error maps to
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, model.ErrGameNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeGameNotFound, "Game not found"}}
	case errors.Is(err, model.ErrGameAbandoned):
		return &httpError{http.StatusConflict, APIError{CodeGameAbandoned, "Game has been abandoned"}}
	case errors.Is(err, model.ErrGameComplete), errors.Is(err, search.ErrNoLegalMoves):
		return &httpError{http.StatusConflict, APIError{CodeGameComplete, "Game is already over"}}
	case errors.Is(err, model.ErrNotPlayerTurn):
		return &httpError{http.StatusForbidden, APIError{CodeNotYourTurn, "Not your turn"}}
	case errors.Is(err, model.ErrNoBotToMove):
		return &httpError{http.StatusConflict, APIError{CodeNoBotToMove, "The side to move is not a bot"}}
	case errors.Is(err, model.ErrInvalidMoves):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidMoves, "Moves do not form a legal game"}}
	case errors.Is(err, model.ErrInvalidColumn):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidColumn, "Column is full or out of range"}}
	case errors.Is(err, model.ErrInvalidPlayer):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidPlayer, "Player must be red or yellow"}}
	case errors.Is(err, model.ErrInvalidSeat):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidSeat, err.Error()}}
	case errors.Is(err, model.ErrUnknownStrategy):
		return &httpError{http.StatusBadRequest, APIError{CodeUnknownStrategy, err.Error()}}
	case errors.Is(err, model.ErrInvalidDepth), errors.Is(err, search.ErrInvalidDepth):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidDepth, err.Error()}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
