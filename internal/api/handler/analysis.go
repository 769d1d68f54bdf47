package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mcoot/connectfour/internal/api/request"
	"github.com/mcoot/connectfour/internal/api/response"
	"github.com/mcoot/connectfour/internal/model"
	"github.com/mcoot/connectfour/internal/services/game"
	"github.com/mcoot/connectfour/internal/services/search"
)

// AnalysisHandler scores arbitrary positions with the search engine
type AnalysisHandler struct {
	engine *search.Engine
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(engine *search.Engine) *AnalysisHandler {
	return &AnalysisHandler{engine: engine}
}

// Analyze handles POST /api/v1/analysis
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req request.AnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	depth, err := game.ResolveDepth(req.Depth)
	if err != nil {
		WriteError(w, err)
		return
	}
	board, err := model.BoardFromMoves(req.Moves)
	if err != nil {
		WriteError(w, fmt.Errorf("%w: %w", model.ErrInvalidMoves, err))
		return
	}

	result, err := h.engine.Search(r.Context(), board, depth)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AnalysisFromResult(result, board.ToPlay()))
}
