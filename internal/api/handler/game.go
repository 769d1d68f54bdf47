package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/connectfour/internal/api/request"
	"github.com/mcoot/connectfour/internal/api/response"
	"github.com/mcoot/connectfour/internal/model"
	"github.com/mcoot/connectfour/internal/services/bot"
	"github.com/mcoot/connectfour/internal/services/game"
	"github.com/mcoot/connectfour/internal/storage"
)

// GameHandler handles game-related endpoints
type GameHandler struct {
	gameController *game.Controller
	botService     *bot.Service
	logger         *slog.Logger
}

// NewGameHandler creates a new game handler. botService may be nil, in
// which case bot seats are never moved.
func NewGameHandler(gameController *game.Controller, botService *bot.Service, logger *slog.Logger) *GameHandler {
	return &GameHandler{
		gameController: gameController,
		botService:     botService,
		logger:         logger.With(slog.String("component", "game-handler")),
	}
}

// Create handles POST /api/v1/games
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	red := model.Seat{DisplayName: req.Red.DisplayName, BotStrategy: req.Red.BotStrategy}
	yellow := model.Seat{DisplayName: req.Yellow.DisplayName, BotStrategy: req.Yellow.BotStrategy}
	g, err := h.gameController.CreateGame(r.Context(), red, yellow, req.Depth)
	if err != nil {
		WriteError(w, err)
		return
	}

	// red may be a bot
	g, actions, err := h.processBotActions(r.Context(), g)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.NewMoveResponse(g, actions))
}

// Get handles GET /api/v1/games/{id}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.GameID(mux.Vars(r)["id"])

	g, err := h.gameController.GetGame(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(g))
}

// List handles GET /api/v1/games?state=&limit=
func (h *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := storage.ListFilter{State: model.GameState(query.Get("state"))}
	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			WriteError(w, NewInvalidRequestError("limit must be a non-negative integer"))
			return
		}
		filter.Limit = limit
	}

	games, err := h.gameController.ListGames(r.Context(), filter)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameListFromModel(games))
}

// Move handles POST /api/v1/games/{id}/moves
func (h *GameHandler) Move(w http.ResponseWriter, r *http.Request) {
	id := model.GameID(mux.Vars(r)["id"])

	var req request.PlayMoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	var player model.Player
	if req.Player == "" {
		g, err := h.gameController.GetGame(r.Context(), id)
		if err != nil {
			WriteError(w, err)
			return
		}
		player = g.ToPlay()
	} else {
		p, err := model.ParsePlayer(req.Player)
		if err != nil {
			WriteError(w, err)
			return
		}
		player = p
	}

	g, err := h.gameController.PlayMove(r.Context(), id, player, req.Column)
	if err != nil {
		WriteError(w, err)
		return
	}

	g, actions, err := h.processBotActions(r.Context(), g)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.NewMoveResponse(g, actions))
}

// Abandon handles DELETE /api/v1/games/{id}
func (h *GameHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	id := model.GameID(mux.Vars(r)["id"])

	g, err := h.gameController.AbandonGame(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(g))
}

// processBotActions lets bot seats reply and returns the refreshed game
func (h *GameHandler) processBotActions(ctx context.Context, g *model.Game) (*model.Game, []bot.BotAction, error) {
	if h.botService == nil || g.IsComplete() {
		return g, nil, nil
	}

	actions, err := h.botService.ProcessBotActions(ctx, g.ID)
	if err != nil {
		h.logger.Error("bot actions failed", slog.String("game_id", string(g.ID)), slog.String("error", err.Error()))
		return nil, nil, err
	}
	if len(actions) == 0 {
		return g, nil, nil
	}

	g, err = h.gameController.GetGame(ctx, g.ID)
	if err != nil {
		return nil, nil, err
	}
	return g, actions, nil
}
