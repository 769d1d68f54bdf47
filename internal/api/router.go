package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/connectfour/internal/api/apierr"
	"github.com/mcoot/connectfour/internal/api/handler"
	"github.com/mcoot/connectfour/internal/api/response"
	"github.com/mcoot/connectfour/internal/middleware"
	"github.com/mcoot/connectfour/internal/services/bot"
	"github.com/mcoot/connectfour/internal/services/game"
	"github.com/mcoot/connectfour/internal/services/search"
	"github.com/mcoot/connectfour/internal/services/session"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	GameController *game.Controller
	BotService     *bot.Service
	Engine         *search.Engine
	// MatchServer enables /ws/play when set
	MatchServer *session.Server
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	gameHandler := handler.NewGameHandler(cfg.GameController, cfg.BotService, cfg.Logger)
	analysisHandler := handler.NewAnalysisHandler(cfg.Engine)

	recoveryMiddleware := middleware.Recovery(cfg.Logger, apiPanicHandler)
	loggingMiddleware := middleware.Logging(cfg.Logger)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	api.HandleFunc("/games", gameHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/games", gameHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/games/{id}", gameHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/games/{id}", gameHandler.Abandon).Methods(http.MethodDelete)
	api.HandleFunc("/games/{id}/moves", gameHandler.Move).Methods(http.MethodPost)

	api.HandleFunc("/analysis", analysisHandler.Analyze).Methods(http.MethodPost)

	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	if cfg.MatchServer != nil {
		ws := r.PathPrefix("/ws").Subrouter()
		ws.Use(middleware.Recovery(cfg.Logger, middleware.DefaultPanicHandler))
		ws.Use(loggingMiddleware)
		ws.HandleFunc("/play", cfg.MatchServer.HandleWebSocket).Methods(http.MethodGet)
	}

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.Health{Status: "ok"})
}

func apiPanicHandler(w http.ResponseWriter, _ *http.Request, _ any) {
	apierr.WriteError(w, apierr.NewInternalError())
}
