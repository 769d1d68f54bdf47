package factory

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/mcoot/connectfour/internal/api"
	"github.com/mcoot/connectfour/internal/dependencies/clock"
	"github.com/mcoot/connectfour/internal/dependencies/random"
	"github.com/mcoot/connectfour/internal/model"
	"github.com/mcoot/connectfour/internal/replay"
	"github.com/mcoot/connectfour/internal/services/bot"
	"github.com/mcoot/connectfour/internal/services/game"
	"github.com/mcoot/connectfour/internal/services/search"
	"github.com/mcoot/connectfour/internal/services/session"
	"github.com/mcoot/connectfour/internal/storage"
	"github.com/mcoot/connectfour/internal/storage/memory"
	redisstorage "github.com/mcoot/connectfour/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	Engine         *search.Engine
	Strategies     map[string]bot.Strategy
	GameController *game.Controller
	BotService     *bot.Service
	Matchmaker     *session.Matchmaker

	// Recorder stores games finished by remote sessions
	Recorder session.Recorder

	Logger *slog.Logger
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// Depth is the search depth of the minimax strategy when a game does
	// not choose one. Zero selects game.DefaultDepth.
	Depth int
	// ReplayDir receives a text recap of every session game when set
	ReplayDir string
	// Session holds the session rules; the zero value selects session.DefaultConfig()
	Session session.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	depth, err := game.ResolveDepth(cfg.Depth)
	if err != nil {
		return nil, err
	}

	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	sessionCfg := cfg.Session
	if sessionCfg == (session.Config{}) {
		sessionCfg = session.DefaultConfig()
	}

	return newWithDependencies(store, clock.New(), random.New(), depth, cfg.ReplayDir, sessionCfg, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	depth int,
	replayDir string,
	sessionCfg session.Config,
	logger *slog.Logger,
) *App {
	engine := search.NewEngine(clk, logger)
	strategies := map[string]bot.Strategy{
		model.BotStrategyRandom:  bot.NewRandomStrategy(rnd),
		model.BotStrategyMinimax: bot.NewMinimaxStrategy(engine, depth),
	}
	gameController := game.NewController(store, clk, rnd, logger)
	botService := bot.NewService(gameController, strategies, logger)

	var recaps *replay.RecapWriter
	if replayDir != "" {
		recaps = replay.NewRecapWriter(replayDir, logger)
	}
	// the stored copy carries the generated ID the recap is named after
	recorder := session.RecorderFunc(func(ctx context.Context, g *model.Game) error {
		recorded, err := gameController.RecordFinished(ctx, g)
		if err != nil {
			return err
		}
		if recaps == nil {
			return nil
		}
		return recaps.Record(ctx, recorded)
	})

	return &App{
		Storage:        store,
		Clock:          clk,
		Random:         rnd,
		Engine:         engine,
		Strategies:     strategies,
		GameController: gameController,
		BotService:     botService,
		Matchmaker:     session.NewMatchmaker(sessionCfg, recorder, clk, logger),
		Recorder:       recorder,
		Logger:         logger,
	}
}

// NewMatchServer creates a match server feeding the app's matchmaker.
// Websocket sessions started through it end when ctx is cancelled.
func (a *App) NewMatchServer(ctx context.Context, cfg session.ServerConfig) *session.Server {
	return session.NewServer(ctx, cfg, a.Matchmaker, a.Logger)
}

// Router builds the HTTP API. matchServer may be nil to leave out /ws/play.
func (a *App) Router(matchServer *session.Server) http.Handler {
	return api.NewRouter(api.RouterConfig{
		Logger:         a.Logger,
		GameController: a.GameController,
		BotService:     a.BotService,
		Engine:         a.Engine,
		MatchServer:    matchServer,
	})
}

// Close releases storage connections
func (a *App) Close() error {
	if c, ok := a.Storage.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
