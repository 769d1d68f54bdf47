package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mcoot/connectfour/internal/api"
	"github.com/mcoot/connectfour/internal/factory"
	"github.com/mcoot/connectfour/internal/services/session"
	redisstorage "github.com/mcoot/connectfour/internal/storage/redis"
)

func main() {
	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Build factory config from environment
	cfg := factory.Config{
		Logger:      logger,
		StorageType: os.Getenv("STORAGE_TYPE"),
		Depth:       getEnvInt(logger, "CONNECTFOUR_DEPTH", 0),
		ReplayDir:   os.Getenv("CONNECTFOUR_REPLAY_DIR"),
		Session:     session.DefaultConfig(),
	}
	if timeout := os.Getenv("CONNECTFOUR_TURN_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			logger.Error("invalid CONNECTFOUR_TURN_TIMEOUT", slog.String("error", err.Error()))
			os.Exit(1)
		}
		cfg.Session.TurnTimeout = d
	}

	// Configure Redis if storage type is redis
	if cfg.StorageType == factory.StorageTypeRedis {
		redisURL := os.Getenv("REDIS_URL")
		if redisURL == "" {
			logger.Error("REDIS_URL required when STORAGE_TYPE=redis")
			os.Exit(1)
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = redisURL
		cfg.RedisConfig = &redisCfg
	}

	app, err := factory.New(cfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = app.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	matchCfg := session.DefaultServerConfig()
	if addr := os.Getenv("CONNECTFOUR_TCP_ADDR"); addr != "" {
		matchCfg.Addr = addr
	}
	matchServer := app.NewMatchServer(ctx, matchCfg)

	serverConfig := api.DefaultServerConfig()
	serverConfig.Port = getEnvInt(logger, "CONNECTFOUR_HTTP_PORT", serverConfig.Port)
	httpServer := api.NewServer(app.Router(matchServer), serverConfig, logger)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return httpServer.ListenAndRun(ctx) })
	g.Go(func() error { return matchServer.ListenAndServe(ctx) })

	logger.Info("server started",
		slog.String("http_addr", httpServer.Addr()),
		slog.String("tcp_addr", matchCfg.Addr),
	)

	if err := g.Wait(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("server stopped")
}

func getEnvInt(logger *slog.Logger, key string, defaultVal int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		logger.Error("invalid integer in environment", slog.String("key", key), slog.String("value", raw))
		os.Exit(1)
	}
	return val
}
