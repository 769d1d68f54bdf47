package redis

import "time"

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// GameTTL applies to games still being played
	GameTTL time.Duration
	// FinishedGameTTL applies once a game is decided or abandoned; zero keeps it forever
	FinishedGameTTL time.Duration
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:             "redis://localhost:6379",
		PoolSize:        10,
		MinIdleConns:    2,
		GameTTL:         24 * time.Hour,
		FinishedGameTTL: 30 * 24 * time.Hour,
	}
}
