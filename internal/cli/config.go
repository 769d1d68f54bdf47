package cli

import (
	"os"
	"strconv"
)

// Config holds CLI configuration
type Config struct {
	ServerURL string
	MatchAddr string
	Output    string
	Depth     int
	Verbose   bool
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL: getEnvOrDefault("CONNECTFOUR_SERVER", "http://localhost:8080"),
		MatchAddr: getEnvOrDefault("CONNECTFOUR_MATCH_ADDR", "127.0.0.1:50001"),
		Output:    "text",
		Depth:     getEnvIntOrDefault("CONNECTFOUR_DEPTH", 8),
		Verbose:   false,
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvIntOrDefault(key string, defaultVal int) int {
	if val, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return val
	}
	return defaultVal
}
