package config

import (
	"log/slog"
	"os"
	"strings"
)

// Server captures process level configuration.
type Server struct {
	Addr        string
	DatabaseURL string
	LogLevel    slog.Level
}

// FromEnv builds a Server config from environment variables so main stays lean.
// An empty DATABASE_URL selects the in-memory stores, which is the intended
// mode for local development and tests.
func FromEnv() Server {
	addr := os.Getenv("CHRONOPLAN_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	return Server{
		Addr:        addr,
		DatabaseURL: os.Getenv("DATABASE_URL"),
		LogLevel:    parseLevel(os.Getenv("LOG_LEVEL")),
	}
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
