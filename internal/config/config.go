package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	DBPath           string
	ListenAddr       string
	AuthUser         string
	AuthPass         string
	AuthFile         string
	DBBusyTimeout    time.Duration
	DBLockTimeout    time.Duration
	RecentEntriesMax int
}

func Load() Config {
	initEnvFile()

	cfg := Config{
		DBPath:     envOr("DAYBOOK_DB_PATH", "daybook.db"),
		ListenAddr: envOr("DAYBOOK_LISTEN_ADDR", "127.0.0.1:8080"),
		AuthUser:   os.Getenv("DAYBOOK_AUTH_USER"),
		AuthPass:   os.Getenv("DAYBOOK_AUTH_PASS"),
		AuthFile:   os.Getenv("DAYBOOK_AUTH_FILE"),
	}
	cfg.DBBusyTimeout = parseDurationOr("DAYBOOK_DB_BUSY_TIMEOUT", 5*time.Second)
	cfg.DBLockTimeout = parseDurationOr("DAYBOOK_DB_LOCK_TIMEOUT", 2*time.Second)
	cfg.RecentEntriesMax = parseIntOr("DAYBOOK_RECENT_ENTRIES", 7)
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func parseIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i > 0 {
			return i
		}
	}
	return fallback
}
