package config

import (
	"os"
	"time"
)

type Config struct {
	Addr            string
	DBPath          string
	PrimarySecret   string
	ShutdownTimeout time.Duration
}

func Load() Config {
	addr := envString("ALARKHABIL_ADDR", "")
	if addr == "" {
		if port := os.Getenv("PORT"); port != "" {
			addr = ":" + port
		} else {
			addr = ":8080"
		}
	}
	return Config{
		Addr:            addr,
		DBPath:          envString("ALARKHABIL_DB", "alarkhabil.db"),
		PrimarySecret:   envString("ALARKHABIL_PRIMARY_SECRET", ""),
		ShutdownTimeout: envDuration("ALARKHABIL_SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
