package api

import (
	"os"
	"strings"
	"time"
)

// Config holds debug API configuration loaded from environment variables.
type Config struct {
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	AllowedOrigins []string
}

func LoadConfig() Config {
	return Config{
		ReadTimeout:    parseDuration(getEnv("API_READ_TIMEOUT", "15s"), 15*time.Second),
		WriteTimeout:   parseDuration(getEnv("API_WRITE_TIMEOUT", "15s"), 15*time.Second),
		AllowedOrigins: splitList(getEnv("API_ALLOWED_ORIGINS", "*")),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
