package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds client configuration loaded from environment variables.
type Config struct {
	ServerURL      string
	ReconnectDelay time.Duration
	FPS            int
	WindowWidth    int
	WindowHeight   int
	HUDHeight      int
	InboxSize      int
	DebugAddr      string // empty disables the debug HTTP API
	GRPCAddr       string // empty disables the gRPC health service
	RecordPath     string // empty disables recording of inbound frames
}

func Default() Config {
	return Config{
		ServerURL:      "ws://localhost:8080/ws",
		ReconnectDelay: 1500 * time.Millisecond,
		FPS:            60,
		WindowWidth:    1024,
		WindowHeight:   720,
		HUDHeight:      140,
		InboxSize:      256,
	}
}

// LoadDotEnv loads environment variables from a .env file if present.
// Existing environment variables are not overwritten.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

func Load() Config {
	cfg := Default()
	cfg.ServerURL = getEnv("SERVER_URL", cfg.ServerURL)
	cfg.ReconnectDelay = parseDuration(getEnv("RECONNECT_DELAY", ""), cfg.ReconnectDelay)
	cfg.FPS = parsePositive(getEnv("FPS", ""), cfg.FPS)
	cfg.WindowWidth = parsePositive(getEnv("WINDOW_WIDTH", ""), cfg.WindowWidth)
	cfg.WindowHeight = parsePositive(getEnv("WINDOW_HEIGHT", ""), cfg.WindowHeight)
	cfg.HUDHeight = parsePositive(getEnv("HUD_HEIGHT", ""), cfg.HUDHeight)
	cfg.InboxSize = parsePositive(getEnv("INBOX_SIZE", ""), cfg.InboxSize)
	cfg.DebugAddr = getEnv("DEBUG_ADDR", cfg.DebugAddr)
	cfg.GRPCAddr = getEnv("GRPC_ADDR", cfg.GRPCAddr)
	cfg.RecordPath = getEnv("RECORD_PATH", cfg.RecordPath)
	if cfg.ReconnectDelay <= 0 {
		log.Println("[WARN] RECONNECT_DELAY must be positive; using default")
		cfg.ReconnectDelay = Default().ReconnectDelay
	}
	return cfg
}

// ViewportHeight is the drawable height once the HUD band is reserved.
func (c Config) ViewportHeight(windowHeight int) int {
	h := windowHeight - c.HUDHeight
	if h < MIN_VIEWPORT_H {
		h = MIN_VIEWPORT_H
	}
	return h
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

func parsePositive(raw string, def int) int {
	if raw == "" {
		return def
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return def
	}
	return value
}
