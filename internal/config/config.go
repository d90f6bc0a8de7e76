package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	DefaultBackendURL = "http://localhost:8000"
	DefaultPort       = "8080"
	DefaultPlayerCmd  = "ffplay -nodisp -autoexit -loglevel quiet"
	DefaultRateLimit  = 30
	DefaultTUILogFile = "dubber-tui.log"
)

type Config struct {
	BackendURL         string
	Port               string
	PlayerCmd          string
	RateLimitPerMinute int
	LogLevel           zapcore.Level
	TUILogFile         string
}

// Load reads .env (if any) and then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

func FromEnv() (*Config, error) {
	cfg := &Config{
		BackendURL:         DefaultBackendURL,
		Port:               DefaultPort,
		PlayerCmd:          DefaultPlayerCmd,
		RateLimitPerMinute: DefaultRateLimit,
		LogLevel:           zap.InfoLevel,
		TUILogFile:         DefaultTUILogFile,
	}

	// VITE_BACKEND_URL — старое имя из фронта, оставляем как запасное
	if v := firstEnv("BACKEND_URL", "VITE_BACKEND_URL"); v != "" {
		cfg.BackendURL = v
	}
	cfg.BackendURL = strings.TrimRight(cfg.BackendURL, "/")

	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("PLAYER_CMD"); v != "" {
		cfg.PlayerCmd = v
	}

	if v := os.Getenv("TUI_LOG_FILE"); v != "" {
		cfg.TUILogFile = v
	}

	if v := os.Getenv("RATE_LIMIT_PER_MINUTE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid RATE_LIMIT_PER_MINUTE %q", v)
		}
		cfg.RateLimitPerMinute = n
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		lvl, err := zapcore.ParseLevel(v)
		if err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
		}
		cfg.LogLevel = lvl
	}

	return cfg, nil
}

// NewZap builds the production zap logger at the configured level.
// Without paths it writes to stderr.
func (c *Config) NewZap(paths ...string) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(c.LogLevel)
	if len(paths) > 0 {
		zc.OutputPaths = paths
		zc.ErrorOutputPaths = paths
	}
	return zc.Build()
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}
