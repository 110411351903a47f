// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	// Server settings.
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Oracle store.
	DBPath string

	// Pipeline thresholds.
	MinConfidence  float64
	Cooldown       time.Duration
	VetoConfidence float64

	// Session routing.
	SessionTimeout time.Duration
	DefaultAgent   string

	// Short-term memory.
	MemoryLimit int

	// Terminal stream server. Empty address disables it.
	TerminalAddr string

	// Rate limiting. Zero rate disables it.
	RateLimitPerSec float64
	RateLimitBurst  int

	// OTEL settings.
	OTELEndpoint string
	ServiceName  string

	// Operational settings.
	LogLevel string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (Config, error) {
	cfg := Config{
		Port:            envInt("NEXUS_PORT", 8080),
		ReadTimeout:     envDuration("NEXUS_READ_TIMEOUT", 30*time.Second),
		WriteTimeout:    envDuration("NEXUS_WRITE_TIMEOUT", 30*time.Second),
		DBPath:          envStr("NEXUS_DB_PATH", "oracle.db"),
		MinConfidence:   envFloat("NEXUS_MIN_CONFIDENCE", 0.6),
		Cooldown:        envDuration("NEXUS_COOLDOWN", 5*time.Second),
		VetoConfidence:  envFloat("NEXUS_VETO_CONFIDENCE", 0.7),
		SessionTimeout:  envDuration("NEXUS_SESSION_TIMEOUT", 120*time.Second),
		DefaultAgent:    envStr("NEXUS_DEFAULT_AGENT", "lucia"),
		MemoryLimit:     envInt("NEXUS_MEMORY_LIMIT", 20),
		TerminalAddr:    envStr("NEXUS_TERMINAL_ADDR", "127.0.0.1:8765"),
		RateLimitPerSec: envFloat("NEXUS_RATE_LIMIT_PER_SEC", 5),
		RateLimitBurst:  envInt("NEXUS_RATE_LIMIT_BURST", 20),
		OTELEndpoint:    envStr("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		ServiceName:     envStr("OTEL_SERVICE_NAME", "nexus"),
		LogLevel:        envStr("NEXUS_LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the configuration is internally consistent.
func (c Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("config: NEXUS_DB_PATH is required")
	}
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		return fmt.Errorf("config: NEXUS_MIN_CONFIDENCE must be in [0, 1]")
	}
	if c.VetoConfidence < 0 || c.VetoConfidence > 1 {
		return fmt.Errorf("config: NEXUS_VETO_CONFIDENCE must be in [0, 1]")
	}
	if c.SessionTimeout <= 0 {
		return fmt.Errorf("config: NEXUS_SESSION_TIMEOUT must be positive")
	}
	if c.DefaultAgent == "" {
		return fmt.Errorf("config: NEXUS_DEFAULT_AGENT is required")
	}
	if c.MemoryLimit <= 0 {
		return fmt.Errorf("config: NEXUS_MEMORY_LIMIT must be positive")
	}
	return nil
}

// SlogLevel maps the configured level name to a slog.Level. Unknown
// names fall back to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
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

func envStr(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

func envFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
