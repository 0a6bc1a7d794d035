package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const devJWTSecret = "dev-secret-change-in-production"

type Config struct {
	Port        string
	Env         string
	LogLevel    slog.Level
	DatabaseDSN string
	JWTSecret   string
	JWTExpiry   time.Duration

	OracleProvider    string
	OracleModel       string
	OracleTemperature float64
	OracleAPIKey      string
	OracleBaseURL     string
	AgentMaxSteps     int

	PasswordLength  int
	PasswordSpecial bool
}

func Load() Config {
	cfg := Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		LogLevel:    getLevel("LOG_LEVEL", slog.LevelInfo),
		DatabaseDSN: getEnv("DATABASE_DSN", "root:password@tcp(127.0.0.1:3306)/passagent?parseTime=true"),
		JWTSecret:   getEnv("JWT_SECRET", devJWTSecret),
		JWTExpiry:   getDuration("JWT_EXPIRY", 24*time.Hour),

		OracleProvider:    strings.ToLower(getEnv("ORACLE_PROVIDER", "")),
		OracleModel:       getEnv("ORACLE_MODEL", ""),
		OracleTemperature: getFloat("ORACLE_TEMPERATURE", 0),
		OracleBaseURL:     getEnv("ORACLE_BASE_URL", ""),
		AgentMaxSteps:     getInt("AGENT_MAX_STEPS", 5),

		PasswordLength:  getInt("PASSWORD_LENGTH", 12),
		PasswordSpecial: getBool("PASSWORD_SPECIAL", true),
	}

	switch cfg.OracleProvider {
	case "openai":
		cfg.OracleAPIKey = os.Getenv("OPENAI_API_KEY")
	case "anthropic":
		cfg.OracleAPIKey = os.Getenv("ANTHROPIC_API_KEY")
	}

	if cfg.Env == "production" && cfg.JWTSecret == devJWTSecret {
		slog.Error("JWT_SECRET must be set in production environment")
		os.Exit(1)
	}

	return cfg
}

// AgentEnabled reports whether an oracle provider and its key are configured.
func (c Config) AgentEnabled() bool {
	return c.OracleProvider != "" && c.OracleAPIKey != ""
}

// Logger builds the process logger: text in development, JSON otherwise.
func (c Config) Logger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.Env == "development" {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("invalid integer in environment, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return n
}

func getFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		slog.Warn("invalid number in environment, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return f
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid boolean in environment, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return b
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("invalid duration in environment, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return d
}

func getLevel(key string, fallback slog.Level) slog.Level {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(v)); err != nil {
		slog.Warn("invalid log level in environment, using default", "key", key, "value", v)
		return fallback
	}
	return lvl
}
