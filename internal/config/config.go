package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

type Config struct {
	RiotAPIKey   string
	RiotPlatform string // league-v4 host, e.g. euw1
	RiotRegion   string // account-v1 / match-v5 host, e.g. europe
	DBPath       string
	ServerPort   string
	LogLevel     string

	PollEnabled  bool
	PollInterval time.Duration
	MatchQueueID int
	MatchCount   int

	RiotRatePerSecond int
	RiotRateBurst     int

	EnvFileLoaded bool
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	cfg := &Config{
		EnvFileLoaded: godotenv.Load() == nil,

		RiotAPIKey:   getEnv("RIOT_API_KEY", ""),
		RiotPlatform: getEnv("RIOT_PLATFORM", "euw1"),
		RiotRegion:   getEnv("RIOT_REGION", "europe"),
		DBPath:       getEnv("DB_PATH", "ladder.db"),
		ServerPort:   getEnv("SERVER_PORT", "8080"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),

		PollEnabled:  getEnvBool("POLL_ENABLED", true),
		PollInterval: getEnvDuration("POLL_INTERVAL", 2*time.Minute),
		MatchQueueID: getEnvInt("MATCH_QUEUE_ID", 420),
		MatchCount:   getEnvInt("MATCH_COUNT", 20),

		RiotRatePerSecond: getEnvInt("RIOT_RATE_PER_SECOND", 20),
		RiotRateBurst:     getEnvInt("RIOT_RATE_BURST", 20),
	}

	if cfg.RiotAPIKey == "" {
		return nil, fmt.Errorf("RIOT_API_KEY is required")
	}
	if cfg.PollInterval <= 0 {
		return nil, fmt.Errorf("POLL_INTERVAL must be positive, got %s", cfg.PollInterval)
	}
	if cfg.RiotRatePerSecond <= 0 || cfg.RiotRateBurst <= 0 {
		return nil, fmt.Errorf("RIOT_RATE_PER_SECOND and RIOT_RATE_BURST must be positive")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

var Module = fx.Provide(Load)
