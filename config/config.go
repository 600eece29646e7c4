package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Config holds all application configuration
type Config struct {
	// HTTP server configuration
	HTTPAddr       string
	AllowedOrigins []string

	// Database configuration
	DatabaseURL string

	// Redis configuration (TMDB response cache, leaderboard cache)
	RedisAddr     string
	RedisPassword string

	// TMDB configuration
	TMDBAPIKey  string
	TMDBBaseURL string

	// Auth configuration: shared secret the hosted auth provider signs
	// access tokens with (HS256)
	JWTSecret string

	// Points engine configuration
	PreHoldPoints int64 // credited on hold when a pre-rating lands
	ReleasePoints int64 // credited available on release

	// Leaderboard configuration
	LeaderboardLimit int

	// Default region for watch provider lookups
	ProviderRegion string

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		HTTPAddr:    os.Getenv("HTTP_ADDR"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		TMDBAPIKey:  os.Getenv("TMDB_API_KEY"),
		TMDBBaseURL: os.Getenv("TMDB_BASE_URL"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		// Points rule defaults: +5 on hold for a pre-rating, +10 available
		// on completing the pair
		PreHoldPoints: 5,
		ReleasePoints: 10,

		LeaderboardLimit: 50,
		ProviderRegion:   "BE",

		Environment: os.Getenv("ENVIRONMENT"),
	}

	if config.HTTPAddr == "" {
		config.HTTPAddr = ":8080"
	}
	if config.TMDBBaseURL == "" {
		config.TMDBBaseURL = "https://api.themoviedb.org/3"
	}
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		config.AllowedOrigins = splitAndTrim(origins)
	}

	// Override defaults if environment variables are set
	if v := os.Getenv("PRE_HOLD_POINTS"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.PreHoldPoints = parsed
		}
	}
	if v := os.Getenv("RELEASE_POINTS"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.ReleasePoints = parsed
		}
	}
	if v := os.Getenv("LEADERBOARD_LIMIT"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			config.LeaderboardLimit = parsed
		}
	}
	if v := os.Getenv("PROVIDER_REGION"); v != "" {
		config.ProviderRegion = v
	}

	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		if config.JWTSecret == "" {
			return nil, fmt.Errorf("JWT_SECRET is required")
		}
		if config.TMDBAPIKey == "" {
			return nil, fmt.Errorf("TMDB_API_KEY is required")
		}
	}

	return config, nil
}

func splitAndTrim(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
