package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the service.
type AppConfig struct {
	Port            string
	DatabaseURL     string
	JWTSecret       string
	CookieDomain    string
	LogLevel        string
	Environment     string
	RefreshInterval time.Duration // auto-refresh period of the board snapshot
	SeedAdminUser   string
	SeedAdminPass   string
	AllowedOrigins  []string
}

var defaultOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
}

// Load reads configuration from environment variables and a .env file when
// present. godotenv never overrides variables already set in the
// environment.
func Load() (*AppConfig, error) {
	_ = godotenv.Load()

	cfg := &AppConfig{}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}

	// Optional; an empty domain scopes the session cookie to the host.
	cfg.CookieDomain = os.Getenv("DOMAIN")

	cfg.Port = os.Getenv("PORT")
	if cfg.Port == "" {
		cfg.Port = "3000"
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	cfg.RefreshInterval = 30 * time.Second
	if raw := os.Getenv("BOARD_REFRESH_INTERVAL"); raw != "" {
		interval, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid BOARD_REFRESH_INTERVAL: %w", err)
		}
		if interval <= 0 {
			return nil, fmt.Errorf("BOARD_REFRESH_INTERVAL must be positive")
		}
		cfg.RefreshInterval = interval
	}

	cfg.SeedAdminUser = os.Getenv("SEED_ADMIN_USERNAME")
	cfg.SeedAdminPass = os.Getenv("SEED_ADMIN_PASSWORD")

	cfg.AllowedOrigins = append(cfg.AllowedOrigins, defaultOrigins...)
	if clientURL := os.Getenv("CLIENT_URL"); clientURL != "" {
		cfg.AllowedOrigins = append(cfg.AllowedOrigins, clientURL)
	}
	if raw := os.Getenv("ALLOWED_ORIGINS"); raw != "" {
		for _, origin := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(origin); trimmed != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
			}
		}
	}

	return cfg, nil
}
