// Package config loads application configuration from a .env file and
// environment variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Port      string
	DBPath    string
	UploadDir string

	JWT  JWTConfig
	SMTP SMTPConfig

	// BootstrapAdminPassword seeds the default admin when the store is empty.
	BootstrapAdminPassword string

	// ReminderSchedule is a cron expression for the outstanding-balance
	// digest. Empty disables the scheduler.
	ReminderSchedule string
}

// JWTConfig holds token signing configuration.
type JWTConfig struct {
	Secret        string
	TokenDuration time.Duration
}

// SMTPConfig holds outbound mail configuration. An empty Host disables
// sending; notifications are then logged instead.
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// Load reads configuration from a .env file and environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, using environment variables only")
	}

	tokenDuration, err := time.ParseDuration(getEnv("JWT_TOKEN_DURATION", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_TOKEN_DURATION: %w", err)
	}

	cfg := &Config{
		Port:      getEnv("PORT", "8080"),
		DBPath:    getEnv("DB_PATH", "./data/roomledger.db"),
		UploadDir: getEnv("UPLOAD_DIR", "./uploads"),
		JWT: JWTConfig{
			Secret:        getEnv("JWT_SECRET", ""),
			TokenDuration: tokenDuration,
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnv("SMTP_PORT", "587"),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", "Roomledger <noreply@roomledger.local>"),
		},
		BootstrapAdminPassword: getEnv("BOOTSTRAP_ADMIN_PASSWORD", "admin123"),
		ReminderSchedule:       getEnv("REMINDER_SCHEDULE", ""),
	}

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
