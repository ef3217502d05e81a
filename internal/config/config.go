package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the application configuration
type Config struct {
	BotToken    string
	BotUsername string // public handle without the leading @, used for deep links
	AdminUserID int64

	// Bot mode configuration
	WebhookMode bool   // If true, use webhook mode; if false, use polling mode
	WebhookURL  string // URL for webhook (required if WebhookMode is true)
	Port        string

	// Storage configuration
	DatabasePath string
	UseMockDB    bool

	// Ad configuration
	AllowedURLPrefixes []string
	TrackClicks        bool
	WizardSessionTTL   time.Duration // 0 keeps idle sessions forever

	LogLevel string
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	config := &Config{}

	// Bot token (required)
	config.BotToken = os.Getenv("BOT_TOKEN")
	if config.BotToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN is required")
	}

	// Bot username (required)
	config.BotUsername = strings.TrimPrefix(strings.TrimSpace(os.Getenv("BOT_USERNAME")), "@")
	if config.BotUsername == "" {
		return nil, fmt.Errorf("BOT_USERNAME is required")
	}

	// Administrator (required)
	adminStr := strings.TrimSpace(os.Getenv("ADMIN_USER_ID"))
	if adminStr == "" {
		return nil, fmt.Errorf("ADMIN_USER_ID is required (Telegram user ID of the administrator)")
	}
	adminID, err := strconv.ParseInt(adminStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid ADMIN_USER_ID: %s", adminStr)
	}
	config.AdminUserID = adminID

	// Bot mode configuration
	config.WebhookMode = os.Getenv("WEBHOOK_MODE") == "true"
	if config.WebhookMode {
		config.WebhookURL = os.Getenv("WEBHOOK_URL")
		if config.WebhookURL == "" {
			return nil, fmt.Errorf("WEBHOOK_URL is required when WEBHOOK_MODE is true")
		}
	}

	config.Port = getEnv("PORT", "8080")

	// Use Mock DB (default: false)
	config.UseMockDB = os.Getenv("USE_MOCK_DB") == "true"
	config.DatabasePath = getEnv("DATABASE_PATH", "bot.db")

	if prefixes := os.Getenv("ALLOWED_URL_PREFIXES"); prefixes != "" {
		for _, p := range strings.Split(prefixes, ",") {
			if p = strings.TrimSpace(p); p != "" {
				config.AllowedURLPrefixes = append(config.AllowedURLPrefixes, p)
			}
		}
	}

	config.TrackClicks = os.Getenv("TRACK_CLICKS") == "true"

	if ttlStr := os.Getenv("WIZARD_SESSION_TTL"); ttlStr != "" {
		ttl, err := time.ParseDuration(ttlStr)
		if err != nil {
			return nil, fmt.Errorf("invalid WIZARD_SESSION_TTL: %w", err)
		}
		if ttl < 0 {
			return nil, fmt.Errorf("WIZARD_SESSION_TTL must not be negative")
		}
		config.WizardSessionTTL = ttl
	}

	config.LogLevel = getEnv("LOG_LEVEL", "info")

	return config, nil
}

// getEnv retrieves environment variable or returns default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
