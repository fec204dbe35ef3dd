package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Telegram
	TelegramBotToken string
	WebhookURL       string
	ListenAddr       string

	// Cloudflare
	CloudflareAPIToken string
	CloudflareAPIKey   string
	CloudflareEmail    string

	// UI
	PageSize int

	// Logging
	LogEnabled bool
	LogLevel   string
	LogFile    string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	cfg := &Config{
		TelegramBotToken:   getEnv("TELEGRAM_BOT_TOKEN", ""),
		WebhookURL:         getEnv("TELEGRAM_WEBHOOK_URL", ""),
		ListenAddr:         getEnv("LISTEN_ADDR", ":8080"),
		CloudflareAPIToken: getEnv("CLOUDFLARE_API_TOKEN", ""),
		CloudflareAPIKey:   getEnv("CLOUDFLARE_API_KEY", ""),
		CloudflareEmail:    getEnv("CLOUDFLARE_EMAIL", ""),
		PageSize:           getEnvInt("PAGE_SIZE", 10),
		LogEnabled:         getEnvBool("LOG_ENABLED", false),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFile:            getEnv("LOG_FILE", ""),
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration shared by every binary
func (c *Config) Validate() error {
	if c.CloudflareAPIToken == "" {
		if c.CloudflareAPIKey == "" || c.CloudflareEmail == "" {
			return fmt.Errorf("either CLOUDFLARE_API_TOKEN or both CLOUDFLARE_API_KEY and CLOUDFLARE_EMAIL are required")
		}
	}

	if c.PageSize < 1 {
		return fmt.Errorf("PAGE_SIZE must be at least 1")
	}

	return nil
}

// ValidateBot validates the extra settings the Telegram bot binary needs
func (c *Config) ValidateBot() error {
	if c.TelegramBotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	if c.WebhookURL == "" {
		return fmt.Errorf("TELEGRAM_WEBHOOK_URL is required")
	}

	if !strings.HasPrefix(c.WebhookURL, "https://") {
		return fmt.Errorf("TELEGRAM_WEBHOOK_URL must be an https URL")
	}

	return nil
}

// UseAPIToken returns true if API token should be used
func (c *Config) UseAPIToken() bool {
	return c.CloudflareAPIToken != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
