package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	// Frame.io asset store
	FrameioAPIKey       string
	FrameioAPIBaseURL   string
	FrameioAccountID    string
	FrameioWebhookToken string

	// Public share links are recognized by this domain marker; anything
	// else is treated as stale or private.
	PublicShareDomain string

	// Supabase (auth + realtime)
	SupabaseURL            string
	SupabasePublishableKey string
	SupabaseJWTSecret      string

	// Transactional mail
	MailAPIKey             string
	MailAPIBaseURL         string
	MailFromAddress        string
	MailDeliveryTemplateID string

	// Trello board automation
	TrelloAPIKey         string
	TrelloAPIToken       string
	TrelloAPIBaseURL     string
	TrelloApprovalListID string

	// Database
	DatabaseURL string

	// Delivery scanner
	ScanIntervalSeconds int

	// Server
	Port        string
	Environment string
	BaseURL     string
}

func Load() (*Config, error) {
	cfg := &Config{
		FrameioAPIKey:       getEnv("FRAMEIO_API_KEY", ""),
		FrameioAPIBaseURL:   getEnv("FRAMEIO_API_BASE_URL", "https://api.frame.io/v2/"),
		FrameioAccountID:    getEnv("FRAMEIO_ACCOUNT_ID", ""),
		FrameioWebhookToken: getEnv("FRAMEIO_WEBHOOK_TOKEN", ""),

		PublicShareDomain: getEnv("PUBLIC_SHARE_DOMAIN", "f.io"),

		SupabaseURL:            getEnv("SUPABASE_URL", ""),
		SupabasePublishableKey: getEnv("SUPABASE_PUBLISHABLE_KEY", ""),
		SupabaseJWTSecret:      getEnv("SUPABASE_JWT_SECRET", ""),

		MailAPIKey:             getEnv("MAIL_API_KEY", ""),
		MailAPIBaseURL:         getEnv("MAIL_API_BASE_URL", "https://api.sendgrid.com/v3/"),
		MailFromAddress:        getEnv("MAIL_FROM_ADDRESS", "delivery@mementiq.com"),
		MailDeliveryTemplateID: getEnv("MAIL_DELIVERY_TEMPLATE_ID", ""),

		TrelloAPIKey:         getEnv("TRELLO_API_KEY", ""),
		TrelloAPIToken:       getEnv("TRELLO_API_TOKEN", ""),
		TrelloAPIBaseURL:     getEnv("TRELLO_API_BASE_URL", "https://api.trello.com/1/"),
		TrelloApprovalListID: getEnv("TRELLO_APPROVAL_LIST_ID", ""),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		ScanIntervalSeconds: getEnvInt("SCAN_INTERVAL_SECONDS", 300),

		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:8080"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.FrameioAPIKey == "" {
		return fmt.Errorf("FRAMEIO_API_KEY is required")
	}
	if c.FrameioAccountID == "" {
		return fmt.Errorf("FRAMEIO_ACCOUNT_ID is required")
	}
	if c.SupabaseURL == "" {
		return fmt.Errorf("SUPABASE_URL is required")
	}
	if c.SupabasePublishableKey == "" {
		return fmt.Errorf("SUPABASE_PUBLISHABLE_KEY is required")
	}
	if c.SupabaseJWTSecret == "" {
		return fmt.Errorf("SUPABASE_JWT_SECRET is required")
	}
	if c.ScanIntervalSeconds <= 0 {
		return fmt.Errorf("SCAN_INTERVAL_SECONDS must be positive")
	}
	return nil
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
