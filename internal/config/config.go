package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds runtime configuration sourced from env vars, read once at start.
type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string
	JWTIssuer   string
	JWTTTL      time.Duration
	CORSOrigins []string

	// Demo account: a fixed credential pair recognized before any store
	// lookup. Both must be set for demo login to be available.
	DemoEmail    string
	DemoPassword string

	ChatAPIURL string
	ChatAPIKey string
	ChatModel  string

	// ExportMaxRows is the hard ceiling on rows fetched for export/stats.
	ExportMaxRows int
}

// Load reads configuration from the environment and performs minimal validation.
func Load() (Config, error) {
	cfg := Config{
		Port:         fallback(os.Getenv("PORT"), "8080"),
		DatabaseURL:  strings.TrimSpace(os.Getenv("DATABASE_URL")),
		JWTSecret:    strings.TrimSpace(os.Getenv("JWT_SECRET")),
		JWTIssuer:    fallback(os.Getenv("JWT_ISSUER"), "insight-backend"),
		CORSOrigins:  parseCSV(fallback(os.Getenv("CORS_ALLOWED_ORIGINS"), "*")),
		DemoEmail:    strings.ToLower(strings.TrimSpace(os.Getenv("DEMO_EMAIL"))),
		DemoPassword: os.Getenv("DEMO_PASSWORD"),
		ChatAPIURL:   fallback(os.Getenv("CHAT_API_URL"), "https://api.openai.com/v1/chat/completions"),
		ChatAPIKey:   strings.TrimSpace(os.Getenv("CHAT_API_KEY")),
		ChatModel:    fallback(os.Getenv("CHAT_MODEL"), "gpt-4o-mini"),
	}

	minutes := fallback(os.Getenv("JWT_TTL_MINUTES"), "60")
	if ttlMinutes, err := strconv.Atoi(minutes); err == nil && ttlMinutes > 0 {
		cfg.JWTTTL = time.Duration(ttlMinutes) * time.Minute
	} else {
		cfg.JWTTTL = 60 * time.Minute
	}

	maxRows := fallback(os.Getenv("EXPORT_MAX_ROWS"), "10000")
	if n, err := strconv.Atoi(maxRows); err == nil && n > 0 {
		cfg.ExportMaxRows = n
	} else {
		cfg.ExportMaxRows = 10000
	}

	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}

	return cfg, nil
}

// DemoEnabled reports whether the fixed demo credential pair is configured.
func (c Config) DemoEnabled() bool {
	return c.DemoEmail != "" && c.DemoPassword != ""
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func parseCSV(input string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
