package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv           string
	Port             string
	DatabaseURL      string
	JWTSecret        string
	GeoIPDBPath      string
	GoogleClientID   string
	GoogleIssuer     string
	DIDAPIKey        string
	DIDBaseURL       string
	DIDSubmitTimeout time.Duration
	OpenAIAPIKey     string
	OpenAIModel      string
	OpenAIBaseURL    string
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	RateLimitPerMin  int
	AllowedOrigins   []string
}

// PollConfig is the client-side poll schedule. It lives apart from Config
// so the watch command can load it without the server's required keys.
type PollConfig struct {
	SeedInterval   time.Duration
	CapInterval    time.Duration
	RateLimitDelay time.Duration
}

// LoadPollConfig reads the poll schedule from the environment.
func LoadPollConfig() PollConfig {
	return PollConfig{
		SeedInterval:   time.Millisecond * time.Duration(getEnvInt("POLL_SEED_INTERVAL_MS", 5000)),
		CapInterval:    time.Millisecond * time.Duration(getEnvInt("POLL_CAP_INTERVAL_MS", 120000)),
		RateLimitDelay: time.Millisecond * time.Duration(getEnvInt("POLL_RATE_LIMIT_DELAY_MS", 60000)),
	}
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:           getEnv("APP_ENV", "development"),
		Port:             getEnv("PORT", "8080"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		GeoIPDBPath:      os.Getenv("GEOIP_DB_PATH"),
		GoogleClientID:   os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleIssuer:     getEnv("GOOGLE_ISSUER", "https://accounts.google.com"),
		DIDAPIKey:        os.Getenv("DID_API_KEY"),
		DIDBaseURL:       getEnv("DID_BASE_URL", "https://api.d-id.com"),
		DIDSubmitTimeout: time.Second * time.Duration(getEnvInt("DID_SUBMIT_TIMEOUT_SECONDS", 25)),
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:      getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL:    getEnv("OPENAI_BASE_URL", ""),
		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
		AllowedOrigins:   splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	if cfg.DIDAPIKey == "" {
		return nil, fmt.Errorf("DID_API_KEY is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
