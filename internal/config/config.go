package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/myloggi/internal/apipaths"
	"github.com/myloggi/internal/constants"
)

// Config holds the application configuration
type Config struct {
	ServerAddress string
	Environment   string
	LogJSON       bool
	DatabasePath  string
	API           APIConfig
	Cookie        CookieConfig
	Session       SessionConfig
	RememberMe    RememberMeConfig
	RateLimit     RateLimitConfig
	Guard         GuardConfig
}

// APIConfig describes the remote account API
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// CookieConfig holds settings for the token cookie
type CookieConfig struct {
	TokenName string
	Domain    string
	Secure    bool
}

// SessionConfig holds the secrets for the flow session and profile cookies
type SessionConfig struct {
	Secret        string
	ProfileSecret string
}

// RememberMeConfig controls remembered sign-in data
type RememberMeConfig struct {
	TTL             time.Duration
	CleanupSchedule string
}

// RateLimitConfig limits auth form submissions per client IP
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// GuardConfig configures the route guard
type GuardConfig struct {
	Paths []string
	// UpstreamJWTSecret, when set, makes the guard verify the token signature
	UpstreamJWTSecret string
}

// fileOverlay is the optional YAML file shape
type fileOverlay struct {
	APIBaseURL string   `yaml:"api_base_url"`
	GuardPaths []string `yaml:"guard_paths"`
}

// DefaultGuardPaths are the pages the route guard inspects
var DefaultGuardPaths = []string{
	apipaths.Home,
	apipaths.ProtectedPage,
	apipaths.SignIn,
	apipaths.SignUp,
	apipaths.Profile,
	apipaths.Settings,
}

// Load loads configuration from environment variables with defaults
func Load() (*Config, error) {
	environment := getEnv("APP_ENV", "production")

	logJSON := environment != "development"
	if v := os.Getenv("LOG_JSON"); v != "" {
		logJSON = v == "true"
	}

	guardPaths := DefaultGuardPaths
	if v := os.Getenv("GUARD_PATHS"); v != "" {
		guardPaths = parseCommaSeparatedList(v)
	}

	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   environment,
		LogJSON:       logJSON,
		DatabasePath:  getEnv("DATABASE_PATH", "./data/myloggi.db"),
		API: APIConfig{
			BaseURL: getEnv("API_BASE_URL", "http://localhost:3001"),
			Timeout: time.Duration(getEnvInt("API_TIMEOUT_SEC", int(constants.DefaultAPITimeout/time.Second))) * time.Second,
		},
		Cookie: CookieConfig{
			TokenName: getEnv("TOKEN_COOKIE_NAME", constants.DefaultTokenCookie),
			Domain:    os.Getenv("COOKIE_DOMAIN"),
			Secure:    getEnv("COOKIE_SECURE", "true") == "true",
		},
		Session: SessionConfig{
			Secret:        getEnv("SESSION_SECRET", "change-me-in-production-session-key"),
			ProfileSecret: getEnv("PROFILE_SECRET", "change-me-in-production-profile-key"),
		},
		RememberMe: RememberMeConfig{
			TTL:             time.Duration(getEnvInt("REMEMBER_ME_TTL_HOURS", int(constants.DefaultRememberMeTTL/time.Hour))) * time.Hour,
			CleanupSchedule: getEnv("CLEANUP_SCHEDULE", "@hourly"),
		},
		RateLimit: RateLimitConfig{
			RPS:   getEnvFloat("RATE_LIMIT_RPS", 1),
			Burst: getEnvInt("RATE_LIMIT_BURST", 5),
		},
		Guard: GuardConfig{
			Paths:             guardPaths,
			UpstreamJWTSecret: os.Getenv("UPSTREAM_JWT_SECRET"),
		},
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	if _, err := url.ParseRequestURI(cfg.API.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid API_BASE_URL %q: %w", cfg.API.BaseURL, err)
	}

	return cfg, nil
}

// applyFile overlays values from a YAML file; an unreadable file is an error,
// empty fields leave the environment values in place
func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var overlay fileOverlay
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if overlay.APIBaseURL != "" {
		c.API.BaseURL = overlay.APIBaseURL
	}
	if len(overlay.GuardPaths) > 0 {
		c.Guard.Paths = overlay.GuardPaths
	}
	return nil
}

// IsDevelopment reports whether the app runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// parseCommaSeparatedList splits a comma-separated string into a slice
func parseCommaSeparatedList(s string) []string {
	if s == "" {
		return []string{}
	}

	items := strings.Split(s, ",")
	result := make([]string, 0, len(items))

	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			result = append(result, item)
		}
	}

	return result
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil && f > 0 {
			return f
		}
	}
	return defaultValue
}
