package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Database
	SQLiteDBPath string

	// Auth
	JWTSecret string
	TokenTTL  time.Duration

	// AMQP (optional; empty URL disables events and the alert worker)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Rate limiting for mutating requests
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Budget ceilings evaluated by the alert worker, in whole currency
	// units. CategoryBudgets comes from BUDGET_CATEGORIES as
	// "Food=500,Transportation=120".
	MonthlyBudget   float64
	CategoryBudgets map[string]float64
}

func Load() *Config {
	cfg := &Config{
		Port:         getEnv("PORT", "8081"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/finance.db"),

		JWTSecret: getEnv("JWT_SECRET", ""),
		TokenTTL:  getEnvDuration("TOKEN_TTL", 24*time.Hour),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "finance"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "record_events"),

		RateLimitRequests: getEnvInt("RATE_LIMIT_REQUESTS", 60),
		RateLimitWindow:   getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),

		MonthlyBudget:   getEnvFloat("BUDGET_MONTHLY", 0),
		CategoryBudgets: parseBudgets(getEnv("BUDGET_CATEGORIES", "")),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	// The secret has no default on purpose: a guessable signing key makes
	// every token forgeable.
	if c.JWTSecret == "" {
		errors = append(errors, "JWT_SECRET must be set")
	}

	if c.TokenTTL < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid token TTL %v: must be at least 1 minute", c.TokenTTL))
	} else if c.TokenTTL > 30*24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid token TTL %v: must be at most 30 days", c.TokenTTL))
	}

	// Validate SQLite database path
	if c.SQLiteDBPath == "" {
		errors = append(errors, "SQLite database path cannot be empty")
	} else {
		dir := filepath.Dir(c.SQLiteDBPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}

		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	// Validate rate limiting
	if c.RateLimitRequests < 1 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %d: must be at least 1 request", c.RateLimitRequests))
	}
	if c.RateLimitWindow < time.Second {
		errors = append(errors, fmt.Sprintf("invalid rate limit window %v: must be at least 1 second", c.RateLimitWindow))
	}

	// Validate budgets
	if c.MonthlyBudget < 0 {
		errors = append(errors, fmt.Sprintf("invalid monthly budget %v: cannot be negative", c.MonthlyBudget))
	}
	for category, budget := range c.CategoryBudgets {
		if budget < 0 {
			errors = append(errors, fmt.Sprintf("invalid budget for category '%s': cannot be negative", category))
		}
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// parseBudgets parses "Food=500,Transportation=120.50" into a map.
// Malformed entries are skipped.
func parseBudgets(raw string) map[string]float64 {
	budgets := make(map[string]float64)
	if raw == "" {
		return budgets
	}

	for _, pair := range strings.Split(raw, ",") {
		category, amount, found := strings.Cut(pair, "=")
		if !found {
			continue
		}
		category = strings.TrimSpace(category)
		if category == "" {
			continue
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(amount), 64)
		if err != nil {
			continue
		}
		budgets[category] = value
	}

	return budgets
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
