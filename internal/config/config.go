package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Config carries the environment-driven settings for the application.
type Config struct {
	// HTTP server
	Port string

	// Storage
	DataBackend  string // memory | file | sqlite
	DataDir      string
	SQLiteDBPath string
	StorageKey   string

	// Alert thresholds
	AlertRecentWindowDays    int
	AlertRecentSpendRatio    decimal.Decimal
	AlertHealthyExpenseRatio decimal.Decimal

	// Logging
	LogLevel string
}

// Load reads configuration from the environment with defaults. The storage
// key default matches the browser build of this tracker, so an exported
// payload drops straight in.
func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8081"),

		DataBackend:  getEnv("DATA_BACKEND", "file"),
		DataDir:      getEnv("DATA_DIR", "./data"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/fintrack.db"),
		StorageKey:   getEnv("STORAGE_KEY", "finance-tracker-transactions"),

		AlertRecentWindowDays:    getEnvInt("ALERT_RECENT_WINDOW_DAYS", 7),
		AlertRecentSpendRatio:    getEnvDecimal("ALERT_RECENT_SPEND_RATIO", decimal.NewFromFloat(0.3)),
		AlertHealthyExpenseRatio: getEnvDecimal("ALERT_HEALTHY_EXPENSE_RATIO", decimal.NewFromFloat(0.7)),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	validBackends := []string{"memory", "file", "sqlite"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	if c.DataBackend == "file" && c.DataDir == "" {
		errors = append(errors, "data directory cannot be empty when using file backend")
	}

	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0o755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	if strings.TrimSpace(c.StorageKey) == "" {
		errors = append(errors, "storage key cannot be empty")
	}

	if c.AlertRecentWindowDays < 1 {
		errors = append(errors, fmt.Sprintf("invalid recent window %d days: must be at least 1", c.AlertRecentWindowDays))
	} else if c.AlertRecentWindowDays > 365 {
		errors = append(errors, fmt.Sprintf("invalid recent window %d days: must be at most 365", c.AlertRecentWindowDays))
	}

	if c.AlertRecentSpendRatio.Sign() <= 0 {
		errors = append(errors, fmt.Sprintf("invalid recent spend ratio %s: must be positive", c.AlertRecentSpendRatio))
	}
	if c.AlertHealthyExpenseRatio.Sign() <= 0 || c.AlertHealthyExpenseRatio.GreaterThan(decimal.NewFromInt(1)) {
		errors = append(errors, fmt.Sprintf("invalid healthy expense ratio %s: must be in (0, 1]", c.AlertHealthyExpenseRatio))
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s'", c.LogLevel))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
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
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDecimal(key string, defaultValue decimal.Decimal) decimal.Decimal {
	if value := os.Getenv(key); value != "" {
		if d, err := decimal.NewFromString(value); err == nil {
			return d
		}
	}
	return defaultValue
}
