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

	// AMQP (export event bus; empty URL disables publishing)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Weather
	WeatherAPIKey    string
	WeatherBaseURL   string
	WeatherLatitude  float64
	WeatherLongitude float64
	WeatherCacheTTL  time.Duration

	// Google Sheets export
	SheetsCredentialsFile string
	SpreadsheetID         string
	SheetName             string
}

func Load() *Config {
	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/chickenkeeper.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "chickenkeeper"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "ledger_export"),

		WeatherAPIKey:    getEnv("OPENWEATHER_API_KEY", ""),
		WeatherBaseURL:   getEnv("OPENWEATHER_BASE_URL", "https://api.openweathermap.org"),
		WeatherLatitude:  getEnvFloat("WEATHER_LAT", 37.7749),
		WeatherLongitude: getEnvFloat("WEATHER_LON", -122.4194),
		WeatherCacheTTL:  getEnvDuration("WEATHER_CACHE_TTL", 10*time.Minute),

		SheetsCredentialsFile: getEnv("SHEETS_CREDENTIALS_FILE", ""),
		SpreadsheetID:         getEnv("SHEETS_SPREADSHEET_ID", ""),
		SheetName:             getEnv("SHEETS_SHEET_NAME", "Ledger"),
	}

	return cfg
}

// Validate checks the settings the server binary needs.
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

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

	if c.WeatherLatitude < -90 || c.WeatherLatitude > 90 {
		errors = append(errors, fmt.Sprintf("invalid latitude %v: must be between -90 and 90", c.WeatherLatitude))
	}
	if c.WeatherLongitude < -180 || c.WeatherLongitude > 180 {
		errors = append(errors, fmt.Sprintf("invalid longitude %v: must be between -180 and 180", c.WeatherLongitude))
	}
	if c.WeatherCacheTTL < time.Second {
		errors = append(errors, fmt.Sprintf("invalid weather cache TTL %v: must be at least 1 second", c.WeatherCacheTTL))
	} else if c.WeatherCacheTTL > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid weather cache TTL %v: must be at most 24 hours", c.WeatherCacheTTL))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// ValidateExporter checks the extra settings the exporter binary needs.
func (c *Config) ValidateExporter() error {
	var errors []string

	if c.AMQPURL == "" {
		errors = append(errors, "AMQP URL is required for the exporter")
	}
	if c.SpreadsheetID == "" {
		errors = append(errors, "spreadsheet ID is required for the exporter")
	}
	if c.SheetName == "" {
		errors = append(errors, "sheet name is required for the exporter")
	}
	if c.SheetsCredentialsFile != "" {
		if _, err := os.Stat(c.SheetsCredentialsFile); os.IsNotExist(err) {
			errors = append(errors, fmt.Sprintf("sheets credentials file does not exist: %s", c.SheetsCredentialsFile))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("exporter configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return c.Validate()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
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
