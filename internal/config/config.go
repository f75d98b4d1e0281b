package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	env "github.com/caarlos0/env/v11"

	"bukmacher/internal/core"
	"bukmacher/internal/locale"
)

// Supported DATA_BACKEND values.
const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

type Config struct {
	// HTTP Server
	Port           string `env:"PORT" envDefault:"8081"`
	WriteRateLimit int    `env:"WRITE_RATE_LIMIT" envDefault:"120"` // mutating requests per client and minute

	// Storage
	DataBackend  string `env:"DATA_BACKEND" envDefault:"sqlite"`
	SQLiteDBPath string `env:"SQLITE_DB_PATH" envDefault:"./data/bukmacher.db"`
	SeedDir      string `env:"MEMORY_SEED_DIR"`

	// AMQP change events, disabled when AMQP_URL is empty
	AMQPURL      string `env:"AMQP_URL"`
	AMQPExchange string `env:"AMQP_EXCHANGE" envDefault:"bukmacher"`
	AMQPQueue    string `env:"AMQP_QUEUE" envDefault:"entry_events"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	// Display defaults, used until settings are saved
	Language    string `env:"BUKMACHER_LANGUAGE" envDefault:"pl"`
	Currency    string `env:"BUKMACHER_CURRENCY" envDefault:"PLN"`
	DisplayName string `env:"BUKMACHER_DISPLAY_NAME"`
	Timezone    string `env:"BUKMACHER_TIMEZONE" envDefault:"Local"`
}

// Load reads the process environment.
func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &cfg, nil
}

// LoadFrom reads vars instead of the process environment.
func LoadFrom(vars map[string]string) (*Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](env.Options{Environment: vars})
	if err != nil {
		return nil, fmt.Errorf("config.LoadFrom: %w", err)
	}
	return &cfg, nil
}

// Validate validates the configuration and reports every problem at once.
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.WriteRateLimit < 1 {
		errors = append(errors, fmt.Sprintf("invalid write rate limit %d: must be positive", c.WriteRateLimit))
	}

	validBackends := []string{BackendMemory, BackendSQLite}
	if !slices.Contains(validBackends, c.DataBackend) {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	if c.DataBackend == BackendSQLite {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
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

	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be 'text' or 'json'", c.LogFormat))
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be debug, info, warn or error", c.LogLevel))
	}

	if _, err := locale.ParseLanguage(c.Language); err != nil {
		errors = append(errors, fmt.Sprintf("invalid language '%s': must be one of %v", c.Language, locale.Languages()))
	}
	if _, err := locale.ParseCurrency(c.Currency); err != nil {
		errors = append(errors, fmt.Sprintf("invalid currency '%s': must be one of %v", c.Currency, locale.Currencies()))
	}
	if _, err := c.Location(); err != nil {
		errors = append(errors, fmt.Sprintf("invalid timezone '%s': %v", c.Timezone, err))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// DefaultSettings turns the BUKMACHER_* variables into the settings used
// until the user saves their own. Invalid values fall back to the built-in
// defaults; Validate reports them.
func (c *Config) DefaultSettings() core.Settings {
	st := core.DefaultSettings()
	if lang, err := locale.ParseLanguage(c.Language); err == nil {
		st.Language = lang
	}
	if cur, err := locale.ParseCurrency(c.Currency); err == nil {
		st.Currency = cur
	}
	st.DisplayName = strings.TrimSpace(c.DisplayName)
	return st
}

// Location resolves the timezone used to group entries into days.
func (c *Config) Location() (*time.Location, error) {
	switch c.Timezone {
	case "", "Local":
		return time.Local, nil
	default:
		return time.LoadLocation(c.Timezone)
	}
}
