// Package config handles loading and validating the application configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	domain "github.com/donaldgifford/listing-notifier/pkg/types"
)

// Store drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverBadger   = "badger"
	DriverMemory   = "memory"
)

// Defaults that mirror the behavior of the first deployment.
const (
	DefaultDocument = "data/apts"
	DefaultHeader   = "New Apartment Found:"
	DefaultLinkBase = "https://www.yad2.co.il/s/c/"
	DefaultInterval = 4 * time.Minute
)

// Config is the top-level application configuration.
type Config struct {
	Server        ServerConfig          `yaml:"server"`
	Store         StoreConfig           `yaml:"store"`
	Database      DatabaseConfig        `yaml:"database"`
	Telegram      TelegramConfig        `yaml:"telegram"`
	Discord       DiscordConfig         `yaml:"discord"`
	Listing       ListingConfig         `yaml:"listing"`
	Fetch         FetchConfig           `yaml:"fetch"`
	Schedule      ScheduleConfig        `yaml:"schedule"`
	Registrations []domain.Registration `yaml:"registrations"`
	Logging       LoggingConfig         `yaml:"logging"`
}

// ServerConfig defines the Echo HTTP server settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// StoreConfig selects where the seen-set document lives.
type StoreConfig struct {
	Driver   string `yaml:"driver"`   // postgres, sqlite, badger, memory
	Document string `yaml:"document"` // default: data/apts
	Path     string `yaml:"path"`     // sqlite file or badger directory
}

// DatabaseConfig defines PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
	PoolSize int    `yaml:"pool_size"`
}

// DSN returns a PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s pool_max_conns=%d",
		d.Host, d.Port, d.Name, d.User, d.Password, d.SSLMode, d.PoolSize,
	)
}

// TelegramConfig defines the bot used to deliver notifications.
type TelegramConfig struct {
	Enabled bool   `yaml:"enabled"`
	Token   string `yaml:"token"`
	APIURL  string `yaml:"api_url"` // empty means the public Bot API
	// Recipients is used by registrations that list no recipients of their own.
	Recipients        []string `yaml:"recipients"`
	MessagesPerSecond float64  `yaml:"messages_per_second"` // 0 disables throttling
}

// DiscordConfig defines a webhook channel used instead of Telegram. The
// webhook has a single destination; every recipient still yields one post.
type DiscordConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
}

// ListingConfig shapes the notification text.
type ListingConfig struct {
	Header   string `yaml:"header"`
	LinkBase string `yaml:"link_base"`
}

// FetchConfig tunes the upstream HTTP client.
type FetchConfig struct {
	UserAgent string        `yaml:"user_agent"`
	Timeout   time.Duration `yaml:"timeout"` // 0 means no client timeout
}

// ScheduleConfig defines the recurring trigger.
type ScheduleConfig struct {
	Enabled  *bool         `yaml:"enabled"` // default: true
	Interval time.Duration `yaml:"interval"`
}

// IsEnabled reports whether the recurring trigger should run.
func (s *ScheduleConfig) IsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes raw YAML the same way Load does.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyStoreDefaults(&cfg.Store)
	applyDatabaseDefaults(&cfg.Database)
	applyListingDefaults(&cfg.Listing)
	applyScheduleDefaults(&cfg.Schedule)
	applyLoggingDefaults(&cfg.Logging)

	for i := range cfg.Registrations {
		r := &cfg.Registrations[i]
		if r.Name == "" {
			r.Name = fmt.Sprintf("registration-%d", i)
		}
		if len(r.To) == 0 {
			r.To = cfg.Telegram.Recipients
		}
	}
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 30 * time.Second
	}
}

func applyStoreDefaults(s *StoreConfig) {
	if s.Driver == "" {
		s.Driver = DriverPostgres
	}
	s.Driver = strings.ToLower(s.Driver)
	if s.Document == "" {
		s.Document = DefaultDocument
	}
}

func applyDatabaseDefaults(d *DatabaseConfig) {
	if d.Port == 0 {
		d.Port = 5432
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}
	if d.PoolSize == 0 {
		d.PoolSize = 4
	}
}

func applyListingDefaults(l *ListingConfig) {
	if l.Header == "" {
		l.Header = DefaultHeader
	}
	if l.LinkBase == "" {
		l.LinkBase = DefaultLinkBase
	}
}

func applyScheduleDefaults(s *ScheduleConfig) {
	if s.Interval == 0 {
		s.Interval = DefaultInterval
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func validate(cfg *Config) error {
	var errs []error

	switch cfg.Store.Driver {
	case DriverPostgres:
		if cfg.Database.Host == "" {
			errs = append(errs, fmt.Errorf("database.host is required when store.driver is postgres"))
		}
		if cfg.Database.Name == "" {
			errs = append(errs, fmt.Errorf("database.name is required when store.driver is postgres"))
		}
		if cfg.Database.User == "" {
			errs = append(errs, fmt.Errorf("database.user is required when store.driver is postgres"))
		}
	case DriverSQLite, DriverBadger:
		if cfg.Store.Path == "" {
			errs = append(errs, fmt.Errorf("store.path is required when store.driver is %s", cfg.Store.Driver))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf(
			"store.driver must be one of: postgres, sqlite, badger, memory (got %q)",
			cfg.Store.Driver,
		))
	}

	if cfg.Telegram.Enabled && cfg.Telegram.Token == "" {
		errs = append(errs, fmt.Errorf("telegram.token is required when telegram is enabled"))
	}
	if cfg.Discord.Enabled && cfg.Discord.WebhookURL == "" {
		errs = append(errs, fmt.Errorf("discord.webhook_url is required when discord is enabled"))
	}
	if cfg.Discord.Enabled && cfg.Telegram.Enabled {
		errs = append(errs, fmt.Errorf("telegram and discord cannot both be enabled"))
	}
	if cfg.Telegram.MessagesPerSecond < 0 {
		errs = append(errs, fmt.Errorf("telegram.messages_per_second must not be negative"))
	}
	if cfg.Schedule.Interval < time.Second {
		errs = append(errs, fmt.Errorf("schedule.interval must be at least 1s (got %s)", cfg.Schedule.Interval))
	}

	names := make(map[string]struct{}, len(cfg.Registrations))
	for i := range cfg.Registrations {
		r := &cfg.Registrations[i]
		if _, dup := names[r.Name]; dup {
			errs = append(errs, fmt.Errorf("registrations[%d]: duplicate name %q", i, r.Name))
		}
		names[r.Name] = struct{}{}
		if len(r.Queries) == 0 {
			errs = append(errs, fmt.Errorf("registrations[%d] (%s): at least one query is required", i, r.Name))
		}
		for q, u := range r.Queries {
			if strings.TrimSpace(u) == "" {
				errs = append(errs, fmt.Errorf("registrations[%d] (%s): query %q has no URL", i, r.Name, q))
			}
		}
		if len(r.To) == 0 {
			errs = append(errs, fmt.Errorf(
				"registrations[%d] (%s): no recipients and telegram.recipients is empty", i, r.Name,
			))
		}
	}

	return errors.Join(errs...)
}
