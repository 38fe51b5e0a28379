// Package config loads and validates the ingester's YAML configuration:
// identity mappings, the table-ownership policy, the ledger backend, and the
// optional event publisher.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fortuna/statline/internal/game"
	"github.com/fortuna/statline/internal/roster"
)

// Configuration validation errors.
var (
	ErrNoPlayers            = errors.New("roster.players must contain at least one mapping")
	ErrPlayerMissingSlug    = errors.New("player mapping requires a slug")
	ErrPlayerMissingName    = errors.New("player mapping requires a name")
	ErrTeamMissingSlug      = errors.New("team mapping requires a slug")
	ErrInvalidSide          = errors.New("ingest.side must be 'home' or 'away'")
	ErrUnknownBackend       = errors.New("ledger.backend must be 'postgres' or 'sheets'")
	ErrMissingDSN           = errors.New("ledger.postgres.dsn is required for the postgres backend")
	ErrMissingCredentials   = errors.New("ledger.sheets.credentials_file is required for the sheets backend")
	ErrMissingSpreadsheetID = errors.New("ledger.sheets requires box_scores_id, players_id, and teams_id")
	ErrMissingRedisURL      = errors.New("publish.redis_url is required when publishing is enabled")
	ErrInvalidLogLevel      = errors.New("logging.level must be one of: debug, info, warn, error")
)

// Config is the full configuration file.
type Config struct {
	Ingest  IngestConfig   `yaml:"ingest"`
	Roster  roster.Mapping `yaml:"roster"`
	Ledger  LedgerConfig   `yaml:"ledger"`
	Publish PublishConfig  `yaml:"publish"`
	Logging LoggingConfig  `yaml:"logging"`
}

// IngestConfig holds per-run policy.
type IngestConfig struct {
	// Side says which side of the match the export's table belongs to.
	// Defaults to "home" (the second team in the title).
	Side game.Side `yaml:"side"`
}

// LedgerConfig selects and configures the durable backend.
type LedgerConfig struct {
	Backend  string         `yaml:"backend"`
	Postgres PostgresConfig `yaml:"postgres"`
	Sheets   SheetsConfig   `yaml:"sheets"`
}

// PostgresConfig configures the postgres backend.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// SheetsConfig configures the Google Sheets backend.
type SheetsConfig struct {
	CredentialsFile string `yaml:"credentials_file"`
	BoxScoresID     string `yaml:"box_scores_id"`
	PlayersID       string `yaml:"players_id"`
	TeamsID         string `yaml:"teams_id"`
}

// PublishConfig configures the optional redis stream event.
type PublishConfig struct {
	Enabled  bool   `yaml:"enabled"`
	RedisURL string `yaml:"redis_url"`
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads, defaults, env-overrides, and validates a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	cfg.applyDefaults()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Ingest.Side == "" {
		c.Ingest.Side = game.SideHome
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// Credentials and endpoints can come from the environment so the YAML file
// stays shareable.
func (c *Config) applyEnv() {
	if v := os.Getenv("STATLINE_PG_DSN"); v != "" {
		c.Ledger.Postgres.DSN = v
	}
	if v := os.Getenv("STATLINE_SHEETS_CREDENTIALS"); v != "" {
		c.Ledger.Sheets.CredentialsFile = v
	}
	if v := os.Getenv("STATLINE_REDIS_URL"); v != "" {
		c.Publish.RedisURL = v
	}
}

// Validate checks the configuration for mistakes worth failing fast on.
func (c *Config) Validate() error {
	if len(c.Roster.Players) == 0 {
		return ErrNoPlayers
	}
	for abbrev, entry := range c.Roster.Players {
		if entry.Slug == "" {
			return fmt.Errorf("%w: %q", ErrPlayerMissingSlug, abbrev)
		}
		if entry.Name == "" {
			return fmt.Errorf("%w: %q", ErrPlayerMissingName, abbrev)
		}
	}
	for name, entry := range c.Roster.Teams {
		if entry.Slug == "" {
			return fmt.Errorf("%w: %q", ErrTeamMissingSlug, name)
		}
	}

	if !c.Ingest.Side.Valid() {
		return fmt.Errorf("%w: got %q", ErrInvalidSide, c.Ingest.Side)
	}

	switch c.Ledger.Backend {
	case "postgres":
		if c.Ledger.Postgres.DSN == "" {
			return ErrMissingDSN
		}
	case "sheets":
		if c.Ledger.Sheets.CredentialsFile == "" {
			return ErrMissingCredentials
		}
		if c.Ledger.Sheets.BoxScoresID == "" || c.Ledger.Sheets.PlayersID == "" || c.Ledger.Sheets.TeamsID == "" {
			return ErrMissingSpreadsheetID
		}
	default:
		return fmt.Errorf("%w: got %q", ErrUnknownBackend, c.Ledger.Backend)
	}

	if c.Publish.Enabled && c.Publish.RedisURL == "" {
		return ErrMissingRedisURL
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidLogLevel, c.Logging.Level)
	}

	return nil
}
