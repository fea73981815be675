// Package config loads server configuration from a TOML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Server contains listen address and database settings.
type Server struct {
	Bind   string `toml:"bind"`
	DBPath string `toml:"db_path"`
}

// Collaborators contains settings for the external AI services (content and
// image moderation, value evaluation, claim review). All calls are best
// effort: when the service is unreachable the gated operation proceeds.
type Collaborators struct {
	Enabled        bool   `toml:"enabled"`
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Config is the full server configuration.
type Config struct {
	Server        Server        `toml:"server"`
	Collaborators Collaborators `toml:"collaborators"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Server: Server{
			Bind:   ":8080",
			DBPath: "lostfound.sqlite3",
		},
		Collaborators: Collaborators{
			Enabled:        false,
			TimeoutSeconds: 5,
		},
	}
}

// Load reads the configuration file at path, applying defaults for missing
// fields. A missing file is not an error: defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Server.Bind == "" {
		return fmt.Errorf("server.bind must not be empty")
	}
	if c.Server.DBPath == "" {
		return fmt.Errorf("server.db_path must not be empty")
	}
	if c.Collaborators.Enabled && c.Collaborators.BaseURL == "" {
		return fmt.Errorf("collaborators.base_url required when collaborators.enabled is true")
	}
	if c.Collaborators.TimeoutSeconds <= 0 {
		return fmt.Errorf("collaborators.timeout_seconds must be positive")
	}
	return nil
}
