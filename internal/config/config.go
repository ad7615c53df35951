package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
)

// Supported transports.
const (
	BackendPCSC   = "pcsc"
	BackendLibNFC = "libnfc"
)

// Config represents the application configuration
type Config struct {
	Backend  string `toml:"backend"`   // pcsc or libnfc
	Reader   string `toml:"reader"`    // PC/SC reader name, empty for the first one
	Device   string `toml:"device"`    // libnfc connection string
	AID      string `toml:"aid"`       // application selected on the card, hex
	Timeout  string `toml:"timeout"`   // how long to wait for a card
	LogLevel string `toml:"log_level"` // zerolog level name
	Listen   string `toml:"listen"`    // address of the feed server
	MDNS     bool   `toml:"mdns"`      // advertise the feed on the local network
}

// Default returns the configuration written on first run.
func Default() *Config {
	return &Config{
		Backend:  BackendPCSC,
		AID:      "A0000000031010",
		Timeout:  "30s",
		LogLevel: "info",
		Listen:   ":8765",
	}
}

// GetXDGConfigHome returns XDG_CONFIG_HOME or default path
func GetXDGConfigHome() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return xdgConfig
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".config")
}

// GetConfigFilePath returns the path to the config file
func GetConfigFilePath() string {
	return filepath.Join(GetXDGConfigHome(), "emv-reader", "config.toml")
}

// Load reads the config file at path, or at GetConfigFilePath when path is
// empty. A missing default file is created; a missing explicit file is an
// error. Keys absent from the file keep their default value.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = GetConfigFilePath()
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) && !explicit {
		return createDefaultConfig(path)
	}

	config := Default()
	if _, err := toml.DecodeFile(path, config); err != nil {
		return nil, fmt.Errorf("error decoding config file: %w", err)
	}
	return config, nil
}

// createDefaultConfig creates a default config file
func createDefaultConfig(path string) (*Config, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("error creating config directory: %w", err)
	}

	config := Default()

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("error creating config file: %w", err)
	}
	defer file.Close()

	if err := toml.NewEncoder(file).Encode(config); err != nil {
		return nil, fmt.Errorf("error encoding config: %w", err)
	}
	return config, nil
}

// Validate checks the values a read depends on.
func (c *Config) Validate() error {
	var errs []error

	switch c.Backend {
	case BackendPCSC, BackendLibNFC:
	default:
		errs = append(errs, fmt.Errorf("unknown backend %q (want %s or %s)", c.Backend, BackendPCSC, BackendLibNFC))
	}

	if _, err := c.AIDBytes(); err != nil {
		errs = append(errs, err)
	}

	if d, err := time.ParseDuration(c.Timeout); err != nil {
		errs = append(errs, fmt.Errorf("invalid timeout %q: %w", c.Timeout, err))
	} else if d <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive, got %s", d))
	}

	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("invalid log level %q", c.LogLevel))
	}

	return errors.Join(errs...)
}

// AIDBytes decodes the AID. Valid AIDs are 5 to 16 bytes long.
func (c *Config) AIDBytes() ([]byte, error) {
	aid, err := hex.DecodeString(c.AID)
	if err != nil {
		return nil, fmt.Errorf("invalid AID %q: %w", c.AID, err)
	}
	if len(aid) < 5 || len(aid) > 16 {
		return nil, fmt.Errorf("invalid AID %q: length %d not in 5..16", c.AID, len(aid))
	}
	return aid, nil
}

// TimeoutDuration returns the card wait timeout. Call Validate first.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}
