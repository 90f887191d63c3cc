// Package config loads setcore configuration from a TOML file.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Storage Storage `toml:"storage"`
	Blob    Blob    `toml:"blob"`
	Log     Log     `toml:"log"`
}

// Storage selects and parameterizes the persistence backend.
type Storage struct {
	// Driver is one of memory, sqlite, postgres.
	Driver string `toml:"driver"`
	// Path is the database file when driver is sqlite.
	Path string `toml:"path"`
	// DSN is the connection string when driver is postgres.
	DSN string `toml:"dsn"`
}

// Blob selects and parameterizes the resource content backend.
type Blob struct {
	// Driver is one of fs, s3, memory.
	Driver string `toml:"driver"`
	// Root is the directory root when driver is fs.
	Root string `toml:"root"`
	// Bucket, Region, and Endpoint apply when driver is s3.
	Bucket   string `toml:"bucket"`
	Region   string `toml:"region"`
	Endpoint string `toml:"endpoint"`
	// PathStyle forces path-style addressing (MinIO).
	PathStyle bool `toml:"path_style"`
}

// Log controls CLI log output.
type Log struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level"`
	// Format is text or json.
	Format string `toml:"format"`
}

// Load reads and parses a TOML configuration file from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// Default returns a Config parsed from the embedded example file.
func Default() *Config {
	var cfg Config
	if err := toml.Unmarshal(exampleConf, &cfg); err != nil {
		panic(fmt.Sprintf("parse embedded default config: %v", err))
	}
	return &cfg
}

// WriteExample creates a starter config file at path. It refuses to
// overwrite an existing file.
func WriteExample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}
	if err := os.WriteFile(path, exampleConf, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
