// Package config provides configuration management for famcare.
//
// Configuration is a single YAML file. Environment variables referenced
// inside values ($VAR or ${VAR}) are expanded at load time, so the same
// file can move between machines with only the environment changing.
//
// Config file locations (priority order):
//  1. $FAMCARE_CONFIG
//  2. ./famcare.yaml
//  3. ~/.config/famcare/config.yaml
//  4. /etc/famcare/config.yaml
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"famcare/internal/domain"
)

// Config is the full server configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Storage  StorageConfig  `yaml:"storage"`
	Import   ImportConfig   `yaml:"import"`
	Family   []MemberConfig `yaml:"family"`
}

// ServerConfig controls the HTTP listener
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// DatabaseConfig controls durable storage. An empty path selects the
// in-memory backend; everything is lost when the process exits.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// StorageConfig controls where uploaded files are written
type StorageConfig struct {
	Dir string `yaml:"dir"`
}

// ImportConfig points at an optional archive file. When set, the server
// imports it on change, so restoring a backup is a file copy. The
// format is inferred from the extension (.json, .yaml, .yml).
type ImportConfig struct {
	Path string `yaml:"path"`
}

// MemberConfig is one family member in the seed list
type MemberConfig struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	Relationship string `yaml:"relationship"`
}

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		return DefaultConfig(), "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in missing values with defaults. The database path
// is deliberately left empty: durable storage is opt-in.
func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Storage.Dir == "" {
		c.Storage.Dir = "./uploads"
	}
}

// FamilyMembers converts the configured seed list to domain members
func (c *Config) FamilyMembers() []domain.FamilyMember {
	members := make([]domain.FamilyMember, 0, len(c.Family))
	for _, m := range c.Family {
		members = append(members, domain.FamilyMember{
			ID:           m.ID,
			Name:         m.Name,
			Relationship: m.Relationship,
		})
	}
	return members
}
