// ABOUTME: Admin CLI defaults loaded from a TOML file
// ABOUTME: Resolves the database path from flag, env var, or config file

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/skiff-mail/skiff/internal/config"
)

type adminConfig struct {
	Database databaseConfig `toml:"database"`
}

type databaseConfig struct {
	Path string `toml:"path"`
}

// getConfigPath returns the path to the admin config file.
// Priority: SKIFF_ADMIN_CONFIG env var > XDG_CONFIG_HOME/skiff/admin.toml > ~/.config/skiff/admin.toml
func getConfigPath() string {
	if envPath := os.Getenv("SKIFF_ADMIN_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "admin.toml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "skiff", "admin.toml")
}

// resolveDBPath picks the database path in priority order: the SKIFF_DB
// env var, then the server YAML config named by SKIFF_CONFIG, then the
// admin config file, then the local default.
func resolveDBPath() (string, error) {
	if p := os.Getenv("SKIFF_DB"); p != "" {
		return p, nil
	}

	if yamlPath := os.Getenv("SKIFF_CONFIG"); yamlPath != "" {
		cfg, err := config.Load(yamlPath)
		if err != nil {
			return "", err
		}
		return cfg.Database.Path, nil
	}

	configPath := getConfigPath()
	if _, err := os.Stat(configPath); err == nil {
		var cfg adminConfig
		if _, err := toml.DecodeFile(configPath, &cfg); err != nil {
			return "", fmt.Errorf("parsing %s: %w", configPath, err)
		}
		if cfg.Database.Path != "" {
			return cfg.Database.Path, nil
		}
	}

	return "skiff.db", nil
}
