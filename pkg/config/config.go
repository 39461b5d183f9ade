package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"bvgview/pkg/kvstore"
)

// AppConfig holds all user-defined persistent settings
type AppConfig struct {
	AccentColor   string `json:"accent_color,omitempty"`
	APIBaseURL    string `json:"api_base_url,omitempty"`
	Storage       string `json:"storage,omitempty"` // file, memory, mongo or postgres
	StorageDir    string `json:"storage_dir,omitempty"`
	MongoURI      string `json:"mongo_uri,omitempty"`
	MongoDatabase string `json:"mongo_database,omitempty"`
	PostgresDSN   string `json:"postgres_dsn,omitempty"`
	GroupByRoute  bool   `json:"group_by_route,omitempty"`
}

// StoreOptions maps the storage settings onto kvstore options
func (c *AppConfig) StoreOptions() kvstore.Options {
	return kvstore.Options{
		Backend:     c.Storage,
		Dir:         c.StorageDir,
		MongoURI:    c.MongoURI,
		MongoDB:     c.MongoDatabase,
		PostgresDSN: c.PostgresDSN,
	}
}

// getConfigPath returns the absolute path to ~/.bvgview.json
func getConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not find user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".bvgview.json"), nil
}

// Load reads the application configuration from disk.
// Returns an empty struct if the file does not exist.
func Load() (*AppConfig, error) {
	path, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		// If file doesn't exist, just return an empty default configuration
		if os.IsNotExist(err) {
			return &AppConfig{}, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg AppConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Save writes the application configuration back to disk.
func Save(cfg *AppConfig) error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
