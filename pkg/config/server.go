package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultServerConfigPath is read by LoadServerConfig when no path is given
const DefaultServerConfigPath = "bvgview.yml"

// ServerConfig contains the settings of the local HTTP proxy
type ServerConfig struct {
	Port                  int      `yaml:"port" validate:"gt=0,lte=65535"`
	APIBaseURL            string   `yaml:"apiBaseURL" validate:"omitempty,url"`
	AllowedOrigins        []string `yaml:"allowedOrigins" validate:"dive,required"`
	StopCacheSeconds      int      `yaml:"stopCacheSeconds" validate:"gte=0"`
	DepartureCacheSeconds int      `yaml:"departureCacheSeconds" validate:"gte=0"`
	DepartureCacheSize    int      `yaml:"departureCacheSize" validate:"gte=0"`
}

// DefaultServerConfig returns the settings used when no file is present
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Port:                  8080,
		AllowedOrigins:        []string{"*"},
		StopCacheSeconds:      600,
		DepartureCacheSeconds: 5,
		DepartureCacheSize:    512,
	}
}

// LoadServerConfig loads and validates the server configuration from a YAML file.
// A missing file at the default path is not an error. The PORT environment
// variable overrides the configured port.
func LoadServerConfig(path string) (*ServerConfig, error) {
	cfg := DefaultServerConfig()

	explicit := path != ""
	if !explicit {
		path = DefaultServerConfigPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
		// defaults
	default:
		return nil, fmt.Errorf("failed to read server config: %w", err)
	}

	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT %q: %w", port, err)
		}
		cfg.Port = p
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid server config: %w", err)
	}

	return &cfg, nil
}
