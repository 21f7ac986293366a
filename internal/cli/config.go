package cli

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

const (
	configDirName  = "sapie"
	configFileName = "config.json"
	configDirPerms = 0700
	configPerms    = 0600
	defaultURL     = "http://localhost:3000"
)

// Config holds persisted CLI configuration.
type Config struct {
	ServerURL string `json:"server_url"`
	Token     string `json:"token"`
}

func configPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configDirName, configFileName), nil
}

// LoadConfig reads the config from disk. Returns a default Config (not an
// error) if the file doesn't exist.
func LoadConfig() (*Config, error) {
	p, err := configPath()
	if err != nil {
		return &Config{ServerURL: defaultURL}, nil
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{ServerURL: defaultURL}, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if cfg.ServerURL == "" {
		cfg.ServerURL = defaultURL
	}
	return &cfg, nil
}

// SaveConfig writes the config to disk, creating the directory if needed.
func SaveConfig(cfg *Config) error {
	p, err := configPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), configDirPerms); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, data, configPerms)
}

// ClearConfig removes the config file.
func ClearConfig() error {
	p, err := configPath()
	if err != nil {
		return err
	}
	err = os.Remove(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
