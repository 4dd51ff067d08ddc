package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type Config struct {
	GitHubToken   string `toml:"github_token"`
	APIBaseURL    string `toml:"api_base_url"`
	DefaultBranch string `toml:"default_branch"`
}

func DefaultConfig() *Config {
	return &Config{
		GitHubToken:   "",
		APIBaseURL:    "https://api.github.com",
		DefaultBranch: "main",
	}
}

func DevdiaryDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".devdiary"), nil
}

func ConfigPath() (string, error) {
	dir, err := DevdiaryDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

func DatabasePath() (string, error) {
	dir, err := DevdiaryDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "db", "devdiary.sqlite"), nil
}

func ErrorLogPath() (string, error) {
	dir, err := DevdiaryDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "errors.log"), nil
}

func EnsureDirectories() error {
	dir, err := DevdiaryDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	dbDir := filepath.Join(dir, "db")
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return err
	}

	return nil
}

func Load() (*Config, error) {
	configPath, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()

	// If config file doesn't exist, create it with defaults
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := EnsureDirectories(); err != nil {
			return nil, err
		}
		if err := Save(cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	if _, err := toml.DecodeFile(configPath, cfg); err != nil {
		return nil, err
	}

	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = DefaultConfig().APIBaseURL
	}
	if cfg.DefaultBranch == "" {
		cfg.DefaultBranch = DefaultConfig().DefaultBranch
	}

	return cfg, nil
}

func Save(cfg *Config) error {
	configPath, err := ConfigPath()
	if err != nil {
		return err
	}

	f, err := os.Create(configPath)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(cfg)
}
