package app

import (
	"fmt"
	"os"
	"path/filepath"

	"utimes-go/internal/config"
)

// GetDefaults returns application default paths, checking environment variables first.
// Environment variables:
//   - UTIMES_CONFIG_PATH: config file location (default: ~/.config/utimes.toml)
//   - UTIMES_HOME: base directory for utimes data (default: ~/.local/share/utimes)
func GetDefaults() (map[string]string, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	baseDir, err := getBaseDir()
	if err != nil {
		return nil, err
	}

	return map[string]string{
		"config_path": configPath,
		"base_dir":    baseDir,
		"log_dir":     filepath.Join(baseDir, "log"),
	}, nil
}

// LoadConfig reads the config from the default location, falling back to
// defaults when no file exists yet.
func LoadConfig() (*config.Config, error) {
	defaults, err := GetDefaults()
	if err != nil {
		return nil, err
	}
	return config.Load(defaults["config_path"], defaults["base_dir"])
}

func getConfigPath() (string, error) {
	if path := os.Getenv("UTIMES_CONFIG_PATH"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "utimes.toml"), nil
}

func getBaseDir() (string, error) {
	if path := os.Getenv("UTIMES_HOME"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "utimes"), nil
}
