package app

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetDefaults(t *testing.T) {
	t.Run("uses env vars when set", func(t *testing.T) {
		t.Setenv("UTIMES_CONFIG_PATH", "/custom/config.toml")
		t.Setenv("UTIMES_HOME", "/custom/utimes")

		defaults, err := GetDefaults()
		if err != nil {
			t.Fatalf("GetDefaults() error = %v", err)
		}

		if defaults["config_path"] != "/custom/config.toml" {
			t.Errorf("config_path = %q, want %q", defaults["config_path"], "/custom/config.toml")
		}
		if defaults["base_dir"] != "/custom/utimes" {
			t.Errorf("base_dir = %q, want %q", defaults["base_dir"], "/custom/utimes")
		}
		if want := filepath.Join("/custom/utimes", "log"); defaults["log_dir"] != want {
			t.Errorf("log_dir = %q, want %q", defaults["log_dir"], want)
		}
	})

	t.Run("falls back to home dir defaults", func(t *testing.T) {
		t.Setenv("UTIMES_CONFIG_PATH", "")
		t.Setenv("UTIMES_HOME", "")

		defaults, err := GetDefaults()
		if err != nil {
			t.Fatalf("GetDefaults() error = %v", err)
		}

		homeDir, _ := os.UserHomeDir()
		if want := filepath.Join(homeDir, ".config", "utimes.toml"); defaults["config_path"] != want {
			t.Errorf("config_path = %q, want %q", defaults["config_path"], want)
		}
		if want := filepath.Join(homeDir, ".local", "share", "utimes"); defaults["base_dir"] != want {
			t.Errorf("base_dir = %q, want %q", defaults["base_dir"], want)
		}
	})
}

func TestLoadConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("UTIMES_CONFIG_PATH", filepath.Join(home, "missing.toml"))
	t.Setenv("UTIMES_HOME", home)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.BaseDir != home || cfg.Journal.Type != "sqlite" {
		t.Errorf("LoadConfig() = %+v", cfg)
	}
}
