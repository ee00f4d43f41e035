package journal

import (
	"os"
	"path/filepath"
	"testing"

	"utimes-go/internal/config"
)

func TestNewJournalFromConfig(t *testing.T) {
	t.Run("memory journal", func(t *testing.T) {
		j, err := NewJournalFromConfig(config.JournalConfig{Type: "memory"})
		if err != nil {
			t.Fatalf("NewJournalFromConfig() error = %v", err)
		}
		if j == nil {
			t.Fatal("NewJournalFromConfig() returned nil")
		}
		j.Close()
	})

	t.Run("sqlite journal creates its directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "db")
		j, err := NewJournalFromConfig(config.JournalConfig{Type: "sqlite", DataDir: dir})
		if err != nil {
			t.Fatalf("NewJournalFromConfig() error = %v", err)
		}
		defer j.Close()

		if _, err := os.Stat(filepath.Join(dir, FileName)); err != nil {
			t.Errorf("journal file not created: %v", err)
		}
	})

	t.Run("sqlite journal requires data_dir", func(t *testing.T) {
		if _, err := NewJournalFromConfig(config.JournalConfig{Type: "sqlite"}); err == nil {
			t.Error("NewJournalFromConfig() expected error")
		}
	})

	t.Run("disabled journal", func(t *testing.T) {
		j, err := NewJournalFromConfig(config.JournalConfig{Type: "none"})
		if err != nil || j != nil {
			t.Errorf("NewJournalFromConfig() = %v, %v, want nil, nil", j, err)
		}
	})

	t.Run("unknown type", func(t *testing.T) {
		if _, err := NewJournalFromConfig(config.JournalConfig{Type: "postgres"}); err == nil {
			t.Error("NewJournalFromConfig() expected error")
		}
	})
}
