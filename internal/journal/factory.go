package journal

import (
	"fmt"
	"os"
	"path/filepath"

	"utimes-go/internal/config"
)

// FileName is the journal database name inside data_dir.
const FileName = "journal.db"

// NewJournalFromConfig opens the journal the config asks for. It returns
// nil and no error when journaling is disabled.
func NewJournalFromConfig(cfg config.JournalConfig) (Journal, error) {
	switch cfg.Type {
	case "sqlite", "":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite journal")
		}
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("creating journal directory: %w", err)
		}
		return openSQLite(filepath.Join(cfg.DataDir, FileName))
	case "memory":
		return openSQLite(":memory:")
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown journal type: %s", cfg.Type)
	}
}

func openSQLite(path string) (Journal, error) {
	j, err := NewSQLiteJournal(path)
	if err != nil {
		return nil, err
	}
	return j, nil
}
