package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the utimes configuration file.
type Config struct {
	BaseDir   string          `toml:"base_dir"`
	LogDir    string          `toml:"log_dir"`
	Verbose   bool            `toml:"verbose"`
	Journal   JournalConfig   `toml:"journal"`
	Client    ClientConfig    `toml:"client"`
	Reference ReferenceConfig `toml:"reference"`
}

// JournalConfig selects where mutating calls are recorded.
// Tagged union: Type decides whether DataDir is used.
type JournalConfig struct {
	Type    string `toml:"type"`               // "sqlite" (default), "memory" or "none"
	DataDir string `toml:"data_dir,omitempty"` // only used for type=sqlite
}

// ClientConfig tunes the timestamp client.
type ClientConfig struct {
	// MaxConcurrent bounds background batches; 0 means the library default.
	MaxConcurrent int64 `toml:"max_concurrent"`
	// NoDereference makes the CLI act on symlinks themselves by default.
	NoDereference bool `toml:"no_dereference"`
}

// ReferenceConfig configures remote reference lookups.
type ReferenceConfig struct {
	S3 S3Config `toml:"s3"`
}

// S3Config holds the settings for s3:// references. Empty fields fall back
// to the shared AWS configuration.
type S3Config struct {
	Region          string `toml:"region,omitempty"`
	Profile         string `toml:"profile,omitempty"`
	Endpoint        string `toml:"endpoint,omitempty"`
	UsePathStyle    bool   `toml:"use_path_style,omitempty"`
	AccessKeyID     string `toml:"access_key_id,omitempty"`
	SecretAccessKey string `toml:"secret_access_key,omitempty"`
}

// NewConfig creates a Config rooted at baseDir with default settings.
func NewConfig(baseDir string) *Config {
	return &Config{
		BaseDir: baseDir,
		LogDir:  filepath.Join(baseDir, "log"),
		Journal: JournalConfig{
			Type:    "sqlite",
			DataDir: filepath.Join(baseDir, "db"),
		},
	}
}

// Validate checks the fields a Manager cannot check while decoding.
func (c *Config) Validate() error {
	switch c.Journal.Type {
	case "", "sqlite", "memory", "none":
	default:
		return fmt.Errorf("unknown journal type %q", c.Journal.Type)
	}
	if c.Client.MaxConcurrent < 0 {
		return fmt.Errorf("client.max_concurrent must not be negative, got %d", c.Client.MaxConcurrent)
	}
	s3 := c.Reference.S3
	if (s3.AccessKeyID == "") != (s3.SecretAccessKey == "") {
		return errors.New("reference.s3 needs both access_key_id and secret_access_key")
	}
	return nil
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// Load reads the config at path, or returns NewConfig(baseDir) when no file
// exists there. Blank directories in a file are filled from baseDir.
func Load(path, baseDir string) (*Config, error) {
	cfg, err := ReadFromFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewConfig(baseDir), nil
	}
	if err != nil {
		return nil, err
	}

	defaults := NewConfig(baseDir)
	if cfg.BaseDir == "" {
		cfg.BaseDir = defaults.BaseDir
	}
	if cfg.LogDir == "" {
		cfg.LogDir = filepath.Join(cfg.BaseDir, "log")
	}
	if cfg.Journal.Type == "" {
		cfg.Journal.Type = defaults.Journal.Type
	}
	if cfg.Journal.Type == "sqlite" && cfg.Journal.DataDir == "" {
		cfg.Journal.DataDir = filepath.Join(cfg.BaseDir, "db")
	}
	return cfg, nil
}

func writeToFile(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init writes cfg to path. It refuses to overwrite an existing file.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
