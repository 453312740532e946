package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/sleekspend/sleekspend/internal/id"
	"github.com/sleekspend/sleekspend/internal/log"
	"github.com/sleekspend/sleekspend/internal/store"
)

// FileName is the config file looked up in the working directory when --config is not given.
const FileName = "sleekspend.yaml"

// Environment variables that override the config file.
const (
	EnvBackend    = "SLEEKSPEND_BACKEND"
	EnvDataDir    = "SLEEKSPEND_DATA_DIR"
	EnvSlot       = "SLEEKSPEND_SLOT"
	EnvSQLitePath = "SLEEKSPEND_SQLITE_PATH"
	EnvLogLevel   = "SLEEKSPEND_LOG_LEVEL"
	EnvAddr       = "SLEEKSPEND_ADDR"
)

// Config represents the top-level sleekspend.yaml configuration.
type Config struct {
	Storage    StorageConfig    `yaml:"storage"`
	Categories CategoriesConfig `yaml:"categories"`
	Log        LogConfig        `yaml:"log"`
	Server     ServerConfig     `yaml:"server"`
	Git        GitConfig        `yaml:"git"`
	IDs        string           `yaml:"ids"` // uuid or sequence
}

// StorageConfig selects where the expense snapshot lives.
type StorageConfig struct {
	Backend    string `yaml:"backend"` // file, sqlite or memory
	Dir        string `yaml:"dir"`
	Slot       string `yaml:"slot"`
	SQLitePath string `yaml:"sqlite_path,omitempty"` // defaults to <dir>/sleekspend.db
}

// CategoriesConfig extends the built-in category list.
type CategoriesConfig struct {
	Extra []string `yaml:"extra"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // auto, text or json
}

// ServerConfig controls the JSON API.
type ServerConfig struct {
	Addr         string   `yaml:"addr"`
	AllowOrigins []string `yaml:"allow_origins"`
}

// GitConfig versions the data directory with git.
type GitConfig struct {
	Enabled     bool   `yaml:"enabled"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a sleekspend.yaml file from disk. Settings the file omits keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// LoadOptional loads path when it exists and returns the defaults otherwise.
func LoadOptional(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend: store.BackendFile,
			Dir:     DefaultDataDir(),
			Slot:    store.DefaultSlot,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "auto",
		},
		Server: ServerConfig{
			Addr:         "127.0.0.1:8080",
			AllowOrigins: []string{"http://localhost:5173"},
		},
		Git: GitConfig{
			AuthorName:  "sleekspend",
			AuthorEmail: "sleekspend@localhost",
		},
		IDs: "uuid",
	}
}

// DefaultDataDir is ~/.sleekspend, or .sleekspend when there is no home directory.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".sleekspend"
	}
	return filepath.Join(home, ".sleekspend")
}

// LoadDotEnv loads variables from .env files into the process environment. Missing files
// are skipped and variables already set win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overrides settings from SLEEKSPEND_* variables. getenv is usually os.Getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&c.Storage.Backend, EnvBackend)
	set(&c.Storage.Dir, EnvDataDir)
	set(&c.Storage.Slot, EnvSlot)
	set(&c.Storage.SQLitePath, EnvSQLitePath)
	set(&c.Log.Level, EnvLogLevel)
	set(&c.Server.Addr, EnvAddr)
}

// StoreOptions resolves the storage settings into store options, expanding ~ in paths.
func (c *Config) StoreOptions() store.Options {
	dir := expandHome(c.Storage.Dir)
	sqlitePath := expandHome(c.Storage.SQLitePath)
	if sqlitePath == "" && dir != "" {
		sqlitePath = filepath.Join(dir, "sleekspend.db")
	}
	return store.Options{
		Backend:    c.Storage.Backend,
		Dir:        dir,
		Slot:       c.Storage.Slot,
		SQLitePath: sqlitePath,
	}
}

// DataDir returns the storage directory with ~ expanded.
func (c *Config) DataDir() string {
	return expandHome(c.Storage.Dir)
}

// LoggerConfig returns the logger settings.
func (c *Config) LoggerConfig() log.Config {
	cfg := log.DefaultConfig()
	cfg.Level = c.Log.Level
	cfg.Format = c.Log.Format
	return cfg
}

// Validate reports every problem with the configuration at once.
func (c *Config) Validate() error {
	var problems []string

	backends := []string{store.BackendFile, store.BackendSQLite, store.BackendMemory}
	if !slices.Contains(backends, c.Storage.Backend) {
		problems = append(problems, fmt.Sprintf("invalid storage backend %q: must be one of %v", c.Storage.Backend, backends))
	}
	if c.Storage.Backend != store.BackendMemory && strings.TrimSpace(c.Storage.Dir) == "" {
		problems = append(problems, "storage dir cannot be empty")
	}
	if strings.TrimSpace(c.Storage.Slot) == "" {
		problems = append(problems, "storage slot cannot be empty")
	} else if strings.ContainsAny(c.Storage.Slot, `/\`) {
		problems = append(problems, fmt.Sprintf("invalid storage slot %q: must not contain path separators", c.Storage.Slot))
	}

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		problems = append(problems, err.Error())
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "auto", "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("invalid log format %q: must be auto, text or json", c.Log.Format))
	}

	if _, err := id.New(c.IDs); err != nil {
		problems = append(problems, err.Error())
	}

	if _, _, err := net.SplitHostPort(c.Server.Addr); err != nil {
		problems = append(problems, fmt.Sprintf("invalid server addr %q: %v", c.Server.Addr, err))
	}

	if c.Git.Enabled {
		if c.Storage.Backend == store.BackendMemory {
			problems = append(problems, "git cannot be enabled with the memory backend")
		}
		if strings.TrimSpace(c.Git.AuthorName) == "" || strings.TrimSpace(c.Git.AuthorEmail) == "" {
			problems = append(problems, "git author_name and author_email are required when git is enabled")
		}
	}

	for _, name := range c.Categories.Extra {
		if strings.TrimSpace(name) == "" {
			problems = append(problems, "categories.extra contains a blank name")
			break
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
