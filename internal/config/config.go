// Package config loads moneymate settings from TOML, .env and the environment.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/theirongolddev/moneymate/internal/model"
)

const appName = "moneymate"

// Config holds all moneymate configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	OpenAI     OpenAIConfig     `toml:"openai"`
	Server     ServerConfig     `toml:"server"`
	Appearance AppearanceConfig `toml:"appearance"`
	Log        LogConfig        `toml:"log"`
}

// GeneralConfig holds storage and default view settings.
type GeneralConfig struct {
	WorkingDir   string `toml:"working_dir,omitempty"`
	DefaultRange string `toml:"default_range"`
}

// OpenAIConfig holds settings for the extraction and insight model.
type OpenAIConfig struct {
	APIKey     string `toml:"api_key,omitempty"`
	Model      string `toml:"model"`
	BaseURL    string `toml:"base_url,omitempty"`
	TimeoutSec int    `toml:"timeout_sec"`
}

// ServerConfig holds the local HTTP API settings.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// envOverrides lists the environment variables that override file values.
// OPENAI_API_KEY is honored as a fallback for MONEYMATE_OPENAI_API_KEY.
type envOverrides struct {
	WorkingDir   string `env:"MONEYMATE_WORKING_DIR"`
	DefaultRange string `env:"MONEYMATE_DEFAULT_RANGE"`
	APIKey       string `env:"MONEYMATE_OPENAI_API_KEY"`
	OpenAIKey    string `env:"OPENAI_API_KEY"`
	Model        string `env:"MONEYMATE_OPENAI_MODEL"`
	BaseURL      string `env:"MONEYMATE_OPENAI_BASE_URL"`
	TimeoutSec   int    `env:"MONEYMATE_OPENAI_TIMEOUT_SEC"`
	ServerAddr   string `env:"MONEYMATE_SERVER_ADDR"`
	Theme        string `env:"MONEYMATE_THEME"`
	LogLevel     string `env:"MONEYMATE_LOG_LEVEL"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			DefaultRange: model.PeriodMonth,
		},
		OpenAI: OpenAIConfig{
			Model:      "gpt-4o-mini",
			TimeoutSec: 60,
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8787",
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// DataDir returns the default working directory for the receipt store.
func DataDir() string {
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

// CacheDir returns the directory for derived data such as the scan history.
func CacheDir() string {
	return xdgDir("XDG_CACHE_HOME", ".cache")
}

func xdgDir(envVar, fallback string) string {
	if dir := os.Getenv(envVar); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, fallback, appName)
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	return LoadFile(ConfigPath())
}

// LoadFile reads the config at path over the defaults.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Resolve loads the config file, then applies a .env file from the current
// directory and environment overrides.
func Resolve() (Config, error) {
	cfg, err := Load()
	if err != nil {
		return cfg, err
	}
	// A missing .env is normal. Existing variables are never replaced.
	_ = godotenv.Load()
	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ApplyEnv overlays environment variables onto cfg. Unset variables leave
// the existing value alone.
func ApplyEnv(cfg *Config) error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.General.WorkingDir, o.WorkingDir)
	set(&cfg.General.DefaultRange, o.DefaultRange)
	set(&cfg.OpenAI.APIKey, o.OpenAIKey)
	set(&cfg.OpenAI.APIKey, o.APIKey)
	set(&cfg.OpenAI.Model, o.Model)
	set(&cfg.OpenAI.BaseURL, o.BaseURL)
	set(&cfg.Server.Addr, o.ServerAddr)
	set(&cfg.Appearance.Theme, o.Theme)
	set(&cfg.Log.Level, o.LogLevel)
	if o.TimeoutSec > 0 {
		cfg.OpenAI.TimeoutSec = o.TimeoutSec
	}
	return nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	return SaveFile(ConfigPath(), cfg)
}

// SaveFile writes cfg to path with owner-only permissions.
func SaveFile(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return toml.NewEncoder(f).Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

// WorkingDir returns the configured store directory, or the XDG default.
func (c Config) WorkingDir() string {
	if c.General.WorkingDir != "" {
		return expandHome(c.General.WorkingDir)
	}
	return DataDir()
}

// Timeout returns the per-request model timeout.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.OpenAI.TimeoutSec) * time.Second
}

var validLevels = []string{"trace", "debug", "info", "warn", "error", "disabled"}

// Validate reports every configuration problem at once.
func (c Config) Validate() error {
	var problems []string

	if _, err := model.RangeForPeriod(c.General.DefaultRange, time.Now()); err != nil {
		problems = append(problems, fmt.Sprintf("general.default_range: %v", err))
	}
	if strings.TrimSpace(c.OpenAI.Model) == "" {
		problems = append(problems, "openai.model cannot be empty")
	}
	if c.OpenAI.TimeoutSec <= 0 {
		problems = append(problems, fmt.Sprintf("openai.timeout_sec must be positive, got %d", c.OpenAI.TimeoutSec))
	}
	if c.OpenAI.BaseURL != "" && !strings.HasPrefix(c.OpenAI.BaseURL, "http://") && !strings.HasPrefix(c.OpenAI.BaseURL, "https://") {
		problems = append(problems, fmt.Sprintf("openai.base_url %q must start with http:// or https://", c.OpenAI.BaseURL))
	}
	if _, _, err := net.SplitHostPort(c.Server.Addr); err != nil {
		problems = append(problems, fmt.Sprintf("server.addr %q: %v", c.Server.Addr, err))
	}
	if !slices.Contains(validLevels, strings.ToLower(c.Log.Level)) {
		problems = append(problems, fmt.Sprintf("log.level %q must be one of %v", c.Log.Level, validLevels))
	}

	if len(problems) > 0 {
		return errors.New("invalid configuration:\n  - " + strings.Join(problems, "\n  - "))
	}
	return nil
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
