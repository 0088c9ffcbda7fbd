package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	KeyBaseURL        = "base_url"
	KeyLogLevel       = "log.level"
	KeyLogDevelopment = "log.development"
	KeyHistoryEnabled = "history.enabled"
	KeyHistoryPath    = "history.path"
	KeyServerAddr     = "server.addr"
	KeyServerGinMode  = "server.gin_mode"
	KeyUI             = "ui"
)

const (
	EnvPrefix         = "ADH"
	DefaultBaseURL    = "http://localhost:8000"
	DefaultServerAddr = ":8000"
	ConfigFileName    = "config.yaml"
)

type UIMode string

const (
	UIAuto UIMode = "auto"
	UIOn   UIMode = "on"
	UIOff  UIMode = "off"
)

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type ServerConfig struct {
	Addr    string `mapstructure:"addr"`
	GinMode string `mapstructure:"gin_mode"`
}

type Config struct {
	BaseURL string        `mapstructure:"base_url"`
	Log     LogConfig     `mapstructure:"log"`
	History HistoryConfig `mapstructure:"history"`
	Server  ServerConfig  `mapstructure:"server"`
	UI      UIMode        `mapstructure:"ui"`
	// File is the config file that was read, empty when none was.
	File string `mapstructure:"-"`
}

// LoadDotEnv loads .env files into the process environment. Missing files are
// ignored and variables already set are never overwritten.
func LoadDotEnv(paths ...string) {
	if len(paths) == 0 {
		_ = godotenv.Load()
		return
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
		}
	}
}

// New returns a viper instance with defaults and environment bindings for a
// workspace rooted at workspace. Flags are bound by the caller before Load.
func New(workspace string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, workspace)

	if err := v.BindEnv(KeyBaseURL, "ADH_BASE_URL", "BASE_URL", "VITE_BASE_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind base url env: %w", err)
	}
	if err := v.BindEnv(KeyLogLevel, "ADH_LOG_LEVEL", "LOG_LEVEL"); err != nil {
		return nil, fmt.Errorf("failed to bind log level env: %w", err)
	}
	if err := v.BindEnv(KeyServerGinMode, "ADH_SERVER_GIN_MODE", "GIN_MODE"); err != nil {
		return nil, fmt.Errorf("failed to bind gin mode env: %w", err)
	}
	return v, nil
}

func setDefaults(v *viper.Viper, workspace string) {
	v.SetDefault(KeyBaseURL, DefaultBaseURL)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogDevelopment, false)
	v.SetDefault(KeyHistoryEnabled, true)
	v.SetDefault(KeyHistoryPath, DefaultHistoryPath(workspace))
	v.SetDefault(KeyServerAddr, DefaultServerAddr)
	v.SetDefault(KeyServerGinMode, "release")
	v.SetDefault(KeyUI, string(UIAuto))
}

func DefaultHistoryPath(workspace string) string {
	if workspace == "" {
		return ""
	}
	return filepath.Join(workspace, "data", "history.db")
}

func DefaultFile(workspace string) string {
	if workspace == "" {
		return ""
	}
	return filepath.Join(workspace, "configs", ConfigFileName)
}

// Load reads configFile (or the workspace default when it exists) into v and
// returns the validated configuration. An explicit configFile must exist.
func Load(v *viper.Viper, workspace, configFile string) (Config, error) {
	file := strings.TrimSpace(configFile)
	if file == "" {
		if def := DefaultFile(workspace); def != "" {
			if _, err := os.Stat(def); err == nil {
				file = def
			}
		}
	}
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.File = file
	cfg.BaseURL = strings.TrimSpace(cfg.BaseURL)
	cfg.UI = UIMode(strings.ToLower(strings.TrimSpace(string(cfg.UI))))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid base_url %q: must be an absolute http(s) URL", c.BaseURL)
	}
	switch c.UI {
	case UIAuto, UIOn, UIOff:
	default:
		return fmt.Errorf("invalid ui mode %q: want auto, on or off", c.UI)
	}
	if c.History.Enabled && c.History.Path == "" {
		return errors.New("history.path is required when history is enabled")
	}
	return nil
}
