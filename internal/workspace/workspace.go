package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	BaseDirName = "AIDetector"
	HomeEnv     = "ADH_HOME"
)

// Settings is the default configs/config.yaml written on first run. Keys match
// the config loader.
type Settings struct {
	BaseURL string          `yaml:"base_url"`
	Log     LogSettings     `yaml:"log"`
	History HistorySettings `yaml:"history"`
	Server  ServerSettings  `yaml:"server"`
	UI      string          `yaml:"ui"`
}

type LogSettings struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

type HistorySettings struct {
	Enabled bool `yaml:"enabled"`
}

type ServerSettings struct {
	Addr    string `yaml:"addr"`
	GinMode string `yaml:"gin_mode"`
}

func DefaultSettings() Settings {
	return Settings{
		BaseURL: "http://localhost:8000",
		Log:     LogSettings{Level: "info"},
		History: HistorySettings{Enabled: true},
		Server:  ServerSettings{Addr: ":8000", GinMode: "release"},
		UI:      "auto",
	}
}

// Root resolves the workspace directory: $ADH_HOME, else ~/AIDetector.
func Root() (string, error) {
	if dir := strings.TrimSpace(os.Getenv(HomeEnv)); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home: %w", err)
	}
	return filepath.Join(home, BaseDirName), nil
}

func EnsureDefault() (string, error) {
	base, err := Root()
	if err != nil {
		return "", err
	}
	return EnsureAt(base)
}

func EnsureAt(base string) (string, error) {
	paths := []string{
		ConfigsDir(base),
		LogsDir(base),
		DataDir(base),
		ReportsDir(base),
	}

	for _, p := range paths {
		if err := os.MkdirAll(p, 0o755); err != nil {
			return "", fmt.Errorf("mkdir %s: %w", p, err)
		}
	}

	settingsPath := filepath.Join(ConfigsDir(base), "config.yaml")
	if _, err := os.Stat(settingsPath); os.IsNotExist(err) {
		raw, marshalErr := yaml.Marshal(DefaultSettings())
		if marshalErr != nil {
			return "", fmt.Errorf("marshal settings: %w", marshalErr)
		}
		if writeErr := os.WriteFile(settingsPath, raw, 0o644); writeErr != nil {
			return "", fmt.Errorf("write settings: %w", writeErr)
		}
	}

	return base, nil
}

func ConfigsDir(base string) string { return filepath.Join(base, "configs") }

func LogsDir(base string) string { return filepath.Join(base, "logs") }

func DataDir(base string) string { return filepath.Join(base, "data") }

func ReportsDir(base string) string { return filepath.Join(base, "data", "reports") }

func LogFile(base string) string { return filepath.Join(LogsDir(base), "adh.log") }
