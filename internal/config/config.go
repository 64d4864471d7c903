// Package config provides configuration types, defaults and loading for
// musichub.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/zjrosen/musichub/internal/client"
	"github.com/zjrosen/musichub/internal/notify"
	"github.com/zjrosen/musichub/internal/tracing"
)

// DefaultBaseURL is the backend the client talks to out of the box.
const DefaultBaseURL = "http://localhost:8080"

// DefaultLogFile is written when --debug is set without --log-file.
const DefaultLogFile = "musichub-debug.log"

// Config holds all configuration options for musichub.
type Config struct {
	API           APIConfig           `mapstructure:"api"`
	Notifications NotificationsConfig `mapstructure:"notifications"`
	Tracing       tracing.Config      `mapstructure:"tracing"`
	Theme         ThemeConfig         `mapstructure:"theme"`
	Debug         bool                `mapstructure:"debug"`
	LogFile       string              `mapstructure:"log_file"`
}

// APIConfig locates the registration backend.
type APIConfig struct {
	BaseURL      string        `mapstructure:"base_url" validate:"required,url"`
	RegisterPath string        `mapstructure:"register_path" validate:"required,startswith=/"`
	RecentPath   string        `mapstructure:"recent_path" validate:"required,startswith=/"`
	Timeout      time.Duration `mapstructure:"timeout" validate:"min=100ms,max=5m"`
}

// NotificationsConfig tunes the notification queue.
type NotificationsConfig struct {
	// DefaultDuration applies to notifications that do not set their own.
	DefaultDuration time.Duration `mapstructure:"default_duration" validate:"min=500ms,max=1m"`
}

// ThemeConfig holds theme customization options.
type ThemeConfig struct {
	// Preset loads a built-in theme as the base.
	// Valid values: "default", "dracula", "nord", "high-contrast"
	Preset string `mapstructure:"preset"`

	// Mode forces light or dark mode. If empty, uses terminal detection.
	Mode string `mapstructure:"mode" validate:"omitempty,oneof=light dark"`

	// Colors overrides individual color tokens, either nested
	// (toast: {success: "#00FF00"}) or as quoted dotted keys.
	Colors map[string]any `mapstructure:"colors"`
}

// FlattenedColors returns Colors flattened to dot-notation keys.
func (t ThemeConfig) FlattenedColors() map[string]string {
	result := make(map[string]string)
	flattenColors("", t.Colors, result)
	return result
}

func flattenColors(prefix string, m map[string]any, result map[string]string) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}

		switch val := v.(type) {
		case string:
			result[key] = val
		case map[string]any:
			flattenColors(key, val, result)
		case map[any]any:
			converted := make(map[string]any, len(val))
			for mk, mv := range val {
				if s, ok := mk.(string); ok {
					converted[s] = mv
				}
			}
			flattenColors(key, converted, result)
		}
	}
}

// DefaultTracesFilePath returns where the file exporter writes by default.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".musichub", "traces", "traces.jsonl")
	}
	return filepath.Join(home, ".config", "musichub", "traces", "traces.jsonl")
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	tr := tracing.DefaultConfig()
	tr.FilePath = DefaultTracesFilePath()

	return Config{
		API: APIConfig{
			BaseURL:      DefaultBaseURL,
			RegisterPath: client.DefaultRegisterPath,
			RecentPath:   client.DefaultRecentPath,
			Timeout:      client.DefaultTimeout,
		},
		Notifications: NotificationsConfig{
			DefaultDuration: notify.DefaultDuration,
		},
		Tracing: tr,
		Theme:   ThemeConfig{Preset: "default"},
		LogFile: DefaultLogFile,
	}
}
