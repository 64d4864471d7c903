package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/zjrosen/musichub/internal/log"
)

// EnvPrefix prefixes environment overrides, e.g. MUSICHUB_API_BASE_URL.
const EnvPrefix = "MUSICHUB"

// LocalConfigPath is checked before the user config directory.
var LocalConfigPath = filepath.Join(".musichub", "config.yaml")

// UserConfigPath returns ~/.config/musichub/config.yaml.
func UserConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "musichub", "config.yaml")
}

// SetDefaults registers every known key on v so that environment overrides
// and Unmarshal see the full tree.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("api.base_url", d.API.BaseURL)
	v.SetDefault("api.register_path", d.API.RegisterPath)
	v.SetDefault("api.recent_path", d.API.RecentPath)
	v.SetDefault("api.timeout", d.API.Timeout)
	v.SetDefault("notifications.default_duration", d.Notifications.DefaultDuration)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.file_path", d.Tracing.FilePath)
	v.SetDefault("tracing.otlp_endpoint", d.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", d.Tracing.SampleRate)
	v.SetDefault("tracing.service_name", d.Tracing.ServiceName)
	v.SetDefault("theme.preset", d.Theme.Preset)
	v.SetDefault("theme.mode", d.Theme.Mode)
	v.SetDefault("debug", d.Debug)
	v.SetDefault("log_file", d.LogFile)
}

// Load resolves the config file, applies environment overrides, and
// returns the validated result.
//
// Lookup order:
//  1. explicit (the --config flag)
//  2. .musichub/config.yaml in the current directory
//  3. ~/.config/musichub/config.yaml
//
// A missing file is not an error; defaults apply.
func Load(v *viper.Viper, explicit string) (Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	switch {
	case explicit != "":
		v.SetConfigFile(explicit)
	case fileExists(LocalConfigPath):
		v.SetConfigFile(LocalConfigPath)
	default:
		if p := UserConfigPath(); p != "" {
			v.AddConfigPath(filepath.Dir(p))
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.ErrorErr(log.CatConfig, "Failed to read config", err, "path", v.ConfigFileUsed())
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
		log.Debug(log.CatConfig, "No config file found, using defaults")
	} else {
		log.Debug(log.CatConfig, "Loaded config", "path", v.ConfigFileUsed())
	}

	return decode(v)
}

func decode(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
