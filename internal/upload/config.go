package upload

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config carries the user-tunable upload settings.
type Config struct {
	// Timeout bounds a single upload request.
	Timeout time.Duration `mapstructure:"timeout"`
	// EndpointOverride, when set, replaces the endpoint carried in
	// scanned targets. Used against staging servers.
	EndpointOverride string `mapstructure:"endpoint_override"`
}

// LoadConfig reads upload settings from the user config directory,
// falling back to defaults when no config file exists.
func LoadConfig() (Config, error) {
	v := viper.New()
	v.SetConfigName("upload")
	v.SetConfigType("yaml")

	v.SetDefault("timeout", 30*time.Second)
	v.SetDefault("endpoint_override", "")

	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, "stylemark"))
	}
	v.SetEnvPrefix("stylemark")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("upload config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("upload config: %w", err)
	}
	return cfg, nil
}

// Apply returns the target with any configured overrides applied.
func (c Config) Apply(t Target) Target {
	if c.EndpointOverride != "" {
		t.BaseURL = c.EndpointOverride
	}
	return t
}
