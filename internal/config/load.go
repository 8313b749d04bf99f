package config

import (
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/kittclouds/wikiqa/internal/errors"
)

// New returns a Viper instance with defaults and WIKIQA_ environment
// bindings but no config file.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// Load reads configuration from path (TOML, YAML or JSON by extension) on
// top of defaults and environment. An empty path loads defaults and
// environment only. The result is validated.
func Load(path string) (*Config, error) {
	v := New()
	if path != "" {
		v.SetConfigFile(path)
		if ext := strings.TrimPrefix(filepath.Ext(path), "."); ext == "" {
			v.SetConfigType("toml")
		}
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", path)
		}
	}
	return LoadWithViper(v)
}

// LoadWithViper unmarshals and validates configuration from v.
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
