// Package config loads server configuration from a YAML file with
// environment-variable overrides.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the full configuration tree.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
	Cards   CardsConfig   `mapstructure:"cards"`
	Replay  ReplayConfig  `mapstructure:"replay"`
}

// ServerConfig configures the websocket front-end.
type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// CardsConfig locates the static card database.
type CardsConfig struct {
	Path string `mapstructure:"path"`
}

// ReplayConfig configures replay persistence.
type ReplayConfig struct {
	Directory string `mapstructure:"directory"`
}

// Load reads configuration from path. Environment variables prefixed with
// LORCANA_ override file values (LORCANA_SERVER_ADDRESS, ...).
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetDefault("server.address", ":8089")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.development", false)
	v.SetDefault("cards.path", "data/cards.json")
	v.SetDefault("replay.directory", "replays")

	v.SetEnvPrefix("LORCANA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}
