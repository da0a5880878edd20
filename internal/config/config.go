// Package config loads server settings from an optional YAML file and
// CWROBOT_ environment variables.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. CWROBOT_PORT
const EnvPrefix = "CWROBOT"

// Config holds every server setting
type Config struct {
	Port     int    `mapstructure:"port"`
	LogLevel string `mapstructure:"log_level"`

	Storage    StorageConfig    `mapstructure:"storage"`
	Dictionary DictionaryConfig `mapstructure:"dictionary"`
	Game       GameConfig       `mapstructure:"game"`
}

// StorageConfig selects the storage backend
type StorageConfig struct {
	Type     string        `mapstructure:"type"`
	RedisURL string        `mapstructure:"redis_url"`
	PoolSize int           `mapstructure:"pool_size"`
	GameTTL  time.Duration `mapstructure:"game_ttl"`
}

// DictionaryConfig locates the word list and tile sets
type DictionaryConfig struct {
	Path         string   `mapstructure:"path"`
	TileSetPaths []string `mapstructure:"tile_sets"`
}

// GameConfig tunes scoring and candidate generation
type GameConfig struct {
	FullRackBonus      int           `mapstructure:"full_rack_bonus"`
	RetentionCapacity  int           `mapstructure:"retention_capacity"`
	RetentionThreshold float64       `mapstructure:"retention_threshold"`
	HintTTL            time.Duration `mapstructure:"hint_ttl"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", 8080)
	v.SetDefault("log_level", "info")
	v.SetDefault("storage.type", "memory")
	v.SetDefault("storage.redis_url", "redis://localhost:6379")
	v.SetDefault("storage.pool_size", 10)
	v.SetDefault("storage.game_ttl", 24*time.Hour)
	v.SetDefault("dictionary.path", "data/words.txt")
	v.SetDefault("dictionary.tile_sets", []string{})
	v.SetDefault("game.full_rack_bonus", 50)
	v.SetDefault("game.retention_capacity", 64)
	v.SetDefault("game.retention_threshold", 0.5)
	v.SetDefault("game.hint_ttl", 10*time.Minute)
}

// Load reads the configuration. path may be empty, in which case only
// defaults and the environment are used.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Type {
	case "memory", "redis":
	default:
		return fmt.Errorf("storage.type must be memory or redis, got %q", c.Storage.Type)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.Game.RetentionThreshold <= 0 || c.Game.RetentionThreshold > 1 {
		return fmt.Errorf("game.retention_threshold must be within (0,1], got %g", c.Game.RetentionThreshold)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}
