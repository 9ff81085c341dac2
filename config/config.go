package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	ServerAddr  string
	LogLevel    slog.Level
	SeedFile    string
	ActivityMax int

	Elastic ElasticConfig
	Redis   RedisConfig
}

type ElasticConfig struct {
	Enabled bool
	URL     string
	Index   string
}

type RedisConfig struct {
	Enabled bool
	URL     string
}

// SetDefaults registers every key with its default value.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("seed.file", "")
	v.SetDefault("activity.max", 3)

	v.SetDefault("elastic.enabled", false)
	v.SetDefault("elastic.url", "http://127.0.0.1:9200")
	v.SetDefault("elastic.index", "books")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.url", "127.0.0.1:6379")
}

// Load reads defaults, environment variables and an optional config.yaml from the
// working directory. ELASTIC_URL and REDIS_URL are honoured as well as the
// LIBRARY_ prefixed keys.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix("library")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindEnv("elastic.url", "LIBRARY_ELASTIC_URL", "ELASTIC_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind environment variable: %w", err)
	}
	if err := v.BindEnv("redis.url", "LIBRARY_REDIS_URL", "REDIS_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind environment variable: %w", err)
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("fatal error config file: %w", err)
		}
		slog.Debug("Config file not found, using defaults and environment")
	}

	return FromViper(v)
}

// FromViper builds a Config from keys already present in v.
func FromViper(v *viper.Viper) (*Config, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(v.GetString("log.level"))); err != nil {
		return nil, fmt.Errorf("invalid log.level: %w", err)
	}

	activityMax := v.GetInt("activity.max")
	if activityMax < 1 {
		return nil, fmt.Errorf("activity.max must be >= 1, got %d", activityMax)
	}

	return &Config{
		ServerAddr:  v.GetString("server.addr"),
		LogLevel:    level,
		SeedFile:    v.GetString("seed.file"),
		ActivityMax: activityMax,
		Elastic: ElasticConfig{
			Enabled: v.GetBool("elastic.enabled"),
			URL:     v.GetString("elastic.url"),
			Index:   v.GetString("elastic.index"),
		},
		Redis: RedisConfig{
			Enabled: v.GetBool("redis.enabled"),
			URL:     v.GetString("redis.url"),
		},
	}, nil
}
