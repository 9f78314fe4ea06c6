package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Leaderboard LeaderboardConfig `mapstructure:"leaderboard"`
	Session     SessionConfig     `mapstructure:"session"`
	Development DevelopmentConfig `mapstructure:"development"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type LeaderboardConfig struct {
	DBPath    string `mapstructure:"db_path"`
	RemoteURL string `mapstructure:"remote_url"`
}

type SessionConfig struct {
	TokenSecret   string        `mapstructure:"token_secret"`
	TokenTTL      time.Duration `mapstructure:"token_ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
	MaxIdle       time.Duration `mapstructure:"max_idle"`
}

type DevelopmentConfig struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Enable environment variables
	viper.SetEnvPrefix("HACKERCRUSH")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set defaults
	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("leaderboard.db_path", "data/scores.db")
	viper.SetDefault("leaderboard.remote_url", "")
	viper.SetDefault("session.token_secret", "dev-secret-change-me")
	viper.SetDefault("session.token_ttl", "24h")
	viper.SetDefault("session.sweep_interval", "5m")
	viper.SetDefault("session.max_idle", "30m")
	viper.SetDefault("development.debug", false)
	viper.SetDefault("development.log_level", "info")

	// Read config. A missing file is fine, defaults and environment
	// variables still apply through Unmarshal.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
