package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Reminder ReminderConfig
	Worker   WorkerConfig
}

type ServerConfig struct {
	Port           int `mapstructure:"port"`
	TimeoutSeconds int `mapstructure:"timeoutSeconds"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	URL          string `mapstructure:"url"`
	PoolSize     int    `mapstructure:"pool_size"`
	MinIdleConns int    `mapstructure:"min_idle_conns"`
	MaxRetries   int    `mapstructure:"max_retries"`
}

// ReminderConfig tunes the scheduling engine's timing policy.
type ReminderConfig struct {
	GraceMinutes          int    `mapstructure:"grace_minutes"`
	FollowupOffsetMinutes int    `mapstructure:"followup_offset_minutes"`
	SnoozeMinutes         int    `mapstructure:"snooze_minutes"`
	WeeklySummaryDay      string `mapstructure:"weekly_summary_day"`
	WeeklySummaryTime     string `mapstructure:"weekly_summary_time"`
}

type WorkerConfig struct {
	ReconcileIntervalMinutes int `mapstructure:"reconcile_interval_minutes"`
	DispatchIntervalSeconds  int `mapstructure:"dispatch_interval_seconds"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.AutomaticEnv()

	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.timeoutSeconds", 30)
	viper.SetDefault("redis.url", "redis://localhost:6379/0")
	viper.SetDefault("reminder.grace_minutes", 30)
	viper.SetDefault("reminder.followup_offset_minutes", 120)
	viper.SetDefault("reminder.snooze_minutes", 15)
	viper.SetDefault("reminder.weekly_summary_day", "sunday")
	viper.SetDefault("reminder.weekly_summary_time", "18:00")
	viper.SetDefault("worker.reconcile_interval_minutes", 15)
	viper.SetDefault("worker.dispatch_interval_seconds", 10)

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}
