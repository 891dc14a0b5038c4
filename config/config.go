package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Database struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
	} `mapstructure:"database"`
	Redis struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		Password string `mapstructure:"password"`
	} `mapstructure:"redis"`
	Server struct {
		Port string `mapstructure:"port"`
	} `mapstructure:"server"`
	JWT struct {
		SecretKey       string `mapstructure:"secret_key"`
		AccessExpiryMin int    `mapstructure:"access_expiry_min"`
	} `mapstructure:"jwt"`
	SMTP struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
	} `mapstructure:"smtp"`
	Lockout struct {
		MaxFailures int `mapstructure:"max_failures"`
		WindowMin   int `mapstructure:"window_min"`
	} `mapstructure:"lockout"`
	Cleanup struct {
		RetentionDays int `mapstructure:"retention_days"`
		IntervalHours int `mapstructure:"interval_hours"`
		BatchSize     int `mapstructure:"batch_size"`
	} `mapstructure:"cleanup"`
}

var AppConfig Config

func LoadConfig(path string) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yml")

	viper.AutomaticEnv()

	// Sensible defaults so a minimal config file still boots.
	viper.SetDefault("jwt.access_expiry_min", 15)
	viper.SetDefault("lockout.max_failures", 5)
	viper.SetDefault("lockout.window_min", 30)
	viper.SetDefault("cleanup.retention_days", 14)
	viper.SetDefault("cleanup.interval_hours", 24)
	viper.SetDefault("cleanup.batch_size", 100)

	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("Error reading config file, %s", err)
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}
}

// AccessTokenTTL returns the configured access token lifetime.
func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.JWT.AccessExpiryMin) * time.Minute
}

// LockoutWindow returns the window used by the login attempt limiter.
func (c *Config) LockoutWindow() time.Duration {
	return time.Duration(c.Lockout.WindowMin) * time.Minute
}
