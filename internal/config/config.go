// Package config loads runtime configuration from environment
// variables and an optional config file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds runtime settings for the CLI and the allocation engine.
type Config struct {
	// DBPath is the SQLite database location.
	DBPath string `mapstructure:"db_path"`

	// DayStartHour and DayEndHour bound the working hours of a
	// business day. DayEndHour is exclusive.
	DayStartHour int `mapstructure:"day_start_hour"`
	DayEndHour   int `mapstructure:"day_end_hour"`

	// IncludePrefestivi keeps day-before-holiday half-days as working
	// days. They are working by default; set to false to treat them as
	// closures.
	IncludePrefestivi bool `mapstructure:"include_prefestivi"`

	// ExtraHolidaysFile is an optional YAML file listing additional
	// closure dates.
	ExtraHolidaysFile string `mapstructure:"extra_holidays_file"`
}

// Load reads configuration with precedence: environment variables
// (prefix INGAGGIO), then the optional config file, then defaults.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("INGAGGIO")
	v.AutomaticEnv()

	v.SetDefault("db_path", defaultDBPath())
	v.SetDefault("day_start_hour", 8)
	v.SetDefault("day_end_hour", 18)
	v.SetDefault("include_prefestivi", true)
	v.SetDefault("extra_holidays_file", "")

	v.SetConfigName("ingaggio")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".ingaggio"))
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the working-hour window.
func (c *Config) Validate() error {
	if c.DayStartHour < 0 || c.DayStartHour > 23 {
		return fmt.Errorf("day_start_hour %d out of range", c.DayStartHour)
	}
	if c.DayEndHour < 1 || c.DayEndHour > 24 {
		return fmt.Errorf("day_end_hour %d out of range", c.DayEndHour)
	}
	if c.DayStartHour >= c.DayEndHour {
		return fmt.Errorf("day_start_hour %d must precede day_end_hour %d", c.DayStartHour, c.DayEndHour)
	}
	return nil
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "ingaggio.db"
	}
	return filepath.Join(home, ".ingaggio", "ingaggio.db")
}
