// Package config loads procman settings from file and environment.
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

type Config struct {
	RefreshIntervalSeconds int    `mapstructure:"refresh_interval_seconds"`
	RootPID                int    `mapstructure:"root_pid"`
	LogLevel               string `mapstructure:"log_level"`
	LogFormat              string `mapstructure:"log_format"`
	LogFile                string `mapstructure:"log_file"`
	LogMaxSizeMB           int    `mapstructure:"log_max_size_mb"`
	LogMaxBackups          int    `mapstructure:"log_max_backups"`
	SortColumn             string `mapstructure:"sort_column"`
	SortDescending         bool   `mapstructure:"sort_descending"`
}

func Default() *Config {
	return &Config{
		RefreshIntervalSeconds: 2,
		RootPID:                1,
		LogLevel:               "info",
		LogFormat:              "text",
		LogMaxSizeMB:           10,
		LogMaxBackups:          3,
		SortColumn:             "cpu",
		SortDescending:         true,
	}
}

// Load reads procman.yaml from the given file, the user config directory, or
// the working directory, with PROCMAN_* environment overrides. A missing
// config file is not an error; defaults apply.
func Load(cfgFile string) (*Config, error) {
	cfg := Default()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("procman")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(configDir())
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("PROCMAN")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func configDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "procman")
	}
	return "."
}
