package config

import (
	"fmt"
	"log/slog"
)

var validLogLevels = map[string]bool{
	"debug":   true,
	"info":    true,
	"warn":    true,
	"warning": true,
	"error":   true,
}

var validSortColumns = map[string]bool{
	"pid":    true,
	"name":   true,
	"user":   true,
	"cpu":    true,
	"memory": true,
	"uptime": true,
}

// Validate checks the config for invalid values and returns all errors found.
// Zero-values that would break the refresh loop are clamped to safe defaults;
// other findings are reported but do not prevent startup.
func (c *Config) Validate() []error {
	var errs []error

	if c.RefreshIntervalSeconds < 1 {
		errs = append(errs, fmt.Errorf("refresh_interval_seconds %d clamped to 1", c.RefreshIntervalSeconds))
		c.RefreshIntervalSeconds = 1
	}
	if c.RefreshIntervalSeconds > 3600 {
		errs = append(errs, fmt.Errorf("refresh_interval_seconds %d clamped to 3600", c.RefreshIntervalSeconds))
		c.RefreshIntervalSeconds = 3600
	}

	if c.RootPID < 1 {
		errs = append(errs, fmt.Errorf("root_pid %d clamped to 1", c.RootPID))
		c.RootPID = 1
	}

	if c.LogLevel != "" && !validLogLevels[c.LogLevel] {
		errs = append(errs, fmt.Errorf("log_level %q is not one of debug/info/warn/error", c.LogLevel))
	}

	if c.LogFormat != "" && c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("log_format %q is not text or json", c.LogFormat))
	}

	if c.SortColumn != "" && !validSortColumns[c.SortColumn] {
		errs = append(errs, fmt.Errorf("sort_column %q is unknown", c.SortColumn))
	}

	return errs
}

// LogValidation writes validation findings as warnings.
func (c *Config) LogValidation(log *slog.Logger) {
	for _, err := range c.Validate() {
		log.Warn("config validation", "finding", err.Error())
	}
}
