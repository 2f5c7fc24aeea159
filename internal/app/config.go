package app

import "errors"

// Config holds everything an App instance needs to run.
type Config struct {
	// Paths are files or directories to load documents from.
	Paths []string

	LogFormat    string // "text" or "json"
	LogLevel     string // "debug", "info", "warn", "error"
	ReportFormat string // "text" or "json"
}

// NewConfig validates a Config and applies defaults.
func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.Paths) == 0 {
		return nil, errors.New("at least one document path is required")
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.ReportFormat == "" {
		cfg.ReportFormat = "text"
	}
	return &cfg, nil
}
