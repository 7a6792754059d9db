package app

import (
	"errors"
	"fmt"
)

// Input formats accepted by Config.Format.
const (
	FormatAuto = "auto"
	FormatText = "text"
	FormatHCL  = "hcl"
	FormatYAML = "yaml"
)

// Output formats accepted by Config.Output.
const (
	OutputText = "text"
	OutputJSON = "json"
)

// Config holds everything an App needs to run.
type Config struct {
	PlanPath string
	// Format selects the plan loader. FormatAuto picks by file extension.
	Format string

	// Workers and BaseDuration parameterise the timed scenario used when the
	// plan declares none.
	Workers      int
	BaseDuration int

	Output    string
	LogFormat string
	LogLevel  string

	PublishURL       string
	PublishNamespace string
	// PublishInsecure skips TLS certificate verification for PublishURL.
	PublishInsecure bool
}

// NewConfig fills defaults and validates cfg.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.PlanPath == "" {
		return nil, errors.New("PlanPath is a required configuration field and cannot be empty")
	}
	if cfg.Format == "" {
		cfg.Format = FormatAuto
	}
	switch cfg.Format {
	case FormatAuto, FormatText, FormatHCL, FormatYAML:
	default:
		return nil, fmt.Errorf("invalid format %q: must be 'auto', 'text', 'hcl' or 'yaml'", cfg.Format)
	}
	if cfg.Output == "" {
		cfg.Output = OutputText
	}
	if cfg.Output != OutputText && cfg.Output != OutputJSON {
		return nil, fmt.Errorf("invalid output %q: must be 'text' or 'json'", cfg.Output)
	}
	if cfg.Workers < 1 {
		return nil, fmt.Errorf("workers must be at least 1, got %d", cfg.Workers)
	}
	if cfg.BaseDuration < 0 {
		return nil, fmt.Errorf("base duration must not be negative, got %d", cfg.BaseDuration)
	}
	return &cfg, nil
}
