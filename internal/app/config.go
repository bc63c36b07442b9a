package app

import (
	"errors"
	"fmt"

	"github.com/vk/beliefgrid/inference"
)

// Output formats for the posterior report.
const (
	OutputText = "text"
	OutputJSON = "json"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// NetworkPaths are files or directories holding .hcl/.yaml definitions.
	NetworkPaths []string
	// Evidence overrides or extends the evidence declared in the files.
	Evidence map[string]string
	Strategy string
	Output   string
	Describe bool

	LogFormat string
	LogLevel  string
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.NetworkPaths) == 0 {
		return nil, errors.New("at least one network path is required")
	}

	if cfg.Strategy == "" {
		cfg.Strategy = string(inference.StrategyTree)
	}
	s, err := inference.ParseStrategy(cfg.Strategy)
	if err != nil {
		return nil, err
	}
	cfg.Strategy = string(s)

	switch cfg.Output {
	case "":
		cfg.Output = OutputText
	case OutputText, OutputJSON:
	default:
		return nil, fmt.Errorf("unknown output format %q: must be 'text' or 'json'", cfg.Output)
	}
	return &cfg, nil
}
