package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	infraconfig "rateoracle-service/internal/infrastructure/config"

	"gopkg.in/yaml.v3"
)

const (
	SourceHTTP = "http"
	SourceFake = "fake"
)

// FeederConfig is the YAML file read by cmd/feeder.
type FeederConfig struct {
	Source   SourceConfig  `yaml:"source"`
	Denoms   []string      `yaml:"denoms"`
	Interval time.Duration `yaml:"interval"`
	Timeout  time.Duration `yaml:"timeout"`
}

type SourceConfig struct {
	Kind    string `yaml:"kind"`
	BaseURL string `yaml:"base_url"`
	Token   string `yaml:"token"`
	// Fixed values returned by the fake source.
	PurchaseRate   string `yaml:"purchase_rate"`
	RedemptionRate string `yaml:"redemption_rate"`
}

// LoadFeeder reads a YAML config file and expands ${VAR} environment variables.
func LoadFeeder(path string) (*FeederConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	expanded := os.ExpandEnv(string(data))

	var cfg FeederConfig
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config yaml: %w", err)
	}
	return &cfg, nil
}

// LoadFeederAndValidate loads config, applies defaults, and validates.
func LoadFeederAndValidate(path string) (*FeederConfig, error) {
	cfg, err := LoadFeeder(path)
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func (c *FeederConfig) applyDefaults() {
	if c.Source.Kind == "" {
		c.Source.Kind = SourceHTTP
	}
	if c.Interval == 0 {
		c.Interval = infraconfig.DefaultFeedInterval
	}
	if c.Timeout == 0 {
		c.Timeout = infraconfig.DefaultSourceTimeout
	}
}

func (c *FeederConfig) Validate() error {
	var errs []error
	if len(c.Denoms) == 0 {
		errs = append(errs, errors.New("denoms: at least one denom is required"))
	}
	for i, d := range c.Denoms {
		if d == "" {
			errs = append(errs, fmt.Errorf("denoms[%d]: must not be empty", i))
		}
	}
	switch c.Source.Kind {
	case SourceHTTP:
		if c.Source.BaseURL == "" {
			errs = append(errs, errors.New("source.base_url: required for http source"))
		}
	case SourceFake:
		if c.Source.PurchaseRate == "" || c.Source.RedemptionRate == "" {
			errs = append(errs, errors.New("source: fake source needs purchase_rate and redemption_rate"))
		}
	default:
		errs = append(errs, fmt.Errorf("source.kind: unknown kind %q", c.Source.Kind))
	}
	if c.Interval < 0 {
		errs = append(errs, errors.New("interval: must be positive"))
	}
	return errors.Join(errs...)
}
