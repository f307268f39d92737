package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// YAMLConfig represents the structure of the config.yaml file.
// Per-vendor settings that would be unwieldy as env vars.
type YAMLConfig struct {
	Pricing   PricingConfig   `yaml:"pricing"`
	Staleness StalenessConfig `yaml:"staleness"`
}

// PricingConfig tunes the pricing drift check.
type PricingConfig struct {
	Skip        []string          `yaml:"skip"`        // Vendors never fetched
	Overrides   map[string]string `yaml:"overrides"`   // Vendor -> dedicated pricing page URL
	Concurrency int               `yaml:"concurrency"` // Parallel fetches
}

// StalenessConfig tunes the staleness report.
type StalenessConfig struct {
	ThresholdDays int `yaml:"threshold_days"`
}

// LoadYAMLConfig loads the YAML configuration file.
// Path is determined by CONFIG_FILE env var, defaulting to "config.yaml".
// Returns nil without error if the config file doesn't exist.
func LoadYAMLConfig() (*YAMLConfig, error) {
	return LoadYAMLConfigFile(getEnv("CONFIG_FILE", "config.yaml"))
}

// LoadYAMLConfigFile loads the YAML configuration from path.
func LoadYAMLConfigFile(path string) (*YAMLConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Config file is optional
			return nil, nil
		}
		return nil, err
	}

	var cfg YAMLConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SkipVendors returns the vendors excluded from pricing checks.
func (c *YAMLConfig) SkipVendors() []string {
	if c == nil {
		return nil
	}
	return c.Pricing.Skip
}

// PricingOverrides returns vendor -> pricing URL overrides.
func (c *YAMLConfig) PricingOverrides() map[string]string {
	if c == nil {
		return nil
	}
	return c.Pricing.Overrides
}
