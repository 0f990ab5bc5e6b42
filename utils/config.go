package utils

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the engine constants exposed to operators.
// TransmitFraction controls the retained-vs-forwarded ratio;
// DefaultInitialMass controls reconvergence sensitivity and
// steady-state magnitude.
type Config struct {
	TransmitFraction   float64 `yaml:"transmit_fraction"`
	DefaultInitialMass int64   `yaml:"default_initial_mass"`
	TickMillis         int     `yaml:"tick_millis"`
}

func DefaultConfig() Config {
	return Config{
		TransmitFraction:   0.85,
		DefaultInitialMass: 1000,
		TickMillis:         100,
	}
}

// LoadConfiguration parses a yaml config file; fields left unset keep
// their defaults.
func LoadConfiguration(path string) (Config, error) {
	config := DefaultConfig()
	bytes, err := os.ReadFile(path)
	if err != nil {
		return config, fmt.Errorf("read: %v", err)
	}
	if err = yaml.Unmarshal(bytes, &config); err != nil {
		return config, fmt.Errorf("parse: %v", err)
	}
	return config, nil
}
