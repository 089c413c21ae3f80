// Package config loads the harness configuration describing a simulated
// adapter fabric.
package config

import (
	"encoding/hex"
	"io/ioutil"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Config describes one simulation run.
type Config struct {
	LogLevel string          `yaml:"logLevel"`
	Journal  string          `yaml:"journal"`
	Adapters []AdapterConfig `yaml:"adapters"`
}

// AdapterConfig describes one simulated adapter.
type AdapterConfig struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`

	// Powered starts the adapter powered off when false. Defaults to true.
	Powered *bool `yaml:"powered"`

	// Advertise starts an advertisement carrying ManufacturerData.
	Advertise bool `yaml:"advertise"`

	// Scan starts scanning.
	Scan bool `yaml:"scan"`

	// ManufacturerData is hex encoded, company ID first ("ffff0102").
	ManufacturerData string `yaml:"manufacturerData"`

	IntervalMs uint32 `yaml:"intervalMs"`
}

// Load reads and validates a YAML config file.
func Load(path string) (*Config, error) {
	in, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "can't read config")
	}

	var cfg Config
	if err := yaml.Unmarshal(in, &cfg); err != nil {
		return nil, errors.Wrap(err, "can't parse config")
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Journal == "" {
		c.Journal = "discoveries.json"
	}
	for i := range c.Adapters {
		if c.Adapters[i].IntervalMs == 0 {
			c.Adapters[i].IntervalMs = 100
		}
	}
}

func (c *Config) validate() error {
	if len(c.Adapters) == 0 {
		return errors.New("config declares no adapters")
	}
	seen := map[string]bool{}
	for _, ac := range c.Adapters {
		if ac.ID != "" {
			if seen[ac.ID] {
				return errors.Errorf("duplicate adapter id %q", ac.ID)
			}
			seen[ac.ID] = true
		}
		if _, err := ac.Payload(); err != nil {
			return err
		}
	}
	return nil
}

// PoweredOn reports whether the adapter starts powered on.
func (ac AdapterConfig) PoweredOn() bool {
	return ac.Powered == nil || *ac.Powered
}

// Payload decodes the configured manufacturer data.
func (ac AdapterConfig) Payload() ([]byte, error) {
	s := strings.TrimSpace(ac.ManufacturerData)
	if s == "" {
		return nil, nil
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrapf(err, "bad manufacturerData for adapter %q", ac.ID)
	}
	return b, nil
}
