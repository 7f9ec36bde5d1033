// Package printer holds the registry of configured label printers (loaded
// from a YAML file) and the raw9100 TCP client used to submit ZPL to them.
package printer

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const configVersion = 1

// Connection describes how to reach a printer over the network.
type Connection struct {
	Protocol  string `yaml:"protocol"`
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	TimeoutMS int    `yaml:"timeout_ms"`
}

// ZPLSettings are printer-level ZPL directives applied ahead of every job.
type ZPLSettings struct {
	Darkness   *int   `yaml:"darkness,omitempty"`
	PrintSpeed *int   `yaml:"print_speed,omitempty"`
	PrintMode  string `yaml:"print_mode,omitempty"`
}

// Defaults are job-level defaults applied ahead of every job.
type Defaults struct {
	Copies   *int `yaml:"copies,omitempty"`
	Rotation *int `yaml:"rotation,omitempty"`
}

// Printer is one entry in the registry.
type Printer struct {
	ID         string      `yaml:"id"`
	Name       string      `yaml:"name,omitempty"`
	Connection Connection  `yaml:"connection"`
	ZPL        ZPLSettings `yaml:"zpl,omitempty"`
	Defaults   Defaults    `yaml:"defaults,omitempty"`
}

// Config is the full printers.yml document.
type Config struct {
	ConfigVersion int       `yaml:"config_version"`
	Printers      []Printer `yaml:"printers"`
}

// ByID returns the printer with the given id, if present.
func (c *Config) ByID(id string) (Printer, bool) {
	for _, p := range c.Printers {
		if p.ID == id {
			return p, true
		}
	}
	return Printer{}, false
}

func validateConfig(cfg *Config) error {
	seen := map[string]bool{}
	for i, p := range cfg.Printers {
		if p.ID == "" {
			return fmt.Errorf("$.printers[%d].id: must be a non-empty string", i)
		}
		if seen[p.ID] {
			return fmt.Errorf("$.printers[%d].id: duplicate id %q", i, p.ID)
		}
		seen[p.ID] = true
	}
	return nil
}

// LoadConfig reads and validates a printers.yml file. A missing file is not
// an error: it yields an empty registry, matching a fresh install.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{ConfigVersion: configVersion, Printers: []Printer{}}, nil
	}
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("printers.yml: %w", err)
	}
	if cfg.Printers == nil {
		cfg.Printers = []Printer{}
	}
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SaveConfig validates and writes cfg to path, creating parent directories
// as needed.
func SaveConfig(path string, cfg *Config) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
