// Package config loads the optional startup file. Everything in it has a
// flag or discovery fallback; the file only exists so multi-homed hosts and
// fixed topologies don't need a wrapper script.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the optional YAML startup file.
type Config struct {
	// BindIP overrides local interface discovery for the listening
	// endpoint.
	BindIP string `yaml:"bind_ip"`

	// Peers are ip:port addresses dialed at startup, through the same
	// path as the connect command. Failures are logged, not fatal.
	Peers []string `yaml:"peers"`
}

// Load reads and parses the file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &cfg, nil
}
