// Package comm owns the connection to the arm's servo bus. A session is
// opened on activation, used for cyclic angle exchange and closed on
// deactivation; only one session may exist per process.
package comm

import (
	"encoding/json"
	"os"
)

const DefaultConfigFile = "ovis.json"

// Config holds the device connection configuration.
type Config struct {
	Port            string `json:"port"`
	BaudRate        int    `json:"baud_rate,omitempty"`
	CalibrationPath string `json:"calibration,omitempty"`
}

func (c Config) baud() int {
	if c.BaudRate > 0 {
		return c.BaudRate
	}
	return 1_000_000
}

// LoadConfig loads configuration from the default config file.
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(DefaultConfigFile)
}

// LoadConfigFrom loads configuration from a specific file.
func LoadConfigFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigFile)
}

// SaveTo saves configuration to a specific file.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ConfigExists returns true if the default config file exists.
func ConfigExists() bool {
	_, err := os.Stat(DefaultConfigFile)
	return err == nil
}
