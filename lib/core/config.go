// Package core holds the file configuration for the meshdev daemon: the
// router credentials and mesh parameters pushed into the device at
// startup, plus daemon-side settings like the metrics listener.
package core

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/go-mesh/meshdev/lib/mesh"
	"github.com/go-mesh/meshdev/lib/validation"
)

// Default configuration values
const (
	DefaultMetricsListen = "127.0.0.1:9090"
	DefaultTopology      = "tree"
)

// Config holds all configuration for a meshdev daemon.
type Config struct {
	Router  RouterConfig  `toml:"router"`
	Mesh    MeshConfig    `toml:"mesh"`
	Power   PowerConfig   `toml:"power"`
	Metrics MetricsConfig `toml:"metrics"`
	Script  ScriptConfig  `toml:"script"`
}

// RouterConfig identifies the external router the mesh root attaches to.
type RouterConfig struct {
	// SSID of the router network
	SSID string `toml:"ssid"`
	// Password for the router network
	Password string `toml:"password"`
	// Channel the router operates on (1-14)
	Channel int `toml:"channel"`
}

// MeshConfig contains mesh network settings.
type MeshConfig struct {
	// APPassword protects the soft-AP interface of every node
	APPassword string `toml:"ap_password"`
	// Topology is the routing shape, "tree" or "chain"
	Topology string `toml:"topology"`
	// MaxLayer bounds the depth of the network (0 keeps the default)
	MaxLayer int `toml:"max_layer"`
}

// PowerConfig contains power-save settings.
type PowerConfig struct {
	// Save enables mesh power saving
	Save bool `toml:"save"`
}

// MetricsConfig contains metrics exposition settings.
type MetricsConfig struct {
	// Enabled controls whether the metrics listener is started
	Enabled bool `toml:"enabled"`
	// Listen is the address to bind the metrics server to
	Listen string `toml:"listen"`
}

// ScriptConfig contains script execution settings.
type ScriptConfig struct {
	// Path to a JavaScript file run at startup (optional)
	Path string `toml:"path"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Mesh: MeshConfig{
			Topology: DefaultTopology,
		},
		Power: PowerConfig{
			Save: true,
		},
		Metrics: MetricsConfig{
			Listen: DefaultMetricsListen,
		},
	}
}

// LoadConfig reads configuration from a TOML file.
// If the file doesn't exist, it returns the default configuration.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveConfig writes the configuration to a TOML file.
// It creates the parent directory if it doesn't exist.
func SaveConfig(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// Validate checks the configuration for errors. Empty router credentials
// are allowed here; activation enforces them later so that a config file
// can be written incrementally.
func (c *Config) Validate() error {
	if err := validation.MaxBytes("router.ssid", c.Router.SSID, validation.MaxSSIDLen); err != nil {
		return err
	}
	if err := validation.MaxBytes("router.password", c.Router.Password, validation.MaxPasswordLen); err != nil {
		return err
	}
	if c.Router.Channel != 0 {
		if err := validation.Channel("router.channel", c.Router.Channel); err != nil {
			return err
		}
	}
	if err := validation.MaxBytes("mesh.ap_password", c.Mesh.APPassword, validation.MaxAPPasswordLen); err != nil {
		return err
	}
	topo, err := c.Topology()
	if err != nil {
		return err
	}
	if c.Mesh.MaxLayer != 0 {
		bound := validation.MaxTreeLayer
		if topo == mesh.TopologyChain {
			bound = validation.MaxChainLayer
		}
		if err := validation.MaxLayer("mesh.max_layer", c.Mesh.MaxLayer, bound); err != nil {
			return err
		}
	}
	if c.Metrics.Enabled && c.Metrics.Listen == "" {
		return errors.New("metrics.listen is required when metrics are enabled")
	}
	return nil
}

// Topology parses the configured topology name.
func (c *Config) Topology() (mesh.Topology, error) {
	switch c.Mesh.Topology {
	case "", "tree":
		return mesh.TopologyTree, nil
	case "chain":
		return mesh.TopologyChain, nil
	default:
		return 0, fmt.Errorf("mesh.topology must be \"tree\" or \"chain\", got %q", c.Mesh.Topology)
	}
}
