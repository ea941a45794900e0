package core

import (
	"path/filepath"
	"testing"

	"github.com/go-mesh/meshdev/lib/mesh"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Mesh.Topology != DefaultTopology {
		t.Errorf("topology = %q, want %q", cfg.Mesh.Topology, DefaultTopology)
	}
	if !cfg.Power.Save {
		t.Error("power save should default on")
	}
	if cfg.Metrics.Listen != DefaultMetricsListen {
		t.Errorf("metrics listen = %q", cfg.Metrics.Listen)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadConfig_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Mesh.Topology != DefaultTopology {
		t.Errorf("topology = %q, want default", cfg.Mesh.Topology)
	}
}

func TestLoadConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	want := DefaultConfig()
	want.Router.SSID = "HomeNet"
	want.Router.Password = "secretpw"
	want.Router.Channel = 6
	want.Mesh.APPassword = "meshpass"
	want.Mesh.Topology = "chain"
	want.Mesh.MaxLayer = 50
	want.Power.Save = false
	want.Metrics.Enabled = true

	if err := SaveConfig(want, path); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if *got != *want {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid full", func(c *Config) {
			c.Router.SSID = "Net"
			c.Router.Password = "secretpw"
			c.Router.Channel = 6
		}, false},
		{"channel out of range", func(c *Config) { c.Router.Channel = 15 }, true},
		{"ssid too long", func(c *Config) { c.Router.SSID = string(make([]byte, 33)) }, true},
		{"bad topology", func(c *Config) { c.Mesh.Topology = "ring" }, true},
		{"tree layer too deep", func(c *Config) { c.Mesh.MaxLayer = 26 }, true},
		{"chain layer ok", func(c *Config) { c.Mesh.Topology = "chain"; c.Mesh.MaxLayer = 80 }, false},
		{"metrics enabled without listen", func(c *Config) {
			c.Metrics.Enabled = true
			c.Metrics.Listen = ""
		}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestConfig_Topology(t *testing.T) {
	cfg := DefaultConfig()

	cfg.Mesh.Topology = ""
	if topo, err := cfg.Topology(); err != nil || topo != mesh.TopologyTree {
		t.Errorf("empty topology = %v, %v", topo, err)
	}
	cfg.Mesh.Topology = "chain"
	if topo, err := cfg.Topology(); err != nil || topo != mesh.TopologyChain {
		t.Errorf("chain topology = %v, %v", topo, err)
	}
	cfg.Mesh.Topology = "star"
	if _, err := cfg.Topology(); err == nil {
		t.Error("unknown topology should fail")
	}
}
