package setup

import (
	"strings"
	"testing"
)

func TestConfig_ApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.InterfaceName != "tailscale0" {
		t.Errorf("InterfaceName = %q, want tailscale0", cfg.InterfaceName)
	}
	if cfg.ZoneName != "tailscale" {
		t.Errorf("ZoneName = %q, want tailscale", cfg.ZoneName)
	}
	if cfg.PackageName != "tailscale" {
		t.Errorf("PackageName = %q, want tailscale", cfg.PackageName)
	}
	if cfg.FirewallPackage != "iptables" {
		t.Errorf("FirewallPackage = %q, want iptables", cfg.FirewallPackage)
	}
	if cfg.InitScriptPath != "/etc/init.d/tailscale" {
		t.Errorf("InitScriptPath = %q, want /etc/init.d/tailscale", cfg.InitScriptPath)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on defaults = %v", err)
	}
}

func TestConfig_ApplyDefaultsPreservesExplicit(t *testing.T) {
	cfg := Config{InterfaceName: "ts0", ZoneName: "mesh"}
	cfg.ApplyDefaults()

	if cfg.InterfaceName != "ts0" {
		t.Errorf("InterfaceName = %q, want ts0", cfg.InterfaceName)
	}
	if cfg.ZoneName != "mesh" {
		t.Errorf("ZoneName = %q, want mesh", cfg.ZoneName)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{"interface with space", func(c *Config) { c.InterfaceName = "bad name" }, "InterfaceName"},
		{"interface with semicolon", func(c *Config) { c.InterfaceName = "ts0;reboot" }, "InterfaceName"},
		{"interface too long", func(c *Config) { c.InterfaceName = "averyverylongname0" }, "InterfaceName"},
		{"empty interface", func(c *Config) { c.InterfaceName = "" }, "InterfaceName"},
		{"zone with dash", func(c *Config) { c.ZoneName = "bad-zone" }, "ZoneName"},
		{"zone with dot", func(c *Config) { c.ZoneName = "bad.zone" }, "ZoneName"},
		{"empty package", func(c *Config) { c.PackageName = "" }, "PackageName"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg Config
			cfg.ApplyDefaults()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantField) {
				t.Errorf("Validate() error = %q, want mention of %s", err, tt.wantField)
			}
		})
	}
}

func TestConfig_ValidateAcceptsCustomNames(t *testing.T) {
	cfg := Config{InterfaceName: "ts_mesh.0", ZoneName: "mesh_zone2"}
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil for valid custom names", err)
	}
}
