// Package setup implements the install, update, and uninstall flows for the
// Tailscale client on OpenWrt routers. All external state lives in the
// package manager, the UCI config store, the daemon's init script, and the
// daemon's state directory; setup sequences idempotent mutations of those
// collaborators and fails fast on the first error.
package setup

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

const (
	// DefaultInterfaceName is the tun device name tailscaled is told to use.
	DefaultInterfaceName = "tailscale0"

	// DefaultZoneName is the firewall zone created for mesh traffic.
	DefaultZoneName = "tailscale"

	// DefaultPackageName is the opkg package that ships the daemon.
	DefaultPackageName = "tailscale"

	// DefaultFirewallPackage is the packet-filtering dependency installed
	// alongside the daemon.
	DefaultFirewallPackage = "iptables"

	// DefaultServiceName is the procd service name.
	DefaultServiceName = "tailscale"

	// DefaultInitScriptPath is the daemon's init script.
	DefaultInitScriptPath = "/etc/init.d/tailscale"

	// DefaultNetworkConfigPath is the UCI network config file backed up
	// before any mutation.
	DefaultNetworkConfigPath = "/etc/config/network"

	// DefaultFirewallConfigPath is the UCI firewall config file backed up
	// before any mutation.
	DefaultFirewallConfigPath = "/etc/config/firewall"

	// DefaultReleaseFilePath is the OpenWrt release identification file.
	DefaultReleaseFilePath = "/etc/openwrt_release"

	// DefaultStateDir is the daemon's state directory, removed on uninstall.
	DefaultStateDir = "/var/lib/tailscale"

	// DefaultStateFilePath records what an install created so uninstall can
	// tear down the same objects.
	DefaultStateFilePath = "/etc/tailwrt/state.yaml"
)

// Config is the immutable run configuration. It is constructed once from
// CLI flags at process start and passed to every step.
type Config struct {
	// InterfaceName is the network interface name for the mesh tun device.
	InterfaceName string `validate:"required,ifname"`

	// ZoneName is the firewall zone name for mesh traffic.
	ZoneName string `validate:"required,ucisection"`

	// SmallBinary requests the small userspace binary instead of the opkg
	// package. Declared but unimplemented: install logs and skips the
	// package step.
	SmallBinary bool

	PackageName     string `validate:"required"`
	FirewallPackage string `validate:"required"`
	ServiceName     string `validate:"required"`

	InitScriptPath     string `validate:"required"`
	NetworkConfigPath  string `validate:"required"`
	FirewallConfigPath string `validate:"required"`
	ReleaseFilePath    string `validate:"required"`
	StateDir           string `validate:"required"`
	StateFilePath      string `validate:"required"`
}

// ApplyDefaults sets default values for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.InterfaceName == "" {
		c.InterfaceName = DefaultInterfaceName
	}
	if c.ZoneName == "" {
		c.ZoneName = DefaultZoneName
	}
	if c.PackageName == "" {
		c.PackageName = DefaultPackageName
	}
	if c.FirewallPackage == "" {
		c.FirewallPackage = DefaultFirewallPackage
	}
	if c.ServiceName == "" {
		c.ServiceName = DefaultServiceName
	}
	if c.InitScriptPath == "" {
		c.InitScriptPath = DefaultInitScriptPath
	}
	if c.NetworkConfigPath == "" {
		c.NetworkConfigPath = DefaultNetworkConfigPath
	}
	if c.FirewallConfigPath == "" {
		c.FirewallConfigPath = DefaultFirewallConfigPath
	}
	if c.ReleaseFilePath == "" {
		c.ReleaseFilePath = DefaultReleaseFilePath
	}
	if c.StateDir == "" {
		c.StateDir = DefaultStateDir
	}
	if c.StateFilePath == "" {
		c.StateFilePath = DefaultStateFilePath
	}
}

var (
	ifnameRe     = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)
	uciSectionRe = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// ifname: a Linux interface name. IFNAMSIZ limits it to 15 bytes; the
	// charset keeps the value safe as a UCI section name and argv element.
	mustRegister(v, "ifname", func(fl validator.FieldLevel) bool {
		name := fl.Field().String()
		return len(name) <= 15 && ifnameRe.MatchString(name)
	})

	// ucisection: a named UCI section identifier.
	mustRegister(v, "ucisection", func(fl validator.FieldLevel) bool {
		return uciSectionRe.MatchString(fl.Field().String())
	})

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("setup: register validator %q: %v", tag, err))
	}
}

// Validate checks that required fields are set and names are well formed.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		e := verrs[0]
		return fmt.Errorf("setup: config: field %s rejects value %q (rule %q)", e.Field(), fmt.Sprintf("%v", e.Value()), e.Tag())
	}
	return fmt.Errorf("setup: config: %w", err)
}
