package setup

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
)

// defaultsForwardKey is the firewall default forward policy, tightened by
// the exit-node flow and restored here on uninstall.
const defaultsForwardKey = "firewall.@defaults[0].forward"

// Installer sequences the install, update, and uninstall flows against the
// injected collaborators. Every mutating step is fatal on failure; unmet
// preconditions (already installed, nothing to update) short-circuit as
// logged no-ops.
type Installer struct {
	cfg    Config
	pkgs   PackageManager
	store  ConfigStore
	svc    ServiceController
	daemon DaemonClient
	logger *slog.Logger
}

// NewInstaller creates an Installer with defaults applied to cfg.
func NewInstaller(cfg Config, pkgs PackageManager, store ConfigStore, svc ServiceController, daemon DaemonClient, logger *slog.Logger) *Installer {
	cfg.ApplyDefaults()
	return &Installer{
		cfg:    cfg,
		pkgs:   pkgs,
		store:  store,
		svc:    svc,
		daemon: daemon,
		logger: logger.With("component", "setup"),
	}
}

// Install installs the package, provisions the UCI interface and firewall
// zone, patches the init script, and restarts the service. When the package
// is already installed nothing is touched.
func (ins *Installer) Install() error {
	installed, err := ins.pkgs.Installed(ins.cfg.PackageName)
	if err != nil {
		return err
	}
	if installed {
		ins.logger.Info("package already installed, nothing to do", "package", ins.cfg.PackageName)
		return nil
	}

	if err := ins.pkgs.Update(); err != nil {
		return fmt.Errorf("setup: refresh package index: %w", err)
	}

	if ins.cfg.SmallBinary {
		// Known incomplete feature carried over from the shell installer.
		ins.logger.Warn("small binary install not implemented, skipping package install")
	} else {
		if err := ins.pkgs.Install(ins.cfg.PackageName); err != nil {
			return fmt.Errorf("setup: install %s: %w", ins.cfg.PackageName, err)
		}
		ins.logger.Info("package installed", "package", ins.cfg.PackageName)
	}

	// Ordering matters: there is no rollback of edits already applied, so
	// the interface comes first and all edits land before the one commit.
	if err := ins.provisionInterface(); err != nil {
		return err
	}
	if err := ins.provisionZone(); err != nil {
		return err
	}
	if err := ins.store.Commit(); err != nil {
		return fmt.Errorf("setup: commit config: %w", err)
	}
	ins.logger.Info("interface and firewall zone committed",
		"interface", ins.cfg.InterfaceName,
		"zone", ins.cfg.ZoneName,
	)

	if err := PatchInitScript(ins.cfg.InitScriptPath, ins.cfg.InterfaceName); err != nil {
		return err
	}
	ins.logger.Info("init script patched", "path", ins.cfg.InitScriptPath, "interface", ins.cfg.InterfaceName)

	if err := ins.pkgs.Install(ins.cfg.FirewallPackage); err != nil {
		return fmt.Errorf("setup: install %s: %w", ins.cfg.FirewallPackage, err)
	}

	st := &State{InterfaceName: ins.cfg.InterfaceName, ZoneName: ins.cfg.ZoneName}
	if err := SaveState(ins.cfg.StateFilePath, st); err != nil {
		return err
	}

	if err := ins.svc.Restart(ins.cfg.ServiceName); err != nil {
		return fmt.Errorf("setup: restart %s: %w", ins.cfg.ServiceName, err)
	}
	ins.logger.Info("service restarted", "service", ins.cfg.ServiceName)
	return nil
}

// Update refreshes the package index, upgrades the package, and restarts the
// service. When the package is not installed nothing is touched.
func (ins *Installer) Update() error {
	installed, err := ins.pkgs.Installed(ins.cfg.PackageName)
	if err != nil {
		return err
	}
	if !installed {
		ins.logger.Info("package not installed, nothing to update", "package", ins.cfg.PackageName)
		return nil
	}

	if err := ins.pkgs.Update(); err != nil {
		return fmt.Errorf("setup: refresh package index: %w", err)
	}
	if err := ins.pkgs.Upgrade(ins.cfg.PackageName); err != nil {
		return fmt.Errorf("setup: upgrade %s: %w", ins.cfg.PackageName, err)
	}
	if err := ins.svc.Restart(ins.cfg.ServiceName); err != nil {
		return fmt.Errorf("setup: restart %s: %w", ins.cfg.ServiceName, err)
	}
	ins.logger.Info("package upgraded", "package", ins.cfg.PackageName)
	return nil
}

// Uninstall stops the service, runs the daemon's own cleanup, removes the
// package, and tears down everything Install created: the UCI interface and
// zone, the zone membership edges, the init script patch, the tuning hook,
// the daemon state directory, and the recorded install state. When the
// package is not installed nothing is touched.
func (ins *Installer) Uninstall() error {
	installed, err := ins.pkgs.Installed(ins.cfg.PackageName)
	if err != nil {
		return err
	}
	if !installed {
		ins.logger.Info("package not installed, nothing to uninstall", "package", ins.cfg.PackageName)
		return nil
	}

	// Tear down what install recorded, not what today's flags say: the
	// interface name may have changed between runs.
	st, err := LoadState(ins.cfg.StateFilePath)
	if err != nil {
		return err
	}
	iface := ins.cfg.InterfaceName
	zone := ins.cfg.ZoneName
	if st != nil {
		if st.InterfaceName != "" {
			iface = st.InterfaceName
		}
		if st.ZoneName != "" {
			zone = st.ZoneName
		}
	}

	if err := ins.svc.Stop(ins.cfg.ServiceName); err != nil {
		return fmt.Errorf("setup: stop %s: %w", ins.cfg.ServiceName, err)
	}

	if ins.daemon.Available() {
		if err := ins.daemon.Cleanup(); err != nil {
			return fmt.Errorf("setup: daemon cleanup: %w", err)
		}
		ins.logger.Info("daemon cleanup complete")
	} else {
		ins.logger.Debug("daemon binary not present, skipping cleanup")
	}

	if err := ins.pkgs.Remove(ins.cfg.PackageName); err != nil {
		return fmt.Errorf("setup: remove %s: %w", ins.cfg.PackageName, err)
	}
	ins.logger.Info("package removed", "package", ins.cfg.PackageName)

	zoneKey := "firewall." + zone
	if err := ins.store.Delete("network." + iface); err != nil {
		return fmt.Errorf("setup: remove interface object: %w", err)
	}
	for _, edge := range zoneEdges(zoneKey) {
		if err := ins.store.DelList(edge[0], edge[1]); err != nil {
			return fmt.Errorf("setup: remove zone membership: %w", err)
		}
	}
	if err := ins.store.Delete(zoneKey); err != nil {
		return fmt.Errorf("setup: remove zone object: %w", err)
	}

	if st != nil && st.ForwardPolicy != "" {
		if err := ins.store.Set(defaultsForwardKey, st.ForwardPolicy); err != nil {
			return fmt.Errorf("setup: restore forward policy: %w", err)
		}
		ins.logger.Info("default forward policy restored", "policy", st.ForwardPolicy)
	}

	if err := ins.store.Commit(); err != nil {
		return fmt.Errorf("setup: commit config: %w", err)
	}

	if err := UnpatchInitScript(ins.cfg.InitScriptPath, iface); err != nil {
		return err
	}

	if st != nil && st.TuningHook != "" {
		if err := os.Remove(st.TuningHook); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("setup: remove tuning hook %s: %w", st.TuningHook, err)
		}
		ins.logger.Info("tuning hook removed", "path", st.TuningHook)
	}

	if err := os.RemoveAll(ins.cfg.StateDir); err != nil {
		return fmt.Errorf("setup: remove state directory %s: %w", ins.cfg.StateDir, err)
	}
	if err := RemoveState(ins.cfg.StateFilePath); err != nil {
		return err
	}

	ins.logger.Info("uninstall complete", "interface", iface, "zone", zone)
	return nil
}

// provisionInterface creates or overwrites the unmanaged network interface
// object for the mesh tun device.
func (ins *Installer) provisionInterface() error {
	iface := ins.cfg.InterfaceName
	sets := [][2]string{
		{"network." + iface, "interface"},
		{"network." + iface + ".proto", "unmanaged"},
		{"network." + iface + ".device", iface},
	}
	for _, kv := range sets {
		if err := ins.store.Set(kv[0], kv[1]); err != nil {
			return fmt.Errorf("setup: configure interface: %w", err)
		}
	}
	return nil
}

// provisionZone creates or overwrites the firewall zone for mesh traffic
// and its membership edges into the lan and wan zones.
func (ins *Installer) provisionZone() error {
	zoneKey := "firewall." + ins.cfg.ZoneName
	sets := [][2]string{
		{zoneKey, "zone"},
		{zoneKey + ".name", ins.cfg.ZoneName},
		{zoneKey + ".input", "ACCEPT"},
		{zoneKey + ".output", "ACCEPT"},
		{zoneKey + ".forward", "ACCEPT"},
		{zoneKey + ".masq", "1"},
		{zoneKey + ".mtu_fix", "1"},
	}
	for _, kv := range sets {
		if err := ins.store.Set(kv[0], kv[1]); err != nil {
			return fmt.Errorf("setup: configure zone: %w", err)
		}
	}

	if err := ins.store.AddList(zoneKey+".network", ins.cfg.InterfaceName); err != nil {
		return fmt.Errorf("setup: configure zone: %w", err)
	}
	for _, edge := range zoneEdges(zoneKey) {
		if err := ins.store.AddList(edge[0], edge[1]); err != nil {
			return fmt.Errorf("setup: configure zone membership: %w", err)
		}
	}
	return nil
}

// zoneEdges lists the three zone-membership edges created at install and
// removed symmetrically at uninstall.
func zoneEdges(zoneKey string) [][2]string {
	return [][2]string{
		{zoneKey + ".dest_zone", "lan"},
		{zoneKey + ".dest_zone", "wan"},
		{zoneKey + ".src_zone", "lan"},
	}
}
