package setup

import (
	"fmt"
	"os/exec"
	"strings"
)

// opkgManager implements PackageManager by calling the opkg binary.
type opkgManager struct{}

// NewPackageManager returns a PackageManager backed by the real opkg binary.
func NewPackageManager() PackageManager {
	return &opkgManager{}
}

func (m *opkgManager) Update() error {
	return m.run("update")
}

func (m *opkgManager) Install(pkg string) error {
	return m.run("install", pkg)
}

func (m *opkgManager) Upgrade(pkg string) error {
	return m.run("upgrade", pkg)
}

func (m *opkgManager) Remove(pkg string) error {
	return m.run("remove", pkg)
}

func (m *opkgManager) Installed(pkg string) (bool, error) {
	out, err := exec.Command("opkg", "list-installed").Output()
	if err != nil {
		return false, fmt.Errorf("setup: opkg list-installed: %w", err)
	}
	return installedInList(string(out), pkg), nil
}

// installedInList matches pkg against opkg list-installed output. Lines look
// like "tailscale - 1.58.2-1"; the name is anchored at line start so partial
// names ("tailscale" vs "luci-app-tailscale") never match.
func installedInList(list, pkg string) bool {
	for _, line := range strings.Split(list, "\n") {
		name, _, _ := strings.Cut(line, " ")
		if name != "" && name == pkg {
			return true
		}
	}
	return false
}

func (m *opkgManager) run(args ...string) error {
	out, err := exec.Command("opkg", args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("setup: opkg %s: %s: %w", strings.Join(args, " "), strings.TrimSpace(string(out)), err)
	}
	return nil
}
