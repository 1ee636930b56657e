package bringup

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/tailwrt/tailwrt/internal/setup"
)

// DefaultHotplugDir is the procd hotplug dispatcher directory for interface
// events. Tuning is skipped entirely when it does not exist.
const DefaultHotplugDir = "/etc/hotplug.d/iface"

// tuningHookName sorts after the stock OpenWrt hooks.
const tuningHookName = "99-tailwrt-offload"

// tuningScript toggles NIC offloads on the wan device whenever it comes up.
// UDP GRO forwarding keeps forwarded mesh traffic off the slow path;
// rx-gro-list interferes with it and is switched off. ethtool failures are
// ignored: not every driver supports the toggles.
const tuningScript = `#!/bin/sh
# Installed by tailwrt. Tunes NIC offloads for forwarded mesh traffic.
[ "$ACTION" = ifup ] || exit 0
[ "$INTERFACE" = wan ] || exit 0
[ -n "$DEVICE" ] || exit 0
ethtool -K "$DEVICE" rx-udp-gro-forwarding on rx-gro-list off 2>/dev/null
exit 0
`

// InstallTuning writes the offload tuning hook into the hotplug dispatcher
// directory and records the hook path in the install state so uninstall
// removes it. A missing dispatcher directory makes this a logged no-op.
func InstallTuning(hotplugDir, stateFilePath string, logger *slog.Logger) error {
	info, err := os.Stat(hotplugDir)
	if err != nil || !info.IsDir() {
		logger.Info("hotplug dispatcher not present, skipping offload tuning", "dir", hotplugDir)
		return nil
	}

	hook := filepath.Join(hotplugDir, tuningHookName)
	if err := os.WriteFile(hook, []byte(tuningScript), 0o755); err != nil {
		return fmt.Errorf("bringup: write tuning hook %s: %w", hook, err)
	}

	st, err := setup.LoadState(stateFilePath)
	if err != nil {
		return err
	}
	if st == nil {
		st = &setup.State{}
	}
	st.TuningHook = hook
	if err := setup.SaveState(stateFilePath, st); err != nil {
		return err
	}

	logger.Info("offload tuning hook installed", "path", hook)
	return nil
}
