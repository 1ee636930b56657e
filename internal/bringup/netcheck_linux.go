//go:build linux

package bringup

import "github.com/vishvananda/netlink"

// verifyLink checks that the tun device exists after bring-up. Absence is
// reported, not fatal: the daemon may still be creating the device.
func (r *Runner) verifyLink() {
	link, err := netlink.LinkByName(r.cfg.InterfaceName)
	if err != nil {
		r.logger.Warn("interface not present after bring-up",
			"interface", r.cfg.InterfaceName,
			"error", err,
		)
		return
	}
	r.logger.Debug("interface present",
		"interface", r.cfg.InterfaceName,
		"type", link.Type(),
		"state", link.Attrs().OperState.String(),
	)
}
