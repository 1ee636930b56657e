//go:build !linux

package bringup

// verifyLink is a no-op on platforms without netlink.
func (r *Runner) verifyLink() {
	r.logger.Debug("interface verification unsupported on this platform",
		"interface", r.cfg.InterfaceName,
	)
}
