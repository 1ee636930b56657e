// Package bringup drives the mesh link after a successful install: it
// assembles the daemon's up flags, optionally tightens the firewall while an
// exit node carries all traffic, and installs NIC offload tuning. Every
// helper here is optional and independent of the install/update/uninstall
// state machine.
package bringup

import "strings"

// Options describes one bring-up invocation of the daemon CLI.
type Options struct {
	// AuthKey is a pre-authorized node key (tskey-...). Optional: without
	// it the daemon prints a browser login URL.
	AuthKey string

	// AdvertiseRoutes are the CIDR routes offered as a subnet router.
	AdvertiseRoutes []string

	// AcceptRoutes accepts routes advertised by other nodes.
	AcceptRoutes bool

	// AdvertiseExitNode offers this router as an exit node.
	AdvertiseExitNode bool

	// ExitNode routes all traffic through the named peer.
	ExitNode string

	// AllowLANAccess keeps local LAN access while ExitNode is set.
	AllowLANAccess bool

	// NetfilterOff stops the daemon from managing netfilter rules; the
	// firewall zone created at install handles filtering instead.
	NetfilterOff bool
}

// Args renders the options as the argv handed to tailscale up. Values are
// discrete arguments, never interpolated into a shell string, so interface,
// zone, and auth key values need no quoting or escaping.
func (o Options) Args() []string {
	var args []string
	if o.AuthKey != "" {
		args = append(args, "--authkey="+o.AuthKey)
	}
	if len(o.AdvertiseRoutes) > 0 {
		args = append(args, "--advertise-routes="+strings.Join(o.AdvertiseRoutes, ","))
	}
	if o.AcceptRoutes {
		args = append(args, "--accept-routes")
	}
	if o.AdvertiseExitNode {
		args = append(args, "--advertise-exit-node")
	}
	if o.ExitNode != "" {
		args = append(args, "--exit-node="+o.ExitNode)
		if o.AllowLANAccess {
			args = append(args, "--exit-node-allow-lan-access")
		}
	}
	if o.NetfilterOff {
		args = append(args, "--netfilter-mode=off")
	}
	return args
}
