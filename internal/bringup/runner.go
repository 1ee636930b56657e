package bringup

import (
	"fmt"
	"log/slog"

	"github.com/tailwrt/tailwrt/internal/setup"
)

// defaultsForwardKey is the firewall default forward policy tightened while
// an exit node carries all traffic.
const defaultsForwardKey = "firewall.@defaults[0].forward"

// Config holds the names the bring-up flow operates on.
type Config struct {
	// InterfaceName is the mesh tun device to verify after bring-up.
	InterfaceName string

	// ZoneName is the firewall zone created at install.
	ZoneName string

	// StateFilePath is the install state file updated when the firewall is
	// tightened, so uninstall can restore the prior policy.
	StateFilePath string
}

// ApplyDefaults sets default values for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.InterfaceName == "" {
		c.InterfaceName = setup.DefaultInterfaceName
	}
	if c.ZoneName == "" {
		c.ZoneName = setup.DefaultZoneName
	}
	if c.StateFilePath == "" {
		c.StateFilePath = setup.DefaultStateFilePath
	}
}

// Runner executes the bring-up sequence against the injected collaborators.
type Runner struct {
	cfg    Config
	daemon setup.DaemonClient
	store  setup.ConfigStore
	logger *slog.Logger
}

// NewRunner creates a Runner with defaults applied to cfg.
func NewRunner(cfg Config, daemon setup.DaemonClient, store setup.ConfigStore, logger *slog.Logger) *Runner {
	cfg.ApplyDefaults()
	return &Runner{
		cfg:    cfg,
		daemon: daemon,
		store:  store,
		logger: logger.With("component", "bringup"),
	}
}

// Up brings the mesh link up with the assembled flags. When an exit node is
// chosen the firewall is tightened first, so a failed bring-up never leaves
// forwarding open with traffic meant to go through the mesh.
func (r *Runner) Up(opts Options) error {
	if opts.ExitNode != "" {
		if err := r.tightenForwarding(); err != nil {
			return err
		}
	}

	if err := r.daemon.Up(opts.Args()); err != nil {
		return fmt.Errorf("bringup: %w", err)
	}
	r.logger.Info("mesh link up", "interface", r.cfg.InterfaceName)

	r.verifyLink()
	return nil
}

// tightenForwarding records the current default forward policy in the
// install state, sets it to REJECT, and removes the wan membership edge.
// Uninstall restores the recorded policy.
func (r *Runner) tightenForwarding() error {
	prior, err := r.store.Get(defaultsForwardKey)
	if err != nil {
		r.logger.Debug("no default forward policy to record", "error", err)
		prior = ""
	}

	if prior != "" {
		st, err := setup.LoadState(r.cfg.StateFilePath)
		if err != nil {
			return err
		}
		if st == nil {
			st = &setup.State{InterfaceName: r.cfg.InterfaceName, ZoneName: r.cfg.ZoneName}
		}
		if st.ForwardPolicy == "" {
			st.ForwardPolicy = prior
			if err := setup.SaveState(r.cfg.StateFilePath, st); err != nil {
				return err
			}
		}
	}

	if err := r.store.Set(defaultsForwardKey, "REJECT"); err != nil {
		return fmt.Errorf("bringup: tighten forward policy: %w", err)
	}
	if err := r.store.DelList("firewall."+r.cfg.ZoneName+".dest_zone", "wan"); err != nil {
		return fmt.Errorf("bringup: remove wan forward edge: %w", err)
	}
	if err := r.store.Commit(); err != nil {
		return fmt.Errorf("bringup: commit config: %w", err)
	}
	r.logger.Info("forward policy tightened for exit node use", "prior", prior)
	return nil
}
