package setup

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/tailwrt/tailwrt/internal/fsutil"
)

// requiredCommands are the external tools every mode depends on.
var requiredCommands = []string{"opkg", "uci"}

// Preflight verifies external collaborators before any mutation: required
// binaries resolvable, a readable release version, and fresh config backups.
// A preflight failure aborts the run before the package manager or config
// store is touched.
type Preflight struct {
	cfg      Config
	logger   *slog.Logger
	lookPath func(string) (string, error)
}

// NewPreflight creates a Preflight for the given run configuration.
func NewPreflight(cfg Config, logger *slog.Logger) *Preflight {
	return &Preflight{
		cfg:      cfg,
		logger:   logger.With("component", "preflight"),
		lookPath: exec.LookPath,
	}
}

// Run performs all preflight checks in order and stops at the first failure.
func (p *Preflight) Run() error {
	for _, name := range requiredCommands {
		if _, err := p.lookPath(name); err != nil {
			return fmt.Errorf("setup: required command %q not found: %w", name, err)
		}
		p.logger.Debug("command resolved", "command", name)
	}

	version, err := p.releaseVersion()
	if err != nil {
		return err
	}
	p.logger.Info("detected OpenWrt release", "version", version)

	// A backup that fails to write is fatal: proceeding without one would
	// leave the operator with no recovery copy of a file about to change.
	for _, path := range []string{p.cfg.NetworkConfigPath, p.cfg.FirewallConfigPath} {
		backup := path + ".bak"
		if err := fsutil.CopyFile(path, backup); err != nil {
			return fmt.Errorf("setup: back up %s: %w", path, err)
		}
		p.logger.Info("config backed up", "path", backup)
	}

	return nil
}

// releaseVersion reads DISTRIB_RELEASE from the OpenWrt release file.
func (p *Preflight) releaseVersion() (string, error) {
	data, err := os.ReadFile(p.cfg.ReleaseFilePath)
	if err != nil {
		return "", fmt.Errorf("setup: read release file %s: %w", p.cfg.ReleaseFilePath, err)
	}
	version := parseRelease(string(data))
	if version == "" {
		return "", fmt.Errorf("setup: no DISTRIB_RELEASE in %s", p.cfg.ReleaseFilePath)
	}
	return version, nil
}

// parseRelease extracts the DISTRIB_RELEASE value from openwrt_release
// content, e.g. DISTRIB_RELEASE='23.05.3'.
func parseRelease(data string) string {
	for _, line := range strings.Split(data, "\n") {
		rest, ok := strings.CutPrefix(strings.TrimSpace(line), "DISTRIB_RELEASE=")
		if ok {
			return strings.Trim(rest, `'"`)
		}
	}
	return ""
}
