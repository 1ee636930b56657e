package setup

import (
	"fmt"
	"os/exec"
	"strings"
)

// tailscaleClient implements DaemonClient against the installed tailscale
// and tailscaled binaries.
type tailscaleClient struct{}

// NewDaemonClient returns a DaemonClient for the real Tailscale binaries.
func NewDaemonClient() DaemonClient {
	return &tailscaleClient{}
}

func (t *tailscaleClient) Available() bool {
	_, err := exec.LookPath("tailscaled")
	return err == nil
}

func (t *tailscaleClient) Cleanup() error {
	out, err := exec.Command("tailscaled", "--cleanup").CombinedOutput()
	if err != nil {
		return fmt.Errorf("setup: tailscaled --cleanup: %s: %w", strings.TrimSpace(string(out)), err)
	}
	return nil
}

func (t *tailscaleClient) Up(args []string) error {
	argv := append([]string{"up"}, args...)
	out, err := exec.Command("tailscale", argv...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("setup: tailscale up: %s: %w", strings.TrimSpace(string(out)), err)
	}
	return nil
}
