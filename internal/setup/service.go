package setup

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// initdController implements ServiceController by invoking the service's
// procd init script directly, the way OpenWrt expects.
type initdController struct {
	scriptDir string
}

// NewServiceController returns a ServiceController for /etc/init.d scripts.
func NewServiceController() ServiceController {
	return &initdController{scriptDir: "/etc/init.d"}
}

func (c *initdController) Stop(service string) error {
	return c.run(service, "stop")
}

func (c *initdController) Restart(service string) error {
	return c.run(service, "restart")
}

func (c *initdController) run(service, action string) error {
	script := filepath.Join(c.scriptDir, service)
	out, err := exec.Command(script, action).CombinedOutput()
	if err != nil {
		return fmt.Errorf("setup: %s %s: %s: %w", script, action, strings.TrimSpace(string(out)), err)
	}
	return nil
}
