package setup

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/tailwrt/tailwrt/internal/fsutil"
)

// initScriptAnchor is the procd command line the tun argument is inserted
// after in the daemon's init script.
const initScriptAnchor = "procd_set_param command /usr/sbin/tailscaled"

// tunArgLine returns the line handed to procd so tailscaled names its tun
// device after the configured interface.
func tunArgLine(iface string) string {
	return "\tprocd_append_param command --tun " + iface
}

// PatchInitScript inserts the tun argument after the command anchor. The
// insert is idempotent: a script already carrying the exact line for this
// interface is left untouched, so repeated installs never duplicate it.
func PatchInitScript(path, iface string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("setup: read init script %s: %w", path, err)
	}

	patched, changed, err := insertAfterAnchor(string(data), initScriptAnchor, tunArgLine(iface))
	if err != nil {
		return fmt.Errorf("setup: patch init script %s: %w", path, err)
	}
	if !changed {
		return nil
	}

	return writeScript(path, patched)
}

// UnpatchInitScript removes the tun argument for iface by exact match. A
// missing script (already removed with the package) or a script without the
// line is not an error.
func UnpatchInitScript(path, iface string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("setup: read init script %s: %w", path, err)
	}

	want := strings.TrimSpace(tunArgLine(iface))
	lines := strings.Split(string(data), "\n")
	kept := make([]string, 0, len(lines))
	changed := false
	for _, line := range lines {
		if strings.TrimSpace(line) == want {
			changed = true
			continue
		}
		kept = append(kept, line)
	}
	if !changed {
		return nil
	}

	return writeScript(path, strings.Join(kept, "\n"))
}

func writeScript(path, content string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("setup: stat init script %s: %w", path, err)
	}
	if err := fsutil.WriteFileAtomic(path, []byte(content), info.Mode().Perm()); err != nil {
		return fmt.Errorf("setup: write init script %s: %w", path, err)
	}
	return nil
}

// insertAfterAnchor inserts line directly after the first line whose trimmed
// content equals anchor. It reports false when the line is already present.
func insertAfterAnchor(content, anchor, line string) (string, bool, error) {
	lines := strings.Split(content, "\n")

	want := strings.TrimSpace(line)
	for _, l := range lines {
		if strings.TrimSpace(l) == want {
			return content, false, nil
		}
	}

	for i, l := range lines {
		if strings.TrimSpace(l) == anchor {
			out := make([]string, 0, len(lines)+1)
			out = append(out, lines[:i+1]...)
			out = append(out, line)
			out = append(out, lines[i+1:]...)
			return strings.Join(out, "\n"), true, nil
		}
	}

	return "", false, fmt.Errorf("anchor line %q not found", anchor)
}
