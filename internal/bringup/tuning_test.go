package bringup

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tailwrt/tailwrt/internal/setup"
)

func TestInstallTuning_WritesHook(t *testing.T) {
	dir := t.TempDir()
	hotplugDir := filepath.Join(dir, "hotplug.d", "iface")
	if err := os.MkdirAll(hotplugDir, 0o755); err != nil {
		t.Fatalf("MkdirAll(%q) = %v", hotplugDir, err)
	}
	statePath := filepath.Join(dir, "state.yaml")

	if err := InstallTuning(hotplugDir, statePath, testLogger()); err != nil {
		t.Fatalf("InstallTuning() = %v", err)
	}

	hook := filepath.Join(hotplugDir, "99-tailwrt-offload")
	data, err := os.ReadFile(hook)
	if err != nil {
		t.Fatalf("ReadFile(%q) = %v", hook, err)
	}
	content := string(data)
	if !strings.Contains(content, "ethtool -K") {
		t.Errorf("hook missing ethtool invocation:\n%s", content)
	}
	if !strings.Contains(content, "rx-udp-gro-forwarding on") {
		t.Errorf("hook missing offload toggle:\n%s", content)
	}

	info, err := os.Stat(hook)
	if err != nil {
		t.Fatalf("Stat(%q) = %v", hook, err)
	}
	if perm := info.Mode().Perm(); perm != 0o755 {
		t.Errorf("hook perm = %04o, want 0755", perm)
	}
}

func TestInstallTuning_RecordsHookInState(t *testing.T) {
	dir := t.TempDir()
	hotplugDir := filepath.Join(dir, "hotplug.d", "iface")
	if err := os.MkdirAll(hotplugDir, 0o755); err != nil {
		t.Fatalf("MkdirAll(%q) = %v", hotplugDir, err)
	}
	statePath := filepath.Join(dir, "state.yaml")
	if err := setup.SaveState(statePath, &setup.State{InterfaceName: "ts0", ZoneName: "mesh"}); err != nil {
		t.Fatalf("SaveState() = %v", err)
	}

	if err := InstallTuning(hotplugDir, statePath, testLogger()); err != nil {
		t.Fatalf("InstallTuning() = %v", err)
	}

	st, err := setup.LoadState(statePath)
	if err != nil {
		t.Fatalf("LoadState() = %v", err)
	}
	if st == nil {
		t.Fatal("LoadState() = nil, want state")
	}
	wantHook := filepath.Join(hotplugDir, "99-tailwrt-offload")
	if st.TuningHook != wantHook {
		t.Errorf("TuningHook = %q, want %q", st.TuningHook, wantHook)
	}
	// Existing fields survive the update.
	if st.InterfaceName != "ts0" || st.ZoneName != "mesh" {
		t.Errorf("state = %+v, want interface ts0 and zone mesh preserved", st)
	}
}

func TestInstallTuning_NoDispatcherIsNoOp(t *testing.T) {
	dir := t.TempDir()
	hotplugDir := filepath.Join(dir, "absent")
	statePath := filepath.Join(dir, "state.yaml")

	if err := InstallTuning(hotplugDir, statePath, testLogger()); err != nil {
		t.Fatalf("InstallTuning() = %v, want nil no-op", err)
	}

	if _, err := os.Stat(statePath); err == nil {
		t.Error("state file written despite missing dispatcher directory")
	}
}
