package setup

import (
	"os"
	"path/filepath"
	"testing"
)

func TestState_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "etc", "tailwrt", "state.yaml")

	want := &State{
		InterfaceName: "ts0",
		ZoneName:      "mesh",
		ForwardPolicy: "ACCEPT",
		TuningHook:    "/etc/hotplug.d/iface/99-tailwrt-offload",
	}
	if err := SaveState(path, want); err != nil {
		t.Fatalf("SaveState() = %v", err)
	}

	got, err := LoadState(path)
	if err != nil {
		t.Fatalf("LoadState() = %v", err)
	}
	if got == nil {
		t.Fatal("LoadState() = nil, want state")
	}
	if *got != *want {
		t.Errorf("state = %+v, want %+v", got, want)
	}
}

func TestLoadState_MissingFile(t *testing.T) {
	st, err := LoadState(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadState() = %v, want nil error for missing file", err)
	}
	if st != nil {
		t.Errorf("LoadState() = %+v, want nil for missing file", st)
	}
}

func TestLoadState_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")
	if err := os.WriteFile(path, []byte("{not yaml:::"), 0o644); err != nil {
		t.Fatalf("WriteFile(%q) = %v", path, err)
	}

	if _, err := LoadState(path); err == nil {
		t.Fatal("LoadState() = nil, want error for malformed state")
	}
}

func TestRemoveState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")
	if err := SaveState(path, &State{InterfaceName: "ts0", ZoneName: "mesh"}); err != nil {
		t.Fatalf("SaveState() = %v", err)
	}

	if err := RemoveState(path); err != nil {
		t.Fatalf("RemoveState() = %v", err)
	}
	if _, err := os.Stat(path); err == nil {
		t.Error("state file still exists after RemoveState")
	}

	// Removing again is not an error.
	if err := RemoveState(path); err != nil {
		t.Errorf("second RemoveState() = %v, want nil", err)
	}
}
