package setup

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// State records what an install actually created so a later uninstall tears
// down the same objects even when invoked with different flags. Without it,
// an interface rename between install and uninstall would orphan the init
// script patch and the UCI objects.
type State struct {
	// InterfaceName is the interface name used at install time.
	InterfaceName string `yaml:"interface"`

	// ZoneName is the firewall zone name used at install time.
	ZoneName string `yaml:"zone"`

	// ForwardPolicy is the firewall default forward policy captured before
	// the exit-node flow tightened it. Empty when never tightened.
	ForwardPolicy string `yaml:"forward_policy,omitempty"`

	// TuningHook is the path of the installed offload tuning hook, if any.
	TuningHook string `yaml:"tuning_hook,omitempty"`
}

// LoadState reads the install state file. A missing file returns (nil, nil):
// nothing was recorded, the caller falls back to its own configuration.
func LoadState(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("setup: read state file %s: %w", path, err)
	}

	var st State
	if err := yaml.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("setup: parse state file %s: %w", path, err)
	}
	return &st, nil
}

// SaveState writes the install state file, creating its directory if needed.
func SaveState(path string, st *State) error {
	data, err := yaml.Marshal(st)
	if err != nil {
		return fmt.Errorf("setup: encode state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("setup: create state directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("setup: write state file %s: %w", path, err)
	}
	return nil
}

// RemoveState deletes the install state file. A missing file is not an error.
func RemoveState(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("setup: remove state file %s: %w", path, err)
	}
	return nil
}
