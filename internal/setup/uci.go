package setup

import (
	"fmt"
	"os/exec"
	"strings"
)

// uciStore implements ConfigStore by calling the uci binary.
type uciStore struct{}

// NewConfigStore returns a ConfigStore backed by the real uci binary.
func NewConfigStore() ConfigStore {
	return &uciStore{}
}

func (s *uciStore) Get(key string) (string, error) {
	out, err := exec.Command("uci", "get", key).Output()
	if err != nil {
		return "", fmt.Errorf("setup: uci get %s: %w", key, err)
	}
	return strings.TrimSpace(string(out)), nil
}

func (s *uciStore) Set(key, value string) error {
	return s.run("set", key+"="+value)
}

func (s *uciStore) AddList(key, value string) error {
	return s.run("add_list", key+"="+value)
}

func (s *uciStore) DelList(key, value string) error {
	return s.quiet("del_list", key+"="+value)
}

func (s *uciStore) Delete(key string) error {
	return s.quiet("delete", key)
}

func (s *uciStore) Commit() error {
	return s.run("commit")
}

func (s *uciStore) run(args ...string) error {
	out, err := exec.Command("uci", args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("setup: uci %s: %s: %w", strings.Join(args, " "), strings.TrimSpace(string(out)), err)
	}
	return nil
}

// quiet runs a uci deletion and treats "Entry not found" as success, keeping
// teardown re-runnable against a partially-removed config.
func (s *uciStore) quiet(args ...string) error {
	out, err := exec.Command("uci", args...).CombinedOutput()
	if err != nil {
		if strings.Contains(string(out), "Entry not found") {
			return nil
		}
		return fmt.Errorf("setup: uci %s: %s: %w", strings.Join(args, " "), strings.TrimSpace(string(out)), err)
	}
	return nil
}
