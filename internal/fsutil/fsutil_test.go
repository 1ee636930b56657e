package fsutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")

	if err := WriteFileAtomic(path, []byte("hello"), 0o644); err != nil {
		t.Fatalf("WriteFileAtomic() = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%q) = %v", path, err)
	}
	if string(data) != "hello" {
		t.Errorf("content = %q, want %q", string(data), "hello")
	}

	// No temp file left behind.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir(%q) = %v", dir, err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".tmp-") {
			t.Errorf("temp file %q left behind", e.Name())
		}
	}
}

func TestWriteFileAtomic_ReplacesExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")

	if err := os.WriteFile(path, []byte("old"), 0o644); err != nil {
		t.Fatalf("WriteFile(%q) = %v", path, err)
	}
	if err := WriteFileAtomic(path, []byte("new"), 0o644); err != nil {
		t.Fatalf("WriteFileAtomic() = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%q) = %v", path, err)
	}
	if string(data) != "new" {
		t.Errorf("content = %q, want %q", string(data), "new")
	}
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "config")
	dst := src + ".bak"

	if err := os.WriteFile(src, []byte("config option 'x'\n"), 0o600); err != nil {
		t.Fatalf("WriteFile(%q) = %v", src, err)
	}
	if err := CopyFile(src, dst); err != nil {
		t.Fatalf("CopyFile() = %v", err)
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("ReadFile(%q) = %v", dst, err)
	}
	if string(data) != "config option 'x'\n" {
		t.Errorf("content = %q, want source content", string(data))
	}

	info, err := os.Stat(dst)
	if err != nil {
		t.Fatalf("Stat(%q) = %v", dst, err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("perm = %04o, want 0600", perm)
	}
}

func TestCopyFile_OverwritesExistingBackup(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "config")
	dst := src + ".bak"

	if err := os.WriteFile(src, []byte("current"), 0o644); err != nil {
		t.Fatalf("WriteFile(%q) = %v", src, err)
	}
	if err := os.WriteFile(dst, []byte("stale backup from an earlier run"), 0o644); err != nil {
		t.Fatalf("WriteFile(%q) = %v", dst, err)
	}

	if err := CopyFile(src, dst); err != nil {
		t.Fatalf("CopyFile() = %v", err)
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("ReadFile(%q) = %v", dst, err)
	}
	if string(data) != "current" {
		t.Errorf("backup = %q, want %q", string(data), "current")
	}
}

func TestCopyFile_MissingSource(t *testing.T) {
	dir := t.TempDir()
	if err := CopyFile(filepath.Join(dir, "absent"), filepath.Join(dir, "absent.bak")); err == nil {
		t.Fatal("CopyFile() = nil, want error for missing source")
	}
}
