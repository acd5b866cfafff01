//go:build linux || darwin || freebsd

package mmfile

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMapUnix(t *testing.T) {
	path := filepath.Join(t.TempDir(), "short.rep")
	want := []byte("20000\n2\n4\n1\na 0 512\na 1 128\nf 0\nf 1\n")
	if err := os.WriteFile(path, want, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	data, release, err := Map(path)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	if string(data) != string(want) {
		t.Fatalf("contents mismatch: got %q", data)
	}
	if err := release(); err != nil {
		t.Fatalf("release: %v", err)
	}
	if err := release(); err != nil {
		t.Fatalf("second release: %v", err)
	}
}

func TestMapUnixZeroLength(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.rep")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	data, release, err := Map(path)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	if len(data) != 0 {
		t.Fatalf("expected empty contents, got %d bytes", len(data))
	}
	if err := release(); err != nil {
		t.Fatalf("release: %v", err)
	}
}

func TestMapUnixErrors(t *testing.T) {
	if _, _, err := Map(filepath.Join(t.TempDir(), "missing.rep")); err == nil {
		t.Fatalf("expected error for a missing file")
	}
	if _, _, err := Map(t.TempDir()); err == nil {
		t.Fatalf("expected error for a directory")
	}
}
