package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestResolvePath(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantError bool
	}{
		{
			name:      "empty path",
			input:     "",
			wantError: true,
		},
		{
			name:      "relative path",
			input:     "./test",
			wantError: false,
		},
		{
			name:      "absolute path",
			input:     "/tmp/test",
			wantError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ResolvePath(tt.input)
			if (err != nil) != tt.wantError {
				t.Errorf("ResolvePath(%q) error = %v, wantError %v", tt.input, err, tt.wantError)
			}
			if !tt.wantError && result == "" {
				t.Errorf("ResolvePath(%q) returned empty string", tt.input)
			}
		})
	}
}

func TestResolvePathExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory available")
	}

	result, err := ResolvePath("~/stash")
	if err != nil {
		t.Fatalf("ResolvePath(~/stash) error = %v", err)
	}
	if !strings.HasPrefix(result, home) {
		t.Errorf("ResolvePath(~/stash) = %q, expected prefix %q", result, home)
	}
}

func TestEnsureDirAndExists(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b", "c")

	if DirExists(dir) {
		t.Fatalf("DirExists(%q) = true before creation", dir)
	}
	if err := EnsureDir(dir); err != nil {
		t.Fatalf("EnsureDir(%q) error = %v", dir, err)
	}
	if !DirExists(dir) {
		t.Errorf("DirExists(%q) = false after EnsureDir", dir)
	}

	// idempotent
	if err := EnsureDir(dir); err != nil {
		t.Errorf("EnsureDir(%q) second call error = %v", dir, err)
	}

	file := filepath.Join(dir, "x", "data.json")
	if err := EnsureParent(file); err != nil {
		t.Fatalf("EnsureParent(%q) error = %v", file, err)
	}
	if !DirExists(filepath.Dir(file)) {
		t.Errorf("parent of %q missing after EnsureParent", file)
	}

	if FileExists(file) {
		t.Errorf("FileExists(%q) = true for missing file", file)
	}
	if err := os.WriteFile(file, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if !FileExists(file) {
		t.Errorf("FileExists(%q) = false for existing file", file)
	}
	if FileExists(dir) {
		t.Errorf("FileExists(%q) = true for a directory", dir)
	}
}
