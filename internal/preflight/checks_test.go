package preflight

import (
	"os"
	"path/filepath"
	"testing"

	"hkxtool/internal/deps"
)

func TestCheckDirectoryAccess(t *testing.T) {
	dir := t.TempDir()

	if res := CheckDirectoryAccess("dir", dir); !res.Passed {
		t.Fatalf("writable temp dir failed: %+v", res)
	}

	missing := filepath.Join(dir, "missing")
	if res := CheckDirectoryAccess("dir", missing); res.Passed {
		t.Fatal("missing directory passed")
	}

	file := filepath.Join(dir, "file")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if res := CheckDirectoryAccess("dir", file); res.Passed {
		t.Fatal("regular file passed directory check")
	}
}

func TestCheckFreeSpace(t *testing.T) {
	dir := t.TempDir()
	if res := CheckFreeSpace("space", dir, 0); !res.Passed {
		t.Fatalf("zero minimum failed: %+v", res)
	}
	// An absurd minimum cannot be satisfied anywhere.
	if res := CheckFreeSpace("space", dir, 1<<40); res.Passed {
		t.Fatal("impossible minimum passed")
	}
}

func TestAllPassed(t *testing.T) {
	ok := []Result{{Passed: true}}
	bad := []Result{{Passed: false}}
	available := []deps.Status{{Available: true}}
	missingOptional := []deps.Status{{Available: false, Optional: true}}
	missingRequired := []deps.Status{{Available: false}}

	if !AllPassed(ok, available) {
		t.Fatal("clean results should pass")
	}
	if AllPassed(bad, available) {
		t.Fatal("failed check should not pass")
	}
	if !AllPassed(ok, missingOptional) {
		t.Fatal("missing optional tool should still pass")
	}
	if AllPassed(ok, missingRequired) {
		t.Fatal("missing required tool should not pass")
	}
}
