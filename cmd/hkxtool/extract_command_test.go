package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFakeBundle(t *testing.T, dir, name string) {
	t.Helper()
	path := filepath.Join(dir, "chr", name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir chr: %v", err)
	}
	if err := os.WriteFile(path, []byte("DCX\x00binder"), 0o644); err != nil {
		t.Fatalf("write bundle: %v", err)
	}
}

func TestExtractList(t *testing.T) {
	env := setupCLITestEnv(t)
	writeFakeBundle(t, env.cfg.Paths.SourceDir, "c0000.anibnd.dcx")
	writeFakeBundle(t, env.cfg.Paths.SourceDir, "c0000_a1x.anibnd.dcx")

	out, _, err := runCLI(t, []string{"extract", "--list"}, env.configPath)
	if err != nil {
		t.Fatalf("extract --list: %v", err)
	}
	requireContains(t, out, "c0000.anibnd.dcx")
	requireContains(t, out, "found")
	// Configured bundles that are absent from the tree show up as missing.
	requireContains(t, out, "c0000_a9x.anibnd.dcx")
	requireContains(t, out, "missing")
}

func TestExtractDryRun(t *testing.T) {
	env := setupCLITestEnv(t)
	writeFakeBundle(t, env.cfg.Paths.SourceDir, "c0000_a2x.anibnd.dcx")

	out, _, err := runCLI(t, []string{"extract", "--dry-run", "--file", "a2x"}, env.configPath)
	if err != nil {
		t.Fatalf("extract --dry-run: %v", err)
	}
	requireContains(t, out, "[DRY RUN] Would extract c0000_a2x.anibnd.dcx")
	requireContains(t, out, env.cfg.Paths.ExtractDir)
}

func TestExtractNoBundles(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{"extract"}, env.configPath); err == nil {
		t.Fatal("extract with an empty source tree should fail")
	}
}
