package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, _, exists, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("missing file reported as existing")
	}
	if cfg.Tools.WitchyBND != "WitchyBND" {
		t.Fatalf("witchybnd default = %q", cfg.Tools.WitchyBND)
	}
	if cfg.Analysis.Workers != 1 {
		t.Fatalf("workers default = %d", cfg.Analysis.Workers)
	}
	if len(cfg.Bundles.Animation) == 0 {
		t.Fatal("default animation bundle list is empty")
	}
	if !filepath.IsAbs(cfg.Paths.ExtractDir) {
		t.Fatalf("extract_dir not normalized: %q", cfg.Paths.ExtractDir)
	}
}

func TestLoadParsesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
source_dir = "` + dir + `/mods"
extract_dir = "` + dir + `/extracted"
output_dir = "` + dir + `/converted"
log_dir = "` + dir + `/logs"

[tools]
hkxcmd = "/opt/hkxcmd/hkxcmd"
extract_timeout = 120

[bundles]
animation = ["c1000.anibnd.dcx", " ", "c2000.anibnd.dcx"]

[analysis]
workers = 4

[logging]
level = "DEBUG"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("resolved = %q exists = %v", resolved, exists)
	}
	if cfg.Tools.HkxCmd != "/opt/hkxcmd/hkxcmd" {
		t.Fatalf("hkxcmd = %q", cfg.Tools.HkxCmd)
	}
	if cfg.Tools.ExtractTimeout != 120 {
		t.Fatalf("extract_timeout = %d", cfg.Tools.ExtractTimeout)
	}
	if cfg.Analysis.Workers != 4 {
		t.Fatalf("workers = %d", cfg.Analysis.Workers)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("level not canonicalized: %q", cfg.Logging.Level)
	}
	want := []string{"c1000.anibnd.dcx", "c2000.anibnd.dcx"}
	if len(cfg.Bundles.Animation) != len(want) {
		t.Fatalf("bundles = %v", cfg.Bundles.Animation)
	}
	for i, name := range want {
		if cfg.Bundles.Animation[i] != name {
			t.Fatalf("bundles = %v", cfg.Bundles.Animation)
		}
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"negative workers": "[analysis]\nworkers = -1\n",
		"zero timeout":     "[tools]\nextract_timeout = 0\n",
		"bad log format":   "[logging]\nformat = \"xml\"\n",
		"bad log level":    "[logging]\nlevel = \"verbose\"\n",
		"cache no path":    "[scan_cache]\nenabled = true\npath = \"\"\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			if _, _, _, err := Load(path); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestExpandPathTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}
	got, err := ExpandPath("~/mods")
	if err != nil {
		t.Fatalf("ExpandPath: %v", err)
	}
	if got != filepath.Join(home, "mods") {
		t.Fatalf("expanded = %q", got)
	}
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Paths.SourceDir = filepath.Join(dir, "absent-source")
	cfg.Paths.ExtractDir = filepath.Join(dir, "extracted")
	cfg.Paths.OutputDir = filepath.Join(dir, "converted")
	cfg.Paths.LogDir = filepath.Join(dir, "logs")
	cfg.ScanCache.Enabled = true
	cfg.ScanCache.Path = filepath.Join(dir, "cache", "scancache.db")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, d := range []string{cfg.Paths.ExtractDir, cfg.Paths.OutputDir, cfg.Paths.LogDir, filepath.Dir(cfg.ScanCache.Path)} {
		if info, err := os.Stat(d); err != nil || !info.IsDir() {
			t.Fatalf("directory %q not created: %v", d, err)
		}
	}
	// Source dir belongs to the game install and must never be created.
	if _, err := os.Stat(cfg.Paths.SourceDir); !os.IsNotExist(err) {
		t.Fatal("source_dir should not be created")
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[tools]") {
		t.Fatal("sample config missing [tools] section")
	}
}
