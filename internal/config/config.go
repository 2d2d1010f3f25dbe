package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	SourceDir  string `toml:"source_dir"`
	ExtractDir string `toml:"extract_dir"`
	OutputDir  string `toml:"output_dir"`
	LogDir     string `toml:"log_dir"`
}

// Tools contains locations and timeouts for the external executables the
// pipeline drives.
type Tools struct {
	WitchyBND            string `toml:"witchybnd"`
	HkxCmd               string `toml:"hkxcmd"`
	HavokPostProcess     string `toml:"havok_postprocess"`
	ExtractTimeout       int    `toml:"extract_timeout"`
	ConvertTimeout       int    `toml:"convert_timeout"`
	MinFreeSpaceMiB      int    `toml:"min_free_space_mib"`
	KeepStagingOnFailure bool   `toml:"keep_staging_on_failure"`
}

// Bundles lists the animation archives extraction operates on.
type Bundles struct {
	Animation []string `toml:"animation"`
	Behavior  []string `toml:"behavior"`
}

// Analysis contains batch analysis settings.
type Analysis struct {
	Workers int `toml:"workers"`
}

// ScanCache contains configuration for the analysis record cache.
type ScanCache struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for hkxtool.
//
// Sections by subsystem:
//   - Paths: game source, extraction, output, and log directories
//   - Tools: WitchyBND / hkxcmd / HavokBehaviorPostProcess locations
//   - Bundles: the anibnd/behbnd archive list extraction targets
//   - Analysis: worker parallelism for batch scans
//   - ScanCache: sqlite-backed cache of analysis records
//   - Logging: log format and level
type Config struct {
	Paths     Paths     `toml:"paths"`
	Tools     Tools     `toml:"tools"`
	Bundles   Bundles   `toml:"bundles"`
	Analysis  Analysis  `toml:"analysis"`
	ScanCache ScanCache `toml:"scan_cache"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/hkxtool/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The second return is
// the resolved path, the third whether a file actually existed there.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("hkxtool.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the pipeline writes into.
// SourceDir is deliberately left alone: it points at game data the tool only
// reads.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.ExtractDir, c.Paths.OutputDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if c.ScanCache.Enabled && strings.TrimSpace(c.ScanCache.Path) != "" {
		if err := os.MkdirAll(filepath.Dir(c.ScanCache.Path), 0o755); err != nil {
			return fmt.Errorf("create scan cache directory: %w", err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
