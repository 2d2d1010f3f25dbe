package config

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultExtractDir     = "~/.local/share/hkxtool/extracted"
	defaultOutputDir      = "~/.local/share/hkxtool/converted"
	defaultLogDir         = "~/.local/share/hkxtool/logs"
	defaultExtractTimeout = 600
	defaultConvertTimeout = 300
	defaultMinFreeMiB     = 512
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	defaultWorkers        = 1
)

// defaultAnimationBundles is the player-character animation archive set the
// extraction stage targets when nothing else is configured. c0000 is the
// player character.
var defaultAnimationBundles = []string{
	"c0000.anibnd.dcx",        // base player animations
	"c0000_a00_hi.anibnd.dcx", // high-priority action set 00
	"c0000_a1x.anibnd.dcx",    // action set 1x (light attacks etc.)
	"c0000_a2x.anibnd.dcx",    // action set 2x (heavy attacks etc.)
	"c0000_a3x.anibnd.dcx",    // action set 3x (weapon arts etc.)
	"c0000_a4x.anibnd.dcx",    // action set 4x (special moves)
	"c0000_a6x.anibnd.dcx",    // action set 6x
	"c0000_a9x.anibnd.dcx",    // action set 9x (largest set)
}

var defaultBehaviorBundles = []string{
	"c0000.behbnd.dcx", // behavior state machine
	"c0000.chrbnd.dcx", // character binding (skeleton ref)
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ExtractDir: defaultExtractDir,
			OutputDir:  defaultOutputDir,
			LogDir:     defaultLogDir,
		},
		Tools: Tools{
			WitchyBND:        "WitchyBND",
			HkxCmd:           "hkxcmd",
			HavokPostProcess: "HavokBehaviorPostProcess.exe",
			ExtractTimeout:   defaultExtractTimeout,
			ConvertTimeout:   defaultConvertTimeout,
			MinFreeSpaceMiB:  defaultMinFreeMiB,
		},
		Bundles: Bundles{
			Animation: append([]string(nil), defaultAnimationBundles...),
			Behavior:  append([]string(nil), defaultBehaviorBundles...),
		},
		Analysis: Analysis{
			Workers: defaultWorkers,
		},
		ScanCache: ScanCache{
			Enabled: true,
			Path:    defaultScanCachePath(),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

func defaultScanCachePath() string {
	if base, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "hkxtool", "scancache.db")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "~/.cache/hkxtool/scancache.db"
	}
	return filepath.Join(home, ".cache", "hkxtool", "scancache.db")
}
