// Package preflight verifies the environment before pipeline stages run:
// directory permissions, free disk space, and external tool availability.
package preflight

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"hkxtool/internal/config"
	"hkxtool/internal/deps"
)

// Result captures the outcome of one environment check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// CheckDirectoryAccess verifies that the directory exists and is
// readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckFreeSpace verifies the filesystem holding path has at least minMiB
// available. minMiB <= 0 passes unconditionally.
func CheckFreeSpace(name, path string, minMiB int) Result {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}
	freeMiB := stat.Bavail * uint64(stat.Bsize) / (1 << 20)
	if minMiB > 0 && freeMiB < uint64(minMiB) {
		return Result{Name: name, Detail: fmt.Sprintf("%s (%d MiB free, need %d MiB)", path, freeMiB, minMiB)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d MiB free)", path, freeMiB)}
}

// CheckEnvironment runs every directory and space check for the pipeline's
// writable directories. Tool availability is reported separately through
// deps.CheckHavokTools so the status command can render the two groups apart.
func CheckEnvironment(cfg *config.Config) []Result {
	results := []Result{
		CheckDirectoryAccess("Extract directory", cfg.Paths.ExtractDir),
		CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
	}
	if cfg.Paths.SourceDir != "" {
		results = append(results, CheckDirectoryAccess("Source directory", cfg.Paths.SourceDir))
	}
	results = append(results,
		CheckFreeSpace("Extract space", cfg.Paths.ExtractDir, cfg.Tools.MinFreeSpaceMiB),
		CheckFreeSpace("Output space", cfg.Paths.OutputDir, cfg.Tools.MinFreeSpaceMiB),
	)
	return results
}

// AllPassed reports whether every mandatory check and tool came back clean.
func AllPassed(results []Result, statuses []deps.Status) bool {
	for _, r := range results {
		if !r.Passed {
			return false
		}
	}
	for _, s := range statuses {
		if !s.Available && !s.Optional {
			return false
		}
	}
	return true
}
