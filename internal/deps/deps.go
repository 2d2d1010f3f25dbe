// Package deps reports the availability of the external executables the
// pipeline drives. Nothing here runs a tool; it only resolves paths so the
// status command and preflight checks can explain what is missing.
package deps

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Requirement defines an external dependency hkxtool relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// CheckBinaries evaluates the provided requirements and reports availability.
// Commands containing a path separator are checked on disk; bare names are
// resolved from PATH.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if strings.ContainsRune(cmd, os.PathSeparator) {
			info, err := os.Stat(cmd)
			if err != nil || info.IsDir() || !isExecutable(info) {
				status.Detail = fmt.Sprintf("executable %q not found", cmd)
				results = append(results, status)
				continue
			}
			status.Available = true
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

func isExecutable(info os.FileInfo) bool {
	if info == nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
