package witchybnd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"hkxtool/internal/fileutil"
	"hkxtool/internal/logging"
)

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, workDir string, onStdout func(string)) error
}

// Result summarizes one bundle extraction.
type Result struct {
	Bundle string
	HKX    []string
	TAE    []string
	Other  int
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// Client wraps WitchyBND CLI interactions.
type Client struct {
	binary  string
	timeout time.Duration
	exec    Executor
	logger  *slog.Logger
}

// New constructs a WitchyBND client.
func New(binary string, timeoutSeconds int, logger *slog.Logger, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("witchybnd binary required")
	}
	client := &Client{
		binary:  binary,
		timeout: time.Duration(timeoutSeconds) * time.Second,
		exec:    commandExecutor{},
		logger:  logging.NewComponentLogger(logger, "witchybnd"),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Extract unpacks one bundle and sorts the contents into extractDir:
// HKX files under hkx/<bundle>/, TAE under tae/<bundle>/, the rest under
// other/<bundle>/. Returns the extracted animation and event file paths.
func (c *Client) Extract(ctx context.Context, bundlePath, extractDir string) (Result, error) {
	base := BundleBase(filepath.Base(bundlePath))
	result := Result{Bundle: filepath.Base(bundlePath)}

	if _, err := os.Stat(bundlePath); err != nil {
		return result, fmt.Errorf("inspect bundle: %w", err)
	}

	// WitchyBND unpacks next to its input, so work inside a staging dir
	// instead of the game directory.
	staging := filepath.Join(extractDir, ".staging-"+uuid.NewString())
	if err := os.MkdirAll(staging, 0o755); err != nil {
		return result, fmt.Errorf("create staging directory: %w", err)
	}
	defer os.RemoveAll(staging)

	stagedBundle := filepath.Join(staging, filepath.Base(bundlePath))
	if err := fileutil.CopyFileVerified(bundlePath, stagedBundle); err != nil {
		return result, fmt.Errorf("stage bundle: %w", err)
	}

	runCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	c.logger.Info("extracting bundle", logging.String("bundle", result.Bundle))
	if err := c.exec.Run(runCtx, c.binary, []string{stagedBundle}, staging, func(line string) {
		c.logger.Debug("witchybnd output", logging.String("line", line))
	}); err != nil {
		return result, fmt.Errorf("witchybnd %s: %w", result.Bundle, err)
	}

	unpacked, err := findUnpackedDir(staging, stagedBundle, base)
	if err != nil {
		return result, err
	}

	if err := c.organize(unpacked, extractDir, base, &result); err != nil {
		return result, err
	}

	c.logger.Info("bundle extracted",
		logging.String("bundle", result.Bundle),
		logging.Int("hkx", len(result.HKX)),
		logging.Int("tae", len(result.TAE)))
	return result, nil
}

// findUnpackedDir locates WitchyBND's output folder. The tool's naming
// varies between releases, so the known patterns are tried first and any
// new directory containing the base name is accepted as a fallback.
func findUnpackedDir(staging, stagedBundle, base string) (string, error) {
	name := filepath.Base(stagedBundle)
	candidates := []string{
		filepath.Join(staging, strings.TrimSuffix(name, filepath.Ext(name))),
		filepath.Join(staging, strings.TrimSuffix(name, ".dcx")),
		filepath.Join(staging, strings.TrimSuffix(name, filepath.Ext(name))+"-witchybnd"),
	}
	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate, nil
		}
	}

	entries, err := os.ReadDir(staging)
	if err != nil {
		return "", fmt.Errorf("scan staging directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() && strings.Contains(entry.Name(), base) {
			return filepath.Join(staging, entry.Name()), nil
		}
	}
	return "", fmt.Errorf("witchybnd produced no unpacked directory for %s", name)
}

func (c *Client) organize(unpacked, extractDir, base string, result *Result) error {
	return filepath.WalkDir(unpacked, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			return nil
		}
		var category string
		switch strings.ToLower(filepath.Ext(path)) {
		case ".hkx":
			category = "hkx"
		case ".tae":
			category = "tae"
		default:
			category = "other"
		}
		dest := filepath.Join(extractDir, category, base, filepath.Base(path))
		if err := fileutil.MoveFile(path, dest); err != nil {
			return fmt.Errorf("organize %s: %w", filepath.Base(path), err)
		}
		switch category {
		case "hkx":
			result.HKX = append(result.HKX, dest)
		case "tae":
			result.TAE = append(result.TAE, dest)
		default:
			result.Other++
		}
		return nil
	})
}

// BundleBase strips binder suffixes from an archive name: c0000.anibnd.dcx
// becomes c0000.
func BundleBase(name string) string {
	for _, suffix := range []string{".dcx", ".anibnd", ".behbnd", ".chrbnd"} {
		name = strings.ReplaceAll(name, suffix, "")
	}
	if name == "" {
		name = "bundle"
	}
	return name
}

// FindBundles resolves configured bundle names against the source tree. The
// chr subdirectory is the usual layout; the root is checked as a fallback.
// Returns found paths and the names that could not be located.
func FindBundles(sourceDir string, names []string, filter string) (found []string, missing []string) {
	for _, name := range names {
		if filter != "" && !strings.Contains(name, filter) {
			continue
		}
		located := ""
		for _, dir := range []string{filepath.Join(sourceDir, "chr"), sourceDir} {
			candidate := filepath.Join(dir, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				located = candidate
				break
			}
		}
		if located == "" {
			missing = append(missing, name)
			continue
		}
		found = append(found, located)
	}
	return found, missing
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, workDir string, onStdout func(string)) error {
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Dir = workDir
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start command: %w", err)
	}

	var wg sync.WaitGroup
	scan := func(r io.Reader) {
		defer wg.Done()
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			if onStdout != nil {
				onStdout(scanner.Text())
			}
		}
	}
	wg.Add(2)
	go scan(stdout)
	go scan(stderr)

	// Wait closes the pipes, so the scanners must drain first.
	wg.Wait()
	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("witchybnd exited: %w", err)
	}
	return nil
}
