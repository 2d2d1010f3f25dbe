// Package hkxcmd drives the external HKX conversion chain: hkxcmd for
// format conversion and HavokBehaviorPostProcess.exe for the 32-bit to
// 64-bit upgrade Skyrim SE needs.
//
// Neither tool ships a library interface, so everything goes through
// subprocess invocation. The Executor seam keeps the chain testable without
// the real executables.
package hkxcmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"hkxtool/internal/deps"
	"hkxtool/internal/logging"
)

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) error
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

// WithAvailability overrides tool detection (primarily for tests).
func WithAvailability(hkxcmd, postProcess bool) Option {
	return func(c *Client) {
		c.hasHkxCmd = hkxcmd
		c.hasPostProcess = postProcess
	}
}

// Client wraps the conversion tool chain.
type Client struct {
	hkxCmd         string
	postProcess    string
	timeout        time.Duration
	hasHkxCmd      bool
	hasPostProcess bool
	exec           Executor
	logger         *slog.Logger
}

// New constructs a conversion client, detecting which tools are present.
func New(hkxCmdBin, postProcessBin string, timeoutSeconds int, logger *slog.Logger, opts ...Option) *Client {
	statuses := deps.CheckBinaries([]deps.Requirement{
		{Name: "hkxcmd", Command: hkxCmdBin},
		{Name: "HavokBehaviorPostProcess", Command: postProcessBin},
	})
	client := &Client{
		hkxCmd:         strings.TrimSpace(hkxCmdBin),
		postProcess:    strings.TrimSpace(postProcessBin),
		timeout:        time.Duration(timeoutSeconds) * time.Second,
		hasHkxCmd:      statuses[0].Available,
		hasPostProcess: statuses[1].Available,
		exec:           commandExecutor{},
		logger:         logging.NewComponentLogger(logger, "hkxcmd"),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Available reports whether at least one conversion route exists.
func (c *Client) Available() bool {
	return c.hasHkxCmd || c.hasPostProcess
}

// Convert runs a plain hkxcmd format conversion.
func (c *Client) Convert(ctx context.Context, inPath, outPath string) error {
	if !c.hasHkxCmd {
		return errors.New("hkxcmd not available")
	}
	return c.run(ctx, c.hkxCmd, "convert", inPath, outPath)
}

// PostProcess upgrades a 32-bit HKX to the 64-bit Skyrim SE layout via
// HavokBehaviorPostProcess.exe.
func (c *Client) PostProcess(ctx context.Context, inPath, outPath string) error {
	if !c.hasPostProcess {
		return errors.New("HavokBehaviorPostProcess not available")
	}
	return c.run(ctx, c.postProcess, "--platformamd64", inPath, outPath)
}

// ConvertForTarget converts one container for the target runtime using
// whichever tools are present. With both tools the file goes through hkxcmd
// into a 32-bit intermediate and then through the post-processor; with only
// one tool that single step runs directly.
func (c *Client) ConvertForTarget(ctx context.Context, inPath, outPath string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	switch {
	case c.hasHkxCmd && c.hasPostProcess:
		intermediate := outPath + ".le.hkx"
		if err := c.Convert(ctx, inPath, intermediate); err != nil {
			return err
		}
		defer os.Remove(intermediate)
		return c.PostProcess(ctx, intermediate, outPath)
	case c.hasHkxCmd:
		return c.Convert(ctx, inPath, outPath)
	case c.hasPostProcess:
		return c.PostProcess(ctx, inPath, outPath)
	default:
		return errors.New("no conversion tools available; install hkxcmd or the Creation Kit")
	}
}

func (c *Client) run(ctx context.Context, binary string, args ...string) error {
	runCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	c.logger.Debug("running converter",
		logging.String("binary", filepath.Base(binary)),
		logging.String("args", strings.Join(args, " ")))
	if err := c.exec.Run(runCtx, binary, args); err != nil {
		return fmt.Errorf("%s %s: %w", filepath.Base(binary), args[0], err)
	}
	return nil
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string) error {
	cmd := exec.CommandContext(ctx, binary, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		detail := strings.TrimSpace(string(output))
		if len(detail) > 300 {
			detail = detail[:300]
		}
		if detail != "" {
			return fmt.Errorf("%w: %s", err, detail)
		}
		return err
	}
	return nil
}
