package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateTools(); err != nil {
		return err
	}
	if err := c.validateAnalysis(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if c.ScanCache.Enabled && c.ScanCache.Path == "" {
		return errors.New("scan_cache.path must be set when scan_cache.enabled is true")
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.ExtractDir == "" {
		return errors.New("paths.extract_dir must be set")
	}
	if c.Paths.OutputDir == "" {
		return errors.New("paths.output_dir must be set")
	}
	if c.Paths.LogDir == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateTools() error {
	if c.Tools.ExtractTimeout <= 0 {
		return errors.New("tools.extract_timeout must be positive")
	}
	if c.Tools.ConvertTimeout <= 0 {
		return errors.New("tools.convert_timeout must be positive")
	}
	if c.Tools.MinFreeSpaceMiB < 0 {
		return errors.New("tools.min_free_space_mib must not be negative")
	}
	return nil
}

func (c *Config) validateAnalysis() error {
	if c.Analysis.Workers < 0 {
		return errors.New("analysis.workers must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
