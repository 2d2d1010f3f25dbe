package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"hkxtool/internal/config"
	"hkxtool/internal/logging"
	"hkxtool/internal/scancache"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// ensureLogger builds the shared logger from config, falling back to a nop
// logger when the config or log sink is unusable. Commands still run; they
// just lose file logging.
func (c *commandContext) ensureLogger() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		c.logger = logger
	})
	return c.logger
}

// openCache opens the scan cache when enabled. A nil store with nil error
// means caching is off or unavailable; analysis proceeds without it.
func (c *commandContext) openCache(cfg *config.Config) (*scancache.Store, error) {
	if !cfg.ScanCache.Enabled || strings.TrimSpace(cfg.ScanCache.Path) == "" {
		return nil, nil
	}
	store, err := scancache.Open(cfg.ScanCache.Path)
	if err != nil {
		c.ensureLogger().Warn("scan cache unavailable", logging.Error(err))
		return nil, nil
	}
	return store, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
