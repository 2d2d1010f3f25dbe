package config

import (
	"fmt"
	"strings"
)

// normalize expands and absolutizes every path field and canonicalizes
// free-form string settings. Runs after decoding, before validation.
func (c *Config) normalize() error {
	paths := []struct {
		name  string
		value *string
	}{
		{"paths.source_dir", &c.Paths.SourceDir},
		{"paths.extract_dir", &c.Paths.ExtractDir},
		{"paths.output_dir", &c.Paths.OutputDir},
		{"paths.log_dir", &c.Paths.LogDir},
		{"scan_cache.path", &c.ScanCache.Path},
	}
	for _, p := range paths {
		trimmed := strings.TrimSpace(*p.value)
		if trimmed == "" {
			*p.value = ""
			continue
		}
		expanded, err := expandPath(trimmed)
		if err != nil {
			return fmt.Errorf("normalize %s: %w", p.name, err)
		}
		*p.value = expanded
	}

	// Tool entries may be bare command names resolved from PATH, so only
	// tilde-expand ones that look like paths.
	tools := []*string{&c.Tools.WitchyBND, &c.Tools.HkxCmd, &c.Tools.HavokPostProcess}
	for _, tool := range tools {
		trimmed := strings.TrimSpace(*tool)
		if strings.HasPrefix(trimmed, "~") {
			expanded, err := expandPath(trimmed)
			if err != nil {
				return fmt.Errorf("normalize tool path: %w", err)
			}
			trimmed = expanded
		}
		*tool = trimmed
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))

	trimmedBundles := func(in []string) []string {
		out := make([]string, 0, len(in))
		for _, name := range in {
			if trimmed := strings.TrimSpace(name); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		return out
	}
	c.Bundles.Animation = trimmedBundles(c.Bundles.Animation)
	c.Bundles.Behavior = trimmedBundles(c.Bundles.Behavior)

	return nil
}
