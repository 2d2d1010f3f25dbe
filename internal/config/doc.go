// Package config loads, normalizes, and validates hkxtool configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob
// the CLI needs: game/extract/output directories, external tool locations,
// the animation bundle list, analysis parallelism, the scan cache, and
// logging.
//
// Always obtain settings through this package so downstream code receives
// sanitized absolute paths and clear validation errors.
package config
