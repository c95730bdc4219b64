// Package config assembles the run configuration from built-in defaults,
// CHANARR_* environment variables, an optional TOML profile and CLI flag
// overrides, in that precedence order.
package config
