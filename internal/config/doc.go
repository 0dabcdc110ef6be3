// Package config loads, validates, and normalizes filerelay configuration
// from TOML files, including the static folder mapping definitions.
package config
