// Package config loads the donor settings file (YAML) and applies
// environment and CLI overrides with precedence: CLI flags > Environment
// variables > YAML config > Defaults. The raw acceptor settings mapping is
// passed through untouched for the settings resolver.
package config
