// Package config loads, validates, and defaults the service configuration.
//
// Configuration is a single TOML file. Load resolves the file from an
// explicit path, ~/.config/faces/config.toml, or a project-local faces.toml,
// applies defaults for anything unset, expands ~ in path fields, and
// validates invariants. A sample file is embedded for `faces config init`.
package config
