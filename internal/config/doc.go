// Package config holds all construction-time configuration for the
// crawler: traversal tunables, transport settings, report format flags,
// and the optional YAML file of named network profiles.
//
// Configuration is populated from CLI flags and passed through the
// application explicitly; nothing reads environment variables or global
// state.
package config
