// Package config holds the root command-line grammar.
package config

import "github.com/Alia5/unmanagedgen/internal/cmd"

// CLI is parsed by kong. Every flag can also come from the environment
// (UNMANAGEDGEN_*) or from a json/yaml/toml configuration file.
type CLI struct {
	Config string         `help:"Path to a configuration file (json, yaml or toml)" type:"path" env:"UNMANAGEDGEN_CONFIG"`
	Log    cmd.LogOptions `embed:"" prefix:"log."`

	Generate cmd.Generate      `cmd:"" default:"withargs" help:"Generate companion types for annotated declarations"`
	Check    cmd.Check         `cmd:"" help:"Validate annotations and fail when generated files are out of date"`
	Cache    cmd.CacheCommand  `cmd:"" help:"Manage the render cache"`
	Init     cmd.ConfigCommand `cmd:"" name:"config" help:"Configuration file helpers"`
	Version  cmd.Version       `cmd:"" help:"Print the version"`
}
