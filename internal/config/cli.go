// Package config defines the root command line of mtlgen.
package config

import (
	"github.com/alecthomas/kong"

	"github.com/Alia5/mtlgen/internal/cmd"
)

// Log configures the slog setup and the generated-source dump.
type Log struct {
	Level    string `help:"Log level" enum:"trace,debug,info,warn,error" default:"info" env:"MTLGEN_LOG_LEVEL"`
	File     string `help:"Also write logs to this file" type:"path" env:"MTLGEN_LOG_FILE"`
	Format   string `help:"Log encoding; auto uses text on a terminal and json otherwise" enum:"auto,text,json" default:"auto" env:"MTLGEN_LOG_FORMAT"`
	DumpFile string `help:"Write every generated encoder to this file (stdout at trace level)" type:"path" env:"MTLGEN_LOG_DUMP_FILE"`
}

// CLI is the root kong model.
type CLI struct {
	Config  string           `help:"Path to a JSON, YAML or TOML config file" type:"path" env:"MTLGEN_CONFIG"`
	Log     Log              `embed:"" prefix:"log."`
	Version kong.VersionFlag `help:"Print version and exit"`

	Generate  cmd.Generate      `cmd:"" default:"withargs" help:"Generate Swift render pipeline encoders from Metal sources"`
	ConfigCmd cmd.ConfigCommand `cmd:"" name:"config" help:"Configuration helpers"`
}
