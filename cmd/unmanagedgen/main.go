package main

import (
	"context"
	"os"
	"os/signal"
	"strings"

	"github.com/Alia5/unmanagedgen/internal/cmd"
	"github.com/Alia5/unmanagedgen/internal/codegen/diag"
	"github.com/Alia5/unmanagedgen/internal/config"
	"github.com/Alia5/unmanagedgen/internal/configpaths"
	"github.com/Alia5/unmanagedgen/internal/log"

	"github.com/alecthomas/kong"
	kongtoml "github.com/alecthomas/kong-toml"
	kongyaml "github.com/alecthomas/kong-yaml"
)

func main() {

	userCfg := findUserConfig(os.Args[1:])
	jsonPaths, yamlPaths, tomlPaths := configpaths.ConfigCandidatePaths(userCfg)

	var cli config.CLI
	ctx := kong.Parse(&cli,
		kong.Name("unmanagedgen"),
		kong.Description("Generates fixed-size buffer and native handle companion types for Go declarations"),
		kong.UsageOnError(),
		// Load configuration from JSON/YAML/TOML in priority order; flags/env override config values.
		kong.Configuration(kong.JSON, jsonPaths...),
		kong.Configuration(kongyaml.Loader, yamlPaths...),
		kong.Configuration(kongtoml.Loader, tomlPaths...),
	)

	logging, err := log.Setup(log.Options{
		Level:    cli.Log.Level,
		File:     cli.Log.File,
		DumpFile: cli.Log.DumpFile,
		// JSON diagnostics are printed to stdout.
		ReserveStdout: cli.Generate.Format == diag.FormatJSON || cli.Check.Format == diag.FormatJSON,
	}, os.Stdout, os.Stderr)
	if err != nil {
		_, _ = os.Stderr.WriteString("failed to setup logger: " + err.Error() + "\n")
		os.Exit(2)
	}
	defer func() { _ = logging.Close() }()
	logger := logging.Logger

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ctx.Bind(logger)
	ctx.Bind(&cmd.Printer{W: os.Stdout})
	ctx.BindTo(logging.Dump, (*log.DumpLogger)(nil))
	ctx.BindTo(runCtx, (*context.Context)(nil))

	err = ctx.Run()
	ctx.FatalIfErrorf(err)
}

func findUserConfig(args []string) string {
	for i := 0; i < len(args); i++ {
		a := args[i]
		if strings.HasPrefix(a, "--config=") {
			return a[len("--config="):]
		}
		if a == "--config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	if v := os.Getenv("UNMANAGEDGEN_CONFIG"); v != "" {
		return v
	}
	return ""
}
