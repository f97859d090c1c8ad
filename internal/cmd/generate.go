package cmd

import (
	"context"
	"log/slog"

	"github.com/Alia5/unmanagedgen/internal/codegen/cache"
	"github.com/Alia5/unmanagedgen/internal/codegen/common"
	"github.com/Alia5/unmanagedgen/internal/codegen/generator"
	"github.com/Alia5/unmanagedgen/internal/configpaths"
	"github.com/Alia5/unmanagedgen/internal/log"
)

type Generate struct {
	Dirs []string `arg:"" optional:"" help:"Package directories to process (default: current directory)"`

	PipelineOptions `embed:""`

	DryRun bool `help:"Report what would change without writing files" env:"UNMANAGEDGEN_DRY_RUN"`
	Cache  bool `help:"Reuse previously rendered artifacts" default:"true" negatable:"" env:"UNMANAGEDGEN_CACHE"`
	Prune  bool `help:"Remove generated files whose directive is gone" default:"true" negatable:"" env:"UNMANAGEDGEN_PRUNE"`
}

// Run is called by Kong when the generate command is executed.
func (g *Generate) Run(ctx context.Context, logger *slog.Logger, dump log.DumpLogger) error {
	logger.Debug("Starting generation", "dirs", resolveDirs(g.Dirs), "dryRun", g.DryRun)

	var rc generator.RenderCache
	if g.Cache {
		d, err := cache.Open(configpaths.AppName, common.BuildVersion())
		if err != nil {
			logger.Warn("Render cache unavailable", "error", err)
		} else {
			rc = d
		}
	}

	host, sum, err := g.run(ctx, logger, g.Dirs, g.DryRun, rc, dump)
	if err != nil {
		return err
	}
	if g.Prune {
		if _, err := host.Prune(); err != nil {
			return err
		}
	}
	return g.verdict(sum)
}
