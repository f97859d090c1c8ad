package cmd

import (
	"log/slog"

	"github.com/Alia5/unmanagedgen/internal/codegen/cache"
	"github.com/Alia5/unmanagedgen/internal/codegen/common"
	"github.com/Alia5/unmanagedgen/internal/configpaths"
)

// CacheCommand groups render cache subcommands.
type CacheCommand struct {
	Clean CacheClean `cmd:"" help:"Remove all cached artifacts"`
	Dir   CacheDir   `cmd:"" help:"Print the cache directory"`
}

type CacheClean struct{}

// Run is called by Kong when the cache clean command is executed.
func (c *CacheClean) Run(logger *slog.Logger) error {
	d, err := cache.Open(configpaths.AppName, common.BuildVersion())
	if err != nil {
		return err
	}
	n, err := d.Entries()
	if err != nil {
		logger.Warn("Failed to count cache entries", "error", err)
	}
	if err := d.Clean(); err != nil {
		return err
	}
	logger.Info("Render cache cleaned", "dir", d.Dir(), "entries", n)
	return nil
}

type CacheDir struct{}

// Run is called by Kong when the cache dir command is executed.
func (c *CacheDir) Run(p *Printer) error {
	d, err := cache.Open(configpaths.AppName, common.BuildVersion())
	if err != nil {
		return err
	}
	return p.Println(d.Dir())
}
