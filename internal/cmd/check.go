package cmd

import (
	"context"
	"fmt"
	"log/slog"
)

// Check validates without writing, and fails when generated files are out of
// date. Meant for CI.
type Check struct {
	Dirs []string `arg:"" optional:"" help:"Package directories to check (default: current directory)"`

	PipelineOptions `embed:""`
}

// Run is called by Kong when the check command is executed.
func (c *Check) Run(ctx context.Context, logger *slog.Logger) error {
	host, sum, err := c.run(ctx, logger, c.Dirs, true, nil, nil)
	if err != nil {
		return err
	}
	if err := c.verdict(sum); err != nil {
		return err
	}

	stale, err := host.Prune()
	if err != nil {
		return err
	}
	if n := len(host.Changed()) + len(stale); n > 0 {
		return fmt.Errorf("%d generated file(s) out of date; run unmanagedgen generate", n)
	}
	logger.Info("Generated files are up to date", "artifacts", sum.Artifacts)
	return nil
}
