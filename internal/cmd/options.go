package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/Alia5/unmanagedgen/internal/codegen/diag"
	"github.com/Alia5/unmanagedgen/internal/codegen/generator"
	"github.com/Alia5/unmanagedgen/internal/codegen/scanner"
	"github.com/Alia5/unmanagedgen/internal/log"
	"github.com/Alia5/unmanagedgen/internal/util"
)

// LogOptions are the global logging flags.
type LogOptions struct {
	Level    string `help:"Log level: trace, debug, info, warn, error" default:"info" enum:"trace,debug,info,warn,error" env:"UNMANAGEDGEN_LOG_LEVEL"`
	File     string `help:"Log file path (default: console only)" env:"UNMANAGEDGEN_LOG_FILE"`
	DumpFile string `help:"Write the content of every emitted artifact to this file" env:"UNMANAGEDGEN_LOG_DUMP_FILE"`
}

// PipelineOptions are shared by generate and check.
type PipelineOptions struct {
	Jobs            int      `help:"Declarations processed in parallel (0 = GOMAXPROCS)" default:"0" env:"UNMANAGEDGEN_JOBS"`
	Werror          bool     `help:"Treat warnings as errors" env:"UNMANAGEDGEN_WERROR"`
	Format          string   `help:"Diagnostic output format" enum:"text,json" default:"text" env:"UNMANAGEDGEN_FORMAT"`
	Color           string   `help:"Color diagnostics: auto, always, never" enum:"auto,always,never" default:"auto" env:"UNMANAGEDGEN_COLOR"`
	ExternUnmanaged []string `help:"External types with a fixed, pointer-free layout (pkg.Type or import/path.Type)" sep:"," env:"UNMANAGEDGEN_EXTERN_UNMANAGED"`
}

// resolveDirs defaults to the working directory, which is the package
// directory when run through go generate.
func resolveDirs(dirs []string) []string {
	if len(dirs) > 0 {
		return dirs
	}
	return []string{"."}
}

func (o *PipelineOptions) run(
	ctx context.Context,
	logger *slog.Logger,
	dirs []string,
	dryRun bool,
	rc generator.RenderCache,
	dump log.DumpLogger,
) (*generator.DirHost, generator.Summary, error) {
	dirs = resolveDirs(dirs)
	if pkg := os.Getenv("GOPACKAGE"); pkg != "" {
		logger.Debug("Invoked by go generate", "package", pkg, "file", os.Getenv("GOFILE"))
	}

	host := generator.NewDirHost(logger, dirs, scanner.Options{ExternUnmanaged: o.ExternUnmanaged}, dryRun)
	gen := generator.New(logger, generator.Options{
		Jobs:  o.Jobs,
		Cache: rc,
		Dump:  dump,
	})
	sum, err := gen.Run(ctx, host)
	if err != nil {
		return host, sum, err
	}
	if err := o.report(host.Bag); err != nil {
		return host, sum, fmt.Errorf("failed to print diagnostics: %w", err)
	}
	return host, sum, nil
}

// report prints the collected diagnostics. Text goes to stderr like compiler
// output; JSON goes to stdout for tools.
func (o *PipelineOptions) report(bag *diag.Bag) error {
	bag.Sort()
	out := os.Stderr
	if o.Format == diag.FormatJSON {
		out = os.Stdout
	}
	return diag.NewPrinter(out, o.Format, util.ColorEnabled(out, o.Color)).Print(bag.Items())
}

func (o *PipelineOptions) verdict(sum generator.Summary) error {
	if sum.Errors > 0 || (o.Werror && sum.Warnings > 0) {
		return fmt.Errorf("%d error(s), %d warning(s) reported", sum.Errors, sum.Warnings)
	}
	return nil
}
