// Package generator drives the pipeline: candidates come from a Host, each is
// validated and rendered, and the outcome goes back to the Host.
package generator

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/Alia5/unmanagedgen/internal/codegen/common"
	"github.com/Alia5/unmanagedgen/internal/codegen/diag"
	"github.com/Alia5/unmanagedgen/internal/codegen/generator/gosrc"
	"github.com/Alia5/unmanagedgen/internal/codegen/meta"
	"github.com/Alia5/unmanagedgen/internal/codegen/scanner"
	"github.com/Alia5/unmanagedgen/internal/codegen/validate"
)

// Host supplies candidates and receives diagnostics and artifacts. Report and
// Emit are called from a single goroutine, in candidate order.
type Host interface {
	Candidates(ctx context.Context) ([]scanner.Candidate, error)
	Report(d diag.Diagnostic)
	Emit(a meta.Artifact) error
}

// RenderCache stores rendered text by parameters.
type RenderCache interface {
	Get(p meta.Params) ([]byte, bool, error)
	Put(p meta.Params, content []byte) error
}

// Dumper receives every emitted artifact.
type Dumper interface {
	Dump(name string, data []byte)
}

type Options struct {
	// Jobs bounds concurrent validate+render work; <= 0 means GOMAXPROCS.
	Jobs  int
	Cache RenderCache
	Dump  Dumper
}

// Summary counts what a run produced.
type Summary struct {
	Candidates int
	Artifacts  int
	CacheHits  int
	Errors     int
	Warnings   int
}

type Generator struct {
	logger *slog.Logger
	opts   Options
}

func New(logger *slog.Logger, opts Options) *Generator {
	if opts.Jobs <= 0 {
		opts.Jobs = runtime.GOMAXPROCS(0)
	}
	return &Generator{
		logger: logger,
		opts:   opts,
	}
}

type result struct {
	diags     []diag.Diagnostic
	artifacts []meta.Artifact
	hits      int
}

// Run processes every candidate of host. Candidates are independent: a
// diagnostic on one never affects another. The returned error is reserved
// for operational failures; diagnostics are counted in the Summary.
func (g *Generator) Run(ctx context.Context, host Host) (Summary, error) {
	var sum Summary

	cands, err := host.Candidates(ctx)
	if err != nil {
		return sum, fmt.Errorf("collect candidates: %w", err)
	}
	sum.Candidates = len(cands)
	g.logger.Debug("Processing candidates", "count", len(cands), "jobs", g.opts.Jobs)

	results := make([]result, len(cands))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.opts.Jobs)
	for i, c := range cands {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			r, err := g.process(c)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return sum, err
	}

	for _, r := range results {
		sum.CacheHits += r.hits
		for _, d := range r.diags {
			switch d.Severity {
			case diag.SevError:
				sum.Errors++
			case diag.SevWarning:
				sum.Warnings++
			}
			host.Report(d)
		}
		for _, a := range r.artifacts {
			if g.opts.Dump != nil {
				g.opts.Dump.Dump(a.FileName, a.Content)
			}
			if err := host.Emit(a); err != nil {
				return sum, fmt.Errorf("emit %s: %w", a.Key, err)
			}
			sum.Artifacts++
		}
	}

	g.logger.Info("Generation complete",
		"candidates", sum.Candidates,
		"artifacts", sum.Artifacts,
		"cached", sum.CacheHits,
		"errors", sum.Errors,
		"warnings", sum.Warnings)
	return sum, nil
}

func (g *Generator) process(c scanner.Candidate) (result, error) {
	res := validate.Candidate(c)
	r := result{diags: res.Diagnostics}

	for _, p := range res.Params {
		content, hit := g.cached(p)
		if hit {
			r.hits++
		} else {
			var err error
			content, err = gosrc.Render(p)
			if err != nil {
				return r, fmt.Errorf("render %s: %w", p.Key(), err)
			}
			if g.opts.Cache != nil {
				if err := g.opts.Cache.Put(p, content); err != nil {
					g.logger.Warn("Failed to store rendered artifact", "key", p.Key(), "error", err)
				}
			}
		}
		g.logger.Debug("Rendered artifact", "key", p.Key(), "cached", hit)

		r.artifacts = append(r.artifacts, meta.Artifact{
			Key:      p.Key(),
			FileName: common.ArtifactFileName(c.Name, p.Kind, c.Pos.Filename),
			Dir:      filepath.Dir(c.Pos.Filename),
			Decl:     c.Pos,
			Content:  content,
		})
	}
	return r, nil
}

func (g *Generator) cached(p meta.Params) ([]byte, bool) {
	if g.opts.Cache == nil {
		return nil, false
	}
	content, ok, err := g.opts.Cache.Get(p)
	if err != nil {
		g.logger.Warn("Failed to read render cache", "key", p.Key(), "error", err)
		return nil, false
	}
	return content, ok
}
