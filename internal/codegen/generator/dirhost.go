package generator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/Alia5/unmanagedgen/internal/codegen/common"
	"github.com/Alia5/unmanagedgen/internal/codegen/diag"
	"github.com/Alia5/unmanagedgen/internal/codegen/meta"
	"github.com/Alia5/unmanagedgen/internal/codegen/scanner"
)

// DirHost scans package directories and writes artifacts next to the
// declarations they belong to. Files are only rewritten when their content
// changes.
type DirHost struct {
	Dirs   []string
	Scan   scanner.Options
	DryRun bool
	Bag    *diag.Bag

	logger  *slog.Logger
	scanned []string
	emitted map[string]bool
	changed []string
}

func NewDirHost(logger *slog.Logger, dirs []string, opts scanner.Options, dryRun bool) *DirHost {
	return &DirHost{
		Dirs:    dirs,
		Scan:    opts,
		DryRun:  dryRun,
		Bag:     diag.NewBag(),
		logger:  logger,
		emitted: map[string]bool{},
	}
}

func (h *DirHost) Candidates(ctx context.Context) ([]scanner.Candidate, error) {
	var out []scanner.Candidate
	for _, dir := range h.Dirs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pkg, err := scanner.ScanDir(dir, h.Scan)
		if err != nil {
			return nil, err
		}
		h.logger.Debug("Scanned package", "dir", dir, "package", pkg.Name, "candidates", len(pkg.Candidates))
		h.scanned = append(h.scanned, dir)
		out = append(out, pkg.Candidates...)
	}
	return out, nil
}

func (h *DirHost) Report(d diag.Diagnostic) {
	h.Bag.Report(d)
}

func (h *DirHost) Emit(a meta.Artifact) error {
	path := filepath.Join(a.Dir, a.FileName)
	h.emitted[filepath.Clean(path)] = true

	old, err := os.ReadFile(path)
	switch {
	case err == nil && bytes.Equal(old, a.Content):
		h.logger.Debug("Artifact unchanged", "file", path)
		return nil
	case err == nil && !common.IsGenerated(old):
		return fmt.Errorf("refusing to overwrite %s: not generated by unmanagedgen", path)
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return err
	}

	h.changed = append(h.changed, path)
	if h.DryRun {
		h.logger.Info("Would write artifact", "file", path, "key", a.Key)
		return nil
	}
	if err := os.WriteFile(path, a.Content, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	h.logger.Info("Wrote artifact", "file", path, "key", a.Key)
	return nil
}

// Changed lists files that were (or in dry-run mode would be) written.
func (h *DirHost) Changed() []string {
	return slices.Clone(h.changed)
}

// Prune removes generated files in the scanned directories that this run did
// not emit, such as artifacts of deleted directives. It returns the affected
// paths.
func (h *DirHost) Prune() ([]string, error) {
	var stale []string
	for _, dir := range h.scanned {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return stale, fmt.Errorf("failed to read directory %s: %w", dir, err)
		}
		for _, e := range entries {
			name := e.Name()
			if e.IsDir() || !strings.HasSuffix(name, ".go") || !strings.Contains(name, "_gen") {
				continue
			}
			path := filepath.Join(dir, name)
			if h.emitted[filepath.Clean(path)] {
				continue
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return stale, err
			}
			if !common.IsGenerated(data) {
				continue
			}
			stale = append(stale, path)
			if h.DryRun {
				h.logger.Info("Would remove stale artifact", "file", path)
				continue
			}
			if err := os.Remove(path); err != nil {
				return stale, err
			}
			h.logger.Info("Removed stale artifact", "file", path)
		}
	}
	return stale, nil
}
