// Package log builds the slog.Logger and artifact dump sink of a run.
//
// Console logs go to stdout below error level and to stderr at error level.
// When stdout carries machine-readable output (diagnostics as JSON) every
// console record goes to stderr instead. Diagnostics are not logs; they go
// through the diag printer.
package log

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// LevelTrace defines a custom slog level below Debug for very verbose output.
// At trace level emitted artifacts are also dumped to the console.
const LevelTrace slog.Level = -8

func ParseLevel(s string) slog.Level {
	switch s {
	case "trace":
		return LevelTrace
	case "debug":
		return slog.LevelDebug
	case "info", "":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Options select where logs and artifact dumps go.
type Options struct {
	Level string
	// File additionally receives every record at Level.
	File string
	// DumpFile receives the text of every emitted artifact.
	DumpFile string
	// ReserveStdout keeps stdout free for machine-readable output.
	ReserveStdout bool
}

// Logging holds the sinks built from Options.
type Logging struct {
	Logger *slog.Logger
	Dump   DumpLogger

	closers []io.Closer
}

// Setup builds the logger and dump sink. stdout and stderr are the console
// streams; files named in opts are truncated.
func Setup(opts Options, stdout, stderr io.Writer) (*Logging, error) {
	level := ParseLevel(opts.Level)
	l := &Logging{}

	out := stdout
	if opts.ReserveStdout {
		out = stderr
	}
	var handlers fanout
	if opts.File == "" {
		handlers = append(handlers, NewConsole(level, out, stderr))
	} else {
		// With a log file the console only keeps what a terminal user must see.
		handlers = append(handlers, slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: max(level, slog.LevelWarn)}))
		f, err := l.create(opts.File)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		handlers = append(handlers, slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	}
	l.Logger = slog.New(handlers)

	switch {
	case opts.DumpFile != "":
		f, err := l.create(opts.DumpFile)
		if err != nil {
			l.Logger.Error("Failed to open dump file", "file", opts.DumpFile, "error", err)
			l.Dump = NewDump(nil)
			break
		}
		l.Dump = NewDump(f)
	case level <= LevelTrace && !opts.ReserveStdout:
		l.Dump = NewDump(stdout)
	default:
		l.Dump = NewDump(nil)
	}
	return l, nil
}

func (l *Logging) create(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	l.closers = append(l.closers, f)
	return f, nil
}

// Close closes the log and dump files.
func (l *Logging) Close() error {
	var errs []error
	for _, c := range l.closers {
		errs = append(errs, c.Close())
	}
	l.closers = nil
	return errors.Join(errs...)
}

// NewConsole routes records by level: errors to errw, everything else at or
// above level to out.
func NewConsole(level slog.Level, out, errw io.Writer) slog.Handler {
	return console{
		out:  slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}),
		errw: slog.NewTextHandler(errw, &slog.HandlerOptions{Level: level}),
	}
}

type console struct {
	out, errw slog.Handler
}

func (c console) pick(level slog.Level) slog.Handler {
	if level >= slog.LevelError {
		return c.errw
	}
	return c.out
}

func (c console) Enabled(ctx context.Context, level slog.Level) bool {
	return c.pick(level).Enabled(ctx, level)
}

func (c console) Handle(ctx context.Context, r slog.Record) error {
	return c.pick(r.Level).Handle(ctx, r)
}

func (c console) WithAttrs(attrs []slog.Attr) slog.Handler {
	return console{out: c.out.WithAttrs(attrs), errw: c.errw.WithAttrs(attrs)}
}

func (c console) WithGroup(name string) slog.Handler {
	return console{out: c.out.WithGroup(name), errw: c.errw.WithGroup(name)}
}

// fanout sends each record to every handler that accepts its level.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range f {
		if h.Enabled(ctx, r.Level) {
			errs = append(errs, h.Handle(ctx, r.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}
