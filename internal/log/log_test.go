package log

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"trace": LevelTrace,
		"debug": slog.LevelDebug,
		"":      slog.LevelInfo,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"bogus": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestConsoleSplitsByLevel(t *testing.T) {
	var out, errw bytes.Buffer
	logger := slog.New(NewConsole(slog.LevelDebug, &out, &errw))

	logger.Debug("scanning", "dir", "examples/win32")
	logger.Error("write failed", "file", "path_fixed_chars_gen.go")
	logger.Log(context.Background(), LevelTrace, "hidden")

	assert.Contains(t, out.String(), "scanning")
	assert.NotContains(t, out.String(), "write failed")
	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, errw.String(), "write failed")
	assert.NotContains(t, errw.String(), "scanning")
}

func TestDump(t *testing.T) {
	var buf bytes.Buffer
	d := NewDump(&buf)
	d.Dump("path_fixed_chars_gen.go", []byte("package win"))
	d.Dump("empty.go", nil)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[0], "==> path_fixed_chars_gen.go (11 bytes)"))
	assert.Equal(t, "package win", lines[1])

	NewDump(nil).Dump("x.go", []byte("x"))
}

func TestSetupConsole(t *testing.T) {
	tests := []struct {
		name       string
		opts       Options
		wantStdout []string
		wantStderr []string
	}{
		{
			name:       "split by level",
			opts:       Options{Level: "info"},
			wantStdout: []string{"Wrote artifact"},
			wantStderr: []string{"write failed"},
		},
		{
			name:       "stdout reserved for json",
			opts:       Options{Level: "info", ReserveStdout: true},
			wantStderr: []string{"Wrote artifact", "write failed"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			l, err := Setup(tt.opts, &stdout, &stderr)
			require.NoError(t, err)
			defer l.Close()

			l.Logger.Info("Wrote artifact", "file", "hwnd_native_handle_gen.go")
			l.Logger.Error("write failed")
			l.Logger.Debug("hidden")

			for _, want := range tt.wantStdout {
				assert.Contains(t, stdout.String(), want)
			}
			for _, want := range tt.wantStderr {
				assert.Contains(t, stderr.String(), want)
			}
			if len(tt.wantStdout) == 0 {
				assert.Empty(t, stdout.String())
			}
			assert.NotContains(t, stdout.String()+stderr.String(), "hidden")
		})
	}
}

func TestSetupTraceDump(t *testing.T) {
	var stdout, stderr bytes.Buffer
	l, err := Setup(Options{Level: "trace"}, &stdout, &stderr)
	require.NoError(t, err)
	l.Dump.Dump("path_fixed_chars_gen.go", []byte("package win\n"))
	assert.Contains(t, stdout.String(), "package win")

	stdout.Reset()
	l, err = Setup(Options{Level: "trace", ReserveStdout: true}, &stdout, &stderr)
	require.NoError(t, err)
	l.Dump.Dump("path_fixed_chars_gen.go", []byte("package win\n"))
	l.Logger.Log(context.Background(), LevelTrace, "tracing")
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "tracing")
}

func TestSetupFiles(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "run.log")
	dumpFile := filepath.Join(dir, "dump.txt")

	var stdout, stderr bytes.Buffer
	l, err := Setup(Options{Level: "debug", File: logFile, DumpFile: dumpFile}, &stdout, &stderr)
	require.NoError(t, err)

	l.Logger.Debug("Scanned package", "dir", ".")
	l.Logger.Warn("Render cache unavailable")
	l.Dump.Dump("hwnd_native_handle_gen.go", []byte("package win\n"))
	require.NoError(t, l.Close())

	logged, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(logged), "Scanned package")
	assert.Contains(t, string(logged), "Render cache unavailable")

	dumped, err := os.ReadFile(dumpFile)
	require.NoError(t, err)
	assert.Contains(t, string(dumped), "==> hwnd_native_handle_gen.go")

	assert.Empty(t, stdout.String())
	assert.NotContains(t, stderr.String(), "Scanned package")
	assert.Contains(t, stderr.String(), "Render cache unavailable")
}

func TestSetupUnwritableLogFile(t *testing.T) {
	var stdout, stderr bytes.Buffer
	_, err := Setup(Options{File: filepath.Join(t.TempDir(), "missing", "run.log")}, &stdout, &stderr)
	assert.Error(t, err)
}
