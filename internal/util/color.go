// Package util holds small platform helpers for the command line.
package util

import (
	"os"

	"golang.org/x/term"
)

// Color modes accepted by ColorEnabled.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// ColorEnabled decides whether output written to f should be colored. In auto
// mode that requires a terminal, no NO_COLOR in the environment, and on
// Windows a console that accepts ANSI sequences.
func ColorEnabled(f *os.File, mode string) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if f == nil || !term.IsTerminal(int(f.Fd())) {
		return false
	}
	return enableVirtualTerminal(f)
}
