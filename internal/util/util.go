//go:build !windows

package util

import "os"

func enableVirtualTerminal(f *os.File) bool {
	// Unix terminals understand ANSI sequences as-is.
	return true
}
