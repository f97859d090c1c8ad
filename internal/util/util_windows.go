//go:build windows

package util

import (
	"log/slog"
	"os"

	"golang.org/x/sys/windows"
)

// enableVirtualTerminal switches the console behind f to ANSI escape
// processing. Consoles older than Windows 10 refuse, and colors stay off.
func enableVirtualTerminal(f *os.File) bool {
	h := windows.Handle(f.Fd())
	var mode uint32
	if err := windows.GetConsoleMode(h, &mode); err != nil {
		return false
	}
	if mode&windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING != 0 {
		return true
	}
	if err := windows.SetConsoleMode(h, mode|windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING); err != nil {
		slog.Debug("Console does not support virtual terminal sequences", "error", err)
		return false
	}
	return true
}
