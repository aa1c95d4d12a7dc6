//go:build windows

package colors

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// enabled indicates whether the console processes ANSI escape codes.
var enabled bool

// EnableColor queries the stdout console mode and enables coloring only when virtual terminal processing is on.
func EnableColor() {
	var mode uint32
	err := windows.GetConsoleMode(windows.Stdout, &mode)
	enabled = err == nil && mode&windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING != 0
}

// Colorize returns the string s wrapped in ANSI code c, or s unchanged when the console does not support ANSI.
func Colorize(s any, c Color) string {
	if !enabled {
		return fmt.Sprintf("%v", s)
	}
	return fmt.Sprintf("\x1b[%dm%v\x1b[0m", c, s)
}
