//go:build windows

package ttyin

import (
	"os"
	"syscall"
)

// openTTY opens the console input buffer directly, so keystrokes keep
// flowing when stdin has been redirected. Falls back to stdin if there is no
// attached console.
func openTTY() (*os.File, bool) {
	h, err := syscall.Open("CONIN$", syscall.O_RDWR, 0)
	if err != nil {
		return os.Stdin, false
	}
	return os.NewFile(uintptr(h), "CONIN$"), true
}
