//go:build !windows

package ttyin

import (
	"os"
	"syscall"

	"github.com/pagerkit/ttyin/src/util"
)

const consoleDevice = "/dev/tty"

// openTTY resolves the keyboard device, trying candidates in priority order
// and falling through on any open failure. It cannot fail: the final
// candidate is descriptor 2 itself, borrowed rather than opened. The second
// return value reports whether the caller owns the handle and must close it.
func openTTY() (*os.File, bool) {
	if dev := os.Getenv(TestDeviceEnv); dev != "" {
		if f, err := openDevice(dev); err == nil {
			return f, true
		}
	}
	if dev := ttyname(); dev != "" {
		if f, err := openDevice(dev); err == nil {
			if util.IsTty(f) {
				return f, true
			}
			f.Close()
		}
	}
	if f, err := openDevice(consoleDevice); err == nil {
		return f, true
	}
	// os.Stderr rather than a fresh *os.File for fd 2: a second wrapper
	// would close the descriptor when it is finalized.
	return os.Stderr, false
}

func openDevice(dev string) (*os.File, error) {
	return os.OpenFile(dev, syscall.O_RDONLY, 0)
}
