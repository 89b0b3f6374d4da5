//go:build !windows

package ttyin

import (
	"os"
	"syscall"
)

var devPrefixes = [...]string{"/dev/pts/", "/dev/"}

// ttyname returns the path of the terminal device attached to descriptor 2,
// or "" if it cannot be determined. Descriptor 2 is the one stream that is
// usually still attached to the terminal when stdin or stdout has been
// redirected.
func ttyname() string {
	var stderr syscall.Stat_t
	if syscall.Fstat(2, &stderr) != nil {
		return ""
	}
	// A redirected descriptor is a regular file or pipe with Rdev 0, which
	// would match any non-device entry under /dev. Only a character device
	// can name a terminal.
	if stderr.Mode&syscall.S_IFMT != syscall.S_IFCHR {
		return ""
	}

	for _, prefix := range devPrefixes {
		files, err := os.ReadDir(prefix)
		if err != nil {
			continue
		}

		for _, file := range files {
			info, err := file.Info()
			if err != nil {
				continue
			}
			stat, ok := info.Sys().(*syscall.Stat_t)
			if !ok || stat.Mode&syscall.S_IFMT != syscall.S_IFCHR {
				continue
			}
			if stat.Rdev == stderr.Rdev {
				return prefix + file.Name()
			}
		}
	}
	return ""
}
