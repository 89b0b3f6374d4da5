//go:build openbsd

package protector

import "golang.org/x/sys/unix"

// Protect calls OS specific protections like pledge on OpenBSD
func Protect() {
	// The keyboard layer needs the tty promise; rpath covers the walk
	// over /dev when resolving the device.
	unix.PledgePromises("stdio rpath tty")
}
