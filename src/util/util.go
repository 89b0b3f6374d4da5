// Package util provides small shared helpers: terminal predicates, raw
// descriptor reads, and process-exit hooks.
package util

import (
	"os"

	"github.com/mattn/go-isatty"
)

// IsTty returns true if the file is a terminal
func IsTty(file *os.File) bool {
	return isatty.IsTerminal(file.Fd())
}
