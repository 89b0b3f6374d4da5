//go:build !windows

package ttyin

import (
	"os"

	"github.com/pkg/errors"
	"golang.org/x/term"
)

// consoleSession holds the terminal state captured at open so close can put
// the console back exactly as it found it.
type consoleSession struct {
	fd    int
	state *term.State
}

func (s *consoleSession) open(tty *os.File) error {
	s.fd = int(tty.Fd())
	state, err := term.GetState(s.fd)
	if err != nil {
		// Not a terminal (descriptor 2 may be a pipe). There is no
		// raw/cooked distinction to manage, so open and close are
		// local no-ops.
		s.state = nil
		return nil
	}
	s.state = state
	if _, err := term.MakeRaw(s.fd); err != nil {
		s.state = nil
		return errors.Wrap(err, "entering raw mode")
	}
	return nil
}

// setPointerMode is a no-op here: pointer events arrive in-band as escape
// sequences once the terminal is in raw mode.
func (s *consoleSession) setPointerMode(enabled bool) error {
	return nil
}

func (s *consoleSession) close() error {
	if s.state == nil {
		return nil
	}
	state := s.state
	s.state = nil
	return term.Restore(s.fd, state)
}
