//go:build windows

package ttyin

import (
	"os"

	"github.com/pkg/errors"
	"golang.org/x/sys/windows"
)

// consoleSession manages the console input mode. Two operating modes are
// derived from the mode found at open: a baseline mode that keeps ctrl-C
// events flowing and avoids VT input translation, and a pointer mode that
// additionally delivers mouse events (quick-edit must be off or the console
// swallows them). The mode found at open is what close restores.
type consoleSession struct {
	handle      windows.Handle
	saved       bool
	initMode    uint32
	baseMode    uint32
	pointerMode uint32
}

func (s *consoleSession) open(tty *os.File) error {
	s.handle = windows.Handle(tty.Fd())
	if err := windows.GetConsoleMode(s.handle, &s.initMode); err != nil {
		return errors.Wrap(err, "querying console mode")
	}
	s.saved = true
	s.baseMode = (s.initMode | windows.ENABLE_PROCESSED_INPUT) &^ windows.ENABLE_VIRTUAL_TERMINAL_INPUT
	s.pointerMode = (s.baseMode | windows.ENABLE_MOUSE_INPUT | windows.ENABLE_EXTENDED_FLAGS) &^ windows.ENABLE_QUICK_EDIT_MODE
	if err := windows.SetConsoleMode(s.handle, s.baseMode); err != nil {
		s.saved = false
		return errors.Wrap(err, "setting console mode")
	}
	return nil
}

func (s *consoleSession) setPointerMode(enabled bool) error {
	if !s.saved {
		return nil
	}
	mode := s.baseMode
	if enabled {
		mode = s.pointerMode
	}
	return windows.SetConsoleMode(s.handle, mode)
}

func (s *consoleSession) close() error {
	if !s.saved {
		return nil
	}
	s.saved = false
	return windows.SetConsoleMode(s.handle, s.initMode)
}
