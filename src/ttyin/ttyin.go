// Package ttyin acquires raw keyboard input for an interactive terminal
// program. It produces one byte per call regardless of how the program's
// standard streams have been redirected: the keyboard device is resolved
// independently of stdin, put into raw mode for the lifetime of the session,
// and read one byte at a time. Callers may stack synthetic byte sources
// (scripted replay, an alternate command stream) ahead of the live device.
package ttyin

import (
	"os"
)

// TestDeviceEnv names an environment variable holding the path of a
// substitute keyboard device. Automated tests set it to a pty so they can
// drive keystrokes deterministically without a real terminal.
const TestDeviceEnv = "TTYIN_TTY"

// In test mode, this byte triggers the Dump hook instead of being returned.
const defaultDumpByte = 0x07

const (
	// nulByte is reserved by command layers to mean "no character" and must
	// never be observable as a genuine keystroke.
	nulByte = 0x00
	// nulRemap is the otherwise-unused value a physical NUL keystroke is
	// remapped to, so it stays distinguishable input instead of vanishing.
	nulRemap = 0xE0
)

// Result classifies the outcome of a single Acquire call.
type Result int

const (
	// ReadByte means a byte was acquired.
	ReadByte Result = iota
	// ReadInterrupted means a signal arrived during the blocking read.
	// The caller should inspect its pending-signal state and call
	// Acquire again if it decides to continue.
	ReadInterrupted
	// ReadError means the live device failed in a way this layer cannot
	// recover from. The only sensible response is an orderly exit with an
	// error status; in particular the caller must not route the report
	// through anything that itself reads the keyboard.
	ReadError
)

// Input owns the keyboard for the duration of a program run. Create one with
// New, Open it once at startup, and Close it at shutdown. All methods except
// Interrupt must be called from the program's single interactive loop;
// Interrupt is safe to call from a signal watcher while Acquire blocks.
type Input struct {
	// AltSourcePolicy decides whether the alternate-stream overlay is
	// engaged at Open. When nil the default policy applies: stdout is a
	// terminal and stderr is not, meaning stderr has been repurposed as a
	// command pipe. The trigger condition is environment-specific, so it
	// is policy, not wiring.
	AltSourcePolicy func() bool

	// Dump, when set and the process is in test mode, is invoked whenever
	// DumpByte arrives from the live device; the byte is consumed and the
	// read loop continues instead of returning.
	Dump func()

	// DumpByte overrides the byte that triggers Dump. Zero selects the
	// default (BEL).
	DumpByte byte

	flush func()

	tty     *os.File
	ownsTTY bool
	session consoleSession

	replay      *replaySource
	replaySpent bool
	sources     []source

	opened bool
	platformInput
}

// New returns an Input whose Acquire flushes pending program output through
// flush before blocking, so the user sees the latest screen state while the
// program waits. flush may be nil.
func New(flush func()) *Input {
	return &Input{flush: flush}
}

// IsTestMode reports whether a substitute keyboard device has been named in
// the environment for scripted testing.
func IsTestMode() bool {
	return os.Getenv(TestDeviceEnv) != ""
}

// Open resolves the keyboard device, snapshots the console state, and
// switches to raw mode. It never fails to find a device; descriptor 2 is the
// final fallback since it is conventionally attached to the same screen and
// keyboard even when stdin reads from a file or pipe. Calling Open on an
// already-open Input is a no-op.
func (in *Input) Open() error {
	if in.opened {
		return nil
	}
	tty, owns := openTTY()
	in.tty = tty
	in.ownsTTY = owns
	if err := in.session.open(tty); err != nil {
		in.releaseTTY()
		return err
	}
	if err := in.openPlatform(); err != nil {
		in.session.close()
		in.releaseTTY()
		return err
	}
	// A previous session may have left its sources behind; engage from a
	// clean slate so reopening never stacks duplicates.
	in.sources = nil
	in.engageAltSource()
	in.opened = true
	return nil
}

// Close restores the console state captured at Open and releases the device.
// Safe to call more than once, and must never acquire input itself: by the
// time it runs, the machinery it would need may already be torn down.
func (in *Input) Close() error {
	if !in.opened {
		return nil
	}
	in.opened = false
	in.closePlatform()
	err := in.session.close()
	in.releaseTTY()
	return err
}

func (in *Input) releaseTTY() {
	// Descriptor 2 is borrowed, not owned; closing it would sever the
	// program's stderr.
	if in.ownsTTY && in.tty != nil {
		in.tty.Close()
	}
	in.tty = nil
}

// SetPointerMode switches the console between its baseline input mode and a
// mode that also delivers pointer (mouse) events, without reopening the
// device and without disturbing the state snapshot Close restores. On
// platforms where pointer events arrive in-band as escape sequences this is
// a no-op.
func (in *Input) SetPointerMode(enabled bool) error {
	return in.session.setPointerMode(enabled)
}

// Inject installs the scripted replay overlay: cmd is emitted verbatim, one
// byte per Acquire call, ahead of all live input. When it runs out and
// addNewline is set, a single '\n' is emitted before the overlay
// deactivates. Install it before the first Acquire: once consumption has
// begun the overlay can neither be replaced nor refilled for the rest of
// the session.
func (in *Input) Inject(cmd string, addNewline bool) {
	if in.replaySpent {
		return
	}
	if in.replay != nil && in.replay.started {
		return
	}
	in.replay = &replaySource{buf: []byte(cmd), addNewline: addNewline}
}

// Acquire produces the next keystroke byte. Overlay sources are drained
// first, highest priority first; only when none has data does the call block
// on the live device. The returned byte is always masked to 8 bits, and a
// NUL is remapped so the "no character" sentinel can never leak through.
func (in *Input) Acquire() (byte, Result) {
	for {
		if in.replay != nil {
			if b, ok := in.replay.next(); ok {
				return sanitize(b), ReadByte
			}
			in.replay = nil
			in.replaySpent = true
		}

		if in.flush != nil {
			in.flush()
		}

		overlaid := false
		var b byte
		for _, src := range in.sources {
			if c, ok := src.next(); ok {
				b, overlaid = c, true
				break
			}
		}

		if !overlaid {
			var n int
			var res Result
			b, n, res = in.readByte()
			if res != ReadByte {
				return 0, res
			}
			if n == 0 {
				// Zero-length read: not an outcome, just try again.
				continue
			}
			if in.Dump != nil && b == in.dumpByte() && IsTestMode() {
				in.Dump()
				continue
			}
		}
		return sanitize(b), ReadByte
	}
}

func (in *Input) dumpByte() byte {
	if in.DumpByte != 0 {
		return in.DumpByte
	}
	return defaultDumpByte
}

func sanitize(b byte) byte {
	if b == nulByte {
		return nulRemap
	}
	return b & 0xFF
}
