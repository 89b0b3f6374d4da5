//go:build !windows

package ttyin

import (
	"os"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/pagerkit/ttyin/src/util"
)

// platformInput carries the self-pipe used to interrupt a blocking read.
// The Go runtime restarts reads interrupted by signals, so the signal
// watcher cannot rely on EINTR reaching us; instead it writes a token to the
// pipe and the read loop selects on both descriptors. The mutex covers the
// write end, which a signal-watching goroutine may touch while Close tears
// the pipe down.
type platformInput struct {
	intrMu sync.Mutex
	intrR  *os.File
	intrW  *os.File
}

func (in *Input) openPlatform() error {
	r, w, err := os.Pipe()
	if err != nil {
		return errors.Wrap(err, "interrupt pipe")
	}
	// An Interrupt burst must never block the signal watcher.
	util.SetNonblock(w, true)
	in.intrR, in.intrW = r, w
	return nil
}

func (in *Input) closePlatform() {
	in.intrMu.Lock()
	defer in.intrMu.Unlock()
	if in.intrR != nil {
		in.intrR.Close()
		in.intrW.Close()
		in.intrR, in.intrW = nil, nil
	}
}

// Interrupt makes a blocked Acquire return ReadInterrupted. One call yields
// exactly one interrupted outcome; bytes already on the device are not
// consumed and are delivered by the next Acquire. Safe to call from a
// signal-watching goroutine, including while Close runs.
func (in *Input) Interrupt() {
	in.intrMu.Lock()
	defer in.intrMu.Unlock()
	if in.intrW != nil {
		// Non-blocking: a burst beyond the pipe's capacity is dropped,
		// never stalls the watcher.
		in.intrW.Write([]byte{0})
	}
}

// readByte performs one blocking read of a single byte. n is 0 when the
// device returned no data (the caller retries); res is ReadInterrupted when
// either the self-pipe fired or the read itself was cut short by a signal.
func (in *Input) readByte() (b byte, n int, res Result) {
	if !in.opened {
		return 0, 0, ReadError
	}
	fd := int(in.tty.Fd())
	intrFd := int(in.intrR.Fd())
	var buf [1]byte

	for {
		var rfds unix.FdSet
		limit := len(rfds.Bits) * unix.NFDBITS
		if fd >= limit || intrFd >= limit {
			// Descriptor out of select range; fall back to a plain
			// blocking read without the interrupt gate.
			return in.plainRead(fd, buf[:])
		}

		rfds.Set(fd)
		rfds.Set(intrFd)
		if _, err := unix.Select(max(fd, intrFd)+1, &rfds, nil, nil, nil); err != nil {
			if err == unix.EINTR {
				continue
			}
			return 0, 0, ReadError
		}

		if rfds.IsSet(intrFd) {
			// Consume exactly one token so queued interrupts each
			// surface once.
			var tok [1]byte
			util.Read(intrFd, tok[:])
			return 0, 0, ReadInterrupted
		}

		if rfds.IsSet(fd) {
			return in.plainRead(fd, buf[:])
		}
	}
}

func (in *Input) plainRead(fd int, buf []byte) (byte, int, Result) {
	n, err := util.Read(fd, buf)
	if err != nil {
		if err == unix.EINTR {
			return 0, 0, ReadInterrupted
		}
		return 0, 0, ReadError
	}
	if n < 0 {
		return 0, 0, ReadError
	}
	if n == 0 {
		return 0, 0, ReadByte
	}
	return buf[0], n, ReadByte
}
