//go:build windows

package ttyin

import (
	"github.com/pagerkit/ttyin/src/util"
)

// platformInput pumps console bytes through a channel: console reads cannot
// be multiplexed with a pipe the way select allows on POSIX, so a dedicated
// goroutine does the blocking read and Acquire selects between the byte
// channel and the interrupt channel.
type platformInput struct {
	byteCh chan byte
	intrCh chan struct{}
	doneCh chan struct{}
}

func (in *Input) openPlatform() error {
	in.byteCh = make(chan byte, 12)
	in.intrCh = make(chan struct{}, 8)
	in.doneCh = make(chan struct{})

	fd := int(in.tty.Fd())
	done := in.doneCh
	go func() {
		b := make([]byte, 1)
		for {
			n, err := util.Read(fd, b)
			if err != nil || n <= 0 {
				// Surfaces as ReadError on the next acquire.
				close(in.byteCh)
				return
			}
			select {
			case in.byteCh <- b[0]:
			case <-done:
				return
			}
		}
	}()
	return nil
}

func (in *Input) closePlatform() {
	if in.doneCh != nil {
		close(in.doneCh)
		in.doneCh = nil
	}
}

// Interrupt makes a blocked Acquire return ReadInterrupted. Never blocks the
// caller; interrupts beyond the queue's capacity coalesce.
func (in *Input) Interrupt() {
	if in.intrCh == nil {
		return
	}
	select {
	case in.intrCh <- struct{}{}:
	default:
	}
}

func (in *Input) readByte() (byte, int, Result) {
	if !in.opened {
		return 0, 0, ReadError
	}
	select {
	case b, ok := <-in.byteCh:
		if !ok {
			return 0, 0, ReadError
		}
		return b, 1, ReadByte
	case <-in.intrCh:
		return 0, 0, ReadInterrupted
	}
}
