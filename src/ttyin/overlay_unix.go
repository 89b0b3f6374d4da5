//go:build !windows

package ttyin

import (
	"os"

	"golang.org/x/sys/unix"

	"github.com/pagerkit/ttyin/src/util"
)

const altChunkSize = 512

// Once the probe fails, no later session re-probes: ruled out means ruled
// out for the whole program run.
var altRuledOut = util.NewAtomicBool(false)

// engageAltSource installs the alternate-stream overlay when the policy
// holds. The conventional trigger: stdout is a terminal but stderr is not,
// i.e. stderr has been repurposed by the invoker as a command pipe.
func (in *Input) engageAltSource() {
	policy := in.AltSourcePolicy
	if policy == nil {
		policy = func() bool {
			return util.IsTty(os.Stdout) && !util.IsTty(os.Stderr)
		}
	}
	if !policy() {
		return
	}
	in.sources = append(in.sources, &altSource{f: os.Stderr, ruledOut: altRuledOut})
}

// altSource serves bytes from a companion stream, a chunk at a time. Every
// refill is guarded by a zero-timeout readiness probe; the first probe or
// read that comes up empty disables the source permanently.
type altSource struct {
	f        *os.File
	ruledOut *util.AtomicBool
	buf      [altChunkSize]byte
	pos      int
	size     int
}

func (s *altSource) next() (byte, bool) {
	if s.ruledOut.Get() {
		return 0, false
	}
	if s.pos >= s.size {
		if !s.readable() {
			s.ruledOut.Set(true)
			return 0, false
		}
		n, err := s.f.Read(s.buf[:])
		if err != nil || n <= 0 {
			s.ruledOut.Set(true)
			return 0, false
		}
		s.pos, s.size = 0, n
	}
	b := s.buf[s.pos]
	s.pos++
	return b, true
}

func (s *altSource) readable() bool {
	fds := []unix.PollFd{{Fd: int32(s.f.Fd()), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, 0)
	return err == nil && n > 0 && fds[0].Revents&unix.POLLIN != 0
}
