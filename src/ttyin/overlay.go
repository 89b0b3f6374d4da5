package ttyin

// A source is a synthetic byte producer that preempts the live device.
// Sources are queried in priority order; returning false means the source
// has nothing for this call and the query falls through to the next
// producer. A source that has run dry (or ruled itself out) keeps returning
// false for the rest of the session.
type source interface {
	next() (byte, bool)
}

// replaySource emits a caller-supplied byte string verbatim, optionally
// followed by a single synthetic newline, then goes dry for good. started
// marks the point of no return: a replay that has emitted anything cannot
// be swapped out from under the caller.
type replaySource struct {
	buf        []byte
	pos        int
	addNewline bool
	started    bool
}

func (s *replaySource) next() (byte, bool) {
	s.started = true
	if s.pos < len(s.buf) {
		b := s.buf[s.pos]
		s.pos++
		return b, true
	}
	if s.addNewline {
		s.addNewline = false
		return '\n', true
	}
	return 0, false
}
