//go:build windows

package ttyin

// The alternate-stream overlay is a POSIX convention; the console platform
// has no equivalent companion stream.
func (in *Input) engageAltSource() {}
