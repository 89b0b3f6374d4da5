//go:build !windows

package ttyin

import (
	"os"
	"reflect"
	"testing"
	"time"

	"github.com/creack/pty"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// openTestInput opens an Input on the slave side of a fresh pty, the same
// way a scripted test harness would: by naming the device in the
// environment. The returned master drives keystrokes.
func openTestInput(t *testing.T) (*Input, *os.File) {
	t.Helper()
	ptmx, tts, err := pty.Open()
	if err != nil {
		t.Skipf("pty not available: %v", err)
	}
	t.Cleanup(func() {
		ptmx.Close()
		tts.Close()
	})
	t.Setenv(TestDeviceEnv, tts.Name())

	in := New(nil)
	in.AltSourcePolicy = func() bool { return false }
	if err := in.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { in.Close() })
	return in, ptmx
}

func TestIsTestMode(t *testing.T) {
	t.Setenv(TestDeviceEnv, "")
	if IsTestMode() {
		t.Error("test mode without a substitute device")
	}
	t.Setenv(TestDeviceEnv, "/dev/null")
	if !IsTestMode() {
		t.Error("substitute device named but not in test mode")
	}
}

func TestOpenTTYNeverFails(t *testing.T) {
	t.Setenv(TestDeviceEnv, "/nonexistent/device")
	f, owns := openTTY()
	if f == nil {
		t.Fatal("openTTY returned no device")
	}
	if owns {
		f.Close()
	}
}

func TestResolverStderrRedirected(t *testing.T) {
	tmp, err := os.CreateTemp(t.TempDir(), "stderr")
	if err != nil {
		t.Fatal(err)
	}
	defer tmp.Close()

	saved, err := unix.Dup(2)
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		unix.Dup2(saved, 2)
		unix.Close(saved)
	}()
	if err := unix.Dup2(int(tmp.Fd()), 2); err != nil {
		t.Fatal(err)
	}

	// A regular file on descriptor 2 has Rdev 0; the scan must not match
	// it against non-device entries under /dev.
	if dev := ttyname(); dev != "" {
		unix.Dup2(saved, 2)
		t.Fatalf("ttyname named %q for a redirected descriptor", dev)
	}

	t.Setenv(TestDeviceEnv, "")
	tty, owns := openTTY()
	if tty == nil {
		t.Fatal("openTTY returned no device")
	}
	if fi, err := tty.Stat(); err == nil && fi.IsDir() {
		unix.Dup2(saved, 2)
		t.Fatalf("resolver landed on directory %q", tty.Name())
	}
	if owns {
		if fi, err := tty.Stat(); err == nil && fi.Mode()&os.ModeCharDevice == 0 {
			unix.Dup2(saved, 2)
			t.Errorf("resolver opened %q, which is not a character device", tty.Name())
		}
		tty.Close()
	} else if tty != os.Stderr {
		t.Error("borrowed fallback is not os.Stderr itself")
	}
}

func TestOpenTTYFallbackBorrowsStderr(t *testing.T) {
	t.Setenv(TestDeviceEnv, "/nonexistent/device")
	tty, owns := openTTY()
	if owns {
		// Landed on a real device; the program owns and may close it.
		tty.Close()
		return
	}
	// The borrowed descriptor must be the one *os.File the runtime keeps
	// alive forever; a second wrapper around fd 2 would eventually be
	// finalized and close stderr.
	if tty != os.Stderr {
		t.Errorf("fallback returned %q, not os.Stderr", tty.Name())
	}
}

func TestAcquireFromDevice(t *testing.T) {
	in, ptmx := openTestInput(t)
	if _, err := ptmx.Write([]byte{'a', 0x00, 'b'}); err != nil {
		t.Fatal(err)
	}
	for _, want := range []byte{'a', 0xE0, 'b'} {
		b, res := in.Acquire()
		if res != ReadByte || b != want {
			t.Fatalf("Acquire() = 0x%02x, %v; want 0x%02x", b, res, want)
		}
	}
}

func TestReplayThenDevice(t *testing.T) {
	in, ptmx := openTestInput(t)
	in.Inject("abc", true)
	ptmx.Write([]byte{'d'})
	for _, want := range []byte{'a', 'b', 'c', '\n', 'd'} {
		b, res := in.Acquire()
		if res != ReadByte || b != want {
			t.Fatalf("Acquire() = %q, %v; want %q", b, res, want)
		}
	}
}

func TestInterruptOncePerDelivery(t *testing.T) {
	in, ptmx := openTestInput(t)
	in.Interrupt()
	if _, res := in.Acquire(); res != ReadInterrupted {
		t.Fatalf("Acquire() = %v; want ReadInterrupted", res)
	}
	// The token was consumed: the next call must deliver data, not a
	// second interrupt, and nothing typed is lost.
	go func() {
		time.Sleep(10 * time.Millisecond)
		ptmx.Write([]byte{'z'})
	}()
	b, res := in.Acquire()
	if res != ReadByte || b != 'z' {
		t.Errorf("Acquire() = %q, %v; want 'z' after interrupt", b, res)
	}
}

func TestInterruptWhileBlocked(t *testing.T) {
	in, _ := openTestInput(t)
	type outcome struct {
		b   byte
		res Result
	}
	done := make(chan outcome, 1)
	go func() {
		b, res := in.Acquire()
		done <- outcome{b, res}
	}()

	time.Sleep(20 * time.Millisecond)
	in.Interrupt()
	select {
	case o := <-done:
		if o.res != ReadInterrupted {
			t.Errorf("Acquire() = %v; want ReadInterrupted", o.res)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Acquire still blocked after Interrupt")
	}
}

func TestConsoleStateRoundTrip(t *testing.T) {
	ptmx, tts, err := pty.Open()
	if err != nil {
		t.Skipf("pty not available: %v", err)
	}
	defer ptmx.Close()
	defer tts.Close()
	t.Setenv(TestDeviceEnv, tts.Name())

	fd := int(tts.Fd())
	before, err := term.GetState(fd)
	if err != nil {
		t.Fatalf("GetState: %v", err)
	}

	in := New(nil)
	in.AltSourcePolicy = func() bool { return false }
	if err := in.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	in.SetPointerMode(true)
	in.SetPointerMode(false)
	if err := in.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	after, err := term.GetState(fd)
	if err != nil {
		t.Fatalf("GetState: %v", err)
	}
	if !reflect.DeepEqual(before, after) {
		t.Error("console state not restored after Close")
	}
}

func TestOpenCloseIdempotent(t *testing.T) {
	in, _ := openTestInput(t)
	if err := in.Open(); err != nil {
		t.Errorf("second Open: %v", err)
	}
	if err := in.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	if err := in.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if _, res := in.Acquire(); res != ReadError {
		t.Errorf("Acquire after Close = %v; want ReadError", res)
	}
}

func TestReopenDoesNotStackSources(t *testing.T) {
	ptmx, tts, err := pty.Open()
	if err != nil {
		t.Skipf("pty not available: %v", err)
	}
	defer ptmx.Close()
	defer tts.Close()
	t.Setenv(TestDeviceEnv, tts.Name())

	in := New(nil)
	in.AltSourcePolicy = func() bool { return true }
	for session := 1; session <= 2; session++ {
		if err := in.Open(); err != nil {
			t.Fatalf("Open %d: %v", session, err)
		}
		if got := len(in.sources); got != 1 {
			t.Fatalf("session %d has %d alternate sources; want 1", session, got)
		}
		if err := in.Close(); err != nil {
			t.Fatalf("Close %d: %v", session, err)
		}
	}
}

func TestInterruptDuringClose(t *testing.T) {
	in, _ := openTestInput(t)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			in.Interrupt()
		}
	}()
	in.Close()
	<-done
	// Interrupting a closed Input is a quiet no-op.
	in.Interrupt()
}

func TestDumpHook(t *testing.T) {
	in, ptmx := openTestInput(t)
	dumps := 0
	in.Dump = func() { dumps++ }
	ptmx.Write([]byte{defaultDumpByte, 'a'})
	b, res := in.Acquire()
	if res != ReadByte || b != 'a' {
		t.Fatalf("Acquire() = %q, %v; want 'a'", b, res)
	}
	if dumps != 1 {
		t.Errorf("dump hook ran %d times; want 1", dumps)
	}
}
