package util

import "os"

var exitFuncs []func()

// AtExit registers fn to run when the process leaves through Exit. Hooks run
// newest first, so the console restore registered at startup runs last,
// after anything that might still write to the screen.
func AtExit(fn func()) {
	if fn == nil {
		panic("AtExit: nil hook")
	}
	exitFuncs = append(exitFuncs, fn)
}

// RunAtExitFuncs runs the registered hooks, newest first. The registry is
// drained as it runs, so each hook fires at most once no matter how many
// exit paths call this.
func RunAtExitFuncs() {
	fns := exitFuncs
	exitFuncs = nil
	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}

// Exit tears down through the registered hooks and then terminates with
// code. Calling os.Exit directly would skip them and leave the terminal in
// raw mode.
func Exit(code int) {
	defer os.Exit(code)
	RunAtExitFuncs()
}
