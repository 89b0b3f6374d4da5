package main

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"

	"github.com/pagerkit/ttyin/src/protector"
	"github.com/pagerkit/ttyin/src/ttyin"
	"github.com/pagerkit/ttyin/src/util"
)

var version string = "0.3"

const usage = `usage: ttyin [-n] [-p STRING]

Reads raw keystrokes from the controlling terminal and prints their byte
values, even when stdin is a file or pipe. Press q to quit.

    -p STRING   emit STRING as scripted input before reading the keyboard
    -n          append a newline to the scripted input
`

func fail(message string) {
	fmt.Fprintln(os.Stderr, "ttyin: "+message)
	util.Exit(2)
}

func main() {
	protector.Protect()

	var script string
	var addNewline bool
	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-p":
			i++
			if i >= len(args) {
				fail("-p requires an argument")
			}
			script = args[i]
		case "-n":
			addNewline = true
		case "--version":
			fmt.Println("ttyin " + version)
			return
		case "-h", "--help":
			fmt.Print(usage)
			return
		default:
			fail("unknown option: " + args[i])
		}
	}

	out := bufio.NewWriter(os.Stdout)
	in := ttyin.New(func() { out.Flush() })
	if script != "" {
		in.Inject(script, addNewline)
	}
	if err := in.Open(); err != nil {
		fail(err.Error())
	}
	util.AtExit(func() { in.Close() })

	intr := make(chan os.Signal, 1)
	signal.Notify(intr, os.Interrupt)
	go func() {
		for range intr {
			in.Interrupt()
		}
	}()

	fmt.Fprintf(out, "press keys to see their byte values, q to quit\r\n")
	for {
		b, res := in.Acquire()
		switch res {
		case ttyin.ReadInterrupted:
			fmt.Fprintf(out, "interrupted\r\n")
		case ttyin.ReadError:
			// The keyboard is gone; nothing sensible left to do.
			util.Exit(2)
		default:
			fmt.Fprintf(out, "%3d  0x%02x  %s\r\n", b, b, keyName(b))
			if b == 'q' {
				out.Flush()
				util.Exit(0)
			}
		}
	}
}

func keyName(b byte) string {
	switch {
	case b == 0x1b:
		return "ESC"
	case b == 0x7f:
		return "DEL"
	case b < 0x20:
		return "^" + string(rune('@'+b))
	case b < 0x7f:
		return string(rune(b))
	}
	return fmt.Sprintf("\\%03o", b)
}
