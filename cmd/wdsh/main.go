// wdsh runs the desktop terminal on the command line.
//
// Usage:
//
//	wdsh [options] [script_file]
//
// Options:
//
//	-c command   Execute command and exit
//	-i           Force interactive mode
//	-v           Log desktop events to stderr
//
// Every run starts from a freshly seeded file system; changes are lost on
// exit.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"webdesk/pkg/desktop"
	"webdesk/pkg/logging"
)

func main() {
	command := flag.String("c", "", "Execute command and exit")
	interactive := flag.Bool("i", false, "Force interactive mode")
	verbose := flag.Bool("v", false, "Log desktop events to stderr")
	flag.Parse()

	if err := run(*command, flag.Args(), *interactive, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "wdsh: %s\n", err)
		os.Exit(1)
	}
}

func run(command string, args []string, interactive, verbose bool) error {
	level := "error"
	if verbose {
		level = "debug"
	}
	if err := logging.Init(logging.Config{Level: level, Format: "console", OutputPath: "stderr"}); err != nil {
		return err
	}
	defer logging.Sync()

	var in io.Reader = os.Stdin
	switch {
	case command != "":
		in = strings.NewReader(command + "\n")
	case len(args) > 0:
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	default:
		interactive = interactive || term.IsTerminal(int(os.Stdin.Fd()))
	}

	shell, err := NewShell(in, os.Stdout, desktop.Config{Logger: logging.Named("wdsh")})
	if err != nil {
		return err
	}
	defer shell.Close()
	shell.Interactive = interactive
	return shell.Run()
}
