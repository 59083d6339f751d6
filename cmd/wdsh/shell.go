package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"webdesk/pkg/desktop"
	"webdesk/pkg/terminal"
	"webdesk/pkg/timer"
)

// nanoEnd ends the text typed into nano.
const nanoEnd = "."

// maxDrain bounds the callbacks run after one command.
const maxDrain = 1000

// Shell runs a desktop terminal on a line-oriented stream.
type Shell struct {
	Interactive bool

	sess   *desktop.Session
	term   *terminal.Terminal
	clock  *timer.Manual
	in     *bufio.Scanner
	out    io.Writer
	seen   int
	titles map[string]bool
}

// NewShell creates a fresh desktop with one terminal window. Script output
// is delivered as soon as a command returns instead of line by line.
func NewShell(in io.Reader, out io.Writer, cfg desktop.Config) (*Shell, error) {
	s := &Shell{
		clock:  timer.NewManual(),
		in:     bufio.NewScanner(in),
		out:    out,
		titles: make(map[string]bool),
	}
	cfg.Scheduler = s.clock
	cfg.Confirm = s.confirm
	cfg.Prompt = s.ask

	s.sess = desktop.NewSession(cfg)
	id, err := s.sess.Launch(desktop.AppTerminal)
	if err != nil {
		s.sess.Close()
		return nil, err
	}
	s.term, err = s.sess.Terminal(id)
	if err != nil {
		s.sess.Close()
		return nil, err
	}
	s.titles[id] = true
	return s, nil
}

// Close tears the desktop down.
func (s *Shell) Close() error {
	return s.sess.Close()
}

// Session returns the desktop behind the shell.
func (s *Shell) Session() *desktop.Session {
	return s.sess
}

// Run reads commands until end of input or exit. In interactive mode the
// welcome banner and the prompt are printed.
func (s *Shell) Run() error {
	if s.Interactive {
		s.flush("")
	} else {
		s.seen = s.term.Len()
	}

	for {
		if s.Interactive {
			fmt.Fprint(s.out, s.term.Prompt())
		}
		line, ok := s.readLine()
		if !ok {
			if s.Interactive {
				fmt.Fprintln(s.out)
			}
			return s.in.Err()
		}
		switch strings.TrimSpace(line) {
		case "exit", "logout":
			return nil
		}
		s.Execute(line)
	}
}

// Execute runs one line and writes the output it produced.
func (s *Shell) Execute(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	echo := s.term.Prompt() + line
	s.term.Execute(line)
	s.drain()
	s.flush(echo)
	s.editNano()
	s.reportWindows()
}

// drain runs pending script lines.
func (s *Shell) drain() {
	for i := 0; i < maxDrain && s.clock.Pending() > 0; i++ {
		s.clock.Advance(time.Second)
	}
}

// flush writes the lines added since the last flush, skipping the echo
// of the command the user just typed.
func (s *Shell) flush(echo string) {
	lines := s.term.Lines()
	if len(lines) < s.seen {
		// cleared
		s.seen = 0
		if s.Interactive {
			fmt.Fprint(s.out, "\033[H\033[2J")
		}
	}
	for i, l := range lines[s.seen:] {
		if i == 0 && echo != "" && l == echo {
			continue
		}
		fmt.Fprintln(s.out, l)
	}
	s.seen = len(lines)
}

// editNano collects the text of an open nano buffer from the input and
// saves it. Outside interactive mode the buffer is discarded.
func (s *Shell) editNano() {
	buf, ok := s.term.Nano()
	if !ok {
		return
	}
	if !s.Interactive {
		s.term.NanoClose()
		s.flush("")
		return
	}

	if buf.Content != "" {
		fmt.Fprintln(s.out, buf.Content)
	}
	fmt.Fprintf(s.out, "-- editing %s, end with a line containing only %q --\n", buf.Filename, nanoEnd)

	var text []string
	for {
		line, ok := s.readLine()
		if !ok || line == nanoEnd {
			break
		}
		text = append(text, line)
	}
	if len(text) == 0 {
		s.term.NanoClose()
	} else {
		s.term.NanoSetContent(strings.Join(text, "\n"))
		s.term.NanoSave()
	}
	s.flush("")
}

// reportWindows mentions windows the command opened, such as editors.
func (s *Shell) reportWindows() {
	for _, w := range s.sess.WM.Windows() {
		if s.titles[w.ID] {
			continue
		}
		s.titles[w.ID] = true
		fmt.Fprintf(s.out, "[opened window: %s]\n", w.Title)
	}
}

func (s *Shell) readLine() (string, bool) {
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimRight(s.in.Text(), "\r"), true
}

// confirm answers application questions from the input. Only an
// interactive shell says yes.
func (s *Shell) confirm(message string) bool {
	if !s.Interactive {
		return false
	}
	fmt.Fprintf(s.out, "%s [y/N] ", message)
	line, ok := s.readLine()
	if !ok {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func (s *Shell) ask(message string) (string, bool) {
	if !s.Interactive {
		return "", false
	}
	fmt.Fprintf(s.out, "%s ", message)
	line, ok := s.readLine()
	if !ok || strings.TrimSpace(line) == "" {
		return "", false
	}
	return strings.TrimSpace(line), true
}
