package terminal

import (
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"webdesk/pkg/timer"
	"webdesk/pkg/vfs"
	"webdesk/pkg/wm"
)

// Welcome is the banner a new terminal starts with.
var Welcome = []string{
	"Welcome to Linux Terminal Emulator v1.0",
	"Type 'help' for available commands",
	"",
}

// Opener opens the file name in directory dir in a text editor window.
type Opener func(dir, name string) error

// Config holds the collaborators and settings of a terminal.
type Config struct {
	User string
	Host string
	Home string

	// LineDelay staggers script lines; the completion line follows the last
	// line after CompletionDelay.
	LineDelay       time.Duration
	CompletionDelay time.Duration

	// Scheduler runs script lines. Nil uses the wall clock.
	Scheduler timer.Scheduler
	// Now is the clock behind date. Nil uses time.Now.
	Now func() time.Time
	// Opener backs editor and gedit. Nil makes them report that no window
	// can be created.
	Opener Opener
	// Confirm asks whether a missing file should be created by editor.
	// Nil declines.
	Confirm func(prompt string) bool
	// Observer is told the name of every command executed.
	Observer func(cmd string)
	Logger   *zap.Logger
}

func (c Config) withDefaults() Config {
	if c.User == "" {
		c.User = "user"
	}
	if c.Host == "" {
		c.Host = "linux"
	}
	if c.Home == "" {
		c.Home = vfs.HomeDir
	}
	if c.LineDelay <= 0 {
		c.LineDelay = 200 * time.Millisecond
	}
	if c.CompletionDelay <= 0 {
		c.CompletionDelay = 100 * time.Millisecond
	}
	if c.Scheduler == nil {
		c.Scheduler = timer.NewReal()
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	return c
}

// Terminal is a simulated shell over a session's file system.
type Terminal struct {
	mu  sync.Mutex
	fs  *vfs.Store
	cfg Config

	lines   []string
	cwd     string
	history []string
	histIdx int

	tabbing  bool
	tabInput string

	nano   *NanoBuffer
	timers *timer.Group
}

// New creates a terminal in the home directory.
func New(fs *vfs.Store, cfg Config) *Terminal {
	cfg = cfg.withDefaults()
	return &Terminal{
		fs:      fs,
		cfg:     cfg,
		lines:   append([]string(nil), Welcome...),
		cwd:     cfg.Home,
		histIdx: -1,
		timers:  timer.NewGroup(cfg.Scheduler),
	}
}

// Prompt returns the prompt for the current directory.
func (t *Terminal) Prompt() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.prompt()
}

func (t *Terminal) prompt() string {
	return t.cfg.User + "@" + t.cfg.Host + ":" + t.cwd + "$ "
}

// Cwd returns the current directory.
func (t *Terminal) Cwd() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cwd
}

// Lines returns a copy of the output buffer.
func (t *Terminal) Lines() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.lines...)
}

// Len returns the number of lines in the output buffer.
func (t *Terminal) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.lines)
}

func (t *Terminal) print(lines ...string) {
	t.lines = append(t.lines, lines...)
}

// Execute runs one input line. Blank input does nothing. The line is added
// to the command history and echoed after the prompt.
func (t *Terminal) Execute(input string) {
	line := strings.TrimSpace(input)
	if line == "" {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.history = append(t.history, line)
	t.histIdx = -1
	t.tabbing = false

	t.print(t.prompt() + line)

	fields := strings.Fields(line)
	name, args := fields[0], fields[1:]

	cmd, ok := lookup(strings.ToLower(name))
	switch {
	case ok:
		cmd.run(t, name, args, line)
	case strings.HasPrefix(name, "./"):
		t.runScript(strings.TrimPrefix(name, "./"))
	default:
		t.print(name+": command not found", "")
	}

	t.cfg.Logger.Debug("terminal command",
		zap.String("cmd", name),
		zap.String("cwd", t.cwd),
	)
	if t.cfg.Observer != nil {
		t.cfg.Observer(strings.ToLower(name))
	}
}

// HistoryUp returns the previous command, or false if there is none.
func (t *Terminal) HistoryUp() (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.history) == 0 {
		return "", false
	}
	if t.histIdx == -1 {
		t.histIdx = len(t.history) - 1
	} else if t.histIdx > 0 {
		t.histIdx--
	}
	return t.history[t.histIdx], true
}

// HistoryDown returns the next command. Moving past the newest entry
// returns an empty line.
func (t *Terminal) HistoryDown() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.histIdx == -1 {
		return ""
	}
	t.histIdx++
	if t.histIdx >= len(t.history) {
		t.histIdx = -1
		return ""
	}
	return t.history[t.histIdx]
}

// History returns a copy of the command history, oldest first.
func (t *Terminal) History() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.history...)
}

// State is the rendered state of a terminal.
type State struct {
	Lines  []string    `json:"lines"`
	Cwd    string      `json:"cwd"`
	Prompt string      `json:"prompt"`
	Nano   *NanoBuffer `json:"nano,omitempty"`
}

// Render implements wm.App.
func (t *Terminal) Render() wm.View {
	t.mu.Lock()
	defer t.mu.Unlock()

	st := State{
		Lines:  append([]string(nil), t.lines...),
		Cwd:    t.cwd,
		Prompt: t.prompt(),
	}
	if t.nano != nil {
		n := *t.nano
		st.Nano = &n
	}
	return wm.View{Kind: "terminal", State: st}
}

// Close cancels pending script output.
func (t *Terminal) Close() error {
	return t.timers.Close()
}

func (t *Terminal) dir() *vfs.FileNode {
	dir, _ := t.fs.ResolveDir(t.cwd)
	return dir
}

func (t *Terminal) exists(name string) bool {
	return t.dir().Has(name)
}
