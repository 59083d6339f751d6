package terminal

import (
	"strings"
	"testing"
	"time"

	"webdesk/pkg/timer"
	"webdesk/pkg/vfs"
)

func newTestTerminal(cfg Config) (*Terminal, *vfs.Store, *timer.Manual) {
	fs := vfs.NewStore()
	sched := timer.NewManual()
	if cfg.Scheduler == nil {
		cfg.Scheduler = sched
	}
	if cfg.Now == nil {
		cfg.Now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	}
	return New(fs, cfg), fs, sched
}

// run executes input and returns the lines it appended.
func run(term *Terminal, input string) []string {
	before := term.Len()
	term.Execute(input)
	lines := term.Lines()
	if len(lines) < before {
		return lines
	}
	return lines[before:]
}

func expectLines(t *testing.T, got []string, expected ...string) {
	t.Helper()
	if len(got) != len(expected) {
		t.Fatalf("expected %d lines %q, got %d lines %q", len(expected), expected, len(got), got)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("line %d: expected %q, got %q", i, expected[i], got[i])
		}
	}
}

func TestWelcome(t *testing.T) {
	term, _, _ := newTestTerminal(Config{})
	expectLines(t, term.Lines(), Welcome...)
	if term.Cwd() != "/home/user" {
		t.Errorf("expected cwd /home/user, got %s", term.Cwd())
	}
	if term.Prompt() != "user@linux:/home/user$ " {
		t.Errorf("unexpected prompt %q", term.Prompt())
	}
}

func TestBlankInputIgnored(t *testing.T) {
	term, _, _ := newTestTerminal(Config{})
	term.Execute("   ")
	if term.Len() != len(Welcome) || len(term.History()) != 0 {
		t.Error("expected blank input to do nothing")
	}
}

func TestCatMissingFile(t *testing.T) {
	term, _, _ := newTestTerminal(Config{})
	got := run(term, "cat nonexistent.txt")
	expectLines(t, got,
		"user@linux:/home/user$ cat nonexistent.txt",
		"cat: nonexistent.txt: No such file or directory",
		"",
	)
}

func TestCat(t *testing.T) {
	term, fs, _ := newTestTerminal(Config{})
	fs.CreateFile("/home/user", "a.txt", "hello")

	expectLines(t, run(term, "cat a.txt"), "user@linux:/home/user$ cat a.txt", "hello", "")
	expectLines(t, run(term, "cat Documents")[1:], "cat: Documents: Is a directory", "")
	expectLines(t, run(term, "cat")[1:], "cat: missing file operand", "")
}

func TestCd(t *testing.T) {
	term, _, _ := newTestTerminal(Config{})

	tests := []struct {
		input    string
		expected string
	}{
		{"cd ..", "/home"},
		{"cd ..", "/"},
		{"cd ..", "/"},
		{"cd", "/home/user"},
		{"cd Documents", "/home/user/Documents"},
		{"cd ~", "/home/user"},
		{"cd /", "/"},
		{"cd etc/", "/etc"},
		{"cd //home//user", "/home/user"},
	}

	for _, tt := range tests {
		term.Execute(tt.input)
		if term.Cwd() != tt.expected {
			t.Errorf("after %q: expected cwd %s, got %s", tt.input, tt.expected, term.Cwd())
		}
	}
}

func TestCdAtRootIsSilent(t *testing.T) {
	term, _, _ := newTestTerminal(Config{})
	term.Execute("cd /")
	expectLines(t, run(term, "cd .."), "user@linux:/$ cd ..")
}

func TestCdErrors(t *testing.T) {
	term, _, _ := newTestTerminal(Config{})

	expectLines(t, run(term, "cd nowhere")[1:], "cd: nowhere: No such file or directory", "")
	expectLines(t, run(term, "cd readme.txt")[1:], "cd: readme.txt: No such file or directory", "")
	if term.Cwd() != "/home/user" {
		t.Errorf("expected cwd unchanged, got %s", term.Cwd())
	}
}

func TestLs(t *testing.T) {
	term, _, _ := newTestTerminal(Config{})

	expectLines(t, run(term, "ls")[1:],
		"Documents/  Downloads/  Pictures/  Videos/  readme.txt  script.sh*", "")
	expectLines(t, run(term, "ls /etc")[1:], "hosts", "")
	expectLines(t, run(term, "ls /var")[1:], "", "")
	expectLines(t, run(term, "ls /nope")[1:], "ls: cannot access '/nope': No such file or directory", "")
}

func TestSimpleCommands(t *testing.T) {
	term, _, _ := newTestTerminal(Config{})

	expectLines(t, run(term, "pwd")[1:], "/home/user", "")
	expectLines(t, run(term, "whoami")[1:], "user", "")
	expectLines(t, run(term, "uname")[1:], Uname, "")
	expectLines(t, run(term, "echo hello   world")[1:], "hello   world", "")
	expectLines(t, run(term, "echo")[1:], "", "")
	expectLines(t, run(term, "date")[1:], "Tue Jan 02 2024 03:04:05 GMT+0000 (UTC)", "")
	expectLines(t, run(term, "frobnicate now")[1:], "frobnicate: command not found", "")

	help := run(term, "help")[1:]
	if help[0] != "Available commands:" || help[len(help)-1] != "" {
		t.Errorf("unexpected help output %q", help)
	}
}

func TestCommandsAreCaseInsensitive(t *testing.T) {
	term, _, _ := newTestTerminal(Config{})
	expectLines(t, run(term, "PWD")[1:], "/home/user", "")
}

func TestClear(t *testing.T) {
	term, _, _ := newTestTerminal(Config{})
	term.Execute("pwd")
	term.Execute("clear")
	if term.Len() != 0 {
		t.Errorf("expected empty buffer, got %q", term.Lines())
	}
}

func TestMkdirTouchRm(t *testing.T) {
	term, fs, _ := newTestTerminal(Config{})

	expectLines(t, run(term, "mkdir projects")[1:], "Directory 'projects' created", "")
	expectLines(t, run(term, "mkdir projects")[1:], "mkdir: cannot create directory 'projects': File exists", "")
	expectLines(t, run(term, "mkdir")[1:], "mkdir: missing operand", "")

	expectLines(t, run(term, "touch a.txt")[1:], "File 'a.txt' created", "")
	expectLines(t, run(term, "touch a.txt")[1:], "File 'a.txt' already exists", "")
	expectLines(t, run(term, "touch")[1:], "touch: missing file operand", "")

	if node, ok := fs.Resolve("/home/user/a.txt"); !ok || node.IsDir() {
		t.Error("expected a.txt to be a file")
	}

	expectLines(t, run(term, "rm a.txt")[1:], "File 'a.txt' removed", "")
	expectLines(t, run(term, "rm a.txt")[1:], "rm: cannot remove 'a.txt': No such file or directory", "")
	expectLines(t, run(term, "rmdir projects")[1:], "Directory 'projects' removed", "")
	expectLines(t, run(term, "rmdir projects")[1:], "rmdir: cannot remove 'projects': No such file or directory", "")

	if _, ok := fs.Resolve("/home/user/projects"); ok {
		t.Error("expected projects to be removed")
	}
}

func TestChmod(t *testing.T) {
	term, _, _ := newTestTerminal(Config{})

	expectLines(t, run(term, "chmod +x script.sh")[1:], "chmod: 'script.sh' is now executable", "")
	expectLines(t, run(term, "chmod +x nope.sh")[1:], "chmod: cannot access 'nope.sh': No such file", "")
	expectLines(t, run(term, "chmod 755 script.sh")[1:], "chmod: usage: chmod +x <filename>", "")
}

func TestHistory(t *testing.T) {
	term, _, _ := newTestTerminal(Config{})

	if _, ok := term.HistoryUp(); ok {
		t.Error("expected no history")
	}

	term.Execute("pwd")
	term.Execute("ls")
	term.Execute("whoami")

	expected := []string{"whoami", "ls", "pwd", "pwd"}
	for _, want := range expected {
		got, ok := term.HistoryUp()
		if !ok || got != want {
			t.Errorf("HistoryUp = %q, expected %q", got, want)
		}
	}

	if got := term.HistoryDown(); got != "ls" {
		t.Errorf("HistoryDown = %q, expected ls", got)
	}
	if got := term.HistoryDown(); got != "whoami" {
		t.Errorf("HistoryDown = %q, expected whoami", got)
	}
	if got := term.HistoryDown(); got != "" {
		t.Errorf("HistoryDown past the end = %q, expected empty", got)
	}
	if got := term.HistoryDown(); got != "" {
		t.Errorf("HistoryDown with no selection = %q, expected empty", got)
	}
}

func TestCompleteCommand(t *testing.T) {
	term, _, _ := newTestTerminal(Config{})

	if got := term.Complete("ec"); got != "echo" {
		t.Errorf("Complete(ec) = %q, expected echo", got)
	}
	if got := term.Complete("r"); got != "rm" {
		t.Errorf("Complete(r) = %q, expected common prefix rm", got)
	}
	if got := term.Complete("zz"); got != "zz" {
		t.Errorf("Complete(zz) = %q, expected unchanged", got)
	}
}

func TestCompleteShowsCandidatesOnSecondTab(t *testing.T) {
	term, _, _ := newTestTerminal(Config{})
	before := term.Len()

	if got := term.Complete("c"); got != "c" {
		t.Fatalf("first Tab = %q, expected c", got)
	}
	if term.Len() != before {
		t.Error("first Tab must not print")
	}

	if got := term.Complete("c"); got != "c" {
		t.Fatalf("second Tab = %q, expected c", got)
	}
	expectLines(t, term.Lines()[before:],
		"user@linux:/home/user$ c",
		"cd  cat  clear  chmod",
		"",
	)
}

func TestCompleteFileNames(t *testing.T) {
	term, fs, _ := newTestTerminal(Config{})

	if got := term.Complete("cat re"); got != "cat readme.txt" {
		t.Errorf("got %q", got)
	}
	if got := term.Complete("cd Do"); got != "cd Do" {
		t.Errorf("expected ambiguous Do unchanged, got %q", got)
	}

	fs.CreateFile("/home/user", "notes-2023.txt", "")
	fs.CreateFile("/home/user", "notes-2024.txt", "")
	if got := term.Complete("cat no"); got != "cat notes-202" {
		t.Errorf("expected common prefix, got %q", got)
	}
}

func TestNanoNewFile(t *testing.T) {
	term, fs, _ := newTestTerminal(Config{})

	expectLines(t, run(term, "nano todo.txt")[1:], "Opening nano editor for: todo.txt", "")
	buf, ok := term.Nano()
	if !ok || !buf.IsNew || buf.Filename != "todo.txt" {
		t.Fatalf("unexpected buffer %+v", buf)
	}

	if err := term.NanoSetContent("buy milk"); err != nil {
		t.Fatalf("NanoSetContent failed: %v", err)
	}
	before := term.Len()
	if err := term.NanoSave(); err != nil {
		t.Fatalf("NanoSave failed: %v", err)
	}
	expectLines(t, term.Lines()[before:], "Created and saved file: todo.txt", "")

	node, ok := fs.Resolve("/home/user/todo.txt")
	if !ok || node.Content != "buy milk" {
		t.Errorf("unexpected node %+v", node)
	}
	if _, ok := term.Nano(); ok {
		t.Error("expected nano to be closed after save")
	}
	if err := term.NanoSave(); err != ErrNanoClosed {
		t.Errorf("expected ErrNanoClosed, got %v", err)
	}
}

func TestNanoExistingFile(t *testing.T) {
	term, fs, _ := newTestTerminal(Config{})

	term.Execute("nano readme.txt")
	buf, _ := term.Nano()
	if buf.IsNew || !strings.HasPrefix(buf.Content, "Welcome to your home directory!") {
		t.Fatalf("unexpected buffer %+v", buf)
	}

	term.NanoSetContent("rewritten")
	before := term.Len()
	term.NanoSave()
	expectLines(t, term.Lines()[before:], "Saved file: readme.txt", "")

	node, _ := fs.Resolve("/home/user/readme.txt")
	if node.Content != "rewritten" {
		t.Errorf("expected saved content, got %q", node.Content)
	}
}

func TestNanoClose(t *testing.T) {
	term, fs, _ := newTestTerminal(Config{})

	term.Execute("nano draft.txt")
	term.NanoSetContent("lost")
	before := term.Len()
	if err := term.NanoClose(); err != nil {
		t.Fatalf("NanoClose failed: %v", err)
	}
	expectLines(t, term.Lines()[before:], "Nano editor closed", "")
	if _, ok := fs.Resolve("/home/user/draft.txt"); ok {
		t.Error("expected closed buffer not to be saved")
	}
}

func TestEditor(t *testing.T) {
	var opened []string
	confirm := true
	term, fs, _ := newTestTerminal(Config{
		Opener: func(dir, name string) error {
			opened = append(opened, dir+"/"+name)
			return nil
		},
		Confirm: func(string) bool { return confirm },
	})

	expectLines(t, run(term, "editor readme.txt")[1:], "Opening 'readme.txt' in Text Editor...", "")
	expectLines(t, run(term, "gedit new.txt")[1:], "Opening 'new.txt' in Text Editor...", "")
	if _, ok := fs.Resolve("/home/user/new.txt"); !ok {
		t.Error("expected confirmed file to be created")
	}

	confirm = false
	expectLines(t, run(term, "gedit other.txt")[1:], "gedit: operation cancelled", "")
	expectLines(t, run(term, "editor")[1:], "editor: missing filename", "")

	if len(opened) != 2 || opened[0] != "/home/user/readme.txt" {
		t.Errorf("unexpected opened files %v", opened)
	}
}

func TestEditorWithoutOpener(t *testing.T) {
	term, _, _ := newTestTerminal(Config{})
	expectLines(t, run(term, "editor readme.txt")[1:], "editor: Text Editor window creation not available", "")
}

func TestScript(t *testing.T) {
	term, fs, sched := newTestTerminal(Config{})

	expectLines(t, run(term, "bash script.sh")[1:], "Executing script.sh...", "")
	before := term.Len()

	sched.Advance(1999 * time.Millisecond)
	out := term.Lines()[before:]
	if len(out) != 10 {
		t.Fatalf("expected 10 lines after 1999ms, got %d: %q", len(out), out)
	}
	expectLines(t, out[:5],
		"Hello from hairetsucom desktop!",
		"Running system checks...",
		"/home/user",
		"user",
		"Tue Jan 02 2024 03:04:05 GMT+0000 (UTC)",
	)

	sched.Advance(time.Millisecond)
	out = term.Lines()[before:]
	if out[len(out)-1] != "Script execution completed successfully!" {
		t.Errorf("unexpected last line %q", out[len(out)-1])
	}

	sched.Advance(100 * time.Millisecond)
	out = term.Lines()[before:]
	expectLines(t, out[len(out)-2:], "Script script.sh completed.", "")

	if _, ok := fs.Resolve("/home/user/test1.txt"); !ok {
		t.Error("expected script to create test1.txt")
	}
	if sched.Pending() != 0 {
		t.Errorf("expected no pending callbacks, got %d", sched.Pending())
	}
}

func TestScriptShorthandAndWhitelist(t *testing.T) {
	term, fs, sched := newTestTerminal(Config{})
	fs.CreateFile("/home/user", "w.sh", "# comment\n\nuname\nsleep 3\nls\nrm -rf /\n")

	term.Execute("./w.sh")
	before := term.Len()
	sched.Advance(time.Second)

	expectLines(t, term.Lines()[before:],
		"Linux",
		"Sleeping for 3 seconds...",
		"Documents/  Downloads/  Pictures/  Videos/  readme.txt  script.sh  w.sh",
		"rm -rf /: command not found in script",
		"Script w.sh completed.",
		"",
	)
}

func TestScriptErrors(t *testing.T) {
	term, fs, _ := newTestTerminal(Config{})
	fs.CreateFile("/home/user", "empty.sh", "")
	fs.CreateFile("/home/user", "comments.sh", "# only\n   \n")

	expectLines(t, run(term, "bash")[1:], "bash: missing script name", "")
	expectLines(t, run(term, "sh")[1:], "sh: missing script name", "")
	expectLines(t, run(term, "bash nope.sh")[1:], "bash: nope.sh: No such file or directory", "")
	expectLines(t, run(term, "bash Documents")[1:], "bash: Documents: Is a directory", "")
	expectLines(t, run(term, "./empty.sh")[1:], "bash: empty.sh: Permission denied or empty file", "")
	expectLines(t, run(term, "sh comments.sh")[1:],
		"Executing comments.sh...", "",
		"Script comments.sh completed (no commands executed).", "")
}

func TestCloseCancelsScript(t *testing.T) {
	term, _, sched := newTestTerminal(Config{})

	term.Execute("bash script.sh")
	sched.Advance(500 * time.Millisecond)
	before := term.Len()

	if err := term.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	sched.Advance(10 * time.Second)

	if term.Len() != before {
		t.Errorf("expected no output after Close, got %q", term.Lines()[before:])
	}
}

func TestObserver(t *testing.T) {
	counts := map[string]int{}
	term, _, _ := newTestTerminal(Config{Observer: func(cmd string) { counts[cmd]++ }})

	term.Execute("pwd")
	term.Execute("PWD")
	term.Execute("nope")

	if counts["pwd"] != 2 || counts["nope"] != 1 {
		t.Errorf("unexpected counts %v", counts)
	}
}

func TestRender(t *testing.T) {
	term, _, _ := newTestTerminal(Config{})
	term.Execute("nano x.txt")

	view := term.Render()
	if view.Kind != "terminal" {
		t.Errorf("expected kind terminal, got %q", view.Kind)
	}
	st, ok := view.State.(State)
	if !ok {
		t.Fatalf("unexpected state type %T", view.State)
	}
	if st.Cwd != "/home/user" || st.Nano == nil || st.Nano.Filename != "x.txt" {
		t.Errorf("unexpected state %+v", st)
	}
}
