package terminal

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// scriptLines returns the lines of a script worth running: trimmed, not
// blank and not comments.
func scriptLines(content string) []string {
	var out []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out
}

// runScript schedules the lines of a script in the current directory.
// Line i runs at i*LineDelay; the completion line follows the last one.
func (t *Terminal) runScript(name string) {
	script := t.dir().Child(name)
	switch {
	case script == nil:
		t.print(fmt.Sprintf("bash: %s: No such file or directory", name), "")
		return
	case script.IsDir():
		t.print(fmt.Sprintf("bash: %s: Is a directory", name), "")
		return
	case script.Content == "":
		t.print(fmt.Sprintf("bash: %s: Permission denied or empty file", name), "")
		return
	}

	t.print(fmt.Sprintf("Executing %s...", name), "")

	lines := scriptLines(script.Content)
	if len(lines) == 0 {
		t.print(fmt.Sprintf("Script %s completed (no commands executed).", name), "")
		return
	}

	cwd := t.cwd
	t.cfg.Logger.Debug("script started", zap.String("script", name), zap.Int("lines", len(lines)))

	for i, line := range lines {
		last := i == len(lines)-1
		t.timers.AfterFunc(time.Duration(i)*t.cfg.LineDelay, func() {
			t.mu.Lock()
			t.runScriptLine(cwd, line)
			t.mu.Unlock()

			if last {
				t.timers.AfterFunc(t.cfg.CompletionDelay, func() {
					t.mu.Lock()
					defer t.mu.Unlock()
					t.print(fmt.Sprintf("Script %s completed.", name), "")
				})
			}
		})
	}
}

// runScriptLine runs one whitelisted statement in directory cwd.
func (t *Terminal) runScriptLine(cwd, line string) {
	switch {
	case strings.HasPrefix(line, "echo "):
		t.print(strings.NewReplacer("'", "", `"`, "").Replace(line[len("echo "):]))
	case line == "pwd":
		t.print(cwd)
	case line == "whoami":
		t.print(t.cfg.User)
	case line == "date":
		t.print(t.cfg.Now().Format(DateLayout))
	case strings.HasPrefix(line, "ls"):
		if dir, ok := t.fs.ResolveDir(cwd); ok {
			t.print(listing(dir, false))
		}
	case strings.HasPrefix(line, "mkdir "):
		name := line[len("mkdir "):]
		t.fs.CreateDirectory(cwd, name)
		t.print(fmt.Sprintf("Directory '%s' created", name))
	case strings.HasPrefix(line, "touch "):
		name := line[len("touch "):]
		t.fs.CreateFile(cwd, name, "")
		t.print(fmt.Sprintf("File '%s' created", name))
	case line == "uname":
		t.print("Linux")
	case strings.HasPrefix(line, "sleep "):
		t.print(fmt.Sprintf("Sleeping for %d seconds...", leadingInt(line[len("sleep "):])))
	default:
		t.print(line + ": command not found in script")
	}
}

// leadingInt parses the integer at the start of s, or 0 if there is none.
func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && (s[end] >= '0' && s[end] <= '9' || end == 0 && s[end] == '-') {
		end++
	}
	n, _ := strconv.Atoi(s[:end])
	return n
}
