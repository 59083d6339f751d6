package terminal

import (
	"fmt"
	"strings"

	"webdesk/pkg/vfs"
)

// commandFunc runs a command. name is the command as typed, args the
// remaining fields and line the whole trimmed input.
type commandFunc func(t *Terminal, name string, args []string, line string)

// command represents a built-in terminal command.
type command struct {
	Name string
	Run  commandFunc
}

// commands holds every command in completion order.
var commands = []command{
	{"help", (*Terminal).cmdHelp},
	{"ls", (*Terminal).cmdLs},
	{"cd", (*Terminal).cmdCd},
	{"pwd", (*Terminal).cmdPwd},
	{"cat", (*Terminal).cmdCat},
	{"echo", (*Terminal).cmdEcho},
	{"clear", (*Terminal).cmdClear},
	{"date", (*Terminal).cmdDate},
	{"whoami", (*Terminal).cmdWhoami},
	{"uname", (*Terminal).cmdUname},
	{"mkdir", (*Terminal).cmdMkdir},
	{"touch", (*Terminal).cmdTouch},
	{"nano", (*Terminal).cmdNano},
	{"editor", (*Terminal).cmdEditor},
	{"gedit", (*Terminal).cmdEditor},
	{"bash", (*Terminal).cmdBash},
	{"sh", (*Terminal).cmdBash},
	{"chmod", (*Terminal).cmdChmod},
	{"rm", (*Terminal).cmdRm},
	{"rmdir", (*Terminal).cmdRmdir},
}

// commandMap maps command names to commands.
var commandMap = make(map[string]*command)

func init() {
	for i := range commands {
		commandMap[commands[i].Name] = &commands[i]
	}
}

func lookup(name string) (*command, bool) {
	cmd, ok := commandMap[name]
	return cmd, ok
}

func (c *command) run(t *Terminal, name string, args []string, line string) {
	c.Run(t, name, args, line)
}

// IsCommand reports whether name is a built-in command or a script
// invocation.
func IsCommand(name string) bool {
	_, ok := lookup(strings.ToLower(name))
	return ok || strings.HasPrefix(name, "./")
}

// CommandNames returns the names of all commands.
func CommandNames() []string {
	names := make([]string, len(commands))
	for i, c := range commands {
		names[i] = c.Name
	}
	return names
}

var helpText = []string{
	"Available commands:",
	"  ls [path]     - List directory contents",
	"  cd <path>     - Change directory",
	"  pwd           - Print working directory",
	"  cat <file>    - Display file contents",
	"  echo <text>   - Display text",
	"  clear         - Clear terminal",
	"  date          - Show current date",
	"  whoami        - Show current user",
	"  uname         - Show system information",
	"  mkdir <name>  - Create directory",
	"  touch <name>  - Create empty file",
	"  nano <file>   - Edit file with nano editor",
	"  editor <file> - Open file in Text Editor window",
	"  gedit <file>  - Open file in Text Editor window (alias)",
	"  bash <script> - Execute shell script",
	"  ./<script>    - Execute shell script (if executable)",
	"  chmod +x <file> - Make file executable",
	"  rm <file>     - Remove file",
	"  rmdir <dir>   - Remove directory",
	"",
}

// Uname is the system description printed by uname.
const Uname = "Linux hairetsucom 5.4.0 #1 SMP x86_64 GNU/Linux"

// DateLayout renders dates the way a browser's Date.toString does.
const DateLayout = "Mon Jan 02 2006 15:04:05 GMT-0700 (MST)"

func (t *Terminal) cmdHelp(_ string, _ []string, _ string) {
	t.print(helpText...)
}

// listing renders a directory's names sorted, with directories suffixed by
// "/" and, when marks is set, shell scripts suffixed by "*".
func listing(dir *vfs.FileNode, marks bool) string {
	children := dir.Children()
	items := make([]string, len(children))
	for i, c := range children {
		switch {
		case c.IsDir():
			items[i] = c.Name + "/"
		case marks && strings.HasSuffix(c.Name, ".sh"):
			items[i] = c.Name + "*"
		default:
			items[i] = c.Name
		}
	}
	return strings.Join(items, "  ")
}

func (t *Terminal) cmdLs(_ string, args []string, _ string) {
	if len(args) == 0 {
		dir := t.dir()
		if dir == nil {
			t.print("ls: cannot access directory", "")
			return
		}
		t.print(listing(dir, true), "")
		return
	}

	node, ok := t.fs.Resolve(vfs.Abs(t.cwd, args[0]))
	switch {
	case !ok:
		t.print(fmt.Sprintf("ls: cannot access '%s': No such file or directory", args[0]), "")
	case node.IsDir():
		t.print(listing(node, true), "")
	default:
		t.print(args[0], "")
	}
}

func (t *Terminal) cmdCd(_ string, args []string, _ string) {
	if len(args) == 0 || args[0] == "~" {
		t.cwd = t.cfg.Home
		return
	}

	switch target := args[0]; target {
	case "..":
		t.cwd = vfs.Parent(t.cwd)
	case "/":
		t.cwd = vfs.Root
	default:
		path := vfs.Abs(t.cwd, target)
		if _, ok := t.fs.ResolveDir(path); !ok {
			t.print(fmt.Sprintf("cd: %s: No such file or directory", target), "")
			return
		}
		t.cwd = path
	}
}

func (t *Terminal) cmdPwd(_ string, _ []string, _ string) {
	t.print(t.cwd, "")
}

func (t *Terminal) cmdCat(_ string, args []string, _ string) {
	if len(args) == 0 {
		t.print("cat: missing file operand", "")
		return
	}

	file := t.dir().Child(args[0])
	switch {
	case file == nil:
		t.print(fmt.Sprintf("cat: %s: No such file or directory", args[0]), "")
	case file.IsDir():
		t.print(fmt.Sprintf("cat: %s: Is a directory", args[0]), "")
	default:
		t.print(file.Content, "")
	}
}

func (t *Terminal) cmdEcho(name string, _ []string, line string) {
	text := strings.TrimPrefix(line, name)
	t.print(strings.TrimPrefix(text, " "), "")
}

func (t *Terminal) cmdClear(_ string, _ []string, _ string) {
	t.lines = nil
}

func (t *Terminal) cmdDate(_ string, _ []string, _ string) {
	t.print(t.cfg.Now().Format(DateLayout), "")
}

func (t *Terminal) cmdWhoami(_ string, _ []string, _ string) {
	t.print(t.cfg.User, "")
}

func (t *Terminal) cmdUname(_ string, _ []string, _ string) {
	t.print(Uname, "")
}

func (t *Terminal) cmdMkdir(_ string, args []string, _ string) {
	if len(args) == 0 {
		t.print("mkdir: missing operand", "")
		return
	}

	name := args[0]
	if t.exists(name) {
		t.print(fmt.Sprintf("mkdir: cannot create directory '%s': File exists", name), "")
		return
	}
	if !t.fs.CreateDirectory(t.cwd, name) {
		t.print(fmt.Sprintf("mkdir: cannot create directory '%s'", name), "")
		return
	}
	t.print(fmt.Sprintf("Directory '%s' created", name), "")
}

func (t *Terminal) cmdTouch(_ string, args []string, _ string) {
	if len(args) == 0 {
		t.print("touch: missing file operand", "")
		return
	}

	name := args[0]
	if t.exists(name) {
		t.print(fmt.Sprintf("File '%s' already exists", name), "")
		return
	}
	if !t.fs.CreateFile(t.cwd, name, "") {
		t.print(fmt.Sprintf("touch: cannot create file '%s'", name), "")
		return
	}
	t.print(fmt.Sprintf("File '%s' created", name), "")
}

func (t *Terminal) cmdNano(_ string, args []string, _ string) {
	if len(args) == 0 {
		t.print("nano: missing filename", "")
		return
	}
	t.print("Opening nano editor for: "+args[0], "")
	t.openNano(args[0])
}

func (t *Terminal) cmdEditor(name string, args []string, _ string) {
	if len(args) == 0 {
		t.print(name+": missing filename", "")
		return
	}
	if t.cfg.Opener == nil {
		t.print(name+": Text Editor window creation not available", "")
		return
	}

	filename := args[0]
	if !t.exists(filename) {
		prompt := fmt.Sprintf("File '%s' does not exist. Create it?", filename)
		if t.cfg.Confirm == nil || !t.cfg.Confirm(prompt) {
			t.print(name+": operation cancelled", "")
			return
		}
		t.fs.CreateFile(t.cwd, filename, "")
	}

	if err := t.cfg.Opener(t.cwd, filename); err != nil {
		t.print(fmt.Sprintf("%s: cannot open '%s': %v", name, filename, err), "")
		return
	}
	t.print(fmt.Sprintf("Opening '%s' in Text Editor...", filename), "")
}

func (t *Terminal) cmdBash(name string, args []string, _ string) {
	if len(args) == 0 {
		t.print(name+": missing script name", "")
		return
	}
	t.runScript(args[0])
}

func (t *Terminal) cmdChmod(_ string, args []string, _ string) {
	if len(args) < 2 || args[0] != "+x" {
		t.print("chmod: usage: chmod +x <filename>", "")
		return
	}
	if !t.exists(args[1]) {
		t.print(fmt.Sprintf("chmod: cannot access '%s': No such file", args[1]), "")
		return
	}
	t.print(fmt.Sprintf("chmod: '%s' is now executable", args[1]), "")
}

func (t *Terminal) cmdRm(_ string, args []string, _ string) {
	if len(args) == 0 {
		t.print("rm: missing operand", "")
		return
	}

	name := args[0]
	if !t.exists(name) {
		t.print(fmt.Sprintf("rm: cannot remove '%s': No such file or directory", name), "")
		return
	}
	if !t.fs.DeleteFile(t.cwd, name) {
		t.print(fmt.Sprintf("rm: cannot remove file '%s'", name), "")
		return
	}
	t.print(fmt.Sprintf("File '%s' removed", name), "")
}

func (t *Terminal) cmdRmdir(_ string, args []string, _ string) {
	if len(args) == 0 {
		t.print("rmdir: missing operand", "")
		return
	}

	name := args[0]
	if !t.exists(name) {
		t.print(fmt.Sprintf("rmdir: cannot remove '%s': No such file or directory", name), "")
		return
	}
	if !t.fs.DeleteDirectory(t.cwd, name) {
		t.print(fmt.Sprintf("rmdir: cannot remove directory '%s'", name), "")
		return
	}
	t.print(fmt.Sprintf("Directory '%s' removed", name), "")
}
