// Package texteditor implements the desktop text editor over a session's
// file system.
package texteditor

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"webdesk/pkg/vfs"
	"webdesk/pkg/wm"
)

// WelcomeText is shown when the editor starts without a file.
const WelcomeText = "# Welcome to Text Editor\n\nCreate a new file or open an existing one to start editing..."

var (
	// ErrCancelled is returned when the user declines to name a new file.
	ErrCancelled = errors.New("texteditor: cancelled")
	// ErrSaveFailed is returned when the file system rejects a save.
	ErrSaveFailed = errors.New("texteditor: failed to save file")
)

// File identifies a file by directory and name.
type File struct {
	Dir  string `json:"dir"`
	Name string `json:"name"`
}

// Path returns the absolute path of the file.
func (f File) Path() string { return vfs.Join(f.Dir, f.Name) }

// Config holds the settings of a text editor.
type Config struct {
	// Home is where unnamed buffers are saved and where the open dialog
	// starts. Empty uses vfs.HomeDir.
	Home string
	// Prompt asks for a file name. Nil cancels saves of unnamed buffers.
	Prompt func(message string) (string, bool)
	// Confirm asks whether unsaved changes should be saved first. Nil
	// discards them.
	Confirm func(message string) bool
}

// Editor edits one buffer at a time.
type Editor struct {
	mu       sync.Mutex
	fs       *vfs.Store
	cfg      Config
	current  *File
	content  string
	modified bool
	browse   string
}

// New creates an editor. A non-nil initial file is loaded straight away.
func New(fs *vfs.Store, cfg Config, initial *File) *Editor {
	if cfg.Home == "" {
		cfg.Home = vfs.HomeDir
	}
	e := &Editor{fs: fs, cfg: cfg, content: WelcomeText, browse: cfg.Home}
	if initial != nil {
		f := *initial
		e.current = &f
		e.load()
	}
	return e
}

// load reads the current file into the buffer. A missing file, or a
// directory, gives an empty buffer so nothing of the previous file carries
// over under the new name.
func (e *Editor) load() {
	e.modified = false
	node, ok := e.fs.Resolve(e.current.Path())
	if !ok || node.IsDir() {
		e.content = ""
		return
	}
	e.content = node.Content
}

// Content returns the buffer.
func (e *Editor) Content() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.content
}

// Modified reports whether the buffer has unsaved changes.
func (e *Editor) Modified() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.modified
}

// Current returns the file being edited.
func (e *Editor) Current() (File, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current == nil {
		return File{}, false
	}
	return *e.current, true
}

// Title returns the window title for the current file.
func (e *Editor) Title() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current == nil {
		return "Text Editor"
	}
	return e.current.Name + " - Text Editor"
}

// SetContent replaces the buffer.
func (e *Editor) SetContent(content string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.content = content
	e.modified = true
}

// InsertTab replaces the byte range [start, end) of the buffer with two
// spaces and returns the new cursor offset.
func (e *Editor) InsertTab(start, end int) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	start = min(max(start, 0), len(e.content))
	end = min(max(end, start), len(e.content))
	e.content = e.content[:start] + "  " + e.content[end:]
	e.modified = true
	return start + 2
}

// Save writes the buffer. An unnamed buffer is saved in the home directory
// under a name asked for with Prompt. It returns the status message.
func (e *Editor) Save() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.save()
}

func (e *Editor) save() (string, error) {
	if e.current == nil {
		if e.cfg.Prompt == nil {
			return "", ErrCancelled
		}
		name, ok := e.cfg.Prompt("Enter filename:")
		if !ok || strings.TrimSpace(name) == "" {
			return "", ErrCancelled
		}
		return e.saveAs(e.cfg.Home, strings.TrimSpace(name))
	}

	if err := e.fs.WriteContent(e.current.Dir, e.current.Name, e.content); err != nil {
		return "Failed to save file", fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}
	e.modified = false
	return "File saved successfully", nil
}

// SaveAs writes the buffer to a new file and makes it the current file.
func (e *Editor) SaveAs(dir, name string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.saveAs(dir, name)
}

func (e *Editor) saveAs(dir, name string) (string, error) {
	if err := e.fs.MakeFile(dir, name, e.content); err != nil {
		return "Failed to save file", fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}
	e.current = &File{Dir: vfs.Normalize(dir), Name: name}
	e.modified = false
	return "File saved as " + name, nil
}

// Open loads another file. Unsaved changes are saved first if Confirm
// agrees.
func (e *Editor) Open(dir, name string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.offerSave("You have unsaved changes. Do you want to save before opening another file?")
	e.current = &File{Dir: vfs.Normalize(dir), Name: name}
	e.load()
}

// New starts an empty unnamed buffer. Unsaved changes are saved first if
// Confirm agrees.
func (e *Editor) New() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.offerSave("You have unsaved changes. Do you want to save before creating a new file?")
	e.current = nil
	e.content = ""
	e.modified = false
}

func (e *Editor) offerSave(message string) {
	if !e.modified || e.cfg.Confirm == nil || !e.cfg.Confirm(message) {
		return
	}
	// A failed or cancelled save still lets the switch go ahead.
	_, _ = e.save()
}

// Browse sets the directory listed by the open dialog.
func (e *Editor) Browse(path string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	path = vfs.Normalize(path)
	if _, ok := e.fs.ResolveDir(path); !ok {
		return false
	}
	e.browse = path
	return true
}

// Listing is a file offered by the open dialog.
type Listing struct {
	Name string `json:"name"`
	Size string `json:"size"`
}

// Files lists the files, not directories, of the browsed directory.
func (e *Editor) Files() (string, []Listing) {
	e.mu.Lock()
	defer e.mu.Unlock()

	dir, _ := e.fs.ResolveDir(e.browse)
	var out []Listing
	for _, c := range dir.Children() {
		if !c.IsDir() {
			out = append(out, Listing{Name: c.Name, Size: vfs.FormatSize(int64(c.SizeBytes))})
		}
	}
	return e.browse, out
}

// Stats describes the buffer.
type Stats struct {
	Characters int    `json:"characters"`
	Lines      int    `json:"lines"`
	Size       string `json:"size"`
}

// Stats counts characters, lines and bytes of the buffer.
func (e *Editor) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return stats(e.content)
}

func stats(content string) Stats {
	return Stats{
		Characters: utf8.RuneCountInString(content),
		Lines:      strings.Count(content, "\n") + 1,
		Size:       vfs.FormatSize(int64(vfs.Size(content))),
	}
}

// State is the rendered state of the editor.
type State struct {
	File     *File  `json:"file,omitempty"`
	Content  string `json:"content"`
	Modified bool   `json:"modified"`
	Stats    Stats  `json:"stats"`
	Status   string `json:"status"`
}

// Render implements wm.App.
func (e *Editor) Render() wm.View {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := State{Content: e.content, Modified: e.modified, Stats: stats(e.content), Status: "No file open"}
	if e.current != nil {
		f := *e.current
		st.File = &f
		st.Status = "Editing: " + f.Name
	}
	return wm.View{Kind: "text-editor", State: st}
}
