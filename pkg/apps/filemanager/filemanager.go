// Package filemanager implements the desktop file manager: a directory
// browser over a session's file system.
package filemanager

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"webdesk/pkg/vfs"
	"webdesk/pkg/wm"
)

var (
	// ErrEmptyName is returned when a new entry is given a blank name.
	ErrEmptyName = errors.New("filemanager: empty name")
	// ErrUnsupported is returned when a file cannot be opened for editing.
	ErrUnsupported = errors.New("filemanager: file type not supported for editing")
	// ErrNoOpener is returned when no editor window can be created.
	ErrNoOpener = errors.New("filemanager: text editor not available")
)

var textFile = regexp.MustCompile(`(?i)\.(txt|md|js|ts|jsx|tsx|json|xml|html|css|sh|py|java|cpp|c|h|readme|log|conf|config|ini)$`)

// IsTextFile reports whether name has an extension the text editor opens.
func IsTextFile(name string) bool {
	return textFile.MatchString(name)
}

// Opener opens the file name in directory dir in a text editor window.
type Opener func(dir, name string) error

// Config holds the settings of a file manager.
type Config struct {
	// Home is the start and home directory. Empty uses vfs.HomeDir.
	Home   string
	Opener Opener
}

// FileManager browses one directory at a time.
type FileManager struct {
	mu     sync.Mutex
	fs     *vfs.Store
	cwd    string
	home   string
	opener Opener
}

// New creates a file manager showing the home directory.
func New(fs *vfs.Store, cfg Config) *FileManager {
	home := cfg.Home
	if home == "" {
		home = vfs.HomeDir
	}
	return &FileManager{fs: fs, cwd: home, home: home, opener: cfg.Opener}
}

// Cwd returns the directory being shown.
func (f *FileManager) Cwd() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cwd
}

// Location returns the display name of the current directory.
func (f *FileManager) Location() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.location()
}

func (f *FileManager) location() string {
	switch f.cwd {
	case vfs.Root:
		return "Root"
	case f.home:
		return "Home"
	default:
		return f.cwd
	}
}

// Navigate shows path if it is a directory. Otherwise nothing changes and
// it reports false.
func (f *FileManager) Navigate(path string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.navigate(path)
}

func (f *FileManager) navigate(path string) bool {
	path = vfs.Normalize(path)
	if _, ok := f.fs.ResolveDir(path); !ok {
		return false
	}
	f.cwd = path
	return true
}

// Up shows the parent directory. At the root it does nothing.
func (f *FileManager) Up() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cwd == vfs.Root {
		return false
	}
	return f.navigate(vfs.Parent(f.cwd))
}

// Home shows the home directory.
func (f *FileManager) Home() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.navigate(f.home)
}

// Open enters a directory or opens a text file in the editor.
func (f *FileManager) Open(name string) error {
	f.mu.Lock()
	node := f.dir().Child(name)
	if node == nil {
		f.mu.Unlock()
		return fmt.Errorf("%s: %w", name, vfs.ErrNotFound)
	}
	if node.IsDir() {
		defer f.mu.Unlock()
		f.navigate(vfs.Join(f.cwd, name))
		return nil
	}
	f.mu.Unlock()

	if !IsTextFile(name) {
		return fmt.Errorf("cannot open %s: %w", name, ErrUnsupported)
	}
	return f.OpenInEditor(name)
}

// OpenInEditor opens a file in the editor regardless of its extension.
func (f *FileManager) OpenInEditor(name string) error {
	f.mu.Lock()
	cwd := f.cwd
	node := f.dir().Child(name)
	f.mu.Unlock()

	if node == nil {
		return fmt.Errorf("%s: %w", name, vfs.ErrNotFound)
	}
	if node.IsDir() {
		return fmt.Errorf("%s: %w", name, vfs.ErrIsDirectory)
	}
	if f.opener == nil {
		return ErrNoOpener
	}
	return f.opener(cwd, name)
}

// CreateFolder creates a directory in the current directory.
func (f *FileManager) CreateFolder(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	return f.fs.MakeDirectory(f.Cwd(), name)
}

// CreateFile creates an empty file in the current directory.
func (f *FileManager) CreateFile(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	return f.fs.MakeFile(f.Cwd(), name, "")
}

// Delete removes a file or a directory with its contents.
func (f *FileManager) Delete(name string) error {
	cwd := f.Cwd()
	dir, ok := f.fs.ResolveDir(cwd)
	if !ok {
		return fmt.Errorf("%s: %w", cwd, vfs.ErrNotFound)
	}
	node := dir.Child(name)
	if node == nil {
		return fmt.Errorf("%s: %w", name, vfs.ErrNotFound)
	}

	var deleted bool
	if node.IsDir() {
		deleted = f.fs.DeleteDirectory(cwd, name)
	} else {
		deleted = f.fs.DeleteFile(cwd, name)
	}
	if !deleted {
		return fmt.Errorf("%s: %w", name, vfs.ErrNotFound)
	}
	return nil
}

func (f *FileManager) dir() *vfs.FileNode {
	dir, _ := f.fs.ResolveDir(f.cwd)
	return dir
}

// Entry is one row of the file list.
type Entry struct {
	Name     string    `json:"name"`
	Kind     vfs.Kind  `json:"type"`
	Size     string    `json:"size"`
	Modified time.Time `json:"modified"`
	Editable bool      `json:"editable"`
}

// Entries lists the current directory sorted by name. Directories show "-"
// as their size.
func (f *FileManager) Entries() []Entry {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.entries()
}

func (f *FileManager) entries() []Entry {
	children := f.dir().Children()
	out := make([]Entry, len(children))
	for i, c := range children {
		e := Entry{Name: c.Name, Kind: c.Kind, Size: "-", Modified: c.ModifiedAt}
		if !c.IsDir() {
			e.Size = vfs.FormatSize(int64(c.SizeBytes))
			e.Editable = IsTextFile(c.Name)
		}
		out[i] = e
	}
	return out
}

// State is the rendered state of the file manager.
type State struct {
	Path     string  `json:"path"`
	Location string  `json:"location"`
	CanGoUp  bool    `json:"can_go_up"`
	Entries  []Entry `json:"entries"`
}

// Render implements wm.App.
func (f *FileManager) Render() wm.View {
	f.mu.Lock()
	defer f.mu.Unlock()
	return wm.View{Kind: "file-manager", State: State{
		Path:     f.cwd,
		Location: f.location(),
		CanGoUp:  f.cwd != vfs.Root,
		Entries:  f.entries(),
	}}
}
