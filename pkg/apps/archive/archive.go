// Package archive implements the desktop archive manager. Nothing is really
// compressed: archives are listings of a directory with made-up compressed
// sizes, and extraction copies the original contents back into the file
// system.
package archive

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"

	"webdesk/pkg/vfs"
	"webdesk/pkg/wm"
)

// SampleName is the name of the built-in sample archive.
const SampleName = "sample-project.zip"

// DefaultExtractPath is where files are extracted when no path is given.
const DefaultExtractPath = "/home/user/extracted"

var (
	// ErrNoArchive is returned when no archive is open.
	ErrNoArchive = errors.New("archive: no archive open")
	// ErrNoSelection is returned when extracting with nothing selected.
	ErrNoSelection = errors.New("archive: no files selected")
	// ErrEmptyName is returned when creating an archive without a name.
	ErrEmptyName = errors.New("archive: empty name")
)

// Item is one entry in an archive.
type Item struct {
	ID         int      `json:"id"`
	Name       string   `json:"name"`
	Kind       vfs.Kind `json:"type"`
	Size       string   `json:"size"`
	Compressed string   `json:"compressed"`
	Ratio      string   `json:"ratio"`

	content string
}

// Compress returns a simulated compressed size for size bytes, between 30%
// and 70% of the original, and the saving as a whole percentage.
func Compress(size int, r *rand.Rand) (compressed, ratio int) {
	f := 0.0
	if r != nil {
		f = r.Float64()
	} else {
		f = rand.Float64()
	}
	compressed = int(math.Floor(float64(size) * (0.3 + f*0.4)))
	if size > 0 {
		ratio = int(math.Round(float64(size-compressed) / float64(size) * 100))
	}
	return compressed, ratio
}

// Config holds the settings of an archive manager.
type Config struct {
	// Source is the directory archives are created from. Empty uses
	// vfs.HomeDir.
	Source string
	// Rand drives simulated compression. Nil uses the global source.
	Rand *rand.Rand
}

// Manager holds at most one open archive.
type Manager struct {
	mu       sync.Mutex
	fs       *vfs.Store
	rand     *rand.Rand
	source   string
	name     string
	items    []Item
	selected []int
}

// New creates an archive manager with no archive open.
func New(fs *vfs.Store, cfg Config) *Manager {
	source := cfg.Source
	if source == "" {
		source = vfs.HomeDir
	}
	return &Manager{fs: fs, rand: cfg.Rand, source: source}
}

// Source returns the directory archives are created from.
func (m *Manager) Source() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.source
}

// SetSource changes the directory archives are created from.
func (m *Manager) SetSource(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	path = vfs.Normalize(path)
	if _, ok := m.fs.ResolveDir(path); !ok {
		return false
	}
	m.source = path
	return true
}

// SourceFiles lists the entries of the source directory.
func (m *Manager) SourceFiles() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	dir, _ := m.fs.ResolveDir(m.source)
	return dir.Names()
}

// Create builds an archive named name.zip from the source directory and
// opens it.
func (m *Manager) Create(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	dir, ok := m.fs.ResolveDir(m.source)
	if !ok {
		return "", fmt.Errorf("%s: %w", m.source, vfs.ErrNotFound)
	}

	items := make([]Item, 0, dir.Len())
	for i, c := range dir.Children() {
		item := Item{ID: i + 1, Name: c.Name, Kind: c.Kind, Size: "-", Compressed: "-", Ratio: "-"}
		if !c.IsDir() {
			compressed, ratio := Compress(c.SizeBytes, m.rand)
			item.Size = vfs.FormatSize(int64(c.SizeBytes))
			item.Compressed = vfs.FormatSize(int64(compressed))
			item.Ratio = fmt.Sprintf("%d%%", ratio)
			item.content = c.Content
		}
		items = append(items, item)
	}

	m.name = name + ".zip"
	m.items = items
	m.selected = nil
	return m.name, nil
}

// OpenSample opens the built-in sample archive.
func (m *Manager) OpenSample() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.name = SampleName
	m.items = []Item{
		{ID: 1, Name: "src/", Kind: vfs.KindDirectory, Size: "-", Compressed: "-", Ratio: "-"},
		{ID: 2, Name: "package.json", Kind: vfs.KindFile, Size: "2.1 KB", Compressed: "1.3 KB", Ratio: "38%",
			content: "{\n  \"name\": \"sample-project\",\n  \"version\": \"1.0.0\"\n}"},
		{ID: 3, Name: "README.md", Kind: vfs.KindFile, Size: "1.5 KB", Compressed: "890 B", Ratio: "41%",
			content: "# Sample Project\n\nThis is a sample project extracted from an archive."},
		{ID: 4, Name: "main.js", Kind: vfs.KindFile, Size: "15.2 KB", Compressed: "4.8 KB", Ratio: "68%",
			content: "console.log('Hello from extracted main.js');"},
	}
	m.selected = nil
}

// Name returns the open archive's name, or "" when none is open.
func (m *Manager) Name() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.name
}

// Items returns the entries of the open archive.
func (m *Manager) Items() []Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.items)
}

// Toggle selects or deselects an item.
func (m *Manager) Toggle(id int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if i := slices.Index(m.selected, id); i >= 0 {
		m.selected = slices.Delete(m.selected, i, i+1)
		return
	}
	m.selected = append(m.selected, id)
}

// SelectAll selects every item.
func (m *Manager) SelectAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.selected = m.selected[:0]
	for _, item := range m.items {
		m.selected = append(m.selected, item.ID)
	}
}

// ClearSelection deselects every item.
func (m *Manager) ClearSelection() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selected = nil
}

// Selected returns the selected item ids in selection order.
func (m *Manager) Selected() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.selected)
}

// Extract writes each selected file to path as extracted_<name>. An empty
// path means DefaultExtractPath. A missing destination directory is
// created when its parent exists. It returns the number of files written
// and clears the selection.
func (m *Manager) Extract(path string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.name == "" {
		return 0, ErrNoArchive
	}
	if len(m.selected) == 0 {
		return 0, ErrNoSelection
	}
	if strings.TrimSpace(path) == "" {
		path = DefaultExtractPath
	}
	path = vfs.Normalize(path)

	if _, ok := m.fs.ResolveDir(path); !ok {
		if err := m.fs.MakeDirectory(vfs.Parent(path), vfs.Base(path)); err != nil {
			return 0, err
		}
	}

	n := 0
	for _, id := range m.selected {
		item, ok := m.item(id)
		if !ok || item.Kind != vfs.KindFile {
			continue
		}
		content := item.content
		if content == "" {
			content = fmt.Sprintf("Content of %s from %s", item.Name, m.name)
		}
		if err := m.fs.MakeFile(path, "extracted_"+item.Name, content); err != nil {
			return n, err
		}
		n++
	}

	m.selected = nil
	return n, nil
}

func (m *Manager) item(id int) (Item, bool) {
	for _, item := range m.items {
		if item.ID == id {
			return item, true
		}
	}
	return Item{}, false
}

// CloseArchive closes the open archive.
func (m *Manager) CloseArchive() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.name = ""
	m.items = nil
	m.selected = nil
}

// State is the rendered state of the archive manager.
type State struct {
	Source   string   `json:"source"`
	Archive  string   `json:"archive,omitempty"`
	Items    []Item   `json:"items,omitempty"`
	Selected []int    `json:"selected,omitempty"`
	Preview  []string `json:"preview,omitempty"`
}

// Render implements wm.App.
func (m *Manager) Render() wm.View {
	m.mu.Lock()
	defer m.mu.Unlock()

	st := State{Source: m.source, Archive: m.name, Items: slices.Clone(m.items), Selected: slices.Clone(m.selected)}
	if m.name == "" {
		dir, _ := m.fs.ResolveDir(m.source)
		st.Preview = dir.Names()
	}
	return wm.View{Kind: "archive-manager", State: st}
}
