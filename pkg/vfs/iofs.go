package vfs

import (
	"errors"
	"io"
	"io/fs"
	"strings"
	"time"
)

// ErrClosedFile is returned when operations are performed on a closed file.
var ErrClosedFile = errors.New("vfs: file is closed")

// ErrInvalidSeek is returned for an invalid seek operation.
var ErrInvalidSeek = errors.New("vfs: invalid seek")

// FS returns a read-only io/fs view of the tree as it is now. Later
// mutations of the store do not show through.
func (s *Store) FS() fs.FS {
	return snapshotFS{root: s.Root()}
}

type snapshotFS struct {
	root *FileNode
}

func (f snapshotFS) lookup(op, name string) (*FileNode, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: op, Path: name, Err: fs.ErrInvalid}
	}
	node := f.root
	if name != "." {
		for _, seg := range strings.Split(name, "/") {
			if node = node.Child(seg); node == nil {
				return nil, &fs.PathError{Op: op, Path: name, Err: fs.ErrNotExist}
			}
		}
	}
	return node, nil
}

// Open implements fs.FS.
func (f snapshotFS) Open(name string) (fs.File, error) {
	node, err := f.lookup("open", name)
	if err != nil {
		return nil, err
	}
	return &file{node: node, path: name}, nil
}

// Stat implements fs.StatFS.
func (f snapshotFS) Stat(name string) (fs.FileInfo, error) {
	node, err := f.lookup("stat", name)
	if err != nil {
		return nil, err
	}
	return fileInfo{node: node, name: name}, nil
}

// ReadFile implements fs.ReadFileFS.
func (f snapshotFS) ReadFile(name string) ([]byte, error) {
	node, err := f.lookup("readfile", name)
	if err != nil {
		return nil, err
	}
	if node.IsDir() {
		return nil, &fs.PathError{Op: "readfile", Path: name, Err: ErrIsDirectory}
	}
	return []byte(node.Content), nil
}

// ReadDir implements fs.ReadDirFS.
func (f snapshotFS) ReadDir(name string) ([]fs.DirEntry, error) {
	node, err := f.lookup("readdir", name)
	if err != nil {
		return nil, err
	}
	if !node.IsDir() {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: ErrNotDirectory}
	}
	return dirEntries(node.Children()), nil
}

func dirEntries(nodes []*FileNode) []fs.DirEntry {
	out := make([]fs.DirEntry, len(nodes))
	for i, n := range nodes {
		out[i] = fs.FileInfoToDirEntry(fileInfo{node: n, name: n.Name})
	}
	return out
}

// fileInfo describes a node. name is the path it was opened by.
type fileInfo struct {
	node *FileNode
	name string
}

func (i fileInfo) Name() string {
	if i.name == "." {
		return "."
	}
	return Base(i.name)
}

func (i fileInfo) Size() int64 {
	return int64(i.node.SizeBytes)
}

func (i fileInfo) Mode() fs.FileMode {
	if i.node.IsDir() {
		return fs.ModeDir | 0o755
	}
	return 0o644
}

func (i fileInfo) ModTime() time.Time { return i.node.ModifiedAt }
func (i fileInfo) IsDir() bool        { return i.node.IsDir() }
func (i fileInfo) Sys() any           { return nil }

// file is an open node. Reads and seeks move over the content captured
// when it was opened.
type file struct {
	node   *FileNode
	path   string
	offset int64
	closed bool

	entries []fs.DirEntry
	listed  bool
}

func (f *file) Stat() (fs.FileInfo, error) {
	if f.closed {
		return nil, &fs.PathError{Op: "stat", Path: f.path, Err: ErrClosedFile}
	}
	return fileInfo{node: f.node, name: f.path}, nil
}

func (f *file) Read(b []byte) (int, error) {
	switch {
	case f.closed:
		return 0, &fs.PathError{Op: "read", Path: f.path, Err: ErrClosedFile}
	case f.node.IsDir():
		return 0, &fs.PathError{Op: "read", Path: f.path, Err: ErrIsDirectory}
	case len(b) == 0:
		return 0, nil
	case f.offset >= int64(len(f.node.Content)):
		return 0, io.EOF
	}
	n := copy(b, f.node.Content[f.offset:])
	f.offset += int64(n)
	return n, nil
}

func (f *file) Seek(offset int64, whence int) (int64, error) {
	if f.closed {
		return 0, &fs.PathError{Op: "seek", Path: f.path, Err: ErrClosedFile}
	}

	var next int64
	switch whence {
	case io.SeekStart:
		next = offset
	case io.SeekCurrent:
		next = f.offset + offset
	case io.SeekEnd:
		next = int64(len(f.node.Content)) + offset
	default:
		return 0, &fs.PathError{Op: "seek", Path: f.path, Err: ErrInvalidSeek}
	}
	if next < 0 {
		return 0, &fs.PathError{Op: "seek", Path: f.path, Err: ErrInvalidSeek}
	}
	f.offset = next
	return next, nil
}

// ReadDir implements fs.ReadDirFile. With n > 0 it returns at most n
// entries and io.EOF once the directory is exhausted.
func (f *file) ReadDir(n int) ([]fs.DirEntry, error) {
	if f.closed {
		return nil, &fs.PathError{Op: "readdir", Path: f.path, Err: ErrClosedFile}
	}
	if !f.node.IsDir() {
		return nil, &fs.PathError{Op: "readdir", Path: f.path, Err: ErrNotDirectory}
	}
	if !f.listed {
		f.entries = dirEntries(f.node.Children())
		f.listed = true
	}

	if n <= 0 {
		out := f.entries
		f.entries = nil
		if out == nil {
			out = []fs.DirEntry{}
		}
		return out, nil
	}
	if len(f.entries) == 0 {
		return nil, io.EOF
	}
	if n > len(f.entries) {
		n = len(f.entries)
	}
	out := f.entries[:n:n]
	f.entries = f.entries[n:]
	return out, nil
}

func (f *file) Close() error {
	if f.closed {
		return &fs.PathError{Op: "close", Path: f.path, Err: fs.ErrClosed}
	}
	f.closed = true
	return nil
}
