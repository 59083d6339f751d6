package vfs

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrNotFound is returned when a path or entry does not exist.
var ErrNotFound = errors.New("vfs: no such file or directory")

// ErrNotDirectory is returned when a directory was expected.
var ErrNotDirectory = errors.New("vfs: not a directory")

// ErrIsDirectory is returned when a file was expected.
var ErrIsDirectory = errors.New("vfs: is a directory")

// Store is the single source of truth for one desktop session's file tree.
//
// Reads return immutable snapshots. Mutations replace the root with a new
// tree that shares every subtree not on the edited path.
type Store struct {
	mu       sync.RWMutex
	root     *FileNode
	now      func() time.Time
	logger   *zap.Logger
	events   *broadcaster
	observer func(Event)
}

// Option configures a Store.
type Option func(*storeOptions)

type storeOptions struct {
	empty    bool
	now      func() time.Time
	logger   *zap.Logger
	observer func(Event)
}

// WithEmptyRoot starts the store with an empty root instead of the seed tree.
func WithEmptyRoot() Option {
	return func(o *storeOptions) { o.empty = true }
}

// WithClock sets the clock used for modification timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *storeOptions) { o.now = now }
}

// WithLogger sets the logger. Mutations are logged at debug level.
func WithLogger(logger *zap.Logger) Option {
	return func(o *storeOptions) { o.logger = logger }
}

// WithObserver registers a callback invoked synchronously after every
// committed mutation.
func WithObserver(fn func(Event)) Option {
	return func(o *storeOptions) { o.observer = fn }
}

// NewStore creates a store seeded with the sample layout.
func NewStore(opts ...Option) *Store {
	o := storeOptions{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}

	root := newDirectory(Root, o.now())
	if !o.empty {
		root = Seed(o.now())
	}

	return &Store{
		root:     root,
		now:      o.now,
		logger:   o.logger,
		events:   newBroadcaster(),
		observer: o.observer,
	}
}

// Root returns the current tree snapshot.
func (s *Store) Root() *FileNode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.root
}

// Resolve walks path from the root. It reports false if any segment is
// missing or a non-directory is met before the last segment.
func (s *Store) Resolve(path string) (*FileNode, bool) {
	node := resolve(s.Root(), Split(path))
	return node, node != nil
}

// ResolveDir is Resolve restricted to directories.
func (s *Store) ResolveDir(path string) (*FileNode, bool) {
	node, ok := s.Resolve(path)
	if !ok || !node.IsDir() {
		return nil, false
	}
	return node, true
}

func resolve(root *FileNode, parts []string) *FileNode {
	node := root
	for _, part := range parts {
		if !node.IsDir() {
			return nil
		}
		child, ok := node.children[part]
		if !ok {
			return nil
		}
		node = child
	}
	return node
}

// CreateFile inserts or overwrites name in the directory at path as a file.
// It reports false if path is not a directory.
func (s *Store) CreateFile(path, name, content string) bool {
	return s.MakeFile(path, name, content) == nil
}

// CreateDirectory inserts or overwrites name in the directory at path as an
// empty directory. It reports false if path is not a directory.
func (s *Store) CreateDirectory(path, name string) bool {
	return s.MakeDirectory(path, name) == nil
}

// UpdateContent replaces the content of an existing file. A missing entry,
// or one that is a directory, leaves the tree untouched and reports false.
func (s *Store) UpdateContent(path, name, content string) bool {
	return s.WriteContent(path, name, content) == nil
}

// DeleteFile removes name from the directory at path. An absent entry is a
// no-op.
func (s *Store) DeleteFile(path, name string) bool {
	return s.removeEntry(path, name) == nil
}

// DeleteDirectory removes name from the directory at path, with its whole
// subtree. An absent entry is a no-op.
func (s *Store) DeleteDirectory(path, name string) bool {
	return s.removeEntry(path, name) == nil
}

// MakeFile is CreateFile with an error describing the failure.
func (s *Store) MakeFile(path, name, content string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	return s.mutate(path, func(dir *FileNode, now time.Time) (*Event, error) {
		dir.children[name] = newFile(name, content, now)
		return &Event{Op: EventCreate, Name: name, Kind: KindFile}, nil
	})
}

// MakeDirectory is CreateDirectory with an error describing the failure.
func (s *Store) MakeDirectory(path, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	return s.mutate(path, func(dir *FileNode, now time.Time) (*Event, error) {
		dir.children[name] = newDirectory(name, now)
		return &Event{Op: EventCreate, Name: name, Kind: KindDirectory}, nil
	})
}

// WriteContent is UpdateContent with an error describing the failure.
func (s *Store) WriteContent(path, name, content string) error {
	return s.mutate(path, func(dir *FileNode, now time.Time) (*Event, error) {
		existing, ok := dir.children[name]
		if !ok {
			return nil, ErrNotFound
		}
		if existing.IsDir() {
			return nil, ErrIsDirectory
		}
		dir.children[name] = newFile(name, content, now)
		return &Event{Op: EventModify, Name: name, Kind: KindFile}, nil
	})
}

// Remove deletes name from the directory at path. It returns ErrNotFound
// only when path itself does not resolve to a directory.
func (s *Store) Remove(path, name string) error {
	return s.removeEntry(path, name)
}

func (s *Store) removeEntry(path, name string) error {
	return s.mutate(path, func(dir *FileNode, _ time.Time) (*Event, error) {
		existing, ok := dir.children[name]
		if !ok {
			return nil, nil
		}
		delete(dir.children, name)
		return &Event{Op: EventDelete, Name: name, Kind: existing.Kind}, nil
	})
}

// mutate copies the spine from the root to the directory at path, lets edit
// change the copied directory, and publishes the new root. When edit returns
// a nil event the tree is left as it was.
func (s *Store) mutate(path string, edit func(dir *FileNode, now time.Time) (*Event, error)) error {
	parts := Split(path)

	s.mu.Lock()
	now := s.now()

	target := resolve(s.root, parts)
	if target == nil {
		s.mu.Unlock()
		return fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	if !target.IsDir() {
		s.mu.Unlock()
		return fmt.Errorf("%s: %w", path, ErrNotDirectory)
	}

	spine := make([]*FileNode, len(parts)+1)
	spine[0] = s.root.shallowCopy()
	for i, part := range parts {
		spine[i+1] = spine[i].children[part].shallowCopy()
		spine[i].children[part] = spine[i+1]
	}

	dir := spine[len(parts)]
	ev, err := edit(dir, now)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("%s: %w", path, err)
	}
	if ev == nil {
		s.mu.Unlock()
		return nil
	}
	dir.ModifiedAt = now
	s.root = spine[0]

	ev.Dir = Normalize(path)
	ev.Timestamp = now
	observer := s.observer
	s.mu.Unlock()

	s.logger.Debug("vfs mutation",
		zap.String("op", ev.Op),
		zap.String("dir", ev.Dir),
		zap.String("name", ev.Name),
		zap.Stringer("kind", ev.Kind),
	)
	if observer != nil {
		observer(*ev)
	}
	s.events.publish(*ev)
	return nil
}

// Subscribe returns a channel receiving every committed mutation.
// The caller must call Unsubscribe when done.
func (s *Store) Subscribe() chan Event {
	return s.events.subscribe()
}

// Unsubscribe removes a subscriber and closes its channel.
func (s *Store) Unsubscribe(ch chan Event) {
	s.events.unsubscribe(ch)
}

// Subscribers returns the number of active subscribers.
func (s *Store) Subscribers() int {
	return s.events.count()
}

// NodeCount returns the number of nodes in the current tree.
func (s *Store) NodeCount() int {
	return CountNodes(s.Root())
}
