package vfs

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// Kind identifies whether a node is a file or a directory.
type Kind int

const (
	// KindFile is a regular file carrying string content.
	KindFile Kind = iota
	// KindDirectory is a directory carrying named children.
	KindDirectory
)

// String returns a string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDirectory:
		return "directory"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "file":
		*k = KindFile
	case "directory":
		*k = KindDirectory
	default:
		return fmt.Errorf("vfs: unknown kind %q", b)
	}
	return nil
}

// FileNode is an entry in the file system tree.
//
// Only files carry Content and SizeBytes; only directories carry children.
// A FileNode returned by a Store must be treated as read-only.
type FileNode struct {
	Name       string
	Kind       Kind
	Content    string
	SizeBytes  int
	ModifiedAt time.Time

	children map[string]*FileNode
}

func newFile(name, content string, now time.Time) *FileNode {
	return &FileNode{
		Name:       name,
		Kind:       KindFile,
		Content:    content,
		SizeBytes:  Size(content),
		ModifiedAt: now,
	}
}

func newDirectory(name string, now time.Time) *FileNode {
	return &FileNode{
		Name:       name,
		Kind:       KindDirectory,
		ModifiedAt: now,
		children:   make(map[string]*FileNode),
	}
}

// IsDir reports whether the node is a directory.
func (n *FileNode) IsDir() bool {
	return n != nil && n.Kind == KindDirectory
}

// Child returns the named child, or nil if n is not a directory or has no
// such child.
func (n *FileNode) Child(name string) *FileNode {
	if !n.IsDir() {
		return nil
	}
	return n.children[name]
}

// Has reports whether the directory has a child with the given name.
func (n *FileNode) Has(name string) bool {
	return n.Child(name) != nil
}

// Children returns the node's children sorted by name.
func (n *FileNode) Children() []*FileNode {
	if !n.IsDir() {
		return nil
	}
	out := make([]*FileNode, 0, len(n.children))
	for _, c := range n.children {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Names returns the sorted child names of a directory.
func (n *FileNode) Names() []string {
	children := n.Children()
	names := make([]string, len(children))
	for i, c := range children {
		names[i] = c.Name
	}
	return names
}

// Len returns the number of children.
func (n *FileNode) Len() int {
	if !n.IsDir() {
		return 0
	}
	return len(n.children)
}

// shallowCopy copies the node and its child map. Children are shared.
func (n *FileNode) shallowCopy() *FileNode {
	cp := *n
	if n.children != nil {
		cp.children = make(map[string]*FileNode, len(n.children)+1)
		for k, v := range n.children {
			cp.children[k] = v
		}
	}
	return &cp
}

type nodeJSON struct {
	Name       string               `json:"name"`
	Kind       Kind                 `json:"type"`
	Content    *string              `json:"content,omitempty"`
	SizeBytes  *int                 `json:"size,omitempty"`
	ModifiedAt time.Time            `json:"modified"`
	Children   map[string]*FileNode `json:"children,omitempty"`
}

// MarshalJSON encodes the node in the same shape the browser client uses.
func (n *FileNode) MarshalJSON() ([]byte, error) {
	out := nodeJSON{Name: n.Name, Kind: n.Kind, ModifiedAt: n.ModifiedAt}
	if n.IsDir() {
		out.Children = n.children
		if out.Children == nil {
			out.Children = map[string]*FileNode{}
		}
	} else {
		content, size := n.Content, n.SizeBytes
		out.Content = &content
		out.SizeBytes = &size
	}
	return json.Marshal(out)
}

// CountNodes counts all nodes in a tree, including root.
func CountNodes(root *FileNode) int {
	if root == nil {
		return 0
	}
	count := 1
	for _, child := range root.children {
		count += CountNodes(child)
	}
	return count
}
