// Package vfs provides the in-memory virtual file system shared by every
// file-aware application on the desktop (terminal, file manager, text editor,
// archive manager).
//
// The tree is a persistent structure: a FileNode is never modified after it
// has been published by a Store. Every mutation copies the nodes on the path
// from the root to the edited directory and shares every other subtree, so a
// node or subtree obtained before a mutation remains a valid, unchanged
// snapshot afterwards.
//
// # Paths
//
// Paths are "/"-separated and absolute. The root is "/". The resolver walks
// segments literally: "." and ".." are not interpreted here, callers such as
// the terminal's cd handle them.
//
// Store.FS exposes a snapshot through io/fs, so the tree can be walked with
// fs.WalkDir or served with http.ServeFileFS.
//
// # Usage
//
//	fs := vfs.NewStore()
//	fs.CreateFile("/home/user", "a.txt", "hi")
//	dir, ok := fs.Resolve("/home/user")
//	if ok {
//		file := dir.Child("a.txt") // Content "hi", SizeBytes 2
//	}
package vfs
