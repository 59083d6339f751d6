package vfs

import (
	"errors"
	"strings"
)

// Common path-related errors.
var (
	ErrInvalidName = errors.New("vfs: invalid name")
	ErrPathTooLong = errors.New("vfs: path too long")
)

// MaxPathLength is the maximum allowed path length.
const MaxPathLength = 4096

// Root is the path of the root directory.
const Root = "/"

// Split returns the non-empty segments of p. Split("/home/user") is
// ["home", "user"] and Split("/") is empty. Segments are taken literally.
func Split(p string) []string {
	parts := strings.Split(p, "/")
	out := parts[:0]
	for _, part := range parts {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Join appends name to the directory path dir.
func Join(dir, name string) string {
	if dir == "" || dir == Root {
		return Root + name
	}
	return strings.TrimSuffix(dir, "/") + "/" + name
}

// Parent returns the parent of p. The parent of the root is the root.
func Parent(p string) string {
	parts := Split(p)
	if len(parts) <= 1 {
		return Root
	}
	return Root + strings.Join(parts[:len(parts)-1], "/")
}

// Base returns the last segment of p, or "/" for the root.
func Base(p string) string {
	parts := Split(p)
	if len(parts) == 0 {
		return Root
	}
	return parts[len(parts)-1]
}

// Normalize collapses repeated slashes and strips a trailing slash.
// An empty result becomes the root.
func Normalize(p string) string {
	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}
	if len(p) > 1 {
		p = strings.TrimSuffix(p, "/")
	}
	if p == "" {
		return Root
	}
	return p
}

// Abs resolves p against the directory cwd. Absolute paths are returned
// normalized; relative ones are joined onto cwd. Dot segments are kept.
func Abs(cwd, p string) string {
	if strings.HasPrefix(p, "/") {
		return Normalize(p)
	}
	return Normalize(Join(cwd, p))
}

// Ext returns the file name extension of name, including the dot.
func Ext(name string) string {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			return name[i:]
		}
		if name[i] == '/' {
			break
		}
	}
	return ""
}

// ValidateName checks that name can be used as a single path segment.
func ValidateName(name string) error {
	if name == "" || strings.Contains(name, "/") || strings.Contains(name, "\x00") {
		return ErrInvalidName
	}
	if len(name) > MaxPathLength {
		return ErrPathTooLong
	}
	return nil
}
