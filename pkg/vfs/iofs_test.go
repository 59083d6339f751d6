package vfs

import (
	"errors"
	"io"
	"io/fs"
	"testing"
	"time"
)

func TestFSReadFile(t *testing.T) {
	s := NewStore(WithClock(func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }))
	if err := s.MakeFile(HomeDir, "notes.txt", "hello"); err != nil {
		t.Fatal(err)
	}
	fsys := s.FS()

	data, err := fs.ReadFile(fsys, "home/user/notes.txt")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("expected hello, got %q", data)
	}

	info, err := fs.Stat(fsys, "home/user/notes.txt")
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Name() != "notes.txt" || info.Size() != 5 || info.IsDir() {
		t.Errorf("unexpected info %s %d %v", info.Name(), info.Size(), info.IsDir())
	}
	if info.Mode() != 0o644 {
		t.Errorf("expected mode 0644, got %v", info.Mode())
	}
}

func TestFSSnapshotIsolation(t *testing.T) {
	s := NewStore()
	fsys := s.FS()
	if err := s.MakeFile(HomeDir, "later.txt", "x"); err != nil {
		t.Fatal(err)
	}
	if _, err := fs.Stat(fsys, "home/user/later.txt"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
	if _, err := fs.Stat(s.FS(), "home/user/later.txt"); err != nil {
		t.Errorf("expected new view to see the file: %v", err)
	}
}

func TestFSErrors(t *testing.T) {
	fsys := NewStore().FS()

	tests := []struct {
		name string
		path string
		want error
	}{
		{"missing", "home/user/none.txt", fs.ErrNotExist},
		{"invalid", "/home", fs.ErrInvalid},
		{"dotdot", "home/../etc", fs.ErrInvalid},
		{"through file", "home/user/readme.txt/x", fs.ErrNotExist},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := fsys.Open(tt.path); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}

	if _, err := fs.ReadFile(fsys, "home"); !errors.Is(err, ErrIsDirectory) {
		t.Errorf("expected ErrIsDirectory, got %v", err)
	}
	if _, err := fs.ReadDir(fsys, "home/user/readme.txt"); !errors.Is(err, ErrNotDirectory) {
		t.Errorf("expected ErrNotDirectory, got %v", err)
	}
}

func TestFSReadDir(t *testing.T) {
	fsys := NewStore().FS()

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	if len(entries) != 5 || names[0] != "etc" || names[1] != "home" || !entries[1].IsDir() {
		t.Errorf("unexpected root entries %v", names)
	}

	f, err := fsys.Open("home/user")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	dir := f.(fs.ReadDirFile)

	all := NewStore().Root().Child("home").Child("user").Len()
	seen := 0
	for {
		batch, err := dir.ReadDir(1)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("ReadDir(1): %v", err)
		}
		seen += len(batch)
	}
	if seen != all {
		t.Errorf("expected %d entries, got %d", all, seen)
	}
	if rest, err := dir.ReadDir(-1); err != nil || len(rest) != 0 {
		t.Errorf("expected empty remainder, got %v %v", rest, err)
	}
}

func TestFSWalk(t *testing.T) {
	s := NewStore()
	var files int
	err := fs.WalkDir(s.FS(), ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files++
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WalkDir: %v", err)
	}
	if files == 0 {
		t.Error("expected seeded files")
	}
}

func TestFileReadSeek(t *testing.T) {
	s := NewStore()
	if err := s.MakeFile(HomeDir, "abc.txt", "abcdef"); err != nil {
		t.Fatal(err)
	}
	f, err := s.FS().Open("home/user/abc.txt")
	if err != nil {
		t.Fatal(err)
	}
	rs := f.(io.ReadSeeker)

	if pos, err := rs.Seek(-2, io.SeekEnd); err != nil || pos != 4 {
		t.Fatalf("Seek end: %d %v", pos, err)
	}
	rest, err := io.ReadAll(rs)
	if err != nil || string(rest) != "ef" {
		t.Errorf("expected ef, got %q %v", rest, err)
	}
	if _, err := rs.Seek(-1, io.SeekStart); !errors.Is(err, ErrInvalidSeek) {
		t.Errorf("expected ErrInvalidSeek, got %v", err)
	}

	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := f.Read(make([]byte, 1)); !errors.Is(err, ErrClosedFile) {
		t.Errorf("expected ErrClosedFile, got %v", err)
	}
	if err := f.Close(); !errors.Is(err, fs.ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}
