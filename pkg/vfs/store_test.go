package vfs

import (
	"errors"
	"testing"
	"time"
)

func fixedClock() func() time.Time {
	t := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func TestNewStoreSeed(t *testing.T) {
	fs := NewStore()

	root := fs.Root()
	if !root.IsDir() || root.Name != "/" {
		t.Fatalf("expected directory root named '/', got %+v", root)
	}

	for _, p := range []string{"/home", "/home/user", "/home/user/Documents", "/etc", "/usr", "/var", "/tmp"} {
		node, ok := fs.Resolve(p)
		if !ok {
			t.Errorf("Resolve(%q) failed", p)
			continue
		}
		if !node.IsDir() {
			t.Errorf("expected %q to be a directory", p)
		}
	}

	for _, p := range []string{"/usr", "/var", "/tmp"} {
		node, _ := fs.Resolve(p)
		if node.Len() != 0 {
			t.Errorf("expected %q to be empty, has %d entries", p, node.Len())
		}
	}

	hosts, ok := fs.Resolve("/etc/hosts")
	if !ok || hosts.IsDir() {
		t.Fatal("expected /etc/hosts file")
	}
	if hosts.SizeBytes != 61 {
		t.Errorf("expected /etc/hosts size 61, got %d", hosts.SizeBytes)
	}

	script, ok := fs.Resolve("/home/user/script.sh")
	if !ok || script.Content == "" {
		t.Fatal("expected sample script")
	}
}

func TestResolve(t *testing.T) {
	fs := NewStore()

	tests := []struct {
		path string
		ok   bool
	}{
		{"/", true},
		{"", true},
		{"/home/user", true},
		{"home/user", true},
		{"/home//user/", true},
		{"/home/nobody", false},
		{"/etc/hosts", true},
		{"/etc/hosts/extra", false},
		{"/home/user/..", false},
	}

	for _, tt := range tests {
		_, ok := fs.Resolve(tt.path)
		if ok != tt.ok {
			t.Errorf("Resolve(%q) ok = %v, expected %v", tt.path, ok, tt.ok)
		}
	}
}

func TestCreateFile(t *testing.T) {
	fs := NewStore(WithClock(fixedClock()))

	if !fs.CreateFile("/home/user", "a.txt", "hi") {
		t.Fatal("CreateFile failed")
	}

	dir, ok := fs.Resolve("/home/user")
	if !ok {
		t.Fatal("Resolve failed")
	}
	file := dir.Child("a.txt")
	if file == nil {
		t.Fatal("expected a.txt to exist")
	}
	if file.Kind != KindFile {
		t.Errorf("expected KindFile, got %v", file.Kind)
	}
	if file.Content != "hi" {
		t.Errorf("expected content 'hi', got %q", file.Content)
	}
	if file.SizeBytes != 2 {
		t.Errorf("expected size 2, got %d", file.SizeBytes)
	}
	if file.ModifiedAt.IsZero() {
		t.Error("expected modification time to be set")
	}
}

func TestCreateFileMultiByteSize(t *testing.T) {
	fs := NewStore()
	fs.CreateFile("/tmp", "u.txt", "héllo€")

	file, _ := fs.Resolve("/tmp/u.txt")
	if file.SizeBytes != 9 {
		t.Errorf("expected UTF-8 size 9, got %d", file.SizeBytes)
	}
}

func TestCreateFileMissingParent(t *testing.T) {
	fs := NewStore()

	if fs.CreateFile("/nope", "a.txt", "") {
		t.Error("expected CreateFile on missing directory to fail")
	}
	if fs.CreateFile("/etc/hosts", "a.txt", "") {
		t.Error("expected CreateFile under a file to fail")
	}

	err := fs.MakeFile("/etc/hosts", "a.txt", "")
	if !errors.Is(err, ErrNotDirectory) {
		t.Errorf("expected ErrNotDirectory, got %v", err)
	}
	err = fs.MakeFile("/nope", "a.txt", "")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	err = fs.MakeFile("/tmp", "a/b", "")
	if !errors.Is(err, ErrInvalidName) {
		t.Errorf("expected ErrInvalidName, got %v", err)
	}
}

func TestCreateFileOverwrites(t *testing.T) {
	fs := NewStore()

	fs.CreateFile("/tmp", "a.txt", "one")
	if !fs.CreateFile("/tmp", "a.txt", "two") {
		t.Fatal("expected overwrite to succeed")
	}

	file, _ := fs.Resolve("/tmp/a.txt")
	if file.Content != "two" {
		t.Errorf("expected content 'two', got %q", file.Content)
	}
}

func TestCreateDirectory(t *testing.T) {
	fs := NewStore()

	if !fs.CreateDirectory("/home/user", "projects") {
		t.Fatal("CreateDirectory failed")
	}
	if !fs.CreateFile("/home/user/projects", "main.go", "package main") {
		t.Fatal("CreateFile inside new directory failed")
	}

	node, ok := fs.Resolve("/home/user/projects/main.go")
	if !ok || node.Content != "package main" {
		t.Errorf("unexpected node %+v", node)
	}
}

func TestUpdateContent(t *testing.T) {
	fs := NewStore()
	fs.CreateFile("/tmp", "a.txt", "hi")

	if !fs.UpdateContent("/tmp", "a.txt", "hello") {
		t.Fatal("UpdateContent failed")
	}
	file, _ := fs.Resolve("/tmp/a.txt")
	if file.Content != "hello" || file.SizeBytes != 5 {
		t.Errorf("unexpected file %+v", file)
	}
}

func TestUpdateContentMissingIsNoop(t *testing.T) {
	fs := NewStore()
	before := fs.Root()

	if fs.UpdateContent("/tmp", "missing.txt", "x") {
		t.Error("expected UpdateContent on missing file to report false")
	}
	if fs.Root() != before {
		t.Error("expected tree to be unchanged")
	}
	if _, ok := fs.Resolve("/tmp/missing.txt"); ok {
		t.Error("UpdateContent must not create files")
	}

	err := fs.WriteContent("/home", "user", "x")
	if !errors.Is(err, ErrIsDirectory) {
		t.Errorf("expected ErrIsDirectory, got %v", err)
	}
}

func TestDeleteFile(t *testing.T) {
	fs := NewStore()
	fs.CreateFile("/home/user", "a.txt", "hi")

	if !fs.DeleteFile("/home/user", "a.txt") {
		t.Fatal("DeleteFile failed")
	}

	dir, _ := fs.Resolve("/home/user")
	if dir.Child("a.txt") != nil {
		t.Error("expected a.txt to be removed")
	}
}

func TestDeleteAbsentIsNoop(t *testing.T) {
	fs := NewStore()
	before := fs.Root()

	if !fs.DeleteFile("/tmp", "ghost") {
		t.Error("expected delete of absent entry to succeed as a no-op")
	}
	if fs.Root() != before {
		t.Error("expected tree to be unchanged")
	}
}

func TestDeleteDirectory(t *testing.T) {
	fs := NewStore()

	if !fs.DeleteDirectory("/home/user", "Documents") {
		t.Fatal("DeleteDirectory failed")
	}
	if _, ok := fs.Resolve("/home/user/Documents"); ok {
		t.Error("expected Documents to be removed")
	}
}

func TestSnapshotsAreImmutable(t *testing.T) {
	fs := NewStore()

	oldRoot := fs.Root()
	oldHome, _ := fs.Resolve("/home/user")
	oldEtc, _ := fs.Resolve("/etc")
	oldCount := oldHome.Len()

	fs.CreateFile("/home/user", "new.txt", "x")
	fs.UpdateContent("/home/user", "readme.txt", "changed")

	if oldHome.Len() != oldCount {
		t.Errorf("old snapshot changed: %d entries, expected %d", oldHome.Len(), oldCount)
	}
	if oldHome.Child("new.txt") != nil {
		t.Error("old snapshot sees new file")
	}
	if oldHome.Child("readme.txt").Content == "changed" {
		t.Error("old snapshot sees updated content")
	}
	if fs.Root() == oldRoot {
		t.Error("expected a new root after mutation")
	}

	newEtc, _ := fs.Resolve("/etc")
	if newEtc != oldEtc {
		t.Error("expected untouched subtree to be shared")
	}
}

func TestMutationEvents(t *testing.T) {
	var observed []Event
	fs := NewStore(WithObserver(func(ev Event) { observed = append(observed, ev) }))

	ch := fs.Subscribe()
	defer fs.Unsubscribe(ch)

	fs.CreateFile("/tmp", "a.txt", "")
	fs.UpdateContent("/tmp", "a.txt", "x")
	fs.DeleteFile("/tmp", "a.txt")
	fs.DeleteFile("/tmp", "a.txt")

	if len(observed) != 3 {
		t.Fatalf("expected 3 events, got %d", len(observed))
	}

	expected := []string{EventCreate, EventModify, EventDelete}
	for i, op := range expected {
		ev := <-ch
		if ev.Op != op || observed[i].Op != op {
			t.Errorf("event %d: expected %s, got %s/%s", i, op, ev.Op, observed[i].Op)
		}
		if ev.Dir != "/tmp" || ev.Name != "a.txt" {
			t.Errorf("event %d: unexpected location %s %s", i, ev.Dir, ev.Name)
		}
	}
}

func TestNodeCount(t *testing.T) {
	fs := NewStore(WithEmptyRoot())
	if fs.NodeCount() != 1 {
		t.Errorf("expected 1 node, got %d", fs.NodeCount())
	}

	fs.CreateDirectory("/", "a")
	fs.CreateFile("/a", "b", "")
	if fs.NodeCount() != 3 {
		t.Errorf("expected 3 nodes, got %d", fs.NodeCount())
	}
}
