package vfs

import (
	"reflect"
	"testing"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"/", []string{}},
		{"", []string{}},
		{"/home/user", []string{"home", "user"}},
		{"home//user/", []string{"home", "user"}},
		{"/a/../b", []string{"a", "..", "b"}},
	}

	for _, tt := range tests {
		result := Split(tt.input)
		if len(result) == 0 && len(tt.expected) == 0 {
			continue
		}
		if !reflect.DeepEqual(result, tt.expected) {
			t.Errorf("Split(%q) = %v, expected %v", tt.input, result, tt.expected)
		}
	}
}

func TestJoinParentBase(t *testing.T) {
	if got := Join("/", "etc"); got != "/etc" {
		t.Errorf("Join = %q", got)
	}
	if got := Join("/home/user", "a.txt"); got != "/home/user/a.txt" {
		t.Errorf("Join = %q", got)
	}
	if got := Parent("/home/user"); got != "/home" {
		t.Errorf("Parent = %q", got)
	}
	if got := Parent("/home"); got != "/" {
		t.Errorf("Parent = %q", got)
	}
	if got := Parent("/"); got != "/" {
		t.Errorf("Parent(/) = %q", got)
	}
	if got := Base("/home/user"); got != "user" {
		t.Errorf("Base = %q", got)
	}
}

func TestNormalizeAndAbs(t *testing.T) {
	tests := []struct {
		cwd, input, expected string
	}{
		{"/home/user", "Documents", "/home/user/Documents"},
		{"/home/user", "/etc/", "/etc"},
		{"/", "tmp", "/tmp"},
		{"/home", "user//Documents/", "/home/user/Documents"},
		{"/home", "//", "/"},
	}

	for _, tt := range tests {
		if got := Abs(tt.cwd, tt.input); got != tt.expected {
			t.Errorf("Abs(%q, %q) = %q, expected %q", tt.cwd, tt.input, got, tt.expected)
		}
	}
}

func TestValidateName(t *testing.T) {
	for _, name := range []string{"a.txt", "..", "with space"} {
		if err := ValidateName(name); err != nil {
			t.Errorf("ValidateName(%q) = %v", name, err)
		}
	}
	for _, name := range []string{"", "a/b", "nul\x00"} {
		if err := ValidateName(name); err == nil {
			t.Errorf("expected ValidateName(%q) to fail", name)
		}
	}
}

func TestExt(t *testing.T) {
	if Ext("notes.md") != ".md" || Ext("Makefile") != "" || Ext("a.tar.gz") != ".gz" {
		t.Error("unexpected extension")
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		bytes    int64
		expected string
	}{
		{0, "0 B"},
		{1, "1 B"},
		{1023, "1023 B"},
		{1024, "1 KB"},
		{1536, "2 KB"},
		{1024 * 1024, "1 MB"},
		{5 * 1024 * 1024 * 1024, "5 GB"},
		{2048 * 1024 * 1024 * 1024, "2048 GB"},
	}

	for _, tt := range tests {
		if got := FormatSize(tt.bytes); got != tt.expected {
			t.Errorf("FormatSize(%d) = %q, expected %q", tt.bytes, got, tt.expected)
		}
	}
}

func TestSize(t *testing.T) {
	if Size("") != 0 || Size("hi") != 2 || Size("€") != 3 {
		t.Error("unexpected size")
	}
}
