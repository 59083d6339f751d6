package vfs

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestEventJSON(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		want string
	}{
		{"file", KindFile, `"kind":"file"`},
		{"directory", KindDirectory, `"kind":"directory"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := Event{
				Op:        EventCreate,
				Dir:       "/home",
				Name:      "notes.txt",
				Kind:      tt.kind,
				Timestamp: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
			}
			b, err := json.Marshal(in)
			if err != nil {
				t.Fatalf("Marshal failed: %v", err)
			}
			if !strings.Contains(string(b), tt.want) {
				t.Errorf("expected %s in %s", tt.want, b)
			}

			var out Event
			if err := json.Unmarshal(b, &out); err != nil {
				t.Fatalf("Unmarshal failed: %v", err)
			}
			if out.Kind != tt.kind || out.Name != in.Name || !out.Timestamp.Equal(in.Timestamp) {
				t.Errorf("expected %+v, got %+v", in, out)
			}
		})
	}
}

func TestKindUnmarshalTextUnknown(t *testing.T) {
	var k Kind
	if err := k.UnmarshalText([]byte("symlink")); err == nil {
		t.Error("expected error for unknown kind")
	}
	if err := json.Unmarshal([]byte(`{"kind":"unknown"}`), &Event{}); err == nil {
		t.Error("expected error decoding unknown kind")
	}
}
