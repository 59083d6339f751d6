package terminal

import "errors"

// ErrNanoClosed is returned when no nano buffer is open.
var ErrNanoClosed = errors.New("terminal: nano is not open")

// NanoBuffer is the file being edited by nano.
type NanoBuffer struct {
	Dir      string `json:"dir"`
	Filename string `json:"filename"`
	Content  string `json:"content"`
	IsNew    bool   `json:"is_new"`
}

func (t *Terminal) openNano(filename string) {
	buf := &NanoBuffer{Dir: t.cwd, Filename: filename, IsNew: true}
	if file := t.dir().Child(filename); file != nil {
		buf.Content = file.Content
		buf.IsNew = false
	}
	t.nano = buf
}

// Nano returns a copy of the open nano buffer.
func (t *Terminal) Nano() (NanoBuffer, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.nano == nil {
		return NanoBuffer{}, false
	}
	return *t.nano, true
}

// NanoSetContent replaces the text of the open buffer.
func (t *Terminal) NanoSetContent(content string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.nano == nil {
		return ErrNanoClosed
	}
	t.nano.Content = content
	return nil
}

// NanoSave writes the buffer to the file system and closes nano.
func (t *Terminal) NanoSave() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.nano == nil {
		return ErrNanoClosed
	}

	buf := t.nano
	t.nano = nil
	if buf.IsNew {
		if err := t.fs.MakeFile(buf.Dir, buf.Filename, buf.Content); err != nil {
			t.print("nano: cannot save "+buf.Filename, "")
			return err
		}
		t.print("Created and saved file: "+buf.Filename, "")
		return nil
	}

	if err := t.fs.WriteContent(buf.Dir, buf.Filename, buf.Content); err != nil {
		t.print("nano: cannot save "+buf.Filename, "")
		return err
	}
	t.print("Saved file: "+buf.Filename, "")
	return nil
}

// NanoClose discards the buffer.
func (t *Terminal) NanoClose() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.nano == nil {
		return ErrNanoClosed
	}
	t.nano = nil
	t.print("Nano editor closed", "")
	return nil
}
