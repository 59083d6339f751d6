package wm

import "sync"

// Gesture is a drag or resize in progress, from pointer press to release.
//
// Move computes the frame to draw for each pointer event without touching
// the window model. End commits the last previewed frame.
type Gesture struct {
	m        *Manager
	id       string
	edge     Edge
	resize   bool
	origin   Point
	start    Frame
	viewport Size
	min      Size

	mu      sync.Mutex
	current Frame
	done    bool
}

// BeginDrag starts moving a window with the pointer at p. The window is
// focused first.
func (m *Manager) BeginDrag(id string, p Point) (*Gesture, error) {
	return m.begin(id, p, 0, false)
}

// BeginResize starts resizing a window by the given edges with the pointer
// at p.
func (m *Manager) BeginResize(id string, edge Edge, p Point) (*Gesture, error) {
	return m.begin(id, p, edge, true)
}

func (m *Manager) begin(id string, p Point, edge Edge, resize bool) (*Gesture, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	win, exists := m.windows[id]
	if !exists {
		return nil, ErrWindowNotFound
	}
	if win.IsMaximized {
		return nil, ErrWindowMaximized
	}
	if win.IsMinimized {
		return nil, ErrWindowMinimized
	}
	if !resize {
		m.focusLocked(id)
	}

	return &Gesture{
		m:        m,
		id:       id,
		edge:     edge,
		resize:   resize,
		origin:   p,
		start:    win.Frame,
		current:  win.Frame,
		viewport: Size{Width: m.cfg.ViewportWidth, Height: m.cfg.ViewportHeight},
		min:      m.cfg.MinSize,
	}, nil
}

// WindowID returns the id of the window being moved or resized.
func (g *Gesture) WindowID() string { return g.id }

// Move returns the preview frame for the pointer at p.
func (g *Gesture) Move(p Point) Frame {
	dx, dy := p.X-g.origin.X, p.Y-g.origin.Y

	var f Frame
	if g.resize {
		f = Resize(g.start, g.edge, dx, dy, g.min, g.viewport)
	} else {
		f = Translate(g.start, dx, dy, g.viewport)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.done {
		g.current = f
	}
	return f
}

// Frame returns the last previewed frame.
func (g *Gesture) Frame() Frame {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.current
}

// End commits the last previewed frame to the window and returns it.
// Calling End more than once, or after Cancel, does nothing.
func (g *Gesture) End() Frame {
	g.mu.Lock()
	if g.done {
		f := g.current
		g.mu.Unlock()
		return f
	}
	g.done = true
	f := g.current
	g.mu.Unlock()

	if g.resize {
		g.m.UpdateSize(g.id, f.Size())
	}
	g.m.UpdatePosition(g.id, f.Position())
	return f
}

// Cancel abandons the gesture, leaving the window where it started.
func (g *Gesture) Cancel() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.done = true
	g.current = g.start
}
