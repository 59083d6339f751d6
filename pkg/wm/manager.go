package wm

import (
	"math/rand/v2"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Config holds configuration for the window manager.
type Config struct {
	ViewportWidth  int
	ViewportHeight int
	TaskbarHeight  int
	DefaultSize    Size
	MinSize        Size
	BaseZIndex     int
	SpawnOrigin    int
	SpawnJitter    int

	// Rand drives the spawn offset. Nil uses the global source.
	Rand *rand.Rand
	// Logger receives debug logs of lifecycle changes. Nil disables logging.
	Logger *zap.Logger
	// IDFunc generates window ids. Nil uses random UUIDs.
	IDFunc func() string
}

// DefaultConfig returns the configuration of a 1920x1080 desktop.
func DefaultConfig() Config {
	return Config{
		ViewportWidth:  1920,
		ViewportHeight: 1080,
		TaskbarHeight:  48,
		DefaultSize:    Size{Width: 800, Height: 600},
		MinSize:        Size{Width: 250, Height: 150},
		BaseZIndex:     100,
		SpawnOrigin:    100,
		SpawnJitter:    200,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.ViewportWidth <= 0 {
		c.ViewportWidth = d.ViewportWidth
	}
	if c.ViewportHeight <= 0 {
		c.ViewportHeight = d.ViewportHeight
	}
	if c.TaskbarHeight < 0 {
		c.TaskbarHeight = 0
	}
	if c.DefaultSize.Width <= 0 || c.DefaultSize.Height <= 0 {
		c.DefaultSize = d.DefaultSize
	}
	if c.MinSize.Width <= 0 || c.MinSize.Height <= 0 {
		c.MinSize = d.MinSize
	}
	if c.SpawnJitter < 0 {
		c.SpawnJitter = 0
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	if c.IDFunc == nil {
		c.IDFunc = uuid.NewString
	}
	return c
}

// Manager owns the open windows of one desktop and their stacking order.
type Manager struct {
	mu       sync.RWMutex
	cfg      Config
	windows  map[string]*Window
	order    []string
	highestZ int
	logger   *zap.Logger
}

// NewManager creates a new window manager with the given configuration.
// Zero viewport and window size fields take the values of DefaultConfig.
// TaskbarHeight, BaseZIndex, SpawnOrigin and SpawnJitter are used as given,
// so a zero TaskbarHeight means a desktop without a taskbar.
func NewManager(cfg Config) *Manager {
	cfg = cfg.withDefaults()
	return &Manager{
		cfg:      cfg,
		windows:  make(map[string]*Window),
		highestZ: cfg.BaseZIndex,
		logger:   cfg.Logger,
	}
}

// Open creates a window hosting app on top of every other window and returns
// its id. A nil size uses the default size. Open never fails.
func (m *Manager) Open(title string, app App, size *Size) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.cfg.IDFunc()
	for m.windows[id] != nil {
		id = m.cfg.IDFunc()
	}
	m.openLocked(id, title, app, size)
	return id
}

// OpenWithID is Open with a caller-chosen id.
func (m *Manager) OpenWithID(id, title string, app App, size *Size) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.windows[id]; exists {
		return ErrDuplicateWindowID
	}
	m.openLocked(id, title, app, size)
	return nil
}

func (m *Manager) openLocked(id, title string, app App, size *Size) {
	sz := m.cfg.DefaultSize
	if size != nil && size.Width > 0 && size.Height > 0 {
		sz = *size
	}

	m.highestZ++
	win := &Window{
		ID:     id,
		Title:  title,
		App:    app,
		Frame:  Frame{X: m.spawnOffset(), Y: m.spawnOffset(), Width: sz.Width, Height: sz.Height},
		ZIndex: m.highestZ,
	}
	win.NormalFrame = win.Frame

	m.windows[id] = win
	m.order = append(m.order, id)

	m.logger.Debug("window opened",
		zap.String("id", id),
		zap.String("title", title),
		zap.Int("z", win.ZIndex),
	)
}

func (m *Manager) spawnOffset() int {
	if m.cfg.SpawnJitter == 0 {
		return m.cfg.SpawnOrigin
	}
	if m.cfg.Rand != nil {
		return m.cfg.SpawnOrigin + m.cfg.Rand.IntN(m.cfg.SpawnJitter)
	}
	return m.cfg.SpawnOrigin + rand.IntN(m.cfg.SpawnJitter)
}

// Close removes a window and reports whether it existed. Closing an unknown
// id is a no-op. The hosted app is closed if it implements io.Closer.
func (m *Manager) Close(id string) bool {
	m.mu.Lock()
	win, exists := m.windows[id]
	if !exists {
		m.mu.Unlock()
		return false
	}
	delete(m.windows, id)
	for i, wid := range m.order {
		if wid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	m.mu.Unlock()

	if err := closeApp(win.App); err != nil {
		m.logger.Warn("closing window app", zap.String("id", id), zap.Error(err))
	}
	m.logger.Debug("window closed", zap.String("id", id))
	return true
}

// Minimize hides a window from the render surface. It stays in Windows.
func (m *Manager) Minimize(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if win, exists := m.windows[id]; exists {
		win.IsMinimized = true
	}
}

// Focus raises a window above every other window and restores it if it was
// minimized. Every call strictly increases the window's z-index.
func (m *Manager) Focus(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.focusLocked(id)
}

func (m *Manager) focusLocked(id string) bool {
	win, exists := m.windows[id]
	if !exists {
		return false
	}
	m.highestZ++
	win.ZIndex = m.highestZ
	win.IsMinimized = false
	return true
}

// Maximize toggles a window between its normal frame and the full viewport
// above the taskbar. Toggling back restores the exact prior frame.
func (m *Manager) Maximize(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	win, exists := m.windows[id]
	if !exists {
		return
	}

	if win.IsMaximized {
		win.Frame = win.NormalFrame
		win.IsMaximized = false
		return
	}

	win.NormalFrame = win.Frame
	win.Frame = m.maximizedFrame()
	win.IsMaximized = true
}

func (m *Manager) maximizedFrame() Frame {
	return Frame{
		Width:  m.cfg.ViewportWidth,
		Height: max(m.cfg.ViewportHeight-m.cfg.TaskbarHeight, 0),
	}
}

// UpdatePosition commits the position of a finished drag.
func (m *Manager) UpdatePosition(id string, p Point) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if win, exists := m.windows[id]; exists {
		win.Frame.X, win.Frame.Y = p.X, p.Y
		if !win.IsMaximized {
			win.NormalFrame = win.Frame
		}
	}
}

// UpdateSize commits the size of a finished resize. The size is floored at
// the configured minimum.
func (m *Manager) UpdateSize(id string, s Size) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if win, exists := m.windows[id]; exists {
		win.Frame.Width = max(s.Width, m.cfg.MinSize.Width)
		win.Frame.Height = max(s.Height, m.cfg.MinSize.Height)
		if !win.IsMaximized {
			win.NormalFrame = win.Frame
		}
	}
}

// SetTitle changes a window's title.
func (m *Manager) SetTitle(id, title string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if win, exists := m.windows[id]; exists {
		win.Title = title
	}
}

// Window returns a copy of a window.
func (m *Manager) Window(id string) (Window, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	win, exists := m.windows[id]
	if !exists {
		return Window{}, ErrWindowNotFound
	}
	return *win, nil
}

// Windows returns every open window, minimized or not, in the order they
// were opened. This is the taskbar list.
func (m *Manager) Windows() []Window {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Window, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, *m.windows[id])
	}
	return out
}

// Surface returns the windows that are drawn, bottom to top.
func (m *Manager) Surface() []Window {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Window, 0, len(m.windows))
	for _, id := range m.order {
		if win := m.windows[id]; !win.IsMinimized {
			out = append(out, *win)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ZIndex < out[j].ZIndex })
	return out
}

// Topmost returns the visible window with the highest z-index.
func (m *Manager) Topmost() (Window, bool) {
	surface := m.Surface()
	if len(surface) == 0 {
		return Window{}, false
	}
	return surface[len(surface)-1], true
}

// HighestZ returns the current value of the stacking counter.
func (m *Manager) HighestZ() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.highestZ
}

// Len returns the number of open windows.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.windows)
}

// SetViewport sets the viewport dimensions. Maximized windows are refit.
func (m *Manager) SetViewport(width, height int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if width > 0 {
		m.cfg.ViewportWidth = width
	}
	if height > 0 {
		m.cfg.ViewportHeight = height
	}
	for _, win := range m.windows {
		if win.IsMaximized {
			win.Frame = m.maximizedFrame()
		}
	}
}

// Viewport returns the viewport dimensions.
func (m *Manager) Viewport() Size {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Size{Width: m.cfg.ViewportWidth, Height: m.cfg.ViewportHeight}
}

// MinSize returns the resize floor.
func (m *Manager) MinSize() Size {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg.MinSize
}
