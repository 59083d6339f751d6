package desktop

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"webdesk/pkg/apps/archive"
	"webdesk/pkg/apps/calculator"
	"webdesk/pkg/apps/filemanager"
	"webdesk/pkg/apps/sysmon"
	"webdesk/pkg/apps/texteditor"
	"webdesk/pkg/metrics"
	"webdesk/pkg/terminal"
	"webdesk/pkg/timer"
	"webdesk/pkg/vfs"
	"webdesk/pkg/wm"
)

// ClockLayout formats the taskbar clock.
const ClockLayout = "15:04"

var (
	// ErrSessionClosed is returned by operations on a closed session.
	ErrSessionClosed = errors.New("desktop: session closed")
	// ErrNotTerminal is returned when a window hosts some other application.
	ErrNotTerminal = errors.New("desktop: window does not host a terminal")
)

// Config holds the settings of new sessions.
type Config struct {
	// WM configures every session's window manager. A zero viewport uses
	// wm.DefaultConfig.
	WM wm.Config

	Home string
	User string
	Host string

	ScriptLineDelay time.Duration
	MonitorInterval time.Duration

	// Scheduler drives every timer of the session. Nil uses the wall clock.
	Scheduler timer.Scheduler
	// Now is the clock behind the taskbar and the terminal's date.
	Now func() time.Time
	// Rand drives window placement and the simulated apps. It is only used
	// by one session at a time. Nil uses the global source.
	Rand *rand.Rand
	// Confirm answers yes/no questions asked by applications. Nil declines.
	Confirm func(message string) bool
	// Prompt asks applications' questions that need a text answer. Nil
	// cancels.
	Prompt func(message string) (string, bool)
	Logger *zap.Logger
}

func (c Config) withDefaults() Config {
	if c.WM.ViewportWidth == 0 && c.WM.ViewportHeight == 0 {
		rnd, logger, ids := c.WM.Rand, c.WM.Logger, c.WM.IDFunc
		c.WM = wm.DefaultConfig()
		c.WM.Rand, c.WM.Logger, c.WM.IDFunc = rnd, logger, ids
	}
	if c.Home == "" {
		c.Home = vfs.HomeDir
	}
	if c.Scheduler == nil {
		c.Scheduler = timer.NewReal()
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	return c
}

// Session is one desktop: a file system, a window manager and the
// applications running in its windows. Every application shares the
// session's file system.
type Session struct {
	ID     string
	FS     *vfs.Store
	WM     *wm.Manager
	Timers timer.Scheduler

	cfg    Config
	logger *zap.Logger

	mu         sync.Mutex
	closed     bool
	lastActive time.Time
	nodes      int
}

// NewSession creates a desktop with the seeded file system and no windows.
func NewSession(cfg Config) *Session {
	cfg = cfg.withDefaults()
	id := uuid.NewString()
	logger := cfg.Logger.With(zap.String("session", id))

	s := &Session{
		ID:         id,
		Timers:     cfg.Scheduler,
		cfg:        cfg,
		logger:     logger,
		lastActive: cfg.Now(),
	}

	s.FS = vfs.NewStore(
		vfs.WithClock(cfg.Now),
		vfs.WithLogger(logger.Named("vfs")),
		vfs.WithObserver(s.observeFS),
	)
	s.nodes = s.FS.NodeCount()
	metrics.AddVFSNodes(s.nodes)

	wmCfg := cfg.WM
	if wmCfg.Rand == nil {
		wmCfg.Rand = cfg.Rand
	}
	wmCfg.Logger = logger.Named("wm")
	s.WM = wm.NewManager(wmCfg)

	logger.Info("session created")
	return s
}

func (s *Session) observeFS(ev vfs.Event) {
	metrics.RecordVFSMutation(ev.Op)

	n := s.FS.NodeCount()
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	delta := n - s.nodes
	s.nodes = n
	s.mu.Unlock()
	metrics.AddVFSNodes(delta)
}

// Touch marks the session as used now.
func (s *Session) Touch() {
	s.mu.Lock()
	s.lastActive = s.cfg.Now()
	s.mu.Unlock()
}

// LastActive returns when the session was last used.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// Clock returns the taskbar clock.
func (s *Session) Clock() string {
	return s.cfg.Now().Format(ClockLayout)
}

// Launch opens an application in a new window and returns the window id.
func (s *Session) Launch(appID string) (string, error) {
	l, ok := LookupLauncher(appID)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownApp, appID)
	}
	if s.isClosed() {
		return "", ErrSessionClosed
	}

	var app wm.App
	switch appID {
	case AppFileManager:
		app = filemanager.New(s.FS, filemanager.Config{Home: s.cfg.Home, Opener: s.OpenEditor})
	case AppTerminal:
		app = s.newTerminal()
	case AppCalculator:
		app = calculator.New()
	case AppTextEditor:
		app = s.newEditor(nil)
	case AppArchiveManager:
		app = archive.New(s.FS, archive.Config{Source: s.cfg.Home, Rand: s.cfg.Rand})
	case AppSystemMonitor:
		app = sysmon.New(sysmon.Config{Scheduler: s.Timers, Interval: s.cfg.MonitorInterval, Rand: s.cfg.Rand})
	}

	size := l.Size
	id := s.WM.Open(l.Label, app, &size)
	metrics.RecordAppLaunch(appID)
	metrics.AddWindows(1)
	s.logger.Debug("app launched", zap.String("app", appID), zap.String("window", id))
	return id, nil
}

func (s *Session) newTerminal() *terminal.Terminal {
	return terminal.New(s.FS, terminal.Config{
		User:      s.cfg.User,
		Host:      s.cfg.Host,
		Home:      s.cfg.Home,
		LineDelay: s.cfg.ScriptLineDelay,
		Scheduler: s.Timers,
		Now:       s.cfg.Now,
		Opener:    s.OpenEditor,
		Confirm:   s.cfg.Confirm,
		Observer: func(cmd string) {
			metrics.RecordTerminalCommand(cmd, terminal.IsCommand(cmd))
		},
		Logger: s.logger.Named("terminal"),
	})
}

func (s *Session) newEditor(f *texteditor.File) *texteditor.Editor {
	return texteditor.New(s.FS, texteditor.Config{
		Home:    s.cfg.Home,
		Prompt:  s.cfg.Prompt,
		Confirm: s.cfg.Confirm,
	}, f)
}

// OpenEditor opens the file name in directory dir in a new text editor
// window. It is the Opener handed to the terminal and the file manager.
func (s *Session) OpenEditor(dir, name string) error {
	if s.isClosed() {
		return ErrSessionClosed
	}
	node, ok := s.FS.Resolve(vfs.Join(dir, name))
	if !ok {
		return fmt.Errorf("%s: %w", vfs.Join(dir, name), vfs.ErrNotFound)
	}
	if node.IsDir() {
		return fmt.Errorf("%s: %w", vfs.Join(dir, name), vfs.ErrIsDirectory)
	}

	size := editorSize
	editor := s.newEditor(&texteditor.File{Dir: vfs.Normalize(dir), Name: name})
	id := s.WM.Open(editor.Title(), editor, &size)
	metrics.RecordAppLaunch(AppTextEditor)
	metrics.AddWindows(1)
	s.logger.Debug("editor opened", zap.String("path", vfs.Join(dir, name)), zap.String("window", id))
	return nil
}

// App returns the application hosted by a window.
func (s *Session) App(windowID string) (wm.App, error) {
	w, err := s.WM.Window(windowID)
	if err != nil {
		return nil, err
	}
	return w.App, nil
}

// Terminal returns the terminal hosted by a window.
func (s *Session) Terminal(windowID string) (*terminal.Terminal, error) {
	app, err := s.App(windowID)
	if err != nil {
		return nil, err
	}
	t, ok := app.(*terminal.Terminal)
	if !ok {
		return nil, fmt.Errorf("%s: %w", windowID, ErrNotTerminal)
	}
	return t, nil
}

// CloseWindow closes a window and tears down its application.
func (s *Session) CloseWindow(id string) error {
	if !s.WM.Close(id) {
		return fmt.Errorf("%s: %w", id, wm.ErrWindowNotFound)
	}
	metrics.AddWindows(-1)
	return nil
}

// Snapshot is the rendered state of a whole desktop.
type Snapshot struct {
	ID       string         `json:"id"`
	Clock    string         `json:"clock"`
	Viewport wm.Size        `json:"viewport"`
	Windows  []WindowView   `json:"windows"`
	Taskbar  []TaskbarEntry `json:"taskbar"`
}

// WindowView is a window together with its rendered application.
type WindowView struct {
	wm.Window
	Content wm.View `json:"view"`
}

// TaskbarEntry is one window button on the taskbar.
type TaskbarEntry struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Minimized bool   `json:"minimized"`
	Active    bool   `json:"active"`
}

// Snapshot renders the visible windows in stacking order and the taskbar in
// open order.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{ID: s.ID, Clock: s.Clock(), Viewport: s.WM.Viewport()}

	for _, w := range s.WM.Surface() {
		snap.Windows = append(snap.Windows, WindowView{Window: w, Content: w.View()})
	}

	top, hasTop := s.WM.Topmost()
	for _, w := range s.WM.Windows() {
		snap.Taskbar = append(snap.Taskbar, TaskbarEntry{
			ID:        w.ID,
			Title:     w.Title,
			Minimized: w.IsMinimized,
			Active:    hasTop && top.ID == w.ID,
		})
	}
	return snap
}

func (s *Session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close closes every window. Later launches fail with ErrSessionClosed.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	nodes := s.nodes
	s.mu.Unlock()

	for _, w := range s.WM.Windows() {
		if s.WM.Close(w.ID) {
			metrics.AddWindows(-1)
		}
	}
	metrics.AddVFSNodes(-nodes)
	s.logger.Info("session closed")
	return nil
}
