package desktop

import (
	"errors"

	"webdesk/pkg/wm"
)

// Application identifiers accepted by Session.Launch.
const (
	AppFileManager    = "file-manager"
	AppTerminal       = "terminal"
	AppCalculator     = "calculator"
	AppTextEditor     = "text-editor"
	AppArchiveManager = "archive-manager"
	AppSystemMonitor  = "system-monitor"
)

// Start menu categories.
const (
	CategoryAccessories = "Accessories"
	CategorySystem      = "System"
)

// ErrUnknownApp is returned when launching an application that does not exist.
var ErrUnknownApp = errors.New("desktop: unknown application")

// Launcher describes how an application is started.
type Launcher struct {
	ID       string  `json:"id"`
	Label    string  `json:"label"`
	Category string  `json:"category"`
	Size     wm.Size `json:"size"`
	// Icon places the launcher on the desktop as well as in the start menu.
	Icon bool `json:"icon"`
}

// launchers lists every application in start menu order.
var launchers = []Launcher{
	{AppCalculator, "Calculator", CategoryAccessories, wm.Size{Width: 300, Height: 500}, true},
	{AppTextEditor, "Text Editor", CategoryAccessories, wm.Size{Width: 800, Height: 650}, true},
	{AppArchiveManager, "Archive Manager", CategoryAccessories, wm.Size{Width: 850, Height: 700}, false},
	{AppFileManager, "File Manager", CategorySystem, wm.Size{Width: 900, Height: 700}, true},
	{AppTerminal, "Terminal", CategorySystem, wm.Size{Width: 900, Height: 700}, true},
	{AppSystemMonitor, "System Monitor", CategorySystem, wm.Size{Width: 800, Height: 700}, false},
}

// desktopOrder is the order of the desktop icons.
var desktopOrder = []string{AppFileManager, AppTerminal, AppCalculator, AppTextEditor}

var launcherMap = make(map[string]*Launcher)

func init() {
	for i := range launchers {
		launcherMap[launchers[i].ID] = &launchers[i]
	}
}

// LookupLauncher returns the launcher for an application id.
func LookupLauncher(id string) (Launcher, bool) {
	l, ok := launcherMap[id]
	if !ok {
		return Launcher{}, false
	}
	return *l, true
}

// Icons returns the desktop icons in display order.
func Icons() []Launcher {
	out := make([]Launcher, 0, len(desktopOrder))
	for _, id := range desktopOrder {
		out = append(out, *launcherMap[id])
	}
	return out
}

// MenuSection is one category of the start menu.
type MenuSection struct {
	Category string     `json:"category"`
	Items    []Launcher `json:"items"`
}

// StartMenu returns the start menu grouped by category.
func StartMenu() []MenuSection {
	var out []MenuSection
	for _, l := range launchers {
		if n := len(out); n > 0 && out[n-1].Category == l.Category {
			out[n-1].Items = append(out[n-1].Items, l)
			continue
		}
		out = append(out, MenuSection{Category: l.Category, Items: []Launcher{l}})
	}
	return out
}

// MenuItem is an entry of the desktop context menu.
type MenuItem struct {
	Label string `json:"label"`
	App   string `json:"app"`
}

// ContextMenu returns the desktop context menu entries that launch
// applications.
func ContextMenu() []MenuItem {
	return []MenuItem{
		{Label: "Open Terminal Here", App: AppTerminal},
		{Label: "Open File Manager", App: AppFileManager},
		{Label: "Calculator", App: AppCalculator},
	}
}

// editorSize is the size of editor windows opened for a file.
var editorSize = wm.Size{Width: 900, Height: 700}
