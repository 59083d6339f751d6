package wm

import (
	"errors"
	"io"
)

// View is what an application hands the desktop to draw inside its window.
// Kind names the application; State is an application-defined snapshot that
// must be safe to encode as JSON.
type View struct {
	Kind  string `json:"kind"`
	State any    `json:"state,omitempty"`
}

// App is anything that can be hosted in a window. The manager never looks
// past Render. If an App also implements io.Closer, Close is called when its
// window is closed.
type App interface {
	Render() View
}

// Point is a position in viewport pixels.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Size holds window dimensions in pixels.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Frame represents the position and dimensions of a window.
type Frame struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Position returns the top-left corner of the frame.
func (f Frame) Position() Point {
	return Point{X: f.X, Y: f.Y}
}

// Size returns the dimensions of the frame.
func (f Frame) Size() Size {
	return Size{Width: f.Width, Height: f.Height}
}

// Right returns the x coordinate of the right edge.
func (f Frame) Right() int { return f.X + f.Width }

// Bottom returns the y coordinate of the bottom edge.
func (f Frame) Bottom() int { return f.Y + f.Height }

// Contains checks if a point is within the frame.
func (f Frame) Contains(x, y int) bool {
	return x >= f.X && x <= f.X+f.Width &&
		y >= f.Y && y <= f.Y+f.Height
}

// Window represents one open application instance.
//
// While maximized, Frame holds the maximized geometry and NormalFrame holds
// the geometry to restore on the next toggle.
type Window struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	App         App    `json:"-"`
	Frame       Frame  `json:"frame"`
	NormalFrame Frame  `json:"normal_frame"`
	ZIndex      int    `json:"z_index"`
	IsMinimized bool   `json:"is_minimized"`
	IsMaximized bool   `json:"is_maximized"`
}

// Position returns the window's top-left corner.
func (w Window) Position() Point { return w.Frame.Position() }

// Size returns the window's dimensions.
func (w Window) Size() Size { return w.Frame.Size() }

// View renders the hosted application, or an empty view when there is none.
func (w Window) View() View {
	if w.App == nil {
		return View{}
	}
	return w.App.Render()
}

func closeApp(app App) error {
	if c, ok := app.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// ErrWindowNotFound is returned when a window is not found.
var ErrWindowNotFound = errors.New("window not found")

// ErrWindowMaximized is returned when a gesture starts on a maximized window.
var ErrWindowMaximized = errors.New("window is maximized")

// ErrWindowMinimized is returned when a gesture starts on a minimized window.
var ErrWindowMinimized = errors.New("window is minimized")

// ErrDuplicateWindowID is returned by OpenWithID when the id is taken.
var ErrDuplicateWindowID = errors.New("duplicate window ID")
