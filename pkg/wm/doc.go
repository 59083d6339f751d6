/*
Package wm implements the window manager of a webdesk session.

The manager owns the open windows and a stacking counter that only grows.
Opening or focusing a window gives it the next z-index, so the most recently
opened or focused window is always on top. Windows can be minimized (hidden
from the surface but kept on the taskbar), maximized to the viewport above
the taskbar and restored to their exact previous frame, moved and resized.

Drag and resize run as gestures: the frame is previewed on every pointer
move and committed to the model only when the gesture ends. Geometry is kept
inside the viewport and above a minimum size.

Example usage:

	manager := wm.NewManager(wm.DefaultConfig())
	id := manager.Open("Terminal", term, nil)

	g, err := manager.BeginDrag(id, wm.Point{X: 150, Y: 120})
	if err != nil {
		// window is maximized
	}
	g.Move(wm.Point{X: 400, Y: 300})
	g.End()
*/
package wm
