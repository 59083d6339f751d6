package wm

import "strings"

// Edge is the set of window edges a resize gesture drags.
type Edge uint8

const (
	EdgeTop Edge = 1 << iota
	EdgeBottom
	EdgeLeft
	EdgeRight
)

// ParseEdge parses handle names such as "right", "top-left" or
// "bottom-right". Unknown words are ignored.
func ParseEdge(s string) Edge {
	var e Edge
	for _, part := range strings.Split(strings.ToLower(s), "-") {
		switch part {
		case "top":
			e |= EdgeTop
		case "bottom":
			e |= EdgeBottom
		case "left":
			e |= EdgeLeft
		case "right":
			e |= EdgeRight
		}
	}
	return e
}

// Has reports whether e includes every edge in other.
func (e Edge) Has(other Edge) bool {
	return e&other == other && other != 0
}

// String returns the handle name of the edge set.
func (e Edge) String() string {
	var parts []string
	if e&EdgeTop != 0 {
		parts = append(parts, "top")
	}
	if e&EdgeBottom != 0 {
		parts = append(parts, "bottom")
	}
	if e&EdgeLeft != 0 {
		parts = append(parts, "left")
	}
	if e&EdgeRight != 0 {
		parts = append(parts, "right")
	}
	return strings.Join(parts, "-")
}

// ClampPosition moves f so that it lies inside viewport. The top-left corner
// never goes negative; the right and bottom edges stay inside the viewport
// whenever the frame is small enough to fit.
func ClampPosition(f Frame, viewport Size) Frame {
	f.X = clamp(f.X, 0, viewport.Width-f.Width)
	f.Y = clamp(f.Y, 0, viewport.Height-f.Height)
	return f
}

// Resize applies a pointer delta to the start frame for the given edges.
//
// Dragging a left or top edge moves the position with the size so the
// opposite edge stays fixed. Width and height never drop below min and never
// exceed the viewport, unless the viewport itself is smaller than min.
// The result is then clamped into the viewport.
func Resize(start Frame, edge Edge, dx, dy int, min, viewport Size) Frame {
	f := start
	maxW := max(min.Width, viewport.Width)
	maxH := max(min.Height, viewport.Height)

	if edge&EdgeRight != 0 {
		f.Width = clamp(start.Width+dx, min.Width, maxW)
	}
	if edge&EdgeLeft != 0 {
		f.Width = clamp(start.Width-dx, min.Width, maxW)
		f.X = start.X + (start.Width - f.Width)
	}
	if edge&EdgeBottom != 0 {
		f.Height = clamp(start.Height+dy, min.Height, maxH)
	}
	if edge&EdgeTop != 0 {
		f.Height = clamp(start.Height-dy, min.Height, maxH)
		f.Y = start.Y + (start.Height - f.Height)
	}

	return ClampPosition(f, viewport)
}

// Translate moves the start frame by a pointer delta and clamps it into the
// viewport.
func Translate(start Frame, dx, dy int, viewport Size) Frame {
	start.X += dx
	start.Y += dy
	return ClampPosition(start, viewport)
}

// clamp limits v to [lo, hi]. When hi < lo, lo wins.
func clamp(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
