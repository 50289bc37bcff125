package tableau

import "fmt"

// ItemID identifies a live item and its descriptor within one Scene.
// IDs are assigned by the owning Scene and are never written to an archive.
type ItemID uint32

// Rect is an axis-aligned rectangle in surface pixels. The coordinate system
// has its origin at the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Viewport is the size of the rendering surface in pixels. Transforms are
// expressed as percentages of it, so one vw is Width/100 pixels.
type Viewport struct {
	Width, Height float64
}

// Center returns the midpoint of the viewport.
func (v Viewport) Center() (float64, float64) {
	return v.Width / 2, v.Height / 2
}

// Units returns the pixel size of 1vw and 1vh.
func (v Viewport) Units() (vw, vh float64) {
	return v.Width / 100, v.Height / 100
}

// Empty reports whether the viewport has no area.
func (v Viewport) Empty() bool {
	return v.Width <= 0 || v.Height <= 0
}

// Mode is the interaction mode of an item.
type Mode uint8

const (
	ModeIdle   Mode = iota // no manipulation in progress
	ModeMove               // pointer motion repositions the item
	ModeResize             // horizontal pointer motion changes the width
	ModeRotate             // horizontal pointer motion changes the rotation
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeMove:
		return "move"
	case ModeResize:
		return "resize"
	case ModeRotate:
		return "rotate"
	default:
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
}

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // primary (left) mouse button
	MouseButtonRight                     // secondary (right) mouse button, opens the context menu
	MouseButtonMiddle                    // middle mouse button (scroll wheel click)
)
