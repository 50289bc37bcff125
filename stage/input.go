package stage

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/tableau"
)

// SamplePointer reads the mouse state for this frame.
func SamplePointer() *tableau.PointerSample {
	mx, my := ebiten.CursorPosition()
	return &tableau.PointerSample{
		X:      float64(mx),
		Y:      float64(my),
		Left:   ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		Right:  ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight),
		Middle: ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle),
	}
}

// cursorFor returns the cursor shape for an editing mode. hovering is true
// when the pointer is over an item or an open menu entry.
func cursorFor(mode tableau.Mode, hovering bool) ebiten.CursorShapeType {
	switch mode {
	case tableau.ModeMove:
		return ebiten.CursorShapeMove
	case tableau.ModeResize:
		return ebiten.CursorShapeEWResize
	case tableau.ModeRotate:
		return ebiten.CursorShapeCrosshair
	}
	if hovering {
		return ebiten.CursorShapePointer
	}
	return ebiten.CursorShapeDefault
}
