package stage

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/phanxgames/tableau"
)

const (
	knobRadius   = 10.0
	trackHeight  = 6.0
	sliderWidth  = 200.0
	sliderStride = 240.0
	sliderStrip  = 64.0 // height of the slider strip at the bottom of the canvas
)

// slider edits one custom background axis.
type slider struct {
	x, y     float64
	width    float64
	min, max float64
	value    float64
	active   bool

	prop, axis string
	label      string
}

// axisSliders returns the four custom axis sliders laid out along the
// bottom of a canvas of the given height.
func axisSliders(height float64) []*slider {
	y := height - sliderStrip/2 + 8
	specs := []struct {
		prop, axis, label string
		max               float64
	}{
		{tableau.StyleSize, "x", "size x", 200},
		{tableau.StyleSize, "y", "size y", 200},
		{tableau.StylePosition, "x", "position x", 100},
		{tableau.StylePosition, "y", "position y", 100},
	}
	out := make([]*slider, len(specs))
	for i, s := range specs {
		out[i] = &slider{
			x:     24 + float64(i)*sliderStride,
			y:     y,
			width: sliderWidth,
			max:   s.max,
			value: 50,
			prop:  s.prop,
			axis:  s.axis,
			label: s.label,
		}
	}
	return out
}

func (s *slider) knobX() float64 {
	if s.max == s.min {
		return s.x
	}
	return s.x + (s.value-s.min)/(s.max-s.min)*s.width
}

// handleInput drags the knob and reports whether the value changed. A drag
// starts only on the knob and continues until the button is released.
func (s *slider) handleInput(mx, my float64, pressed bool) bool {
	if !pressed {
		s.active = false
		return false
	}
	if !s.active && math.Hypot(mx-s.knobX(), my-s.y) <= knobRadius*1.5 {
		s.active = true
	}
	if !s.active {
		return false
	}
	t := (mx - s.x) / s.width
	t = max(0, min(1, t))
	v := math.Round(s.min + t*(s.max-s.min))
	if v == s.value {
		return false
	}
	s.value = v
	return true
}

func (s *slider) draw(dst *ebiten.Image) {
	vector.DrawFilledRect(dst, float32(s.x), float32(s.y-trackHeight/2), float32(s.width), float32(trackHeight), color.RGBA{60, 60, 60, 255}, false)
	knob := color.RGBA{200, 200, 200, 255}
	if s.active {
		knob = outlineColor
	}
	vector.DrawFilledCircle(dst, float32(s.knobX()), float32(s.y), float32(knobRadius), knob, false)
	ebitenutil.DebugPrintAt(dst, fmt.Sprintf("%s: %.0f%%", s.label, s.value), int(s.x), int(s.y)-24)
}
