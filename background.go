package tableau

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Background style properties.
const (
	StyleAttachment = "background-attachment"
	StyleSize       = "background-size"
	StylePosition   = "background-position"
	StyleRepeat     = "background-repeat"
)

const (
	customValue  = "custom"
	autoValue    = "auto"
	defaultAxis  = "50"
	maxTileCount = 4096
)

// ErrInvalidStyle is returned when a background property or option is unknown.
var ErrInvalidStyle = errors.New("tableau: invalid background style")

// StyleOptions lists the selectable values of each background property.
var StyleOptions = map[string][]string{
	StyleAttachment: {"fixed", "scroll"},
	StyleSize:       {"cover", "contain", customValue},
	StylePosition:   {"center", customValue},
	StyleRepeat:     {"no-repeat", "repeat", "repeat-x", "repeat-y", "space", "round"},
}

// StyleProperties is the display order of the background properties.
var StyleProperties = []string{StyleSize, StylePosition, StyleRepeat}

// axisRange is the slider range of the custom axes of a property.
var axisRange = map[string][2]float64{
	StyleSize:     {0, 200},
	StylePosition: {0, 100},
}

// BackgroundStyle is a set of CSS background properties. Custom sizes and
// positions keep their axes under "<property>-x" and "<property>-y".
type BackgroundStyle map[string]string

// DefaultBackgroundStyle is applied when a background is set without a style.
func DefaultBackgroundStyle() BackgroundStyle {
	return BackgroundStyle{
		StyleAttachment: "fixed",
		StyleSize:       "cover",
		StylePosition:   "center",
		StyleRepeat:     "no-repeat",
	}
}

// Clone returns a copy of the style. The copy of a nil style is nil.
func (s BackgroundStyle) Clone() BackgroundStyle {
	if s == nil {
		return nil
	}
	out := make(BackgroundStyle, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Set selects an option for a property. Choosing "custom" seeds both axes
// with their current value or 50.
func (s BackgroundStyle) Set(prop, value string) error {
	opts, ok := StyleOptions[prop]
	if !ok {
		return fmt.Errorf("%w: unknown property %q", ErrInvalidStyle, prop)
	}
	if !hasOption(opts, value) {
		return fmt.Errorf("%w: %s cannot be %q", ErrInvalidStyle, prop, value)
	}
	s[prop] = value
	if value == customValue {
		for _, axis := range []string{"x", "y"} {
			key := prop + "-" + axis
			if _, ok := s[key]; !ok {
				s[key] = defaultAxis
			}
		}
	}
	return nil
}

// SetAxis sets one custom axis ("x" or "y") of a size or position and
// switches the property to "custom". A size of 0 is stored as "auto".
func (s BackgroundStyle) SetAxis(prop, axis string, value float64) error {
	r, ok := axisRange[prop]
	if !ok {
		return fmt.Errorf("%w: %s has no custom axes", ErrInvalidStyle, prop)
	}
	if axis != "x" && axis != "y" {
		return fmt.Errorf("%w: unknown axis %q", ErrInvalidStyle, axis)
	}
	if value < r[0] || value > r[1] || math.IsNaN(value) {
		return fmt.Errorf("%w: %s-%s %v outside %v..%v", ErrInvalidStyle, prop, axis, value, r[0], r[1])
	}
	if err := s.Set(prop, customValue); err != nil {
		return err
	}
	v := strconv.FormatFloat(value, 'f', -1, 64)
	if prop == StyleSize && value == 0 {
		v = autoValue
	}
	s[prop+"-"+axis] = v
	return nil
}

// Axis returns a custom axis value for a slider, with "auto" as 0.
func (s BackgroundStyle) Axis(prop, axis string) float64 {
	v, ok := s[prop+"-"+axis]
	if !ok {
		v = defaultAxis
	}
	if v == autoValue {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 50
	}
	return f
}

// Resolved returns the effective CSS value of prop, such as "cover" or
// "40% 60%". Unset properties resolve to their default.
func (s BackgroundStyle) Resolved(prop string) string {
	v, ok := s[prop]
	if !ok {
		v = DefaultBackgroundStyle()[prop]
	}
	if v != customValue {
		return v
	}
	return axisCSS(s.axisValue(prop, "x")) + " " + axisCSS(s.axisValue(prop, "y"))
}

func (s BackgroundStyle) axisValue(prop, axis string) string {
	if v, ok := s[prop+"-"+axis]; ok {
		return v
	}
	return defaultAxis
}

func axisCSS(v string) string {
	if v == autoValue {
		return v
	}
	return v + "%"
}

// LayoutBackground computes the tiles a surface draws for a background image
// of imgW x imgH pixels. Tiles may extend past the viewport.
func LayoutBackground(style BackgroundStyle, vp Viewport, imgW, imgH int) []Rect {
	if vp.Empty() || imgW <= 0 || imgH <= 0 {
		return nil
	}
	w, h := backgroundSize(style.Resolved(StyleSize), vp, float64(imgW), float64(imgH))
	if w <= 0 || h <= 0 {
		return nil
	}
	x, y := backgroundPosition(style.Resolved(StylePosition), vp, w, h)
	rx, ry := repeatModes(style.Resolved(StyleRepeat))

	xs := tiles(vp.Width, w, x, rx)
	ys := tiles(vp.Height, h, y, ry)
	if len(xs)*len(ys) > maxTileCount {
		return []Rect{{X: x, Y: y, Width: w, Height: h}}
	}
	out := make([]Rect, 0, len(xs)*len(ys))
	for _, ty := range ys {
		for _, tx := range xs {
			out = append(out, Rect{X: tx.pos, Y: ty.pos, Width: tx.size, Height: ty.size})
		}
	}
	return out
}

func backgroundSize(v string, vp Viewport, iw, ih float64) (float64, float64) {
	switch v {
	case "cover":
		s := math.Max(vp.Width/iw, vp.Height/ih)
		return iw * s, ih * s
	case "contain":
		s := math.Min(vp.Width/iw, vp.Height/ih)
		return iw * s, ih * s
	}
	xs, ys, ok := splitPair(v)
	if !ok {
		return iw, ih
	}
	w, wAuto := percentOf(xs, vp.Width)
	h, hAuto := percentOf(ys, vp.Height)
	switch {
	case wAuto && hAuto:
		return iw, ih
	case wAuto:
		return h * iw / ih, h
	case hAuto:
		return w, w * ih / iw
	}
	return w, h
}

func backgroundPosition(v string, vp Viewport, w, h float64) (float64, float64) {
	px, py := 50.0, 50.0
	if xs, ys, ok := splitPair(v); ok {
		if f, err := strconv.ParseFloat(strings.TrimSuffix(xs, "%"), 64); err == nil {
			px = f
		}
		if f, err := strconv.ParseFloat(strings.TrimSuffix(ys, "%"), 64); err == nil {
			py = f
		}
	}
	return (vp.Width - w) * px / 100, (vp.Height - h) * py / 100
}

func splitPair(v string) (string, string, bool) {
	parts := strings.Fields(v)
	if len(parts) != 2 {
		return "", "", false
	}
	return parts[0], parts[1], true
}

func percentOf(v string, total float64) (float64, bool) {
	if v == autoValue {
		return 0, true
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(v, "%"), 64)
	if err != nil {
		return 0, true
	}
	return total * f / 100, false
}

func repeatModes(v string) (string, string) {
	switch v {
	case "repeat-x":
		return "repeat", "no-repeat"
	case "repeat-y":
		return "no-repeat", "repeat"
	case "repeat", "space", "round":
		return v, v
	}
	return "no-repeat", "no-repeat"
}

type span struct{ pos, size float64 }

// tiles lays out one axis of a background.
func tiles(view, size, offset float64, mode string) []span {
	switch mode {
	case "repeat":
		start := math.Mod(offset, size)
		if start > 0 {
			start -= size
		}
		var out []span
		for p := start; p < view && len(out) <= maxTileCount; p += size {
			out = append(out, span{p, size})
		}
		return out
	case "space":
		n := math.Min(math.Floor(view/size), maxTileCount)
		if n < 2 {
			break
		}
		gap := (view - n*size) / (n - 1)
		out := make([]span, 0, int(n))
		for i := 0.0; i < n; i++ {
			out = append(out, span{i * (size + gap), size})
		}
		return out
	case "round":
		n := math.Min(math.Max(1, math.Round(view/size)), maxTileCount)
		s := view / n
		out := make([]span, 0, int(n))
		for i := 0.0; i < n; i++ {
			out = append(out, span{i * s, s})
		}
		return out
	}
	return []span{{offset, size}}
}

func hasOption(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
