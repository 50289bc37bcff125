package tableau

import (
	"fmt"
	"math"
)

// Corner names the pair of viewport edges an item is anchored to.
type Corner uint8

const (
	CornerTopLeft Corner = iota
	CornerTopRight
	CornerBottomRight
	CornerBottomLeft
)

var cornerNames = [...]string{"top-left", "top-right", "bottom-right", "bottom-left"}

func (c Corner) String() string {
	if int(c) < len(cornerNames) {
		return cornerNames[c]
	}
	return fmt.Sprintf("corner(%d)", uint8(c))
}

// ParseCorner converts a name such as "bottom-right" to a Corner.
func ParseCorner(s string) (Corner, error) {
	for i, name := range cornerNames {
		if name == s {
			return Corner(i), nil
		}
	}
	return 0, fmt.Errorf("tableau: unknown anchor %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (c Corner) MarshalText() ([]byte, error) {
	if int(c) >= len(cornerNames) {
		return nil, fmt.Errorf("tableau: invalid anchor %d", uint8(c))
	}
	return []byte(cornerNames[c]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Corner) UnmarshalText(text []byte) error {
	v, err := ParseCorner(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Left reports whether the corner anchors the horizontal axis to the left edge.
func (c Corner) Left() bool { return c == CornerTopLeft || c == CornerBottomLeft }

// Top reports whether the corner anchors the vertical axis to the top edge.
func (c Corner) Top() bool { return c == CornerTopLeft || c == CornerTopRight }

func cornerOf(left, top bool) Corner {
	switch {
	case left && top:
		return CornerTopLeft
	case !left && top:
		return CornerTopRight
	case !left && !top:
		return CornerBottomRight
	default:
		return CornerBottomLeft
	}
}

// Position is an offset from the anchored corner. Horizontal is in vw and
// measures from the left or right edge; Vertical is in vh and measures from
// the top or bottom edge.
type Position struct {
	Anchor     Corner  `json:"anchor"`
	Horizontal float64 `json:"horizontal"`
	Vertical   float64 `json:"vertical"`
}

// Transform is the position, size and rotation of an item in viewport units.
// A zero Height means the height follows the image aspect ratio.
type Transform struct {
	Position Position `json:"position"`
	Width    float64  `json:"width"`
	Height   float64  `json:"height"`
	Rotation float64  `json:"rotationDegrees"`
	ZIndex   int      `json:"zIndex"`
}

// DefaultTransform is the transform given to freshly uploaded items.
func DefaultTransform() Transform {
	return Transform{
		Position: Position{Anchor: CornerTopLeft, Horizontal: 10, Vertical: 10},
		Width:    20,
		ZIndex:   1,
	}
}

// Left returns the offset from the left edge, if the transform is anchored there.
func (t Transform) Left() (float64, bool) {
	if t.Position.Anchor.Left() {
		return t.Position.Horizontal, true
	}
	return 0, false
}

// Right returns the offset from the right edge, if the transform is anchored there.
func (t Transform) Right() (float64, bool) {
	if !t.Position.Anchor.Left() {
		return t.Position.Horizontal, true
	}
	return 0, false
}

// Top returns the offset from the top edge, if the transform is anchored there.
func (t Transform) Top() (float64, bool) {
	if t.Position.Anchor.Top() {
		return t.Position.Vertical, true
	}
	return 0, false
}

// Bottom returns the offset from the bottom edge, if the transform is anchored there.
func (t Transform) Bottom() (float64, bool) {
	if !t.Position.Anchor.Top() {
		return t.Position.Vertical, true
	}
	return 0, false
}

// TransformUpdate is a partial transform. Nil fields are left unchanged.
// Setting one edge of an axis re-anchors that axis to it and drops the
// opposite edge; if both edges of an axis are set, Left and Top win.
type TransformUpdate struct {
	Left, Right, Top, Bottom *float64
	Width, Height            *float64
	Rotation                 *float64
}

// Float returns a pointer to v, for building a TransformUpdate.
func Float(v float64) *float64 { return &v }

// Apply merges u into t and returns the result.
func (t Transform) Apply(u TransformUpdate) Transform {
	left := t.Position.Anchor.Left()
	top := t.Position.Anchor.Top()

	switch {
	case u.Left != nil:
		left = true
		t.Position.Horizontal = *u.Left
	case u.Right != nil:
		left = false
		t.Position.Horizontal = *u.Right
	}
	switch {
	case u.Top != nil:
		top = true
		t.Position.Vertical = *u.Top
	case u.Bottom != nil:
		top = false
		t.Position.Vertical = *u.Bottom
	}
	t.Position.Anchor = cornerOf(left, top)

	if u.Width != nil {
		t.Width = *u.Width
	}
	if u.Height != nil {
		t.Height = *u.Height
	}
	if u.Rotation != nil {
		t.Rotation = *u.Rotation
	}
	return t
}

// Resolve converts the transform to a pixel placement on a viewport.
// aspect is the image width divided by its height and is used when Height
// is zero. maxHeight, in vh, caps the height when positive. Widths are not
// clamped: a negative width yields a negative placement size.
func (t Transform) Resolve(vp Viewport, aspect, maxHeight float64) Placement {
	vw, vh := vp.Units()
	w := t.Width * vw
	h := t.Height * vh
	if t.Height == 0 && aspect > 0 {
		h = w / aspect
	}
	if maxHeight > 0 && h > maxHeight*vh {
		h = maxHeight * vh
	}

	x := t.Position.Horizontal * vw
	if !t.Position.Anchor.Left() {
		x = vp.Width - w - x
	}
	y := t.Position.Vertical * vh
	if !t.Position.Anchor.Top() {
		y = vp.Height - h - y
	}

	return Placement{
		X: x, Y: y, W: w, H: h,
		Rotation: t.Rotation,
		Opacity:  1,
		ZIndex:   t.ZIndex,
	}
}

// Placement is a transform resolved to surface pixels. X and Y locate the
// top-left corner of the unrotated box; rotation is about its centre.
type Placement struct {
	X, Y, W, H float64
	Rotation   float64 // degrees, clockwise
	Opacity    float64
	ZIndex     int
}

// Center returns the centre of the box.
func (p Placement) Center() (float64, float64) {
	return p.X + p.W/2, p.Y + p.H/2
}

// Matrix returns the affine matrix that maps box-local coordinates (origin
// at the unrotated top-left) to surface coordinates. Layout: [a, b, c, d, tx, ty].
func (p Placement) Matrix() [6]float64 {
	sin, cos := math.Sincos(p.Rotation * math.Pi / 180)
	cx, cy := p.Center()

	// Translate(-pivot) -> Rotate -> Translate(centre)
	pivot := [6]float64{1, 0, 0, 1, -p.W / 2, -p.H / 2}
	rot := [6]float64{cos, sin, -sin, cos, 0, 0}
	centre := [6]float64{1, 0, 0, 1, cx, cy}
	return multiplyAffine(centre, multiplyAffine(rot, pivot))
}

// Contains reports whether the surface point (x, y) lies on the rotated box.
// Boxes with a negative size are tested against their mirrored extent.
func (p Placement) Contains(x, y float64) bool {
	lx, ly := transformPoint(invertAffine(p.Matrix()), x, y)
	return between(lx, 0, p.W) && between(ly, 0, p.H)
}

func between(v, a, b float64) bool {
	if a > b {
		a, b = b, a
	}
	return v >= a && v <= b
}

// identityMatrix is the identity affine matrix.
var identityMatrix = [6]float64{1, 0, 0, 1, 0, 0}

// multiplyAffine multiplies two 2D affine matrices: result = parent * child.
//
//	Matrix layout: [a, b, c, d, tx, ty]
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
func multiplyAffine(p, c [6]float64) [6]float64 {
	return [6]float64{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// invertAffine computes the inverse of a 2D affine matrix.
// Returns the identity matrix if the matrix is singular.
func invertAffine(m [6]float64) [6]float64 {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return identityMatrix
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return [6]float64{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// transformPoint applies an affine matrix to a point.
func transformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}
