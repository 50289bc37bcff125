package tableau

import "errors"

// DefaultMaxHeight caps auto-sized items, in vh.
const DefaultMaxHeight = 80

// ErrMissingUpdate is returned by Item.Render when an interactive render
// has no update callback to report transform changes to.
var ErrMissingUpdate = errors.New("tableau: interactive render requires an update callback")

// ItemOptions configures a new Item. Zero fields take defaults.
type ItemOptions struct {
	Image        *ImageAsset
	Transform    *Transform // nil means DefaultTransform
	LinkedAction string
	Container    string

	MaxHeight    float64 // vh; zero means DefaultMaxHeight, negative disables the cap
	FadeDuration float32 // seconds; zero means 0.12, negative disables the fade
	EditOpacity  float64 // opacity while being edited; zero means 0.7
}

// RenderOptions controls how an item is first displayed.
type RenderOptions struct {
	// Interactive items can be activated and report every transform change.
	Interactive bool
	// Update is called after every transform change with the item itself.
	Update func(*Item)
}

// Item is the live, positionable state of one overlay image.
type Item struct {
	id        ItemID
	surface   Surface
	image     *ImageAsset
	transform Transform

	linkedAction string
	container    string
	maxHeight    float64

	interactive bool
	rendered    bool
	removed     bool
	update      func(*Item)

	// Drag baseline, recorded by Activate.
	mode          Mode
	originX       float64
	originY       float64
	basePlacement Placement
	baseTransform Transform

	opacity      float64
	fade         *fade
	fadeDuration float32
	editOpacity  float64
}

// NewItem creates an item bound to a surface. Nothing is displayed until Render.
func NewItem(id ItemID, surface Surface, opts ItemOptions) *Item {
	t := DefaultTransform()
	if opts.Transform != nil {
		t = *opts.Transform
	}
	maxH := opts.MaxHeight
	if maxH == 0 {
		maxH = DefaultMaxHeight
	}
	dur := opts.FadeDuration
	if dur == 0 {
		dur = defaultFadeDuration
	}
	editOp := opts.EditOpacity
	if editOp == 0 {
		editOp = defaultEditOpacity
	}
	return &Item{
		id:           id,
		surface:      surface,
		image:        opts.Image,
		transform:    t,
		linkedAction: opts.LinkedAction,
		container:    opts.Container,
		maxHeight:    maxH,
		opacity:      1,
		fadeDuration: dur,
		editOpacity:  editOp,
	}
}

// ID returns the item's scene-assigned identifier.
func (it *Item) ID() ItemID { return it.id }

// Image returns the item's image.
func (it *Item) Image() *ImageAsset { return it.image }

// Transform returns the current transform.
func (it *Item) Transform() Transform { return it.transform }

// Mode returns the current interaction mode.
func (it *Item) Mode() Mode { return it.mode }

// Opacity returns the current display opacity.
func (it *Item) Opacity() float64 { return it.opacity }

// Interactive reports whether the item was rendered interactively.
func (it *Item) Interactive() bool { return it.interactive }

// Removed reports whether Remove has been called.
func (it *Item) Removed() bool { return it.removed }

// LinkedAction returns the opaque action string attached to the item.
func (it *Item) LinkedAction() string { return it.linkedAction }

// Container returns the container selector the item is rendered into.
func (it *Item) Container() string { return it.container }

// Placement resolves the current transform against the surface viewport.
func (it *Item) Placement() Placement {
	p := it.transform.Resolve(it.surface.Viewport(), it.image.Aspect(), it.maxHeight)
	p.Opacity = it.opacity
	return p
}

// Contains reports whether the surface point lies on the displayed item.
func (it *Item) Contains(x, y float64) bool {
	if it.removed || !it.rendered {
		return false
	}
	return it.Placement().Contains(x, y)
}

// Render displays the item. An interactive render requires opts.Update.
func (it *Item) Render(opts RenderOptions) error {
	if it.removed {
		return nil
	}
	if opts.Interactive && opts.Update == nil {
		return ErrMissingUpdate
	}
	it.interactive = opts.Interactive
	it.update = opts.Update
	it.rendered = true
	it.show()
	return nil
}

func (it *Item) show() {
	if it.rendered && !it.removed {
		it.surface.Show(it.id, it.image, it.Placement())
	}
}

// Activate enters mode and records the pointer position and the current
// transform as the drag baseline. Only interactive items can be activated.
// Activating with ModeIdle is the same as Deactivate.
func (it *Item) Activate(mode Mode, pointerX, pointerY float64) {
	if it.removed || !it.interactive {
		return
	}
	if mode == ModeIdle {
		it.Deactivate()
		return
	}
	wasIdle := it.mode == ModeIdle
	it.mode = mode
	it.originX, it.originY = pointerX, pointerY
	it.basePlacement = it.Placement()
	it.baseTransform = it.transform
	if wasIdle {
		it.startFade(it.editOpacity)
	}
}

// Deactivate returns the item to ModeIdle and clears the editing indicator.
// It does nothing when the item is already idle.
func (it *Item) Deactivate() {
	if it.removed || it.mode == ModeIdle {
		return
	}
	it.mode = ModeIdle
	it.startFade(1)
}

// PointerMove applies a pointer position to the active manipulation.
// It has no effect while the item is idle.
func (it *Item) PointerMove(x, y float64) {
	if it.removed || it.mode == ModeIdle {
		return
	}
	vp := it.surface.Viewport()
	if vp.Empty() {
		return
	}
	vw, vh := vp.Units()
	dx := (x - it.originX) / vw
	dy := (y - it.originY) / vh

	var u TransformUpdate
	switch it.mode {
	case ModeMove:
		left := it.basePlacement.X/vw + dx
		top := it.basePlacement.Y/vh + dy
		width := it.basePlacement.W / vw
		height := it.basePlacement.H / vh

		// The quadrant holding the pointer picks the anchor edges.
		cx, cy := vp.Center()
		if x < cx {
			u.Left = Float(left)
		} else {
			u.Right = Float(100 - width - left)
		}
		if y < cy {
			u.Top = Float(top)
		} else {
			u.Bottom = Float(100 - height - top)
		}
	case ModeResize:
		u.Width = Float(it.baseTransform.Width + dx)
	case ModeRotate:
		u.Rotation = Float(it.baseTransform.Rotation + dx)
	}
	it.UpdateTransform(u)
}

// UpdateTransform merges u into the transform, re-renders, and reports the
// change through the update callback.
func (it *Item) UpdateTransform(u TransformUpdate) {
	if it.removed {
		return
	}
	it.transform = it.transform.Apply(u)
	it.show()
	if it.update != nil {
		it.update(it)
	}
}

// SetTransform replaces the whole transform without invoking the update
// callback. It is used when the scene itself is the source of the change.
func (it *Item) SetTransform(t Transform) {
	if it.removed {
		return
	}
	it.transform = t
	it.show()
}

// Tick advances the editing-indicator fade by dt seconds.
func (it *Item) Tick(dt float32) {
	if it.removed || it.fade == nil {
		return
	}
	it.opacity = it.fade.update(dt)
	if it.fade.done {
		it.fade = nil
	}
	it.show()
}

func (it *Item) startFade(to float64) {
	if it.fadeDuration < 0 {
		it.opacity = to
		it.fade = nil
		it.show()
		return
	}
	it.fade = newFade(it.opacity, to, it.fadeDuration)
}

// Remove detaches the item from the surface. Every later call is a no-op.
func (it *Item) Remove() {
	if it.removed {
		return
	}
	if it.rendered {
		it.surface.Hide(it.id)
	}
	it.removed = true
	it.mode = ModeIdle
	it.update = nil
	it.fade = nil
}
