package tableau

import (
	"math"
	"sort"
)

// EventType identifies a pointer event delivered to Composer callbacks.
type EventType uint8

const (
	EventPointerDown  EventType = iota // button pressed
	EventPointerUp                     // button released
	EventPointerMove                   // pointer moved
	EventPointerEnter                  // pointer moved onto an item
	EventPointerLeave                  // pointer moved off an item
	EventClick                         // press and release on the same item
	eventTypeCount
)

// PointerSample is the pointer state read from the platform for one frame.
type PointerSample struct {
	X, Y                float64
	Left, Right, Middle bool
}

func (p PointerSample) pressed() (bool, MouseButton) {
	switch {
	case p.Left:
		return true, MouseButtonLeft
	case p.Right:
		return true, MouseButtonRight
	case p.Middle:
		return true, MouseButtonMiddle
	}
	return false, MouseButtonLeft
}

// PointerContext describes a pointer event. Target is zero when the pointer
// is not over an item.
type PointerContext struct {
	Target ItemID
	X, Y   float64
	Button MouseButton
}

// --- Per-pointer state ---

type pointerState struct {
	down   bool
	button MouseButton // button captured at press time
	startX float64
	startY float64
	lastX  float64
	lastY  float64
	hit    ItemID // item under the pointer at press time
	hover  ItemID // last item the pointer was over, for enter/leave
	seen   bool
}

// --- Handler registry ---

type pointerHandler struct {
	id uint32
	fn func(PointerContext)
}

type handlerRegistry struct {
	handlers [eventTypeCount][]pointerHandler
	nextID   uint32
}

func (r *handlerRegistry) add(event EventType, fn func(PointerContext)) CallbackHandle {
	r.nextID++
	id := r.nextID
	r.handlers[event] = append(r.handlers[event], pointerHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: r, event: event}
}

func (r *handlerRegistry) fire(event EventType, ctx PointerContext) {
	for _, h := range r.handlers[event] {
		h.fn(ctx)
	}
}

// CallbackHandle allows removing a registered pointer callback.
type CallbackHandle struct {
	id    uint32
	reg   *handlerRegistry
	event EventType
}

// Remove unregisters this callback so it no longer fires.
func (h CallbackHandle) Remove() {
	if h.reg == nil || h.event >= eventTypeCount {
		return
	}
	s := h.reg.handlers[h.event]
	for i := range s {
		if s[i].id == h.id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = pointerHandler{}
			h.reg.handlers[h.event] = s[:len(s)-1]
			return
		}
	}
}

// OnPointerDown registers a callback for pointer down events.
func (c *Composer) OnPointerDown(fn func(PointerContext)) CallbackHandle {
	return c.handlers.add(EventPointerDown, fn)
}

// OnPointerUp registers a callback for pointer up events.
func (c *Composer) OnPointerUp(fn func(PointerContext)) CallbackHandle {
	return c.handlers.add(EventPointerUp, fn)
}

// OnPointerMove registers a callback for pointer move events.
func (c *Composer) OnPointerMove(fn func(PointerContext)) CallbackHandle {
	return c.handlers.add(EventPointerMove, fn)
}

// OnPointerEnter registers a callback fired when the pointer moves onto an item.
func (c *Composer) OnPointerEnter(fn func(PointerContext)) CallbackHandle {
	return c.handlers.add(EventPointerEnter, fn)
}

// OnPointerLeave registers a callback fired when the pointer leaves an item.
func (c *Composer) OnPointerLeave(fn func(PointerContext)) CallbackHandle {
	return c.handlers.add(EventPointerLeave, fn)
}

// OnClick registers a callback for click events.
func (c *Composer) OnClick(fn func(PointerContext)) CallbackHandle {
	return c.handlers.add(EventClick, fn)
}

// --- Hit testing ---

// hitTest returns the topmost displayed item at (x, y), or zero. Higher
// z-index wins; among equal z-indices the later item is on top.
func (c *Composer) hitTest(x, y float64) ItemID {
	c.hitBuf = c.hitBuf[:0]
	for _, d := range c.scene.items {
		if it, ok := c.items[d.ID]; ok {
			c.hitBuf = append(c.hitBuf, it)
		}
	}
	sort.SliceStable(c.hitBuf, func(i, j int) bool {
		return c.hitBuf[i].transform.ZIndex < c.hitBuf[j].transform.ZIndex
	})
	for i := len(c.hitBuf) - 1; i >= 0; i-- {
		if c.hitBuf[i].Contains(x, y) {
			return c.hitBuf[i].id
		}
	}
	return 0
}

// ItemAt returns the topmost item under the surface point (x, y), or zero.
func (c *Composer) ItemAt(x, y float64) ItemID { return c.hitTest(x, y) }

// --- Input processing ---

// ProcessInput feeds one frame of pointer input. A queued synthetic event
// takes the place of the real sample; a nil sample processes injections only.
func (c *Composer) ProcessInput(sample *PointerSample) {
	if c.processInjectedInput() {
		return
	}
	if sample == nil {
		return
	}
	pressed, button := sample.pressed()
	c.processPointer(sample.X, sample.Y, pressed, button)
}

// processPointer runs the pointer state machine.
func (c *Composer) processPointer(x, y float64, pressed bool, button MouseButton) {
	ps := &c.pointer
	target := c.hitTest(x, y)

	if target != ps.hover {
		if ps.hover != 0 {
			c.handlers.fire(EventPointerLeave, PointerContext{Target: ps.hover, X: x, Y: y, Button: button})
		}
		if target != 0 {
			c.handlers.fire(EventPointerEnter, PointerContext{Target: target, X: x, Y: y, Button: button})
		}
		ps.hover = target
	}

	// Motion is applied before the button edge so a press acts on the
	// position it happened at.
	if !ps.seen || x != ps.lastX || y != ps.lastY {
		ps.seen = true
		ps.lastX, ps.lastY = x, y
		c.pointerMoved(x, y)
		c.handlers.fire(EventPointerMove, PointerContext{Target: target, X: x, Y: y, Button: button})
	}

	switch {
	case pressed && !ps.down:
		ps.down = true
		ps.button = button
		ps.startX, ps.startY = x, y
		ps.hit = target
		c.pointerPressed(button, x, y, target)
		c.handlers.fire(EventPointerDown, PointerContext{Target: target, X: x, Y: y, Button: button})

	case !pressed && ps.down:
		if ps.hit != 0 && ps.hit == target {
			c.handlers.fire(EventClick, PointerContext{Target: target, X: x, Y: y, Button: ps.button})
		}
		c.handlers.fire(EventPointerUp, PointerContext{Target: target, X: x, Y: y, Button: ps.button})
		ps.down = false
		ps.hit = 0
	}
}

// pointerPressed applies the menu and activation rules for a button press.
func (c *Composer) pointerPressed(button MouseButton, x, y float64, target ItemID) {
	switch button {
	case MouseButtonRight:
		if target == 0 {
			c.menu.Close()
			return
		}
		if it, ok := c.items[target]; !ok || !it.Interactive() {
			return
		}
		c.menu.Open(target, x, y)
	case MouseButtonLeft:
		if i, ok := c.menu.EntryAt(x, y); ok {
			id := c.menu.Target()
			c.menu.Close()
			if err := c.SelectMode(id, menuEntries[i].Mode, x, y); err != nil {
				c.log.Printf("warning: select mode: %v", err)
			}
			return
		}
		c.menu.Close()
		c.deactivate()
	}
}

// pointerMoved drives the active item and the menu hover highlight.
func (c *Composer) pointerMoved(x, y float64) {
	c.menu.setHover(x, y)
	if c.active == 0 {
		return
	}
	it, ok := c.items[c.active]
	if !ok {
		c.active = 0
		return
	}
	if !c.activeMoved {
		dx, dy := x-c.activeX, y-c.activeY
		if math.Sqrt(dx*dx+dy*dy) <= c.cfg.DragDeadZone {
			return
		}
		c.activeMoved = true
	}
	it.PointerMove(x, y)
}
