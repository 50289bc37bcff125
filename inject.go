package tableau

// syntheticPointerEvent is a single injected pointer event in surface
// coordinates, the same space real pointer samples use.
type syntheticPointerEvent struct {
	x, y    float64
	pressed bool
	button  MouseButton
}

func (c *Composer) inject(x, y float64, pressed bool, button MouseButton) {
	c.injectQueue = append(c.injectQueue, syntheticPointerEvent{
		x: x, y: y,
		pressed: pressed,
		button:  button,
	})
}

// InjectPress queues a left button press at (x, y). Queued events are
// consumed one per ProcessInput call.
func (c *Composer) InjectPress(x, y float64) {
	c.inject(x, y, true, MouseButtonLeft)
}

// InjectMove queues pointer motion to (x, y) with no button held. This is
// what drives an item in an active mode.
func (c *Composer) InjectMove(x, y float64) {
	c.inject(x, y, false, MouseButtonLeft)
}

// InjectRelease queues a left button release at (x, y).
func (c *Composer) InjectRelease(x, y float64) {
	c.inject(x, y, false, MouseButtonLeft)
}

// InjectClick queues a left press and release at (x, y). Consumes two frames.
func (c *Composer) InjectClick(x, y float64) {
	c.InjectPress(x, y)
	c.InjectRelease(x, y)
}

// InjectRightClick queues a right press and release at (x, y), which opens
// the context menu over an item. Consumes two frames.
func (c *Composer) InjectRightClick(x, y float64) {
	c.inject(x, y, true, MouseButtonRight)
	c.inject(x, y, false, MouseButtonRight)
}

// InjectMotion queues linearly interpolated moves from (fromX, fromY) to
// (toX, toY) over the given number of frames, ending exactly at the target.
func (c *Composer) InjectMotion(fromX, fromY, toX, toY float64, frames int) {
	if frames < 1 {
		frames = 1
	}
	for i := 1; i <= frames; i++ {
		t := float64(i) / float64(frames)
		c.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
}

// PendingInjections returns the number of queued synthetic events.
func (c *Composer) PendingInjections() int { return len(c.injectQueue) }

// processInjectedInput pops one event from the inject queue and feeds it
// through processPointer. Returns true if an event was consumed.
func (c *Composer) processInjectedInput() bool {
	if len(c.injectQueue) == 0 {
		return false
	}
	evt := c.injectQueue[0]
	copy(c.injectQueue, c.injectQueue[1:])
	c.injectQueue = c.injectQueue[:len(c.injectQueue)-1]

	c.processPointer(evt.x, evt.y, evt.pressed, evt.button)
	return true
}
