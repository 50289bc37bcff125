package tableau

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

const (
	defaultFadeDuration = 0.12 // seconds
	defaultEditOpacity  = 0.7
)

// fade animates a single opacity value. A nil *fade is a finished fade.
type fade struct {
	tween *gween.Tween
	value float64
	to    float64
	done  bool
}

// newFade starts a fade from one opacity to another over duration seconds.
// A non-positive duration jumps straight to the target.
func newFade(from, to float64, duration float32) *fade {
	if duration <= 0 {
		return &fade{value: to, to: to, done: true}
	}
	return &fade{
		tween: gween.New(float32(from), float32(to), duration, ease.OutQuad),
		value: from,
		to:    to,
	}
}

// update advances the fade by dt seconds and returns the current value.
func (f *fade) update(dt float32) float64 {
	if f.done {
		return f.value
	}
	val, finished := f.tween.Update(dt)
	f.value = float64(val)
	if finished {
		// Snap to the exact target; the tween runs in float32.
		f.value = f.to
		f.done = true
	}
	return f.value
}
