package stage

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

const statsRefresh = 0.5 // seconds

// statsOverlay shows frame rate and composer counters in the top-left
// corner. The text is refreshed about twice a second.
type statsOverlay struct {
	visible bool
	elapsed float64
	text    string
	img     *ebiten.Image
}

// update advances the refresh timer and reports whether the text changed.
func (o *statsOverlay) update(dt float64, fps, tps float64, items, pending int) bool {
	if !o.visible {
		return false
	}
	o.elapsed += dt
	if o.text != "" && o.elapsed < statsRefresh {
		return false
	}
	o.elapsed = 0
	o.text = statsText(fps, tps, items, pending)
	return true
}

func (o *statsOverlay) draw(dst *ebiten.Image) {
	if !o.visible || o.text == "" {
		return
	}
	if o.img == nil {
		// Four lines of the debug font.
		o.img = ebiten.NewImage(120, 64)
	}
	o.img.Clear()
	o.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(o.img, o.text)
	var op ebiten.DrawImageOptions
	op.GeoM.Translate(4, 28)
	dst.DrawImage(o.img, &op)
}

func statsText(fps, tps float64, items, pending int) string {
	return fmt.Sprintf("FPS: %.1f\nTPS: %.1f\nitems: %d\npending: %d", fps, tps, items, pending)
}
