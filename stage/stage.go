// Package stage renders a tableau composer with Ebitengine. Stage is the
// tableau.Surface the composer draws onto; Game wires it to a window with
// ebitenui controls.
package stage

import (
	"bytes"
	"image"
	"image/color"
	"log"
	"math"
	"os"
	"sort"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/phanxgames/tableau"
)

const alertDuration = 4 * time.Second

var (
	menuColor      = color.RGBA{30, 30, 36, 235}
	menuHoverColor = color.RGBA{70, 90, 140, 255}
	bannerColor    = color.RGBA{150, 30, 30, 230}
	outlineColor   = color.RGBA{255, 210, 80, 255}
)

// shown is one displayed item.
type shown struct {
	id        tableau.ItemID
	asset     *tableau.ImageAsset
	img       *ebiten.Image
	placement tableau.Placement
}

// Stage is a tableau.Surface backed by ebiten images. It also implements
// tableau.Alerter as an on-screen banner and tableau.Screenshotter.
type Stage struct {
	width, height int

	items   map[tableau.ItemID]*shown
	order   []*shown
	dirty   bool
	decoded map[*tableau.ImageAsset]*ebiten.Image

	bgAsset *tableau.ImageAsset
	bgImg   *ebiten.Image
	bgStyle tableau.BackgroundStyle

	alert      string
	alertUntil time.Time
	now        func() time.Time

	// ClearColor fills the canvas behind the background.
	ClearColor color.Color
	// ScreenshotDir is where Screenshot writes PNG files.
	ScreenshotDir   string
	screenshotQueue []string

	log *log.Logger
}

// New returns a stage with the given canvas size in pixels.
func New(width, height int) *Stage {
	return &Stage{
		width:         width,
		height:        height,
		items:         make(map[tableau.ItemID]*shown),
		decoded:       make(map[*tableau.ImageAsset]*ebiten.Image),
		now:           time.Now,
		ClearColor:    color.RGBA{24, 26, 32, 255},
		ScreenshotDir: "screenshots",
		log:           log.New(os.Stderr, "[stage] ", log.LstdFlags),
	}
}

// SetLogger replaces the stage logger.
func (s *Stage) SetLogger(l *log.Logger) { s.log = l }

// Resize changes the canvas size. Callers re-render items afterwards since
// placements are resolved against the old size.
func (s *Stage) Resize(width, height int) {
	s.width, s.height = width, height
}

// Viewport implements tableau.Surface.
func (s *Stage) Viewport() tableau.Viewport {
	return tableau.Viewport{Width: float64(s.width), Height: float64(s.height)}
}

// Show implements tableau.Surface.
func (s *Stage) Show(id tableau.ItemID, asset *tableau.ImageAsset, p tableau.Placement) {
	img := s.image(asset)
	if img == nil {
		return
	}
	if it, ok := s.items[id]; ok {
		if it.placement.ZIndex != p.ZIndex {
			s.dirty = true
		}
		it.asset, it.img, it.placement = asset, img, p
		return
	}
	it := &shown{id: id, asset: asset, img: img, placement: p}
	s.items[id] = it
	s.order = append(s.order, it)
	s.dirty = true
}

// Hide implements tableau.Surface.
func (s *Stage) Hide(id tableau.ItemID) {
	it, ok := s.items[id]
	if !ok {
		return
	}
	delete(s.items, id)
	for i, o := range s.order {
		if o == it {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.forget(it.asset)
}

// ShowBackground implements tableau.Surface.
func (s *Stage) ShowBackground(asset *tableau.ImageAsset, style tableau.BackgroundStyle) {
	if asset != s.bgAsset {
		old := s.bgAsset
		s.bgAsset = asset
		s.bgImg = s.image(asset)
		s.forget(old)
	}
	s.bgStyle = style.Clone()
}

// HideBackground implements tableau.Surface.
func (s *Stage) HideBackground() {
	old := s.bgAsset
	s.bgAsset, s.bgImg, s.bgStyle = nil, nil, nil
	s.forget(old)
}

// Alert implements tableau.Alerter by showing a banner for a few seconds.
func (s *Stage) Alert(msg string) {
	s.log.Printf("alert: %s", msg)
	s.alert = msg
	s.alertUntil = s.now().Add(alertDuration)
}

// CurrentAlert returns the banner text, or "" once it has expired.
func (s *Stage) CurrentAlert() string {
	if s.alert == "" || !s.now().Before(s.alertUntil) {
		return ""
	}
	return s.alert
}

// image decodes an asset once and caches the result by asset.
func (s *Stage) image(asset *tableau.ImageAsset) *ebiten.Image {
	if asset == nil {
		return nil
	}
	if img, ok := s.decoded[asset]; ok {
		return img
	}
	src, _, err := image.Decode(bytes.NewReader(asset.Data))
	if err != nil {
		s.log.Printf("warning: decode %s: %v", asset.Name, err)
		return nil
	}
	img := ebiten.NewImageFromImage(src)
	s.decoded[asset] = img
	return img
}

// forget drops a decoded image once nothing displays its asset.
func (s *Stage) forget(asset *tableau.ImageAsset) {
	if asset == nil || asset == s.bgAsset {
		return
	}
	for _, it := range s.items {
		if it.asset == asset {
			return
		}
	}
	if img, ok := s.decoded[asset]; ok {
		img.Deallocate()
		delete(s.decoded, asset)
	}
}

// sorted returns the displayed items bottom to top.
func (s *Stage) sorted() []*shown {
	if s.dirty {
		sort.SliceStable(s.order, func(i, j int) bool {
			return s.order[i].placement.ZIndex < s.order[j].placement.ZIndex
		})
		s.dirty = false
	}
	return s.order
}

// --- Drawing ---

// Draw renders the background, the items, the context menu and the alert
// banner. The active item is outlined.
func (s *Stage) Draw(screen *ebiten.Image, menu *tableau.ContextMenu, active tableau.ItemID) {
	screen.Fill(s.ClearColor)
	s.drawBackground(screen)

	var op ebiten.DrawImageOptions
	for _, it := range s.sorted() {
		op.GeoM = placementGeoM(it.placement, it.img.Bounds())
		op.ColorScale.Reset()
		op.ColorScale.ScaleAlpha(float32(it.placement.Opacity))
		op.Filter = ebiten.FilterLinear
		screen.DrawImage(it.img, &op)
		if it.id == active {
			drawOutline(screen, it.placement)
		}
	}

	if menu != nil && menu.IsOpen() {
		drawMenu(screen, menu)
	}
	if msg := s.CurrentAlert(); msg != "" {
		w := screen.Bounds().Dx()
		vector.DrawFilledRect(screen, 0, 0, float32(w), 24, bannerColor, false)
		ebitenutil.DebugPrintAt(screen, msg, 8, 4)
	}
}

func (s *Stage) drawBackground(screen *ebiten.Image) {
	if s.bgImg == nil {
		return
	}
	b := s.bgImg.Bounds()
	tiles := tableau.LayoutBackground(s.bgStyle, s.Viewport(), b.Dx(), b.Dy())
	var op ebiten.DrawImageOptions
	op.Filter = ebiten.FilterLinear
	for _, r := range tiles {
		op.GeoM.Reset()
		op.GeoM.Scale(r.Width/float64(b.Dx()), r.Height/float64(b.Dy()))
		op.GeoM.Translate(r.X, r.Y)
		screen.DrawImage(s.bgImg, &op)
	}
}

// placementGeoM maps image pixels onto the rotated placement box.
func placementGeoM(p tableau.Placement, bounds image.Rectangle) ebiten.GeoM {
	var scale ebiten.GeoM
	if bounds.Dx() > 0 && bounds.Dy() > 0 {
		scale.Scale(p.W/float64(bounds.Dx()), p.H/float64(bounds.Dy()))
	}
	t := p.Matrix()
	var m ebiten.GeoM
	m.SetElement(0, 0, t[0])
	m.SetElement(1, 0, t[1])
	m.SetElement(0, 1, t[2])
	m.SetElement(1, 1, t[3])
	m.SetElement(0, 2, t[4])
	m.SetElement(1, 2, t[5])
	scale.Concat(m)
	return scale
}

func drawOutline(screen *ebiten.Image, p tableau.Placement) {
	t := p.Matrix()
	corners := [4][2]float64{{0, 0}, {p.W, 0}, {p.W, p.H}, {0, p.H}}
	var pts [4][2]float32
	for i, c := range corners {
		pts[i][0] = float32(t[0]*c[0] + t[2]*c[1] + t[4])
		pts[i][1] = float32(t[1]*c[0] + t[3]*c[1] + t[5])
	}
	for i := range pts {
		a, b := pts[i], pts[(i+1)%4]
		vector.StrokeLine(screen, a[0], a[1], b[0], b[1], 2, outlineColor, true)
	}
}

func drawMenu(screen *ebiten.Image, menu *tableau.ContextMenu) {
	b := menu.Bounds()
	vector.DrawFilledRect(screen, float32(b.X), float32(b.Y), float32(b.Width), float32(b.Height), menuColor, false)
	hover := menu.Hovered()
	for i, e := range menu.Entries() {
		r := menu.EntryRect(i)
		if i == hover {
			vector.DrawFilledRect(screen, float32(r.X), float32(r.Y), float32(r.Width), float32(r.Height), menuHoverColor, false)
		}
		ebitenutil.DebugPrintAt(screen, e.Label, int(r.X)+8, int(r.Y)+int(math.Round((r.Height-16)/2)))
	}
}
