package stage

import (
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/phanxgames/tableau"
)

const frameDelta = 1.0 / 60

// RunConfig holds window settings for Run.
type RunConfig struct {
	Title         string
	Width, Height int
	// Watcher, if set, hot-reloads the composer config.
	Watcher *tableau.ConfigWatcher
	Actions Actions
}

// Game adapts a Composer and its Stage to ebiten.Game.
type Game struct {
	c       *tableau.Composer
	stage   *Stage
	panel   *panel
	sliders []*slider
	stats   statsOverlay
	watcher *tableau.ConfigWatcher
	cursor  ebiten.CursorShapeType
	width   int
	height  int
}

// NewGame returns a Game for c, which must render onto st.
func NewGame(c *tableau.Composer, st *Stage, cfg RunConfig) (*Game, error) {
	if c == nil || st == nil {
		return nil, errors.New("stage: composer and stage are required")
	}
	if c.Surface() != tableau.Surface(st) {
		return nil, errors.New("stage: composer does not render onto this stage")
	}
	g := &Game{
		c:       c,
		stage:   st,
		panel:   newPanel(c, cfg.Actions, st),
		watcher: cfg.Watcher,
		width:   st.width + PanelWidth,
		height:  st.height,
	}
	g.sliders = axisSliders(float64(st.height))
	g.syncSliders()
	c.Scene().Subscribe(func(msg tableau.Message) {
		switch msg.(type) {
		case tableau.BackgroundChanged, tableau.BackgroundStyled, tableau.SceneReset:
			g.syncSliders()
		}
	})
	return g, nil
}

// Run opens a window and runs c until the window is closed.
func Run(c *tableau.Composer, st *Stage, cfg RunConfig) error {
	g, err := NewGame(c, st, cfg)
	if err != nil {
		return err
	}
	if cfg.Title == "" {
		cfg.Title = "tableau"
	}
	w, h := cfg.Width, cfg.Height
	if w <= 0 || h <= 0 {
		w, h = g.width, g.height
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("stage: run: %w", err)
	}
	return nil
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	g.pollConfig()
	g.panel.ui.Update()

	if !g.panel.typing() {
		switch {
		case inpututil.IsKeyJustPressed(ebiten.KeyDelete):
			_ = g.c.DeleteSelected()
		case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
			g.c.Cancel()
		case inpututil.IsKeyJustPressed(ebiten.KeyF12):
			g.c.Screenshot("manual")
		case inpututil.IsKeyJustPressed(ebiten.KeyF3):
			g.stats.visible = !g.stats.visible
		}
	}
	g.stats.update(frameDelta, ebiten.ActualFPS(), ebiten.ActualTPS(), g.c.Scene().Len(), g.c.Pending())

	sample := SamplePointer()
	if g.handleSliders(sample) || g.overPanel(sample.X) {
		// The canvas sees no pointer while the controls are in use.
		g.c.Step(frameDelta, nil)
		g.setCursor(ebiten.CursorShapeDefault)
		return nil
	}
	g.c.Step(frameDelta, sample)
	g.updateCursor(sample)
	return nil
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	g.stage.Draw(screen, g.c.Menu(), g.c.Active())
	if g.c.Scene().Background() != nil {
		for _, s := range g.sliders {
			s.draw(screen)
		}
	}
	g.stats.draw(screen)
	g.panel.ui.Draw(screen)
	g.stage.flushScreenshots(screen)
}

// Layout implements ebiten.Game. The canvas takes the window minus the panel.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		g.stage.Resize(max(outsideWidth-PanelWidth, 1), outsideHeight)
		g.sliders = axisSliders(float64(outsideHeight))
		g.syncSliders()
		g.c.Relayout()
	}
	return outsideWidth, outsideHeight
}

func (g *Game) overPanel(x float64) bool {
	return x >= float64(g.width-PanelWidth)
}

// handleSliders feeds the axis sliders and reports whether the pointer is
// using them.
func (g *Game) handleSliders(p *tableau.PointerSample) bool {
	if g.c.Scene().Background() == nil {
		return false
	}
	using := false
	for _, s := range g.sliders {
		if s.handleInput(p.X, p.Y, p.Left) {
			if err := g.c.SetBackgroundAxis(s.prop, s.axis, s.value); err != nil {
				g.stage.Alert(err.Error())
			}
		}
		using = using || s.active
	}
	return using
}

func (g *Game) syncSliders() {
	style := g.c.Scene().BackgroundStyle()
	for _, s := range g.sliders {
		if !s.active {
			s.value = style.Axis(s.prop, s.axis)
		}
	}
}

func (g *Game) pollConfig() {
	if g.watcher == nil {
		return
	}
	select {
	case cfg, ok := <-g.watcher.Configs:
		if ok {
			g.c.SetConfig(cfg)
			g.stage.log.Printf("config reloaded")
		}
	case err, ok := <-g.watcher.Errors:
		if ok {
			g.stage.log.Printf("warning: config: %v", err)
		}
	default:
	}
}

func (g *Game) updateCursor(p *tableau.PointerSample) {
	hovering := false
	if menu := g.c.Menu(); menu.IsOpen() {
		_, hovering = menu.EntryAt(p.X, p.Y)
	}
	if !hovering {
		hovering = g.c.ItemAt(p.X, p.Y) != 0
	}
	mode := tableau.ModeIdle
	if it, ok := g.c.Item(g.c.Active()); ok {
		mode = it.Mode()
	}
	g.setCursor(cursorFor(mode, hovering))
}

func (g *Game) setCursor(shape ebiten.CursorShapeType) {
	if shape != g.cursor {
		ebiten.SetCursorShape(shape)
		g.cursor = shape
	}
}
