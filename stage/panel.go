package stage

import (
	"bytes"
	"image/color"
	"strings"

	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/phanxgames/tableau"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
)

// PanelWidth is the width of the control panel on the right of the window.
const PanelWidth = 240

// Actions are the panel buttons that need a file picker or a context. Nil
// actions hide their button.
type Actions struct {
	AddItems      func()
	SetBackground func()
	Export        func()
	Import        func()
}

// panel is the ebitenui control column: scene name, island, background
// style and the item list.
type panel struct {
	ui      *ebitenui.UI
	c       *tableau.Composer
	face    *ebtext.Face
	name    *widget.TextInput
	island  *widget.Button
	styles  map[string]*widget.Button
	items   *widget.List
	syncing bool
	entries []any
}

func solidNineSlice(c color.Color) *image.NineSlice {
	return image.NewNineSliceColor(c)
}

func newTheme(face *ebtext.Face) *widget.Theme {
	return &widget.Theme{
		ListTheme: &widget.ListParams{
			EntryFace: face,
			EntryColor: &widget.ListEntryColor{
				Unselected:          color.Black,
				Selected:            color.RGBA{0, 0, 128, 255},
				DisabledUnselected:  color.Gray{Y: 128},
				DisabledSelected:    color.Gray{Y: 64},
				SelectingBackground: color.RGBA{200, 220, 255, 255},
				SelectedBackground:  color.RGBA{180, 200, 255, 255},
			},
			ScrollContainerImage: &widget.ScrollContainerImage{
				Idle: solidNineSlice(color.RGBA{220, 220, 220, 255}),
				Mask: solidNineSlice(color.RGBA{220, 220, 220, 255}),
			},
		},
		PanelTheme: &widget.PanelParams{
			BackgroundImage: solidNineSlice(color.RGBA{40, 40, 40, 255}),
		},
		ButtonTheme: &widget.ButtonParams{
			Image: &widget.ButtonImage{
				Idle:    solidNineSlice(color.RGBA{180, 180, 180, 255}),
				Hover:   solidNineSlice(color.RGBA{200, 200, 200, 255}),
				Pressed: solidNineSlice(color.RGBA{160, 160, 160, 255}),
			},
			TextFace: face,
			TextColor: &widget.ButtonTextColor{
				Idle: color.Black,
			},
		},
	}
}

// panelFace returns Go Regular at 14px, or the basic bitmap face if the
// embedded font cannot be parsed.
func panelFace() ebtext.Face {
	src, err := ebtext.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return ebtext.NewGoXFace(basicfont.Face7x13)
	}
	return &ebtext.GoTextFace{Source: src, Size: 14}
}

func newPanel(c *tableau.Composer, actions Actions, alerts tableau.Alerter) *panel {
	face := panelFace()
	p := &panel{
		ui:     &ebitenui.UI{},
		c:      c,
		face:   &face,
		styles: make(map[string]*widget.Button),
	}
	p.ui.PrimaryTheme = newTheme(p.face)
	theme := p.ui.PrimaryTheme

	col := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(solidNineSlice(color.RGBA{40, 40, 40, 255})),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(8),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 10, Left: 10, Right: 10, Bottom: 10}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(PanelWidth, 400),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionEnd,
				VerticalPosition:   widget.AnchorLayoutPositionStart,
				StretchVertical:    true,
			}),
		),
	)

	col.AddChild(p.label("Scene name"))
	p.name = widget.NewTextInput(
		widget.TextInputOpts.WidgetOpts(widget.WidgetOpts.MinSize(PanelWidth-20, 28)),
		widget.TextInputOpts.Image(&widget.TextInputImage{
			Idle:     solidNineSlice(color.RGBA{245, 245, 245, 255}),
			Disabled: solidNineSlice(color.RGBA{200, 200, 200, 255}),
		}),
		widget.TextInputOpts.Color(&widget.TextInputColor{
			Idle:     color.Black,
			Disabled: color.Gray{Y: 120},
			Caret:    color.Black,
		}),
		widget.TextInputOpts.Face(p.face),
		widget.TextInputOpts.ChangedHandler(func(args *widget.TextInputChangedEventArgs) {
			if !p.syncing {
				c.SetSceneName(args.InputText)
			}
		}),
	)
	col.AddChild(p.name)

	p.island = p.button(theme, islandLabel(c.Scene().Island()), func() {
		next := nextIsland(c.Config().IslandOrder(), c.Scene().Island())
		_ = c.SetIsland(next)
	})
	col.AddChild(p.island)

	col.AddChild(p.label("Background"))
	for _, prop := range tableau.StyleProperties {
		prop := prop
		btn := p.button(theme, styleLabel(prop, c.Scene().BackgroundStyle()[prop]), func() {
			cur := c.Scene().BackgroundStyle()[prop]
			if err := c.SetBackgroundStyle(prop, nextOption(tableau.StyleOptions[prop], cur)); err != nil {
				alerts.Alert(err.Error())
			}
		})
		p.styles[prop] = btn
		col.AddChild(btn)
	}
	if actions.SetBackground != nil {
		col.AddChild(p.button(theme, "Set background...", actions.SetBackground))
	}
	col.AddChild(p.button(theme, "Clear background", c.ClearBackground))

	col.AddChild(p.label("Items"))
	p.items = widget.NewList(
		widget.ListOpts.Entries([]any{}),
		widget.ListOpts.EntryLabelFunc(func(e any) string {
			s, _ := e.(string)
			return s
		}),
		widget.ListOpts.EntrySelectedHandler(func(args *widget.ListEntrySelectedEventArgs) {
			if id, ok := args.Entry.(string); ok && !p.syncing {
				c.SelectItem(id)
			}
		}),
	)
	col.AddChild(p.items)

	row := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewRowLayout(
		widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
		widget.RowLayoutOpts.Spacing(6),
	)))
	if actions.AddItems != nil {
		row.AddChild(p.button(theme, "Add...", actions.AddItems))
	}
	row.AddChild(p.button(theme, "Delete", func() { _ = c.DeleteSelected() }))
	col.AddChild(row)

	row = widget.NewContainer(widget.ContainerOpts.Layout(widget.NewRowLayout(
		widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
		widget.RowLayoutOpts.Spacing(6),
	)))
	if actions.Export != nil {
		row.AddChild(p.button(theme, "Export", actions.Export))
	}
	if actions.Import != nil {
		row.AddChild(p.button(theme, "Import...", actions.Import))
	}
	col.AddChild(row)

	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	root.AddChild(col)
	p.ui.Container = root

	c.OnItemsChanged(p.setItems)
	c.Scene().Subscribe(p.sceneChanged)
	p.setItems(c.Identifiers())
	return p
}

func (p *panel) label(s string) *widget.Label {
	return widget.NewLabel(
		widget.LabelOpts.Text(s, p.face, &widget.LabelColor{Idle: color.White, Disabled: color.Gray{Y: 140}}),
	)
}

func (p *panel) button(theme *widget.Theme, label string, fn func()) *widget.Button {
	return widget.NewButton(
		widget.ButtonOpts.Image(theme.ButtonTheme.Image),
		widget.ButtonOpts.Text(label, p.face, theme.ButtonTheme.TextColor),
		widget.ButtonOpts.ClickedHandler(func(*widget.ButtonClickedEventArgs) { fn() }),
	)
}

// setItems replaces the list entries without firing selection.
func (p *panel) setItems(ids []string) {
	p.syncing = true
	defer func() { p.syncing = false }()
	p.entries = make([]any, len(ids))
	for i, id := range ids {
		p.entries[i] = id
	}
	p.items.SetEntries(p.entries)
	if sel := p.c.Selected(); sel != "" {
		for _, e := range p.entries {
			if e == sel {
				p.items.SetSelectedEntry(e)
			}
		}
	}
}

func (p *panel) sceneChanged(msg tableau.Message) {
	switch m := msg.(type) {
	case tableau.SceneRenamed:
		if p.name.GetText() != m.Name && !p.editingName() {
			p.syncing = true
			p.name.SetText(m.Name)
			p.syncing = false
		}
	case tableau.IslandChanged:
		setLabel(p.island, islandLabel(m.Island))
	case tableau.BackgroundChanged, tableau.BackgroundStyled, tableau.BackgroundCleared, tableau.SceneReset:
		style := p.c.Scene().BackgroundStyle()
		for prop, btn := range p.styles {
			setLabel(btn, styleLabel(prop, style[prop]))
		}
	}
}

func (p *panel) editingName() bool {
	return p.ui.GetFocusedWidget() == p.name
}

// typing reports whether a text input has focus, so hotkeys are suppressed.
func (p *panel) typing() bool {
	_, ok := p.ui.GetFocusedWidget().(*widget.TextInput)
	return ok
}

func setLabel(b *widget.Button, s string) {
	if t := b.Text(); t != nil {
		t.Label = s
	}
}

func islandLabel(k tableau.IslandKind) string {
	return "Island: " + k.String()
}

func styleLabel(prop, value string) string {
	if value == "" {
		value = "-"
	}
	return strings.TrimPrefix(prop, "background-") + ": " + value
}

// nextOption returns the option after cur, wrapping around. An unknown cur
// selects the first option.
func nextOption(opts []string, cur string) string {
	if len(opts) == 0 {
		return cur
	}
	for i, o := range opts {
		if o == cur {
			return opts[(i+1)%len(opts)]
		}
	}
	return opts[0]
}

func nextIsland(order []tableau.IslandKind, cur tableau.IslandKind) tableau.IslandKind {
	if len(order) == 0 {
		return cur
	}
	for i, k := range order {
		if k == cur {
			return order[(i+1)%len(order)]
		}
	}
	return order[0]
}
