package tableau

// Context menu entry geometry, in surface pixels.
const (
	MenuEntryWidth  = 96
	MenuEntryHeight = 28
)

// MenuEntry is one mode choice in the context menu.
type MenuEntry struct {
	Label string
	Mode  Mode
}

var menuEntries = []MenuEntry{
	{Label: "Move", Mode: ModeMove},
	{Label: "Resize", Mode: ModeResize},
	{Label: "Rotate", Mode: ModeRotate},
}

// ContextMenu is the single mode menu shared by every item. Opening it on
// another item retargets it.
type ContextMenu struct {
	open   bool
	target ItemID
	x, y   float64
	hover  int
}

// Open shows the menu for target with its top-left corner at (x, y).
// An already open menu is retargeted and moved.
func (m *ContextMenu) Open(target ItemID, x, y float64) {
	if m.open {
		m.Retarget(target)
	} else {
		m.open = true
		m.target = target
	}
	m.x, m.y = x, y
	m.hover = -1
}

// Retarget points an open menu at another item without moving it.
func (m *ContextMenu) Retarget(target ItemID) {
	if m.open {
		m.target = target
	}
}

// Close hides the menu.
func (m *ContextMenu) Close() {
	m.open = false
	m.target = 0
	m.hover = -1
}

// IsOpen reports whether the menu is shown.
func (m *ContextMenu) IsOpen() bool { return m.open }

// Target returns the item the menu acts on, or zero when closed.
func (m *ContextMenu) Target() ItemID { return m.target }

// Position returns the top-left corner of the menu.
func (m *ContextMenu) Position() (float64, float64) { return m.x, m.y }

// Entries returns the menu entries in display order.
func (m *ContextMenu) Entries() []MenuEntry { return menuEntries }

// EntryRect returns the bounds of entry i.
func (m *ContextMenu) EntryRect(i int) Rect {
	return Rect{
		X:      m.x,
		Y:      m.y + float64(i*MenuEntryHeight),
		Width:  MenuEntryWidth,
		Height: MenuEntryHeight,
	}
}

// Bounds returns the bounds of the whole menu.
func (m *ContextMenu) Bounds() Rect {
	return Rect{X: m.x, Y: m.y, Width: MenuEntryWidth, Height: float64(len(menuEntries) * MenuEntryHeight)}
}

// EntryAt returns the index of the entry under (x, y).
func (m *ContextMenu) EntryAt(x, y float64) (int, bool) {
	if !m.open {
		return -1, false
	}
	for i := range menuEntries {
		r := m.EntryRect(i)
		// Half-open so adjacent entries never overlap.
		if x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height {
			return i, true
		}
	}
	return -1, false
}

// Hovered returns the entry under the pointer, or -1.
func (m *ContextMenu) Hovered() int {
	if !m.open {
		return -1
	}
	return m.hover
}

func (m *ContextMenu) setHover(x, y float64) {
	i, _ := m.EntryAt(x, y)
	m.hover = i
}
