package tableau

import "testing"

func TestContextMenuOpenClose(t *testing.T) {
	var m ContextMenu
	if m.IsOpen() || m.Hovered() != -1 {
		t.Fatal("zero menu should be closed with no hover")
	}
	m.Open(3, 10, 20)
	if !m.IsOpen() || m.Target() != 3 {
		t.Fatalf("open=%v target=%d", m.IsOpen(), m.Target())
	}
	if x, y := m.Position(); x != 10 || y != 20 {
		t.Errorf("position = %v,%v", x, y)
	}
	m.Close()
	if m.IsOpen() || m.Target() != 0 {
		t.Error("menu not closed")
	}
}

func TestContextMenuRetarget(t *testing.T) {
	var m ContextMenu
	m.Retarget(5)
	if m.Target() != 0 {
		t.Error("closed menu should ignore Retarget")
	}
	m.Open(1, 0, 0)
	m.Retarget(2)
	if m.Target() != 2 {
		t.Errorf("target = %d, want 2", m.Target())
	}
}

func TestContextMenuEntryAt(t *testing.T) {
	var m ContextMenu
	if _, ok := m.EntryAt(1, 1); ok {
		t.Error("closed menu has no entries under the pointer")
	}
	m.Open(1, 100, 100)
	tests := []struct {
		x, y float64
		want int
		ok   bool
	}{
		{100, 100, 0, true},
		{195, 127, 0, true},
		{150, 128, 1, true}, // boundary belongs to the lower entry
		{150, 170, 2, true},
		{150, 184, -1, false},
		{196, 110, -1, false},
		{99, 110, -1, false},
	}
	for _, tt := range tests {
		got, ok := m.EntryAt(tt.x, tt.y)
		if got != tt.want || ok != tt.ok {
			t.Errorf("EntryAt(%v, %v) = %d, %v; want %d, %v", tt.x, tt.y, got, ok, tt.want, tt.ok)
		}
	}
	if len(m.Entries()) != 3 || m.Entries()[2].Mode != ModeRotate {
		t.Errorf("entries = %v", m.Entries())
	}
	b := m.Bounds()
	if b.Height != 3*MenuEntryHeight || !b.Contains(150, 150) {
		t.Errorf("bounds = %+v", b)
	}
}

func TestContextMenuHover(t *testing.T) {
	var m ContextMenu
	m.Open(1, 0, 0)
	m.setHover(10, 40)
	if m.Hovered() != 1 {
		t.Errorf("hovered = %d, want 1", m.Hovered())
	}
	m.setHover(500, 500)
	if m.Hovered() != -1 {
		t.Errorf("hovered = %d, want -1", m.Hovered())
	}
}
