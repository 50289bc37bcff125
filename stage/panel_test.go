package stage

import (
	"testing"

	"github.com/phanxgames/tableau"
)

func TestNextOption(t *testing.T) {
	opts := tableau.StyleOptions[tableau.StyleSize]
	tests := []struct {
		cur, want string
	}{
		{"cover", "contain"},
		{"contain", "custom"},
		{"custom", "cover"},
		{"", "cover"},
		{"bogus", "cover"},
	}
	for _, tt := range tests {
		if got := nextOption(opts, tt.cur); got != tt.want {
			t.Errorf("nextOption(%q) = %q, want %q", tt.cur, got, tt.want)
		}
	}
	if got := nextOption(nil, "x"); got != "x" {
		t.Errorf("nextOption(nil) = %q", got)
	}
}

func TestNextIsland(t *testing.T) {
	order := tableau.IslandKinds()
	if got := nextIsland(order, order[0]); got != order[1] {
		t.Errorf("next = %v, want %v", got, order[1])
	}
	if got := nextIsland(order, order[len(order)-1]); got != order[0] {
		t.Errorf("wrap = %v, want %v", got, order[0])
	}
	if got := nextIsland(nil, order[1]); got != order[1] {
		t.Errorf("empty order = %v", got)
	}
}

func TestStyleLabel(t *testing.T) {
	if got := styleLabel(tableau.StyleRepeat, "repeat-x"); got != "repeat: repeat-x" {
		t.Errorf("styleLabel = %q", got)
	}
	if got := styleLabel(tableau.StyleSize, ""); got != "size: -" {
		t.Errorf("styleLabel empty = %q", got)
	}
}
