package tableau

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // register decoders for DecodeImageSize
	_ "image/png"
	"sort"
)

// Surface is the display collaborator items and backgrounds render onto.
// Show replaces whatever is currently displayed for id.
type Surface interface {
	Viewport() Viewport
	Show(id ItemID, img *ImageAsset, p Placement)
	Hide(id ItemID)
	ShowBackground(img *ImageAsset, style BackgroundStyle)
	HideBackground()
}

// Alerter shows a blocking or prominent message to the user.
type Alerter interface {
	Alert(msg string)
}

// AlertFunc adapts a function to the Alerter interface.
type AlertFunc func(msg string)

// Alert calls f(msg).
func (f AlertFunc) Alert(msg string) { f(msg) }

// ImageAsset is an image file held in memory. Width and Height are the
// natural pixel size and may be zero when unknown.
type ImageAsset struct {
	Name   string
	Data   []byte
	Width  int
	Height int
}

// NewImageAsset builds an asset and reads its natural size from the header.
// Undecodable data is kept with a zero size.
func NewImageAsset(name string, data []byte) *ImageAsset {
	a := &ImageAsset{Name: name, Data: data}
	if w, h, err := DecodeImageSize(data); err == nil {
		a.Width, a.Height = w, h
	}
	return a
}

// Aspect returns width divided by height, or zero when the size is unknown.
func (a *ImageAsset) Aspect() float64 {
	if a == nil || a.Width <= 0 || a.Height <= 0 {
		return 0
	}
	return float64(a.Width) / float64(a.Height)
}

// DecodeImageSize reads the pixel size of a png or jpeg image.
func DecodeImageSize(data []byte) (int, int, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("decode image size: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}

// ShownItem is what a MemorySurface holds for one displayed item.
type ShownItem struct {
	ID        ItemID
	Image     *ImageAsset
	Placement Placement
}

// MemorySurface is a Surface that records what would be displayed.
// It backs headless tools and tests.
type MemorySurface struct {
	Size            Viewport
	Items           map[ItemID]ShownItem
	Background      *ImageAsset
	BackgroundStyle BackgroundStyle
	Shows           int // number of Show calls
}

// NewMemorySurface returns an empty surface with the given viewport size.
func NewMemorySurface(width, height float64) *MemorySurface {
	return &MemorySurface{
		Size:  Viewport{Width: width, Height: height},
		Items: make(map[ItemID]ShownItem),
	}
}

func (m *MemorySurface) Viewport() Viewport { return m.Size }

func (m *MemorySurface) Show(id ItemID, img *ImageAsset, p Placement) {
	m.Items[id] = ShownItem{ID: id, Image: img, Placement: p}
	m.Shows++
}

func (m *MemorySurface) Hide(id ItemID) { delete(m.Items, id) }

func (m *MemorySurface) ShowBackground(img *ImageAsset, style BackgroundStyle) {
	m.Background = img
	m.BackgroundStyle = style.Clone()
}

func (m *MemorySurface) HideBackground() {
	m.Background = nil
	m.BackgroundStyle = nil
}

// Ordered returns the displayed items sorted by z-index, then by ID.
func (m *MemorySurface) Ordered() []ShownItem {
	out := make([]ShownItem, 0, len(m.Items))
	for _, it := range m.Items {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Placement.ZIndex != out[j].Placement.ZIndex {
			return out[i].Placement.ZIndex < out[j].Placement.ZIndex
		}
		return out[i].ID < out[j].ID
	})
	return out
}
