package tableau

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"log"
	"math"
	"strings"
	"testing"
)

const epsilon = 1e-9

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertMatrix(t *testing.T, name string, got, want [6]float64) {
	t.Helper()
	for i := range got {
		if math.Abs(got[i]-want[i]) > epsilon {
			t.Errorf("%s[%d] = %v, want %v (full: %v vs %v)", name, i, got[i], want[i], got, want)
		}
	}
}

// makePNG encodes a solid w x h PNG.
func makePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 200, 100, 50, 255
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// makeColorPNG encodes a 1x1 PNG of the given colour, so images differ by content.
func makeColorPNG(t *testing.T, c color.NRGBA) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img.SetNRGBA(0, 0, c)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

type alertLog struct {
	msgs []string
}

func (a *alertLog) Alert(msg string) { a.msgs = append(a.msgs, msg) }

type testRig struct {
	c       *Composer
	surface *MemorySurface
	alerts  *alertLog
	logs    *bytes.Buffer
}

func newRig(t *testing.T, files FileReader) *testRig {
	t.Helper()
	surface := NewMemorySurface(1000, 800)
	alerts := &alertLog{}
	logs := &bytes.Buffer{}
	cfg := DefaultConfig()
	cfg.FadeDuration = 0
	c, err := New(Options{
		Surface: surface,
		Files:   files,
		Alerter: alerts,
		Logger:  log.New(logs, "", 0),
		Config:  &cfg,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return &testRig{c: c, surface: surface, alerts: alerts, logs: logs}
}

func (r *testRig) countLog(substr string) int {
	return strings.Count(r.logs.String(), substr)
}

// frames runs n frames with no real pointer input.
func (r *testRig) frames(n int) {
	for i := 0; i < n; i++ {
		r.c.Step(1.0/60, nil)
	}
}

// readerAt wraps a byte slice for Import.
func readerAt(b []byte) (io.ReaderAt, int64) {
	return bytes.NewReader(b), int64(len(b))
}
