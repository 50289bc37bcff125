package tableau

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"
)

// flush runs frames until every injected event has been processed.
func (r *testRig) flush() {
	for i := 0; i < 100 && r.c.PendingInjections() > 0; i++ {
		r.c.Step(1.0/60, nil)
	}
}

func (r *testRig) addItem(t *testing.T, name string, c color.NRGBA) ItemID {
	t.Helper()
	id, err := r.c.AddItem(NewImageAsset(name, makeColorPNG(t, c)))
	if err != nil {
		t.Fatalf("AddItem(%s): %v", name, err)
	}
	return id
}

// gatedFiles serves in-memory files, each blocked until released.
type gatedFiles struct {
	mu    sync.Mutex
	data  map[string][]byte
	gates map[string]chan struct{}
}

func newGatedFiles(data map[string][]byte) *gatedFiles {
	g := &gatedFiles{data: data, gates: make(map[string]chan struct{})}
	for name := range data {
		g.gates[name] = make(chan struct{})
	}
	return g
}

func (g *gatedFiles) release(name string) { close(g.gates[name]) }

func (g *gatedFiles) ReadFile(ctx context.Context, path string) ([]byte, error) {
	g.mu.Lock()
	gate, ok := g.gates[path]
	g.mu.Unlock()
	if !ok {
		return nil, os.ErrNotExist
	}
	select {
	case <-gate:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return g.data[path], nil
}

func TestNewRequiresSurface(t *testing.T) {
	if _, err := New(Options{}); !errors.Is(err, ErrNoSurface) {
		t.Errorf("err = %v, want ErrNoSurface", err)
	}
}

func TestNewUsesConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Islands = []string{"coral-island", "tidal-island"}
	cfg.Container = "#scene"
	c, err := New(Options{Surface: NewMemorySurface(10, 10), Config: &cfg, Logger: log.New(&bytes.Buffer{}, "", 0)})
	if err != nil {
		t.Fatal(err)
	}
	if c.Scene().Island() != IslandCoral {
		t.Errorf("island = %v, want coral", c.Scene().Island())
	}
	if c.Scene().Container() != "#scene" {
		t.Errorf("container = %q", c.Scene().Container())
	}
}

func TestComposerAddItemShows(t *testing.T) {
	r := newRig(t, nil)
	var lists [][]string
	r.c.OnItemsChanged(func(ids []string) { lists = append(lists, ids) })

	id := r.addItem(t, "Palm Tree.png", color.NRGBA{G: 100, A: 255})
	shown, ok := r.surface.Items[id]
	if !ok {
		t.Fatal("item not on surface")
	}
	assertNear(t, "x", shown.Placement.X, 100)
	assertNear(t, "w", shown.Placement.W, 200)
	if it, ok := r.c.ItemByIdentifier("palm_tree.png"); !ok || it.ID() != id {
		t.Error("item not found by formatted identifier")
	}
	if len(lists) != 1 || !reflect.DeepEqual(lists[0], []string{"palm_tree.png"}) {
		t.Errorf("items changed = %v", lists)
	}
}

func TestComposerAddItemInvalidExtension(t *testing.T) {
	r := newRig(t, nil)
	_, err := r.c.AddItem(&ImageAsset{Name: "Photo 1.GIF", Data: []byte{1}})
	if !errors.Is(err, ErrInvalidExtension) {
		t.Fatalf("err = %v", err)
	}
	if len(r.alerts.msgs) != 1 || r.alerts.msgs[0] != alertInvalidExtension {
		t.Errorf("alerts = %v", r.alerts.msgs)
	}
	if r.c.Scene().Len() != 0 {
		t.Error("invalid item stored")
	}
}

func TestComposerMenuMoveFlow(t *testing.T) {
	r := newRig(t, nil)
	id := r.addItem(t, "boat.png", color.NRGBA{R: 50, A: 255})

	r.c.InjectRightClick(150, 150)
	r.flush()
	if !r.c.Menu().IsOpen() || r.c.Menu().Target() != id {
		t.Fatalf("menu open=%v target=%d", r.c.Menu().IsOpen(), r.c.Menu().Target())
	}

	// First entry is Move.
	r.c.InjectClick(160, 160)
	r.flush()
	if r.c.Menu().IsOpen() {
		t.Error("menu should close after choosing a mode")
	}
	it, _ := r.c.Item(id)
	if it.Mode() != ModeMove || r.c.Active() != id {
		t.Fatalf("mode = %v active = %d", it.Mode(), r.c.Active())
	}
	assertNear(t, "editing opacity", r.surface.Items[id].Placement.Opacity, 0.7)

	r.c.InjectMove(560, 560)
	r.flush()
	d, _ := r.c.Scene().Item(id)
	if d.Transform.Position.Anchor != CornerBottomRight {
		t.Fatalf("anchor = %v", d.Transform.Position.Anchor)
	}
	assertNear(t, "right", d.Transform.Position.Horizontal, 30)
	assertNear(t, "bottom", d.Transform.Position.Vertical, 15)
	assertNear(t, "shown x", r.surface.Items[id].Placement.X, 500)

	// A press with no menu entry under it ends the manipulation.
	r.c.InjectPress(560, 560)
	r.flush()
	if it.Mode() != ModeIdle || r.c.Active() != 0 {
		t.Errorf("mode = %v active = %d after press", it.Mode(), r.c.Active())
	}
	assertNear(t, "restored opacity", r.surface.Items[id].Placement.Opacity, 1)
}

func TestComposerRightClickEmptyClosesMenu(t *testing.T) {
	r := newRig(t, nil)
	r.addItem(t, "a.png", color.NRGBA{A: 255})
	r.c.InjectRightClick(150, 150)
	r.flush()
	r.c.InjectRightClick(900, 700)
	r.flush()
	if r.c.Menu().IsOpen() {
		t.Error("menu should close on right click off any item")
	}
}

func TestComposerMenuRetargets(t *testing.T) {
	r := newRig(t, nil)
	a := r.addItem(t, "a.png", color.NRGBA{R: 1, A: 255})
	b := r.addItem(t, "b.png", color.NRGBA{R: 2, A: 255})
	_ = r.c.Scene().UpdateItem(b, DefaultTransform().Apply(TransformUpdate{Left: Float(60)}))

	r.c.InjectRightClick(150, 150)
	r.flush()
	r.c.InjectRightClick(650, 150)
	r.flush()
	if r.c.Menu().Target() != b {
		t.Errorf("target = %d, want %d (a=%d)", r.c.Menu().Target(), b, a)
	}
	if x, _ := r.c.Menu().Position(); x != 650 {
		t.Errorf("menu x = %v, want 650", x)
	}
}

func TestComposerHitTestTopmost(t *testing.T) {
	r := newRig(t, nil)
	a := r.addItem(t, "a.png", color.NRGBA{R: 1, A: 255})
	b := r.addItem(t, "b.png", color.NRGBA{R: 2, A: 255})

	if got := r.c.hitTest(150, 150); got != b {
		t.Errorf("equal z: hit %d, want later item %d", got, b)
	}
	tr := DefaultTransform()
	tr.ZIndex = 5
	_ = r.c.Scene().UpdateItem(a, tr)
	if got := r.c.hitTest(150, 150); got != a {
		t.Errorf("raised z: hit %d, want %d", got, a)
	}
	if got := r.c.hitTest(900, 700); got != 0 {
		t.Errorf("empty space hit %d", got)
	}
}

func TestComposerSingleActiveItem(t *testing.T) {
	r := newRig(t, nil)
	a := r.addItem(t, "a.png", color.NRGBA{R: 1, A: 255})
	b := r.addItem(t, "b.png", color.NRGBA{R: 2, A: 255})

	if err := r.c.SelectMode(a, ModeResize, 0, 0); err != nil {
		t.Fatal(err)
	}
	if err := r.c.SelectMode(b, ModeRotate, 0, 0); err != nil {
		t.Fatal(err)
	}
	ia, _ := r.c.Item(a)
	ib, _ := r.c.Item(b)
	if ia.Mode() != ModeIdle || ib.Mode() != ModeRotate || r.c.Active() != b {
		t.Errorf("modes a=%v b=%v active=%d", ia.Mode(), ib.Mode(), r.c.Active())
	}
	if err := r.c.SelectMode(99, ModeMove, 0, 0); !errors.Is(err, ErrUnknownItem) {
		t.Errorf("err = %v", err)
	}
}

func TestComposerCancel(t *testing.T) {
	r := newRig(t, nil)
	a := r.addItem(t, "a.png", color.NRGBA{R: 1, A: 255})
	if err := r.c.SelectMode(a, ModeMove, 0, 0); err != nil {
		t.Fatal(err)
	}
	r.c.Menu().Open(a, 10, 10)

	r.c.Cancel()
	ia, _ := r.c.Item(a)
	if ia.Mode() != ModeIdle || r.c.Active() != 0 {
		t.Errorf("mode = %v, active = %d", ia.Mode(), r.c.Active())
	}
	if r.c.Menu().IsOpen() {
		t.Error("menu should be closed")
	}
	if got := r.c.ItemAt(150, 150); got != a {
		t.Errorf("ItemAt = %d, want %d", got, a)
	}
}

func TestComposerRelayout(t *testing.T) {
	r := newRig(t, nil)
	a := r.addItem(t, "a.png", color.NRGBA{R: 1, A: 255})
	assertNear(t, "x", r.surface.Items[a].Placement.X, 100)

	r.surface.Size = Viewport{Width: 500, Height: 400}
	r.c.Relayout()
	assertNear(t, "x after resize", r.surface.Items[a].Placement.X, 50)
	assertNear(t, "w after resize", r.surface.Items[a].Placement.W, 100)
}

func TestComposerDragDeadZone(t *testing.T) {
	r := newRig(t, nil)
	cfg := r.c.Config()
	cfg.DragDeadZone = 5
	r.c.SetConfig(cfg)
	id := r.addItem(t, "a.png", color.NRGBA{A: 255})

	_ = r.c.SelectMode(id, ModeMove, 200, 200)
	r.c.InjectMove(203, 200)
	r.flush()
	d, _ := r.c.Scene().Item(id)
	assertNear(t, "inside dead zone", d.Transform.Position.Horizontal, 10)

	r.c.InjectMove(220, 200)
	r.flush()
	d, _ = r.c.Scene().Item(id)
	assertNear(t, "past dead zone", d.Transform.Position.Horizontal, 12)
}

func TestComposerSceneMessagesReachItems(t *testing.T) {
	r := newRig(t, nil)
	id := r.addItem(t, "a.png", color.NRGBA{A: 255})
	tr := DefaultTransform().Apply(TransformUpdate{Right: Float(0)})
	if err := r.c.Scene().Apply(ItemTransformed{ID: id, Transform: tr}); err != nil {
		t.Fatal(err)
	}
	it, _ := r.c.Item(id)
	if it.Transform() != tr {
		t.Error("live item not updated from scene message")
	}
	assertNear(t, "x", r.surface.Items[id].Placement.X, 800)
}

func TestComposerDeleteSelected(t *testing.T) {
	r := newRig(t, nil)
	r.addItem(t, "a.png", color.NRGBA{R: 1, A: 255})
	b := r.addItem(t, "b.png", color.NRGBA{R: 2, A: 255})
	_ = r.c.SelectMode(b, ModeMove, 0, 0)

	if err := r.c.DeleteSelected(); !errors.Is(err, ErrUnknownItem) {
		t.Errorf("nothing selected: err = %v", err)
	}
	if !r.c.SelectItem("b.png") {
		t.Fatal("SelectItem failed")
	}
	if err := r.c.DeleteSelected(); err != nil {
		t.Fatal(err)
	}
	if _, ok := r.surface.Items[b]; ok {
		t.Error("deleted item still shown")
	}
	if r.c.Active() != 0 || r.c.Selected() != "" {
		t.Errorf("active=%d selected=%q after delete", r.c.Active(), r.c.Selected())
	}
	if got := r.c.Identifiers(); !reflect.DeepEqual(got, []string{"a.png"}) {
		t.Errorf("identifiers = %v", got)
	}
	if err := r.c.DeleteItem("b.png"); !errors.Is(err, ErrUnknownItem) {
		t.Errorf("second delete err = %v", err)
	}
}

func TestComposerBackground(t *testing.T) {
	r := newRig(t, nil)
	bg := NewImageAsset("Sea View.JPG", makePNG(t, 20, 10))
	if err := r.c.SetBackground(bg, nil); err != nil {
		t.Fatal(err)
	}
	if r.surface.Background == nil || r.surface.Background.Name != "sea_view.jpg" {
		t.Fatalf("background = %+v", r.surface.Background)
	}
	if err := r.c.SetBackgroundStyle(StyleRepeat, "round"); err != nil {
		t.Fatal(err)
	}
	if err := r.c.SetBackgroundAxis(StyleSize, "x", 120); err != nil {
		t.Fatal(err)
	}
	if got := r.surface.BackgroundStyle[StyleRepeat]; got != "round" {
		t.Errorf("surface repeat = %q", got)
	}
	if got := r.surface.BackgroundStyle.Resolved(StyleSize); got != "120% 50%" {
		t.Errorf("surface size = %q", got)
	}
	if err := r.c.SetBackgroundStyle(StyleSize, "huge"); !errors.Is(err, ErrInvalidStyle) {
		t.Errorf("err = %v", err)
	}

	r.c.ClearBackground()
	if r.surface.Background != nil {
		t.Error("background still shown")
	}
}

func TestComposerAddItemFilesOrder(t *testing.T) {
	files := newGatedFiles(map[string][]byte{
		"/in/a.png": makeColorPNG(t, color.NRGBA{R: 1, A: 255}),
		"/in/b.png": makeColorPNG(t, color.NRGBA{R: 2, A: 255}),
		"/in/c.png": makeColorPNG(t, color.NRGBA{R: 3, A: 255}),
	})
	r := newRig(t, files)
	if err := r.c.AddItemFiles(testContext(t), []string{"/in/a.png", "/in/b.png", "/in/c.png"}); err != nil {
		t.Fatal(err)
	}

	files.release("/in/c.png")
	files.release("/in/b.png")
	r.frames(3)
	if r.c.Scene().Len() != 0 {
		t.Fatalf("items applied before the first read finished: %v", r.c.Identifiers())
	}
	if r.c.Pending() != 3 {
		t.Errorf("pending = %d, want 3", r.c.Pending())
	}

	files.release("/in/a.png")
	if err := r.c.Wait(testContext(t)); err != nil {
		t.Fatal(err)
	}
	want := []string{"a.png", "b.png", "c.png"}
	if got := r.c.Identifiers(); !reflect.DeepEqual(got, want) {
		t.Errorf("identifiers = %v, want %v", got, want)
	}
}

func TestComposerAddItemFilesSkipsInvalid(t *testing.T) {
	img := makePNG(t, 2, 2)
	files := FileReaderFunc(func(ctx context.Context, path string) ([]byte, error) {
		if strings.Contains(path, "missing") {
			return nil, os.ErrNotExist
		}
		return img, nil
	})
	r := newRig(t, files)
	err := r.c.AddItemFiles(testContext(t), []string{"clip.gif", "ok.png", "missing.png"})
	if !errors.Is(err, ErrInvalidExtension) {
		t.Errorf("err = %v", err)
	}
	if err := r.c.Wait(testContext(t)); err != nil {
		t.Fatal(err)
	}
	if got := r.c.Identifiers(); !reflect.DeepEqual(got, []string{"ok.png"}) {
		t.Errorf("identifiers = %v", got)
	}
	if len(r.alerts.msgs) != 2 || r.alerts.msgs[0] != alertInvalidExtension ||
		!strings.HasPrefix(r.alerts.msgs[1], alertReadFailed) {
		t.Errorf("alerts = %q", r.alerts.msgs)
	}
}

func TestComposerBackgroundFileNewestWins(t *testing.T) {
	files := newGatedFiles(map[string][]byte{
		"old.png": makeColorPNG(t, color.NRGBA{R: 1, A: 255}),
		"new.png": makeColorPNG(t, color.NRGBA{R: 2, A: 255}),
	})
	r := newRig(t, files)
	ctx := testContext(t)
	_ = r.c.SetBackgroundFile(ctx, "old.png")
	_ = r.c.SetBackgroundFile(ctx, "new.png")

	files.release("new.png")
	files.release("old.png")
	if err := r.c.Wait(ctx); err != nil {
		t.Fatal(err)
	}
	if bg := r.c.Scene().Background(); bg == nil || bg.Name != "new.png" {
		t.Errorf("background = %+v, want new.png", bg)
	}
}

func TestComposerExportRequiresName(t *testing.T) {
	r := newRig(t, nil)
	var buf bytes.Buffer
	if err := r.c.Export(testContext(t), &buf); !errors.Is(err, ErrSceneNameRequired) {
		t.Errorf("err = %v", err)
	}
	if _, err := r.c.ExportFile(testContext(t), t.TempDir()); !errors.Is(err, ErrSceneNameRequired) {
		t.Errorf("ExportFile err = %v", err)
	}
	if len(r.alerts.msgs) != 2 || r.alerts.msgs[0] != alertNameRequired {
		t.Errorf("alerts = %q", r.alerts.msgs)
	}
}

func TestComposerExportImport(t *testing.T) {
	src := newRig(t, nil)
	src.c.SetSceneName("Lagoon")
	_ = src.c.SetIsland(IslandOceanic)
	_ = src.c.SetBackground(NewImageAsset("sky.png", makePNG(t, 8, 4)), nil)
	a := src.addItem(t, "a.png", color.NRGBA{R: 1, A: 255})
	src.addItem(t, "b.png", color.NRGBA{R: 2, A: 255})
	_ = src.c.Scene().UpdateItem(a, DefaultTransform().Apply(TransformUpdate{Rotation: Float(30)}))

	var buf bytes.Buffer
	if err := src.c.Export(testContext(t), &buf); err != nil {
		t.Fatal(err)
	}

	dst := newRig(t, nil)
	dst.addItem(t, "stale.png", color.NRGBA{B: 1, A: 255})
	warnings, err := dst.c.Import(readerAt(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v", warnings)
	}
	if got := dst.c.Identifiers(); !reflect.DeepEqual(got, []string{"a.png", "b.png"}) {
		t.Errorf("identifiers = %v", got)
	}
	if len(dst.surface.Items) != 2 {
		t.Errorf("surface items = %d, want 2", len(dst.surface.Items))
	}
	if dst.surface.Background == nil || dst.c.Scene().Name() != "lagoon" || dst.c.Scene().Island() != IslandOceanic {
		t.Error("scene metadata not imported")
	}
	it, _ := dst.c.ItemByIdentifier("a.png")
	assertNear(t, "rotation", it.Transform().Rotation, 30)
}

func TestComposerImportFailureKeepsScene(t *testing.T) {
	r := newRig(t, nil)
	r.addItem(t, "keep.png", color.NRGBA{A: 255})
	_, err := r.c.Import(readerAt([]byte("not a zip")))
	if err == nil {
		t.Fatal("expected error")
	}
	if r.c.Scene().Len() != 1 {
		t.Error("failed import changed the scene")
	}
	if len(r.alerts.msgs) != 1 || !strings.HasPrefix(r.alerts.msgs[0], alertLoadFailed) {
		t.Errorf("alerts = %q", r.alerts.msgs)
	}
}

func TestComposerImportWarningsLogged(t *testing.T) {
	r := newRig(t, nil)
	data := packEntries(t,
		Entry{Name: "x.json", Data: []byte(`{"sceneName":"x","items":[{"identifier":"gone.png"}]}`)},
	)
	warnings, err := r.c.Import(readerAt(data))
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 1 {
		t.Fatalf("warnings = %v", warnings)
	}
	if r.countLog("warning: import") != 1 {
		t.Errorf("log = %q", r.logs.String())
	}
}

func TestComposerExportFileAndImportFile(t *testing.T) {
	dir := t.TempDir()
	src := newRig(t, nil)
	src.c.SetSceneName("Dock")
	src.addItem(t, "crate.png", color.NRGBA{R: 9, A: 255})

	path, err := src.c.ExportFile(testContext(t), dir)
	if err != nil {
		t.Fatal(err)
	}
	if path != filepath.Join(dir, "dock.zip") {
		t.Errorf("path = %q", path)
	}
	// Edits after the call do not reach the file.
	src.addItem(t, "late.png", color.NRGBA{G: 9, A: 255})
	if err := src.c.Wait(testContext(t)); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("archive not written: %v", err)
	}

	dst := newRig(t, nil)
	dst.c.ImportFile(testContext(t), path)
	if err := dst.c.Wait(testContext(t)); err != nil {
		t.Fatal(err)
	}
	if got := dst.c.Identifiers(); !reflect.DeepEqual(got, []string{"crate.png"}) {
		t.Errorf("identifiers = %v", got)
	}
}

func TestComposerExportDoesNotDropImport(t *testing.T) {
	dir := t.TempDir()
	src := newRig(t, nil)
	src.c.SetSceneName("Dock")
	src.addItem(t, "crate.png", color.NRGBA{R: 9, A: 255})
	path, err := src.c.ExportFile(testContext(t), dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := src.c.Wait(testContext(t)); err != nil {
		t.Fatal(err)
	}

	r := newRig(t, nil)
	r.c.SetSceneName("Other")
	r.addItem(t, "mine.png", color.NRGBA{B: 9, A: 255})
	r.c.ImportFile(testContext(t), path)
	out := t.TempDir()
	saved, err := r.c.ExportFile(testContext(t), out)
	if err != nil {
		t.Fatal(err)
	}
	if err := r.c.Wait(testContext(t)); err != nil {
		t.Fatal(err)
	}
	if r.c.Scene().Name() != "dock" {
		t.Errorf("name = %q, want dock", r.c.Scene().Name())
	}
	if got := r.c.Identifiers(); !reflect.DeepEqual(got, []string{"crate.png"}) {
		t.Errorf("identifiers = %v", got)
	}
	if _, err := os.Stat(saved); err != nil {
		t.Errorf("export not written: %v", err)
	}
}

func TestComposerExportFileStaysInDir(t *testing.T) {
	dir := t.TempDir()
	r := newRig(t, nil)
	r.c.SetSceneName("../escaped")
	r.addItem(t, "a.png", color.NRGBA{A: 255})
	target, err := r.c.ExportFile(testContext(t), dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := r.c.Wait(testContext(t)); err != nil {
		t.Fatal(err)
	}
	if filepath.Dir(target) != dir {
		t.Errorf("target %q is outside %q", target, dir)
	}
	if _, err := os.Stat(target); err != nil {
		t.Errorf("archive not written: %v", err)
	}
}

func TestComposerImportFileMissing(t *testing.T) {
	r := newRig(t, nil)
	r.c.ImportFile(testContext(t), filepath.Join(t.TempDir(), "nope.zip"))
	if err := r.c.Wait(testContext(t)); err != nil {
		t.Fatal(err)
	}
	if len(r.alerts.msgs) != 1 || !strings.HasPrefix(r.alerts.msgs[0], alertLoadFailed) {
		t.Errorf("alerts = %q", r.alerts.msgs)
	}
}

func TestComposerPointerCallbacks(t *testing.T) {
	r := newRig(t, nil)
	id := r.addItem(t, "a.png", color.NRGBA{A: 255})

	var events []string
	r.c.OnPointerEnter(func(p PointerContext) { events = append(events, "enter") })
	r.c.OnPointerLeave(func(p PointerContext) { events = append(events, "leave") })
	h := r.c.OnClick(func(p PointerContext) {
		if p.Target != id {
			t.Errorf("click target = %d", p.Target)
		}
		events = append(events, "click")
	})

	r.c.InjectMove(150, 150)
	r.c.InjectClick(150, 150)
	r.c.InjectMove(900, 700)
	r.flush()
	want := []string{"enter", "click", "leave"}
	if !reflect.DeepEqual(events, want) {
		t.Errorf("events = %v, want %v", events, want)
	}

	h.Remove()
	events = nil
	r.c.InjectClick(150, 150)
	r.flush()
	if !reflect.DeepEqual(events, []string{"enter"}) {
		t.Errorf("events after Remove = %v", events)
	}
}

func TestComposerRealSample(t *testing.T) {
	r := newRig(t, nil)
	id := r.addItem(t, "a.png", color.NRGBA{A: 255})
	r.c.Step(1.0/60, &PointerSample{X: 150, Y: 150, Right: true})
	r.c.Step(1.0/60, &PointerSample{X: 150, Y: 150})
	if r.c.Menu().Target() != id {
		t.Errorf("menu target = %d, want %d", r.c.Menu().Target(), id)
	}
}
