package tableau

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

// User-facing alert texts.
const (
	alertInvalidExtension = "Invalid file extension. Only jpg and png files are allowed."
	alertNameRequired     = "You must name your scene before downloading data."
	alertLoadFailed       = "Failed to load the zip file: "
	alertSaveFailed       = "Failed to save the zip file: "
	alertReadFailed       = "Failed to read the file: "
)

// ErrNoSurface is returned by New when Options.Surface is nil.
var ErrNoSurface = errors.New("tableau: composer requires a surface")

// FileReader loads files for uploads and archive imports.
type FileReader interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
}

// FileReaderFunc adapts a function to the FileReader interface.
type FileReaderFunc func(ctx context.Context, path string) ([]byte, error)

// ReadFile calls f(ctx, path).
func (f FileReaderFunc) ReadFile(ctx context.Context, path string) ([]byte, error) {
	return f(ctx, path)
}

// OSFiles reads from the local file system.
type OSFiles struct{}

// ReadFile reads path unless ctx is already done.
func (OSFiles) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

// Screenshotter is implemented by surfaces that can capture a frame.
type Screenshotter interface {
	Screenshot(label string)
}

// Options configures a Composer. Only Surface is required.
type Options struct {
	Surface Surface
	Codec   Codec      // defaults to ZipCodec
	Files   FileReader // defaults to OSFiles
	Alerter Alerter    // defaults to logging the message
	Logger  *log.Logger
	Config  *Config // defaults to DefaultConfig
}

// Composer wires pointer input, file operations and archives to one Scene
// and its live items. All methods must be called from one goroutine; file
// and archive work runs in the background and is applied by Update.
type Composer struct {
	scene   *Scene
	items   map[ItemID]*Item
	menu    ContextMenu
	queue   *opQueue
	surface Surface
	codec   Codec
	files   FileReader
	alerter Alerter
	log     *log.Logger
	cfg     Config

	active      ItemID
	activeX     float64
	activeY     float64
	activeMoved bool
	selected    string

	pointer     pointerState
	handlers    handlerRegistry
	hitBuf      []*Item
	injectQueue []syntheticPointerEvent
	testRunner  *TestRunner

	itemsChanged []func([]string)
}

// New creates a Composer with an empty scene.
func New(opts Options) (*Composer, error) {
	if opts.Surface == nil {
		return nil, ErrNoSurface
	}
	c := &Composer{
		scene:   NewScene(),
		items:   make(map[ItemID]*Item),
		queue:   newOpQueue(),
		surface: opts.Surface,
		codec:   opts.Codec,
		files:   opts.Files,
		alerter: opts.Alerter,
		log:     opts.Logger,
		cfg:     DefaultConfig(),
	}
	if opts.Config != nil {
		c.cfg = *opts.Config
	}
	if c.codec == nil {
		c.codec = ZipCodec{}
	}
	if c.files == nil {
		c.files = OSFiles{}
	}
	if c.log == nil {
		c.log = log.New(os.Stderr, "[tableau] ", log.LstdFlags)
	}
	if c.alerter == nil {
		c.alerter = AlertFunc(func(msg string) { c.log.Printf("alert: %s", msg) })
	}
	if kinds := c.cfg.IslandOrder(); len(kinds) > 0 && kinds[0] != c.scene.island {
		_ = c.scene.Apply(IslandChanged{Island: kinds[0]})
	}
	if c.cfg.Container != "" {
		_ = c.scene.Apply(ContainerChanged{Container: c.cfg.Container})
	}
	c.scene.Subscribe(c.project)
	return c, nil
}

// Scene returns the composer's scene. Messages applied to it directly are
// reflected on the surface like any other change.
func (c *Composer) Scene() *Scene { return c.scene }

// Menu returns the context menu state.
func (c *Composer) Menu() *ContextMenu { return &c.menu }

// Surface returns the surface items render onto.
func (c *Composer) Surface() Surface { return c.surface }

// Config returns the current settings.
func (c *Composer) Config() Config { return c.cfg }

// SetConfig replaces the settings. Items added afterwards use the new
// item options; existing items keep theirs.
func (c *Composer) SetConfig(cfg Config) {
	c.cfg = cfg
}

// Item returns the live item with the given ID.
func (c *Composer) Item(id ItemID) (*Item, bool) {
	it, ok := c.items[id]
	return it, ok
}

// ItemByIdentifier returns the live item with the given identifier.
func (c *Composer) ItemByIdentifier(identifier string) (*Item, bool) {
	d, ok := c.scene.Lookup(identifier)
	if !ok {
		return nil, false
	}
	return c.Item(d.ID)
}

// Active returns the item currently in a manipulation mode, or zero.
func (c *Composer) Active() ItemID { return c.active }

// Identifiers returns the item identifiers in scene order.
func (c *Composer) Identifiers() []string { return c.scene.Identifiers() }

// OnItemsChanged registers fn to receive the identifier list whenever an
// item is added or removed.
func (c *Composer) OnItemsChanged(fn func([]string)) {
	c.itemsChanged = append(c.itemsChanged, fn)
}

func (c *Composer) notifyItems() {
	ids := c.scene.Identifiers()
	for _, fn := range c.itemsChanged {
		fn(ids)
	}
}

func (c *Composer) alert(msg string) {
	c.alerter.Alert(msg)
}

// --- Projection of scene messages onto live items ---

func (c *Composer) project(msg Message) {
	switch m := msg.(type) {
	case ItemAdded:
		c.spawn(m.Descriptor)
		c.notifyItems()
	case ItemTransformed:
		if it, ok := c.items[m.ID]; ok && it.Transform() != m.Transform {
			it.SetTransform(m.Transform)
		}
	case ItemDeleted:
		c.despawn(m.ID)
		c.notifyItems()
	case BackgroundChanged:
		c.surface.ShowBackground(m.Image, m.Style)
	case BackgroundStyled:
		if bg := c.scene.Background(); bg != nil {
			c.surface.ShowBackground(bg, m.Style)
		}
	case BackgroundCleared:
		c.surface.HideBackground()
	case SceneReset:
		for id := range c.items {
			c.despawn(id)
		}
		c.surface.HideBackground()
		c.selected = ""
		c.notifyItems()
	}
}

func (c *Composer) spawn(d ItemDescriptor) {
	opts := c.cfg.itemOptions()
	opts.Image = d.Image
	t := d.Transform
	opts.Transform = &t
	opts.LinkedAction = d.LinkedAction
	opts.Container = d.Container

	it := NewItem(d.ID, c.surface, opts)
	if err := it.Render(RenderOptions{Interactive: true, Update: c.itemUpdated}); err != nil {
		c.log.Printf("warning: render %s: %v", d.Identifier, err)
		return
	}
	c.items[d.ID] = it
}

func (c *Composer) despawn(id ItemID) {
	it, ok := c.items[id]
	if !ok {
		return
	}
	it.Remove()
	delete(c.items, id)
	if c.active == id {
		c.active = 0
	}
	if c.menu.Target() == id {
		c.menu.Close()
	}
	if _, ok := c.scene.Lookup(c.selected); !ok {
		c.selected = ""
	}
}

// itemUpdated records a live item's new transform in the scene.
func (c *Composer) itemUpdated(it *Item) {
	if err := c.scene.Apply(ItemTransformed{ID: it.ID(), Transform: it.Transform()}); err != nil {
		c.log.Printf("warning: update item %d: %v", it.ID(), err)
	}
}

// --- Modes ---

// SelectMode activates an item in mode, recording (x, y) as the drag
// origin. Any other active item is deactivated first.
func (c *Composer) SelectMode(id ItemID, mode Mode, x, y float64) error {
	it, ok := c.items[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownItem, id)
	}
	if c.active != 0 && c.active != id {
		c.deactivate()
	}
	it.Activate(mode, x, y)
	if it.Mode() == ModeIdle {
		c.active = 0
		return nil
	}
	c.active = id
	c.activeX, c.activeY = x, y
	c.activeMoved = false
	return nil
}

// Cancel closes the context menu and returns the active item to idle.
func (c *Composer) Cancel() {
	c.menu.Close()
	c.deactivate()
}

func (c *Composer) deactivate() {
	if c.active == 0 {
		return
	}
	if it, ok := c.items[c.active]; ok {
		it.Deactivate()
	}
	c.active = 0
}

// --- Scene metadata ---

// SetSceneName sets the scene name. It is stored formatted.
func (c *Composer) SetSceneName(name string) {
	if err := c.scene.Apply(SceneRenamed{Name: name}); err != nil {
		c.log.Printf("warning: rename scene: %v", err)
	}
}

// SetIsland sets the island kind.
func (c *Composer) SetIsland(k IslandKind) error {
	return c.scene.Apply(IslandChanged{Island: k})
}

// --- Background ---

// SetBackgroundFile reads an image file in the background and makes it the
// scene background. If several are pending, only the newest one applies.
func (c *Composer) SetBackgroundFile(ctx context.Context, path string) error {
	name, err := ValidateImageName(filepath.Base(path))
	if err != nil {
		c.alert(alertInvalidExtension)
		return err
	}
	c.queue.submit(ctx, opBackground, func(ctx context.Context) func() {
		data, err := c.files.ReadFile(ctx, path)
		return func() {
			if err != nil {
				c.log.Printf("background %s: %v", path, err)
				c.alert(alertReadFailed + err.Error())
				return
			}
			if err := c.SetBackground(NewImageAsset(name, data), nil); err != nil {
				c.log.Printf("background %s: %v", path, err)
			}
		}
	})
	return nil
}

// SetBackground makes asset the scene background. A nil style applies the
// configured default style.
func (c *Composer) SetBackground(asset *ImageAsset, style BackgroundStyle) error {
	if asset == nil {
		return fmt.Errorf("background: %w", ErrImageMissing)
	}
	name, err := ValidateImageName(asset.Name)
	if err != nil {
		c.alert(alertInvalidExtension)
		return err
	}
	bg := *asset
	bg.Name = name
	if style == nil {
		style = c.cfg.DefaultStyle()
	}
	return c.scene.Apply(BackgroundChanged{Image: &bg, Style: style})
}

// ClearBackground removes the background and its style.
func (c *Composer) ClearBackground() {
	_ = c.scene.Apply(BackgroundCleared{})
}

// SetBackgroundStyle selects an option for a background property.
func (c *Composer) SetBackgroundStyle(prop, value string) error {
	style := c.scene.BackgroundStyle()
	if err := style.Set(prop, value); err != nil {
		return err
	}
	return c.scene.Apply(BackgroundStyled{Style: style})
}

// SetBackgroundAxis sets one custom axis of a background size or position.
func (c *Composer) SetBackgroundAxis(prop, axis string, value float64) error {
	style := c.scene.BackgroundStyle()
	if err := style.SetAxis(prop, axis, value); err != nil {
		return err
	}
	return c.scene.Apply(BackgroundStyled{Style: style})
}

// --- Items ---

// AddItemFiles reads image files in the background and adds them as items
// in the order given, regardless of the order the reads finish. Files with
// an invalid extension are reported and skipped.
func (c *Composer) AddItemFiles(ctx context.Context, paths []string) error {
	var firstErr error
	for _, path := range paths {
		name, err := ValidateImageName(filepath.Base(path))
		if err != nil {
			c.alert(alertInvalidExtension)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		c.queue.submit(ctx, opItem, func(ctx context.Context) func() {
			data, err := c.files.ReadFile(ctx, path)
			return func() {
				if err != nil {
					c.log.Printf("item %s: %v", path, err)
					c.alert(alertReadFailed + err.Error())
					return
				}
				if _, err := c.AddItem(NewImageAsset(name, data)); err != nil {
					c.log.Printf("item %s: %v", path, err)
				}
			}
		})
	}
	return firstErr
}

// AddItem adds an image as a new item with the default transform.
func (c *Composer) AddItem(asset *ImageAsset) (ItemID, error) {
	if asset == nil {
		return 0, fmt.Errorf("item: %w", ErrImageMissing)
	}
	name, err := ValidateImageName(asset.Name)
	if err != nil {
		c.alert(alertInvalidExtension)
		return 0, err
	}
	img := *asset
	img.Name = name
	d, err := c.scene.AddItem(ItemDescriptor{
		Identifier: name,
		Image:      &img,
		Transform:  DefaultTransform(),
		Container:  c.cfg.Container,
	})
	if err != nil {
		return 0, err
	}
	return d.ID, nil
}

// SelectItem marks the item with the given identifier for deletion.
func (c *Composer) SelectItem(identifier string) bool {
	if _, ok := c.scene.Lookup(identifier); !ok {
		return false
	}
	c.selected = identifier
	return true
}

// Selected returns the identifier of the selected item, or "".
func (c *Composer) Selected() string { return c.selected }

// DeleteSelected deletes the selected item.
func (c *Composer) DeleteSelected() error {
	if c.selected == "" {
		return fmt.Errorf("%w: nothing selected", ErrUnknownItem)
	}
	return c.DeleteItem(c.selected)
}

// DeleteItem deletes the item with the given identifier.
func (c *Composer) DeleteItem(identifier string) error {
	d, ok := c.scene.Lookup(identifier)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownItem, identifier)
	}
	return c.scene.Apply(ItemDeleted{ID: d.ID})
}

// --- Archives ---

// Export writes the scene archive to w.
func (c *Composer) Export(ctx context.Context, w io.Writer) error {
	if c.scene.Name() == "" {
		c.alert(alertNameRequired)
		return ErrSceneNameRequired
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := Export(w, c.scene, c.codec); err != nil {
		c.alert(alertSaveFailed + err.Error())
		return err
	}
	return nil
}

// ExportFile writes the scene archive into dir in the background and
// returns the path it will be written to. A snapshot of the scene is taken
// immediately, so later edits do not leak into the file.
func (c *Composer) ExportFile(ctx context.Context, dir string) (string, error) {
	if c.scene.Name() == "" {
		c.alert(alertNameRequired)
		return "", ErrSceneNameRequired
	}
	snap := c.scene.Clone()
	if _, err := exportEntries(snap); err != nil {
		c.alert(alertSaveFailed + err.Error())
		return "", err
	}
	if dir == "" {
		dir = c.cfg.ExportDir
	}
	target := filepath.Join(dir, ArchiveName(snap))
	c.queue.submit(ctx, opExport, func(ctx context.Context) func() {
		err := writeArchiveFile(ctx, target, snap, c.codec)
		return func() {
			if err != nil {
				c.log.Printf("export %s: %v", target, err)
				c.alert(alertSaveFailed + err.Error())
				return
			}
			c.log.Printf("exported %s", target)
		}
	})
	return target, nil
}

func writeArchiveFile(ctx context.Context, target string, s *Scene, codec Codec) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(target), err)
	}
	f, err := os.CreateTemp(filepath.Dir(target), ".tableau-*.zip")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmp := f.Name()
	if err := Export(f, s, codec); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", target, err)
	}
	return nil
}

// ImportFile loads an archive in the background and replaces the scene
// with its contents.
func (c *Composer) ImportFile(ctx context.Context, path string) {
	c.queue.submit(ctx, opArchive, func(ctx context.Context) func() {
		data, err := c.files.ReadFile(ctx, path)
		if err != nil {
			return func() { c.importFailed(path, err) }
		}
		msgs, warnings, err := c.decodeArchive(bytes.NewReader(data), int64(len(data)))
		return func() {
			if err != nil {
				c.importFailed(path, err)
				return
			}
			_ = c.replaceScene(path, msgs, warnings)
		}
	})
}

// Import replaces the scene with the contents of an archive.
func (c *Composer) Import(r io.ReaderAt, size int64) ([]Warning, error) {
	msgs, warnings, err := c.decodeArchive(r, size)
	if err != nil {
		c.importFailed("archive", err)
		return nil, err
	}
	if err := c.replaceScene("archive", msgs, warnings); err != nil {
		return nil, err
	}
	return warnings, nil
}

func (c *Composer) decodeArchive(r io.ReaderAt, size int64) ([]Message, []Warning, error) {
	entries, err := c.codec.Unpack(r, size)
	if err != nil {
		return nil, nil, err
	}
	return importMessages(entries)
}

func (c *Composer) importFailed(source string, err error) {
	c.log.Printf("import %s: %v", source, err)
	c.alert(alertLoadFailed + err.Error())
}

func (c *Composer) replaceScene(source string, msgs []Message, warnings []Warning) error {
	c.menu.Close()
	c.deactivate()
	if err := c.scene.Replay(msgs...); err != nil {
		c.importFailed(source, err)
		return err
	}
	for _, w := range warnings {
		c.log.Printf("warning: import %s: %s", source, w)
	}
	return nil
}

// --- Frame loop ---

// Update advances one frame: the test runner steps, finished background
// work is applied in submission order, and item fades advance by dt seconds.
func (c *Composer) Update(dt float32) {
	if c.testRunner != nil {
		c.testRunner.step(c)
	}
	c.queue.drain()
	for _, d := range c.scene.items {
		if it, ok := c.items[d.ID]; ok {
			it.Tick(dt)
		}
	}
}

// Relayout shows every item again against the current surface viewport.
// Call it after the surface is resized.
func (c *Composer) Relayout() {
	for _, d := range c.scene.items {
		if it, ok := c.items[d.ID]; ok {
			it.show()
		}
	}
}

// Step runs Update followed by ProcessInput.
func (c *Composer) Step(dt float32, sample *PointerSample) {
	c.Update(dt)
	c.ProcessInput(sample)
}

// Wait blocks until all background work has finished and been applied.
// It applies results on the calling goroutine.
func (c *Composer) Wait(ctx context.Context) error {
	return c.queue.wait(ctx)
}

// Pending returns the number of background operations not yet applied.
func (c *Composer) Pending() int { return c.queue.len() }

// Screenshot asks the surface to capture the next frame under label.
func (c *Composer) Screenshot(label string) {
	sh, ok := c.surface.(Screenshotter)
	if !ok {
		c.log.Printf("warning: screenshot %q: surface cannot capture", label)
		return
	}
	sh.Screenshot(label)
}
