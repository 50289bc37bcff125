package tableau

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	// ErrSceneNameRequired is returned when exporting a scene with no name.
	ErrSceneNameRequired = errors.New("tableau: scene name required")
	// ErrManifestNotFound is returned when an archive holds no .json entry.
	ErrManifestNotFound = errors.New("tableau: JSON file not found in the archive")
	// ErrInvalidManifest is returned when the manifest cannot be parsed.
	ErrInvalidManifest = errors.New("tableau: invalid manifest")
	// ErrBackgroundMissing is returned when the declared background image is absent.
	ErrBackgroundMissing = errors.New("tableau: background image not found in the archive")
	// ErrDuplicateEntry is returned when two different images share an entry name.
	ErrDuplicateEntry = errors.New("tableau: duplicate archive entry")
)

// Entry is one named file inside an archive.
type Entry struct {
	Name string
	Data []byte
}

// Codec packs and unpacks archive entries.
type Codec interface {
	Pack(w io.Writer, entries []Entry) error
	Unpack(r io.ReaderAt, size int64) ([]Entry, error)
}

// ZipCodec is a Codec for zip files.
type ZipCodec struct{}

// Pack writes entries as a deflated zip archive.
func (ZipCodec) Pack(w io.Writer, entries []Entry) error {
	zw := zip.NewWriter(w)
	for _, e := range entries {
		f, err := zw.CreateHeader(&zip.FileHeader{Name: e.Name, Method: zip.Deflate})
		if err != nil {
			return fmt.Errorf("zip: create %s: %w", e.Name, err)
		}
		if _, err := f.Write(e.Data); err != nil {
			return fmt.Errorf("zip: write %s: %w", e.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("zip: close: %w", err)
	}
	return nil
}

// Unpack reads every file entry of a zip archive, in archive order.
func (ZipCodec) Unpack(r io.ReaderAt, size int64) ([]Entry, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("zip: %w", err)
	}
	entries := make([]Entry, 0, len(zr.File))
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("zip: open %s: %w", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("zip: read %s: %w", f.Name, err)
		}
		entries = append(entries, Entry{Name: f.Name, Data: data})
	}
	return entries, nil
}

// --- Manifest ---

type manifest struct {
	IslandKind      string          `json:"islandKind"`
	SceneName       string          `json:"sceneName"`
	BackgroundName  *string         `json:"backgroundName"`
	BackgroundStyle BackgroundStyle `json:"backgroundStyle"`
	Container       string          `json:"containerSelector"`
	Items           []manifestItem  `json:"items"`
}

type manifestItem struct {
	Identifier   string     `json:"identifier"`
	Transform    *Transform `json:"transform"`
	LinkedAction *string    `json:"linkedAction"`
	Container    string     `json:"containerSelector"`
}

// Warning reports an item skipped during import.
type Warning struct {
	Identifier string
	Reason     string
}

func (w Warning) String() string {
	return fmt.Sprintf("item %q skipped: %s", w.Identifier, w.Reason)
}

// ManifestName returns the name of the manifest entry of a scene archive.
func ManifestName(s *Scene) string {
	return s.name + ".json"
}

// Export writes scene as an archive: the background image, the manifest,
// then every item image in order. It refuses scenes without a name and
// scenes with an image that has no bytes.
func Export(w io.Writer, s *Scene, codec Codec) error {
	entries, err := exportEntries(s)
	if err != nil {
		return err
	}
	if err := codec.Pack(w, entries); err != nil {
		return fmt.Errorf("export %s: %w", ArchiveName(s), err)
	}
	return nil
}

func exportEntries(s *Scene) ([]Entry, error) {
	if s.name == "" {
		return nil, ErrSceneNameRequired
	}

	m := manifest{
		IslandKind:      s.island.String(),
		SceneName:       s.name,
		BackgroundStyle: s.style.Clone(),
		Container:       s.container,
		Items:           make([]manifestItem, 0, len(s.items)),
	}
	if m.BackgroundStyle == nil {
		m.BackgroundStyle = BackgroundStyle{}
	}
	if m.Container == "" && len(s.items) > 0 {
		m.Container = s.items[0].Container
	}
	if m.Container == "" {
		m.Container = DefaultContainer
	}

	var entries []Entry
	seen := make(map[string][]byte)
	add := func(name string, data []byte) error {
		key := strings.ToLower(name)
		if prev, ok := seen[key]; ok {
			if bytes.Equal(prev, data) {
				return nil
			}
			return fmt.Errorf("%w: %s", ErrDuplicateEntry, name)
		}
		seen[key] = data
		entries = append(entries, Entry{Name: name, Data: data})
		return nil
	}

	if bg := s.background; bg != nil {
		if len(bg.Data) == 0 {
			return nil, fmt.Errorf("background %s: %w", bg.Name, ErrImageMissing)
		}
		name := bg.Name
		m.BackgroundName = &name
	}
	for _, d := range s.items {
		if d.Image == nil || len(d.Image.Data) == 0 {
			return nil, fmt.Errorf("item %s: %w", d.Identifier, ErrImageMissing)
		}
		t := d.Transform
		mi := manifestItem{Identifier: d.Identifier, Transform: &t, Container: d.Container}
		if d.LinkedAction != "" {
			action := d.LinkedAction
			mi.LinkedAction = &action
		}
		m.Items = append(m.Items, mi)
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}

	if bg := s.background; bg != nil {
		if err := add(bg.Name, bg.Data); err != nil {
			return nil, err
		}
	}
	if err := add(ManifestName(s), data); err != nil {
		return nil, err
	}
	for _, d := range s.items {
		if err := add(d.Identifier, d.Image.Data); err != nil {
			return nil, err
		}
	}
	return entries, nil
}

// Import reads an archive into a new Scene. Items whose image entry is
// missing are skipped and reported as warnings; a missing manifest or
// background image fails the whole import.
func Import(r io.ReaderAt, size int64, codec Codec) (*Scene, []Warning, error) {
	entries, err := codec.Unpack(r, size)
	if err != nil {
		return nil, nil, fmt.Errorf("import: %w", err)
	}
	msgs, warnings, err := importMessages(entries)
	if err != nil {
		return nil, nil, err
	}
	s := NewScene()
	if err := s.Replay(msgs...); err != nil {
		return nil, nil, fmt.Errorf("import: %w", err)
	}
	return s, warnings, nil
}

// importMessages turns archive entries into the messages that rebuild the
// scene they describe.
func importMessages(entries []Entry) ([]Message, []Warning, error) {
	mi := -1
	for i, e := range entries {
		if strings.HasSuffix(strings.ToLower(e.Name), ".json") {
			mi = i
			break
		}
	}
	if mi < 0 {
		return nil, nil, ErrManifestNotFound
	}

	var m manifest
	if err := json.Unmarshal(entries[mi].Data, &m); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	island := IslandArtificial
	if m.IslandKind != "" {
		k, err := ParseIslandKind(m.IslandKind)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
		}
		island = k
	}

	find := func(name string) *Entry {
		for i := range entries {
			if i != mi && strings.EqualFold(entries[i].Name, name) {
				return &entries[i]
			}
		}
		return nil
	}

	msgs := []Message{
		SceneReset{},
		SceneRenamed{Name: m.SceneName},
		IslandChanged{Island: island},
		ContainerChanged{Container: m.Container},
	}

	if m.BackgroundName != nil && *m.BackgroundName != "" {
		e := find(*m.BackgroundName)
		if e == nil || len(e.Data) == 0 {
			return nil, nil, fmt.Errorf("%w: %q", ErrBackgroundMissing, *m.BackgroundName)
		}
		msgs = append(msgs, BackgroundChanged{
			Image: NewImageAsset(e.Name, e.Data),
			Style: m.BackgroundStyle,
		})
	}

	var warnings []Warning
	for _, it := range m.Items {
		id, err := ValidateImageName(it.Identifier)
		if err != nil {
			warnings = append(warnings, Warning{Identifier: it.Identifier, Reason: err.Error()})
			continue
		}
		e := find(it.Identifier)
		if e == nil || len(e.Data) == 0 {
			warnings = append(warnings, Warning{Identifier: it.Identifier, Reason: "image file not found in the archive"})
			continue
		}
		t := DefaultTransform()
		if it.Transform != nil {
			t = *it.Transform
		}
		d := ItemDescriptor{
			Identifier: id,
			Image:      NewImageAsset(id, e.Data),
			Transform:  t,
			Container:  it.Container,
		}
		if it.LinkedAction != nil {
			d.LinkedAction = *it.LinkedAction
		}
		msgs = append(msgs, ItemAdded{Descriptor: d})
	}
	return msgs, warnings, nil
}
