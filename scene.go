package tableau

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultContainer is the container selector used when none is given.
const DefaultContainer = "body"

var (
	// ErrUnknownItem is returned when a message names an item not in the scene.
	ErrUnknownItem = errors.New("tableau: unknown item")
	// ErrDuplicateItem is returned when an added item reuses a live ID.
	ErrDuplicateItem = errors.New("tableau: duplicate item id")
	// ErrUnknownIsland is returned for an island kind outside the known set.
	ErrUnknownIsland = errors.New("tableau: unknown island kind")
	// ErrImageMissing is returned when an image is required but has no bytes.
	ErrImageMissing = errors.New("tableau: image data missing")
)

// IslandKind is the kind of island a scene belongs to.
type IslandKind uint8

const (
	IslandArtificial IslandKind = iota
	IslandOceanic
	IslandTidal
	IslandCoral
)

var islandNames = [...]string{"artificial-island", "oceanic-island", "tidal-island", "coral-island"}

// IslandKinds lists every island kind in selector order.
func IslandKinds() []IslandKind {
	return []IslandKind{IslandArtificial, IslandOceanic, IslandTidal, IslandCoral}
}

func (k IslandKind) String() string {
	if int(k) < len(islandNames) {
		return islandNames[k]
	}
	return fmt.Sprintf("island(%d)", uint8(k))
}

// Valid reports whether k is one of the known kinds.
func (k IslandKind) Valid() bool { return int(k) < len(islandNames) }

// ParseIslandKind converts a name such as "coral-island" to an IslandKind.
func ParseIslandKind(s string) (IslandKind, error) {
	for i, name := range islandNames {
		if name == s {
			return IslandKind(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownIsland, s)
}

// MarshalText implements encoding.TextMarshaler.
func (k IslandKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownIsland, uint8(k))
	}
	return []byte(islandNames[k]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *IslandKind) UnmarshalText(text []byte) error {
	v, err := ParseIslandKind(string(text))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// ItemDescriptor is the serializable record of one overlay image.
type ItemDescriptor struct {
	ID           ItemID
	Identifier   string
	Image        *ImageAsset
	Transform    Transform
	LinkedAction string
	Container    string
}

// --- Subscriptions ---

type subscriber struct {
	id uint32
	fn func(Message)
}

type subscriberRegistry struct {
	subs   []subscriber
	nextID uint32
}

// Subscription allows removing a scene subscriber.
type Subscription struct {
	id  uint32
	reg *subscriberRegistry
}

// Remove unregisters the subscriber so it no longer receives messages.
func (s Subscription) Remove() {
	if s.reg == nil {
		return
	}
	subs := s.reg.subs
	for i := range subs {
		if subs[i].id == s.id {
			copy(subs[i:], subs[i+1:])
			subs[len(subs)-1] = subscriber{}
			s.reg.subs = subs[:len(subs)-1]
			return
		}
	}
}

// --- Scene ---

// Scene is the canonical, serializable composition state. It is not safe
// for concurrent use; all messages are applied from one flow.
type Scene struct {
	island     IslandKind
	name       string
	background *ImageAsset
	style      BackgroundStyle
	items      []ItemDescriptor
	container  string

	nextID ItemID
	subs   subscriberRegistry
}

// NewScene returns an empty scene.
func NewScene() *Scene {
	return &Scene{
		style:     BackgroundStyle{},
		container: DefaultContainer,
	}
}

func (s *Scene) Island() IslandKind { return s.island }
func (s *Scene) Name() string { return s.name }
func (s *Scene) Background() *ImageAsset { return s.background }
func (s *Scene) BackgroundStyle() BackgroundStyle { return s.style.Clone() }
func (s *Scene) Container() string { return s.container }
func (s *Scene) Len() int { return len(s.items) }

// Items returns a copy of the item descriptors in insertion order.
func (s *Scene) Items() []ItemDescriptor {
	out := make([]ItemDescriptor, len(s.items))
	copy(out, s.items)
	return out
}

// Item returns the descriptor with the given ID.
func (s *Scene) Item(id ItemID) (ItemDescriptor, bool) {
	if i := s.indexOf(id); i >= 0 {
		return s.items[i], true
	}
	return ItemDescriptor{}, false
}

// Lookup returns the descriptor with the given identifier.
func (s *Scene) Lookup(identifier string) (ItemDescriptor, bool) {
	for _, d := range s.items {
		if d.Identifier == identifier {
			return d, true
		}
	}
	return ItemDescriptor{}, false
}

// Identifiers returns the item identifiers in insertion order.
func (s *Scene) Identifiers() []string {
	out := make([]string, len(s.items))
	for i, d := range s.items {
		out[i] = d.Identifier
	}
	return out
}

// Subscribe registers fn to receive every applied message. Messages are
// delivered after the change, with assigned IDs and identifiers filled in.
func (s *Scene) Subscribe(fn func(Message)) Subscription {
	s.subs.nextID++
	id := s.subs.nextID
	s.subs.subs = append(s.subs.subs, subscriber{id: id, fn: fn})
	return Subscription{id: id, reg: &s.subs}
}

// Apply applies one message. On error the scene is unchanged and no
// subscriber is notified.
func (s *Scene) Apply(msg Message) error {
	_, err := s.commit(msg)
	return err
}

func (s *Scene) commit(msg Message) (Message, error) {
	applied, err := s.apply(msg)
	if err != nil {
		return nil, err
	}
	// Subscribers may remove themselves or others while being notified.
	subs := append([]subscriber(nil), s.subs.subs...)
	for _, sub := range subs {
		sub.fn(applied)
	}
	return applied, nil
}

// Replay applies messages in order and stops at the first failure.
func (s *Scene) Replay(msgs ...Message) error {
	for i, m := range msgs {
		if err := s.Apply(m); err != nil {
			return fmt.Errorf("replay message %d (%T): %w", i, m, err)
		}
	}
	return nil
}

func (s *Scene) apply(msg Message) (Message, error) {
	switch m := msg.(type) {
	case ItemAdded:
		d, err := s.prepareItem(m.Descriptor)
		if err != nil {
			return nil, err
		}
		s.items = append(s.items, d)
		return ItemAdded{Descriptor: d}, nil

	case ItemTransformed:
		i := s.indexOf(m.ID)
		if i < 0 {
			return nil, fmt.Errorf("%w: %d", ErrUnknownItem, m.ID)
		}
		s.items[i].Transform = m.Transform
		return m, nil

	case ItemDeleted:
		i := s.indexOf(m.ID)
		if i < 0 {
			return nil, fmt.Errorf("%w: %d", ErrUnknownItem, m.ID)
		}
		s.items = append(s.items[:i], s.items[i+1:]...)
		return m, nil

	case BackgroundChanged:
		if m.Image == nil || len(m.Image.Data) == 0 {
			return nil, fmt.Errorf("background: %w", ErrImageMissing)
		}
		style := m.Style.Clone()
		if style == nil {
			style = DefaultBackgroundStyle()
		}
		if name := uniqueIdentifier(m.Image.Name, func(c string) bool {
			return s.entryTaken(c, false)
		}); name != m.Image.Name {
			img := *m.Image
			img.Name = name
			m.Image = &img
		}
		s.background = m.Image
		s.style = style
		return BackgroundChanged{Image: m.Image, Style: style.Clone()}, nil

	case BackgroundCleared:
		s.background = nil
		s.style = BackgroundStyle{}
		return m, nil

	case BackgroundStyled:
		s.style = m.Style.Clone()
		if s.style == nil {
			s.style = BackgroundStyle{}
		}
		return BackgroundStyled{Style: s.style.Clone()}, nil

	case SceneRenamed:
		m.Name = FormatSceneName(m.Name)
		s.name = m.Name
		return m, nil

	case IslandChanged:
		if !m.Island.Valid() {
			return nil, fmt.Errorf("%w: %d", ErrUnknownIsland, uint8(m.Island))
		}
		s.island = m.Island
		return m, nil

	case ContainerChanged:
		if m.Container == "" {
			m.Container = DefaultContainer
		}
		s.container = m.Container
		return m, nil

	case SceneReset:
		s.island = 0
		s.name = ""
		s.background = nil
		s.style = BackgroundStyle{}
		s.items = nil
		s.container = DefaultContainer
		return m, nil
	}
	return nil, fmt.Errorf("tableau: unsupported message %T", msg)
}

func (s *Scene) prepareItem(d ItemDescriptor) (ItemDescriptor, error) {
	id, err := ValidateImageName(d.Identifier)
	if err != nil {
		return d, err
	}
	if d.ID == 0 {
		s.nextID++
		d.ID = s.nextID
	} else if s.indexOf(d.ID) >= 0 {
		return d, fmt.Errorf("%w: %d", ErrDuplicateItem, d.ID)
	} else if d.ID > s.nextID {
		s.nextID = d.ID
	}
	d.Identifier = uniqueIdentifier(id, func(c string) bool {
		return s.entryTaken(c, true)
	})
	if d.Container == "" {
		d.Container = DefaultContainer
	}
	return d, nil
}

// entryTaken reports whether name would collide with an archive entry of
// the scene. Entry names compare case-insensitively.
func (s *Scene) entryTaken(name string, background bool) bool {
	if background && s.background != nil && strings.EqualFold(s.background.Name, name) {
		return true
	}
	for _, d := range s.items {
		if strings.EqualFold(d.Identifier, name) {
			return true
		}
	}
	return false
}

func (s *Scene) indexOf(id ItemID) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

// --- Scene model operations ---

// AddItem appends an item and returns the stored descriptor.
func (s *Scene) AddItem(d ItemDescriptor) (ItemDescriptor, error) {
	applied, err := s.commit(ItemAdded{Descriptor: d})
	if err != nil {
		return ItemDescriptor{}, err
	}
	return applied.(ItemAdded).Descriptor, nil
}

// UpdateItem replaces the transform of an item.
func (s *Scene) UpdateItem(id ItemID, t Transform) error {
	return s.Apply(ItemTransformed{ID: id, Transform: t})
}

// DeleteItem removes an item.
func (s *Scene) DeleteItem(id ItemID) error {
	return s.Apply(ItemDeleted{ID: id})
}

// SetBackground sets the background image and style.
func (s *Scene) SetBackground(img *ImageAsset, style BackgroundStyle) error {
	return s.Apply(BackgroundChanged{Image: img, Style: style})
}

// ClearBackground removes the background.
func (s *Scene) ClearBackground() error {
	return s.Apply(BackgroundCleared{})
}

// Clone returns a copy of the scene state without subscribers. Image assets
// are shared; they are treated as immutable.
func (s *Scene) Clone() *Scene {
	return &Scene{
		island:     s.island,
		name:       s.name,
		background: s.background,
		style:      s.style.Clone(),
		items:      s.Items(),
		container:  s.container,
		nextID:     s.nextID,
	}
}
