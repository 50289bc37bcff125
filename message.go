package tableau

// Message is a change to a Scene. Scene.Apply is the only way a Scene changes.
type Message interface {
	isMessage()
}

// ItemAdded appends an item. A zero Descriptor.ID is assigned by the scene,
// and an identifier already in use gets a numeric suffix.
type ItemAdded struct {
	Descriptor ItemDescriptor
}

// ItemTransformed replaces the transform of an item.
type ItemTransformed struct {
	ID        ItemID
	Transform Transform
}

// ItemDeleted removes an item.
type ItemDeleted struct {
	ID ItemID
}

// BackgroundChanged sets the background image. A nil Style applies
// DefaultBackgroundStyle.
type BackgroundChanged struct {
	Image *ImageAsset
	Style BackgroundStyle
}

// BackgroundCleared removes the background image and its style.
type BackgroundCleared struct{}

// BackgroundStyled replaces the background style.
type BackgroundStyled struct {
	Style BackgroundStyle
}

// SceneRenamed sets the scene name. The name is stored formatted.
type SceneRenamed struct {
	Name string
}

// IslandChanged sets the island kind.
type IslandChanged struct {
	Island IslandKind
}

// ContainerChanged sets the scene container selector.
type ContainerChanged struct {
	Container string
}

// SceneReset returns the scene to its empty state. Item IDs keep counting
// so an ID is never reused within a Scene.
type SceneReset struct{}

func (ItemAdded) isMessage() {}
func (ItemTransformed) isMessage() {}
func (ItemDeleted) isMessage() {}
func (BackgroundChanged) isMessage() {}
func (BackgroundCleared) isMessage() {}
func (BackgroundStyled) isMessage() {}
func (SceneRenamed) isMessage() {}
func (IslandChanged) isMessage() {}
func (ContainerChanged) isMessage() {}
func (SceneReset) isMessage() {}
