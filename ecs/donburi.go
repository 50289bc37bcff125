package ecs

import (
	"github.com/phanxgames/tableau"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// SceneEvent wraps one message applied to the scene.
type SceneEvent struct {
	Message tableau.Message
}

// SceneEventType is the Donburi event type for scene messages. Events are
// queued; call ProcessEvents to deliver them.
var SceneEventType = events.NewEventType[SceneEvent]()

// ItemData is the component stored on each item entity.
type ItemData struct {
	ID           tableau.ItemID
	Identifier   string
	Transform    tableau.Transform
	LinkedAction string
	Container    string
}

// Item is the component type of item entities.
var Item = donburi.NewComponentType[ItemData]()

// Bridge keeps a Donburi world in step with a Scene.
type Bridge struct {
	world    donburi.World
	sub      tableau.Subscription
	entities map[tableau.ItemID]donburi.Entity
}

// Attach creates entities for the items already in scene and follows its
// messages until Close.
func Attach(world donburi.World, scene *tableau.Scene) *Bridge {
	b := &Bridge{
		world:    world,
		entities: make(map[tableau.ItemID]donburi.Entity),
	}
	for _, d := range scene.Items() {
		b.add(d)
	}
	b.sub = scene.Subscribe(b.apply)
	return b
}

// Close stops following the scene. Existing entities are kept.
func (b *Bridge) Close() {
	b.sub.Remove()
}

// Entity returns the entity of an item.
func (b *Bridge) Entity(id tableau.ItemID) (donburi.Entity, bool) {
	e, ok := b.entities[id]
	return e, ok
}

// Len returns the number of item entities.
func (b *Bridge) Len() int { return len(b.entities) }

func (b *Bridge) apply(msg tableau.Message) {
	switch m := msg.(type) {
	case tableau.ItemAdded:
		b.add(m.Descriptor)
	case tableau.ItemTransformed:
		if e, ok := b.entities[m.ID]; ok && b.world.Valid(e) {
			Item.Get(b.world.Entry(e)).Transform = m.Transform
		}
	case tableau.ItemDeleted:
		b.remove(m.ID)
	case tableau.SceneReset:
		for id := range b.entities {
			b.remove(id)
		}
	}
	SceneEventType.Publish(b.world, SceneEvent{Message: msg})
}

func (b *Bridge) add(d tableau.ItemDescriptor) {
	e := b.world.Create(Item)
	Item.SetValue(b.world.Entry(e), ItemData{
		ID:           d.ID,
		Identifier:   d.Identifier,
		Transform:    d.Transform,
		LinkedAction: d.LinkedAction,
		Container:    d.Container,
	})
	b.entities[d.ID] = e
}

func (b *Bridge) remove(id tableau.ItemID) {
	e, ok := b.entities[id]
	if !ok {
		return
	}
	if b.world.Valid(e) {
		b.world.Remove(e)
	}
	delete(b.entities, id)
}
