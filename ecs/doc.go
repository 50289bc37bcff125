// Package ecs mirrors a tableau scene into a Donburi world.
//
// [Attach] keeps one entity per scene item, carrying an [Item] component
// with its identifier and transform, and republishes every applied scene
// message as a [SceneEvent]. Systems can query the items or subscribe to
// SceneEventType:
//
//	bridge := ecs.Attach(world, composer.Scene())
//	defer bridge.Close()
//	ecs.SceneEventType.Subscribe(world, func(w donburi.World, e ecs.SceneEvent) {
//		...
//	})
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
