// Package ecs connects coge sprites to entity-component-system worlds.
//
// [DonburiStore] links each bound sprite to a [Donburi] entity carrying a
// [SpriteComponent]. Once the store is set on a scene, pointer, click and drag
// events on bound sprites are published as [InteractionEventType] events and
// reach systems on the next ProcessEvents call.
//
//	store := ecs.NewDonburiStore(world)
//	entity := store.Bind(hero)
//	scene.SetEntityStore(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
