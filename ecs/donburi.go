package ecs

import (
	"github.com/phanxgames/coge"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// InteractionEventType is the Donburi event type for coge interaction events.
// Subscribe to this in your ECS systems to receive pointer, click and drag
// events on bound sprites.
var InteractionEventType = events.NewEventType[coge.InteractionEvent]()

// SpriteData links an entity to the sprite it drives.
type SpriteData struct {
	Sprite *coge.Sprite
}

// SpriteComponent holds the SpriteData of bound entities.
var SpriteComponent = donburi.NewComponentType[SpriteData]()

// DonburiStore is an EntityStore backed by a Donburi world.
type DonburiStore struct {
	world    donburi.World
	entities map[uint32]donburi.Entity
}

// NewDonburiStore creates an EntityStore backed by a Donburi world.
// Interaction events are published to InteractionEventType and can be
// consumed with events.Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) *DonburiStore {
	return &DonburiStore{world: world, entities: make(map[uint32]donburi.Entity)}
}

// EmitEvent implements coge.EntityStore.
func (s *DonburiStore) EmitEvent(event coge.InteractionEvent) {
	InteractionEventType.Publish(s.world, event)
}

// Bind creates an entity carrying sp and stamps the entity ID on the sprite
// so its pointer events reach the world.
func (s *DonburiStore) Bind(sp *coge.Sprite) donburi.Entity {
	e := s.world.Create(SpriteComponent)
	SpriteComponent.Get(s.world.Entry(e)).Sprite = sp
	id := uint32(e.Id())
	sp.EntityID = id
	s.entities[id] = e
	return e
}

// Unbind removes the entity bound to sp and clears its entity ID.
func (s *DonburiStore) Unbind(sp *coge.Sprite) {
	if e, ok := s.entities[sp.EntityID]; ok {
		s.world.Remove(e)
		delete(s.entities, sp.EntityID)
	}
	sp.EntityID = 0
}

// Sprite returns the sprite bound to the entity with the given ID.
func (s *DonburiStore) Sprite(id uint32) *coge.Sprite {
	e, ok := s.entities[id]
	if !ok || !s.world.Valid(e) {
		return nil
	}
	return SpriteComponent.Get(s.world.Entry(e)).Sprite
}
