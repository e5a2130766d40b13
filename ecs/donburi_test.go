package ecs

import (
	"testing"

	"github.com/phanxgames/coge"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

func TestNewDonburiStore(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)
	if store == nil {
		t.Fatal("NewDonburiStore returned nil")
	}
}

func TestDonburiStore_EmitEvent(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)

	var received []coge.InteractionEvent
	InteractionEventType.Subscribe(world, func(w donburi.World, e coge.InteractionEvent) {
		received = append(received, e)
	})

	store.EmitEvent(coge.InteractionEvent{
		Type:     coge.EventMouseDown,
		EntityID: 42,
		X:        100,
		Y:        200,
		Button:   coge.MouseButtonLeft,
	})

	store.EmitEvent(coge.InteractionEvent{
		Type:   coge.EventDrag,
		StartX: 10,
		DeltaX: 5,
	})

	// Events are queued; process them.
	InteractionEventType.ProcessEvents(world)

	if len(received) != 2 {
		t.Fatalf("expected 2 events, got %d", len(received))
	}

	e0 := received[0]
	if e0.Type != coge.EventMouseDown || e0.EntityID != 42 {
		t.Errorf("event 0: %+v", e0)
	}
	if e0.X != 100 || e0.Y != 200 {
		t.Errorf("event 0 position: (%v,%v)", e0.X, e0.Y)
	}

	e1 := received[1]
	if e1.Type != coge.EventDrag || e1.StartX != 10 || e1.DeltaX != 5 {
		t.Errorf("event 1: %+v", e1)
	}
}

func TestDonburiStore_ImplementsEntityStore(t *testing.T) {
	world := donburi.NewWorld()
	var store coge.EntityStore = NewDonburiStore(world)
	_ = store // compile-time interface check
}

func TestDonburiStore_MultipleSubscribers(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)

	var count1, count2 int
	InteractionEventType.Subscribe(world, func(w donburi.World, e coge.InteractionEvent) {
		count1++
	})
	InteractionEventType.Subscribe(world, func(w donburi.World, e coge.InteractionEvent) {
		count2++
	})

	store.EmitEvent(coge.InteractionEvent{Type: coge.EventClick})
	events.ProcessAllEvents(world)

	if count1 != 1 || count2 != 1 {
		t.Errorf("expected both subscribers called once, got %d and %d", count1, count2)
	}
}

func TestDonburiStore_Bind(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)

	sp := &coge.Sprite{}
	store.Bind(sp)
	if world.Len() != 1 {
		t.Fatalf("world.Len() = %d after Bind, want 1", world.Len())
	}
	if got := store.Sprite(sp.EntityID); got != sp {
		t.Errorf("Sprite(%d) = %p, want %p", sp.EntityID, got, sp)
	}

	id := sp.EntityID
	store.Unbind(sp)
	if sp.EntityID != 0 {
		t.Errorf("EntityID after Unbind = %d, want 0", sp.EntityID)
	}
	if got := store.Sprite(id); got != nil {
		t.Errorf("Sprite(%d) after Unbind = %p, want nil", id, got)
	}
	if world.Len() != 0 {
		t.Errorf("world.Len() = %d, want 0", world.Len())
	}
}
