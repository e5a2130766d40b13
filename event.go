package coge

// EventKind identifies an engine occurrence delivered to handlers.
type EventKind uint8

const (
	EventInit           EventKind = iota // object constructed; fired once before its first update
	EventFinalize                        // object about to be destroyed, or the engine shut down
	EventUpdate                          // once per frame
	EventDraw                            // after the scene finished drawing, before present
	EventActive                          // sprite or scene became active
	EventDeactive                        // sprite or scene became inactive
	EventEnter                           // sprite entered the scene view
	EventLeave                           // sprite left the scene view
	EventCollide                         // collision bodies overlap; Other is the partner
	EventTimerTime                       // sprite or scene timer elapsed
	EventAnimaFinished                   // non-replaying anima reached its last frame
	EventPathStep                        // sprite moved one path step
	EventPathFinished                    // sprite reached the end of its path
	EventEffectFinished                  // every running timed effect completed
	EventMouseDown                       // pointer button pressed
	EventMouseUp                         // pointer button released
	EventMouseMove                       // pointer moved
	EventClick                           // press then release over the same sprite
	EventMouseEnter                      // pointer entered a sprite
	EventMouseLeave                      // pointer left a sprite
	EventDragStart                       // drag movement passed the dead zone
	EventDrag                            // sprite dragged this frame
	EventDragEnd                         // drag released
	EventTouch                           // virtual touch state, when no hardware mouse exists
	EventKeyDown                         // key pressed this frame
	EventKeyUp                           // key released this frame
	EventChar                            // character typed this frame
	EventCustom                          // user-queued event with ID and Param
	EventOpen                            // scene fade-in completed
	EventClose                           // scene fade-out completed
	EventLayerDrawn                      // sprites below the window layer drawn
	EventWindowDrawn                     // window layer drawn
	EventNetAccept                       // network peer connected
	EventNetReceive                      // network message received
	EventNetDisconnect                   // network peer disconnected
	eventKindCount
)

var eventKindNames = [eventKindCount]string{
	"init", "finalize", "update", "draw", "active", "deactive", "enter", "leave",
	"collide", "timer", "anima_finished", "path_step", "path_finished",
	"effect_finished", "mouse_down", "mouse_up", "mouse_move", "click",
	"mouse_enter", "mouse_leave", "drag_start", "drag", "drag_end", "touch",
	"key_down", "key_up", "char", "custom", "open", "close", "layer_drawn",
	"window_drawn", "net_accept", "net_receive", "net_disconnect",
}

// String returns the lower-case name of k.
func (k EventKind) String() string {
	if k < eventKindCount {
		return eventKindNames[k]
	}
	return "unknown"
}

// Event carries the data for one dispatched occurrence. Fields not relevant
// to Kind are zero.
type Event struct {
	Kind   EventKind
	Engine *Engine
	Scene  *Scene
	Sprite *Sprite
	// Other is the collision partner for EventCollide.
	Other *Sprite

	// Pointer position in scene coordinates.
	X, Y      int
	Button    MouseButton
	Modifiers KeyModifiers
	// Touch slot for EventTouch.
	Touch int

	Key  Key
	Char rune

	// ID and Param of an EventCustom.
	ID    int
	Param int

	Net NetEvent
}

// Handler receives dispatched events.
type Handler interface {
	Handle(ev *Event)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ev *Event)

// Handle calls f(ev).
func (f HandlerFunc) Handle(ev *Event) { f(ev) }

type handlerEntry struct {
	id uint32
	h  Handler
}

// eventHub holds the runtime-registered handlers of one sprite, scene or
// engine.
type eventHub struct {
	slots  [eventKindCount][]handlerEntry
	nextID uint32
	depth  int  // nested dispatch calls in progress
	dirty  bool // entries were cleared during dispatch
}

// CallbackHandle allows removing a registered handler.
type CallbackHandle struct {
	id   uint32
	hub  *eventHub
	kind EventKind
}

// Remove unregisters this handler so it no longer fires.
func (h CallbackHandle) Remove() {
	if h.hub == nil || h.kind >= eventKindCount {
		return
	}
	s := h.hub.slots[h.kind]
	for i := range s {
		if s[i].id == h.id {
			if h.hub.depth > 0 {
				// Compacted once the outermost dispatch returns.
				s[i].h = nil
				h.hub.dirty = true
				return
			}
			copy(s[i:], s[i+1:])
			s[len(s)-1] = handlerEntry{}
			h.hub.slots[h.kind] = s[:len(s)-1]
			return
		}
	}
}

func (hub *eventHub) on(kind EventKind, h Handler) CallbackHandle {
	if kind >= eventKindCount || h == nil {
		return CallbackHandle{}
	}
	hub.nextID++
	hub.slots[kind] = append(hub.slots[kind], handlerEntry{id: hub.nextID, h: h})
	return CallbackHandle{id: hub.nextID, hub: hub, kind: kind}
}

func (hub *eventHub) has(kind EventKind) bool {
	if kind >= eventKindCount {
		return false
	}
	for _, e := range hub.slots[kind] {
		if e.h != nil {
			return true
		}
	}
	return false
}

// compact drops the entries cleared while a dispatch was running.
func (hub *eventHub) compact() {
	for k, s := range hub.slots {
		n := 0
		for _, e := range s {
			if e.h != nil {
				s[n] = e
				n++
			}
		}
		clear(s[n:])
		hub.slots[k] = s[:n]
	}
	hub.dirty = false
}

// dispatch calls the script handler (if any) and then every registered
// handler for ev.Kind. It reports whether anything handled the event.
func (hub *eventHub) dispatch(script Script, ev *Event) bool {
	handled := false
	if script != nil {
		if h := script.Handler(ev.Kind); h != nil {
			h.Handle(ev)
			handled = true
		}
	}
	// Handlers added during dispatch wait for the next event. Removed ones
	// stay in place with a nil handler until the outermost dispatch ends.
	hub.depth++
	n := len(hub.slots[ev.Kind])
	for i := 0; i < n; i++ {
		if h := hub.slots[ev.Kind][i].h; h != nil {
			h.Handle(ev)
			handled = true
		}
	}
	hub.depth--
	if hub.depth == 0 && hub.dirty {
		hub.compact()
	}
	return handled
}
