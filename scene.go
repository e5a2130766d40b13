package coge

import (
	"time"
)

// EntityStore is the interface for optional ECS integration.
// When set on a Scene, pointer events on sprites with an EntityID are
// forwarded to the ECS.
type EntityStore interface {
	EmitEvent(event InteractionEvent)
}

// InteractionEvent carries interaction data for the ECS bridge.
type InteractionEvent struct {
	Type      EventKind
	EntityID  uint32
	X, Y      int
	Button    MouseButton
	Modifiers KeyModifiers
	// Drag fields (valid for EventDragStart, EventDrag, EventDragEnd)
	StartX, StartY int
	DeltaX, DeltaY int
}

// SceneState is the lifecycle state of a scene.
type SceneState int8

const (
	SceneUninitialized SceneState = -1
	SceneIdle          SceneState = 0 // initialized, not the active scene
	SceneRunning       SceneState = 1
	ScenePaused        SceneState = 2
	SceneDeactivating  SceneState = 3 // fading out before a switch
)

// spriteSet is an insertion-ordered set of sprites keyed by name.
type spriteSet struct {
	byName map[string]*Sprite
	list   []*Sprite
}

func (ss *spriteSet) has(sp *Sprite) bool {
	return ss.byName != nil && ss.byName[sp.Name] == sp
}

func (ss *spriteSet) add(sp *Sprite) {
	if ss.byName == nil {
		ss.byName = make(map[string]*Sprite)
	}
	ss.byName[sp.Name] = sp
	ss.list = append(ss.list, sp)
}

func (ss *spriteSet) remove(sp *Sprite) bool {
	if !ss.has(sp) {
		return false
	}
	delete(ss.byName, sp.Name)
	for i, m := range ss.list {
		if m == sp {
			copy(ss.list[i:], ss.list[i+1:])
			ss.list[len(ss.list)-1] = nil
			ss.list = ss.list[:len(ss.list)-1]
			break
		}
	}
	return true
}

// Scene owns a view onto a background, the sprites placed in it and the
// per-frame update and draw of those sprites.
type Scene struct {
	Name string

	engine    *Engine
	state     SceneState
	initFired bool

	// Background is drawn under every sprite; BackgroundColor fills the view
	// when it is nil.
	Background      *Shared[Image]
	BackgroundColor Color
	// Map is the tile map sprites path over, or nil.
	Map  *Shared[*GameMap]
	Data *GameData

	Script Script
	hub    eventHub

	view Rect
	topZ int
	// WindowZ splits the in-view list into the sprite layer and the window
	// layer.
	WindowZ int
	// PartialRedraw limits background redraws to dirty rects.
	PartialRedraw bool

	active   spriteSet
	inactive spriteSet
	settle   []*Sprite
	inView   []*Sprite
	sortBuf  []*Sprite

	// snapBuf holds the copy of the active set walked while handlers run.
	snapBuf  []*Sprite
	snapBusy bool

	// Special sprites outside the active set.
	first  *Sprite
	last   *Sprite
	cursor *Sprite
	modal  *Sprite
	focus  *Sprite

	timer timer

	// Pointer
	pointer      pointerState
	dragDeadZone int
	unmet        []Event

	scroll scrollState
	fade   fadeState
	light  lightLayer
	dirty  dirtyRegion
	store  EntityStore

	debugRects []debugRect

	screenshotQueue []string
	// ScreenshotDir is where queued screenshots are written.
	ScreenshotDir string

	warn *frameWarner
}

// NewScene creates an empty scene with a view of the video mode's size and
// registers it under name.
func (e *Engine) NewScene(name string) (*Scene, error) {
	if _, dup := e.scenes[name]; dup {
		logger.Warn("duplicate scene", "name", name)
		return nil, errDuplicate("scene", name)
	}
	s := newScene(e, name)
	e.scenes[name] = s
	e.queueInit(nil, s)
	return s, nil
}

func newScene(e *Engine, name string) *Scene {
	w, h := 0, 0
	if e != nil && e.video != nil {
		m := e.video.Mode()
		w, h = m.Width, m.Height
	}
	s := &Scene{
		Name:            name,
		engine:          e,
		BackgroundColor: ColorBlack,
		view:            Rect{0, 0, w, h},
		WindowZ:         DefaultWindowZ,
		dragDeadZone:    defaultDragDeadZone,
		ScreenshotDir:   "screenshots",
		warn:            newFrameWarner(),
	}
	s.dirty.markFull()
	return s
}

// Engine returns the owning engine.
func (s *Scene) Engine() *Engine { return s.engine }

// State returns the scene lifecycle state.
func (s *Scene) State() SceneState { return s.state }

// On registers a scene-level handler for kind.
func (s *Scene) On(kind EventKind, fn func(ev *Event)) CallbackHandle {
	return s.hub.on(kind, HandlerFunc(fn))
}

func (s *Scene) fire(kind EventKind) bool {
	ev := Event{Kind: kind, Engine: s.engine, Scene: s}
	return s.dispatch(&ev)
}

func (s *Scene) dispatch(ev *Event) bool {
	if s.state < 0 {
		return false
	}
	ev.Scene = s
	return s.hub.dispatch(s.Script, ev)
}

// SetEntityStore sets the optional ECS bridge.
func (s *Scene) SetEntityStore(store EntityStore) {
	s.store = store
}

// TopZ returns the highest z of any sprite placed in the scene.
func (s *Scene) TopZ() int { return s.topZ }

// Pause stops sprite updates and the scene timer. Drawing continues.
func (s *Scene) Pause() {
	if s.state == SceneRunning {
		s.state = ScenePaused
	}
}

// Resume undoes Pause.
func (s *Scene) Resume() {
	if s.state == ScenePaused {
		s.state = SceneRunning
	}
}

// IsPaused reports whether the scene is paused.
func (s *Scene) IsPaused() bool { return s.state == ScenePaused }

// --- Sprites ---

// AddSprite places sp in the scene at (x, y). A z of 0 puts it above every
// sprite placed so far; any other z is kept. The sprite starts active when
// it asked to be, otherwise inactive. It reports false when the sprite is
// uninitialized or another sprite of the same name is placed.
func (s *Scene) AddSprite(sp *Sprite, x, y, z int) bool {
	if sp == nil || sp.state < 0 {
		return false
	}
	if sp.scene == s {
		return true
	}
	if other := s.Sprite(sp.Name); other != nil {
		logger.Warn("duplicate sprite name in scene", "scene", s.Name, "sprite", sp.Name)
		return false
	}
	if sp.scene != nil {
		sp.scene.RemoveSprite(sp)
	}
	sp.scene = s
	if z == 0 {
		z = s.topZ + 1
	}
	sp.z = z
	sp.x, sp.y = x, y
	sp.noteZ()
	sp.follow()
	sp.active = false
	s.inactive.add(sp)
	if sp.wantActive {
		sp.queued = false
		s.queueSettle(sp)
	}
	sp.computeRect()
	sp.markDirty()
	return true
}

// RemoveSprite takes sp out of the scene. A sprite in no group and not busy
// is destroyed.
func (s *Scene) RemoveSprite(sp *Sprite) {
	if sp == nil || sp.scene != s {
		return
	}
	sp.markDirty()
	if s.active.remove(sp) && sp.active {
		sp.active = false
		sp.fire(EventDeactive)
	}
	s.inactive.remove(sp)
	s.dropRefs(sp)
	sp.scene = nil
	sp.inView = false
	sp.maybeDestroy()
}

// dropRefs clears every scene reference to sp.
func (s *Scene) dropRefs(sp *Sprite) {
	s.dropInView(sp)
	for i, m := range s.settle {
		if m == sp {
			s.settle[i] = nil
		}
	}
	if s.modal == sp {
		s.modal = nil
	}
	if s.focus == sp {
		s.focus = nil
	}
	if s.pointer.hit == sp {
		s.pointer.hit = nil
		s.pointer.dragging = false
	}
	if s.pointer.hover == sp {
		s.pointer.hover = nil
	}
	if s.scroll.follow == sp {
		s.scroll.follow = nil
	}
	for _, slot := range [...]**Sprite{&s.first, &s.last, &s.cursor} {
		if *slot == sp {
			*slot = nil
		}
	}
}

// Sprite returns the placed sprite named name, or nil.
func (s *Scene) Sprite(name string) *Sprite {
	if sp := s.active.byName[name]; sp != nil {
		return sp
	}
	return s.inactive.byName[name]
}

// ActiveSprites returns the active set in insertion order. The returned
// slice MUST NOT be mutated by the caller.
func (s *Scene) ActiveSprites() []*Sprite { return s.active.list }

// InactiveSprites returns the inactive set in insertion order. The returned
// slice MUST NOT be mutated by the caller.
func (s *Scene) InactiveSprites() []*Sprite { return s.inactive.list }

// InViewSprites returns the sprites overlapping the view, sorted by
// (z, y, x). The returned slice MUST NOT be mutated by the caller.
func (s *Scene) InViewSprites() []*Sprite { return s.inView }

// SpriteCount returns the number of placed sprites.
func (s *Scene) SpriteCount() int { return len(s.active.list) + len(s.inactive.list) }

// Clear removes every placed sprite.
func (s *Scene) Clear() {
	for _, sp := range append(append([]*Sprite(nil), s.active.list...), s.inactive.list...) {
		s.RemoveSprite(sp)
	}
	s.topZ = 0
}

// --- Special sprites ---

// attachSpecial binds a sprite that lives outside the active set.
func (s *Scene) attachSpecial(slot **Sprite, sp *Sprite) {
	if old := *slot; old != nil && old != sp {
		old.scene = nil
		old.maybeDestroy()
	}
	*slot = sp
	if sp != nil {
		sp.scene = s
	}
}

// SetFirstSprite sets the sprite updated and drawn before all others.
func (s *Scene) SetFirstSprite(sp *Sprite) { s.attachSpecial(&s.first, sp) }

// SetLastSprite sets the sprite updated before the scene and drawn after all
// others. It sees key events before the scene does.
func (s *Scene) SetLastSprite(sp *Sprite) { s.attachSpecial(&s.last, sp) }

// SetMouseSprite sets the sprite that follows the pointer.
func (s *Scene) SetMouseSprite(sp *Sprite) { s.attachSpecial(&s.cursor, sp) }

// FirstSprite returns the first sprite, or nil.
func (s *Scene) FirstSprite() *Sprite { return s.first }

// LastSprite returns the last sprite, or nil.
func (s *Scene) LastSprite() *Sprite { return s.last }

// MouseSprite returns the pointer sprite, or nil.
func (s *Scene) MouseSprite() *Sprite { return s.cursor }

// SetModal restricts pointer input to sp and its descendants. nil clears it.
func (s *Scene) SetModal(sp *Sprite) { s.modal = sp }

// Modal returns the modal sprite, or nil.
func (s *Scene) Modal() *Sprite { return s.modal }

// SetFocus gives sp the keyboard focus.
func (s *Scene) SetFocus(sp *Sprite) { s.focus = sp }

// Focus returns the focus sprite, or nil.
func (s *Scene) Focus() *Sprite { return s.focus }

// DragSprite returns the sprite being dragged, or nil.
func (s *Scene) DragSprite() *Sprite {
	if s.pointer.dragging {
		return s.pointer.hit
	}
	return nil
}

// --- Timer ---

// SetTimer starts the scene timer. A non-positive interval stops it.
func (s *Scene) SetTimer(interval time.Duration) {
	s.timer.start(interval, s.now())
}

// StopTimer stops the scene timer.
func (s *Scene) StopTimer() { s.timer.stop() }

func (s *Scene) now() time.Duration {
	if s.engine == nil {
		return 0
	}
	return s.engine.now
}

// --- Activation settlement ---

// queueSettle schedules sp for the next settlement pass.
func (s *Scene) queueSettle(sp *Sprite) {
	if sp.queued {
		return
	}
	sp.queued = true
	s.settle = append(s.settle, sp)
}

// settleSprites moves queued sprites between the active and inactive sets,
// firing EventActive and EventDeactive on real changes. Handlers may queue
// more sprites; those are settled in further passes, up to maxSettlePasses.
func (s *Scene) settleSprites() {
	for pass := 0; pass < maxSettlePasses && len(s.settle) > 0; pass++ {
		batch := s.settle
		s.settle = nil
		for _, sp := range batch {
			if sp == nil {
				continue
			}
			sp.queued = false
			if sp.scene != s || sp.state < 0 || sp.wantActive == sp.active {
				continue
			}
			if sp.wantActive {
				s.inactive.remove(sp)
				s.active.add(sp)
				sp.active = true
				sp.fire(EventActive)
			} else {
				s.active.remove(sp)
				s.inactive.add(sp)
				sp.active = false
				sp.inView = false
				sp.markDirty()
				s.dropInView(sp)
				sp.fire(EventDeactive)
			}
		}
	}
	if len(s.settle) > 0 {
		logger.Warn("activation did not settle", "scene", s.Name, "pending", len(s.settle))
	}
}

func (s *Scene) dropInView(sp *Sprite) {
	for i, m := range s.inView {
		if m == sp {
			copy(s.inView[i:], s.inView[i+1:])
			s.inView[len(s.inView)-1] = nil
			s.inView = s.inView[:len(s.inView)-1]
			return
		}
	}
}

// --- Dirty tracking ---

// markDirtyWorld marks a scene-coordinate rect for background redraw.
func (s *Scene) markDirtyWorld(rc Rect) {
	if !s.PartialRedraw {
		return
	}
	rc = rc.Intersect(s.view)
	if rc.Empty() {
		return
	}
	s.dirty.add(rc)
}

// Redraw forces a full background redraw next frame.
func (s *Scene) Redraw() { s.dirty.markFull() }

// --- Lifecycle ---

// activate makes s the running scene.
func (s *Scene) activate() {
	s.state = SceneRunning
	s.dirty.markFull()
	s.fire(EventActive)
}

// deactivate stops s and releases pointer state.
func (s *Scene) deactivate() {
	s.state = SceneIdle
	s.pointer = pointerState{}
	s.fade.dir = fadeIdle
	s.fade.hold = false
	s.fire(EventDeactive)
}

// close destroys every sprite and releases the scene's resources.
func (s *Scene) close() {
	s.fire(EventFinalize)
	s.Clear()
	s.SetFirstSprite(nil)
	s.SetLastSprite(nil)
	s.SetMouseSprite(nil)
	s.Background.Release()
	s.Background = nil
	s.Map.Release()
	s.Map = nil
	s.light.release(s.engine)
	s.fade.release(s.engine)
	s.state = SceneUninitialized
	// A closed scene still in the init queue must not receive EventInit.
	s.initFired = true
}
