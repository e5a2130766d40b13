package coge

import (
	"time"
)

// spriteIDCounter is a plain counter (no atomic; the engine is single-threaded).
var spriteIDCounter uint32

func nextSpriteID() uint32 {
	spriteIDCounter++
	return spriteIDCounter
}

type customEvent struct {
	id, param int
}

// TextInput collects typed characters for a focused sprite.
type TextInput struct {
	Enabled bool
	MaxLen  int
	text    []rune
}

// Text returns the collected text.
func (t *TextInput) Text() string { return string(t.text) }

// SetText replaces the collected text.
func (t *TextInput) SetText(s string) { t.text = []rune(s) }

// feed applies typed characters and editing keys.
func (t *TextInput) feed(chars []rune, backspace bool) {
	if !t.Enabled {
		return
	}
	if backspace && len(t.text) > 0 {
		t.text = t.text[:len(t.text)-1]
	}
	for _, r := range chars {
		if r < ' ' {
			continue
		}
		if t.MaxLen > 0 && len(t.text) >= t.MaxLen {
			break
		}
		t.text = append(t.text, r)
	}
}

// Sprite is a drawable entity with position, z-order, animation state,
// timers, an optional plot and a parent/child hierarchy. A single flat struct
// is used for every sprite kind.
type Sprite struct {
	// Identity
	ID    uint32
	Name  string
	Class SpriteClass

	engine *Engine
	scene  *Scene
	group  *SpriteGroup

	// Hierarchy
	parent   *Sprite
	root     *Sprite
	children []*Sprite

	// Lifecycle: state < 0 is uninitialized.
	state      int
	active     bool
	wantActive bool
	busy       bool
	initFired  bool
	queued     bool

	// Position
	x, y, z    int
	relative   bool
	relX, relY int

	// Flags
	Visible         bool
	EnableAnima     bool
	EnableMovement  bool
	EnableCollision bool
	EnableInput     bool
	EnableFocus     bool
	EnableDrag      bool
	// DefaultDraw draws the default box even when an anima is set.
	DefaultDraw bool

	// Default box used when there is no anima.
	Width, Height int
	Color         Color
	// Image, when set, is drawn for the default box instead of a fill.
	Image *Shared[Image]

	// Drawing
	Alpha     float64
	Lightness int
	Scale     float64
	Rotation  float64
	FlipX     bool
	Blend     BlendMode

	// Animation
	animas    map[animaKey]*Anima
	anima     *Anima
	direction int
	action    int
	player    animaPlayer

	// Path
	path        *Path
	pathCursor  int
	pathDir     int
	PathOffsetX int
	PathOffsetY int
	// AutoStep advances the path every StepInterval.
	AutoStep     bool
	StepInterval time.Duration
	lastStep     time.Duration
	stepped      bool

	// Associations
	related       [MaxRelated]*Sprite
	relatedGroups [MaxRelated]*SpriteGroup
	LightMap      *Shared[Image]
	LightOffsetX  int
	LightOffsetY  int
	TextInput     *TextInput
	Data          *GameData
	UserData      any
	EntityID      uint32

	events     [MaxCustomEvents]customEvent
	eventCount int

	// Behavior
	Script       Script
	CommonScript Script
	hub          eventHub
	plot         Plot
	timer        timer
	effects      []*Effect

	// Computed each frame
	drawRect Rect
	inView   bool
}

// newSprite creates an initialized, visible sprite with default flags. It
// becomes active once placed in a scene.
func newSprite(e *Engine, name string) *Sprite {
	s := &Sprite{
		ID:             nextSpriteID(),
		Name:           name,
		engine:         e,
		wantActive:     true,
		Visible:        true,
		EnableAnima:    true,
		EnableMovement: true,
		Alpha:          1,
		Scale:          1,
		Color:          ColorWhite,
	}
	s.root = s
	return s
}

// Engine returns the owning engine.
func (s *Sprite) Engine() *Engine { return s.engine }

// Scene returns the scene the sprite is placed in, or nil.
func (s *Sprite) Scene() *Scene { return s.scene }

// Group returns the sprite's group, or nil.
func (s *Sprite) Group() *SpriteGroup { return s.group }

// State returns the lifecycle state; negative means uninitialized.
func (s *Sprite) State() int { return s.state }

// IsActive reports whether the sprite is in its scene's active set.
func (s *Sprite) IsActive() bool { return s.active }

// IsBusy reports whether the sprite is claimed by active use.
func (s *Sprite) IsBusy() bool { return s.busy }

// SetBusy claims or frees the sprite. A freed sprite that no longer belongs
// to a scene or group is destroyed.
func (s *Sprite) SetBusy(busy bool) {
	s.busy = busy
	if !busy {
		s.maybeDestroy()
	}
}

// On registers a handler for kind.
func (s *Sprite) On(kind EventKind, fn func(ev *Event)) CallbackHandle {
	return s.hub.on(kind, HandlerFunc(fn))
}

// handlerScript returns the script that handles kind: the local script
// overrides the common one.
func (s *Sprite) handlerScript(kind EventKind) Script {
	if s.Script != nil && s.Script.Handler(kind) != nil {
		return s.Script
	}
	return s.CommonScript
}

func (s *Sprite) newEvent(kind EventKind) Event {
	return Event{Kind: kind, Engine: s.engine, Scene: s.scene, Sprite: s}
}

// dispatch delivers ev to the sprite's script and handlers.
func (s *Sprite) dispatch(ev *Event) bool {
	if s.state < 0 {
		return false
	}
	ev.Sprite = s
	return s.hub.dispatch(s.handlerScript(ev.Kind), ev)
}

// fire dispatches a data-less event of kind.
func (s *Sprite) fire(kind EventKind) bool {
	ev := s.newEvent(kind)
	return s.dispatch(&ev)
}

// handles reports whether anything is bound to kind.
func (s *Sprite) handles(kind EventKind) bool {
	return s.hub.has(kind) || s.handlerScript(kind) != nil
}

// frozen reports whether engine freeze suppresses this sprite's update and
// input events.
func (s *Sprite) frozen() bool {
	if s.engine == nil || !s.engine.freeze {
		return false
	}
	if s.Class >= ClassWindow {
		return false
	}
	return !(s.plot.enabled && s.plot.state == PlotRunning)
}

// --- Activation ---

// SetActive requests moving the sprite between its scene's active and
// inactive sets. The change settles at the next scene settlement pass;
// EventActive/EventDeactive fire only when the settled state differs.
func (s *Sprite) SetActive(on bool) {
	if s.wantActive == on {
		return
	}
	s.wantActive = on
	if s.scene == nil {
		s.active = on
		return
	}
	s.scene.queueSettle(s)
}

// --- Animas ---

// AddAnima binds a to its (direction, action) pair, replacing a previous
// clip for the pair.
func (s *Sprite) AddAnima(a *Anima) {
	if a == nil {
		return
	}
	if s.animas == nil {
		s.animas = make(map[animaKey]*Anima)
	}
	k := animaKey{a.Direction, a.Action}
	if old := s.animas[k]; old != nil && old != a {
		if s.anima == old {
			s.anima = a
		}
		old.release()
	}
	s.animas[k] = a
}

// SetAnima selects the clip for (direction, action) and restarts playback
// when the clip changes. It reports false when no clip is bound to the pair.
func (s *Sprite) SetAnima(direction, action int) bool {
	a := s.animas[animaKey{direction, action}]
	if a == nil {
		logger.Warn("no anima", "sprite", s.Name, "direction", direction, "action", action)
		return false
	}
	s.direction, s.action = direction, action
	if a != s.anima {
		s.anima = a
		s.player.reset(s.now())
	}
	return true
}

// Anima returns the current clip, or nil.
func (s *Sprite) Anima() *Anima { return s.anima }

// Direction returns the current anima direction.
func (s *Sprite) Direction() int { return s.direction }

// Action returns the current anima action.
func (s *Sprite) Action() int { return s.action }

// Frame returns the current anima frame.
func (s *Sprite) Frame() int { return s.player.frame }

// SetFrame jumps to frame i of the current anima.
func (s *Sprite) SetFrame(i int) {
	if s.anima == nil || i < 0 || i >= s.anima.frames {
		return
	}
	s.player.frame = i
	s.player.finished = false
	s.player.frameStart = s.now()
}

// --- Related slots ---

// SetRelated stores sp in related slot i.
func (s *Sprite) SetRelated(i int, sp *Sprite) bool {
	if i < 0 || i >= MaxRelated {
		logger.Warn("related slot out of range", "sprite", s.Name, "slot", i)
		return false
	}
	s.related[i] = sp
	return true
}

// Related returns related slot i, or nil.
func (s *Sprite) Related(i int) *Sprite {
	if i < 0 || i >= MaxRelated {
		return nil
	}
	return s.related[i]
}

// SetRelatedGroup stores g in related group slot i.
func (s *Sprite) SetRelatedGroup(i int, g *SpriteGroup) bool {
	if i < 0 || i >= MaxRelated {
		logger.Warn("related group slot out of range", "sprite", s.Name, "slot", i)
		return false
	}
	s.relatedGroups[i] = g
	return true
}

// RelatedGroup returns related group slot i, or nil.
func (s *Sprite) RelatedGroup(i int) *SpriteGroup {
	if i < 0 || i >= MaxRelated {
		return nil
	}
	return s.relatedGroups[i]
}

// --- Custom events ---

// PostEvent queues a custom event delivered during the next scene update.
// It reports false when the queue is full.
func (s *Sprite) PostEvent(id, param int) bool {
	if s.eventCount >= MaxCustomEvents {
		return false
	}
	s.events[s.eventCount] = customEvent{id, param}
	s.eventCount++
	return true
}

// PendingEvents returns the number of queued custom events.
func (s *Sprite) PendingEvents() int { return s.eventCount }

// flushEvents fires EventCustom for every queued event in order. Events
// posted by the handlers wait for the next flush.
func (s *Sprite) flushEvents() {
	n := s.eventCount
	if n == 0 {
		return
	}
	var batch [MaxCustomEvents]customEvent
	copy(batch[:], s.events[:n])
	s.eventCount = 0
	for _, ce := range batch[:n] {
		ev := s.newEvent(EventCustom)
		ev.ID, ev.Param = ce.id, ce.param
		s.dispatch(&ev)
	}
}

// --- Timer and plot ---

// SetTimer starts a repeating timer firing EventTimerTime every interval.
// A non-positive interval stops it.
func (s *Sprite) SetTimer(interval time.Duration) {
	s.timer.start(interval, s.now())
}

// StopTimer stops the sprite timer.
func (s *Sprite) StopTimer() { s.timer.stop() }

// EnablePlot binds the plot of the local script, or of the common script
// when the local one has none, and starts round 0. rounds <= 0 runs without
// limit. It reports false when neither script has a plot.
func (s *Sprite) EnablePlot(rounds int) bool {
	var steps []PlotStep
	if s.Script != nil {
		steps = s.Script.Plot()
	}
	if len(steps) == 0 && s.CommonScript != nil {
		steps = s.CommonScript.Plot()
	}
	if !s.plot.enable(steps, rounds) {
		logger.Warn("no plot", "sprite", s.Name)
		return false
	}
	return true
}

// DisablePlot stops the plot.
func (s *Sprite) DisablePlot() { s.plot.disable() }

// Plot returns the sprite's plot state.
func (s *Sprite) Plot() *Plot { return &s.plot }

// ResumePlot wakes the plot when it is suspended on trigger.
func (s *Sprite) ResumePlot(trigger PlotAction) bool { return s.plot.resume(trigger) }

// now returns engine time, or zero for a detached sprite.
func (s *Sprite) now() time.Duration {
	if s.engine == nil {
		return 0
	}
	return s.engine.now
}

// --- Destruction ---

// maybeDestroy destroys the sprite once it belongs to neither a scene nor a
// group and is not busy.
func (s *Sprite) maybeDestroy() {
	if s.state < 0 || s.scene != nil || s.group != nil || s.busy {
		return
	}
	s.destroy()
}

// Free destroys a sprite that was never added to a scene or group. It has no
// effect on a sprite that still belongs to one, or is busy.
func (s *Sprite) Free() { s.maybeDestroy() }

func (s *Sprite) destroy() {
	s.fire(EventFinalize)
	s.state = -1
	if s.parent != nil {
		s.parent.RemoveChild(s)
	}
	for _, c := range append([]*Sprite(nil), s.children...) {
		s.RemoveChild(c)
	}
	for _, a := range s.animas {
		a.release()
	}
	s.animas = nil
	s.anima = nil
	s.Image.Release()
	s.Image = nil
	s.LightMap.Release()
	s.LightMap = nil
	s.related = [MaxRelated]*Sprite{}
	s.relatedGroups = [MaxRelated]*SpriteGroup{}
	s.path = nil
	s.StopEffects()
	s.plot.disable()
	s.timer.stop()
	if s.engine != nil {
		s.engine.forgetSprite(s)
	}
}
