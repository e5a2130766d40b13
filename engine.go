package coge

import (
	"sync"
	"time"
)

// Options wires the back-ends an Engine runs on. Nil services fall back to
// headless defaults, except Video: an engine without video initializes with
// a negative state and refuses to run.
type Options struct {
	Video    Video
	Audio    Audio
	Input    InputSource
	Driver   Driver
	Clock    Clock
	Network  Network
	Database Database
}

// Engine owns the scene registry, the resource registries, the back-ends and
// the frame loop. Only one engine may be live at a time.
type Engine struct {
	Name string

	// Script receives engine-level events (EventInit, EventUpdate,
	// EventFinalize, network events).
	Script Script
	hub    eventHub

	video  Video
	audio  Audio
	input  InputSource
	driver Driver
	clock  Clock
	net    Network
	db     Database
	cfg    Config

	state    int
	quit     bool
	exitCode int
	freeze   bool
	debug    bool
	debugFnt Font

	in          InputState
	injectQueue []syntheticEvent
	runner      *TestRunner

	scenes map[string]*Scene
	active *Scene
	last   *Scene
	next   *Scene
	groups map[string]*SpriteGroup

	images  map[string]*Shared[Image]
	sounds  map[string]*Shared[Sound]
	fonts   map[string]*Shared[Font]
	scripts map[string]Script
	paths   map[string]*Path
	maps    map[string]*Shared[*GameMap]
	data    map[string]*GameData
	masks   []*Shared[Image]

	// Timing. now is sampled once per frame.
	now      time.Duration
	delta    time.Duration
	lastTick time.Duration
	started  time.Duration
	cps      int
	frames   uint64
	measure  cpsMeter

	liveSprites int
	initQueue   []initItem
	initFired   bool
	shut        bool
}

type initItem struct {
	sprite *Sprite
	scene  *Scene
}

var (
	liveMu     sync.Mutex
	liveEngine *Engine
)

// NewEngine creates the engine. It fails with ErrEngineExists while another
// engine is live; Close releases the slot.
func NewEngine(opts Options) (*Engine, error) {
	liveMu.Lock()
	defer liveMu.Unlock()
	if liveEngine != nil {
		logger.Error("engine already running", "name", liveEngine.Name)
		return nil, ErrEngineExists
	}
	e := &Engine{
		Name:    "coge",
		video:   opts.Video,
		audio:   opts.Audio,
		input:   opts.Input,
		driver:  opts.Driver,
		clock:   opts.Clock,
		net:     opts.Network,
		db:      opts.Database,
		state:   -1,
		scenes:  make(map[string]*Scene),
		groups:  make(map[string]*SpriteGroup),
		images:  make(map[string]*Shared[Image]),
		sounds:  make(map[string]*Shared[Sound]),
		fonts:   make(map[string]*Shared[Font]),
		scripts: make(map[string]Script),
		paths:   make(map[string]*Path),
		maps:    make(map[string]*Shared[*GameMap]),
		data:    make(map[string]*GameData),
	}
	if e.input == nil {
		e.input = &HeadlessInput{}
	}
	if e.driver == nil {
		e.driver = LoopDriver{}
	}
	if e.clock == nil {
		e.clock = NewSystemClock()
	}
	if e.net == nil {
		e.net = NopNetwork{}
	}
	liveEngine = e
	return e, nil
}

// Initialize reads the [engine] section of cfg and prepares the first
// frame. A nil cfg uses defaults. Without a video back-end the engine stays
// uninitialized. Calling it on an initialized engine fails with
// ErrAlreadyInitialized and changes nothing.
func (e *Engine) Initialize(cfg Config) error {
	if e.state >= 0 {
		logger.Error("initialize: engine already initialized", "engine", e.Name)
		return ErrAlreadyInitialized
	}
	if e.video == nil {
		logger.Error("initialize: no video back-end")
		e.state = -1
		return ErrNotInitialized
	}
	e.cfg = cfg
	e.SetCPS(defaultCPS)
	if cfg != nil {
		e.Name = cfg.ReadString("engine", "name", e.Name)
		e.SetCPS(cfg.ReadInteger("engine", "cps", defaultCPS))
		e.debug = cfg.ReadBool("engine", "debug", false)
		for _, name := range splitList(cfg.ReadString("engine", "masks", "")) {
			img, err := e.LoadImage(name)
			if err != nil {
				logger.Warn("fade mask skipped", "image", name, "err", err)
				continue
			}
			e.masks = append(e.masks, img.Acquire())
		}
	}
	e.started = e.clock.Now()
	e.now = e.started
	e.lastTick = e.started
	e.measure.reset(e.started)
	e.state = 0
	e.queueInit(nil, nil)

	if cfg != nil {
		if first := cfg.ReadString("engine", "scene", ""); first != "" {
			if _, err := e.LoadScene(first); err != nil {
				e.state = -1
				return err
			}
			if err := e.SetActiveScene(first); err != nil {
				e.state = -1
				return err
			}
		}
	}
	logger.Info("engine initialized", "name", e.Name, "cps", e.cps, "video", e.video.Mode().Backend)
	return nil
}

// State returns the engine state; negative means uninitialized.
func (e *Engine) State() int { return e.state }

// Config returns the configuration passed to Initialize.
func (e *Engine) Config() Config { return e.cfg }

// Video returns the video back-end.
func (e *Engine) Video() Video { return e.video }

// Audio returns the audio back-end, or nil.
func (e *Engine) Audio() Audio { return e.audio }

// Network returns the network back-end.
func (e *Engine) Network() Network { return e.net }

// Database returns the database back-end, or nil.
func (e *Engine) Database() Database { return e.db }

// Clock returns the engine clock.
func (e *Engine) Clock() Clock { return e.clock }

// Now returns the engine time sampled at the start of the current frame.
func (e *Engine) Now() time.Duration { return e.now }

// Delta returns the time between the last two frames.
func (e *Engine) Delta() time.Duration { return e.delta }

// Frames returns the number of frames run.
func (e *Engine) Frames() uint64 { return e.frames }

// On registers an engine-level handler.
func (e *Engine) On(kind EventKind, fn func(ev *Event)) CallbackHandle {
	return e.hub.on(kind, HandlerFunc(fn))
}

func (e *Engine) fire(kind EventKind) {
	ev := Event{Kind: kind, Engine: e}
	e.hub.dispatch(e.Script, &ev)
}

// SetFreeze stops updates and input for sprites below ClassWindow, except
// sprites with a running plot.
func (e *Engine) SetFreeze(on bool) { e.freeze = on }

// IsFrozen reports whether the engine is frozen.
func (e *Engine) IsFrozen() bool { return e.freeze }

// SetDebug turns the debug overlay on or off.
func (e *Engine) SetDebug(on bool) {
	e.debug = on
	if e.active != nil {
		e.active.Redraw()
	}
}

// Debug reports whether the debug overlay is on.
func (e *Engine) Debug() bool { return e.debug }

// Quit ends the run after the current frame with the given exit code.
func (e *Engine) Quit(code int) {
	e.quit = true
	e.exitCode = code
}

// ExitCode returns the code passed to Quit.
func (e *Engine) ExitCode() int { return e.exitCode }

// Terminate ends the run after the current frame with exit code 0.
func (e *Engine) Terminate() { e.Quit(0) }

// --- Scenes ---

// Scene returns the scene registered under name, or nil.
func (e *Engine) Scene(name string) *Scene { return e.scenes[name] }

// Scenes returns every registered scene name.
func (e *Engine) Scenes() []string {
	names := make([]string, 0, len(e.scenes))
	for n := range e.scenes {
		names = append(names, n)
	}
	return names
}

// ActiveScene returns the running scene, or nil.
func (e *Engine) ActiveScene() *Scene { return e.active }

// LastActiveScene returns the scene that ran before the current one.
func (e *Engine) LastActiveScene() *Scene { return e.last }

// SetActiveScene schedules a switch to the named scene. With no running
// scene the switch happens at once; otherwise it commits at the end of the
// running scene's frame, or when its fade-out completes.
func (e *Engine) SetActiveScene(name string) error {
	s, ok := e.scenes[name]
	if !ok {
		logger.Warn("set active scene", "name", name, "err", ErrNotFound)
		return errNotFound("scene", name)
	}
	if s == e.active {
		e.next = nil
		return nil
	}
	e.next = s
	if e.active == nil {
		e.commitSwitch()
	}
	return nil
}

// commitSwitch makes the pending scene the active one.
func (e *Engine) commitSwitch() {
	next := e.next
	if next == nil {
		return
	}
	e.next = nil
	old := e.active
	if old != nil {
		old.deactivate()
		e.last = old
	}
	e.active = next
	e.settleInit()
	next.activate()
	logger.Debug("scene switched", "to", next.Name)
}

// RemoveScene closes and unregisters the named scene. The running scene
// cannot be removed.
func (e *Engine) RemoveScene(name string) bool {
	s, ok := e.scenes[name]
	if !ok || s == e.active {
		return false
	}
	if e.next == s {
		e.next = nil
	}
	if e.last == s {
		e.last = nil
	}
	s.close()
	delete(e.scenes, name)
	return true
}

// --- Sprites ---

// NewSprite creates a blank, visible sprite. EventInit fires before its
// first update.
func (e *Engine) NewSprite(name string) *Sprite {
	sp := newSprite(e, name)
	e.liveSprites++
	e.queueInit(sp, nil)
	return sp
}

// LiveSprites returns the number of sprites created and not yet destroyed.
func (e *Engine) LiveSprites() int { return e.liveSprites }

// forgetSprite drops engine bookkeeping for a destroyed sprite.
func (e *Engine) forgetSprite(sp *Sprite) {
	e.liveSprites--
	for i := range e.initQueue {
		if e.initQueue[i].sprite == sp {
			e.initQueue[i].sprite = nil
		}
	}
}

// --- Init settlement ---

// queueInit schedules EventInit for a new sprite or scene. Both nil queues
// the engine's own init.
func (e *Engine) queueInit(sp *Sprite, sc *Scene) {
	e.initQueue = append(e.initQueue, initItem{sprite: sp, scene: sc})
}

// settleInit fires EventInit on everything created since the last frame.
// Handlers may create more objects; those are settled in the same call.
func (e *Engine) settleInit() {
	for pass := 0; pass < maxSettlePasses && len(e.initQueue) > 0; pass++ {
		batch := e.initQueue
		e.initQueue = nil
		for _, it := range batch {
			switch {
			case it.sprite != nil:
				if sp := it.sprite; !sp.initFired && sp.state >= 0 {
					sp.initFired = true
					sp.fire(EventInit)
				}
			case it.scene != nil:
				if sc := it.scene; !sc.initFired {
					sc.initFired = true
					sc.fire(EventInit)
				}
			default:
				if !e.initFired {
					e.initFired = true
					e.fire(EventInit)
				}
			}
		}
	}
}

// --- Teardown ---

// Close shuts the engine down: scenes, groups and registries are released,
// the back-ends are closed and the live-engine slot is freed.
func (e *Engine) Close() error {
	e.shutdown()

	if e.active != nil {
		e.active.deactivate()
	}
	e.active, e.last, e.next = nil, nil, nil
	for name, s := range e.scenes {
		s.close()
		delete(e.scenes, name)
	}
	for name, g := range e.groups {
		g.Close()
		delete(e.groups, name)
	}
	e.releaseResources()

	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if e.audio != nil {
		keep(e.audio.Close())
	}
	if e.net != nil {
		keep(e.net.Close())
	}
	if e.db != nil {
		keep(e.db.Close())
	}
	e.state = -1

	liveMu.Lock()
	if liveEngine == e {
		liveEngine = nil
	}
	liveMu.Unlock()
	return firstErr
}

// shutdown stops input and audio and fires EventFinalize once.
func (e *Engine) shutdown() {
	if e.shut {
		return
	}
	e.shut = true
	if e.input != nil {
		e.input.CloseTextInput()
	}
	if e.audio != nil {
		e.audio.StopAll()
	}
	if e.input != nil {
		e.input.CloseJoysticks()
	}
	e.fire(EventFinalize)
}
