package coge

import (
	"errors"
	"testing"
	"time"
)

func TestNewEngineSingleInstance(t *testing.T) {
	e, _, _ := newTestEngine(t, "")
	if _, err := NewEngine(Options{}); !errors.Is(err, ErrEngineExists) {
		t.Fatalf("second NewEngine err = %v, want ErrEngineExists", err)
	}
	e.Close()
	e2, err := NewEngine(Options{})
	if err != nil {
		t.Fatalf("NewEngine after Close: %v", err)
	}
	e2.Close()
}

func TestInitializeWithoutVideo(t *testing.T) {
	e, err := NewEngine(Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()
	if err := e.Initialize(nil); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Initialize err = %v, want ErrNotInitialized", err)
	}
	if e.State() >= 0 {
		t.Errorf("State = %d, want negative", e.State())
	}
	if err := e.Frame(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Frame err = %v, want ErrNotInitialized", err)
	}
	if err := e.Run(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Run err = %v, want ErrNotInitialized", err)
	}
}

func TestInitializeReadsEngineSection(t *testing.T) {
	e, _, _ := newTestEngine(t, "[engine]\nname = demo\ncps = 25\ndebug = true\n")
	if e.Name != "demo" {
		t.Errorf("Name = %q, want demo", e.Name)
	}
	if e.CPS() != 25 {
		t.Errorf("CPS = %d, want 25", e.CPS())
	}
	if !e.Debug() {
		t.Error("Debug = false, want true")
	}
}

func TestInitializeTwice(t *testing.T) {
	e, _, _ := newTestEngine(t, "[engine]\nscene = main\n")
	main := e.ActiveScene()
	if main == nil || main.Name != "main" {
		t.Fatalf("active scene = %v, want main", main)
	}
	masks := len(e.masks)
	if err := e.Initialize(e.Config()); !errors.Is(err, ErrAlreadyInitialized) {
		t.Fatalf("second Initialize err = %v, want ErrAlreadyInitialized", err)
	}
	if e.State() != 0 {
		t.Errorf("State = %d, want 0", e.State())
	}
	if len(e.masks) != masks || e.ActiveScene() != main {
		t.Errorf("second Initialize changed the engine: masks %d -> %d", masks, len(e.masks))
	}
	runFrames(t, e, 1)
}

func TestEngineInitFiresOnce(t *testing.T) {
	e, _, _ := newTestEngine(t, "")
	var rec recorder
	e.On(EventInit, rec.handler)
	runFrames(t, e, 3)
	if n := rec.count(EventInit); n != 1 {
		t.Errorf("EventInit fired %d times, want 1", n)
	}
}

func TestFramePacing(t *testing.T) {
	e, _, clock := newTestEngine(t, "[engine]\ncps = 30\n")
	runFrames(t, e, 100)
	if e.Delta() != 33*time.Millisecond {
		t.Errorf("Delta = %v, want 33ms", e.Delta())
	}
	if got := e.MeasuredCPS(); got < 29 || got > 31 {
		t.Errorf("MeasuredCPS = %d, want about 30", got)
	}
	if clock.Now() != 100*33*time.Millisecond {
		t.Errorf("clock = %v, want %v", clock.Now(), 100*33*time.Millisecond)
	}
	if e.Frames() != 100 {
		t.Errorf("Frames = %d, want 100", e.Frames())
	}
}

func TestUncappedFrames(t *testing.T) {
	e, _, clock := newTestEngine(t, "")
	e.SetCPS(0)
	runFrames(t, e, 10)
	if clock.Now() != 0 {
		t.Errorf("uncapped loop slept %v", clock.Now())
	}
	e.SetCPS(-5)
	if e.CPS() != 0 {
		t.Errorf("CPS = %d, want 0", e.CPS())
	}
}

func TestQuitEndsRun(t *testing.T) {
	e, _, _ := newTestEngine(t, "")
	var rec recorder
	e.On(EventFinalize, rec.handler)
	e.On(EventUpdate, func(ev *Event) {
		if ev.Engine.Frames() == 5 {
			ev.Engine.Quit(3)
		}
	})
	if err := e.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if e.Frames() != 5 {
		t.Errorf("Frames = %d, want 5", e.Frames())
	}
	if e.ExitCode() != 3 {
		t.Errorf("ExitCode = %d, want 3", e.ExitCode())
	}
	e.Close()
	if n := rec.count(EventFinalize); n != 1 {
		t.Errorf("EventFinalize fired %d times, want 1", n)
	}
	if err := e.Frame(); err == nil {
		t.Error("Frame after Close should fail")
	}
}

func TestInputQuitEndsRun(t *testing.T) {
	video := NewHeadlessVideo(64, 64)
	in := &HeadlessInput{}
	frames := 0
	in.OnPoll = func(*InputState) {
		frames++
		if frames == 4 {
			in.Quit = true
		}
	}
	e, err := NewEngine(Options{Video: video, Input: in, Clock: &ManualClock{}})
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()
	if err := e.Initialize(nil); err != nil {
		t.Fatal(err)
	}
	if err := e.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if e.Frames() != 4 {
		t.Errorf("Frames = %d, want 4", e.Frames())
	}
	if in.closed != 2 {
		t.Errorf("input closed %d times, want text input and joysticks", in.closed)
	}
}

func TestLoopDriverMaxFrames(t *testing.T) {
	video := NewHeadlessVideo(64, 64)
	e, err := NewEngine(Options{Video: video, Clock: &ManualClock{}, Driver: LoopDriver{MaxFrames: 7}})
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()
	if err := e.Initialize(nil); err != nil {
		t.Fatal(err)
	}
	if err := e.Run(); err != nil {
		t.Fatal(err)
	}
	if e.Frames() != 7 {
		t.Errorf("Frames = %d, want 7", e.Frames())
	}
}

func TestSetActiveScene(t *testing.T) {
	e, _, _ := newTestEngine(t, "")
	a := newRunningScene(t, e, "a")
	b, _ := e.NewScene("b")

	if e.ActiveScene() != a || a.State() != SceneRunning {
		t.Fatalf("first scene not running at once")
	}
	var recA, recB recorder
	recA.watch(a.On, EventActive, EventDeactive)
	recB.watch(b.On, EventActive, EventDeactive)

	if err := e.SetActiveScene("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing scene err = %v, want ErrNotFound", err)
	}
	if err := e.SetActiveScene("a"); err != nil || len(recA.kinds) != 0 {
		t.Errorf("re-activating the running scene should do nothing")
	}

	if err := e.SetActiveScene("b"); err != nil {
		t.Fatal(err)
	}
	if e.ActiveScene() != a {
		t.Fatal("switch committed before the frame ended")
	}
	runFrames(t, e, 1)
	if e.ActiveScene() != b || e.LastActiveScene() != a {
		t.Fatal("switch to b did not commit at the end of the frame")
	}
	if recA.count(EventDeactive) != 1 || recB.count(EventActive) != 1 {
		t.Errorf("a events %v, b events %v", recA.kinds, recB.kinds)
	}
	if a.State() != SceneIdle {
		t.Errorf("old scene state = %v, want idle", a.State())
	}
	if e.RemoveScene("b") {
		t.Error("running scene must not be removable")
	}
	if !e.RemoveScene("a") || e.Scene("a") != nil || e.LastActiveScene() != nil {
		t.Error("RemoveScene(a) did not unregister it")
	}
}

func TestDuplicateScene(t *testing.T) {
	e, _, _ := newTestEngine(t, "")
	e.NewScene("x")
	if _, err := e.NewScene("x"); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("err = %v, want ErrDuplicateName", err)
	}
}

func TestSceneInitBeforeFirstUpdate(t *testing.T) {
	e, _, _ := newTestEngine(t, "")
	s, _ := e.NewScene("s")
	var order []EventKind
	s.On(EventInit, func(ev *Event) { order = append(order, ev.Kind) })
	s.On(EventActive, func(ev *Event) { order = append(order, ev.Kind) })
	s.On(EventUpdate, func(ev *Event) { order = append(order, ev.Kind) })
	e.SetActiveScene("s")
	runFrames(t, e, 2)
	want := []EventKind{EventInit, EventActive, EventUpdate, EventUpdate}
	if len(order) != len(want) {
		t.Fatalf("events = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("event %d = %v, want %v", i, order[i], want[i])
		}
	}
}

func TestNetworkEventsReachEngineAndScene(t *testing.T) {
	net := &QueueNetwork{}
	e, err := NewEngine(Options{Video: NewHeadlessVideo(64, 64), Clock: &ManualClock{}, Network: net})
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()
	e.Initialize(nil)
	s := newRunningScene(t, e, "lobby")

	var got []string
	e.On(EventNetReceive, func(ev *Event) { got = append(got, "engine:"+string(ev.Net.Data)) })
	s.On(EventNetReceive, func(ev *Event) { got = append(got, "scene:"+string(ev.Net.Data)) })
	var accepted int
	e.On(EventNetAccept, func(ev *Event) { accepted = ev.Net.Peer })

	net.Push(NetEvent{Kind: NetAccept, Peer: 7})
	net.Push(NetEvent{Kind: NetReceive, Peer: 7, Data: []byte("hi")})
	runFrames(t, e, 1)

	if accepted != 7 {
		t.Errorf("accepted peer = %d, want 7", accepted)
	}
	if len(got) != 2 || got[0] != "engine:hi" || got[1] != "scene:hi" {
		t.Errorf("received = %v, want engine then scene", got)
	}
	if err := e.Network().Send(7, []byte("pong")); err != nil || len(net.Sent[7]) != 1 {
		t.Errorf("Send recorded %v, err %v", net.Sent, err)
	}
}

func TestFreezeStopsNormalSprites(t *testing.T) {
	e, _, _ := newTestEngine(t, "")
	s := newRunningScene(t, e, "s")
	normal := addBox(t, s, "normal", 0, 0, 0, 10, 10)
	window := addBox(t, s, "window", 20, 0, 0, 10, 10)
	window.Class = ClassWindow
	var nUpd, wUpd int
	normal.On(EventUpdate, func(*Event) { nUpd++ })
	window.On(EventUpdate, func(*Event) { wUpd++ })

	e.SetFreeze(true)
	runFrames(t, e, 3)
	if nUpd != 0 {
		t.Errorf("frozen normal sprite updated %d times", nUpd)
	}
	if wUpd != 3 {
		t.Errorf("window sprite updated %d times, want 3", wUpd)
	}
	e.SetFreeze(false)
	runFrames(t, e, 1)
	if nUpd != 1 {
		t.Errorf("thawed sprite updated %d times, want 1", nUpd)
	}
}
