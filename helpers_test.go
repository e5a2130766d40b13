package coge

import "testing"

// newTestEngine builds an initialized headless engine on a manual clock.
// conf is INI text; empty means no configuration.
func newTestEngine(t *testing.T, conf string) (*Engine, *HeadlessVideo, *ManualClock) {
	t.Helper()
	video := NewHeadlessVideo(320, 240)
	clock := &ManualClock{}
	e, err := NewEngine(Options{Video: video, Clock: clock})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	t.Cleanup(func() { e.Close() })

	var cfg Config
	if conf != "" {
		cfg, err = ParseConfig([]byte(conf), "ini", t.TempDir())
		if err != nil {
			t.Fatalf("ParseConfig: %v", err)
		}
	}
	if err := e.Initialize(cfg); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return e, video, clock
}

// newRunningScene registers a scene and makes it the active one.
func newRunningScene(t *testing.T, e *Engine, name string) *Scene {
	t.Helper()
	s, err := e.NewScene(name)
	if err != nil {
		t.Fatal(err)
	}
	if err := e.SetActiveScene(name); err != nil {
		t.Fatal(err)
	}
	return s
}

// addBox places a w x h input-enabled sprite at (x, y, z).
func addBox(t *testing.T, s *Scene, name string, x, y, z, w, h int) *Sprite {
	t.Helper()
	sp := s.Engine().NewSprite(name)
	sp.Width, sp.Height = w, h
	sp.EnableInput = true
	if !s.AddSprite(sp, x, y, z) {
		t.Fatalf("AddSprite(%s) failed", name)
	}
	return sp
}

func runFrames(t *testing.T, e *Engine, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if err := e.Frame(); err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
	}
}

// recorder counts events by kind.
type recorder struct {
	kinds []EventKind
}

func (r *recorder) handler(ev *Event) { r.kinds = append(r.kinds, ev.Kind) }

func (r *recorder) count(kind EventKind) int {
	n := 0
	for _, k := range r.kinds {
		if k == kind {
			n++
		}
	}
	return n
}

func (r *recorder) reset() { r.kinds = r.kinds[:0] }

func (r *recorder) watch(on func(EventKind, func(*Event)) CallbackHandle, kinds ...EventKind) {
	for _, k := range kinds {
		on(k, r.handler)
	}
}
