package coge

import (
	"strings"
	"testing"
)

func TestLightLayer(t *testing.T) {
	e, video, _ := newTestEngine(t, "")
	s := newRunningScene(t, e, "night")
	s.SetLighting(true, Color{0, 0, 0, 0.8})
	lamp := addBox(t, s, "lamp", 100, 100, 0, 20, 20)
	lamp.LightMap = NewShared("glow", NewLightCircle(video, 8), video.DelImage)
	addBox(t, s, "rock", 10, 10, 0, 20, 20)

	runFrames(t, e, 1)
	canvas := s.light.canvas
	if canvas == nil {
		t.Fatal("light canvas not created")
	}
	if w, h := canvas.Size(); w != 320 || h != 240 {
		t.Errorf("canvas %dx%d, want view size", w, h)
	}

	video.Reset()
	video.Record = true
	runFrames(t, e, 1)
	var erased []VideoCall
	overlay := 0
	for _, c := range video.Calls {
		if c.Op == "draw" && c.Dst == canvas {
			erased = append(erased, c)
		}
		if c.Op == "draw" && c.Src == canvas {
			overlay++
		}
	}
	if len(erased) != 1 || erased[0].X != 102 || erased[0].Y != 102 {
		t.Fatalf("light draws = %+v, want one centered on the lamp", erased)
	}
	if overlay != 1 {
		t.Errorf("overlay draws = %d, want 1", overlay)
	}
	if s.light.canvas != canvas {
		t.Error("canvas reallocated for an unchanged view")
	}

	s.SetLighting(false, Color{})
	video.Reset()
	runFrames(t, e, 1)
	for _, c := range video.Calls {
		if c.Src == canvas || c.Dst == canvas {
			t.Fatal("disabled light layer still drawn")
		}
	}
}

func TestLightCircle(t *testing.T) {
	video := NewHeadlessVideo(10, 10)
	img := NewLightCircle(video, 12)
	if w, h := img.Size(); w != 24 || h != 24 {
		t.Errorf("size %dx%d, want 24x24", w, h)
	}
	if img := NewLightCircle(video, 0); img == nil {
		t.Error("zero radius returned nil")
	}
}

func TestDebugOverlay(t *testing.T) {
	e, video, _ := newTestEngine(t, "")
	s := newRunningScene(t, e, "dbg")
	box := addBox(t, s, "box", 10, 10, 0, 20, 20)
	box.EnableCollision = true
	runFrames(t, e, 1)

	video.Reset()
	runFrames(t, e, 1)
	plain := video.Counts["fill"]

	e.SetDebug(true)
	video.Reset()
	runFrames(t, e, 1)
	// Two outlines of four edges plus the panel.
	if got := video.Counts["fill"] - plain; got != 9 {
		t.Errorf("debug fills = %d, want 9", got)
	}
	if video.Counts["text"] != 6 {
		t.Errorf("debug text lines = %d, want 6", video.Counts["text"])
	}

	dump := s.DumpScene()
	for _, want := range []string{"scene dbg", "view", "box", "active=true"} {
		if !strings.Contains(dump, want) {
			t.Errorf("DumpScene missing %q:\n%s", want, dump)
		}
	}
}
