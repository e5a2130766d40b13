package coge

import (
	"errors"
	"testing"
	"time"
)

func TestNewAnimaValidation(t *testing.T) {
	tests := []struct {
		name string
		def  AnimaDef
		want error
	}{
		{"no frame size", AnimaDef{Local: RectWH(0, 0, 32, 16)}, ErrBadConfig},
		{"empty area", AnimaDef{FrameWidth: 16, FrameHeight: 16}, ErrBadConfig},
		{"ragged width", AnimaDef{Local: RectWH(0, 0, 40, 16), FrameWidth: 16, FrameHeight: 16}, ErrAnimaArea},
		{"ragged height", AnimaDef{Local: RectWH(0, 0, 32, 20), FrameWidth: 16, FrameHeight: 16}, ErrAnimaArea},
		{"effects mismatch", AnimaDef{Local: RectWH(0, 0, 32, 16), FrameWidth: 16, FrameHeight: 16, Effects: make([]EffectSet, 3)}, ErrBadConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewAnima(tt.def, nil); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestAnimaFrames(t *testing.T) {
	a, err := NewAnima(AnimaDef{
		Local:       RectWH(8, 4, 48, 32),
		FrameWidth:  16,
		FrameHeight: 16,
		FrameCount:  5,
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if a.FrameCount() != 5 {
		t.Errorf("FrameCount = %d, want 5", a.FrameCount())
	}
	tests := []struct {
		frame int
		want  Rect
	}{
		{0, Rect{8, 4, 24, 20}},
		{2, Rect{40, 4, 56, 20}},
		{3, Rect{8, 20, 24, 36}},
		{9, Rect{8, 4, 24, 20}},
	}
	for _, tt := range tests {
		if got := a.FrameRect(tt.frame); got != tt.want {
			t.Errorf("FrameRect(%d) = %v, want %v", tt.frame, got, tt.want)
		}
	}
	if a.Body() != (Rect{0, 0, 16, 16}) {
		t.Errorf("default body = %v", a.Body())
	}
}

func TestAnimaPlayer(t *testing.T) {
	ms := time.Millisecond
	a, _ := NewAnima(AnimaDef{Local: RectWH(0, 0, 48, 16), FrameWidth: 16, FrameHeight: 16, Interval: 100 * ms}, nil)

	var p animaPlayer
	p.reset(0)
	if p.advance(a, 99*ms) || p.frame != 0 {
		t.Fatalf("frame %d before interval", p.frame)
	}
	p.advance(a, 250*ms)
	if p.frame != 2 {
		t.Fatalf("frame = %d, want 2", p.frame)
	}
	if !p.advance(a, 300*ms) {
		t.Error("one-shot anima did not report finished")
	}
	if p.advance(a, 900*ms) || p.frame != 2 {
		t.Error("finished anima kept playing")
	}

	a.autoReplay = true
	a.gap = 50 * ms
	p.reset(0)
	p.advance(a, 300*ms)
	if !p.waiting {
		t.Fatal("replay gap not entered")
	}
	p.advance(a, 340*ms)
	if !p.waiting {
		t.Error("gap ended early")
	}
	p.advance(a, 350*ms)
	if p.waiting || p.frame != 0 {
		t.Errorf("after gap waiting %v frame %d", p.waiting, p.frame)
	}
}

func TestSpriteAnimaSelection(t *testing.T) {
	e, _, _ := newTestEngine(t, "")
	sp := e.NewSprite("hero")
	walk, _ := NewAnima(AnimaDef{Name: "walk", Action: 1, Local: RectWH(0, 0, 32, 32), FrameWidth: 32, FrameHeight: 32, RootX: 16, RootY: 32}, nil)
	idle, _ := NewAnima(AnimaDef{Name: "idle", Local: RectWH(0, 0, 32, 32), FrameWidth: 32, FrameHeight: 32}, nil)
	sp.AddAnima(walk)
	sp.AddAnima(idle)
	if sp.SetAnima(2, 2) {
		t.Error("unbound pair selected")
	}
	if !sp.SetAnima(0, 1) || sp.Anima() != walk || sp.Action() != 1 {
		t.Fatal("walk not selected")
	}
	sp.SetPos(100, 100)
	sp.computeRect()
	if sp.DrawRect() != (Rect{84, 68, 116, 100}) {
		t.Errorf("draw rect = %v, want root-anchored frame", sp.DrawRect())
	}
}
