package coge

import (
	"errors"
	"testing"
)

func newGroup(t *testing.T, e *Engine, name string, members ...string) *SpriteGroup {
	t.Helper()
	g, err := e.NewSpriteGroup(name)
	if err != nil {
		t.Fatal(err)
	}
	for _, m := range members {
		if !g.Add(e.NewSprite(m)) {
			t.Fatalf("Add(%s) failed", m)
		}
	}
	return g
}

func TestNewSpriteGroupDuplicate(t *testing.T) {
	e, _, _ := newTestEngine(t, "")
	g := newGroup(t, e, "enemies")
	if _, err := e.NewSpriteGroup("enemies"); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("duplicate group err = %v, want ErrDuplicateName", err)
	}
	if e.SpriteGroup("enemies") != g {
		t.Error("SpriteGroup lookup lost the first group")
	}
	g.Close()
	if e.SpriteGroup("enemies") != nil {
		t.Error("closed group still registered")
	}
}

func TestSpriteGroupAttachTo(t *testing.T) {
	e, _, _ := newTestEngine(t, "")
	s1 := newRunningScene(t, e, "s1")
	s2, err := e.NewScene("s2")
	if err != nil {
		t.Fatal(err)
	}
	g := newGroup(t, e, "enemies", "e1", "e2")
	g.Sprites()[0].SetPos(10, 20)

	g.AttachTo(s1)
	if g.Scene() != s1 || s1.SpriteCount() != 2 {
		t.Fatalf("scene = %v count = %d, want both members in s1", g.Scene(), s1.SpriteCount())
	}
	if x, y := g.Sprites()[0].Pos(); x != 10 || y != 20 {
		t.Errorf("member at (%d, %d), want its position kept", x, y)
	}

	g.AttachTo(s2)
	if s1.SpriteCount() != 0 || s2.SpriteCount() != 2 {
		t.Errorf("counts s1 = %d s2 = %d, want members moved to s2", s1.SpriteCount(), s2.SpriteCount())
	}
	if e.LiveSprites() != 2 {
		t.Errorf("LiveSprites = %d, moving scenes destroyed a member", e.LiveSprites())
	}

	late := e.NewSprite("e3")
	g.Add(late)
	if late.Scene() != s2 {
		t.Error("member added to an attached group did not join its scene")
	}

	g.AttachTo(nil)
	if g.Scene() != nil || s2.SpriteCount() != 0 {
		t.Error("AttachTo(nil) did not detach")
	}
}

func TestSpriteGroupDetach(t *testing.T) {
	e, _, _ := newTestEngine(t, "")
	s := newRunningScene(t, e, "s")
	g := newGroup(t, e, "bullets", "b1", "b2", "b3")
	g.AttachTo(s)
	runFrames(t, e, 1)

	g.Detach()
	if g.Scene() != nil || s.SpriteCount() != 0 {
		t.Fatalf("scene = %v count = %d after Detach", g.Scene(), s.SpriteCount())
	}
	if g.Len() != 3 || e.LiveSprites() != 3 {
		t.Errorf("len = %d live = %d, want members kept alive", g.Len(), e.LiveSprites())
	}
	for _, sp := range g.Sprites() {
		if sp.Scene() != nil || sp.Group() != g {
			t.Errorf("%s scene = %v group = %v", sp.Name, sp.Scene(), sp.Group())
		}
	}
	runFrames(t, e, 1)
}

func TestSpriteGroupFreeSprite(t *testing.T) {
	e, _, _ := newTestEngine(t, "")
	g := newGroup(t, e, "pool", "p1", "p2")

	a, b := g.FreeSprite(), g.FreeSprite()
	if a == nil || b == nil || a == b {
		t.Fatalf("FreeSprite = %v, %v, want two distinct members", a, b)
	}
	if !a.IsBusy() || !b.IsBusy() {
		t.Error("claimed members not busy")
	}
	if g.FreeSprite() != nil {
		t.Error("FreeSprite returned a member while every one is busy")
	}
	a.SetBusy(false)
	if a.State() < 0 {
		t.Fatal("freeing a group member destroyed it")
	}
	if got := g.FreeSprite(); got != a {
		t.Errorf("FreeSprite = %v, want the released member", got)
	}
}

func TestSpriteDestroyedOutsideSceneAndGroup(t *testing.T) {
	tests := []struct {
		name  string
		steps func(s *Scene, g *SpriteGroup, sp *Sprite) []bool // alive after each step
		want  []bool
	}{
		{
			name: "scene then group",
			steps: func(s *Scene, g *SpriteGroup, sp *Sprite) []bool {
				s.RemoveSprite(sp)
				r := []bool{sp.State() >= 0}
				g.Remove(sp)
				return append(r, sp.State() >= 0)
			},
			want: []bool{true, false},
		},
		{
			name: "group then scene",
			steps: func(s *Scene, g *SpriteGroup, sp *Sprite) []bool {
				g.Remove(sp)
				r := []bool{sp.State() >= 0}
				s.RemoveSprite(sp)
				return append(r, sp.State() >= 0)
			},
			want: []bool{true, false},
		},
		{
			name: "cleared group",
			steps: func(s *Scene, g *SpriteGroup, sp *Sprite) []bool {
				g.Clear()
				r := []bool{sp.State() >= 0}
				s.Clear()
				return append(r, sp.State() >= 0)
			},
			want: []bool{true, false},
		},
		{
			name: "busy member",
			steps: func(s *Scene, g *SpriteGroup, sp *Sprite) []bool {
				sp.SetBusy(true)
				s.RemoveSprite(sp)
				g.Remove(sp)
				r := []bool{sp.State() >= 0}
				sp.SetBusy(false)
				return append(r, sp.State() >= 0)
			},
			want: []bool{true, false},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _, _ := newTestEngine(t, "")
			s := newRunningScene(t, e, "s")
			g := newGroup(t, e, "g", "m")
			sp := g.Sprites()[0]
			g.AttachTo(s)
			got := tt.steps(s, g, sp)
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("step %d alive = %v, want %v", i, got[i], tt.want[i])
				}
			}
			if sp.State() < 0 && e.LiveSprites() != 0 {
				t.Errorf("LiveSprites = %d after destruction", e.LiveSprites())
			}
		})
	}
}

func TestSpriteGroupMoveBetweenGroups(t *testing.T) {
	e, _, _ := newTestEngine(t, "")
	g1 := newGroup(t, e, "g1", "m")
	g2 := newGroup(t, e, "g2")
	sp := g1.Sprites()[0]
	if !g2.Add(sp) {
		t.Fatal("Add to second group failed")
	}
	if g1.Len() != 0 || g2.Len() != 1 || sp.Group() != g2 {
		t.Errorf("len g1 = %d g2 = %d, want the member moved", g1.Len(), g2.Len())
	}
	if sp.State() < 0 {
		t.Error("moving between groups destroyed the member")
	}
}
