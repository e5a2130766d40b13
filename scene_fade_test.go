package coge

import (
	"testing"
	"time"
)

func TestFadeOutDarkTakesOneTickPerStep(t *testing.T) {
	e, video, _ := newTestEngine(t, "")
	s := newRunningScene(t, e, "s")
	var rec recorder
	rec.watch(s.On, EventClose, EventOpen)

	if !s.FadeOut(FadeDark, 255, 0, -1, 0) {
		t.Fatal("FadeOut refused")
	}
	if s.State() != SceneDeactivating {
		t.Errorf("State = %v, want deactivating", s.State())
	}
	runFrames(t, e, 254)
	if !s.IsFading() || rec.count(EventClose) != 0 {
		t.Fatalf("fade ended early at value %d", s.FadeValue())
	}
	runFrames(t, e, 1)
	if s.IsFading() || rec.count(EventClose) != 1 {
		t.Fatalf("fade still running after 255 frames, value %d", s.FadeValue())
	}
	if s.FadeTicks() != 255 || s.FadeValue() != 0 {
		t.Errorf("ticks = %d value = %d, want 255 0", s.FadeTicks(), s.FadeValue())
	}
	if s.State() != SceneRunning {
		t.Errorf("State = %v, want running after a fade-out without a switch", s.State())
	}

	// The final value keeps being drawn until the next fade.
	before := video.Counts["lightness"]
	runFrames(t, e, 2)
	if video.Counts["lightness"] != before+2 {
		t.Errorf("held fade drew %d times, want 2", video.Counts["lightness"]-before)
	}
	s.FadeIn(FadeDark, 0, 255, 51, 0)
	runFrames(t, e, 5)
	if rec.count(EventOpen) != 1 || s.FadeValue() != 255 {
		t.Errorf("fade-in events = %v value = %d", rec.kinds, s.FadeValue())
	}
}

func TestFadeOvershootClampsToEnd(t *testing.T) {
	e, _, _ := newTestEngine(t, "")
	s := newRunningScene(t, e, "s")
	s.FadeIn(FadeLightness, 0, 100, 30, 0)
	runFrames(t, e, 4)
	if s.IsFading() || s.FadeValue() != 100 {
		t.Errorf("fading = %v value = %d, want done at 100", s.IsFading(), s.FadeValue())
	}
}

func TestFadeInterval(t *testing.T) {
	e, _, _ := newTestEngine(t, "[engine]\ncps = 100\n")
	s := newRunningScene(t, e, "s")
	s.FadeIn(FadeNone, 0, 10, 1, 50*time.Millisecond)
	runFrames(t, e, 20) // 200ms at 10ms per frame
	if got := s.FadeTicks(); got != 4 {
		t.Errorf("ticks after 200ms at 50ms = %d, want 4", got)
	}
}

func TestFadeOutCommitsPendingSwitch(t *testing.T) {
	e, _, _ := newTestEngine(t, "")
	a := newRunningScene(t, e, "a")
	e.NewScene("b")
	e.SetActiveScene("b")
	a.FadeOut(FadeNone, 10, 0, -5, 0)

	runFrames(t, e, 1)
	if e.ActiveScene() != a {
		t.Fatal("switch committed before the fade-out finished")
	}
	runFrames(t, e, 1)
	if e.ActiveScene() == a || e.ActiveScene().Name != "b" {
		t.Fatal("switch not committed when the fade-out finished")
	}
	if a.IsFading() {
		t.Error("old scene still fading")
	}
}

func TestFadeRejectsBadSteps(t *testing.T) {
	e, _, _ := newTestEngine(t, "")
	s := newRunningScene(t, e, "s")
	tests := []struct {
		start, end, step int
	}{
		{0, 255, 0},
		{255, 0, 1},
		{0, 255, -1},
	}
	for _, tt := range tests {
		if s.FadeIn(FadeDark, tt.start, tt.end, tt.step, 0) {
			t.Errorf("FadeIn(%d, %d, %d) accepted", tt.start, tt.end, tt.step)
		}
	}
	if s.IsFading() {
		t.Error("rejected fade left the scene fading")
	}
}

func TestFadeAlphaUsesClipboard(t *testing.T) {
	e, video, _ := newTestEngine(t, "")
	s := newRunningScene(t, e, "s")
	runFrames(t, e, 1)
	live := video.LiveImages()
	s.FadeOut(FadeAlpha, 255, 0, -85, 0)
	if video.LiveImages() != live+1 {
		t.Errorf("LiveImages = %d, want a clipboard image", video.LiveImages())
	}
	runFrames(t, e, 3)
	if video.Counts["blend"] == 0 {
		t.Error("alpha fade never blended")
	}
}

func TestFadeMaskFallsBackWithoutMasks(t *testing.T) {
	e, video, _ := newTestEngine(t, "")
	s := newRunningScene(t, e, "s")
	s.FadeIn(FadeMask, 0, 255, 85, 0)
	runFrames(t, e, 3)
	if video.Counts["mask"] != 0 || video.Counts["blend"] == 0 {
		t.Errorf("mask = %d blend = %d, want alpha fallback", video.Counts["mask"], video.Counts["blend"])
	}
}

func TestFadeMaskWithExplicitMask(t *testing.T) {
	e, video, _ := newTestEngine(t, "")
	s := newRunningScene(t, e, "s")
	mask, _ := video.NewImage(320, 240)
	s.SetFadeMask(mask)
	s.FadeIn(FadeMask, 0, 255, 85, 0)
	runFrames(t, e, 3)
	if video.Counts["mask"] != 3 {
		t.Errorf("mask blends = %d, want 3", video.Counts["mask"])
	}
}
