package coge

import (
	"math/rand/v2"
	"time"
)

// FadeMode selects how a scene transition is drawn.
type FadeMode uint8

const (
	FadeNone      FadeMode = iota // no visual; only the timing and events
	FadeLightness                 // value is the lightness added, -255..255
	FadeDark                      // 255 is normal, 0 is black
	FadeBright                    // 255 is normal, 0 is white
	FadeAlpha                     // clipboard drawn over the scene with alpha value/255
	FadeMask                      // clipboard revealed through a mask up to value/255
)

type fadeDir uint8

const (
	fadeIdle fadeDir = iota
	fadingIn
	fadingOut
)

// fadeState drives one transition. value moves by step each time interval
// elapses until it reaches or crosses end.
type fadeState struct {
	dir      fadeDir
	mode     FadeMode
	value    int
	end      int
	step     int
	interval time.Duration
	last     time.Duration
	ticks    int
	// hold keeps drawing the final value after a fade-out that did not
	// switch scenes.
	hold      bool
	clipboard Image
	mask      Image
}

// FadeIn starts a fade-in. It fires EventOpen when done.
func (s *Scene) FadeIn(mode FadeMode, start, end, step int, interval time.Duration) bool {
	return s.startFade(fadingIn, mode, start, end, step, interval)
}

// FadeOut starts a fade-out. It fires EventClose when done and then commits a
// pending scene switch.
func (s *Scene) FadeOut(mode FadeMode, start, end, step int, interval time.Duration) bool {
	return s.startFade(fadingOut, mode, start, end, step, interval)
}

func (s *Scene) startFade(dir fadeDir, mode FadeMode, start, end, step int, interval time.Duration) bool {
	if step == 0 || (step > 0 && start > end) || (step < 0 && start < end) {
		logger.Warn("fade never reaches its end", "scene", s.Name, "start", start, "end", end, "step", step)
		return false
	}
	f := &s.fade
	f.dir = dir
	f.mode = mode
	f.value, f.end, f.step = start, end, step
	f.interval = interval
	f.last = s.now()
	f.ticks = 0
	f.hold = false
	if mode == FadeAlpha || mode == FadeMask {
		if !s.snapshot() {
			f.mode = FadeNone
		}
	}
	if mode == FadeMask && f.mask == nil {
		f.mask = s.randomMask()
		if f.mask == nil {
			logger.Warn("no fade mask", "scene", s.Name)
			f.mode = FadeAlpha
		}
	}
	if dir == fadingOut && s.state == SceneRunning {
		s.state = SceneDeactivating
	}
	return true
}

// SetFadeMask sets the mask used by the next FadeMask transition. nil picks
// a random mask from the engine's mask pool.
func (s *Scene) SetFadeMask(mask Image) { s.fade.mask = mask }

// IsFading reports whether a transition is running.
func (s *Scene) IsFading() bool { return s.fade.dir != fadeIdle }

// FadeValue returns the current transition value.
func (s *Scene) FadeValue() int { return s.fade.value }

// FadeTicks returns the number of value steps taken by the current or last
// transition.
func (s *Scene) FadeTicks() int { return s.fade.ticks }

// snapshot copies the screen into the clipboard.
func (s *Scene) snapshot() bool {
	e := s.engine
	if e == nil || e.video == nil {
		return false
	}
	screen := e.video.Screen()
	if screen == nil {
		return false
	}
	w, h := s.view.Width(), s.view.Height()
	f := &s.fade
	if f.clipboard != nil {
		if cw, ch := f.clipboard.Size(); cw != w || ch != h {
			e.video.DelImage(f.clipboard)
			f.clipboard = nil
		}
	}
	if f.clipboard == nil {
		img, err := e.video.NewImage(w, h)
		if err != nil {
			logger.Warn("fade clipboard", "scene", s.Name, "err", err)
			return false
		}
		f.clipboard = img
	}
	e.video.CopyImage(f.clipboard, screen, Rect{0, 0, w, h}, 0, 0)
	return true
}

func (s *Scene) randomMask() Image {
	e := s.engine
	if e == nil || len(e.masks) == 0 {
		return nil
	}
	m := e.masks[rand.IntN(len(e.masks))]
	if !m.Alive() {
		return nil
	}
	return m.Value()
}

// stepFade advances the transition by one frame and draws it. It reports
// whether a fade-out committed a scene switch.
func (s *Scene) stepFade() bool {
	f := &s.fade
	if f.dir == fadeIdle {
		return false
	}
	if now := s.now(); now-f.last >= f.interval {
		f.last = now
		f.value += f.step
		f.ticks++
	}
	done := (f.step < 0 && f.value <= f.end) || (f.step > 0 && f.value >= f.end)
	if done {
		f.value = f.end
	}
	s.drawFade()
	if !done {
		return false
	}

	dir := f.dir
	f.dir = fadeIdle
	f.mask = nil
	if dir == fadingIn {
		s.fire(EventOpen)
		return false
	}
	f.hold = true
	if s.state == SceneDeactivating {
		s.state = SceneRunning
	}
	s.fire(EventClose)
	if e := s.engine; e != nil && e.next != nil && e.active == s {
		e.commitSwitch()
		return true
	}
	return false
}

// drawFade applies the transition's current value to the screen.
func (s *Scene) drawFade() {
	e := s.engine
	if e == nil || e.video == nil {
		return
	}
	screen := e.video.Screen()
	if screen == nil {
		return
	}
	f := &s.fade
	full := Rect{0, 0, s.view.Width(), s.view.Height()}
	switch f.mode {
	case FadeLightness:
		e.video.Lightness(screen, full, f.value)
	case FadeDark:
		e.video.Lightness(screen, full, f.value-255)
	case FadeBright:
		e.video.Lightness(screen, full, 255-f.value)
	case FadeAlpha:
		if f.clipboard != nil {
			e.video.Blend(screen, f.clipboard, full, 0, 0, clamp01(float64(f.value)/255))
		}
	case FadeMask:
		if f.clipboard != nil && f.mask != nil {
			e.video.MaskBlend(screen, f.clipboard, f.mask, clamp01(float64(f.value)/255))
		}
	}
}

func (f *fadeState) release(e *Engine) {
	if f.clipboard != nil && e != nil && e.video != nil {
		e.video.DelImage(f.clipboard)
	}
	f.clipboard = nil
}
