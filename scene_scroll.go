package coge

import (
	"math"
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// scrollAnim holds active scroll-to tweens for the view's X and Y.
type scrollAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// scrollState is the view's motion: auto-scroll, an eased scroll-to and an
// optional follow target.
type scrollState struct {
	auto   bool
	loop   bool
	stepX  int
	stepY  int
	tween  *scrollAnim
	follow *Sprite
	offX   int
	offY   int
	lerp   float64
	// Clamp keeps a non-looping view inside the background.
	clamp bool
}

// View returns the view in scene coordinates.
func (s *Scene) View() Rect { return s.view }

// SetView moves the view's top-left to (x, y). Parentless relative sprites
// follow and the background is redrawn in full.
func (s *Scene) SetView(x, y int) {
	x, y = s.clampView(x, y)
	if x == s.view.Left && y == s.view.Top {
		return
	}
	s.view = RectWH(x, y, s.view.Width(), s.view.Height())
	s.viewChanged()
}

// SetViewSize resizes the view, keeping its top-left.
func (s *Scene) SetViewSize(w, h int) {
	if w == s.view.Width() && h == s.view.Height() {
		return
	}
	s.view = RectWH(s.view.Left, s.view.Top, w, h)
	s.viewChanged()
}

// SetViewClamp keeps a non-looping view inside the background when on.
func (s *Scene) SetViewClamp(on bool) { s.scroll.clamp = on }

func (s *Scene) viewChanged() {
	s.dirty.markFull()
	s.eachSprite(func(sp *Sprite) {
		if sp.relative && sp.parent == nil {
			sp.follow()
		}
	})
}

// eachSprite calls fn for every placed and special sprite.
func (s *Scene) eachSprite(fn func(sp *Sprite)) {
	for _, sp := range s.active.list {
		fn(sp)
	}
	for _, sp := range s.inactive.list {
		fn(sp)
	}
	for _, sp := range [...]*Sprite{s.first, s.last, s.cursor} {
		if sp != nil {
			fn(sp)
		}
	}
}

// backgroundSize returns the background's size, or the view's when there is
// no background.
func (s *Scene) backgroundSize() (w, h int) {
	if s.Background != nil && s.Background.Alive() {
		return s.Background.Value().Size()
	}
	return s.view.Width(), s.view.Height()
}

func (s *Scene) clampView(x, y int) (int, int) {
	if !s.scroll.clamp || s.scroll.loop {
		return x, y
	}
	bw, bh := s.backgroundSize()
	x = max(0, min(x, bw-s.view.Width()))
	y = max(0, min(y, bh-s.view.Height()))
	return x, y
}

// --- Auto-scroll ---

// AutoScroll moves the view by (dx, dy) every frame. With loop set the view
// wraps around the background.
func (s *Scene) AutoScroll(dx, dy int, loop bool) {
	s.scroll.auto = true
	s.scroll.loop = loop
	s.scroll.stepX, s.scroll.stepY = dx, dy
}

// StopAutoScroll stops auto-scrolling.
func (s *Scene) StopAutoScroll() {
	s.scroll.auto = false
}

// IsAutoScrolling reports whether auto-scroll is on.
func (s *Scene) IsAutoScrolling() bool { return s.scroll.auto }

// autoScroll advances the view by one step. A looping view that passes the
// background edge jumps back by the background size and every non-relative
// sprite moves with it.
func (s *Scene) autoScroll() {
	if !s.scroll.auto {
		return
	}
	x := s.view.Left + s.scroll.stepX
	y := s.view.Top + s.scroll.stepY
	if !s.scroll.loop {
		cx, cy := s.clampView(x, y)
		if cx != x || cy != y {
			s.scroll.auto = false
		}
		s.SetView(cx, cy)
		return
	}
	bw, bh := s.backgroundSize()
	shiftX, shiftY := 0, 0
	if bw > 0 {
		if x >= bw {
			shiftX = -bw
		} else if x < 0 {
			shiftX = bw
		}
	}
	if bh > 0 {
		if y >= bh {
			shiftY = -bh
		} else if y < 0 {
			shiftY = bh
		}
	}
	if shiftX != 0 || shiftY != 0 {
		s.eachSprite(func(sp *Sprite) {
			if !sp.relative {
				sp.SetPos(sp.x+shiftX, sp.y+shiftY)
			}
		})
	}
	s.SetView(x+shiftX, y+shiftY)
	s.dirty.markFull()
}

// --- Eased scrolling and follow ---

// ScrollTo animates the view's top-left to (x, y) over d.
func (s *Scene) ScrollTo(x, y int, d time.Duration, easeFn ease.TweenFunc) {
	if easeFn == nil {
		easeFn = ease.Linear
	}
	s.scroll.tween = &scrollAnim{
		tweenX: gween.New(float32(s.view.Left), float32(x), seconds(d), easeFn),
		tweenY: gween.New(float32(s.view.Top), float32(y), seconds(d), easeFn),
	}
}

// ScrollToTile centers the view on tile (tx, ty) of the scene's map.
func (s *Scene) ScrollToTile(tx, ty int, d time.Duration, easeFn ease.TweenFunc) bool {
	if s.Map == nil || !s.Map.Alive() {
		return false
	}
	px, py := s.Map.Value().TileToPixel(tx, ty)
	s.ScrollTo(px-s.view.Width()/2, py-s.view.Height()/2, d, easeFn)
	return true
}

// IsScrolling reports whether a ScrollTo is in progress.
func (s *Scene) IsScrolling() bool { return s.scroll.tween != nil }

// Follow keeps the view centered on sp plus an offset. A lerp of 1 snaps;
// lower values trail behind.
func (s *Scene) Follow(sp *Sprite, offsetX, offsetY int, lerp float64) {
	s.scroll.follow = sp
	s.scroll.offX, s.scroll.offY = offsetX, offsetY
	s.scroll.lerp = lerp
}

// Unfollow stops tracking the follow target.
func (s *Scene) Unfollow() { s.scroll.follow = nil }

// updateCamera advances follow and scroll-to by dt seconds.
func (s *Scene) updateCamera(dt float32) {
	x, y := float64(s.view.Left), float64(s.view.Top)

	if t := s.scroll.follow; t != nil && t.state >= 0 {
		tx := float64(t.x+s.scroll.offX) - float64(s.view.Width())/2
		ty := float64(t.y+s.scroll.offY) - float64(s.view.Height())/2
		x += (tx - x) * s.scroll.lerp
		y += (ty - y) * s.scroll.lerp
	}

	if a := s.scroll.tween; a != nil {
		if !a.doneX {
			v, done := a.tweenX.Update(dt)
			x = float64(v)
			a.doneX = done
		}
		if !a.doneY {
			v, done := a.tweenY.Update(dt)
			y = float64(v)
			a.doneY = done
		}
		if a.doneX && a.doneY {
			s.scroll.tween = nil
		}
	}

	s.SetView(int(math.Round(x)), int(math.Round(y)))
}
