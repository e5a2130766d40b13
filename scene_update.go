package coge

// Update runs one frame of the scene: settlement, scrolling, sprite updates,
// interaction, events, drawing, transitions and present, in that order.
func (s *Scene) Update() {
	if s.state < 0 || s.engine == nil {
		return
	}
	e := s.engine
	running := s.state != ScenePaused

	s.settleSprites()

	if running {
		s.autoScroll()
		s.updateCamera(seconds(e.delta))
		s.UpdateSprites()
	}

	s.CheckSpriteInteraction()

	s.flushCustomEvents()

	if running && s.timer.due(s.now()) {
		s.fire(EventTimerTime)
		s.resumePlots(PlotWaitSceneTimer)
	}

	s.dispatchKeys()

	if running && s.last != nil {
		s.last.update()
	}
	s.fire(EventUpdate)

	s.dispatchUnmet()

	s.layoutDebug()

	s.Draw()

	s.fire(EventDraw)

	if s.fade.dir != fadeIdle {
		if s.stepFade() {
			return
		}
	} else {
		if s.fade.hold {
			s.drawFade()
		}
		if e.next != nil && e.active == s {
			e.commitSwitch()
			return
		}
	}

	s.settleSprites()

	s.present()
}

// UpdateSprites updates the first sprite, every active sprite in insertion
// order, then the mouse sprite.
func (s *Scene) UpdateSprites() {
	if s.first != nil {
		s.first.update()
	}
	batch, owned := s.snapshotActive()
	for _, sp := range batch {
		if s.holds(sp) {
			sp.update()
		}
	}
	s.releaseActive(batch, owned)
	if s.cursor != nil {
		s.cursor.update()
	}
}

// snapshotActive copies the active set so handlers may remove sprites while
// the caller walks the copy. Nested walks get a fresh slice.
func (s *Scene) snapshotActive() (batch []*Sprite, owned bool) {
	if s.snapBusy {
		return append([]*Sprite(nil), s.active.list...), false
	}
	s.snapBusy = true
	s.snapBuf = append(s.snapBuf[:0], s.active.list...)
	return s.snapBuf, true
}

func (s *Scene) releaseActive(batch []*Sprite, owned bool) {
	clear(batch)
	if owned {
		s.snapBuf = batch[:0]
		s.snapBusy = false
	}
}

// holds reports whether sp is still a live sprite of s.
func (s *Scene) holds(sp *Sprite) bool {
	return sp != nil && sp.scene == s && sp.state >= 0
}

// flushCustomEvents delivers queued custom events of every active sprite and
// of the first and last sprites.
func (s *Scene) flushCustomEvents() {
	if s.first != nil {
		s.first.flushEvents()
	}
	batch, owned := s.snapshotActive()
	for _, sp := range batch {
		if s.holds(sp) {
			sp.flushEvents()
		}
	}
	s.releaseActive(batch, owned)
	if s.last != nil {
		s.last.flushEvents()
	}
}

// resumePlots wakes every plot in the scene suspended on trigger.
func (s *Scene) resumePlots(trigger PlotAction) {
	batch, owned := s.snapshotActive()
	for _, sp := range batch {
		if s.holds(sp) {
			sp.plot.resume(trigger)
		}
	}
	s.releaseActive(batch, owned)
	for _, sp := range [...]*Sprite{s.first, s.last, s.cursor} {
		if sp != nil {
			sp.plot.resume(trigger)
		}
	}
}

// Draw redraws the background where needed and draws the sprites: first
// sprite, the in-view sprite layer, the light layer, the window layer, the
// mouse sprite, the last sprite and the debug overlay.
func (s *Scene) Draw() {
	v := s.engine.video
	if v == nil {
		return
	}
	screen := v.Screen()
	if screen == nil {
		s.warn.Warn("no screen to draw on", "scene", s.Name)
		return
	}

	if s.dirty.full || !s.PartialRedraw {
		s.blitBackground(v, screen, s.view)
	} else {
		for _, rc := range s.dirty.rects {
			s.blitBackground(v, screen, rc)
		}
	}
	s.dirty.reset()

	if s.first != nil {
		s.first.draw(v, screen, s.view)
	}
	windowed := false
	for _, sp := range s.inView {
		if !windowed && sp.z >= s.WindowZ {
			windowed = true
			s.finishLayer(v, screen)
		}
		sp.draw(v, screen, s.view)
	}
	if !windowed {
		s.finishLayer(v, screen)
	}
	s.fire(EventWindowDrawn)
	if s.cursor != nil {
		s.cursor.draw(v, screen, s.view)
	}
	if s.last != nil {
		s.last.draw(v, screen, s.view)
	}
	s.drawDebug(v, screen)
}

// finishLayer closes the sprite layer: lights go over it, then
// EventLayerDrawn fires before the window layer is drawn.
func (s *Scene) finishLayer(v Video, screen Image) {
	s.drawLights(v, screen)
	s.fire(EventLayerDrawn)
}

// blitBackground restores the background under rc, given in scene
// coordinates. A looping background is tiled.
func (s *Scene) blitBackground(v Video, dst Image, rc Rect) {
	if s.Background == nil || !s.Background.Alive() {
		v.FillRect(dst, rc.Offset(-s.view.Left, -s.view.Top), s.BackgroundColor)
		return
	}
	bg := s.Background.Value()
	bw, bh := bg.Size()
	if bw <= 0 || bh <= 0 {
		return
	}
	if !s.scroll.loop {
		src := rc.Intersect(Rect{0, 0, bw, bh})
		if src != rc {
			v.FillRect(dst, rc.Offset(-s.view.Left, -s.view.Top), s.BackgroundColor)
		}
		if !src.Empty() {
			v.CopyImage(dst, bg, src, src.Left-s.view.Left, src.Top-s.view.Top)
		}
		return
	}
	for y := rc.Top; y < rc.Bottom; {
		sy := mod(y, bh)
		h := min(bh-sy, rc.Bottom-y)
		for x := rc.Left; x < rc.Right; {
			sx := mod(x, bw)
			w := min(bw-sx, rc.Right-x)
			v.CopyImage(dst, bg, RectWH(sx, sy, w, h), x-s.view.Left, y-s.view.Top)
			x += w
		}
		y += h
	}
}

// present shows the view on the output surface and writes queued
// screenshots.
func (s *Scene) present() {
	v := s.engine.video
	if v == nil {
		return
	}
	screen := v.Screen()
	if screen == nil {
		return
	}
	s.flushScreenshots(v, screen)
	v.Present(screen, Rect{0, 0, s.view.Width(), s.view.Height()})
}

// mod returns a mod b in [0, b).
func mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
