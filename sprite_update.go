package coge

// DrawRect returns the rect the sprite covered at its last update, in scene
// coordinates.
func (s *Sprite) DrawRect() Rect { return s.drawRect }

// InView reports whether the sprite overlapped the scene view at the last
// interaction check.
func (s *Sprite) InView() bool { return s.inView }

// CollisionRect returns the sprite's collision body in scene coordinates.
func (s *Sprite) CollisionRect() Rect {
	if s.anima != nil && !s.DefaultDraw {
		return s.anima.Body().Offset(s.drawRect.Left, s.drawRect.Top)
	}
	return s.drawRect
}

// update advances the sprite by one frame.
func (s *Sprite) update() {
	if s.state < 0 {
		return
	}
	now := s.now()

	if !s.frozen() {
		ev := s.newEvent(EventUpdate)
		if s.plot.enabled {
			s.plot.run(&ev)
			s.hub.dispatch(nil, &ev)
		} else {
			s.dispatch(&ev)
		}
		if s.AutoStep && s.EnableMovement && s.path != nil && now-s.lastStep >= s.StepInterval {
			s.lastStep = now
			s.StepPath()
		}
	}
	if s.timer.due(now) {
		s.fire(EventTimerTime)
		s.plot.resume(PlotWaitTimer)
	}
	if s.state < 0 {
		return
	}
	if s.engine != nil && s.updateEffects(seconds(s.engine.delta)) {
		s.fire(EventEffectFinished)
		s.plot.resume(PlotWaitEffect)
	}

	s.computeRect()

	if s.EnableAnima && s.anima != nil && s.player.advance(s.anima, now) {
		s.fire(EventAnimaFinished)
		s.plot.resume(PlotWaitAnima)
	}

	if s.path != nil {
		if s.stepped {
			s.stepped = false
			s.fire(EventPathStep)
		}
		if s.path != nil && s.pathCursor == s.pathTerminal() {
			s.AbortPath()
			s.fire(EventPathFinished)
			s.plot.resume(PlotWaitPath)
		}
	}
}

// computeRect derives the draw rect from the current anima frame and root
// offset, or from the default box.
func (s *Sprite) computeRect() {
	var rc Rect
	if s.anima != nil && !s.DefaultDraw {
		w, h := s.anima.FrameSize()
		rx, ry := s.anima.Root()
		rc = RectWH(s.x-rx, s.y-ry, w, h)
		if fx, ok := s.anima.Effect(s.player.frame); ok {
			rc = rc.Offset(fx.OffsetX, fx.OffsetY)
		}
	} else {
		rc = RectWH(s.x, s.y, s.Width, s.Height)
	}
	if rc != s.drawRect {
		s.markDirty()
		s.drawRect = rc
		s.markDirty()
	}
}

// drawOptions builds the draw options for the current frame.
func (s *Sprite) drawOptions() *DrawOptions {
	op := &DrawOptions{
		Alpha:       s.Alpha,
		Transparent: s.Alpha <= 0,
		Lightness:   s.Lightness,
		Scale:       s.Scale,
		Rotation:    s.Rotation,
		FlipX:       s.FlipX,
		Blend:       s.Blend,
	}
	if s.anima == nil || s.DefaultDraw {
		return op
	}
	if fx, ok := s.anima.Effect(s.player.frame); ok {
		if fx.Alpha > 0 {
			op.Alpha *= fx.Alpha
		}
		op.Lightness += fx.Lightness
		if fx.Scale > 0 {
			op.Scale *= fx.Scale
		}
		op.Rotation += fx.Rotation
	}
	return op
}

// draw renders the sprite into dst with the view's top-left at (0, 0).
func (s *Sprite) draw(v Video, dst Image, view Rect) {
	if !s.Visible || dst == nil {
		return
	}
	x := s.drawRect.Left - view.Left
	y := s.drawRect.Top - view.Top
	op := s.drawOptions()
	switch {
	case s.anima != nil && !s.DefaultDraw:
		img := s.anima.Image()
		if img == nil {
			return
		}
		v.DrawImage(dst, img, s.anima.FrameRect(s.player.frame), x, y, op)
	case s.Image != nil && s.Image.Alive():
		img := s.Image.Value()
		w, h := img.Size()
		v.DrawImage(dst, img, Rect{0, 0, w, h}, x, y, op)
	case s.Width > 0 && s.Height > 0 && s.Color.A > 0:
		c := s.Color
		c.A *= s.Alpha
		v.FillRect(dst, RectWH(x, y, s.Width, s.Height), c)
	}
}

// lightRect returns the light map's destination in scene coordinates.
func (s *Sprite) lightRect() (Rect, bool) {
	if s.LightMap == nil || !s.LightMap.Alive() {
		return Rect{}, false
	}
	w, h := s.LightMap.Value().Size()
	cx := s.drawRect.Left + s.drawRect.Width()/2 + s.LightOffsetX
	cy := s.drawRect.Top + s.drawRect.Height()/2 + s.LightOffsetY
	return RectWH(cx-w/2, cy-h/2, w, h), true
}
