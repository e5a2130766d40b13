package coge

const defaultDragDeadZone = 4 // pixels

// pointerState tracks the pointer between frames.
type pointerState struct {
	down     bool
	startX   int
	startY   int
	lastX    int
	lastY    int
	hit      *Sprite // sprite under the pointer at press time
	hover    *Sprite // last sprite the pointer was over (for enter/leave)
	dragging bool
	button   MouseButton // button captured at press time
}

// SetDragDeadZone sets the distance in pixels the pointer must travel with
// a button held before a drag starts.
func (s *Scene) SetDragDeadZone(pixels int) {
	s.dragDeadZone = pixels
}

// CheckSpriteInteraction refreshes the in-view list, fires Enter/Leave on
// visibility changes, fires EventCollide for every overlapping pair of
// collision-enabled active sprites, sorts the in-view list by (z, y, x) and
// resolves the pointer against it.
func (s *Scene) CheckSpriteInteraction() {
	s.refreshInView()
	s.checkCollisions()
	s.sortInView()
	s.processPointer()
}

// refreshInView rebuilds the in-view list from the active set.
func (s *Scene) refreshInView() {
	drag := s.DragSprite()
	s.inView = s.inView[:0]
	batch, owned := s.snapshotActive()
	for _, sp := range batch {
		if !s.holds(sp) {
			continue
		}
		in := sp.Visible && Overlap(sp.drawRect, s.view)
		if in && sp.relative && sp.parent != nil && sp != drag {
			in = Overlap(sp.parent.drawRect, s.view)
		}
		if in != sp.inView {
			sp.inView = in
			if in {
				sp.fire(EventEnter)
			} else {
				sp.fire(EventLeave)
			}
		}
		if in && s.holds(sp) {
			s.inView = append(s.inView, sp)
		}
	}
	s.releaseActive(batch, owned)
}

// checkCollisions tests every pair of collision-enabled active sprites,
// whether in view or not.
func (s *Scene) checkCollisions() {
	batch, owned := s.snapshotActive()
	for i, a := range batch {
		if !a.EnableCollision || !s.holds(a) {
			continue
		}
		for _, b := range batch[i+1:] {
			if !s.holds(a) {
				break
			}
			if !b.EnableCollision || !s.holds(b) {
				continue
			}
			if !Overlap(a.CollisionRect(), b.CollisionRect()) {
				continue
			}
			ev := a.newEvent(EventCollide)
			ev.Other = b
			a.dispatch(&ev)
			if !s.holds(a) || !s.holds(b) {
				continue
			}
			ev = b.newEvent(EventCollide)
			ev.Other = a
			b.dispatch(&ev)
		}
	}
	s.releaseActive(batch, owned)
}

// sortInView stable-sorts the in-view list by (z, y, x) ascending.
// Bottom-up merge sort: zero allocations after the sort buffer reaches
// high-water mark.
func (s *Scene) sortInView() {
	n := len(s.inView)
	if n <= 1 {
		return
	}
	if cap(s.sortBuf) < n {
		s.sortBuf = make([]*Sprite, n)
	}
	s.sortBuf = s.sortBuf[:n]

	a := s.inView
	b := s.sortBuf
	swapped := false

	for width := 1; width < n; width *= 2 {
		for i := 0; i < n; i += 2 * width {
			lo := i
			mid := min(lo+width, n)
			hi := min(lo+2*width, n)
			mergeSprites(a, b, lo, mid, hi)
		}
		a, b = b, a
		swapped = !swapped
	}

	if swapped {
		copy(s.inView, s.sortBuf)
	}
	clear(s.sortBuf)
}

// mergeSprites merges two sorted runs [lo, mid) and [mid, hi) from src into dst.
func mergeSprites(src, dst []*Sprite, lo, mid, hi int) {
	i, j, k := lo, mid, lo
	for i < mid && j < hi {
		if spriteLessOrEqual(src[i], src[j]) {
			dst[k] = src[i]
			i++
		} else {
			dst[k] = src[j]
			j++
		}
		k++
	}
	for i < mid {
		dst[k] = src[i]
		i++
		k++
	}
	for j < hi {
		dst[k] = src[j]
		j++
		k++
	}
}

func spriteLessOrEqual(a, b *Sprite) bool {
	if a.z != b.z {
		return a.z < b.z
	}
	if a.y != b.y {
		return a.y < b.y
	}
	return a.x <= b.x
}

// --- Pointer ---

// worldPointer returns the pointer in scene coordinates.
func (s *Scene) worldPointer() (x, y int) {
	if s.engine == nil {
		return 0, 0
	}
	px, py := s.engine.MousePos()
	return px + s.view.Left, py + s.view.Top
}

// accepts reports whether sp may receive pointer input.
func (s *Scene) accepts(sp *Sprite) bool {
	if !sp.EnableInput || !sp.Visible || sp.state < 0 || sp.frozen() {
		return false
	}
	return s.modal == nil || isAncestor(s.modal, sp)
}

// hitTest returns the topmost in-view sprite under (x, y) accepting input.
func (s *Scene) hitTest(x, y int) *Sprite {
	for i := len(s.inView) - 1; i >= 0; i-- {
		sp := s.inView[i]
		if s.accepts(sp) && PointInRect(x, y, sp.drawRect) {
			return sp
		}
	}
	return nil
}

// pressedButton returns the held button with the highest priority.
func (s *Scene) pressedButton() (MouseButton, bool) {
	e := s.engine
	for b := MouseButtonLeft; b < mouseButtonCount; b++ {
		if e.IsMouseDown(b) {
			return b, true
		}
	}
	return MouseButtonLeft, false
}

// processPointer runs the pointer state machine for this frame. Events no
// sprite claimed are kept for the scene.
func (s *Scene) processPointer() {
	s.unmet = s.unmet[:0]
	if s.engine == nil {
		return
	}
	wx, wy := s.worldPointer()
	button, pressed := s.pressedButton()
	ps := &s.pointer

	if s.cursor != nil {
		s.cursor.SetPos(wx, wy)
	}

	// Determine target: the drag capture or hit test.
	var target *Sprite
	if ps.dragging && ps.hit != nil {
		target = ps.hit
	} else {
		target = s.hitTest(wx, wy)
	}

	// Fire hover enter/leave when the hovered sprite changes.
	if target != ps.hover {
		if ps.hover != nil {
			s.firePointer(ps.hover, EventMouseLeave, wx, wy, button)
		}
		if target != nil {
			s.firePointer(target, EventMouseEnter, wx, wy, button)
		}
		ps.hover = target
	}

	switch {
	case pressed && !ps.down:
		// Just pressed; capture button for the duration of this interaction.
		ps.down = true
		ps.button = button
		ps.startX, ps.startY = wx, wy
		ps.lastX, ps.lastY = wx, wy
		ps.hit = target
		ps.dragging = false
		if target != nil && target.EnableFocus {
			s.focus = target
		}
		s.firePointer(target, EventMouseDown, wx, wy, ps.button)

	case !pressed && ps.down:
		// Just released; use button from press start.
		if ps.dragging {
			dx, dy := wx-ps.lastX, wy-ps.lastY
			ps.hit.SetPos(ps.hit.x+dx, ps.hit.y+dy)
			s.fireDrag(ps.hit, EventDragEnd, wx, wy, dx, dy)
		} else if ps.hit != nil && ps.hit == target {
			s.firePointer(target, EventClick, wx, wy, ps.button)
		}
		s.firePointer(target, EventMouseUp, wx, wy, ps.button)
		ps.down = false
		ps.hit = nil
		ps.dragging = false
		ps.lastX, ps.lastY = wx, wy

	case pressed && ps.down:
		// Held down, possibly moved.
		if wx != ps.lastX || wy != ps.lastY {
			if !ps.dragging && ps.hit != nil && ps.hit.EnableDrag {
				dx, dy := wx-ps.startX, wy-ps.startY
				if dx*dx+dy*dy > s.dragDeadZone*s.dragDeadZone {
					ps.dragging = true
					s.fireDrag(ps.hit, EventDragStart, wx, wy, dx, dy)
				}
			}
			if ps.dragging {
				dx, dy := wx-ps.lastX, wy-ps.lastY
				ps.hit.SetPos(ps.hit.x+dx, ps.hit.y+dy)
				s.fireDrag(ps.hit, EventDrag, wx, wy, dx, dy)
			} else {
				s.firePointer(target, EventMouseMove, wx, wy, ps.button)
			}
		}
		ps.lastX, ps.lastY = wx, wy

	default:
		// Hover move.
		if wx != ps.lastX || wy != ps.lastY {
			s.firePointer(target, EventMouseMove, wx, wy, button)
			ps.lastX, ps.lastY = wx, wy
		}
	}
}

// firePointer delivers a pointer event to sp, or keeps it for the scene when
// sp is nil or has no handler for it.
func (s *Scene) firePointer(sp *Sprite, kind EventKind, x, y int, b MouseButton) {
	ev := Event{Kind: kind, Engine: s.engine, Scene: s, X: x, Y: y, Button: b, Modifiers: s.engine.in.Modifiers}
	if sp != nil {
		s.emitInteraction(sp, &ev, 0, 0, 0, 0)
		if sp.dispatch(&ev) {
			return
		}
	}
	ev.Sprite = sp
	s.unmet = append(s.unmet, ev)
}

func (s *Scene) fireDrag(sp *Sprite, kind EventKind, x, y, dx, dy int) {
	if sp == nil {
		return
	}
	ev := Event{Kind: kind, Engine: s.engine, Scene: s, X: x, Y: y, Button: s.pointer.button, Modifiers: s.engine.in.Modifiers}
	sp.dispatch(&ev)
	s.emitInteraction(sp, &ev, s.pointer.startX, s.pointer.startY, dx, dy)
}

// emitInteraction forwards a pointer event to the ECS bridge.
func (s *Scene) emitInteraction(sp *Sprite, ev *Event, startX, startY, dx, dy int) {
	if s.store == nil || sp == nil || sp.EntityID == 0 {
		return
	}
	s.store.EmitEvent(InteractionEvent{
		Type:      ev.Kind,
		EntityID:  sp.EntityID,
		X:         ev.X,
		Y:         ev.Y,
		Button:    ev.Button,
		Modifiers: ev.Modifiers,
		StartX:    startX,
		StartY:    startY,
		DeltaX:    dx,
		DeltaY:    dy,
	})
}

// dispatchUnmet delivers pointer events no sprite handled to the scene, and
// the virtual touch state when the platform has no hardware mouse.
func (s *Scene) dispatchUnmet() {
	for i := range s.unmet {
		s.dispatch(&s.unmet[i])
	}
	s.unmet = s.unmet[:0]
	if s.engine == nil || s.engine.in.HasMouse {
		return
	}
	for i := range s.engine.in.Touches {
		t := &s.engine.in.Touches[i]
		if !t.Down && !t.Released {
			continue
		}
		ev := Event{
			Kind:   EventTouch,
			Engine: s.engine,
			X:      t.X + s.view.Left,
			Y:      t.Y + s.view.Top,
			Touch:  i,
			Button: MouseButtonLeft,
		}
		s.dispatch(&ev)
	}
}

// --- Keyboard ---

// dispatchKeys delivers this frame's key and character events to the last
// sprite, then the focus sprite, then the scene.
func (s *Scene) dispatchKeys() {
	e := s.engine
	if e == nil {
		return
	}
	in := &e.in
	for _, ke := range in.KeyEvents {
		kind := EventKeyUp
		if ke.Down {
			kind = EventKeyDown
		}
		ev := Event{Kind: kind, Engine: e, Key: ke.Key, Modifiers: in.Modifiers}
		s.deliverKey(&ev)
	}
	if s.focus != nil && s.focus.TextInput != nil && !s.focus.frozen() {
		s.focus.TextInput.feed(in.Chars, e.IsKeyPressed(KeyBackspace))
	}
	for _, r := range in.Chars {
		ev := Event{Kind: EventChar, Engine: e, Char: r, Modifiers: in.Modifiers}
		s.deliverKey(&ev)
	}
}

func (s *Scene) deliverKey(ev *Event) {
	if s.last != nil && !s.last.frozen() {
		s.last.dispatch(ev)
	}
	if s.focus != nil && s.focus != s.last && !s.focus.frozen() {
		s.focus.dispatch(ev)
	}
	ev.Sprite = nil
	s.dispatch(ev)
}
