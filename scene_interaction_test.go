package coge

import "testing"

func TestClickSequence(t *testing.T) {
	e, _, _ := newTestEngine(t, "")
	s := newRunningScene(t, e, "s")
	box := addBox(t, s, "box", 10, 10, 0, 20, 20)
	var rec recorder
	rec.watch(box.On, EventMouseEnter, EventMouseDown, EventClick, EventMouseUp, EventMouseLeave)

	e.InjectClick(15, 15)
	runFrames(t, e, 2)
	want := []EventKind{EventMouseEnter, EventMouseDown, EventClick, EventMouseUp}
	if len(rec.kinds) != len(want) {
		t.Fatalf("events = %v, want %v", rec.kinds, want)
	}
	for i := range want {
		if rec.kinds[i] != want[i] {
			t.Errorf("event %d = %v, want %v", i, rec.kinds[i], want[i])
		}
	}

	rec.reset()
	e.InjectHover(200, 200)
	runFrames(t, e, 1)
	if rec.count(EventMouseLeave) != 1 {
		t.Errorf("events = %v, want mouse leave", rec.kinds)
	}
}

func TestReleaseElsewhereIsNotAClick(t *testing.T) {
	e, _, _ := newTestEngine(t, "")
	s := newRunningScene(t, e, "s")
	box := addBox(t, s, "box", 10, 10, 0, 20, 20)
	clicks := 0
	box.On(EventClick, func(*Event) { clicks++ })
	e.InjectPress(15, 15)
	e.InjectRelease(100, 100)
	runFrames(t, e, 2)
	if clicks != 0 {
		t.Errorf("clicks = %d, want 0", clicks)
	}
}

func TestTopmostSpriteWins(t *testing.T) {
	e, _, _ := newTestEngine(t, "")
	s := newRunningScene(t, e, "s")
	low := addBox(t, s, "low", 0, 0, 0, 50, 50)
	high := addBox(t, s, "high", 20, 20, 0, 50, 50)
	var got []string
	for _, sp := range []*Sprite{low, high} {
		sp.On(EventClick, func(ev *Event) { got = append(got, ev.Sprite.Name) })
	}
	e.InjectClick(30, 30)
	e.InjectClick(5, 5)
	runFrames(t, e, 4)
	if len(got) != 2 || got[0] != "high" || got[1] != "low" {
		t.Errorf("clicks = %v, want [high low]", got)
	}
}

func TestModalBlocksOtherSprites(t *testing.T) {
	e, _, _ := newTestEngine(t, "")
	s := newRunningScene(t, e, "s")
	back := addBox(t, s, "back", 0, 0, 0, 100, 100)
	dialog := addBox(t, s, "dialog", 150, 0, 0, 100, 100)
	button := addBox(t, s, "ok", 160, 10, 0, 20, 20)
	dialog.AddChild(button)
	s.SetModal(dialog)

	var got []string
	for _, sp := range []*Sprite{back, dialog, button} {
		sp.On(EventClick, func(ev *Event) { got = append(got, ev.Sprite.Name) })
	}
	e.InjectClick(50, 50)
	e.InjectClick(165, 15)
	runFrames(t, e, 4)
	if len(got) != 1 || got[0] != "ok" {
		t.Errorf("clicks = %v, want only the modal's child", got)
	}
}

func TestDragMovesSprite(t *testing.T) {
	e, _, _ := newTestEngine(t, "")
	s := newRunningScene(t, e, "s")
	box := addBox(t, s, "box", 10, 10, 0, 20, 20)
	box.EnableDrag = true
	var rec recorder
	rec.watch(box.On, EventDragStart, EventDrag, EventDragEnd, EventClick)

	e.InjectDrag(15, 15, 55, 15, 6)
	runFrames(t, e, 6)
	if rec.count(EventDragStart) != 1 || rec.count(EventDrag) != 4 || rec.count(EventDragEnd) != 1 {
		t.Errorf("events = %v, want start, 4 drags, end", rec.kinds)
	}
	if rec.count(EventClick) != 0 {
		t.Error("a drag must not click")
	}
	if box.X() != 50 || box.Y() != 10 {
		t.Errorf("box at (%d,%d), want (50,10)", box.X(), box.Y())
	}
	if s.DragSprite() != nil {
		t.Error("drag still captured after release")
	}
}

func TestDragDeadZone(t *testing.T) {
	e, _, _ := newTestEngine(t, "")
	s := newRunningScene(t, e, "s")
	box := addBox(t, s, "box", 10, 10, 0, 20, 20)
	box.EnableDrag = true
	s.SetDragDeadZone(10)
	starts := 0
	box.On(EventDragStart, func(*Event) { starts++ })
	e.InjectPress(15, 15)
	e.InjectMove(20, 20)
	e.InjectRelease(20, 20)
	runFrames(t, e, 3)
	if starts != 0 || box.X() != 10 {
		t.Errorf("drag started inside the dead zone, box x = %d", box.X())
	}
}

func TestUnhandledPointerGoesToScene(t *testing.T) {
	e, _, _ := newTestEngine(t, "")
	s := newRunningScene(t, e, "s")
	addBox(t, s, "mute", 10, 10, 0, 20, 20)
	var targets []string
	s.On(EventMouseDown, func(ev *Event) {
		name := "<none>"
		if ev.Sprite != nil {
			name = ev.Sprite.Name
		}
		targets = append(targets, name)
	})
	e.InjectClick(15, 15)
	e.InjectClick(200, 200)
	runFrames(t, e, 4)
	if len(targets) != 2 || targets[0] != "mute" || targets[1] != "<none>" {
		t.Errorf("scene saw presses on %v", targets)
	}
}

func TestFocusOnPress(t *testing.T) {
	e, _, _ := newTestEngine(t, "")
	s := newRunningScene(t, e, "s")
	field := addBox(t, s, "field", 10, 10, 0, 80, 20)
	field.EnableFocus = true
	field.TextInput = &TextInput{Enabled: true, MaxLen: 4}
	e.InjectClick(20, 20)
	e.InjectChars("hello")
	runFrames(t, e, 3)
	if s.Focus() != field {
		t.Fatal("press did not focus the sprite")
	}
	if got := field.TextInput.Text(); got != "hell" {
		t.Errorf("text = %q, want %q", got, "hell")
	}
	e.InjectKey(KeyBackspace, true)
	runFrames(t, e, 1)
	if got := field.TextInput.Text(); got != "hel" {
		t.Errorf("text after backspace = %q, want %q", got, "hel")
	}
}

func TestKeyDeliveryOrder(t *testing.T) {
	e, _, _ := newTestEngine(t, "")
	s := newRunningScene(t, e, "s")
	last := e.NewSprite("hud")
	s.SetLastSprite(last)
	focus := addBox(t, s, "focus", 0, 0, 0, 10, 10)
	s.SetFocus(focus)

	var order []string
	last.On(EventKeyDown, func(*Event) { order = append(order, "last") })
	focus.On(EventKeyDown, func(*Event) { order = append(order, "focus") })
	s.On(EventKeyDown, func(ev *Event) {
		if ev.Key == KeyEscape {
			order = append(order, "scene")
		}
	})
	e.On(EventKeyDown, func(*Event) { order = append(order, "engine") })

	e.InjectKeyTap(KeyEscape)
	runFrames(t, e, 1)
	want := []string{"last", "focus", "scene"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %s, want %s", i, order[i], want[i])
		}
	}
	if !e.IsKeyDown(KeyEscape) || !e.IsKeyPressed(KeyEscape) {
		t.Error("key state not tracked")
	}
	runFrames(t, e, 1)
	if e.IsKeyDown(KeyEscape) || !e.IsKeyReleased(KeyEscape) {
		t.Error("key release not tracked")
	}
}

func TestTouchDrivesPointerWithoutMouse(t *testing.T) {
	e, _, _ := newTestEngine(t, "")
	s := newRunningScene(t, e, "s")
	box := addBox(t, s, "box", 10, 10, 0, 20, 20)
	clicks := 0
	box.On(EventClick, func(*Event) { clicks++ })
	touches := 0
	s.On(EventTouch, func(*Event) { touches++ })

	e.InjectTouch(0, 15, 15, true)
	e.InjectTouch(0, 15, 15, false)
	runFrames(t, e, 2)
	if e.HasMouse() {
		t.Fatal("touch input reported a mouse")
	}
	if clicks != 1 {
		t.Errorf("clicks = %d, want 1 from a touch tap", clicks)
	}
	if touches != 2 {
		t.Errorf("scene touch events = %d, want down and release", touches)
	}
}

func TestTouchArbitration(t *testing.T) {
	var st InputState
	st.SetTouch(3, 30, 30, true)
	st.SetTouch(1, 10, 10, true)
	st.arbitrate()
	if st.pointerX != 10 || !st.buttons[MouseButtonLeft] {
		t.Errorf("pointer = %d down = %v, want lowest pressed slot", st.pointerX, st.buttons[MouseButtonLeft])
	}

	st.beginFrame()
	st.SetTouch(1, 11, 11, false)
	st.SetTouch(3, 33, 33, false)
	st.arbitrate()
	if st.pointerX != 33 || st.buttons[MouseButtonLeft] {
		t.Errorf("pointer = %d down = %v, want latest release with button up", st.pointerX, st.buttons[MouseButtonLeft])
	}
}

func TestMouseOverridesTouch(t *testing.T) {
	var st InputState
	st.SetTouch(0, 5, 5, true)
	st.SetMouse(100, 120, MouseButtonRight, true)
	st.arbitrate()
	if st.pointerX != 100 || st.pointerY != 120 || !st.buttons[MouseButtonRight] {
		t.Errorf("pointer = (%d,%d), want the mouse", st.pointerX, st.pointerY)
	}
}

func TestCursorSpriteFollowsPointer(t *testing.T) {
	e, _, _ := newTestEngine(t, "")
	s := newRunningScene(t, e, "s")
	cur := e.NewSprite("cursor")
	s.SetMouseSprite(cur)
	e.InjectHover(42, 24)
	runFrames(t, e, 1)
	if x, y := cur.Pos(); x != 42 || y != 24 {
		t.Errorf("cursor at (%d,%d), want (42,24)", x, y)
	}
}
