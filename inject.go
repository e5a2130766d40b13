package coge

type injectKind uint8

const (
	injectPointer injectKind = iota
	injectKey
	injectTouch
	injectChars
)

// syntheticEvent is a single injected input event. Pointer coordinates are
// screen coordinates, matching what a recorded screenshot shows.
type syntheticEvent struct {
	kind    injectKind
	x, y    int
	pressed bool
	button  MouseButton
	key     Key
	slot    int
	chars   string
}

// InjectPress queues a pointer press event at the given screen coordinates
// (left button). Each queued event is consumed by one frame, after the
// platform input was polled, and overrides it.
func (e *Engine) InjectPress(x, y int) {
	e.injectQueue = append(e.injectQueue, syntheticEvent{
		kind: injectPointer, x: x, y: y,
		pressed: true,
		button:  MouseButtonLeft,
	})
}

// InjectMove queues a pointer move event at the given screen coordinates
// with the button held down. Use this between InjectPress and InjectRelease
// to simulate a drag.
func (e *Engine) InjectMove(x, y int) {
	e.InjectPress(x, y)
}

// InjectHover queues a pointer move with no button held.
func (e *Engine) InjectHover(x, y int) {
	e.injectQueue = append(e.injectQueue, syntheticEvent{
		kind: injectPointer, x: x, y: y,
		button: MouseButtonLeft,
	})
}

// InjectRelease queues a pointer release event at the given screen coordinates.
func (e *Engine) InjectRelease(x, y int) {
	e.InjectHover(x, y)
}

// InjectClick is a convenience that queues a press followed by a release
// at the same screen coordinates. Consumes two frames.
func (e *Engine) InjectClick(x, y int) {
	e.InjectPress(x, y)
	e.InjectRelease(x, y)
}

// InjectDrag queues a full drag sequence: press at (fromX, fromY),
// linearly interpolated moves over frames-2 intermediate frames, and
// release at (toX, toY). The total sequence consumes `frames` frames.
// Minimum frames is 2 (press + release).
func (e *Engine) InjectDrag(fromX, fromY, toX, toY, frames int) {
	if frames < 2 {
		frames = 2
	}
	e.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		x := fromX + int(float64(toX-fromX)*t)
		y := fromY + int(float64(toY-fromY)*t)
		e.InjectMove(x, y)
	}
	e.InjectRelease(toX, toY)
}

// InjectKey queues a key transition.
func (e *Engine) InjectKey(k Key, down bool) {
	e.injectQueue = append(e.injectQueue, syntheticEvent{kind: injectKey, key: k, pressed: down})
}

// InjectKeyTap queues a key press followed by its release. Consumes two frames.
func (e *Engine) InjectKeyTap(k Key) {
	e.InjectKey(k, true)
	e.InjectKey(k, false)
}

// InjectTouch queues a touch slot update.
func (e *Engine) InjectTouch(slot, x, y int, down bool) {
	e.injectQueue = append(e.injectQueue, syntheticEvent{kind: injectTouch, slot: slot, x: x, y: y, pressed: down})
}

// InjectChars queues typed characters delivered in one frame.
func (e *Engine) InjectChars(s string) {
	e.injectQueue = append(e.injectQueue, syntheticEvent{kind: injectChars, chars: s})
}

// PendingInjections returns the number of queued synthetic events.
func (e *Engine) PendingInjections() int { return len(e.injectQueue) }

// processInjectedInput pops one event from the inject queue and applies it
// to the input state. Returns true if an event was consumed.
func (e *Engine) processInjectedInput() bool {
	if len(e.injectQueue) == 0 {
		return false
	}
	evt := e.injectQueue[0]
	copy(e.injectQueue, e.injectQueue[1:])
	e.injectQueue = e.injectQueue[:len(e.injectQueue)-1]

	st := &e.in
	switch evt.kind {
	case injectPointer:
		st.SetMouse(evt.x, evt.y, evt.button, evt.pressed)
	case injectKey:
		st.SetKey(evt.key, evt.pressed)
	case injectTouch:
		st.SetTouch(evt.slot, evt.x, evt.y, evt.pressed)
	case injectChars:
		for _, r := range evt.chars {
			st.AddChar(r)
		}
	}
	return true
}
