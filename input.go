package coge

import "github.com/hajimehoshi/ebiten/v2"

// Key identifies a keyboard key. Values match ebiten's key codes.
type Key = ebiten.Key

const keyCount = int(ebiten.KeyMax) + 1

// Keys the engine itself reacts to.
const (
	KeyBackspace = ebiten.KeyBackspace
	KeyEscape    = ebiten.KeyEscape
	KeyF12       = ebiten.KeyF12
)

// Joystick limits.
const (
	MaxJoystickAxes    = 8
	MaxJoystickButtons = 32
)

// KeyEvent is one key transition within a frame.
type KeyEvent struct {
	Key  Key
	Down bool
}

// TouchState is one touch slot.
type TouchState struct {
	X, Y     int
	Down     bool
	Released bool // released this frame
	seq      int  // release order within the frame
}

// JoystickState is one joystick slot.
type JoystickState struct {
	Connected bool
	Axes      [MaxJoystickAxes]float64
	Buttons   [MaxJoystickButtons]bool
}

// InputState is the per-frame input snapshot the engine owns. An InputSource
// writes raw state with the Set methods; the engine derives the pointer from
// it after polling.
type InputState struct {
	// HasMouse is false on touch-only platforms; the pointer then follows
	// the virtual mouse built from touches.
	HasMouse  bool
	Modifiers KeyModifiers
	Joysticks [MaxJoysticks]JoystickState
	Touches   [MaxTouches]TouchState
	// Chars holds the characters typed this frame.
	Chars []rune
	// KeyEvents holds this frame's key transitions in arrival order.
	KeyEvents []KeyEvent

	keys    [keyCount]bool
	pressed [keyCount]bool
	release [keyCount]bool

	rawX, rawY   int
	rawButtons   [mouseButtonCount]bool
	pointerX     int
	pointerY     int
	buttons      [mouseButtonCount]bool
	prevButtons  [mouseButtonCount]bool
	releaseCount int
}

// beginFrame clears per-frame edges before polling.
func (st *InputState) beginFrame() {
	st.KeyEvents = st.KeyEvents[:0]
	st.Chars = st.Chars[:0]
	clear(st.pressed[:])
	clear(st.release[:])
	st.prevButtons = st.buttons
	st.releaseCount = 0
	for i := range st.Touches {
		st.Touches[i].Released = false
	}
}

// SetKey records the state of k. Transitions produce a KeyEvent.
func (st *InputState) SetKey(k Key, down bool) {
	i := int(k)
	if i < 0 || i >= keyCount || st.keys[i] == down {
		return
	}
	st.keys[i] = down
	if down {
		st.pressed[i] = true
	} else {
		st.release[i] = true
	}
	st.KeyEvents = append(st.KeyEvents, KeyEvent{Key: k, Down: down})
}

// SetMouse records the hardware mouse position and button state.
func (st *InputState) SetMouse(x, y int, b MouseButton, down bool) {
	st.HasMouse = true
	st.rawX, st.rawY = x, y
	if b < mouseButtonCount {
		st.rawButtons[b] = down
	}
}

// MoveMouse records the hardware mouse position.
func (st *InputState) MoveMouse(x, y int) {
	st.HasMouse = true
	st.rawX, st.rawY = x, y
}

// SetTouch records touch slot i. A transition from down to up marks the slot
// released for this frame.
func (st *InputState) SetTouch(i, x, y int, down bool) {
	if i < 0 || i >= MaxTouches {
		return
	}
	t := &st.Touches[i]
	if t.Down && !down {
		t.Released = true
		st.releaseCount++
		t.seq = st.releaseCount
	}
	t.X, t.Y, t.Down = x, y, down
}

// AddChar appends a typed character.
func (st *InputState) AddChar(r rune) { st.Chars = append(st.Chars, r) }

// arbitrate derives the pointer. With a hardware mouse the pointer is the
// mouse. Otherwise the lowest pressed touch slot drives it; when none is
// pressed the most recent release this frame does, with the button up.
func (st *InputState) arbitrate() {
	if st.HasMouse {
		st.pointerX, st.pointerY = st.rawX, st.rawY
		st.buttons = st.rawButtons
		return
	}
	for i := range st.Touches {
		if t := &st.Touches[i]; t.Down {
			st.pointerX, st.pointerY = t.X, t.Y
			st.buttons = [mouseButtonCount]bool{MouseButtonLeft: true}
			return
		}
	}
	best := -1
	for i := range st.Touches {
		if t := &st.Touches[i]; t.Released && (best < 0 || t.seq > st.Touches[best].seq) {
			best = i
		}
	}
	if best >= 0 {
		st.pointerX, st.pointerY = st.Touches[best].X, st.Touches[best].Y
	}
	st.buttons = [mouseButtonCount]bool{}
}

// --- Engine queries ---

// IsKeyDown reports whether k is held.
func (e *Engine) IsKeyDown(k Key) bool {
	i := int(k)
	return i >= 0 && i < keyCount && e.in.keys[i]
}

// IsKeyPressed reports whether k went down this frame.
func (e *Engine) IsKeyPressed(k Key) bool {
	i := int(k)
	return i >= 0 && i < keyCount && e.in.pressed[i]
}

// IsKeyReleased reports whether k went up this frame.
func (e *Engine) IsKeyReleased(k Key) bool {
	i := int(k)
	return i >= 0 && i < keyCount && e.in.release[i]
}

// MousePos returns the pointer position in screen coordinates.
func (e *Engine) MousePos() (x, y int) { return e.in.pointerX, e.in.pointerY }

// IsMouseDown reports whether b is held.
func (e *Engine) IsMouseDown(b MouseButton) bool {
	return b < mouseButtonCount && e.in.buttons[b]
}

// IsMousePressed reports whether b went down this frame.
func (e *Engine) IsMousePressed(b MouseButton) bool {
	return b < mouseButtonCount && e.in.buttons[b] && !e.in.prevButtons[b]
}

// IsMouseReleased reports whether b went up this frame.
func (e *Engine) IsMouseReleased(b MouseButton) bool {
	return b < mouseButtonCount && !e.in.buttons[b] && e.in.prevButtons[b]
}

// HasMouse reports whether a hardware mouse drives the pointer.
func (e *Engine) HasMouse() bool { return e.in.HasMouse }

// TouchPos returns touch slot i and whether it is held.
func (e *Engine) TouchPos(i int) (x, y int, down bool) {
	if i < 0 || i >= MaxTouches {
		return 0, 0, false
	}
	t := &e.in.Touches[i]
	return t.X, t.Y, t.Down
}

// JoystickAxis returns axis a of joystick j in [-1, 1].
func (e *Engine) JoystickAxis(j, a int) float64 {
	if j < 0 || j >= MaxJoysticks || a < 0 || a >= MaxJoystickAxes {
		return 0
	}
	return e.in.Joysticks[j].Axes[a]
}

// JoystickButton reports whether button b of joystick j is held.
func (e *Engine) JoystickButton(j, b int) bool {
	if j < 0 || j >= MaxJoysticks || b < 0 || b >= MaxJoystickButtons {
		return false
	}
	return e.in.Joysticks[j].Buttons[b]
}

// Input returns the engine's input snapshot. The returned value MUST NOT be
// retained across frames.
func (e *Engine) Input() *InputState { return &e.in }

// HeadlessInput is an InputSource without a platform. OnPoll, when set, may
// write raw state each frame; setting Quit ends the run.
type HeadlessInput struct {
	OnPoll func(st *InputState)
	Quit   bool
	closed int
}

// Poll implements InputSource.
func (h *HeadlessInput) Poll(st *InputState) bool {
	if h.OnPoll != nil {
		h.OnPoll(st)
	}
	return !h.Quit
}

// CloseTextInput implements InputSource.
func (h *HeadlessInput) CloseTextInput() { h.closed++ }

// CloseJoysticks implements InputSource.
func (h *HeadlessInput) CloseJoysticks() { h.closed++ }
