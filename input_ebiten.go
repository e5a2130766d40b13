package coge

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

var ebitenButtons = [mouseButtonCount]ebiten.MouseButton{
	MouseButtonLeft:   ebiten.MouseButtonLeft,
	MouseButtonRight:  ebiten.MouseButtonRight,
	MouseButtonMiddle: ebiten.MouseButtonMiddle,
}

// EbitenInput is an InputSource reading ebiten's keyboard, mouse, touch and
// gamepad state. It must be polled from within the ebiten game loop.
type EbitenInput struct {
	touchMap  [MaxTouches]ebiten.TouchID
	touchUsed [MaxTouches]bool
	touchIDs  []ebiten.TouchID
	keys      []ebiten.Key
	gamepads  []ebiten.GamepadID
	chars     []rune
	touchOnly bool
	textOff   bool
}

// NewEbitenInput creates the input source and takes over window closing so
// the engine can shut down cleanly.
func NewEbitenInput() *EbitenInput {
	ebiten.SetWindowClosingHandled(true)
	return &EbitenInput{}
}

// Poll implements InputSource.
func (in *EbitenInput) Poll(st *InputState) bool {
	st.Modifiers = readModifiers()

	in.keys = inpututil.AppendJustPressedKeys(in.keys[:0])
	for _, k := range in.keys {
		st.SetKey(k, true)
	}
	in.keys = inpututil.AppendJustReleasedKeys(in.keys[:0])
	for _, k := range in.keys {
		st.SetKey(k, false)
	}

	if !in.textOff {
		in.chars = ebiten.AppendInputChars(in.chars[:0])
		for _, r := range in.chars {
			st.AddChar(r)
		}
	}

	in.pollTouches(st)
	if !in.touchOnly {
		mx, my := ebiten.CursorPosition()
		st.MoveMouse(mx, my)
		for b, eb := range ebitenButtons {
			st.SetMouse(mx, my, MouseButton(b), ebiten.IsMouseButtonPressed(eb))
		}
	}

	in.pollGamepads(st)
	return !ebiten.IsWindowBeingClosed()
}

// pollTouches maps ebiten touch IDs onto stable slots. A device that
// reports touches is treated as touch-only from then on.
func (in *EbitenInput) pollTouches(st *InputState) {
	in.touchIDs = ebiten.AppendTouchIDs(in.touchIDs[:0])
	if len(in.touchIDs) > 0 && !in.touchOnly {
		in.touchOnly = true
		st.HasMouse = false
	}
	var seen [MaxTouches]bool
	for _, tid := range in.touchIDs {
		slot := in.touchSlot(tid)
		if slot < 0 {
			continue
		}
		seen[slot] = true
		x, y := ebiten.TouchPosition(tid)
		st.SetTouch(slot, x, y, true)
	}
	for i := range in.touchUsed {
		if in.touchUsed[i] && !seen[i] {
			t := st.Touches[i]
			st.SetTouch(i, t.X, t.Y, false)
			in.touchUsed[i] = false
			in.touchMap[i] = 0
		}
	}
}

// touchSlot returns the slot mapped to tid, allocating the lowest free one.
// Returns -1 when every slot is taken.
func (in *EbitenInput) touchSlot(tid ebiten.TouchID) int {
	for i := range in.touchUsed {
		if in.touchUsed[i] && in.touchMap[i] == tid {
			return i
		}
	}
	for i := range in.touchUsed {
		if !in.touchUsed[i] {
			in.touchUsed[i] = true
			in.touchMap[i] = tid
			return i
		}
	}
	return -1
}

// pollGamepads fills joystick slots from gamepads with a standard layout.
func (in *EbitenInput) pollGamepads(st *InputState) {
	in.gamepads = ebiten.AppendGamepadIDs(in.gamepads[:0])
	for j := range st.Joysticks {
		js := &st.Joysticks[j]
		if j >= len(in.gamepads) {
			*js = JoystickState{}
			continue
		}
		id := in.gamepads[j]
		js.Connected = true
		if !ebiten.IsStandardGamepadLayoutAvailable(id) {
			continue
		}
		for a := 0; a <= int(ebiten.StandardGamepadAxisMax) && a < MaxJoystickAxes; a++ {
			js.Axes[a] = ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxis(a))
		}
		for b := 0; b <= int(ebiten.StandardGamepadButtonMax) && b < MaxJoystickButtons; b++ {
			js.Buttons[b] = ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButton(b))
		}
	}
}

// CloseTextInput implements InputSource. Typed characters are no longer
// collected.
func (in *EbitenInput) CloseTextInput() { in.textOff = true }

// CloseJoysticks implements InputSource.
func (in *EbitenInput) CloseJoysticks() { in.gamepads = in.gamepads[:0] }

// readModifiers reads the current keyboard modifier state.
func readModifiers() KeyModifiers {
	var mods KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) || ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight) {
		mods |= ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight) {
		mods |= ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) || ebiten.IsKeyPressed(ebiten.KeyAltLeft) || ebiten.IsKeyPressed(ebiten.KeyAltRight) {
		mods |= ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) || ebiten.IsKeyPressed(ebiten.KeyMetaLeft) || ebiten.IsKeyPressed(ebiten.KeyMetaRight) {
		mods |= ModMeta
	}
	return mods
}
