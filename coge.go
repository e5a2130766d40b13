package coge

import (
	"errors"
	"fmt"
	"image/color"
)

// Sentinel errors returned (wrapped) by factories and services.
var (
	ErrBadConfig          = errors.New("coge: bad configuration")
	ErrNotFound           = errors.New("coge: not found")
	ErrResource           = errors.New("coge: resource failed to load")
	ErrDuplicateName      = errors.New("coge: duplicate name")
	ErrEngineExists       = errors.New("coge: an engine is already running")
	ErrNotInitialized     = errors.New("coge: engine not initialized")
	ErrAlreadyInitialized = errors.New("coge: engine already initialized")
	ErrTerminated         = errors.New("coge: engine terminated")
	ErrAnimaArea          = errors.New("coge: anima area is not a multiple of the frame area")
)

func errDuplicate(kind, name string) error {
	return fmt.Errorf("%w: %s %q", ErrDuplicateName, kind, name)
}

func errNotFound(kind, name string) error {
	return fmt.Errorf("%w: %s %q", ErrNotFound, kind, name)
}

// Engine-wide limits.
const (
	MaxRelated      = 8  // related sprite and related group slots per sprite
	MaxCustomEvents = 16 // queued custom events per sprite
	MaxTouches      = 10 // touch slots tracked by InputState
	MaxJoysticks    = 4
	maxSettlePasses = 5
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default fill color.
var ColorWhite = Color{1, 1, 1, 1}

// ColorBlack is opaque black.
var ColorBlack = Color{0, 0, 0, 1}

// RGBA converts c to a premultiplied color.RGBA.
func (c Color) RGBA() color.RGBA {
	a := clamp01(c.A)
	return color.RGBA{
		R: uint8(clamp01(c.R)*a*255 + 0.5),
		G: uint8(clamp01(c.G)*a*255 + 0.5),
		B: uint8(clamp01(c.B)*a*255 + 0.5),
		A: uint8(a*255 + 0.5),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// BlendMode selects a compositing operation for a draw call.
type BlendMode uint8

const (
	BlendNormal   BlendMode = iota // source-over (standard alpha blending)
	BlendAdd                       // additive / lighter
	BlendMultiply                  // multiply (source * destination; only darkens)
	BlendErase                     // destination-out (punch transparent holes)
	BlendNone                      // opaque copy (skip blending)
)

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // primary (left) mouse button
	MouseButtonRight                     // secondary (right) mouse button
	MouseButtonMiddle                    // middle mouse button (scroll wheel click)
	mouseButtonCount
)

// KeyModifiers is a bitmask of keyboard modifier keys.
// Values can be combined with bitwise OR (e.g. ModShift | ModCtrl).
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota // Shift key
	ModCtrl                           // Control key
	ModAlt                            // Alt / Option key
	ModMeta                           // Meta / Command / Windows key
)

// SpriteClass groups sprites for freeze and draw-layer decisions. Classes at
// or above ClassWindow keep running while the engine is frozen.
type SpriteClass int

const (
	ClassNormal SpriteClass = 0
	ClassWindow SpriteClass = 100
	ClassCursor SpriteClass = 200
)

// DefaultWindowZ is the Z at which a scene's window layer starts.
const DefaultWindowZ = 1 << 20
