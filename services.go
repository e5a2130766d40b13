package coge

import (
	"image"
	"time"
)

// Image is an opaque image owned by a Video back-end.
type Image interface {
	Size() (w, h int)
}

// Font is an opaque font face owned by a Video back-end.
type Font interface {
	Name() string
}

// VideoMode describes the output surface.
type VideoMode struct {
	Width, Height int
	Fullscreen    bool
	Backend       string
}

// DrawOptions modifies a single DrawImage call. The zero value draws the
// source unchanged with normal blending.
type DrawOptions struct {
	// Alpha in [0, 1]; 0 is treated as opaque unless Transparent is set.
	Alpha       float64
	Transparent bool
	// Lightness adds (positive) or removes (negative) light, in [-255, 255].
	Lightness int
	// Scale around the destination top-left; 0 means 1.
	Scale float64
	// Rotation in radians around the destination center.
	Rotation float64
	FlipX    bool
	Blend    BlendMode
}

// Video is the drawing back-end. All pixel math lives behind it.
type Video interface {
	NewImage(w, h int) (Image, error)
	LoadImage(path string) (Image, error)
	NewImageFromImage(img image.Image) Image
	DelImage(img Image)
	LoadFont(path string, size float64) (Font, error)

	// Screen returns the render target the scene draws into.
	Screen() Image
	SetScreen(img Image)

	DrawImage(dst, src Image, srcRect Rect, x, y int, op *DrawOptions)
	FillRect(dst Image, rc Rect, c Color)
	DrawText(dst Image, font Font, s string, x, y int, c Color)
	// Lightness adds amount in [-255, 255] to every pixel of rc.
	Lightness(dst Image, rc Rect, amount int)
	// Blend draws src over dst at (x, y) with the given alpha.
	Blend(dst, src Image, srcRect Rect, x, y int, alpha float64)
	// MaskBlend reveals src over dst where the mask's brightness is below
	// progress in [0, 1].
	MaskBlend(dst, src, mask Image, progress float64)
	CopyImage(dst, src Image, srcRect Rect, x, y int)
	// Present shows region of src on the output surface.
	Present(src Image, region Rect)
	Mode() VideoMode
}

// Sound is an opaque sound or music handle owned by an Audio back-end.
type Sound interface {
	Name() string
}

// Audio is the sound back-end.
type Audio interface {
	NewSound(path string) (Sound, error)
	NewMusic(path string) (Sound, error)
	Play(s Sound, loop bool) error
	Stop(s Sound)
	Pause(s Sound)
	Resume(s Sound)
	Volume(s Sound) float64
	SetVolume(s Sound, v float64)
	Crossfade(from, to Sound, d time.Duration)
	StopAll()
	Close() error
}

// InputSource fills the engine's InputState once per frame. Poll returns
// false when the platform asked the application to quit.
type InputSource interface {
	Poll(st *InputState) bool
	CloseTextInput()
	CloseJoysticks()
}

// Driver owns the platform main loop and calls frame once per iteration
// until frame returns an error. ErrTerminated ends the loop normally.
type Driver interface {
	Run(frame func() error) error
}

// NetEventKind classifies a network event.
type NetEventKind uint8

const (
	NetAccept NetEventKind = iota
	NetReceive
	NetDisconnect
)

// NetEvent is one event pumped from the network back-end.
type NetEvent struct {
	Kind NetEventKind
	Peer int
	Data []byte
}

// Network is the network back-end. Update pumps pending events.
type Network interface {
	Update() []NetEvent
	Send(peer int, data []byte) error
	Close() error
}

// Database persists GameData blocks.
type Database interface {
	SaveGameData(d *GameData) error
	LoadGameData(d *GameData) error
	Close() error
}

// LoopDriver is a Driver that calls frame back to back on the calling
// goroutine. It is used for headless runs and tests.
type LoopDriver struct {
	// MaxFrames stops the loop after this many frames when positive.
	MaxFrames int
}

// Run implements Driver.
func (d LoopDriver) Run(frame func() error) error {
	for n := 0; d.MaxFrames <= 0 || n < d.MaxFrames; n++ {
		if err := frame(); err != nil {
			if err == ErrTerminated {
				return nil
			}
			return err
		}
	}
	return nil
}
