package coge

import (
	"fmt"
	"time"
)

// EffectSet is a per-frame visual modification of an anima frame.
type EffectSet struct {
	Alpha     float64 // 0 keeps the sprite alpha
	Lightness int
	OffsetX   int
	OffsetY   int
	Scale     float64 // 0 keeps the sprite scale
	Rotation  float64
}

// AnimaDef describes an animation clip.
type AnimaDef struct {
	Name      string
	Direction int
	Action    int
	// Local is the clip's area inside the source image. Its area must be an
	// exact multiple of one frame's area.
	Local       Rect
	FrameWidth  int
	FrameHeight int
	// RootX and RootY are the frame's anchor; the sprite position maps to it.
	RootX, RootY int
	// FrameCount of 0 uses every frame in Local.
	FrameCount int
	Interval   time.Duration
	AutoReplay bool
	ReplayGap  time.Duration
	// Body is the collision rect relative to the frame's top-left. Empty
	// uses the whole frame.
	Body    Rect
	Effects []EffectSet
}

// Anima is an animation clip bound to a (direction, action) pair.
type Anima struct {
	Name      string
	Direction int
	Action    int

	image      *Shared[Image]
	local      Rect
	frameW     int
	frameH     int
	rootX      int
	rootY      int
	frames     int
	columns    int
	interval   time.Duration
	autoReplay bool
	gap        time.Duration
	body       Rect
	effects    []EffectSet
}

// NewAnima validates def and creates a clip drawing from img. The anima takes
// its own reference on img.
func NewAnima(def AnimaDef, img *Shared[Image]) (*Anima, error) {
	if def.FrameWidth <= 0 || def.FrameHeight <= 0 {
		return nil, fmt.Errorf("%w: anima %q frame size %dx%d", ErrBadConfig, def.Name, def.FrameWidth, def.FrameHeight)
	}
	w, h := def.Local.Width(), def.Local.Height()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: anima %q has empty area", ErrBadConfig, def.Name)
	}
	frameArea := def.FrameWidth * def.FrameHeight
	if (w*h)%frameArea != 0 || w%def.FrameWidth != 0 || h%def.FrameHeight != 0 {
		return nil, fmt.Errorf("%w: %q area %dx%d, frame %dx%d", ErrAnimaArea, def.Name, w, h, def.FrameWidth, def.FrameHeight)
	}
	total := (w * h) / frameArea
	frames := def.FrameCount
	if frames <= 0 || frames > total {
		frames = total
	}
	if len(def.Effects) != 0 && len(def.Effects) != frames {
		return nil, fmt.Errorf("%w: anima %q has %d effect sets for %d frames", ErrBadConfig, def.Name, len(def.Effects), frames)
	}
	a := &Anima{
		Name:       def.Name,
		Direction:  def.Direction,
		Action:     def.Action,
		local:      def.Local,
		frameW:     def.FrameWidth,
		frameH:     def.FrameHeight,
		rootX:      def.RootX,
		rootY:      def.RootY,
		frames:     frames,
		columns:    w / def.FrameWidth,
		interval:   def.Interval,
		autoReplay: def.AutoReplay,
		gap:        def.ReplayGap,
		body:       def.Body,
		effects:    def.Effects,
	}
	if img != nil {
		a.image = img.Acquire()
	}
	return a, nil
}

// Image returns the source image, or nil.
func (a *Anima) Image() Image {
	if a.image == nil {
		return nil
	}
	return a.image.Value()
}

// FrameCount returns the number of frames.
func (a *Anima) FrameCount() int { return a.frames }

// FrameSize returns the frame width and height.
func (a *Anima) FrameSize() (w, h int) { return a.frameW, a.frameH }

// Root returns the frame anchor.
func (a *Anima) Root() (x, y int) { return a.rootX, a.rootY }

// Interval returns the time each frame is shown.
func (a *Anima) Interval() time.Duration { return a.interval }

// FrameRect returns frame i's rect inside the source image. Frames run left
// to right, then top to bottom.
func (a *Anima) FrameRect(i int) Rect {
	if i < 0 || i >= a.frames {
		i = 0
	}
	col := i % a.columns
	row := i / a.columns
	x := a.local.Left + col*a.frameW
	y := a.local.Top + row*a.frameH
	return Rect{x, y, x + a.frameW, y + a.frameH}
}

// Body returns the collision rect relative to the frame's top-left.
func (a *Anima) Body() Rect {
	if a.body.Empty() {
		return Rect{0, 0, a.frameW, a.frameH}
	}
	return a.body
}

// Effect returns the effect set of frame i and whether one exists.
func (a *Anima) Effect(i int) (EffectSet, bool) {
	if i < 0 || i >= len(a.effects) {
		return EffectSet{}, false
	}
	return a.effects[i], true
}

// release drops the anima's image reference.
func (a *Anima) release() {
	if a.image != nil {
		a.image.Release()
		a.image = nil
	}
}

type animaKey struct {
	direction, action int
}

// animaPlayer is a sprite's playback state for its current anima.
type animaPlayer struct {
	frame      int
	frameStart time.Duration
	waiting    bool // replay gap in progress
	finished   bool
}

func (p *animaPlayer) reset(now time.Duration) {
	*p = animaPlayer{frameStart: now}
}

// advance steps the frame by elapsed time. It returns true when a
// non-replaying anima reaches its last frame.
func (p *animaPlayer) advance(a *Anima, now time.Duration) bool {
	if p.finished {
		return false
	}
	if p.waiting {
		if now-p.frameStart < a.gap {
			return false
		}
		p.waiting = false
		p.frame = 0
		p.frameStart = now
		return false
	}
	if a.interval <= 0 {
		return false
	}
	for now-p.frameStart >= a.interval {
		p.frameStart += a.interval
		if p.frame+1 < a.frames {
			p.frame++
			continue
		}
		if !a.autoReplay {
			p.finished = true
			return true
		}
		if a.gap > 0 {
			p.waiting = true
			p.frameStart = now
			return false
		}
		p.frame = 0
	}
	return false
}
