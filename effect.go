package coge

import (
	"math"
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// EffectKind selects the sprite property a timed effect animates.
type EffectKind uint8

const (
	EffectAlpha     EffectKind = iota // Sprite.Alpha
	EffectLightness                   // Sprite.Lightness
	EffectScale                       // Sprite.Scale
	EffectRotation                    // Sprite.Rotation
	EffectMove                        // sprite position
)

// Effect is a running timed effect. It animates one or two values of its
// sprite with gween tweens and applies them every frame until done. There is
// no global effect manager; the owning sprite advances its effects.
type Effect struct {
	Kind   EffectKind
	tweens [2]*gween.Tween
	count  int
	Done   bool
}

// update advances the tweens by dt seconds and returns the current values.
func (fx *Effect) update(dt float32) (a, b float64) {
	allDone := true
	var vals [2]float64
	for i := 0; i < fx.count; i++ {
		v, finished := fx.tweens[i].Update(dt)
		vals[i] = float64(v)
		if !finished {
			allDone = false
		}
	}
	fx.Done = allDone
	return vals[0], vals[1]
}

func seconds(d time.Duration) float32 { return float32(d.Seconds()) }

// StartEffect animates the property selected by kind from its current value
// to `to` over d. A running effect of the same kind is replaced. A nil ease
// function is linear.
func (s *Sprite) StartEffect(kind EffectKind, to float64, d time.Duration, fn ease.TweenFunc) *Effect {
	if fn == nil {
		fn = ease.Linear
	}
	var from float64
	switch kind {
	case EffectAlpha:
		from = s.Alpha
	case EffectLightness:
		from = float64(s.Lightness)
	case EffectScale:
		from = s.Scale
	case EffectRotation:
		from = s.Rotation
	case EffectMove:
		return s.MoveTo(int(to), s.y, d, fn)
	}
	fx := &Effect{Kind: kind, count: 1}
	fx.tweens[0] = gween.New(float32(from), float32(to), seconds(d), fn)
	s.addEffect(fx)
	return fx
}

// MoveTo slides the sprite to (x, y) over d.
func (s *Sprite) MoveTo(x, y int, d time.Duration, fn ease.TweenFunc) *Effect {
	if fn == nil {
		fn = ease.Linear
	}
	fx := &Effect{Kind: EffectMove, count: 2}
	fx.tweens[0] = gween.New(float32(s.x), float32(x), seconds(d), fn)
	fx.tweens[1] = gween.New(float32(s.y), float32(y), seconds(d), fn)
	s.addEffect(fx)
	return fx
}

func (s *Sprite) addEffect(fx *Effect) {
	for i, old := range s.effects {
		if old.Kind == fx.Kind {
			s.effects[i] = fx
			return
		}
	}
	s.effects = append(s.effects, fx)
}

// StopEffects drops every running effect without firing EventEffectFinished.
func (s *Sprite) StopEffects() {
	clear(s.effects)
	s.effects = s.effects[:0]
}

// EffectsRunning reports whether any timed effect is active.
func (s *Sprite) EffectsRunning() bool { return len(s.effects) > 0 }

// updateEffects advances every effect, applies the values and reports whether
// the last running effect finished this frame.
func (s *Sprite) updateEffects(dt float32) bool {
	if len(s.effects) == 0 {
		return false
	}
	live := s.effects[:0]
	for _, fx := range s.effects {
		a, b := fx.update(dt)
		switch fx.Kind {
		case EffectAlpha:
			s.Alpha = clamp01(a)
		case EffectLightness:
			s.Lightness = int(math.Round(a))
		case EffectScale:
			s.Scale = a
		case EffectRotation:
			s.Rotation = a
		case EffectMove:
			s.SetPos(int(math.Round(a)), int(math.Round(b)))
		}
		if !fx.Done {
			live = append(live, fx)
		}
	}
	clear(s.effects[len(live):])
	s.effects = live
	return len(s.effects) == 0
}
