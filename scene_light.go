package coge

import (
	"image"
	"math"
)

// lightLayer darkens the view with an ambient color and erases the light
// maps of in-view sprites from it, so sprites carrying a light map show
// through the darkness.
type lightLayer struct {
	enabled bool
	ambient Color
	canvas  Image
	w, h    int
}

// SetLighting turns the light layer on or off. ambient is the darkness laid
// over the view; its alpha controls how dark unlit areas are.
func (s *Scene) SetLighting(on bool, ambient Color) {
	s.light.enabled = on
	s.light.ambient = ambient
	s.dirty.markFull()
}

// Lighting reports whether the light layer is on, and its ambient color.
func (s *Scene) Lighting() (bool, Color) { return s.light.enabled, s.light.ambient }

// drawLights renders the light layer over dst.
func (s *Scene) drawLights(v Video, dst Image) {
	ll := &s.light
	if !ll.enabled {
		return
	}
	w, h := s.view.Width(), s.view.Height()
	if ll.canvas == nil || ll.w != w || ll.h != h {
		if ll.canvas != nil {
			v.DelImage(ll.canvas)
		}
		img, err := v.NewImage(w, h)
		if err != nil {
			s.warn.Warn("light layer", "scene", s.Name, "err", err)
			return
		}
		ll.canvas, ll.w, ll.h = img, w, h
	}
	full := Rect{0, 0, w, h}
	v.FillRect(ll.canvas, full, ll.ambient)

	erase := &DrawOptions{Alpha: 1, Blend: BlendErase}
	for _, sp := range s.inView {
		rc, ok := sp.lightRect()
		if !ok || !sp.Visible {
			continue
		}
		img := sp.LightMap.Value()
		lw, lh := img.Size()
		v.DrawImage(ll.canvas, img, Rect{0, 0, lw, lh}, rc.Left-s.view.Left, rc.Top-s.view.Top, erase)
	}
	v.DrawImage(dst, ll.canvas, full, 0, 0, &DrawOptions{Alpha: 1})
	// The overlay covers every pixel, so the next frame starts from scratch.
	s.dirty.markFull()
}

func (ll *lightLayer) release(e *Engine) {
	if ll.canvas != nil && e != nil && e.video != nil {
		e.video.DelImage(ll.canvas)
	}
	ll.canvas = nil
}

// NewLightCircle creates a feathered white circle usable as a sprite light
// map. Alpha falls off with smoothstep from the center to the edge.
func NewLightCircle(v Video, radius int) Image {
	size := max(radius*2, 1)
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	r := float64(max(radius, 1))
	cx, cy := r, r
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x) + 0.5 - cx
			dy := float64(y) + 0.5 - cy
			dist := math.Sqrt(dx*dx+dy*dy) / r

			var alpha float64
			if dist < 1 {
				// smoothstep: 1 at center, 0 at edge
				t := 1 - dist
				alpha = t * t * (3 - 2*t)
			}

			a := uint8(alpha * 255)
			off := img.PixOffset(x, y)
			img.Pix[off+0] = a // premultiplied white
			img.Pix[off+1] = a
			img.Pix[off+2] = a
			img.Pix[off+3] = a
		}
	}
	return v.NewImageFromImage(img)
}
