package coge

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
)

type headlessImage struct {
	w, h int
	src  string
}

func (i *headlessImage) Size() (int, int) { return i.w, i.h }

type headlessFont struct{ name string }

func (f *headlessFont) Name() string { return f.name }

// VideoCall records one drawing call made against a HeadlessVideo.
type VideoCall struct {
	Op     string
	Dst    Image
	Src    Image
	Rect   Rect
	X, Y   int
	Amount int
	Alpha  float64
	Text   string
}

// HeadlessVideo is a Video that keeps no pixels. It tracks image sizes and
// records every call, which makes the scene pipeline testable without a GPU.
type HeadlessVideo struct {
	// Sizes maps image paths to sizes so LoadImage works without files.
	Sizes map[string][2]int
	// Record enables the Calls log.
	Record bool
	Calls  []VideoCall
	Counts map[string]int

	mode      VideoMode
	screen    Image
	live      int
	presented int
}

// NewHeadlessVideo creates a headless back-end with a w x h screen.
func NewHeadlessVideo(w, h int) *HeadlessVideo {
	v := &HeadlessVideo{
		Sizes:  make(map[string][2]int),
		Counts: make(map[string]int),
		mode:   VideoMode{Width: w, Height: h, Backend: "headless"},
	}
	v.screen = &headlessImage{w: w, h: h, src: "screen"}
	return v
}

func (v *HeadlessVideo) record(c VideoCall) {
	v.Counts[c.Op]++
	if v.Record {
		v.Calls = append(v.Calls, c)
	}
}

// Reset clears the call log and counters.
func (v *HeadlessVideo) Reset() {
	v.Calls = v.Calls[:0]
	clear(v.Counts)
}

// LiveImages returns the number of images created and not deleted.
func (v *HeadlessVideo) LiveImages() int { return v.live }

// Presented returns the number of Present calls.
func (v *HeadlessVideo) Presented() int { return v.presented }

// NewImage implements Video.
func (v *HeadlessVideo) NewImage(w, h int) (Image, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: image size %dx%d", ErrResource, w, h)
	}
	v.live++
	return &headlessImage{w: w, h: h}, nil
}

// LoadImage implements Video. Paths listed in Sizes need no file; other
// paths are decoded for their dimensions only.
func (v *HeadlessVideo) LoadImage(path string) (Image, error) {
	if sz, ok := v.Sizes[path]; ok {
		v.live++
		return &headlessImage{w: sz[0], h: sz[1], src: path}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrResource, err)
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrResource, path, err)
	}
	v.live++
	return &headlessImage{w: cfg.Width, h: cfg.Height, src: path}, nil
}

// NewImageFromImage implements Video.
func (v *HeadlessVideo) NewImageFromImage(img image.Image) Image {
	b := img.Bounds()
	v.live++
	return &headlessImage{w: b.Dx(), h: b.Dy()}
}

// DelImage implements Video.
func (v *HeadlessVideo) DelImage(img Image) {
	if img != nil && img != v.screen {
		v.live--
	}
}

// LoadFont implements Video.
func (v *HeadlessVideo) LoadFont(path string, size float64) (Font, error) {
	return &headlessFont{name: path}, nil
}

// Screen implements Video.
func (v *HeadlessVideo) Screen() Image { return v.screen }

// SetScreen implements Video.
func (v *HeadlessVideo) SetScreen(img Image) { v.screen = img }

// DrawImage implements Video.
func (v *HeadlessVideo) DrawImage(dst, src Image, srcRect Rect, x, y int, op *DrawOptions) {
	v.record(VideoCall{Op: "draw", Dst: dst, Src: src, Rect: srcRect, X: x, Y: y})
}

// FillRect implements Video.
func (v *HeadlessVideo) FillRect(dst Image, rc Rect, c Color) {
	v.record(VideoCall{Op: "fill", Dst: dst, Rect: rc})
}

// DrawText implements Video.
func (v *HeadlessVideo) DrawText(dst Image, font Font, s string, x, y int, c Color) {
	v.record(VideoCall{Op: "text", Dst: dst, X: x, Y: y, Text: s})
}

// Lightness implements Video.
func (v *HeadlessVideo) Lightness(dst Image, rc Rect, amount int) {
	v.record(VideoCall{Op: "lightness", Dst: dst, Rect: rc, Amount: amount})
}

// Blend implements Video.
func (v *HeadlessVideo) Blend(dst, src Image, srcRect Rect, x, y int, alpha float64) {
	v.record(VideoCall{Op: "blend", Dst: dst, Src: src, Rect: srcRect, X: x, Y: y, Alpha: alpha})
}

// MaskBlend implements Video.
func (v *HeadlessVideo) MaskBlend(dst, src, mask Image, progress float64) {
	v.record(VideoCall{Op: "mask", Dst: dst, Src: src, Alpha: progress})
}

// CopyImage implements Video.
func (v *HeadlessVideo) CopyImage(dst, src Image, srcRect Rect, x, y int) {
	v.record(VideoCall{Op: "copy", Dst: dst, Src: src, Rect: srcRect, X: x, Y: y})
}

// Present implements Video.
func (v *HeadlessVideo) Present(src Image, region Rect) {
	v.presented++
	v.record(VideoCall{Op: "present", Src: src, Rect: region})
}

// Mode implements Video.
func (v *HeadlessVideo) Mode() VideoMode { return v.mode }

// Snapshot implements Snapshotter with a transparent image of img's size.
func (v *HeadlessVideo) Snapshot(img Image) (*image.NRGBA, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrResource)
	}
	w, h := img.Size()
	v.record(VideoCall{Op: "snapshot", Src: img})
	return image.NewNRGBA(image.Rect(0, 0, w, h)), nil
}
