package coge

import (
	"fmt"
	"strings"
)

var (
	debugOutline = Color{0, 1, 0, 1}
	debugBody    = Color{1, 0.3, 0.3, 1}
	debugText    = Color{1, 1, 1, 1}
	debugPanel   = Color{0, 0, 0, 0.6}
)

type debugRect struct {
	rc   Rect
	body bool
}

// layoutDebug collects the outlines drawn by the debug overlay: the draw
// rect of every in-view sprite, plus its collision body when collision is
// enabled.
func (s *Scene) layoutDebug() {
	s.debugRects = s.debugRects[:0]
	if s.engine == nil || !s.engine.debug {
		return
	}
	for _, sp := range s.inView {
		s.debugRects = append(s.debugRects, debugRect{rc: sp.drawRect})
		if sp.EnableCollision {
			s.debugRects = append(s.debugRects, debugRect{rc: sp.CollisionRect(), body: true})
		}
	}
	// The overlay is not part of the background; redraw everything next
	// frame so no outline is left behind.
	s.dirty.markFull()
}

// drawDebug draws sprite outlines and the status panel.
func (s *Scene) drawDebug(v Video, screen Image) {
	e := s.engine
	if e == nil || !e.debug {
		return
	}
	for _, dr := range s.debugRects {
		c := debugOutline
		if dr.body {
			c = debugBody
		}
		drawOutline(v, screen, dr.rc.Offset(-s.view.Left, -s.view.Top), c)
	}

	lines := s.debugLines()
	v.FillRect(screen, RectWH(0, 0, 220, 14*len(lines)+6), debugPanel)
	for i, line := range lines {
		v.DrawText(screen, e.debugFnt, line, 4, 4+14*i, debugText)
	}
}

func (s *Scene) debugLines() []string {
	e := s.engine
	mode := e.video.Mode()
	mx, my := e.MousePos()
	return []string{
		fmt.Sprintf("CPS: %d/%d", e.MeasuredCPS(), e.CPS()),
		fmt.Sprintf("video: %s %dx%d", mode.Backend, mode.Width, mode.Height),
		fmt.Sprintf("mouse: %d,%d", mx, my),
		fmt.Sprintf("scene: %s view %d,%d", s.Name, s.view.Left, s.view.Top),
		fmt.Sprintf("sprites: %d active, %d in view", len(s.active.list), len(s.inView)),
		e.Stats().Summary(),
	}
}

// drawOutline draws a one pixel rectangle border.
func drawOutline(v Video, dst Image, rc Rect, c Color) {
	if rc.Empty() {
		return
	}
	v.FillRect(dst, Rect{rc.Left, rc.Top, rc.Right, rc.Top + 1}, c)
	v.FillRect(dst, Rect{rc.Left, rc.Bottom - 1, rc.Right, rc.Bottom}, c)
	v.FillRect(dst, Rect{rc.Left, rc.Top, rc.Left + 1, rc.Bottom}, c)
	v.FillRect(dst, Rect{rc.Right - 1, rc.Top, rc.Right, rc.Bottom}, c)
}

// debugMaxTreeDepth is the sprite hierarchy depth above which debug mode
// warns.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(sp *Sprite) {
	depth := 0
	for p := sp; p != nil; p = p.parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		logger.Warn("sprite tree too deep", "sprite", sp.Name, "depth", depth, "threshold", debugMaxTreeDepth)
	}
}

// debugMaxChildCount is the child count above which debug mode warns.
const debugMaxChildCount = 1000

func debugCheckChildCount(sp *Sprite) {
	if len(sp.children) > debugMaxChildCount {
		logger.Warn("sprite has too many children", "sprite", sp.Name, "children", len(sp.children), "threshold", debugMaxChildCount)
	}
}

// DumpScene returns a one-line-per-sprite listing of the scene, in draw
// order, for logs and the CLI.
func (s *Scene) DumpScene() string {
	var b strings.Builder
	fmt.Fprintf(&b, "scene %s view=%v top_z=%d\n", s.Name, s.view, s.topZ)
	dump := func(tag string, sp *Sprite) {
		fmt.Fprintf(&b, "  %-6s %-16s z=%-4d pos=%d,%d rect=%v active=%t\n",
			tag, sp.Name, sp.z, sp.x, sp.y, sp.drawRect, sp.active)
	}
	if s.first != nil {
		dump("first", s.first)
	}
	for _, sp := range s.inView {
		dump("view", sp)
	}
	if s.last != nil {
		dump("last", s.last)
	}
	return b.String()
}
