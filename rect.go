package coge

// Rect is an axis-aligned integer rectangle. Right and Bottom are exclusive.
// The coordinate system has its origin at the top-left, with Y increasing
// downward. Right >= Left and Bottom >= Top are expected but not enforced.
type Rect struct {
	Left, Top, Right, Bottom int
}

// RectWH builds a Rect from a position and a size.
func RectWH(x, y, w, h int) Rect {
	return Rect{Left: x, Top: y, Right: x + w, Bottom: y + h}
}

// Width returns Right - Left.
func (r Rect) Width() int { return r.Right - r.Left }

// Height returns Bottom - Top.
func (r Rect) Height() int { return r.Bottom - r.Top }

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Right <= r.Left || r.Bottom <= r.Top
}

// Offset returns the rectangle moved by (dx, dy).
func (r Rect) Offset(dx, dy int) Rect {
	return Rect{r.Left + dx, r.Top + dy, r.Right + dx, r.Bottom + dy}
}

// Union returns the smallest rectangle containing both r and o.
// An empty operand is ignored.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	return Rect{
		Left:   min(r.Left, o.Left),
		Top:    min(r.Top, o.Top),
		Right:  max(r.Right, o.Right),
		Bottom: max(r.Bottom, o.Bottom),
	}
}

// Intersect returns the overlapping area of r and o. The result is empty
// when they do not overlap.
func (r Rect) Intersect(o Rect) Rect {
	out := Rect{
		Left:   max(r.Left, o.Left),
		Top:    max(r.Top, o.Top),
		Right:  min(r.Right, o.Right),
		Bottom: min(r.Bottom, o.Bottom),
	}
	if out.Empty() {
		return Rect{}
	}
	return out
}

// Contains reports whether o lies entirely inside r.
func (r Rect) Contains(o Rect) bool {
	return o.Left >= r.Left && o.Right <= r.Right &&
		o.Top >= r.Top && o.Bottom <= r.Bottom
}

// Overlap reports whether a and b share any area. Rectangles that only
// touch along an edge do not overlap.
func Overlap(a, b Rect) bool {
	return a.Left < b.Right && a.Right > b.Left &&
		a.Top < b.Bottom && a.Bottom > b.Top
}

// PointInRect reports whether (x, y) lies inside rc. Left and Top edges are
// inside, Right and Bottom edges are outside.
func PointInRect(x, y int, rc Rect) bool {
	return x >= rc.Left && x < rc.Right && y >= rc.Top && y < rc.Bottom
}

// ClipToTarget clips a blit of src placed at (dstX, dstY) against the
// destination bounds. It returns the clipped source rectangle and the
// destination rectangle it maps to. ok is false when nothing would be drawn.
func ClipToTarget(src Rect, dstX, dstY int, bounds Rect) (clippedSrc, clippedDst Rect, ok bool) {
	if dstX >= bounds.Right || dstY >= bounds.Bottom {
		return Rect{}, Rect{}, false
	}
	w, h := src.Width(), src.Height()
	if w <= 0 || h <= 0 {
		return Rect{}, Rect{}, false
	}

	dst := Rect{dstX, dstY, dstX + w, dstY + h}
	clippedSrc = src

	if dst.Left < bounds.Left {
		d := bounds.Left - dst.Left
		dst.Left += d
		clippedSrc.Left += d
	}
	if dst.Top < bounds.Top {
		d := bounds.Top - dst.Top
		dst.Top += d
		clippedSrc.Top += d
	}
	if dst.Right > bounds.Right {
		d := dst.Right - bounds.Right
		dst.Right -= d
		clippedSrc.Right -= d
	}
	if dst.Bottom > bounds.Bottom {
		d := dst.Bottom - bounds.Bottom
		dst.Bottom -= d
		clippedSrc.Bottom -= d
	}

	if dst.Width() <= 0 || dst.Height() <= 0 {
		return Rect{}, Rect{}, false
	}
	return clippedSrc, dst, true
}
