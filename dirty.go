package coge

// maxDirtyRects is the number of rects tracked before a frame falls back to
// a full redraw.
const maxDirtyRects = 64

// dirtyRegion is the part of the view whose background must be redrawn this
// frame: either a list of rects or the whole view.
type dirtyRegion struct {
	full  bool
	rects []Rect
}

// add records rc. Rects contained in an existing one are dropped; a list
// that would grow past maxDirtyRects turns into a full redraw.
func (d *dirtyRegion) add(rc Rect) {
	if d.full || rc.Empty() {
		return
	}
	for i, r := range d.rects {
		if r.Contains(rc) {
			return
		}
		if rc.Contains(r) {
			d.rects[i] = rc
			return
		}
	}
	if len(d.rects) >= maxDirtyRects {
		d.markFull()
		return
	}
	d.rects = append(d.rects, rc)
}

// markFull switches to a full redraw.
func (d *dirtyRegion) markFull() {
	d.full = true
	d.rects = d.rects[:0]
}

// reset clears the region after the background was redrawn.
func (d *dirtyRegion) reset() {
	d.full = false
	d.rects = d.rects[:0]
}

// Rects returns the tracked rects; nil when a full redraw is pending.
func (d *dirtyRegion) Rects() []Rect {
	if d.full {
		return nil
	}
	return d.rects
}
