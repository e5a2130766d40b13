package coge

import "testing"

func TestRectWH(t *testing.T) {
	r := RectWH(10, 20, 30, 40)
	if r != (Rect{10, 20, 40, 60}) {
		t.Errorf("RectWH = %+v, want {10 20 40 60}", r)
	}
	if r.Width() != 30 || r.Height() != 40 {
		t.Errorf("size = %dx%d, want 30x40", r.Width(), r.Height())
	}
}

func TestRectUnionIgnoresEmpty(t *testing.T) {
	a := RectWH(0, 0, 10, 10)
	if got := a.Union(Rect{}); got != a {
		t.Errorf("Union(empty) = %+v, want %+v", got, a)
	}
	if got := (Rect{}).Union(a); got != a {
		t.Errorf("empty.Union = %+v, want %+v", got, a)
	}
	b := RectWH(20, 5, 5, 30)
	if got := a.Union(b); got != (Rect{0, 0, 25, 35}) {
		t.Errorf("Union = %+v, want {0 0 25 35}", got)
	}
}

func TestRectIntersect(t *testing.T) {
	a := RectWH(0, 0, 10, 10)
	b := RectWH(5, 5, 10, 10)
	if got := a.Intersect(b); got != (Rect{5, 5, 10, 10}) {
		t.Errorf("Intersect = %+v, want {5 5 10 10}", got)
	}
	if got := a.Intersect(RectWH(10, 0, 5, 5)); got != (Rect{}) {
		t.Errorf("edge Intersect = %+v, want empty", got)
	}
}

func TestOverlapEdges(t *testing.T) {
	a := RectWH(0, 0, 10, 10)
	tests := []struct {
		b    Rect
		want bool
	}{
		{RectWH(5, 5, 10, 10), true},
		{RectWH(10, 0, 10, 10), false},
		{RectWH(0, 10, 10, 10), false},
		{RectWH(9, 9, 1, 1), true},
		{RectWH(-5, -5, 5, 5), false},
		{RectWH(2, 2, 2, 2), true},
	}
	for _, tt := range tests {
		if got := Overlap(a, tt.b); got != tt.want {
			t.Errorf("Overlap(%+v, %+v) = %v, want %v", a, tt.b, got, tt.want)
		}
		if got := Overlap(tt.b, a); got != tt.want {
			t.Errorf("Overlap is not symmetric for %+v", tt.b)
		}
	}
}

func TestPointInRectExclusiveEdges(t *testing.T) {
	rc := RectWH(0, 0, 10, 10)
	if !PointInRect(0, 0, rc) {
		t.Error("top-left corner should be inside")
	}
	if PointInRect(10, 5, rc) || PointInRect(5, 10, rc) {
		t.Error("right and bottom edges should be outside")
	}
}

func TestRectContainsAndOffset(t *testing.T) {
	outer := RectWH(0, 0, 100, 100)
	inner := RectWH(10, 10, 20, 20)
	if !outer.Contains(inner) {
		t.Error("outer should contain inner")
	}
	if outer.Contains(inner.Offset(90, 0)) {
		t.Error("offset rect should stick out")
	}
	if got := inner.Offset(-10, 5); got != (Rect{0, 15, 20, 35}) {
		t.Errorf("Offset = %+v, want {0 15 20 35}", got)
	}
}

func TestClipToTarget(t *testing.T) {
	bounds := RectWH(0, 0, 100, 100)
	src := RectWH(0, 0, 20, 20)

	s, d, ok := ClipToTarget(src, 10, 10, bounds)
	if !ok || s != src || d != RectWH(10, 10, 20, 20) {
		t.Errorf("inside = %+v %+v %v, want unclipped", s, d, ok)
	}

	s, d, ok = ClipToTarget(src, -5, 90, bounds)
	if !ok {
		t.Fatal("partially visible blit reported nothing to draw")
	}
	if s != (Rect{5, 0, 20, 10}) {
		t.Errorf("clipped src = %+v, want {5 0 20 10}", s)
	}
	if d != (Rect{0, 90, 15, 100}) {
		t.Errorf("clipped dst = %+v, want {0 90 15 100}", d)
	}
	if s.Width() != d.Width() || s.Height() != d.Height() {
		t.Errorf("src %dx%d and dst %dx%d differ", s.Width(), s.Height(), d.Width(), d.Height())
	}

	if _, _, ok := ClipToTarget(src, 100, 0, bounds); ok {
		t.Error("blit at right edge should be rejected")
	}
	if _, _, ok := ClipToTarget(src, -20, 0, bounds); ok {
		t.Error("blit fully left of target should be rejected")
	}
	if _, _, ok := ClipToTarget(Rect{}, 0, 0, bounds); ok {
		t.Error("empty source should be rejected")
	}
}
