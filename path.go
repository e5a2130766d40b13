package coge

import (
	"errors"
	"fmt"
	"math"
)

// PathType selects how step points are generated from key points.
type PathType uint8

const (
	PathPoints PathType = iota // key points are used verbatim
	PathLines                  // straight Bresenham runs between keys
	PathBezier                 // piecewise cubic Bézier through 4-key groups
)

// ErrBezierKeys is returned when a Bézier path has a key count that is not
// 3n+1 (n >= 1).
var ErrBezierKeys = errors.New("coge: bezier path needs 3n+1 key points")

// Point is an integer 2D point.
type Point struct {
	X, Y int
}

// Path is an ordered sequence of key points plus the dense step points
// generated from them. Steps are generated once by Build and never change
// afterwards.
type Path struct {
	Name string

	typ     PathType
	keys    []Point
	steps   []Point
	segment int
}

// NewPath creates a path and builds its step points. On error the returned
// path is nil.
func NewPath(name string, typ PathType, keys []Point, segmentLength int) (*Path, error) {
	p := &Path{Name: name}
	if err := p.Build(typ, keys, segmentLength); err != nil {
		return nil, err
	}
	return p, nil
}

// Build regenerates the step points. For PathBezier segmentLength points are
// produced per 4-key group. On error the path keeps no points.
func (p *Path) Build(typ PathType, keys []Point, segmentLength int) error {
	p.typ = typ
	p.keys = append(p.keys[:0], keys...)
	p.steps = p.steps[:0]
	p.segment = segmentLength

	switch typ {
	case PathPoints:
		p.steps = append(p.steps, keys...)
	case PathLines:
		if len(keys) == 0 {
			return nil
		}
		p.steps = append(p.steps, keys[0])
		for i := 1; i < len(keys); i++ {
			p.steps = appendLine(p.steps, keys[i-1], keys[i])
		}
	case PathBezier:
		if len(keys) < 4 || (len(keys)-1)%3 != 0 {
			p.steps = nil
			return fmt.Errorf("%w: got %d", ErrBezierKeys, len(keys))
		}
		if segmentLength <= 0 {
			p.steps = nil
			return fmt.Errorf("coge: bezier segment length %d must be positive", segmentLength)
		}
		for g := 0; g+3 < len(keys); g += 3 {
			p.steps = appendBezier(p.steps, keys[g], keys[g+1], keys[g+2], keys[g+3], segmentLength)
		}
	default:
		return fmt.Errorf("coge: unknown path type %d", typ)
	}
	return nil
}

// Type returns the path type used by the last Build.
func (p *Path) Type() PathType { return p.typ }

// Keys returns the key points. The returned slice MUST NOT be mutated.
func (p *Path) Keys() []Point { return p.keys }

// Steps returns the generated step points. The returned slice MUST NOT be mutated.
func (p *Path) Steps() []Point { return p.steps }

// StepCount returns the number of generated step points.
func (p *Path) StepCount() int { return len(p.steps) }

// Step returns step point i. Callers keep i within [0, StepCount()).
func (p *Path) Step(i int) Point { return p.steps[i] }

// appendLine rasterizes from a to b with Bresenham's algorithm and appends
// every point after a, up to and including b.
func appendLine(dst []Point, a, b Point) []Point {
	dx := abs(b.X - a.X)
	dy := -abs(b.Y - a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}
	err := dx + dy
	x, y := a.X, a.Y
	for x != b.X || y != b.Y {
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
		dst = append(dst, Point{x, y})
	}
	return dst
}

// appendBezier evaluates one cubic segment for t = 1/n .. 1.
func appendBezier(dst []Point, p0, p1, p2, p3 Point, n int) []Point {
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		u := 1 - t
		b0 := u * u * u
		b1 := 3 * t * u * u
		b2 := 3 * t * t * u
		b3 := t * t * t
		x := b0*float64(p0.X) + b1*float64(p1.X) + b2*float64(p2.X) + b3*float64(p3.X)
		y := b0*float64(p0.Y) + b1*float64(p1.Y) + b2*float64(p2.Y) + b3*float64(p3.Y)
		dst = append(dst, Point{int(math.Round(x)), int(math.Round(y))})
	}
	return dst
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
