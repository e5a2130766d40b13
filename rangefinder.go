package coge

// cardinalDirs lists the four cardinal neighbor offsets: up, right, down, left.
var cardinalDirs = [4]Point{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}

// GridRangeFinder flood-fills a tile grid from a start cell with a movement
// budget. Entering a cell costs its tile value.
type GridRangeFinder struct {
	grid   TileGrid
	remain []int
	queued []int // wave number a cell was last queued for
	wave   []Point
	next   []Point
}

// NewGridRangeFinder creates a range finder over grid.
func NewGridRangeFinder(grid TileGrid) *GridRangeFinder {
	return &GridRangeFinder{grid: grid}
}

// Travel runs the fill. Each cell records the most movement left after
// arriving; a cell is revisited only when a strictly better value is found.
// Waves are expanded level by level.
func (r *GridRangeFinder) Travel(start Point, budget int) {
	cols, rows := r.grid.Columns(), r.grid.Rows()
	n := cols * rows
	if cap(r.remain) < n {
		r.remain = make([]int, n)
	}
	if cap(r.queued) < n {
		r.queued = make([]int, n)
	}
	r.remain = r.remain[:n]
	r.queued = r.queued[:n]
	for i := range r.remain {
		r.remain[i] = -1
	}
	clear(r.queued)
	if start.X < 0 || start.Y < 0 || start.X >= cols || start.Y >= rows || budget < 0 {
		return
	}

	r.remain[start.Y*cols+start.X] = budget
	r.wave = append(r.wave[:0], start)

	for stamp := 1; len(r.wave) > 0; stamp++ {
		r.next = r.next[:0]
		for _, c := range r.wave {
			left := r.remain[c.Y*cols+c.X]
			for _, d := range cardinalDirs {
				x, y := c.X+d.X, c.Y+d.Y
				if x < 0 || y < 0 || x >= cols || y >= rows {
					continue
				}
				cost := r.grid.TileValue(x, y)
				if cost < 0 {
					continue
				}
				rest := left - cost
				if rest < 0 {
					continue
				}
				cell := y*cols + x
				if rest <= r.remain[cell] {
					continue
				}
				r.remain[cell] = rest
				if r.queued[cell] != stamp {
					r.queued[cell] = stamp
					r.next = append(r.next, Point{x, y})
				}
			}
		}
		r.wave, r.next = r.next, r.wave
	}
}

// Remaining returns the movement left on arriving at (x, y) after the last
// Travel, or -1 when the cell was not reached.
func (r *GridRangeFinder) Remaining(x, y int) int {
	cols := r.grid.Columns()
	if x < 0 || y < 0 || x >= cols || y >= r.grid.Rows() || len(r.remain) == 0 {
		return -1
	}
	return r.remain[y*cols+x]
}

// FindRange returns every cell reachable from start within budget in
// row-major order.
func (r *GridRangeFinder) FindRange(start Point, budget int) []Point {
	r.Travel(start, budget)
	cols := r.grid.Columns()
	var out []Point
	for i, v := range r.remain {
		if v >= 0 {
			out = append(out, Point{i % cols, i / cols})
		}
	}
	return out
}
