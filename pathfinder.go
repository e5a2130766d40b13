package coge

import "sort"

// TileGrid is the read-only tile view searched by the grid finders.
// TileValue returns the movement cost of a cell; negative means impassable.
type TileGrid interface {
	Columns() int
	Rows() int
	TileValue(x, y int) int
}

// FinderState is the per-search state of a GridPathFinder.
type FinderState uint8

const (
	FinderIdle FinderState = iota
	FinderSearching
	FinderDone
)

// stepNode is one discovered cell. prior links back towards the start;
// index is the number of steps walked from the start.
type stepNode struct {
	pos   Point
	prior int
	index int
}

// traceNode is an entry of the open or closed list.
type traceNode struct {
	step     int
	estimate int // index + manhattan distance to the goal
	remain   int // manhattan distance to the goal
}

// GridPathFinder runs a best-first search over a tile grid. The open list is
// ordered by walked step index plus Manhattan distance to the goal, so the
// result is a good route rather than a guaranteed cheapest one.
type GridPathFinder struct {
	// Diagonal enables 8-direction movement.
	Diagonal bool

	grid    TileGrid
	state   FinderState
	steps   []stepNode
	open    []traceNode
	openAt  int
	closed  []traceNode
	history []int
}

// NewGridPathFinder creates a finder over grid.
func NewGridPathFinder(grid TileGrid, diagonal bool) *GridPathFinder {
	return &GridPathFinder{grid: grid, Diagonal: diagonal}
}

// State returns the finder's current search state.
func (f *GridPathFinder) State() FinderState { return f.state }

// reset clears all per-search history. Searches never share state.
func (f *GridPathFinder) reset() {
	n := f.grid.Columns() * f.grid.Rows()
	if cap(f.history) < n {
		f.history = make([]int, n)
	}
	f.history = f.history[:n]
	for i := range f.history {
		f.history[i] = -1
	}
	f.steps = f.steps[:0]
	f.open = f.open[:0]
	f.openAt = 0
	f.closed = f.closed[:0]
	f.state = FinderIdle
}

func (f *GridPathFinder) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < f.grid.Columns() && y < f.grid.Rows()
}

// TestStep tries to extend the search from step prior into (x, y). It fails
// for cells outside the grid, impassable cells, and cells already reached
// this search with an equal or shorter walk. On success the cell is recorded
// and queued on the open list.
func (f *GridPathFinder) TestStep(x, y int, end Point, prior int) bool {
	if !f.inBounds(x, y) {
		return false
	}
	if f.grid.TileValue(x, y) < 0 {
		return false
	}
	index := 0
	if prior >= 0 {
		index = f.steps[prior].index + 1
	}
	cell := y*f.grid.Columns() + x
	if h := f.history[cell]; h >= 0 && h <= index {
		return false
	}
	f.history[cell] = index

	f.steps = append(f.steps, stepNode{pos: Point{x, y}, prior: prior, index: index})
	remain := abs(end.X-x) + abs(end.Y-y)
	f.insertOpen(traceNode{step: len(f.steps) - 1, estimate: index + remain, remain: remain})
	return true
}

// insertOpen keeps the open list ascending by estimate; equal estimates keep
// insertion order.
func (f *GridPathFinder) insertOpen(t traceNode) {
	live := f.open[f.openAt:]
	i := sort.Search(len(live), func(i int) bool { return live[i].estimate > t.estimate })
	pos := f.openAt + i
	f.open = append(f.open, traceNode{})
	copy(f.open[pos+1:], f.open[pos:])
	f.open[pos] = t
}

// archive inserts t into the closed list, nearest-to-goal first.
func (f *GridPathFinder) archive(t traceNode) {
	i := sort.Search(len(f.closed), func(i int) bool {
		c := f.closed[i]
		if c.remain != t.remain {
			return c.remain > t.remain
		}
		return c.estimate > t.estimate
	})
	f.closed = append(f.closed, traceNode{})
	copy(f.closed[i+1:], f.closed[i:])
	f.closed[i] = t
}

// FindWay searches from start to end and returns the cells walked, start
// first and end last. It returns nil when end cannot be reached.
func (f *GridPathFinder) FindWay(start, end Point) []Point {
	f.reset()
	if !f.inBounds(start.X, start.Y) || !f.inBounds(end.X, end.Y) {
		return nil
	}
	if f.grid.TileValue(end.X, end.Y) < 0 {
		return nil
	}
	if start == end {
		return []Point{start}
	}

	f.state = FinderSearching
	defer func() { f.state = FinderDone }()

	// The start cell is seeded without a cost check: the walker stands on it.
	f.history[start.Y*f.grid.Columns()+start.X] = 0
	f.steps = append(f.steps, stepNode{pos: start, prior: -1})
	remain := abs(end.X-start.X) + abs(end.Y-start.Y)
	f.insertOpen(traceNode{step: 0, estimate: remain, remain: remain})

	for f.openAt < len(f.open) {
		cur := f.open[f.openAt]
		f.openAt++
		node := f.steps[cur.step]
		if node.pos == end {
			f.archive(cur)
			break
		}
		// A shorter walk reached this cell after cur was queued.
		if f.history[node.pos.Y*f.grid.Columns()+node.pos.X] < node.index {
			continue
		}
		if !f.expand(cur, end) {
			f.archive(cur)
		}
	}

	if len(f.closed) == 0 || f.closed[0].remain != 0 {
		return nil
	}
	return f.trace(f.closed[0].step)
}

// expand tests the neighbors of cur and reports whether every tested
// neighbor succeeded.
func (f *GridPathFinder) expand(cur traceNode, end Point) bool {
	p := f.steps[cur.step].pos
	up := f.TestStep(p.X, p.Y-1, end, cur.step)
	right := f.TestStep(p.X+1, p.Y, end, cur.step)
	down := f.TestStep(p.X, p.Y+1, end, cur.step)
	left := f.TestStep(p.X-1, p.Y, end, cur.step)
	ok := up && right && down && left

	if !f.Diagonal {
		return ok
	}
	if up || right {
		ok = f.TestStep(p.X+1, p.Y-1, end, cur.step) && ok
	}
	if right || down {
		ok = f.TestStep(p.X+1, p.Y+1, end, cur.step) && ok
	}
	if down || left {
		ok = f.TestStep(p.X-1, p.Y+1, end, cur.step) && ok
	}
	if left || up {
		ok = f.TestStep(p.X-1, p.Y-1, end, cur.step) && ok
	}
	return ok
}

// trace walks prior links from step back to the start and returns the
// cells in walking order.
func (f *GridPathFinder) trace(step int) []Point {
	var way []Point
	for i := step; i >= 0; i = f.steps[i].prior {
		way = append(way, f.steps[i].pos)
	}
	for l, r := 0, len(way)-1; l < r; l, r = l+1, r-1 {
		way[l], way[r] = way[r], way[l]
	}
	return way
}
