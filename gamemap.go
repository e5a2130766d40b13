package coge

import (
	"fmt"
	"math"
)

// MapMode selects how a GameMap converts between pixels and tiles.
type MapMode uint8

const (
	MapScrolling MapMode = iota // untiled scrolling background; every pixel is tile (0, 0)
	MapRectTiles                // orthogonal grid
	MapIsometric                // diamond projection
)

// MapConfig describes a GameMap.
type MapConfig struct {
	Name       string
	Mode       MapMode
	Columns    int
	Rows       int
	TileWidth  int
	TileHeight int
	// FirstX and FirstY locate the grid origin in pixels.
	FirstX, FirstY int
	// RootX and RootY are the anchor inside a tile that TileToPixel returns.
	// They must lie inside one tile.
	RootX, RootY int
	// Tiles holds Columns*Rows movement costs in row-major order. -1 is
	// impassable. Empty means all zero.
	Tiles      []int
	Diagonal   bool
	Background string
}

// GameMap is a grid of tile costs with a parallel scratch grid and the
// pixel/tile transforms for its mode. It owns one path finder and one range
// finder over its tiles.
type GameMap struct {
	Name       string
	Background string

	mode         MapMode
	cols, rows   int
	tileW, tileH int
	firstX       int
	firstY       int
	rootX, rootY int

	tiles    []int
	data     []int
	original []int

	paths  *GridPathFinder
	ranges *GridRangeFinder
}

// NewGameMap validates cfg and builds a map from it.
func NewGameMap(cfg MapConfig) (*GameMap, error) {
	if cfg.Columns <= 0 || cfg.Rows <= 0 {
		return nil, fmt.Errorf("%w: map %q size %dx%d", ErrBadConfig, cfg.Name, cfg.Columns, cfg.Rows)
	}
	if cfg.Mode != MapScrolling {
		if cfg.TileWidth <= 0 || cfg.TileHeight <= 0 {
			return nil, fmt.Errorf("%w: map %q tile size %dx%d", ErrBadConfig, cfg.Name, cfg.TileWidth, cfg.TileHeight)
		}
		if cfg.RootX < 0 || cfg.RootY < 0 || cfg.RootX >= cfg.TileWidth || cfg.RootY >= cfg.TileHeight {
			return nil, fmt.Errorf("%w: map %q tile root (%d,%d) outside tile", ErrBadConfig, cfg.Name, cfg.RootX, cfg.RootY)
		}
		if cfg.Mode == MapIsometric && (cfg.TileWidth%2 != 0 || cfg.TileHeight%2 != 0) {
			return nil, fmt.Errorf("%w: isometric map %q needs even tile size", ErrBadConfig, cfg.Name)
		}
	}
	n := cfg.Columns * cfg.Rows
	if len(cfg.Tiles) != 0 && len(cfg.Tiles) != n {
		return nil, fmt.Errorf("%w: map %q has %d tiles, want %d", ErrBadConfig, cfg.Name, len(cfg.Tiles), n)
	}

	m := &GameMap{
		Name:       cfg.Name,
		Background: cfg.Background,
		mode:       cfg.Mode,
		cols:       cfg.Columns,
		rows:       cfg.Rows,
		tileW:      cfg.TileWidth,
		tileH:      cfg.TileHeight,
		firstX:     cfg.FirstX,
		firstY:     cfg.FirstY,
		rootX:      cfg.RootX,
		rootY:      cfg.RootY,
		tiles:      make([]int, n),
		data:       make([]int, n),
		original:   make([]int, n),
	}
	copy(m.tiles, cfg.Tiles)
	copy(m.original, cfg.Tiles)
	m.paths = NewGridPathFinder(m, cfg.Diagonal)
	m.ranges = NewGridRangeFinder(m)
	return m, nil
}

// Mode returns the map's coordinate mode.
func (m *GameMap) Mode() MapMode { return m.mode }

// Columns returns the grid width in tiles.
func (m *GameMap) Columns() int { return m.cols }

// Rows returns the grid height in tiles.
func (m *GameMap) Rows() int { return m.rows }

// TileSize returns the tile width and height in pixels.
func (m *GameMap) TileSize() (w, h int) { return m.tileW, m.tileH }

// InBounds reports whether (x, y) is a tile of the grid.
func (m *GameMap) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < m.cols && y < m.rows
}

// TileValue returns the movement cost of (x, y), or -1 outside the grid.
func (m *GameMap) TileValue(x, y int) int {
	if !m.InBounds(x, y) {
		return -1
	}
	return m.tiles[y*m.cols+x]
}

// SetTileValue changes the movement cost of (x, y). It reports false for
// cells outside the grid.
func (m *GameMap) SetTileValue(x, y, v int) bool {
	if !m.InBounds(x, y) {
		logger.Warn("tile out of range", "map", m.Name, "x", x, "y", y)
		return false
	}
	m.tiles[y*m.cols+x] = v
	return true
}

// TileData returns the scratch value of (x, y), or 0 outside the grid.
func (m *GameMap) TileData(x, y int) int {
	if !m.InBounds(x, y) {
		return 0
	}
	return m.data[y*m.cols+x]
}

// SetTileData stores a scratch value for (x, y).
func (m *GameMap) SetTileData(x, y, v int) bool {
	if !m.InBounds(x, y) {
		logger.Warn("tile out of range", "map", m.Name, "x", x, "y", y)
		return false
	}
	m.data[y*m.cols+x] = v
	return true
}

// Reset restores the tile costs from the original snapshot and clears the
// scratch grid.
func (m *GameMap) Reset() {
	copy(m.tiles, m.original)
	clear(m.data)
}

// PixelToTile returns the tile containing pixel (px, py). The result may lie
// outside the grid; check it with InBounds.
func (m *GameMap) PixelToTile(px, py int) (tx, ty int) {
	switch m.mode {
	case MapRectTiles:
		tx = floorDiv(px-m.firstX, m.tileW)
		ty = floorDiv(py-m.firstY, m.tileH)
		return tx, ty
	case MapIsometric:
		return m.isoPixelToTile(px, py)
	default:
		return 0, 0
	}
}

// isoPixelToTile snaps the pixel to the nearest diamond-grid intersection
// and converts the intersection to tile coordinates. Intersections are
// measured in half-tile units; a tile anchor has u = tx-ty, v = tx+ty.
func (m *GameMap) isoPixelToTile(px, py int) (tx, ty int) {
	hw := float64(m.tileW) / 2
	hh := float64(m.tileH) / 2
	u := float64(px-m.firstX-m.rootX) / hw
	v := float64(py-m.firstY-m.rootY) / hh

	cu := math.Floor(u)
	cv := math.Floor(v)
	fu := u - cu
	fv := v - cv
	du, dv := int(cu), int(cv)

	if (du-dv)%2 == 0 {
		// Cell corners (0,0) and (1,1) are intersections: the "\" diagonal.
		if fu+fv >= 1 {
			du++
			dv++
		}
	} else {
		// Corners (1,0) and (0,1): the "/" diagonal.
		if fu > fv {
			du++
		} else {
			dv++
		}
	}
	return floorDiv(du+dv, 2), floorDiv(dv-du, 2)
}

// TileToPixel returns the anchor pixel of tile (tx, ty).
func (m *GameMap) TileToPixel(tx, ty int) (px, py int) {
	switch m.mode {
	case MapRectTiles:
		return tx*m.tileW + m.firstX + m.rootX, ty*m.tileH + m.firstY + m.rootY
	case MapIsometric:
		px = m.firstX + (tx-ty)*m.tileW/2 + m.rootX
		py = m.firstY + (tx+ty)*m.tileH/2 + m.rootY
		return px, py
	default:
		return 0, 0
	}
}

// AlignPixel snaps a pixel to the anchor of the tile that contains it.
func (m *GameMap) AlignPixel(px, py int) (int, int) {
	return m.TileToPixel(m.PixelToTile(px, py))
}

// FindWay returns the tiles walked from start to end, or nil when end cannot
// be reached.
func (m *GameMap) FindWay(start, end Point) []Point {
	return m.paths.FindWay(start, end)
}

// FindRange returns every tile reachable from start within budget.
func (m *GameMap) FindRange(start Point, budget int) []Point {
	return m.ranges.FindRange(start, budget)
}

// RangeRemaining reports the budget left at (x, y) after the last FindRange.
func (m *GameMap) RangeRemaining(x, y int) int {
	return m.ranges.Remaining(x, y)
}

// SetDiagonal switches the path finder between 4 and 8 directions.
func (m *GameMap) SetDiagonal(on bool) { m.paths.Diagonal = on }

// WayToPath converts a tile way into a Points path through the tile anchors.
func (m *GameMap) WayToPath(name string, way []Point) *Path {
	keys := make([]Point, len(way))
	for i, t := range way {
		keys[i].X, keys[i].Y = m.TileToPixel(t.X, t.Y)
	}
	p, _ := NewPath(name, PathPoints, keys, 0)
	return p
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
