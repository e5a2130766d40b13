package coge

// SetPath puts the sprite on p at its first step, or at its last step when
// reverse is set. The sprite walks one step per StepPath call, or every
// StepInterval when AutoStep is on. It reports false for an empty path.
func (s *Sprite) SetPath(p *Path, reverse bool) bool {
	if p == nil || p.StepCount() == 0 {
		logger.Warn("empty path", "sprite", s.Name)
		return false
	}
	s.path = p
	s.pathDir = 1
	s.pathCursor = 0
	if reverse {
		s.pathDir = -1
		s.pathCursor = p.StepCount() - 1
	}
	s.stepped = false
	s.lastStep = s.now()
	s.moveToStep()
	return true
}

// Path returns the current path, or nil.
func (s *Sprite) Path() *Path { return s.path }

// PathCursor returns the index of the current step.
func (s *Sprite) PathCursor() int { return s.pathCursor }

// AbortPath leaves the current path without firing EventPathFinished.
func (s *Sprite) AbortPath() {
	s.path = nil
	s.pathCursor = 0
	s.stepped = false
}

// StepPath moves the sprite one step along its path. It reports false when
// there is no path or the terminal step was already reached.
func (s *Sprite) StepPath() bool {
	if s.path == nil {
		return false
	}
	next := s.pathCursor + s.pathDir
	if next < 0 || next >= s.path.StepCount() {
		return false
	}
	s.pathCursor = next
	s.moveToStep()
	s.stepped = true
	return true
}

// pathTerminal returns the last index in the current direction.
func (s *Sprite) pathTerminal() int {
	if s.pathDir < 0 {
		return 0
	}
	return s.path.StepCount() - 1
}

func (s *Sprite) moveToStep() {
	pt := s.path.Step(s.pathCursor)
	s.SetPos(pt.X+s.PathOffsetX, pt.Y+s.PathOffsetY)
}

// FindWayTo plans a way over the scene's map from the sprite's tile to
// (tx, ty) and puts the sprite on it. It reports false when the sprite has
// no map or the tile cannot be reached.
func (s *Sprite) FindWayTo(tx, ty int) bool {
	if s.scene == nil || s.scene.Map == nil {
		return false
	}
	m := s.scene.Map.Value()
	if m == nil || !m.InBounds(tx, ty) {
		return false
	}
	sx, sy := m.PixelToTile(s.x-s.PathOffsetX, s.y-s.PathOffsetY)
	way := m.FindWay(Point{sx, sy}, Point{tx, ty})
	if len(way) == 0 {
		return false
	}
	p := m.WayToPath(s.Name+".way", way)
	if p == nil {
		return false
	}
	return s.SetPath(p, false)
}
