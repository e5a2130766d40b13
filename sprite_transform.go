package coge

// --- Position ---

// X returns the sprite's x position in scene coordinates.
func (s *Sprite) X() int { return s.x }

// Y returns the sprite's y position in scene coordinates.
func (s *Sprite) Y() int { return s.y }

// Z returns the sprite's z order. Higher z draws later and is hit first.
func (s *Sprite) Z() int { return s.z }

// Pos returns the sprite position.
func (s *Sprite) Pos() (x, y int) { return s.x, s.y }

// SetPos moves the sprite. Relative children follow.
func (s *Sprite) SetPos(x, y int) {
	if s.relative {
		// A relative sprite's position is derived; moving it moves the offset.
		px, py := s.anchor()
		s.relX, s.relY = x-px, y-py
	}
	if x == s.x && y == s.y {
		return
	}
	s.markDirty()
	s.x, s.y = x, y
	s.noteZ()
	s.markDirty()
	s.updateChildren()
}

// UpdatePosZ sets the z order. Relative children follow at z+1.
func (s *Sprite) UpdatePosZ(z int) {
	if z == s.z {
		s.noteZ()
		return
	}
	s.z = z
	s.noteZ()
	s.updateChildren()
}

// BringToTop moves the sprite above every sprite placed in its scene.
func (s *Sprite) BringToTop() {
	if s.scene == nil {
		return
	}
	s.UpdatePosZ(s.scene.topZ + 1)
}

// noteZ raises the scene's top-z to cover this sprite.
func (s *Sprite) noteZ() {
	if s.scene != nil && s.z > s.scene.topZ {
		s.scene.topZ = s.z
	}
}

// markDirty adds the sprite's current draw rect to the scene's dirty region.
func (s *Sprite) markDirty() {
	if s.scene != nil && s.Visible {
		s.scene.markDirtyWorld(s.drawRect)
	}
}

// --- Relative positioning ---

// SetRelative switches relative positioning. A relative sprite sits at
// (relX, relY) from its parent, or from the scene view's top-left when it has
// no parent.
func (s *Sprite) SetRelative(on bool, relX, relY int) {
	s.relative = on
	s.relX, s.relY = relX, relY
	if on {
		s.follow()
	}
}

// IsRelative reports whether the sprite uses relative positioning.
func (s *Sprite) IsRelative() bool { return s.relative }

// RelativePos returns the relative offset.
func (s *Sprite) RelativePos() (x, y int) { return s.relX, s.relY }

// anchor returns the point the relative offset is measured from.
func (s *Sprite) anchor() (x, y int) {
	if s.parent != nil {
		return s.parent.x, s.parent.y
	}
	if s.scene != nil {
		return s.scene.view.Left, s.scene.view.Top
	}
	return 0, 0
}

// follow recomputes a relative sprite's position from its anchor and
// cascades to its children.
func (s *Sprite) follow() {
	if !s.relative {
		return
	}
	ax, ay := s.anchor()
	nx, ny := ax+s.relX, ay+s.relY
	nz := s.z
	if s.parent != nil {
		nz = s.parent.z + 1
	}
	if nx == s.x && ny == s.y && nz == s.z {
		return
	}
	s.markDirty()
	s.x, s.y, s.z = nx, ny, nz
	s.noteZ()
	s.markDirty()
	s.updateChildren()
}

func (s *Sprite) updateChildren() {
	for _, c := range s.children {
		c.follow()
	}
}

// --- Hierarchy ---

// Parent returns the parent sprite, or nil.
func (s *Sprite) Parent() *Sprite { return s.parent }

// Root returns the top ancestor. A sprite without a parent is its own root.
func (s *Sprite) Root() *Sprite { return s.root }

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (s *Sprite) Children() []*Sprite { return s.children }

// AddChild makes child a child of s. If child already has a parent, it is
// removed from that parent first. Adding an ancestor is refused.
func (s *Sprite) AddChild(child *Sprite) bool {
	if child == nil || child == s {
		return false
	}
	if isAncestor(child, s) {
		logger.Warn("adding child would create a cycle", "parent", s.Name, "child", child.Name)
		return false
	}
	if child.parent == s {
		return true
	}
	if child.parent != nil {
		child.parent.removeChildByPtr(child)
	}
	child.parent = s
	s.children = append(s.children, child)
	setSubtreeRoot(child, s.root)
	if s.engine != nil && s.engine.debug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(s)
	}
	if child.relative {
		child.follow()
	} else if child.scene != nil && child.z <= child.scene.topZ {
		// Reparented sprites are lifted above the running top-z.
		child.UpdatePosZ(child.scene.topZ + 1)
	}
	return true
}

// RemoveChild detaches child from s. No-op when child is not a child of s.
func (s *Sprite) RemoveChild(child *Sprite) {
	if child == nil || child.parent != s {
		return
	}
	s.removeChildByPtr(child)
	child.parent = nil
	setSubtreeRoot(child, child)
	child.follow()
}

// SetParent reparents s. A nil parent detaches it.
func (s *Sprite) SetParent(p *Sprite) bool {
	if p == nil {
		if s.parent != nil {
			s.parent.RemoveChild(s)
		}
		return true
	}
	return p.AddChild(s)
}

func (s *Sprite) removeChildByPtr(child *Sprite) {
	for i, c := range s.children {
		if c == child {
			copy(s.children[i:], s.children[i+1:])
			s.children[len(s.children)-1] = nil
			s.children = s.children[:len(s.children)-1]
			return
		}
	}
}

// isAncestor reports whether a is an ancestor of (or equal to) b.
func isAncestor(a, b *Sprite) bool {
	for p := b; p != nil; p = p.parent {
		if p == a {
			return true
		}
	}
	return false
}

// setSubtreeRoot propagates root down the subtree of s.
func setSubtreeRoot(s, root *Sprite) {
	s.root = root
	for _, c := range s.children {
		setSubtreeRoot(c, root)
	}
}
