package coge

// SpriteGroup is a named, reusable collection of sprites. A sprite in a group
// survives removal from its scene; it is destroyed once it has left both.
type SpriteGroup struct {
	Name string

	engine  *Engine
	sprites []*Sprite
	scene   *Scene
}

// NewSpriteGroup creates an empty group registered under name.
func (e *Engine) NewSpriteGroup(name string) (*SpriteGroup, error) {
	if _, dup := e.groups[name]; dup {
		logger.Warn("duplicate sprite group", "name", name)
		return nil, errDuplicate("sprite group", name)
	}
	g := &SpriteGroup{Name: name, engine: e}
	e.groups[name] = g
	return g, nil
}

// SpriteGroup returns the group registered under name, or nil.
func (e *Engine) SpriteGroup(name string) *SpriteGroup { return e.groups[name] }

// Len returns the number of members.
func (g *SpriteGroup) Len() int { return len(g.sprites) }

// Sprites returns the members in insertion order. The returned slice MUST NOT
// be mutated by the caller.
func (g *SpriteGroup) Sprites() []*Sprite { return g.sprites }

// Scene returns the scene the group is attached to, or nil.
func (g *SpriteGroup) Scene() *Scene { return g.scene }

// Add makes sp a member. A sprite belongs to at most one group; it leaves
// its previous group first. When the group is attached, sp joins the scene.
func (g *SpriteGroup) Add(sp *Sprite) bool {
	if sp == nil || sp.state < 0 {
		return false
	}
	if sp.group == g {
		return true
	}
	if sp.group != nil {
		sp.group.unlink(sp)
	}
	sp.group = g
	g.sprites = append(g.sprites, sp)
	if g.scene != nil && sp.scene != g.scene {
		g.scene.AddSprite(sp, 0, 0, 0)
	}
	return true
}

// Remove drops sp from the group. A sprite that is in no scene and not busy
// is destroyed.
func (g *SpriteGroup) Remove(sp *Sprite) {
	if sp == nil || sp.group != g {
		return
	}
	g.unlink(sp)
	sp.group = nil
	sp.maybeDestroy()
}

func (g *SpriteGroup) unlink(sp *Sprite) {
	for i, m := range g.sprites {
		if m == sp {
			copy(g.sprites[i:], g.sprites[i+1:])
			g.sprites[len(g.sprites)-1] = nil
			g.sprites = g.sprites[:len(g.sprites)-1]
			return
		}
	}
}

// AttachTo adds every member to scene, keeping their positions. Members
// already in another scene move.
func (g *SpriteGroup) AttachTo(scene *Scene) {
	if scene == nil {
		g.Detach()
		return
	}
	g.scene = scene
	for _, sp := range g.sprites {
		if sp.scene == scene {
			continue
		}
		if sp.scene != nil {
			sp.scene.RemoveSprite(sp)
		}
		scene.AddSprite(sp, sp.x, sp.y, sp.z)
	}
}

// Detach removes every member from its scene. Members stay in the group.
func (g *SpriteGroup) Detach() {
	g.scene = nil
	for _, sp := range g.sprites {
		if sp.scene != nil {
			sp.scene.RemoveSprite(sp)
		}
	}
}

// FreeSprite returns the first member that is not busy and marks it busy,
// or nil when every member is in use.
func (g *SpriteGroup) FreeSprite() *Sprite {
	for _, sp := range g.sprites {
		if !sp.busy && sp.state >= 0 {
			sp.busy = true
			return sp
		}
	}
	return nil
}

// Clear removes every member. Members in no scene are destroyed.
func (g *SpriteGroup) Clear() {
	members := append([]*Sprite(nil), g.sprites...)
	for _, sp := range members {
		g.Remove(sp)
	}
}

// Close clears the group and unregisters it.
func (g *SpriteGroup) Close() {
	g.Clear()
	g.scene = nil
	if g.engine != nil && g.engine.groups[g.Name] == g {
		delete(g.engine.groups, g.Name)
	}
}
