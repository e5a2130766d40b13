package coge

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Registries hold the creator's reference on every shared resource. Load*
// returns the registered handle; callers that keep it past the registry's
// lifetime Acquire their own reference.

func (e *Engine) section(kind, name string) (string, error) {
	sec := kind + "." + name
	if e.cfg == nil || !e.cfg.HasSection(sec) {
		logger.Warn("no configuration section", "section", sec)
		return "", errNotFound(kind, name)
	}
	return sec, nil
}

// --- Images ---

// AddImage registers img under name. The registry releases it on teardown
// or FreeImage.
func (e *Engine) AddImage(name string, img Image) (*Shared[Image], error) {
	if _, dup := e.images[name]; dup {
		return nil, errDuplicate("image", name)
	}
	h := NewShared(name, img, func(img Image) {
		if e.video != nil {
			e.video.DelImage(img)
		}
	})
	e.images[name] = h
	return h, nil
}

// Image returns the registered image handle, or nil.
func (e *Engine) Image(name string) *Shared[Image] { return e.images[name] }

// LoadImage returns the image registered under name, loading it from the
// file named in section "image.<name>" on first use.
func (e *Engine) LoadImage(name string) (*Shared[Image], error) {
	if h, ok := e.images[name]; ok {
		return h, nil
	}
	sec, err := e.section("image", name)
	if err != nil {
		return nil, err
	}
	path := e.cfg.ReadFilePath(sec, "file", "")
	if path == "" {
		return nil, fmt.Errorf("%w: image %q has no file", ErrBadConfig, name)
	}
	img, err := e.video.LoadImage(path)
	if err != nil {
		logger.Error("load image", "name", name, "path", path, "err", err)
		return nil, fmt.Errorf("%w: image %q: %w", ErrResource, name, err)
	}
	return e.AddImage(name, img)
}

// FreeImage drops the registry's reference on the named image.
func (e *Engine) FreeImage(name string) {
	if h, ok := e.images[name]; ok {
		delete(e.images, name)
		h.Release()
	}
}

// AddMask adds img to the pool FadeMask transitions pick from.
func (e *Engine) AddMask(img *Shared[Image]) {
	if h := img.Acquire(); h != nil {
		e.masks = append(e.masks, h)
	}
}

// --- Sounds and fonts ---

// LoadSound returns the sound registered under name, loading the file named
// in section "sound.<name>" on first use. music = true streams the file.
func (e *Engine) LoadSound(name string) (*Shared[Sound], error) {
	if h, ok := e.sounds[name]; ok {
		return h, nil
	}
	if e.audio == nil {
		return nil, fmt.Errorf("%w: sound %q: no audio back-end", ErrResource, name)
	}
	sec, err := e.section("sound", name)
	if err != nil {
		return nil, err
	}
	path := e.cfg.ReadFilePath(sec, "file", "")
	var snd Sound
	if e.cfg.ReadBool(sec, "music", false) {
		snd, err = e.audio.NewMusic(path)
	} else {
		snd, err = e.audio.NewSound(path)
	}
	if err != nil {
		logger.Error("load sound", "name", name, "path", path, "err", err)
		return nil, fmt.Errorf("%w: sound %q: %w", ErrResource, name, err)
	}
	h := NewShared(name, snd, func(s Sound) {
		if e.audio != nil {
			e.audio.Stop(s)
		}
	})
	e.sounds[name] = h
	return h, nil
}

// LoadFont returns the font registered under name, loading the face named
// in section "font.<name>" on first use.
func (e *Engine) LoadFont(name string) (*Shared[Font], error) {
	if h, ok := e.fonts[name]; ok {
		return h, nil
	}
	sec, err := e.section("font", name)
	if err != nil {
		return nil, err
	}
	path := e.cfg.ReadFilePath(sec, "file", "")
	f, err := e.video.LoadFont(path, e.cfg.ReadFloat(sec, "size", 12))
	if err != nil {
		logger.Error("load font", "name", name, "path", path, "err", err)
		return nil, fmt.Errorf("%w: font %q: %w", ErrResource, name, err)
	}
	h := NewShared(name, f, nil)
	e.fonts[name] = h
	return h, nil
}

// --- Scripts ---

// RegisterScript makes s available to configuration under name.
func (e *Engine) RegisterScript(name string, s Script) error {
	if _, dup := e.scripts[name]; dup {
		return errDuplicate("script", name)
	}
	e.scripts[name] = s
	return nil
}

// LookupScript returns the script registered under name, or nil.
func (e *Engine) LookupScript(name string) Script { return e.scripts[name] }

func (e *Engine) scriptFor(owner, name string) Script {
	if name == "" {
		return nil
	}
	s, ok := e.scripts[name]
	if !ok {
		logger.Warn("unknown script", "owner", owner, "script", name)
	}
	return s
}

// --- Paths ---

var pathTypes = map[string]PathType{
	"points": PathPoints,
	"lines":  PathLines,
	"bezier": PathBezier,
}

// AddPath registers p under its name.
func (e *Engine) AddPath(p *Path) error {
	if _, dup := e.paths[p.Name]; dup {
		return errDuplicate("path", p.Name)
	}
	e.paths[p.Name] = p
	return nil
}

// Path returns the registered path, or nil.
func (e *Engine) Path(name string) *Path { return e.paths[name] }

// LoadPath returns the path registered under name, building it from section
// "path.<name>" on first use.
func (e *Engine) LoadPath(name string) (*Path, error) {
	if p, ok := e.paths[name]; ok {
		return p, nil
	}
	sec, err := e.section("path", name)
	if err != nil {
		return nil, err
	}
	typName := strings.ToLower(e.cfg.ReadString(sec, "type", "lines"))
	typ, ok := pathTypes[typName]
	if !ok {
		return nil, fmt.Errorf("%w: path %q type %q", ErrBadConfig, name, typName)
	}
	keys, err := parsePoints(e.cfg.ReadString(sec, "keys", ""))
	if err != nil {
		return nil, fmt.Errorf("path %q: %w", name, err)
	}
	p, err := NewPath(name, typ, keys, e.cfg.ReadInteger(sec, "segment", 16))
	if err != nil {
		logger.Error("load path", "name", name, "err", err)
		return nil, err
	}
	e.paths[name] = p
	return p, nil
}

// --- Maps ---

var mapModes = map[string]MapMode{
	"scrolling": MapScrolling,
	"rect":      MapRectTiles,
	"isometric": MapIsometric,
}

// AddMap registers m. Scenes share it through the returned handle.
func (e *Engine) AddMap(m *GameMap) (*Shared[*GameMap], error) {
	if _, dup := e.maps[m.Name]; dup {
		return nil, errDuplicate("map", m.Name)
	}
	h := NewShared(m.Name, m, nil)
	e.maps[m.Name] = h
	return h, nil
}

// Map returns the registered map handle, or nil.
func (e *Engine) Map(name string) *Shared[*GameMap] { return e.maps[name] }

// LoadMap returns the map registered under name, building it from section
// "map.<name>" on first use.
func (e *Engine) LoadMap(name string) (*Shared[*GameMap], error) {
	if h, ok := e.maps[name]; ok {
		return h, nil
	}
	if _, err := e.section("map", name); err != nil {
		return nil, err
	}
	mc, err := ReadMapConfig(e.cfg, name)
	if err != nil {
		return nil, err
	}
	m, err := NewGameMap(mc)
	if err != nil {
		logger.Error("load map", "name", name, "err", err)
		return nil, err
	}
	return e.AddMap(m)
}

// ReadMapConfig reads section "map.<name>" of c.
func ReadMapConfig(c Config, name string) (MapConfig, error) {
	sec := "map." + name
	if !c.HasSection(sec) {
		return MapConfig{}, errNotFound("section", sec)
	}
	modeName := strings.ToLower(c.ReadString(sec, "mode", "rect"))
	mode, ok := mapModes[modeName]
	if !ok {
		return MapConfig{}, fmt.Errorf("%w: map %q mode %q", ErrBadConfig, name, modeName)
	}
	mc := MapConfig{
		Name:       name,
		Mode:       mode,
		Columns:    c.ReadInteger(sec, "columns", 0),
		Rows:       c.ReadInteger(sec, "rows", 0),
		TileWidth:  c.ReadInteger(sec, "tile_width", 0),
		TileHeight: c.ReadInteger(sec, "tile_height", 0),
		FirstX:     c.ReadInteger(sec, "first_x", 0),
		FirstY:     c.ReadInteger(sec, "first_y", 0),
		RootX:      c.ReadInteger(sec, "root_x", 0),
		RootY:      c.ReadInteger(sec, "root_y", 0),
		Diagonal:   c.ReadBool(sec, "diagonal", false),
		Background: c.ReadString(sec, "background", ""),
	}
	if tiles := c.ReadString(sec, "tiles", ""); tiles != "" {
		var err error
		mc.Tiles, err = parseGrid(tiles, mc.Columns, mc.Rows)
		if err != nil {
			return MapConfig{}, fmt.Errorf("map %q: %w", name, err)
		}
	}
	return mc, nil
}

// --- Game data ---

// AddGameData registers d under its name.
func (e *Engine) AddGameData(d *GameData) error {
	if _, dup := e.data[d.Name]; dup {
		return errDuplicate("data", d.Name)
	}
	e.data[d.Name] = d
	return nil
}

// GameData returns the registered block, or nil.
func (e *Engine) GameData(name string) *GameData { return e.data[name] }

// LoadGameData returns the block registered under name, creating it from
// section "data.<name>" on first use.
func (e *Engine) LoadGameData(name string) (*GameData, error) {
	if d, ok := e.data[name]; ok {
		return d, nil
	}
	sec, err := e.section("data", name)
	if err != nil {
		return nil, err
	}
	c := e.cfg
	d := NewGameData(name,
		c.ReadInteger(sec, "ints", 0),
		c.ReadInteger(sec, "floats", 0),
		c.ReadInteger(sec, "strings", 0),
		c.ReadInteger(sec, "buffer", 0))
	e.data[name] = d
	return d, nil
}

// SaveGameData persists the named block through the database back-end.
func (e *Engine) SaveGameData(name string) error {
	d, ok := e.data[name]
	if !ok {
		return errNotFound("data", name)
	}
	if e.db == nil {
		return fmt.Errorf("%w: no database back-end", ErrResource)
	}
	return e.db.SaveGameData(d)
}

// RestoreGameData reloads the named block from the database back-end.
func (e *Engine) RestoreGameData(name string) error {
	d, ok := e.data[name]
	if !ok {
		return errNotFound("data", name)
	}
	if e.db == nil {
		return fmt.Errorf("%w: no database back-end", ErrResource)
	}
	return e.db.LoadGameData(d)
}

// --- Animas and sprites ---

// LoadAnima builds a clip from section "anima.<name>".
func (e *Engine) LoadAnima(name string) (*Anima, error) {
	sec, err := e.section("anima", name)
	if err != nil {
		return nil, err
	}
	c := e.cfg
	img, err := e.LoadImage(c.ReadString(sec, "image", name))
	if err != nil {
		return nil, fmt.Errorf("anima %q: %w", name, err)
	}
	iw, ih := img.Value().Size()
	def := AnimaDef{
		Name:        name,
		Direction:   c.ReadInteger(sec, "direction", 0),
		Action:      c.ReadInteger(sec, "action", 0),
		Local:       RectWH(c.ReadInteger(sec, "x", 0), c.ReadInteger(sec, "y", 0), c.ReadInteger(sec, "width", iw), c.ReadInteger(sec, "height", ih)),
		FrameWidth:  c.ReadInteger(sec, "frame_width", 0),
		FrameHeight: c.ReadInteger(sec, "frame_height", 0),
		RootX:       c.ReadInteger(sec, "root_x", 0),
		RootY:       c.ReadInteger(sec, "root_y", 0),
		FrameCount:  c.ReadInteger(sec, "frames", 0),
		Interval:    time.Duration(c.ReadInteger(sec, "interval", 100)) * time.Millisecond,
		AutoReplay:  c.ReadBool(sec, "replay", true),
		ReplayGap:   time.Duration(c.ReadInteger(sec, "gap", 0)) * time.Millisecond,
	}
	if body := c.ReadString(sec, "body", ""); body != "" {
		def.Body, err = parseRect(body)
		if err != nil {
			return nil, fmt.Errorf("anima %q: %w", name, err)
		}
	}
	a, err := NewAnima(def, img)
	if err != nil {
		logger.Error("load anima", "name", name, "err", err)
		return nil, err
	}
	return a, nil
}

// LoadSprite creates a sprite from section "sprite.<name>". The sprite is
// named name; it is not placed in any scene.
func (e *Engine) LoadSprite(name string) (*Sprite, error) {
	sec, err := e.section("sprite", name)
	if err != nil {
		return nil, err
	}
	c := e.cfg
	sp := e.NewSprite(name)
	sp.Class = SpriteClass(c.ReadInteger(sec, "class", int(ClassNormal)))
	sp.x = c.ReadInteger(sec, "x", 0)
	sp.y = c.ReadInteger(sec, "y", 0)
	sp.z = c.ReadInteger(sec, "z", 0)
	sp.Width = c.ReadInteger(sec, "width", 0)
	sp.Height = c.ReadInteger(sec, "height", 0)
	sp.Visible = c.ReadBool(sec, "visible", true)
	sp.EnableAnima = c.ReadBool(sec, "anima", true)
	sp.EnableMovement = c.ReadBool(sec, "movement", true)
	sp.EnableCollision = c.ReadBool(sec, "collision", false)
	sp.EnableInput = c.ReadBool(sec, "input", false)
	sp.EnableFocus = c.ReadBool(sec, "focus", false)
	sp.EnableDrag = c.ReadBool(sec, "drag", false)
	sp.wantActive = c.ReadBool(sec, "active", true)
	if col := c.ReadString(sec, "color", ""); col != "" {
		if sp.Color, err = parseColor(col); err != nil {
			sp.destroy()
			return nil, fmt.Errorf("sprite %q: %w", name, err)
		}
	}
	if img := c.ReadString(sec, "image", ""); img != "" {
		h, err := e.LoadImage(img)
		if err != nil {
			sp.destroy()
			return nil, fmt.Errorf("sprite %q: %w", name, err)
		}
		sp.Image = h.Acquire()
	}
	if light := c.ReadString(sec, "light", ""); light != "" {
		h, err := e.LoadImage(light)
		if err != nil {
			sp.destroy()
			return nil, fmt.Errorf("sprite %q: %w", name, err)
		}
		sp.LightMap = h.Acquire()
	}
	for _, an := range splitList(c.ReadString(sec, "animas", "")) {
		a, err := e.LoadAnima(an)
		if err != nil {
			sp.destroy()
			return nil, fmt.Errorf("sprite %q: %w", name, err)
		}
		sp.AddAnima(a)
		if sp.anima == nil {
			sp.SetAnima(a.Direction, a.Action)
		}
	}
	if p := c.ReadString(sec, "path", ""); p != "" {
		path, err := e.LoadPath(p)
		if err != nil {
			sp.destroy()
			return nil, fmt.Errorf("sprite %q: %w", name, err)
		}
		sp.SetPath(path, false)
		sp.AutoStep = c.ReadBool(sec, "auto_step", false)
		sp.StepInterval = time.Duration(c.ReadInteger(sec, "step_interval", 0)) * time.Millisecond
	}
	if d := c.ReadString(sec, "data", ""); d != "" {
		if sp.Data, err = e.LoadGameData(d); err != nil {
			sp.destroy()
			return nil, fmt.Errorf("sprite %q: %w", name, err)
		}
	}
	sp.Script = e.scriptFor(name, c.ReadString(sec, "script", ""))
	sp.CommonScript = e.scriptFor(name, c.ReadString(sec, "common_script", ""))
	if ms := c.ReadInteger(sec, "timer", 0); ms > 0 {
		sp.SetTimer(time.Duration(ms) * time.Millisecond)
	}
	if rounds := c.ReadInteger(sec, "plot", 0); rounds != 0 {
		sp.EnablePlot(rounds)
	}
	sp.computeRect()
	return sp, nil
}

// --- Scenes ---

// LoadScene creates and registers a scene from section "scene.<name>",
// including the sprites it lists.
func (e *Engine) LoadScene(name string) (*Scene, error) {
	sec, err := e.section("scene", name)
	if err != nil {
		return nil, err
	}
	s, err := e.NewScene(name)
	if err != nil {
		return nil, err
	}
	fail := func(err error) (*Scene, error) {
		logger.Error("load scene", "name", name, "err", err)
		delete(e.scenes, name)
		s.close()
		return nil, fmt.Errorf("scene %q: %w", name, err)
	}
	c := e.cfg
	if vw, vh := c.ReadInteger(sec, "view_width", 0), c.ReadInteger(sec, "view_height", 0); vw > 0 && vh > 0 {
		s.SetViewSize(vw, vh)
	}
	s.WindowZ = c.ReadInteger(sec, "window_z", DefaultWindowZ)
	s.PartialRedraw = c.ReadBool(sec, "partial_redraw", false)
	s.SetViewClamp(c.ReadBool(sec, "clamp", false))
	if col := c.ReadString(sec, "color", ""); col != "" {
		if s.BackgroundColor, err = parseColor(col); err != nil {
			return fail(err)
		}
	}
	if m := c.ReadString(sec, "map", ""); m != "" {
		h, err := e.LoadMap(m)
		if err != nil {
			return fail(err)
		}
		s.Map = h.Acquire()
	}
	bg := c.ReadString(sec, "background", "")
	if bg == "" && s.Map != nil {
		bg = s.Map.Value().Background
	}
	if bg != "" {
		h, err := e.LoadImage(bg)
		if err != nil {
			return fail(err)
		}
		s.Background = h.Acquire()
	}
	if d := c.ReadString(sec, "data", ""); d != "" {
		if s.Data, err = e.LoadGameData(d); err != nil {
			return fail(err)
		}
	}
	s.Script = e.scriptFor(name, c.ReadString(sec, "script", ""))
	if ms := c.ReadInteger(sec, "timer", 0); ms > 0 {
		s.SetTimer(time.Duration(ms) * time.Millisecond)
	}
	if c.ReadBool(sec, "lighting", false) {
		amb := Color{0, 0, 0, 0.8}
		if a := c.ReadString(sec, "ambient", ""); a != "" {
			if amb, err = parseColor(a); err != nil {
				return fail(err)
			}
		}
		s.SetLighting(true, amb)
	}
	for _, spName := range splitList(c.ReadString(sec, "sprites", "")) {
		sp, err := e.LoadSprite(spName)
		if err != nil {
			return fail(err)
		}
		if !s.AddSprite(sp, sp.x, sp.y, sp.z) {
			sp.destroy()
			return fail(errDuplicate("sprite", spName))
		}
	}
	return s, nil
}

// releaseResources drops every registry reference.
func (e *Engine) releaseResources() {
	for _, h := range e.masks {
		h.Release()
	}
	e.masks = nil
	for name, h := range e.images {
		h.Release()
		delete(e.images, name)
	}
	for name, h := range e.sounds {
		h.Release()
		delete(e.sounds, name)
	}
	for name, h := range e.fonts {
		h.Release()
		delete(e.fonts, name)
	}
	for name, h := range e.maps {
		h.Release()
		delete(e.maps, name)
	}
	clear(e.paths)
	clear(e.data)
	clear(e.scripts)
}

// parseColor parses "r,g,b" or "r,g,b,a" with components in [0, 1].
func parseColor(s string) (Color, error) {
	f, err := parseFloats(s)
	if err != nil || (len(f) != 3 && len(f) != 4) {
		return Color{}, fmt.Errorf("%w: color %q", ErrBadConfig, s)
	}
	c := Color{f[0], f[1], f[2], 1}
	if len(f) == 4 {
		c.A = f[3]
	}
	return c, nil
}

// parseRect parses "x,y,w,h".
func parseRect(s string) (Rect, error) {
	f, err := parseFloats(s)
	if err != nil || len(f) != 4 {
		return Rect{}, fmt.Errorf("%w: rect %q", ErrBadConfig, s)
	}
	return RectWH(int(f[0]), int(f[1]), int(f[2]), int(f[3])), nil
}

func parseFloats(s string) ([]float64, error) {
	parts := splitList(s)
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
