package coge

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

// Config is the read side of an engine configuration. Sections are named
// "kind.name" (for example "scene.title" or "map.world"); keys are case
// sensitive. Every read takes a default returned when the key is missing or
// does not parse.
type Config interface {
	HasSection(section string) bool
	Sections() []string
	ReadString(section, key, def string) string
	ReadInteger(section, key string, def int) int
	ReadFloat(section, key string, def float64) float64
	ReadBool(section, key string, def bool) bool
	// ReadFilePath resolves a relative path against the configuration's
	// directory.
	ReadFilePath(section, key, def string) string
}

// LoadConfig reads path as YAML (.yaml, .yml) or INI (anything else).
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	format := "ini"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = "yaml"
	}
	cfg, err := ParseConfig(data, format, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig parses data in the given format ("ini" or "yaml"). Relative
// file paths are resolved against baseDir.
func ParseConfig(data []byte, format, baseDir string) (Config, error) {
	switch format {
	case "ini":
		return parseIni(data, baseDir)
	case "yaml", "yml":
		return parseYAML(data, baseDir)
	}
	return nil, fmt.Errorf("%w: unknown config format %q", ErrBadConfig, format)
}

// --- INI ---

// IniConfig is a Config backed by gopkg.in/ini.v1.
type IniConfig struct {
	file    *ini.File
	baseDir string
}

func parseIni(data []byte, baseDir string) (*IniConfig, error) {
	f, err := ini.LoadSources(ini.LoadOptions{
		InsensitiveSections:     true,
		SkipUnrecognizableLines: true,
		IgnoreInlineComment:     true,
	}, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadConfig, err)
	}
	return &IniConfig{file: f, baseDir: baseDir}, nil
}

func (c *IniConfig) key(section, key string) (*ini.Key, bool) {
	sec, err := c.file.GetSection(section)
	if err != nil || !sec.HasKey(key) {
		return nil, false
	}
	return sec.Key(key), true
}

// HasSection implements Config.
func (c *IniConfig) HasSection(section string) bool {
	return c.file.HasSection(section)
}

// Sections implements Config.
func (c *IniConfig) Sections() []string {
	var out []string
	for _, s := range c.file.Sections() {
		if s.Name() == ini.DEFAULT_SECTION {
			continue
		}
		out = append(out, s.Name())
	}
	return out
}

// ReadString implements Config.
func (c *IniConfig) ReadString(section, key, def string) string {
	k, ok := c.key(section, key)
	if !ok {
		return def
	}
	return k.String()
}

// ReadInteger implements Config.
func (c *IniConfig) ReadInteger(section, key string, def int) int {
	k, ok := c.key(section, key)
	if !ok {
		return def
	}
	return k.MustInt(def)
}

// ReadFloat implements Config.
func (c *IniConfig) ReadFloat(section, key string, def float64) float64 {
	k, ok := c.key(section, key)
	if !ok {
		return def
	}
	return k.MustFloat64(def)
}

// ReadBool implements Config.
func (c *IniConfig) ReadBool(section, key string, def bool) bool {
	k, ok := c.key(section, key)
	if !ok {
		return def
	}
	return k.MustBool(def)
}

// ReadFilePath implements Config.
func (c *IniConfig) ReadFilePath(section, key, def string) string {
	return resolvePath(c.baseDir, c.ReadString(section, key, def))
}

// --- YAML ---

// YAMLConfig is a Config backed by gopkg.in/yaml.v3. The document is a map
// of sections, each a map of scalar keys.
type YAMLConfig struct {
	sections map[string]map[string]string
	order    []string
	baseDir  string
}

func parseYAML(data []byte, baseDir string) (*YAMLConfig, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadConfig, err)
	}
	c := &YAMLConfig{sections: make(map[string]map[string]string), baseDir: baseDir}
	if len(doc.Content) == 0 {
		return c, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: top level must be a mapping of sections", ErrBadConfig)
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		name := strings.ToLower(root.Content[i].Value)
		body := root.Content[i+1]
		if body.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("%w: section %q must be a mapping", ErrBadConfig, name)
		}
		keys := make(map[string]string, len(body.Content)/2)
		for j := 0; j+1 < len(body.Content); j += 2 {
			keys[body.Content[j].Value] = yamlScalar(body.Content[j+1])
		}
		if _, dup := c.sections[name]; !dup {
			c.order = append(c.order, name)
		}
		c.sections[name] = keys
	}
	return c, nil
}

// yamlScalar flattens a value node. Sequences become comma separated lists
// so list keys read the same as in INI files.
func yamlScalar(n *yaml.Node) string {
	switch n.Kind {
	case yaml.SequenceNode:
		parts := make([]string, 0, len(n.Content))
		for _, c := range n.Content {
			parts = append(parts, yamlScalar(c))
		}
		return strings.Join(parts, ",")
	case yaml.AliasNode:
		if n.Alias != nil {
			return yamlScalar(n.Alias)
		}
	}
	return n.Value
}

func (c *YAMLConfig) lookup(section, key string) (string, bool) {
	sec, ok := c.sections[strings.ToLower(section)]
	if !ok {
		return "", false
	}
	v, ok := sec[key]
	return v, ok
}

// HasSection implements Config.
func (c *YAMLConfig) HasSection(section string) bool {
	_, ok := c.sections[strings.ToLower(section)]
	return ok
}

// Sections implements Config.
func (c *YAMLConfig) Sections() []string { return slices.Clone(c.order) }

// ReadString implements Config.
func (c *YAMLConfig) ReadString(section, key, def string) string {
	if v, ok := c.lookup(section, key); ok {
		return v
	}
	return def
}

// ReadInteger implements Config.
func (c *YAMLConfig) ReadInteger(section, key string, def int) int {
	v, ok := c.lookup(section, key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return n
}

// ReadFloat implements Config.
func (c *YAMLConfig) ReadFloat(section, key string, def float64) float64 {
	v, ok := c.lookup(section, key)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return def
	}
	return f
}

// ReadBool implements Config.
func (c *YAMLConfig) ReadBool(section, key string, def bool) bool {
	v, ok := c.lookup(section, key)
	if !ok {
		return def
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return def
}

// ReadFilePath implements Config.
func (c *YAMLConfig) ReadFilePath(section, key, def string) string {
	return resolvePath(c.baseDir, c.ReadString(section, key, def))
}

func resolvePath(base, p string) string {
	if p == "" || base == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// --- list helpers ---

// splitList splits a comma separated value, trimming blanks.
func splitList(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// parsePoints parses "x,y;x,y;..." into points.
func parsePoints(s string) ([]Point, error) {
	var pts []Point
	for _, pair := range strings.Split(s, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		xs, ys, ok := strings.Cut(pair, ",")
		if !ok {
			return nil, fmt.Errorf("%w: point %q", ErrBadConfig, pair)
		}
		x, err := strconv.Atoi(strings.TrimSpace(xs))
		if err != nil {
			return nil, fmt.Errorf("%w: point %q: %w", ErrBadConfig, pair, err)
		}
		y, err := strconv.Atoi(strings.TrimSpace(ys))
		if err != nil {
			return nil, fmt.Errorf("%w: point %q: %w", ErrBadConfig, pair, err)
		}
		pts = append(pts, Point{x, y})
	}
	return pts, nil
}

// parseGrid parses rows separated by ";" of values separated by ",".
func parseGrid(s string, cols, rows int) ([]int, error) {
	out := make([]int, 0, cols*rows)
	lines := strings.Split(strings.TrimSpace(s), ";")
	for r, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		cells := strings.Split(line, ",")
		if len(cells) != cols {
			return nil, fmt.Errorf("%w: tile row %d has %d values, want %d", ErrBadConfig, r, len(cells), cols)
		}
		for _, c := range cells {
			v, err := strconv.Atoi(strings.TrimSpace(c))
			if err != nil {
				return nil, fmt.Errorf("%w: tile row %d: %w", ErrBadConfig, r, err)
			}
			out = append(out, v)
		}
	}
	if len(out) != cols*rows {
		return nil, fmt.Errorf("%w: %d tile values, want %d", ErrBadConfig, len(out), cols*rows)
	}
	return out, nil
}
