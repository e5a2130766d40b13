package coge

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

const iniSample = `
[engine]
name = demo
cps = 30
debug = yes

[map.world]
tiles = 1,1; 1,-1
scale = 1.5
file = maps/world.png
abs = /tmp/x.png
`

const yamlSample = `
engine:
  name: demo
  cps: 30
  debug: yes
map.world:
  tiles: "1,1; 1,-1"
  scale: 1.5
  file: maps/world.png
  layers: [ground, walls]
`

func TestConfigFormats(t *testing.T) {
	for _, format := range []string{"ini", "yaml"} {
		t.Run(format, func(t *testing.T) {
			data := iniSample
			if format == "yaml" {
				data = yamlSample
			}
			cfg, err := ParseConfig([]byte(data), format, "/games/demo")
			if err != nil {
				t.Fatal(err)
			}
			if got := cfg.ReadString("engine", "name", ""); got != "demo" {
				t.Errorf("name = %q", got)
			}
			if got := cfg.ReadInteger("engine", "cps", 0); got != 30 {
				t.Errorf("cps = %d", got)
			}
			if !cfg.ReadBool("engine", "debug", false) {
				t.Error("debug = false")
			}
			if got := cfg.ReadFloat("map.world", "scale", 0); got != 1.5 {
				t.Errorf("scale = %v", got)
			}
			if got := cfg.ReadString("map.world", "tiles", ""); got != "1,1; 1,-1" {
				t.Errorf("tiles = %q, semicolon value truncated", got)
			}
			if got := cfg.ReadFilePath("map.world", "file", ""); got != filepath.Join("/games/demo", "maps/world.png") {
				t.Errorf("file = %q", got)
			}
			if !cfg.HasSection("MAP.WORLD") {
				t.Error("section lookup is case sensitive")
			}
			if cfg.HasSection("map.other") {
				t.Error("HasSection reported a missing section")
			}
			if !slices.Contains(cfg.Sections(), "map.world") {
				t.Errorf("Sections = %v", cfg.Sections())
			}
		})
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte("[engine]\ncps = fast\n"), "ini", "")
	if err != nil {
		t.Fatal(err)
	}
	if got := cfg.ReadInteger("engine", "cps", 60); got != 60 {
		t.Errorf("unparsable int = %d, want default", got)
	}
	if got := cfg.ReadString("engine", "missing", "x"); got != "x" {
		t.Errorf("missing key = %q", got)
	}
	if got := cfg.ReadString("nosection", "k", "d"); got != "d" {
		t.Errorf("missing section = %q", got)
	}
	if got := cfg.ReadFilePath("engine", "none", ""); got != "" {
		t.Errorf("empty path = %q", got)
	}
}

func TestConfigYAMLSequence(t *testing.T) {
	cfg, err := ParseConfig([]byte(yamlSample), "yaml", "")
	if err != nil {
		t.Fatal(err)
	}
	if got := cfg.ReadString("map.world", "layers", ""); got != "ground,walls" {
		t.Errorf("layers = %q", got)
	}
}

func TestConfigErrors(t *testing.T) {
	tests := []struct {
		format, data string
	}{
		{"toml", "a = 1"},
		{"yaml", "- a\n- b\n"},
		{"yaml", "engine: 3\n"},
		{"yaml", "engine: [\n"},
	}
	for _, tt := range tests {
		if _, err := ParseConfig([]byte(tt.data), tt.format, ""); !errors.Is(err, ErrBadConfig) {
			t.Errorf("ParseConfig(%q, %s) err = %v, want ErrBadConfig", tt.data, tt.format, err)
		}
	}
}

func TestLoadConfigByExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "game.yml")
	if err := os.WriteFile(path, []byte(yamlSample), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := cfg.ReadFilePath("map.world", "file", ""); got != filepath.Join(dir, "maps/world.png") {
		t.Errorf("file = %q", got)
	}
	if _, err := LoadConfig(filepath.Join(dir, "missing.ini")); err == nil {
		t.Error("missing file loaded")
	}
}

func TestParsePoints(t *testing.T) {
	pts, err := parsePoints(" 0,0; 10 , -5 ;3,4;")
	if err != nil {
		t.Fatal(err)
	}
	want := []Point{{0, 0}, {10, -5}, {3, 4}}
	if !slices.Equal(pts, want) {
		t.Errorf("points = %v, want %v", pts, want)
	}
	for _, bad := range []string{"1", "a,2", "1,b"} {
		if _, err := parsePoints(bad); !errors.Is(err, ErrBadConfig) {
			t.Errorf("parsePoints(%q) err = %v", bad, err)
		}
	}
}

func TestParseGrid(t *testing.T) {
	got, err := parseGrid("1,2,3; 4,5,6;", 3, 2)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(got, []int{1, 2, 3, 4, 5, 6}) {
		t.Errorf("grid = %v", got)
	}
	tests := []string{
		"1,2; 3,4,5",
		"1,2,3",
		"1,x,3; 4,5,6",
	}
	for _, s := range tests {
		if _, err := parseGrid(s, 3, 2); !errors.Is(err, ErrBadConfig) {
			t.Errorf("parseGrid(%q) err = %v", s, err)
		}
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" a, ,b ,c,")
	if !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Errorf("splitList = %v", got)
	}
	if splitList("") != nil {
		t.Error("empty list not nil")
	}
}
