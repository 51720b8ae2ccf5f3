package schema

import (
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/milk9111/tilepaint/levels"
)

func validSpec() Spec {
	return Spec{
		Name:   "test",
		Layers: []string{"terrain", "units"},
		Prefix: "sprites",
		Colors: []string{"ffffff", "#ff0000"},
		Tiles: []TileSpec{
			{Name: "grass", Texture: "grass.png"},
			{Name: "tree", Texture: "atlas.png", Area: []int{16, 0, 16, 16}},
		},
	}
}

func TestFromSpec(t *testing.T) {
	s, err := FromSpec(validSpec())
	if err != nil {
		t.Fatalf("FromSpec: %v", err)
	}
	if !slices.Equal(s.TileNames(), []string{"grass", "tree"}) {
		t.Fatalf("unexpected tile order %v", s.TileNames())
	}
	if s.Colors[1] != (color.RGBA{R: 0xff, A: 0xff}) {
		t.Fatalf("unexpected color %v", s.Colors[1])
	}
	if s.Tiles[1].Area != image.Rect(16, 0, 32, 16) {
		t.Fatalf("unexpected area %v", s.Tiles[1].Area)
	}
	if !s.Tiles[0].Area.Empty() {
		t.Fatalf("expected empty area for whole-texture tile")
	}
	if got := s.SpritePath(s.Tiles[0]); got != "sprites/grass.png" {
		t.Fatalf("SpritePath = %q", got)
	}
	if s.TileIndex("tree") != 1 || s.TileIndex("rock") != -1 {
		t.Fatalf("unexpected TileIndex results")
	}
}

func TestFromSpecRejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Spec)
		want   error
	}{
		{"no_layers", func(s *Spec) { s.Layers = nil }, ErrEmpty},
		{"no_tiles", func(s *Spec) { s.Tiles = nil }, ErrEmpty},
		{"no_colors", func(s *Spec) { s.Colors = nil }, ErrEmpty},
		{"no_name", func(s *Spec) { s.Name = "" }, ErrEmpty},
		{"bad_color", func(s *Spec) { s.Colors = []string{"zzzzzz"} }, ErrColor},
		{"short_color", func(s *Spec) { s.Colors = []string{"fff"} }, ErrColor},
		{"duplicate_layer", func(s *Spec) { s.Layers = []string{"a", "a"} }, ErrDuplicate},
		{"duplicate_tile", func(s *Spec) { s.Tiles = append(s.Tiles, TileSpec{Name: "grass", Texture: "x.png"}) }, ErrDuplicate},
		{"missing_texture", func(s *Spec) { s.Tiles[0].Texture = "" }, ErrEmpty},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			spec := validSpec()
			c.mutate(&spec)
			if _, err := FromSpec(spec); !errors.Is(err, c.want) {
				t.Fatalf("expected %v, got %v", c.want, err)
			}
		})
	}

	t.Run("bad_area", func(t *testing.T) {
		spec := validSpec()
		spec.Tiles[1].Area = []int{0, 0, 16}
		if _, err := FromSpec(spec); err == nil {
			t.Fatalf("expected error for short area")
		}
	})
}

func TestBundledFormatsAgree(t *testing.T) {
	fromYAML, err := LoadFS(SchemasFS, "schemas/protoboard.yaml")
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}
	fromTOML, err := LoadFS(SchemasFS, "schemas/protoboard.toml")
	if err != nil {
		t.Fatalf("toml: %v", err)
	}

	if fromYAML.Name != fromTOML.Name || !slices.Equal(fromYAML.Layers, fromTOML.Layers) {
		t.Fatalf("name/layers differ: %+v vs %+v", fromYAML, fromTOML)
	}
	if !slices.Equal(fromYAML.TileNames(), fromTOML.TileNames()) {
		t.Fatalf("tiles differ: %v vs %v", fromYAML.TileNames(), fromTOML.TileNames())
	}
	if !slices.Equal(fromYAML.Colors, fromTOML.Colors) {
		t.Fatalf("colors differ: %v vs %v", fromYAML.Colors, fromTOML.Colors)
	}

	def, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if def.Name != "protoboard" {
		t.Fatalf("unexpected default schema %q", def.Name)
	}
}

func TestLoadFromDiskResolvesPrefix(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "game.yaml")
	data := []byte(`name: game
layers: [ground]
prefix: art
colors: ["#000000"]
tiles:
  - name: dirt
    texture: dirt.png
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := filepath.ToSlash(filepath.Join(dir, "art", "dirt.png"))
	if got := s.SpritePath(s.Tiles[0]); got != want {
		t.Fatalf("SpritePath = %q, want %q", got, want)
	}

	// falls back to the bundled copy when the file is not on disk
	if _, err := Load("protoboard.toml"); err != nil {
		t.Fatalf("Load bundled: %v", err)
	}
}

func TestDecodeSpecErrors(t *testing.T) {
	if _, err := DecodeSpec("schema.json", []byte(`{}`)); !errors.Is(err, ErrFormat) {
		t.Fatalf("expected ErrFormat, got %v", err)
	}
	if _, err := DecodeSpec("schema.yaml", []byte("name: x\nbogus: 1\n")); err == nil {
		t.Fatalf("expected unknown field error")
	}
	if _, err := DecodeSpec("schema.toml", []byte("name = \n")); err == nil {
		t.Fatalf("expected toml syntax error")
	}
}

func TestValidate(t *testing.T) {
	s, err := FromSpec(validSpec())
	if err != nil {
		t.Fatalf("FromSpec: %v", err)
	}

	ok := levels.New("lvl", "test")
	ok.Paint("units", image.Pt(0, 0), "grass", 0)
	ok.Paint("terrain", image.Pt(1, 0), "lava", 0)
	ok.Paint("terrain", image.Pt(2, 0), "lava", 0)
	if err := s.Validate(ok); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if got := s.UnknownTiles(ok); !slices.Equal(got, []string{"lava"}) {
		t.Fatalf("UnknownTiles = %v", got)
	}

	other := levels.New("lvl", "other")
	if err := s.Validate(other); !errors.Is(err, ErrMismatch) {
		t.Fatalf("expected ErrMismatch, got %v", err)
	}

	stray := levels.New("lvl", "test")
	stray.Paint("sky", image.Pt(0, 0), "grass", 0)
	if err := s.Validate(stray); !errors.Is(err, ErrUnknownLayer) {
		t.Fatalf("expected ErrUnknownLayer, got %v", err)
	}
}

func TestWatcherReportsSpriteChanges(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	sprite := filepath.Join(dir, "grass.png")
	if err := os.WriteFile(sprite, []byte("x"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	select {
	case got := <-w.Events:
		if got != sprite {
			t.Fatalf("expected event for %s, got %s", sprite, got)
		}
	case err := <-w.Errors:
		t.Fatalf("watcher error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for sprite event")
	}
}

func TestDecodeSpecKeyedTiles(t *testing.T) {
	want := []TileSpec{
		{Name: "archer", Texture: "bow.png"},
		{Name: "protector", Texture: "sheet.png", Area: []int{16, 0, 16, 16}},
	}
	cases := []struct {
		name     string
		filename string
		data     string
	}{
		{"toml", "schema.toml", `name = "board"
layers = ["terrain"]
prefix = "art"
colors = ["ffffff"]

[tiles.protector]
texture = "sheet.png"
area = [16, 0, 16, 16]

[tiles.archer]
texture = "bow.png"
`},
		{"yaml", "schema.yaml", `name: board
layers: [terrain]
prefix: art
colors: ["ffffff"]
tiles:
  protector:
    texture: sheet.png
    area: [16, 0, 16, 16]
  archer:
    texture: bow.png
`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			spec, err := DecodeSpec(tc.filename, []byte(tc.data))
			if err != nil {
				t.Fatalf("DecodeSpec: %v", err)
			}
			if len(spec.Tiles) != len(want) {
				t.Fatalf("got %d tiles, want %d: %+v", len(spec.Tiles), len(want), spec.Tiles)
			}
			for i := range want {
				got := spec.Tiles[i]
				if got.Name != want[i].Name || got.Texture != want[i].Texture || !slices.Equal(got.Area, want[i].Area) {
					t.Fatalf("tile %d = %+v, want %+v", i, got, want[i])
				}
			}

			s, err := FromSpec(spec)
			if err != nil {
				t.Fatalf("FromSpec: %v", err)
			}
			if s.Tiles[1].Area != image.Rect(16, 0, 32, 16) {
				t.Fatalf("unexpected area %v", s.Tiles[1].Area)
			}
		})
	}
}

func TestDecodeSpecTileErrors(t *testing.T) {
	cases := []struct {
		name     string
		filename string
		data     string
	}{
		{"toml_keyed_unknown_field", "schema.toml", "name = \"b\"\n[tiles.archer]\ntexture = \"bow.png\"\nbogus = 1\n"},
		{"yaml_keyed_unknown_field", "schema.yaml", "name: b\ntiles:\n  archer:\n    texture: bow.png\n    bogus: 1\n"},
		{"yaml_list_unknown_field", "schema.yaml", "name: b\ntiles:\n  - name: archer\n    bogus: 1\n"},
		{"yaml_scalar", "schema.yaml", "name: b\ntiles: archer\n"},
		{"toml_scalar", "schema.toml", "name = \"b\"\ntiles = \"archer\"\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DecodeSpec(tc.filename, []byte(tc.data)); err == nil {
				t.Fatalf("expected an error")
			}
		})
	}
}
