// Package schema describes what a family of levels may contain: the ordered
// layer names, the paintable tile kinds with their sprites, and the palette
// of colors a painted cell can carry.
package schema

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"path"
	"slices"

	"github.com/milk9111/tilepaint/levels"
)

var (
	ErrEmpty        = errors.New("schema: empty list")
	ErrDuplicate    = errors.New("schema: duplicate name")
	ErrColor        = errors.New("schema: invalid color")
	ErrFormat       = errors.New("schema: unsupported file format")
	ErrMismatch     = errors.New("schema: level was made for another schema")
	ErrUnknownLayer = errors.New("schema: unknown layer")
	ErrUnknownTile  = errors.New("schema: unknown tile")
)

// Tile is a paintable tile kind.
type Tile struct {
	Name    string
	Texture string
	// Area is the region of Texture to draw; empty means the whole image.
	Area image.Rectangle
}

// Schema is a validated, read-only catalog of layers, tiles and colors.
type Schema struct {
	Name   string
	Layers []string
	// Prefix is the directory sprite textures are resolved against.
	Prefix string
	Colors []color.RGBA
	Tiles  []Tile
}

// FromSpec validates spec and builds a Schema from it.
func FromSpec(spec Spec) (*Schema, error) {
	if spec.Name == "" {
		return nil, fmt.Errorf("%w: schema has no name", ErrEmpty)
	}
	if len(spec.Layers) == 0 {
		return nil, fmt.Errorf("%w: %s has no layers", ErrEmpty, spec.Name)
	}
	if len(spec.Tiles) == 0 {
		return nil, fmt.Errorf("%w: %s has no tiles", ErrEmpty, spec.Name)
	}
	if len(spec.Colors) == 0 {
		return nil, fmt.Errorf("%w: %s has no colors", ErrEmpty, spec.Name)
	}
	if err := checkNames("layer", spec.Layers); err != nil {
		return nil, err
	}

	s := &Schema{
		Name:   spec.Name,
		Layers: slices.Clone(spec.Layers),
		Prefix: spec.Prefix,
		Colors: make([]color.RGBA, 0, len(spec.Colors)),
		Tiles:  make([]Tile, 0, len(spec.Tiles)),
	}

	for _, hex := range spec.Colors {
		c, err := ParseColor(hex)
		if err != nil {
			return nil, err
		}
		s.Colors = append(s.Colors, c)
	}

	names := make([]string, 0, len(spec.Tiles))
	for _, ts := range spec.Tiles {
		if ts.Texture == "" {
			return nil, fmt.Errorf("%w: tile %q has no texture", ErrEmpty, ts.Name)
		}
		tile := Tile{Name: ts.Name, Texture: ts.Texture}
		if ts.Area != nil {
			if len(ts.Area) != 4 || ts.Area[2] <= 0 || ts.Area[3] <= 0 {
				return nil, fmt.Errorf("schema: tile %q: area must be [x, y, w, h] with positive size, got %v", ts.Name, ts.Area)
			}
			tile.Area = image.Rect(ts.Area[0], ts.Area[1], ts.Area[0]+ts.Area[2], ts.Area[1]+ts.Area[3])
		}
		names = append(names, ts.Name)
		s.Tiles = append(s.Tiles, tile)
	}
	if err := checkNames("tile", names); err != nil {
		return nil, err
	}

	return s, nil
}

func checkNames(what string, names []string) error {
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if n == "" {
			return fmt.Errorf("%w: %s with empty name", ErrEmpty, what)
		}
		if _, ok := seen[n]; ok {
			return fmt.Errorf("%w: %s %q", ErrDuplicate, what, n)
		}
		seen[n] = struct{}{}
	}
	return nil
}

// HasLayer reports whether name is a known layer.
func (s *Schema) HasLayer(name string) bool {
	return slices.Contains(s.Layers, name)
}

// HasTile reports whether name is a known tile kind.
func (s *Schema) HasTile(name string) bool {
	return s.TileIndex(name) >= 0
}

// TileIndex returns the position of the tile kind name, or -1.
func (s *Schema) TileIndex(name string) int {
	return slices.IndexFunc(s.Tiles, func(t Tile) bool { return t.Name == name })
}

// TileNames returns the tile kind names in schema order.
func (s *Schema) TileNames() []string {
	names := make([]string, len(s.Tiles))
	for i, t := range s.Tiles {
		names[i] = t.Name
	}
	return names
}

// SpritePath returns the slash-separated path of a tile's texture under
// Prefix.
func (s *Schema) SpritePath(t Tile) string {
	return path.Join(s.Prefix, t.Texture)
}

// Validate checks that lvl was made for this schema and only uses known
// layers.
func (s *Schema) Validate(lvl *levels.Level) error {
	if lvl.Schema != s.Name {
		return fmt.Errorf("%w: level %q uses %q, active schema is %q", ErrMismatch, lvl.Name, lvl.Schema, s.Name)
	}
	for _, name := range lvl.LayerNames() {
		if !s.HasLayer(name) {
			return fmt.Errorf("%w: level %q has layer %q, schema %q knows %v", ErrUnknownLayer, lvl.Name, name, s.Name, s.Layers)
		}
	}
	return nil
}

// UnknownTiles lists tile kinds used by lvl that the schema does not define,
// sorted and without duplicates.
func (s *Schema) UnknownTiles(lvl *levels.Level) []string {
	var unknown []string
	for _, layer := range lvl.LayerNames() {
		for _, kind := range lvl.Kinds(layer) {
			if !s.HasTile(kind) && !slices.Contains(unknown, kind) {
				unknown = append(unknown, kind)
			}
		}
	}
	slices.Sort(unknown)
	return unknown
}
