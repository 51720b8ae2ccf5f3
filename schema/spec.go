package schema

import (
	"bytes"
	"cmp"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Spec is a schema file as written on disk, before validation.
type Spec struct {
	Name   string    `yaml:"name" toml:"name"`
	Layers []string  `yaml:"layers" toml:"layers"`
	Prefix string    `yaml:"prefix" toml:"prefix"`
	Colors []string  `yaml:"colors" toml:"colors"`
	Tiles  TileSpecs `yaml:"tiles" toml:"tiles"`
}

// TileSpec names a tile kind and the sprite drawn for it. Area, when set, is
// the [x, y, w, h] region of Texture to use.
type TileSpec struct {
	Name    string `yaml:"name" toml:"name"`
	Texture string `yaml:"texture" toml:"texture"`
	Area    []int  `yaml:"area,omitempty" toml:"area,omitempty"`
}

// TileSpecs is the tiles section of a schema file. It is written either as a
// list of entries carrying their own name, or as a table keyed by tile name:
//
//	[tiles.protector]
//	texture = "shield.png"
//
// Keyed tiles have no order of their own and are sorted by name.
type TileSpecs []TileSpec

// tileBody is one entry of the keyed form.
type tileBody struct {
	Texture string `yaml:"texture"`
	Area    []int  `yaml:"area,omitempty"`
}

func (ts *TileSpecs) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var list []TileSpec
		if err := strictDecode(node, &list); err != nil {
			return err
		}
		*ts = list
	case yaml.MappingNode:
		var keyed map[string]tileBody
		if err := strictDecode(node, &keyed); err != nil {
			return err
		}
		list := make([]TileSpec, 0, len(keyed))
		for name, body := range keyed {
			list = append(list, TileSpec{Name: name, Texture: body.Texture, Area: body.Area})
		}
		slices.SortFunc(list, func(a, b TileSpec) int { return cmp.Compare(a.Name, b.Name) })
		*ts = list
	default:
		return fmt.Errorf("line %d: tiles must be a list or a table", node.Line)
	}
	return nil
}

// strictDecode decodes node rejecting unknown fields, which Node.Decode alone
// does not do.
func strictDecode(node *yaml.Node, out any) error {
	b, err := yaml.Marshal(node)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	return dec.Decode(out)
}

// tomlSpec holds the tiles section undecoded; it is converted through the
// yaml path so both formats share the TileSpecs rules.
type tomlSpec struct {
	Name   string   `toml:"name"`
	Layers []string `toml:"layers"`
	Prefix string   `toml:"prefix"`
	Colors []string `toml:"colors"`
	Tiles  any      `toml:"tiles"`
}

// DecodeSpec parses a schema file. The format is chosen from the extension
// of filename: .yaml/.yml or .toml.
func DecodeSpec(filename string, data []byte) (Spec, error) {
	var spec Spec
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&spec); err != nil {
			return Spec{}, fmt.Errorf("schema: unmarshal %s: %w", filename, err)
		}
	case ".toml":
		var raw tomlSpec
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&raw); err != nil {
			return Spec{}, fmt.Errorf("schema: unmarshal %s: %w", filename, err)
		}
		spec = Spec{Name: raw.Name, Layers: raw.Layers, Prefix: raw.Prefix, Colors: raw.Colors}
		if raw.Tiles != nil {
			b, err := yaml.Marshal(raw.Tiles)
			if err != nil {
				return Spec{}, fmt.Errorf("schema: unmarshal %s: tiles: %w", filename, err)
			}
			dec := yaml.NewDecoder(bytes.NewReader(b))
			dec.KnownFields(true)
			if err := dec.Decode(&spec.Tiles); err != nil {
				return Spec{}, fmt.Errorf("schema: unmarshal %s: tiles: %w", filename, err)
			}
		}
	default:
		return Spec{}, fmt.Errorf("%w: %s", ErrFormat, filename)
	}
	return spec, nil
}
