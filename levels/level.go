package levels

import (
	"cmp"
	"image"
	"maps"
	"slices"
)

// Cell is an occupied grid position. Two cells are the same position when
// Col and Row match; Variant (a color index) does not take part in identity.
type Cell struct {
	Col     int
	Row     int
	Variant uint
}

// Pos returns the cell's position.
func (c Cell) Pos() image.Point {
	return image.Pt(c.Col, c.Row)
}

func compareCells(a, b Cell) int {
	if c := cmp.Compare(a.Col, b.Col); c != 0 {
		return c
	}
	return cmp.Compare(a.Row, b.Row)
}

// Layer maps a tile kind to its cells, each slice sorted by (Col, Row).
type Layer map[string][]Cell

// Level is the editable document: a name, the schema it was made for, and
// its layers keyed by name. Layers are created on first paint.
type Level struct {
	Name   string           `json:"name"`
	Schema string           `json:"schema"`
	Layers map[string]Layer `json:"layers"`

	// Dropped counts the duplicate cells Decode discarded.
	Dropped int `json:"-"`
}

// New returns an empty level.
func New(name, schema string) *Level {
	return &Level{Name: name, Schema: schema, Layers: map[string]Layer{}}
}

// Paint places kind at pos on layer, replacing whatever occupied pos there.
func (l *Level) Paint(layer string, pos image.Point, kind string, variant uint) {
	if l.Layers == nil {
		l.Layers = map[string]Layer{}
	}
	ly, ok := l.Layers[layer]
	if !ok {
		ly = Layer{}
		l.Layers[layer] = ly
	}
	ly.clear(pos)
	ly.insert(kind, Cell{Col: pos.X, Row: pos.Y, Variant: variant})
}

// Erase removes whatever occupies pos on layer.
func (l *Level) Erase(layer string, pos image.Point) {
	if ly, ok := l.Layers[layer]; ok {
		ly.clear(pos)
	}
}

// At returns the tile kind and cell at pos on layer.
func (l *Level) At(layer string, pos image.Point) (string, Cell, bool) {
	ly, ok := l.Layers[layer]
	if !ok {
		return "", Cell{}, false
	}
	probe := Cell{Col: pos.X, Row: pos.Y}
	for _, kind := range ly.Kinds() {
		cells := ly[kind]
		if i, found := slices.BinarySearchFunc(cells, probe, compareCells); found {
			return kind, cells[i], true
		}
	}
	return "", Cell{}, false
}

// LayerNames returns the names of the layers present, sorted.
func (l *Level) LayerNames() []string {
	return slices.Sorted(maps.Keys(l.Layers))
}

// Kinds returns the tile kinds with at least one cell on layer, sorted.
func (l *Level) Kinds(layer string) []string {
	return l.Layers[layer].Kinds()
}

// Cells returns the cells of kind on layer in (Col, Row) order. The slice
// belongs to the level and must not be modified.
func (l *Level) Cells(layer, kind string) []Cell {
	return l.Layers[layer][kind]
}

// Each calls fn for every cell on layer, kinds in sorted order and cells in
// (Col, Row) order within a kind.
func (l *Level) Each(layer string, fn func(kind string, c Cell)) {
	ly := l.Layers[layer]
	for _, kind := range ly.Kinds() {
		for _, c := range ly[kind] {
			fn(kind, c)
		}
	}
}

// Count returns the number of occupied cells on layer.
func (l *Level) Count(layer string) int {
	n := 0
	for _, cells := range l.Layers[layer] {
		n += len(cells)
	}
	return n
}

// Equal reports whether both levels hold the same name, schema and cells.
// Empty layers and kinds are ignored.
func (l *Level) Equal(o *Level) bool {
	if l.Name != o.Name || l.Schema != o.Schema {
		return false
	}
	names := l.nonEmptyLayers()
	if !slices.Equal(names, o.nonEmptyLayers()) {
		return false
	}
	for _, name := range names {
		a, b := l.Layers[name], o.Layers[name]
		if !slices.Equal(a.Kinds(), b.Kinds()) {
			return false
		}
		for _, kind := range a.Kinds() {
			if !slices.Equal(a[kind], b[kind]) {
				return false
			}
		}
	}
	return true
}

// Normalize restores the one-tile-per-cell rule on a level that did not come
// from Paint, such as a hand-edited file. Within a kind the first occurrence
// of a position is kept; across kinds the kind that sorts first keeps it.
// Empty kinds are dropped. It returns the number of cells removed.
func (l *Level) Normalize() int {
	if l.Layers == nil {
		l.Layers = map[string]Layer{}
	}
	removed := 0
	for name, ly := range l.Layers {
		if ly == nil {
			l.Layers[name] = Layer{}
			continue
		}
		seen := map[image.Point]struct{}{}
		for _, kind := range slices.Sorted(maps.Keys(ly)) {
			kept := make([]Cell, 0, len(ly[kind]))
			for _, c := range ly[kind] {
				if _, dup := seen[c.Pos()]; dup {
					removed++
					continue
				}
				seen[c.Pos()] = struct{}{}
				kept = append(kept, c)
			}
			if len(kept) == 0 {
				delete(ly, kind)
				continue
			}
			slices.SortStableFunc(kept, compareCells)
			ly[kind] = kept
		}
	}
	return removed
}

func (l *Level) nonEmptyLayers() []string {
	var names []string
	for _, name := range l.LayerNames() {
		if len(l.Layers[name].Kinds()) > 0 {
			names = append(names, name)
		}
	}
	return names
}

// Kinds returns the tile kinds with at least one cell, sorted.
func (ly Layer) Kinds() []string {
	kinds := make([]string, 0, len(ly))
	for kind, cells := range ly {
		if len(cells) > 0 {
			kinds = append(kinds, kind)
		}
	}
	slices.Sort(kinds)
	return kinds
}

func (ly Layer) clear(pos image.Point) {
	probe := Cell{Col: pos.X, Row: pos.Y}
	for kind, cells := range ly {
		if i, found := slices.BinarySearchFunc(cells, probe, compareCells); found {
			cells = slices.Delete(cells, i, i+1)
			if len(cells) == 0 {
				delete(ly, kind)
			} else {
				ly[kind] = cells
			}
		}
	}
}

func (ly Layer) insert(kind string, c Cell) {
	cells := ly[kind]
	i, _ := slices.BinarySearchFunc(cells, c, compareCells)
	ly[kind] = slices.Insert(cells, i, c)
}
