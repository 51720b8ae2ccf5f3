package editor

import (
	"image"
	"image/color"

	"github.com/milk9111/tilepaint/levels"
)

// TileRect is one cell to draw, already mapped to view space.
type TileRect struct {
	Kind    string
	Rect    image.Rectangle
	Variant uint
	Color   color.RGBA
}

// LayerFrame holds the cells of one layer in draw order.
type LayerFrame struct {
	Name    string
	Current bool
	Tiles   []TileRect
}

// Status is the state shown next to the canvas.
type Status struct {
	Tool       Tool
	Drag       Drag
	Layer      string
	LayerIndex int
	LayerCount int
	Tile       string
	ColorIndex int
	Color      color.RGBA
	// Cell is the model cell under the pointer.
	Cell     image.Point
	Dirty    bool
	ReadOnly bool
}

// Frame is everything a renderer needs for one frame. It is rebuilt on each
// call and does not alias session state.
type Frame struct {
	// Layers runs from the bottom layer up to and including the current one.
	Layers []LayerFrame
	// Cursor is the view rectangle of the cell under the pointer.
	Cursor image.Rectangle
	Status Status
}

// Frame computes the view-space rectangles of every visible cell.
func (s *Session) Frame() Frame {
	visible := s.view.VisibleCells()
	current := s.layers.Index()

	f := Frame{Layers: make([]LayerFrame, 0, current+1)}
	for i, name := range s.layers.Items()[:current+1] {
		lf := LayerFrame{Name: name, Current: i == current}
		s.level.Each(name, func(kind string, c levels.Cell) {
			if !c.Pos().In(visible) {
				return
			}
			lf.Tiles = append(lf.Tiles, TileRect{
				Kind:    kind,
				Rect:    s.view.CellRect(c.Col, c.Row),
				Variant: c.Variant,
				Color:   s.variantColor(c.Variant),
			})
		})
		f.Layers = append(f.Layers, lf)
	}

	f.Status = s.Status()
	f.Cursor = s.view.CellRect(f.Status.Cell.X, f.Status.Cell.Y)
	return f
}

// Status reports the session state without computing any cell rectangles.
func (s *Session) Status() Status {
	return Status{
		Tool:       s.tools.Current(),
		Drag:       s.drag,
		Layer:      s.layers.Current(),
		LayerIndex: s.layers.Index(),
		LayerCount: s.layers.Len(),
		Tile:       s.tiles.Current().Name,
		ColorIndex: s.colors.Index(),
		Color:      s.colors.Current(),
		Cell:       s.view.ToModel(s.pointer),
		Dirty:      s.dirty,
		ReadOnly:   s.saver == nil,
	}
}

func (s *Session) variantColor(v uint) color.RGBA {
	if v < uint(s.colors.Len()) {
		return s.colors.Items()[v]
	}
	return color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
}
