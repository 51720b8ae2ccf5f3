// Package editor turns input messages into edits of a level and pans of the
// viewport showing it.
//
// A Session is driven by one goroutine, one message at a time. It owns the
// level and the viewport for its whole life; the persistence Saver only
// borrows the level for the duration of a save.
package editor

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/milk9111/tilepaint/levels"
	"github.com/milk9111/tilepaint/schema"
	"github.com/milk9111/tilepaint/viewport"
	"go.uber.org/zap"
)

// ErrVariant is returned when a variant does not index the schema colors.
var ErrVariant = errors.New("editor: variant out of range")

// Saver persists a level. It must not keep lvl after returning.
type Saver interface {
	Save(lvl *levels.Level) error
}

// Request is what a handled message asks of the event loop.
type Request struct {
	Exit bool
}

type Option func(*Session)

// WithSaver sets the output destination. Without one, saves are no-ops.
func WithSaver(s Saver) Option {
	return func(e *Session) { e.saver = s }
}

func WithLogger(l *zap.Logger) Option {
	return func(e *Session) {
		if l != nil {
			e.log = l
		}
	}
}

// WithPanStep sets how many cells a pan command moves the view.
func WithPanStep(cells int) Option {
	return func(e *Session) {
		if cells > 0 {
			e.panStep = cells
		}
	}
}

// Session is the editing state: the level, the viewport, the current
// layer/tile/color/tool and what the pointer is doing.
type Session struct {
	schema *schema.Schema
	level  *levels.Level
	view   *viewport.Viewport

	layers Selection[string]
	tiles  Selection[schema.Tile]
	colors Selection[color.RGBA]
	tools  Selection[Tool]

	drag    Drag
	pointer image.Point
	dirty   bool

	saver   Saver
	log     *zap.Logger
	panStep int
}

// New builds a session editing lvl. lvl must have been made for sch and use
// only its layers. The last schema layer starts out current.
func New(sch *schema.Schema, lvl *levels.Level, vp *viewport.Viewport, opts ...Option) (*Session, error) {
	if sch == nil || lvl == nil || vp == nil {
		return nil, errors.New("editor: schema, level and viewport are required")
	}
	if err := sch.Validate(lvl); err != nil {
		return nil, err
	}

	layers, err := NewClamped(sch.Layers, len(sch.Layers)-1)
	if err != nil {
		return nil, fmt.Errorf("editor: layers: %w", err)
	}
	tiles, err := NewRing(sch.Tiles, 0)
	if err != nil {
		return nil, fmt.Errorf("editor: tiles: %w", err)
	}
	colors, err := NewRing(sch.Colors, 0)
	if err != nil {
		return nil, fmt.Errorf("editor: colors: %w", err)
	}
	tools, _ := NewRing([]Tool{ToolPaint, ToolErase, ToolFill}, 0)

	s := &Session{
		schema:  sch,
		level:   lvl,
		view:    vp,
		layers:  layers,
		tiles:   tiles,
		colors:  colors,
		tools:   tools,
		log:     zap.NewNop(),
		panStep: 1,
	}
	for _, opt := range opts {
		opt(s)
	}

	if unknown := sch.UnknownTiles(lvl); len(unknown) > 0 {
		s.log.Warn("level uses tiles the schema does not define",
			zap.String("level", lvl.Name), zap.Strings("tiles", unknown))
	}
	return s, nil
}

// Handle applies one message. Errors are only returned by saves; the session
// stays usable after any error.
func (s *Session) Handle(msg Message) (Request, error) {
	switch m := msg.(type) {
	case Command:
		return s.command(m)
	case PointerDown:
		s.pointer = image.Pt(m.X, m.Y)
		if m.Button == Primary && s.tools.Current() == ToolFill {
			s.drag = DragNone
			s.fill(s.view.ToModel(s.pointer))
			break
		}
		s.drag = s.dragFor(m.Button)
		s.stroke()
	case PointerMoved:
		s.pointer = image.Pt(m.X, m.Y)
		s.stroke()
	case PointerUp:
		s.pointer = image.Pt(m.X, m.Y)
		s.drag = DragNone
	case SelectTile:
		if i := s.schema.TileIndex(m.Name); i >= 0 {
			s.tiles.Select(i)
		} else {
			s.log.Debug("ignoring unknown tile selection", zap.String("tile", m.Name))
		}
	case SelectLayer:
		if !s.layers.Select(m.Index) {
			s.log.Debug("ignoring out of range layer selection", zap.Int("index", m.Index))
		}
	default:
		return Request{}, fmt.Errorf("editor: unsupported message %T", msg)
	}
	return Request{}, nil
}

func (s *Session) command(c Command) (Request, error) {
	switch c {
	case PanUp, PanDown, PanLeft, PanRight:
		s.view.Translate(s.panDelta(c))
	case NextLayer:
		s.layers.Next()
	case PrevLayer:
		s.layers.Prev()
	case NextTile:
		s.tiles.Next()
	case PrevTile:
		s.tiles.Prev()
	case NextColor:
		s.colors.Next()
	case PrevColor:
		s.colors.Prev()
	case NextTool:
		s.tools.Next()
	case Save:
		return Request{}, s.Save()
	case PreExit:
		return Request{Exit: true}, s.Save()
	case Exit:
		panic("editor: Exit must be handled by the event loop")
	default:
		return Request{}, fmt.Errorf("editor: unsupported command %v", c)
	}
	s.log.Debug("command", zap.Stringer("command", c),
		zap.String("layer", s.layers.Current()),
		zap.String("tile", s.tiles.Current().Name),
		zap.Int("color", s.colors.Index()),
		zap.Stringer("tool", s.tools.Current()))
	return Request{}, nil
}

// panDelta converts a pan command, given in screen directions, into a model
// translation. A flipped axis between model and view flips the delta.
func (s *Session) panDelta(c Command) image.Point {
	model, view := s.view.Model(), s.view.View()
	sameX := (model.Dx() > 0) == (view.Dx() > 0)
	sameY := (model.Dy() > 0) == (view.Dy() > 0)

	var d image.Point
	switch c {
	case PanUp:
		d.Y = -1
	case PanDown:
		d.Y = 1
	case PanLeft:
		d.X = -1
	case PanRight:
		d.X = 1
	}
	if !sameX {
		d.X = -d.X
	}
	if !sameY {
		d.Y = -d.Y
	}
	return d.Mul(s.panStep)
}

func (s *Session) dragFor(b Button) Drag {
	if b == Secondary || s.tools.Current() == ToolErase {
		return DragErasing
	}
	return DragPainting
}

// stroke paints or erases the single cell under the pointer. Cells skipped
// between two motion samples are not filled in.
func (s *Session) stroke() {
	cell := s.view.ToModel(s.pointer)
	layer := s.layers.Current()

	switch s.drag {
	case DragPainting:
		tile := s.tiles.Current().Name
		variant := uint(s.colors.Index())
		if kind, c, ok := s.level.At(layer, cell); ok && kind == tile && c.Variant == variant {
			return
		}
		s.level.Paint(layer, cell, tile, variant)
		s.dirty = true
	case DragErasing:
		if _, _, ok := s.level.At(layer, cell); !ok {
			return
		}
		s.level.Erase(layer, cell)
		s.dirty = true
	}
}

// fill repaints start and every cell 4-connected to it that holds the same
// tile and variant, or is empty when start is. Only visible cells are
// considered, so filling empty space stops at the edges of the view.
func (s *Session) fill(start image.Point) {
	bounds := s.view.VisibleCells()
	if !start.In(bounds) {
		return
	}
	layer := s.layers.Current()
	tile := s.tiles.Current().Name
	variant := uint(s.colors.Index())

	target, targetCell, targetOK := s.level.At(layer, start)
	if targetOK && target == tile && targetCell.Variant == variant {
		return
	}
	matches := func(p image.Point) bool {
		kind, c, ok := s.level.At(layer, p)
		if ok != targetOK {
			return false
		}
		return !ok || (kind == target && c.Variant == targetCell.Variant)
	}

	seen := map[image.Point]bool{start: true}
	stack := []image.Point{start}
	painted := 0
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		s.level.Paint(layer, p, tile, variant)
		painted++
		for _, d := range [...]image.Point{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
			n := p.Add(d)
			if seen[n] || !n.In(bounds) || !matches(n) {
				continue
			}
			seen[n] = true
			stack = append(stack, n)
		}
	}
	s.dirty = true
	s.log.Debug("fill", zap.String("layer", layer), zap.String("tile", tile),
		zap.Int("cells", painted))
}

// Save writes the level to the output destination. Without a destination
// it only logs.
func (s *Session) Save() error {
	if s.saver == nil {
		s.log.Info("no output destination; not saving", zap.String("level", s.level.Name))
		return nil
	}
	if err := s.saver.Save(s.level); err != nil {
		s.log.Error("save failed", zap.String("level", s.level.Name), zap.Error(err))
		return fmt.Errorf("editor: save %s: %w", s.level.Name, err)
	}
	s.dirty = false
	s.log.Info("level saved", zap.String("level", s.level.Name))
	return nil
}

// PaintAt places tile at (col, row) on layer with the given color variant.
// Unlike pointer strokes, every argument is checked against the schema.
func (s *Session) PaintAt(layer string, col, row int, tile string, variant uint) error {
	if !s.schema.HasLayer(layer) {
		return fmt.Errorf("%w: %q", schema.ErrUnknownLayer, layer)
	}
	if !s.schema.HasTile(tile) {
		return fmt.Errorf("%w: %q", schema.ErrUnknownTile, tile)
	}
	if variant >= uint(s.colors.Len()) {
		return fmt.Errorf("%w: %d (have %d colors)", ErrVariant, variant, s.colors.Len())
	}
	s.level.Paint(layer, image.Pt(col, row), tile, variant)
	s.dirty = true
	return nil
}

// EraseAt clears (col, row) on layer.
func (s *Session) EraseAt(layer string, col, row int) error {
	if !s.schema.HasLayer(layer) {
		return fmt.Errorf("%w: %q", schema.ErrUnknownLayer, layer)
	}
	if _, _, ok := s.level.At(layer, image.Pt(col, row)); ok {
		s.level.Erase(layer, image.Pt(col, row))
		s.dirty = true
	}
	return nil
}

func (s *Session) Level() *levels.Level { return s.level }
func (s *Session) Schema() *schema.Schema { return s.schema }
func (s *Session) Viewport() *viewport.Viewport { return s.view }
func (s *Session) Tool() Tool { return s.tools.Current() }
func (s *Session) Drag() Drag { return s.drag }
func (s *Session) Dirty() bool { return s.dirty }
func (s *Session) ReadOnly() bool { return s.saver == nil }
func (s *Session) Pointer() image.Point { return s.pointer }
func (s *Session) CurrentLayer() (int, string) { return s.layers.Index(), s.layers.Current() }
func (s *Session) CurrentTile() (int, schema.Tile) { return s.tiles.Index(), s.tiles.Current() }
func (s *Session) CurrentColor() (int, color.RGBA) { return s.colors.Index(), s.colors.Current() }
