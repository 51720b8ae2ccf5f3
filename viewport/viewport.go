// Package viewport maps points and rectangles between the level grid (model
// space, in cells) and the window (view space, in pixels).
//
// Both spaces are described by an integer rectangle. A rectangle's corners
// may be given in either order on each axis; a model rectangle running
// bottom-to-top against a view rectangle running top-to-bottom flips the Y
// axis, which is how "row 0 at the bottom" levels are shown on screens whose
// origin is the top-left corner.
package viewport

import (
	"errors"
	"fmt"
	"image"

	"github.com/milk9111/tilepaint/common"
)

// ErrDegenerate is returned when a rectangle has a zero span on an axis.
var ErrDegenerate = errors.New("viewport: degenerate rectangle")

// Rect is an integer rectangle given by two corners. Unlike image.Rectangle
// it is never canonicalized, so a negative span expresses a flipped axis.
type Rect struct {
	X0, Y0, X1, Y1 int
}

// R is shorthand for Rect{x0, y0, x1, y1}.
func R(x0, y0, x1, y1 int) Rect {
	return Rect{X0: x0, Y0: y0, X1: x1, Y1: y1}
}

// Dx returns the signed horizontal span.
func (r Rect) Dx() int { return r.X1 - r.X0 }

// Dy returns the signed vertical span.
func (r Rect) Dy() int { return r.Y1 - r.Y0 }

// Canon returns the well-formed image.Rectangle covering r.
func (r Rect) Canon() image.Rectangle {
	return image.Rect(r.X0, r.Y0, r.X1, r.Y1)
}

// Add returns r translated by p.
func (r Rect) Add(p image.Point) Rect {
	return Rect{X0: r.X0 + p.X, Y0: r.Y0 + p.Y, X1: r.X1 + p.X, Y1: r.Y1 + p.Y}
}

func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d)", r.X0, r.Y0, r.X1, r.Y1)
}

func (r Rect) degenerate() bool {
	return r.Dx() == 0 || r.Dy() == 0
}

// Viewport holds the model and view rectangles. The zero value is not
// usable; construct with New.
type Viewport struct {
	model Rect
	view  Rect
}

// New returns a viewport mapping model onto view.
func New(model, view Rect) (*Viewport, error) {
	if model.degenerate() {
		return nil, fmt.Errorf("%w: model %s", ErrDegenerate, model)
	}
	if view.degenerate() {
		return nil, fmt.Errorf("%w: view %s", ErrDegenerate, view)
	}
	return &Viewport{model: model, view: view}, nil
}

// Model returns the model rectangle currently shown.
func (v *Viewport) Model() Rect { return v.model }

// View returns the view rectangle.
func (v *Viewport) View() Rect { return v.view }

// ToView maps a model point to view space.
func (v *Viewport) ToView(p image.Point) image.Point {
	return transform(p, v.model, v.view)
}

// ToModel maps a view point to model space. The result is the cell
// containing the point.
func (v *Viewport) ToModel(p image.Point) image.Point {
	return transform(p, v.view, v.model)
}

// ToViewRect maps both corners of a model rectangle to view space.
func (v *Viewport) ToViewRect(r Rect) image.Rectangle {
	a := v.ToView(image.Pt(r.X0, r.Y0))
	b := v.ToView(image.Pt(r.X1, r.Y1))
	return image.Rect(a.X, a.Y, b.X, b.Y)
}

// ToModelRect maps both corners of a view rectangle to model space.
func (v *Viewport) ToModelRect(r Rect) image.Rectangle {
	a := v.ToModel(image.Pt(r.X0, r.Y0))
	b := v.ToModel(image.Pt(r.X1, r.Y1))
	return image.Rect(a.X, a.Y, b.X, b.Y)
}

// CellRect returns the view rectangle covered by the model cell (col, row).
func (v *Viewport) CellRect(col, row int) image.Rectangle {
	return v.ToViewRect(R(col, row, col+1, row+1))
}

// VisibleCells returns the model rectangle currently shown, normalized.
func (v *Viewport) VisibleCells() image.Rectangle {
	return v.model.Canon()
}

// Translate pans the visible window by d cells without changing its size.
func (v *Viewport) Translate(d image.Point) {
	v.model = v.model.Add(d)
}

// Resize replaces the view rectangle, e.g. after the window changed size.
func (v *Viewport) Resize(view Rect) error {
	if view.degenerate() {
		return fmt.Errorf("%w: view %s", ErrDegenerate, view)
	}
	v.view = view
	return nil
}

// SetModel replaces the model rectangle.
func (v *Viewport) SetModel(model Rect) error {
	if model.degenerate() {
		return fmt.Errorf("%w: model %s", ErrDegenerate, model)
	}
	v.model = model
	return nil
}

func transform(p image.Point, from, to Rect) image.Point {
	return image.Point{
		X: scale(p.X, from.X0, from.Dx(), to.X0, to.Dx()),
		Y: scale(p.Y, from.Y0, from.Dy(), to.Y0, to.Dy()),
	}
}

// scale computes floor((in-fromOrigin) * toSpan / fromSpan) + toOrigin in
// 64-bit integers so the result rounds toward negative infinity.
func scale(in, fromOrigin, fromSpan, toOrigin, toSpan int) int {
	num := int64(in-fromOrigin) * int64(toSpan)
	return int(common.FloorDiv(num, int64(fromSpan))) + toOrigin
}
