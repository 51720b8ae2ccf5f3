package main

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/tilepaint/assets"
	"github.com/milk9111/tilepaint/editor"
	"golang.org/x/image/colornames"
)

var (
	backgroundColor  = color.RGBA{24, 26, 30, 255}
	gridColor        = color.RGBA{70, 74, 82, 255}
	unknownTileColor = color.RGBA{255, 0, 255, 255}
)

// belowAlpha dims the layers under the current one.
const belowAlpha = 0.5

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	f := g.session.Frame()
	for _, layer := range f.Layers {
		for _, tr := range layer.Tiles {
			g.drawTile(screen, tr, layer.Current)
		}
	}
	if g.cfg.GridLines {
		g.drawGrid(screen)
	}
	g.drawCursor(screen, f)

	g.status.ui.Draw(screen)
}

func (g *Game) drawTile(screen *ebiten.Image, tr editor.TileRect, current bool) {
	img := g.sprite(tr.Kind)
	b := img.Bounds()
	r := tr.Rect

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(r.Dx())/float64(b.Dx()), float64(r.Dy())/float64(b.Dy()))
	op.GeoM.Translate(float64(r.Min.X), float64(r.Min.Y))
	op.ColorScale.ScaleWithColor(tr.Color)
	if !current {
		op.ColorScale.ScaleAlpha(belowAlpha)
	}
	op.Filter = ebiten.FilterNearest
	screen.DrawImage(img, op)
}

func (g *Game) drawGrid(screen *ebiten.Image) {
	vp := g.session.Viewport()
	vis := vp.VisibleCells()
	w, h := float32(g.cfg.Window.Width), float32(g.cfg.Window.Height)

	for col := vis.Min.X; col < vis.Max.X; col++ {
		r := vp.CellRect(col, vis.Min.Y)
		for _, x := range []float32{float32(r.Min.X), float32(r.Max.X)} {
			vector.StrokeLine(screen, x, 0, x, h, 1, gridColor, false)
		}
	}
	for row := vis.Min.Y; row < vis.Max.Y; row++ {
		r := vp.CellRect(vis.Min.X, row)
		for _, y := range []float32{float32(r.Min.Y), float32(r.Max.Y)} {
			vector.StrokeLine(screen, 0, y, w, y, 1, gridColor, false)
		}
	}
}

func (g *Game) drawCursor(screen *ebiten.Image, f editor.Frame) {
	c := f.Cursor
	if c.Empty() || g.lastCursor.In(g.status.Rect) {
		return
	}
	clr := color.Color(f.Status.Color)
	if f.Status.Tool == editor.ToolErase {
		clr = colornames.Orangered
	}
	vector.StrokeRect(screen, float32(c.Min.X), float32(c.Min.Y), float32(c.Dx()), float32(c.Dy()), 2, clr, false)
}

// sprite returns the drawable image for a tile kind, building it on first
// use. Kinds the schema does not know get a magenta square.
func (g *Game) sprite(kind string) *ebiten.Image {
	if img, ok := g.sprites[kind]; ok {
		return img
	}
	var src image.Image
	if i := g.schema.TileIndex(kind); i >= 0 {
		src = g.lib.Sprite(g.schema, g.schema.Tiles[i])
	} else {
		src = assets.Placeholder(assets.PlaceholderSize, unknownTileColor)
	}
	img := ebiten.NewImageFromImage(src)
	g.sprites[kind] = img
	return img
}
