package main

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/tilepaint/editor"
	"golang.org/x/image/font/gofont/goregular"
)

const panelWidth = 180

// StatusUI is the side panel: session status plus layer and tile pickers.
type StatusUI struct {
	ui *ebitenui.UI
	// Rect is the screen area the panel covers.
	Rect image.Rectangle

	tool, layer, tile, colorLabel, cell, file, message *widget.Text

	layers *ListPanel
	tiles  *ListPanel
}

func BuildStatusUI(
	layerNames []string,
	tileNames []string,
	width, height int,
	onLayerSelected func(idx int),
	onTileSelected func(name string),
) *StatusUI {
	ui := &ebitenui.UI{}

	s, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		panic("Failed to load font: " + err.Error())
	}
	var fontFace text.Face = &text.GoTextFace{Source: s, Size: 14}
	ui.PrimaryTheme = newEditorTheme(&fontFace)

	panel := widget.NewContainer(
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(panelWidth, height),
		),
		widget.ContainerOpts.BackgroundImage(solidNineSlice(color.RGBA{40, 40, 40, 230})),
		widget.ContainerOpts.Layout(
			widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionVertical),
				widget.RowLayoutOpts.Spacing(6),
				widget.RowLayoutOpts.Padding(&widget.Insets{Top: 8, Left: 8, Right: 8, Bottom: 8}),
			),
		),
	)

	st := &StatusUI{
		ui:   ui,
		Rect: image.Rect(width-panelWidth, 0, width, height),
	}
	newLabel := func() *widget.Text {
		l := widget.NewText(
			widget.TextOpts.Text("", &fontFace, color.White),
		)
		panel.AddChild(l)
		return l
	}
	st.tool = newLabel()
	st.layer = newLabel()
	st.tile = newLabel()
	st.colorLabel = newLabel()
	st.cell = newLabel()
	st.file = newLabel()
	st.message = newLabel()

	st.layers = addListPanel(panel, &fontFace, "Layers", layerNames, 80, onLayerSelected)
	st.tiles = addListPanel(panel, &fontFace, "Tiles", tileNames, 160, func(idx int) {
		if onTileSelected != nil && idx >= 0 && idx < len(tileNames) {
			onTileSelected(tileNames[idx])
		}
	})

	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	panel.GetWidget().LayoutData = widget.AnchorLayoutData{
		HorizontalPosition: widget.AnchorLayoutPositionEnd,
		VerticalPosition:   widget.AnchorLayoutPositionStart,
		StretchVertical:    true,
	}
	root.AddChild(panel)
	ui.Container = root

	return st
}

// Refresh copies the session state into the labels and list selections.
func (st *StatusUI) Refresh(s *editor.Session) {
	status := s.Status()

	st.tool.Label = fmt.Sprintf("Tool: %s", status.Tool)
	if status.Drag != editor.DragNone {
		st.tool.Label += fmt.Sprintf(" (%s)", status.Drag)
	}
	st.layer.Label = fmt.Sprintf("Layer: %s (%d/%d)", status.Layer, status.LayerIndex+1, status.LayerCount)
	st.tile.Label = fmt.Sprintf("Tile: %s", status.Tile)
	st.colorLabel.Label = fmt.Sprintf("Color: %d #%02x%02x%02x", status.ColorIndex, status.Color.R, status.Color.G, status.Color.B)
	st.cell.Label = fmt.Sprintf("Cell: %d, %d", status.Cell.X, status.Cell.Y)
	switch {
	case status.ReadOnly:
		st.file.Label = "read-only"
	case status.Dirty:
		st.file.Label = "unsaved changes"
	default:
		st.file.Label = "saved"
	}

	st.layers.SetSelected(status.LayerIndex)
	tileIdx, _ := s.CurrentTile()
	st.tiles.SetSelected(tileIdx)
}

// SetMessage shows a one-line notice under the status.
func (st *StatusUI) SetMessage(msg string) {
	st.message.Label = msg
}
