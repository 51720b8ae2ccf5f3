package main

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/tilepaint/editor"
)

type binding struct {
	keys   []ebiten.Key
	ctrl   bool
	repeat bool
	msg    editor.Message
}

var bindings = []binding{
	{keys: []ebiten.Key{ebiten.KeyArrowUp, ebiten.KeyW}, repeat: true, msg: editor.PanUp},
	{keys: []ebiten.Key{ebiten.KeyArrowDown, ebiten.KeyS}, repeat: true, msg: editor.PanDown},
	{keys: []ebiten.Key{ebiten.KeyArrowLeft, ebiten.KeyA}, repeat: true, msg: editor.PanLeft},
	{keys: []ebiten.Key{ebiten.KeyArrowRight, ebiten.KeyD}, repeat: true, msg: editor.PanRight},
	{keys: []ebiten.Key{ebiten.KeyPageUp}, msg: editor.NextLayer},
	{keys: []ebiten.Key{ebiten.KeyPageDown}, msg: editor.PrevLayer},
	{keys: []ebiten.Key{ebiten.KeyE}, msg: editor.NextTile},
	{keys: []ebiten.Key{ebiten.KeyQ}, msg: editor.PrevTile},
	{keys: []ebiten.Key{ebiten.KeyX}, msg: editor.NextColor},
	{keys: []ebiten.Key{ebiten.KeyZ}, msg: editor.PrevColor},
	{keys: []ebiten.Key{ebiten.KeyT}, msg: editor.NextTool},
	{keys: []ebiten.Key{ebiten.KeyEscape}, msg: editor.PreExit},
	{keys: []ebiten.Key{ebiten.KeyS}, ctrl: true, msg: editor.Save},
}

const (
	repeatDelay    = 15
	repeatInterval = 4
)

func ctrlPressed() bool {
	return ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)
}

func keyTriggered(k ebiten.Key, repeat bool) bool {
	if !repeat {
		return inpututil.IsKeyJustPressed(k)
	}
	d := inpututil.KeyPressDuration(k)
	return d == 1 || (d >= repeatDelay && (d-repeatDelay)%repeatInterval == 0)
}

func (g *Game) handleKeys() {
	ctrl := ctrlPressed()
	if ctrl && inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.copyLevel()
	}
	for _, b := range bindings {
		if b.ctrl != ctrl {
			continue
		}
		for _, k := range b.keys {
			if keyTriggered(k, b.repeat) {
				g.dispatch(b.msg)
				break
			}
		}
		if g.exit {
			return
		}
	}
}

var pointerButtons = []struct {
	mouse  ebiten.MouseButton
	button editor.Button
}{
	{ebiten.MouseButtonLeft, editor.Primary},
	{ebiten.MouseButtonRight, editor.Secondary},
}

// handlePointer forwards motion and button changes over the canvas. Presses
// over the status panel belong to its widgets; releases always go through so
// a drag never outlives its button.
func (g *Game) handlePointer() {
	cx, cy := ebiten.CursorPosition()
	p := image.Pt(cx, cy)
	overPanel := p.In(g.status.Rect)

	if p != g.lastCursor && !overPanel {
		g.dispatch(editor.PointerMoved{X: cx, Y: cy})
	}
	g.lastCursor = p

	for _, pb := range pointerButtons {
		if inpututil.IsMouseButtonJustPressed(pb.mouse) && !overPanel {
			g.dispatch(editor.PointerDown{X: cx, Y: cy, Button: pb.button})
		}
		if inpututil.IsMouseButtonJustReleased(pb.mouse) {
			g.dispatch(editor.PointerUp{X: cx, Y: cy, Button: pb.button})
		}
	}
}
