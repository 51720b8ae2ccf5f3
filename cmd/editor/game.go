package main

import (
	"bytes"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/tilepaint/app"
	"github.com/milk9111/tilepaint/assets"
	"github.com/milk9111/tilepaint/config"
	"github.com/milk9111/tilepaint/editor"
	"github.com/milk9111/tilepaint/schema"
	"go.uber.org/zap"
	"golang.design/x/clipboard"
)

// Game is the ebiten frontend of one editing session. Update turns device
// input into editor messages; Draw renders the session's frame.
type Game struct {
	session *editor.Session
	schema  *schema.Schema
	cfg     config.Config
	lib     *assets.Library
	watcher *schema.Watcher
	log     *zap.Logger

	sprites     map[string]*ebiten.Image
	status      *StatusUI
	lastCursor  image.Point
	exit        bool
	exitWarned  bool
	copyEnabled bool
}

func NewGame(ws *app.Workspace, cfg config.Config, lib *assets.Library, watcher *schema.Watcher, log *zap.Logger) *Game {
	g := &Game{
		session: ws.Session,
		schema:  ws.Schema,
		cfg:     cfg,
		lib:     lib,
		watcher: watcher,
		log:     log,
		sprites: map[string]*ebiten.Image{},
	}
	g.status = BuildStatusUI(
		ws.Schema.Layers,
		ws.Schema.TileNames(),
		cfg.Window.Width,
		cfg.Window.Height,
		func(idx int) { g.dispatch(editor.SelectLayer{Index: idx}) },
		func(name string) { g.dispatch(editor.SelectTile{Name: name}) },
	)
	g.status.Refresh(g.session)
	return g
}

func (g *Game) Update() error {
	g.drainWatcher()

	if ebiten.IsWindowBeingClosed() {
		g.dispatch(editor.PreExit)
	}
	if !g.exit {
		g.handleKeys()
	}
	if !g.exit {
		g.handlePointer()
	}
	if g.exit {
		// Exit never reaches the session; the loop stops here.
		g.log.Info("exit requested", zap.Stringer("message", editor.Exit))
		return ebiten.Termination
	}

	g.status.ui.Update()
	g.status.Refresh(g.session)
	return nil
}

// dispatch hands msg to the session and records what it asks for.
func (g *Game) dispatch(msg editor.Message) {
	req, err := g.session.Handle(msg)
	if err != nil {
		g.log.Error("message failed", zap.Any("message", msg), zap.Error(err))
		g.status.SetMessage(err.Error())
	} else if msg == editor.Save && !g.session.ReadOnly() {
		g.status.SetMessage("saved")
	}
	if !req.Exit {
		return
	}
	// A failed save holds the first exit request back; asking again quits
	// without saving.
	if err != nil && !g.exitWarned {
		g.exitWarned = true
		g.status.SetMessage("save failed; close again to quit")
		return
	}
	g.exit = true
}

func (g *Game) copyLevel() {
	if !g.copyEnabled {
		g.status.SetMessage("clipboard unavailable")
		return
	}
	var buf bytes.Buffer
	if err := g.session.Level().Encode(&buf); err != nil {
		g.log.Error("copy level", zap.Error(err))
		g.status.SetMessage(err.Error())
		return
	}
	clipboard.Write(clipboard.FmtText, buf.Bytes())
	g.status.SetMessage("level copied")
	g.log.Debug("level copied to clipboard", zap.Int("bytes", buf.Len()))
}

func (g *Game) drainWatcher() {
	for g.watcher != nil {
		select {
		case path, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			g.onFileChanged(path)
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			g.log.Warn("asset watcher", zap.Error(err))
		default:
			return
		}
	}
}

func (g *Game) onFileChanged(path string) {
	switch {
	case schema.IsSpriteFile(path):
		g.lib.Invalidate(path)
		for kind, img := range g.sprites {
			img.Deallocate()
			delete(g.sprites, kind)
		}
		g.log.Info("sprite changed", zap.String("path", path))
	case schema.IsSchemaFile(path):
		g.log.Info("schema changed on disk; restart the editor to apply it", zap.String("path", path))
		g.status.SetMessage("schema changed; restart to apply")
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cfg.Window.Width, g.cfg.Window.Height
}
