package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/tilepaint/app"
	"github.com/milk9111/tilepaint/assets"
	"github.com/milk9111/tilepaint/config"
	"github.com/milk9111/tilepaint/schema"
	"go.uber.org/zap"
	"golang.design/x/clipboard"
)

func main() {
	opts, err := app.ParseArgs(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		// logging is configured by the settings, so fall back to a plain logger
		l, _ := zap.NewProduction()
		l.Fatal("load settings", zap.String("path", opts.ConfigPath), zap.Error(err))
	}

	l, closeLog, err := app.NewLogger(opts.Debug, cfg.Log)
	if err != nil {
		panic(err)
	}
	defer closeLog()
	zap.ReplaceGlobals(l)

	ws, err := app.Open(context.Background(), opts, cfg, l)
	if err != nil {
		l.Fatal("open workspace", zap.String("schema", opts.SchemaPath), zap.String("level", opts.LoadPath), zap.Error(err))
	}

	lib, err := assets.NewLibrary(assets.WithLogger(l))
	if err != nil {
		l.Fatal("sprite library", zap.Error(err))
	}
	defer lib.Close()

	var watcher *schema.Watcher
	if cfg.WatchAssets && len(ws.WatchDirs) > 0 {
		watcher, err = schema.NewWatcher(ws.WatchDirs...)
		if err != nil {
			l.Warn("asset watching disabled", zap.Strings("dirs", ws.WatchDirs), zap.Error(err))
		} else {
			defer watcher.Close()
			l.Info("watching assets", zap.Strings("dirs", ws.WatchDirs))
		}
	}

	copyEnabled := true
	if err := clipboard.Init(); err != nil {
		l.Warn("clipboard unavailable", zap.Error(err))
		copyEnabled = false
	}

	game := NewGame(ws, cfg, lib, watcher, l)
	game.copyEnabled = copyEnabled

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title + " - " + ws.Session.Level().Name)
	ebiten.SetWindowClosingHandled(true)

	l.Info("editor starting",
		zap.String("level", ws.Session.Level().Name),
		zap.Bool("readOnly", ws.Session.ReadOnly()),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height))

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		l.Fatal("run", zap.Error(err))
	}
	l.Info("editor stopped")
}
