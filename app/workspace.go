package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/milk9111/tilepaint/config"
	"github.com/milk9111/tilepaint/editor"
	"github.com/milk9111/tilepaint/levels"
	"github.com/milk9111/tilepaint/schema"
	"github.com/milk9111/tilepaint/script"
	"github.com/milk9111/tilepaint/viewport"
	"go.uber.org/zap"
)

// Workspace is everything a frontend needs to start editing.
type Workspace struct {
	Schema  *schema.Schema
	Session *editor.Session
	// WatchDirs are the directories on disk holding the schema and its
	// sprites.
	WatchDirs []string
}

// Open loads the schema and level named by opts, runs the generator if one
// was given and builds a session showing the bottom-left corner of the
// level in a window of cfg's size.
func Open(ctx context.Context, opts Options, cfg config.Config, log *zap.Logger) (*Workspace, error) {
	if log == nil {
		log = zap.NewNop()
	}

	sch, err := schema.Load(opts.SchemaPath)
	if err != nil {
		return nil, err
	}
	log.Info("schema loaded",
		zap.String("schema", sch.Name),
		zap.Strings("layers", sch.Layers),
		zap.Int("tiles", len(sch.Tiles)),
		zap.Int("colors", len(sch.Colors)))

	lvl, err := openLevel(opts, sch, log)
	if err != nil {
		return nil, err
	}

	vp, err := InitialViewport(cfg)
	if err != nil {
		return nil, err
	}

	sessOpts := []editor.Option{editor.WithLogger(log), editor.WithPanStep(cfg.PanStep)}
	if opts.SavePath != "" {
		sessOpts = append(sessOpts, editor.WithSaver(levels.FileStore{Path: opts.SavePath}))
	} else {
		log.Info("no output destination; saves are disabled")
	}
	sess, err := editor.New(sch, lvl, vp, sessOpts...)
	if err != nil {
		return nil, fmt.Errorf("app: level %q: %w", lvl.Name, err)
	}

	if opts.GenPath != "" {
		stats, err := script.RunFile(ctx, opts.GenPath, sess, log)
		if err != nil {
			return nil, err
		}
		log.Info("generator applied", zap.String("script", opts.GenPath),
			zap.Int("painted", stats.Painted), zap.Int("erased", stats.Erased))
	}

	return &Workspace{Schema: sch, Session: sess, WatchDirs: watchDirs(opts.SchemaPath, sch)}, nil
}

// InitialViewport maps whole cells onto the window with row 0 at the
// bottom.
func InitialViewport(cfg config.Config) (*viewport.Viewport, error) {
	cols, rows := cfg.Cells()
	w, h := cfg.Window.Width, cfg.Window.Height
	return viewport.New(viewport.R(0, 0, cols, rows), viewport.R(0, h, w, 0))
}

func openLevel(opts Options, sch *schema.Schema, log *zap.Logger) (*levels.Level, error) {
	if opts.LoadPath == "" {
		return newLevel(opts, sch, log), nil
	}

	lvl, err := levels.Load(opts.LoadPath)
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist) && opts.Edit:
		log.Info("level does not exist yet; starting a new one", zap.String("path", opts.LoadPath))
		return newLevel(opts, sch, log), nil
	case errors.Is(err, fs.ErrNotExist):
		bundled, ferr := levels.LoadLevelFromFS(filepath.Base(opts.LoadPath))
		if ferr != nil {
			return nil, err
		}
		lvl = bundled
	default:
		return nil, err
	}

	log.Info("level loaded", zap.String("level", lvl.Name), zap.String("path", opts.LoadPath),
		zap.Int("layers", len(lvl.LayerNames())))
	if lvl.Dropped > 0 {
		log.Warn("level repeated some cells; kept one tile per cell",
			zap.String("level", lvl.Name), zap.Int("dropped", lvl.Dropped))
	}
	return lvl, nil
}

func newLevel(opts Options, sch *schema.Schema, log *zap.Logger) *levels.Level {
	name := opts.Name
	if name == "" {
		name = sch.Name
	}
	log.Info("new level", zap.String("level", name))
	return levels.New(name, sch.Name)
}

// watchDirs is empty for bundled schemas.
func watchDirs(schemaPath string, sch *schema.Schema) []string {
	if _, err := os.Stat(schemaPath); err != nil {
		return nil
	}
	var dirs []string
	seen := map[string]bool{}
	for _, dir := range []string{filepath.Dir(schemaPath), filepath.FromSlash(sch.Prefix)} {
		if seen[dir] {
			continue
		}
		seen[dir] = true
		if fi, err := os.Stat(dir); err == nil && fi.IsDir() {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}
