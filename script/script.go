// Package script runs tengo generator scripts against an editing session.
//
// A script sees these globals:
//
//	paint(layer, col, row, tile[, variant])
//	erase(layer, col, row)
//	layers()  array of layer names, bottom first
//	tiles()   array of tile names
//	colors()  number of color variants
//	log(...)  writes its arguments to the editor log
//
// Every edit goes through the Canvas, so scripts obey the same checks as
// any other caller.
package script

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/tilepaint/schema"
	"go.uber.org/zap"
)

// ErrCanvas marks a run aborted because the canvas rejected an edit.
var ErrCanvas = errors.New("script: canvas rejected edit")

// Canvas is the editing surface a script draws on. *editor.Session
// implements it.
type Canvas interface {
	Schema() *schema.Schema
	PaintAt(layer string, col, row int, tile string, variant uint) error
	EraseAt(layer string, col, row int) error
}

// Stats counts what a run did.
type Stats struct {
	Painted int
	Erased  int
}

type runner struct {
	canvas Canvas
	log    *zap.Logger
	stats  Stats
	// first canvas error; tengo only keeps the message
	err error
}

// Run compiles and executes src. It stops at the first edit the canvas
// rejects, at a script error, or when ctx is done.
func Run(ctx context.Context, name string, src []byte, canvas Canvas, log *zap.Logger) (Stats, error) {
	if canvas == nil || canvas.Schema() == nil {
		return Stats{}, errors.New("script: canvas with a schema is required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	r := &runner{canvas: canvas, log: log.With(zap.String("script", name))}

	s := tengo.NewScript(src)
	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	for fname, fn := range r.builtins() {
		if err := s.Add(fname, fn); err != nil {
			return Stats{}, fmt.Errorf("script: add %s: %w", fname, err)
		}
	}

	compiled, err := s.Compile()
	if err != nil {
		return Stats{}, fmt.Errorf("script: compile %s: %w", name, err)
	}

	runErr := compiled.RunContext(ctx)
	if r.err != nil {
		return r.stats, fmt.Errorf("script: run %s: %w: %w", name, ErrCanvas, r.err)
	}
	if runErr != nil {
		return r.stats, fmt.Errorf("script: run %s: %w", name, runErr)
	}

	r.log.Info("script finished", zap.Int("painted", r.stats.Painted), zap.Int("erased", r.stats.Erased))
	return r.stats, nil
}

func (r *runner) builtins() map[string]*tengo.UserFunction {
	sch := r.canvas.Schema()

	return map[string]*tengo.UserFunction{
		"paint": {Name: "paint", Value: func(args ...tengo.Object) (tengo.Object, error) {
			if len(args) != 4 && len(args) != 5 {
				return nil, tengo.ErrWrongNumArguments
			}
			layer, err := stringArg("paint", "layer", args[0])
			if err != nil {
				return nil, err
			}
			col, row, err := cellArgs("paint", args[1], args[2])
			if err != nil {
				return nil, err
			}
			tile, err := stringArg("paint", "tile", args[3])
			if err != nil {
				return nil, err
			}
			var variant int
			if len(args) == 5 {
				if variant, err = intArg("paint", "variant", args[4]); err != nil {
					return nil, err
				}
				if variant < 0 {
					return nil, fmt.Errorf("paint: negative variant %d", variant)
				}
			}
			if err := r.canvas.PaintAt(layer, col, row, tile, uint(variant)); err != nil {
				return nil, r.fail(err)
			}
			r.stats.Painted++
			return tengo.TrueValue, nil
		}},

		"erase": {Name: "erase", Value: func(args ...tengo.Object) (tengo.Object, error) {
			if len(args) != 3 {
				return nil, tengo.ErrWrongNumArguments
			}
			layer, err := stringArg("erase", "layer", args[0])
			if err != nil {
				return nil, err
			}
			col, row, err := cellArgs("erase", args[1], args[2])
			if err != nil {
				return nil, err
			}
			if err := r.canvas.EraseAt(layer, col, row); err != nil {
				return nil, r.fail(err)
			}
			r.stats.Erased++
			return tengo.TrueValue, nil
		}},

		"layers": {Name: "layers", Value: func(args ...tengo.Object) (tengo.Object, error) {
			return stringArray(sch.Layers), nil
		}},

		"tiles": {Name: "tiles", Value: func(args ...tengo.Object) (tengo.Object, error) {
			return stringArray(sch.TileNames()), nil
		}},

		"colors": {Name: "colors", Value: func(args ...tengo.Object) (tengo.Object, error) {
			return &tengo.Int{Value: int64(len(sch.Colors))}, nil
		}},

		"log": {Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
			parts := make([]string, 0, len(args))
			for _, a := range args {
				parts = append(parts, objectAsString(a))
			}
			r.log.Info(strings.Join(parts, " "))
			return tengo.UndefinedValue, nil
		}},
	}
}

func (r *runner) fail(err error) error {
	if r.err == nil {
		r.err = err
	}
	return err
}

func stringArg(fn, name string, obj tengo.Object) (string, error) {
	s, ok := obj.(*tengo.String)
	if !ok {
		return "", tengo.ErrInvalidArgumentType{Name: fn + "." + name, Expected: "string", Found: obj.TypeName()}
	}
	return s.Value, nil
}

func intArg(fn, name string, obj tengo.Object) (int, error) {
	switch v := obj.(type) {
	case *tengo.Int:
		return int(v.Value), nil
	case *tengo.Float:
		return int(v.Value), nil
	default:
		return 0, tengo.ErrInvalidArgumentType{Name: fn + "." + name, Expected: "int", Found: obj.TypeName()}
	}
}

func cellArgs(fn string, col, row tengo.Object) (int, int, error) {
	c, err := intArg(fn, "col", col)
	if err != nil {
		return 0, 0, err
	}
	r, err := intArg(fn, "row", row)
	if err != nil {
		return 0, 0, err
	}
	return c, r, nil
}

func stringArray(items []string) *tengo.ImmutableArray {
	out := make([]tengo.Object, 0, len(items))
	for _, s := range items {
		out = append(out, &tengo.String{Value: s})
	}
	return &tengo.ImmutableArray{Value: out}
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	if s, ok := obj.(*tengo.String); ok {
		return s.Value
	}
	return obj.String()
}
