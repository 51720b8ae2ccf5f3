package script

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

//go:embed generators/*.tengo
var GeneratorsFS embed.FS

// Load reads a generator from disk, falling back to the bundled copy.
func Load(name string) ([]byte, error) {
	if data, err := os.ReadFile(name); err == nil {
		return data, nil
	}
	data, err := fs.ReadFile(GeneratorsFS, cleanGeneratorPath(name))
	if err != nil {
		return nil, fmt.Errorf("script: load %s: %w", name, err)
	}
	return data, nil
}

// RunFile loads the generator at name and runs it on canvas.
func RunFile(ctx context.Context, name string, canvas Canvas, log *zap.Logger) (Stats, error) {
	src, err := Load(name)
	if err != nil {
		return Stats{}, err
	}
	return Run(ctx, name, src, canvas, log)
}

// Bundled lists the bundled generator names.
func Bundled() ([]string, error) {
	return fs.Glob(GeneratorsFS, "generators/*.tengo")
}

func cleanGeneratorPath(path string) string {
	s := filepath.ToSlash(path)
	if after, ok := strings.CutPrefix(s, "generators/"); ok {
		s = after
	}
	return "generators/" + s
}
