package schema

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

//go:embed schemas/*.yaml schemas/*.toml
var SchemasFS embed.FS

// DefaultName is the bundled schema used when none is given.
const DefaultName = "protoboard.yaml"

// Load reads, decodes and validates the schema at name. Sprite paths of a
// schema read from disk are resolved against the schema file's directory.
func Load(name string) (*Schema, error) {
	if data, err := os.ReadFile(name); err == nil {
		s, err := parse(name, data)
		if err != nil {
			return nil, err
		}
		s.Prefix = filepath.ToSlash(filepath.Join(filepath.Dir(name), s.Prefix))
		return s, nil
	}
	return LoadFS(SchemasFS, cleanSchemaPath(name))
}

// LoadFS reads a schema from fsys. Prefix is left as written.
func LoadFS(fsys fs.FS, name string) (*Schema, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("schema: load %s: %w", name, err)
	}
	return parse(name, data)
}

// Default returns the bundled default schema.
func Default() (*Schema, error) {
	return LoadFS(SchemasFS, cleanSchemaPath(DefaultName))
}

func parse(name string, data []byte) (*Schema, error) {
	spec, err := DecodeSpec(name, data)
	if err != nil {
		return nil, err
	}
	s, err := FromSpec(spec)
	if err != nil {
		return nil, fmt.Errorf("schema: %s: %w", name, err)
	}
	return s, nil
}

func cleanSchemaPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if after, ok := strings.CutPrefix(s, "schema/"); ok {
		s = after
	}
	if after, ok := strings.CutPrefix(s, "schemas/"); ok {
		s = after
	}
	return "schemas/" + s
}
