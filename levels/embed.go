package levels

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed *.json
var LevelsFS embed.FS

// LoadLevelFromFS reads one of the bundled sample levels.
func LoadLevelFromFS(name string) (*Level, error) {
	f, err := LevelsFS.Open(name)
	if err != nil {
		return nil, fmt.Errorf("%w: read level %s: %w", ErrDecode, name, err)
	}
	defer f.Close()

	lvl, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return lvl, nil
}

// Bundled lists the sample level file names.
func Bundled() ([]string, error) {
	return fs.Glob(LevelsFS, "*.json")
}
