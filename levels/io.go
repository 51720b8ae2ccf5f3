package levels

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

var (
	// ErrCreate means the save destination could not be opened or created.
	ErrCreate = errors.New("levels: cannot create destination")
	// ErrEncode means the level could not be serialized.
	ErrEncode = errors.New("levels: encode failed")
	// ErrDecode means a level document could not be read.
	ErrDecode = errors.New("levels: decode failed")
)

// MarshalJSON writes a cell as [col, row, variant].
func (c Cell) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]int64{int64(c.Col), int64(c.Row), int64(c.Variant)})
}

// UnmarshalJSON reads [col, row] or [col, row, variant].
func (c *Cell) UnmarshalJSON(b []byte) error {
	var raw []int64
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch len(raw) {
	case 2, 3:
	default:
		return fmt.Errorf("cell must have 2 or 3 elements, got %d", len(raw))
	}
	c.Col = int(raw[0])
	c.Row = int(raw[1])
	c.Variant = 0
	if len(raw) == 3 {
		if raw[2] < 0 {
			return fmt.Errorf("cell variant must not be negative, got %d", raw[2])
		}
		c.Variant = uint(raw[2])
	}
	return nil
}

// Decode reads a level document and normalizes it, recording how many cells
// were discarded in Dropped.
func Decode(r io.Reader) (*Level, error) {
	var lvl Level
	if err := json.NewDecoder(r).Decode(&lvl); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	lvl.Dropped = lvl.Normalize()
	return &lvl, nil
}

// Encode writes the level as indented JSON.
func (l *Level) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(l); err != nil {
		return fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return nil
}

// Load reads a level from a JSON file at path.
func Load(path string) (*Level, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrDecode, path, err)
	}
	defer f.Close()

	lvl, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return lvl, nil
}

// Save overwrites path with the level, creating parent directories.
func (l *Level) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrCreate, path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrCreate, path, err)
	}
	if err := l.Encode(f); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", ErrEncode, path, err)
	}
	return nil
}

// FileStore saves levels to a fixed path.
type FileStore struct {
	Path string
}

// Save writes lvl to the store's path.
func (s FileStore) Save(lvl *Level) error {
	return lvl.Save(s.Path)
}

func (s FileStore) String() string {
	return s.Path
}
