package levels

import (
	"bytes"
	"errors"
	"image"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestPaintSingleOccupant(t *testing.T) {
	kinds := []string{"grass", "tree", "water"}
	positions := []image.Point{{0, 0}, {-3, 7}, {12, -1}}

	for _, a := range kinds {
		for _, b := range kinds {
			if a == b {
				continue
			}
			t.Run(a+"_then_"+b, func(t *testing.T) {
				lvl := New("test", "schema")
				for _, p := range positions {
					lvl.Paint("units", p, a, 0)
					lvl.Paint("units", p, b, 1)

					kind, cell, ok := lvl.At("units", p)
					if !ok || kind != b {
						t.Fatalf("expected %s at %v, got %q ok=%v", b, p, kind, ok)
					}
					if cell.Variant != 1 {
						t.Fatalf("expected variant 1, got %d", cell.Variant)
					}
					if slices.ContainsFunc(lvl.Cells("units", a), func(c Cell) bool { return c.Pos() == p }) {
						t.Fatalf("%v still present in %s", p, a)
					}
				}
				if got := lvl.Count("units"); got != len(positions) {
					t.Fatalf("expected %d cells, got %d", len(positions), got)
				}
			})
		}
	}
}

func TestEraseClearsEveryKind(t *testing.T) {
	lvl := New("test", "schema")
	p := image.Pt(4, 2)
	lvl.Paint("terrain", p, "grass", 0)
	lvl.Paint("terrain", p, "tree", 2)
	lvl.Paint("terrain", p, "grass", 1)
	lvl.Paint("terrain", image.Pt(5, 2), "tree", 0)

	lvl.Erase("terrain", p)

	if _, _, ok := lvl.At("terrain", p); ok {
		t.Fatalf("expected %v to be empty", p)
	}
	for _, kind := range lvl.Kinds("terrain") {
		for _, c := range lvl.Cells("terrain", kind) {
			if c.Pos() == p {
				t.Fatalf("%v still present in %s", p, kind)
			}
		}
	}
	if got := lvl.Kinds("terrain"); !slices.Equal(got, []string{"tree"}) {
		t.Fatalf("expected only tree left, got %v", got)
	}

	// erasing on a missing layer or an empty cell is a no-op
	lvl.Erase("units", p)
	lvl.Erase("terrain", p)
	if _, ok := lvl.Layers["units"]; ok {
		t.Fatalf("erase must not create layers")
	}
}

func TestEachIsOrdered(t *testing.T) {
	lvl := New("test", "schema")
	lvl.Paint("units", image.Pt(2, 0), "tree", 0)
	lvl.Paint("units", image.Pt(1, 5), "grass", 0)
	lvl.Paint("units", image.Pt(1, 0), "grass", 0)
	lvl.Paint("units", image.Pt(-1, 9), "tree", 0)
	lvl.Paint("units", image.Pt(0, 0), "grass", 0)

	type entry struct {
		kind string
		pos  image.Point
	}
	var got []entry
	lvl.Each("units", func(kind string, c Cell) {
		got = append(got, entry{kind, c.Pos()})
	})

	want := []entry{
		{"grass", image.Pt(0, 0)},
		{"grass", image.Pt(1, 0)},
		{"grass", image.Pt(1, 5)},
		{"tree", image.Pt(-1, 9)},
		{"tree", image.Pt(2, 0)},
	}
	if !slices.Equal(got, want) {
		t.Fatalf("unexpected order:\n got %v\nwant %v", got, want)
	}
}

func TestRoundTrip(t *testing.T) {
	lvl := New("round", "protoboard")
	for i := 0; i < 30; i++ {
		p := image.Pt(i%7-3, i/7)
		kind := []string{"grass", "tree", "water"}[i%3]
		lvl.Paint("terrain", p, kind, uint(i%4))
		if i%5 == 0 {
			lvl.Erase("terrain", p)
		}
		lvl.Paint("units", image.Pt(i, -i), "archer", uint(i%2))
	}
	lvl.Erase("units", image.Pt(3, -3))

	var buf bytes.Buffer
	if err := lvl.Encode(&buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	back, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !lvl.Equal(back) {
		t.Fatalf("round trip mismatch:\n%+v\n%+v", lvl, back)
	}
}

func TestSaveAndLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "level.json")

	lvl := New("file", "protoboard")
	lvl.Paint("units", image.Pt(1, 0), "grass", 0)
	lvl.Paint("units", image.Pt(2, 0), "grass", 3)

	store := FileStore{Path: path}
	if err := store.Save(lvl); err != nil {
		t.Fatalf("Save: %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !lvl.Equal(back) {
		t.Fatalf("file round trip mismatch")
	}

	// overwrite
	lvl.Erase("units", image.Pt(1, 0))
	if err := store.Save(lvl); err != nil {
		t.Fatalf("second Save: %v", err)
	}
	back, err = Load(path)
	if err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if back.Count("units") != 1 {
		t.Fatalf("expected overwrite, got %d cells", back.Count("units"))
	}
}

func TestSaveErrors(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	lvl := New("err", "protoboard")
	err := lvl.Save(filepath.Join(blocker, "level.json"))
	if !errors.Is(err, ErrCreate) {
		t.Fatalf("expected ErrCreate, got %v", err)
	}
	if errors.Is(err, ErrEncode) {
		t.Fatalf("create failure must not look like an encode failure")
	}

	if err := lvl.Encode(failingWriter{}); !errors.Is(err, ErrEncode) {
		t.Fatalf("expected ErrEncode, got %v", err)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestDecodeCollapsesDuplicates(t *testing.T) {
	doc := `{
		"name": "dup",
		"schema": "protoboard",
		"layers": {
			"units": {
				"tree": [[1, 1, 0], [0, 0, 4]],
				"grass": [[1, 1, 2], [3, 3], [3, 3, 7]]
			},
			"empty": null
		}
	}`

	lvl, err := Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	kind, cell, ok := lvl.At("units", image.Pt(1, 1))
	if !ok || kind != "grass" || cell.Variant != 2 {
		t.Fatalf("expected grass/2 at (1,1), got %q/%d ok=%v", kind, cell.Variant, ok)
	}
	kind, cell, ok = lvl.At("units", image.Pt(3, 3))
	if !ok || kind != "grass" || cell.Variant != 0 {
		t.Fatalf("expected first grass entry at (3,3), got %q/%d ok=%v", kind, cell.Variant, ok)
	}
	if got := lvl.Count("units"); got != 3 {
		t.Fatalf("expected 3 cells after collapse, got %d", got)
	}
	if lvl.Dropped != 2 {
		t.Fatalf("expected 2 dropped cells, got %d", lvl.Dropped)
	}
	if lvl.Layers["empty"] == nil {
		t.Fatalf("null layer should be replaced by an empty one")
	}
}

func TestDecodeRejectsBadCells(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{"too_short", `{"name":"x","schema":"s","layers":{"a":{"t":[[1]]}}}`},
		{"too_long", `{"name":"x","schema":"s","layers":{"a":{"t":[[1,2,3,4]]}}}`},
		{"negative_variant", `{"name":"x","schema":"s","layers":{"a":{"t":[[1,2,-1]]}}}`},
		{"not_json", `{"name":`},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := Decode(strings.NewReader(c.doc)); !errors.Is(err, ErrDecode) {
				t.Fatalf("expected ErrDecode, got %v", err)
			}
		})
	}
}

func TestBundledLevels(t *testing.T) {
	names, err := Bundled()
	if err != nil {
		t.Fatalf("Bundled: %v", err)
	}
	if !slices.Contains(names, "protoboard.json") {
		t.Fatalf("expected protoboard.json in %v", names)
	}
	lvl, err := LoadLevelFromFS("protoboard.json")
	if err != nil {
		t.Fatalf("LoadLevelFromFS: %v", err)
	}
	if lvl.Schema != "protoboard" {
		t.Fatalf("unexpected schema %q", lvl.Schema)
	}
	if kind, _, ok := lvl.At("terrain", image.Pt(4, 5)); !ok || kind != "mountains" {
		t.Fatalf("expected mountains at (4,5), got %q", kind)
	}
}
