package viewport

import (
	"errors"
	"image"
	"math"
	"testing"
)

func newFlipped(t *testing.T) *Viewport {
	t.Helper()
	v, err := New(R(0, 0, 20, 15), R(0, 600, 800, 0))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return v
}

func TestNewRejectsDegenerate(t *testing.T) {
	cases := []struct {
		name        string
		model, view Rect
	}{
		{"model_zero_width", R(0, 0, 0, 10), R(0, 0, 100, 100)},
		{"model_zero_height", R(0, 5, 10, 5), R(0, 0, 100, 100)},
		{"view_zero_width", R(0, 0, 10, 10), R(50, 0, 50, 100)},
		{"view_zero_height", R(0, 0, 10, 10), R(0, 100, 100, 100)},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := New(c.model, c.view); !errors.Is(err, ErrDegenerate) {
				t.Fatalf("expected ErrDegenerate, got %v", err)
			}
		})
	}
}

func TestToModelFlippedY(t *testing.T) {
	v := newFlipped(t)

	cases := []struct {
		name string
		in   image.Point
		want image.Point
	}{
		{"scenario_press", image.Pt(40, 580), image.Pt(1, 0)},
		{"scenario_move", image.Pt(80, 580), image.Pt(2, 0)},
		{"bottom_edge_inside", image.Pt(0, 599), image.Pt(0, 0)},
		{"bottom_edge_exact", image.Pt(0, 600), image.Pt(0, 0)},
		{"below_window_rounds_down", image.Pt(0, 601), image.Pt(0, -1)},
		{"left_of_window_rounds_down", image.Pt(-1, 580), image.Pt(-1, 0)},
		{"top_row", image.Pt(799, 1), image.Pt(19, 14)},
		{"top_edge", image.Pt(800, 0), image.Pt(20, 15)},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := v.ToModel(c.in); got != c.want {
				t.Fatalf("ToModel(%v) = %v, want %v", c.in, got, c.want)
			}
		})
	}
}

func TestRoundTripOnAlignedGrid(t *testing.T) {
	v := newFlipped(t)
	for col := -5; col < 25; col++ {
		for row := -5; row < 20; row++ {
			p := image.Pt(col, row)
			if got := v.ToModel(v.ToView(p)); got != p {
				t.Fatalf("ToModel(ToView(%v)) = %v", p, got)
			}
		}
	}
}

func TestFloorMatchesReference(t *testing.T) {
	// 7 cells over 100 pixels never divides evenly.
	v, err := New(R(-3, 4, 4, -3), R(0, 0, 100, 100))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ref := func(in, fromOrigin, fromSpan, toOrigin, toSpan int) int {
		return int(math.Floor(float64(in-fromOrigin)*float64(toSpan)/float64(fromSpan))) + toOrigin
	}

	for x := -150; x <= 250; x += 3 {
		for y := -150; y <= 250; y += 7 {
			got := v.ToModel(image.Pt(x, y))
			want := image.Pt(ref(x, 0, 100, -3, 7), ref(y, 0, 100, 4, -7))
			if got != want {
				t.Fatalf("ToModel(%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestRectsAreNormalized(t *testing.T) {
	v := newFlipped(t)

	got := v.CellRect(1, 0)
	want := image.Rect(40, 560, 80, 600)
	if got != want {
		t.Fatalf("CellRect(1,0) = %v, want %v", got, want)
	}
	if got.Dx() <= 0 || got.Dy() <= 0 {
		t.Fatalf("expected positive size, got %v", got)
	}

	m := v.ToModelRect(R(40, 600, 80, 560))
	if m != image.Rect(1, 0, 2, 1) {
		t.Fatalf("ToModelRect = %v", m)
	}
}

func TestTranslate(t *testing.T) {
	v := newFlipped(t)
	before := v.Model()

	v.Translate(image.Pt(1, 0))
	v.Translate(image.Pt(0, -2))

	after := v.Model()
	if after.Dx() != before.Dx() || after.Dy() != before.Dy() {
		t.Fatalf("translate changed size: %v -> %v", before, after)
	}
	if after != R(1, -2, 21, 13) {
		t.Fatalf("unexpected model rect %v", after)
	}
	if got := v.ToModel(image.Pt(40, 580)); got != image.Pt(2, -2) {
		t.Fatalf("ToModel after pan = %v", got)
	}
}

func TestResize(t *testing.T) {
	v := newFlipped(t)
	if err := v.Resize(R(0, 0, 0, 0)); !errors.Is(err, ErrDegenerate) {
		t.Fatalf("expected ErrDegenerate, got %v", err)
	}
	if err := v.Resize(R(0, 1200, 1600, 0)); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if got := v.CellRect(0, 0); got != image.Rect(0, 1120, 80, 1200) {
		t.Fatalf("CellRect after resize = %v", got)
	}
}
