package detection

import (
	"image"
	"math"
	"testing"
)

func TestArea(t *testing.T) {
	tests := []struct {
		name string
		pts  []image.Point
		want float64
	}{
		{"square", []image.Point{{0, 0}, {0, 4}, {4, 4}, {4, 0}}, 16},
		{"clockwise square", []image.Point{{0, 0}, {4, 0}, {4, 4}, {0, 4}}, 16},
		{"triangle", []image.Point{{0, 0}, {0, 10}, {10, 10}}, 50},
		{"line", []image.Point{{0, 0}, {5, 0}}, 0},
		{"empty", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Area(tt.pts); got != tt.want {
				t.Errorf("Area = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPerimeter(t *testing.T) {
	sq := []image.Point{{0, 0}, {0, 4}, {4, 4}, {4, 0}}
	if got := Perimeter(sq); got != 16 {
		t.Errorf("square perimeter = %v, want 16", got)
	}

	tri := []image.Point{{0, 0}, {3, 0}, {3, 4}}
	if got := Perimeter(tri); math.Abs(got-12) > 1e-9 {
		t.Errorf("3-4-5 triangle perimeter = %v, want 12", got)
	}

	if Perimeter([]image.Point{{1, 1}}) != 0 {
		t.Error("single point should have zero perimeter")
	}
}

func TestBoundingRect(t *testing.T) {
	pts := []image.Point{{5, 7}, {9, 2}, {3, 4}}
	if got := BoundingRect(pts); got != image.Rect(3, 2, 10, 8) {
		t.Errorf("BoundingRect = %v", got)
	}
	if got := BoundingRect(pts[:1]); got.Dx() != 1 || got.Dy() != 1 {
		t.Errorf("single point should be 1x1, got %v", got)
	}
}

func TestApproxPolygon_TracedRectangle(t *testing.T) {
	m := createMask(100, 100)
	fillMask(m, image.Rect(10, 20, 71, 96), 255)
	pts := FindContours(m)[0].Points

	poly := ApproxPolygon(pts, 0.01*Perimeter(pts))
	want := []image.Point{{10, 20}, {10, 95}, {70, 95}, {70, 20}}
	if len(poly) != len(want) {
		t.Fatalf("got %d vertices %v, want %v", len(poly), poly, want)
	}
	for i := range want {
		if poly[i] != want[i] {
			t.Errorf("vertex %d: got %v, want %v", i, poly[i], want[i])
		}
	}
}

func TestApproxPolygon_StartPointIndependent(t *testing.T) {
	m := createMask(100, 100)
	fillMask(m, image.Rect(10, 20, 71, 96), 255)
	traced := FindContours(m)[0].Points
	want := []image.Point{{10, 20}, {10, 95}, {70, 95}, {70, 20}}

	reversed := make([]image.Point, len(traced))
	for i, p := range traced {
		reversed[len(traced)-1-i] = p
	}

	tests := []struct {
		name  string
		pts   []image.Point
		start image.Point
	}{
		{"mid left edge", traced, image.Pt(10, 50)},
		{"mid bottom edge", traced, image.Pt(40, 95)},
		{"mid right edge", traced, image.Pt(70, 60)},
		{"mid top edge", traced, image.Pt(33, 20)},
		{"clockwise from mid top", reversed, image.Pt(33, 20)},
		{"clockwise from corner", reversed, image.Pt(70, 95)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pts := rotateTo(t, tt.pts, tt.start)
			poly := ApproxPolygon(pts, 0.01*Perimeter(pts))
			if len(poly) != len(want) {
				t.Fatalf("got %d vertices %v, want %v", len(poly), poly, want)
			}
			for i := range want {
				if poly[i] != want[i] {
					t.Errorf("vertex %d: got %v, want %v", i, poly[i], want[i])
				}
			}
		})
	}
}

func TestNormalizeVertices(t *testing.T) {
	tests := []struct {
		name string
		in   []image.Point
		want []image.Point
	}{
		{
			"already ordered",
			[]image.Point{{0, 0}, {0, 9}, {9, 9}, {9, 0}},
			[]image.Point{{0, 0}, {0, 9}, {9, 9}, {9, 0}},
		},
		{
			"rotated",
			[]image.Point{{9, 9}, {9, 0}, {0, 0}, {0, 9}},
			[]image.Point{{0, 0}, {0, 9}, {9, 9}, {9, 0}},
		},
		{
			"clockwise",
			[]image.Point{{0, 9}, {0, 0}, {9, 0}, {9, 9}},
			[]image.Point{{0, 0}, {0, 9}, {9, 9}, {9, 0}},
		},
		{
			"diamond",
			[]image.Point{{20, 40}, {40, 20}, {20, 0}, {0, 20}},
			[]image.Point{{20, 0}, {0, 20}, {20, 40}, {40, 20}},
		},
		{
			"two points untouched",
			[]image.Point{{5, 5}, {1, 1}},
			[]image.Point{{5, 5}, {1, 1}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeVertices(append([]image.Point(nil), tt.in...))
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

// rotateTo returns pts cycled so that start comes first.
func rotateTo(t *testing.T, pts []image.Point, start image.Point) []image.Point {
	t.Helper()
	for i, p := range pts {
		if p == start {
			out := append([]image.Point(nil), pts[i:]...)
			return append(out, pts[:i]...)
		}
	}
	t.Fatalf("%v is not on the contour", start)
	return nil
}

func TestApproxPolygon_Tolerance(t *testing.T) {
	// A square with one corner bevelled by 3 pixels.
	pts := []image.Point{
		{0, 0}, {0, 40}, {40, 40}, {40, 3}, {37, 0},
	}

	if got := ApproxPolygon(pts, 1); len(got) != 5 {
		t.Errorf("tight tolerance should keep the bevel, got %v", got)
	}
	if got := ApproxPolygon(pts, 5); len(got) != 4 {
		t.Errorf("loose tolerance should drop the bevel, got %v", got)
	}
}

func TestApproxPolygon_Degenerate(t *testing.T) {
	if got := ApproxPolygon([]image.Point{{1, 1}}, 1); len(got) != 1 {
		t.Errorf("single point: got %v", got)
	}
	same := []image.Point{{2, 2}, {2, 2}, {2, 2}}
	if got := ApproxPolygon(same, 1); len(got) != 1 {
		t.Errorf("coincident points: got %v", got)
	}
}
