package detection

import (
	"image"
	"math"
)

// Area returns the area enclosed by a closed polygon using the shoelace
// formula. Vertices are pixel centres, so a filled w x h rectangle's border
// encloses (w-1)*(h-1).
func Area(pts []image.Point) float64 {
	if len(pts) < 3 {
		return 0
	}
	return math.Abs(signedArea(pts))
}

// Perimeter returns the length of a closed curve, including the segment from
// the last point back to the first.
func Perimeter(pts []image.Point) float64 {
	n := len(pts)
	if n < 2 {
		return 0
	}
	var length float64
	for i := 0; i < n; i++ {
		length += dist(pts[i], pts[(i+1)%n])
	}
	return length
}

// BoundingRect returns the smallest rectangle containing every point. Its
// Dx and Dy are the inclusive pixel extent, so a single point yields a 1x1
// rectangle.
func BoundingRect(pts []image.Point) image.Rectangle {
	if len(pts) == 0 {
		return image.Rectangle{}
	}
	r := image.Rectangle{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		if p.X < r.Min.X {
			r.Min.X = p.X
		}
		if p.X > r.Max.X {
			r.Max.X = p.X
		}
		if p.Y < r.Min.Y {
			r.Min.Y = p.Y
		}
		if p.Y > r.Max.Y {
			r.Max.Y = p.Y
		}
	}
	r.Max = r.Max.Add(image.Pt(1, 1))
	return r
}

// ApproxPolygon simplifies a closed curve with the Ramer-Douglas-Peucker
// algorithm. Every dropped point lies within epsilon of the simplified
// polygon.
//
// The curve is split at two mutually distant points, which for a convex
// quadrilateral are opposite corners, and each half is simplified
// independently. Where the trace happened to start has no effect on which
// vertices survive. The result is normalized by NormalizeVertices.
func ApproxPolygon(pts []image.Point, epsilon float64) []image.Point {
	n := len(pts)
	if n < 3 {
		out := make([]image.Point, n)
		copy(out, pts)
		return out
	}

	a, d := farthest(pts, pts[0])
	if d == 0 {
		return []image.Point{pts[0]}
	}
	b, _ := farthest(pts, pts[a])

	// ring starts at a and ring[n] closes the curve back onto it.
	ring := make([]image.Point, n+1)
	for k := 0; k <= n; k++ {
		ring[k] = pts[(a+k)%n]
	}
	split := (b - a + n) % n

	keep := make([]bool, n+1)
	keep[0] = true
	keep[split] = true
	simplify(ring, 0, split, epsilon, keep)
	simplify(ring, split, n, epsilon, keep)

	out := make([]image.Point, 0, 8)
	for k := 0; k < n; k++ {
		if keep[k] {
			out = append(out, ring[k])
		}
	}
	return NormalizeVertices(out)
}

// NormalizeVertices puts a polygon in the order the card pipeline expects:
// the top-most vertex first (left-most on ties), then counter-clockwise as
// seen on screen. The slice is reordered in place and returned.
func NormalizeVertices(poly []image.Point) []image.Point {
	n := len(poly)
	if n < 3 {
		return poly
	}

	top := 0
	for i, p := range poly {
		if p.Y < poly[top].Y || (p.Y == poly[top].Y && p.X < poly[top].X) {
			top = i
		}
	}
	rotated := make([]image.Point, 0, n)
	rotated = append(rotated, poly[top:]...)
	rotated = append(rotated, poly[:top]...)
	copy(poly, rotated)

	// With y pointing down, counter-clockwise on screen has negative
	// signed area.
	if signedArea(poly) > 0 {
		for i, j := 1, n-1; i < j; i, j = i+1, j-1 {
			poly[i], poly[j] = poly[j], poly[i]
		}
	}
	return poly
}

func signedArea(pts []image.Point) float64 {
	var sum int
	for i := range pts {
		j := (i + 1) % len(pts)
		sum += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	return float64(sum) / 2
}

// farthest returns the index of the point in pts farthest from p, and that
// distance. The first of equally distant points wins.
func farthest(pts []image.Point, p image.Point) (int, float64) {
	idx := 0
	var best float64
	for i, q := range pts {
		if d := dist(p, q); d > best {
			best = d
			idx = i
		}
	}
	return idx, best
}

// simplify marks the points of pts[lo:hi+1] that survive Douglas-Peucker
// simplification. It uses an explicit stack so long contours cannot
// overflow the goroutine stack.
func simplify(pts []image.Point, lo, hi int, epsilon float64, keep []bool) {
	type segment struct{ lo, hi int }
	stack := []segment{{lo, hi}}

	for len(stack) > 0 {
		seg := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seg.hi-seg.lo < 2 {
			continue
		}

		maxDist := -1.0
		maxIdx := seg.lo
		for i := seg.lo + 1; i < seg.hi; i++ {
			d := segmentDistance(pts[i], pts[seg.lo], pts[seg.hi])
			if d > maxDist {
				maxDist = d
				maxIdx = i
			}
		}

		if maxDist > epsilon {
			keep[maxIdx] = true
			stack = append(stack, segment{seg.lo, maxIdx}, segment{maxIdx, seg.hi})
		}
	}
}

// segmentDistance is the distance from p to the line through a and b, or to
// a itself when a and b coincide.
func segmentDistance(p, a, b image.Point) float64 {
	dx := float64(b.X - a.X)
	dy := float64(b.Y - a.Y)
	norm := math.Hypot(dx, dy)
	if norm == 0 {
		return dist(p, a)
	}
	return math.Abs(dy*float64(p.X-a.X)-dx*float64(p.Y-a.Y)) / norm
}

func dist(a, b image.Point) float64 {
	return math.Hypot(float64(a.X-b.X), float64(a.Y-b.Y))
}
