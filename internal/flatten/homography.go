package flatten

import (
	"errors"
	"math"

	"github.com/ironsheep/cardmatch/internal/card"
)

// ErrDegenerate is returned when the corners cannot define a perspective
// transform, typically because three of them are collinear.
var ErrDegenerate = errors.New("degenerate quadrilateral")

const epsilon = 1e-9

// Matrix is a row-major 3x3 projective transform.
type Matrix [9]float64

// Apply maps (x, y) through m. ok is false when the point maps to infinity.
func (m Matrix) Apply(x, y float64) (float64, float64, bool) {
	w := m[6]*x + m[7]*y + m[8]
	if math.Abs(w) < epsilon {
		return 0, 0, false
	}
	return (m[0]*x + m[1]*y + m[2]) / w, (m[3]*x + m[4]*y + m[5]) / w, true
}

// Homography solves the transform that maps each from[i] onto to[i].
func Homography(from, to [4]card.Point) (Matrix, error) {
	if collinear(from) || collinear(to) {
		return Matrix{}, ErrDegenerate
	}

	// Eight equations in h0..h7 with h8 fixed at 1:
	//   u = (h0 x + h1 y + h2) / (h6 x + h7 y + 1)
	//   v = (h3 x + h4 y + h5) / (h6 x + h7 y + 1)
	var a [8][9]float64
	for i := 0; i < 4; i++ {
		x, y := from[i].X, from[i].Y
		u, v := to[i].X, to[i].Y
		a[2*i] = [9]float64{x, y, 1, 0, 0, 0, -u * x, -u * y, u}
		a[2*i+1] = [9]float64{0, 0, 0, x, y, 1, -v * x, -v * y, v}
	}

	h, err := solve(a)
	if err != nil {
		return Matrix{}, err
	}
	return Matrix{h[0], h[1], h[2], h[3], h[4], h[5], h[6], h[7], 1}, nil
}

// solve runs Gauss-Jordan elimination with partial pivoting on an augmented
// 8x9 system.
func solve(a [8][9]float64) ([8]float64, error) {
	var x [8]float64
	for col := 0; col < 8; col++ {
		pivot := col
		for r := col + 1; r < 8; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(a[pivot][col]) < epsilon {
			return x, ErrDegenerate
		}
		a[col], a[pivot] = a[pivot], a[col]

		for r := 0; r < 8; r++ {
			if r == col {
				continue
			}
			f := a[r][col] / a[col][col]
			for c := col; c < 9; c++ {
				a[r][c] -= f * a[col][c]
			}
		}
	}
	for i := 0; i < 8; i++ {
		x[i] = a[i][8] / a[i][i]
	}
	return x, nil
}

// collinear reports whether any three of the points lie on one line.
func collinear(p [4]card.Point) bool {
	for skip := 0; skip < 4; skip++ {
		var t [3]card.Point
		k := 0
		for i := 0; i < 4; i++ {
			if i != skip {
				t[k] = p[i]
				k++
			}
		}
		cross := (t[1].X-t[0].X)*(t[2].Y-t[0].Y) - (t[1].Y-t[0].Y)*(t[2].X-t[0].X)
		if math.Abs(cross) < 1e-6 {
			return true
		}
	}
	return false
}
