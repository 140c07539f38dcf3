//go:build !gocv

package flatten

import (
	"image"
	"math"

	"github.com/ironsheep/cardmatch/internal/card"
)

// Backend names the implementation behind Warp. Builds with the gocv tag
// report "gocv".
const Backend = "go"

func warp(src *image.Gray, quad, rect [4]card.Point, width, height int) (*image.Gray, error) {
	// Inverse mapping: output pixel -> source position.
	m, err := Homography(rect, quad)
	if err != nil {
		return nil, err
	}

	out := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		row := out.Pix[y*out.Stride:]
		for x := 0; x < width; x++ {
			sx, sy, ok := m.Apply(float64(x), float64(y))
			if !ok {
				continue
			}
			row[x] = sample(src, sx, sy)
		}
	}
	return out, nil
}

// sample interpolates src at (x, y) in image coordinates.
func sample(src *image.Gray, x, y float64) uint8 {
	b := src.Bounds()
	x0 := math.Floor(x)
	y0 := math.Floor(y)
	fx := x - x0
	fy := y - y0
	ix, iy := int(x0), int(y0)

	at := func(px, py int) float64 {
		if px < b.Min.X || py < b.Min.Y || px >= b.Max.X || py >= b.Max.Y {
			return 0
		}
		return float64(src.Pix[src.PixOffset(px, py)])
	}

	top := at(ix, iy)*(1-fx) + at(ix+1, iy)*fx
	bottom := at(ix, iy+1)*(1-fx) + at(ix+1, iy+1)*fx
	v := top*(1-fy) + bottom*fy
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
