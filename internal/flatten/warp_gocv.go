//go:build gocv

package flatten

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"github.com/ironsheep/cardmatch/internal/card"
	"github.com/ironsheep/cardmatch/internal/imaging"
)

// Backend names the implementation behind Warp.
const Backend = "gocv"

// warp runs getPerspectiveTransform and warpPerspective. The Mat starts at
// src.Bounds().Min, so quad is shifted into Mat coordinates first. Linear
// interpolation with a constant black border matches the pure Go sampler.
func warp(src *image.Gray, quad, rect [4]card.Point, width, height int) (*image.Gray, error) {
	mat := imaging.GrayMat(src)
	defer mat.Close()

	origin := src.Bounds().Min
	from := make([]gocv.Point2f, 4)
	to := make([]gocv.Point2f, 4)
	for i := range quad {
		from[i] = gocv.Point2f{X: float32(quad[i].X) - float32(origin.X), Y: float32(quad[i].Y) - float32(origin.Y)}
		to[i] = gocv.Point2f{X: float32(rect[i].X), Y: float32(rect[i].Y)}
	}
	fromVec := gocv.NewPoint2fVectorFromPoints(from)
	defer fromVec.Close()
	toVec := gocv.NewPoint2fVectorFromPoints(to)
	defer toVec.Close()

	transform := gocv.GetPerspectiveTransform2f(fromVec, toVec)
	defer transform.Close()
	if transform.Empty() {
		return nil, ErrDegenerate
	}

	warped := gocv.NewMat()
	defer warped.Close()
	gocv.WarpPerspective(mat, &warped, transform, image.Pt(width, height))

	out, err := imaging.MatGray(warped)
	if err != nil {
		return nil, fmt.Errorf("failed to read warped card: %w", err)
	}
	return out, nil
}
