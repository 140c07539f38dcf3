package flatten

import (
	"fmt"
	"image"

	"github.com/ironsheep/cardmatch/internal/card"
	"github.com/ironsheep/cardmatch/internal/imaging"
)

// Flatten rectifies the card outlined by vertices into a
// card.NormalizedWidth x card.NormalizedHeight grayscale image. width and
// height are the card's bounding-box extent in the scene and drive the
// orientation decision, which is returned alongside the image.
func Flatten(img image.Image, vertices [4]card.Point, width, height int) (*image.Gray, Orientation, error) {
	o := Classify(vertices, width, height)
	quad := OrderCorners(vertices, o)

	out, err := Warp(imaging.Grayscale(img), quad, card.NormalizedWidth, card.NormalizedHeight)
	if err != nil {
		return nil, o, fmt.Errorf("failed to flatten %s card: %w", o, err)
	}
	return out, o, nil
}

// Warp maps quad (top-left, top-right, bottom-right, bottom-left in src) onto
// a width x height image. Corners are in src's coordinate space, and the
// output's corner pixels land exactly on them. Output pixels are sampled
// bilinearly; samples falling outside src read as black.
func Warp(src *image.Gray, quad [4]card.Point, width, height int) (*image.Gray, error) {
	if collinear(quad) {
		return nil, ErrDegenerate
	}
	return warp(src, quad, outputRect(width, height), width, height)
}

// outputRect lists the output's corner pixel centres in quad order.
func outputRect(width, height int) [4]card.Point {
	return [4]card.Point{
		{X: 0, Y: 0},
		{X: float64(width - 1), Y: 0},
		{X: float64(width - 1), Y: float64(height - 1)},
		{X: 0, Y: float64(height - 1)},
	}
}
