//go:build gocv

package detection

import (
	"image"

	"gocv.io/x/gocv"

	"github.com/ironsheep/cardmatch/internal/imaging"
)

// Backend names the implementation behind contour tracing and polygon
// approximation.
const Backend = "gocv"

// traceShapes hands mask to OpenCV: findContours with the full tree and no
// chain compression, then contourArea, arcLength and approxPolyDP per
// border. Vertices are normalized the same way ApproxPolygon leaves them.
func traceShapes(mask *image.Gray, factor float64) []Shape {
	if mask.Bounds().Empty() {
		return nil
	}
	mat := imaging.GrayMat(mask)
	defer mat.Close()

	hierarchy := gocv.NewMat()
	defer hierarchy.Close()
	contours := gocv.FindContoursWithParams(mat, &hierarchy, gocv.RetrievalTree, gocv.ChainApproxNone)
	defer contours.Close()

	origin := mask.Bounds().Min
	shapes := make([]Shape, 0, contours.Size())
	for i := 0; i < contours.Size(); i++ {
		pv := contours.At(i)
		approx := gocv.ApproxPolyDP(pv, factor*gocv.ArcLength(pv, true), true)
		vertices := offset(approx.ToPoints(), origin)
		approx.Close()

		shapes = append(shapes, Shape{
			Contour: Contour{
				Points: offset(pv.ToPoints(), origin),
				Parent: int(hierarchy.GetVeciAt(0, i)[3]),
			},
			Area:     gocv.ContourArea(pv),
			Vertices: NormalizeVertices(vertices),
		})
	}
	return shapes
}

// offset moves Mat coordinates back into the mask's coordinate space.
func offset(pts []image.Point, origin image.Point) []image.Point {
	for i := range pts {
		pts[i] = pts[i].Add(origin)
	}
	return pts
}
