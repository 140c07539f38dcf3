//go:build !gocv

package detection

import "image"

// Backend names the implementation behind contour tracing and polygon
// approximation. Builds with the gocv tag report "gocv".
const Backend = "go"

// traceShapes follows every border in mask and approximates each one with a
// polygon whose tolerance is factor times the border's perimeter.
func traceShapes(mask *image.Gray, factor float64) []Shape {
	contours := FindContours(mask)
	shapes := make([]Shape, len(contours))
	for i, c := range contours {
		shapes[i] = Shape{
			Contour:  c,
			Area:     Area(c.Points),
			Vertices: ApproxPolygon(c.Points, factor*Perimeter(c.Points)),
		}
	}
	return shapes
}
