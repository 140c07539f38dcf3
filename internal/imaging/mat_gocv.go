//go:build gocv

package imaging

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// GrayMat copies img into a single-channel 8-bit Mat whose (0,0) is
// img.Bounds().Min. Row padding and sub-image strides are dropped. The
// caller closes the Mat.
func GrayMat(img *image.Gray) gocv.Mat {
	b := img.Bounds()
	pix := make([]byte, b.Dx()*b.Dy())
	for y := 0; y < b.Dy(); y++ {
		copy(pix[y*b.Dx():(y+1)*b.Dx()], img.Pix[img.PixOffset(b.Min.X, b.Min.Y+y):])
	}
	m, err := gocv.NewMatFromBytes(b.Dy(), b.Dx(), gocv.MatTypeCV8U, pix)
	if err != nil {
		// pix always matches rows*cols, so only an empty image lands here.
		return gocv.NewMat()
	}
	return m
}

// MatGray converts a single-channel 8-bit Mat back to *image.Gray.
func MatGray(m gocv.Mat) (*image.Gray, error) {
	if m.Type() != gocv.MatTypeCV8U {
		return nil, fmt.Errorf("expected 8-bit single channel mat, got type %v", m.Type())
	}
	img, err := m.ToImage()
	if err != nil {
		return nil, fmt.Errorf("failed to convert mat: %w", err)
	}
	return Grayscale(img), nil
}
