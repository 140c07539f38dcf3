package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
)

// CropGray extracts r from img, clipped to the image bounds. The result
// starts at (0,0). An empty intersection yields nil.
func CropGray(img *image.Gray, r image.Rectangle) *image.Gray {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return nil
	}
	out := image.NewGray(image.Rect(0, 0, r.Dx(), r.Dy()))
	for y := 0; y < r.Dy(); y++ {
		src := img.Pix[img.PixOffset(r.Min.X, r.Min.Y+y):]
		copy(out.Pix[y*out.Stride:y*out.Stride+r.Dx()], src[:r.Dx()])
	}
	return out
}

// ResizeGray scales img to exactly width x height using bilinear
// interpolation.
func ResizeGray(img *image.Gray, width, height int) *image.Gray {
	resized := imaging.Resize(img, width, height, imaging.Linear)
	// R, G and B are equal for a gray source; keep R rather than re-weighting.
	out := image.NewGray(resized.Bounds())
	for i := range out.Pix {
		out.Pix[i] = resized.Pix[i*4]
	}
	return out
}

// EncodePNGBase64 encodes img as PNG and returns it base64-encoded, the form
// the MCP server uses to ship images to clients.
func EncodePNGBase64(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
