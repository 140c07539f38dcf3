package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/histogram"
)

// Grayscale converts img to single-channel intensity.
//
// An *image.Gray input is returned unchanged. Other images are converted
// with bild's luminance weights. Callers must not assume Bounds().Min is
// (0,0).
func Grayscale(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	return toGray(effect.Grayscale(img))
}

// Smooth applies a Gaussian blur of the given radius to a grayscale image.
// A radius <= 0 returns the input unchanged.
func Smooth(img *image.Gray, radius float64) *image.Gray {
	if radius <= 0 {
		return img
	}
	return toGray(blur.Gaussian(img, radius))
}

// toGray keeps the red channel of a bild result. bild's grayscale and blur
// operate on RGBA and leave the three colour channels equal for gray input.
func toGray(rgba *image.RGBA) *image.Gray {
	b := rgba.Bounds()
	g := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		src := rgba.Pix[rgba.PixOffset(b.Min.X, y):]
		dst := g.Pix[g.PixOffset(b.Min.X, y):]
		for x := 0; x < b.Dx(); x++ {
			dst[x] = src[x*4]
		}
	}
	return g
}

// Binarize returns a mask in which pixels strictly brighter than cutoff are
// 255 and all others are 0. The mask has the same bounds as img.
//
// bild's segment.Threshold ranks pixels through float luminance weights,
// which can drop an exact gray level by one, so the comparison is done here
// on the raw intensities.
func Binarize(img *image.Gray, cutoff uint8) *image.Gray {
	b := img.Bounds()
	mask := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		src := img.Pix[img.PixOffset(b.Min.X, y):]
		dst := mask.Pix[mask.PixOffset(b.Min.X, y):]
		for x := 0; x < b.Dx(); x++ {
			if src[x] > cutoff {
				dst[x] = 255
			}
		}
	}
	return mask
}

// Invert flips a grayscale image in place and returns it.
func Invert(img *image.Gray) *image.Gray {
	for i, v := range img.Pix {
		img.Pix[i] = 255 - v
	}
	return img
}

// OtsuLevel computes Otsu's threshold for a grayscale image: the intensity
// that maximizes the between-class variance of the dark and bright pixel
// populations. Pixels at or below the returned level form the dark class.
//
// The second return value is false when the image holds a single intensity,
// in which case no split exists.
func OtsuLevel(img *image.Gray) (uint8, bool) {
	bins := histogram.NewRGBAHistogram(img).R.Bins

	total := 0
	var sum float64
	occupied := 0
	for v, n := range bins {
		total += n
		sum += float64(v) * float64(n)
		if n > 0 {
			occupied++
		}
	}
	if occupied < 2 {
		return 0, false
	}

	var (
		best      uint8
		bestVar   = -1.0
		weightLow int
		sumLow    float64
	)
	for t := 0; t < 255; t++ {
		weightLow += bins[t]
		if weightLow == 0 {
			continue
		}
		weightHigh := total - weightLow
		if weightHigh == 0 {
			break
		}
		sumLow += float64(t) * float64(bins[t])
		meanLow := sumLow / float64(weightLow)
		meanHigh := (sum - sumLow) / float64(weightHigh)
		between := float64(weightLow) * float64(weightHigh) * (meanLow - meanHigh) * (meanLow - meanHigh)
		if between > bestVar {
			bestVar = between
			best = uint8(t)
		}
	}
	return best, true
}
