package rank

import (
	"image"

	"github.com/ironsheep/cardmatch/internal/card"
	"github.com/ironsheep/cardmatch/internal/detection"
	"github.com/ironsheep/cardmatch/internal/imaging"
)

// ExtractOptions sets the size of the corner region searched for the rank
// symbol.
type ExtractOptions struct {
	CornerWidth  int
	CornerHeight int
}

// DefaultExtractOptions covers the rank symbol of a standard deck at the
// 200x300 normalized size.
func DefaultExtractOptions() ExtractOptions {
	return ExtractOptions{CornerWidth: 70, CornerHeight: 70}
}

// ExtractGlyph returns the binary rank glyph of a normalized card: ink is 255,
// paper 0, scaled to card.GlyphWidth x card.GlyphHeight.
//
// It returns nil when the corner holds no ink: a corner of a single
// intensity has no Otsu split, and a split without any region leaves
// nothing to crop.
func ExtractGlyph(normalized *image.Gray, opts ExtractOptions) *image.Gray {
	if normalized == nil {
		return nil
	}
	origin := normalized.Bounds().Min
	corner := imaging.CropGray(normalized, image.Rectangle{
		Min: origin,
		Max: origin.Add(image.Pt(opts.CornerWidth, opts.CornerHeight)),
	})
	if corner == nil {
		return nil
	}

	level, ok := imaging.OtsuLevel(corner)
	if !ok {
		return nil
	}
	ink := inkMask(corner, level)

	contours := detection.FindContours(ink)
	if len(contours) == 0 {
		return nil
	}
	largest := 0
	largestArea := detection.Area(contours[0].Points)
	for i := 1; i < len(contours); i++ {
		if a := detection.Area(contours[i].Points); a > largestArea {
			largest, largestArea = i, a
		}
	}

	box := detection.BoundingRect(contours[largest].Points)
	symbol := imaging.CropGray(ink, box)
	if symbol == nil {
		return nil
	}
	return imaging.ResizeGray(symbol, card.GlyphWidth, card.GlyphHeight)
}

// inkMask marks pixels at or below level as foreground.
func inkMask(img *image.Gray, level uint8) *image.Gray {
	mask := imaging.Binarize(img, level)
	return imaging.Invert(mask)
}
