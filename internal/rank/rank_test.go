package rank

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/ironsheep/cardmatch/internal/card"
)

// createGlyph returns a glyph-sized image filled with v.
func createGlyph(v uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, card.GlyphWidth, card.GlyphHeight))
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return img
}

// createStripedGlyph returns a glyph of vertical stripes of the given width,
// giving each rank a distinct pattern.
func createStripedGlyph(stripe int) *image.Gray {
	img := createGlyph(0)
	for y := 0; y < card.GlyphHeight; y++ {
		for x := 0; x < card.GlyphWidth; x++ {
			if (x/stripe)%2 == 0 {
				img.Pix[img.PixOffset(x, y)] = 255
			}
		}
	}
	return img
}

// createNormalizedCard returns a white 200x300 card with the given black
// rectangles printed on it.
func createNormalizedCard(marks ...image.Rectangle) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, card.NormalizedWidth, card.NormalizedHeight))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.White}, image.Point{}, draw.Src)
	for _, m := range marks {
		draw.Draw(img, m, &image.Uniform{color.Black}, image.Point{}, draw.Src)
	}
	return img
}

// fullDeck returns one striped template per rank, in rank order.
func fullDeck() []Template {
	templates := make([]Template, len(card.Ranks))
	for i, name := range card.Ranks {
		templates[i] = Template{Name: name, Image: createStripedGlyph(i + 2)}
	}
	return templates
}
