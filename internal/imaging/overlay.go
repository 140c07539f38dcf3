package imaging

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/cardmatch/internal/card"
)

// Annotate draws each card's contour and rank label onto a copy of img.
//
// Contours are drawn 2 pixels wide in the overlay colour. The label is
// centred horizontally on the card centre, over a dark backing box so it
// stays legible on a white card face.
func Annotate(img image.Image, overlays []card.Overlay) *image.RGBA {
	bounds := img.Bounds()
	result := image.NewRGBA(bounds)
	draw.Draw(result, bounds, img, bounds.Min, draw.Src)

	for _, ov := range overlays {
		drawContour(result, ov.Contour, ov.Color)
	}
	// Labels go on top of every contour.
	for _, ov := range overlays {
		drawLabel(result, ov.Center, ov.Label, ov.LabelColor, color.RGBA{0, 0, 0, 160})
	}
	return result
}

func drawContour(img *image.RGBA, contour []image.Point, c color.RGBA) {
	n := len(contour)
	if n == 0 {
		return
	}
	for i := 0; i < n; i++ {
		a := contour[i]
		b := contour[(i+1)%n]
		drawLine(img, a, b, c)
	}
}

// drawLine rasterizes a 2-pixel-wide segment with Bresenham's algorithm.
func drawLine(img *image.RGBA, a, b image.Point, c color.RGBA) {
	dx := abs(b.X - a.X)
	dy := -abs(b.Y - a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}
	err := dx + dy
	x, y := a.X, a.Y
	for {
		plot(img, x, y, c)
		plot(img, x+1, y, c)
		plot(img, x, y+1, c)
		if x == b.X && y == b.Y {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

func plot(img *image.RGBA, x, y int, c color.RGBA) {
	if (image.Point{X: x, Y: y}).In(img.Bounds()) {
		img.SetRGBA(x, y, c)
	}
}

func drawLabel(img *image.RGBA, center image.Point, text string, fg, bg color.RGBA) {
	face := basicfont.Face7x13
	width := font.MeasureString(face, text).Ceil()
	metrics := face.Metrics()
	ascent := metrics.Ascent.Ceil()
	height := ascent + metrics.Descent.Ceil()

	x := center.X - width/2
	y := center.Y

	box := image.Rect(x-2, y-ascent-2, x+width+2, y-ascent+height+2).Intersect(img.Bounds())
	draw.Draw(img, box, image.NewUniform(bg), image.Point{}, draw.Over)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(fg),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
