package card

import (
	"image"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Overlay colours. Recognized cards fade from green towards amber as their
// score approaches the reject threshold.
var (
	matchColor    = colorful.Color{R: 0, G: 0.8, B: 0.2}
	marginalColor = colorful.Color{R: 1, G: 0.75, B: 0}
	rejectColor   = colorful.Color{R: 0.9, G: 0.1, B: 0.1}
	labelColor    = colorful.Color{R: 1, G: 0, B: 1}
)

// Overlay is what the presentation layer needs to draw one card.
type Overlay struct {
	Contour    []image.Point
	Center     image.Point
	Label      string
	Color      color.RGBA
	LabelColor color.RGBA
}

// Overlay describes c for drawing. threshold is the classifier's reject
// threshold and only shapes the colour gradient.
func (c Card) Overlay(threshold float64) Overlay {
	col := rejectColor
	label := c.Rank
	if label == "" {
		label = Unrecognized
	}
	if c.Recognized() {
		t := 0.0
		if threshold > 0 {
			t = c.Score / threshold
		}
		if t > 1 {
			t = 1
		}
		col = matchColor.BlendLab(marginalColor, t).Clamped()
	}
	return Overlay{
		Contour:    c.Contour,
		Center:     c.CenterPixel(),
		Label:      label,
		Color:      toRGBA(col),
		LabelColor: toRGBA(labelColor),
	}
}

func toRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
