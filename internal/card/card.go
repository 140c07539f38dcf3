// Package card defines the per-card record that flows through the detection
// pipeline, the fixed rank vocabulary, and the overlay description handed to
// the presentation layer.
//
// A Card is a plain value. Each pipeline stage receives the previous stage's
// Card and returns a copy with its own fields populated, so a Card is never
// shared between goroutines while it is being filled in.
package card

import "image"

// Canonical dimensions of the rectified card and of a rank glyph.
const (
	NormalizedWidth  = 200
	NormalizedHeight = 300

	GlyphWidth  = 70
	GlyphHeight = 125
)

// Unrecognized is the rank reported when no template is close enough or when
// no glyph could be extracted.
const Unrecognized = "unrecognized"

// Ranks lists the 13 rank names in template-library order.
var Ranks = []string{
	"Ace", "Two", "Three", "Four", "Five", "Six", "Seven",
	"Eight", "Nine", "Ten", "Jack", "Queen", "King",
}

// IsRank reports whether name is one of the 13 rank names.
func IsRank(name string) bool {
	for _, r := range Ranks {
		if r == name {
			return true
		}
	}
	return false
}

// Point is a sub-pixel 2D coordinate.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Card accumulates everything known about one detected shape.
type Card struct {
	// Contour is the closed boundary of the shape in source-image pixels.
	Contour []image.Point

	// Corners are the polygon-approximation vertices in trace order. They are
	// not sorted into top-left, top-right, etc.
	Corners [4]Point

	// Center is the mean of Corners.
	Center Point

	// Width and Height are the bounding-box extent of Contour.
	Width  int
	Height int

	// Area is the enclosed contour area in square pixels.
	Area float64

	// Normalized is the 200x300 upright grayscale card, nil until the
	// perspective stage has run.
	Normalized *image.Gray

	// Orientation names the pose the perspective stage assumed.
	Orientation string

	// Glyph is the 70x125 binary rank glyph. It stays nil when the corner
	// crop holds no foreground.
	Glyph *image.Gray

	// Rank is the best template name or Unrecognized.
	Rank string

	// Score is the dissimilarity to Rank's template. Lower is better.
	Score float64

	// OCR is the rank read by the optional OCR cross-check, empty when OCR
	// was not run or read nothing usable.
	OCR string
}

// Recognized reports whether the classifier accepted a template.
func (c Card) Recognized() bool {
	return c.Rank != "" && c.Rank != Unrecognized
}

// CenterPixel truncates Center to integer pixel coordinates.
func (c Card) CenterPixel() image.Point {
	return image.Pt(int(c.Center.X), int(c.Center.Y))
}

// MeanPoint returns the arithmetic mean of the corners.
func MeanPoint(pts [4]Point) Point {
	var sx, sy float64
	for _, p := range pts {
		sx += p.X
		sy += p.Y
	}
	return Point{X: sx / 4, Y: sy / 4}
}
