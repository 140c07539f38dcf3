package rank

import (
	"image"

	"github.com/ironsheep/cardmatch/internal/card"
)

// DefaultRejectThreshold is the highest mean absolute difference, exclusive,
// at which a template is still accepted.
const DefaultRejectThreshold = 30

// Match is the outcome of classifying one glyph.
type Match struct {
	Rank  string
	Score float64
}

// Classifier matches glyphs against a Library.
type Classifier struct {
	library   *Library
	threshold float64
	diff      func(glyph, template *image.Gray) float64
}

// NewClassifier returns a classifier over lib. A glyph is accepted when its
// best score is strictly below threshold.
func NewClassifier(lib *Library, threshold float64) *Classifier {
	return &Classifier{
		library:   lib,
		threshold: threshold,
		diff:      Score,
	}
}

// Threshold returns the reject threshold.
func (c *Classifier) Threshold() float64 {
	return c.threshold
}

// Classify returns the closest template's rank and score. Templates whose
// size differs from the glyph are skipped; on equal scores the earlier
// template wins.
//
// A nil glyph, or one no template can be compared with, is Unrecognized with
// score 0. A best score at or above the threshold is Unrecognized and keeps
// that score.
func (c *Classifier) Classify(glyph *image.Gray) Match {
	if glyph == nil {
		return Match{Rank: card.Unrecognized}
	}

	best := Match{Rank: card.Unrecognized}
	found := false
	gb := glyph.Bounds()
	for _, t := range c.library.templates {
		tb := t.Image.Bounds()
		if tb.Dx() != gb.Dx() || tb.Dy() != gb.Dy() {
			continue
		}
		s := c.diff(glyph, t.Image)
		if !found || s < best.Score {
			best = Match{Rank: t.Name, Score: s}
			found = true
		}
	}

	if !found {
		return Match{Rank: card.Unrecognized}
	}
	if best.Score >= c.threshold {
		best.Rank = card.Unrecognized
	}
	return best
}

// Score is the mean absolute difference between two equally sized grayscale
// images, in intensity units (0 identical, 255 inverse).
func Score(a, b *image.Gray) float64 {
	ab, bb := a.Bounds(), b.Bounds()
	w, h := ab.Dx(), ab.Dy()
	if w == 0 || h == 0 {
		return 0
	}

	var sum int
	for y := 0; y < h; y++ {
		ra := a.Pix[a.PixOffset(ab.Min.X, ab.Min.Y+y):]
		rb := b.Pix[b.PixOffset(bb.Min.X, bb.Min.Y+y):]
		for x := 0; x < w; x++ {
			d := int(ra[x]) - int(rb[x])
			if d < 0 {
				d = -d
			}
			sum += d
		}
	}
	return float64(sum) / float64(w*h)
}
