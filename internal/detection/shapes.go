package detection

import (
	"image"
	"sort"

	"github.com/ironsheep/cardmatch/internal/card"
	"github.com/ironsheep/cardmatch/internal/imaging"
)

// Options controls card candidate extraction.
type Options struct {
	// Threshold is the brightness cutoff. Pixels strictly brighter than it
	// are treated as card surface.
	Threshold uint8

	// BlurRadius is the Gaussian smoothing radius applied before
	// thresholding. Zero disables smoothing.
	BlurRadius float64

	// MinArea and MaxArea bound the enclosed contour area, inclusive. Both
	// depend on capture resolution and must be recalibrated per camera.
	MinArea float64
	MaxArea float64

	// PolyApproxFactor scales the contour perimeter into the polygon
	// approximation tolerance. Lower values keep more corners.
	PolyApproxFactor float64
}

// DefaultOptions returns the calibration used for the reference captures.
func DefaultOptions() Options {
	return Options{
		Threshold:        200,
		BlurRadius:       1.0,
		MinArea:          3500,
		MaxArea:          6000,
		PolyApproxFactor: 0.01,
	}
}

// Shape is one analysed contour, accepted or not. It is exposed so callers
// can report why a region was rejected.
type Shape struct {
	Contour  Contour
	Area     float64
	Vertices []image.Point
	Accepted bool
}

// FindCandidates locates card-shaped regions in img and returns them as
// partially filled Cards (contour, corners, center, bounding size, area),
// largest area first. Equal areas keep raster-scan order.
//
// A region is a candidate when its area lies within [MinArea, MaxArea], its
// approximated polygon has exactly four vertices, and no other region
// encloses it. A scene with no regions yields an empty, non-nil slice.
func FindCandidates(img image.Image, opts Options) []card.Card {
	shapes := AnalyzeShapes(img, opts)

	cards := make([]card.Card, 0, len(shapes))
	for _, s := range shapes {
		if !s.Accepted {
			continue
		}
		cards = append(cards, newCandidate(s))
	}
	return cards
}

// AnalyzeShapes runs the extraction steps and returns every contour in the
// scene with its area, approximated polygon and acceptance decision, sorted
// by descending area. Equal areas are ordered by where their trace starts,
// top to bottom then left to right, whichever backend traced them.
func AnalyzeShapes(img image.Image, opts Options) []Shape {
	gray := imaging.Smooth(imaging.Grayscale(img), opts.BlurRadius)
	mask := imaging.Binarize(gray, opts.Threshold)

	shapes := traceShapes(mask, opts.PolyApproxFactor)
	sort.SliceStable(shapes, func(i, j int) bool {
		if shapes[i].Area != shapes[j].Area {
			return shapes[i].Area > shapes[j].Area
		}
		return rasterBefore(shapes[i].Contour, shapes[j].Contour)
	})

	for i := range shapes {
		shapes[i].Accepted = accept(&shapes[i], opts)
	}
	return shapes
}

func rasterBefore(a, b Contour) bool {
	if len(a.Points) == 0 || len(b.Points) == 0 {
		return len(a.Points) > len(b.Points)
	}
	p, q := a.Points[0], b.Points[0]
	if p.Y != q.Y {
		return p.Y < q.Y
	}
	return p.X < q.X
}

func accept(s *Shape, opts Options) bool {
	return s.Area >= opts.MinArea &&
		s.Area <= opts.MaxArea &&
		len(s.Vertices) == 4 &&
		s.Contour.Parent == -1
}

func newCandidate(s Shape) card.Card {
	var corners [4]card.Point
	for i, v := range s.Vertices {
		corners[i] = card.Point{X: float64(v.X), Y: float64(v.Y)}
	}
	bounds := BoundingRect(s.Contour.Points)
	return card.Card{
		Contour: s.Contour.Points,
		Corners: corners,
		Center:  card.MeanPoint(corners),
		Width:   bounds.Dx(),
		Height:  bounds.Dy(),
		Area:    s.Area,
	}
}
