package flatten

import "github.com/ironsheep/cardmatch/internal/card"

// Orientation describes how a card quadrilateral lies in the scene.
type Orientation int

const (
	// Vertical cards are clearly taller than wide.
	Vertical Orientation = iota
	// Horizontal cards are clearly wider than tall and are rotated a quarter
	// turn back to upright.
	Horizontal
	// DiamondLeft cards are near-square in bounding box, rotated so the left
	// vertex sits at or above the right vertex.
	DiamondLeft
	// DiamondRight cards are near-square in bounding box with the left
	// vertex below the right vertex.
	DiamondRight
)

// Aspect limits separating upright, sideways and diamond poses.
const (
	verticalRatio   = 0.8
	horizontalRatio = 1.2
)

func (o Orientation) String() string {
	switch o {
	case Vertical:
		return "vertical"
	case Horizontal:
		return "horizontal"
	case DiamondLeft:
		return "diamond-left"
	case DiamondRight:
		return "diamond-right"
	default:
		return "unknown"
	}
}

// MarshalText lets reports carry the orientation name.
func (o Orientation) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Classify picks the orientation of a card from its bounding-box width and
// height and, for near-square boxes, from its vertices in trace order.
func Classify(vertices [4]card.Point, width, height int) Orientation {
	w, h := float64(width), float64(height)
	switch {
	case w <= verticalRatio*h:
		return Vertical
	case w >= horizontalRatio*h:
		return Horizontal
	case vertices[1].Y <= vertices[3].Y:
		return DiamondLeft
	default:
		return DiamondRight
	}
}

// OrderCorners returns the vertices as the card's top-left, top-right,
// bottom-right and bottom-left corners for orientation o.
//
// Vertical and Horizontal use the coordinate extremes: the smallest x+y is
// the scene's top-left, the largest its bottom-right, the smallest y-x its
// top-right and the largest y-x its bottom-left. Diamond poses have no
// reliable extremes and use the vertex order instead.
func OrderCorners(vertices [4]card.Point, o Orientation) [4]card.Point {
	switch o {
	case DiamondLeft:
		return [4]card.Point{vertices[1], vertices[0], vertices[3], vertices[2]}
	case DiamondRight:
		return [4]card.Point{vertices[0], vertices[3], vertices[2], vertices[1]}
	}

	tl, tr, br, bl := extremes(vertices)
	if o == Horizontal {
		return [4]card.Point{bl, tl, tr, br}
	}
	return [4]card.Point{tl, tr, br, bl}
}

// extremes finds the scene-aligned corners. The first vertex wins ties.
func extremes(v [4]card.Point) (tl, tr, br, bl card.Point) {
	minSum, maxSum, minDiff, maxDiff := 0, 0, 0, 0
	for i := 1; i < 4; i++ {
		sum := v[i].X + v[i].Y
		diff := v[i].Y - v[i].X
		if sum < v[minSum].X+v[minSum].Y {
			minSum = i
		}
		if sum > v[maxSum].X+v[maxSum].Y {
			maxSum = i
		}
		if diff < v[minDiff].Y-v[minDiff].X {
			minDiff = i
		}
		if diff > v[maxDiff].Y-v[maxDiff].X {
			maxDiff = i
		}
	}
	return v[minSum], v[minDiff], v[maxSum], v[maxDiff]
}
