package detection

import "image"

// Contour is a closed boundary curve of a region in a binary mask.
type Contour struct {
	// Points lists the boundary pixels in trace order. Outer borders start at
	// the region's top-most, left-most pixel and run counter-clockwise on
	// screen; the last point is adjacent to the first.
	Points []image.Point

	// Hole is true for the inner border of a background hole inside a
	// foreground region.
	Hole bool

	// Parent is the index of the immediately enclosing contour, or -1 for a
	// top-level contour.
	Parent int
}

// clockwise neighbour offsets (on screen, Y down) starting at east.
var neighbourDX = [8]int{1, 1, 0, -1, -1, -1, 0, 1}
var neighbourDY = [8]int{0, 1, 1, 1, 0, -1, -1, -1}

// FindContours extracts every outer and hole border of the foreground
// (non-zero) regions in mask, together with their nesting tree.
//
// The implementation is Suzuki and Abe's topological border following
// ("Topological structural analysis of digitized binary images by border
// following", 1985). Foreground uses 8-connectivity and background
// 4-connectivity. The image frame acts as the root hole; contours enclosed
// only by the frame report Parent == -1.
//
// Contours are returned in the order their starting pixels are met by a
// raster scan.
func FindContours(mask *image.Gray) []Contour {
	b := mask.Bounds()
	w, h := b.Dx()+2, b.Dy()+2

	// Padded label grid: 0 background, 1 unvisited foreground, +/-n visited
	// by border n.
	f := make([]int32, w*h)
	for y := 0; y < b.Dy(); y++ {
		row := mask.Pix[mask.PixOffset(b.Min.X, b.Min.Y+y):]
		for x := 0; x < b.Dx(); x++ {
			if row[x] != 0 {
				f[(y+1)*w+x+1] = 1
			}
		}
	}

	var offsets [8]int
	for d := 0; d < 8; d++ {
		offsets[d] = neighbourDY[d]*w + neighbourDX[d]
	}

	type border struct {
		hole   bool
		parent int32
	}
	// Border 1 is the image frame.
	borders := []border{{}, {hole: true, parent: 0}}
	var contours []Contour
	nbd := int32(1)

	toPoint := func(idx int) image.Point {
		return image.Pt(idx%w-1+b.Min.X, idx/w-1+b.Min.Y)
	}

	for i := 1; i < h-1; i++ {
		lnbd := int32(1)
		for j := 1; j < w-1; j++ {
			p := i*w + j
			v := f[p]
			if v == 0 {
				continue
			}

			from := -1
			hole := false
			if v == 1 && f[p-1] == 0 {
				from = p - 1
			} else if v >= 1 && f[p+1] == 0 {
				from = p + 1
				hole = true
				if v > 1 {
					lnbd = v
				}
			}

			if from >= 0 {
				nbd++
				prev := borders[lnbd]
				parent := lnbd
				if prev.hole == hole {
					parent = prev.parent
				}
				borders = append(borders, border{hole: hole, parent: parent})

				trace := followBorder(f, offsets, p, from, nbd)
				pts := make([]image.Point, len(trace))
				for k, idx := range trace {
					pts[k] = toPoint(idx)
				}
				// Border n is contour n-2; the frame maps to -1.
				parentIdx := int(parent) - 2
				if parentIdx < 0 {
					parentIdx = -1
				}
				contours = append(contours, Contour{
					Points: pts,
					Hole:   hole,
					Parent: parentIdx,
				})
			}

			if f[p] != 1 {
				lnbd = f[p]
				if lnbd < 0 {
					lnbd = -lnbd
				}
			}
		}
	}
	return contours
}

// followBorder traces one border starting at start, whose background
// neighbour from was found by the raster scan, and labels the visited
// pixels with nbd. It returns the padded-grid indices of the border pixels.
func followBorder(f []int32, offsets [8]int, start, from int, nbd int32) []int {
	dirTo := func(center, neighbour int) int {
		delta := neighbour - center
		for d, o := range offsets {
			if o == delta {
				return d
			}
		}
		return 0
	}

	// Clockwise search for the first non-zero neighbour of start.
	d0 := dirTo(start, from)
	first := -1
	for k := 0; k < 8; k++ {
		q := start + offsets[(d0+k)%8]
		if f[q] != 0 {
			first = q
			break
		}
	}
	if first < 0 {
		f[start] = -nbd
		return []int{start}
	}

	var trace []int
	prev, cur := first, start
	for {
		// Counter-clockwise search around cur, beginning just after prev.
		dPrev := dirTo(cur, prev)
		eastZero := false
		next := -1
		for k := 1; k <= 8; k++ {
			d := (dPrev - k + 16) % 8
			q := cur + offsets[d]
			if f[q] == 0 {
				if d == 0 {
					eastZero = true
				}
				continue
			}
			next = q
			break
		}

		if eastZero {
			f[cur] = -nbd
		} else if f[cur] == 1 {
			f[cur] = nbd
		}
		trace = append(trace, cur)

		if next == start && cur == first {
			return trace
		}
		prev, cur = cur, next
	}
}
