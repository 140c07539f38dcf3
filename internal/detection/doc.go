// Package detection finds card-shaped regions in a scene image.
//
// # Algorithm Overview
//
// Candidate extraction follows a fixed pipeline:
//
//  1. Grayscale conversion and Gaussian smoothing
//  2. Fixed-level binarization: pixels brighter than the threshold are card
//     surface, everything else is table
//  3. Border following (Suzuki-Abe) to recover every outer and hole border
//     together with the nesting tree
//  4. Stable sort by enclosed area, largest first
//  5. Douglas-Peucker polygon approximation with a tolerance proportional to
//     the border's perimeter
//  6. Filtering: area inside the configured range, exactly four vertices and
//     no enclosing border
//
// Rejected regions are not errors. An empty table simply yields no
// candidates.
//
// # Vertex Order
//
// Approximated polygons always start at their top-most vertex (left-most on
// ties) and run counter-clockwise on screen, whatever pixel the border trace
// started from. The perspective stage relies on this order when a card sits
// at roughly 45 degrees.
//
// # Backends
//
// The default build traces borders and simplifies polygons in pure Go.
// Building with the gocv tag hands both steps to OpenCV (findContours with
// the full hierarchy, contourArea, arcLength, approxPolyDP). Backend reports
// which one is compiled in. Thresholding stays in Go either way so both
// backends see the same mask.
//
// # Limitations
//
// Area bounds are absolute pixel counts and must be recalibrated when the
// camera distance or resolution changes. Cards that touch or overlap merge
// into one region and are rejected by the vertex count.
package detection
