// Package flatten rectifies a detected card quadrilateral into an upright
// 200x300 grayscale image.
//
// The work happens in three steps:
//
//   - Classify decides how the card lies in the scene (Vertical, Horizontal
//     or one of the two Diamond tilts) from its bounding box and vertices.
//   - OrderCorners maps the four unordered vertices onto the card's
//     top-left, top-right, bottom-right and bottom-left corners for that
//     orientation.
//   - Warp solves the 4-point homography from the output rectangle back to
//     the source quadrilateral and samples the scene bilinearly, filling
//     anything outside the scene with black.
//
// Warp runs in pure Go by default. Building with the gocv tag switches it to
// OpenCV's getPerspectiveTransform and warpPerspective; Backend reports which
// is compiled in.
//
// Flatten chains the three. Three collinear corners make the homography
// singular; Flatten then returns ErrDegenerate and the caller is expected to
// drop the candidate.
//
// A card that is almost perfectly square while sitting in a diamond pose can
// be assigned the wrong tilt. Real playing cards are not square, so the
// ambiguity only shows up on synthetic input.
package flatten
