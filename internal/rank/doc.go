// Package rank reads the rank of a rectified card.
//
// ExtractGlyph isolates the rank symbol printed in the card's top-left
// corner: it crops the corner, splits ink from paper with Otsu's threshold,
// keeps the largest ink region and scales its bounding box to the canonical
// 70x125 glyph size.
//
// A Library holds one 70x125 reference glyph per rank, loaded once from a
// template directory (<Name>.jpg, or <Name>.png as a fallback) and shared
// read-only afterwards. A Classifier compares a glyph against every template
// of the same size by mean absolute pixel difference and accepts the closest
// one when its score is below the reject threshold.
package rank
