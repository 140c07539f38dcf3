// Package pipeline runs the card recognizer over one scene image.
//
// A Detector is built once from a template Library and Options and then
// processes any number of frames. Each Process call:
//
//  1. converts the scene to grayscale once,
//  2. extracts card-shaped candidates (detection.FindCandidates),
//  3. and, for every candidate on a bounded worker pool, rectifies it
//     (flatten.Flatten), extracts the rank glyph (rank.ExtractGlyph),
//     classifies it (rank.Classifier) and optionally asks OCR for a second
//     opinion.
//
// Results come back in candidate order, largest card first, exactly as a
// sequential run would produce them. Candidates whose corners cannot be
// rectified are dropped; that is logged at debug level and is not an error.
// No state carries over between frames.
//
// Report turns the resulting cards into the JSON/YAML document printed by the
// CLI and returned by the MCP server.
package pipeline
