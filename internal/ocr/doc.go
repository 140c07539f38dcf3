// Package ocr cross-checks a rank glyph with the Tesseract OCR engine.
//
// The template classifier is the source of truth for a card's rank. OCR is
// an optional second opinion shown next to it in reports, useful while
// building or debugging a template library: a disagreement usually means a
// template was captured from the wrong card.
//
// # Prerequisites
//
// Tesseract and its English language data must be installed, and the binary
// must be built with cgo:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng libtesseract-dev
//   - macOS: brew install tesseract
//
// Without cgo every read returns ErrUnavailable.
//
// # Glyph preparation
//
// Glyphs arrive as white ink on black. They are inverted, padded with a
// white margin and read as a single word restricted to the characters that
// appear on rank indices. ParseRank maps the raw text to a rank name.
package ocr
