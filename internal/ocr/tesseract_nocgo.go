//go:build !cgo

package ocr

import "image"

// Reader is a stub in builds without cgo.
type Reader struct{}

// NewReader returns a reader that always fails with ErrUnavailable.
func NewReader(language string) *Reader {
	return &Reader{}
}

// Available reports whether OCR is compiled in.
func Available() bool {
	return false
}

// ReadText always returns ErrUnavailable.
func (r *Reader) ReadText(glyph *image.Gray) (string, error) {
	return "", ErrUnavailable
}

// ReadRank always returns ErrUnavailable.
func (r *Reader) ReadRank(glyph *image.Gray) (string, error) {
	return "", ErrUnavailable
}
