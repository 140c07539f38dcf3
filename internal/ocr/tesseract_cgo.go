//go:build cgo

package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
)

// Reader reads rank glyphs with Tesseract. A Reader holds no client; each
// call opens its own, so one Reader may be shared by several goroutines.
type Reader struct {
	language string
}

// NewReader creates a reader for the given Tesseract language.
func NewReader(language string) *Reader {
	if language == "" {
		language = DefaultLanguage
	}
	return &Reader{language: language}
}

// Available reports whether OCR is compiled in.
func Available() bool {
	return true
}

// ReadText returns the raw text Tesseract sees in the glyph.
func (r *Reader) ReadText(glyph *image.Gray) (string, error) {
	if glyph == nil || glyph.Bounds().Empty() {
		return "", ErrNoGlyph
	}

	data, err := prepareGlyph(glyph)
	if err != nil {
		return "", err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(r.language); err != nil {
		return "", fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_WORD); err != nil {
		return "", fmt.Errorf("failed to set page segmentation mode: %w", err)
	}
	if err := client.SetWhitelist(rankWhitelist); err != nil {
		return "", fmt.Errorf("failed to set whitelist: %w", err)
	}
	if err := client.SetImageFromBytes(data); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// ReadRank reads the glyph and maps the text to a rank name. An empty string
// with a nil error means Tesseract read something that is not a rank.
func (r *Reader) ReadRank(glyph *image.Gray) (string, error) {
	text, err := r.ReadText(glyph)
	if err != nil {
		return "", err
	}
	name, _ := ParseRank(text)
	return name, nil
}

// prepareGlyph turns white-on-black ink into dark text on a padded white
// page and encodes it as PNG.
func prepareGlyph(glyph *image.Gray) ([]byte, error) {
	b := glyph.Bounds()
	page := imaging.New(b.Dx()+2*glyphMargin, b.Dy()+2*glyphMargin, color.White)
	page = imaging.Paste(page, imaging.Invert(glyph), image.Pt(glyphMargin, glyphMargin))

	var buf bytes.Buffer
	if err := png.Encode(&buf, page); err != nil {
		return nil, fmt.Errorf("failed to encode glyph: %w", err)
	}
	return buf.Bytes(), nil
}
