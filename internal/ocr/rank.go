package ocr

import (
	"errors"
	"strings"

	"github.com/ironsheep/cardmatch/internal/card"
)

// ErrUnavailable is returned when the binary was built without Tesseract.
var ErrUnavailable = errors.New("OCR not available in this build")

// ErrNoGlyph is returned when there is nothing to read.
var ErrNoGlyph = errors.New("no glyph to read")

// DefaultLanguage is the Tesseract language used for rank indices.
const DefaultLanguage = "eng"

// rankWhitelist lists every character printed on a rank index.
const rankWhitelist = "A2345678910JQK"

// glyphMargin is the white border added around a glyph before reading.
const glyphMargin = 20

var indexToRank = map[string]string{
	"A":  "Ace",
	"2":  "Two",
	"3":  "Three",
	"4":  "Four",
	"5":  "Five",
	"6":  "Six",
	"7":  "Seven",
	"8":  "Eight",
	"9":  "Nine",
	"10": "Ten",
	"J":  "Jack",
	"Q":  "Queen",
	"K":  "King",
}

// ParseRank maps OCR output to a rank name. It accepts index characters
// ("K", "10") and full names in any case ("king"), ignoring surrounding
// whitespace.
func ParseRank(text string) (string, bool) {
	t := strings.ToUpper(strings.TrimSpace(text))
	if t == "" {
		return "", false
	}
	if name, ok := indexToRank[t]; ok {
		return name, true
	}
	// Tesseract often reads the "1" of a 10 as a capital I or lowercase l.
	if t == "I0" || t == "L0" || t == "IO" {
		return "Ten", true
	}
	for _, name := range card.Ranks {
		if strings.EqualFold(name, t) {
			return name, true
		}
	}
	return "", false
}
