package pipeline

import (
	"encoding/json"
	"fmt"
	"image"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/cardmatch/internal/card"
)

// Report is the serializable result of processing one scene.
type Report struct {
	Image  string       `json:"image,omitempty" yaml:"image,omitempty"`
	Width  int          `json:"width" yaml:"width"`
	Height int          `json:"height" yaml:"height"`
	Cards  []CardReport `json:"cards" yaml:"cards"`
}

// CardReport describes one detected card.
type CardReport struct {
	Index       int           `json:"index" yaml:"index"`
	Center      card.Point    `json:"center" yaml:"center"`
	Corners     [4]card.Point `json:"corners" yaml:"corners"`
	Width       int           `json:"width" yaml:"width"`
	Height      int           `json:"height" yaml:"height"`
	Area        float64       `json:"area" yaml:"area"`
	Orientation string        `json:"orientation" yaml:"orientation"`
	Rank        string        `json:"rank" yaml:"rank"`
	Score       float64       `json:"score" yaml:"score"`
	Recognized  bool          `json:"recognized" yaml:"recognized"`
	OCR         string        `json:"ocr,omitempty" yaml:"ocr,omitempty"`
}

// NewReport builds the report for cards found in img. path is informational
// and may be empty.
func NewReport(path string, img image.Image, cards []card.Card) Report {
	b := img.Bounds()
	r := Report{
		Image:  path,
		Width:  b.Dx(),
		Height: b.Dy(),
		Cards:  make([]CardReport, len(cards)),
	}
	for i, c := range cards {
		r.Cards[i] = CardReport{
			Index:       i,
			Center:      c.Center,
			Corners:     c.Corners,
			Width:       c.Width,
			Height:      c.Height,
			Area:        c.Area,
			Orientation: c.Orientation,
			Rank:        c.Rank,
			Score:       c.Score,
			Recognized:  c.Recognized(),
			OCR:         c.OCR,
		}
	}
	return r
}

// Recognized counts the cards with an accepted rank.
func (r Report) Recognized() int {
	n := 0
	for _, c := range r.Cards {
		if c.Recognized {
			n++
		}
	}
	return n
}

// JSON encodes the report as indented JSON.
func (r Report) JSON() ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}
	return data, nil
}

// YAML encodes the report as YAML.
func (r Report) YAML() ([]byte, error) {
	data, err := yaml.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}
	return data, nil
}
