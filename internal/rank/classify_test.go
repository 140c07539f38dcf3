package rank

import (
	"image"
	"testing"

	"github.com/ironsheep/cardmatch/internal/card"
)

func newTestClassifier(t *testing.T, templates ...Template) *Classifier {
	t.Helper()
	lib, err := NewLibrary(templates...)
	if err != nil {
		t.Fatalf("NewLibrary: %v", err)
	}
	return NewClassifier(lib, DefaultRejectThreshold)
}

func TestScore(t *testing.T) {
	tests := []struct {
		name string
		a, b *image.Gray
		want float64
	}{
		{"identical", createStripedGlyph(5), createStripedGlyph(5), 0},
		{"inverse", createGlyph(0), createGlyph(255), 255},
		{"uniform offset", createGlyph(100), createGlyph(130), 30},
		{"symmetric", createGlyph(130), createGlyph(100), 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.a, tt.b); got != tt.want {
				t.Errorf("Score = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassify_ExactKing(t *testing.T) {
	c := newTestClassifier(t, fullDeck()...)
	king, _ := c.library.Lookup("King")

	glyph := image.NewGray(king.Image.Bounds())
	copy(glyph.Pix, king.Image.Pix)

	m := c.Classify(glyph)
	if m.Rank != "King" || m.Score != 0 {
		t.Errorf("got %+v, want King with score 0", m)
	}
}

func TestClassify_Threshold(t *testing.T) {
	tests := []struct {
		name      string
		glyph     uint8
		wantRank  string
		wantScore float64
	}{
		{"below threshold", 29, "King", 29},
		{"at threshold", 30, card.Unrecognized, 30},
		{"above threshold", 40, card.Unrecognized, 40},
	}

	c := newTestClassifier(t, Template{Name: "King", Image: createGlyph(0)})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := c.Classify(createGlyph(tt.glyph))
			if m.Rank != tt.wantRank || m.Score != tt.wantScore {
				t.Errorf("got %+v, want %s/%v", m, tt.wantRank, tt.wantScore)
			}
		})
	}
}

func TestClassify_NilGlyphComputesNothing(t *testing.T) {
	c := newTestClassifier(t, fullDeck()...)
	calls := 0
	c.diff = func(a, b *image.Gray) float64 {
		calls++
		return Score(a, b)
	}

	m := c.Classify(nil)
	if m.Rank != card.Unrecognized || m.Score != 0 {
		t.Errorf("got %+v, want unrecognized with score 0", m)
	}
	if calls != 0 {
		t.Errorf("diff called %d times, want 0", calls)
	}

	c.Classify(createGlyph(0))
	if calls != 13 {
		t.Errorf("diff called %d times for a real glyph, want 13", calls)
	}
}

func TestClassify_FirstTemplateWinsTie(t *testing.T) {
	c := newTestClassifier(t,
		Template{Name: "Two", Image: createGlyph(10)},
		Template{Name: "Three", Image: createGlyph(30)},
		Template{Name: "Four", Image: createGlyph(50)},
	)

	// 20 is equally far from Two and Three.
	m := c.Classify(createGlyph(20))
	if m.Rank != "Two" || m.Score != 10 {
		t.Errorf("got %+v, want Two/10", m)
	}
}

func TestClassify_SkipsOtherSizes(t *testing.T) {
	c := newTestClassifier(t, Template{Name: "Ace", Image: createGlyph(0)})

	odd := image.NewGray(image.Rect(0, 0, 10, 10))
	m := c.Classify(odd)
	if m.Rank != card.Unrecognized || m.Score != 0 {
		t.Errorf("got %+v, want unrecognized with score 0", m)
	}
}

func TestClassify_EmptyLibrary(t *testing.T) {
	c := newTestClassifier(t)
	if m := c.Classify(createGlyph(0)); m.Rank != card.Unrecognized {
		t.Errorf("got %+v, want unrecognized", m)
	}
}

func TestClassify_Deterministic(t *testing.T) {
	c := newTestClassifier(t, fullDeck()...)
	glyph := createStripedGlyph(6)

	first := c.Classify(glyph)
	for i := 0; i < 5; i++ {
		if m := c.Classify(glyph); m != first {
			t.Fatalf("run %d: got %+v, want %+v", i, m, first)
		}
	}
	if first.Rank != "Five" || first.Score != 0 {
		t.Errorf("got %+v, want Five/0", first)
	}
}
