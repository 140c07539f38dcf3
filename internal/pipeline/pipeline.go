package pipeline

import (
	"context"
	"image"
	"log"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/cardmatch/internal/card"
	"github.com/ironsheep/cardmatch/internal/config"
	"github.com/ironsheep/cardmatch/internal/detection"
	"github.com/ironsheep/cardmatch/internal/flatten"
	"github.com/ironsheep/cardmatch/internal/imaging"
	"github.com/ironsheep/cardmatch/internal/rank"
)

// RankReader gives an independent reading of a glyph, such as *ocr.Reader.
type RankReader interface {
	ReadRank(glyph *image.Gray) (string, error)
}

// Options configures a Detector.
type Options struct {
	Detection       detection.Options
	Extract         rank.ExtractOptions
	RejectThreshold float64

	// Workers bounds how many candidates are processed at once. Zero means
	// one per CPU.
	Workers int

	// Debug enables per-candidate logging.
	Debug bool

	// OCR, when set, reads every extracted glyph as a cross-check.
	OCR RankReader
}

// DefaultOptions returns the built-in calibration.
func DefaultOptions() Options {
	return Options{
		Detection:       detection.DefaultOptions(),
		Extract:         rank.DefaultExtractOptions(),
		RejectThreshold: rank.DefaultRejectThreshold,
	}
}

// OptionsFromConfig maps a validated configuration onto Options.
func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		Detection:       cfg.DetectionOptions(),
		Extract:         cfg.ExtractOptions(),
		RejectThreshold: cfg.RankRejectThreshold,
		Workers:         cfg.WorkerCount(),
		Debug:           cfg.Debug(),
	}
}

// Backend names the image-processing implementation compiled in: "go" by
// default, "gocv" when built with the gocv tag.
func Backend() string {
	if detection.Backend == flatten.Backend {
		return detection.Backend
	}
	return detection.Backend + "+" + flatten.Backend
}

// Detector finds and classifies cards. It is safe for concurrent use.
type Detector struct {
	opts       Options
	classifier *rank.Classifier
}

// New creates a Detector matching against lib.
func New(lib *rank.Library, opts Options) *Detector {
	return &Detector{
		opts:       opts,
		classifier: rank.NewClassifier(lib, opts.RejectThreshold),
	}
}

// Threshold returns the classifier's reject threshold.
func (d *Detector) Threshold() float64 {
	return d.classifier.Threshold()
}

// Process detects and classifies every card in img. A scene without
// candidates yields an empty slice. The only error is ctx's, when it is
// cancelled before all candidates are done.
func (d *Detector) Process(ctx context.Context, img image.Image) ([]card.Card, error) {
	gray := imaging.Grayscale(img)
	candidates := detection.FindCandidates(gray, d.opts.Detection)
	if d.opts.Debug {
		log.Printf("pipeline: %d candidates", len(candidates))
	}

	results := make([]card.Card, len(candidates))
	kept := make([]bool, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.workers())
	for i, c := range candidates {
		i, c := i, c
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i], kept[i] = d.processCandidate(gray, i, c)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	cards := make([]card.Card, 0, len(candidates))
	for i, ok := range kept {
		if ok {
			cards = append(cards, results[i])
		}
	}
	return cards, nil
}

func (d *Detector) workers() int {
	if d.opts.Workers > 0 {
		return d.opts.Workers
	}
	return runtime.NumCPU()
}

// processCandidate runs the per-card stages. ok is false when the candidate
// cannot be rectified.
func (d *Detector) processCandidate(gray *image.Gray, index int, c card.Card) (card.Card, bool) {
	c, err := d.normalize(gray, c)
	if err != nil {
		if d.opts.Debug {
			log.Printf("pipeline: dropping candidate %d at (%.0f, %.0f): %v", index, c.Center.X, c.Center.Y, err)
		}
		return c, false
	}
	c = d.extract(c)
	c = d.classify(c)
	c = d.crossCheck(index, c)

	if d.opts.Debug {
		log.Printf("pipeline: card %d at (%.0f, %.0f) %s: %s (score %.2f)",
			index, c.Center.X, c.Center.Y, c.Orientation, c.Rank, c.Score)
	}
	return c, true
}

func (d *Detector) normalize(gray *image.Gray, c card.Card) (card.Card, error) {
	normalized, o, err := flatten.Flatten(gray, c.Corners, c.Width, c.Height)
	c.Orientation = o.String()
	if err != nil {
		return c, err
	}
	c.Normalized = normalized
	return c, nil
}

func (d *Detector) extract(c card.Card) card.Card {
	c.Glyph = rank.ExtractGlyph(c.Normalized, d.opts.Extract)
	return c
}

func (d *Detector) classify(c card.Card) card.Card {
	m := d.classifier.Classify(c.Glyph)
	c.Rank = m.Rank
	c.Score = m.Score
	return c
}

func (d *Detector) crossCheck(index int, c card.Card) card.Card {
	if d.opts.OCR == nil || c.Glyph == nil {
		return c
	}
	read, err := d.opts.OCR.ReadRank(c.Glyph)
	if err != nil {
		if d.opts.Debug {
			log.Printf("pipeline: OCR failed for card %d: %v", index, err)
		}
		return c
	}
	c.OCR = read
	return c
}

// Annotate draws every card's contour and label over img.
func (d *Detector) Annotate(img image.Image, cards []card.Card) *image.RGBA {
	overlays := make([]card.Overlay, len(cards))
	for i, c := range cards {
		overlays[i] = c.Overlay(d.Threshold())
	}
	return imaging.Annotate(img, overlays)
}
