package cli

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/ironsheep/cardmatch/internal/config"
	"github.com/ironsheep/cardmatch/internal/imaging"
	"github.com/ironsheep/cardmatch/internal/ocr"
	"github.com/ironsheep/cardmatch/internal/pipeline"
)

type detectOptions struct {
	templates     string
	format        string
	annotate      string
	useOCR        bool
	workers       int
	threshold     float64
	cardThreshold int
	minArea       float64
	maxArea       float64
}

func newDetectCmd(root *rootOptions) *cobra.Command {
	opts := &detectOptions{}

	cmd := &cobra.Command{
		Use:   "detect [image]",
		Short: "Detect and identify the cards in an image",
		Long: `Detect finds every card in the image and reports its corners, orientation,
rank and match score. Cards whose best template match is too weak are
reported as unrecognized.

Examples:
  cardmatch detect table.jpg
  cardmatch detect --format json --annotate out.png table.jpg
  cardmatch detect --templates ./ranks --threshold 25 table.jpg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			if err := opts.apply(cmd, &cfg); err != nil {
				return err
			}
			return runDetect(cmd, cfg, opts, args[0])
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.templates, "templates", "t", "", "Directory holding the 13 rank templates")
	flags.StringVarP(&opts.format, "format", "f", "", "Output format: table, yaml or json (default table on a terminal, yaml otherwise)")
	flags.StringVarP(&opts.annotate, "annotate", "a", "", "Write the image with card outlines and labels to this file")
	flags.BoolVar(&opts.useOCR, "ocr", false, "Cross-check every glyph with Tesseract OCR")
	flags.IntVarP(&opts.workers, "workers", "w", 0, "Cards processed at once (0 means one per CPU)")
	flags.Float64Var(&opts.threshold, "threshold", 0, "Rank reject threshold")
	flags.IntVar(&opts.cardThreshold, "card-threshold", 0, "Binarization level for finding cards")
	flags.Float64Var(&opts.minArea, "min-area", 0, "Smallest card area in pixels")
	flags.Float64Var(&opts.maxArea, "max-area", 0, "Largest card area in pixels")
	return cmd
}

// apply copies the flags the user set onto cfg.
func (o *detectOptions) apply(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("templates") {
		cfg.TemplateDir = o.templates
	}
	if flags.Changed("workers") {
		cfg.Workers = o.workers
	}
	if flags.Changed("threshold") {
		cfg.RankRejectThreshold = o.threshold
	}
	if flags.Changed("card-threshold") {
		cfg.CardThreshold = o.cardThreshold
	}
	if flags.Changed("min-area") {
		cfg.CardMinArea = o.minArea
	}
	if flags.Changed("max-area") {
		cfg.CardMaxArea = o.maxArea
	}
	return cfg.Validate()
}

func runDetect(cmd *cobra.Command, cfg config.Config, opts *detectOptions, path string) error {
	out := cmd.OutOrStdout()
	format, err := resolveFormat(opts.format, out)
	if err != nil {
		return err
	}

	var reader pipeline.RankReader
	if opts.useOCR {
		if !ocr.Available() {
			return fmt.Errorf("--ocr: %w", ocr.ErrUnavailable)
		}
		reader = ocr.NewReader(ocr.DefaultLanguage)
	}

	detector, _, err := loadDetector(cfg, reader)
	if err != nil {
		return err
	}

	img, err := imaging.Open(path)
	if err != nil {
		return err
	}

	cards, err := detector.Process(cmd.Context(), img)
	if err != nil {
		return fmt.Errorf("failed to process %s: %w", path, err)
	}

	if opts.annotate != "" {
		if err := imaging.Save(opts.annotate, detector.Annotate(img, cards)); err != nil {
			return err
		}
		if cfg.Debug() {
			log.Printf("wrote annotated image to %s", opts.annotate)
		}
	}

	return writeReport(out, format, pipeline.NewReport(path, img, cards))
}
