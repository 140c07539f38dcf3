package cli

import (
	"errors"
	"fmt"
	"image"

	colorize "github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ironsheep/cardmatch/internal/card"
	"github.com/ironsheep/cardmatch/internal/imaging"
	"github.com/ironsheep/cardmatch/internal/pipeline"
	"github.com/ironsheep/cardmatch/internal/rank"
)

func newTemplatesCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Check and build rank template libraries",
		Long:  `Commands for checking a rank template directory and capturing new templates.`,
	}
	cmd.AddCommand(newTemplatesCheckCmd(root), newTemplatesCaptureCmd(root))
	return cmd
}

func newTemplatesCheckCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check [dir]",
		Short: "Verify that a directory holds a usable template for every rank",
		Long: `Check loads the template for each of the 13 ranks and reports any that are
missing, unreadable or not 70x125 pixels. Without a directory the configured
template_dir is checked.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			dir := cfg.TemplateDir
			if len(args) == 1 {
				dir = args[0]
			}
			return checkTemplates(cmd, dir)
		},
	}
}

func checkTemplates(cmd *cobra.Command, dir string) error {
	out := cmd.OutOrStdout()
	ok := colorize.New(colorize.FgGreen)
	bad := colorize.New(colorize.FgRed)
	warn := colorize.New(colorize.FgYellow)

	fmt.Fprintf(out, "Templates in %s:\n", dir)
	failed := 0
	for _, name := range card.Ranks {
		if _, err := rank.LoadTemplate(dir, name); err != nil {
			failed++
			bad.Fprintf(out, "  %-6s %v\n", name, err)
			continue
		}
		files := rank.TemplateFiles(dir, name)
		ok.Fprintf(out, "  %-6s %s\n", name, files[0])
		for _, ignored := range files[1:] {
			warn.Fprintf(out, "  %-6s %s is ignored\n", "", ignored)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d templates are unusable", failed, len(card.Ranks))
	}
	fmt.Fprintf(out, "All %d templates are usable.\n", len(card.Ranks))
	return nil
}

type captureOptions struct {
	rank    string
	out     string
	replace bool
}

func newTemplatesCaptureCmd(root *rootOptions) *cobra.Command {
	opts := &captureOptions{}

	cmd := &cobra.Command{
		Use:   "capture [image]",
		Short: "Save the rank glyph of the largest card in an image as a template",
		Long: `Capture runs detection on an image, extracts the rank glyph of the largest
card and writes it to <out>/<rank>.png. Photograph each rank on its own to
build a template library for a new deck or camera.

An existing <rank>.jpg would be loaded in place of the new PNG, so capture
refuses to run while one exists. --replace deletes the rank's old template
files first.

Example:
  cardmatch templates capture --rank Queen --out ./ranks queen.jpg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			if opts.out == "" {
				opts.out = cfg.TemplateDir
			}

			img, err := imaging.Open(args[0])
			if err != nil {
				return err
			}
			path, err := captureTemplate(cmd, pipeline.OptionsFromConfig(cfg), img, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s template to %s\n", opts.rank, path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.rank, "rank", "r", "", "Rank name, e.g. Ace or Queen")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Template directory (default template_dir)")
	cmd.Flags().BoolVar(&opts.replace, "replace", false, "Delete the rank's existing template files before saving")
	_ = cmd.MarkFlagRequired("rank")
	return cmd
}

// errNoCard is returned when capture finds nothing to save.
var errNoCard = errors.New("no card with a rank glyph found")

func captureTemplate(cmd *cobra.Command, opts pipeline.Options, img image.Image, capture *captureOptions) (string, error) {
	if !card.IsRank(capture.rank) {
		return "", fmt.Errorf("%w: %q", rank.ErrTemplateName, capture.rank)
	}

	empty, err := rank.NewLibrary()
	if err != nil {
		return "", err
	}
	cards, err := pipeline.New(empty, opts).Process(cmd.Context(), img)
	if err != nil {
		return "", err
	}
	if len(cards) == 0 || cards[0].Glyph == nil {
		return "", errNoCard
	}

	if capture.replace {
		removed, err := rank.RemoveTemplate(capture.out, capture.rank)
		if err != nil {
			return "", err
		}
		for _, path := range removed {
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", path)
		}
	}
	path, err := rank.SaveTemplate(capture.out, capture.rank, cards[0].Glyph)
	if errors.Is(err, rank.ErrTemplateShadowed) {
		return "", fmt.Errorf("%w (use --replace to delete it)", err)
	}
	return path, err
}
