package cli

import (
	"fmt"
	"io"
	"os"

	colorize "github.com/fatih/color"
	"golang.org/x/term"

	"github.com/ironsheep/cardmatch/internal/pipeline"
)

// Report formats accepted by --format.
const (
	formatTable = "table"
	formatYAML  = "yaml"
	formatJSON  = "json"
)

// resolveFormat validates format, defaulting to a table when w is a
// terminal and YAML otherwise.
func resolveFormat(format string, w io.Writer) (string, error) {
	switch format {
	case formatTable, formatYAML, formatJSON:
		return format, nil
	case "":
		if isTerminal(w) {
			return formatTable, nil
		}
		return formatYAML, nil
	default:
		return "", fmt.Errorf("unknown format %q (want table, yaml or json)", format)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func writeReport(w io.Writer, format string, report pipeline.Report) error {
	switch format {
	case formatJSON:
		data, err := report.JSON()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case formatYAML:
		data, err := report.YAML()
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		writeTable(w, report)
		return nil
	}
}

// writeTable prints one line per card. Recognized ranks are green and
// unrecognized cards red.
func writeTable(w io.Writer, report pipeline.Report) {
	header := colorize.New(colorize.FgCyan, colorize.Bold)
	ok := colorize.New(colorize.FgGreen)
	bad := colorize.New(colorize.FgRed)

	header.Fprintf(w, "%s: %dx%d, %d cards, %d recognized\n",
		report.Image, report.Width, report.Height, len(report.Cards), report.Recognized())
	if len(report.Cards) == 0 {
		return
	}

	header.Fprintf(w, "%-3s %-14s %-12s %-13s %8s %9s\n", "#", "RANK", "ORIENTATION", "CENTER", "SCORE", "AREA")
	for _, c := range report.Cards {
		rank := ok.Sprintf("%-14s", c.Rank)
		if !c.Recognized {
			rank = bad.Sprintf("%-14s", c.Rank)
		}
		center := fmt.Sprintf("(%.0f,%.0f)", c.Center.X, c.Center.Y)
		fmt.Fprintf(w, "%-3d %s %-12s %-13s %8.2f %9.0f", c.Index, rank, c.Orientation, center, c.Score, c.Area)
		if c.OCR != "" {
			fmt.Fprintf(w, "  ocr=%s", c.OCR)
		}
		fmt.Fprintln(w)
	}
}
