// Package cli implements the cardmatch command line.
package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ironsheep/cardmatch/internal/config"
	"github.com/ironsheep/cardmatch/internal/pipeline"
	"github.com/ironsheep/cardmatch/internal/rank"
)

// BuildInfo is the version information stamped into the binary.
type BuildInfo struct {
	Version   string
	BuildTime string
	GitCommit string
}

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	info       BuildInfo
	configPath string
	logLevel   string
}

// NewRootCmd builds the command tree.
func NewRootCmd(info BuildInfo) *cobra.Command {
	opts := &rootOptions{info: info}

	root := &cobra.Command{
		Use:   "cardmatch",
		Short: "Detect playing cards in an image and identify their ranks",
		Long: `Cardmatch finds every playing card lying on a dark surface, flattens each
one to a canonical rectangle and identifies its rank by matching the corner
glyph against a library of 13 rank templates.

Configuration is read from $XDG_CONFIG_HOME/cardmatch/config.toml when it
exists, or from the file given with --config. Flags override the file.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to a TOML configuration file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error")

	root.AddCommand(
		newDetectCmd(opts),
		newTemplatesCmd(opts),
		newServeCmd(opts),
		newConfigCmd(opts),
		newVersionCmd(opts),
	)
	return root
}

// Execute runs the command line. An interrupt cancels the running command.
func Execute(info BuildInfo) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return NewRootCmd(info).ExecuteContext(ctx)
}

// loadConfig reads the configuration, applies --log-level and sets up
// logging.
func (o *rootOptions) loadConfig() (config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if o.logLevel != "" {
		cfg.LogLevel = strings.ToLower(o.logLevel)
		if err := cfg.Validate(); err != nil {
			return config.Config{}, err
		}
	}
	setupLogging()
	return cfg, nil
}

// setupLogging sends log output to stderr; stdout carries reports and the
// MCP protocol.
func setupLogging() {
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
}

// loadDetector loads the template library named by cfg and builds a detector
// from it. A library that fails to load is fatal. reader may be nil.
func loadDetector(cfg config.Config, reader pipeline.RankReader) (*pipeline.Detector, *rank.Library, error) {
	lib, err := rank.LoadLibrary(cfg.TemplateDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load templates: %w", err)
	}
	if cfg.Debug() {
		log.Printf("loaded %d templates from %s", lib.Len(), cfg.TemplateDir)
	}
	opts := pipeline.OptionsFromConfig(cfg)
	opts.OCR = reader
	return pipeline.New(lib, opts), lib, nil
}
