package cli

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/ironsheep/cardmatch/internal/pipeline"
	"github.com/ironsheep/cardmatch/internal/server"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var templates string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdin/stdout",
		Long: `Serve speaks the Model Context Protocol over stdin and stdout, offering the
cards_detect, cards_templates and image_load tools. Configure it in your MCP
client as a stdio server. Logs go to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("templates") {
				cfg.TemplateDir = templates
			}

			detector, lib, err := loadDetector(cfg, nil)
			if err != nil {
				return err
			}
			if cfg.Debug() {
				log.Printf("cardmatch MCP server %s (built %s, commit %s, backend %s), %d templates",
					root.info.Version, root.info.BuildTime, root.info.GitCommit, pipeline.Backend(), lib.Len())
			}

			srv := server.New(detector, lib, root.info.Version)
			return srv.Serve(cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&templates, "templates", "t", "", "Directory holding the 13 rank templates")
	return cmd
}
