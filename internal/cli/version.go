package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ironsheep/cardmatch/internal/pipeline"
)

func newVersionCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "cardmatch %s\n", root.info.Version)
			fmt.Fprintf(out, "  Build time: %s\n", root.info.BuildTime)
			fmt.Fprintf(out, "  Git commit: %s\n", root.info.GitCommit)
			fmt.Fprintf(out, "  Backend:    %s\n", pipeline.Backend())
		},
	}
}
