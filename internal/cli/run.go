package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"springcli/internal/app"
	"springcli/internal/config"
)

// RunCmd returns the run command
func RunCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run every stage in order",
		Long: `Run clean, merge, trends, ecology, visualize and export in order.
The run stops at the first failing stage; the remaining stages are recorded
as skipped in output/run_manifest.json.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Execute(cmd.Context(), flags.options(cmd, app.PipelineLogName))
		},
	}
}

// StageCmd returns the stage command
func StageCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:       "stage <id>",
		Short:     "Run a single stage",
		Long:      fmt.Sprintf("Run one stage against the outputs already on disk.\nStages: %s", strings.Join(config.StageOrder, ", ")),
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: config.StageOrder,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Execute(cmd.Context(), flags.options(cmd, args[0]), args[0])
		},
	}
}
