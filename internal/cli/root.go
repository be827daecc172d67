package cli

import (
	"github.com/spf13/cobra"

	"springcli/internal/app"
	"springcli/pkg/contracts"
)

// globalFlags are shared by every subcommand
type globalFlags struct {
	configFile string
	rootDir    string
}

func (g *globalFlags) options(cmd *cobra.Command, logName string) app.Options {
	return app.Options{
		ConfigFile: g.configFile,
		RootDir:    g.rootDir,
		LogName:    logName,
		Progress:   cmd.OutOrStdout(),
	}
}

// RootCmd returns the springs command with all subcommands attached
func RootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:     "springs",
		Short:   "Desert springs survey pipeline",
		Version: contracts.GetFullVersionString(),
		Long: `springs turns the raw spring survey CSV exports under data/ into cleaned
tables, a combined observation table, annual water-quality trends, per-site
ecology flags, charts and a report workbook.`,
		SilenceUsage: true,
	}

	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.PersistentFlags().StringVarP(&flags.configFile, "config", "c", "", "YAML config file (default springs.yaml or configs/springs.yaml)")
	rootCmd.PersistentFlags().StringVar(&flags.rootDir, "root", "", "project root holding data/ and output/ (default working directory)")

	rootCmd.AddCommand(RunCmd(flags))
	rootCmd.AddCommand(StageCmd(flags))
	rootCmd.AddCommand(SchemaCmd(flags))
	rootCmd.AddCommand(InspectCmd(flags))

	return rootCmd
}
