package cli

import (
	"context"

	"github.com/spf13/cobra"

	"springcli/internal/app"
	"springcli/internal/inspect"
)

func newInspector(cmd *cobra.Command, flags *globalFlags, logName string) (*inspect.Inspector, func(), error) {
	a, err := app.New(cmd.Context(), flags.options(cmd, logName))
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { _ = a.Close(context.Background()) }
	return inspect.NewInspector(a.Paths.CleanedDir, a.Logger), cleanup, nil
}

// SchemaCmd returns the schema command
func SchemaCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "List the columns of every cleaned table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			inspector, cleanup, err := newInspector(cmd, flags, "schema")
			if err != nil {
				return err
			}
			defer cleanup()
			return inspector.ListSchemas(cmd.OutOrStdout())
		},
	}
}

// InspectCmd returns the inspect command
func InspectCmd(flags *globalFlags) *cobra.Command {
	var rows int

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Preview every cleaned table",
		Long: `Print the row count, inferred column kinds and the first rows of every
cleaned table. Set NO_COLOR to disable coloured headings.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			inspector, cleanup, err := newInspector(cmd, flags, "inspect")
			if err != nil {
				return err
			}
			defer cleanup()
			return inspector.Preview(cmd.OutOrStdout(), rows)
		},
	}

	cmd.Flags().IntVarP(&rows, "rows", "n", inspect.DefaultPreviewRows, "number of rows to preview per table")
	return cmd
}
