package cli

import (
	"fmt"

	"github.com/alexanderramin/studysync/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newLabelsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "labels",
		Short: "Show emotion labels with their weights and study states",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatLabels(app.Tuning))
			return nil
		},
	}
}
