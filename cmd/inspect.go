package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/esus-parser/internal/xlsxparser"
)

// inspectCmd prints the layout of an exported workbook.
var inspectCmd = &cobra.Command{
	Use:   "inspect <workbook.xlsx>",
	Short: "Show the sheets, header and row count of an exported workbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		summary, err := xlsxparser.Summarize(args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Workbook: %s\n", summary.Path)
		fmt.Fprintf(out, "Sheets:   %s\n", strings.Join(summary.Sheets, ", "))
		fmt.Fprintf(out, "Sheet:    %s\n", summary.First.Name)
		fmt.Fprintf(out, "Columns:  %s\n", strings.Join(summary.First.Header, ";"))
		fmt.Fprintf(out, "Rows:     %d\n", summary.First.DataRows())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
