package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/de-tools/policy-report/pkg/services/downloads"
	"github.com/spf13/cobra"
)

type InspectCmd struct {
	rows int
}

func NewInspectCmd() *cobra.Command {
	ic := &InspectCmd{}
	cmd := &cobra.Command{
		Use:   "inspect [file.xlsx]",
		Short: "Preview a downloaded Excel report",
		Args:  cobra.ExactArgs(1),
		RunE:  ic.run,
	}

	cmd.Flags().IntVar(&ic.rows, "rows", 10, "Rows to show per sheet (0 for all)")

	return cmd
}

func (ic *InspectCmd) run(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read workbook: %w", err)
	}

	preview, err := downloads.PreviewWorkbook(data, ic.rows)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, sheet := range preview.Sheets {
		fmt.Fprintf(out, "=== %s (%d rows) ===\n", sheet.Name, sheet.TotalRows)
		for _, row := range sheet.Rows {
			fmt.Fprintln(out, strings.Join(row, " | "))
		}
		if len(sheet.Rows) < sheet.TotalRows {
			fmt.Fprintf(out, "... %d more rows\n", sheet.TotalRows-len(sheet.Rows))
		}
	}
	return nil
}
