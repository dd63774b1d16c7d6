package main

import (
	"github.com/spf13/cobra"

	"github.com/sheetscrub/sheetscrub/internal/output"
)

func newFormatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List supported file formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())
			out.Println("Supported formats:")
			out.Printf("  %-12s %s\n", ".xlsx/.xlsm", "OOXML workbook: --remove-macros, --remove-hidden-sheets")
			out.Printf("  %-12s %s\n", ".ods", "OpenDocument spreadsheet: --remove-hidden-sheets")
			out.Printf("  %-12s %s\n", ".csv", "comma-separated values: incomplete rows dropped")
			return nil
		},
	}
}
