package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/awaisdevofficial/inbound2-sub001/internal/application/services"
)

var extractStats bool

var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Print the plain text extracted from a PDF, DOCX, DOC or TXT file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		// No database needed
		svc := services.NewDocumentService(logger.Named("documents"))
		result, err := svc.ExtractFile(cmd.Context(), args[0], f)
		if err != nil {
			return err
		}

		if extractStats {
			fmt.Fprintf(os.Stderr, "%s: %s, %d characters, %d words\n",
				result.FileName, result.MimeType, result.Characters, result.Words)
		}
		fmt.Println(result.Text)
		return nil
	},
}

func init() {
	extractCmd.Flags().BoolVar(&extractStats, "stats", false, "print type and counts to stderr")
}
