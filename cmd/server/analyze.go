package main

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var analyzeTimeout time.Duration

// analyzeCmd runs one analysis outside the HTTP server, bypassing tenant checks.
var analyzeCmd = &cobra.Command{
	Use:   "analyze [callId]",
	Short: "Analyze one call transcript and print the result as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), analyzeTimeout)
		defer cancel()

		a, err := newApp(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer a.close(logger)

		analysis, err := a.services.Analysis.AnalyzeCall(ctx, args[0], nil)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(analysis)
	},
}

func init() {
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 2*time.Minute, "overall timeout")
}
