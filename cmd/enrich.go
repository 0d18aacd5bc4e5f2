package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var enrichCmd = &cobra.Command{
	Use:   "enrich <input.xlsx>",
	Short: "Run the full enrichment pass over a practice workbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		summary, err := env.pipeline.Run(ctx, args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Processed %d records (%d selected): %d updated, %d expansion rows, %d discrepancies\n",
			summary.Records, summary.Selected, summary.Updated, summary.Expanded, summary.Discrepancies)
		fmt.Printf("Output written to %s\n", summary.OutputPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(enrichCmd)
}
