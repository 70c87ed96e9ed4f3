package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CodexForgeBR/gptme-harness/internal/eval"
)

func newReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report <dir>",
		Short: "Print the results.json summary written by run --out",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := eval.LoadSummary(args[0])
			if err != nil {
				return err
			}
			failed := 0
			for _, s := range summary {
				printSummaryLine(cmd.OutOrStdout(), s)
				if s.Status != "ok" {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%w: %d of %d runs", errEvalFailed, failed, len(summary))
			}
			return nil
		},
	}
}
