package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"hopper/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var failedOnly bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent transcode outcomes from the run ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := history.Open(cfg)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer func() { _ = store.Close() }()

			records, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("read history: %w", err)
			}

			out := cmd.OutOrStdout()
			rows := make([][]string, 0, len(records))
			for _, rec := range records {
				if failedOnly && rec.Outcome != history.OutcomeFailed {
					continue
				}
				rows = append(rows, []string{
					fmt.Sprintf("%d", rec.ID),
					string(rec.Outcome),
					rec.OptionKey,
					filepath.Base(rec.SourcePath),
					formatDuration(rec.Duration),
					humanize.Time(rec.FinishedAt.Local()),
				})
			}
			if len(rows) == 0 {
				fmt.Fprintln(out, "No history recorded yet.")
				return nil
			}
			fmt.Fprintln(out, renderTable(out,
				[]string{"ID", "Outcome", "Option", "File", "Duration", "Finished"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum rows to show (0 for all)")
	cmd.Flags().BoolVar(&failedOnly, "failed", false, "Show only failed runs")
	return cmd
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	return d.Round(time.Second).String()
}
