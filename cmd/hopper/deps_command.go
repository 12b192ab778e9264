package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"hopper/internal/deps"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check availability of required external binaries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			results := deps.Check(cfg)
			rows := make([][]string, 0, len(results))
			missing := 0
			for _, status := range results {
				detail := status.Path
				if !status.Available {
					missing++
					detail = status.Detail
				}
				rows = append(rows, []string{
					status.Name,
					status.Command,
					yesNo(status.Available),
					detail,
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(out,
				[]string{"Dependency", "Command", "Available", "Detail"},
				rows, nil,
			))
			if missing > 0 {
				return fmt.Errorf("%d required binaries missing", missing)
			}
			return nil
		},
	}
}
