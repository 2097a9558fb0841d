package cli

import (
	"context"
	"fmt"

	"health-monitor/internal/domain/records"

	"github.com/spf13/cobra"
)

func newSummaryCmd(a *app) *cobra.Command {
	var ff filterFlags

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Promedios por métrica (período y últimos 7 días)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(cmd, func(ctx context.Context, svc *records.Service, userID string) error {
				now := svc.Now()
				df, err := ff.parse(now.Location())
				if err != nil {
					return err
				}
				all, err := svc.List(ctx, userID)
				if err != nil {
					return err
				}
				items := records.Apply(all, df, now)

				label := records.Label(df)
				if df.IsZero() {
					label = "All records"
				}

				out := cmd.OutOrStdout()
				fmt.Fprintln(out, headerStyle.Sprintf("%s (%d record(s))", label, len(items)))
				fmt.Fprintln(out, headerStyle.Sprintf("%-12s  %-6s  %-8s  %s", "METRIC", "UNIT", "AVERAGE", "LAST 7 DAYS"))
				for _, row := range records.Summarize(items, all, now) {
					fmt.Fprintf(out, "%-12s  %-6s  %s  %s\n",
						row.Label, row.Unit, meanCell(row.Period, 8), meanCell(row.Last7Days, 0))
				}
				return nil
			})
		},
	}
	ff.register(cmd)
	return cmd
}
