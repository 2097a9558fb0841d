package cli

import (
	"context"
	"errors"
	"fmt"

	"health-monitor/internal/domain/records"
	"health-monitor/internal/report"

	"github.com/spf13/cobra"
)

func newAddCmd(a *app) *cobra.Command {
	var (
		systolic, diastolic, glycemia, heartRate float64
		at, note                                 string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Registrar una medición",
		Example: `  healthctl add --systolic 120 --diastolic 80
  healthctl add --glycemia 95 --at "2024-01-15 08:30" --note "en ayunas"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(cmd, func(ctx context.Context, svc *records.Service, userID string) error {
				takenAt, err := parseTakenAt(at, svc.Now().Location())
				if err != nil {
					return err
				}

				rec, err := svc.Add(ctx, userID, records.AddInput{
					TakenAt:   takenAt,
					Systolic:  optionalFloat(cmd, "systolic", systolic),
					Diastolic: optionalFloat(cmd, "diastolic", diastolic),
					Glycemia:  optionalFloat(cmd, "glycemia", glycemia),
					HeartRate: optionalFloat(cmd, "heart-rate", heartRate),
					Note:      note,
				})
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Added record %s\n", rec.ID)
				fl := records.Flags(rec)
				if fl.BloodPressure {
					fmt.Fprintln(out, abnormalStyle.Sprint("! blood pressure outside normal range"))
				}
				if fl.Glycemia {
					fmt.Fprintln(out, abnormalStyle.Sprint("! glycemia outside normal range"))
				}
				return nil
			})
		},
	}

	f := cmd.Flags()
	f.Float64Var(&systolic, "systolic", 0, "Presión sistólica (mmHg)")
	f.Float64Var(&diastolic, "diastolic", 0, "Presión diastólica (mmHg)")
	f.Float64Var(&glycemia, "glycemia", 0, "Glicemia (mg/dL)")
	f.Float64Var(&heartRate, "heart-rate", 0, "Frecuencia cardíaca (bpm)")
	f.StringVar(&at, "at", "", "Momento de la medición (default: ahora)")
	f.StringVar(&note, "note", "", "Nota libre")
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	var ff filterFlags

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Listar registros, más recientes primero",
		Args:    cobra.NoArgs,
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
				rep := report.Build(all, df, now)

				out := cmd.OutOrStdout()
				if len(rep.Rows) == 0 {
					fmt.Fprintln(out, mutedStyle.Sprintf("No records (%s)", rep.FilterLabel))
					return nil
				}

				fmt.Fprintln(out, headerStyle.Sprintf("%-36s  %-16s  %-9s  %-8s  %-5s  %s",
					"ID", "TAKEN AT", "BP", "GLYCEMIA", "HR", "NOTE"))
				for _, row := range rep.Rows {
					fmt.Fprintf(out, "%-36s  %-16s  %s  %s  %s  %s\n",
						row.ID,
						row.TakenAt.Format("2006-01-02 15:04"),
						cell(row.BloodPressure, 9, row.Flags.BloodPressure),
						cell(row.Glycemia, 8, row.Flags.Glycemia),
						cell(row.HeartRate, 5, false),
						truncate(row.Note, 40),
					)
				}
				fmt.Fprintln(out, mutedStyle.Sprintf("%d record(s), %s", len(rep.Rows), rep.FilterLabel))
				return nil
			})
		},
	}
	ff.register(cmd)
	return cmd
}

func newRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Eliminar un registro",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(cmd, func(ctx context.Context, svc *records.Service, userID string) error {
				if err := svc.Remove(ctx, userID, args[0]); err != nil {
					if errors.Is(err, records.ErrNotFound) || errors.Is(err, records.ErrInvalidInput) {
						return fmt.Errorf("record %q not found", args[0])
					}
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted record %s\n", args[0])
				return nil
			})
		},
	}
}

func newClearCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Eliminar todos los registros del usuario",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to delete all records without --yes")
			}
			return a.withService(cmd, func(ctx context.Context, svc *records.Service, userID string) error {
				n, err := svc.Clear(ctx, userID)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d record(s)\n", n)
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirmar el borrado")
	return cmd
}
