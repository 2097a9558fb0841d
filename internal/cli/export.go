package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"health-monitor/internal/domain/records"
	"health-monitor/internal/report"

	"github.com/spf13/cobra"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		ff     filterFlags
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Exportar reporte PDF o CSV",
		Long:  "Genera el reporte: resumen sobre todos los registros y tabla de los registros del período, con valores fuera de rango resaltados.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmtName, err := resolveFormat(format, out)
			if err != nil {
				return err
			}
			if out == "" {
				out = "health-report." + fmtName
			}
			render := report.RenderPDF
			if fmtName == "csv" {
				render = report.RenderCSV
			}

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

				var buf bytes.Buffer
				if err := render(&buf, report.Build(all, df, now)); err != nil {
					return err
				}

				if out == "-" {
					_, err := io.Copy(cmd.OutOrStdout(), &buf)
					return err
				}
				if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
					return fmt.Errorf("write %s: %w", out, err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", out)
				return nil
			})
		},
	}

	ff.register(cmd)
	cmd.Flags().StringVar(&format, "format", "", "pdf|csv (default: según extensión de --out, si no pdf)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Archivo destino; \"-\" = stdout")
	return cmd
}

func resolveFormat(format, out string) (string, error) {
	f := strings.ToLower(strings.TrimSpace(format))
	if f == "" {
		f = strings.TrimPrefix(strings.ToLower(filepath.Ext(out)), ".")
	}
	switch f {
	case "", "pdf":
		return "pdf", nil
	case "csv":
		return "csv", nil
	default:
		return "", fmt.Errorf("unsupported format %q: want pdf|csv", f)
	}
}
