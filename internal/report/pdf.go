package report

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
)

var (
	headerFill   = [3]int{59, 130, 246}
	abnormalText = [3]int{239, 68, 68}
)

const (
	dateTimeLayout = "02/01/2006 15:04"
	fontFamily     = "Helvetica"
)

// RenderPDF escribe el reporte como PDF apaisado: página de resumen y página de registros.
func RenderPDF(w io.Writer, rep Report) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont(fontFamily, "", 8)
		pdf.SetTextColor(0, 0, 0)
		pdf.CellFormat(0, 5, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "R", false, 0, "")
	})

	// Resumen
	pdf.AddPage()
	pdf.SetFont(fontFamily, "B", 20)
	pdf.CellFormat(0, 10, tr(rep.Title), "", 1, "L", false, 0, "")
	pdf.SetFont(fontFamily, "", 10)
	pdf.CellFormat(0, 6, tr("Generated at: "+rep.GeneratedAt.Format("02/01/2006 15:04")), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, tr("Period: "+rep.FilterLabel), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont(fontFamily, "B", 14)
	pdf.CellFormat(0, 8, "Summary", "", 1, "L", false, 0, "")

	summaryWidths := []float64{70, 45, 45}
	tableHeader(pdf, tr, summaryWidths, []string{"Metric", "Overall average", "7-day average"})
	pdf.SetFont(fontFamily, "", 10)
	for _, row := range rep.Summary {
		name := row.Label
		if row.Unit != "" {
			name += " (" + row.Unit + ")"
		}
		pdf.CellFormat(summaryWidths[0], 7, tr(name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(summaryWidths[1], 7, row.Period.String(), "1", 0, "R", false, 0, "")
		pdf.CellFormat(summaryWidths[2], 7, row.Last7Days.String(), "1", 1, "R", false, 0, "")
	}

	// Registros
	pdf.AddPage()
	pdf.SetFont(fontFamily, "B", 14)
	pdf.CellFormat(0, 8, "Records", "", 1, "L", false, 0, "")

	widths := []float64{40, 40, 40, 35, 122}
	header := []string{"Date/Time", "Pressure (mmHg)", "Glycemia (mg/dL)", "Heart rate", "Notes"}
	tableHeader(pdf, tr, widths, header)

	pdf.SetFont(fontFamily, "", 9)
	for _, row := range rep.Rows {
		// repetir cabecera al saltar de página
		if pdf.GetY() > 185 {
			pdf.AddPage()
			tableHeader(pdf, tr, widths, header)
			pdf.SetFont(fontFamily, "", 9)
		}

		pdf.CellFormat(widths[0], 7, row.TakenAt.Format(dateTimeLayout), "1", 0, "L", false, 0, "")
		flaggedCell(pdf, widths[1], row.BloodPressure, row.Flags.BloodPressure)
		flaggedCell(pdf, widths[2], row.Glycemia, row.Flags.Glycemia)
		pdf.CellFormat(widths[3], 7, row.HeartRate, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[4], 7, tr(truncate(row.Note, 80)), "1", 1, "L", false, 0, "")
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("report: build pdf: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("report: write pdf: %w", err)
	}
	return nil
}

func tableHeader(pdf *fpdf.Fpdf, tr func(string) string, widths []float64, cols []string) {
	pdf.SetFont(fontFamily, "B", 10)
	pdf.SetFillColor(headerFill[0], headerFill[1], headerFill[2])
	pdf.SetTextColor(255, 255, 255)
	for i, c := range cols {
		pdf.CellFormat(widths[i], 8, tr(c), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetTextColor(0, 0, 0)
}

func flaggedCell(pdf *fpdf.Fpdf, w float64, txt string, abnormal bool) {
	if abnormal {
		pdf.SetTextColor(abnormalText[0], abnormalText[1], abnormalText[2])
	}
	pdf.CellFormat(w, 7, txt, "1", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
