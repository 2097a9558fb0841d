package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

// RenderCSV escribe la tabla de registros (una fila por registro) con las banderas de anomalía.
func RenderCSV(w io.Writer, rep Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"taken_at", "blood_pressure", "glycemia", "heart_rate", "note",
		"blood_pressure_abnormal", "glycemia_abnormal",
	}); err != nil {
		return fmt.Errorf("report: write csv header: %w", err)
	}

	for _, row := range rep.Rows {
		if err := cw.Write([]string{
			row.TakenAt.Format(time.RFC3339),
			row.BloodPressure,
			row.Glycemia,
			row.HeartRate,
			row.Note,
			strconv.FormatBool(row.Flags.BloodPressure),
			strconv.FormatBool(row.Flags.Glycemia),
		}); err != nil {
			return fmt.Errorf("report: write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
