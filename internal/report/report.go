// Package report arma el reporte exportable (resumen + tabla de registros)
// y lo renderiza a PDF o CSV.
package report

import (
	"sort"
	"strconv"
	"time"

	"health-monitor/internal/domain/records"
)

const Title = "Health Report"

type Report struct {
	Title       string
	GeneratedAt time.Time
	FilterLabel string

	// Summary se calcula sobre todos los registros (promedio general + 7 días).
	Summary []records.SummaryRow

	// Rows son los registros del período, más recientes primero.
	Rows []Row
}

// Row es una fila de la tabla de registros, ya formateada.
type Row struct {
	ID            string
	TakenAt       time.Time
	BloodPressure string
	Glycemia      string
	HeartRate     string
	Note          string
	Flags         records.AbnormalFlags
}

// Build arma el reporte. all son todos los registros del usuario.
func Build(all []records.HealthRecord, f records.DateFilter, now time.Time) Report {
	label := records.Label(f)
	if f.IsZero() {
		label = "All records"
	}

	selected := records.Apply(all, f, now)
	sorted := make([]records.HealthRecord, len(selected))
	copy(sorted, selected)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TakenAt.After(sorted[j].TakenAt)
	})

	rows := make([]Row, 0, len(sorted))
	for _, r := range sorted {
		rows = append(rows, Row{
			ID:            r.ID,
			TakenAt:       r.TakenAt.In(now.Location()),
			BloodPressure: bloodPressure(r.Systolic, r.Diastolic),
			Glycemia:      number(r.Glycemia),
			HeartRate:     number(r.HeartRate),
			Note:          r.Note,
			Flags:         records.Flags(r),
		})
	}

	return Report{
		Title:       Title,
		GeneratedAt: now,
		FilterLabel: label,
		Summary:     records.Summarize(all, all, now),
		Rows:        rows,
	}
}

func number(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// bloodPressure renderiza "sys/dia"; un componente ausente se muestra como "-".
func bloodPressure(sys, dia *float64) string {
	if sys == nil && dia == nil {
		return ""
	}
	s, d := number(sys), number(dia)
	if s == "" {
		s = "-"
	}
	if d == "" {
		d = "-"
	}
	return s + "/" + d
}
