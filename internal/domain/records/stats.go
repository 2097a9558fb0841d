package records

import (
	"encoding/json"
	"math"
	"strconv"
	"time"
)

// Mean es un promedio opcional: Valid=false cuando no hubo datos.
type Mean struct {
	Value float64
	Valid bool
}

// String renderiza vacío cuando no hay datos.
func (m Mean) String() string {
	if !m.Valid {
		return ""
	}
	return strconv.FormatFloat(m.Value, 'f', 1, 64)
}

func (m Mean) MarshalJSON() ([]byte, error) {
	if !m.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(m.Value)
}

// Average promedia los registros que tienen el campo, redondeado a un decimal.
// Registros sin el campo no cuentan (no son cero).
func Average(items []HealthRecord, f Field) Mean {
	var (
		sum float64
		n   int
	)
	for _, r := range items {
		v := r.Value(f)
		if v == nil {
			continue
		}
		sum += *v
		n++
	}
	if n == 0 {
		return Mean{}
	}
	return Mean{Value: math.Round(sum/float64(n)*10) / 10, Valid: true}
}

// SummaryRow es una fila del resumen: métrica, promedio del período y de los últimos 7 días.
type SummaryRow struct {
	Field      Field
	Label      string
	Unit       string
	Period     Mean
	Last7Days  Mean
	Count      int
	Count7Days int
}

// Summarize calcula el resumen por métrica. period es el subconjunto ya filtrado;
// los últimos 7 días salen siempre de all contra now, sin importar el filtro del período.
func Summarize(period, all []HealthRecord, now time.Time) []SummaryRow {
	last7 := Apply(all, DateFilter{Kind: FilterLast7Days}, now)

	out := make([]SummaryRow, 0, len(Fields))
	for _, f := range Fields {
		out = append(out, SummaryRow{
			Field:      f,
			Label:      f.Label(),
			Unit:       f.Unit(),
			Period:     Average(period, f),
			Last7Days:  Average(last7, f),
			Count:      countPresent(period, f),
			Count7Days: countPresent(last7, f),
		})
	}
	return out
}

func countPresent(items []HealthRecord, f Field) int {
	n := 0
	for _, r := range items {
		if r.Value(f) != nil {
			n++
		}
	}
	return n
}
