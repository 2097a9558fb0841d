package records

import (
	"sort"
	"time"
)

// Point es un punto de serie para graficar.
type Point struct {
	TakenAt  time.Time
	Value    float64
	Band     Band
	Abnormal bool
}

// Series arma la serie de un campo: solo registros con dato, orden cronológico asc.
func Series(items []HealthRecord, f Field) []Point {
	out := make([]Point, 0, len(items))
	for _, r := range items {
		v := r.Value(f)
		if v == nil {
			continue
		}
		b := BandFor(f, v)
		out = append(out, Point{
			TakenAt:  r.TakenAt,
			Value:    *v,
			Band:     b,
			Abnormal: b.Abnormal(),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TakenAt.Before(out[j].TakenAt)
	})
	return out
}
