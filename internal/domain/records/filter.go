package records

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// FilterKind es el tipo de filtro de período.
// @Enum today, last7days, last30days, custom
type FilterKind string

const (
	FilterToday      FilterKind = "today"
	FilterLast7Days  FilterKind = "last7days"
	FilterLast30Days FilterKind = "last30days"
	FilterCustom     FilterKind = "custom"
)

const dateLayout = "2006-01-02"

var ErrInvalidFilter = errors.New("invalid date filter")

// DateFilter describe un período. Start/End solo aplican a FilterCustom.
type DateFilter struct {
	Kind  FilterKind
	Start *time.Time
	End   *time.Time
}

// Window es el rango [Start, End] inclusivo en ambos extremos.
type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// IsZero indica que no se pidió ningún filtro.
func (f DateFilter) IsZero() bool {
	return f.Kind == "" && f.Start == nil && f.End == nil
}

// Window resuelve el filtro a un rango concreto relativo a now.
// ok=false significa "sin filtrar" (custom incompleto o tipo desconocido).
func (f DateFilter) Window(now time.Time) (Window, bool) {
	switch f.Kind {
	case FilterToday:
		return Window{Start: startOfDay(now), End: endOfDay(now)}, true
	case FilterLast7Days:
		return Window{Start: startOfDay(now.AddDate(0, 0, -6)), End: endOfDay(now)}, true
	case FilterLast30Days:
		return Window{Start: startOfDay(now.AddDate(0, 0, -29)), End: endOfDay(now)}, true
	case FilterCustom:
		// Con un extremo ausente no se filtra.
		if f.Start == nil || f.End == nil {
			return Window{}, false
		}
		return Window{Start: startOfDay(*f.Start), End: endOfDay(*f.End)}, true
	default:
		return Window{}, false
	}
}

// Apply devuelve los registros dentro del período, preservando el orden de entrada.
func Apply(items []HealthRecord, f DateFilter, now time.Time) []HealthRecord {
	w, ok := f.Window(now)
	if !ok {
		return items
	}

	out := make([]HealthRecord, 0, len(items))
	for _, r := range items {
		if w.Contains(r.TakenAt) {
			out = append(out, r)
		}
	}
	return out
}

// Label devuelve una descripción legible del filtro.
func Label(f DateFilter) string {
	switch f.Kind {
	case FilterToday:
		return "Today"
	case FilterLast7Days:
		return "Last 7 days"
	case FilterLast30Days:
		return "Last 30 days"
	case FilterCustom:
		if f.Start == nil || f.End == nil {
			return "Custom range"
		}
		return f.Start.Format("02/01/2006") + " – " + f.End.Format("02/01/2006")
	default:
		return ""
	}
}

// ParseDateFilter arma un filtro desde su forma de query/flags.
// kind vacío => filtro cero (sin filtrar). Fechas YYYY-MM-DD en loc.
func ParseDateFilter(kind, start, end string, loc *time.Location) (DateFilter, error) {
	if loc == nil {
		loc = time.Local
	}

	k := FilterKind(strings.ToLower(strings.TrimSpace(kind)))
	switch k {
	case "":
		return DateFilter{}, nil
	case FilterToday, FilterLast7Days, FilterLast30Days:
		return DateFilter{Kind: k}, nil
	case FilterCustom:
	default:
		return DateFilter{}, fmt.Errorf("%w: unknown kind %q", ErrInvalidFilter, kind)
	}

	f := DateFilter{Kind: FilterCustom}
	if v := strings.TrimSpace(start); v != "" {
		t, err := time.ParseInLocation(dateLayout, v, loc)
		if err != nil {
			return DateFilter{}, fmt.Errorf("%w: start must be YYYY-MM-DD", ErrInvalidFilter)
		}
		f.Start = &t
	}
	if v := strings.TrimSpace(end); v != "" {
		t, err := time.ParseInLocation(dateLayout, v, loc)
		if err != nil {
			return DateFilter{}, fmt.Errorf("%w: end must be YYYY-MM-DD", ErrInvalidFilter)
		}
		f.End = &t
	}
	return f, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// endOfDay es el último instante representable del día calendario de t.
func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, t.Location()).Add(-time.Nanosecond)
}
