package records

import "time"

// Field identifica una métrica numérica de un registro.
// @Enum glycemia, systolic, diastolic, heart_rate
type Field string

const (
	FieldGlycemia  Field = "glycemia"
	FieldSystolic  Field = "systolic"
	FieldDiastolic Field = "diastolic"
	FieldHeartRate Field = "heart_rate"
)

// Fields en el orden del resumen del reporte.
var Fields = []Field{FieldGlycemia, FieldSystolic, FieldDiastolic, FieldHeartRate}

func ParseField(s string) (Field, bool) {
	switch f := Field(s); f {
	case FieldGlycemia, FieldSystolic, FieldDiastolic, FieldHeartRate:
		return f, true
	case "heartRate", "heart-rate":
		return FieldHeartRate, true
	default:
		return "", false
	}
}

// Label devuelve el nombre legible de la métrica.
func (f Field) Label() string {
	switch f {
	case FieldGlycemia:
		return "Glycemia"
	case FieldSystolic:
		return "Systolic"
	case FieldDiastolic:
		return "Diastolic"
	case FieldHeartRate:
		return "Heart rate"
	default:
		return string(f)
	}
}

func (f Field) Unit() string {
	switch f {
	case FieldGlycemia:
		return "mg/dL"
	case FieldSystolic, FieldDiastolic:
		return "mmHg"
	case FieldHeartRate:
		return "bpm"
	default:
		return ""
	}
}

// HealthRecord es una observación registrada por el usuario.
// Las mediciones son punteros: nil = no se midió (nunca cero).
type HealthRecord struct {
	ID          string
	OwnerUserID string

	TakenAt time.Time

	Systolic  *float64
	Diastolic *float64
	Glycemia  *float64
	HeartRate *float64

	Note string

	CreatedAt time.Time
}

// Value devuelve la medición del campo pedido, o nil si no está presente.
func (r HealthRecord) Value(f Field) *float64 {
	switch f {
	case FieldGlycemia:
		return r.Glycemia
	case FieldSystolic:
		return r.Systolic
	case FieldDiastolic:
		return r.Diastolic
	case FieldHeartRate:
		return r.HeartRate
	default:
		return nil
	}
}

// Float es un helper para construir mediciones opcionales.
func Float(v float64) *float64 { return &v }
