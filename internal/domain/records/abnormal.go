package records

// Band clasifica una medición contra su rango clínico de referencia.
// @Enum low, normal, high
type Band string

const (
	BandNone   Band = "" // sin medición
	BandLow    Band = "low"
	BandNormal Band = "normal"
	BandHigh   Band = "high"
)

// Rangos normales (inclusivos).
const (
	SystolicMin  = 90.0
	SystolicMax  = 139.0
	DiastolicMin = 60.0
	DiastolicMax = 90.0
	GlycemiaMin  = 70.0
	GlycemiaMax  = 180.0
)

func (b Band) Abnormal() bool {
	return b == BandLow || b == BandHigh
}

func bandOf(v *float64, lo, hi float64) Band {
	switch {
	case v == nil:
		return BandNone
	case *v < lo:
		return BandLow
	case *v > hi:
		return BandHigh
	default:
		return BandNormal
	}
}

func SystolicBand(v *float64) Band  { return bandOf(v, SystolicMin, SystolicMax) }
func DiastolicBand(v *float64) Band { return bandOf(v, DiastolicMin, DiastolicMax) }
func GlycemiaBand(v *float64) Band  { return bandOf(v, GlycemiaMin, GlycemiaMax) }

// BandFor aplica el rango del campo. Frecuencia cardíaca no tiene rango.
func BandFor(f Field, v *float64) Band {
	switch f {
	case FieldSystolic:
		return SystolicBand(v)
	case FieldDiastolic:
		return DiastolicBand(v)
	case FieldGlycemia:
		return GlycemiaBand(v)
	default:
		return BandNone
	}
}

// IsBloodPressureAbnormal: sistólica O diastólica fuera de rango.
// Cada componente se evalúa solo si está presente.
func IsBloodPressureAbnormal(systolic, diastolic *float64) bool {
	return SystolicBand(systolic).Abnormal() || DiastolicBand(diastolic).Abnormal()
}

func IsGlycemiaAbnormal(glycemia *float64) bool {
	return GlycemiaBand(glycemia).Abnormal()
}

// IsHeartRateAbnormal siempre es false: no hay umbral definido.
func IsHeartRateAbnormal(*float64) bool {
	return false
}

type AbnormalFlags struct {
	BloodPressure bool
	Glycemia      bool
}

func (a AbnormalFlags) Any() bool {
	return a.BloodPressure || a.Glycemia
}

func Flags(r HealthRecord) AbnormalFlags {
	return AbnormalFlags{
		BloodPressure: IsBloodPressureAbnormal(r.Systolic, r.Diastolic),
		Glycemia:      IsGlycemiaAbnormal(r.Glycemia),
	}
}
