package records

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"health-monitor/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// Observer recibe notificaciones del ciclo de vida (métricas). Puede ser nil.
type Observer interface {
	RecordAdded(r HealthRecord)
	RecordsRemoved(n int)
}

func RegisterRoutes(r chi.Router, svc *Service, obs Observer) {
	r.Route("/records", func(rr chi.Router) {
		rr.Post("/", createRecordHandler(svc, obs))
		rr.Get("/", listRecordsHandler(svc))
		rr.Delete("/", clearRecordsHandler(svc, obs))

		rr.Get("/summary", summaryHandler(svc))
		rr.Get("/series/{field}", seriesHandler(svc))

		rr.Delete("/{recordID}", deleteRecordHandler(svc, obs))
	})
}

// maxRecordBody acota el cuerpo de POST /records (la nota es texto libre).
const maxRecordBody = 64 << 10

// createRecordRequest es el cuerpo para registrar una medición.
type createRecordRequest struct {
	TakenAt   string   `json:"taken_at"` // RFC3339, opcional (default: ahora)
	Systolic  *float64 `json:"systolic"`
	Diastolic *float64 `json:"diastolic"`
	Glycemia  *float64 `json:"glycemia"`
	HeartRate *float64 `json:"heart_rate"`
	Note      string   `json:"note"`
}

// recordResponse representa un registro devuelto por la API.
type recordResponse struct {
	ID        string        `json:"id"`
	TakenAt   time.Time     `json:"taken_at"`
	Systolic  *float64      `json:"systolic,omitempty"`
	Diastolic *float64      `json:"diastolic,omitempty"`
	Glycemia  *float64      `json:"glycemia,omitempty"`
	HeartRate *float64      `json:"heart_rate,omitempty"`
	Note      string        `json:"note,omitempty"`
	Abnormal  abnormalFlags `json:"abnormal"`
	CreatedAt time.Time     `json:"created_at"`
}

type abnormalFlags struct {
	BloodPressure bool `json:"blood_pressure"`
	Glycemia      bool `json:"glycemia"`
}

type summaryResponse struct {
	Filter  string       `json:"filter"`
	Records int          `json:"records"`
	Rows    []summaryRow `json:"rows"`
}

type summaryRow struct {
	Field     Field  `json:"field"`
	Label     string `json:"label"`
	Unit      string `json:"unit"`
	Period    Mean   `json:"period" swaggertype:"number"`
	Last7Days Mean   `json:"last_7_days" swaggertype:"number"`
}

type pointResponse struct {
	TakenAt  time.Time `json:"taken_at"`
	Value    float64   `json:"value"`
	Band     Band      `json:"band,omitempty"`
	Abnormal bool      `json:"abnormal"`
}

type clearResponse struct {
	Deleted int `json:"deleted"`
}

// createRecordHandler godoc
// @Summary Registrar medición
// @Description Crea un registro de salud para el usuario autenticado. Todas las mediciones son opcionales, pero se requiere al menos una (o una nota).
// @Tags records
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param payload body createRecordRequest true "Medición; taken_at en RFC3339"
// @Success 201 {object} recordResponse
// @Failure 400 {string} string "invalid json / taken_at inválido / reglas de negocio"
// @Failure 413 {string} string "request body too large"
// @Failure 401 {string} string "unauthorized"
// @Router /records [post]
func createRecordHandler(svc *Service, obs Observer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		var req createRecordRequest
		r.Body = http.MaxBytesReader(w, r.Body, maxRecordBody)
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
				return
			}
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var takenAt time.Time
		if v := strings.TrimSpace(req.TakenAt); v != "" {
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				http.Error(w, "taken_at must be RFC3339", http.StatusBadRequest)
				return
			}
			takenAt = t
		}

		rec, err := svc.Add(r.Context(), userID, AddInput{
			TakenAt:   takenAt,
			Systolic:  req.Systolic,
			Diastolic: req.Diastolic,
			Glycemia:  req.Glycemia,
			HeartRate: req.HeartRate,
			Note:      req.Note,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		if obs != nil {
			obs.RecordAdded(rec)
		}
		writeJSON(w, http.StatusCreated, toRecordResponse(rec))
	}
}

// listRecordsHandler godoc
// @Summary Listar registros
// @Description Lista los registros del usuario, más recientes primero. Sin `filter` no se filtra.
// @Tags records
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param filter query string false "today | last7days | last30days | custom"
// @Param start query string false "Inicio (YYYY-MM-DD), solo custom"
// @Param end query string false "Fin (YYYY-MM-DD), solo custom"
// @Success 200 {array} recordResponse
// @Failure 400 {string} string "Parámetros de filtro inválidos"
// @Failure 401 {string} string "unauthorized"
// @Failure 500 {string} string "internal error"
// @Router /records [get]
func listRecordsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		f, err := FilterFromRequest(r, svc.Now().Location())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		items, err := svc.Query(r.Context(), userID, f)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]recordResponse, 0, len(items))
		for _, rec := range items {
			out = append(out, toRecordResponse(rec))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// deleteRecordHandler godoc
// @Summary Eliminar registro
// @Tags records
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param recordID path string true "ID del registro"
// @Success 204
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "record not found"
// @Router /records/{recordID} [delete]
func deleteRecordHandler(svc *Service, obs Observer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		err := svc.Remove(r.Context(), userID, chi.URLParam(r, "recordID"))
		switch {
		case err == nil:
		case errors.Is(err, ErrNotFound), errors.Is(err, ErrInvalidInput):
			http.Error(w, "record not found", http.StatusNotFound)
			return
		default:
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		if obs != nil {
			obs.RecordsRemoved(1)
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// clearRecordsHandler godoc
// @Summary Borrar todos los registros
// @Description Elimina todos los registros del usuario. No se puede deshacer.
// @Tags records
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Success 200 {object} clearResponse
// @Failure 401 {string} string "unauthorized"
// @Router /records [delete]
func clearRecordsHandler(svc *Service, obs Observer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		n, err := svc.Clear(r.Context(), userID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		if obs != nil && n > 0 {
			obs.RecordsRemoved(n)
		}
		writeJSON(w, http.StatusOK, clearResponse{Deleted: n})
	}
}

// summaryHandler godoc
// @Summary Resumen de promedios
// @Description Promedio del período seleccionado y de los últimos 7 días por métrica. Los 7 días se calculan sobre todos los registros, sin importar el filtro. Un promedio sin datos se devuelve como null.
// @Tags records
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param filter query string false "today | last7days | last30days | custom"
// @Param start query string false "Inicio (YYYY-MM-DD), solo custom"
// @Param end query string false "Fin (YYYY-MM-DD), solo custom"
// @Success 200 {object} summaryResponse
// @Failure 400 {string} string "Parámetros de filtro inválidos"
// @Failure 401 {string} string "unauthorized"
// @Router /records/summary [get]
func summaryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		now := svc.Now()
		f, err := FilterFromRequest(r, now.Location())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		all, err := svc.List(r.Context(), userID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		period := Apply(all, f, now)

		rows := Summarize(period, all, now)
		out := summaryResponse{
			Filter:  Label(f),
			Records: len(period),
			Rows:    make([]summaryRow, 0, len(rows)),
		}
		for _, row := range rows {
			out.Rows = append(out.Rows, summaryRow{
				Field:     row.Field,
				Label:     row.Label,
				Unit:      row.Unit,
				Period:    row.Period,
				Last7Days: row.Last7Days,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// seriesHandler godoc
// @Summary Serie para gráficos
// @Description Puntos de una métrica en orden cronológico, con su banda clínica. Frecuencia cardíaca nunca se marca.
// @Tags records
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param field path string true "glycemia | systolic | diastolic | heart_rate"
// @Param filter query string false "today | last7days | last30days | custom"
// @Success 200 {array} pointResponse
// @Failure 400 {string} string "unknown field / filtro inválido"
// @Failure 401 {string} string "unauthorized"
// @Router /records/series/{field} [get]
func seriesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		field, ok := ParseField(chi.URLParam(r, "field"))
		if !ok {
			http.Error(w, "unknown field", http.StatusBadRequest)
			return
		}

		f, err := FilterFromRequest(r, svc.Now().Location())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		items, err := svc.Query(r.Context(), userID, f)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		points := Series(items, field)
		out := make([]pointResponse, 0, len(points))
		for _, p := range points {
			out = append(out, pointResponse{
				TakenAt:  p.TakenAt,
				Value:    p.Value,
				Band:     p.Band,
				Abnormal: p.Abnormal,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// FilterFromRequest lee filter/start/end de la query.
func FilterFromRequest(r *http.Request, loc *time.Location) (DateFilter, error) {
	q := r.URL.Query()
	return ParseDateFilter(q.Get("filter"), q.Get("start"), q.Get("end"), loc)
}

func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return "", false
	}
	return claims.UserID, true
}

func toRecordResponse(r HealthRecord) recordResponse {
	fl := Flags(r)
	return recordResponse{
		ID:        r.ID,
		TakenAt:   r.TakenAt,
		Systolic:  r.Systolic,
		Diastolic: r.Diastolic,
		Glycemia:  r.Glycemia,
		HeartRate: r.HeartRate,
		Note:      r.Note,
		Abnormal: abnormalFlags{
			BloodPressure: fl.BloodPressure,
			Glycemia:      fl.Glycemia,
		},
		CreatedAt: r.CreatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
