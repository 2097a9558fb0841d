package report

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"health-monitor/internal/domain/records"
	"health-monitor/internal/middleware"
	"health-monitor/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *records.Service, log logger.Logger) {
	r.Route("/reports", func(rr chi.Router) {
		rr.Get("/pdf", exportHandler(svc, log, "application/pdf", "health-report.pdf", RenderPDF))
		rr.Get("/csv", exportHandler(svc, log, "text/csv; charset=utf-8", "health-report.csv", RenderCSV))
	})
}

// exportHandler godoc
// @Summary Exportar reporte
// @Description Genera el reporte del usuario: resumen (promedio general y de 7 días sobre todos los registros) y tabla de registros del período pedido, con valores fuera de rango resaltados.
// @Tags reports
// @Produce application/pdf
// @Produce text/csv
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param filter query string false "today | last7days | last30days | custom"
// @Param start query string false "Inicio (YYYY-MM-DD), solo custom"
// @Param end query string false "Fin (YYYY-MM-DD), solo custom"
// @Success 200 {file} file
// @Failure 400 {string} string "Parámetros de filtro inválidos"
// @Failure 401 {string} string "unauthorized"
// @Failure 500 {string} string "internal error"
// @Router /reports/pdf [get]
// @Router /reports/csv [get]
func exportHandler(svc *records.Service, log logger.Logger, contentType, filename string, render func(io.Writer, Report) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		now := svc.Now()
		f, err := records.FilterFromRequest(r, now.Location())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		all, err := svc.List(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		// render a buffer: un error a mitad no debe dejar un 200 truncado
		var buf bytes.Buffer
		if err := render(&buf, Build(all, f, now)); err != nil {
			log.Error("report render failed", map[string]any{"err": err, "format": filename})
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(buf.Bytes())
	}
}
