package middleware

import (
	"net/http"
	"time"

	"health-monitor/internal/platform/logger"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// RequestObserver recibe cada request terminado (métricas HTTP). Puede ser nil.
type RequestObserver interface {
	ObserveRequest(method string, status int, elapsed time.Duration)
}

// RequestLog loguea cada request con el request id de chi.
// Debe montarse después de chimw.RequestID.
func RequestLog(log logger.Logger, obs RequestObserver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			elapsed := time.Since(start)

			if obs != nil {
				obs.ObserveRequest(r.Method, status, elapsed)
			}

			fields := map[string]any{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      status,
				"bytes":       ww.BytesWritten(),
				"duration_ms": elapsed.Milliseconds(),
				"request_id":  chimw.GetReqID(r.Context()),
			}
			if status >= http.StatusInternalServerError {
				log.Error("request failed", fields)
				return
			}
			log.Debug("request", fields)
		})
	}
}
