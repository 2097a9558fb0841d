package router

import (
	"net/http"
	"time"

	_ "health-monitor/internal/docs"

	mem "health-monitor/internal/adapters/storage/memory"
	"health-monitor/internal/domain/records"
	"health-monitor/internal/middleware"
	"health-monitor/internal/platform/logger"
	"health-monitor/internal/platform/metrics"
	"health-monitor/internal/ports/auth"
	"health-monitor/internal/report"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Solo modo dev: usuario cuando no viene X-Debug-User-ID.
	DefaultUserID string

	// Opcional: si no viene, in-memory.
	Repo records.Repository

	Logger  logger.Logger     // default Nop
	Metrics *metrics.Registry // default uno nuevo

	// Reloj de los filtros por fecha; default time.Now (zona local).
	Now func() time.Time

	WriteRateLimit float64
	WriteBurst     int
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	reg := opts.Metrics
	if reg == nil {
		reg = metrics.New()
	}
	repo := opts.Repo
	if repo == nil {
		repo = mem.NewRecordRepo()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLog(log, reg))
	r.Use(chimw.Recoverer)
	r.Use(middleware.RateLimit(opts.WriteRateLimit, opts.WriteBurst))

	r.Use(middleware.AuthContext(opts.AuthVerifier, opts.DefaultUserID))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", reg.Handler())
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	svc := records.NewServiceWithClock(repo, opts.Now)

	// Rutas por módulo
	records.RegisterRoutes(r, svc, reg)
	report.RegisterRoutes(r, svc, log.With(map[string]any{"component": "report"}))

	return r
}
