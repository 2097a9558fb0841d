package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"health-monitor/internal/adapters/auth/tokenapi"
	"health-monitor/internal/adapters/storage"
	"health-monitor/internal/config"
	"health-monitor/internal/platform/logger"
	"health-monitor/internal/platform/metrics"
	"health-monitor/internal/ports/auth"
	"health-monitor/internal/router"

	"golang.org/x/sync/errgroup"
)

// @title Health Monitor API
// @version 1.0
// @description Registro personal de presión arterial, glicemia y frecuencia cardíaca: filtros por período, promedios, valores fuera de rango y reportes.
// @BasePath /
func main() {
	configPath := flag.String("config", os.Getenv("HEALTH_CONFIG"), "path al archivo YAML de configuración (opcional)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    cfg.AppName,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeRepo, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer func() {
		if err := closeRepo(); err != nil {
			log.Error("close storage failed", map[string]any{"err": err})
		}
	}()

	var verifier auth.AuthVerifier
	if cfg.Auth.Mode == config.AuthModeToken {
		v, err := tokenapi.New(tokenapi.Config{
			BaseURL:      cfg.Auth.BaseURL,
			APIKey:       cfg.Auth.APIKey(),
			APIKeyHeader: cfg.Auth.APIKeyHeader,
			Timeout:      cfg.Auth.Timeout,
		})
		if err != nil {
			return fmt.Errorf("token verifier: %w", err)
		}
		verifier = v
	}

	loc := cfg.Location()
	h := router.NewRouter(router.Options{
		AuthVerifier:   verifier, // nil => modo dev
		DefaultUserID:  cfg.Auth.DefaultUserID,
		Repo:           repo,
		Logger:         log,
		Metrics:        metrics.New(),
		Now:            func() time.Time { return time.Now().In(loc) },
		WriteRateLimit: cfg.HTTP.WriteRateLimit,
		WriteBurst:     cfg.HTTP.WriteBurst,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      h,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting server", map[string]any{
			"addr":    srv.Addr,
			"storage": cfg.Storage.Driver,
			"auth":    cfg.Auth.Mode,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info("shutting down", nil)
		return srv.Shutdown(shutdownCtx)
	})

	// Solo el nivel de log se aplica en caliente; el resto requiere reinicio.
	if configPath != "" {
		g.Go(func() error {
			err := config.Watch(gctx, configPath, log, func(next *config.Config) {
				lvl := logger.ParseLevel(next.Log.Level)
				if lvl != log.Level() {
					log.SetLevel(lvl)
					log.Info("log level changed", map[string]any{"level": lvl.String()})
				}
			})
			if err != nil {
				// sin watcher el server sigue; no es motivo para bajarlo
				log.Warn("config watch disabled", map[string]any{"path": configPath, "err": err})
			}
			return nil
		})
	}

	return g.Wait()
}
