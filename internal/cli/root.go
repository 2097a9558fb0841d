// Package cli implementa healthctl: registro y consulta de mediciones desde la terminal
// contra el mismo storage que usa la API (sqlite local por defecto).
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"health-monitor/internal/adapters/storage"
	"health-monitor/internal/config"
	"health-monitor/internal/domain/records"
	"health-monitor/internal/platform/logger"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const defaultUser = "local"

// app guarda los flags globales; cada comando arma su servicio con withService.
type app struct {
	configPath string
	dbPath     string
	user       string
	noColor    bool
	verbose    bool

	now func() time.Time
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func NewRootCmd() *cobra.Command {
	return newRootCmd(time.Now)
}

func newRootCmd(now func() time.Time) *cobra.Command {
	a := &app{now: now}

	root := &cobra.Command{
		Use:           "healthctl",
		Short:         "healthctl registra presión arterial, glicemia y frecuencia cardíaca",
		Long:          "healthctl es la CLI local de health-monitor: registra mediciones, filtra por período, muestra promedios y exporta reportes PDF/CSV.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if a.noColor {
				color.NoColor = true
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", os.Getenv("HEALTH_CONFIG"), "Path al archivo YAML de configuración")
	pf.StringVar(&a.dbPath, "db", "", "Path a la base SQLite (fuerza storage sqlite)")
	pf.StringVar(&a.user, "user", "", "Usuario dueño de los registros (default: auth.default_user_id o \"local\")")
	pf.BoolVar(&a.noColor, "no-color", false, "Deshabilita colores")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "Logs de depuración en stderr")

	root.AddCommand(
		newAddCmd(a),
		newListCmd(a),
		newRemoveCmd(a),
		newClearCmd(a),
		newSummaryCmd(a),
		newExportCmd(a),
	)
	return root
}

// withService carga config, abre el storage y corre fn con el servicio y el usuario efectivo.
func (a *app) withService(cmd *cobra.Command, fn func(ctx context.Context, svc *records.Service, userID string) error) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	lvl := logger.ParseLevel(cfg.Log.Level)
	if lvl < logger.Warn {
		lvl = logger.Warn
	}
	if a.verbose {
		lvl = logger.Debug
	}
	log := logger.New(logger.Options{
		Level:  lvl,
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    "healthctl",
		Out:    cmd.ErrOrStderr(),
	})

	// la CLI sin storage persistente no tiene sentido
	switch {
	case a.dbPath != "":
		cfg.Storage.Driver = config.DriverSQLite
		cfg.Storage.SQLitePath = a.dbPath
	case cfg.Storage.Driver == config.DriverMemory:
		cfg.Storage.Driver = config.DriverSQLite
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	repo, closeRepo, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeRepo(); err != nil {
			log.Warn("close storage failed", map[string]any{"err": err})
		}
	}()
	log.Debug("storage opened", map[string]any{"driver": cfg.Storage.Driver, "sqlite_path": cfg.Storage.SQLitePath})

	userID := strings.TrimSpace(a.user)
	if userID == "" {
		userID = strings.TrimSpace(cfg.Auth.DefaultUserID)
	}
	if userID == "" {
		userID = defaultUser
	}

	loc := cfg.Location()
	svc := records.NewServiceWithClock(repo, func() time.Time { return a.now().In(loc) })
	return fn(ctx, svc, userID)
}
