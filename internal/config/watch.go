package config

import (
	"context"
	"fmt"
	"path/filepath"

	"health-monitor/internal/platform/logger"

	"github.com/fsnotify/fsnotify"
)

// reloadOps son los eventos que pueden dejar contenido nuevo en el archivo.
// Rename/Create cubren editores que guardan escribiendo un temporal y renombrándolo.
const reloadOps = fsnotify.Write | fsnotify.Create | fsnotify.Rename

// Watch observa el directorio de path (no el archivo: un rename lo reemplaza y se
// perdería el watch) y llama onChange con cada config recargada que valida.
// Una recarga inválida se loguea y se ignora. Corre hasta que ctx se cancela.
func Watch(ctx context.Context, path string, log logger.Logger, onChange func(*Config)) error {
	target, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("config: watch %q: %w", path, err)
	}
	target = filepath.Clean(target)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config: watch %q: %w", path, err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("config: watch %q: %w", path, err)
	}
	log.Info("config watch started", map[string]any{"path": target})

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || ev.Op&reloadOps == 0 {
				continue
			}

			next, err := Load(target)
			if err != nil {
				// Rename del archivo viejo: todavía no existe el nuevo
				log.Warn("config reload skipped", map[string]any{"path": target, "op": ev.Op.String(), "err": err})
				continue
			}
			log.Info("config reloaded", map[string]any{"path": target, "op": ev.Op.String()})
			onChange(next)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Error("config watch error", map[string]any{"err": err})
		}
	}
}
