// Package config carga la configuración de health-monitor desde un YAML opcional
// más overrides por variables de entorno.
//
// Campos principales:
//   - http.port / http.read_timeout / http.write_timeout
//   - http.write_rate_limit, http.write_burst: límite de escrituras por proceso
//   - log.level, log.format: ver platform/logger
//   - auth.mode: "dev" (X-Debug-User-ID / default_user_id) o "token"
//   - storage.driver: memory | sqlite | postgres | docstore
//   - timezone: zona para los límites de día de los filtros
//
// Env: PORT, LOG_LEVEL, LOG_FORMAT, APP_NAME, DB_DSN, STORAGE_DRIVER, HEALTH_USER.
// Load(path) aplica defaults, luego YAML, luego env, y valida.
package config
