package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultHTTPPort     = 8080
	DefaultReadTimeout  = 5 * time.Second
	DefaultWriteTimeout = 30 * time.Second
	DefaultAppName      = "health-monitor"
	DefaultCollection   = "health_records"
)

const (
	AuthModeDev   = "dev"
	AuthModeToken = "token"
)

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverDocstore = "docstore"
)

type Config struct {
	AppName  string        `yaml:"app_name"`
	Timezone string        `yaml:"timezone"`
	HTTP     HTTPConfig    `yaml:"http"`
	Log      LogConfig     `yaml:"log"`
	Auth     AuthConfig    `yaml:"auth"`
	Storage  StorageConfig `yaml:"storage"`
}

type HTTPConfig struct {
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// Escrituras por segundo del proceso; 0 = sin límite.
	WriteRateLimit float64 `yaml:"write_rate_limit"`
	WriteBurst     int     `yaml:"write_burst"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type AuthConfig struct {
	Mode string `yaml:"mode"`

	// Solo modo dev: usuario cuando no viene X-Debug-User-ID.
	DefaultUserID string `yaml:"default_user_id"`

	// Solo modo token.
	BaseURL      string        `yaml:"base_url"`
	APIKeyEnv    string        `yaml:"api_key_env"`
	APIKeyHeader string        `yaml:"api_key_header"`
	Timeout      time.Duration `yaml:"timeout"`
}

// APIKey resuelve la API key desde el entorno.
func (a AuthConfig) APIKey() string {
	if a.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(a.APIKeyEnv)
}

type StorageConfig struct {
	Driver     string         `yaml:"driver"`
	SQLitePath string         `yaml:"sqlite_path"`
	DSNEnv     string         `yaml:"dsn_env"`
	Docstore   DocstoreConfig `yaml:"docstore"`
}

// DSN resuelve el DSN de Postgres desde el entorno (default DB_DSN).
func (s StorageConfig) DSN() string {
	env := s.DSNEnv
	if env == "" {
		env = "DB_DSN"
	}
	return os.Getenv(env)
}

type DocstoreConfig struct {
	BaseURL    string        `yaml:"base_url"`
	Collection string        `yaml:"collection"`
	APIKeyEnv  string        `yaml:"api_key_env"`
	Timeout    time.Duration `yaml:"timeout"`
}

func (d DocstoreConfig) APIKey() string {
	if d.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(d.APIKeyEnv)
}

// Location devuelve la zona configurada (default: local del proceso).
func (c *Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// Load lee path (puede ser "") y devuelve la configuración efectiva.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse yaml: %w", err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// DefaultSQLitePath es ~/.health-monitor/health.db (o relativo si no hay HOME).
func DefaultSQLitePath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".health-monitor", "health.db")
	}
	return filepath.Join(home, ".health-monitor", "health.db")
}

func defaults() *Config {
	return &Config{
		AppName: DefaultAppName,
		HTTP: HTTPConfig{
			Port:         DefaultHTTPPort,
			ReadTimeout:  DefaultReadTimeout,
			WriteTimeout: DefaultWriteTimeout,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Auth: AuthConfig{
			Mode: AuthModeDev,
		},
		Storage: StorageConfig{
			Driver:     DriverMemory,
			SQLitePath: DefaultSQLitePath(),
			Docstore: DocstoreConfig{
				Collection: DefaultCollection,
			},
		},
	}
}

func applyEnv(cfg *Config) error {
	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PORT %q is not a number", v)
		}
		cfg.HTTP.Port = p
	}
	if v := strings.TrimSpace(os.Getenv("LOG_LEVEL")); v != "" {
		cfg.Log.Level = v
	}
	if v := strings.TrimSpace(os.Getenv("LOG_FORMAT")); v != "" {
		cfg.Log.Format = v
	}
	if v := strings.TrimSpace(os.Getenv("APP_NAME")); v != "" {
		cfg.AppName = v
	}
	if v := strings.TrimSpace(os.Getenv("STORAGE_DRIVER")); v != "" {
		cfg.Storage.Driver = v
	} else if cfg.Storage.Driver == DriverMemory && cfg.Storage.DSN() != "" {
		// compat: DB_DSN solo alcanzaba para usar Postgres
		cfg.Storage.Driver = DriverPostgres
	}
	if v := strings.TrimSpace(os.Getenv("HEALTH_USER")); v != "" {
		cfg.Auth.DefaultUserID = v
	}
	return nil
}

func validate(cfg *Config) error {
	if cfg.HTTP.Port <= 0 || cfg.HTTP.Port > 65535 {
		return fmt.Errorf("http.port %d is out of range [1, 65535]", cfg.HTTP.Port)
	}
	if cfg.HTTP.ReadTimeout < 0 || cfg.HTTP.WriteTimeout < 0 {
		return fmt.Errorf("http timeouts must not be negative")
	}
	if cfg.HTTP.WriteRateLimit < 0 {
		return fmt.Errorf("http.write_rate_limit must not be negative")
	}

	switch cfg.Auth.Mode {
	case AuthModeDev:
	case AuthModeToken:
		if strings.TrimSpace(cfg.Auth.BaseURL) == "" {
			return fmt.Errorf("auth.base_url is required when auth.mode is token")
		}
	default:
		return fmt.Errorf("auth.mode %q unknown: want dev|token", cfg.Auth.Mode)
	}

	switch cfg.Storage.Driver {
	case DriverMemory:
	case DriverSQLite:
		if strings.TrimSpace(cfg.Storage.SQLitePath) == "" {
			return fmt.Errorf("storage.sqlite_path is required for sqlite")
		}
	case DriverPostgres:
		if cfg.Storage.DSN() == "" {
			return fmt.Errorf("storage.driver postgres needs a DSN in the environment")
		}
	case DriverDocstore:
		if strings.TrimSpace(cfg.Storage.Docstore.BaseURL) == "" {
			return fmt.Errorf("storage.docstore.base_url is required for docstore")
		}
	default:
		return fmt.Errorf("storage.driver %q unknown: want memory|sqlite|postgres|docstore", cfg.Storage.Driver)
	}

	if cfg.Timezone != "" {
		if _, err := time.LoadLocation(cfg.Timezone); err != nil {
			return fmt.Errorf("timezone %q: %w", cfg.Timezone, err)
		}
	}
	return nil
}
