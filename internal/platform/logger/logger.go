package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

type Level int32

const (
	Debug Level = iota
	Info
	Warn
	Error
)

func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return Debug
	case "warn", "warning":
		return Warn
	case "error":
		return Error
	default:
		return Info
	}
}

func (l Level) String() string {
	switch l {
	case Debug:
		return "debug"
	case Warn:
		return "warn"
	case Error:
		return "error"
	default:
		return "info"
	}
}

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

func ParseFormat(s string) Format {
	if strings.EqualFold(strings.TrimSpace(s), "json") {
		return FormatJSON
	}
	return FormatText
}

type Logger interface {
	With(fields map[string]any) Logger

	Debug(msg string, fields map[string]any)
	Info(msg string, fields map[string]any)
	Warn(msg string, fields map[string]any)
	Error(msg string, fields map[string]any)
}

// LevelSetter lo implementan los loggers que aceptan cambio de nivel en caliente.
type LevelSetter interface {
	SetLevel(Level)
}

type Options struct {
	Level  Level
	Format Format
	App    string
	Out    io.Writer // default os.Stdout
}

// sink es compartido entre el logger raíz y los derivados con With().
type sink struct {
	mu     sync.Mutex
	out    io.Writer
	level  atomic.Int32
	format Format
	now    func() time.Time
}

// KVLogger escribe una línea key=value (o JSON) por entrada.
type KVLogger struct {
	sink *sink
	base map[string]any
}

func New(opts Options) *KVLogger {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	format := opts.Format
	if format == "" {
		format = FormatText
	}

	s := &sink{out: out, format: format, now: time.Now}
	s.level.Store(int32(opts.Level))

	base := map[string]any{}
	if app := strings.TrimSpace(opts.App); app != "" {
		base["app"] = app
	}
	return &KVLogger{sink: s, base: base}
}

// NewFromEnv crea logger desde env:
// - LOG_LEVEL=debug|info|warn|error (default info)
// - LOG_FORMAT=text|json (default text)
// - APP_NAME (default health-monitor)
func NewFromEnv() *KVLogger {
	app := os.Getenv("APP_NAME")
	if strings.TrimSpace(app) == "" {
		app = "health-monitor"
	}
	return New(Options{
		Level:  ParseLevel(os.Getenv("LOG_LEVEL")),
		Format: ParseFormat(os.Getenv("LOG_FORMAT")),
		App:    app,
	})
}

// Nop descarta todo (tests, CLI silenciosa).
func Nop() *KVLogger {
	return New(Options{Level: Error + 1, Out: io.Discard})
}

func (l *KVLogger) SetLevel(lvl Level) { l.sink.level.Store(int32(lvl)) }

func (l *KVLogger) Level() Level { return Level(l.sink.level.Load()) }

func (l *KVLogger) With(fields map[string]any) Logger {
	if len(fields) == 0 {
		return l
	}
	merged := make(map[string]any, len(l.base)+len(fields))
	for k, v := range l.base {
		merged[k] = v
	}
	for k, v := range fields {
		if strings.TrimSpace(k) == "" {
			continue
		}
		merged[k] = v
	}
	return &KVLogger{sink: l.sink, base: merged}
}

func (l *KVLogger) Debug(msg string, fields map[string]any) { l.log(Debug, msg, fields) }
func (l *KVLogger) Info(msg string, fields map[string]any)  { l.log(Info, msg, fields) }
func (l *KVLogger) Warn(msg string, fields map[string]any)  { l.log(Warn, msg, fields) }
func (l *KVLogger) Error(msg string, fields map[string]any) { l.log(Error, msg, fields) }

func (l *KVLogger) log(lvl Level, msg string, fields map[string]any) {
	if lvl < l.Level() {
		return
	}

	entry := map[string]any{
		"ts":    l.sink.now().Format(time.RFC3339Nano),
		"level": lvl.String(),
		"msg":   msg,
	}
	for k, v := range l.base {
		entry[k] = v
	}
	for k, v := range fields {
		if strings.TrimSpace(k) == "" {
			continue
		}
		if err, ok := v.(error); ok {
			v = err.Error()
		}
		entry[k] = v
	}

	var line string
	if l.sink.format == FormatJSON {
		b, _ := json.Marshal(entry)
		line = string(b)
	} else {
		line = formatText(entry)
	}

	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	_, _ = io.WriteString(l.sink.out, line+"\n")
}

func formatText(m map[string]any) string {
	// keys ordenadas: salida estable en tests
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		v := fmt.Sprintf("%v", m[k])
		if strings.ContainsAny(v, " \t\"=") {
			v = fmt.Sprintf("%q", v)
		}
		parts = append(parts, k+"="+v)
	}
	return strings.Join(parts, " ")
}
