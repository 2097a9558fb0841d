// Package metrics lleva contadores del proceso y los expone en formato texto de Prometheus.
package metrics

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"health-monitor/internal/domain/records"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"google.golang.org/protobuf/proto"
)

const namespace = "healthmon"

type requestKey struct {
	method string
	code   int
}

// Registry implementa records.Observer y middleware.RequestObserver.
type Registry struct {
	added         atomic.Uint64
	removed       atomic.Uint64
	abnormalBP    atomic.Uint64
	abnormalGlyc  atomic.Uint64
	mu            sync.Mutex
	requests      map[requestKey]uint64
	requestsNanos map[requestKey]int64
}

func New() *Registry {
	return &Registry{
		requests:      map[requestKey]uint64{},
		requestsNanos: map[requestKey]int64{},
	}
}

func (m *Registry) RecordAdded(r records.HealthRecord) {
	m.added.Add(1)
	fl := records.Flags(r)
	if fl.BloodPressure {
		m.abnormalBP.Add(1)
	}
	if fl.Glycemia {
		m.abnormalGlyc.Add(1)
	}
}

func (m *Registry) RecordsRemoved(n int) {
	if n > 0 {
		m.removed.Add(uint64(n))
	}
}

func (m *Registry) ObserveRequest(method string, status int, elapsed time.Duration) {
	k := requestKey{method: method, code: status}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests[k]++
	m.requestsNanos[k] += elapsed.Nanoseconds()
}

// Families arma el snapshot actual como metric families (orden estable).
func (m *Registry) Families() []*dto.MetricFamily {
	out := []*dto.MetricFamily{
		counterFamily("records_added_total", "Health records created.",
			counter(float64(m.added.Load()))),
		counterFamily("records_removed_total", "Health records deleted (single or bulk).",
			counter(float64(m.removed.Load()))),
		counterFamily("abnormal_readings_total", "Created records flagged outside the clinical reference band.",
			counter(float64(m.abnormalBP.Load()), "metric", "blood_pressure"),
			counter(float64(m.abnormalGlyc.Load()), "metric", "glycemia")),
	}

	m.mu.Lock()
	keys := make([]requestKey, 0, len(m.requests))
	for k := range m.requests {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].method != keys[j].method {
			return keys[i].method < keys[j].method
		}
		return keys[i].code < keys[j].code
	})
	counts := make([]*dto.Metric, 0, len(keys))
	secs := make([]*dto.Metric, 0, len(keys))
	for _, k := range keys {
		code := strconv.Itoa(k.code)
		counts = append(counts, counter(float64(m.requests[k]), "method", k.method, "code", code))
		secs = append(secs, counter(time.Duration(m.requestsNanos[k]).Seconds(), "method", k.method, "code", code))
	}
	m.mu.Unlock()

	if len(counts) > 0 {
		out = append(out,
			counterFamily("http_requests_total", "HTTP requests served.", counts...),
			counterFamily("http_request_seconds_total", "Cumulative time spent serving HTTP requests.", secs...),
		)
	}
	return out
}

// Write codifica las familias en el formato texto de exposición.
func (m *Registry) Write(w io.Writer) error {
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range m.Families() {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("metrics: encode %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

// Handler sirve GET /metrics.
func (m *Registry) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", string(expfmt.NewFormat(expfmt.TypeTextPlain)))
		_ = m.Write(w)
	})
}

func counterFamily(name, help string, ms ...*dto.Metric) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name:   proto.String(namespace + "_" + name),
		Help:   proto.String(help),
		Type:   dto.MetricType_COUNTER.Enum(),
		Metric: ms,
	}
}

// counter arma una serie con pares label/valor.
func counter(v float64, labels ...string) *dto.Metric {
	m := &dto.Metric{Counter: &dto.Counter{Value: proto.Float64(v)}}
	for i := 0; i+1 < len(labels); i += 2 {
		m.Label = append(m.Label, &dto.LabelPair{
			Name:  proto.String(labels[i]),
			Value: proto.String(labels[i+1]),
		})
	}
	return m
}
