package metrics

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"health-monitor/internal/domain/records"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, b []byte) map[string]*dto.MetricFamily {
	t.Helper()
	var p expfmt.TextParser
	mfs, err := p.TextToMetricFamilies(bytes.NewReader(b))
	require.NoError(t, err)
	return mfs
}

func labelValue(m *dto.Metric, name string) string {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}

func TestRegistry_CountsRecordsAndAbnormalReadings(t *testing.T) {
	reg := New()
	reg.RecordAdded(records.HealthRecord{Systolic: records.Float(85), Diastolic: records.Float(95)})
	reg.RecordAdded(records.HealthRecord{Glycemia: records.Float(181)})
	reg.RecordAdded(records.HealthRecord{Glycemia: records.Float(180)})
	reg.RecordsRemoved(2)
	reg.RecordsRemoved(0)

	var buf bytes.Buffer
	require.NoError(t, reg.Write(&buf))
	mfs := parse(t, buf.Bytes())

	assert.Equal(t, 3.0, mfs["healthmon_records_added_total"].GetMetric()[0].GetCounter().GetValue())
	assert.Equal(t, 2.0, mfs["healthmon_records_removed_total"].GetMetric()[0].GetCounter().GetValue())

	byMetric := map[string]float64{}
	for _, m := range mfs["healthmon_abnormal_readings_total"].GetMetric() {
		byMetric[labelValue(m, "metric")] = m.GetCounter().GetValue()
	}
	assert.Equal(t, map[string]float64{"blood_pressure": 1, "glycemia": 1}, byMetric)

	_, ok := mfs["healthmon_http_requests_total"]
	assert.False(t, ok, "no http family before any request")
}

func TestRegistry_HandlerExposesHTTPRequests(t *testing.T) {
	reg := New()
	reg.ObserveRequest(http.MethodGet, 200, 10*time.Millisecond)
	reg.ObserveRequest(http.MethodGet, 200, 30*time.Millisecond)
	reg.ObserveRequest(http.MethodPost, 400, time.Millisecond)

	rec := httptest.NewRecorder()
	reg.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")

	mfs := parse(t, rec.Body.Bytes())
	reqs := mfs["healthmon_http_requests_total"].GetMetric()
	require.Len(t, reqs, 2)
	assert.Equal(t, "GET", labelValue(reqs[0], "method"))
	assert.Equal(t, "200", labelValue(reqs[0], "code"))
	assert.Equal(t, 2.0, reqs[0].GetCounter().GetValue())
	assert.InDelta(t, 0.04, mfs["healthmon_http_request_seconds_total"].GetMetric()[0].GetCounter().GetValue(), 1e-9)
}
