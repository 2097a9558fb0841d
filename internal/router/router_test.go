package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"health-monitor/internal/router"
)

var fixedNow = time.Date(2024, 1, 15, 14, 0, 0, 0, time.UTC)

func newServer(t *testing.T, opts router.Options) *httptest.Server {
	t.Helper()
	if opts.Now == nil {
		opts.Now = func() time.Time { return fixedNow }
	}
	ts := httptest.NewServer(router.NewRouter(opts))
	t.Cleanup(ts.Close)
	return ts
}

func TestHTTP_EndToEnd_RecordsSummaryAndReports(t *testing.T) {
	ts := newServer(t, router.Options{})

	userID := "user-1"
	otherID := "user-2"

	// 1) Registros: presión fuera de rango hoy, glicemia alta hace 5 días, una vieja
	bpID := createRecord(t, ts.URL, userID, map[string]any{
		"taken_at":  "2024-01-15T08:00:00Z",
		"systolic":  85,
		"diastolic": 95,
	})
	createRecord(t, ts.URL, userID, map[string]any{
		"taken_at": "2024-01-10T08:00:00Z",
		"glycemia": 181,
	})
	createRecord(t, ts.URL, userID, map[string]any{
		"taken_at": "2023-12-01T08:00:00Z",
		"glycemia": 100,
		"note":     "fasting",
	})

	// 2) Sin filtro: todos, más recientes primero
	{
		st, body := doReq(t, ts.URL, "GET", "/records", userID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list, got %d body=%s", st, string(body))
		}
		var items []map[string]any
		_ = json.Unmarshal(body, &items)
		if len(items) != 3 {
			t.Fatalf("expected 3 records, got %d", len(items))
		}
		if items[0]["id"] != bpID {
			t.Fatalf("expected newest first, got %v", items[0]["id"])
		}
		abn, _ := items[0]["abnormal"].(map[string]any)
		if abn["blood_pressure"] != true {
			t.Fatalf("expected 85/95 flagged, got %v", items[0]["abnormal"])
		}
	}

	// 3) Hoy: solo la presión
	{
		st, body := doReq(t, ts.URL, "GET", "/records?filter=today", userID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 today, got %d body=%s", st, string(body))
		}
		var items []map[string]any
		_ = json.Unmarshal(body, &items)
		if len(items) != 1 {
			t.Fatalf("expected 1 record today, got %d", len(items))
		}
	}

	// 4) Rango invertido: vacío, no error
	{
		st, body := doReq(t, ts.URL, "GET", "/records?filter=custom&start=2024-01-10&end=2024-01-05", userID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 inverted range, got %d body=%s", st, string(body))
		}
		if strings.TrimSpace(string(body)) != "[]" {
			t.Fatalf("expected empty list, got %s", string(body))
		}
	}

	// 5) Otro usuario no ve nada
	{
		st, body := doReq(t, ts.URL, "GET", "/records", otherID, nil)
		if st != http.StatusOK || strings.TrimSpace(string(body)) != "[]" {
			t.Fatalf("expected empty list for other user, got %d body=%s", st, string(body))
		}
	}

	// 6) Resumen
	{
		st, body := doReq(t, ts.URL, "GET", "/records/summary", userID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 summary, got %d body=%s", st, string(body))
		}
		var resp struct {
			Records int `json:"records"`
			Rows    []struct {
				Field     string   `json:"field"`
				Period    *float64 `json:"period"`
				Last7Days *float64 `json:"last_7_days"`
			} `json:"rows"`
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			t.Fatalf("decode summary: %v", err)
		}
		if resp.Records != 3 || len(resp.Rows) != 4 {
			t.Fatalf("unexpected summary shape: %s", string(body))
		}
		gly := resp.Rows[0]
		if gly.Field != "glycemia" || gly.Period == nil || *gly.Period != 140.5 {
			t.Fatalf("expected glycemia period 140.5, got %s", string(body))
		}
		if gly.Last7Days == nil || *gly.Last7Days != 181 {
			t.Fatalf("expected glycemia last_7_days 181, got %s", string(body))
		}
		hr := resp.Rows[3]
		if hr.Field != "heart_rate" || hr.Period != nil {
			t.Fatalf("expected heart_rate average absent, got %s", string(body))
		}
	}

	// 7) Serie cronológica con banda
	{
		st, body := doReq(t, ts.URL, "GET", "/records/series/glycemia", userID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 series, got %d body=%s", st, string(body))
		}
		var points []struct {
			Value    float64 `json:"value"`
			Band     string  `json:"band"`
			Abnormal bool    `json:"abnormal"`
		}
		_ = json.Unmarshal(body, &points)
		if len(points) != 2 || points[0].Value != 100 || points[1].Value != 181 {
			t.Fatalf("expected ascending glycemia series, got %s", string(body))
		}
		if points[0].Abnormal || !points[1].Abnormal || points[1].Band != "high" {
			t.Fatalf("unexpected bands: %s", string(body))
		}
	}

	// 8) Reportes
	{
		res := rawReq(t, ts.URL+"/reports/pdf", userID)
		if res.code != http.StatusOK || res.contentType != "application/pdf" {
			t.Fatalf("expected 200 pdf, got %d %q", res.code, res.contentType)
		}
		if !bytes.HasPrefix(res.body, []byte("%PDF-")) {
			t.Fatalf("expected a pdf document")
		}
		if !strings.Contains(res.disposition, "health-report.pdf") {
			t.Fatalf("unexpected content-disposition %q", res.disposition)
		}
	}
	{
		res := rawReq(t, ts.URL+"/reports/csv?filter=today", userID)
		if res.code != http.StatusOK {
			t.Fatalf("expected 200 csv, got %d", res.code)
		}
		lines := strings.Split(strings.TrimSpace(string(res.body)), "\n")
		if len(lines) != 2 {
			t.Fatalf("expected header + 1 row, got %q", string(res.body))
		}
		if !strings.Contains(lines[1], "85/95") {
			t.Fatalf("expected blood pressure row, got %q", lines[1])
		}
	}

	// 9) Borrar: otro usuario no puede, dueño sí
	{
		st, _ := doReq(t, ts.URL, "DELETE", "/records/"+bpID, otherID, nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 delete by other user, got %d", st)
		}
		st, body := doReq(t, ts.URL, "DELETE", "/records/"+bpID, userID, nil)
		if st != http.StatusNoContent {
			t.Fatalf("expected 204 delete, got %d body=%s", st, string(body))
		}
		st, _ = doReq(t, ts.URL, "DELETE", "/records/"+bpID, userID, nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 second delete, got %d", st)
		}
	}

	// 10) Borrar todo
	{
		st, body := doReq(t, ts.URL, "DELETE", "/records", userID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 clear, got %d body=%s", st, string(body))
		}
		var resp struct {
			Deleted int `json:"deleted"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.Deleted != 2 {
			t.Fatalf("expected 2 deleted, got %d", resp.Deleted)
		}
	}

	// 11) Métricas
	{
		st, body := doReq(t, ts.URL, "GET", "/metrics", "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 metrics, got %d", st)
		}
		for _, want := range []string{
			"healthmon_records_added_total 3",
			"healthmon_records_removed_total 3",
			`healthmon_abnormal_readings_total{metric="blood_pressure"} 1`,
			`healthmon_abnormal_readings_total{metric="glycemia"} 1`,
		} {
			if !strings.Contains(string(body), want) {
				t.Fatalf("metrics missing %q:\n%s", want, string(body))
			}
		}
	}
}

func TestHTTP_SummaryLast7DaysIgnoresFilter(t *testing.T) {
	ts := newServer(t, router.Options{})
	userID := "user-1"

	createRecord(t, ts.URL, userID, map[string]any{"taken_at": "2024-01-14T08:00:00Z", "glycemia": 100})
	createRecord(t, ts.URL, userID, map[string]any{"taken_at": "2024-01-01T08:00:00Z", "glycemia": 200})

	type row struct {
		Field     string   `json:"field"`
		Period    *float64 `json:"period"`
		Last7Days *float64 `json:"last_7_days"`
	}
	summary := func(query string) (int, row) {
		t.Helper()
		st, body := doReq(t, ts.URL, "GET", "/records/summary"+query, userID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 summary%s, got %d body=%s", query, st, string(body))
		}
		var resp struct {
			Records int   `json:"records"`
			Rows    []row `json:"rows"`
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			t.Fatalf("decode summary: %v", err)
		}
		if len(resp.Rows) == 0 || resp.Rows[0].Field != "glycemia" {
			t.Fatalf("unexpected summary shape: %s", string(body))
		}
		return resp.Records, resp.Rows[0]
	}

	n, gly := summary("?filter=custom&start=2024-01-01&end=2024-01-02")
	if n != 1 || gly.Period == nil || *gly.Period != 200 {
		t.Fatalf("expected period average 200 over 1 record, got records=%d period=%v", n, gly.Period)
	}
	if gly.Last7Days == nil || *gly.Last7Days != 100 {
		t.Fatalf("expected last_7_days 100 regardless of filter, got %v", gly.Last7Days)
	}

	n, gly = summary("?filter=today")
	if n != 0 || gly.Period != nil {
		t.Fatalf("expected empty period today, got records=%d period=%v", n, gly.Period)
	}
	if gly.Last7Days == nil || *gly.Last7Days != 100 {
		t.Fatalf("expected last_7_days 100 with today filter, got %v", gly.Last7Days)
	}
}

func TestHTTP_CreateRejectsOversizedBody(t *testing.T) {
	ts := newServer(t, router.Options{})

	st, _ := doReq(t, ts.URL, "POST", "/records", "u", map[string]any{
		"glycemia": 90,
		"note":     strings.Repeat("x", 70<<10),
	})
	if st != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413 for oversized body, got %d", st)
	}

	st, body := doReq(t, ts.URL, "GET", "/records", "u", nil)
	if st != http.StatusOK || strings.TrimSpace(string(body)) != "[]" {
		t.Fatalf("expected nothing stored, got %d body=%s", st, string(body))
	}
}

func TestHTTP_RejectsBadInput(t *testing.T) {
	ts := newServer(t, router.Options{})

	cases := []struct {
		name   string
		method string
		path   string
		user   string
		body   any
		want   int
	}{
		{"no user", "GET", "/records", "", nil, http.StatusUnauthorized},
		{"no user on reports", "GET", "/reports/pdf", "", nil, http.StatusUnauthorized},
		{"unknown filter", "GET", "/records?filter=yesterday", "u", nil, http.StatusBadRequest},
		{"bad custom date", "GET", "/records/summary?filter=custom&start=2024-13-01&end=2024-01-02", "u", nil, http.StatusBadRequest},
		{"unknown series field", "GET", "/records/series/weight", "u", nil, http.StatusBadRequest},
		{"empty record", "POST", "/records", "u", map[string]any{}, http.StatusBadRequest},
		{"negative reading", "POST", "/records", "u", map[string]any{"glycemia": -5}, http.StatusBadRequest},
		{"bad taken_at", "POST", "/records", "u", map[string]any{"glycemia": 90, "taken_at": "yesterday"}, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st, body := doReq(t, ts.URL, tc.method, tc.path, tc.user, tc.body)
			if st != tc.want {
				t.Fatalf("expected %d, got %d body=%s", tc.want, st, string(body))
			}
		})
	}
}

func TestHTTP_DefaultUserInDevMode(t *testing.T) {
	ts := newServer(t, router.Options{DefaultUserID: "local"})

	createRecord(t, ts.URL, "", map[string]any{"heart_rate": 72})

	st, body := doReq(t, ts.URL, "GET", "/records", "local", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200, got %d", st)
	}
	var items []map[string]any
	_ = json.Unmarshal(body, &items)
	if len(items) != 1 {
		t.Fatalf("expected record stored under default user, got %s", string(body))
	}
}

func TestHTTP_WriteRateLimit(t *testing.T) {
	ts := newServer(t, router.Options{WriteRateLimit: 0.001, WriteBurst: 1})

	createRecord(t, ts.URL, "u", map[string]any{"glycemia": 90})

	st, _ := doReq(t, ts.URL, "POST", "/records", "u", map[string]any{"glycemia": 91})
	if st != http.StatusTooManyRequests {
		t.Fatalf("expected 429 on second write, got %d", st)
	}

	// lecturas no se limitan
	st, _ = doReq(t, ts.URL, "GET", "/records", "u", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 read, got %d", st)
	}
}

func TestHTTP_HealthAndSwagger(t *testing.T) {
	ts := newServer(t, router.Options{})

	st, body := doReq(t, ts.URL, "GET", "/health", "", nil)
	if st != http.StatusOK || string(body) != "ok" {
		t.Fatalf("expected 200 ok, got %d %q", st, string(body))
	}

	st, body = doReq(t, ts.URL, "GET", "/swagger/doc.json", "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 swagger doc, got %d", st)
	}
	if !strings.Contains(string(body), "Health Monitor API") {
		t.Fatalf("unexpected swagger doc: %s", string(body))
	}
}

func createRecord(t *testing.T, baseURL, userID string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/records", userID, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create record, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("create record: missing id body=%s", string(body))
	}
	return resp.ID
}

type rawResponse struct {
	code        int
	contentType string
	disposition string
	body        []byte
}

func rawReq(t *testing.T, url, debugUserID string) rawResponse {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("X-Debug-User-ID", debugUserID)

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	body, _ := io.ReadAll(res.Body)
	return rawResponse{
		code:        res.StatusCode,
		contentType: res.Header.Get("Content-Type"),
		disposition: res.Header.Get("Content-Disposition"),
		body:        body,
	}
}

func doReq(t *testing.T, baseURL, method, path, debugUserID string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if debugUserID != "" {
		req.Header.Set("X-Debug-User-ID", debugUserID)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
