package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 1, 15, 14, 0, 0, 0, time.UTC)

type harness struct {
	t      *testing.T
	db     string
	config string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	color.NoColor = true
	for _, k := range []string{"HEALTH_CONFIG", "STORAGE_DRIVER", "DB_DSN", "HEALTH_USER", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("timezone: UTC\n"), 0o600))

	return &harness{t: t, db: filepath.Join(dir, "health.db"), config: cfgPath}
}

// run ejecuta healthctl con un root nuevo (los flags no se comparten entre corridas).
func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	root := newRootCmd(func() time.Time { return fixedNow })

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", h.config, "--db", h.db}, args...))

	err := root.Execute()
	return out.String(), err
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, err := h.run(args...)
	require.NoError(h.t, err, out)
	return out
}

var idPattern = regexp.MustCompile(`Added record (\S+)`)

func TestAddAndList(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("add", "--systolic", "85", "--diastolic", "95", "--at", "2024-01-15 08:00")
	assert.Contains(t, out, "blood pressure outside normal range")

	out = h.mustRun("add", "--glycemia", "100", "--at", "2023-12-01", "--note", "fasting")
	assert.NotContains(t, out, "outside normal range")

	out = h.mustRun("list")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4, out)
	assert.Contains(t, lines[1], "2024-01-15 08:00")
	assert.Contains(t, lines[1], "85/95")
	assert.Contains(t, lines[2], "fasting")
	assert.Contains(t, lines[3], "2 record(s), All records")

	out = h.mustRun("list", "--filter", "today")
	assert.Contains(t, out, "1 record(s), Today")

	out = h.mustRun("list", "--from", "2024-01-10", "--to", "2024-01-05")
	assert.Contains(t, out, "No records (10/01/2024 – 05/01/2024)")
}

func TestAddRejectsEmptyAndInvalid(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("add")
	assert.Error(t, err)

	_, err = h.run("add", "--glycemia", "0")
	assert.Error(t, err)

	_, err = h.run("add", "--glycemia", "90", "--at", "yesterday")
	assert.Error(t, err)
}

func TestUsersAreIsolated(t *testing.T) {
	h := newHarness(t)

	h.mustRun("--user", "ana", "add", "--heart-rate", "72")

	out := h.mustRun("--user", "bruno", "list")
	assert.Contains(t, out, "No records")

	out = h.mustRun("--user", "ana", "list")
	assert.Contains(t, out, "1 record(s)")
}

func TestSummary(t *testing.T) {
	h := newHarness(t)

	h.mustRun("add", "--glycemia", "181", "--at", "2024-01-12 09:00")
	h.mustRun("add", "--glycemia", "100", "--at", "2023-12-26 09:00")

	out := h.mustRun("summary")
	assert.Contains(t, out, "All records (2 record(s))")
	assert.Regexp(t, `Glycemia\s+mg/dL\s+140\.5\s+181\.0`, out)
	assert.Regexp(t, `Heart rate\s+bpm\s+-\s+-`, out)

	// el período sigue al filtro; los 7 días, a todos los registros
	out = h.mustRun("summary", "--from", "2023-12-20", "--to", "2023-12-31")
	assert.Contains(t, out, "20/12/2023 – 31/12/2023 (1 record(s))")
	assert.Regexp(t, `Glycemia\s+mg/dL\s+100\.0\s+181\.0`, out)

	out = h.mustRun("summary", "--filter", "today")
	assert.Regexp(t, `Glycemia\s+mg/dL\s+-\s+181\.0`, out)

	_, err := h.run("summary", "--filter", "yesterday")
	assert.Error(t, err)
}

func TestRemoveAndClear(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("add", "--glycemia", "90")
	m := idPattern.FindStringSubmatch(out)
	require.Len(t, m, 2, out)
	h.mustRun("add", "--glycemia", "95")
	h.mustRun("add", "--glycemia", "99")

	out = h.mustRun("rm", m[1])
	assert.Contains(t, out, "Deleted record "+m[1])

	_, err := h.run("rm", m[1])
	assert.Error(t, err)

	_, err = h.run("clear")
	assert.Error(t, err)

	out = h.mustRun("clear", "--yes")
	assert.Contains(t, out, "Deleted 2 record(s)")
}

func TestExport(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "--systolic", "150", "--diastolic", "85", "--at", "2024-01-15T07:30:00Z")

	csvPath := filepath.Join(t.TempDir(), "out.csv")
	h.mustRun("export", "--out", csvPath)
	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Equal(t,
		"taken_at,blood_pressure,glycemia,heart_rate,note,blood_pressure_abnormal,glycemia_abnormal\n"+
			"2024-01-15T07:30:00Z,150/85,,,,true,false\n",
		string(data))

	pdfPath := filepath.Join(t.TempDir(), "report.pdf")
	h.mustRun("export", "--format", "pdf", "--out", pdfPath, "--filter", "last7days")
	data, err = os.ReadFile(pdfPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))

	_, err = h.run("export", "--format", "xml")
	assert.Error(t, err)
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		format, out, want string
	}{
		{"", "", "pdf"},
		{"", "a.CSV", "csv"},
		{"csv", "a.pdf", "csv"},
		{"", "-", "pdf"},
	}
	for _, tt := range tests {
		got, err := resolveFormat(tt.format, tt.out)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "format=%q out=%q", tt.format, tt.out)
	}
}
