package cli

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"health-monitor/internal/domain/records"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// filterFlags son los flags de período compartidos por list/summary/export.
type filterFlags struct {
	kind string
	from string
	to   string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.kind, "filter", "", "Período: today|last7days|last30days|custom (vacío = todo)")
	cmd.Flags().StringVar(&f.from, "from", "", "Inicio YYYY-MM-DD (implica --filter custom)")
	cmd.Flags().StringVar(&f.to, "to", "", "Fin YYYY-MM-DD (implica --filter custom)")
}

func (f *filterFlags) parse(loc *time.Location) (records.DateFilter, error) {
	kind := strings.TrimSpace(f.kind)
	if kind == "" && (strings.TrimSpace(f.from) != "" || strings.TrimSpace(f.to) != "") {
		kind = string(records.FilterCustom)
	}
	df, err := records.ParseDateFilter(kind, f.from, f.to, loc)
	if err != nil {
		return records.DateFilter{}, fmt.Errorf("--filter: %w", err)
	}
	return df, nil
}

// optionalFloat devuelve nil si el flag no se pasó (cero es un valor, no ausencia).
func optionalFloat(cmd *cobra.Command, name string, v float64) *float64 {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &v
}

var takenAtLayouts = []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02T15:04", "2006-01-02"}

func parseTakenAt(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range takenAtLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid --at %q (expected RFC3339, \"YYYY-MM-DD HH:MM\" or YYYY-MM-DD)", s)
}

var (
	abnormalStyle = color.New(color.FgRed, color.Bold)
	headerStyle   = color.New(color.FgCyan, color.Bold)
	mutedStyle    = color.New(color.FgHiBlack)
)

// cell rellena a width y recién después colorea: los códigos ANSI no cuentan para el ancho.
func cell(s string, width int, abnormal bool) string {
	if s == "" {
		s = "-"
	}
	if pad := width - utf8.RuneCountInString(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	if abnormal {
		return abnormalStyle.Sprint(s)
	}
	return s
}

func meanCell(m records.Mean, width int) string {
	if !m.Valid {
		return mutedStyle.Sprint(cell("-", width, false))
	}
	return cell(m.String(), width, false)
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}
