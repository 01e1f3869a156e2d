package cli

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/hburn/internal/model"
)

func TestFormatHours(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.0h"},
		{12.345, "12.3h"},
		{0.96, "1.0h"},
		{1234.5, "1,234.5h"},
		{-2.25, "-2.3h"},
		{math.NaN(), "n/a"},
	}
	for _, tt := range tests {
		if got := FormatHours(tt.in); got != tt.want {
			t.Errorf("FormatHours(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-4200, "-4,200"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.in); got != tt.want {
			t.Errorf("FormatNumber(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{-5, "0s"},
		{45, "45s"},
		{125, "2m"},
		{3725, "1h 2m"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.in); got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatDays(t *testing.T) {
	if got := FormatDays(0); got != "ended" {
		t.Errorf("FormatDays(0) = %q, want ended", got)
	}
	if got := FormatDays(1); got != "1 day" {
		t.Errorf("FormatDays(1) = %q, want 1 day", got)
	}
	if got := FormatDays(15); got != "15 days" {
		t.Errorf("FormatDays(15) = %q, want 15 days", got)
	}
}

func TestFormatPercentAndRate(t *testing.T) {
	if got := FormatPercent(45); got != "45.0%" {
		t.Errorf("FormatPercent(45) = %q", got)
	}
	if got := FormatRate(8.214); got != "8.21 h/mo" {
		t.Errorf("FormatRate = %q", got)
	}
	if got := FormatDate(time.Time{}); got != "-" {
		t.Errorf("FormatDate(zero) = %q, want -", got)
	}
}

func TestRenderProgressBar_Width(t *testing.T) {
	bar := RenderProgressBar(50, 10, false)
	if n := strings.Count(bar, "█"); n != 5 {
		t.Errorf("filled cells = %d, want 5", n)
	}
	if n := strings.Count(bar, "░"); n != 5 {
		t.Errorf("empty cells = %d, want 5", n)
	}

	full := RenderProgressBar(250, 10, true)
	if n := strings.Count(full, "█"); n != 10 {
		t.Errorf("clamped filled cells = %d, want 10", n)
	}
	if RenderProgressBar(50, 0, false) != "" {
		t.Error("zero width should render nothing")
	}
}

func TestRenderTable_SeparatorAndAlignment(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Name", "Hours"},
		Rows: [][]string{
			{"alpha", "1.0h"},
			{"---"},
			{"b", "12.5h"},
		},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	// top, header, header sep, row, sep, row, bottom
	if len(lines) != 7 {
		t.Fatalf("lines = %d, want 7:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[3], "alpha") || !strings.Contains(lines[3], "  1.0h") {
		t.Errorf("row not right-aligned: %q", lines[3])
	}
}

func TestReportNotes(t *testing.T) {
	r := model.ContractReport{TotalHours: 0, ConsumedHours: 2, RemainingHours: -2, TotalMonths: 0, NotStarted: true}
	notes := ReportNotes(r)
	if len(notes) != 4 {
		t.Errorf("notes = %v, want 4 entries", notes)
	}

	healthy := model.ContractReport{TotalHours: 100, ConsumedHours: 10, RemainingHours: 90, TotalMonths: 12}
	if notes := ReportNotes(healthy); len(notes) != 0 {
		t.Errorf("healthy notes = %v, want none", notes)
	}
}

func TestRenderReport_ContainsFigures(t *testing.T) {
	out := RenderReport(model.ContractReport{
		ContractTitle:    "Acme - Support",
		CompanyName:      "Acme",
		TotalHours:       100,
		ConsumedHours:    45,
		RemainingHours:   55,
		ProgressPercent:  45,
		IdealMonthlyBurn: 8.33,
		ActualBurnRate:   7.5,
		ElapsedMonths:    6,
		TotalMonths:      12,
		DaysRemaining:    183,
	}, 20)

	for _, want := range []string{"Acme - Support", "45.0h", "55.0h", "8.33 h/mo", "183 days", "on pace"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}
