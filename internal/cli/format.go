// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// FormatHours formats an hour quantity with one decimal.
// e.g., 12.345 -> "12.3h", 1234.5 -> "1,234.5h"
func FormatHours(h float64) string {
	if math.IsNaN(h) || math.IsInf(h, 0) {
		return "n/a"
	}
	neg := h < 0
	if neg {
		h = -h
	}
	whole := int64(h)
	tenths := int64(math.Round((h - float64(whole)) * 10))
	if tenths == 10 {
		whole++
		tenths = 0
	}
	s := fmt.Sprintf("%s.%dh", FormatNumber(whole), tenths)
	if neg {
		return "-" + s
	}
	return s
}

// FormatRate formats a burn rate in hours per month.
func FormatRate(hoursPerMonth float64) string {
	return fmt.Sprintf("%.2f h/mo", hoursPerMonth)
}

// FormatDuration formats seconds into a human-readable duration.
// e.g., 3725 -> "1h 2m", 125 -> "2m", 45 -> "45s"
func FormatDuration(secs int64) string {
	if secs <= 0 {
		return "0s"
	}

	hours := secs / 3600
	mins := (secs % 3600) / 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, mins)
	}
	if mins > 0 {
		return fmt.Sprintf("%dm", mins)
	}
	return fmt.Sprintf("%ds", secs)
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a 0-100 value as a percentage string.
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

// FormatDays formats a remaining-days count.
func FormatDays(n int) string {
	switch {
	case n <= 0:
		return "ended"
	case n == 1:
		return "1 day"
	default:
		return strconv.Itoa(n) + " days"
	}
}

// FormatMonths formats a month quantity with one decimal.
func FormatMonths(m float64) string {
	return fmt.Sprintf("%.1f mo", m)
}

// FormatDate formats an instant as a calendar day.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}

// FormatClock formats an instant as a short local date and time.
func FormatClock(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

// FormatID formats a row id.
func FormatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
