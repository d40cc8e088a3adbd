package textutil

import (
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// DateLayout is the canonical calendar date format used for folder names.
const DateLayout = "2006-01-02"

var invisibleMarks = strings.NewReplacer("\u200e", "", "\u200f", "", "\ufeff", "")

// NormalizeDate converts a tracker date cell into YYYY-MM-DD. Accepted inputs
// are ISO dates and US month/day/year with a two or four digit year; two digit
// years are taken as 20xx. Anything else reports false.
func NormalizeDate(raw string) (string, bool) {
	value := strings.TrimSpace(invisibleMarks.Replace(raw))
	if value == "" {
		return "", false
	}
	if t, err := time.Parse(DateLayout, value); err == nil {
		return t.Format(DateLayout), true
	}
	if t, err := time.Parse("1/2/2006", value); err == nil {
		return t.Format(DateLayout), true
	}

	parts := strings.Split(value, "/")
	if len(parts) != 3 {
		return "", false
	}
	nums := make([]int, 3)
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return "", false
		}
		nums[i] = n
	}
	month, day, year := nums[0], nums[1], nums[2]
	if year < 100 {
		year += 2000
	}
	if month < 1 || month > 12 || day < 1 || day > 31 || year < 1900 || year > 2100 {
		return "", false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes 2/30 into March; reject instead.
	if t.Day() != day || int(t.Month()) != month {
		return "", false
	}
	return t.Format(DateLayout), true
}

// ParseLooseDate parses the free-form dates found in report columns (ISO
// timestamps, "Jan 2, 2026", spreadsheet serial-free text). The strict
// tracker formats are tried first so "03/04/25" keeps its month/day reading.
func ParseLooseDate(raw string) (time.Time, bool) {
	value := strings.TrimSpace(invisibleMarks.Replace(raw))
	if value == "" {
		return time.Time{}, false
	}
	if iso, ok := NormalizeDate(value); ok {
		t, err := time.Parse(DateLayout, iso)
		return t, err == nil
	}
	t, err := dateparse.ParseIn(value, time.UTC)
	if err != nil {
		if len(value) >= len(DateLayout) {
			if t, err := time.Parse(DateLayout, value[:len(DateLayout)]); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
}

// DatePart returns the leading YYYY-MM-DD of a timestamp cell such as
// "2026-02-04 23:19:17" or "2026-02-04T23:19:17", or "" when absent.
func DatePart(value string) string {
	value = strings.TrimSpace(value)
	if len(value) < len(DateLayout) {
		return ""
	}
	if _, err := time.Parse(DateLayout, value[:len(DateLayout)]); err != nil {
		return ""
	}
	return value[:len(DateLayout)]
}
