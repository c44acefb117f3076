package util

import (
	"strings"
	"time"
)

const (
	InputDateLayout   = "2006-01-02"
	DisplayDateLayout = "02-01-2006"
)

var dateLayouts = []string{
	InputDateLayout,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05Z07:00",
}

// ParseDate accepts the date shapes browsers and the database hand back.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDateInput renders t as yyyy-mm-dd, or "" for a missing date.
func FormatDateInput(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format(InputDateLayout)
}

// FormatDateInputString reformats a loosely typed date; unparseable input
// renders as "".
func FormatDateInputString(s string) string {
	t, ok := ParseDate(s)
	if !ok {
		return ""
	}
	return FormatDateInput(&t)
}

// FormatDayMonthYear renders t as dd-mm-yyyy, the dashboard's date format.
func FormatDayMonthYear(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format(DisplayDateLayout)
}
