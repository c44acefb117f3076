package util

import (
	"math"
	"strconv"
	"strings"
)

// ParseLeadingInt reads an optionally signed run of leading digits, so
// "12 pcs" yields 12. Input without leading digits is not a number.
func ParseLeadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseNumber parses a whole trimmed string as a finite decimal number.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ParseWholeNumber is ParseNumber restricted to integral values.
func ParseWholeNumber(s string) (int, bool) {
	f, ok := ParseNumber(s)
	if !ok || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

// LastDigits returns the final k decimal digits of n.
func LastDigits(n int64, k int) string {
	s := strconv.FormatInt(n, 10)
	if len(s) <= k {
		return s
	}
	return s[len(s)-k:]
}
