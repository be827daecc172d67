package table

import (
	"strconv"
	"strings"
	"time"
)

// DateLayout is the form parsed dates are written in
const DateLayout = "2006-01-02"

var missingTokens = map[string]struct{}{
	"":     {},
	"NA":   {},
	"N/A":  {},
	"n/a":  {},
	"NaN":  {},
	"nan":  {},
	"-NaN": {},
	"-nan": {},
	"NULL": {},
	"null": {},
	"None": {},
	"<NA>": {},
	"#N/A": {},
}

// IsMissing reports whether a cell holds no value
func IsMissing(s string) bool {
	_, ok := missingTokens[strings.TrimSpace(s)]
	return ok
}

// ParseFloat parses a numeric cell. Missing and non-numeric cells report false.
func ParseFloat(s string) (float64, bool) {
	if IsMissing(s) {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// dateLayouts are tried in order; the first that parses wins
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006/01/02",
	"2006/01/02 15:04:05",
	"1/2/2006",
	"1/2/2006 15:04",
	"1/2/2006 15:04:05",
	"1/2/2006 3:04:05 PM",
	"1/2/2006 3:04 PM",
	"1/2/06",
	"2-Jan-2006",
	"02-Jan-2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"20060102",
}

// ParseDate parses a date cell in any of the common survey export formats
func ParseDate(s string) (time.Time, bool) {
	if IsMissing(s) {
		return time.Time{}, false
	}
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// NormalizeDate rewrites a date cell as YYYY-MM-DD, or "" when it does not parse
func NormalizeDate(s string) string {
	t, ok := ParseDate(s)
	if !ok {
		return ""
	}
	return t.Format(DateLayout)
}

// FormatFloat renders a computed number for CSV output
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
