package normalize

import (
	"strconv"
	"strings"
	"time"
)

// Lenient coercions for legacy export values. None of these return errors:
// an unparseable value degrades to the zero value ("" or 0) and the caller
// treats that as unset, not invalid.

// DateLayout is the canonical calendar-date form all source dates normalize to.
const DateLayout = "2006-01-02"

// dateLayouts are attempted in order when normalizing a source date.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"01/02/2006",
	"1/2/2006",
	"2006/01/02",
	"01-02-2006",
	"02-Jan-2006",
	"Jan 2, 2006",
	"January 2, 2006",
	time.RFC1123,
}

// ParseDate normalizes a source date to YYYY-MM-DD, discarding time-of-day.
// Unparseable input normalizes to "".
func ParseDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(DateLayout)
		}
	}
	return ""
}

var numberReplacer = strings.NewReplacer(
	"$", "",
	"£", "",
	"€", "",
	",", "",
	" ", "",
	"%", "",
)

// CleanNumber strips thousands separators and currency symbols, returning the
// bare numeric string, or "" when nothing numeric remains.
func CleanNumber(s string) string {
	s = numberReplacer.Replace(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return ""
	}
	return s
}

// ParseNumber coerces a source numeric field, tolerating currency symbols and
// separators. Unparseable input coerces to 0.
func ParseNumber(s string) float64 {
	cleaned := CleanNumber(s)
	if cleaned == "" {
		return 0
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return v
}

// FormatPhone canonicalizes NANP phone numbers to "(555) 123-4567" form.
// Ten digits, or eleven with a leading 1, format; anything else passes
// through unchanged rather than raising.
func FormatPhone(s string) string {
	var digits strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	if len(d) == 11 && d[0] == '1' {
		d = d[1:]
	}
	if len(d) != 10 {
		return s
	}
	return "(" + d[:3] + ") " + d[3:6] + "-" + d[6:]
}
