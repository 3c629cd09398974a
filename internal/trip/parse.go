package trip

import (
	"regexp"
	"strconv"
	"strings"
)

// whitespaceRegex matches one or more whitespace characters
var whitespaceRegex = regexp.MustCompile(`\s+`)

// hoursRegex and minutesRegex extract the components of duration strings
// such as "1h 20m", "2 h 5 m" or "45m".
var (
	hoursRegex   = regexp.MustCompile(`(\d+)\s*h`)
	minutesRegex = regexp.MustCompile(`(\d+)\s*m`)
)

// CleanField normalizes a single exported field:
// 1. Trim leading/trailing whitespace
// 2. Collapse internal whitespace runs to single spaces
func CleanField(s string) string {
	s = strings.TrimSpace(s)
	s = whitespaceRegex.ReplaceAllString(s, " ")
	return s
}

// ParseDecimal parses a number that may use a comma as decimal separator
// ("3,5" → 3.5). Empty or unparsable input is zero-equivalent.
func ParseDecimal(s string) float64 {
	s = strings.ReplaceAll(CleanField(s), ",", ".")
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// ParseInt parses an integer field. Empty or unparsable input is
// zero-equivalent, matching the source system's placeholder rows.
func ParseInt(s string) int {
	s = CleanField(s)
	if s == "" {
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}

// DurationMinutes parses a free-text duration ("1h 20m") into minutes by
// extracting the hour and minute components. Unrecognized input yields 0.
func DurationMinutes(s string) int {
	total := 0
	if m := hoursRegex.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		total += h * 60
	}
	if m := minutesRegex.FindStringSubmatch(s); m != nil {
		min, _ := strconv.Atoi(m[1])
		total += min
	}
	return total
}

// ParseAmount extracts the numeric magnitude from a unit-suffixed string
// such as "3,2 l" or "12 kWh". The unit suffix is stripped, comma decimals
// are normalized, and anything unparsable is zero-equivalent. This is the
// single place magnitude strings are interpreted; queries must not
// re-implement the stripping.
func ParseAmount(s string) float64 {
	s = CleanField(s)
	// Keep the leading numeric run, drop the trailing unit
	end := 0
	for end < len(s) {
		c := s[end]
		if (c >= '0' && c <= '9') || c == ',' || c == '.' || (end == 0 && c == '-') {
			end++
			continue
		}
		break
	}
	return ParseDecimal(s[:end])
}
