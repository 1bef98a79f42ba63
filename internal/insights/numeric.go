package insights

import (
	"strconv"
	"strings"
)

// parseFloatStrict coerces a cell value to a float, tolerating thousands
// separators and surrounding whitespace. Anything else is rejected rather
// than being treated as zero.
func parseFloatStrict(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	// Strip common formatting
	clean := strings.Map(func(r rune) rune {
		switch r {
		case ',', ' ':
			return -1
		default:
			return r
		}
	}, s)
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
