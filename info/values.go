package info

import "strings"

// ParseValues splits a comma-separated response value list, respecting
// double-quoted fields so a comma inside a quoted string (e.g. an
// operator name in +COPS:) is not treated as a separator.
func ParseValues(s string) []string {
	var values []string
	var b strings.Builder
	inQuote := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			inQuote = !inQuote
			b.WriteByte(c)
		case c == ',' && !inQuote:
			values = append(values, b.String())
			b.Reset()
		default:
			b.WriteByte(c)
		}
	}
	values = append(values, b.String())
	return values
}
