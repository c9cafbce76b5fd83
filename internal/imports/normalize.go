package imports

import "strings"

// normalizeKey is the comparison form for natural keys and master-data
// names: trimmed, lower-cased.
func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// serialValue maps the sentinel strings spreadsheet exports use for "no
// serial" to absent.
func serialValue(s string) *string {
	trimmed := strings.TrimSpace(s)
	switch strings.ToLower(trimmed) {
	case "", "-", "n/a":
		return nil
	}
	return &trimmed
}

func optionalValue(s string) *string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
