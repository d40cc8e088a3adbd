package recovery

import (
	"strings"
	"unicode"
)

// NormalizeCategory maps a free-text model value onto one of allowed.
//
// Matching is case-insensitive and ignores spaces, hyphens and underscores,
// so "back-end engineer" matches "BACKEND" while symbols such as "<" and "+"
// still distinguish "<50" from "5000+". An exact match wins;
// otherwise the allowed value with the longest key that contains, or is
// contained in, the value is chosen so "HTML/CSS frontend" prefers FRONTEND
// over ML. Ties go to the earlier allowed value. Empty or unmatched values
// yield fallback.
func NormalizeCategory(value string, allowed []string, fallback string) string {
	key := categoryKey(value)
	if key == "" {
		return fallback
	}
	for _, candidate := range allowed {
		if strings.EqualFold(strings.TrimSpace(value), candidate) || categoryKey(candidate) == key {
			return candidate
		}
	}
	best, bestLen := "", 0
	for _, candidate := range allowed {
		ck := categoryKey(candidate)
		if ck == "" {
			continue
		}
		if !strings.Contains(key, ck) && !strings.Contains(ck, key) {
			continue
		}
		if len(ck) > bestLen {
			best, bestLen = candidate, len(ck)
		}
	}
	if best == "" {
		return fallback
	}
	return best
}

func categoryKey(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsSpace(r) || r == '-' || r == '_' {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}
