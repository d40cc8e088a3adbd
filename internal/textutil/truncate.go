package textutil

import "strings"

// Truncate returns at most limit runes of value. A non-positive limit returns
// value unchanged.
func Truncate(value string, limit int) string {
	if limit <= 0 {
		return value
	}
	count := 0
	for i := range value {
		if count == limit {
			return value[:i]
		}
		count++
	}
	return value
}

// Excerpt collapses whitespace and bounds value to limit runes, appending an
// ellipsis when clipped. Empty input yields "<empty>".
func Excerpt(value string, limit int) string {
	clean := strings.Join(strings.Fields(value), " ")
	if clean == "" {
		return "<empty>"
	}
	clipped := Truncate(clean, limit)
	if len(clipped) < len(clean) {
		return clipped + "..."
	}
	return clean
}
