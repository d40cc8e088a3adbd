package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Slugify lowercases letters and digits and replaces every other rune with a
// hyphen, then trims hyphens from both ends. Runs of separators are kept so the
// result matches folder names created by earlier runs ("Acme, Inc." becomes
// "acme--inc").
func Slugify(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteByte('-')
	}
	return strings.Trim(b.String(), "-")
}

var titleCaser = cases.Title(language.Und)

// CamelCase joins the ASCII alphanumeric words of value with each word
// title-cased ("senior back-end engineer" becomes "SeniorBackEndEngineer").
// Empty input yields "Unknown".
func CamelCase(value string) string {
	words := strings.FieldsFunc(value, func(r rune) bool {
		return !(r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)))
	})
	if len(words) == 0 {
		return "Unknown"
	}
	var b strings.Builder
	for _, word := range words {
		b.WriteString(titleCaser.String(word))
	}
	return b.String()
}
