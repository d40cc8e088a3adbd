package fetch

import (
	"net/http"
	"strings"
)

var unavailablePhrases = []string{
	"no longer available",
	"has been removed",
	"job has been filled",
	"page not found",
	"this job is no longer",
	"position has been closed",
	"job not found",
	"no longer accepting applications",
}

// Unavailable reports whether page looks like a posting that is gone: an
// HTTP error status, less than minTextChars of text, or a removal notice.
func Unavailable(page Page, minTextChars int) (bool, string) {
	if page.Status >= http.StatusBadRequest && page.Status < 600 {
		return true, "http status " + http.StatusText(page.Status)
	}
	text := strings.ToLower(strings.TrimSpace(page.Text))
	if minTextChars <= 0 {
		minTextChars = defaultMinTextChars
	}
	if len(text) < minTextChars {
		return true, "page text too short"
	}
	for _, phrase := range unavailablePhrases {
		if strings.Contains(text, phrase) {
			return true, "page says " + phrase
		}
	}
	return false, ""
}
