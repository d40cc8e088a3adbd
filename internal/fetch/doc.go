// Package fetch downloads job postings and company pages and reduces them to
// text. Pages that return an error status, carry almost no text, or announce
// that the job is gone are reported by Unavailable.
package fetch
