// Package recovery turns free-form language model output into validated
// records.
//
// Recover runs a fixed pipeline: empty output is rejected, surrounding code
// fences are stripped, the outermost brace-delimited object is extracted,
// trailing separators and raw line breaks inside strings are repaired, the
// result is parsed strictly, and finally a Schema checks required fields,
// fills defaults, normalizes categorical values, and type checks the rest.
// Each failure surfaces as a distinct sentinel so callers can decide whether
// a single retry with FormattingReminder is worthwhile (see IsRetryable).
package recovery
