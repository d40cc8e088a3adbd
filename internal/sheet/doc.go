// Package sheet reads and writes the spreadsheet-backed application tracker.
//
// A Store hands out whole-sheet snapshots and single-cell updates. Headers
// are matched case-insensitively after trimming, and rows shorter than the
// header read as empty cells. Backends exist for Google Sheets, local XLSX
// workbooks, and an in-memory grid used by dry runs and tests.
package sheet
