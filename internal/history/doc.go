// Package history keeps a SQLite ledger of batch runs and the outcome of
// every row each run touched. It powers `jobflow history`; row selection
// never consults it.
package history
