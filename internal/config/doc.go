// Package config loads, normalizes, and validates jobflow configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, loads .env files, and honours environment
// fallbacks such as LLM_API_KEY and SHEET_ID. The Config type centralizes the
// tracker backend, column names, model settings, and directories so commands
// discover everything in one pass.
package config
