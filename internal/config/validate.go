package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSheet(); err != nil {
		return err
	}
	if err := c.validateLLM(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateSheet() error {
	switch c.Sheet.Backend {
	case "google":
		// Credentials are checked when the tracker is opened so that config
		// commands work before the service account is set up.
		return nil
	case "xlsx":
		if c.Sheet.XLSXPath == "" {
			return errors.New("sheet.xlsx_path must be set when sheet.backend is \"xlsx\"")
		}
		return nil
	default:
		return fmt.Errorf("sheet.backend: unsupported value %q (want google or xlsx)", c.Sheet.Backend)
	}
}

// ValidateTrackerAccess reports missing settings needed to open the tracker.
func (c *Config) ValidateTrackerAccess() error {
	if c.Sheet.Backend != "google" {
		return nil
	}
	if c.Sheet.SpreadsheetID == "" {
		return fmt.Errorf("sheet.spreadsheet_id is required (or set %s)", envSheetID)
	}
	if c.Sheet.Worksheet == "" {
		return fmt.Errorf("sheet.worksheet is required (or set %s)", envWorksheetName)
	}
	if c.Sheet.CredentialsFile == "" {
		return fmt.Errorf("sheet.credentials_file is required (or set %s)", envCredentialsFile)
	}
	return nil
}

func (c *Config) validateLLM() error {
	if c.LLM.RequestsPerMinute < 0 {
		return errors.New("llm.requests_per_minute must be >= 0")
	}
	if c.LLM.MaxTokens > 64000 {
		return errors.New("llm.max_tokens must be <= 64000")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
