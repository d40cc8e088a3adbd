package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeSheet(); err != nil {
		return err
	}
	c.normalizeTracker()
	c.normalizeLLM()
	c.normalizeFetch()
	c.normalizeLogging()
	c.normalizeNotifications()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ReportsDir) == "" {
		c.Paths.ReportsDir = c.Paths.DataDir
	}
	if c.Paths.ReportsDir, err = expandPath(c.Paths.ReportsDir); err != nil {
		return fmt.Errorf("paths.reports_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.ResumePath, err = expandPath(c.Paths.ResumePath); err != nil {
		return fmt.Errorf("paths.resume_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeSheet() error {
	c.Sheet.Backend = strings.ToLower(strings.TrimSpace(c.Sheet.Backend))
	if c.Sheet.Backend == "" {
		c.Sheet.Backend = defaultSheetBackend
	}
	if c.Sheet.SpreadsheetID == "" {
		if value, ok := os.LookupEnv(envSheetID); ok {
			c.Sheet.SpreadsheetID = value
		}
	}
	if c.Sheet.Worksheet == "" {
		if value, ok := os.LookupEnv(envWorksheetName); ok {
			c.Sheet.Worksheet = value
		}
	}
	if c.Sheet.CredentialsFile == "" {
		if value, ok := os.LookupEnv(envCredentialsFile); ok {
			c.Sheet.CredentialsFile = value
		}
	}
	c.Sheet.SpreadsheetID = strings.TrimSpace(c.Sheet.SpreadsheetID)
	c.Sheet.Worksheet = strings.TrimSpace(c.Sheet.Worksheet)

	var err error
	if c.Sheet.CredentialsFile, err = expandPath(strings.TrimSpace(c.Sheet.CredentialsFile)); err != nil {
		return fmt.Errorf("sheet.credentials_file: %w", err)
	}
	if c.Sheet.XLSXPath, err = expandPath(strings.TrimSpace(c.Sheet.XLSXPath)); err != nil {
		return fmt.Errorf("sheet.xlsx_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeTracker() {
	defaults := Default().Tracker
	fill := func(value *string, fallback string) {
		*value = strings.TrimSpace(*value)
		if *value == "" {
			*value = fallback
		}
	}
	fill(&c.Tracker.CompanyColumn, defaults.CompanyColumn)
	fill(&c.Tracker.DateAppliedColumn, defaults.DateAppliedColumn)
	fill(&c.Tracker.PostingLinkColumn, defaults.PostingLinkColumn)
	fill(&c.Tracker.ArchivedAtColumn, defaults.ArchivedAtColumn)
	fill(&c.Tracker.FitScoreColumn, defaults.FitScoreColumn)
	fill(&c.Tracker.RoleTitleColumn, defaults.RoleTitleColumn)
	fill(&c.Tracker.CompanyTypeColumn, defaults.CompanyTypeColumn)
	fill(&c.Tracker.CompanySizeBucketColumn, defaults.CompanySizeBucketColumn)
	fill(&c.Tracker.RoleFocusColumn, defaults.RoleFocusColumn)
	fill(&c.Tracker.RoleLevelColumn, defaults.RoleLevelColumn)
	fill(&c.Tracker.StatusColumn, defaults.StatusColumn)
	fill(&c.Tracker.OutcomeDateColumn, defaults.OutcomeDateColumn)
	if c.Tracker.FollowupDays <= 0 {
		c.Tracker.FollowupDays = defaultFollowupDays
	}
}

func (c *Config) normalizeLLM() {
	if c.LLM.APIKey == "" {
		if value, ok := os.LookupEnv(envLLMAPIKey); ok {
			c.LLM.APIKey = value
		}
	}
	c.LLM.APIKey = strings.TrimSpace(c.LLM.APIKey)
	c.LLM.BaseURL = strings.TrimSpace(c.LLM.BaseURL)
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = defaultLLMBaseURL
	}
	c.LLM.Model = strings.TrimSpace(c.LLM.Model)
	if c.LLM.Model == "" {
		c.LLM.Model = defaultLLMModel
	}
	if c.LLM.MaxTokens <= 0 {
		c.LLM.MaxTokens = defaultLLMMaxTokens
	}
	if c.LLM.TimeoutSeconds <= 0 {
		c.LLM.TimeoutSeconds = defaultLLMTimeoutSeconds
	}
	if c.LLM.MaxJobChars <= 0 {
		c.LLM.MaxJobChars = defaultMaxJobChars
	}
	if c.LLM.MaxResumeChars <= 0 {
		c.LLM.MaxResumeChars = defaultMaxResumeChars
	}
}

func (c *Config) normalizeFetch() {
	if c.Fetch.TimeoutSeconds <= 0 {
		c.Fetch.TimeoutSeconds = defaultFetchTimeoutSeconds
	}
	c.Fetch.UserAgent = strings.TrimSpace(c.Fetch.UserAgent)
	if c.Fetch.UserAgent == "" {
		c.Fetch.UserAgent = defaultFetchUserAgent
	}
	if c.Fetch.MinTextChars <= 0 {
		c.Fetch.MinTextChars = defaultFetchMinTextChars
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeoutSeconds <= 0 {
		c.Notifications.RequestTimeoutSeconds = defaultNotifyTimeout
	}
}
