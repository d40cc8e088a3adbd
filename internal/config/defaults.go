package config

const (
	defaultConfigPath   = "~/.config/jobflow/config.toml"
	projectConfigName   = "jobflow.toml"
	defaultDataDir      = "data"
	defaultLogDir       = "~/.local/share/jobflow/logs"
	defaultResumePath   = "resume.txt"
	defaultSheetBackend = "google"

	defaultLLMBaseURL           = "https://openrouter.ai/api/v1/chat/completions"
	defaultLLMModel             = "anthropic/claude-3-haiku"
	defaultLLMMaxTokens         = 2048
	defaultLLMTimeoutSeconds    = 90
	defaultLLMRequestsPerMinute = 30
	defaultLLMTitle             = "jobflow"
	defaultMaxJobChars          = 50000
	defaultMaxResumeChars       = 20000

	defaultFetchTimeoutSeconds = 60
	defaultFetchUserAgent      = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
	defaultFetchMinTextChars   = 150

	defaultFollowupDays        = 10
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
	defaultReportRetentionDays = 90
	defaultNotifyTimeout       = 10

	envLLMAPIKey       = "LLM_API_KEY"
	envSheetID         = "SHEET_ID"
	envWorksheetName   = "WORKSHEET_NAME"
	envCredentialsFile = "GOOGLE_SA_JSON"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:    defaultDataDir,
			LogDir:     defaultLogDir,
			ResumePath: defaultResumePath,
		},
		Sheet: Sheet{
			Backend: defaultSheetBackend,
		},
		Tracker: Tracker{
			CompanyColumn:           "company",
			DateAppliedColumn:       "date applied",
			PostingLinkColumn:       "posting link",
			ArchivedAtColumn:        "archived_at",
			FitScoreColumn:          "initial fit score",
			RoleTitleColumn:         "role title",
			CompanyTypeColumn:       "company type",
			CompanySizeBucketColumn: "company size bucket",
			RoleFocusColumn:         "role focus",
			RoleLevelColumn:         "role level",
			StatusColumn:            "status",
			OutcomeDateColumn:       "date of outcome",
			FollowupDays:            defaultFollowupDays,
		},
		LLM: LLM{
			BaseURL:           defaultLLMBaseURL,
			Model:             defaultLLMModel,
			MaxTokens:         defaultLLMMaxTokens,
			Title:             defaultLLMTitle,
			TimeoutSeconds:    defaultLLMTimeoutSeconds,
			RequestsPerMinute: defaultLLMRequestsPerMinute,
			MaxJobChars:       defaultMaxJobChars,
			MaxResumeChars:    defaultMaxResumeChars,
		},
		Fetch: Fetch{
			TimeoutSeconds: defaultFetchTimeoutSeconds,
			UserAgent:      defaultFetchUserAgent,
			MinTextChars:   defaultFetchMinTextChars,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultReportRetentionDays,
		},
		Notifications: Notifications{
			RequestTimeoutSeconds: defaultNotifyTimeout,
		},
	}
}
