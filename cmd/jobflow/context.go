package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"jobflow/internal/config"
	"jobflow/internal/fetch"
	"jobflow/internal/history"
	"jobflow/internal/llm"
	"jobflow/internal/logging"
	"jobflow/internal/notifications"
	"jobflow/internal/sheet"
	"jobflow/internal/stages"
	"jobflow/internal/workflow"
)

type commandContext struct {
	configFlag *string
	jsonFlag   *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		jsonFlag:   jsonFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

// JSONMode reports whether --json was requested.
func (c *commandContext) JSONMode() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) withStore(ctx context.Context, fn func(*config.Config, sheet.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := sheet.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(cfg, store)
}

func (c *commandContext) withHistory(fn func(*history.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := history.Open(cfg.HistoryPath())
	if err != nil {
		return fmt.Errorf("open run history: %w", err)
	}
	defer store.Close()
	return fn(store)
}

// stageDeps wires the model client and page fetcher from configuration.
func (c *commandContext) stageDeps() (stages.Deps, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return stages.Deps{}, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return stages.Deps{}, err
	}
	client := llm.NewClient(llm.Config{
		APIKey:            cfg.LLM.APIKey,
		BaseURL:           cfg.LLM.BaseURL,
		Model:             cfg.LLM.Model,
		MaxTokens:         cfg.LLM.MaxTokens,
		Referer:           cfg.LLM.Referer,
		Title:             cfg.LLM.Title,
		TimeoutSeconds:    cfg.LLM.TimeoutSeconds,
		RequestsPerMinute: cfg.LLM.RequestsPerMinute,
	})
	fetcher := fetch.NewHTTPFetcher(fetch.Config{
		TimeoutSeconds: cfg.Fetch.TimeoutSeconds,
		UserAgent:      cfg.Fetch.UserAgent,
		MinTextChars:   cfg.Fetch.MinTextChars,
	})
	return stages.Deps{Config: cfg, LLM: client, Fetcher: fetcher, Logger: logger}, nil
}

func (c *commandContext) lookupJob(name string, opts stages.JobOptions) (workflow.Job, error) {
	deps, err := c.stageDeps()
	if err != nil {
		return workflow.Job{}, err
	}
	return stages.Lookup(stages.Jobs(deps, opts), name)
}

// notify sends one notification. Delivery failures only warn since the
// command itself already succeeded or failed on its own terms.
func (c *commandContext) notify(ctx context.Context, send func(notifications.Service) error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return
	}
	if err := send(notifications.NewService(cfg)); err != nil {
		if logger, logErr := c.ensureLogger(); logErr == nil {
			logging.WarnWithContext(logger, "notification failed", "notification_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check notifications.ntfy_topic"),
				logging.String(logging.FieldImpact, "no push notification for this command"),
			)
		}
	}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
