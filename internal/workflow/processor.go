package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"jobflow/internal/config"
	"jobflow/internal/fileutil"
	"jobflow/internal/history"
	"jobflow/internal/logging"
	"jobflow/internal/queue"
	"jobflow/internal/services"
	"jobflow/internal/sheet"
	"jobflow/internal/stage"
)

// StatusTimeLayout is the status value written when a stage supplies none.
const StatusTimeLayout = "2006-01-02T15:04:05"

// Recorder stores run history. *history.Store satisfies it.
type Recorder interface {
	BeginRun(ctx context.Context, run history.Run) error
	RecordOutcome(ctx context.Context, outcome history.Outcome) error
	FinishRun(ctx context.Context, run history.Run) error
}

// Options tune a single run.
type Options struct {
	// DryRun classifies rows without running stages or writing anything.
	DryRun bool
	// Limit stops after this many pending rows have been processed. Zero
	// means no limit.
	Limit int
	// Rows restricts the run to these 1-based sheet rows.
	Rows []int
}

// Processor runs jobs against one tracker.
type Processor struct {
	cfg     *config.Config
	store   sheet.Store
	history Recorder
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures a Processor.
type Option func(*Processor)

// WithHistory records runs into r.
func WithHistory(r Recorder) Option {
	return func(p *Processor) { p.history = r }
}

// WithClock overrides the time source used for status timestamps.
func WithClock(now func() time.Time) Option {
	return func(p *Processor) {
		if now != nil {
			p.now = now
		}
	}
}

// NewProcessor constructs a processor over store.
func NewProcessor(cfg *config.Config, store sheet.Store, logger *slog.Logger, opts ...Option) *Processor {
	p := &Processor{
		cfg:    cfg,
		store:  store,
		logger: logging.NewComponentLogger(logger, "processor"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run processes every row of the tracker under job. Per-row failures are
// counted in the summary rather than returned; the error reports problems
// that stop the whole run (lock held, tracker unreadable, missing columns,
// unhealthy stages, cancellation).
func (p *Processor) Run(ctx context.Context, job Job, opts Options) (Summary, error) {
	start := time.Now()
	runID := uuid.NewString()
	summary := Summary{RunID: runID, Job: job.Name, DryRun: opts.DryRun}

	ctx = services.WithRequestID(ctx, runID)
	ctx = services.WithJob(ctx, job.Name)
	logger := logging.WithContext(ctx, p.logger)

	unlock, err := p.acquireLock()
	if err != nil {
		return summary, err
	}
	defer unlock()

	logger.Info("run started",
		logging.String(logging.FieldEventType, "run_start"),
		logging.Bool("dry_run", opts.DryRun),
		logging.Any("stages", job.StageNames()),
	)
	p.beginHistory(ctx, logger, summary, start)

	runErr := p.run(ctx, logger, job, opts, &summary)
	summary.Duration = time.Since(start)

	if runErr != nil {
		logging.ErrorWithContext(logger, "run aborted", "run_aborted",
			logging.Error(runErr),
			logging.String(logging.FieldErrorHint, runHint(runErr)),
		)
	}
	logger.Info("run finished", logging.Args(summary.logAttrs()...)...)
	p.finishHistory(ctx, logger, summary, start, runErr)
	return summary, runErr
}

func (p *Processor) run(ctx context.Context, logger *slog.Logger, job Job, opts Options, summary *Summary) error {
	if len(job.Steps) == 0 {
		return services.Wrap(services.ErrConfiguration, "processor", "run", fmt.Sprintf("Job %q has no stages", job.Name), nil)
	}
	if !opts.DryRun {
		if err := p.checkHealth(ctx, logger, job); err != nil {
			return err
		}
	}

	grid, err := p.store.Snapshot(ctx)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "processor", "snapshot tracker", "Unable to read the tracker", err)
	}
	header := grid.Header()
	if err := header.Require(job.Columns()...); err != nil {
		return err
	}

	rows := grid.Rows()
	wanted := rowFilter(opts.Rows)
	processed := 0
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		if wanted != nil && !wanted[row.Number] {
			continue
		}
		summary.Total++
		item := queue.NewWorkItem(p.cfg.Paths.DataDir, job.Rule, row)
		result := p.Process(ctx, job, header, item, opts.DryRun)
		summary.add(result)
		p.recordOutcome(ctx, logger, summary.RunID, result)

		if result.Disposition != DispositionSkipped && result.Disposition != DispositionDone {
			processed++
		}
		if opts.Limit > 0 && processed >= opts.Limit {
			logger.Info("row limit reached", logging.Int("limit", opts.Limit))
			break
		}
	}
	return nil
}

// Process classifies one item and, when pending, runs the job's stages.
func (p *Processor) Process(ctx context.Context, job Job, header sheet.Header, item queue.WorkItem, dryRun bool) ItemResult {
	ctx = services.WithRow(ctx, item.Number())
	logger := logging.WithContext(ctx, p.logger)
	result := ItemResult{
		Row:        item.Number(),
		Identifier: item.Key.Identifier,
		Date:       item.Key.Date,
		Location:   item.Location,
	}

	verdict := queue.Classify(job.Rule, item)
	if verdict.Verdict == queue.Skip {
		result.Disposition = DispositionSkipped
		if errors.Is(verdict.Err, queue.ErrDuplicateSkip) {
			result.Disposition = DispositionDone
		}
		result.Reason = verdict.Reason()
		result.Err = verdict.Err
		logger.Debug("row skipped",
			logging.String(logging.FieldEventType, "row_skip"),
			logging.String("reason", result.Reason),
		)
		return result
	}
	if dryRun {
		result.Disposition = DispositionPending
		logger.Info("row pending",
			logging.String(logging.FieldEventType, "row_pending"),
			logging.String("identifier", item.Key.Identifier),
			logging.String(logging.FieldLocation, item.Location),
		)
		return result
	}

	return p.execute(ctx, logger, job, header, item, result)
}

func (p *Processor) execute(ctx context.Context, logger *slog.Logger, job Job, header sheet.Header, item queue.WorkItem, result ItemResult) ItemResult {
	rule := job.Rule
	if item.Location != "" {
		if err := queue.EnsureLocation(item.Location); err != nil {
			return p.fail(logger, result, "", err)
		}
	}

	var statusValue string
	for _, step := range job.Steps {
		name := step.Handler.Name()
		stageCtx := services.WithStage(ctx, name)
		stageLogger := logging.WithContext(stageCtx, p.logger)
		started := time.Now()
		stageLogger.Info("stage started", logging.String(logging.FieldEventType, "stage_start"))

		res := step.Handler.Execute(stageCtx, stage.Input{Item: item, Dir: item.Location})
		switch res.Outcome {
		case stage.OutcomeSuccess:
			var err error
			item, err = p.adoptIdentifier(rule, item, res)
			if err == nil {
				err = p.persist(ctx, header, rule, item, res)
			}
			if err != nil {
				if step.Optional {
					p.warnOptional(stageLogger, name, err)
					continue
				}
				return p.fail(stageLogger, result, name, err)
			}
			if v, ok := res.Write(rule.StatusColumn); ok && rule.StatusColumn != "" {
				statusValue = v
			}
			result.Identifier = item.Key.Identifier
			result.Location = item.Location
			stageLogger.Info("stage completed",
				logging.String(logging.FieldEventType, "stage_complete"),
				logging.Int("artifacts", len(res.Artifacts)),
				logging.Duration("stage_duration", time.Since(started)),
			)
		case stage.OutcomeDisqualified:
			if step.Optional {
				p.warnOptional(stageLogger, name, res.AsError())
				continue
			}
			return p.disqualify(ctx, stageLogger, header, rule, item, result, res)
		default:
			if step.Optional {
				p.warnOptional(stageLogger, name, res.Err)
				continue
			}
			return p.fail(stageLogger, result, name, res.Err)
		}
	}

	if rule.StatusColumn != "" {
		if statusValue == "" {
			statusValue = p.now().Format(StatusTimeLayout)
		}
		if err := sheet.SetCell(ctx, p.store, header, item.Number(), rule.StatusColumn, statusValue); err != nil {
			return p.fail(logger, result, "", fmt.Errorf("write %s: %w", rule.StatusColumn, err))
		}
	}
	result.Disposition = DispositionWritten
	logger.Info("row written",
		logging.String(logging.FieldEventType, "row_written"),
		logging.String("identifier", item.Key.Identifier),
		logging.String(logging.FieldLocation, item.Location),
		logging.String("status_value", statusValue),
	)
	return result
}

// adoptIdentifier rebinds an item whose identifier a stage just supplied.
func (p *Processor) adoptIdentifier(rule queue.Rule, item queue.WorkItem, res stage.Result) (queue.WorkItem, error) {
	if item.Location != "" {
		return item, nil
	}
	identifier, ok := res.Write(rule.IdentifierColumn)
	if !ok || identifier == "" {
		if len(res.Artifacts) == 0 {
			return item, nil
		}
		return item, fmt.Errorf("%w: identifier unknown, cannot store artifacts", queue.ErrMissingPrecondition)
	}
	next, err := item.WithIdentifier(p.cfg.Paths.DataDir, identifier)
	if err != nil {
		return item, err
	}
	if err := queue.EnsureLocation(next.Location); err != nil {
		return item, err
	}
	return next, nil
}

// persist writes artifacts then non-status cells for a successful stage.
func (p *Processor) persist(ctx context.Context, header sheet.Header, rule queue.Rule, item queue.WorkItem, res stage.Result) error {
	if len(res.Artifacts) > 0 && item.Location == "" {
		return fmt.Errorf("%w: storage location unknown", queue.ErrMissingPrecondition)
	}
	for _, artifact := range res.Artifacts {
		path := filepath.Join(item.Location, artifact.Name)
		if err := fileutil.WriteFileAtomic(path, artifact.Data, 0o644); err != nil {
			return services.Wrap(services.ErrExternalTool, "processor", "write artifact", artifact.Name, err)
		}
	}
	for _, w := range res.Writes {
		if w.Column == rule.StatusColumn && rule.StatusColumn != "" {
			continue
		}
		if err := sheet.SetCell(ctx, p.store, header, item.Number(), w.Column, w.Value); err != nil {
			return services.Wrap(services.ErrExternalTool, "processor", "write cell", w.Column, err)
		}
	}
	return nil
}

func (p *Processor) disqualify(ctx context.Context, logger *slog.Logger, header sheet.Header, rule queue.Rule, item queue.WorkItem, result ItemResult, res stage.Result) ItemResult {
	result.Reason = res.Reason
	if rule.StatusColumn != "" && res.Sentinel != "" {
		if err := sheet.SetCell(ctx, p.store, header, item.Number(), rule.StatusColumn, res.Sentinel); err != nil {
			return p.fail(logger, result, "", fmt.Errorf("write %s: %w", rule.StatusColumn, err))
		}
	}
	result.Disposition = DispositionDisqualified
	result.Err = res.AsError()
	logger.Info("row disqualified",
		logging.String(logging.FieldEventType, "row_disqualified"),
		logging.String("reason", res.Reason),
		logging.String("sentinel", res.Sentinel),
	)
	return result
}

func (p *Processor) fail(logger *slog.Logger, result ItemResult, stageName string, err error) ItemResult {
	if stageName != "" {
		err = fmt.Errorf("%w: %s: %w", ErrStageFailure, stageName, err)
	} else {
		err = fmt.Errorf("%w: %w", ErrStageFailure, err)
	}
	result.Disposition = DispositionFailed
	result.Err = err
	logging.WarnWithContext(logger, "row failed", "row_failed",
		logging.Error(err),
		logging.String("error_kind", services.Kind(err)),
		logging.String(logging.FieldErrorHint, failureHint(err)),
	)
	return result
}

func (p *Processor) warnOptional(logger *slog.Logger, name string, err error) {
	logging.WarnWithContext(logger, "optional stage did not complete", "optional_stage_skipped",
		logging.String(logging.FieldStage, name),
		logging.Error(err),
		logging.String(logging.FieldImpact, "row continues without this stage's output"),
	)
}

func (p *Processor) acquireLock() (func(), error) {
	path := p.cfg.LockPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (lock %s)", ErrLocked, path)
	}
	return func() {
		if err := lock.Unlock(); err != nil {
			p.logger.Warn("failed to release run lock", logging.Error(err))
		}
	}, nil
}

func rowFilter(rows []int) map[int]bool {
	if len(rows) == 0 {
		return nil
	}
	wanted := make(map[int]bool, len(rows))
	for _, r := range rows {
		wanted[r] = true
	}
	return wanted
}

func failureHint(err error) string {
	switch {
	case errors.Is(err, queue.ErrMissingPrecondition), errors.Is(err, services.ErrNotFound):
		return "supply the missing input and rerun"
	case errors.Is(err, services.ErrConfiguration):
		return "fix the configuration and rerun"
	default:
		return "rerun the job; finished rows are skipped"
	}
}

func runHint(err error) string {
	switch {
	case errors.Is(err, ErrLocked):
		return "wait for the other run to finish"
	case errors.Is(err, sheet.ErrMissingColumn):
		return "add the missing column headers to the tracker"
	case errors.Is(err, services.ErrConfiguration):
		return "run jobflow config validate"
	default:
		return "check tracker access and rerun"
	}
}
