package stages

import (
	"context"
	"log/slog"
	"math"
	"strconv"

	"jobflow/internal/logging"
	"jobflow/internal/recovery"
	"jobflow/internal/services"
	"jobflow/internal/stage"
)

const fitScoreMaxTokens = 200

// FitScoreSchema is the recovered shape of a fit score.
var FitScoreSchema = recovery.NewSchema("fit_score",
	recovery.Field{Name: "fit_score_0_to_100", Type: recovery.TypeNumber, Required: true},
)

// ClampScore bounds a model score to 0..100 and rounds it.
func ClampScore(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	return int(math.Round(math.Max(0, math.Min(100, v))))
}

// FitScore rates the resume against a posting.
type FitScore struct {
	deps   Deps
	logger *slog.Logger
}

// NewFitScore constructs the fit score stage.
func NewFitScore(deps Deps) *FitScore {
	return &FitScore{deps: deps, logger: deps.logger("fitscore")}
}

func (s *FitScore) Name() string { return "fitscore" }

func (s *FitScore) Execute(ctx context.Context, in stage.Input) stage.Result {
	job, err := s.deps.readJobText(s.Name(), in.Dir, 0)
	if err != nil {
		return stage.Failed(err)
	}
	resume, err := s.deps.readResume(s.Name())
	if err != nil {
		return stage.Failed(err)
	}
	rec, err := s.deps.structured(ctx, s.Name(), buildFitScorePrompt(job, resume), FitScoreSchema, fitScoreMaxTokens)
	if err != nil {
		return stage.Failed(err)
	}
	raw, ok := rec.Float("fit_score_0_to_100")
	if !ok {
		return stage.Failed(services.Wrap(services.ErrValidation, s.Name(), "read score",
			"fit_score_0_to_100 is not a number", nil))
	}
	score := ClampScore(raw)
	rec["fit_score_0_to_100"] = score

	artifact, err := jsonArtifact(FileFitScore, rec)
	if err != nil {
		return stage.Failed(err)
	}
	logging.WithContext(ctx, s.logger).Info("fit scored",
		logging.String(logging.FieldEventType, "fit_scored"),
		logging.Int("score", score),
	)
	return stage.Succeeded(artifact).WithWrite(s.deps.Config.Tracker.FitScoreColumn, strconv.Itoa(score))
}

func (s *FitScore) HealthCheck(context.Context) stage.Health {
	return s.deps.resumeHealth(s.Name())
}
