package stages

import (
	"context"
	"log/slog"

	"jobflow/internal/logging"
	"jobflow/internal/recovery"
	"jobflow/internal/services"
	"jobflow/internal/stage"
)

const analyzeMaxTokens = 800

// Keyword lists recovered by the fit analysis.
const (
	FieldMustHave      = "must_have_keywords"
	FieldNiceToHave    = "nice_to_have_keywords"
	FieldMissing       = "missing_keywords_from_resume"
	FieldEmphasize     = "top_resume_points_to_emphasize"
	fieldFitScoreValue = "fit_score_0_to_100"
)

var analysisLists = []string{FieldMustHave, FieldNiceToHave, FieldMissing, FieldEmphasize}

// AnalysisSchema is the recovered shape of a fit analysis. The score is
// required; missing keyword lists are stored empty.
var AnalysisSchema = recovery.NewSchema("fit_analysis",
	recovery.Field{Name: fieldFitScoreValue, Type: recovery.TypeNumber, Required: true},
	recovery.Field{Name: FieldMustHave, Type: recovery.TypeArray, Items: recovery.TypeString},
	recovery.Field{Name: FieldNiceToHave, Type: recovery.TypeArray, Items: recovery.TypeString},
	recovery.Field{Name: FieldMissing, Type: recovery.TypeArray, Items: recovery.TypeString},
	recovery.Field{Name: FieldEmphasize, Type: recovery.TypeArray, Items: recovery.TypeString},
)

// Analyze breaks a posting down into keywords and resume talking points
// alongside a fit score.
type Analyze struct {
	deps   Deps
	logger *slog.Logger
}

// NewAnalyze constructs the fit analysis stage.
func NewAnalyze(deps Deps) *Analyze {
	return &Analyze{deps: deps, logger: deps.logger("analyze")}
}

func (s *Analyze) Name() string { return "analyze" }

func (s *Analyze) Execute(ctx context.Context, in stage.Input) stage.Result {
	job, err := s.deps.readJobText(s.Name(), in.Dir, 0)
	if err != nil {
		return stage.Failed(err)
	}
	resume, err := s.deps.readResume(s.Name())
	if err != nil {
		return stage.Failed(err)
	}
	rec, err := s.deps.structured(ctx, s.Name(), buildAnalyzePrompt(job, resume), AnalysisSchema, analyzeMaxTokens)
	if err != nil {
		return stage.Failed(err)
	}
	raw, ok := rec.Float(fieldFitScoreValue)
	if !ok {
		return stage.Failed(services.Wrap(services.ErrValidation, s.Name(), "read score",
			"fit_score_0_to_100 is not a number", nil))
	}

	score := ClampScore(raw)
	out := recovery.Record{fieldFitScoreValue: score}
	for _, name := range analysisLists {
		out[name] = rec.Strings(name)
	}
	artifact, err := jsonArtifact(FileFit, out)
	if err != nil {
		return stage.Failed(err)
	}
	logging.WithContext(ctx, s.logger).Info("fit analyzed",
		logging.String(logging.FieldEventType, "fit_analyzed"),
		logging.Int("score", score),
		logging.Int("missing_keywords", len(rec.Strings(FieldMissing))),
	)
	return stage.Succeeded(artifact)
}

func (s *Analyze) HealthCheck(context.Context) stage.Health {
	return s.deps.resumeHealth(s.Name())
}
