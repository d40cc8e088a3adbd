package stages

import (
	"context"
	"log/slog"
	"strings"

	"jobflow/internal/logging"
	"jobflow/internal/stage"
)

var clearancePhrases = []string{
	"security clearance",
	"secret clearance",
	"top secret",
	"ts/sci",
	"ts-sci",
	"clearance required",
	"must have clearance",
	"must possess clearance",
	"active clearance",
	"active secret",
	"active top secret",
	"eligible for clearance",
	"clearance eligibility",
	"dod clearance",
	"dod secret",
	"government clearance",
	"federal clearance",
	"polygraph",
	"security clearance required",
}

// RequiresClearance reports the first clearance phrase found in text,
// ignoring case.
func RequiresClearance(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, phrase := range clearancePhrases {
		if strings.Contains(lower, phrase) {
			return phrase, true
		}
	}
	return "", false
}

// Clearance disqualifies postings that require a government clearance.
type Clearance struct {
	deps   Deps
	logger *slog.Logger
}

// NewClearance constructs the clearance screen.
func NewClearance(deps Deps) *Clearance {
	return &Clearance{deps: deps, logger: deps.logger("clearance")}
}

func (s *Clearance) Name() string { return "clearance" }

func (s *Clearance) Execute(ctx context.Context, in stage.Input) stage.Result {
	job, err := readInput(s.Name(), in.Dir, FileJobText)
	if err != nil {
		return stage.Failed(err)
	}
	phrase, found := RequiresClearance(job)
	if !found {
		return stage.Succeeded()
	}
	logging.WithContext(ctx, s.logger).Info("clearance requirement found",
		logging.String(logging.FieldEventType, "clearance_required"),
		logging.String("phrase", phrase),
	)
	return stage.Disqualified("posting requires clearance ("+phrase+")", SentinelClearance)
}

func (s *Clearance) HealthCheck(context.Context) stage.Health {
	return stage.Healthy(s.Name())
}
