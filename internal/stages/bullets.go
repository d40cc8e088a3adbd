package stages

import (
	"context"
	"log/slog"

	"jobflow/internal/logging"
	"jobflow/internal/recovery"
	"jobflow/internal/services"
	"jobflow/internal/stage"
)

const (
	bulletsJobChars  = 30000
	bulletsMaxTokens = 1200
)

// BulletsSchema is the recovered shape of tailored resume bullets.
var BulletsSchema = recovery.NewSchema("bullets",
	recovery.Field{Name: "tailored_bullets", Type: recovery.TypeArray, Items: recovery.TypeObject, Required: true},
)

// Bullets drafts resume bullets tailored to a posting.
type Bullets struct {
	deps   Deps
	logger *slog.Logger
}

// NewBullets constructs the bullets stage.
func NewBullets(deps Deps) *Bullets {
	return &Bullets{deps: deps, logger: deps.logger("bullets")}
}

func (s *Bullets) Name() string { return "bullets" }

func (s *Bullets) Execute(ctx context.Context, in stage.Input) stage.Result {
	job, err := s.deps.readJobText(s.Name(), in.Dir, bulletsJobChars)
	if err != nil {
		return stage.Failed(err)
	}
	resume, err := s.deps.readResume(s.Name())
	if err != nil {
		return stage.Failed(err)
	}
	rec, err := s.deps.structured(ctx, s.Name(), buildBulletsPrompt(job, resume), BulletsSchema, bulletsMaxTokens)
	if err != nil {
		return stage.Failed(err)
	}
	bullets := rec.Objects("tailored_bullets")
	if len(bullets) == 0 {
		return stage.Failed(services.Wrap(services.ErrValidation, s.Name(), "read bullets",
			"Model returned no bullets", nil))
	}

	artifact, err := jsonArtifact(FileBullets, recovery.Record{"tailored_bullets": bullets})
	if err != nil {
		return stage.Failed(err)
	}
	logging.WithContext(ctx, s.logger).Info("bullets drafted",
		logging.String(logging.FieldEventType, "bullets_drafted"),
		logging.Int("count", len(bullets)),
	)
	return stage.Succeeded(artifact)
}

func (s *Bullets) HealthCheck(context.Context) stage.Health {
	return s.deps.resumeHealth(s.Name())
}
