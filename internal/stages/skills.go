package stages

import (
	"context"
	"log/slog"

	"jobflow/internal/logging"
	"jobflow/internal/recovery"
	"jobflow/internal/stage"
)

const (
	skillsJobChars  = 30000
	skillsMaxTokens = 1024
)

// SkillsSchema is the recovered shape of skill recommendations. Either list
// may be missing.
var SkillsSchema = recovery.NewSchema("skills",
	recovery.Field{Name: "skills_to_consider_omitting"},
	recovery.Field{Name: "skills_to_consider_adding"},
)

// Skills recommends skills to add to or drop from the resume.
type Skills struct {
	deps   Deps
	logger *slog.Logger
}

// NewSkills constructs the skills stage.
func NewSkills(deps Deps) *Skills {
	return &Skills{deps: deps, logger: deps.logger("skills")}
}

func (s *Skills) Name() string { return "skills" }

func (s *Skills) Execute(ctx context.Context, in stage.Input) stage.Result {
	job, err := s.deps.readJobText(s.Name(), in.Dir, skillsJobChars)
	if err != nil {
		return stage.Failed(err)
	}
	resume, err := s.deps.readResume(s.Name())
	if err != nil {
		return stage.Failed(err)
	}
	rec, err := s.deps.structured(ctx, s.Name(), buildSkillsPrompt(job, resume), SkillsSchema, skillsMaxTokens)
	if err != nil {
		return stage.Failed(err)
	}

	out := recovery.Record{
		"skills_to_consider_omitting": skillList(rec, "skills_to_consider_omitting"),
		"skills_to_consider_adding":   skillList(rec, "skills_to_consider_adding"),
	}
	artifact, err := jsonArtifact(FileSkills, out)
	if err != nil {
		return stage.Failed(err)
	}
	logging.WithContext(ctx, s.logger).Info("skills recommended",
		logging.String(logging.FieldEventType, "skills_recommended"),
		logging.Int("omit", len(out["skills_to_consider_omitting"].([]recovery.Record))),
		logging.Int("add", len(out["skills_to_consider_adding"].([]recovery.Record))),
	)
	return stage.Succeeded(artifact)
}

// skillList keeps the {skill, reason} objects of a list, treating anything
// that is not a list as empty.
func skillList(rec recovery.Record, name string) []recovery.Record {
	out := []recovery.Record{}
	for _, item := range rec.Objects(name) {
		if item.String("skill") == "" {
			continue
		}
		out = append(out, recovery.Record{"skill": item.String("skill"), "reason": item.String("reason")})
	}
	return out
}

func (s *Skills) HealthCheck(context.Context) stage.Health {
	return s.deps.resumeHealth(s.Name())
}
