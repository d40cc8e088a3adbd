package stages

import (
	"context"
	"log/slog"

	"jobflow/internal/logging"
	"jobflow/internal/recovery"
	"jobflow/internal/stage"
)

const (
	metadataJobChars  = 30000
	metadataMaxTokens = 512
)

// Allowed values for the categorical tracker columns.
var (
	CompanyTypes = []string{"STARTUP", "BIG TECH", "GOV", "SCALE-UP"}
	CompanySizes = []string{"<50", "50-200", "200-1000", "1000+"}
	RoleFocuses  = []string{"FRONTEND", "BACKEND", "FULL-STACK", "EMBEDDED", "ML"}
	RoleLevels   = []string{"JUNIOR", "MID", "SENIOR", "STAFF", "PRINCIPAL"}
)

// MetadataSchema is the recovered shape of a metadata classification.
var MetadataSchema = recovery.NewSchema("metadata",
	recovery.Field{Name: "role_title", Type: recovery.TypeString, Default: unknownValue},
	recovery.Field{Name: "company_type", Type: recovery.TypeCategory, Allowed: CompanyTypes, Default: "STARTUP"},
	recovery.Field{Name: "company_size_bucket", Type: recovery.TypeCategory, Allowed: CompanySizes, Default: "1000+"},
	recovery.Field{Name: "role_focus", Type: recovery.TypeCategory, Allowed: RoleFocuses, Default: "FULL-STACK"},
	recovery.Field{Name: "role_level", Type: recovery.TypeCategory, Allowed: RoleLevels, Default: "SENIOR"},
)

// TrackerRoleLevel folds a model role level onto the tracker dropdown, which
// only offers MID and SENIOR.
func TrackerRoleLevel(level string) string {
	switch level {
	case "JUNIOR":
		return "MID"
	case "STAFF", "PRINCIPAL":
		return "SENIOR"
	default:
		return level
	}
}

// Metadata classifies a posting into the tracker's descriptive columns.
type Metadata struct {
	deps   Deps
	logger *slog.Logger
}

// NewMetadata constructs the metadata stage.
func NewMetadata(deps Deps) *Metadata {
	return &Metadata{deps: deps, logger: deps.logger("metadata")}
}

func (s *Metadata) Name() string { return "metadata" }

func (s *Metadata) Execute(ctx context.Context, in stage.Input) stage.Result {
	job, err := s.deps.readJobText(s.Name(), in.Dir, metadataJobChars)
	if err != nil {
		return stage.Failed(err)
	}
	rec, err := s.deps.structured(ctx, s.Name(), buildMetadataPrompt(job), MetadataSchema, metadataMaxTokens)
	if err != nil {
		return stage.Failed(err)
	}
	rec["role_level"] = TrackerRoleLevel(rec.String("role_level"))

	artifact, err := jsonArtifact(FileMetadata, rec)
	if err != nil {
		return stage.Failed(err)
	}
	tracker := s.deps.Config.Tracker
	result := stage.Succeeded(artifact).
		WithWrite(tracker.RoleTitleColumn, rec.String("role_title")).
		WithWrite(tracker.CompanyTypeColumn, rec.String("company_type")).
		WithWrite(tracker.CompanySizeBucketColumn, rec.String("company_size_bucket")).
		WithWrite(tracker.RoleFocusColumn, rec.String("role_focus")).
		WithWrite(tracker.RoleLevelColumn, rec.String("role_level"))

	logging.WithContext(ctx, s.logger).Info("metadata classified",
		logging.String(logging.FieldEventType, "metadata_classified"),
		logging.String("role_title", rec.String("role_title")),
		logging.String("role_level", rec.String("role_level")),
	)
	return result
}

func (s *Metadata) HealthCheck(ctx context.Context) stage.Health {
	return s.deps.llmHealth(s.Name())
}
