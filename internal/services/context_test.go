package services_test

import (
	"context"
	"testing"

	"jobflow/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRow(ctx, 42)
	ctx = services.WithStage(ctx, "fitscore")
	ctx = services.WithJob(ctx, "score")
	ctx = services.WithRequestID(ctx, "run-123")

	if row, ok := services.RowFromContext(ctx); !ok || row != 42 {
		t.Fatalf("unexpected row: %v %v", row, ok)
	}
	if stage, ok := services.StageFromContext(ctx); !ok || stage != "fitscore" {
		t.Fatalf("unexpected stage: %v %v", stage, ok)
	}
	if job, ok := services.JobFromContext(ctx); !ok || job != "score" {
		t.Fatalf("unexpected job: %v %v", job, ok)
	}
	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "run-123" {
		t.Fatalf("unexpected request id: %v %v", rid, ok)
	}
}

func TestStageBlankPreservesContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithStage(ctx, "")
	if _, ok := services.StageFromContext(ctx); ok {
		t.Fatal("expected no stage value")
	}
	if _, ok := services.RowFromContext(ctx); ok {
		t.Fatal("expected no row value")
	}
}
