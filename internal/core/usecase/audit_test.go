package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/campuscare/support-triage/internal/core/domain"
)

type decisionRepoFake struct {
	created   []domain.DecisionRecord
	createErr error
}

func (f *decisionRepoFake) Create(_ context.Context, record *domain.DecisionRecord) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, *record)
	return nil
}

func (f *decisionRepoFake) GetByID(context.Context, string) (*domain.DecisionRecord, error) {
	return nil, domain.ErrDecisionNotFound
}

func (f *decisionRepoFake) ListRecent(context.Context, int) ([]domain.DecisionRecord, error) {
	return nil, nil
}

func TestRecordTriageRequestPersistsDecision(t *testing.T) {
	repo := &decisionRepoFake{}
	uc := NewAuditUseCase(newTestRouter(t), repo)

	record, err := uc.RecordTriageRequest(context.Background(), domain.TriageRequest{
		ID: "req-1",
		ClassificationInput: domain.ClassificationInput{
			Category:   "Mental health",
			Confidence: confidence(0.95),
		},
	})
	if err != nil {
		t.Fatalf("RecordTriageRequest() error = %v", err)
	}
	if record.ID != "req-1" {
		t.Fatalf("record id = %q, want req-1", record.ID)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected 1 persisted record, got %d", len(repo.created))
	}
	if repo.created[0].Decision.Branch != domain.BranchGroup3 {
		t.Fatalf("persisted branch = %s, want group3", repo.created[0].Decision.Branch)
	}
	if record.CreatedAt.IsZero() {
		t.Fatalf("expected created_at to be set")
	}
}

func TestRecordTriageRequestGeneratesIDWhenMissing(t *testing.T) {
	repo := &decisionRepoFake{}
	uc := NewAuditUseCase(newTestRouter(t), repo)

	record, err := uc.RecordTriageRequest(context.Background(), domain.TriageRequest{
		ClassificationInput: domain.ClassificationInput{Category: "Counseling"},
	})
	if err != nil {
		t.Fatalf("RecordTriageRequest() error = %v", err)
	}
	if record.ID == "" {
		t.Fatalf("expected generated id")
	}
}

func TestRecordTriageRequestPropagatesRepoError(t *testing.T) {
	repo := &decisionRepoFake{createErr: errors.New("db down")}
	uc := NewAuditUseCase(newTestRouter(t), repo)

	if _, err := uc.RecordTriageRequest(context.Background(), domain.TriageRequest{
		ClassificationInput: domain.ClassificationInput{Category: "Counseling"},
	}); err == nil {
		t.Fatalf("expected error")
	}
}
