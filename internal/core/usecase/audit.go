package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/campuscare/support-triage/internal/core/domain"
	"github.com/campuscare/support-triage/internal/core/ports"
)

// AuditUseCase records routing decisions for triage requests arriving over
// the queue. Routing is deterministic, so re-running the router here yields
// the same decision the API returned to the caller.
type AuditUseCase struct {
	router ports.RequestRouter
	repo   ports.DecisionRepository
}

func NewAuditUseCase(router ports.RequestRouter, repo ports.DecisionRepository) *AuditUseCase {
	return &AuditUseCase{
		router: router,
		repo:   repo,
	}
}

func (uc *AuditUseCase) RecordTriageRequest(ctx context.Context, req domain.TriageRequest) (*domain.DecisionRecord, error) {
	_, decision := uc.router.ClassifyWithCareLevel(req.ClassificationInput)

	record := &domain.DecisionRecord{
		ID:        req.ID,
		Decision:  decision,
		CreatedAt: time.Now().UTC(),
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}

	if err := uc.repo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("record decision: %w", err)
	}
	return record, nil
}
