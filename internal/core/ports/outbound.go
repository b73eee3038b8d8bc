package ports

import (
	"context"

	"github.com/campuscare/support-triage/internal/core/domain"
)

// DecisionRepository persists and reads the routing-decision audit log.
type DecisionRepository interface {
	Create(ctx context.Context, record *domain.DecisionRecord) error
	GetByID(ctx context.Context, id string) (*domain.DecisionRecord, error)
	ListRecent(ctx context.Context, limit int) ([]domain.DecisionRecord, error)
}

// TriageQueue publishes/consumes triage requests for audit recording.
type TriageQueue interface {
	PublishTriageRequest(ctx context.Context, req domain.TriageRequest) error
	SubscribeTriageRequests(ctx context.Context, handler func(context.Context, domain.TriageRequest) error) error
}
