package ports

import (
	"context"

	"github.com/campuscare/support-triage/internal/core/domain"
)

// RequestRouter is the inbound contract for confidence-aware category routing.
type RequestRouter interface {
	Route(category string, confidence *float64) domain.RoutingDecision
	ClassifyWithCareLevel(input domain.ClassificationInput) (bool, domain.RoutingDecision)
}

// FacilityValidator is the inbound contract for reliability scoring of
// facility recommendations.
type FacilityValidator interface {
	Validate(facility domain.Facility) domain.Facility
	ValidateBatch(facilities []domain.Facility) []domain.Facility
	WarningReport(facilities []domain.Facility) (string, error)
	Disclaimer(facilities []domain.Facility) (string, error)
	HighConfidence(facilities []domain.Facility) []domain.Facility
	AttachBadges(facilities []domain.Facility) []domain.Facility
}

// TriageRecorder is the inbound contract for asynchronous decision auditing.
type TriageRecorder interface {
	RecordTriageRequest(ctx context.Context, req domain.TriageRequest) (*domain.DecisionRecord, error)
}
