package nats

import (
	"context"
	"errors"

	"github.com/nats-io/nats.go"

	"github.com/campuscare/support-triage/internal/core/domain"
	"github.com/campuscare/support-triage/internal/infrastructure/resilience"
)

// classifyNATSError decides retry and breaker treatment for a publish error.
// Connectivity failures are transient; anything else is a programming or
// payload problem the breaker should count but a retry cannot fix.
func classifyNATSError(err error) resilience.ErrorClassification {
	switch {
	case err == nil:
		return resilience.ErrorClassification{}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		// The caller gave up; neither retry nor penalize the breaker.
		return resilience.ErrorClassification{}
	case resilience.IsCircuitOpen(err), isConnectivityError(err):
		return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
	default:
		return resilience.ErrorClassification{RecordFailure: true}
	}
}

func isConnectivityError(err error) bool {
	return errors.Is(err, nats.ErrNoServers) ||
		errors.Is(err, nats.ErrTimeout) ||
		errors.Is(err, nats.ErrConnectionClosed) ||
		errors.Is(err, nats.ErrDisconnected)
}

// wrapTemporaryIfNeeded tags transient publish failures as ErrTemporary so
// the HTTP adapter maps them to 503 instead of 500.
func wrapTemporaryIfNeeded(err error) error {
	switch {
	case err == nil:
		return nil
	case domain.IsKind(err, domain.ErrTemporary):
		return err
	case classifyNATSError(err).Retryable:
		return domain.WrapError(domain.ErrTemporary, "nats publish", err)
	default:
		return err
	}
}
