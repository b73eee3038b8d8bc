package domain

import "time"

// ClassificationInput is the upstream classifier's output handed to the
// router. A nil Confidence means the classifier supplied no confidence
// signal, which is distinct from a confidence of zero.
type ClassificationInput struct {
	Category   string   `json:"category"`
	Confidence *float64 `json:"confidence,omitempty"`
	UserInput  string   `json:"user_input,omitempty"`
}

// RoutingDecision is the routing outcome for one classification.
// The confidence-warning fields are additive annotations layered onto the
// base decision; they never change the branch or action.
type RoutingDecision struct {
	Branch               Branch            `json:"branch"`
	Message              string            `json:"message"`
	Category             string            `json:"category"`
	Confidence           *float64          `json:"confidence,omitempty"`
	Action               Action            `json:"action"`
	CareLevel            CareLevel         `json:"care_level,omitempty"`
	OriginalInput        string            `json:"original_input,omitempty"`
	Warning              string            `json:"warning,omitempty"`
	ConfidenceWarning    ConfidenceWarning `json:"confidence_warning,omitempty"`
	RequiresConfirmation bool              `json:"requires_confirmation,omitempty"`
	RequiresManualReview bool              `json:"requires_manual_review,omitempty"`
}

// Terminal reports whether the decision is the hard stop the caller must
// treat as the end of the workflow.
func (d RoutingDecision) Terminal() bool {
	return d.Action == ActionStopExecution
}

// TriageRequest is the queue message carrying a classification toward the
// audit worker. PublishedAt is stamped by the publisher so the worker can
// measure how long the message sat on the queue.
type TriageRequest struct {
	ID          string    `json:"id"`
	PublishedAt time.Time `json:"published_at"`
	ClassificationInput
}

// DecisionRecord is a persisted routing decision in the audit log.
type DecisionRecord struct {
	ID        string          `json:"id"`
	Decision  RoutingDecision `json:"decision"`
	CreatedAt time.Time       `json:"created_at"`
}
