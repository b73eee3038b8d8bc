package usecase

import (
	"fmt"
	"strings"

	"github.com/campuscare/support-triage/internal/core/domain"
)

// Message templates per branch. The category is always echoed back so the
// caller can show the user what the decision was based on.
const (
	group3MessageFormat  = "Based on your category [%s], this is within Affordable Care services. Proceeding to Group 3 process."
	group4MessageFormat  = "Based on your category [%s], this is within Local Events services. Transferring to Group 4 process."
	otherMessageFormat   = "Based on your category [%s], this is currently out of scope. Please return to the previous step and try again."
	unknownMessageFormat = "Sorry, unable to recognize category [%s]. Please rephrase your needs."
	noCareMessageFormat  = "Based on your input, you're doing well! The assessment suggests %s, which you can explore on your own. No immediate professional support needed."

	lowConfidenceWarningFormat       = "WARNING: Classification confidence is low (%s), result may be inaccurate"
	criticalWarningFormat            = "CRITICAL: Very low confidence (%s). Manual review strongly recommended before proceeding."
	criticalMessageSuffixFormat      = "\nCRITICAL WARNING: Confidence only %s. Consider manual review."
	lowConfidenceMessageSuffixFormat = " [Low confidence (%s) - please confirm before proceeding]"
)

// RouterConfig carries the router's confidence thresholds. The values are
// heuristic defaults inherited from the upstream triage workflow; they are
// configurable but deliberately not recalibrated.
type RouterConfig struct {
	// LowConfidence is the bound below which a decision gets a low-confidence
	// warning and, in the care-level flow, requires confirmation. It is also
	// the stop-rule bound for LOW-care categories.
	LowConfidence float64
	// CriticalConfidence is the bound below which a decision is flagged for
	// manual review.
	CriticalConfidence float64
}

func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		LowConfidence:      0.50,
		CriticalConfidence: 0.30,
	}
}

func (c RouterConfig) normalize() RouterConfig {
	out := c
	def := DefaultRouterConfig()
	if out.LowConfidence <= 0 || out.LowConfidence > 1 {
		out.LowConfidence = def.LowConfidence
	}
	if out.CriticalConfidence <= 0 || out.CriticalConfidence > out.LowConfidence {
		out.CriticalConfidence = def.CriticalConfidence
	}
	return out
}

// Router classifies a (category, confidence) pair into a processing branch,
// layering care-level urgency overrides on top of plain branch lookup.
// It is a pure function of its inputs plus the immutable catalog and is safe
// for concurrent use.
type Router struct {
	catalog *domain.Catalog
	cfg     RouterConfig
}

func NewRouter(catalog *domain.Catalog, cfg RouterConfig) *Router {
	return &Router{
		catalog: catalog,
		cfg:     cfg.normalize(),
	}
}

// Route performs the branch-set lookup for a category. A confidence below
// the low bound only annotates the decision with a warning; it never changes
// the branch at this layer. Unknown or empty categories degrade to the
// unknown branch, never an error.
func (r *Router) Route(category string, confidence *float64) domain.RoutingDecision {
	category = strings.TrimSpace(category)

	decision := domain.RoutingDecision{
		Category:   category,
		Confidence: confidence,
	}

	switch r.catalog.Branch(category) {
	case domain.BranchGroup3:
		decision.Branch = domain.BranchGroup3
		decision.Action = domain.ActionProceedToGroup3
		decision.Message = fmt.Sprintf(group3MessageFormat, category)
	case domain.BranchGroup4:
		decision.Branch = domain.BranchGroup4
		decision.Action = domain.ActionTransferToGroup4
		decision.Message = fmt.Sprintf(group4MessageFormat, category)
	case domain.BranchOther:
		decision.Branch = domain.BranchOther
		decision.Action = domain.ActionReturnToPreviousStep
		decision.Message = fmt.Sprintf(otherMessageFormat, category)
	default:
		decision.Branch = domain.BranchUnknown
		decision.Action = domain.ActionAskForClarification
		decision.Message = fmt.Sprintf(unknownMessageFormat, category)
	}

	if confidence != nil && *confidence < r.cfg.LowConfidence {
		decision.Warning = fmt.Sprintf(lowConfidenceWarningFormat, formatPercent(*confidence))
	}

	return decision
}

// ClassifyWithCareLevel is the primary entry point. It resolves the care
// level first, applies the stop rule for LOW-care low-confidence requests,
// and otherwise routes normally with the confidence-escalation overlay
// applied on top. The boolean reports whether the request belongs to the
// group3 pipeline.
func (r *Router) ClassifyWithCareLevel(input domain.ClassificationInput) (bool, domain.RoutingDecision) {
	category := strings.TrimSpace(input.Category)
	confidence := input.Confidence
	careLevel := r.catalog.CareLevel(category)

	// Stop rule: the only terminal outcome. Urgent and moderate categories
	// always proceed regardless of confidence.
	if careLevel == domain.CareLevelLow && confidence != nil && *confidence < r.cfg.LowConfidence {
		return false, domain.RoutingDecision{
			Branch:     domain.BranchNoCareNeeded,
			Message:    fmt.Sprintf(noCareMessageFormat, strings.ToLower(category)),
			Category:   category,
			Confidence: confidence,
			Action:     domain.ActionStopExecution,
			CareLevel:  careLevel,
		}
	}

	decision := r.Route(category, confidence)
	decision.CareLevel = careLevel
	decision.OriginalInput = input.UserInput

	for _, overlay := range r.confidenceOverlays(careLevel, confidence) {
		decision = overlay(decision)
	}

	return decision.Branch == domain.BranchGroup3, decision
}

// decisionOverlay is one pure transformation step over a decision value.
// Overlays add annotations; they never rewrite branch or action.
type decisionOverlay func(domain.RoutingDecision) domain.RoutingDecision

func (r *Router) confidenceOverlays(careLevel domain.CareLevel, confidence *float64) []decisionOverlay {
	if confidence == nil {
		return nil
	}
	switch {
	case *confidence < r.cfg.CriticalConfidence:
		return []decisionOverlay{criticalConfidenceOverlay(*confidence, careLevel)}
	case *confidence < r.cfg.LowConfidence:
		return []decisionOverlay{lowConfidenceOverlay(*confidence)}
	default:
		return nil
	}
}

// criticalConfidenceOverlay flags the decision for manual review. Urgent
// categories keep their message untouched so a crisis-adjacent request is
// never visually de-prioritized by a warning banner.
func criticalConfidenceOverlay(confidence float64, careLevel domain.CareLevel) decisionOverlay {
	return func(d domain.RoutingDecision) domain.RoutingDecision {
		pct := formatPercent(confidence)
		d.ConfidenceWarning = domain.ConfidenceWarningCritical
		d.Warning = fmt.Sprintf(criticalWarningFormat, pct)
		d.RequiresManualReview = true
		if careLevel != domain.CareLevelUrgent {
			d.Message += fmt.Sprintf(criticalMessageSuffixFormat, pct)
		}
		return d
	}
}

func lowConfidenceOverlay(confidence float64) decisionOverlay {
	return func(d domain.RoutingDecision) domain.RoutingDecision {
		d.ConfidenceWarning = domain.ConfidenceWarningLow
		d.RequiresConfirmation = true
		d.Message += fmt.Sprintf(lowConfidenceMessageSuffixFormat, formatPercent(confidence))
		return d
	}
}

func formatPercent(confidence float64) string {
	return fmt.Sprintf("%.2f%%", confidence*100)
}
