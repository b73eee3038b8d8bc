package usecase

import (
	"errors"
	"fmt"
	"strings"

	"github.com/campuscare/support-triage/internal/core/domain"
)

const reportRule = "======================================================================"
const noticeRule = "----------------------------------------------------------------------"

// WarningReport tallies confidence tiers across an already-validated batch
// and enumerates every per-facility warning. The batch must be non-empty.
func (v *Validator) WarningReport(facilities []domain.Facility) (string, error) {
	if len(facilities) == 0 {
		return "", domain.WrapError(domain.ErrInvalidInput, "warning report", errors.New("empty facility batch"))
	}

	var b strings.Builder
	b.WriteString(reportRule + "\n")
	b.WriteString("WARNING: VALIDATION REPORT\n")
	b.WriteString(reportRule + "\n")

	total := len(facilities)
	counts := map[domain.ConfidenceLevel]int{}
	for _, facility := range facilities {
		if facility.Validation != nil {
			counts[facility.Validation.ConfidenceLevel]++
		}
	}
	pct := func(n int) float64 { return float64(n) / float64(total) * 100 }

	fmt.Fprintf(&b, "\nTotal Facilities: %d\n", total)
	fmt.Fprintf(&b, "High Confidence: %d (%.0f%%)\n", counts[domain.ConfidenceHigh], pct(counts[domain.ConfidenceHigh]))
	fmt.Fprintf(&b, "Medium Confidence: %d (%.0f%%)\n", counts[domain.ConfidenceMedium], pct(counts[domain.ConfidenceMedium]))
	fmt.Fprintf(&b, "Low Confidence: %d (%.0f%%)\n", counts[domain.ConfidenceLow], pct(counts[domain.ConfidenceLow]))

	flagged := make([]domain.Facility, 0, total)
	for _, facility := range facilities {
		if facility.Validation != nil && len(facility.Validation.Warnings) > 0 {
			flagged = append(flagged, facility)
		}
	}

	if len(flagged) > 0 {
		fmt.Fprintf(&b, "\nWARNING: %d facilities have warnings:\n", len(flagged))
		for i, facility := range flagged {
			fmt.Fprintf(&b, "\n%d. %s\n", i+1, facility.Name)
			for _, warning := range facility.Validation.Warnings {
				fmt.Fprintf(&b, "   - %s\n", warning)
			}
		}
	} else {
		b.WriteString("\nAll facilities passed validation\n")
	}

	b.WriteString("\n" + reportRule)
	return b.String(), nil
}

// Disclaimer selects one of three fixed notice tiers from the mean
// reliability of an already-validated batch and always appends the fixed
// non-medical-advice notice. The batch must be non-empty.
func (v *Validator) Disclaimer(facilities []domain.Facility) (string, error) {
	if len(facilities) == 0 {
		return "", domain.WrapError(domain.ErrInvalidInput, "disclaimer", errors.New("empty facility batch"))
	}

	sum := 0.0
	for _, facility := range facilities {
		if facility.Validation != nil {
			sum += facility.Validation.ReliabilityScore
		}
	}
	avg := sum / float64(len(facilities))

	var b strings.Builder
	b.WriteString("\nIMPORTANT NOTICE:\n")
	b.WriteString(noticeRule + "\n")

	switch {
	case avg >= v.cfg.DisclaimerReassuring:
		b.WriteString("Results based on multi-source evaluation, high reliability\n")
	case avg >= v.cfg.DisclaimerCautionary:
		b.WriteString("WARNING: Results based on limited data, phone verification recommended\n")
	default:
		b.WriteString("CAUTION: Low confidence results, manual verification strongly recommended\n")
	}

	b.WriteString("\n")
	b.WriteString("DISCLAIMER: This system provides reference information only,\n")
	b.WriteString("            not medical advice. Actual services, costs, and\n")
	b.WriteString("            availability should be confirmed directly with facilities.\n")
	b.WriteString("\n")
	fmt.Fprintf(&b, "Average Reliability: %.0f/100\n", avg)
	b.WriteString(noticeRule)
	return b.String(), nil
}

// HighConfidence validates a batch and keeps only the high-tier facilities.
func (v *Validator) HighConfidence(facilities []domain.Facility) []domain.Facility {
	validated := v.ValidateBatch(facilities)
	out := make([]domain.Facility, 0, len(validated))
	for _, facility := range validated {
		if facility.Validation != nil && facility.Validation.ConfidenceLevel == domain.ConfidenceHigh {
			out = append(out, facility)
		}
	}
	return out
}

// AttachBadges validates a batch and derives display badges purely from the
// computed validation fields. No new scoring happens here.
func (v *Validator) AttachBadges(facilities []domain.Facility) []domain.Facility {
	validated := v.ValidateBatch(facilities)
	for i := range validated {
		validation := validated[i].Validation

		badges := make([]string, 0, 3)
		if validation.ReliabilityScore >= v.cfg.DisclaimerReassuring {
			badges = append(badges, domain.BadgeVerified)
		}
		if validation.ConfidenceLevel == domain.ConfidenceHigh {
			badges = append(badges, domain.BadgeHighConfidence)
		}
		if len(validation.Warnings) == 0 {
			badges = append(badges, domain.BadgeNoWarnings)
		}
		validated[i].Badges = badges
	}
	return validated
}
