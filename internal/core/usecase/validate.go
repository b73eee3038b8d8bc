package usecase

import (
	"fmt"
	"math"
	"strings"

	"github.com/campuscare/support-triage/internal/core/domain"
)

// ValidatorConfig carries the reliability thresholds and weights. Like the
// router thresholds these are heuristic values inherited from the upstream
// workflow, kept configurable without inventing a calibration.
type ValidatorConfig struct {
	// Similarity tier bounds for the mean per-dimension similarity.
	SimilarityHigh   float64
	SimilarityMedium float64

	// Overall-score fallback tier bounds, used when no similarity values are
	// present. Similarity is the ground-truth confidence signal but is not
	// always available.
	ScoreFallbackHigh   float64
	ScoreFallbackMedium float64

	// Anomaly bounds over the 0-10 overall score, and the population
	// standard-deviation limit across present dimension scores.
	ScoreAnomalyHigh   float64
	ScoreAnomalyLow    float64
	ScoreVarianceLimit float64

	// Completeness below this fraction earns an incomplete-data warning.
	CompletenessWarnBelow float64

	// Confidence-tier weights for the reliability blend.
	WeightHigh    float64
	WeightMedium  float64
	WeightLow     float64
	WeightUnknown float64

	// Reliability blend: weight*BlendConfidence + completeness*BlendCompleteness
	// + BlendBase, scaled to 0-100. The base term keeps every facility above
	// a zero score.
	BlendConfidence   float64
	BlendCompleteness float64
	BlendBase         float64

	// Mean-reliability bounds selecting the disclaimer tier.
	DisclaimerReassuring float64
	DisclaimerCautionary float64
}

func DefaultValidatorConfig() ValidatorConfig {
	return ValidatorConfig{
		SimilarityHigh:   0.70,
		SimilarityMedium: 0.50,

		ScoreFallbackHigh:   8.5,
		ScoreFallbackMedium: 7.0,

		ScoreAnomalyHigh:   9.5,
		ScoreAnomalyLow:    2.0,
		ScoreVarianceLimit: 2.0,

		CompletenessWarnBelow: 0.5,

		WeightHigh:    1.0,
		WeightMedium:  0.7,
		WeightLow:     0.4,
		WeightUnknown: 0.3,

		BlendConfidence:   0.6,
		BlendCompleteness: 0.3,
		BlendBase:         0.1,

		DisclaimerReassuring: 70,
		DisclaimerCautionary: 50,
	}
}

func (c ValidatorConfig) normalize() ValidatorConfig {
	def := DefaultValidatorConfig()
	if c.SimilarityHigh <= 0 || c.SimilarityHigh > 1 {
		c.SimilarityHigh = def.SimilarityHigh
	}
	if c.SimilarityMedium <= 0 || c.SimilarityMedium > c.SimilarityHigh {
		c.SimilarityMedium = def.SimilarityMedium
	}
	if c.ScoreFallbackHigh <= 0 {
		c.ScoreFallbackHigh = def.ScoreFallbackHigh
	}
	if c.ScoreFallbackMedium <= 0 || c.ScoreFallbackMedium > c.ScoreFallbackHigh {
		c.ScoreFallbackMedium = def.ScoreFallbackMedium
	}
	if c.ScoreAnomalyHigh <= 0 {
		c.ScoreAnomalyHigh = def.ScoreAnomalyHigh
	}
	if c.ScoreAnomalyLow <= 0 {
		c.ScoreAnomalyLow = def.ScoreAnomalyLow
	}
	if c.ScoreVarianceLimit <= 0 {
		c.ScoreVarianceLimit = def.ScoreVarianceLimit
	}
	if c.CompletenessWarnBelow <= 0 || c.CompletenessWarnBelow > 1 {
		c.CompletenessWarnBelow = def.CompletenessWarnBelow
	}
	if c.WeightHigh <= 0 {
		c.WeightHigh = def.WeightHigh
	}
	if c.WeightMedium <= 0 {
		c.WeightMedium = def.WeightMedium
	}
	if c.WeightLow <= 0 {
		c.WeightLow = def.WeightLow
	}
	if c.WeightUnknown <= 0 {
		c.WeightUnknown = def.WeightUnknown
	}
	if c.BlendConfidence <= 0 {
		c.BlendConfidence = def.BlendConfidence
	}
	if c.BlendCompleteness <= 0 {
		c.BlendCompleteness = def.BlendCompleteness
	}
	if c.BlendBase < 0 {
		c.BlendBase = def.BlendBase
	}
	if c.DisclaimerReassuring <= 0 || c.DisclaimerReassuring > 100 {
		c.DisclaimerReassuring = def.DisclaimerReassuring
	}
	if c.DisclaimerCautionary <= 0 || c.DisclaimerCautionary > c.DisclaimerReassuring {
		c.DisclaimerCautionary = def.DisclaimerCautionary
	}
	return c
}

// Validator attaches a reliability assessment to facility recommendations so
// low-confidence or incomplete results are flagged rather than presented as
// fact. It is stateless and safe for concurrent use.
type Validator struct {
	cfg ValidatorConfig
}

func NewValidator(cfg ValidatorConfig) *Validator {
	return &Validator{cfg: cfg.normalize()}
}

// Validate computes the confidence tier, completeness, anomaly warnings, and
// reliability score for one facility and attaches them as a fresh validation
// record. Caller-owned fields are never modified.
func (v *Validator) Validate(facility domain.Facility) domain.Facility {
	confidence := v.scoreConfidence(facility)
	completeness := v.dataCompleteness(facility)

	warnings := make([]string, 0, 4)
	if completeness < v.cfg.CompletenessWarnBelow {
		warnings = append(warnings, fmt.Sprintf("Incomplete data (%.0f%%)", completeness*100))
	}
	warnings = append(warnings, v.scoreAnomalies(facility)...)

	source := facility.Source
	if source == "" {
		source = "unknown"
	}

	facility.Validation = &domain.ValidationResult{
		ConfidenceLevel:  confidence,
		Warnings:         warnings,
		DataSource:       source,
		ReliabilityScore: v.reliability(confidence, completeness),
	}
	return facility
}

// ValidateBatch validates each facility independently. An empty batch is a
// no-op; the aggregate report operations are the ones requiring a non-empty
// batch.
func (v *Validator) ValidateBatch(facilities []domain.Facility) []domain.Facility {
	out := make([]domain.Facility, len(facilities))
	for i, facility := range facilities {
		out[i] = v.Validate(facility)
	}
	return out
}

// scoreConfidence maps the mean of the present similarity values to a tier,
// falling back to the overall score range when no similarities were supplied.
func (v *Validator) scoreConfidence(facility domain.Facility) domain.ConfidenceLevel {
	similarities := facility.Similarities()
	if len(similarities) == 0 {
		switch {
		case facility.Score >= v.cfg.ScoreFallbackHigh:
			return domain.ConfidenceHigh
		case facility.Score >= v.cfg.ScoreFallbackMedium:
			return domain.ConfidenceMedium
		default:
			return domain.ConfidenceLow
		}
	}

	switch avg := mean(similarities); {
	case avg >= v.cfg.SimilarityHigh:
		return domain.ConfidenceHigh
	case avg >= v.cfg.SimilarityMedium:
		return domain.ConfidenceMedium
	default:
		return domain.ConfidenceLow
	}
}

// dataCompleteness returns the weighted fraction of populated contact fields:
// required name/city/state carry 80%, optional address/phone/zip carry 20%.
func (v *Validator) dataCompleteness(facility domain.Facility) float64 {
	required := []string{facility.Name, facility.City, facility.State}
	optional := []string{facility.Address, facility.Phone, facility.Zip}

	completeRequired := 0
	for _, value := range required {
		if fieldPresent(value) {
			completeRequired++
		}
	}
	completeOptional := 0
	for _, value := range optional {
		if fieldPresent(value) && !placeholderValue(value) {
			completeOptional++
		}
	}

	return float64(completeRequired)/float64(len(required))*0.8 +
		float64(completeOptional)/float64(len(optional))*0.2
}

func fieldPresent(value string) bool {
	trimmed := strings.TrimSpace(value)
	return trimmed != "" && !strings.EqualFold(trimmed, "nan")
}

// placeholderValue catches the sentinel strings the upstream search subsystem
// emits for missing contact details.
func placeholderValue(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "address not available", "phone not available":
		return true
	default:
		return false
	}
}

// scoreAnomalies flags fabrication-shaped scores. The three checks are
// independent and may co-occur.
func (v *Validator) scoreAnomalies(facility domain.Facility) []string {
	warnings := make([]string, 0, 3)

	if facility.Score >= v.cfg.ScoreAnomalyHigh {
		warnings = append(warnings,
			fmt.Sprintf("Abnormally high score (%.1f/10), manual verification recommended", facility.Score))
	}
	if facility.Score <= v.cfg.ScoreAnomalyLow {
		warnings = append(warnings,
			fmt.Sprintf("Abnormally low score (%.1f/10), may not match criteria", facility.Score))
	}

	if scores := facility.DimensionScores(); len(scores) > 0 {
		if sd := stdDev(scores); sd > v.cfg.ScoreVarianceLimit {
			warnings = append(warnings,
				fmt.Sprintf("High score variance (std dev=%.1f), may be unreliable", sd))
		}
	}

	return warnings
}

// reliability blends the confidence weight and completeness into a 0-100
// score, clamped.
func (v *Validator) reliability(confidence domain.ConfidenceLevel, completeness float64) float64 {
	score := (v.confidenceWeight(confidence)*v.cfg.BlendConfidence +
		completeness*v.cfg.BlendCompleteness +
		v.cfg.BlendBase) * 100
	return math.Min(100, math.Max(0, score))
}

func (v *Validator) confidenceWeight(confidence domain.ConfidenceLevel) float64 {
	switch confidence {
	case domain.ConfidenceHigh:
		return v.cfg.WeightHigh
	case domain.ConfidenceMedium:
		return v.cfg.WeightMedium
	case domain.ConfidenceLow:
		return v.cfg.WeightLow
	default:
		return v.cfg.WeightUnknown
	}
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stdDev is the population standard deviation.
func stdDev(values []float64) float64 {
	m := mean(values)
	sum := 0.0
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}
