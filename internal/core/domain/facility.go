package domain

// ConfidenceLevel is the reliability tier of a facility's scores.
type ConfidenceLevel string

const (
	ConfidenceHigh    ConfidenceLevel = "high"
	ConfidenceMedium  ConfidenceLevel = "medium"
	ConfidenceLow     ConfidenceLevel = "low"
	ConfidenceUnknown ConfidenceLevel = "unknown"
)

// Validation badges derived from already-computed validation fields.
const (
	BadgeVerified       = "VERIFIED"
	BadgeHighConfidence = "HIGH CONFIDENCE"
	BadgeNoWarnings     = "NO WARNINGS"
)

// Facility is a candidate recommendation produced by the upstream search
// subsystem. Per-dimension scores and similarities are optional; a nil
// pointer means the dimension was not evaluated. The validator only ever
// fills Validation and Badges, never the caller-owned fields.
type Facility struct {
	Name    string `json:"name"`
	City    string `json:"city"`
	State   string `json:"state"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Zip     string `json:"zip,omitempty"`

	Score float64 `json:"score"`

	AffordabilityScore        *float64 `json:"affordability_score,omitempty"`
	CrisisCareScore           *float64 `json:"crisis_care_score,omitempty"`
	AccessibilityScore        *float64 `json:"accessibility_score,omitempty"`
	SpecializationScore       *float64 `json:"specialization_score,omitempty"`
	CommunityIntegrationScore *float64 `json:"community_integration_score,omitempty"`

	AffordabilitySimilarity        *float64 `json:"affordability_similarity,omitempty"`
	CrisisCareSimilarity           *float64 `json:"crisis_care_similarity,omitempty"`
	AccessibilitySimilarity        *float64 `json:"accessibility_similarity,omitempty"`
	SpecializationSimilarity       *float64 `json:"specialization_similarity,omitempty"`
	CommunityIntegrationSimilarity *float64 `json:"community_integration_similarity,omitempty"`

	Source string `json:"source,omitempty"`

	Validation *ValidationResult `json:"validation,omitempty"`
	Badges     []string          `json:"badges,omitempty"`
}

// DimensionScores returns the per-dimension scores that are present.
func (f Facility) DimensionScores() []float64 {
	return presentValues(
		f.AffordabilityScore,
		f.CrisisCareScore,
		f.AccessibilityScore,
		f.SpecializationScore,
		f.CommunityIntegrationScore,
	)
}

// Similarities returns the per-dimension similarity values that are present.
func (f Facility) Similarities() []float64 {
	return presentValues(
		f.AffordabilitySimilarity,
		f.CrisisCareSimilarity,
		f.AccessibilitySimilarity,
		f.SpecializationSimilarity,
		f.CommunityIntegrationSimilarity,
	)
}

func presentValues(values ...*float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if v != nil {
			out = append(out, *v)
		}
	}
	return out
}

// ValidationResult is the reliability assessment attached to a facility.
// It is created fresh on every validation; re-validation replaces it.
type ValidationResult struct {
	ConfidenceLevel  ConfidenceLevel `json:"confidence_level"`
	Warnings         []string        `json:"warnings"`
	DataSource       string          `json:"data_source"`
	ReliabilityScore float64         `json:"reliability_score"`
}
